// internal/app/server.go
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"leaddesk-service/internal/config"
	"leaddesk-service/internal/db"
	authHandler "leaddesk-service/internal/handlers/auth"
	callHandler "leaddesk-service/internal/handlers/callhistory"
	customerHandler "leaddesk-service/internal/handlers/customer"
	notifyH "leaddesk-service/internal/handlers/notification"
	uploadHandler "leaddesk-service/internal/handlers/upload"
	wsHandler "leaddesk-service/internal/handlers/websocket"
	"leaddesk-service/internal/middleware"
	"leaddesk-service/internal/pkg/crypto"
	"leaddesk-service/internal/pkg/jwt"
	"leaddesk-service/internal/pkg/session"
	"leaddesk-service/internal/pkg/storage"
	"leaddesk-service/internal/repository/postgres"
	authUsecase "leaddesk-service/internal/service/auth"
	callsvc "leaddesk-service/internal/service/callhistory"
	customersvc "leaddesk-service/internal/service/customer"
	"leaddesk-service/internal/service/email"
	"leaddesk-service/internal/service/importer"
	notifyUsecase "leaddesk-service/internal/service/notification"
	"leaddesk-service/internal/service/upload"
	"leaddesk-service/internal/websocket"
	wsHandlers "leaddesk-service/internal/websocket/handler"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const loginWindow = 15 * time.Minute

type Server struct {
	cfg    config.AppConfig
	engine *gin.Engine
	logger *zap.Logger

	httpServer *http.Server
	pool       *pgxpool.Pool
	redis      *redis.Client
	stopHub    context.CancelFunc
}

func NewServer(cfg config.AppConfig, logger *zap.Logger) *Server {
	engine := gin.New()
	return &Server{cfg: cfg, engine: engine, logger: logger}
}

// Start wires every dependency and serves HTTP until Shutdown is called.
func (s *Server) Start(ctx context.Context) error {
	if err := s.cfg.Validate(); err != nil {
		return err
	}

	// ----- PostgreSQL -----
	pool, err := db.ConnectDB(ctx, db.PostgresConfig{URL: s.cfg.DatabaseURL})
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	s.pool = pool
	if err := db.EnsureSchema(ctx, pool); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	s.logger.Info("postgres connected")

	// ----- Redis -----
	redisClient, err := db.NewRedisClient(ctx, db.RedisConfig{
		Addr:     s.cfg.RedisAddr,
		Password: s.cfg.RedisPass,
		PoolSize: 10,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	s.redis = redisClient
	s.logger.Info("redis connected")

	// ----- JWT Manager -----
	jwtManager, err := jwt.LoadAndBuild(s.cfg.JWT)
	if err != nil {
		return fmt.Errorf("failed to load JWT manager: %w", err)
	}

	// ----- Field encryption -----
	cipher, err := crypto.NewFieldCipher(s.cfg.EncryptionKey)
	if err != nil {
		return fmt.Errorf("failed to build field cipher: %w", err)
	}

	// ----- File relay -----
	store, err := s.buildStore(ctx)
	if err != nil {
		return err
	}

	// ----- Session blacklist & Rate Limiter -----
	blacklist := session.NewBlacklist(redisClient)
	rateLimiter := session.NewRateLimiter(redisClient, s.cfg.LoginMaxAttempts, loginWindow)

	// ----- Email -----
	emailSender := email.NewEmailSender(
		s.cfg.SMTPHost,
		s.cfg.SMTPPort,
		s.cfg.SMTPUser,
		s.cfg.SMTPPass,
		s.cfg.SMTPFromName,
		s.cfg.SMTPSecure,
	)
	emailHelper := authUsecase.NewEmailHelper(emailSender, s.logger, s.cfg.PublicBaseURL)

	// ----- Repositories -----
	dbWrapper := postgres.NewDB(pool)
	userRepo := postgres.NewUserRepository(pool)
	customerRepo := postgres.NewCustomerRepository(dbWrapper)
	callRepo := postgres.NewCallHistoryRepository(pool)
	notifyRepo := postgres.NewNotificationRepository(pool)

	// ----- Services (Usecases) -----
	authService := authUsecase.NewAuthService(userRepo, jwtManager, rateLimiter, blacklist, emailHelper, s.logger)

	// ----- WebSocket Hub -----
	hub := websocket.NewHub(authService, s.logger)

	notifService := notifyUsecase.NewNotificationService(notifyRepo, hub, s.logger)
	customerService := customersvc.NewCustomerService(customerRepo, cipher, notifService, s.logger)
	callService := callsvc.NewCallHistoryService(callRepo, customerRepo, s.logger)
	uploadService := upload.NewUploadService(store, s.logger)
	importService := importer.NewImporter(customerRepo, cipher, notifService, s.cfg.ImportBatchSize, s.logger)

	hub.RegisterHandler(wsHandlers.NewDashboardHandler(callService))
	hubCtx, stopHub := context.WithCancel(context.Background())
	s.stopHub = stopHub
	go hub.Run(hubCtx)

	// ----- Bootstrap admin -----
	if err := s.ensureAdmin(ctx, authService); err != nil {
		s.logger.Error("failed to ensure admin exists", zap.Error(err))
	}

	// ----- Middlewares -----
	authMiddleware := middleware.NewAuthMiddleware(authService)

	s.engine.Use(
		middleware.RecoveryMiddleware(s.logger),
		middleware.LoggingMiddleware(s.logger),
		middleware.CORSMiddleware(),
	)

	// ----- Router -----
	handlers := &Handlers{
		AuthHandler:        authHandler.NewAuthHandler(authService, s.logger),
		CustomerHandler:    customerHandler.NewCustomerHandler(customerService, uploadService, importService, s.logger),
		CallHistoryHandler: callHandler.NewCallHistoryHandler(callService),
		UploadHandler:      uploadHandler.NewUploadHandler(uploadService),
		NotifHandler:       notifyH.NewNotificationHandler(notifService),
		WSHandler:          wsHandler.NewWebSocketHandler(hub, s.logger),
		AuthMiddleware:     authMiddleware,
	}
	if !s.cfg.S3.Enabled() {
		handlers.UploadDir = s.cfg.UploadDir
	}
	SetupRouter(s.engine, handlers)

	// ----- Start HTTP -----
	if err := ctx.Err(); err != nil {
		return err
	}
	s.httpServer = &http.Server{
		Addr:              s.cfg.HTTPAddr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("server running", zap.String("addr", s.cfg.HTTPAddr))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests, then closes the hub and the connection pools.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	if s.httpServer != nil {
		err = s.httpServer.Shutdown(ctx)
	}
	if s.stopHub != nil {
		s.stopHub()
	}
	if s.redis != nil {
		_ = s.redis.Close()
	}
	if s.pool != nil {
		s.pool.Close()
	}
	return err
}

func (s *Server) buildStore(ctx context.Context) (storage.Store, error) {
	if s.cfg.S3.Enabled() {
		store, err := storage.NewS3Store(ctx, storage.S3Config{
			Endpoint:        s.cfg.S3.Endpoint,
			AccessKeyID:     s.cfg.S3.AccessKeyID,
			SecretAccessKey: s.cfg.S3.SecretAccessKey,
			Bucket:          s.cfg.S3.Bucket,
			UseSSL:          s.cfg.S3.UseSSL,
			PublicURL:       s.cfg.S3.PublicURL,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to object storage: %w", err)
		}
		s.logger.Info("file relay: object storage", zap.String("bucket", s.cfg.S3.Bucket))
		return store, nil
	}

	store, err := storage.NewLocalStore(s.cfg.UploadDir, s.cfg.PublicBaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare upload directory: %w", err)
	}
	s.logger.Info("file relay: local disk", zap.String("dir", s.cfg.UploadDir))
	return store, nil
}

// ensureAdmin creates the bootstrap admin when credentials are configured and no admin exists.
func (s *Server) ensureAdmin(ctx context.Context, authService *authUsecase.AuthService) error {
	if s.cfg.BootstrapAdminEmail == "" || s.cfg.BootstrapAdminPassword == "" {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	created, err := authService.EnsureAdminExists(ctx, authUsecase.AdminSeed{
		Email:       s.cfg.BootstrapAdminEmail,
		Password:    s.cfg.BootstrapAdminPassword,
		DisplayName: s.cfg.BootstrapAdminName,
		AgentCode:   s.cfg.BootstrapAdminCode,
	})
	if err != nil {
		return err
	}
	if created {
		s.logger.Info("bootstrap admin created", zap.String("email", s.cfg.BootstrapAdminEmail))
	}
	return nil
}
