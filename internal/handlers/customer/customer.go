// internal/handlers/customer/customer.go
package customer

import (
	"context"
	"io"
	"net/http"
	"strconv"

	"leaddesk-service/internal/domain/customer"
	"leaddesk-service/internal/domain/user"
	"leaddesk-service/internal/middleware"
	"leaddesk-service/internal/pkg/response"
	"leaddesk-service/internal/pkg/storage"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Service is the customer registry as seen by HTTP handlers.
type Service interface {
	CreateCustomer(ctx context.Context, actor *user.Actor, req *customer.CreateCustomerRequest) (*customer.Customer, error)
	GetCustomer(ctx context.Context, actor *user.Actor, id int64) (*customer.Customer, error)
	ListCustomers(ctx context.Context, actor *user.Actor, filters *customer.CustomerListFilters) (*customer.CustomerListResponse, error)
	UpdateCustomer(ctx context.Context, actor *user.Actor, id int64, req *customer.UpdateCustomerRequest) (*customer.Customer, error)
	DeleteCustomer(ctx context.Context, actor *user.Actor, id int64) error
	AssignCustomer(ctx context.Context, actor *user.Actor, id, agentID int64) (*customer.Customer, error)
	UnassignCustomer(ctx context.Context, actor *user.Actor, id int64) (*customer.Customer, error)
}

type Uploader interface {
	UploadMany(ctx context.Context, objs []storage.Object) ([]string, error)
	Remove(ctx context.Context, urls []string)
}

type Importer interface {
	Import(ctx context.Context, actor *user.Actor, name string, r io.Reader) (*customer.ImportResult, error)
}

type CustomerHandler struct {
	customerService Service
	uploader        Uploader
	importer        Importer
	logger          *zap.Logger
}

func NewCustomerHandler(customerService Service, uploader Uploader, importer Importer, logger *zap.Logger) *CustomerHandler {
	return &CustomerHandler{
		customerService: customerService,
		uploader:        uploader,
		importer:        importer,
		logger:          logger,
	}
}

// CreateCustomer accepts JSON, or multipart with a JSON "data" part plus files.
func (h *CustomerHandler) CreateCustomer(c *gin.Context) {
	actor := middleware.MustGetActor(c)

	var req customer.CreateCustomerRequest
	if err := bindBody(c, &req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	files, err := h.relayFiles(c.Request.Context(), c)
	if err != nil {
		response.FromError(c, err)
		return
	}
	files.applyCreate(&req)

	result, err := h.customerService.CreateCustomer(c.Request.Context(), actor, &req)
	if err != nil {
		h.discard(c.Request.Context(), files)
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, "customer created successfully", result)
}

// ListCustomers returns one page of the caller's visible leads.
func (h *CustomerHandler) ListCustomers(c *gin.Context) {
	actor := middleware.MustGetActor(c)

	var filters customer.CustomerListFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		response.ValidationError(c, "invalid query parameters", err)
		return
	}

	result, err := h.customerService.ListCustomers(c.Request.Context(), actor, &filters)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "customers retrieved", result)
}

// GetCustomer retrieves a customer by ID
func (h *CustomerHandler) GetCustomer(c *gin.Context) {
	actor := middleware.MustGetActor(c)

	customerID, ok := pathID(c)
	if !ok {
		return
	}

	result, err := h.customerService.GetCustomer(c.Request.Context(), actor, customerID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "customer retrieved", result)
}

func (h *CustomerHandler) UpdateCustomer(c *gin.Context) {
	actor := middleware.MustGetActor(c)

	customerID, ok := pathID(c)
	if !ok {
		return
	}

	var req customer.UpdateCustomerRequest
	if err := bindBody(c, &req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	// Nothing is uploaded for a lead the caller cannot see.
	if isMultipart(c) {
		if _, err := h.customerService.GetCustomer(c.Request.Context(), actor, customerID); err != nil {
			response.FromError(c, err)
			return
		}
	}

	files, err := h.relayFiles(c.Request.Context(), c)
	if err != nil {
		response.FromError(c, err)
		return
	}
	files.applyUpdate(&req)

	result, err := h.customerService.UpdateCustomer(c.Request.Context(), actor, customerID, &req)
	if err != nil {
		h.discard(c.Request.Context(), files)
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "customer updated successfully", result)
}

func (h *CustomerHandler) DeleteCustomer(c *gin.Context) {
	actor := middleware.MustGetActor(c)

	customerID, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.customerService.DeleteCustomer(c.Request.Context(), actor, customerID); err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "customer deleted successfully", nil)
}

// ========== Admin Endpoints ==========

func (h *CustomerHandler) AssignCustomer(c *gin.Context) {
	actor := middleware.MustGetActor(c)

	customerID, ok := pathID(c)
	if !ok {
		return
	}

	var req customer.AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	result, err := h.customerService.AssignCustomer(c.Request.Context(), actor, customerID, req.AgentID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "customer assigned successfully", result)
}

func (h *CustomerHandler) UnassignCustomer(c *gin.Context) {
	actor := middleware.MustGetActor(c)

	customerID, ok := pathID(c)
	if !ok {
		return
	}

	result, err := h.customerService.UnassignCustomer(c.Request.Context(), actor, customerID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "customer unassigned successfully", result)
}

// UploadCustomers bulk-imports a CSV or XLSX sheet sent as the "file" part.
func (h *CustomerHandler) UploadCustomers(c *gin.Context) {
	actor := middleware.MustGetActor(c)

	fh, err := c.FormFile("file")
	if err != nil {
		response.ValidationError(c, "file is required", err)
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.FromError(c, err)
		return
	}
	defer f.Close()

	result, err := h.importer.Import(c.Request.Context(), actor, fh.Filename, f)
	if err != nil {
		response.FromError(c, err)
		return
	}

	h.logger.Info("customer import finished",
		zap.Int64("admin_id", actor.ID),
		zap.String("file", fh.Filename),
		zap.Int("inserted", result.Inserted),
		zap.Int("failed", result.Failed),
	)
	response.Success(c, http.StatusOK, "customers imported", result)
}

// pathID parses the :id parameter, answering 400 itself when it is malformed.
func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.ValidationError(c, "invalid customer ID", err)
		return 0, false
	}
	return id, true
}
