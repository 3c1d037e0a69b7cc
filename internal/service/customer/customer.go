// internal/service/customer/customer.go
package customer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"leaddesk-service/internal/domain/customer"
	"leaddesk-service/internal/domain/user"
	xerrors "leaddesk-service/internal/pkg/errors"
	"leaddesk-service/internal/repository/postgres"

	"go.uber.org/zap"
)

// Store is the customer persistence used by the service.
type Store interface {
	Create(ctx context.Context, c *customer.Customer) error
	FindByID(ctx context.Context, id int64) (*customer.Customer, error)
	Update(ctx context.Context, c *customer.Customer) error
	Delete(ctx context.Context, id int64) error
	SetAssignment(ctx context.Context, id int64, agentID *int64) (*customer.Customer, error)
	List(ctx context.Context, q postgres.ListQuery) ([]customer.Customer, int64, error)
}

// FieldCipher encrypts identity numbers at rest.
type FieldCipher interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}

// AssignmentNotifier is told when an agent gains or loses a lead.
type AssignmentNotifier interface {
	CustomerAssigned(agentID int64, c *customer.Customer)
	CustomerUnassigned(agentID int64, c *customer.Customer)
}

type CustomerService struct {
	repo     Store
	cipher   FieldCipher
	notifier AssignmentNotifier
	logger   *zap.Logger
}

func NewCustomerService(repo Store, cipher FieldCipher, notifier AssignmentNotifier, logger *zap.Logger) *CustomerService {
	return &CustomerService{
		repo:     repo,
		cipher:   cipher,
		notifier: notifier,
		logger:   logger,
	}
}

// CreateCustomer stores a new lead. Agents always own the leads they create;
// admins may pick the assignee.
func (s *CustomerService) CreateCustomer(ctx context.Context, actor *user.Actor, req *customer.CreateCustomerRequest) (*customer.Customer, error) {
	c := &customer.Customer{
		CustomerName:     strings.TrimSpace(req.CustomerName),
		MobileNumbers:    cleanList(req.MobileNumbers),
		Emails:           cleanList(req.Emails),
		CreditScore:      req.CreditScore,
		Address:          req.Address,
		PinCode:          req.PinCode,
		Income:           req.Income,
		PanFile:          req.PanFile,
		Selfie:           req.Selfie,
		IncomeProofFiles: cleanList(req.IncomeProofFiles),
	}
	if req.AadhaarFiles != nil {
		c.AadhaarFiles = *req.AadhaarFiles
	}

	verr := &xerrors.ValidationError{}
	if c.CustomerName == "" {
		verr.Add("customerName", "is required")
	}
	if len(c.MobileNumbers) == 0 {
		verr.Add("mobileNumbers", "at least one mobile number is required")
	}
	s.applyEnums(c, req.Gender, req.Occupation, verr)
	s.applyDOB(c, req.DOB, verr)
	if !verr.Empty() {
		return nil, verr
	}

	if err := s.sealIdentity(c, req.AadhaarNumber, req.PanNumber); err != nil {
		return nil, err
	}

	if actor.IsAdmin() {
		c.AssignedAgentID = req.AssignedAgentID
	} else {
		id := actor.ID
		c.AssignedAgentID = &id
	}

	if err := s.repo.Create(ctx, c); err != nil {
		if errors.Is(err, customer.ErrAgentNotFound) {
			return nil, xerrors.NewValidationError("assignedAgentId", "agent does not exist")
		}
		s.logger.Error("failed to create customer", zap.Error(err))
		return nil, err
	}

	s.logger.Info("customer created",
		zap.Int64("customer_id", c.ID),
		zap.Int64("created_by", actor.ID),
	)

	created, err := s.repo.FindByID(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	if created.AssignedAgentID != nil && *created.AssignedAgentID != actor.ID {
		s.notifyAssigned(*created.AssignedAgentID, created)
	}
	return s.reveal(created), nil
}

// GetCustomer returns one lead through the ownership gate.
func (s *CustomerService) GetCustomer(ctx context.Context, actor *user.Actor, id int64) (*customer.Customer, error) {
	c, err := s.loadAuthorized(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return s.reveal(c), nil
}

// ListCustomers pages through leads newest first. Agents only ever see their own.
func (s *CustomerService) ListCustomers(ctx context.Context, actor *user.Actor, filters *customer.CustomerListFilters) (*customer.CustomerListResponse, error) {
	page, limit, offset := customer.Paginate(filters.Page, filters.Limit)

	q := postgres.ListQuery{
		PinCode: strings.TrimSpace(filters.PinCode),
		Limit:   limit,
		Offset:  offset,
	}
	if actor.IsAdmin() {
		q.AgentID = filters.AgentID
	} else {
		id := actor.ID
		q.AgentID = &id
	}

	customers, total, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, err
	}
	for i := range customers {
		s.reveal(&customers[i])
	}

	return &customer.CustomerListResponse{
		Customers:  customers,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: customer.TotalPages(total, limit),
	}, nil
}

// UpdateCustomer overwrites the provided fields. Assignment is never touched here.
func (s *CustomerService) UpdateCustomer(ctx context.Context, actor *user.Actor, id int64, req *customer.UpdateCustomerRequest) (*customer.Customer, error) {
	c, err := s.loadAuthorized(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	verr := &xerrors.ValidationError{}
	if req.CustomerName != nil {
		c.CustomerName = strings.TrimSpace(*req.CustomerName)
		if c.CustomerName == "" {
			verr.Add("customerName", "cannot be empty")
		}
	}
	if req.MobileNumbers != nil {
		c.MobileNumbers = cleanList(req.MobileNumbers)
		if len(c.MobileNumbers) == 0 {
			verr.Add("mobileNumbers", "at least one mobile number is required")
		}
	}
	if req.Emails != nil {
		c.Emails = cleanList(req.Emails)
	}
	if req.CreditScore != nil {
		c.CreditScore = req.CreditScore
	}
	if req.Address != nil {
		c.Address = req.Address
	}
	if req.PinCode != nil {
		c.PinCode = req.PinCode
	}
	if req.Income != nil {
		c.Income = req.Income
	}
	if req.AadhaarFiles != nil {
		if req.AadhaarFiles.FrontURL != nil {
			c.AadhaarFiles.FrontURL = req.AadhaarFiles.FrontURL
		}
		if req.AadhaarFiles.BackURL != nil {
			c.AadhaarFiles.BackURL = req.AadhaarFiles.BackURL
		}
	}
	if req.PanFile != nil {
		c.PanFile = req.PanFile
	}
	if req.Selfie != nil {
		c.Selfie = req.Selfie
	}
	if req.IncomeProofFiles != nil {
		c.IncomeProofFiles = cleanList(req.IncomeProofFiles)
	}
	if len(req.AttachedIncomeProofFiles) > 0 {
		c.IncomeProofFiles = append(cleanList(c.IncomeProofFiles), cleanList(req.AttachedIncomeProofFiles)...)
	}
	s.applyEnums(c, req.Gender, req.Occupation, verr)
	s.applyDOB(c, req.DOB, verr)
	if !verr.Empty() {
		return nil, verr
	}

	if err := s.sealIdentity(c, req.AadhaarNumber, req.PanNumber); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, c); err != nil {
		s.logger.Error("failed to update customer", zap.Int64("customer_id", id), zap.Error(err))
		return nil, err
	}

	s.logger.Info("customer updated",
		zap.Int64("customer_id", id),
		zap.Int64("updated_by", actor.ID),
	)
	return s.reveal(c), nil
}

// DeleteCustomer removes a lead and its call history.
func (s *CustomerService) DeleteCustomer(ctx context.Context, actor *user.Actor, id int64) error {
	if _, err := s.loadAuthorized(ctx, actor, id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete customer", zap.Int64("customer_id", id), zap.Error(err))
		return err
	}

	s.logger.Info("customer deleted",
		zap.Int64("customer_id", id),
		zap.Int64("deleted_by", actor.ID),
	)
	return nil
}

// AssignCustomer hands a lead to agentID. Admin only.
func (s *CustomerService) AssignCustomer(ctx context.Context, actor *user.Actor, id, agentID int64) (*customer.Customer, error) {
	if !actor.IsAdmin() {
		return nil, xerrors.ErrForbidden
	}

	before, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	after, err := s.repo.SetAssignment(ctx, id, &agentID)
	if err != nil {
		if errors.Is(err, customer.ErrAgentNotFound) {
			return nil, xerrors.NewValidationError("agentId", "agent does not exist")
		}
		return nil, err
	}

	s.logger.Info("customer assigned",
		zap.Int64("customer_id", id),
		zap.Int64("agent_id", agentID),
		zap.Int64("assigned_by", actor.ID),
	)

	if before.AssignedAgentID != nil && *before.AssignedAgentID != agentID {
		s.notifyUnassigned(*before.AssignedAgentID, after)
	}
	s.notifyAssigned(agentID, after)

	return s.reveal(after), nil
}

// UnassignCustomer clears the assignment. Admin only.
func (s *CustomerService) UnassignCustomer(ctx context.Context, actor *user.Actor, id int64) (*customer.Customer, error) {
	if !actor.IsAdmin() {
		return nil, xerrors.ErrForbidden
	}

	before, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	after, err := s.repo.SetAssignment(ctx, id, nil)
	if err != nil {
		return nil, err
	}

	s.logger.Info("customer unassigned",
		zap.Int64("customer_id", id),
		zap.Int64("unassigned_by", actor.ID),
	)

	if before.AssignedAgentID != nil {
		s.notifyUnassigned(*before.AssignedAgentID, after)
	}

	return s.reveal(after), nil
}

func (s *CustomerService) loadAuthorized(ctx context.Context, actor *user.Actor, id int64) (*customer.Customer, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := customer.Authorize(actor, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CustomerService) applyEnums(c *customer.Customer, gender, occupation *string, verr *xerrors.ValidationError) {
	if gender != nil {
		g := customer.Gender(strings.ToLower(strings.TrimSpace(*gender)))
		if g.Valid() {
			c.Gender = &g
		} else {
			verr.Add("gender", "must be one of male, female, other")
		}
	}
	if occupation != nil {
		o := customer.Occupation(strings.ToLower(strings.TrimSpace(*occupation)))
		if o.Valid() {
			c.Occupation = &o
		} else {
			verr.Add("occupation", "must be one of salary, non-salary, business, other")
		}
	}
}

func (s *CustomerService) applyDOB(c *customer.Customer, dob *string, verr *xerrors.ValidationError) {
	if dob == nil {
		return
	}
	d, ok := customer.ParseDate(*dob)
	if !ok {
		verr.Add("dob", "must be a date such as 1990-08-15")
		return
	}
	c.DOB = d
}

// sealIdentity encrypts provided identity numbers into c.
func (s *CustomerService) sealIdentity(c *customer.Customer, aadhaar, pan *string) error {
	if aadhaar != nil {
		sealed, err := s.seal(*aadhaar)
		if err != nil {
			return err
		}
		c.AadhaarNumber = sealed
	}
	if pan != nil {
		sealed, err := s.seal(strings.ToUpper(*pan))
		if err != nil {
			return err
		}
		c.PanNumber = sealed
	}
	return nil
}

func (s *CustomerService) seal(plain string) (*string, error) {
	plain = strings.TrimSpace(plain)
	if plain == "" {
		return nil, nil
	}
	sealed, err := s.cipher.Encrypt(plain)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt identity number: %w", err)
	}
	return &sealed, nil
}

// reveal decrypts identity numbers in place. Undecryptable values are dropped.
func (s *CustomerService) reveal(c *customer.Customer) *customer.Customer {
	c.AadhaarNumber = s.open(c.ID, "aadhaarNumber", c.AadhaarNumber)
	c.PanNumber = s.open(c.ID, "panNumber", c.PanNumber)
	return c
}

func (s *CustomerService) open(id int64, field string, sealed *string) *string {
	if sealed == nil || *sealed == "" {
		return nil
	}
	plain, err := s.cipher.Decrypt(*sealed)
	if err != nil {
		s.logger.Warn("failed to decrypt identity number",
			zap.Int64("customer_id", id),
			zap.String("field", field),
			zap.Error(err),
		)
		return nil
	}
	return &plain
}

func (s *CustomerService) notifyAssigned(agentID int64, c *customer.Customer) {
	if s.notifier != nil {
		s.notifier.CustomerAssigned(agentID, c)
	}
}

func (s *CustomerService) notifyUnassigned(agentID int64, c *customer.Customer) {
	if s.notifier != nil {
		s.notifier.CustomerUnassigned(agentID, c)
	}
}

func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
