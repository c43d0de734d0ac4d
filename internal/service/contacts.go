package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"voxdesk/internal/csvfile"
	"voxdesk/internal/database"
	"voxdesk/internal/logger"
	"voxdesk/internal/models"
	"voxdesk/internal/validator"
)

// ErrContactNotFound is returned when a contact does not exist in the tenant
var ErrContactNotFound = errors.New("contact not found")

// ValidationError reports invalid request fields as field -> code
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, code := range e.Fields {
		parts = append(parts, field+": "+code)
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// ContactStore is the tenant-scoped contact store
type ContactStore interface {
	ImportStore
	Get(ctx context.Context, subAccountID, id string) (*models.Contact, error)
	List(ctx context.Context, subAccountID string) ([]*models.Contact, error)
	Update(ctx context.Context, c *models.Contact) error
	Delete(ctx context.Context, subAccountID, id string) error
}

// ContactService handles contact CRUD and export
type ContactService struct {
	store ContactStore
	log   *logger.Logger
}

// NewContactService creates a new contact service
func NewContactService(store ContactStore, log *logger.Logger) *ContactService {
	return &ContactService{store: store, log: log}
}

// List returns the tenant's contacts
func (s *ContactService) List(ctx context.Context, subAccountID string) ([]*models.Contact, error) {
	contacts, err := s.store.List(ctx, subAccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	if contacts == nil {
		contacts = []*models.Contact{}
	}
	return contacts, nil
}

// Get returns one contact
func (s *ContactService) Get(ctx context.Context, subAccountID, id string) (*models.Contact, error) {
	c, err := s.store.Get(ctx, subAccountID, id)
	if err != nil {
		return nil, translateStoreError(err)
	}
	return c, nil
}

// Create validates req and stores a new contact
func (s *ContactService) Create(ctx context.Context, subAccountID, createdBy string, req models.ContactRequest) (*models.Contact, error) {
	if fields := validator.Validate(req); fields != nil {
		return nil, &ValidationError{Fields: fields}
	}

	c := &models.Contact{SubAccountID: subAccountID, CreatedBy: createdBy}
	apply(c, req)
	if err := s.store.Create(ctx, c); err != nil {
		s.log.Errorw("failed to create contact", "sub_account_id", subAccountID, "error", err)
		return nil, fmt.Errorf("failed to create contact: %w", err)
	}
	return c, nil
}

// Update validates req and overwrites the contact's fields
func (s *ContactService) Update(ctx context.Context, subAccountID, id string, req models.ContactRequest) (*models.Contact, error) {
	if fields := validator.Validate(req); fields != nil {
		return nil, &ValidationError{Fields: fields}
	}

	c, err := s.store.Get(ctx, subAccountID, id)
	if err != nil {
		return nil, translateStoreError(err)
	}
	apply(c, req)
	if err := s.store.Update(ctx, c); err != nil {
		s.log.Errorw("failed to update contact", "sub_account_id", subAccountID, "id", id, "error", err)
		return nil, translateStoreError(err)
	}
	return c, nil
}

// Delete removes a contact
func (s *ContactService) Delete(ctx context.Context, subAccountID, id string) error {
	if err := s.store.Delete(ctx, subAccountID, id); err != nil {
		return translateStoreError(err)
	}
	return nil
}

// Export writes every contact of the tenant as CSV to w
func (s *ContactService) Export(ctx context.Context, subAccountID string, w io.Writer) error {
	contacts, err := s.List(ctx, subAccountID)
	if err != nil {
		return err
	}
	records := make([]models.Contact, len(contacts))
	for i, c := range contacts {
		records[i] = *c
	}
	if err := csvfile.Write(w, records); err != nil {
		s.log.Errorw("failed to export contacts", "sub_account_id", subAccountID, "error", err)
		return fmt.Errorf("failed to export contacts: %w", err)
	}
	return nil
}

func apply(c *models.Contact, req models.ContactRequest) {
	first, last := strings.TrimSpace(req.FirstName), strings.TrimSpace(req.LastName)
	if first == "" && last == "" {
		first, last = splitFullName(req.Name)
	}
	c.FirstName = first
	c.LastName = last
	c.Name = strings.TrimSpace(first + " " + last)
	c.Email = strings.ToLower(strings.TrimSpace(req.Email))
	c.Phone = strings.TrimSpace(req.Phone)
	c.Company = strings.TrimSpace(req.Company)

	c.Tags = []string{}
	for _, t := range req.Tags {
		if t = strings.TrimSpace(t); t != "" {
			c.Tags = append(c.Tags, t)
		}
	}

	c.Status = strings.TrimSpace(req.Status)
	if c.Status == "" {
		c.Status = models.DefaultStatus
	}
	c.LeadSource = strings.TrimSpace(req.LeadSource)
	if c.LeadSource == "" {
		c.LeadSource = models.DefaultManualLeadSource
	}
	if req.Score != nil {
		c.Score = *req.Score
	}
}

func translateStoreError(err error) error {
	if errors.Is(err, database.ErrNotFound) {
		return ErrContactNotFound
	}
	return err
}
