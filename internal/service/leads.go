package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"leads_service/internal/apperr"
	"leads_service/internal/auth"
	"leads_service/internal/models"
	"leads_service/internal/storage"

	"github.com/gofrs/uuid"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100

	// MaxPage keeps (page-1)*page_size inside int.
	MaxPage = math.MaxInt / MaxPageSize

	msgLeadNotFound      = "Lead not found"
	msgNameEmailRequired = "Name and email are required"
	msgNoFieldsToUpdate  = "No fields to update"
	msgInvalidStatus     = "Invalid status"
	msgInvalidLeadEmail  = "Invalid email format"
	msgEmptyField        = "Name and email cannot be empty"
)

type LeadService interface {
	List(ctx context.Context, userID uuid.UUID, filter models.LeadFilter) (models.LeadPage, error)
	Get(ctx context.Context, userID, leadID uuid.UUID) (models.Lead, error)
	Create(ctx context.Context, userID uuid.UUID, lead models.NewLead) (models.Lead, error)
	Update(ctx context.Context, userID, leadID uuid.UUID, patch models.LeadPatch) (models.Lead, error)
	Delete(ctx context.Context, userID, leadID uuid.UUID) error
}

type leadService struct {
	storage storage.Storage
}

func NewLeadService(st storage.Storage) LeadService {
	return &leadService{
		storage: st,
	}
}

// NormalizeFilter clamps paging and replaces unknown sort settings with created_at desc.
func NormalizeFilter(filter models.LeadFilter) models.LeadFilter {
	switch {
	case filter.Page < 1:
		filter.Page = DefaultPage
	case filter.Page > MaxPage:
		filter.Page = MaxPage
	}

	switch {
	case filter.PageSize == 0:
		filter.PageSize = DefaultPageSize
	case filter.PageSize < 1:
		filter.PageSize = 1
	case filter.PageSize > MaxPageSize:
		filter.PageSize = MaxPageSize
	}

	switch filter.SortField {
	case models.SortByName, models.SortByEmail, models.SortByStatus, models.SortByCreatedAt, models.SortByCompany:
	default:
		filter.SortField = models.SortByCreatedAt
	}

	switch filter.SortOrder {
	case models.SortAsc, models.SortDesc:
	default:
		filter.SortOrder = models.SortDesc
	}

	return filter
}

func (s *leadService) List(ctx context.Context, userID uuid.UUID, filter models.LeadFilter) (models.LeadPage, error) {
	const op = "service.ListLeads"

	if filter.Status != "" && !filter.Status.Valid() {
		return models.LeadPage{}, apperr.InvalidInput(msgInvalidStatus)
	}

	filter = NormalizeFilter(filter)

	total, err := s.storage.CountLeads(ctx, userID, filter)
	if err != nil {
		return models.LeadPage{}, apperr.Internal(fmt.Errorf("%s: %w", op, err))
	}

	leads, err := s.storage.ListLeads(ctx, userID, filter)
	if err != nil {
		return models.LeadPage{}, apperr.Internal(fmt.Errorf("%s: %w", op, err))
	}
	if leads == nil {
		leads = []models.Lead{}
	}

	return models.LeadPage{
		Data: leads,
		Pagination: models.Pagination{
			Page:       filter.Page,
			PageSize:   filter.PageSize,
			TotalCount: total,
			TotalPages: totalPages(total, filter.PageSize),
		},
	}, nil
}

func totalPages(total int64, pageSize int) int64 {
	size := int64(pageSize)
	return (total + size - 1) / size
}

func (s *leadService) Get(ctx context.Context, userID, leadID uuid.UUID) (models.Lead, error) {
	const op = "service.GetLead"

	lead, err := s.storage.GetLead(ctx, userID, leadID)
	if err != nil {
		return models.Lead{}, leadError(op, err)
	}

	return lead, nil
}

func (s *leadService) Create(ctx context.Context, userID uuid.UUID, lead models.NewLead) (models.Lead, error) {
	const op = "service.CreateLead"

	lead.Name = strings.TrimSpace(lead.Name)
	lead.Email = strings.TrimSpace(lead.Email)
	if lead.Name == "" || lead.Email == "" {
		return models.Lead{}, apperr.InvalidInput(msgNameEmailRequired)
	}

	if !auth.IsValidEmail(lead.Email) {
		return models.Lead{}, apperr.InvalidInput(msgInvalidLeadEmail)
	}

	if lead.Status == "" {
		lead.Status = models.StatusNew
	}
	if !lead.Status.Valid() {
		return models.Lead{}, apperr.InvalidInput(msgInvalidStatus)
	}

	created, err := s.storage.CreateLead(ctx, userID, lead)
	if err != nil {
		return models.Lead{}, apperr.Internal(fmt.Errorf("%s: %w", op, err))
	}

	return created, nil
}

func (s *leadService) Update(ctx context.Context, userID, leadID uuid.UUID, patch models.LeadPatch) (models.Lead, error) {
	const op = "service.UpdateLead"

	// ownership is checked before the patch is even looked at
	if _, err := s.storage.GetLead(ctx, userID, leadID); err != nil {
		return models.Lead{}, leadError(op, err)
	}

	if patch.Empty() {
		return models.Lead{}, apperr.InvalidInput(msgNoFieldsToUpdate)
	}

	if err := validatePatch(&patch); err != nil {
		return models.Lead{}, err
	}

	// a concurrent delete between the check and the update surfaces as not found
	lead, err := s.storage.UpdateLead(ctx, userID, leadID, patch)
	if err != nil {
		return models.Lead{}, leadError(op, err)
	}

	return lead, nil
}

func validatePatch(patch *models.LeadPatch) error {
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return apperr.InvalidInput(msgEmptyField)
		}
		patch.Name = &name
	}

	if patch.Email != nil {
		email := strings.TrimSpace(*patch.Email)
		if email == "" {
			return apperr.InvalidInput(msgEmptyField)
		}
		if !auth.IsValidEmail(email) {
			return apperr.InvalidInput(msgInvalidLeadEmail)
		}
		patch.Email = &email
	}

	if patch.Status != nil && !patch.Status.Valid() {
		return apperr.InvalidInput(msgInvalidStatus)
	}

	return nil
}

func (s *leadService) Delete(ctx context.Context, userID, leadID uuid.UUID) error {
	const op = "service.DeleteLead"

	if err := s.storage.DeleteLead(ctx, userID, leadID); err != nil {
		return leadError(op, err)
	}

	return nil
}

// LeadNotFound is the error for any lead the caller cannot see, including malformed ids.
func LeadNotFound() error {
	return apperr.NotFound(msgLeadNotFound)
}

func leadError(op string, err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return LeadNotFound()
	}
	return apperr.Internal(fmt.Errorf("%s: %w", op, err))
}
