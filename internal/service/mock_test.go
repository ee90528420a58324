package service

import (
	"context"

	"leads_service/internal/models"
	"leads_service/internal/storage"

	"github.com/gofrs/uuid"
)

// mockStorage implements storage.Storage. Unset funcs return zero values.
type mockStorage struct {
	createUserFunc            func(ctx context.Context, email, passwordHash string) (models.User, error)
	userExistsByEmailFunc     func(ctx context.Context, email string) (bool, error)
	getCredentialsByEmailFunc func(ctx context.Context, email string) (models.Credentials, error)
	createLeadFunc            func(ctx context.Context, userID uuid.UUID, lead models.NewLead) (models.Lead, error)
	getLeadFunc               func(ctx context.Context, userID, leadID uuid.UUID) (models.Lead, error)
	listLeadsFunc             func(ctx context.Context, userID uuid.UUID, filter models.LeadFilter) ([]models.Lead, error)
	countLeadsFunc            func(ctx context.Context, userID uuid.UUID, filter models.LeadFilter) (int64, error)
	updateLeadFunc            func(ctx context.Context, userID, leadID uuid.UUID, patch models.LeadPatch) (models.Lead, error)
	deleteLeadFunc            func(ctx context.Context, userID, leadID uuid.UUID) error
}

var _ storage.Storage = (*mockStorage)(nil)

func (m *mockStorage) CreateUser(ctx context.Context, email, passwordHash string) (models.User, error) {
	if m.createUserFunc != nil {
		return m.createUserFunc(ctx, email, passwordHash)
	}
	return models.User{}, nil
}

func (m *mockStorage) UserExistsByEmail(ctx context.Context, email string) (bool, error) {
	if m.userExistsByEmailFunc != nil {
		return m.userExistsByEmailFunc(ctx, email)
	}
	return false, nil
}

func (m *mockStorage) GetCredentialsByEmail(ctx context.Context, email string) (models.Credentials, error) {
	if m.getCredentialsByEmailFunc != nil {
		return m.getCredentialsByEmailFunc(ctx, email)
	}
	return models.Credentials{}, storage.ErrNotFound
}

func (m *mockStorage) CreateLead(ctx context.Context, userID uuid.UUID, lead models.NewLead) (models.Lead, error) {
	if m.createLeadFunc != nil {
		return m.createLeadFunc(ctx, userID, lead)
	}
	return models.Lead{}, nil
}

func (m *mockStorage) GetLead(ctx context.Context, userID, leadID uuid.UUID) (models.Lead, error) {
	if m.getLeadFunc != nil {
		return m.getLeadFunc(ctx, userID, leadID)
	}
	return models.Lead{}, storage.ErrNotFound
}

func (m *mockStorage) ListLeads(ctx context.Context, userID uuid.UUID, filter models.LeadFilter) ([]models.Lead, error) {
	if m.listLeadsFunc != nil {
		return m.listLeadsFunc(ctx, userID, filter)
	}
	return nil, nil
}

func (m *mockStorage) CountLeads(ctx context.Context, userID uuid.UUID, filter models.LeadFilter) (int64, error) {
	if m.countLeadsFunc != nil {
		return m.countLeadsFunc(ctx, userID, filter)
	}
	return 0, nil
}

func (m *mockStorage) UpdateLead(ctx context.Context, userID, leadID uuid.UUID, patch models.LeadPatch) (models.Lead, error) {
	if m.updateLeadFunc != nil {
		return m.updateLeadFunc(ctx, userID, leadID, patch)
	}
	return models.Lead{}, nil
}

func (m *mockStorage) DeleteLead(ctx context.Context, userID, leadID uuid.UUID) error {
	if m.deleteLeadFunc != nil {
		return m.deleteLeadFunc(ctx, userID, leadID)
	}
	return nil
}

func (m *mockStorage) Ping(ctx context.Context) error { return nil }

func (m *mockStorage) Close() {}
