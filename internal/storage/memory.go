package storage

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"leads_service/internal/models"

	"github.com/gofrs/uuid"
)

// MemoryStorage is an in-process Storage for local development and tests.
// It follows the postgres semantics closely but does not persist anything.
type MemoryStorage struct {
	mu sync.RWMutex

	users      map[uuid.UUID]*memoryUser
	leads      map[uuid.UUID]*models.Lead
	leadNumber int64

	now func() time.Time
}

type memoryUser struct {
	user         models.User
	passwordHash string
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		users: make(map[uuid.UUID]*memoryUser),
		leads: make(map[uuid.UUID]*models.Lead),
		now:   time.Now,
	}
}

func (m *MemoryStorage) CreateUser(ctx context.Context, email, passwordHash string) (models.User, error) {
	const op = "storage.memory.CreateUser"

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.findUserLocked(email) != nil {
		return models.User{}, fmt.Errorf("%s: %w", op, ErrUserExists)
	}

	id, err := uuid.NewV4()
	if err != nil {
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	u := &memoryUser{
		user:         models.User{ID: id, Email: email, CreatedAt: m.now().UTC()},
		passwordHash: passwordHash,
	}
	m.users[id] = u

	return u.user, nil
}

func (m *MemoryStorage) UserExistsByEmail(ctx context.Context, email string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.findUserLocked(email) != nil, nil
}

func (m *MemoryStorage) GetCredentialsByEmail(ctx context.Context, email string) (models.Credentials, error) {
	const op = "storage.memory.GetCredentialsByEmail"

	m.mu.RLock()
	defer m.mu.RUnlock()

	u := m.findUserLocked(email)
	if u == nil {
		return models.Credentials{}, fmt.Errorf("%s: %w", op, ErrNotFound)
	}

	return models.Credentials{UserID: u.user.ID, Email: u.user.Email, PasswordHash: u.passwordHash}, nil
}

func (m *MemoryStorage) findUserLocked(email string) *memoryUser {
	for _, u := range m.users {
		if strings.EqualFold(u.user.Email, email) {
			return u
		}
	}
	return nil
}

func (m *MemoryStorage) CreateLead(ctx context.Context, userID uuid.UUID, lead models.NewLead) (models.Lead, error) {
	const op = "storage.memory.CreateLead"

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[userID]; !ok {
		return models.Lead{}, fmt.Errorf("%s: unknown owner %s", op, userID)
	}

	id, err := uuid.NewV4()
	if err != nil {
		return models.Lead{}, fmt.Errorf("%s: %w", op, err)
	}

	status := lead.Status
	if status == "" {
		status = models.StatusNew
	}

	m.leadNumber++
	now := m.now().UTC()

	created := &models.Lead{
		ID:         id,
		UserID:     userID,
		LeadNumber: m.leadNumber,
		DisplayID:  fmt.Sprintf("LD-%05d", m.leadNumber),
		Name:       lead.Name,
		Email:      lead.Email,
		Status:     status,
		Company:    copyString(lead.Company),
		Phone:      copyString(lead.Phone),
		Notes:      copyString(lead.Notes),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	m.leads[id] = created

	return cloneLead(created), nil
}

func (m *MemoryStorage) GetLead(ctx context.Context, userID, leadID uuid.UUID) (models.Lead, error) {
	const op = "storage.memory.GetLead"

	m.mu.RLock()
	defer m.mu.RUnlock()

	lead, ok := m.leads[leadID]
	if !ok || lead.UserID != userID {
		return models.Lead{}, fmt.Errorf("%s: %w", op, ErrNotFound)
	}

	return cloneLead(lead), nil
}

func (m *MemoryStorage) ListLeads(ctx context.Context, userID uuid.UUID, filter models.LeadFilter) ([]models.Lead, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	matched := m.filterLocked(userID, filter)
	sortLeads(matched, filter)

	size := max(filter.PageSize, 0)
	leads := make([]models.Lead, 0, size)
	for i := max(filter.Offset(), 0); i < len(matched) && len(leads) < size; i++ {
		leads = append(leads, cloneLead(matched[i]))
	}

	return leads, nil
}

func (m *MemoryStorage) CountLeads(ctx context.Context, userID uuid.UUID, filter models.LeadFilter) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return int64(len(m.filterLocked(userID, filter))), nil
}

func (m *MemoryStorage) filterLocked(userID uuid.UUID, filter models.LeadFilter) []*models.Lead {
	search := strings.ToLower(filter.Search)

	var matched []*models.Lead
	for _, lead := range m.leads {
		if lead.UserID != userID {
			continue
		}
		if filter.Status != "" && lead.Status != filter.Status {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(lead.Name), search) &&
			!strings.Contains(strings.ToLower(lead.Email), search) {
			continue
		}
		if filter.DateFrom != nil && lead.CreatedAt.Before(*filter.DateFrom) {
			continue
		}
		if filter.DateTo != nil && lead.CreatedAt.After(*filter.DateTo) {
			continue
		}
		matched = append(matched, lead)
	}

	return matched
}

func (m *MemoryStorage) UpdateLead(ctx context.Context, userID, leadID uuid.UUID, patch models.LeadPatch) (models.Lead, error) {
	const op = "storage.memory.UpdateLead"

	m.mu.Lock()
	defer m.mu.Unlock()

	lead, ok := m.leads[leadID]
	if !ok || lead.UserID != userID {
		return models.Lead{}, fmt.Errorf("%s: %w", op, ErrNotFound)
	}

	if patch.Name != nil {
		lead.Name = *patch.Name
	}
	if patch.Email != nil {
		lead.Email = *patch.Email
	}
	if patch.Status != nil {
		lead.Status = *patch.Status
	}
	if patch.Company != nil {
		lead.Company = copyString(patch.Company)
	}
	if patch.Phone != nil {
		lead.Phone = copyString(patch.Phone)
	}
	if patch.Notes != nil {
		lead.Notes = copyString(patch.Notes)
	}

	now := m.now().UTC()
	if !now.After(lead.UpdatedAt) {
		now = lead.UpdatedAt.Add(time.Microsecond)
	}
	lead.UpdatedAt = now

	return cloneLead(lead), nil
}

func (m *MemoryStorage) DeleteLead(ctx context.Context, userID, leadID uuid.UUID) error {
	const op = "storage.memory.DeleteLead"

	m.mu.Lock()
	defer m.mu.Unlock()

	lead, ok := m.leads[leadID]
	if !ok || lead.UserID != userID {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}

	delete(m.leads, leadID)

	return nil
}

func (m *MemoryStorage) Ping(ctx context.Context) error {
	return nil
}

func (m *MemoryStorage) Close() {}

// sortLeads orders like the postgres query: NULL company sorts as the largest
// value, so it comes last ascending and first descending.
func sortLeads(leads []*models.Lead, filter models.LeadFilter) {
	desc := filter.SortOrder != models.SortAsc

	compare := func(a, b *models.Lead) int {
		switch filter.SortField {
		case models.SortByName:
			return strings.Compare(a.Name, b.Name)
		case models.SortByEmail:
			return strings.Compare(a.Email, b.Email)
		case models.SortByStatus:
			return strings.Compare(string(a.Status), string(b.Status))
		case models.SortByCompany:
			return compareNullable(a.Company, b.Company)
		}
		return a.CreatedAt.Compare(b.CreatedAt)
	}

	sort.SliceStable(leads, func(i, j int) bool {
		a, b := leads[i], leads[j]

		cmp := compare(a, b)
		if cmp == 0 {
			cmp = strings.Compare(a.ID.String(), b.ID.String())
		}

		if desc {
			return cmp > 0
		}
		return cmp < 0
	})
}

func compareNullable(a, b *string) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	return strings.Compare(*a, *b)
}

func cloneLead(l *models.Lead) models.Lead {
	c := *l
	c.Company = copyString(l.Company)
	c.Phone = copyString(l.Phone)
	c.Notes = copyString(l.Notes)
	return c
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
