package storage

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"leads_service/internal/models"

	"github.com/gofrs/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

const (
	usersTable = "users"
	leadsTable = "leads"

	leadColumns = "id, user_id, lead_number, display_id, name, email, status, company, phone, notes, created_at, updated_at"

	uniqueViolation = "23505"
)

var (
	ErrNotFound   = errors.New("record not found")
	ErrUserExists = errors.New("user already exists")
)

//go:embed schema/schema.sql
var schemaSQL string

type Storage interface {

	// Users and credentials
	CreateUser(ctx context.Context, email, passwordHash string) (models.User, error)
	UserExistsByEmail(ctx context.Context, email string) (bool, error)
	GetCredentialsByEmail(ctx context.Context, email string) (models.Credentials, error)

	// Leads, always scoped to the owning user
	CreateLead(ctx context.Context, userID uuid.UUID, lead models.NewLead) (models.Lead, error)
	GetLead(ctx context.Context, userID, leadID uuid.UUID) (models.Lead, error)
	ListLeads(ctx context.Context, userID uuid.UUID, filter models.LeadFilter) ([]models.Lead, error)
	CountLeads(ctx context.Context, userID uuid.UUID, filter models.LeadFilter) (int64, error)
	UpdateLead(ctx context.Context, userID, leadID uuid.UUID, patch models.LeadPatch) (models.Lead, error)
	DeleteLead(ctx context.Context, userID, leadID uuid.UUID) error

	Ping(ctx context.Context) error
	Close()
}

type PostgresStorage struct {
	db *pgxpool.Pool
}

func NewPostgresStorage(ctx context.Context, dbURL string) (*PostgresStorage, error) {
	const op = "storage.NewPostgresStorage"

	conn, err := pgxpool.Connect(ctx, dbURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &PostgresStorage{
		db: conn,
	}, nil
}

// Migrate applies the embedded schema. Every statement is idempotent.
func (p *PostgresStorage) Migrate(ctx context.Context) error {
	const op = "storage.Migrate"

	if _, err := p.db.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (p *PostgresStorage) CreateUser(ctx context.Context, email, passwordHash string) (models.User, error) {
	const op = "storage.CreateUser"

	var user models.User
	query := fmt.Sprintf("INSERT INTO %s(email, password_hash) VALUES ($1, $2) RETURNING id, email, created_at;", usersTable)

	err := p.db.QueryRow(ctx, query, email, passwordHash).Scan(&user.ID, &user.Email, &user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return user, fmt.Errorf("%s: %w", op, ErrUserExists)
		}
		return user, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}

func (p *PostgresStorage) UserExistsByEmail(ctx context.Context, email string) (bool, error) {
	const op = "storage.UserExistsByEmail"

	var exists bool
	query := fmt.Sprintf("SELECT EXISTS (SELECT 1 FROM %s WHERE LOWER(email)=$1);", usersTable)

	if err := p.db.QueryRow(ctx, query, strings.ToLower(email)).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return exists, nil
}

func (p *PostgresStorage) GetCredentialsByEmail(ctx context.Context, email string) (models.Credentials, error) {
	const op = "storage.GetCredentialsByEmail"

	var cred models.Credentials
	query := fmt.Sprintf("SELECT id, email, password_hash FROM %s WHERE LOWER(email)=$1;", usersTable)

	err := p.db.QueryRow(ctx, query, strings.ToLower(email)).Scan(&cred.UserID, &cred.Email, &cred.PasswordHash)
	if err != nil {
		return cred, fmt.Errorf("%s: %w", op, notFound(err))
	}

	return cred, nil
}

func (p *PostgresStorage) CreateLead(ctx context.Context, userID uuid.UUID, lead models.NewLead) (models.Lead, error) {
	const op = "storage.CreateLead"

	query := fmt.Sprintf(`INSERT INTO %s(user_id, name, email, status, company, phone, notes)
	VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING %s;`, leadsTable, leadColumns)

	created, err := scanLead(p.db.QueryRow(ctx, query,
		userID, lead.Name, lead.Email, string(lead.Status), lead.Company, lead.Phone, lead.Notes))
	if err != nil {
		return models.Lead{}, fmt.Errorf("%s: %w", op, err)
	}

	return created, nil
}

func (p *PostgresStorage) GetLead(ctx context.Context, userID, leadID uuid.UUID) (models.Lead, error) {
	const op = "storage.GetLead"

	query := fmt.Sprintf("SELECT %s FROM %s WHERE id=$1 AND user_id=$2;", leadColumns, leadsTable)

	lead, err := scanLead(p.db.QueryRow(ctx, query, leadID, userID))
	if err != nil {
		return models.Lead{}, fmt.Errorf("%s: %w", op, notFound(err))
	}

	return lead, nil
}

func (p *PostgresStorage) ListLeads(ctx context.Context, userID uuid.UUID, filter models.LeadFilter) ([]models.Lead, error) {
	const op = "storage.ListLeads"

	query, args := buildListQuery(userID, filter)

	rows, err := p.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	leads := make([]models.Lead, 0, max(filter.PageSize, 0))
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		leads = append(leads, lead)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s (rows): %w", op, err)
	}

	return leads, nil
}

func (p *PostgresStorage) CountLeads(ctx context.Context, userID uuid.UUID, filter models.LeadFilter) (int64, error) {
	const op = "storage.CountLeads"

	query, args := buildCountQuery(userID, filter)

	var count int64
	if err := p.db.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return count, nil
}

func (p *PostgresStorage) UpdateLead(ctx context.Context, userID, leadID uuid.UUID, patch models.LeadPatch) (models.Lead, error) {
	const op = "storage.UpdateLead"

	query, args := buildUpdateQuery(userID, leadID, patch)

	lead, err := scanLead(p.db.QueryRow(ctx, query, args...))
	if err != nil {
		return models.Lead{}, fmt.Errorf("%s: %w", op, notFound(err))
	}

	return lead, nil
}

func (p *PostgresStorage) DeleteLead(ctx context.Context, userID, leadID uuid.UUID) error {
	const op = "storage.DeleteLead"

	query := fmt.Sprintf("DELETE FROM %s WHERE id=$1 AND user_id=$2;", leadsTable)

	tag, err := p.db.Exec(ctx, query, leadID, userID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}

	return nil
}

func (p *PostgresStorage) Ping(ctx context.Context) error {
	return p.db.Ping(ctx)
}

func (p *PostgresStorage) Close() {
	p.db.Close()
}

func scanLead(row pgx.Row) (models.Lead, error) {
	var (
		lead   models.Lead
		status string
	)

	err := row.Scan(
		&lead.ID,
		&lead.UserID,
		&lead.LeadNumber,
		&lead.DisplayID,
		&lead.Name,
		&lead.Email,
		&status,
		&lead.Company,
		&lead.Phone,
		&lead.Notes,
		&lead.CreatedAt,
		&lead.UpdatedAt,
	)
	lead.Status = models.LeadStatus(status)

	return lead, err
}

func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

var (
	_ Storage = (*PostgresStorage)(nil)
	_ Storage = (*MemoryStorage)(nil)
)
