package models

import (
	"time"

	"github.com/gofrs/uuid"
)

type Credentials struct {
	UserID       uuid.UUID
	Email        string
	PasswordHash string // bcrypt hash
}

type User struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"-"`
}

type LeadStatus string

const (
	StatusNew          LeadStatus = "New"
	StatusEngaged      LeadStatus = "Engaged"
	StatusProposalSent LeadStatus = "Proposal Sent"
	StatusClosedWon    LeadStatus = "Closed-Won"
	StatusClosedLost   LeadStatus = "Closed-Lost"
)

var LeadStatuses = []LeadStatus{
	StatusNew,
	StatusEngaged,
	StatusProposalSent,
	StatusClosedWon,
	StatusClosedLost,
}

func (s LeadStatus) Valid() bool {
	for _, status := range LeadStatuses {
		if s == status {
			return true
		}
	}
	return false
}

type Lead struct {
	ID         uuid.UUID  `json:"id"`
	UserID     uuid.UUID  `json:"user_id"`
	LeadNumber int64      `json:"lead_number"`
	DisplayID  string     `json:"display_id"`
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	Status     LeadStatus `json:"status"`
	Company    *string    `json:"company"`
	Phone      *string    `json:"phone"`
	Notes      *string    `json:"notes"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// NewLead is the validated input for inserting a lead.
type NewLead struct {
	Name    string
	Email   string
	Status  LeadStatus
	Company *string
	Phone   *string
	Notes   *string
}

// LeadPatch holds the fields to change on a lead. Nil fields are left untouched.
type LeadPatch struct {
	Name    *string
	Email   *string
	Status  *LeadStatus
	Company *string
	Phone   *string
	Notes   *string
}

func (p LeadPatch) Empty() bool {
	return p.Name == nil && p.Email == nil && p.Status == nil &&
		p.Company == nil && p.Phone == nil && p.Notes == nil
}

type SortField string

const (
	SortByName      SortField = "name"
	SortByEmail     SortField = "email"
	SortByStatus    SortField = "status"
	SortByCreatedAt SortField = "created_at"
	SortByCompany   SortField = "company"
)

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// LeadFilter selects a page of one owner's leads. Zero values mean "no constraint".
type LeadFilter struct {
	Status    LeadStatus
	Search    string
	DateFrom  *time.Time
	DateTo    *time.Time
	SortField SortField
	SortOrder SortOrder
	Page      int
	PageSize  int
}

func (f LeadFilter) Offset() int {
	return (f.Page - 1) * f.PageSize
}

type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalCount int64 `json:"total_count"`
	TotalPages int64 `json:"total_pages"`
}

type LeadPage struct {
	Data       []Lead     `json:"data"`
	Pagination Pagination `json:"pagination"`
}
