package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"leads_service/internal/apperr"
	"leads_service/internal/models"
	"leads_service/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
)

const (
	statusAll = "all"
	dateOnly  = "2006-01-02"
)

type createLeadRequest struct {
	Name    string            `json:"name"`
	Email   string            `json:"email"`
	Status  models.LeadStatus `json:"status"`
	Company *string           `json:"company"`
	Phone   *string           `json:"phone"`
	Notes   *string           `json:"notes"`
}

// updateLeadRequest uses pointers so that absent and null fields are told apart from empty ones.
type updateLeadRequest struct {
	Name    *string            `json:"name"`
	Email   *string            `json:"email"`
	Status  *models.LeadStatus `json:"status"`
	Company *string            `json:"company"`
	Phone   *string            `json:"phone"`
	Notes   *string            `json:"notes"`
}

type listLeadsQuery struct {
	Status    string `form:"status"`
	Search    string `form:"search"`
	DateFrom  string `form:"date_from"`
	DateTo    string `form:"date_to"`
	SortField string `form:"sort_field"`
	SortOrder string `form:"sort_order"`
	Page      string `form:"page"`
	PageSize  string `form:"page_size"`
}

func (q listLeadsQuery) filter() (models.LeadFilter, error) {
	filter := models.LeadFilter{
		Search:    q.Search,
		SortField: models.SortField(q.SortField),
		SortOrder: models.SortOrder(strings.ToLower(q.SortOrder)),
	}

	// unparsable paging values count as absent; explicit ones are clamped later
	filter.Page, _ = atoi(q.Page)
	if size, ok := atoi(q.PageSize); ok {
		filter.PageSize = max(size, 1)
	}

	if q.Status != statusAll {
		filter.Status = models.LeadStatus(q.Status)
	}

	var err error
	if filter.DateFrom, err = parseDate(q.DateFrom, false); err != nil {
		return filter, err
	}
	if filter.DateTo, err = parseDate(q.DateTo, true); err != nil {
		return filter, err
	}

	return filter, nil
}

func atoi(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return n, true
}

// parseDate accepts RFC 3339 timestamps or plain dates. A plain upper bound covers the whole day.
func parseDate(s string, endOfDay bool) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}

	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}

	t, err := time.Parse(dateOnly, s)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInvalidInput, "Invalid date format", err)
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}

	return &t, nil
}

// leadID parses the path id. Ids that cannot exist are reported like missing leads.
func leadID(c *gin.Context) (uuid.UUID, error) {
	id, err := uuid.FromString(c.Param("id"))
	if err != nil {
		return uuid.Nil, service.LeadNotFound()
	}
	return id, nil
}

func userID(c *gin.Context) uuid.UUID {
	return c.MustGet(ctxUserID).(uuid.UUID)
}

// GET /leads
func (h *Handler) ListLeads(c *gin.Context) {
	const op = "handler.ListLeads"

	log := h.logger(c, op)

	var q listLeadsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondError(c, log, apperr.Wrap(apperr.KindInvalidInput, "Invalid query parameters", err))

		return
	}

	filter, err := q.filter()
	if err != nil {
		respondError(c, log, err)

		return
	}

	page, err := h.leadService.List(c.Request.Context(), userID(c), filter)
	if err != nil {
		respondError(c, log, err)

		return
	}

	c.JSON(http.StatusOK, page)
}

// GET /leads/:id
func (h *Handler) GetLead(c *gin.Context) {
	const op = "handler.GetLead"

	log := h.logger(c, op)

	id, err := leadID(c)
	if err != nil {
		respondError(c, log, err)

		return
	}

	lead, err := h.leadService.Get(c.Request.Context(), userID(c), id)
	if err != nil {
		respondError(c, log, err)

		return
	}

	c.JSON(http.StatusOK, lead)
}

// POST /leads
func (h *Handler) CreateLead(c *gin.Context) {
	const op = "handler.CreateLead"

	log := h.logger(c, op)

	var req createLeadRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, log, err)

		return
	}

	lead, err := h.leadService.Create(c.Request.Context(), userID(c), models.NewLead{
		Name:    req.Name,
		Email:   req.Email,
		Status:  req.Status,
		Company: req.Company,
		Phone:   req.Phone,
		Notes:   req.Notes,
	})
	if err != nil {
		respondError(c, log, err)

		return
	}

	c.JSON(http.StatusCreated, lead)
}

// PUT /leads/:id
func (h *Handler) UpdateLead(c *gin.Context) {
	const op = "handler.UpdateLead"

	log := h.logger(c, op)

	id, err := leadID(c)
	if err != nil {
		respondError(c, log, err)

		return
	}

	var req updateLeadRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, log, err)

		return
	}

	lead, err := h.leadService.Update(c.Request.Context(), userID(c), id, models.LeadPatch{
		Name:    req.Name,
		Email:   req.Email,
		Status:  req.Status,
		Company: req.Company,
		Phone:   req.Phone,
		Notes:   req.Notes,
	})
	if err != nil {
		respondError(c, log, err)

		return
	}

	c.JSON(http.StatusOK, lead)
}

// DELETE /leads/:id
func (h *Handler) DeleteLead(c *gin.Context) {
	const op = "handler.DeleteLead"

	log := h.logger(c, op)

	id, err := leadID(c)
	if err != nil {
		respondError(c, log, err)

		return
	}

	if err := h.leadService.Delete(c.Request.Context(), userID(c), id); err != nil {
		respondError(c, log, err)

		return
	}

	c.Status(http.StatusNoContent)
}
