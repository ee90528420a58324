package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"leads_service/internal/apperr"
	"leads_service/internal/metrics"
	"leads_service/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	ctxUserID    = "UserID"
	ctxRequestID = "RequestID"

	headerRequestID = "X-Request-ID"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	authService service.AuthService
	leadService service.LeadService
	db          Pinger
	metrics     *metrics.Metrics
	log         *slog.Logger
}

type errorResponse struct {
	Error string `json:"error"`
}

func newErrorResponse(c *gin.Context, statusCode int, errMessage string) {
	c.AbortWithStatusJSON(apperr.ClampStatus(statusCode), errorResponse{Error: errMessage})
}

// respondError translates err into its status and caller-facing message.
// The full error, including any internal cause, only goes to the log.
func respondError(c *gin.Context, log *slog.Logger, err error) {
	status := apperr.StatusCode(err)

	if status >= http.StatusInternalServerError {
		log.Error("request failed", slog.Any("error", err))
	} else {
		log.Info("request rejected", slog.Int("status", status), slog.Any("error", err))
	}

	newErrorResponse(c, status, apperr.Message(err))
}

// NewHandler wires the services into HTTP handlers. db and m may be nil.
func NewHandler(authSrvc service.AuthService, leadSrvc service.LeadService, db Pinger, m *metrics.Metrics, lgr *slog.Logger) *Handler {
	return &Handler{
		authService: authSrvc,
		leadService: leadSrvc,
		db:          db,
		metrics:     m,
		log:         lgr,
	}
}

func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.HandleMethodNotAllowed = true

	router.Use(h.requestLogger(), h.recovery(), cors())

	router.NoRoute(func(c *gin.Context) {
		newErrorResponse(c, http.StatusNotFound, "Not Found")
	})
	router.NoMethod(func(c *gin.Context) {
		newErrorResponse(c, http.StatusMethodNotAllowed, "Method Not Allowed")
	})

	router.Any("/", h.Index)
	router.Any("/health", h.Health)

	if h.metrics != nil {
		router.GET("/metrics", gin.WrapH(h.metrics.Handler()))
	}

	auth := router.Group("/auth")
	{
		auth.POST("/login", h.Login)
		auth.POST("/register", h.Register)
	}

	leads := router.Group("/leads", h.AuthMiddleware())
	{
		leads.GET("", h.ListLeads)
		leads.POST("", h.CreateLead)
		leads.GET("/:id", h.GetLead)
		leads.PUT("/:id", h.UpdateLead)
		leads.DELETE("/:id", h.DeleteLead)
	}

	return router
}

// Handler returns the root http.Handler. Requests under /api, /public or
// /api/public are served as if the prefix were absent, and only the first
// two remaining segments are routed.
func (h *Handler) Handler() http.Handler {
	router := h.InitRoutes()

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.URL.Path = normalizePath(r.URL.Path)
		r.URL.RawPath = ""
		router.ServeHTTP(w, r)
	})
}

func normalizePath(path string) string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return "/"
	}

	segments := strings.Split(trimmed, "/")
	if len(segments) > 0 && segments[0] == "api" {
		segments = segments[1:]
	}
	if len(segments) > 0 && segments[0] == "public" {
		segments = segments[1:]
	}
	// resource and optional id; anything after them is ignored
	if len(segments) > 2 {
		segments = segments[:2]
	}

	return "/" + strings.Join(segments, "/")
}

func (h *Handler) logger(c *gin.Context, op string) *slog.Logger {
	return h.log.With(slog.String("op", op), slog.String("request_id", c.GetString(ctxRequestID)))
}
