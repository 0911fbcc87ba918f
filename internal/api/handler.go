// Package api implements the candidature REST API.
// It exposes text screening, live gate sessions and the submission pipeline.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lsmc/candidature/internal/intake"
	"github.com/lsmc/candidature/internal/platform/logger"
	"github.com/lsmc/candidature/internal/session"
	"github.com/lsmc/candidature/pkg/scoring"
)

// Handler is the top-level API handler.
type Handler struct {
	intake   *intake.Service
	sessions *session.Registry
	log      *logger.Logger
}

// NewHandler creates a new API handler. A nil registry gets the default size and TTL.
func NewHandler(svc *intake.Service, sessions *session.Registry, log *logger.Logger) *Handler {
	if sessions == nil {
		sessions = session.NewRegistry(session.DefaultMaxSessions, session.DefaultTTL)
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Handler{intake: svc, sessions: sessions, log: log}
}

// RegisterRoutes registers all API routes. Write endpoints go through auth.
func (h *Handler) RegisterRoutes(r gin.IRouter, auth gin.HandlerFunc) {
	r.GET("/healthz", h.handleHealth)

	v1 := r.Group("/api/v1")
	v1.POST("/screen", h.handleScreen)
	v1.POST("/screen/form", h.handleScreenForm)

	v1.POST("/sessions", h.handleCreateSession)
	v1.PUT("/sessions/:id/fields/:fieldID", h.handleUpdateField)
	v1.DELETE("/sessions/:id", h.handleDeleteSession)

	protected := v1.Group("")
	if auth != nil {
		protected.Use(auth)
	}
	protected.POST("/applications", h.handleSubmit)
	protected.POST("/applications/export", h.handleExport)
	protected.GET("/exports/:id", h.handleDownload)
	protected.GET("/decisions", h.handleDecisions)
}

func (h *Handler) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// engine returns the scoring engine localized from Accept-Language.
func (h *Handler) engine(c *gin.Context) *scoring.Engine {
	return h.intake.Engine().Localized(scoring.MatchAcceptLanguage(c.GetHeader("Accept-Language")))
}

// APIError is the body of every error response.
type APIError struct {
	Message string   `json:"message"`
	Code    string   `json:"code,omitempty"`
	Report  []string `json:"report,omitempty"`
	Fields  any      `json:"fields,omitempty"`
}

// ErrorEnvelope wraps APIError.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func writeError(c *gin.Context, status int, code, msg string) {
	c.AbortWithStatusJSON(status, ErrorEnvelope{Error: APIError{Message: msg, Code: code}})
}
