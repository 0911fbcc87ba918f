package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lsmc/candidature/internal/application"
	"github.com/lsmc/candidature/internal/export"
	"github.com/lsmc/candidature/internal/gate"
	"github.com/lsmc/candidature/internal/intake"
	"github.com/lsmc/candidature/pkg/scoring"
)

// handleSubmit runs the full intake pipeline.
func (h *Handler) handleSubmit(c *gin.Context) {
	var app application.Application
	if err := c.ShouldBindJSON(&app); err != nil {
		writeError(c, http.StatusBadRequest, "bad_request", "request body must be a candidature object")
		return
	}

	tag := scoring.MatchAcceptLanguage(c.GetHeader("Accept-Language"))
	receipt, err := h.intake.Localized(tag).Submit(c.Request.Context(), &app)

	var (
		blocked  *gate.BlockedError
		invalid  *application.ValidationError
		delivery *intake.DeliveryError
	)
	switch {
	case err == nil:
		c.JSON(http.StatusCreated, receipt)
	case errors.As(err, &blocked):
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, ErrorEnvelope{Error: APIError{
			Message: h.intake.Engine().Localized(tag).Catalog().Message(scoring.MsgSuspicious),
			Code:    "blocked",
			Report:  blocked.Report,
		}})
	case errors.As(err, &invalid):
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorEnvelope{Error: APIError{
			Message: "invalid candidature",
			Code:    "invalid",
			Fields:  invalid.Problems,
		}})
	case errors.As(err, &delivery):
		writeError(c, http.StatusBadGateway, "delivery_failed", "the candidature could not be delivered, try again later")
	default:
		h.log.Error("submission failed", "error", err)
		writeError(c, http.StatusInternalServerError, "internal", "internal error")
	}
}

// handleExport returns the candidature as a CSV attachment.
func (h *Handler) handleExport(c *gin.Context) {
	var app application.Application
	if err := c.ShouldBindJSON(&app); err != nil {
		writeError(c, http.StatusBadRequest, "bad_request", "request body must be a candidature object")
		return
	}

	data, err := h.intake.Export(c.Request.Context(), &app)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "internal", "export failed")
		return
	}
	writeCSV(c, application.CSVFileName, data)
}

// handleDownload serves a stored export.
func (h *Handler) handleDownload(c *gin.Context) {
	id := c.Param("id")
	data, err := h.intake.Download(c.Request.Context(), id)
	switch {
	case err == nil:
		writeCSV(c, fmt.Sprintf("candidature_%s.csv", id), data)
	case errors.Is(err, export.ErrInvalidID):
		writeError(c, http.StatusBadRequest, "invalid_id", "export id must be a UUID")
	case errors.Is(err, export.ErrNotFound):
		writeError(c, http.StatusNotFound, "not_found", "export not found")
	default:
		h.log.Error("download export", "export_id", id, "error", err)
		writeError(c, http.StatusInternalServerError, "internal", "internal error")
	}
}

// handleDecisions lists recent audit decisions.
func (h *Handler) handleDecisions(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(c, http.StatusBadRequest, "bad_request", "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	decisions, err := h.intake.Recent(c.Request.Context(), limit)
	if err != nil {
		h.log.Error("list decisions", "error", err)
		writeError(c, http.StatusInternalServerError, "internal", "internal error")
		return
	}
	c.JSON(http.StatusOK, gin.H{"decisions": decisions})
}

func writeCSV(c *gin.Context, filename string, data []byte) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, application.CSVContentType, data)
}
