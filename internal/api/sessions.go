package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lsmc/candidature/internal/gate"
)

type fieldUpdateRequest struct {
	Label string  `json:"label"`
	Text  *string `json:"text" binding:"required"`
}

func (h *Handler) handleCreateSession(c *gin.Context) {
	s := h.sessions.Create(h.engine(c))
	c.JSON(http.StatusCreated, gin.H{"session_id": s.ID})
}

// handleUpdateField re-evaluates a session after one field changed.
func (h *Handler) handleUpdateField(c *gin.Context) {
	s, ok := h.sessions.Get(c.Param("id"))
	if !ok {
		writeError(c, http.StatusNotFound, "session_not_found", "session not found or expired")
		return
	}

	var req fieldUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "bad_request", "request body must be {\"label\": string, \"text\": string}")
		return
	}

	c.JSON(http.StatusOK, s.Update(gate.Field{ID: c.Param("fieldID"), Label: req.Label, Text: *req.Text}))
}

func (h *Handler) handleDeleteSession(c *gin.Context) {
	if !h.sessions.Delete(c.Param("id")) {
		writeError(c, http.StatusNotFound, "session_not_found", "session not found")
		return
	}
	c.Status(http.StatusNoContent)
}
