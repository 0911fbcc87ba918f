package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lsmc/candidature/internal/gate"
)

type screenRequest struct {
	Text *string `json:"text" binding:"required"`
}

type formField struct {
	ID    string `json:"id" binding:"required"`
	Label string `json:"label"`
	Text  string `json:"text"`
}

type screenFormRequest struct {
	Fields []formField `json:"fields" binding:"required,dive"`
}

// handleScreen scores a single text.
func (h *Handler) handleScreen(c *gin.Context) {
	var req screenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "bad_request", "request body must be {\"text\": string}")
		return
	}
	c.JSON(http.StatusOK, h.engine(c).Evaluate(*req.Text))
}

// handleScreenForm runs a one-shot gate over a whole form.
func (h *Handler) handleScreenForm(c *gin.Context) {
	var req screenFormRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "bad_request", "request body must be {\"fields\": [{\"id\", \"label\", \"text\"}]}")
		return
	}

	fields := make([]gate.Field, 0, len(req.Fields))
	for _, f := range req.Fields {
		fields = append(fields, gate.Field{ID: f.ID, Label: f.Label, Text: f.Text})
	}
	c.JSON(http.StatusOK, gate.New(h.engine(c), nil).EvaluateForm(fields))
}
