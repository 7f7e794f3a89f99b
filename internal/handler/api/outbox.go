package api

import (
	"net/http"
	"strconv"

	"commerce-core/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

// OutboxHandler exposes operator endpoints for the relay's dead letters.
type OutboxHandler struct {
	outboxQueries queries.OutboxQueries
}

func NewOutboxHandler(outboxQueries queries.OutboxQueries) *OutboxHandler {
	return &OutboxHandler{outboxQueries: outboxQueries}
}

func (h *OutboxHandler) ListDeadLetters(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		limit, _ = strconv.Atoi(raw)
	}

	views, err := h.outboxQueries.ListDeadLetters(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, views)
}
