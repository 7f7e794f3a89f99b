package api

import (
	"net/http"
	"strconv"

	reqdto "commerce-core/internal/handler/dto/request"
	resdto "commerce-core/internal/handler/dto/response"
	"commerce-core/internal/usecase/commands"
	"commerce-core/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type PointHandler struct {
	pointCommands commands.PointCommands
	pointQueries  queries.PointQueries
}

func NewPointHandler(pointCommands commands.PointCommands, pointQueries queries.PointQueries) *PointHandler {
	return &PointHandler{
		pointCommands: pointCommands,
		pointQueries:  pointQueries,
	}
}

func (h *PointHandler) ChargePoints(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req reqdto.ChargePointsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	balance, err := h.pointCommands.ChargePoints(c.Request.Context(), userID, req.AmountCents)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"balance_cents": balance})
}

func (h *PointHandler) GetBalance(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	view, err := h.pointQueries.GetBalance(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, resdto.FromPointBalanceView(view))
}

func (h *PointHandler) GetTransactions(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		limit, _ = strconv.Atoi(raw)
	}

	views, err := h.pointQueries.ListTransactions(c.Request.Context(), userID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	response := make([]*resdto.PointTransactionResponse, len(views))
	for i, v := range views {
		response[i] = resdto.FromPointTransactionView(v)
	}
	c.JSON(http.StatusOK, response)
}
