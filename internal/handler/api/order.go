package api

import (
	"errors"
	"net/http"
	"strconv"

	reqdto "commerce-core/internal/handler/dto/request"
	resdto "commerce-core/internal/handler/dto/response"
	"commerce-core/internal/infra"
	"commerce-core/internal/pkg/errs"
	"commerce-core/internal/usecase/commands"
	"commerce-core/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type OrderHandler struct {
	orderCommands commands.OrderCommands
	orderQueries  queries.OrderQueries
}

func NewOrderHandler(orderCommands commands.OrderCommands, orderQueries queries.OrderQueries) *OrderHandler {
	return &OrderHandler{
		orderCommands: orderCommands,
		orderQueries:  orderQueries,
	}
}

func (h *OrderHandler) PlaceOrder(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	idempotencyKey, err := h.getIdempotencyKey(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var req reqdto.PlaceOrderRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	items := make([]commands.OrderItemInput, len(req.Items))
	for i, item := range req.Items {
		items[i] = commands.OrderItemInput{ProductID: item.ProductID, Quantity: item.Quantity}
	}

	result, err := h.orderCommands.PlaceOrder(c.Request.Context(), userID, commands.PlaceOrderInput{
		IdempotencyKey: idempotencyKey,
		Items:          items,
		CouponID:       req.CouponID,
	})
	if err != nil {
		switch {
		case errs.Is(err, errs.ErrAlreadyProcessed):
			c.JSON(http.StatusConflict, gin.H{"error": "Order already processed for this idempotency key"})
		case errs.Is(err, errs.ErrDuplicateInFlight):
			c.JSON(http.StatusConflict, gin.H{"error": "Order request is currently being processed"})
		case errs.Is(err, errs.ErrLockNotAcquired):
			c.JSON(http.StatusConflict, gin.H{"error": "Order request is currently being processed"})
		case errs.Is(err, errs.ErrProductNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		case errs.Is(err, errs.ErrInsufficientStock):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Insufficient stock"})
		case errs.Is(err, errs.ErrInsufficientPoints):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Insufficient point balance"})
		case errs.Is(err, errs.ErrCouponInvalid):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired coupon"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusCreated, resdto.FromOrderResult(result))
}

func (h *OrderHandler) CancelOrder(c *gin.Context) {
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.orderCommands.CancelOrder(c.Request.Context(), orderID); err != nil {
		switch {
		case errs.Is(err, errs.ErrOrderNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		case errs.Is(err, errs.ErrOrderNotCancelable):
			c.JSON(http.StatusConflict, gin.H{"error": "Order cannot be canceled"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	view, err := h.orderQueries.GetByID(c.Request.Context(), orderID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, resdto.FromOrderView(view))
}

func (h *OrderHandler) GetUserOrders(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		limit, _ = strconv.Atoi(raw)
	}

	items, err := h.orderQueries.ListByUser(c.Request.Context(), userID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	response := make([]*resdto.OrderListResponse, len(items))
	for i, item := range items {
		response[i] = resdto.FromOrderListItem(item)
	}
	c.JSON(http.StatusOK, response)
}

func (h *OrderHandler) getIdempotencyKey(c *gin.Context) (uuid.UUID, error) {
	keyStr := c.GetHeader("Idempotency-Key")
	if keyStr == "" {
		return uuid.Nil, errs.ErrIdempotencyKeyRequired
	}

	key, err := uuid.Parse(keyStr)
	if err != nil {
		return uuid.Nil, errors.New("invalid idempotency key format")
	}

	return key, nil
}
