package api

import (
	"net/http"

	resdto "commerce-core/internal/handler/dto/response"
	"commerce-core/internal/infra"
	"commerce-core/internal/pkg/errs"
	"commerce-core/internal/usecase/commands"
	"commerce-core/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type CouponHandler struct {
	couponCommands commands.CouponCommands
	couponQueries  queries.CouponQueries
}

func NewCouponHandler(couponCommands commands.CouponCommands, couponQueries queries.CouponQueries) *CouponHandler {
	return &CouponHandler{
		couponCommands: couponCommands,
		couponQueries:  couponQueries,
	}
}

func (h *CouponHandler) IssueCoupon(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	couponID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	issued, err := h.couponCommands.IssueCoupon(c.Request.Context(), userID, couponID)
	if err != nil {
		switch {
		case errs.Is(err, errs.ErrCouponNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Coupon not found"})
		case errs.Is(err, errs.ErrCouponAlreadyIssued):
			c.JSON(http.StatusConflict, gin.H{"error": "Coupon already issued to this user"})
		case errs.Is(err, errs.ErrCouponOutOfStock):
			c.JSON(http.StatusConflict, gin.H{"error": "Coupon is out of stock"})
		case errs.Is(err, errs.ErrCouponNotAvailable):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Coupon is not available"})
		case errs.Is(err, errs.ErrLockNotAcquired):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Coupon issuance is busy, retry later"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusCreated, resdto.FromIssuedCoupon(issued))
}

func (h *CouponHandler) GetUserCoupons(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	views, err := h.couponQueries.ListByUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	response := make([]*resdto.UserCouponResponse, len(views))
	for i, v := range views {
		response[i] = resdto.FromUserCouponView(v)
	}
	c.JSON(http.StatusOK, response)
}

func (h *CouponHandler) GetCouponStock(c *gin.Context) {
	couponID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	view, err := h.couponQueries.GetStock(c.Request.Context(), couponID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Coupon not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, resdto.FromCouponStockView(view))
}
