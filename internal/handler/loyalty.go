package handler

import (
	"net/http"

	"github.com/wasssssim/verger-du-coin/internal/dto"
	"github.com/wasssssim/verger-du-coin/internal/service"

	"github.com/gin-gonic/gin"
)

type LoyaltyHandler struct{ svc service.LoyaltyService }

func NewLoyaltyHandler(svc service.LoyaltyService) *LoyaltyHandler {
	return &LoyaltyHandler{svc: svc}
}

func (h *LoyaltyHandler) List(c *gin.Context) {
	var page dto.Pagination
	if !bindQuery(c, &page) {
		return
	}
	resp, err := h.svc.List(c.Request.Context(), page)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *LoyaltyHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Redeem godoc
// @Summary      Redeem loyalty points
// @Description  Debits the points and returns the discount they are worth. Fails with 400 when the balance is too low.
// @Tags         loyalty
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                  true "Loyalty card UUID"
// @Param        body body dto.RedeemPointsRequest true "Points"
// @Success      200 {object} dto.RedeemPointsResponse
// @Failure      400 {object} apierror.APIError
// @Failure      404 {object} apierror.APIError
// @Router       /api/loyalty/{id}/redeem [post]
func (h *LoyaltyHandler) Redeem(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.RedeemPointsRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Redeem(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
