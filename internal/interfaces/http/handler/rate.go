package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	shippingapp "github.com/courierdash/backend/internal/application/shipping"
	"github.com/courierdash/backend/internal/infrastructure/logger"
	"github.com/courierdash/backend/internal/interfaces/http/dto"
	"github.com/courierdash/backend/internal/interfaces/http/middleware"
)

// RateHandler handles the courier rate endpoints
type RateHandler struct {
	BaseHandler
	rateService *shippingapp.RateCalculationService
}

// NewRateHandler creates a new RateHandler
func NewRateHandler(rateService *shippingapp.RateCalculationService) *RateHandler {
	return &RateHandler{
		rateService: rateService,
	}
}

// QuoteHistoryQuery filters the quote history listing
type QuoteHistoryQuery struct {
	Origin      string `form:"origin" binding:"omitempty,pincode"`
	Destination string `form:"destination" binding:"omitempty,pincode"`
	Limit       int    `form:"limit" binding:"omitempty,min=1,max=200"`
}

// Calculate godoc
// @ID           calculateRates
// @Summary      Compare courier rates
// @Description  Quotes every configured courier concurrently and returns the rates cheapest first
// @Tags         rates
// @Accept       json
// @Produce      json
// @Param        request body shippingapp.CalculateRatesRequest true "Shipment"
// @Success      200 {object} dto.Response{data=shippingapp.RatesResponse}
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Router       /rates/calculate [post]
func (h *RateHandler) Calculate(c *gin.Context) {
	var req shippingapp.CalculateRatesRequest
	if !h.BindJSON(c, &req) {
		return
	}

	resp, err := h.rateService.CalculateRates(c.Request.Context(), req)
	if err != nil {
		h.handleRateError(c, err)
		return
	}
	h.Success(c, resp)
}

// Detailed godoc
// @ID           calculateDetailedRates
// @Summary      Itemized courier rates
// @Description  Returns per-charge breakdowns from the couriers that support them, cheapest first
// @Tags         rates
// @Accept       json
// @Produce      json
// @Param        request body shippingapp.DetailedRatesRequest true "Shipment"
// @Success      200 {object} dto.Response{data=shippingapp.DetailedRatesResponse}
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Router       /rates/detailed [post]
func (h *RateHandler) Detailed(c *gin.Context) {
	var req shippingapp.DetailedRatesRequest
	if !h.BindJSON(c, &req) {
		return
	}

	resp, err := h.rateService.CalculateDetailedRates(c.Request.Context(), req)
	if err != nil {
		h.handleRateError(c, err)
		return
	}
	h.Success(c, resp)
}

// History godoc
// @ID           listQuoteHistory
// @Summary      Recent quotes
// @Description  Lists recorded quotes newest first, optionally for one lane
// @Tags         rates
// @Produce      json
// @Param        origin      query string false "Origin pincode"
// @Param        destination query string false "Destination pincode"
// @Param        limit       query int    false "Maximum items (1-200)"
// @Success      200 {object} dto.Response{data=[]shippingapp.QuoteHistoryResponse}
// @Failure      503 {object} dto.Response
// @Router       /rates/history [get]
func (h *RateHandler) History(c *gin.Context) {
	var query QuoteHistoryQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	items, err := h.rateService.RecentQuotes(c.Request.Context(), query.Origin, query.Destination, query.Limit)
	if err != nil {
		if errors.Is(err, shippingapp.ErrHistoryDisabled) {
			h.ServiceUnavailable(c, "Quote history is not enabled")
			return
		}
		logger.L(c.Request.Context()).Error("Failed to list quote history", zap.Error(err))
		h.InternalError(c, "Failed to load quote history")
		return
	}
	h.SuccessList(c, items, len(items))
}

func (h *RateHandler) handleRateError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, shippingapp.ErrInvalidRequest):
		h.ErrorWithCode(c, dto.ErrCodeValidation, causeMessage(err))
	case errors.Is(err, shippingapp.ErrNoRatesFound):
		h.NotFound(c, "no rates found")
	default:
		logger.L(c.Request.Context()).Error("Rate calculation failed", zap.Error(err))
		h.InternalError(c, "An unexpected error occurred")
	}
}

// causeMessage returns the innermost message of a joined "%w: %w" error
func causeMessage(err error) string {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		if errs := joined.Unwrap(); len(errs) > 0 {
			return errs[len(errs)-1].Error()
		}
	}
	return err.Error()
}
