package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"resto-tracker/internal/services"
)

// OrderController handles HTTP requests for the order lifecycle.
type OrderController interface {
	CreateOrder(c *gin.Context)
	GetOrder(c *gin.Context)
	NextStatuses(c *gin.Context)
	ReplaceLines(c *gin.Context)
	AdvanceStatus(c *gin.Context)
	CancelByStaff(c *gin.Context)
	CancelByCustomer(c *gin.Context)
	ListOrders(c *gin.Context)
	ListMyOrders(c *gin.Context)
	ListDeliveries(c *gin.Context)
}

type orderController struct {
	orders services.OrderService
}

// NewOrderController creates a new instance of OrderController
func NewOrderController(orders services.OrderService) OrderController {
	return &orderController{orders: orders}
}

type replaceLinesRequest struct {
	Lines []services.OrderLineInput `json:"lines" binding:"required"`
}

type advanceStatusRequest struct {
	Target string `json:"target" binding:"required"`
}

// CreateOrder godoc
// @Summary Create an order
// @Description Writes the order and all its lines atomically; each line freezes the item's current price
// @Tags orders
// @Accept json
// @Produce json
// @Param order body services.CreateOrderInput true "Order"
// @Success 201 {object} models.Order
// @Failure 400 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Failure 422 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/orders [post]
func (oc *orderController) CreateOrder(ctx *gin.Context) {
	var req services.CreateOrderInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBadRequest(ctx, "Invalid request body")
		return
	}

	order, err := oc.orders.CreateOrder(requesterID(ctx), req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, order)
}

// GetOrder godoc
// @Summary Get an order with its lines and total
// @Tags orders
// @Produce json
// @Param id path int true "Order ID"
// @Success 200 {object} services.OrderDetail
// @Failure 404 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/orders/{id} [get]
func (oc *orderController) GetOrder(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	detail, err := oc.orders.GetOrder(id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, detail)
}

// NextStatuses godoc
// @Summary Legal next statuses for an order
// @Description Pure lookup over the transition table; the caller picks a target from this set
// @Tags orders
// @Produce json
// @Param id path int true "Order ID"
// @Success 200 {object} map[string][]string
// @Failure 404 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/orders/{id}/next-statuses [get]
func (oc *orderController) NextStatuses(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	detail, err := oc.orders.GetOrder(id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"next": oc.orders.NextStatuses(detail.Status)})
}

// ReplaceLines godoc
// @Summary Replace all lines of a RECEIVED order
// @Description Owner-only; deletes and rewrites every line, re-snapshotting current prices
// @Tags orders
// @Accept json
// @Produce json
// @Param id path int true "Order ID"
// @Param lines body replaceLinesRequest true "New lines"
// @Success 204
// @Failure 400 {object} models.APIError
// @Failure 403 {object} models.APIError
// @Failure 422 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/orders/{id}/lines [put]
func (oc *orderController) ReplaceLines(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}

	var req replaceLinesRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBadRequest(ctx, "Invalid request body")
		return
	}

	if err := oc.orders.ReplaceOrderLines(id, requesterID(ctx), req.Lines); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusNoContent, nil)
}

// AdvanceStatus godoc
// @Summary Advance an order's status
// @Description Validated against the transition table; terminal statuses cannot be left
// @Tags orders
// @Accept json
// @Produce json
// @Param id path int true "Order ID"
// @Param target body advanceStatusRequest true "Target status"
// @Success 204
// @Failure 404 {object} models.APIError
// @Failure 422 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/orders/{id}/status [put]
func (oc *orderController) AdvanceStatus(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}

	var req advanceStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBadRequest(ctx, "Invalid request body")
		return
	}

	if err := oc.orders.AdvanceStatus(id, req.Target); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusNoContent, nil)
}

// CancelByStaff godoc
// @Summary Cancel an order as staff
// @Tags orders
// @Produce json
// @Param id path int true "Order ID"
// @Success 204
// @Failure 404 {object} models.APIError
// @Failure 422 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/orders/{id}/cancel [post]
func (oc *orderController) CancelByStaff(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	if err := oc.orders.CancelByStaff(id); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusNoContent, nil)
}

// CancelByCustomer godoc
// @Summary Cancel one's own order
// @Description Owner-only; allowed while the order is RECEIVED, IN_PROGRESS or READY
// @Tags orders
// @Produce json
// @Param id path int true "Order ID"
// @Success 204
// @Failure 403 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Failure 422 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/orders/{id}/cancel-own [post]
func (oc *orderController) CancelByCustomer(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	if err := oc.orders.CancelByCustomer(id, requesterID(ctx)); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusNoContent, nil)
}

// ListOrders godoc
// @Summary List orders
// @Description Optional status filter, free-text search over name/contact/notes, and a row cap
// @Tags orders
// @Produce json
// @Param status query string false "Status code filter"
// @Param q query string false "Free-text search"
// @Param limit query int false "Row cap"
// @Success 200 {array} services.OrderSummary
// @Security BearerAuth
// @Router /api/v1/orders [get]
func (oc *orderController) ListOrders(ctx *gin.Context) {
	filter, ok := orderFilter(ctx)
	if !ok {
		return
	}
	summaries, err := oc.orders.ListOrders(filter)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, summaries)
}

// ListMyOrders godoc
// @Summary List the current account's orders
// @Tags orders
// @Produce json
// @Param status query string false "Status code filter"
// @Param q query string false "Free-text search"
// @Param limit query int false "Row cap"
// @Success 200 {array} services.OrderSummary
// @Security BearerAuth
// @Router /api/v1/orders/mine [get]
func (oc *orderController) ListMyOrders(ctx *gin.Context) {
	filter, ok := orderFilter(ctx)
	if !ok {
		return
	}
	summaries, err := oc.orders.ListOrdersForAccount(requesterID(ctx), filter)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, summaries)
}

// ListDeliveries godoc
// @Summary List delivery orders with their addresses
// @Tags orders
// @Produce json
// @Param status query string false "Status code filter"
// @Param q query string false "Free-text search"
// @Param limit query int false "Row cap"
// @Success 200 {array} services.DeliverySummary
// @Security BearerAuth
// @Router /api/v1/orders/deliveries [get]
func (oc *orderController) ListDeliveries(ctx *gin.Context) {
	filter, ok := orderFilter(ctx)
	if !ok {
		return
	}
	summaries, err := oc.orders.ListDeliveries(filter)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, summaries)
}

func orderFilter(ctx *gin.Context) (services.OrderFilter, bool) {
	filter := services.OrderFilter{
		Status: ctx.Query("status"),
		Search: ctx.Query("q"),
	}
	if raw := ctx.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			respondBadRequest(ctx, "Invalid limit format")
			return filter, false
		}
		filter.Limit = parsed
	}
	return filter, true
}
