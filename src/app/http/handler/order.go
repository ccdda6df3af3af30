package handler

import (
	"github.com/gin-gonic/gin"

	"jpashop/src/app/http/dto"
	"jpashop/src/app/http/response"
	"jpashop/src/app/middleware"
	"jpashop/src/core/usecase"
)

// OrderHandler handles order placement, cancellation and the order queries.
type OrderHandler struct {
	orderService *usecase.OrderService
}

func NewOrderHandler(orderService *usecase.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// Place creates an order.
// POST /v1/orders
func (h *OrderHandler) Place(c *gin.Context) {
	var req dto.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid payload", middleware.GetRequestID(c))
		return
	}

	order, err := h.orderService.Place(c.Request.Context(), req.MemberID, req.ToLines())
	if err != nil {
		response.FromDomainError(c, err, middleware.GetRequestID(c))
		return
	}
	response.Created(c, dto.OrderResponse{}.FromDomain(order))
}

// Search loads order aggregates under the requested loading policy.
// GET /v1/orders?policy=&status=&member_name=&offset=&limit=
func (h *OrderHandler) Search(c *gin.Context) {
	search, ok := parseSearch(c)
	if !ok {
		return
	}
	window, ok := parseWindow(c)
	if !ok {
		return
	}

	res, err := h.orderService.Search(c.Request.Context(), c.Query("policy"), search, window)
	if err != nil {
		response.FromDomainError(c, err, middleware.GetRequestID(c))
		return
	}
	response.OK(c, dto.OrderListResponse{}.FromResult(res))
}

// Get returns one order aggregate.
// GET /v1/orders/:order_id
func (h *OrderHandler) Get(c *gin.Context) {
	orderID, ok := parseID(c, "order_id")
	if !ok {
		return
	}
	order, err := h.orderService.Get(c.Request.Context(), orderID)
	if err != nil {
		response.FromDomainError(c, err, middleware.GetRequestID(c))
		return
	}
	response.OK(c, dto.OrderResponse{}.FromDomain(order))
}

// Cancel cancels an order and restores its stock.
// POST /v1/orders/:order_id/cancel
func (h *OrderHandler) Cancel(c *gin.Context) {
	orderID, ok := parseID(c, "order_id")
	if !ok {
		return
	}
	order, err := h.orderService.Cancel(c.Request.Context(), orderID)
	if err != nil {
		response.FromDomainError(c, err, middleware.GetRequestID(c))
		return
	}
	response.OK(c, dto.OrderResponse{}.FromDomain(order))
}

// SimpleOrders returns orders with member and delivery but no lines.
// GET /v1/simple-orders?status=&member_name=&offset=&limit=
func (h *OrderHandler) SimpleOrders(c *gin.Context) {
	search, ok := parseSearch(c)
	if !ok {
		return
	}
	window, ok := parseWindow(c)
	if !ok {
		return
	}

	rows, err := h.orderService.SimpleOrders(c.Request.Context(), search, window)
	if err != nil {
		response.FromDomainError(c, err, middleware.GetRequestID(c))
		return
	}
	response.Paged(c, dto.SimpleOrdersFromSummaries(rows), window.Offset, window.Limit, len(rows))
}
