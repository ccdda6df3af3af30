package handler

import (
	"github.com/gin-gonic/gin"

	"jpashop/src/app/http/dto"
	"jpashop/src/app/http/response"
	"jpashop/src/app/middleware"
	"jpashop/src/core/usecase"
)

// ItemHandler handles catalogue endpoints.
type ItemHandler struct {
	itemService *usecase.ItemService
}

func NewItemHandler(itemService *usecase.ItemService) *ItemHandler {
	return &ItemHandler{itemService: itemService}
}

// POST /v1/items
func (h *ItemHandler) Create(c *gin.Context) {
	var req dto.ItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid payload", middleware.GetRequestID(c))
		return
	}

	item, err := h.itemService.Create(c.Request.Context(), req.Name, req.Price, req.StockQuantity)
	if err != nil {
		response.FromDomainError(c, err, middleware.GetRequestID(c))
		return
	}
	response.Created(c, dto.ItemResponse{}.FromDomain(item))
}

// GET /v1/items
func (h *ItemHandler) List(c *gin.Context) {
	items, err := h.itemService.List(c.Request.Context())
	if err != nil {
		response.FromDomainError(c, err, middleware.GetRequestID(c))
		return
	}
	response.OK(c, dto.ItemsFromDomain(items))
}

// GET /v1/items/:item_id
func (h *ItemHandler) Get(c *gin.Context) {
	itemID, ok := parseID(c, "item_id")
	if !ok {
		return
	}
	item, err := h.itemService.Get(c.Request.Context(), itemID)
	if err != nil {
		response.FromDomainError(c, err, middleware.GetRequestID(c))
		return
	}
	response.OK(c, dto.ItemResponse{}.FromDomain(item))
}

// PUT /v1/items/:item_id
func (h *ItemHandler) Update(c *gin.Context) {
	itemID, ok := parseID(c, "item_id")
	if !ok {
		return
	}
	var req dto.ItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid payload", middleware.GetRequestID(c))
		return
	}

	item, err := h.itemService.Update(c.Request.Context(), itemID, req.Name, req.Price, req.StockQuantity)
	if err != nil {
		response.FromDomainError(c, err, middleware.GetRequestID(c))
		return
	}
	response.OK(c, dto.ItemResponse{}.FromDomain(item))
}
