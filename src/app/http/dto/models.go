package dto

import (
	"jpashop/src/core/domain"
	"jpashop/src/core/usecase"
)

// AddressPayload is an address in requests and responses.
type AddressPayload struct {
	City    string `json:"city"`
	Street  string `json:"street"`
	Zipcode string `json:"zipcode"`
}

func (a AddressPayload) ToDomain() domain.Address {
	return domain.Address{City: a.City, Street: a.Street, Zipcode: a.Zipcode}
}

// JoinMemberRequest is the payload for POST /v1/members.
type JoinMemberRequest struct {
	Name    string         `json:"name" binding:"required"`
	Address AddressPayload `json:"address"`
}

// UpdateMemberRequest is the payload for PATCH /v1/members/:member_id.
type UpdateMemberRequest struct {
	Name string `json:"name" binding:"required"`
}

// ItemRequest is the payload for creating or replacing an item.
type ItemRequest struct {
	Name          string `json:"name" binding:"required"`
	Price         int    `json:"price"`
	StockQuantity int    `json:"stock_quantity"`
}

// PlaceOrderRequest is the payload for POST /v1/orders.
type PlaceOrderRequest struct {
	MemberID int64              `json:"member_id" binding:"required"`
	Lines    []OrderLineRequest `json:"lines" binding:"required"`
}

// OrderLineRequest is one line of PlaceOrderRequest.
type OrderLineRequest struct {
	ItemID int64 `json:"item_id"`
	Count  int   `json:"count"`
}

func (r PlaceOrderRequest) ToLines() []usecase.OrderLine {
	lines := make([]usecase.OrderLine, len(r.Lines))
	for i, l := range r.Lines {
		lines[i] = usecase.OrderLine{ItemID: l.ItemID, Count: l.Count}
	}
	return lines
}
