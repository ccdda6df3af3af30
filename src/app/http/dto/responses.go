package dto

import (
	"time"

	"jpashop/src/core/domain"
	"jpashop/src/core/ports"
	"jpashop/src/core/usecase"
)

type MemberResponse struct {
	ID      int64          `json:"member_id"`
	Name    string         `json:"name"`
	Address AddressPayload `json:"address"`
}

func addressFromDomain(a domain.Address) AddressPayload {
	return AddressPayload{City: a.City, Street: a.Street, Zipcode: a.Zipcode}
}

func (MemberResponse) FromDomain(m *domain.Member) MemberResponse {
	return MemberResponse{ID: m.ID, Name: m.Name, Address: addressFromDomain(m.Address)}
}

func MembersFromDomain(members []domain.Member) []MemberResponse {
	out := make([]MemberResponse, len(members))
	for i := range members {
		out[i] = MemberResponse{}.FromDomain(&members[i])
	}
	return out
}

type ItemResponse struct {
	ID            int64  `json:"item_id"`
	Name          string `json:"name"`
	Price         int    `json:"price"`
	StockQuantity int    `json:"stock_quantity"`
}

func (ItemResponse) FromDomain(it *domain.Item) ItemResponse {
	return ItemResponse{ID: it.ID, Name: it.Name, Price: it.Price, StockQuantity: it.StockQuantity}
}

func ItemsFromDomain(items []domain.Item) []ItemResponse {
	out := make([]ItemResponse, len(items))
	for i := range items {
		out[i] = ItemResponse{}.FromDomain(&items[i])
	}
	return out
}

type DeliveryResponse struct {
	ID      int64          `json:"delivery_id"`
	Status  string         `json:"status"`
	Address AddressPayload `json:"address"`
}

type OrderLineResponse struct {
	ID         int64  `json:"order_item_id"`
	ItemID     int64  `json:"item_id"`
	ItemName   string `json:"item_name"`
	OrderPrice int    `json:"order_price"`
	Count      int    `json:"count"`
	TotalPrice int    `json:"total_price"`
}

// OrderResponse is a full order aggregate.
type OrderResponse struct {
	ID         int64               `json:"order_id"`
	OrderDate  time.Time           `json:"order_date"`
	Status     string              `json:"status"`
	Member     MemberResponse      `json:"member"`
	Delivery   DeliveryResponse    `json:"delivery"`
	Lines      []OrderLineResponse `json:"lines"`
	TotalPrice int                 `json:"total_price"`
}

func (OrderResponse) FromDomain(o *domain.Order) OrderResponse {
	lines := make([]OrderLineResponse, len(o.OrderItems))
	for i, oi := range o.OrderItems {
		lines[i] = OrderLineResponse{
			ID:         oi.ID,
			ItemID:     oi.Item.ID,
			ItemName:   oi.Item.Name,
			OrderPrice: oi.OrderPrice,
			Count:      oi.Count,
			TotalPrice: oi.TotalPrice(),
		}
	}
	return OrderResponse{
		ID:        o.ID,
		OrderDate: o.OrderDate,
		Status:    string(o.Status),
		Member:    MemberResponse{}.FromDomain(&o.Member),
		Delivery: DeliveryResponse{
			ID:      o.Delivery.ID,
			Status:  string(o.Delivery.Status),
			Address: addressFromDomain(o.Delivery.Address),
		},
		Lines:      lines,
		TotalPrice: o.TotalPrice(),
	}
}

// OrderListResponse carries the loaded aggregates and the cost of loading them.
type OrderListResponse struct {
	Orders []OrderResponse   `json:"orders"`
	Stats  usecase.LoadStats `json:"stats"`
}

func (OrderListResponse) FromResult(res *usecase.LoadResult) OrderListResponse {
	orders := make([]OrderResponse, len(res.Orders))
	for i := range res.Orders {
		orders[i] = OrderResponse{}.FromDomain(&res.Orders[i])
	}
	return OrderListResponse{Orders: orders, Stats: res.Stats}
}

// SimpleOrderResponse is the list view without lines.
type SimpleOrderResponse struct {
	OrderID     int64          `json:"order_id"`
	MemberName  string         `json:"name"`
	OrderDate   time.Time      `json:"order_date"`
	OrderStatus string         `json:"order_status"`
	Address     AddressPayload `json:"address"`
}

func SimpleOrdersFromSummaries(rows []ports.OrderSummary) []SimpleOrderResponse {
	out := make([]SimpleOrderResponse, len(rows))
	for i, r := range rows {
		out[i] = SimpleOrderResponse{
			OrderID:     r.OrderID,
			MemberName:  r.MemberName,
			OrderDate:   r.OrderDate,
			OrderStatus: string(r.Status),
			Address:     addressFromDomain(r.DeliveryAddress),
		}
	}
	return out
}
