package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMember() Member {
	return Member{ID: 1, Name: "userA", Address: Address{City: "Seoul", Street: "1", Zipcode: "1111"}}
}

func TestNewOrderItemRemovesStock(t *testing.T) {
	item := &Item{ID: 7, Name: "JPA1 BOOK", Price: 10000, StockQuantity: 10}

	line, err := NewOrderItem(item, item.Price, 3)
	require.NoError(t, err)

	assert.Equal(t, 7, item.StockQuantity)
	assert.Equal(t, 3, line.Count)
	assert.Equal(t, 30000, line.TotalPrice())
	assert.Equal(t, int64(7), line.Item.ID)
}

func TestNewOrderItemNotEnoughStock(t *testing.T) {
	item := &Item{ID: 7, Name: "JPA1 BOOK", Price: 10000, StockQuantity: 2}

	_, err := NewOrderItem(item, item.Price, 3)
	require.Error(t, err)
	assert.True(t, IsConflict(err))
	assert.Equal(t, 2, item.StockQuantity, "stock must be untouched on failure")
}

func TestNewOrderItemRejectsNonPositiveCount(t *testing.T) {
	item := &Item{ID: 7, Name: "JPA1 BOOK", Price: 10000, StockQuantity: 2}

	for _, count := range []int{0, -1} {
		_, err := NewOrderItem(item, item.Price, count)
		assert.True(t, IsValidationError(err), "count %d", count)
	}
}

func TestNewOrderRequiresLines(t *testing.T) {
	_, err := NewOrder(testMember(), NewDelivery(testMember().Address))
	assert.True(t, IsValidationError(err))
}

func TestOrderTotalPriceAndCancel(t *testing.T) {
	item1 := &Item{ID: 1, Name: "JPA1 BOOK", Price: 10000, StockQuantity: 100}
	item2 := &Item{ID: 2, Name: "JPA2 BOOK", Price: 20000, StockQuantity: 100}
	l1, err := NewOrderItem(item1, item1.Price, 1)
	require.NoError(t, err)
	l2, err := NewOrderItem(item2, item2.Price, 2)
	require.NoError(t, err)

	order, err := NewOrder(testMember(), NewDelivery(testMember().Address), l1, l2)
	require.NoError(t, err)
	assert.Equal(t, OrderStatusOrder, order.Status)
	assert.Equal(t, DeliveryReady, order.Delivery.Status)
	assert.False(t, order.OrderDate.IsZero())
	assert.Equal(t, 50000, order.TotalPrice())

	require.NoError(t, order.Cancel())
	assert.Equal(t, OrderStatusCancel, order.Status)
	assert.Equal(t, 100, order.OrderItems[0].Item.StockQuantity)
	assert.Equal(t, 100, order.OrderItems[1].Item.StockQuantity)

	assert.True(t, IsConflict(order.Cancel()), "second cancel must fail")
}

func TestCancelDeliveredOrder(t *testing.T) {
	item := &Item{ID: 1, Name: "JPA1 BOOK", Price: 10000, StockQuantity: 5}
	line, err := NewOrderItem(item, item.Price, 1)
	require.NoError(t, err)
	order, err := NewOrder(testMember(), Delivery{Status: DeliveryComplete}, line)
	require.NoError(t, err)

	err = order.Cancel()
	assert.True(t, IsConflict(err))
	assert.Equal(t, OrderStatusOrder, order.Status)
}

func TestParseOrderStatus(t *testing.T) {
	tests := []struct {
		in      string
		want    OrderStatus
		wantErr bool
	}{
		{in: "ORDER", want: OrderStatusOrder},
		{in: "cancel", want: OrderStatusCancel},
		{in: " Order ", want: OrderStatusOrder},
		{in: "SHIPPED", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseOrderStatus(tt.in)
		if tt.wantErr {
			assert.True(t, IsValidationError(err), tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestItemValidate(t *testing.T) {
	assert.NoError(t, (&Item{Name: "book", Price: 0, StockQuantity: 0}).Validate())
	assert.True(t, IsValidationError((&Item{Name: " "}).Validate()))
	assert.True(t, IsValidationError((&Item{Name: "book", Price: -1}).Validate()))
	assert.True(t, IsValidationError((&Item{Name: "book", StockQuantity: -1}).Validate()))
}

func TestDomainErrorMessage(t *testing.T) {
	assert.Equal(t, "invalid input: cannot be empty (field: name)", NewValidationError("name", "cannot be empty").Error())
	assert.Equal(t, "resource not found: order", NewNotFoundError("order").Error())
	assert.Equal(t, "conflict", (&DomainError{Base: ErrConflict}).Error())
}
