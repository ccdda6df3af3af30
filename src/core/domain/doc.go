// Package domain contains the core domain model for the shop.
//
// This package defines:
//   - Entities: Member, Item, Order, OrderItem, Delivery
//   - Value Objects: Address and the status enums
//   - Domain Errors: Business rule violation errors
//
// Rules for this package:
//   - No external dependencies except the standard library
//   - No infrastructure concerns (database, HTTP, etc.)
//   - Entities validate their own invariants (stock, cancellation)
//
// Example:
//
//	item := &domain.Item{Name: "JPA1 BOOK", Price: 10000, StockQuantity: 100}
//	line, err := domain.NewOrderItem(item, item.Price, 2)
//	if err != nil {
//	    return err
//	}
//	order, err := domain.NewOrder(member, domain.NewDelivery(member.Address), line)
package domain
