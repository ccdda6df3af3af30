// Package repo contains the PostgreSQL implementations of the ports in
// src/core/ports.
//
// Naming convention:
//   - Files: <entity>_repo.go (e.g., member_repo.go, order_repo.go)
//   - Types: <Entity>Repository (e.g., MemberRepository, OrderRepository)
//
// The pgx repositories share one pool through pgRepository. The order read
// side has two adapters: OrderQueryRepository issues hand-written SQL over
// pgx, GormOrderQueryRepository issues the same statements through GORM.
// Both implement ports.OrderStore, so every loading policy runs on either.
//
// Errors are translated at this boundary: missing rows become
// domain.ErrNotFound, unique and stock check violations become
// domain.ErrConflict.
package repo
