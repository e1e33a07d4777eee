package model

import (
	"time"

	"github.com/google/uuid"
)

// MovementKind identifies the stock operation that produced a movement.
type MovementKind string

const (
	MovementPurchase MovementKind = "purchase"
	MovementRestock  MovementKind = "restock"
)

// StockMovement is an audit record of one successful purchase or restock.
type StockMovement struct {
	ID            uuid.UUID    `json:"id" db:"id"`
	SweetID       uuid.UUID    `json:"sweetId" db:"sweet_id"`
	Kind          MovementKind `json:"kind" db:"kind"`
	Quantity      int          `json:"quantity" db:"quantity"`
	QuantityAfter int          `json:"quantityAfter" db:"quantity_after"`
	UserID        *uuid.UUID   `json:"userId,omitempty" db:"user_id"`
	CreatedAt     time.Time    `json:"createdAt" db:"created_at"`
}

// StockRequest represents the request payload for purchase and restock.
type StockRequest struct {
	Quantity *int `json:"quantity"`
}
