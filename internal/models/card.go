package models

import (
	"time"

	"github.com/google/uuid"
)

// Card es el espejo local de una tarjeta registrada en Culqi
type Card struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	UserID       uuid.UUID  `json:"-" db:"user_id"`
	CardID       string     `json:"card_id" db:"card_id"`
	CustomerID   string     `json:"customer_id" db:"customer_id"`
	Active       bool       `json:"active" db:"active"`
	CreationDate *time.Time `json:"creation_date" db:"creation_date"`
	Metadata     JSONMap    `json:"metadata" db:"metadata"`
}

// CreateCardRequest representa el request para registrar una tarjeta
type CreateCardRequest struct {
	CustomerID        string                 `json:"customer_id" binding:"required"`
	TokenID           string                 `json:"token_id" binding:"required"`
	Validate          *bool                  `json:"validate,omitempty"`
	Metadata          JSONMap                `json:"metadata,omitempty"`
	Authentication3DS map[string]interface{} `json:"authentication_3DS,omitempty"`
}

// UpdateCardRequest representa el request para rotar token y/o metadata
type UpdateCardRequest struct {
	TokenID  *string `json:"token_id,omitempty"`
	Metadata JSONMap `json:"metadata,omitempty"`
}
