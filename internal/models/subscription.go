package models

import (
	"time"

	"github.com/google/uuid"
)

// Subscription es el espejo local de una suscripción de Culqi.
// Status es el último conocido al momento de la sincronización.
type Subscription struct {
	ID              uuid.UUID  `json:"id" db:"id"`
	UserID          uuid.UUID  `json:"-" db:"user_id"`
	SubscriptionID  string     `json:"subscription_id" db:"subscription_id"`
	PlanID          string     `json:"plan_id" db:"plan_id"`
	CardID          string     `json:"card_id" db:"card_id"`
	Status          int        `json:"status" db:"status"`
	CreationDate    *time.Time `json:"creation_date" db:"creation_date"`
	NextBillingDate *time.Time `json:"next_billing_date" db:"next_billing_date"`
	Metadata        JSONMap    `json:"metadata" db:"metadata"`
}

// CreateSubscriptionRequest representa el request para suscribirse a un plan
type CreateSubscriptionRequest struct {
	CardID   string  `json:"card_id" binding:"required"`
	PlanID   string  `json:"plan_id" binding:"required"`
	TYC      *bool   `json:"tyc" binding:"required"`
	Metadata JSONMap `json:"metadata,omitempty"`
}
