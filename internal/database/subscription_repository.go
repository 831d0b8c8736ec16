package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/hypernova-labs/autolavado-service/internal/models"
	"github.com/sirupsen/logrus"
)

// SubscriptionRepository maneja las operaciones de base de datos para Subscription
type SubscriptionRepository struct {
	db     *DB
	logger *logrus.Logger
}

// NewSubscriptionRepository crea una nueva instancia del repositorio
func NewSubscriptionRepository(db *DB, logger *logrus.Logger) *SubscriptionRepository {
	return &SubscriptionRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserta el espejo local de una suscripción
func (r *SubscriptionRepository) Create(ctx context.Context, sub *models.Subscription) error {
	if sub.ID == uuid.Nil {
		sub.ID = uuid.New()
	}

	query := `
		INSERT INTO subscriptions (
			id, user_id, subscription_id, plan_id, card_id, status,
			creation_date, next_billing_date, metadata
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9
		)
	`

	_, err := r.db.ExecContext(ctx, query,
		sub.ID, sub.UserID, sub.SubscriptionID, sub.PlanID, sub.CardID, sub.Status,
		sub.CreationDate, sub.NextBillingDate, sub.Metadata,
	)
	if err != nil {
		return fmt.Errorf("error creating subscription: %w", translateError(err))
	}

	return nil
}

// ListByUser obtiene las suscripciones locales del usuario
func (r *SubscriptionRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Subscription, error) {
	query := `
		SELECT id, user_id, subscription_id, plan_id, card_id, status,
			   creation_date, next_billing_date, metadata
		FROM subscriptions
		WHERE user_id = $1
		ORDER BY creation_date DESC NULLS LAST
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("error querying subscriptions: %w", err)
	}
	defer rows.Close()

	subs := []models.Subscription{}
	for rows.Next() {
		var sub models.Subscription
		if err := rows.Scan(
			&sub.ID, &sub.UserID, &sub.SubscriptionID, &sub.PlanID, &sub.CardID,
			&sub.Status, &sub.CreationDate, &sub.NextBillingDate, &sub.Metadata,
		); err != nil {
			return nil, fmt.Errorf("error scanning subscription: %w", err)
		}
		subs = append(subs, sub)
	}

	return subs, rows.Err()
}

// DeleteBySubscriptionID elimina el espejo local, si existe. Retorna si se borró una fila.
func (r *SubscriptionRepository) DeleteBySubscriptionID(ctx context.Context, userID uuid.UUID, subscriptionID string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM subscriptions WHERE user_id = $1 AND subscription_id = $2`,
		userID, subscriptionID,
	)
	if err != nil {
		return false, fmt.Errorf("error deleting subscription: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("error getting rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}
