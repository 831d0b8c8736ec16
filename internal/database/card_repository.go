package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/hypernova-labs/autolavado-service/internal/models"
	"github.com/sirupsen/logrus"
)

const cardColumns = `id, user_id, card_id, customer_id, active, creation_date, metadata`

// CardRepository maneja las operaciones de base de datos para Card
type CardRepository struct {
	db     *DB
	logger *logrus.Logger
}

// NewCardRepository crea una nueva instancia del repositorio
func NewCardRepository(db *DB, logger *logrus.Logger) *CardRepository {
	return &CardRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserta el espejo local de una tarjeta
func (r *CardRepository) Create(ctx context.Context, card *models.Card) error {
	if card.ID == uuid.Nil {
		card.ID = uuid.New()
	}

	query := `
		INSERT INTO cards (id, user_id, card_id, customer_id, active, creation_date, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.ExecContext(ctx, query,
		card.ID, card.UserID, card.CardID, card.CustomerID,
		card.Active, card.CreationDate, card.Metadata,
	)
	if err != nil {
		return fmt.Errorf("error creating card: %w", translateError(err))
	}

	return nil
}

// GetByCardID obtiene una tarjeta por id de Culqi, limitada al usuario dueño
func (r *CardRepository) GetByCardID(ctx context.Context, userID uuid.UUID, cardID string) (*models.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM cards WHERE user_id = $1 AND card_id = $2`

	var card models.Card
	err := r.db.QueryRowContext(ctx, query, userID, cardID).Scan(
		&card.ID, &card.UserID, &card.CardID, &card.CustomerID,
		&card.Active, &card.CreationDate, &card.Metadata,
	)
	if err != nil {
		return nil, fmt.Errorf("error querying card: %w", translateError(err))
	}

	return &card, nil
}

// ListByUser obtiene las tarjetas del usuario
func (r *CardRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM cards WHERE user_id = $1 ORDER BY creation_date DESC NULLS LAST`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("error querying cards: %w", err)
	}
	defer rows.Close()

	cards := []models.Card{}
	for rows.Next() {
		var card models.Card
		if err := rows.Scan(
			&card.ID, &card.UserID, &card.CardID, &card.CustomerID,
			&card.Active, &card.CreationDate, &card.Metadata,
		); err != nil {
			return nil, fmt.Errorf("error scanning card: %w", err)
		}
		cards = append(cards, card)
	}

	return cards, rows.Err()
}

// UpdateMetadata reemplaza la metadata de una tarjeta
func (r *CardRepository) UpdateMetadata(ctx context.Context, id uuid.UUID, metadata models.JSONMap) error {
	result, err := r.db.ExecContext(ctx, `UPDATE cards SET metadata = $1 WHERE id = $2`, metadata, id)
	if err != nil {
		return fmt.Errorf("error updating card: %w", err)
	}

	return checkAffected(result)
}

// Delete elimina el espejo local de una tarjeta
func (r *CardRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM cards WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting card: %w", err)
	}

	return checkAffected(result)
}
