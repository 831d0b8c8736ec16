package database

import (
	"context"
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hypernova-labs/autolavado-service/internal/models"
	"github.com/sirupsen/logrus"
)

// TokenRepository maneja las operaciones de base de datos para los tokens de sesión
type TokenRepository struct {
	db     *DB
	logger *logrus.Logger
}

// NewTokenRepository crea una nueva instancia del repositorio
func NewTokenRepository(db *DB, logger *logrus.Logger) *TokenRepository {
	return &TokenRepository{
		db:     db,
		logger: logger,
	}
}

// Upsert guarda el hash del token del usuario, reemplazando el anterior si existía
func (r *TokenRepository) Upsert(ctx context.Context, userID uuid.UUID, keyHash string) (*models.AuthToken, error) {
	token := &models.AuthToken{
		ID:        uuid.New(),
		UserID:    userID,
		KeyHash:   keyHash,
		CreatedAt: time.Now(),
	}

	query := `
		INSERT INTO auth_tokens (id, user_id, key_hash, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE
		SET key_hash = EXCLUDED.key_hash, created_at = EXCLUDED.created_at, last_used_at = NULL
		RETURNING id
	`

	err := r.db.QueryRowContext(ctx, query, token.ID, token.UserID, token.KeyHash, token.CreatedAt).Scan(&token.ID)
	if err != nil {
		return nil, fmt.Errorf("error saving auth token: %w", translateError(err))
	}

	return token, nil
}

// GetByUserID obtiene el token de un usuario
func (r *TokenRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.AuthToken, error) {
	query := `SELECT id, user_id, key_hash, created_at, last_used_at FROM auth_tokens WHERE user_id = $1`

	var token models.AuthToken
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&token.ID, &token.UserID, &token.KeyHash, &token.CreatedAt, &token.LastUsedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("error querying auth token: %w", translateError(err))
	}
	return &token, nil
}

// GetUserByHash obtiene el usuario dueño del token con el hash dado
func (r *TokenRepository) GetUserByHash(ctx context.Context, keyHash string) (*models.User, error) {
	query := `
		SELECT u.id, u.username, u.email, u.first_name, u.last_name, u.password_hash,
			   u.is_staff, u.is_superuser, u.created_at
		FROM auth_tokens t
		JOIN users u ON u.id = t.user_id
		WHERE t.key_hash = $1
	`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, keyHash))
	if err != nil {
		return nil, fmt.Errorf("error querying auth token: %w", translateError(err))
	}
	return user, nil
}

// UpdateLastUsed actualiza la última vez que se usó el token
func (r *TokenRepository) UpdateLastUsed(ctx context.Context, keyHash string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE auth_tokens SET last_used_at = $1 WHERE key_hash = $2`, time.Now(), keyHash)
	if err != nil {
		return fmt.Errorf("error updating auth token last used: %w", err)
	}
	return nil
}

// HashToken genera el hash SHA-256 del token
func HashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return fmt.Sprintf("%x", hash)
}
