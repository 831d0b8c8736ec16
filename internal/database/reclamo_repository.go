package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hypernova-labs/autolavado-service/internal/models"
	"github.com/sirupsen/logrus"
)

const reclamoColumns = `id, usuario_id, nombre, email, telefono, mensaje, fecha, estado, respuesta`

// ReclamoRepository maneja las operaciones de base de datos para Reclamo
type ReclamoRepository struct {
	db     *DB
	logger *logrus.Logger
}

// NewReclamoRepository crea una nueva instancia del repositorio
func NewReclamoRepository(db *DB, logger *logrus.Logger) *ReclamoRepository {
	return &ReclamoRepository{
		db:     db,
		logger: logger,
	}
}

// Create registra un reclamo
func (r *ReclamoRepository) Create(ctx context.Context, reclamo *models.Reclamo) error {
	if reclamo.ID == uuid.Nil {
		reclamo.ID = uuid.New()
	}
	if reclamo.Fecha.IsZero() {
		reclamo.Fecha = time.Now()
	}
	if reclamo.Estado == "" {
		reclamo.Estado = models.ReclamoPendiente
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO reclamos (`+reclamoColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		reclamo.ID, reclamo.UsuarioID, reclamo.Nombre, reclamo.Email, reclamo.Telefono,
		reclamo.Mensaje, reclamo.Fecha, reclamo.Estado, reclamo.Respuesta,
	)
	if err != nil {
		return fmt.Errorf("error creating reclamo: %w", translateError(err))
	}

	return nil
}

// ListByUsuario obtiene los reclamos del usuario, más recientes primero
func (r *ReclamoRepository) ListByUsuario(ctx context.Context, usuarioID uuid.UUID) ([]models.Reclamo, error) {
	return r.list(ctx, `SELECT `+reclamoColumns+` FROM reclamos WHERE usuario_id = $1 ORDER BY fecha DESC`, usuarioID)
}

// ListAll obtiene todos los reclamos, más recientes primero
func (r *ReclamoRepository) ListAll(ctx context.Context) ([]models.Reclamo, error) {
	return r.list(ctx, `SELECT `+reclamoColumns+` FROM reclamos ORDER BY fecha DESC`)
}

func (r *ReclamoRepository) list(ctx context.Context, query string, args ...interface{}) ([]models.Reclamo, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying reclamos: %w", err)
	}
	defer rows.Close()

	reclamos := []models.Reclamo{}
	for rows.Next() {
		reclamo, err := scanReclamo(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning reclamo: %w", err)
		}
		reclamos = append(reclamos, *reclamo)
	}

	return reclamos, rows.Err()
}

// GetByID obtiene un reclamo por ID sin filtrar por dueño
func (r *ReclamoRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Reclamo, error) {
	reclamo, err := scanReclamo(r.db.QueryRowContext(ctx, `SELECT `+reclamoColumns+` FROM reclamos WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("error querying reclamo: %w", translateError(err))
	}
	return reclamo, nil
}

// GetForUsuario obtiene un reclamo del usuario
func (r *ReclamoRepository) GetForUsuario(ctx context.Context, usuarioID, id uuid.UUID) (*models.Reclamo, error) {
	reclamo, err := scanReclamo(r.db.QueryRowContext(ctx,
		`SELECT `+reclamoColumns+` FROM reclamos WHERE id = $1 AND usuario_id = $2`, id, usuarioID,
	))
	if err != nil {
		return nil, fmt.Errorf("error querying reclamo: %w", translateError(err))
	}
	return reclamo, nil
}

// Update guarda los campos del reclamo
func (r *ReclamoRepository) Update(ctx context.Context, reclamo *models.Reclamo) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE reclamos
		SET nombre = $1, email = $2, telefono = $3, mensaje = $4, estado = $5, respuesta = $6
		WHERE id = $7
	`,
		reclamo.Nombre, reclamo.Email, reclamo.Telefono, reclamo.Mensaje,
		reclamo.Estado, reclamo.Respuesta, reclamo.ID,
	)
	if err != nil {
		return fmt.Errorf("error updating reclamo: %w", err)
	}

	return checkAffected(result)
}

// Delete elimina un reclamo del usuario
func (r *ReclamoRepository) Delete(ctx context.Context, usuarioID, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM reclamos WHERE id = $1 AND usuario_id = $2`, id, usuarioID)
	if err != nil {
		return fmt.Errorf("error deleting reclamo: %w", err)
	}

	return checkAffected(result)
}

func scanReclamo(row rowScanner) (*models.Reclamo, error) {
	var reclamo models.Reclamo
	err := row.Scan(
		&reclamo.ID, &reclamo.UsuarioID, &reclamo.Nombre, &reclamo.Email, &reclamo.Telefono,
		&reclamo.Mensaje, &reclamo.Fecha, &reclamo.Estado, &reclamo.Respuesta,
	)
	if err != nil {
		return nil, err
	}
	return &reclamo, nil
}
