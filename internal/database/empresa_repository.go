package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hypernova-labs/autolavado-service/internal/models"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// EmpresaRepository maneja las operaciones de base de datos para Empresa
type EmpresaRepository struct {
	db     *DB
	logger *logrus.Logger
}

// NewEmpresaRepository crea una nueva instancia del repositorio
func NewEmpresaRepository(db *DB, logger *logrus.Logger) *EmpresaRepository {
	return &EmpresaRepository{
		db:     db,
		logger: logger,
	}
}

// Create crea una nueva empresa
func (r *EmpresaRepository) Create(ctx context.Context, empresa *models.Empresa) error {
	if empresa.ID == uuid.Nil {
		empresa.ID = uuid.New()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO empresas (id, usuario_id, nombre, ruc, direccion) VALUES ($1, $2, $3, $4, $5)`,
		empresa.ID, empresa.UsuarioID, empresa.Nombre, empresa.RUC, empresa.Direccion,
	)
	if err != nil {
		return fmt.Errorf("error creating empresa: %w", translateError(err))
	}

	return nil
}

// ListByUsuario obtiene las empresas del usuario
func (r *EmpresaRepository) ListByUsuario(ctx context.Context, usuarioID uuid.UUID) ([]models.Empresa, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, usuario_id, nombre, ruc, direccion FROM empresas WHERE usuario_id = $1 ORDER BY nombre`,
		usuarioID,
	)
	if err != nil {
		return nil, fmt.Errorf("error querying empresas: %w", err)
	}
	defer rows.Close()

	empresas := []models.Empresa{}
	for rows.Next() {
		var empresa models.Empresa
		if err := rows.Scan(&empresa.ID, &empresa.UsuarioID, &empresa.Nombre, &empresa.RUC, &empresa.Direccion); err != nil {
			return nil, fmt.Errorf("error scanning empresa: %w", err)
		}
		empresas = append(empresas, empresa)
	}

	return empresas, rows.Err()
}

// GetByID obtiene una empresa por ID, limitada al usuario dueño
func (r *EmpresaRepository) GetByID(ctx context.Context, usuarioID, id uuid.UUID) (*models.Empresa, error) {
	var empresa models.Empresa
	err := r.db.QueryRowContext(ctx,
		`SELECT id, usuario_id, nombre, ruc, direccion FROM empresas WHERE id = $1 AND usuario_id = $2`,
		id, usuarioID,
	).Scan(&empresa.ID, &empresa.UsuarioID, &empresa.Nombre, &empresa.RUC, &empresa.Direccion)
	if err != nil {
		return nil, fmt.Errorf("error querying empresa: %w", translateError(err))
	}

	return &empresa, nil
}

// ExistsForUsuario indica si el usuario ya tiene una empresa
func (r *EmpresaRepository) ExistsForUsuario(ctx context.Context, usuarioID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM empresas WHERE usuario_id = $1)`, usuarioID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking empresa: %w", err)
	}
	return exists, nil
}

// Update guarda los datos de la empresa
func (r *EmpresaRepository) Update(ctx context.Context, empresa *models.Empresa) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE empresas SET nombre = $1, ruc = $2, direccion = $3 WHERE id = $4 AND usuario_id = $5`,
		empresa.Nombre, empresa.RUC, empresa.Direccion, empresa.ID, empresa.UsuarioID,
	)
	if err != nil {
		return fmt.Errorf("error updating empresa: %w", err)
	}

	return checkAffected(result)
}

// Delete elimina una empresa y sus carros
func (r *EmpresaRepository) Delete(ctx context.Context, usuarioID, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM empresas WHERE id = $1 AND usuario_id = $2`, id, usuarioID)
	if err != nil {
		return fmt.Errorf("error deleting empresa: %w", err)
	}

	return checkAffected(result)
}

// Estadisticas calcula el tablero de la empresa. since limita el conteo de carros recientes.
func (r *EmpresaRepository) Estadisticas(ctx context.Context, empresa *models.Empresa, since time.Time) (*models.EmpresaEstadisticas, error) {
	stats := &models.EmpresaEstadisticas{
		StatsPorEstado: []models.EstadoCount{},
		EmpresaInfo: models.EmpresaInfo{
			Nombre:    empresa.Nombre,
			RUC:       empresa.RUC,
			Direccion: empresa.Direccion,
		},
	}

	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE estado = 'terminado'),
			COUNT(*) FILTER (WHERE estado IN ('espera', 'proceso')),
			COALESCE(SUM(precio) FILTER (WHERE estado = 'terminado'), 0),
			COUNT(*) FILTER (WHERE dia_llegada >= $2)
		FROM carros
		WHERE empresa_id = $1
	`

	err := r.db.QueryRowContext(ctx, query, empresa.ID, since).Scan(
		&stats.CarrosRegistrados, &stats.CarrosTerminados, &stats.CarrosPendientes,
		&stats.IngresosTotales, &stats.CarrosUltimoMes,
	)
	if err != nil {
		return nil, fmt.Errorf("error querying empresa totals: %w", err)
	}

	if stats.CarrosTerminados > 0 {
		stats.PromedioPorCarro = stats.IngresosTotales.Div(decimal.NewFromInt(int64(stats.CarrosTerminados))).Round(2)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT estado, COUNT(*) FROM carros WHERE empresa_id = $1 GROUP BY estado ORDER BY estado`,
		empresa.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("error querying empresa estados: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var count models.EstadoCount
		if err := rows.Scan(&count.Estado, &count.Cantidad); err != nil {
			return nil, fmt.Errorf("error scanning estado count: %w", err)
		}
		stats.StatsPorEstado = append(stats.StatsPorEstado, count)
	}

	return stats, rows.Err()
}
