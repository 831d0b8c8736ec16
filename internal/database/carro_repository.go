package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/hypernova-labs/autolavado-service/internal/models"
	"github.com/sirupsen/logrus"
)

const carroColumns = `c.id, c.empresa_id, c.placa, c.marca, c.color, c.modelo, c.foto_url,
	c.dia_llegada, c.dia_salida, c.numero_telefono, c.precio, c.estado`

// CarroRepository maneja las operaciones de base de datos para Carro
type CarroRepository struct {
	db     *DB
	logger *logrus.Logger
}

// NewCarroRepository crea una nueva instancia del repositorio
func NewCarroRepository(db *DB, logger *logrus.Logger) *CarroRepository {
	return &CarroRepository{
		db:     db,
		logger: logger,
	}
}

// Create registra un carro
func (r *CarroRepository) Create(ctx context.Context, carro *models.Carro) error {
	if carro.ID == uuid.Nil {
		carro.ID = uuid.New()
	}

	query := `
		INSERT INTO carros (
			id, empresa_id, placa, marca, color, modelo, foto_url,
			dia_llegada, dia_salida, numero_telefono, precio, estado
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12
		)
	`

	_, err := r.db.ExecContext(ctx, query,
		carro.ID, carro.EmpresaID, carro.Placa, carro.Marca, carro.Color, carro.Modelo,
		carro.FotoURL, carro.DiaLlegada, carro.DiaSalida, carro.NumeroTelefono,
		carro.Precio, carro.Estado,
	)
	if err != nil {
		return fmt.Errorf("error creating carro: %w", translateError(err))
	}

	return nil
}

// ListByUsuario obtiene los carros de todas las empresas del usuario
func (r *CarroRepository) ListByUsuario(ctx context.Context, usuarioID uuid.UUID) ([]models.Carro, error) {
	query := `
		SELECT ` + carroColumns + `
		FROM carros c
		JOIN empresas e ON e.id = c.empresa_id
		WHERE e.usuario_id = $1
		ORDER BY c.dia_llegada DESC
	`

	rows, err := r.db.QueryContext(ctx, query, usuarioID)
	if err != nil {
		return nil, fmt.Errorf("error querying carros: %w", err)
	}
	defer rows.Close()

	carros := []models.Carro{}
	for rows.Next() {
		carro, err := scanCarro(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning carro: %w", err)
		}
		carros = append(carros, *carro)
	}

	return carros, rows.Err()
}

// GetByID obtiene un carro cuya empresa pertenece al usuario
func (r *CarroRepository) GetByID(ctx context.Context, usuarioID, id uuid.UUID) (*models.Carro, error) {
	query := `
		SELECT ` + carroColumns + `
		FROM carros c
		JOIN empresas e ON e.id = c.empresa_id
		WHERE c.id = $1 AND e.usuario_id = $2
	`

	carro, err := scanCarro(r.db.QueryRowContext(ctx, query, id, usuarioID))
	if err != nil {
		return nil, fmt.Errorf("error querying carro: %w", translateError(err))
	}
	return carro, nil
}

// Update guarda todos los campos editables del carro
func (r *CarroRepository) Update(ctx context.Context, carro *models.Carro) error {
	query := `
		UPDATE carros
		SET empresa_id = $1, placa = $2, marca = $3, color = $4, modelo = $5, foto_url = $6,
			dia_llegada = $7, dia_salida = $8, numero_telefono = $9, precio = $10, estado = $11
		WHERE id = $12
	`

	result, err := r.db.ExecContext(ctx, query,
		carro.EmpresaID, carro.Placa, carro.Marca, carro.Color, carro.Modelo, carro.FotoURL,
		carro.DiaLlegada, carro.DiaSalida, carro.NumeroTelefono, carro.Precio, carro.Estado,
		carro.ID,
	)
	if err != nil {
		return fmt.Errorf("error updating carro: %w", translateError(err))
	}

	return checkAffected(result)
}

// Delete elimina un carro
func (r *CarroRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM carros WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting carro: %w", err)
	}

	return checkAffected(result)
}

func scanCarro(row rowScanner) (*models.Carro, error) {
	var carro models.Carro
	err := row.Scan(
		&carro.ID, &carro.EmpresaID, &carro.Placa, &carro.Marca, &carro.Color,
		&carro.Modelo, &carro.FotoURL, &carro.DiaLlegada, &carro.DiaSalida,
		&carro.NumeroTelefono, &carro.Precio, &carro.Estado,
	)
	if err != nil {
		return nil, err
	}
	return &carro, nil
}
