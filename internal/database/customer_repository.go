package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/hypernova-labs/autolavado-service/internal/models"
	"github.com/sirupsen/logrus"
)

const customerColumns = `id, user_id, culqi_id, address, address_city, country_code, email,
	first_name, last_name, phone_number, metadata, creation_date`

// CustomerRepository maneja las operaciones de base de datos para Customer
type CustomerRepository struct {
	db     *DB
	logger *logrus.Logger
}

// NewCustomerRepository crea una nueva instancia del repositorio
func NewCustomerRepository(db *DB, logger *logrus.Logger) *CustomerRepository {
	return &CustomerRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserta el espejo local de un cliente ya creado en Culqi
func (r *CustomerRepository) Create(ctx context.Context, customer *models.Customer) error {
	if customer.ID == uuid.Nil {
		customer.ID = uuid.New()
	}

	query := `
		INSERT INTO customers (
			id, user_id, culqi_id, address, address_city, country_code, email,
			first_name, last_name, phone_number, metadata, creation_date
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12
		)
	`

	_, err := r.db.ExecContext(ctx, query,
		customer.ID, customer.UserID, customer.CulqiID, customer.Address,
		customer.AddressCity, customer.CountryCode, customer.Email,
		customer.FirstName, customer.LastName, customer.PhoneNumber,
		customer.Metadata, customer.CreationDate,
	)
	if err != nil {
		return fmt.Errorf("error creating customer: %w", translateError(err))
	}

	return nil
}

// GetByUserID obtiene el cliente del usuario
func (r *CustomerRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE user_id = $1`

	customer, err := scanCustomer(r.db.QueryRowContext(ctx, query, userID))
	if err != nil {
		return nil, fmt.Errorf("error querying customer: %w", translateError(err))
	}
	return customer, nil
}

// GetByCulqiID obtiene el cliente por id de Culqi, limitado al usuario dueño
func (r *CustomerRepository) GetByCulqiID(ctx context.Context, userID uuid.UUID, culqiID string) (*models.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE user_id = $1 AND culqi_id = $2`

	customer, err := scanCustomer(r.db.QueryRowContext(ctx, query, userID, culqiID))
	if err != nil {
		return nil, fmt.Errorf("error querying customer: %w", translateError(err))
	}
	return customer, nil
}

// UpdateProfile guarda los campos de perfil del cliente
func (r *CustomerRepository) UpdateProfile(ctx context.Context, customer *models.Customer) error {
	query := `
		UPDATE customers
		SET address = $1, address_city = $2, country_code = $3,
			first_name = $4, last_name = $5, phone_number = $6
		WHERE id = $7
	`

	result, err := r.db.ExecContext(ctx, query,
		customer.Address, customer.AddressCity, customer.CountryCode,
		customer.FirstName, customer.LastName, customer.PhoneNumber, customer.ID,
	)
	if err != nil {
		return fmt.Errorf("error updating customer: %w", translateError(err))
	}

	return checkAffected(result)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanCustomer(row rowScanner) (*models.Customer, error) {
	var customer models.Customer
	err := row.Scan(
		&customer.ID, &customer.UserID, &customer.CulqiID, &customer.Address,
		&customer.AddressCity, &customer.CountryCode, &customer.Email,
		&customer.FirstName, &customer.LastName, &customer.PhoneNumber,
		&customer.Metadata, &customer.CreationDate,
	)
	if err != nil {
		return nil, err
	}
	return &customer, nil
}
