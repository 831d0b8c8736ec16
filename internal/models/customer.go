package models

import (
	"time"

	"github.com/google/uuid"
)

// Customer es el espejo local de un cliente de Culqi (uno por usuario)
type Customer struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	UserID       uuid.UUID  `json:"-" db:"user_id"`
	CulqiID      *string    `json:"culqi_id" db:"culqi_id"`
	Address      *string    `json:"address" db:"address"`
	AddressCity  *string    `json:"address_city" db:"address_city"`
	CountryCode  *string    `json:"country_code" db:"country_code"`
	Email        *string    `json:"email" db:"email"`
	FirstName    *string    `json:"first_name" db:"first_name"`
	LastName     *string    `json:"last_name" db:"last_name"`
	PhoneNumber  *string    `json:"phone_number" db:"phone_number"`
	Metadata     JSONMap    `json:"metadata" db:"metadata"`
	CreationDate *time.Time `json:"creation_date" db:"creation_date"`
}

// CreateCustomerRequest representa el request para crear un cliente en Culqi
type CreateCustomerRequest struct {
	Address     string  `json:"address" binding:"required,max=100"`
	AddressCity string  `json:"address_city" binding:"required,max=50"`
	CountryCode string  `json:"country_code" binding:"required,len=2"`
	Email       string  `json:"email" binding:"required,email,max=50"`
	FirstName   string  `json:"first_name" binding:"required,max=50"`
	LastName    string  `json:"last_name" binding:"required,max=50"`
	PhoneNumber string  `json:"phone_number" binding:"required,max=15"`
	Metadata    JSONMap `json:"metadata,omitempty"`
}

// UpdateCustomerRequest representa una actualización parcial del perfil.
// Solo estos campos pueden enviarse a Culqi.
type UpdateCustomerRequest struct {
	Address     *string `json:"address,omitempty"`
	AddressCity *string `json:"address_city,omitempty"`
	CountryCode *string `json:"country_code,omitempty"`
	FirstName   *string `json:"first_name,omitempty"`
	LastName    *string `json:"last_name,omitempty"`
	PhoneNumber *string `json:"phone_number,omitempty"`
}

// CustomerIDResponse representa la respuesta de /customers/me/id
type CustomerIDResponse struct {
	CustomerID string `json:"customer_id"`
}

// MyCustomerResponse representa la respuesta de /customers/me
type MyCustomerResponse struct {
	CustomerID *string   `json:"customer_id"`
	Data       *Customer `json:"data"`
}
