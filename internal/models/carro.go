package models

import (
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EstadoCarro representa el estado del servicio de un carro
type EstadoCarro string

const (
	EstadoEspera    EstadoCarro = "espera"
	EstadoProceso   EstadoCarro = "proceso"
	EstadoTerminado EstadoCarro = "terminado"
)

// IsValid indica si el estado es uno de los permitidos
func (e EstadoCarro) IsValid() bool {
	switch e {
	case EstadoEspera, EstadoProceso, EstadoTerminado:
		return true
	}
	return false
}

var (
	placaPattern    = regexp.MustCompile(`^[A-Z0-9-]+$`)
	telefonoPattern = regexp.MustCompile(`^\+?1?\d{9,15}$`)
)

// ValidPlaca indica si la placa tiene entre 7 y 10 caracteres en mayúsculas, dígitos o guiones
func ValidPlaca(placa string) bool {
	return len(placa) >= 7 && len(placa) <= 10 && placaPattern.MatchString(placa)
}

// ValidTelefono indica si el número tiene entre 9 y 15 dígitos, con + y 1 opcionales
func ValidTelefono(telefono string) bool {
	return telefonoPattern.MatchString(telefono)
}

// Carro representa un vehículo atendido por una empresa
type Carro struct {
	ID             uuid.UUID       `json:"id" db:"id"`
	EmpresaID      uuid.UUID       `json:"-" db:"empresa_id"`
	Placa          string          `json:"placa" db:"placa"`
	Marca          string          `json:"marca" db:"marca"`
	Color          *string         `json:"color" db:"color"`
	Modelo         *string         `json:"modelo" db:"modelo"`
	FotoURL        *string         `json:"foto" db:"foto_url"`
	DiaLlegada     time.Time       `json:"dia_llegada" db:"dia_llegada"`
	DiaSalida      *time.Time      `json:"dia_salida" db:"dia_salida"`
	NumeroTelefono string          `json:"numero_telefono" db:"numero_telefono"`
	Precio         decimal.Decimal `json:"precio" db:"precio"`
	Estado         EstadoCarro     `json:"estado" db:"estado"`
}

// CreateCarroRequest representa el request para registrar un carro
type CreateCarroRequest struct {
	Empresa        uuid.UUID        `json:"empresa" binding:"required"`
	Placa          string           `json:"placa" binding:"required,placa"`
	Marca          string           `json:"marca" binding:"required,max=50"`
	Color          *string          `json:"color" binding:"omitempty,max=30"`
	Modelo         *string          `json:"modelo" binding:"omitempty,max=30"`
	DiaLlegada     *time.Time       `json:"dia_llegada"`
	DiaSalida      *time.Time       `json:"dia_salida"`
	NumeroTelefono string           `json:"numero_telefono" binding:"required,telefono"`
	Precio         *decimal.Decimal `json:"precio" binding:"required"`
	Estado         *EstadoCarro     `json:"estado"`
}

// UpdateCarroRequest representa una actualización parcial de un carro
type UpdateCarroRequest struct {
	Empresa        *uuid.UUID       `json:"empresa"`
	Placa          *string          `json:"placa" binding:"omitempty,placa"`
	Marca          *string          `json:"marca" binding:"omitempty,min=1,max=50"`
	Color          *string          `json:"color" binding:"omitempty,max=30"`
	Modelo         *string          `json:"modelo" binding:"omitempty,max=30"`
	DiaLlegada     *time.Time       `json:"dia_llegada"`
	DiaSalida      *time.Time       `json:"dia_salida"`
	NumeroTelefono *string          `json:"numero_telefono" binding:"omitempty,telefono"`
	Precio         *decimal.Decimal `json:"precio"`
	Estado         *EstadoCarro     `json:"estado"`
}
