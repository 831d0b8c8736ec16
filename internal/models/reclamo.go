package models

import (
	"time"

	"github.com/google/uuid"
)

// EstadoReclamo representa el estado de atención de un reclamo
type EstadoReclamo string

const (
	ReclamoPendiente EstadoReclamo = "pendiente"
	ReclamoAtendido  EstadoReclamo = "atendido"
	ReclamoCerrado   EstadoReclamo = "cerrado"
)

// IsValid indica si el estado es uno de los permitidos
func (e EstadoReclamo) IsValid() bool {
	switch e {
	case ReclamoPendiente, ReclamoAtendido, ReclamoCerrado:
		return true
	}
	return false
}

// Reclamo representa un reclamo registrado por un usuario
type Reclamo struct {
	ID        uuid.UUID     `json:"id" db:"id"`
	UsuarioID uuid.UUID     `json:"usuario" db:"usuario_id"`
	Nombre    string        `json:"nombre" db:"nombre"`
	Email     string        `json:"email" db:"email"`
	Telefono  string        `json:"telefono" db:"telefono"`
	Mensaje   string        `json:"mensaje" db:"mensaje"`
	Fecha     time.Time     `json:"fecha" db:"fecha"`
	Estado    EstadoReclamo `json:"estado" db:"estado"`
	Respuesta *string       `json:"respuesta" db:"respuesta"`
}

// ReclamoRequest representa el request de creación de un reclamo
type ReclamoRequest struct {
	Nombre   string `json:"nombre" binding:"required,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Telefono string `json:"telefono" binding:"max=20"`
	Mensaje  string `json:"mensaje" binding:"required"`
}

// UpdateReclamoRequest representa la edición parcial de un reclamo por su autor
type UpdateReclamoRequest struct {
	Nombre   *string `json:"nombre" binding:"omitempty,min=1,max=100"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Telefono *string `json:"telefono" binding:"omitempty,max=20"`
	Mensaje  *string `json:"mensaje" binding:"omitempty,min=1"`
}

// ResponderReclamoRequest representa la respuesta de un administrador
type ResponderReclamoRequest struct {
	Respuesta *string `json:"respuesta"`
	Estado    *string `json:"estado"`
}
