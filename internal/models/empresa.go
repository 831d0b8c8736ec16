package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Empresa representa el negocio (lavadero/taller) de un usuario
type Empresa struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UsuarioID uuid.UUID `json:"-" db:"usuario_id"`
	Nombre    string    `json:"nombre" db:"nombre"`
	RUC       *string   `json:"ruc" db:"ruc"`
	Direccion *string   `json:"direccion" db:"direccion"`
}

// EmpresaRequest representa el request para crear o actualizar una empresa
type EmpresaRequest struct {
	Nombre    *string `json:"nombre" binding:"omitempty,min=1,max=100"`
	RUC       *string `json:"ruc" binding:"omitempty,max=15"`
	Direccion *string `json:"direccion" binding:"omitempty,max=255"`
}

// EstadoCount representa la cantidad de carros en un estado
type EstadoCount struct {
	Estado   string `json:"estado" db:"estado"`
	Cantidad int    `json:"cantidad" db:"cantidad"`
}

// EmpresaInfo es el resumen de la empresa incluido en las estadísticas
type EmpresaInfo struct {
	Nombre    string  `json:"nombre"`
	RUC       *string `json:"ruc"`
	Direccion *string `json:"direccion"`
}

// EmpresaEstadisticas representa el tablero de una empresa
type EmpresaEstadisticas struct {
	CarrosRegistrados int             `json:"carros_registrados"`
	CarrosTerminados  int             `json:"carros_terminados"`
	CarrosPendientes  int             `json:"carros_pendientes"`
	IngresosTotales   decimal.Decimal `json:"ingresos_totales"`
	PromedioPorCarro  decimal.Decimal `json:"promedio_por_carro"`
	StatsPorEstado    []EstadoCount   `json:"stats_por_estado"`
	CarrosUltimoMes   int             `json:"carros_ultimo_mes"`
	EmpresaInfo       EmpresaInfo     `json:"empresa_info"`
}
