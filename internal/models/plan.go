package models

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Plan es la fila de la tabla plans, cache de los planes de Culqi.
// El listado consulta siempre la pasarela y nunca la llena.
type Plan struct {
	CulqiID          string          `json:"culqi_id" db:"culqi_id"`
	Name             string          `json:"name" db:"name"`
	ShortName        string          `json:"short_name" db:"short_name"`
	Description      string          `json:"description" db:"description"`
	Amount           decimal.Decimal `json:"amount" db:"amount"`
	Currency         string          `json:"currency" db:"currency"`
	IntervalUnitTime string          `json:"interval_unit_time" db:"interval_unit_time"`
	IntervalCount    int             `json:"interval_count" db:"interval_count"`
	Metadata         JSONMap         `json:"metadata" db:"metadata"`
}

// PlanListResponse es el sobre del listado de planes de Culqi.
// Paging, Cursors y RemainingItems se devuelven tal como los entrega Culqi.
type PlanListResponse struct {
	Plans          []json.RawMessage `json:"plans"`
	Paging         json.RawMessage   `json:"paging"`
	Cursors        json.RawMessage   `json:"cursors"`
	RemainingItems json.RawMessage   `json:"remaining_items"`
}
