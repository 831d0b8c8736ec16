package culqi

import (
	"encoding/json"
	"time"
)

// Metadata son los pares clave/valor libres que Culqi guarda por recurso
type Metadata map[string]interface{}

// CustomerCreate es el payload de POST /customers
type CustomerCreate struct {
	FirstName   string   `json:"first_name"`
	LastName    string   `json:"last_name"`
	Email       string   `json:"email"`
	Address     string   `json:"address"`
	AddressCity string   `json:"address_city"`
	CountryCode string   `json:"country_code"`
	PhoneNumber string   `json:"phone_number"`
	Metadata    Metadata `json:"metadata,omitempty"`
}

// CustomerUpdate es el payload parcial de PATCH /customers/{id}.
// Los campos nil no se envían.
type CustomerUpdate struct {
	Address     *string `json:"address,omitempty"`
	AddressCity *string `json:"address_city,omitempty"`
	CountryCode *string `json:"country_code,omitempty"`
	FirstName   *string `json:"first_name,omitempty"`
	LastName    *string `json:"last_name,omitempty"`
	PhoneNumber *string `json:"phone_number,omitempty"`
}

// IsEmpty indica si no hay ningún campo para enviar
func (u CustomerUpdate) IsEmpty() bool {
	return u.Address == nil && u.AddressCity == nil && u.CountryCode == nil &&
		u.FirstName == nil && u.LastName == nil && u.PhoneNumber == nil
}

// AntifraudDetails son los datos de perfil que Culqi devuelve para un cliente
type AntifraudDetails struct {
	Address     string `json:"address"`
	AddressCity string `json:"address_city"`
	CountryCode string `json:"country_code"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Phone       string `json:"phone"`
}

// Customer es la representación de un cliente en Culqi.
// CreationDate viene en milisegundos desde epoch.
type Customer struct {
	Object           string           `json:"object"`
	ID               string           `json:"id"`
	CreationDate     *int64           `json:"creation_date,omitempty"`
	Email            string           `json:"email"`
	AntifraudDetails AntifraudDetails `json:"antifraud_details"`
	Metadata         Metadata         `json:"metadata,omitempty"`
}

// CardCreate es el payload de POST /cards
type CardCreate struct {
	CustomerID        string                 `json:"customer_id"`
	TokenID           string                 `json:"token_id"`
	Validate          bool                   `json:"validate"`
	Metadata          Metadata               `json:"metadata"`
	Authentication3DS map[string]interface{} `json:"authentication_3DS,omitempty"`
}

// CardUpdate es el payload de PATCH /cards/{id}
type CardUpdate struct {
	TokenID  *string  `json:"token_id,omitempty"`
	Metadata Metadata `json:"metadata,omitempty"`
}

// Card es la representación de una tarjeta en Culqi.
// CreationDate viene en milisegundos desde epoch.
type Card struct {
	Object       string   `json:"object"`
	ID           string   `json:"id"`
	CustomerID   string   `json:"customer_id"`
	Active       *bool    `json:"active,omitempty"`
	CreationDate *int64   `json:"creation_date,omitempty"`
	Metadata     Metadata `json:"metadata,omitempty"`
}

// SubscriptionCreate es el payload de POST /recurrent/subscriptions/create
type SubscriptionCreate struct {
	CardID   string   `json:"card_id"`
	PlanID   string   `json:"plan_id"`
	TYC      bool     `json:"tyc"`
	Metadata Metadata `json:"metadata"`
}

// SubscriptionCustomer es el cliente embebido en una suscripción
type SubscriptionCustomer struct {
	ID    string `json:"id"`
	Email string `json:"email,omitempty"`
}

// Subscription es la representación de una suscripción en Culqi.
// Las fechas vienen en segundos desde epoch, a diferencia de clientes y tarjetas.
type Subscription struct {
	ID              string               `json:"id"`
	Status          *int                 `json:"status,omitempty"`
	CreationDate    *int64               `json:"creation_date,omitempty"`
	NextBillingDate *int64               `json:"next_billing_date,omitempty"`
	Customer        SubscriptionCustomer `json:"customer"`
	Metadata        Metadata             `json:"metadata,omitempty"`
}

// PlanList es la respuesta cruda del listado de planes
type PlanList struct {
	Data           json.RawMessage `json:"data"`
	Paging         json.RawMessage `json:"paging"`
	Cursors        json.RawMessage `json:"cursors"`
	RemainingItems json.RawMessage `json:"remaining_items"`
}

// Estados de suscripción definidos por Culqi
const (
	SubscriptionStatusActive   = 1
	SubscriptionStatusInactive = 2
	SubscriptionStatusOther    = 3
)

// FromMillis convierte un timestamp en milisegundos a time.Time (UTC)
func FromMillis(ms *int64) *time.Time {
	if ms == nil {
		return nil
	}
	t := time.UnixMilli(*ms).UTC()
	return &t
}

// FromSeconds convierte un timestamp en segundos a time.Time (UTC)
func FromSeconds(s *int64) *time.Time {
	if s == nil {
		return nil
	}
	t := time.Unix(*s, 0).UTC()
	return &t
}
