package culqi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hypernova-labs/autolavado-service/internal/config"
	"github.com/sirupsen/logrus"
)

const (
	customersPath     = "/customers"
	cardsPath         = "/cards"
	subscriptionsPath = "/recurrent/subscriptions"
	plansPath         = "/recurrent/plans"
)

// AllowedPlanFilters son los únicos parámetros que se reenvían al listado de planes
var AllowedPlanFilters = []string{
	"amount", "status", "min_amount", "max_amount",
	"creation_date_from", "creation_date_to",
	"limit", "before", "after",
}

// Client es el cliente HTTP de la API v2 de Culqi.
// Es seguro para uso concurrente.
type Client struct {
	baseURL    string
	privateKey string
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewClient crea el cliente a partir de la configuración de Culqi
func NewClient(cfg config.CulqiConfig, logger *logrus.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.APIURL, "/"),
		privateKey: cfg.PrivateKey,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// CreateCustomer crea un cliente en Culqi
func (c *Client) CreateCustomer(ctx context.Context, req *CustomerCreate) (*Customer, error) {
	var customer Customer
	if err := c.do(ctx, http.MethodPost, customersPath, nil, req, &customer); err != nil {
		return nil, err
	}
	if err := requireID("customer", customer.ID); err != nil {
		return nil, err
	}
	return &customer, nil
}

// UpdateCustomer actualiza parcialmente un cliente
func (c *Client) UpdateCustomer(ctx context.Context, id string, req *CustomerUpdate) (*Customer, error) {
	var customer Customer
	if err := c.do(ctx, http.MethodPatch, customersPath+"/"+url.PathEscape(id), nil, req, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

// CreateCard asocia una tarjeta tokenizada a un cliente
func (c *Client) CreateCard(ctx context.Context, req *CardCreate) (*Card, error) {
	var card Card
	if err := c.do(ctx, http.MethodPost, cardsPath, nil, req, &card); err != nil {
		return nil, err
	}
	if err := requireID("card", card.ID); err != nil {
		return nil, err
	}
	return &card, nil
}

// UpdateCard rota el token y/o reemplaza la metadata de una tarjeta
func (c *Client) UpdateCard(ctx context.Context, id string, req *CardUpdate) (*Card, error) {
	var card Card
	if err := c.do(ctx, http.MethodPatch, cardsPath+"/"+url.PathEscape(id), nil, req, &card); err != nil {
		return nil, err
	}
	return &card, nil
}

// DeleteCard elimina una tarjeta. Solo 200 y 204 cuentan como éxito.
func (c *Client) DeleteCard(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, cardsPath+"/"+url.PathEscape(id), nil, nil, nil, http.StatusOK, http.StatusNoContent)
}

// CreateSubscription crea una suscripción recurrente
func (c *Client) CreateSubscription(ctx context.Context, req *SubscriptionCreate) (*Subscription, error) {
	var sub Subscription
	if err := c.do(ctx, http.MethodPost, subscriptionsPath+"/create", nil, req, &sub); err != nil {
		return nil, err
	}
	if err := requireID("subscription", sub.ID); err != nil {
		return nil, err
	}
	return &sub, nil
}

// GetSubscription obtiene una suscripción junto con su cuerpo original
func (c *Client) GetSubscription(ctx context.Context, id string) (*Subscription, json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, subscriptionsPath+"/"+url.PathEscape(id), nil, nil, &raw); err != nil {
		return nil, nil, err
	}

	var sub Subscription
	if err := json.Unmarshal(raw, &sub); err != nil {
		return nil, nil, &Error{Message: "malformed subscription response", Err: err}
	}
	return &sub, raw, nil
}

// DeleteSubscription cancela una suscripción
func (c *Client) DeleteSubscription(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, subscriptionsPath+"/"+url.PathEscape(id), nil, nil, nil)
}

// ListSubscriptions lista las suscripciones de un cliente tal como las devuelve Culqi
func (c *Client) ListSubscriptions(ctx context.Context, customerID string) (json.RawMessage, error) {
	query := url.Values{}
	query.Set("customer_id", customerID)

	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, subscriptionsPath, query, nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// ListPlans lista los planes aplicando solo los filtros permitidos
func (c *Client) ListPlans(ctx context.Context, filters url.Values) (*PlanList, error) {
	var list PlanList
	if err := c.do(ctx, http.MethodGet, plansPath, FilterPlanParams(filters), nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// FilterPlanParams descarta cualquier parámetro fuera de AllowedPlanFilters
func FilterPlanParams(params url.Values) url.Values {
	filtered := url.Values{}
	for _, key := range AllowedPlanFilters {
		if values, ok := params[key]; ok && len(values) > 0 {
			filtered.Set(key, values[0])
		}
	}
	return filtered
}

// requireID rechaza una creación exitosa que no trae el id del recurso
func requireID(resource, id string) error {
	if id == "" {
		return &Error{Message: fmt.Sprintf("malformed culqi %s response: missing id", resource)}
	}
	return nil
}

// do ejecuta una llamada autenticada. Sin expected, cualquier 2xx es éxito.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}, expected ...int) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("error encoding culqi payload: %w", err)
		}
		c.logger.WithFields(logrus.Fields{
			"method":  method,
			"path":    path,
			"payload": string(payload),
		}).Debug("Culqi request")
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("error building culqi request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.privateKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &Error{Message: "culqi request failed", Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{StatusCode: resp.StatusCode, Message: "error reading culqi response", Err: err}
	}

	c.logger.WithFields(logrus.Fields{
		"method": method,
		"path":   path,
		"status": resp.StatusCode,
	}).Debug("Culqi response")

	if !isSuccess(resp.StatusCode, expected) {
		return newError(resp.StatusCode, respBody)
	}

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return &Error{StatusCode: resp.StatusCode, Message: "malformed culqi response", Err: err}
	}
	return nil
}

func isSuccess(status int, expected []int) bool {
	if len(expected) == 0 {
		return status >= 200 && status < 300
	}
	for _, code := range expected {
		if status == code {
			return true
		}
	}
	return false
}

// Error es un fallo de Culqi: error de red, estado no exitoso o respuesta malformada
type Error struct {
	StatusCode      int    `json:"-"`
	Object          string `json:"object"`
	Type            string `json:"type"`
	Code            string `json:"code"`
	MerchantMessage string `json:"merchant_message"`
	UserMessage     string `json:"user_message"`
	Message         string `json:"-"`
	Err             error  `json:"-"`
}

func newError(status int, body []byte) *Error {
	e := &Error{StatusCode: status}
	if err := json.Unmarshal(body, e); err != nil {
		e.Message = strings.TrimSpace(string(body))
	}
	if e.Message == "" {
		e.Message = http.StatusText(status)
	}
	return e
}

func (e *Error) Error() string {
	msg := e.MerchantMessage
	if msg == "" {
		msg = e.Message
	}
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("culqi: status %d: %s", e.StatusCode, msg)
	} else {
		msg = "culqi: " + msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// MerchantMessageOf retorna el merchant_message de un error de Culqi, si existe
func MerchantMessageOf(err error) string {
	var culqiErr *Error
	if errors.As(err, &culqiErr) {
		return culqiErr.MerchantMessage
	}
	return ""
}

// StatusCodeOf retorna el estado HTTP devuelto por Culqi, o 0 si no hubo respuesta
func StatusCodeOf(err error) int {
	var culqiErr *Error
	if errors.As(err, &culqiErr) {
		return culqiErr.StatusCode
	}
	return 0
}
