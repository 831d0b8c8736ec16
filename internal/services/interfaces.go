package services

import (
	"context"
	"encoding/json"
	"io"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/hypernova-labs/autolavado-service/internal/culqi"
	"github.com/hypernova-labs/autolavado-service/internal/models"
)

// Gateway es el subconjunto de la API de Culqi que usa la capa de sincronización.
// *culqi.Client la implementa.
type Gateway interface {
	CreateCustomer(ctx context.Context, req *culqi.CustomerCreate) (*culqi.Customer, error)
	UpdateCustomer(ctx context.Context, id string, req *culqi.CustomerUpdate) (*culqi.Customer, error)
	CreateCard(ctx context.Context, req *culqi.CardCreate) (*culqi.Card, error)
	UpdateCard(ctx context.Context, id string, req *culqi.CardUpdate) (*culqi.Card, error)
	DeleteCard(ctx context.Context, id string) error
	CreateSubscription(ctx context.Context, req *culqi.SubscriptionCreate) (*culqi.Subscription, error)
	GetSubscription(ctx context.Context, id string) (*culqi.Subscription, json.RawMessage, error)
	DeleteSubscription(ctx context.Context, id string) error
	ListSubscriptions(ctx context.Context, customerID string) (json.RawMessage, error)
	ListPlans(ctx context.Context, filters url.Values) (*culqi.PlanList, error)
}

// CustomerStore persiste el espejo local de clientes
type CustomerStore interface {
	Create(ctx context.Context, customer *models.Customer) error
	GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Customer, error)
	GetByCulqiID(ctx context.Context, userID uuid.UUID, culqiID string) (*models.Customer, error)
	UpdateProfile(ctx context.Context, customer *models.Customer) error
}

// CardStore persiste el espejo local de tarjetas
type CardStore interface {
	Create(ctx context.Context, card *models.Card) error
	GetByCardID(ctx context.Context, userID uuid.UUID, cardID string) (*models.Card, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Card, error)
	UpdateMetadata(ctx context.Context, id uuid.UUID, metadata models.JSONMap) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// SubscriptionStore persiste el espejo local de suscripciones
type SubscriptionStore interface {
	Create(ctx context.Context, sub *models.Subscription) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Subscription, error)
	DeleteBySubscriptionID(ctx context.Context, userID uuid.UUID, subscriptionID string) (bool, error)
}

// UserStore persiste las cuentas locales
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
}

// TokenStore persiste los hashes de tokens de sesión
type TokenStore interface {
	Upsert(ctx context.Context, userID uuid.UUID, keyHash string) (*models.AuthToken, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*models.AuthToken, error)
	GetUserByHash(ctx context.Context, keyHash string) (*models.User, error)
	UpdateLastUsed(ctx context.Context, keyHash string) error
}

// TokenCache cachea la resolución hash de token -> usuario
type TokenCache interface {
	CacheToken(ctx context.Context, keyHash string, userID uuid.UUID, ttl time.Duration) error
	CachedTokenUser(ctx context.Context, keyHash string) (uuid.UUID, error)
	EvictToken(ctx context.Context, keyHash string) error
}

// EmpresaStore persiste empresas
type EmpresaStore interface {
	Create(ctx context.Context, empresa *models.Empresa) error
	ListByUsuario(ctx context.Context, usuarioID uuid.UUID) ([]models.Empresa, error)
	GetByID(ctx context.Context, usuarioID, id uuid.UUID) (*models.Empresa, error)
	ExistsForUsuario(ctx context.Context, usuarioID uuid.UUID) (bool, error)
	Update(ctx context.Context, empresa *models.Empresa) error
	Delete(ctx context.Context, usuarioID, id uuid.UUID) error
	Estadisticas(ctx context.Context, empresa *models.Empresa, since time.Time) (*models.EmpresaEstadisticas, error)
}

// CarroStore persiste carros
type CarroStore interface {
	Create(ctx context.Context, carro *models.Carro) error
	ListByUsuario(ctx context.Context, usuarioID uuid.UUID) ([]models.Carro, error)
	GetByID(ctx context.Context, usuarioID, id uuid.UUID) (*models.Carro, error)
	Update(ctx context.Context, carro *models.Carro) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ReclamoStore persiste reclamos
type ReclamoStore interface {
	Create(ctx context.Context, reclamo *models.Reclamo) error
	ListByUsuario(ctx context.Context, usuarioID uuid.UUID) ([]models.Reclamo, error)
	ListAll(ctx context.Context) ([]models.Reclamo, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Reclamo, error)
	GetForUsuario(ctx context.Context, usuarioID, id uuid.UUID) (*models.Reclamo, error)
	Update(ctx context.Context, reclamo *models.Reclamo) error
	Delete(ctx context.Context, usuarioID, id uuid.UUID) error
}

// PhotoStore guarda fotos de carros
type PhotoStore interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error)
	Delete(ctx context.Context, key string) error
	KeyFromURL(url string) (string, bool)
}

// EventPublisher publica eventos de dominio informativos
type EventPublisher interface {
	Publish(ctx context.Context, name string, data map[string]interface{}) error
}

// ReclamoNotifier avisa al autor de un reclamo que fue respondido
type ReclamoNotifier interface {
	SendReclamoRespuesta(ctx context.Context, reclamo *models.Reclamo) error
}
