package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/hypernova-labs/autolavado-service/internal/config"
	"github.com/hypernova-labs/autolavado-service/internal/culqi"
	"github.com/hypernova-labs/autolavado-service/internal/models"
	"github.com/hypernova-labs/autolavado-service/internal/services"
	"github.com/sirupsen/logrus"
)

// Services agrupa los servicios que expone la API
type Services struct {
	Auth          *services.AuthService
	Customers     *services.CustomerService
	Cards         *services.CardService
	Subscriptions *services.SubscriptionService
	Plans         *services.PlanService
	Empresas      *services.EmpresaService
	Carros        *services.CarroService
	Reclamos      *services.ReclamoService
}

// RateLimiter cuenta peticiones por ventana fija. *database.Redis lo implementa.
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, time.Duration, error)
}

// HealthChecker es cualquier dependencia que puede reportar su salud
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// API maneja todos los endpoints de la API
type API struct {
	svc       Services
	limiter   RateLimiter
	rateLimit config.RateLimitConfig
	health    map[string]HealthChecker
	logger    *logrus.Logger
}

// NewAPI crea una nueva instancia de la API. limiter puede ser nil.
func NewAPI(svc Services, limiter RateLimiter, rateLimit config.RateLimitConfig, logger *logrus.Logger) *API {
	return &API{
		svc:       svc,
		limiter:   limiter,
		rateLimit: rateLimit,
		health:    map[string]HealthChecker{},
		logger:    logger,
	}
}

// AddHealthCheck registra una dependencia para /health
func (api *API) AddHealthCheck(name string, checker HealthChecker) {
	api.health[name] = checker
}

// Health reporta el estado del servicio y sus dependencias
func (api *API) Health(c *gin.Context) {
	status := http.StatusOK
	checks := gin.H{}
	for name, checker := range api.health {
		if err := checker.HealthCheck(c.Request.Context()); err != nil {
			api.logger.WithError(err).WithField("dependency", name).Warn("Health check failed")
			checks[name] = "unhealthy"
			status = http.StatusServiceUnavailable
			continue
		}
		checks[name] = "ok"
	}

	overall := "ok"
	if status != http.StatusOK {
		overall = "degraded"
	}

	c.JSON(status, gin.H{
		"status":    overall,
		"timestamp": time.Now().UTC(),
		"service":   "autolavado-service",
		"version":   "1.0.0",
		"checks":    checks,
	})
}

// respondError traduce un error de servicio a la respuesta HTTP
func (api *API) respondError(c *gin.Context, err error, message string) {
	api.respondErrorWithStatus(c, err, message, false)
}

// respondGatewayError es como respondError, pero conserva el 4xx de Culqi
func (api *API) respondGatewayError(c *gin.Context, err error, message string) {
	api.respondErrorWithStatus(c, err, message, true)
}

func (api *API) respondErrorWithStatus(c *gin.Context, err error, message string, gatewayStatus bool) {
	switch {
	case errors.Is(err, services.ErrValidation):
		c.JSON(http.StatusBadRequest, models.NewValidationError(err.Error(), nil))
	case errors.Is(err, services.ErrConflict):
		c.JSON(http.StatusConflict, models.NewConflictError(err.Error()))
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, models.NewNotFoundError(err.Error()))
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, models.NewForbiddenError(err.Error()))
	case errors.Is(err, services.ErrUpstream):
		api.logger.WithError(err).Warn(message)
		status := http.StatusBadGateway
		if code := culqi.StatusCodeOf(err); gatewayStatus && code >= 400 && code < 500 {
			status = code
		}
		detail := culqi.MerchantMessageOf(err)
		if detail == "" {
			detail = message
		}
		c.JSON(status, models.NewUpstreamError(detail))
	default:
		api.logger.WithError(err).Error(message)
		c.JSON(http.StatusInternalServerError, models.NewInternalError(message))
	}
}

// bindJSON parsea el body y responde 400 con el detalle por campo si falla
func (api *API) bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		api.logger.WithError(err).Debug("Error binding request")
		c.JSON(http.StatusBadRequest, models.NewValidationError("Invalid request format", bindingDetails(err)))
		return false
	}
	return true
}

func bindingDetails(err error) []models.ErrorDetail {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []models.ErrorDetail{{Field: "body", Issue: err.Error()}}
	}

	details := make([]models.ErrorDetail, 0, len(verrs))
	for _, fe := range verrs {
		issue := "failed on " + fe.Tag()
		if fe.Param() != "" {
			issue += "=" + fe.Param()
		}
		details = append(details, models.ErrorDetail{Field: jsonFieldName(fe), Issue: issue})
	}
	return details
}

// jsonFieldName usa el nombre del tag json registrado en RegisterValidators
func jsonFieldName(fe validator.FieldError) string {
	if name := fe.Field(); name != "" {
		return name
	}
	return strings.ToLower(fe.StructField())
}

// pathUUID parsea un parámetro de ruta como UUID y responde 400 si no lo es
func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.NewValidationError("Invalid "+name, []models.ErrorDetail{
			{Field: name, Issue: "Must be a valid UUID"},
		}))
		return uuid.Nil, false
	}
	return id, true
}

// rawJSON devuelve una respuesta de Culqi tal como llegó
func rawJSON(c *gin.Context, status int, body []byte) {
	c.Data(status, "application/json; charset=utf-8", body)
}
