package api

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/hypernova-labs/autolavado-service/internal/models"
	"github.com/hypernova-labs/autolavado-service/internal/services"
	"github.com/sirupsen/logrus"
)

const userContextKey = "user"

// AuthMiddleware resuelve el usuario a partir de "Authorization: Token <key>" o "Bearer <key>"
func (api *API) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := tokenFromHeader(c.GetHeader("Authorization"))
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.NewUnauthorizedError("Authentication credentials were not provided"))
			return
		}

		user, err := api.svc.Auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, services.ErrNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, models.NewUnauthorizedError("Invalid token"))
				return
			}
			api.logger.WithError(err).Error("Error authenticating token")
			c.AbortWithStatusJSON(http.StatusInternalServerError, models.NewInternalError("Error authenticating request"))
			return
		}

		c.Set(userContextKey, user)
		c.Next()
	}
}

// AdminMiddleware exige un usuario is_staff. Debe ir después de AuthMiddleware.
func (api *API) AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil || !user.IsStaff {
			c.AbortWithStatusJSON(http.StatusForbidden, models.NewForbiddenError("Admin privileges required"))
			return
		}
		c.Next()
	}
}

// RateLimitMiddleware limita peticiones por usuario autenticado o, si no hay, por IP.
// Si Redis falla la petición pasa.
func (api *API) RateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if api.limiter == nil || api.rateLimit.Default <= 0 {
			c.Next()
			return
		}

		key := "ip:" + c.ClientIP()
		if user := currentUser(c); user != nil {
			key = "user:" + user.ID.String()
		}

		allowed, retryAfter, err := api.limiter.Allow(c.Request.Context(), key, api.rateLimit.Default, api.rateLimit.Window)
		if err != nil {
			api.logger.WithError(err).WithField("key", key).Warn("Rate limiter unavailable")
			c.Next()
			return
		}
		if !allowed {
			api.logger.WithFields(logrus.Fields{
				"key":         key,
				"retry_after": retryAfter,
			}).Info("Rate limit exceeded")
			c.Header("Retry-After", strconv.Itoa(int(retryAfter.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, models.NewRateLimitedError("Too many requests", retryAfter))
			return
		}

		c.Next()
	}
}

// DevCORSMiddleware abre CORS para desarrollo local
func DevCORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func tokenFromHeader(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok {
		return ""
	}
	if !strings.EqualFold(scheme, "Token") && !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func currentUser(c *gin.Context) *models.User {
	value, ok := c.Get(userContextKey)
	if !ok {
		return nil
	}
	user, _ := value.(*models.User)
	return user
}

var registerOnce sync.Once

// RegisterValidators registra en el validador de gin los tags placa y telefono
// y hace que los errores usen el nombre json del campo.
func RegisterValidators() error {
	var err error
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			err = fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
			return
		}

		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})

		if err = v.RegisterValidation("placa", func(fl validator.FieldLevel) bool {
			return models.ValidPlaca(fl.Field().String())
		}); err != nil {
			return
		}
		err = v.RegisterValidation("telefono", func(fl validator.FieldLevel) bool {
			return models.ValidTelefono(fl.Field().String())
		})
	})
	return err
}
