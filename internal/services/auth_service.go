package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hypernova-labs/autolavado-service/internal/database"
	"github.com/hypernova-labs/autolavado-service/internal/models"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// tokenBytes produce tokens de 40 caracteres hexadecimales
const tokenBytes = 20

// AuthService maneja registro, login y resolución de tokens de sesión
type AuthService struct {
	users    UserStore
	tokens   TokenStore
	cache    TokenCache
	cacheTTL time.Duration
	logger   *logrus.Logger
}

// NewAuthService crea una nueva instancia del servicio. cache puede ser nil.
func NewAuthService(users UserStore, tokens TokenStore, cache TokenCache, cacheTTL time.Duration, logger *logrus.Logger) *AuthService {
	return &AuthService{
		users:    users,
		tokens:   tokens,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

// Signup crea el usuario y le emite un token
func (s *AuthService) Signup(ctx context.Context, req *models.SignupRequest) (*models.AuthResponse, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("%w: error hashing password: %w", ErrInternal, err)
	}

	user := &models.User{
		Username:     strings.TrimSpace(req.Username),
		Email:        req.Email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: string(hash),
	}
	if user.Username == "" {
		return nil, validationError("username is required")
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, storeError("user", err)
	}

	token, err := s.issueToken(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"user_id":  user.ID,
		"username": user.Username,
	}).Info("User signed up")

	return &models.AuthResponse{Token: token, User: user}, nil
}

// Login valida credenciales y emite un token nuevo.
// Usuario inexistente y contraseña incorrecta responden igual.
func (s *AuthService) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	user, err := s.users.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, notFoundError("invalid credentials")
		}
		return nil, storeError("user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, notFoundError("invalid credentials")
	}

	token, err := s.issueToken(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return &models.AuthResponse{Token: token, User: user}, nil
}

// Authenticate resuelve el usuario dueño de un token
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, notFoundError("token")
	}
	keyHash := database.HashToken(token)

	if s.cache != nil {
		userID, err := s.cache.CachedTokenUser(ctx, keyHash)
		if err != nil {
			s.logger.WithError(err).Warn("Token cache lookup failed")
		} else if userID != uuid.Nil {
			user, err := s.users.GetByID(ctx, userID)
			if err == nil {
				return user, nil
			}
			if !errors.Is(err, database.ErrNotFound) {
				return nil, storeError("user", err)
			}
			_ = s.cache.EvictToken(ctx, keyHash)
		}
	}

	user, err := s.tokens.GetUserByHash(ctx, keyHash)
	if err != nil {
		return nil, storeError("token", err)
	}

	if s.cache != nil {
		if err := s.cache.CacheToken(ctx, keyHash, user.ID, s.cacheTTL); err != nil {
			s.logger.WithError(err).Warn("Token cache write failed")
		}
	}
	if err := s.tokens.UpdateLastUsed(ctx, keyHash); err != nil {
		s.logger.WithError(err).Warn("Could not update token last use")
	}

	return user, nil
}

// issueToken genera un token nuevo, reemplaza el anterior y lo saca del cache
func (s *AuthService) issueToken(ctx context.Context, userID uuid.UUID) (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("%w: error generating token: %w", ErrInternal, err)
	}
	token := hex.EncodeToString(buf)

	if s.cache != nil {
		if previous, err := s.tokens.GetByUserID(ctx, userID); err == nil {
			if err := s.cache.EvictToken(ctx, previous.KeyHash); err != nil {
				s.logger.WithError(err).Warn("Could not evict previous token from cache")
			}
		}
	}

	if _, err := s.tokens.Upsert(ctx, userID, database.HashToken(token)); err != nil {
		return "", storeError("token", err)
	}

	return token, nil
}
