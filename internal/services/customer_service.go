package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/hypernova-labs/autolavado-service/internal/culqi"
	"github.com/hypernova-labs/autolavado-service/internal/database"
	"github.com/hypernova-labs/autolavado-service/internal/models"
	"github.com/sirupsen/logrus"
)

// CustomerService sincroniza clientes entre Culqi y el espejo local
type CustomerService struct {
	gateway   Gateway
	customers CustomerStore
	events    EventPublisher
	logger    *logrus.Logger
}

// NewCustomerService crea una nueva instancia del servicio
func NewCustomerService(gateway Gateway, customers CustomerStore, events EventPublisher, logger *logrus.Logger) *CustomerService {
	return &CustomerService{
		gateway:   gateway,
		customers: customers,
		events:    events,
		logger:    logger,
	}
}

// Create crea el cliente del usuario en Culqi y guarda su espejo local
func (s *CustomerService) Create(ctx context.Context, userID uuid.UUID, req *models.CreateCustomerRequest) (*models.Customer, error) {
	existing, err := s.customers.GetByUserID(ctx, userID)
	if err == nil && existing != nil {
		return nil, fmt.Errorf("%w: user already has a customer", ErrConflict)
	}
	if err != nil && !errors.Is(err, database.ErrNotFound) {
		return nil, storeError("customer", err)
	}

	payload := &culqi.CustomerCreate{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		Address:     req.Address,
		AddressCity: req.AddressCity,
		CountryCode: req.CountryCode,
		PhoneNumber: req.PhoneNumber,
	}
	if len(req.Metadata) > 0 {
		payload.Metadata = culqi.Metadata(req.Metadata)
	}

	remote, err := s.gateway.CreateCustomer(ctx, payload)
	if err != nil {
		return nil, upstreamError("create customer", err)
	}

	details := remote.AntifraudDetails
	customer := &models.Customer{
		UserID:       userID,
		CulqiID:      &remote.ID,
		Address:      firstNonEmpty(details.Address, req.Address),
		AddressCity:  firstNonEmpty(details.AddressCity, req.AddressCity),
		CountryCode:  firstNonEmpty(details.CountryCode, req.CountryCode),
		Email:        firstNonEmpty(remote.Email, req.Email),
		FirstName:    firstNonEmpty(details.FirstName, req.FirstName),
		LastName:     firstNonEmpty(details.LastName, req.LastName),
		PhoneNumber:  firstNonEmpty(details.Phone, req.PhoneNumber),
		Metadata:     metadataOr(remote.Metadata, req.Metadata),
		CreationDate: culqi.FromMillis(remote.CreationDate),
	}

	if err := s.customers.Create(ctx, customer); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			// Creación concurrente: el cliente remoto queda huérfano
			s.logger.WithFields(logrus.Fields{
				"user_id":  userID,
				"culqi_id": remote.ID,
			}).Warn("Concurrent customer creation, gateway customer left without local mirror")
			return nil, fmt.Errorf("%w: user already has a customer", ErrConflict)
		}
		return nil, reportSplitState(ctx, s.logger, s.events, "create customer", remote.ID, userID, err)
	}

	s.logger.WithFields(logrus.Fields{
		"user_id":  userID,
		"culqi_id": remote.ID,
	}).Info("Customer created successfully")

	return customer, nil
}

// Get obtiene el cliente local del usuario
func (s *CustomerService) Get(ctx context.Context, userID uuid.UUID) (*models.Customer, error) {
	customer, err := s.customers.GetByUserID(ctx, userID)
	if err != nil {
		return nil, storeError("customer", err)
	}
	return customer, nil
}

// GetCulqiID retorna el id de Culqi del cliente del usuario
func (s *CustomerService) GetCulqiID(ctx context.Context, userID uuid.UUID) (string, error) {
	customer, err := s.Get(ctx, userID)
	if err != nil {
		return "", err
	}
	if customer.CulqiID == nil || *customer.CulqiID == "" {
		return "", notFoundError("customer has no gateway id")
	}
	return *customer.CulqiID, nil
}

// UpdateByCulqiID actualiza el cliente identificado por su id de Culqi.
// Requiere first_name y last_name no vacíos.
func (s *CustomerService) UpdateByCulqiID(ctx context.Context, userID uuid.UUID, culqiID string, req *models.UpdateCustomerRequest) (*models.Customer, error) {
	if isEmpty(req.FirstName) || isEmpty(req.LastName) {
		return nil, validationError("first_name and last_name are required")
	}

	customer, err := s.customers.GetByCulqiID(ctx, userID, culqiID)
	if err != nil {
		return nil, storeError("customer", err)
	}

	return s.update(ctx, customer, req)
}

// UpdateMine actualiza el cliente del usuario autenticado
func (s *CustomerService) UpdateMine(ctx context.Context, userID uuid.UUID, req *models.UpdateCustomerRequest) (*models.Customer, error) {
	customer, err := s.customers.GetByUserID(ctx, userID)
	if err != nil {
		return nil, storeError("customer", err)
	}

	return s.update(ctx, customer, req)
}

func (s *CustomerService) update(ctx context.Context, customer *models.Customer, req *models.UpdateCustomerRequest) (*models.Customer, error) {
	if customer.CulqiID == nil || *customer.CulqiID == "" {
		return nil, notFoundError("customer has no gateway id")
	}

	payload := &culqi.CustomerUpdate{
		Address:     nonEmpty(req.Address),
		AddressCity: nonEmpty(req.AddressCity),
		CountryCode: nonEmpty(req.CountryCode),
		FirstName:   nonEmpty(req.FirstName),
		LastName:    nonEmpty(req.LastName),
		PhoneNumber: nonEmpty(req.PhoneNumber),
	}
	if payload.IsEmpty() {
		return nil, validationError("no fields to update")
	}

	if _, err := s.gateway.UpdateCustomer(ctx, *customer.CulqiID, payload); err != nil {
		return nil, upstreamError("update customer", err)
	}

	// Solo se aplican los campos enviados, no la respuesta completa
	applyIfSet(&customer.Address, payload.Address)
	applyIfSet(&customer.AddressCity, payload.AddressCity)
	applyIfSet(&customer.CountryCode, payload.CountryCode)
	applyIfSet(&customer.FirstName, payload.FirstName)
	applyIfSet(&customer.LastName, payload.LastName)
	applyIfSet(&customer.PhoneNumber, payload.PhoneNumber)

	if err := s.customers.UpdateProfile(ctx, customer); err != nil {
		return nil, reportSplitState(ctx, s.logger, s.events, "update customer", *customer.CulqiID, customer.UserID, err)
	}

	s.logger.WithFields(logrus.Fields{
		"user_id":  customer.UserID,
		"culqi_id": *customer.CulqiID,
	}).Info("Customer updated successfully")

	return customer, nil
}

func firstNonEmpty(values ...string) *string {
	for _, v := range values {
		if v != "" {
			v := v
			return &v
		}
	}
	return nil
}

func metadataOr(remote culqi.Metadata, fallback models.JSONMap) models.JSONMap {
	if remote != nil {
		return models.JSONMap(remote)
	}
	if fallback != nil {
		return fallback
	}
	return models.JSONMap{}
}

func isBlank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}

func isEmpty(s *string) bool {
	return s == nil || *s == ""
}

// nonEmpty descarta solo los valores ausentes o vacíos
func nonEmpty(s *string) *string {
	if isEmpty(s) {
		return nil
	}
	return s
}

func applyIfSet(dst **string, value *string) {
	if value != nil {
		v := *value
		*dst = &v
	}
}
