package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/hypernova-labs/autolavado-service/internal/culqi"
	"github.com/hypernova-labs/autolavado-service/internal/models"
	"github.com/sirupsen/logrus"
)

// SubscriptionService sincroniza suscripciones entre Culqi y el espejo local
type SubscriptionService struct {
	gateway       Gateway
	customers     CustomerStore
	subscriptions SubscriptionStore
	events        EventPublisher
	logger        *logrus.Logger
}

// NewSubscriptionService crea una nueva instancia del servicio
func NewSubscriptionService(gateway Gateway, customers CustomerStore, subscriptions SubscriptionStore, events EventPublisher, logger *logrus.Logger) *SubscriptionService {
	return &SubscriptionService{
		gateway:       gateway,
		customers:     customers,
		subscriptions: subscriptions,
		events:        events,
		logger:        logger,
	}
}

// Create suscribe una tarjeta a un plan. tyc debe ser true.
func (s *SubscriptionService) Create(ctx context.Context, userID uuid.UUID, req *models.CreateSubscriptionRequest) (*models.Subscription, error) {
	if req.TYC == nil || !*req.TYC {
		return nil, validationError("tyc must be accepted")
	}

	payload := &culqi.SubscriptionCreate{
		CardID:   req.CardID,
		PlanID:   req.PlanID,
		TYC:      true,
		Metadata: culqi.Metadata(req.Metadata),
	}
	if payload.Metadata == nil {
		payload.Metadata = culqi.Metadata{}
	}

	remote, err := s.gateway.CreateSubscription(ctx, payload)
	if err != nil {
		return nil, upstreamError("create subscription", err)
	}

	sub := &models.Subscription{
		UserID:          userID,
		SubscriptionID:  remote.ID,
		PlanID:          req.PlanID,
		CardID:          req.CardID,
		Status:          culqi.SubscriptionStatusOther,
		CreationDate:    culqi.FromSeconds(remote.CreationDate),
		NextBillingDate: culqi.FromSeconds(remote.NextBillingDate),
		Metadata:        metadataOr(remote.Metadata, req.Metadata),
	}
	if remote.Status != nil {
		sub.Status = *remote.Status
	}

	if err := s.subscriptions.Create(ctx, sub); err != nil {
		return nil, reportSplitState(ctx, s.logger, s.events, "create subscription", remote.ID, userID, err)
	}

	s.logger.WithFields(logrus.Fields{
		"user_id":         userID,
		"subscription_id": sub.SubscriptionID,
		"plan_id":         sub.PlanID,
		"status":          sub.Status,
	}).Info("Subscription created successfully")

	return sub, nil
}

// ListRemote lista en vivo las suscripciones del cliente del usuario
func (s *SubscriptionService) ListRemote(ctx context.Context, userID uuid.UUID) (json.RawMessage, error) {
	culqiID, err := s.callerCulqiID(ctx, userID)
	if err != nil {
		return nil, err
	}

	raw, err := s.gateway.ListSubscriptions(ctx, culqiID)
	if err != nil {
		return nil, upstreamError("list subscriptions", err)
	}
	return raw, nil
}

// ListLocal lista el espejo local de suscripciones del usuario
func (s *SubscriptionService) ListLocal(ctx context.Context, userID uuid.UUID) ([]models.Subscription, error) {
	subs, err := s.subscriptions.ListByUser(ctx, userID)
	if err != nil {
		return nil, storeError("subscriptions", err)
	}
	return subs, nil
}

// Get consulta una suscripción en Culqi y verifica que pertenezca al cliente del usuario
func (s *SubscriptionService) Get(ctx context.Context, userID uuid.UUID, subscriptionID string) (json.RawMessage, error) {
	culqiID, err := s.callerCulqiID(ctx, userID)
	if err != nil {
		return nil, err
	}

	_, raw, err := s.verifyOwnership(ctx, culqiID, subscriptionID)
	if err != nil {
		return nil, err
	}
	return raw, nil
}

// Cancel verifica contra Culqi que la suscripción sea del usuario y luego la elimina
func (s *SubscriptionService) Cancel(ctx context.Context, userID uuid.UUID, subscriptionID string) error {
	culqiID, err := s.callerCulqiID(ctx, userID)
	if err != nil {
		return err
	}

	if _, _, err := s.verifyOwnership(ctx, culqiID, subscriptionID); err != nil {
		return err
	}

	if err := s.gateway.DeleteSubscription(ctx, subscriptionID); err != nil {
		return upstreamError("cancel subscription", err)
	}

	deleted, err := s.subscriptions.DeleteBySubscriptionID(ctx, userID, subscriptionID)
	if err != nil {
		return reportSplitState(ctx, s.logger, s.events, "cancel subscription", subscriptionID, userID, err)
	}

	s.logger.WithFields(logrus.Fields{
		"user_id":         userID,
		"subscription_id": subscriptionID,
		"mirror_deleted":  deleted,
	}).Info("Subscription cancelled successfully")

	return nil
}

func (s *SubscriptionService) callerCulqiID(ctx context.Context, userID uuid.UUID) (string, error) {
	customer, err := s.customers.GetByUserID(ctx, userID)
	if err != nil {
		return "", storeError("customer", err)
	}
	if customer.CulqiID == nil || *customer.CulqiID == "" {
		return "", notFoundError("customer has no gateway id")
	}
	return *customer.CulqiID, nil
}

func (s *SubscriptionService) verifyOwnership(ctx context.Context, culqiID, subscriptionID string) (*culqi.Subscription, json.RawMessage, error) {
	remote, raw, err := s.gateway.GetSubscription(ctx, subscriptionID)
	if err != nil {
		return nil, nil, upstreamError("get subscription", err)
	}

	if remote.Customer.ID != culqiID {
		s.logger.WithFields(logrus.Fields{
			"subscription_id": subscriptionID,
			"culqi_id":        culqiID,
		}).Warn("Subscription does not belong to caller")
		return nil, nil, fmt.Errorf("%w: subscription does not belong to caller", ErrForbidden)
	}

	return remote, raw, nil
}
