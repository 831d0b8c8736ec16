package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/hypernova-labs/autolavado-service/internal/culqi"
	"github.com/hypernova-labs/autolavado-service/internal/models"
	"github.com/sirupsen/logrus"
)

// CardService sincroniza tarjetas entre Culqi y el espejo local
type CardService struct {
	gateway Gateway
	cards   CardStore
	events  EventPublisher
	logger  *logrus.Logger
}

// NewCardService crea una nueva instancia del servicio
func NewCardService(gateway Gateway, cards CardStore, events EventPublisher, logger *logrus.Logger) *CardService {
	return &CardService{
		gateway: gateway,
		cards:   cards,
		events:  events,
		logger:  logger,
	}
}

// Create registra una tarjeta tokenizada en Culqi y guarda su espejo local.
// La pertenencia de customer_id la valida Culqi.
func (s *CardService) Create(ctx context.Context, userID uuid.UUID, req *models.CreateCardRequest) (*models.Card, error) {
	validate := true
	if req.Validate != nil {
		validate = *req.Validate
	}

	payload := &culqi.CardCreate{
		CustomerID: req.CustomerID,
		TokenID:    req.TokenID,
		Validate:   validate,
		Metadata:   culqi.Metadata(req.Metadata),
	}
	if payload.Metadata == nil {
		payload.Metadata = culqi.Metadata{}
	}
	if len(req.Authentication3DS) > 0 {
		payload.Authentication3DS = req.Authentication3DS
	}

	remote, err := s.gateway.CreateCard(ctx, payload)
	if err != nil {
		return nil, upstreamError("create card", err)
	}

	card := &models.Card{
		UserID:       userID,
		CardID:       remote.ID,
		CustomerID:   remote.CustomerID,
		Active:       true,
		Metadata:     metadataOr(remote.Metadata, req.Metadata),
		CreationDate: culqi.FromMillis(remote.CreationDate),
	}
	if card.CustomerID == "" {
		card.CustomerID = req.CustomerID
	}
	if remote.Active != nil {
		card.Active = *remote.Active
	}

	if err := s.cards.Create(ctx, card); err != nil {
		return nil, reportSplitState(ctx, s.logger, s.events, "create card", remote.ID, userID, err)
	}

	s.logger.WithFields(logrus.Fields{
		"user_id":     userID,
		"card_id":     card.CardID,
		"customer_id": card.CustomerID,
	}).Info("Card created successfully")

	return card, nil
}

// List obtiene las tarjetas locales del usuario
func (s *CardService) List(ctx context.Context, userID uuid.UUID) ([]models.Card, error) {
	cards, err := s.cards.ListByUser(ctx, userID)
	if err != nil {
		return nil, storeError("cards", err)
	}
	return cards, nil
}

// Get obtiene una tarjeta local del usuario
func (s *CardService) Get(ctx context.Context, userID uuid.UUID, cardID string) (*models.Card, error) {
	card, err := s.cards.GetByCardID(ctx, userID, cardID)
	if err != nil {
		return nil, storeError("card", err)
	}
	return card, nil
}

// Update rota el token y/o reemplaza la metadata de una tarjeta.
// Localmente solo se refleja la metadata que devuelve Culqi.
func (s *CardService) Update(ctx context.Context, userID uuid.UUID, cardID string, req *models.UpdateCardRequest) (*models.Card, error) {
	tokenID := nonEmpty(req.TokenID)
	sendMetadata := len(req.Metadata) > 0
	if tokenID == nil && !sendMetadata {
		return nil, validationError("token_id or metadata is required")
	}

	card, err := s.cards.GetByCardID(ctx, userID, cardID)
	if err != nil {
		return nil, storeError("card", err)
	}

	payload := &culqi.CardUpdate{TokenID: tokenID}
	if sendMetadata {
		payload.Metadata = culqi.Metadata(req.Metadata)
	}

	remote, err := s.gateway.UpdateCard(ctx, card.CardID, payload)
	if err != nil {
		return nil, upstreamError("update card", err)
	}

	if sendMetadata {
		card.Metadata = metadataOr(remote.Metadata, nil)
		if err := s.cards.UpdateMetadata(ctx, card.ID, card.Metadata); err != nil {
			return nil, reportSplitState(ctx, s.logger, s.events, "update card", card.CardID, userID, err)
		}
	}

	s.logger.WithFields(logrus.Fields{
		"user_id":        userID,
		"card_id":        card.CardID,
		"token_rotated":  tokenID != nil,
		"metadata_saved": sendMetadata,
	}).Info("Card updated successfully")

	return card, nil
}

// Delete elimina la tarjeta en Culqi y, solo si tuvo éxito, su espejo local
func (s *CardService) Delete(ctx context.Context, userID uuid.UUID, cardID string) error {
	card, err := s.cards.GetByCardID(ctx, userID, cardID)
	if err != nil {
		return storeError("card", err)
	}

	if err := s.gateway.DeleteCard(ctx, card.CardID); err != nil {
		return upstreamError("delete card", err)
	}

	if err := s.cards.Delete(ctx, card.ID); err != nil {
		return reportSplitState(ctx, s.logger, s.events, "delete card", card.CardID, userID, err)
	}

	s.logger.WithFields(logrus.Fields{
		"user_id": userID,
		"card_id": card.CardID,
	}).Info("Card deleted successfully")

	return nil
}
