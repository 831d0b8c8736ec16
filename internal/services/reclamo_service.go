package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/hypernova-labs/autolavado-service/internal/models"
	"github.com/sirupsen/logrus"
)

// EventReclamoRespondido se publica cuando un administrador responde un reclamo
const EventReclamoRespondido = "reclamo/responded"

// ReclamoService maneja los reclamos de usuarios y su atención por administradores
type ReclamoService struct {
	reclamos ReclamoStore
	users    UserStore
	notifier ReclamoNotifier
	events   EventPublisher
	logger   *logrus.Logger
}

// NewReclamoService crea una nueva instancia del servicio. notifier y events pueden ser nil.
func NewReclamoService(reclamos ReclamoStore, users UserStore, notifier ReclamoNotifier, events EventPublisher, logger *logrus.Logger) *ReclamoService {
	return &ReclamoService{
		reclamos: reclamos,
		users:    users,
		notifier: notifier,
		events:   events,
		logger:   logger,
	}
}

// Create registra un reclamo del usuario
func (s *ReclamoService) Create(ctx context.Context, usuarioID uuid.UUID, req *models.ReclamoRequest) (*models.Reclamo, error) {
	reclamo := &models.Reclamo{
		UsuarioID: usuarioID,
		Nombre:    req.Nombre,
		Email:     req.Email,
		Telefono:  req.Telefono,
		Mensaje:   req.Mensaje,
		Estado:    models.ReclamoPendiente,
	}

	if err := s.reclamos.Create(ctx, reclamo); err != nil {
		return nil, storeError("reclamo", err)
	}

	s.logger.WithFields(logrus.Fields{
		"usuario_id": usuarioID,
		"reclamo_id": reclamo.ID,
	}).Info("Reclamo created")

	return reclamo, nil
}

// List obtiene los reclamos del usuario, más recientes primero
func (s *ReclamoService) List(ctx context.Context, usuarioID uuid.UUID) ([]models.Reclamo, error) {
	reclamos, err := s.reclamos.ListByUsuario(ctx, usuarioID)
	if err != nil {
		return nil, storeError("reclamos", err)
	}
	return reclamos, nil
}

// Get obtiene un reclamo del usuario
func (s *ReclamoService) Get(ctx context.Context, usuarioID, id uuid.UUID) (*models.Reclamo, error) {
	reclamo, err := s.reclamos.GetForUsuario(ctx, usuarioID, id)
	if err != nil {
		return nil, storeError("reclamo", err)
	}
	return reclamo, nil
}

// Update edita los datos de contacto o el mensaje. El estado y la respuesta solo los cambia un administrador.
func (s *ReclamoService) Update(ctx context.Context, usuarioID, id uuid.UUID, req *models.UpdateReclamoRequest) (*models.Reclamo, error) {
	reclamo, err := s.Get(ctx, usuarioID, id)
	if err != nil {
		return nil, err
	}

	if req.Nombre != nil {
		reclamo.Nombre = *req.Nombre
	}
	if req.Email != nil {
		reclamo.Email = *req.Email
	}
	if req.Telefono != nil {
		reclamo.Telefono = *req.Telefono
	}
	if req.Mensaje != nil {
		reclamo.Mensaje = *req.Mensaje
	}

	if err := s.reclamos.Update(ctx, reclamo); err != nil {
		return nil, storeError("reclamo", err)
	}
	return reclamo, nil
}

// Delete elimina un reclamo del usuario
func (s *ReclamoService) Delete(ctx context.Context, usuarioID, id uuid.UUID) error {
	if err := s.reclamos.Delete(ctx, usuarioID, id); err != nil {
		return storeError("reclamo", err)
	}
	return nil
}

// ListUsers lista todos los usuarios (administración)
func (s *ReclamoService) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, storeError("users", err)
	}
	return users, nil
}

// ListAll lista todos los reclamos (administración)
func (s *ReclamoService) ListAll(ctx context.Context) ([]models.Reclamo, error) {
	reclamos, err := s.reclamos.ListAll(ctx)
	if err != nil {
		return nil, storeError("reclamos", err)
	}
	return reclamos, nil
}

// Responder guarda la respuesta de un administrador. Un estado fuera de los permitidos se ignora.
func (s *ReclamoService) Responder(ctx context.Context, id uuid.UUID, req *models.ResponderReclamoRequest) (*models.Reclamo, error) {
	reclamo, err := s.reclamos.GetByID(ctx, id)
	if err != nil {
		return nil, storeError("reclamo", err)
	}

	if req.Respuesta != nil {
		reclamo.Respuesta = req.Respuesta
	}
	if req.Estado != nil {
		if estado := models.EstadoReclamo(*req.Estado); estado.IsValid() {
			reclamo.Estado = estado
		}
	}

	if err := s.reclamos.Update(ctx, reclamo); err != nil {
		return nil, storeError("reclamo", err)
	}

	fields := logrus.Fields{
		"reclamo_id": reclamo.ID,
		"estado":     reclamo.Estado,
	}
	s.logger.WithFields(fields).Info("Reclamo answered")

	if s.notifier != nil && reclamo.Respuesta != nil {
		if err := s.notifier.SendReclamoRespuesta(ctx, reclamo); err != nil {
			s.logger.WithFields(fields).WithError(err).Warn("Could not email reclamo answer")
		}
	}

	if s.events != nil {
		data := map[string]interface{}{
			"reclamo_id": reclamo.ID.String(),
			"usuario_id": reclamo.UsuarioID.String(),
			"estado":     string(reclamo.Estado),
		}
		if err := s.events.Publish(ctx, EventReclamoRespondido, data); err != nil {
			s.logger.WithFields(fields).WithError(err).Warn("Could not publish reclamo event")
		}
	}

	return reclamo, nil
}
