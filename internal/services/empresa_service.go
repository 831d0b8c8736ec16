package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hypernova-labs/autolavado-service/internal/models"
	"github.com/sirupsen/logrus"
)

// recentCarrosWindow es la ventana de "carros recientes" del tablero
const recentCarrosWindow = 180 * 24 * time.Hour

// EmpresaService maneja la lógica de negocio para Empresa
type EmpresaService struct {
	empresas EmpresaStore
	logger   *logrus.Logger
	now      func() time.Time
}

// NewEmpresaService crea una nueva instancia del servicio
func NewEmpresaService(empresas EmpresaStore, logger *logrus.Logger) *EmpresaService {
	return &EmpresaService{
		empresas: empresas,
		logger:   logger,
		now:      time.Now,
	}
}

// List obtiene las empresas del usuario
func (s *EmpresaService) List(ctx context.Context, usuarioID uuid.UUID) ([]models.Empresa, error) {
	empresas, err := s.empresas.ListByUsuario(ctx, usuarioID)
	if err != nil {
		return nil, storeError("empresas", err)
	}
	return empresas, nil
}

// Create crea la empresa del usuario. Cada usuario tiene como máximo una.
func (s *EmpresaService) Create(ctx context.Context, usuarioID uuid.UUID, req *models.EmpresaRequest) (*models.Empresa, error) {
	if isBlank(req.Nombre) {
		return nil, validationError("nombre is required")
	}

	exists, err := s.empresas.ExistsForUsuario(ctx, usuarioID)
	if err != nil {
		return nil, storeError("empresa", err)
	}
	if exists {
		return nil, fmt.Errorf("%w: user already has an empresa", ErrConflict)
	}

	empresa := &models.Empresa{
		UsuarioID: usuarioID,
		Nombre:    strings.TrimSpace(*req.Nombre),
		RUC:       req.RUC,
		Direccion: req.Direccion,
	}
	if err := s.empresas.Create(ctx, empresa); err != nil {
		return nil, storeError("empresa", err)
	}

	s.logger.WithFields(logrus.Fields{
		"usuario_id": usuarioID,
		"empresa_id": empresa.ID,
	}).Info("Empresa created successfully")

	return empresa, nil
}

// Get obtiene una empresa del usuario
func (s *EmpresaService) Get(ctx context.Context, usuarioID, id uuid.UUID) (*models.Empresa, error) {
	empresa, err := s.empresas.GetByID(ctx, usuarioID, id)
	if err != nil {
		return nil, storeError("empresa", err)
	}
	return empresa, nil
}

// Update aplica una actualización parcial
func (s *EmpresaService) Update(ctx context.Context, usuarioID, id uuid.UUID, req *models.EmpresaRequest) (*models.Empresa, error) {
	empresa, err := s.Get(ctx, usuarioID, id)
	if err != nil {
		return nil, err
	}

	if req.Nombre != nil {
		if isBlank(req.Nombre) {
			return nil, validationError("nombre cannot be empty")
		}
		empresa.Nombre = strings.TrimSpace(*req.Nombre)
	}
	if req.RUC != nil {
		empresa.RUC = req.RUC
	}
	if req.Direccion != nil {
		empresa.Direccion = req.Direccion
	}

	if err := s.empresas.Update(ctx, empresa); err != nil {
		return nil, storeError("empresa", err)
	}
	return empresa, nil
}

// Delete elimina una empresa del usuario junto con sus carros
func (s *EmpresaService) Delete(ctx context.Context, usuarioID, id uuid.UUID) error {
	if err := s.empresas.Delete(ctx, usuarioID, id); err != nil {
		return storeError("empresa", err)
	}

	s.logger.WithFields(logrus.Fields{
		"usuario_id": usuarioID,
		"empresa_id": id,
	}).Info("Empresa deleted")
	return nil
}

// Estadisticas calcula el tablero de una empresa del usuario
func (s *EmpresaService) Estadisticas(ctx context.Context, usuarioID, id uuid.UUID) (*models.EmpresaEstadisticas, error) {
	empresa, err := s.Get(ctx, usuarioID, id)
	if err != nil {
		return nil, err
	}

	stats, err := s.empresas.Estadisticas(ctx, empresa, s.now().Add(-recentCarrosWindow))
	if err != nil {
		return nil, storeError("estadisticas", err)
	}
	return stats, nil
}
