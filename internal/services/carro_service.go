package services

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hypernova-labs/autolavado-service/internal/models"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// maxPrecio es el mayor valor que admite NUMERIC(8,2)
var maxPrecio = decimal.RequireFromString("999999.99")

// CarroService maneja la lógica de negocio para Carro
type CarroService struct {
	carros   CarroStore
	empresas EmpresaStore
	photos   PhotoStore
	logger   *logrus.Logger
	now      func() time.Time
}

// NewCarroService crea una nueva instancia del servicio. photos puede ser nil.
func NewCarroService(carros CarroStore, empresas EmpresaStore, photos PhotoStore, logger *logrus.Logger) *CarroService {
	return &CarroService{
		carros:   carros,
		empresas: empresas,
		photos:   photos,
		logger:   logger,
		now:      time.Now,
	}
}

// List obtiene los carros de las empresas del usuario
func (s *CarroService) List(ctx context.Context, usuarioID uuid.UUID) ([]models.Carro, error) {
	carros, err := s.carros.ListByUsuario(ctx, usuarioID)
	if err != nil {
		return nil, storeError("carros", err)
	}
	return carros, nil
}

// Create registra un carro en una empresa del usuario
func (s *CarroService) Create(ctx context.Context, usuarioID uuid.UUID, req *models.CreateCarroRequest) (*models.Carro, error) {
	if _, err := s.empresas.GetByID(ctx, usuarioID, req.Empresa); err != nil {
		return nil, storeError("empresa", err)
	}

	carro := &models.Carro{
		EmpresaID:      req.Empresa,
		Placa:          req.Placa,
		Marca:          req.Marca,
		Color:          req.Color,
		Modelo:         req.Modelo,
		DiaLlegada:     s.now(),
		DiaSalida:      req.DiaSalida,
		NumeroTelefono: req.NumeroTelefono,
		Estado:         models.EstadoEspera,
	}
	if req.DiaLlegada != nil {
		carro.DiaLlegada = *req.DiaLlegada
	}
	if req.Precio != nil {
		carro.Precio = *req.Precio
	}
	if req.Estado != nil {
		carro.Estado = *req.Estado
	}

	if err := validateCarro(carro); err != nil {
		return nil, err
	}

	if err := s.carros.Create(ctx, carro); err != nil {
		return nil, storeError("carro", err)
	}

	s.logger.WithFields(logrus.Fields{
		"usuario_id": usuarioID,
		"carro_id":   carro.ID,
		"placa":      carro.Placa,
	}).Info("Carro created successfully")

	return carro, nil
}

// Get obtiene un carro del usuario
func (s *CarroService) Get(ctx context.Context, usuarioID, id uuid.UUID) (*models.Carro, error) {
	carro, err := s.carros.GetByID(ctx, usuarioID, id)
	if err != nil {
		return nil, storeError("carro", err)
	}
	return carro, nil
}

// Update aplica una actualización parcial. Cambiar de empresa exige que la nueva también sea del usuario.
func (s *CarroService) Update(ctx context.Context, usuarioID, id uuid.UUID, req *models.UpdateCarroRequest) (*models.Carro, error) {
	carro, err := s.Get(ctx, usuarioID, id)
	if err != nil {
		return nil, err
	}

	if req.Empresa != nil && *req.Empresa != carro.EmpresaID {
		if _, err := s.empresas.GetByID(ctx, usuarioID, *req.Empresa); err != nil {
			return nil, storeError("empresa", err)
		}
		carro.EmpresaID = *req.Empresa
	}
	if req.Placa != nil {
		carro.Placa = *req.Placa
	}
	if req.Marca != nil {
		carro.Marca = *req.Marca
	}
	if req.Color != nil {
		carro.Color = req.Color
	}
	if req.Modelo != nil {
		carro.Modelo = req.Modelo
	}
	if req.DiaLlegada != nil {
		carro.DiaLlegada = *req.DiaLlegada
	}
	if req.DiaSalida != nil {
		carro.DiaSalida = req.DiaSalida
	}
	if req.NumeroTelefono != nil {
		carro.NumeroTelefono = *req.NumeroTelefono
	}
	if req.Precio != nil {
		carro.Precio = *req.Precio
	}
	if req.Estado != nil {
		carro.Estado = *req.Estado
	}

	if err := validateCarro(carro); err != nil {
		return nil, err
	}

	if err := s.carros.Update(ctx, carro); err != nil {
		return nil, storeError("carro", err)
	}
	return carro, nil
}

// Delete elimina un carro del usuario y, si tiene, su foto
func (s *CarroService) Delete(ctx context.Context, usuarioID, id uuid.UUID) error {
	carro, err := s.Get(ctx, usuarioID, id)
	if err != nil {
		return err
	}

	if err := s.carros.Delete(ctx, carro.ID); err != nil {
		return storeError("carro", err)
	}

	s.removePhoto(ctx, carro.FotoURL)
	return nil
}

// UploadFoto sube la foto del carro y guarda su URL
func (s *CarroService) UploadFoto(ctx context.Context, usuarioID, id uuid.UUID, filename, contentType string, body io.Reader, size int64) (*models.Carro, error) {
	if s.photos == nil {
		return nil, validationError("photo storage is not configured")
	}
	if size <= 0 {
		return nil, validationError("foto is empty")
	}
	if contentType != "" && !strings.HasPrefix(contentType, "image/") {
		return nil, validationError("foto must be an image")
	}

	carro, err := s.Get(ctx, usuarioID, id)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("carros/%s/%s%s", carro.ID, uuid.New(), strings.ToLower(path.Ext(filename)))
	url, err := s.photos.Upload(ctx, key, contentType, body, size)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInternal, err)
	}

	previous := carro.FotoURL
	carro.FotoURL = &url
	if err := s.carros.Update(ctx, carro); err != nil {
		_ = s.photos.Delete(ctx, key)
		return nil, storeError("carro", err)
	}

	s.removePhoto(ctx, previous)
	return carro, nil
}

func (s *CarroService) removePhoto(ctx context.Context, url *string) {
	if s.photos == nil || url == nil {
		return
	}
	key, ok := s.photos.KeyFromURL(*url)
	if !ok {
		return
	}
	if err := s.photos.Delete(ctx, key); err != nil {
		s.logger.WithError(err).WithField("key", key).Warn("Could not delete carro photo")
	}
}

func validateCarro(carro *models.Carro) error {
	if !models.ValidPlaca(carro.Placa) {
		return validationError("placa must be 7-10 characters of A-Z, 0-9 or -")
	}
	if strings.TrimSpace(carro.Marca) == "" {
		return validationError("marca is required")
	}
	if !models.ValidTelefono(carro.NumeroTelefono) {
		return validationError("numero_telefono is not valid")
	}
	if carro.Precio.IsNegative() {
		return validationError("precio must be positive")
	}
	if carro.Precio.GreaterThan(maxPrecio) {
		return validationError("precio must be at most %s", maxPrecio.StringFixed(2))
	}
	if !carro.Estado.IsValid() {
		return validationError("estado must be one of espera, proceso, terminado")
	}
	return nil
}
