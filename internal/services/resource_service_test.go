package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hypernova-labs/autolavado-service/internal/database"
	"github.com/hypernova-labs/autolavado-service/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEmpresaStore struct {
	empresas  map[uuid.UUID]models.Empresa
	statsFrom time.Time
}

func newFakeEmpresaStore() *fakeEmpresaStore {
	return &fakeEmpresaStore{empresas: map[uuid.UUID]models.Empresa{}}
}

func (s *fakeEmpresaStore) add(usuarioID uuid.UUID, nombre string) models.Empresa {
	e := models.Empresa{ID: uuid.New(), UsuarioID: usuarioID, Nombre: nombre}
	s.empresas[e.ID] = e
	return e
}

func (s *fakeEmpresaStore) Create(_ context.Context, e *models.Empresa) error {
	e.ID = uuid.New()
	s.empresas[e.ID] = *e
	return nil
}

func (s *fakeEmpresaStore) ListByUsuario(_ context.Context, usuarioID uuid.UUID) ([]models.Empresa, error) {
	list := []models.Empresa{}
	for _, e := range s.empresas {
		if e.UsuarioID == usuarioID {
			list = append(list, e)
		}
	}
	return list, nil
}

func (s *fakeEmpresaStore) GetByID(_ context.Context, usuarioID, id uuid.UUID) (*models.Empresa, error) {
	e, ok := s.empresas[id]
	if !ok || e.UsuarioID != usuarioID {
		return nil, notFoundErr("empresa")
	}
	return &e, nil
}

func (s *fakeEmpresaStore) ExistsForUsuario(_ context.Context, usuarioID uuid.UUID) (bool, error) {
	for _, e := range s.empresas {
		if e.UsuarioID == usuarioID {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeEmpresaStore) Update(_ context.Context, e *models.Empresa) error {
	s.empresas[e.ID] = *e
	return nil
}

func (s *fakeEmpresaStore) Delete(_ context.Context, usuarioID, id uuid.UUID) error {
	e, ok := s.empresas[id]
	if !ok || e.UsuarioID != usuarioID {
		return database.ErrNotFound
	}
	delete(s.empresas, id)
	return nil
}

func (s *fakeEmpresaStore) Estadisticas(_ context.Context, e *models.Empresa, since time.Time) (*models.EmpresaEstadisticas, error) {
	s.statsFrom = since
	return &models.EmpresaEstadisticas{EmpresaInfo: models.EmpresaInfo{Nombre: e.Nombre}}, nil
}

type fakeCarroStore struct {
	carros   map[uuid.UUID]models.Carro
	empresas *fakeEmpresaStore
}

func (s *fakeCarroStore) Create(_ context.Context, c *models.Carro) error {
	c.ID = uuid.New()
	s.carros[c.ID] = *c
	return nil
}

func (s *fakeCarroStore) ListByUsuario(ctx context.Context, usuarioID uuid.UUID) ([]models.Carro, error) {
	list := []models.Carro{}
	for _, c := range s.carros {
		if _, err := s.empresas.GetByID(ctx, usuarioID, c.EmpresaID); err == nil {
			list = append(list, c)
		}
	}
	return list, nil
}

func (s *fakeCarroStore) GetByID(ctx context.Context, usuarioID, id uuid.UUID) (*models.Carro, error) {
	c, ok := s.carros[id]
	if !ok {
		return nil, notFoundErr("carro")
	}
	if _, err := s.empresas.GetByID(ctx, usuarioID, c.EmpresaID); err != nil {
		return nil, notFoundErr("carro")
	}
	return &c, nil
}

func (s *fakeCarroStore) Update(_ context.Context, c *models.Carro) error {
	s.carros[c.ID] = *c
	return nil
}

func (s *fakeCarroStore) Delete(_ context.Context, id uuid.UUID) error {
	delete(s.carros, id)
	return nil
}

type fakePhotoStore struct {
	uploaded map[string][]byte
	deleted  []string
}

func (p *fakePhotoStore) Upload(_ context.Context, key, _ string, body io.Reader, _ int64) (string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	p.uploaded[key] = data
	return "https://fotos.test/" + key, nil
}

func (p *fakePhotoStore) Delete(_ context.Context, key string) error {
	p.deleted = append(p.deleted, key)
	return nil
}

func (p *fakePhotoStore) KeyFromURL(url string) (string, bool) {
	return strings.CutPrefix(url, "https://fotos.test/")
}

func validCarroRequest(empresaID uuid.UUID) *models.CreateCarroRequest {
	precio := decimal.RequireFromString("35.50")
	return &models.CreateCarroRequest{
		Empresa:        empresaID,
		Placa:          "ABC-1234",
		Marca:          "Toyota",
		NumeroTelefono: "+51987654321",
		Precio:         &precio,
	}
}

func TestEmpresaCreate_OnePerUser(t *testing.T) {
	store := newFakeEmpresaStore()
	svc := NewEmpresaService(store, testLogger())
	usuarioID := uuid.New()

	empresa, err := svc.Create(context.Background(), usuarioID, &models.EmpresaRequest{Nombre: strPtr("  Lavado Express ")})
	require.NoError(t, err)
	assert.Equal(t, "Lavado Express", empresa.Nombre)

	_, err = svc.Create(context.Background(), usuarioID, &models.EmpresaRequest{Nombre: strPtr("Otra")})
	assert.True(t, errors.Is(err, ErrConflict))

	_, err = svc.Create(context.Background(), uuid.New(), &models.EmpresaRequest{})
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestEmpresaUpdate_Partial(t *testing.T) {
	store := newFakeEmpresaStore()
	usuarioID := uuid.New()
	seeded := store.add(usuarioID, "Lavado Express")
	svc := NewEmpresaService(store, testLogger())

	updated, err := svc.Update(context.Background(), usuarioID, seeded.ID, &models.EmpresaRequest{RUC: strPtr("20123456789")})
	require.NoError(t, err)
	assert.Equal(t, "Lavado Express", updated.Nombre)
	assert.Equal(t, "20123456789", *store.empresas[seeded.ID].RUC)

	_, err = svc.Update(context.Background(), usuarioID, seeded.ID, &models.EmpresaRequest{Nombre: strPtr(" ")})
	assert.True(t, errors.Is(err, ErrValidation))

	_, err = svc.Update(context.Background(), uuid.New(), seeded.ID, &models.EmpresaRequest{RUC: strPtr("1")})
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestEmpresaEstadisticas_RecentWindow(t *testing.T) {
	store := newFakeEmpresaStore()
	usuarioID := uuid.New()
	seeded := store.add(usuarioID, "Lavado Express")
	now := time.Date(2026, 6, 30, 12, 0, 0, 0, time.UTC)

	svc := NewEmpresaService(store, testLogger())
	svc.now = func() time.Time { return now }

	stats, err := svc.Estadisticas(context.Background(), usuarioID, seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, "Lavado Express", stats.EmpresaInfo.Nombre)
	assert.Equal(t, now.AddDate(0, 0, -180), store.statsFrom)

	_, err = svc.Estadisticas(context.Background(), uuid.New(), seeded.ID)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestEmpresaDelete(t *testing.T) {
	store := newFakeEmpresaStore()
	usuarioID := uuid.New()
	seeded := store.add(usuarioID, "Lavado Express")
	svc := NewEmpresaService(store, testLogger())

	assert.True(t, errors.Is(svc.Delete(context.Background(), uuid.New(), seeded.ID), ErrNotFound))
	require.NoError(t, svc.Delete(context.Background(), usuarioID, seeded.ID))
	assert.Empty(t, store.empresas)
}

func newCarroFixture(photos PhotoStore) (*CarroService, *fakeCarroStore, uuid.UUID, models.Empresa) {
	empresas := newFakeEmpresaStore()
	usuarioID := uuid.New()
	empresa := empresas.add(usuarioID, "Lavado Express")
	carros := &fakeCarroStore{carros: map[uuid.UUID]models.Carro{}, empresas: empresas}
	return NewCarroService(carros, empresas, photos, testLogger()), carros, usuarioID, empresa
}

func TestCarroCreate_Defaults(t *testing.T) {
	svc, carros, usuarioID, empresa := newCarroFixture(nil)
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	carro, err := svc.Create(context.Background(), usuarioID, validCarroRequest(empresa.ID))
	require.NoError(t, err)

	assert.Equal(t, models.EstadoEspera, carro.Estado)
	assert.Equal(t, now, carro.DiaLlegada)
	assert.Equal(t, "35.5", carro.Precio.String())
	assert.Len(t, carros.carros, 1)
}

func TestCarroCreate_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(req *models.CreateCarroRequest)
	}{
		{name: "placa lowercase", mutate: func(r *models.CreateCarroRequest) { r.Placa = "abc-1234" }},
		{name: "placa short", mutate: func(r *models.CreateCarroRequest) { r.Placa = "AB1" }},
		{name: "telefono", mutate: func(r *models.CreateCarroRequest) { r.NumeroTelefono = "12ab" }},
		{name: "precio negative", mutate: func(r *models.CreateCarroRequest) {
			p := decimal.RequireFromString("-1")
			r.Precio = &p
		}},
		{name: "precio too large", mutate: func(r *models.CreateCarroRequest) {
			p := decimal.RequireFromString("1000000")
			r.Precio = &p
		}},
		{name: "estado", mutate: func(r *models.CreateCarroRequest) {
			e := models.EstadoCarro("lavando")
			r.Estado = &e
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, carros, usuarioID, empresa := newCarroFixture(nil)
			req := validCarroRequest(empresa.ID)
			tt.mutate(req)

			_, err := svc.Create(context.Background(), usuarioID, req)
			assert.True(t, errors.Is(err, ErrValidation))
			assert.Empty(t, carros.carros)
		})
	}
}

func TestCarroCreate_ForeignEmpresa(t *testing.T) {
	svc, carros, _, empresa := newCarroFixture(nil)

	_, err := svc.Create(context.Background(), uuid.New(), validCarroRequest(empresa.ID))
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Empty(t, carros.carros)
}

func TestCarroUpdate_Partial(t *testing.T) {
	svc, carros, usuarioID, empresa := newCarroFixture(nil)
	carro, err := svc.Create(context.Background(), usuarioID, validCarroRequest(empresa.ID))
	require.NoError(t, err)

	estado := models.EstadoTerminado
	updated, err := svc.Update(context.Background(), usuarioID, carro.ID, &models.UpdateCarroRequest{Estado: &estado})
	require.NoError(t, err)
	assert.Equal(t, models.EstadoTerminado, updated.Estado)
	assert.Equal(t, "ABC-1234", carros.carros[carro.ID].Placa)

	other := uuid.New()
	_, err = svc.Update(context.Background(), usuarioID, carro.ID, &models.UpdateCarroRequest{Empresa: &other})
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, empresa.ID, carros.carros[carro.ID].EmpresaID)
}

func TestCarroUploadFoto(t *testing.T) {
	t.Run("storage not configured", func(t *testing.T) {
		svc, _, usuarioID, _ := newCarroFixture(nil)
		_, err := svc.UploadFoto(context.Background(), usuarioID, uuid.New(), "a.jpg", "image/jpeg", bytes.NewReader([]byte("x")), 1)
		assert.True(t, errors.Is(err, ErrValidation))
	})

	t.Run("rejects non images", func(t *testing.T) {
		photos := &fakePhotoStore{uploaded: map[string][]byte{}}
		svc, _, usuarioID, _ := newCarroFixture(photos)
		_, err := svc.UploadFoto(context.Background(), usuarioID, uuid.New(), "a.pdf", "application/pdf", bytes.NewReader([]byte("x")), 1)
		assert.True(t, errors.Is(err, ErrValidation))
		assert.Empty(t, photos.uploaded)
	})

	t.Run("replaces previous photo", func(t *testing.T) {
		photos := &fakePhotoStore{uploaded: map[string][]byte{}}
		svc, carros, usuarioID, empresa := newCarroFixture(photos)
		carro, err := svc.Create(context.Background(), usuarioID, validCarroRequest(empresa.ID))
		require.NoError(t, err)

		first, err := svc.UploadFoto(context.Background(), usuarioID, carro.ID, "Frente.JPG", "image/jpeg", bytes.NewReader([]byte("uno")), 3)
		require.NoError(t, err)
		require.NotNil(t, first.FotoURL)
		firstKey, ok := photos.KeyFromURL(*first.FotoURL)
		require.True(t, ok)
		assert.True(t, strings.HasPrefix(firstKey, "carros/"+carro.ID.String()+"/"))
		assert.True(t, strings.HasSuffix(firstKey, ".jpg"))

		second, err := svc.UploadFoto(context.Background(), usuarioID, carro.ID, "lado.png", "image/png", bytes.NewReader([]byte("dos")), 3)
		require.NoError(t, err)
		assert.Equal(t, []string{firstKey}, photos.deleted)
		assert.Equal(t, *second.FotoURL, *carros.carros[carro.ID].FotoURL)
	})
}

func TestCarroDelete_RemovesPhoto(t *testing.T) {
	photos := &fakePhotoStore{uploaded: map[string][]byte{}}
	svc, carros, usuarioID, empresa := newCarroFixture(photos)
	carro, err := svc.Create(context.Background(), usuarioID, validCarroRequest(empresa.ID))
	require.NoError(t, err)
	withFoto, err := svc.UploadFoto(context.Background(), usuarioID, carro.ID, "a.jpg", "image/jpeg", bytes.NewReader([]byte("x")), 1)
	require.NoError(t, err)
	key, _ := photos.KeyFromURL(*withFoto.FotoURL)

	require.NoError(t, svc.Delete(context.Background(), usuarioID, carro.ID))
	assert.Empty(t, carros.carros)
	assert.Equal(t, []string{key}, photos.deleted)
}

type fakeReclamoStore struct {
	reclamos map[uuid.UUID]models.Reclamo
}

func (s *fakeReclamoStore) Create(_ context.Context, r *models.Reclamo) error {
	r.ID = uuid.New()
	r.Fecha = time.Now()
	s.reclamos[r.ID] = *r
	return nil
}

func (s *fakeReclamoStore) ListByUsuario(_ context.Context, usuarioID uuid.UUID) ([]models.Reclamo, error) {
	list := []models.Reclamo{}
	for _, r := range s.reclamos {
		if r.UsuarioID == usuarioID {
			list = append(list, r)
		}
	}
	return list, nil
}

func (s *fakeReclamoStore) ListAll(_ context.Context) ([]models.Reclamo, error) {
	list := []models.Reclamo{}
	for _, r := range s.reclamos {
		list = append(list, r)
	}
	return list, nil
}

func (s *fakeReclamoStore) GetByID(_ context.Context, id uuid.UUID) (*models.Reclamo, error) {
	r, ok := s.reclamos[id]
	if !ok {
		return nil, notFoundErr("reclamo")
	}
	return &r, nil
}

func (s *fakeReclamoStore) GetForUsuario(ctx context.Context, usuarioID, id uuid.UUID) (*models.Reclamo, error) {
	r, err := s.GetByID(ctx, id)
	if err != nil || r.UsuarioID != usuarioID {
		return nil, notFoundErr("reclamo")
	}
	return r, nil
}

func (s *fakeReclamoStore) Update(_ context.Context, r *models.Reclamo) error {
	s.reclamos[r.ID] = *r
	return nil
}

func (s *fakeReclamoStore) Delete(_ context.Context, usuarioID, id uuid.UUID) error {
	r, ok := s.reclamos[id]
	if !ok || r.UsuarioID != usuarioID {
		return database.ErrNotFound
	}
	delete(s.reclamos, id)
	return nil
}

type fakeNotifier struct {
	sent []uuid.UUID
	err  error
}

func (n *fakeNotifier) SendReclamoRespuesta(_ context.Context, r *models.Reclamo) error {
	n.sent = append(n.sent, r.ID)
	return n.err
}

func newReclamoRequest() *models.ReclamoRequest {
	return &models.ReclamoRequest{
		Nombre:  "Ana Diaz",
		Email:   "ana@example.com",
		Mensaje: "El carro salió con manchas",
	}
}

func TestReclamoCreateAndUpdate(t *testing.T) {
	store := &fakeReclamoStore{reclamos: map[uuid.UUID]models.Reclamo{}}
	svc := NewReclamoService(store, newFakeUserStore(), nil, nil, testLogger())
	usuarioID := uuid.New()

	reclamo, err := svc.Create(context.Background(), usuarioID, newReclamoRequest())
	require.NoError(t, err)
	assert.Equal(t, models.ReclamoPendiente, reclamo.Estado)
	assert.Nil(t, reclamo.Respuesta)

	updated, err := svc.Update(context.Background(), usuarioID, reclamo.ID, &models.UpdateReclamoRequest{Mensaje: strPtr("Ya no")})
	require.NoError(t, err)
	assert.Equal(t, "Ya no", updated.Mensaje)
	assert.Equal(t, models.ReclamoPendiente, updated.Estado)

	_, err = svc.Get(context.Background(), uuid.New(), reclamo.ID)
	assert.True(t, errors.Is(err, ErrNotFound))

	assert.True(t, errors.Is(svc.Delete(context.Background(), uuid.New(), reclamo.ID), ErrNotFound))
	require.NoError(t, svc.Delete(context.Background(), usuarioID, reclamo.ID))
}

func TestReclamoResponder(t *testing.T) {
	store := &fakeReclamoStore{reclamos: map[uuid.UUID]models.Reclamo{}}
	notifier := &fakeNotifier{}
	events := &fakeEvents{}
	svc := NewReclamoService(store, newFakeUserStore(), notifier, events, testLogger())

	reclamo, err := svc.Create(context.Background(), uuid.New(), newReclamoRequest())
	require.NoError(t, err)

	answered, err := svc.Responder(context.Background(), reclamo.ID, &models.ResponderReclamoRequest{
		Respuesta: strPtr("Lo volvemos a lavar sin costo"),
		Estado:    strPtr("atendido"),
	})
	require.NoError(t, err)
	assert.Equal(t, models.ReclamoAtendido, answered.Estado)
	assert.Equal(t, []uuid.UUID{reclamo.ID}, notifier.sent)
	require.Len(t, events.events, 1)
	assert.Equal(t, EventReclamoRespondido, events.events[0].Name)
	assert.Equal(t, "atendido", events.events[0].Data["estado"])
}

func TestReclamoResponder_InvalidEstadoIgnored(t *testing.T) {
	store := &fakeReclamoStore{reclamos: map[uuid.UUID]models.Reclamo{}}
	notifier := &fakeNotifier{err: errors.New("smtp down")}
	svc := NewReclamoService(store, newFakeUserStore(), notifier, nil, testLogger())

	reclamo, err := svc.Create(context.Background(), uuid.New(), newReclamoRequest())
	require.NoError(t, err)

	answered, err := svc.Responder(context.Background(), reclamo.ID, &models.ResponderReclamoRequest{
		Respuesta: strPtr("Revisado"),
		Estado:    strPtr("resuelto"),
	})
	require.NoError(t, err)
	assert.Equal(t, models.ReclamoPendiente, answered.Estado)
	assert.Equal(t, "Revisado", *store.reclamos[reclamo.ID].Respuesta)
}

func TestReclamoResponder_WithoutRespuestaSkipsEmail(t *testing.T) {
	store := &fakeReclamoStore{reclamos: map[uuid.UUID]models.Reclamo{}}
	notifier := &fakeNotifier{}
	svc := NewReclamoService(store, newFakeUserStore(), notifier, nil, testLogger())

	reclamo, err := svc.Create(context.Background(), uuid.New(), newReclamoRequest())
	require.NoError(t, err)

	_, err = svc.Responder(context.Background(), reclamo.ID, &models.ResponderReclamoRequest{Estado: strPtr("cerrado")})
	require.NoError(t, err)
	assert.Empty(t, notifier.sent)
	assert.Equal(t, models.ReclamoCerrado, store.reclamos[reclamo.ID].Estado)

	_, err = svc.Responder(context.Background(), uuid.New(), &models.ResponderReclamoRequest{Estado: strPtr("cerrado")})
	assert.True(t, errors.Is(err, ErrNotFound))
}
