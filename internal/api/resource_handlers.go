package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hypernova-labs/autolavado-service/internal/models"
)

// ListEmpresas lista las empresas del usuario
func (api *API) ListEmpresas(c *gin.Context) {
	user := currentUser(c)

	empresas, err := api.svc.Empresas.List(c.Request.Context(), user.ID)
	if err != nil {
		api.respondError(c, err, "Error listing empresas")
		return
	}

	c.JSON(http.StatusOK, empresas)
}

// CreateEmpresa crea la empresa del usuario
func (api *API) CreateEmpresa(c *gin.Context) {
	user := currentUser(c)

	var req models.EmpresaRequest
	if !api.bindJSON(c, &req) {
		return
	}

	empresa, err := api.svc.Empresas.Create(c.Request.Context(), user.ID, &req)
	if err != nil {
		api.respondError(c, err, "Error creating empresa")
		return
	}

	c.JSON(http.StatusCreated, empresa)
}

// GetEmpresa obtiene una empresa del usuario
func (api *API) GetEmpresa(c *gin.Context) {
	user := currentUser(c)
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	empresa, err := api.svc.Empresas.Get(c.Request.Context(), user.ID, id)
	if err != nil {
		api.respondError(c, err, "Error retrieving empresa")
		return
	}

	c.JSON(http.StatusOK, empresa)
}

// UpdateEmpresa actualiza parcialmente una empresa del usuario
func (api *API) UpdateEmpresa(c *gin.Context) {
	user := currentUser(c)
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req models.EmpresaRequest
	if !api.bindJSON(c, &req) {
		return
	}

	empresa, err := api.svc.Empresas.Update(c.Request.Context(), user.ID, id, &req)
	if err != nil {
		api.respondError(c, err, "Error updating empresa")
		return
	}

	c.JSON(http.StatusOK, empresa)
}

// DeleteEmpresa elimina una empresa del usuario
func (api *API) DeleteEmpresa(c *gin.Context) {
	user := currentUser(c)
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	if err := api.svc.Empresas.Delete(c.Request.Context(), user.ID, id); err != nil {
		api.respondError(c, err, "Error deleting empresa")
		return
	}

	c.Status(http.StatusNoContent)
}

// GetEmpresaEstadisticas devuelve el tablero de la empresa
func (api *API) GetEmpresaEstadisticas(c *gin.Context) {
	user := currentUser(c)
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	stats, err := api.svc.Empresas.Estadisticas(c.Request.Context(), user.ID, id)
	if err != nil {
		api.respondError(c, err, "Error computing estadisticas")
		return
	}

	c.JSON(http.StatusOK, stats)
}

// ListCarros lista los carros de las empresas del usuario
func (api *API) ListCarros(c *gin.Context) {
	user := currentUser(c)

	carros, err := api.svc.Carros.List(c.Request.Context(), user.ID)
	if err != nil {
		api.respondError(c, err, "Error listing carros")
		return
	}

	c.JSON(http.StatusOK, carros)
}

// CreateCarro registra un carro
func (api *API) CreateCarro(c *gin.Context) {
	user := currentUser(c)

	var req models.CreateCarroRequest
	if !api.bindJSON(c, &req) {
		return
	}

	carro, err := api.svc.Carros.Create(c.Request.Context(), user.ID, &req)
	if err != nil {
		api.respondError(c, err, "Error creating carro")
		return
	}

	c.JSON(http.StatusCreated, carro)
}

// GetCarro obtiene un carro del usuario
func (api *API) GetCarro(c *gin.Context) {
	user := currentUser(c)
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	carro, err := api.svc.Carros.Get(c.Request.Context(), user.ID, id)
	if err != nil {
		api.respondError(c, err, "Error retrieving carro")
		return
	}

	c.JSON(http.StatusOK, carro)
}

// UpdateCarro actualiza parcialmente un carro
func (api *API) UpdateCarro(c *gin.Context) {
	user := currentUser(c)
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req models.UpdateCarroRequest
	if !api.bindJSON(c, &req) {
		return
	}

	carro, err := api.svc.Carros.Update(c.Request.Context(), user.ID, id, &req)
	if err != nil {
		api.respondError(c, err, "Error updating carro")
		return
	}

	c.JSON(http.StatusOK, carro)
}

// DeleteCarro elimina un carro
func (api *API) DeleteCarro(c *gin.Context) {
	user := currentUser(c)
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	if err := api.svc.Carros.Delete(c.Request.Context(), user.ID, id); err != nil {
		api.respondError(c, err, "Error deleting carro")
		return
	}

	c.Status(http.StatusNoContent)
}

// UploadCarroFoto recibe la foto del carro como multipart (campo "foto")
func (api *API) UploadCarroFoto(c *gin.Context) {
	user := currentUser(c)
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	header, err := c.FormFile("foto")
	if err != nil {
		c.JSON(http.StatusBadRequest, models.NewValidationError("foto is required", []models.ErrorDetail{
			{Field: "foto", Issue: err.Error()},
		}))
		return
	}

	file, err := header.Open()
	if err != nil {
		api.respondError(c, err, "Error reading foto")
		return
	}
	defer file.Close()

	carro, err := api.svc.Carros.UploadFoto(c.Request.Context(), user.ID, id,
		header.Filename, header.Header.Get("Content-Type"), file, header.Size)
	if err != nil {
		api.respondError(c, err, "Error uploading foto")
		return
	}

	c.JSON(http.StatusOK, carro)
}

// ListReclamos lista los reclamos del usuario
func (api *API) ListReclamos(c *gin.Context) {
	user := currentUser(c)

	reclamos, err := api.svc.Reclamos.List(c.Request.Context(), user.ID)
	if err != nil {
		api.respondError(c, err, "Error listing reclamos")
		return
	}

	c.JSON(http.StatusOK, reclamos)
}

// CreateReclamo registra un reclamo
func (api *API) CreateReclamo(c *gin.Context) {
	user := currentUser(c)

	var req models.ReclamoRequest
	if !api.bindJSON(c, &req) {
		return
	}

	reclamo, err := api.svc.Reclamos.Create(c.Request.Context(), user.ID, &req)
	if err != nil {
		api.respondError(c, err, "Error creating reclamo")
		return
	}

	c.JSON(http.StatusCreated, reclamo)
}

// GetReclamo obtiene un reclamo del usuario
func (api *API) GetReclamo(c *gin.Context) {
	user := currentUser(c)
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	reclamo, err := api.svc.Reclamos.Get(c.Request.Context(), user.ID, id)
	if err != nil {
		api.respondError(c, err, "Error retrieving reclamo")
		return
	}

	c.JSON(http.StatusOK, reclamo)
}

// UpdateReclamo edita un reclamo del usuario
func (api *API) UpdateReclamo(c *gin.Context) {
	user := currentUser(c)
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req models.UpdateReclamoRequest
	if !api.bindJSON(c, &req) {
		return
	}

	reclamo, err := api.svc.Reclamos.Update(c.Request.Context(), user.ID, id, &req)
	if err != nil {
		api.respondError(c, err, "Error updating reclamo")
		return
	}

	c.JSON(http.StatusOK, reclamo)
}

// DeleteReclamo elimina un reclamo del usuario
func (api *API) DeleteReclamo(c *gin.Context) {
	user := currentUser(c)
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	if err := api.svc.Reclamos.Delete(c.Request.Context(), user.ID, id); err != nil {
		api.respondError(c, err, "Error deleting reclamo")
		return
	}

	c.Status(http.StatusNoContent)
}

// AdminListUsers lista todos los usuarios (endpoint admin)
func (api *API) AdminListUsers(c *gin.Context) {
	users, err := api.svc.Reclamos.ListUsers(c.Request.Context())
	if err != nil {
		api.respondError(c, err, "Error listing users")
		return
	}

	c.JSON(http.StatusOK, users)
}

// AdminListReclamos lista todos los reclamos (endpoint admin)
func (api *API) AdminListReclamos(c *gin.Context) {
	reclamos, err := api.svc.Reclamos.ListAll(c.Request.Context())
	if err != nil {
		api.respondError(c, err, "Error listing reclamos")
		return
	}

	c.JSON(http.StatusOK, reclamos)
}

// AdminResponderReclamo responde un reclamo (endpoint admin)
func (api *API) AdminResponderReclamo(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req models.ResponderReclamoRequest
	if !api.bindJSON(c, &req) {
		return
	}

	reclamo, err := api.svc.Reclamos.Responder(c.Request.Context(), id, &req)
	if err != nil {
		api.respondError(c, err, "Error answering reclamo")
		return
	}

	c.JSON(http.StatusOK, reclamo)
}
