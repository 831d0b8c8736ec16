package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hypernova-labs/autolavado-service/internal/models"
)

// CreateCustomer crea el cliente de Culqi del usuario autenticado
func (api *API) CreateCustomer(c *gin.Context) {
	user := currentUser(c)

	var req models.CreateCustomerRequest
	if !api.bindJSON(c, &req) {
		return
	}

	customer, err := api.svc.Customers.Create(c.Request.Context(), user.ID, &req)
	if err != nil {
		api.respondError(c, err, "Error creating customer")
		return
	}

	c.JSON(http.StatusCreated, customer)
}

// GetMyCustomer obtiene el cliente local del usuario
func (api *API) GetMyCustomer(c *gin.Context) {
	user := currentUser(c)

	customer, err := api.svc.Customers.Get(c.Request.Context(), user.ID)
	if err != nil {
		api.respondError(c, err, "Error retrieving customer")
		return
	}

	c.JSON(http.StatusOK, models.MyCustomerResponse{
		CustomerID: customer.CulqiID,
		Data:       customer,
	})
}

// GetMyCustomerID obtiene solo el id de Culqi del cliente del usuario
func (api *API) GetMyCustomerID(c *gin.Context) {
	user := currentUser(c)

	culqiID, err := api.svc.Customers.GetCulqiID(c.Request.Context(), user.ID)
	if err != nil {
		api.respondError(c, err, "Error retrieving customer")
		return
	}

	c.JSON(http.StatusOK, models.CustomerIDResponse{CustomerID: culqiID})
}

// GetCustomer obtiene el cliente del usuario por id local o de Culqi
func (api *API) GetCustomer(c *gin.Context) {
	user := currentUser(c)
	id := c.Param("id")

	customer, err := api.svc.Customers.Get(c.Request.Context(), user.ID)
	if err != nil {
		api.respondError(c, err, "Error retrieving customer")
		return
	}

	if customer.ID.String() != id && (customer.CulqiID == nil || *customer.CulqiID != id) {
		c.JSON(http.StatusNotFound, models.NewNotFoundError("Customer not found"))
		return
	}

	c.JSON(http.StatusOK, customer)
}

// UpdateCustomerByID actualiza el cliente identificado por su id de Culqi
func (api *API) UpdateCustomerByID(c *gin.Context) {
	user := currentUser(c)

	var req models.UpdateCustomerRequest
	if !api.bindJSON(c, &req) {
		return
	}

	customer, err := api.svc.Customers.UpdateByCulqiID(c.Request.Context(), user.ID, c.Param("id"), &req)
	if err != nil {
		api.respondGatewayError(c, err, "Error updating customer")
		return
	}

	c.JSON(http.StatusOK, customer)
}

// UpdateMyCustomer actualiza el cliente del usuario autenticado
func (api *API) UpdateMyCustomer(c *gin.Context) {
	user := currentUser(c)

	var req models.UpdateCustomerRequest
	if !api.bindJSON(c, &req) {
		return
	}

	customer, err := api.svc.Customers.UpdateMine(c.Request.Context(), user.ID, &req)
	if err != nil {
		api.respondGatewayError(c, err, "Error updating customer")
		return
	}

	c.JSON(http.StatusOK, customer)
}

// CreateCard registra una tarjeta tokenizada
func (api *API) CreateCard(c *gin.Context) {
	user := currentUser(c)

	var req models.CreateCardRequest
	if !api.bindJSON(c, &req) {
		return
	}

	card, err := api.svc.Cards.Create(c.Request.Context(), user.ID, &req)
	if err != nil {
		api.respondError(c, err, "Error creating card")
		return
	}

	c.JSON(http.StatusCreated, card)
}

// ListCards lista las tarjetas del usuario
func (api *API) ListCards(c *gin.Context) {
	user := currentUser(c)

	cards, err := api.svc.Cards.List(c.Request.Context(), user.ID)
	if err != nil {
		api.respondError(c, err, "Error listing cards")
		return
	}

	c.JSON(http.StatusOK, cards)
}

// GetCard obtiene una tarjeta del usuario por id de Culqi
func (api *API) GetCard(c *gin.Context) {
	user := currentUser(c)

	card, err := api.svc.Cards.Get(c.Request.Context(), user.ID, c.Param("id"))
	if err != nil {
		api.respondError(c, err, "Error retrieving card")
		return
	}

	c.JSON(http.StatusOK, card)
}

// UpdateCard rota el token y/o reemplaza la metadata de una tarjeta
func (api *API) UpdateCard(c *gin.Context) {
	user := currentUser(c)

	var req models.UpdateCardRequest
	if !api.bindJSON(c, &req) {
		return
	}

	card, err := api.svc.Cards.Update(c.Request.Context(), user.ID, c.Param("id"), &req)
	if err != nil {
		api.respondError(c, err, "Error updating card")
		return
	}

	c.JSON(http.StatusOK, card)
}

// DeleteCard elimina una tarjeta
func (api *API) DeleteCard(c *gin.Context) {
	user := currentUser(c)

	if err := api.svc.Cards.Delete(c.Request.Context(), user.ID, c.Param("id")); err != nil {
		api.respondError(c, err, "Error deleting card")
		return
	}

	c.Status(http.StatusNoContent)
}

// CreateSubscription suscribe una tarjeta a un plan
func (api *API) CreateSubscription(c *gin.Context) {
	user := currentUser(c)

	var req models.CreateSubscriptionRequest
	if !api.bindJSON(c, &req) {
		return
	}

	sub, err := api.svc.Subscriptions.Create(c.Request.Context(), user.ID, &req)
	if err != nil {
		api.respondError(c, err, "Error creating subscription")
		return
	}

	c.JSON(http.StatusCreated, sub)
}

// ListSubscriptions lista en vivo las suscripciones del usuario
func (api *API) ListSubscriptions(c *gin.Context) {
	user := currentUser(c)

	raw, err := api.svc.Subscriptions.ListRemote(c.Request.Context(), user.ID)
	if err != nil {
		api.respondError(c, err, "Error listing subscriptions")
		return
	}

	rawJSON(c, http.StatusOK, raw)
}

// ListLocalSubscriptions lista el espejo local de suscripciones
func (api *API) ListLocalSubscriptions(c *gin.Context) {
	user := currentUser(c)

	subs, err := api.svc.Subscriptions.ListLocal(c.Request.Context(), user.ID)
	if err != nil {
		api.respondError(c, err, "Error listing subscriptions")
		return
	}

	c.JSON(http.StatusOK, subs)
}

// GetSubscription consulta una suscripción del usuario en Culqi
func (api *API) GetSubscription(c *gin.Context) {
	user := currentUser(c)

	raw, err := api.svc.Subscriptions.Get(c.Request.Context(), user.ID, c.Param("id"))
	if err != nil {
		api.respondError(c, err, "Error retrieving subscription")
		return
	}

	rawJSON(c, http.StatusOK, raw)
}

// CancelSubscription cancela una suscripción del usuario
func (api *API) CancelSubscription(c *gin.Context) {
	user := currentUser(c)

	if err := api.svc.Subscriptions.Cancel(c.Request.Context(), user.ID, c.Param("id")); err != nil {
		api.respondError(c, err, "Error cancelling subscription")
		return
	}

	c.Status(http.StatusNoContent)
}

// ListPlans lista los planes de Culqi reenviando solo los filtros permitidos
func (api *API) ListPlans(c *gin.Context) {
	plans, err := api.svc.Plans.List(c.Request.Context(), c.Request.URL.Query())
	if err != nil {
		api.respondError(c, err, "Error listing plans")
		return
	}

	c.JSON(http.StatusOK, plans)
}
