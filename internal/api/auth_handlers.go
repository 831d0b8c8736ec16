package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hypernova-labs/autolavado-service/internal/models"
)

// Signup registra un usuario y devuelve su token
func (api *API) Signup(c *gin.Context) {
	var req models.SignupRequest
	if !api.bindJSON(c, &req) {
		return
	}

	resp, err := api.svc.Auth.Signup(c.Request.Context(), &req)
	if err != nil {
		api.respondError(c, err, "Error creating user")
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// Login valida credenciales y devuelve un token nuevo
func (api *API) Login(c *gin.Context) {
	var req models.LoginRequest
	if !api.bindJSON(c, &req) {
		return
	}

	resp, err := api.svc.Auth.Login(c.Request.Context(), &req)
	if err != nil {
		api.respondError(c, err, "Error logging in")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// TestToken confirma que el token es válido
func (api *API) TestToken(c *gin.Context) {
	user := currentUser(c)
	c.JSON(http.StatusOK, gin.H{
		"message": "passed for " + user.Email,
		"user":    user,
	})
}
