package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/erpbridge/xml-erp-bridge/internal/middleware"
	"github.com/erpbridge/xml-erp-bridge/internal/model"
)

// Health handles the GET /api/health endpoint
// @Summary Health check
// @Tags system
// @Produce json
// @Success 200 {object} model.HealthResponse
// @Router /api/health [get]
func Health(c *gin.Context) {
	respondOK(c, model.HealthResponse{Status: "ok"})
}

// Me handles the GET /api/me endpoint
// @Summary Current identity
// @Description Returns the verified identity of the caller
// @Tags system
// @Produce json
// @Success 200 {object} domain.Identity
// @Failure 401 {object} model.ErrorResponse "Unauthorized"
// @Security BearerAuth
// @Router /api/me [get]
func Me(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		respondUnauthorized(c, ErrNotAuthenticate)
		return
	}
	respondOK(c, identity)
}
