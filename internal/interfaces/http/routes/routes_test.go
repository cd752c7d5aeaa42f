package routes

import (
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sylo-hq/sylo-backend/internal/config"
)

func TestSetupRoutesRegistersSurface(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	SetupRoutes(engine.Group("/api/v1"), nil, nil, &config.Config{})

	registered := map[string]bool{}
	for _, r := range engine.Routes() {
		registered[r.Method+" "+r.Path] = true
	}

	expected := []string{
		"POST /api/v1/auth/login",
		"POST /api/v1/auth/refresh",
		"POST /api/v1/auth/change-password",
		"GET /api/v1/owners/businesses-by-username",
		"GET /api/v1/businesses/:id/branches",
		"GET /api/v1/items",
		"GET /api/v1/inventory/composite-items",
		"POST /api/v1/inventory/composite-items/:id/produce",
		"POST /api/v1/purchase-orders/:id/receive",
		"GET /api/v1/purchase-orders/:id/pdf",
		"POST /api/v1/po-templates/from-order/:orderId",
		"GET /api/v1/transfers/destinations",
		"POST /api/v1/transfers/:id/receive",
		"POST /api/v1/transfers/:id/cancel",
		"GET /api/v1/stock/stats",
		"GET /api/v1/inventory/timeline",
		"POST /api/v1/inventory/counts/:id/complete",
		"POST /api/v1/users/:id/reset-password",
	}
	for _, route := range expected {
		if !registered[route] {
			t.Errorf("route not registered: %s", route)
		}
	}
}
