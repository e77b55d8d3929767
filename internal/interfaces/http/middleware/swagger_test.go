package middleware

import (
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/crm/backend/internal/domain/identity"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newSwaggerRouter(cfg SwaggerConfig, jwt gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.GET("/swagger/*any", SwaggerProtection(cfg, jwt), okHandler)
	return router
}

func serveSwagger(router *gin.Engine, remoteAddr, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil)
	if remoteAddr != "" {
		req.RemoteAddr = remoteAddr
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSwaggerProtection_Disabled(t *testing.T) {
	w := serveSwagger(newSwaggerRouter(SwaggerConfig{Enabled: false}, nil), "", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "ERR_NOT_FOUND")
}

func TestSwaggerProtection_Enabled_NoRestrictions(t *testing.T) {
	w := serveSwagger(newSwaggerRouter(SwaggerConfig{Enabled: true}, nil), "", "")

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSwaggerProtection_IPWhitelist(t *testing.T) {
	router := newSwaggerRouter(SwaggerConfig{
		Enabled:    true,
		AllowedIPs: []string{"127.0.0.1", "10.0.0.0/8", "not-an-ip"},
	}, nil)

	assert.Equal(t, http.StatusOK, serveSwagger(router, "127.0.0.1:12345", "").Code)
	assert.Equal(t, http.StatusOK, serveSwagger(router, "10.50.100.200:12345", "").Code)

	w := serveSwagger(router, "192.168.1.1:12345", "")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "ERR_FORBIDDEN")
}

func TestSwaggerProtection_RequireAuth(t *testing.T) {
	svc := newTestJWTService()
	jwt := JWTAuthMiddlewareWithConfig(JWTMiddlewareConfig{JWTService: svc})
	router := newSwaggerRouter(SwaggerConfig{Enabled: true, RequireAuth: true}, jwt)

	assert.Equal(t, http.StatusUnauthorized, serveSwagger(router, "", "").Code)
	assert.Equal(t, http.StatusOK, serveSwagger(router, "", newTestToken(t, svc, identity.RoleEmployee)).Code)
}

func TestIsIPAllowed(t *testing.T) {
	_, network, _ := net.ParseCIDR("192.168.0.0/16")
	ips := []net.IP{net.ParseIP("127.0.0.1")}
	nets := []*net.IPNet{network}

	assert.True(t, isIPAllowed(net.ParseIP("127.0.0.1"), ips, nets))
	assert.True(t, isIPAllowed(net.ParseIP("192.168.4.2"), ips, nets))
	assert.False(t, isIPAllowed(net.ParseIP("172.16.0.1"), ips, nets))
	assert.False(t, isIPAllowed(nil, ips, nets))
}
