package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"taxreturn/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signed(t *testing.T, secret []byte, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	require.NoError(t, err)
	return s
}

func router() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/staff", RequireRole(model.RoleAccountant, model.RoleAdmin), func(c *gin.Context) {
		id, role := CurrentUser(c)
		c.String(http.StatusOK, id+"|"+role)
	})
	return r
}

func TestRequireRole(t *testing.T) {
	secret := []byte("middleware-test")
	InitJWT(secret)
	t.Cleanup(func() { InitJWT([]byte("supersecretkey")) })

	exp := time.Now().Add(time.Hour).Unix()
	tests := []struct {
		name   string
		header string
		cookie string
		status int
		body   string
	}{
		{name: "missing", status: http.StatusUnauthorized},
		{name: "bad format", header: "Token abc", status: http.StatusUnauthorized},
		{name: "wrong secret", header: "Bearer " + signed(t, []byte("other"), jwt.MapClaims{"sub": "u1", "role": "admin", "exp": exp}), status: http.StatusUnauthorized},
		{name: "expired", header: "Bearer " + signed(t, secret, jwt.MapClaims{"sub": "u1", "role": "admin", "exp": time.Now().Add(-time.Hour).Unix()}), status: http.StatusUnauthorized},
		{name: "no subject", header: "Bearer " + signed(t, secret, jwt.MapClaims{"role": "admin", "exp": exp}), status: http.StatusUnauthorized},
		{name: "taxpayer denied", header: "Bearer " + signed(t, secret, jwt.MapClaims{"sub": "u1", "role": model.RoleTaxpayer, "exp": exp}), status: http.StatusForbidden},
		{name: "accountant via header", header: "Bearer " + signed(t, secret, jwt.MapClaims{"sub": "u2", "role": model.RoleAccountant, "exp": exp}), status: http.StatusOK, body: "u2|accountant"},
		{name: "admin via cookie", cookie: signed(t, secret, jwt.MapClaims{"sub": "u3", "role": model.RoleAdmin, "exp": exp}), status: http.StatusOK, body: "u3|admin"},
	}

	r := router()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/staff", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "access_token", Value: tt.cookie})
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			if tt.body != "" {
				assert.Equal(t, tt.body, w.Body.String())
			}
		})
	}
}
