package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SoyuzCL/pos-panchita/internal/authz"
	"github.com/SoyuzCL/pos-panchita/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "secreto-de-prueba"

func init() { gin.SetMode(gin.TestMode) }

func signToken(t *testing.T, secret, id, role string, ttl time.Duration) string {
	t.Helper()
	claims := JWTClaims{
		ID:   id,
		Name: "Camila Rojas",
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func protected() *gin.Engine {
	r := gin.New()
	r.GET("/caja", JWTAuth(testSecret), RequireCapability(authz.RegisterOperate), func(c *gin.Context) {
		c.String(http.StatusOK, GetClaims(c).Name)
	})
	r.GET("/reportes", JWTAuth(testSecret), RequireCapability(authz.ReportsRead), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func get(r http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuth(t *testing.T) {
	r := protected()
	id := uuid.NewString()

	w := get(r, "/caja", signToken(t, testSecret, id, model.RoleCashier, time.Hour))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Camila Rojas", w.Body.String())

	cases := map[string]struct {
		token string
		msg   string
	}{
		"missing":      {"", "No se proporcionó un token"},
		"wrong secret": {signToken(t, "otro", id, model.RoleCashier, time.Hour), "Token inválido o expirado."},
		"expired":      {signToken(t, testSecret, id, model.RoleCashier, -time.Minute), "Token inválido o expirado."},
		"non uuid id":  {signToken(t, testSecret, "42", model.RoleCashier, time.Hour), "Token inválido o expirado."},
		"garbage":      {"abc.def.ghi", "Token inválido o expirado."},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			w := get(r, "/caja", tc.token)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Contains(t, w.Body.String(), tc.msg)
		})
	}
}

func TestRequireCapability(t *testing.T) {
	r := protected()
	id := uuid.NewString()

	w := get(r, "/reportes", signToken(t, testSecret, id, model.RoleCashier, time.Hour))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "Se requiere rol de administrador")

	w = get(r, "/reportes", signToken(t, testSecret, id, model.RoleAdmin, time.Hour))
	assert.Equal(t, http.StatusOK, w.Code)

	w = get(r, "/caja", signToken(t, testSecret, id, "bodeguero", time.Hour))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestLimiter(t *testing.T) {
	clock := time.Date(2026, 10, 16, 10, 0, 0, 0, time.UTC)
	l := NewLimiter(2, time.Minute, "Demasiados intentos.")
	l.now = func() time.Time { return clock }

	r := gin.New()
	r.POST("/login", l.Middleware(), func(c *gin.Context) { c.Status(http.StatusOK) })
	post := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "10.0.0.7:5000"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusOK, post().Code)
	assert.Equal(t, http.StatusOK, post().Code)
	w := post()
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), "Demasiados intentos.")

	ok, _ := l.allow("10.0.0.8")
	assert.True(t, ok, "other clients keep their own window")

	clock = clock.Add(61 * time.Second)
	assert.Equal(t, 2, l.purge())
	assert.Equal(t, http.StatusOK, post().Code)
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(RequestIDKey)) })

	w := get(r, "/", "")
	generated := w.Header().Get(RequestIDHeader)
	assert.NotEmpty(t, generated)
	assert.Equal(t, generated, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "caja-1")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "caja-1", w.Header().Get(RequestIDHeader))
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(Recovery())
	r.GET("/", func(*gin.Context) { panic("boom") })

	w := get(r, "/", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Error interno del servidor")
}

func TestErrorHandler(t *testing.T) {
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/hidden", func(c *gin.Context) { _ = c.Error(errors.New(`pq: relation "sales" does not exist`)) })
	r.GET("/written", func(c *gin.Context) {
		_ = c.Error(errors.New("late"))
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	w := get(r, "/hidden", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "relation")

	w = get(r, "/written", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestJWTAuth_EmptySecretRejectsEverything(t *testing.T) {
	r := gin.New()
	r.GET("/empleados", JWTAuth(""), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := get(r, "/empleados", signToken(t, "", uuid.NewString(), model.RoleAdmin, time.Hour))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
