package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resto-tracker/internal/auth"
	"resto-tracker/internal/models"
)

const testSecret = "test_secret"

// newProtectedRouter wires a single JWT-guarded route that echoes back the
// account id and role the middleware put into the context.
func newProtectedRouter(extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	handlers := append([]gin.HandlerFunc{JWTAuth([]byte(testSecret))}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"accountId": c.GetUint(ContextAccountID),
			"role":      c.GetString(ContextRole),
		})
	})
	router.GET("/protected", handlers...)
	return router
}

func doRequest(router *gin.Engine, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func TestJWTAuthAcceptsIssuedToken(t *testing.T) {
	router := newProtectedRouter()

	account := &models.Account{Role: models.RoleUser}
	account.ID = 42
	token, err := auth.GenerateToken(account, testSecret)
	require.NoError(t, err)

	w := doRequest(router, "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"accountId":42`)
	assert.Contains(t, w.Body.String(), `"role":"user"`)
}

func TestJWTAuthRejectsBadRequests(t *testing.T) {
	router := newProtectedRouter()

	now := time.Now()
	cases := []struct {
		name          string
		authorization string
	}{
		{"missing header", ""},
		{"wrong scheme", "Basic abc123"},
		{"empty bearer token", "Bearer "},
		{"garbage token", "Bearer not.a.jwt"},
		{
			"wrong signing key",
			"Bearer " + func() string {
				token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
					"uid": "1", "role": "user",
					"iat": now.Unix(), "exp": now.Add(time.Hour).Unix(),
				})
				signed, _ := token.SignedString([]byte("other_secret"))
				return signed
			}(),
		},
		{
			"expired token",
			"Bearer " + signToken(t, jwt.MapClaims{
				"uid": "1", "role": "user",
				"iat": now.Add(-2 * time.Hour).Unix(), "exp": now.Add(-time.Hour).Unix(),
			}),
		},
		{
			"missing uid claim",
			"Bearer " + signToken(t, jwt.MapClaims{
				"role": "user",
				"iat":  now.Unix(), "exp": now.Add(time.Hour).Unix(),
			}),
		},
		{
			"missing role claim",
			"Bearer " + signToken(t, jwt.MapClaims{
				"uid": "1",
				"iat": now.Unix(), "exp": now.Add(time.Hour).Unix(),
			}),
		},
		{
			"unknown role",
			"Bearer " + signToken(t, jwt.MapClaims{
				"uid": "1", "role": "superuser",
				"iat": now.Unix(), "exp": now.Add(time.Hour).Unix(),
			}),
		},
		{
			"zero uid",
			"Bearer " + signToken(t, jwt.MapClaims{
				"uid": "0", "role": "user",
				"iat": now.Unix(), "exp": now.Add(time.Hour).Unix(),
			}),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doRequest(router, tc.authorization)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestJWTAuthAcceptsNumericUID(t *testing.T) {
	// JSON round-trips numbers as float64; the middleware must accept both
	router := newProtectedRouter()
	now := time.Now()

	token := signToken(t, jwt.MapClaims{
		"uid": 7, "role": "admin",
		"iat": now.Unix(), "exp": now.Add(time.Hour).Unix(),
	})

	w := doRequest(router, "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"accountId":7`)
}

func TestRequireRole(t *testing.T) {
	account := &models.Account{Role: models.RoleUser}
	account.ID = 5
	userToken, err := auth.GenerateToken(account, testSecret)
	require.NoError(t, err)

	adminAccount := &models.Account{Role: models.RoleAdmin}
	adminAccount.ID = 1
	adminToken, err := auth.GenerateToken(adminAccount, testSecret)
	require.NoError(t, err)

	router := newProtectedRouter(RequireRole(models.RoleAdmin))

	w := doRequest(router, "Bearer "+userToken)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doRequest(router, "Bearer "+adminToken)
	assert.Equal(t, http.StatusOK, w.Code)
}
