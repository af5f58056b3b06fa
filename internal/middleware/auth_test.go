package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"salescrm/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

func sign(t *testing.T, secret []byte, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	require.NoError(t, err)
	return token
}

func claimsFor(role string) jwt.MapClaims {
	return jwt.MapClaims{
		"sub":              uuid.NewString(),
		"role":             role,
		"business_unit_id": uuid.NewString(),
		"sales_rep_id":     uuid.NewString(),
		"exp":              time.Now().Add(time.Hour).Unix(),
	}
}

func TestParseActor(t *testing.T) {
	claims := claimsFor(model.RoleSalesRep)
	actor, err := ParseActor(sign(t, testSecret, claims), testSecret)
	require.NoError(t, err)
	assert.Equal(t, claims["sub"], actor.UserID.String())
	assert.Equal(t, model.RoleSalesRep, actor.Role)
	require.NotNil(t, actor.BusinessUnitID)
	require.NotNil(t, actor.SalesRepID)
	assert.Equal(t, claims["sales_rep_id"], actor.SalesRepID.String())
}

func TestParseActorRejects(t *testing.T) {
	expired := claimsFor(model.RoleAdmin)
	expired["exp"] = time.Now().Add(-time.Minute).Unix()

	unknownRole := claimsFor("OWNER")

	badSubject := claimsFor(model.RoleAdmin)
	badSubject["sub"] = "42"

	tests := []struct {
		name  string
		token string
	}{
		{"wrong secret", sign(t, []byte("other"), claimsFor(model.RoleAdmin))},
		{"expired", sign(t, testSecret, expired)},
		{"unknown role", sign(t, testSecret, unknownRole)},
		{"bad subject", sign(t, testSecret, badSubject)},
		{"garbage", "not.a.token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseActor(tt.token, testSecret)
			assert.Error(t, err)
		})
	}
}

func TestRequireRole(t *testing.T) {
	gin.SetMode(gin.TestMode)
	InitAuth(testSecret)

	r := gin.New()
	r.GET("/admin", RequireRole(model.RoleAdmin), func(c *gin.Context) {
		actor, ok := ActorFrom(c)
		require.True(t, ok)
		c.String(http.StatusOK, actor.Role)
	})

	do := func(setup func(*http.Request)) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		setup(req)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w := do(func(req *http.Request) {})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(func(req *http.Request) { req.Header.Set("Authorization", "Token abc") })
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+sign(t, testSecret, claimsFor(model.RoleManager)))
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+sign(t, testSecret, claimsFor(model.RoleAdmin)))
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, model.RoleAdmin, w.Body.String())

	w = do(func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: "access_token", Value: sign(t, testSecret, claimsFor(model.RoleAdmin))})
	})
	assert.Equal(t, http.StatusOK, w.Code)
}
