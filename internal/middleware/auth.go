package middleware

import (
	"net/http"
	"strings"
	"sync"

	"salescrm/internal/model"
	"salescrm/internal/service"
	"salescrm/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const actorKey = "actor"

var (
	secretMu  sync.RWMutex
	jwtSecret []byte
)

// InitAuth sets the HMAC secret access tokens are verified with.
func InitAuth(secret []byte) {
	secretMu.Lock()
	defer secretMu.Unlock()
	jwtSecret = secret
}

func GetJWTSecret() []byte {
	secretMu.RLock()
	defer secretMu.RUnlock()
	return jwtSecret
}

// RequireRole Middleware validates the JWT token and checks if the user's role exists in the allowedRoles list.
// With no roles given any authenticated caller passes.
func RequireRole(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Try cookie first, fallback to Authorization header
		tokenString, cookieErr := c.Cookie("access_token")
		if cookieErr != nil || tokenString == "" {
			authHeader := c.GetHeader("Authorization")
			if authHeader == "" {
				c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Authorization is missing"))
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Invalid authorization format. Expected 'Bearer <token>'"))
				return
			}
			tokenString = parts[1]
		}

		actor, err := ParseActor(tokenString, GetJWTSecret())
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Invalid token: "+err.Error()))
			return
		}

		if len(allowedRoles) > 0 && !roleAllowed(actor.Role, allowedRoles) {
			c.AbortWithStatusJSON(http.StatusForbidden, response.Error(http.StatusForbidden, "Access denied: insufficient permissions"))
			return
		}

		c.Set(actorKey, actor)
		c.Set("userID", actor.UserID.String())
		c.Set("userRole", actor.Role)

		c.Next()
	}
}

// ParseActor verifies tokenString and maps its claims onto a service.Actor.
func ParseActor(tokenString string, secret []byte) (service.Actor, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return secret, nil
	})
	if err != nil {
		return service.Actor{}, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return service.Actor{}, jwt.ErrTokenInvalidClaims
	}

	sub, _ := claims["sub"].(string)
	userID, err := uuid.Parse(sub)
	if err != nil {
		return service.Actor{}, jwt.ErrTokenInvalidSubject
	}

	role, _ := claims["role"].(string)
	switch role {
	case model.RoleAdmin, model.RoleManager, model.RoleSalesRep:
	default:
		return service.Actor{}, jwt.ErrTokenInvalidClaims
	}

	return service.Actor{
		UserID:         userID,
		Role:           role,
		BusinessUnitID: optionalClaimID(claims, "business_unit_id"),
		SalesRepID:     optionalClaimID(claims, "sales_rep_id"),
	}, nil
}

// ActorFrom returns the caller stored by RequireRole.
func ActorFrom(c *gin.Context) (service.Actor, bool) {
	v, ok := c.Get(actorKey)
	if !ok {
		return service.Actor{}, false
	}
	actor, ok := v.(service.Actor)
	return actor, ok
}

func optionalClaimID(claims jwt.MapClaims, key string) *uuid.UUID {
	raw, _ := claims[key].(string)
	if raw == "" {
		return nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil
	}
	return &id
}

func roleAllowed(role string, allowed []string) bool {
	for _, r := range allowed {
		if role == r {
			return true
		}
	}
	return false
}
