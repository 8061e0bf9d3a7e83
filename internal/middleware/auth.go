package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"resortbooking/internal/domain"
	"resortbooking/internal/pkg/jwt"
	"resortbooking/internal/pkg/response"
)

const principalKey = "principal"

// Principal is the authenticated identity attached to a request. The
// profile id is the customer or partner row id matching the role; it
// is zero for admins.
type Principal struct {
	AccountID int64
	ProfileID int64
	Role      domain.AccountRole
}

func (p Principal) HasRole(roles ...domain.AccountRole) bool {
	for _, r := range roles {
		if p.Role == r {
			return true
		}
	}
	return false
}

// ProfileResolver maps an account to its customer or partner profile
// id. Admin accounts have no profile.
type ProfileResolver interface {
	ResolveProfileID(ctx context.Context, accountID int64, role domain.AccountRole) (int64, error)
}

// Auth validates the bearer token and loads the caller's Principal
// into the context.
func Auth(jwtService *jwt.Service, resolver ProfileResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing authorization header")
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "invalid authorization header")
			c.Abort()
			return
		}

		claims, err := jwtService.ValidateToken(parts[1])
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or expired token")
			c.Abort()
			return
		}

		p := Principal{
			AccountID: claims.AccountID,
			Role:      domain.AccountRole(claims.Role),
		}
		if p.Role != domain.RoleAdmin {
			profileID, err := resolver.ResolveProfileID(c.Request.Context(), p.AccountID, p.Role)
			if err != nil {
				response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "account has no active profile")
				c.Abort()
				return
			}
			p.ProfileID = profileID
		}

		c.Set(principalKey, p)
		c.Next()
	}
}

// GetPrincipal returns the Principal set by Auth. The second result is
// false on unauthenticated routes.
func GetPrincipal(c *gin.Context) (Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return Principal{}, false
	}
	p, ok := v.(Principal)
	return p, ok
}
