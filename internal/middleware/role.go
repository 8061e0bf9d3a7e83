package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"resortbooking/internal/domain"
	"resortbooking/internal/pkg/response"
)

// RequireRole rejects callers whose role is not in the allowed set.
// Must run after Auth.
func RequireRole(roles ...domain.AccountRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := GetPrincipal(c)
		if !ok {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
			c.Abort()
			return
		}
		if !p.HasRole(roles...) {
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "insufficient role")
			c.Abort()
			return
		}
		c.Next()
	}
}

func CustomerOnly() gin.HandlerFunc { return RequireRole(domain.RoleCustomer) }

func PartnerOnly() gin.HandlerFunc { return RequireRole(domain.RolePartner) }

func AdminOnly() gin.HandlerFunc { return RequireRole(domain.RoleAdmin) }
