package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"fieldtrack/pkg/jwt"
	"fieldtrack/pkg/redis"
	"fieldtrack/pkg/response"
)

// Context keys written by JWTAuth. Handlers read the same names.
const (
	ctxUserID    = "user_id"
	ctxRole      = "role"
	ctxCompanyID = "company_id"
	ctxTokenJTI  = "token_jti"
	ctxTokenExp  = "token_exp"
)

// JWTAuth verifies the Bearer access token and injects the caller identity.
// Revoked tokens are rejected when rdb is set; a nil rdb or a redis error
// lets the token through.
func JWTAuth(jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, 10002, "missing authorization header")
			c.Abort()
			return
		}

		scheme, token, found := strings.Cut(authHeader, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
			response.Unauthorized(c, 10002, "malformed authorization header")
			c.Abort()
			return
		}

		claims, err := jwtMgr.ParseToken(token)
		if err != nil {
			response.Unauthorized(c, 10002, "invalid or expired token")
			c.Abort()
			return
		}
		if !claims.IsAccess() {
			response.Unauthorized(c, 10002, "invalid token type")
			c.Abort()
			return
		}

		if rdb != nil && claims.ID != "" {
			revoked, err := rdb.IsBlacklisted(c.Request.Context(), claims.ID)
			if err != nil {
				logger.Warn("token blacklist lookup failed", zap.Error(err))
			} else if revoked {
				response.Unauthorized(c, 10002, "token has been revoked")
				c.Abort()
				return
			}
		}

		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxRole, claims.Role)
		c.Set(ctxCompanyID, claims.CompanyID)
		c.Set(ctxTokenJTI, claims.ID)
		if claims.ExpiresAt != nil {
			c.Set(ctxTokenExp, claims.ExpiresAt.Time)
		}

		c.Next()
	}
}

// RoleAuth admits callers holding one of the given roles.
func RoleAuth(allowedRoles ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = true
	}

	return func(c *gin.Context) {
		role := c.GetString(ctxRole)
		if role == "" {
			response.Unauthorized(c, 10002, "authentication required")
			c.Abort()
			return
		}
		if !allowed[role] {
			response.Forbidden(c, 10003, "insufficient role")
			c.Abort()
			return
		}
		c.Next()
	}
}
