package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"fieldtrack/internal/service"
	"fieldtrack/pkg/response"
)

// Context keys set by middleware.JWTAuth.
const (
	CtxUserID    = "user_id"
	CtxRole      = "role"
	CtxCompanyID = "company_id"
	CtxTokenJTI  = "token_jti"
	CtxTokenExp  = "token_exp"
)

func mustGetString(c *gin.Context, key string) (string, bool) {
	v, exists := c.Get(key)
	if !exists {
		response.Unauthorized(c, 10002, "authentication required")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "authentication required")
		return "", false
	}
	return s, true
}

// MustGetUserID extracts the caller's user id. On false a 401 has already
// been written and the caller should return.
func MustGetUserID(c *gin.Context) (string, bool) {
	return mustGetString(c, CtxUserID)
}

// MustGetRole extracts the caller's role.
func MustGetRole(c *gin.Context) (string, bool) {
	return mustGetString(c, CtxRole)
}

// MustGetCaller builds the role-scoped caller identity. A missing company is
// not an error.
func MustGetCaller(c *gin.Context) (service.Caller, bool) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return service.Caller{}, false
	}
	role, ok := MustGetRole(c)
	if !ok {
		return service.Caller{}, false
	}
	companyID := c.GetString(CtxCompanyID)
	return service.Caller{UserID: userID, Role: role, CompanyID: companyID}, true
}

// tokenInfo returns the current token's id and expiry.
func tokenInfo(c *gin.Context) (string, time.Time) {
	jti := c.GetString(CtxTokenJTI)
	exp := c.GetTime(CtxTokenExp)
	return jti, exp
}
