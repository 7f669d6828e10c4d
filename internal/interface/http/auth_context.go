package http

import (
	"github.com/gin-gonic/gin"

	"github.com/yanqian/playlist-recommender/internal/domain/auth"
)

const authClaimsKey = "auth_claims"

func setClaims(c *gin.Context, claims auth.Claims) {
	c.Set(authClaimsKey, claims)
}

func getClaims(c *gin.Context) (auth.Claims, bool) {
	value, ok := c.Get(authClaimsKey)
	if !ok {
		return auth.Claims{}, false
	}
	claims, ok := value.(auth.Claims)
	return claims, ok
}

// accountID is the authenticated account, or empty for anonymous callers.
func accountID(c *gin.Context) string {
	if claims, ok := getClaims(c); ok {
		return claims.AccountID
	}
	return ""
}
