package gateway

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	apierrors "github.com/Apurer/restaurant-ops/internal/shared/errors"
)

// ClaimsKey is where verified claims are stored on the gin context.
const ClaimsKey = "gateway.claims"

// RequireBearer admits requests carrying an HS256 token signed with secret.
func RequireBearer(secret []byte) gin.HandlerFunc {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	keyFunc := func(*jwt.Token) (any, error) { return secret, nil }
	return func(c *gin.Context) {
		raw, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok || strings.TrimSpace(raw) == "" {
			apierrors.Respond(c, apierrors.ErrUnauthorized.WithMessage("Authentication required"))
			return
		}
		claims := jwt.MapClaims{}
		if _, err := parser.ParseWithClaims(strings.TrimSpace(raw), claims, keyFunc); err != nil {
			apierrors.Respond(c, apierrors.ErrUnauthorized.WithMessage("Invalid or expired token").WithDetail(err.Error()))
			return
		}
		c.Set(ClaimsKey, claims)
		c.Next()
	}
}
