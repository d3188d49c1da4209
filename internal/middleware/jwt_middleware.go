package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/shop_dashboard/internal/utils"
)

// JWTMiddleware guards dashboard routes with HS256 bearer tokens.
type JWTMiddleware struct {
	secret  string
	limiter *InvalidAuthRateLimiter
}

// NewJWTMiddleware creates a JWTMiddleware. limiter may be nil.
func NewJWTMiddleware(secret string, limiter *InvalidAuthRateLimiter) *JWTMiddleware {
	return &JWTMiddleware{secret: secret, limiter: limiter}
}

// Handle returns a Gin middleware function that enforces a valid token.
func (m *JWTMiddleware) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if m.limiter != nil && m.limiter.Blocked(ip) {
			utils.Error(c, http.StatusTooManyRequests, "TOO_MANY_ATTEMPTS", "Too many invalid authentication attempts")
			c.Abort()
			return
		}

		token, err := bearerToken(c.GetHeader("Authorization"))
		if err == nil {
			var claims *utils.Claims
			if claims, err = utils.ValidateJWT(m.secret, token); err == nil {
				c.Set("user_id", claims.UserID)
				c.Set("email", claims.Email)
				c.Next()
				return
			}
		}

		if m.limiter != nil {
			m.limiter.Fail(ip)
		}
		log.Debug().Err(err).Str("ip", ip).Msg("Rejected dashboard request")

		if errors.Is(err, utils.ErrMissingToken) {
			utils.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Missing authorization header")
		} else {
			utils.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
		}
		c.Abort()
	}
}

func bearerToken(header string) (string, error) {
	if header == "" {
		return "", utils.ErrMissingToken
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", utils.ErrInvalidToken
	}
	return parts[1], nil
}
