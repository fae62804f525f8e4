package web

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/rs/zerolog/log"
)

const tokenIssuer = "station-tv-server"

// MintAdminToken signs an HS256 bearer token for the admin API.
func MintAdminToken(secret []byte, subject string, ttl time.Duration) (string, error) {
	if len(secret) == 0 {
		return "", errors.New("admin token secret is empty")
	}
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Issuer:    tokenIssuer,
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func (h *Handlers) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.Request.Header.Get("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing Authorization header"})
			c.Abort()
			return
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid Authorization header"})
			c.Abort()
			return
		}

		if len(h.TokenSecret) == 0 {
			log.Warn().Msg("Rejecting admin request, no token secret configured")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "failed to validate token"})
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		token := parts[1]

		parser := jwt.Parser{
			ValidMethods:         []string{jwt.SigningMethodHS256.Alg()},
			SkipClaimsValidation: h.Debug,
		}
		claims := &jwt.RegisteredClaims{}
		parsedToken, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
			return h.TokenSecret, nil
		})
		if err != nil || !parsedToken.Valid {
			log.Warn().Err(err).Msg("Failed to validate token")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "failed to validate token"})
			c.Abort()
			return
		}

		if claims.Issuer != tokenIssuer || claims.Subject == "" {
			log.Warn().Str("issuer", claims.Issuer).Msg("Failed to validate token, unexpected claims")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "failed to validate token"})
			c.Abort()
			return
		}

		c.Set("admin", claims.Subject)
		c.Next()
	}
}
