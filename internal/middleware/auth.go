package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// callerIDKey is the key used to store the authenticated caller's ID in the
// request context.
const callerIDKey = contextKey("callerID")

// AuthMiddleware creates a Gin middleware handler that validates JWT bearer
// tokens on the batch-trigger and reporting endpoints.
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			logger.Warn("Authorization header missing")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			logger.Warn("Authorization header format invalid")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header format must be Bearer {token}"})
			return
		}

		token, err := jwt.ParseWithClaims(parts[1], &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return []byte(jwtSecret), nil
		})
		if err != nil {
			logger.Warn("Invalid token", "error", err)
			msg := "Invalid token"
			if errors.Is(err, jwt.ErrTokenExpired) {
				msg = "Token has expired"
			} else if errors.Is(err, jwt.ErrTokenNotValidYet) {
				msg = "Token not valid yet"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
			return
		}

		claims, ok := token.Claims.(*jwt.RegisteredClaims)
		if !ok || !token.Valid || claims.Subject == "" {
			logger.Warn("Invalid token claims")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
			return
		}

		// Store the caller ID and an enriched logger in the request context.
		ctx := context.WithValue(c.Request.Context(), callerIDKey, claims.Subject)
		ctx = context.WithValue(ctx, loggerCtxKey, logger.With(slog.String("caller_id", claims.Subject)))
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// GetCallerIDFromCtx retrieves the authenticated caller ID from the request
// context. It returns the ID and a boolean indicating if it was found.
func GetCallerIDFromCtx(ctx context.Context) (string, bool) {
	callerID, ok := ctx.Value(callerIDKey).(string)
	return callerID, ok
}
