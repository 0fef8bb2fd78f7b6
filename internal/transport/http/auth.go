package httptransport

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the JWT payload accepted by bearer-token auth.
type Claims struct {
	ClientID string `json:"client_id"`
	jwt.RegisteredClaims
}

// AuthConfig configures bearer-token auth for the tool-call endpoint,
// adapted from the teacher's internal/api/middleware.AuthConfig (the
// API-key half is dropped: spec.md's tool surface has one caller role,
// not the teacher's multi-client API-key registry).
type AuthConfig struct {
	JWTSecret string
	Enabled   bool
}

// jwtAuth validates a bearer token when auth is enabled, adapted from the
// teacher's internal/api/middleware.JWTAuth.
func jwtAuth(cfg AuthConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !cfg.Enabled {
			return c.Next()
		}

		header := c.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing or invalid authorization header",
			})
		}

		tokenString := strings.TrimPrefix(header, "Bearer ")
		token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(cfg.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid or expired token",
			})
		}

		claims, ok := token.Claims.(*Claims)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid token claims",
			})
		}

		c.Locals("client_id", claims.ClientID)
		return c.Next()
	}
}

// GenerateToken issues a signed bearer token for clientID, used by
// operators to provision caller credentials out of band.
func GenerateToken(clientID, secret string, expiration time.Duration) (string, error) {
	claims := &Claims{
		ClientID: clientID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "lexcore",
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
