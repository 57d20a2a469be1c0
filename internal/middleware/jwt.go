package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// bearerIdentity validates an `Authorization: Bearer` token and returns its subject and role.
// ok is false when the header is absent or the token does not verify. Tokens must be HMAC
// signed and carry an expiry.
func bearerIdentity(c *fiber.Ctx, secret string) (subject, role string, ok bool) {
	if secret == "" {
		return "", "", false
	}
	raw, found := bearerToken(c.Get(fiber.HeaderAuthorization))
	if !found {
		return "", "", false
	}

	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg(), jwt.SigningMethodHS384.Alg(), jwt.SigningMethodHS512.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return "", "", false
	}

	subject, _ = claims["sub"].(string)
	return subject, roleFromClaims(claims), true
}

func bearerToken(header string) (string, bool) {
	const prefix = "bearer "
	header = strings.TrimSpace(header)
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}

// roleFromClaims accepts either "role": "admin" or "roles": ["admin", ...].
func roleFromClaims(claims jwt.MapClaims) string {
	if role, ok := claims["role"].(string); ok {
		return normalizeRole(role)
	}
	if roles, ok := claims["roles"].([]interface{}); ok {
		for _, item := range roles {
			if role, isString := item.(string); isString && normalizeRole(role) != "" {
				return normalizeRole(role)
			}
		}
	}
	return ""
}

func normalizeRole(role string) string {
	return strings.ToLower(strings.TrimSpace(role))
}
