package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"codelab/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "middleware-test-secret-0123456789ab"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func validClaims(userID string) jwt.MapClaims {
	now := time.Now()
	return jwt.MapClaims{
		"sub": userID,
		"exp": now.Add(time.Hour).Unix(),
		"iat": now.Unix(),
	}
}

func newAuthApp(required bool) *fiber.App {
	InitMiddleware(&config.Config{JWTSecret: testSecret, Env: "test"})

	app := fiber.New()
	handler := AuthOptional
	if required {
		handler = AuthRequired
	}
	app.Get("/whoami", handler, func(c *fiber.Ctx) error {
		uid, _ := c.Locals("userID").(uint)
		return c.JSON(fiber.Map{"user_id": uid})
	})
	return app
}

func decodeBody(t *testing.T, resp *http.Response, dest interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

func request(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestAuthRequired(t *testing.T) {
	app := newAuthApp(true)

	t.Run("missing header", func(t *testing.T) {
		resp := request(t, app, "")
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("malformed header", func(t *testing.T) {
		resp := request(t, app, "Token abc")
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("valid token passes through", func(t *testing.T) {
		token := signToken(t, testSecret, validClaims("42"))
		resp := request(t, app, "Bearer "+token)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token := signToken(t, "some-other-secret-value-entirely!!", validClaims("42"))
		resp := request(t, app, "Bearer "+token)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("expired token", func(t *testing.T) {
		claims := validClaims("42")
		claims["exp"] = time.Now().Add(-time.Hour).Unix()
		token := signToken(t, testSecret, claims)
		resp := request(t, app, "Bearer "+token)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("non-numeric subject", func(t *testing.T) {
		token := signToken(t, testSecret, validClaims("not-a-number"))
		resp := request(t, app, "Bearer "+token)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestAuthOptional(t *testing.T) {
	app := newAuthApp(false)

	t.Run("anonymous requests pass", func(t *testing.T) {
		resp := request(t, app, "")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("invalid token is ignored rather than rejected", func(t *testing.T) {
		resp := request(t, app, "Bearer garbage")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("valid token resolves the identity", func(t *testing.T) {
		token := signToken(t, testSecret, validClaims("7"))
		resp := request(t, app, "Bearer "+token)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body struct {
			UserID uint `json:"user_id"`
		}
		decodeBody(t, resp, &body)
		assert.Equal(t, uint(7), body.UserID)
	})
}
