package middleware

import (
	"io"
	"net/http/httptest"
	"testing"

	"carepath-api/internal/config"
	"carepath-api/internal/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

func testApp(t *testing.T) (*fiber.App, *config.Config) {
	t.Helper()
	cfg := &config.Config{JWT: config.JWTConfig{Secret: "access", RefreshSecret: "refresh", AccessTokenMins: 15}}

	app := fiber.New()
	app.Get("/me", AuthMiddleware(cfg), func(c *fiber.Ctx) error {
		return c.SendString(c.Locals(LocalUserID).(string))
	})
	app.Get("/admin", AuthMiddleware(cfg), AdminOnly(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	app.Get("/staff", AuthMiddleware(cfg), StaffOrAdmin(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	app.Get("/optional", OptionalAuth(cfg), func(c *fiber.Ctx) error {
		if _, ok := c.Locals(LocalUserID).(string); ok {
			return c.SendString("user")
		}
		return c.SendString("anonymous")
	})
	return app, cfg
}

func token(t *testing.T, cfg *config.Config, role string, mins int) string {
	t.Helper()
	tok, err := jwt.GenerateAccessToken("user-1", "u@clinic.test", role, cfg.JWT.Secret, mins)
	if err != nil {
		t.Fatal(err)
	}
	return tok
}

func TestAuthAndRoleMiddleware(t *testing.T) {
	app, cfg := testApp(t)
	staff := token(t, cfg, "STAFF", 15)
	admin := token(t, cfg, "ADMIN", 15)
	expired := token(t, cfg, "ADMIN", -1)

	tests := []struct {
		name   string
		path   string
		header string
		cookie string
		want   int
	}{
		{"missing token", "/me", "", "", fiber.StatusUnauthorized},
		{"garbage token", "/me", "Bearer nope", "", fiber.StatusUnauthorized},
		{"expired token", "/me", "Bearer " + expired, "", fiber.StatusUnauthorized},
		{"bearer header", "/me", "Bearer " + staff, "", fiber.StatusOK},
		{"cookie fallback", "/me", "", staff, fiber.StatusOK},
		{"staff on admin route", "/admin", "Bearer " + staff, "", fiber.StatusForbidden},
		{"admin on admin route", "/admin", "Bearer " + admin, "", fiber.StatusOK},
		{"staff on staff route", "/staff", "Bearer " + staff, "", fiber.StatusOK},
		{"admin on staff route", "/staff", "Bearer " + admin, "", fiber.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.cookie != "" {
				req.Header.Set("Cookie", "access_token="+tt.cookie)
			}
			resp, err := app.Test(req, -1)
			if err != nil {
				t.Fatal(err)
			}
			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.want)
			}
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	app, cfg := testApp(t)

	for _, tt := range []struct {
		header string
		want   string
	}{
		{"", "anonymous"},
		{"Bearer broken", "anonymous"},
		{"Bearer " + token(t, cfg, "STAFF", 15), "user"},
	} {
		req := httptest.NewRequest("GET", "/optional", nil)
		if tt.header != "" {
			req.Header.Set("Authorization", tt.header)
		}
		resp, err := app.Test(req, -1)
		if err != nil {
			t.Fatal(err)
		}
		body, _ := io.ReadAll(resp.Body)
		if got := string(body); got != tt.want {
			t.Errorf("header %q: got %q, want %q", tt.header, got, tt.want)
		}
	}
}
