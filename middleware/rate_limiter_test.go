package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
)

func TestRateLimiterAllowsWithinLimit(t *testing.T) {
	app := fiber.New()
	app.Use(RateLimiter(5, time.Minute))
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString("ok") })

	for i := 0; i < 5; i++ {
		resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
		if err != nil {
			t.Fatalf("request %d failed: %v", i, err)
		}
		if resp.StatusCode != fiber.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, resp.StatusCode)
		}
	}
}

func TestRateLimiterRejectsBeyondLimit(t *testing.T) {
	app := fiber.New()
	app.Use(RateLimiter(2, time.Minute))
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString("ok") })

	app.Test(httptest.NewRequest("GET", "/", nil))
	app.Test(httptest.NewRequest("GET", "/", nil))

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusTooManyRequests {
		t.Fatalf("expected 429 once the limit is spent, got %d", resp.StatusCode)
	}
}
