package middleware

import (
	"net/http/httptest"
	"testing"

	"carepath-api/internal/config"
	"carepath-api/internal/pkg/metrics"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsCountsRecoveredPanics(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: CustomErrorHandler})
	Setup(app, &config.Config{AppMode: "dev"})
	app.Get("/explode", func(c *fiber.Ctx) error {
		panic("boom")
	})
	app.Get("/fine", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	failed := metrics.HTTPRequests.WithLabelValues("GET", "/explode", "500")
	ok := metrics.HTTPRequests.WithLabelValues("GET", "/fine", "200")
	failedBefore, okBefore := testutil.ToFloat64(failed), testutil.ToFloat64(ok)

	resp, err := app.Test(httptest.NewRequest("GET", "/explode", nil), -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusInternalServerError {
		t.Errorf("status = %d, want 500", resp.StatusCode)
	}
	if _, err := app.Test(httptest.NewRequest("GET", "/fine", nil), -1); err != nil {
		t.Fatal(err)
	}

	if got := testutil.ToFloat64(failed) - failedBefore; got != 1 {
		t.Errorf("500 counter moved by %v, want 1", got)
	}
	if got := testutil.ToFloat64(ok) - okBefore; got != 1 {
		t.Errorf("200 counter moved by %v, want 1", got)
	}
}

func TestMetricsRecordsPanicInsideRecover(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: CustomErrorHandler})
	app.Use(recover.New())
	app.Use(Metrics())
	app.Get("/explode-inner", func(c *fiber.Ctx) error {
		panic("boom")
	})

	counter := metrics.HTTPRequests.WithLabelValues("GET", "/explode-inner", "500")
	before := testutil.ToFloat64(counter)

	resp, err := app.Test(httptest.NewRequest("GET", "/explode-inner", nil), -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusInternalServerError {
		t.Errorf("status = %d, want 500", resp.StatusCode)
	}
	if got := testutil.ToFloat64(counter) - before; got != 1 {
		t.Errorf("500 counter moved by %v, want 1", got)
	}
}
