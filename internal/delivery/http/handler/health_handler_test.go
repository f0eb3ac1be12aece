package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
)

type fakePinger struct {
	err error
}

func (p *fakePinger) Ping(context.Context) error { return p.err }

func healthApp(db, cache *fakePinger) *fiber.App {
	app := fiber.New()
	var dbP, cacheP Pinger
	if db != nil {
		dbP = db
	}
	if cache != nil {
		cacheP = cache
	}
	NewHealthHandler(dbP, cacheP).RegisterRoutes(app)
	return app
}

func TestHealth_AllUp(t *testing.T) {
	app := healthApp(&fakePinger{}, &fakePinger{})

	resp, err := app.Test(httptest.NewRequest("GET", "/health", nil))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func TestHealth_DatabaseDownIsDegraded(t *testing.T) {
	app := healthApp(&fakePinger{err: errors.New("conn refused")}, &fakePinger{})

	resp, err := app.Test(httptest.NewRequest("GET", "/health", nil))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if resp.StatusCode != fiber.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", resp.StatusCode)
	}
}

func TestHealth_CacheDownStaysUp(t *testing.T) {
	app := healthApp(&fakePinger{}, &fakePinger{err: errors.New("conn refused")})

	resp, err := app.Test(httptest.NewRequest("GET", "/health", nil))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 with bypassed cache, got %d", resp.StatusCode)
	}

	var body struct {
		Data map[string]string `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Data["cache"] != "bypassed" {
		t.Fatalf("expected cache to report bypassed, got %q", body.Data["cache"])
	}
}
