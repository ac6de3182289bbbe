package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"log"
	"net/http/httptest"
	"strings"
	"testing"

	"placeprep/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{"app error", NewAppError(fiber.StatusConflict, "already applied", nil, nil), fiber.StatusConflict, "already applied"},
		{"app error default message", NewAppError(fiber.StatusNotFound, "", nil, nil), fiber.StatusNotFound, response.MessageNotFound},
		{"app error 5xx hides message", NewAppError(fiber.StatusBadGateway, "redis down", nil, nil), fiber.StatusInternalServerError, response.MessageInternalServerError},
		{"fiber error", fiber.NewError(fiber.StatusMethodNotAllowed, "nope"), fiber.StatusMethodNotAllowed, "nope"},
		{"plain error", errors.New("pq: connection refused"), fiber.StatusInternalServerError, response.MessageInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, msg, _ := classify(tc.err)
			if status != tc.status || msg != tc.msg {
				t.Fatalf("classify = (%d, %q), want (%d, %q)", status, msg, tc.status, tc.msg)
			}
		})
	}
}

func TestErrorMiddleware_RendersEnvelopeAndLogs5xx(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf, "", 0)

	app := fiber.New()
	app.Use(NewAccessLogMiddleware(logger, "/health").Middleware())
	app.Use(NewErrorMiddleware(logger).Middleware())
	app.Get("/boom", func(fiber.Ctx) error { panic("kaboom") })
	app.Get("/missing", func(fiber.Ctx) error {
		return NewAppError(fiber.StatusNotFound, "job not found", nil, nil)
	})
	app.Get("/health", func(c fiber.Ctx) error { return c.SendString("ok") })

	req := httptest.NewRequest("GET", "/boom", nil)
	req.Header.Set(HeaderRequestID, "rid-1")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", resp.StatusCode)
	}
	if got := resp.Header.Get(HeaderRequestID); got != "rid-1" {
		t.Fatalf("request id not echoed, got %q", got)
	}
	var env response.Envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Message != response.MessageInternalServerError || strings.Contains(env.Message, "kaboom") {
		t.Fatalf("panic detail leaked: %+v", env)
	}
	if !strings.Contains(buf.String(), "rid=rid-1") || !strings.Contains(buf.String(), "kaboom") {
		t.Fatalf("expected logged cause, got %q", buf.String())
	}

	buf.Reset()
	resp, err = app.Test(httptest.NewRequest("GET", "/missing", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
	if strings.Contains(buf.String(), "[HTTP] error") {
		t.Fatalf("4xx should not be logged as error: %q", buf.String())
	}
	if !strings.Contains(buf.String(), "status=404") {
		t.Fatalf("expected access line, got %q", buf.String())
	}

	buf.Reset()
	if _, err := app.Test(httptest.NewRequest("GET", "/health", nil)); err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("healthy /health should be quiet, got %q", buf.String())
	}
}
