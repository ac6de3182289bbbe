package middleware

import (
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

const (
	HeaderRequestID = "X-Request-ID"
	CtxRequestIDKey = "request_id"
)

// AccessLogMiddleware writes one line per request. It must be registered
// before ErrorMiddleware so the status it reports is the rendered one.
type AccessLogMiddleware struct {
	logger *log.Logger
	// quiet paths are logged only when they fail
	quiet []string
}

func NewAccessLogMiddleware(logger *log.Logger, quietPaths ...string) *AccessLogMiddleware {
	if logger == nil {
		logger = log.Default()
	}
	return &AccessLogMiddleware{logger: logger, quiet: quietPaths}
}

func (m *AccessLogMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()
		rid := requestID(c)

		err := c.Next()

		status := c.Response().StatusCode()
		if status < fiber.StatusBadRequest && m.isQuiet(c.Path()) {
			return err
		}

		m.logger.Printf(
			"[HTTP] access rid=%s %s %s status=%d took=%s caller=%s ip=%s in=%d out=%d ua=%q",
			rid, c.Method(), c.OriginalURL(), status, time.Since(start).Round(time.Microsecond),
			callerOf(c), c.IP(),
			c.Request().Header.ContentLength(), len(c.Response().Body()), c.Get(fiber.HeaderUserAgent),
		)
		return err
	}
}

func (m *AccessLogMiddleware) isQuiet(path string) bool {
	for _, p := range m.quiet {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// requestID reuses the caller's X-Request-ID or mints one, echoes it on the
// response and stores it for later middleware.
func requestID(c fiber.Ctx) string {
	rid := strings.TrimSpace(c.Get(HeaderRequestID))
	if rid == "" {
		rid = uuid.NewString()
	}
	c.Set(HeaderRequestID, rid)
	c.Locals(CtxRequestIDKey, rid)
	return rid
}

func callerOf(c fiber.Ctx) string {
	id := IdentityFrom(c)
	if id.IsZero() {
		return "-"
	}
	return string(id.Role) + ":" + id.UserID.String()
}
