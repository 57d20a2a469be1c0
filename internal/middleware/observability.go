package middleware

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/gema-quiz-api/internal/observability"
)

const (
	scopeAdmin  = "admin"
	scopePublic = "public"
)

var adminPrefixes = []string{"/api/admin", "/api/dashboard", "/api/quiz_dashboard"}

// Observability records request metrics for every /api route. Admin requests are additionally
// logged with their latency; public traffic such as /api/track is too chatty for that.
func Observability(logger zerolog.Logger) fiber.Handler {
	observability.RegisterMetrics()

	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		path := c.Path()
		if !strings.HasPrefix(path, "/api/") {
			return err
		}

		elapsed := time.Since(start)
		scope := requestScope(path)
		route := routeTemplate(c)
		method := c.Method()
		status := c.Response().StatusCode()

		observability.HTTPRequests().WithLabelValues(scope, method, route, strconv.Itoa(status)).Inc()
		observability.HTTPLatency().WithLabelValues(scope, method, route).Observe(elapsed.Seconds())

		if scope != scopeAdmin {
			return err
		}

		event := logger.Info()
		switch {
		case status >= fiber.StatusInternalServerError:
			event = logger.Error()
		case status >= fiber.StatusBadRequest:
			event = logger.Warn()
		}
		event.
			Str("correlation_id", GetCorrelationID(c)).
			Str("route", route).
			Str("method", method).
			Int("status", status).
			Dur("latency", elapsed).
			Str("user", Username(c)).
			Msg("admin request")

		return err
	}
}

func requestScope(path string) string {
	for _, prefix := range adminPrefixes {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return scopeAdmin
		}
	}
	return scopePublic
}

// routeTemplate keeps metric cardinality bounded by labelling with the registered pattern.
func routeTemplate(c *fiber.Ctx) string {
	if route := c.Route(); route != nil && route.Path != "" {
		return route.Path
	}
	return "unmatched"
}
