package middleware

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/sthapati/sthapati_be/internal/metrics"
)

// Metrics records request counts and latency labelled by route pattern.
func Metrics(m *metrics.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		route := c.Route().Path
		if route == "" || route == "/" && c.Path() != "/" {
			route = "unmatched"
		}
		m.Requests.WithLabelValues(route, c.Method(), strconv.Itoa(statusOf(c, err))).Inc()
		m.Duration.WithLabelValues(route, c.Method()).Observe(time.Since(start).Seconds())
		return err
	}
}
