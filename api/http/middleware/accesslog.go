package middleware

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

var sensitiveKeys = map[string]struct{}{
	"password": {}, "token": {}, "authorization": {},
	"secret": {}, "identitytoken": {}, "key": {},
}

// AccessLog logs one line per request with latency and status. Query values
// under sensitive keys are masked.
func AccessLog(l *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		l.Info("http",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("query", maskQuery(string(c.Request().URI().QueryString()))),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.IP()),
		)
		return err
	}
}

func maskQuery(q string) string {
	if q == "" {
		return ""
	}
	pairs := strings.Split(q, "&")
	for i, p := range pairs {
		k, _, ok := strings.Cut(p, "=")
		if !ok {
			continue
		}
		if _, sensitive := sensitiveKeys[strings.ToLower(k)]; sensitive {
			pairs[i] = k + "=****"
		}
	}
	return strings.Join(pairs, "&")
}
