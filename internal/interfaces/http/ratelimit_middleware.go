package http

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/ulule/limiter/v3"

	"github.com/jhoicas/inventario-pos/internal/application/dto"
)

// NewLimiter construye el limiter con una tasa en formato "<n>-<S|M|H|D>".
func NewLimiter(store limiter.Store, formatted string) (*limiter.Limiter, error) {
	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		return nil, err
	}
	return limiter.New(store, rate), nil
}

// RateLimit limita las peticiones por IP con el limiter dado. Si el store falla, deja pasar.
func RateLimit(l *limiter.Limiter, prefix string, log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		lc, err := l.Get(c.UserContext(), prefix+":"+c.IP())
		if err != nil {
			log.Warn().Err(err).Str("ip", c.IP()).Msg("rate limit: store no disponible")
			return c.Next()
		}

		c.Set("X-RateLimit-Limit", strconv.FormatInt(lc.Limit, 10))
		c.Set("X-RateLimit-Remaining", strconv.FormatInt(lc.Remaining, 10))
		c.Set("X-RateLimit-Reset", strconv.FormatInt(lc.Reset, 10))

		if lc.Reached {
			retry := time.Until(time.Unix(lc.Reset, 0))
			if retry < time.Second {
				retry = time.Second
			}
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(int(retry.Seconds())))
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{Code: "RATE_LIMITED", Message: "demasiadas peticiones, intente más tarde"})
		}
		return c.Next()
	}
}
