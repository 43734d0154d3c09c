// Package retry implementa reintentos acotados con espera fija entre intentos.
package retry

import (
	"context"
	"time"
)

// Policy parámetros del reintento.
type Policy struct {
	MaxAttempts int
	Delay       time.Duration
	// Sleep espera d o hasta que ctx termine. Nil = timer real.
	Sleep func(ctx context.Context, d time.Duration) error
}

// Fixed construye una política de n intentos con espera d.
func Fixed(n int, d time.Duration) Policy {
	return Policy{MaxAttempts: n, Delay: d}
}

// Do llama a fetch hasta MaxAttempts veces y corta en el primer resultado que cumpla done.
// Entre intentos espera Delay (nunca después del último). Un error de fetch corta el ciclo
// y se devuelve tal cual. Si ningún intento cumple done, devuelve el último resultado sin error.
// attempts es la cantidad de llamadas a fetch realizadas.
func Do[T any](ctx context.Context, p Policy, fetch func(ctx context.Context, attempt int) (T, error), done func(T) bool) (result T, attempts int, err error) {
	n := p.MaxAttempts
	if n < 1 {
		n = 1
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = Sleep
	}

	for attempt := 1; attempt <= n; attempt++ {
		attempts = attempt
		result, err = fetch(ctx, attempt)
		if err != nil {
			return result, attempts, err
		}
		if done(result) || attempt == n {
			return result, attempts, nil
		}
		if err := sleep(ctx, p.Delay); err != nil {
			return result, attempts, err
		}
	}
	return result, attempts, nil
}

// Sleep espera d respetando la cancelación de ctx.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
