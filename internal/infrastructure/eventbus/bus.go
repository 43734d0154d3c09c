// Package eventbus bus de eventos de autenticación en proceso. Cada sesión es un tópico
// y cada suscriptor escucha en su propio canal.
package eventbus

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/jhoicas/inventario-pos/internal/application/session"
	"github.com/jhoicas/inventario-pos/internal/domain/entity"
)

var _ session.EventBus = (*Bus)(nil)

// ErrClosed el bus ya fue cerrado.
var ErrClosed = errors.New("eventbus: cerrado")

const defaultBuffer = 16

type subscriber struct {
	ch   chan entity.AuthEvent
	done chan struct{}
}

// Bus publica eventos a los suscriptores del tópico (sessionID).
type Bus struct {
	log    zerolog.Logger
	buffer int

	mu     sync.RWMutex
	topics map[string]map[*subscriber]struct{}
	closed bool
}

// New construye el bus. buffer <= 0 usa el tamaño por defecto.
func New(log zerolog.Logger, buffer int) *Bus {
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	return &Bus{
		log:    log,
		buffer: buffer,
		topics: make(map[string]map[*subscriber]struct{}),
	}
}

// Subscribe registra un suscriptor al tópico. La función devuelta lo elimina y cierra su canal;
// los eventos ya encolados siguen disponibles para lectura.
func (b *Bus) Subscribe(topic string) (<-chan entity.AuthEvent, func()) {
	sub := &subscriber{
		ch:   make(chan entity.AuthEvent, b.buffer),
		done: make(chan struct{}),
	}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		close(sub.ch)
		return sub.ch, func() {}
	}
	subs, ok := b.topics[topic]
	if !ok {
		subs = make(map[*subscriber]struct{})
		b.topics[topic] = subs
	}
	subs[sub] = struct{}{}
	b.mu.Unlock()

	var once sync.Once
	return sub.ch, func() {
		once.Do(func() {
			// libera a un Publish bloqueado antes de tomar el lock de escritura
			close(sub.done)
			b.mu.Lock()
			defer b.mu.Unlock()
			if subs, ok := b.topics[topic]; ok {
				if _, ok := subs[sub]; ok {
					delete(subs, sub)
					close(sub.ch)
				}
				if len(subs) == 0 {
					delete(b.topics, topic)
				}
			}
		})
	}
}

// Publish entrega el evento a todos los suscriptores de ev.SessionID.
// Bloquea si el canal de un suscriptor está lleno, hasta que lea, se desuscriba o ctx termine.
func (b *Bus) Publish(ctx context.Context, ev entity.AuthEvent) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return ErrClosed
	}
	subs := b.topics[ev.SessionID]
	if len(subs) == 0 {
		b.log.Debug().Str("session_id", ev.SessionID).Str("event", string(ev.Type)).Msg("evento sin suscriptores")
		return nil
	}
	for sub := range subs {
		select {
		case sub.ch <- ev:
		case <-sub.done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// Close cierra todos los canales. Publish posteriores devuelven ErrClosed.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for topic, subs := range b.topics {
		for sub := range subs {
			close(sub.ch)
		}
		delete(b.topics, topic)
	}
}
