// Package notify define el canal de resultados visibles al usuario (success, info, warning, error).
package notify

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// Level categoría del resultado.
type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Outcome resultado con título corto y descripción opcional.
type Outcome struct {
	Level       Level  `json:"level"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// Notifier recibe resultados de acciones iniciadas por el usuario.
type Notifier interface {
	Notify(ctx context.Context, o Outcome)
}

// Success, Info, Warning y Error construyen un Outcome.
func Success(title, desc string) Outcome { return Outcome{Level: LevelSuccess, Title: title, Description: desc} }
func Info(title, desc string) Outcome    { return Outcome{Level: LevelInfo, Title: title, Description: desc} }
func Warning(title, desc string) Outcome { return Outcome{Level: LevelWarning, Title: title, Description: desc} }
func Error(title, desc string) Outcome   { return Outcome{Level: LevelError, Title: title, Description: desc} }

// Recorder acumula los resultados de una petición para devolverlos en la respuesta.
type Recorder struct {
	mu       sync.Mutex
	outcomes []Outcome
}

// NewRecorder construye un Recorder vacío.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Notify(_ context.Context, o Outcome) {
	r.mu.Lock()
	r.outcomes = append(r.outcomes, o)
	r.mu.Unlock()
}

// Outcomes devuelve una copia de lo acumulado (slice vacío, nunca nil).
func (r *Recorder) Outcomes() []Outcome {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Outcome, len(r.outcomes))
	copy(out, r.outcomes)
	return out
}

// LogNotifier escribe cada resultado en el log.
type LogNotifier struct {
	log zerolog.Logger
}

// NewLogNotifier construye el notifier sobre zerolog.
func NewLogNotifier(log zerolog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Notify(_ context.Context, o Outcome) {
	var ev *zerolog.Event
	switch o.Level {
	case LevelError:
		ev = n.log.Error()
	case LevelWarning:
		ev = n.log.Warn()
	default:
		ev = n.log.Info()
	}
	ev.Str("level_outcome", string(o.Level)).Str("description", o.Description).Msg(o.Title)
}

// Multi reenvía cada resultado a todos los notifiers.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, o Outcome) {
	for _, n := range m {
		if n != nil {
			n.Notify(ctx, o)
		}
	}
}

// Discard ignora los resultados (flujos automáticos).
var Discard Notifier = discard{}

type discard struct{}

func (discard) Notify(context.Context, Outcome) {}

// OrDiscard devuelve n o Discard si es nil.
func OrDiscard(n Notifier) Notifier {
	if n == nil {
		return Discard
	}
	return n
}
