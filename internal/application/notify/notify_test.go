package notify_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/inventario-pos/internal/application/notify"
)

func TestRecorder_AcumulaEnOrden(t *testing.T) {
	r := notify.NewRecorder()
	assert.NotNil(t, r.Outcomes())
	assert.Empty(t, r.Outcomes())

	r.Notify(context.Background(), notify.Info("uno", ""))
	r.Notify(context.Background(), notify.Error("dos", "detalle"))

	got := r.Outcomes()
	assert.Len(t, got, 2)
	assert.Equal(t, notify.LevelInfo, got[0].Level)
	assert.Equal(t, "detalle", got[1].Description)
}

func TestMulti_ReenviaATodos(t *testing.T) {
	a, b := notify.NewRecorder(), notify.NewRecorder()
	notify.Multi{a, nil, b}.Notify(context.Background(), notify.Success("ok", ""))

	assert.Len(t, a.Outcomes(), 1)
	assert.Len(t, b.Outcomes(), 1)
}

func TestLogNotifier_EscribeTitulo(t *testing.T) {
	var buf bytes.Buffer
	n := notify.NewLogNotifier(zerolog.New(&buf))
	n.Notify(context.Background(), notify.Warning("No se encontraron roles", "sin filas"))

	assert.Contains(t, buf.String(), "No se encontraron roles")
	assert.Contains(t, buf.String(), `"level":"warn"`)
}

func TestOrDiscard(t *testing.T) {
	assert.Equal(t, notify.Discard, notify.OrDiscard(nil))
	r := notify.NewRecorder()
	assert.Equal(t, notify.Notifier(r), notify.OrDiscard(r))
}
