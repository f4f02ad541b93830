package progrock_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shedtool/shed/internal/adapters/telemetry/progrock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	prog "github.com/vito/progrock"
)

// captureWriter collects every status update the recorder emits so tests can
// assert on what was actually written, not just that recording did not panic.
type captureWriter struct {
	updates []*prog.StatusUpdate
	closed  bool
}

func (w *captureWriter) WriteStatus(status *prog.StatusUpdate) error {
	w.updates = append(w.updates, status)
	return nil
}

func (w *captureWriter) Close() error {
	w.closed = true
	return nil
}

func (w *captureWriter) vertexes() []*prog.Vertex {
	var vs []*prog.Vertex
	for _, u := range w.updates {
		vs = append(vs, u.Vertexes...)
	}
	return vs
}

func TestNew(t *testing.T) {
	recorder := progrock.New()
	assert.NotNil(t, recorder)
}

func TestStart_EmitsNamedVertex(t *testing.T) {
	w := &captureWriter{}
	recorder := progrock.NewRecorder(w)

	_, span := recorder.Start(context.Background(), "resolve")
	span.Complete(nil)

	vs := w.vertexes()
	require.NotEmpty(t, vs, "starting a span must write a vertex")
	assert.Equal(t, "resolve", vs[0].Name)
}

func TestComplete_RecordsError(t *testing.T) {
	w := &captureWriter{}
	recorder := progrock.NewRecorder(w)

	_, span := recorder.Start(context.Background(), "activate")
	span.Complete(errors.New("builder exploded"))

	var gotErr string
	for _, v := range w.vertexes() {
		if v.Error != nil {
			gotErr = *v.Error
		}
	}
	assert.Contains(t, gotErr, "builder exploded")
}

func TestCached_MarksVertex(t *testing.T) {
	w := &captureWriter{}
	recorder := progrock.NewRecorder(w)

	_, span := recorder.Start(context.Background(), "activate")
	span.Cached()
	span.Complete(nil)

	cached := false
	for _, v := range w.vertexes() {
		if v.Cached {
			cached = true
		}
	}
	assert.True(t, cached, "cache hits must be reflected in the recorded status")
}

func TestClose_ClosesWriter(t *testing.T) {
	w := &captureWriter{}
	recorder := progrock.NewRecorder(w)

	require.NoError(t, recorder.Close())
	assert.True(t, w.closed)
}
