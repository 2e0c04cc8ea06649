package progress

import (
	"bytes"
	"context"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/trebuchet-org/treb-dao/internal/usecase"
)

func TestSpinnerSink(t *testing.T) {
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = false })

	var buf bytes.Buffer
	sink := newSpinnerSink(&buf)
	ctx := context.Background()

	sink.OnProgress(ctx, usecase.ProgressEvent{Stage: "loading", Message: "Loading proposals", Spinner: true})
	sink.Info("Recorded for vote")
	sink.OnProgress(ctx, usecase.ProgressEvent{Stage: "complete", Message: "Proposals loaded", Current: 3, Total: 3})
	sink.Error("boom")
	sink.Stop()

	out := buf.String()
	assert.Contains(t, out, "Recorded for vote\n")
	assert.Contains(t, out, "Proposals loaded (3/3, ")
	assert.Contains(t, out, "boom\n")
}

func TestNopSink(t *testing.T) {
	sink := NewNopSink()
	sink.OnProgress(context.Background(), usecase.ProgressEvent{Message: "ignored"})
	sink.Info("ignored")
	sink.Error("ignored")
}
