package progress

import (
	"context"

	"github.com/trebuchet-org/treb-dao/internal/usecase"
)

// NopSink discards progress output. Used for --json and non-interactive runs.
type NopSink struct{}

// NewNopSink creates a new no-op progress sink
func NewNopSink() usecase.ProgressSink {
	return &NopSink{}
}

func (n *NopSink) OnProgress(ctx context.Context, event usecase.ProgressEvent) {}
func (n *NopSink) Info(message string)                                        {}
func (n *NopSink) Error(message string)                                       {}

var _ usecase.ProgressSink = (*NopSink)(nil)
