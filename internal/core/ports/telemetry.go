package ports

import (
	"context"
	"io"
)

//go:generate go run go.uber.org/mock/mockgen -source=telemetry.go -destination=mocks/mock_telemetry.go -package=mocks

// Tracer is the entry point for recording units of work.
type Tracer interface {
	// Start begins recording a new span.
	Start(ctx context.Context, name string) (context.Context, Span)

	// Close flushes and closes the recording session.
	Close() error
}

// Span represents a unit of work.
type Span interface {
	io.Writer

	// Complete marks the span as finished, successfully or with an error.
	Complete(err error)

	// Cached marks the span as satisfied from cache.
	Cached()
}
