// Package ports defines the interfaces the engine depends on and adapters
// implement.
package ports

import (
	"context"
	"io"

	"go.nomake.dev/nomake/internal/core/domain"
)

//go:generate go run go.uber.org/mock/mockgen -source=telemetry.go -destination=mocks/mock_telemetry.go -package=mocks

// Telemetry is the entry point for recording one vertex per Execution node.
// It is named after, and shaped to fit, github.com/vito/progrock's
// Recorder/Vertex pair rather than a generic OpenTelemetry tracer: a build
// DAG's unit of work is a target, not a request span.
type Telemetry interface {
	// Record starts (or re-enters, for a node visited via a second edge)
	// the vertex for name.
	Record(ctx context.Context, name string, opts ...VertexOption) (context.Context, Vertex)
	// Close flushes and closes the recording session.
	Close() error
}

// Vertex represents one Execution node's place in the live progress view.
type Vertex interface {
	// Stdout returns a writer that streams the running command's stdout.
	Stdout() io.Writer
	// Stderr returns a writer that streams the running command's stderr.
	Stderr() io.Writer
	// Log records a structured message against this vertex (used by
	// verbose-trace output and warnings).
	Log(level domain.LogLevel, msg string)
	// Complete marks the vertex finished, successfully if err is nil.
	Complete(err error)
	// Cached marks the vertex as skipped because the target was already
	// up to date.
	Cached()
}

// VertexConfig holds per-vertex configuration.
type VertexConfig struct {
	// ParentNames lists the vertices that depend on this one, for
	// progress-tree rendering.
	ParentNames []string
}

// VertexOption is a functional option for configuring a vertex at Record
// time.
type VertexOption func(*VertexConfig)

// WithParents attaches parent vertex names for tree rendering.
func WithParents(names ...string) VertexOption {
	return func(c *VertexConfig) {
		c.ParentNames = append(c.ParentNames, names...)
	}
}

type vertexContextKey struct{}

// ContextWithVertex returns a context carrying v, so nested calls (e.g. a
// dynamic dependency's own recursive execute) can find their enclosing
// vertex without threading it through every function signature.
func ContextWithVertex(ctx context.Context, v Vertex) context.Context {
	return context.WithValue(ctx, vertexContextKey{}, v)
}

// VertexFromContext returns the vertex ctx carries, if any.
func VertexFromContext(ctx context.Context) (Vertex, bool) {
	v, ok := ctx.Value(vertexContextKey{}).(Vertex)
	return v, ok
}
