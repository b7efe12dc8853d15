package tuibridge

import (
	"context"
	"io"
	"strconv"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"go.nomake.dev/nomake/internal/core/domain"
	"go.nomake.dev/nomake/internal/core/ports"
)

// Bridge implements ports.Telemetry by forwarding every Record/Vertex call
// to a running Bubble Tea program as a message, the way the teacher's
// OTel span processor forwarded span start/end events — except there is no
// span processor here, Bridge IS the ports.Telemetry implementation.
type Bridge struct {
	program *tea.Program
	nextID  atomic.Uint64
}

// New returns a Bridge that sends progress messages to program.
func New(program *tea.Program) *Bridge {
	return &Bridge{program: program}
}

// InitTasks sends the full target list to the program before the first
// Record call, so the task list renders fully populated up front.
func (b *Bridge) InitTasks(names []string) {
	if b.program == nil {
		return
	}
	b.program.Send(MsgInitTasks{Tasks: names})
}

// Record sends MsgTaskStart and returns a Vertex that forwards further
// activity for name under a fresh span ID.
func (b *Bridge) Record(ctx context.Context, name string, opts ...ports.VertexOption) (context.Context, ports.Vertex) {
	var cfg ports.VertexConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	var parentID string
	if len(cfg.ParentNames) > 0 {
		parentID = cfg.ParentNames[0]
	}

	id := strconv.FormatUint(b.nextID.Add(1), 10)

	if b.program != nil {
		b.program.Send(MsgTaskStart{
			SpanID:    id,
			ParentID:  parentID,
			Name:      name,
			StartTime: time.Now(),
		})
	}

	v := &vertex{bridge: b, spanID: id}
	return ports.ContextWithVertex(ctx, v), v
}

// Close does nothing; the program's own lifecycle owns shutdown.
func (b *Bridge) Close() error { return nil }

type vertex struct {
	bridge *Bridge
	spanID string
}

func (v *vertex) Stdout() io.Writer { return logWriter{v} }
func (v *vertex) Stderr() io.Writer { return logWriter{v} }

func (v *vertex) Log(level domain.LogLevel, msg string) {
	v.send("[" + level.String() + "] " + msg + "\n")
}

func (v *vertex) Complete(err error) {
	if v.bridge.program == nil {
		return
	}
	v.bridge.program.Send(MsgTaskComplete{SpanID: v.spanID, EndTime: time.Now(), Err: err})
}

func (v *vertex) Cached() {
	if v.bridge.program == nil {
		return
	}
	v.bridge.program.Send(MsgTaskCached{SpanID: v.spanID})
}

func (v *vertex) send(s string) {
	if v.bridge.program == nil {
		return
	}
	v.bridge.program.Send(MsgTaskLog{SpanID: v.spanID, Data: []byte(s)})
}

type logWriter struct{ v *vertex }

func (w logWriter) Write(p []byte) (int, error) {
	data := make([]byte, len(p))
	copy(data, p)
	if w.v.bridge.program != nil {
		w.v.bridge.program.Send(MsgTaskLog{SpanID: w.v.spanID, Data: data})
	}
	return len(p), nil
}
