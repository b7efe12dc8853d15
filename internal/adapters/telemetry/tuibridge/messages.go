// Package tuibridge adapts ports.Telemetry to a running Bubble Tea program,
// translating Record/Vertex calls into messages the tui package's model
// understands.
package tuibridge

import "time"

// MsgInitTasks resets the task list to names, in declaration order. Sent
// once, before the first Record call, so the list renders fully populated
// rather than growing one entry at a time as targets start.
type MsgInitTasks struct {
	Tasks []string
}

// MsgTaskStart indicates a new task (vertex) has started.
type MsgTaskStart struct {
	SpanID    string
	ParentID  string // empty if root
	Name      string
	StartTime time.Time
}

// MsgTaskLog carries a chunk of log output for a specific task.
type MsgTaskLog struct {
	SpanID string
	Data   []byte
}

// MsgTaskComplete indicates a task (vertex) has finished.
type MsgTaskComplete struct {
	SpanID  string
	EndTime time.Time
	Err     error
}

// MsgTaskCached indicates a task was found already up to date and will not
// run its command.
type MsgTaskCached struct {
	SpanID string
}
