package engine

import "go.nomake.dev/nomake/internal/core/domain"

// linkQueue is a FIFO queue of domain.Link, the Go shape of
// original_source/execution.hh's buf_default/buf_trivial buffers.
type linkQueue struct {
	items []domain.Link
}

func (q *linkQueue) push(l domain.Link) {
	q.items = append(q.items, l)
}

// pushDependency flattens dep into the queue: a Concatenation expands to
// one push per member (spec.md's "union of its members' resolved targets
// in order"), anything else pushes as a single fresh Link.
func (q *linkQueue) pushDependency(dep domain.Dependency) {
	if cat, ok := dep.(*domain.ConcatenatedDependency); ok {
		for _, member := range cat.Members {
			q.pushDependency(member)
		}
		return
	}
	q.push(domain.NewLink(dep))
}

func (q *linkQueue) empty() bool {
	return len(q.items) == 0
}

func (q *linkQueue) next() domain.Link {
	l := q.items[0]
	q.items = q.items[1:]
	return l
}
