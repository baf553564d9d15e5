package kafka

import (
	"sync"

	"github.com/segmentio/kafka-go"
)

type partition struct {
	topic string
	id    int
}

type inflight struct {
	msg  kafka.Message
	done bool
}

// watermarks tracks fetched offsets per partition. Workers finish messages
// out of order across keys, so the commit point is the end of the finished
// prefix, never a finished offset with an unfinished one before it.
type watermarks struct {
	mu        sync.Mutex
	pending   map[partition][]*inflight
	committed map[partition]int64
}

func newWatermarks() *watermarks {
	return &watermarks{
		pending:   make(map[partition][]*inflight),
		committed: make(map[partition]int64),
	}
}

func partitionOf(m kafka.Message) partition { return partition{topic: m.Topic, id: m.Partition} }

// begin records a fetched message. A fetch at or below an offset already
// queued means the group rewound the partition; the stale queue is dropped.
func (w *watermarks) begin(m kafka.Message) {
	w.mu.Lock()
	defer w.mu.Unlock()
	p := partitionOf(m)
	q := w.pending[p]
	for i, f := range q {
		if f.msg.Offset >= m.Offset {
			q = q[:i]
			break
		}
	}
	if last, ok := w.committed[p]; ok && m.Offset <= last {
		delete(w.committed, p)
	}
	w.pending[p] = append(q, &inflight{msg: m})
}

// done marks m handled and returns the last message of the finished prefix
// of its partition, if that prefix grew.
func (w *watermarks) done(m kafka.Message) (kafka.Message, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	p := partitionOf(m)
	q := w.pending[p]
	for _, f := range q {
		if f.msg.Offset == m.Offset {
			f.done = true
			break
		}
	}
	n := 0
	for n < len(q) && q[n].done {
		n++
	}
	if n == 0 {
		return kafka.Message{}, false
	}
	upto := q[n-1].msg
	w.pending[p] = q[n:]
	return upto, true
}

// advance reports whether committing m moves its partition forward and
// records it as committed.
func (w *watermarks) advance(m kafka.Message) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	p := partitionOf(m)
	if last, ok := w.committed[p]; ok && m.Offset <= last {
		return false
	}
	w.committed[p] = m.Offset
	return true
}

// rollback forgets a failed commit so the next finished prefix retries it.
func (w *watermarks) rollback(m kafka.Message) {
	w.mu.Lock()
	defer w.mu.Unlock()
	p := partitionOf(m)
	if w.committed[p] == m.Offset {
		delete(w.committed, p)
	}
}
