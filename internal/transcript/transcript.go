// Package transcript holds the conversation log shown to the user. It is the
// only structure shared between concurrent dispatch cycles, so all mutation
// goes through one mutex.
package transcript

import "sync"

type Sender string

const (
	User Sender = "user"
	Bot  Sender = "bot"
)

// Entry is one rendered unit of the conversation. Block marks preformatted
// multi-line content that the view must show verbatim; plain entries may be
// re-wrapped to the terminal width.
type Entry struct {
	Sender  Sender
	Content string
	Block   bool
}

// Handle refers to an appended entry so a caller can remove it later
// (loading placeholders). A handle stays usable after removal; removing
// twice is a no-op.
type Handle struct {
	id int
}

type node struct {
	id    int
	entry Entry
}

// Log is an append-only message list with targeted removal.
type Log struct {
	mu     sync.Mutex
	nextID int
	nodes  []node
	notify func()
}

func New() *Log {
	return &Log{}
}

// SetNotify registers a callback fired after every append and every
// effective removal. The view uses it to re-render and scroll to the
// bottom. The callback runs outside the log's lock.
func (l *Log) SetNotify(fn func()) {
	l.mu.Lock()
	l.notify = fn
	l.mu.Unlock()
}

// Append adds an entry at the end and returns its handle.
func (l *Log) Append(e Entry) *Handle {
	l.mu.Lock()
	l.nextID++
	h := &Handle{id: l.nextID}
	l.nodes = append(l.nodes, node{id: h.id, entry: e})
	fn := l.notify
	l.mu.Unlock()
	if fn != nil {
		fn()
	}
	return h
}

// Remove detaches the entry for h if it is still attached. Nil handles and
// already-removed entries are ignored.
func (l *Log) Remove(h *Handle) {
	if h == nil {
		return
	}
	l.mu.Lock()
	var fn func()
	for i, n := range l.nodes {
		if n.id == h.id {
			l.nodes = append(l.nodes[:i], l.nodes[i+1:]...)
			fn = l.notify
			break
		}
	}
	l.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// Entries returns a snapshot of the live entries in append order.
func (l *Log) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Entry, len(l.nodes))
	for i, n := range l.nodes {
		out[i] = n.entry
	}
	return out
}

func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.nodes)
}
