// Package store persists recommendation details and their ratings.
package store

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"
)

var ErrNotFound = errors.New("recommendation detail not found")

// Detail is one stored recommendation row. Rated details keep their score;
// unrated ones form the pending-evaluation queue, served oldest first.
type Detail struct {
	ObjectID     string
	Titulo       string
	Sinopsis     string
	FechaEstreno string
	Razon        string
	Score        int
	Rated        bool
	CreatedAt    time.Time
}

// Store is implemented by the in-memory store and the Postgres store.
type Store interface {
	AddDetails(details []*Detail) error
	ListDetails() ([]*Detail, error)
	// NextPending returns the oldest unrated detail, or nil when none remain.
	NextPending() (*Detail, error)
	SetEvaluation(objectID string, score int) error
}

var objectIDSeq atomic.Int64

// newObjectID returns a process-unique detail ID.
func newObjectID() string {
	return fmt.Sprintf("dtl_%d_%d", time.Now().UnixNano(), objectIDSeq.Add(1))
}
