package db

import (
	log "github.com/sirupsen/logrus"
)

// Step is one element of a history walk.  A visit step carries the
// commit; an edge step has Parent set and Commit nil.
type Step struct {
	Digest string
	Commit *Commit
	Parent string
}

// IsEdge reports whether the step is a commit-to-parent edge.
func (s Step) IsEdge() bool {
	return s.Parent != ""
}

type walkFrame struct {
	digest  string
	parents []string
	next    int
}

// Walker enumerates the commits reachable from a start commit, depth
// first, visiting parents in header order.  Every edge is reported,
// but each commit is visited once, even when several paths reach it.
// A Walker is not restartable; create a new one to walk again.
type Walker struct {
	store   Store
	visited map[string]bool
	stack   []*walkFrame
	pending string
	err     error
}

// Walk returns a Walker starting at the commit start.
func Walk(store Store, start string) *Walker {
	return &Walker{
		store:   store,
		visited: make(map[string]bool),
		pending: start,
	}
}

// Walk returns a Walker over db's history from start.
func (db *Db) Walk(start string) *Walker {
	return Walk(db.Store, start)
}

// Next returns the next step.  ok is false when the walk is finished
// or has failed; Err reports which.
func (w *Walker) Next() (step Step, ok bool) {
	if w.err != nil {
		return
	}
	if w.pending != "" {
		digest := w.pending
		w.pending = ""
		commit, err := readCommit(w.store, digest)
		if err != nil {
			w.err = err
			return
		}
		w.visited[digest] = true
		w.stack = append(w.stack, &walkFrame{digest: digest, parents: commit.Parents()})
		log.Debugf("walk visit %s", digest)
		return Step{Digest: digest, Commit: commit}, true
	}
	for len(w.stack) > 0 {
		top := w.stack[len(w.stack)-1]
		if top.next < len(top.parents) {
			parent := top.parents[top.next]
			top.next++
			if !w.visited[parent] {
				w.pending = parent
			}
			return Step{Digest: top.digest, Parent: parent}, true
		}
		w.stack = w.stack[:len(w.stack)-1]
	}
	return
}

// Err returns the error that stopped the walk, if any.
func (w *Walker) Err() error {
	return w.err
}

// History walks from start and returns every step.
func History(store Store, start string) (steps []Step, err error) {
	w := Walk(store, start)
	for {
		step, ok := w.Next()
		if !ok {
			break
		}
		steps = append(steps, step)
	}
	return steps, w.Err()
}
