// internal/collision/stream.go
// Merged observation of a user's collisions.
//
// The storage query model watches "I am user 1" and "I am user 2" as
// two separate legs. Each leg delivers full snapshots; a pure reducer
// merges them by collision id, letting the freshest version win, so
// replaying any snapshot (including our own optimistic writes echoed
// back) converges to the same merged view.

package collision

import (
	"context"
	"log"
	"sort"
	"sync"
	"time"
)

// Source tags which subscription leg a snapshot came from.
type Source int

const (
	SourceUser1 Source = iota + 1
	SourceUser2
)

// Snapshot is one delivery from one leg.
type Snapshot struct {
	Source     Source
	Collisions []*Collision
}

// MergeState holds, per leg, the last snapshot seen. Keeping the legs
// separate means a collision that disappears from one leg's snapshot
// (deleted upstream) actually drops out of the merge instead of being
// served stale forever.
type MergeState struct {
	legs map[Source]map[string]*Collision
}

func NewMergeState() *MergeState {
	return &MergeState{legs: map[Source]map[string]*Collision{}}
}

// Apply folds a snapshot into the state. Pure with respect to its
// inputs: applying the same snapshot any number of times, in any
// interleaving with the other leg, yields the same merged output.
func (m *MergeState) Apply(snap Snapshot) {
	byID := make(map[string]*Collision, len(snap.Collisions))
	for _, c := range snap.Collisions {
		byID[c.ID] = c
	}
	m.legs[snap.Source] = byID
}

// Merged returns the deduplicated union of both legs. When both legs
// carry the same collision id, the later UpdatedAt wins; on a tie the
// copies are interchangeable.
func (m *MergeState) Merged() []*Collision {
	merged := map[string]*Collision{}
	for _, leg := range m.legs {
		for id, c := range leg {
			if existing, ok := merged[id]; ok && !c.UpdatedAt.After(existing.UpdatedAt) {
				continue
			}
			merged[id] = c
		}
	}

	out := make([]*Collision, 0, len(merged))
	for _, c := range merged {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// Watcher turns the two repository legs into merged callbacks.
type Watcher struct {
	repo Repository
	poll time.Duration
}

func NewWatcher(repo Repository, poll time.Duration) *Watcher {
	if poll <= 0 {
		poll = 2 * time.Second
	}
	return &Watcher{repo: repo, poll: poll}
}

// Subscription is one caller's merged view of their collisions. Legs
// are independently cancellable; losing one leg keeps the other's
// last-known-good data flowing.
type Subscription struct {
	cancelLeg1 context.CancelFunc
	cancelLeg2 context.CancelFunc
	stopOnce   sync.Once
	done       chan struct{}
}

// Unsubscribe tears down both legs. Safe to call more than once.
func (s *Subscription) Unsubscribe() {
	s.stopOnce.Do(func() {
		s.cancelLeg1()
		s.cancelLeg2()
		close(s.done)
	})
}

// CancelLeg stops a single leg, leaving the other serving.
func (s *Subscription) CancelLeg(src Source) {
	switch src {
	case SourceUser1:
		s.cancelLeg1()
	case SourceUser2:
		s.cancelLeg2()
	}
}

// Subscribe starts watching userID's collisions. callback receives the
// full merged list after every delivery; onError receives per-leg
// failures (the subscription itself keeps running). Returns the
// subscription handle; callers must Unsubscribe when done.
func (w *Watcher) Subscribe(userID int64, callback func([]*Collision), onError func(error)) *Subscription {
	ctx1, cancel1 := context.WithCancel(context.Background())
	ctx2, cancel2 := context.WithCancel(context.Background())

	sub := &Subscription{
		cancelLeg1: cancel1,
		cancelLeg2: cancel2,
		done:       make(chan struct{}),
	}

	events := make(chan Snapshot, 2)

	go w.runLeg(ctx1, SourceUser1, userID, events, onError)
	go w.runLeg(ctx2, SourceUser2, userID, events, onError)

	go func() {
		state := NewMergeState()
		for {
			select {
			case <-sub.done:
				return
			case snap := <-events:
				state.Apply(snap)
				callback(state.Merged())
			}
		}
	}()

	return sub
}

func (w *Watcher) runLeg(ctx context.Context, src Source, userID int64, events chan<- Snapshot, onError func(error)) {
	ticker := time.NewTicker(w.poll)
	defer ticker.Stop()

	deliver := func() {
		var (
			collisions []*Collision
			err        error
		)
		if src == SourceUser1 {
			collisions, err = w.repo.ListByUser1(ctx, userID)
		} else {
			collisions, err = w.repo.ListByUser2(ctx, userID)
		}
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Printf("collision: subscription leg %d for user %d failed: %v", src, userID, err)
			if onError != nil {
				onError(err)
			}
			return
		}

		select {
		case events <- Snapshot{Source: src, Collisions: collisions}:
		case <-ctx.Done():
		}
	}

	deliver()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			deliver()
		}
	}
}
