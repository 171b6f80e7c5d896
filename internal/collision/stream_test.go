package collision

import (
	"context"
	"testing"
	"time"
)

func collisionAt(id string, created, updated time.Time, status Status) *Collision {
	return &Collision{
		ID:        id,
		UserID1:   1,
		UserID2:   2,
		Status:    status,
		CreatedAt: created,
		UpdatedAt: updated,
	}
}

func TestMergeDeduplicatesAcrossLegs(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	stale := collisionAt("c1", base, base, StatusActive)
	fresh := collisionAt("c1", base, base.Add(time.Minute), StatusExpired)

	state := NewMergeState()
	state.Apply(Snapshot{Source: SourceUser1, Collisions: []*Collision{stale}})
	state.Apply(Snapshot{Source: SourceUser2, Collisions: []*Collision{fresh}})

	merged := state.Merged()
	if len(merged) != 1 {
		t.Fatalf("merged %d collisions, want 1", len(merged))
	}
	if merged[0].Status != StatusExpired {
		t.Errorf("merged status = %q, want the fresher expired copy", merged[0].Status)
	}
}

func TestMergeIsOrderIndependent(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	leg1 := Snapshot{Source: SourceUser1, Collisions: []*Collision{
		collisionAt("a", base, base.Add(time.Minute), StatusActive),
		collisionAt("b", base.Add(time.Hour), base.Add(time.Hour), StatusActive),
	}}
	leg2 := Snapshot{Source: SourceUser2, Collisions: []*Collision{
		collisionAt("a", base, base.Add(2*time.Minute), StatusCompleted),
		collisionAt("c", base.Add(2*time.Hour), base.Add(2*time.Hour), StatusActive),
	}}

	forward := NewMergeState()
	forward.Apply(leg1)
	forward.Apply(leg2)

	reverse := NewMergeState()
	reverse.Apply(leg2)
	reverse.Apply(leg1)

	a, b := forward.Merged(), reverse.Merged()
	if len(a) != len(b) {
		t.Fatalf("merged lengths differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].ID != b[i].ID || a[i].Status != b[i].Status {
			t.Errorf("position %d differs: %s/%s vs %s/%s", i, a[i].ID, a[i].Status, b[i].ID, b[i].Status)
		}
	}

	// Newest creation first.
	if a[0].ID != "c" || a[1].ID != "b" || a[2].ID != "a" {
		t.Errorf("order = [%s %s %s], want [c b a]", a[0].ID, a[1].ID, a[2].ID)
	}
	// The duplicate resolved to the fresher leg2 copy.
	if a[2].Status != StatusCompleted {
		t.Errorf("duplicate resolved to %q, want completed", a[2].Status)
	}
}

func TestMergeReplayIsIdempotent(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	snap := Snapshot{Source: SourceUser1, Collisions: []*Collision{
		collisionAt("a", base, base, StatusActive),
		collisionAt("b", base.Add(time.Minute), base.Add(time.Minute), StatusActive),
	}}

	state := NewMergeState()
	state.Apply(snap)
	once := state.Merged()

	state.Apply(snap)
	state.Apply(snap)
	thrice := state.Merged()

	if len(once) != len(thrice) {
		t.Fatalf("replay changed merge size: %d vs %d", len(once), len(thrice))
	}
	for i := range once {
		if once[i].ID != thrice[i].ID {
			t.Errorf("replay changed position %d: %s vs %s", i, once[i].ID, thrice[i].ID)
		}
	}
}

func TestMergeDropsRemovedCollisions(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	state := NewMergeState()
	state.Apply(Snapshot{Source: SourceUser1, Collisions: []*Collision{
		collisionAt("a", base, base, StatusActive),
		collisionAt("b", base, base, StatusActive),
	}})
	state.Apply(Snapshot{Source: SourceUser1, Collisions: []*Collision{
		collisionAt("b", base, base.Add(time.Minute), StatusActive),
	}})

	merged := state.Merged()
	if len(merged) != 1 || merged[0].ID != "b" {
		t.Fatalf("merged = %v, want only collision b after a disappeared", merged)
	}
}

func TestWatcherDeliversMergedView(t *testing.T) {
	repo := newMemoryRepo()
	ctx := context.Background()
	base := time.Now()

	// User 5 appears on both legs: once as initiator, once as target.
	if err := repo.Create(ctx, &Collision{
		ID: "as-initiator", UserID1: 5, UserID2: 6,
		Status: StatusActive, CreatedAt: base, UpdatedAt: base,
		ExpiresAt: base.Add(15 * time.Minute),
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.Create(ctx, &Collision{
		ID: "as-target", UserID1: 4, UserID2: 5,
		Status: StatusActive, CreatedAt: base.Add(time.Second), UpdatedAt: base.Add(time.Second),
		ExpiresAt: base.Add(15 * time.Minute),
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	watcher := NewWatcher(repo, 10*time.Millisecond)
	views := make(chan []*Collision, 16)
	sub := watcher.Subscribe(5, func(merged []*Collision) {
		select {
		case views <- merged:
		default:
		}
	}, nil)
	defer sub.Unsubscribe()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case merged := <-views:
			if len(merged) == 2 {
				if merged[0].ID != "as-target" || merged[1].ID != "as-initiator" {
					t.Fatalf("order = [%s %s], want newest first", merged[0].ID, merged[1].ID)
				}
				return
			}
		case <-deadline:
			t.Fatal("merged view with both collisions never arrived")
		}
	}
}

func TestUnsubscribeIsIdempotent(t *testing.T) {
	watcher := NewWatcher(newMemoryRepo(), 10*time.Millisecond)
	sub := watcher.Subscribe(1, func([]*Collision) {}, nil)

	sub.Unsubscribe()
	sub.Unsubscribe()
	sub.CancelLeg(SourceUser1)
}
