package task

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestPoolRunsJobs(t *testing.T) {
	pool := NewPool(2, 4)
	defer pool.Close()

	done := make(chan string, 3)
	for _, id := range []string{"a", "b", "c"} {
		id := id
		err := pool.Enqueue(Job{TaskID: id, Run: func(context.Context) { done <- id }})
		if err != nil {
			t.Fatalf("enqueue %s: %v", id, err)
		}
	}

	seen := map[string]bool{}
	for i := 0; i < 3; i++ {
		select {
		case id := <-done:
			seen[id] = true
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for jobs")
		}
	}
	if len(seen) != 3 {
		t.Errorf("expected 3 distinct jobs, got %v", seen)
	}
}

func TestPoolRejectsWhenFull(t *testing.T) {
	pool := NewPool(1, 1)

	started := make(chan struct{})
	release := make(chan struct{})
	if err := pool.Enqueue(Job{TaskID: "running", Run: func(context.Context) {
		close(started)
		<-release
	}}); err != nil {
		t.Fatalf("enqueue running: %v", err)
	}
	<-started

	if err := pool.Enqueue(Job{TaskID: "queued", Run: func(context.Context) {}}); err != nil {
		t.Fatalf("enqueue queued: %v", err)
	}

	err := pool.Enqueue(Job{TaskID: "rejected", Run: func(context.Context) {}})
	if !errors.Is(err, ErrQueueFull) {
		t.Fatalf("expected ErrQueueFull, got %v", err)
	}

	snapshot := pool.Snapshot()
	if len(snapshot) != 2 || snapshot[0] != "queued" || snapshot[1] != "running" {
		t.Errorf("unexpected snapshot: %v", snapshot)
	}

	close(release)
	pool.Close()
	if got := pool.Snapshot(); len(got) != 0 {
		t.Errorf("expected empty snapshot after drain, got %v", got)
	}
}
