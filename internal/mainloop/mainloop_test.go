package mainloop

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestRunExecutesPostedTasksInOrder(t *testing.T) {
	l := New()

	var (
		mu  sync.Mutex
		got []int
	)
	done := make(chan struct{})
	for i := 0; i < 5; i++ {
		i := i
		l.Post(func() {
			mu.Lock()
			got = append(got, i)
			mu.Unlock()
			if i == 4 {
				close(done)
			}
		})
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go l.Run(ctx)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("tasks did not run")
	}

	mu.Lock()
	defer mu.Unlock()
	for i, v := range got {
		if v != i {
			t.Fatalf("execution order = %v, want ascending", got)
		}
	}
}

func TestRunReturnsOnCancel(t *testing.T) {
	l := New()
	ctx, cancel := context.WithCancel(context.Background())

	returned := make(chan struct{})
	go func() {
		l.Run(ctx)
		close(returned)
	}()

	cancel()
	select {
	case <-returned:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestTickDrainsQueuedTasksOnly(t *testing.T) {
	l := New()

	ran := 0
	for i := 0; i < 3; i++ {
		l.Post(func() { ran++ })
	}

	l.Tick()
	if ran != 3 {
		t.Fatalf("ran = %d, want 3", ran)
	}

	// A second tick with an empty queue returns immediately.
	l.Tick()
	if ran != 3 {
		t.Fatalf("ran = %d after empty tick, want 3", ran)
	}
}

func TestTasksNeverRunConcurrently(t *testing.T) {
	l := New()

	var inside int32
	violation := make(chan struct{}, 1)
	done := make(chan struct{})

	for i := 0; i < 10; i++ {
		last := i == 9
		l.Post(func() {
			inside++
			if inside != 1 {
				select {
				case violation <- struct{}{}:
				default:
				}
			}
			time.Sleep(time.Millisecond)
			inside--
			if last {
				close(done)
			}
		})
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go l.Run(ctx)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("tasks did not finish")
	}
	select {
	case <-violation:
		t.Fatal("two tasks overlapped")
	default:
	}
}
