package worker

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
)

func TestWorkerPool_RunsTasksAndDrainsOnStop(t *testing.T) {
	wp := NewWorkerPool(3, 100, zerolog.Nop())
	wp.Start()

	var done int32
	for i := 0; i < 50; i++ {
		if err := wp.Submit(func() { atomic.AddInt32(&done, 1) }); err != nil {
			t.Fatalf("Submit: %v", err)
		}
	}
	wp.Stop()

	if got := atomic.LoadInt32(&done); got != 50 {
		t.Fatalf("completed tasks = %d, want 50", got)
	}
}

func TestWorkerPool_RecoversFromPanic(t *testing.T) {
	wp := NewWorkerPool(1, 4, zerolog.Nop())
	wp.Start()

	var done int32
	wp.Submit(func() { panic("bad task") })
	wp.Submit(func() { atomic.AddInt32(&done, 1) })
	wp.Stop()

	if atomic.LoadInt32(&done) != 1 {
		t.Fatalf("worker should survive a panicking task")
	}
}

func TestWorkerPool_SubmitAfterStop(t *testing.T) {
	wp := NewWorkerPool(1, 1, zerolog.Nop())
	wp.Start()
	wp.Stop()
	wp.Stop()

	if err := wp.Submit(func() {}); !errors.Is(err, ErrPoolStopped) {
		t.Fatalf("err = %v, want ErrPoolStopped", err)
	}
}

func TestWorkerPool_QueueLength(t *testing.T) {
	wp := NewWorkerPool(1, 8, zerolog.Nop())

	for i := 0; i < 3; i++ {
		if err := wp.Submit(func() {}); err != nil {
			t.Fatalf("Submit: %v", err)
		}
	}
	if got := wp.QueueLength(); got != 3 {
		t.Fatalf("QueueLength = %d, want 3", got)
	}

	wp.Start()
	wp.Stop()
	if got := wp.QueueLength(); got != 0 {
		t.Fatalf("QueueLength after stop = %d, want 0", got)
	}
}
