package client

import (
	"context"
	"errors"
	"testing"
)

func TestQueue_RecordAccumulates(t *testing.T) {
	q := &Queue{}
	for i := 0; i < 7; i++ {
		q.Record()
	}
	if q.Pending() != 7 {
		t.Errorf("Pending = %d, want 7", q.Pending())
	}
}

func TestQueue_TakeAllZeroes(t *testing.T) {
	q := &Queue{}
	q.Record()
	q.Record()

	if got := q.TakeAll(); got != 2 {
		t.Errorf("TakeAll = %d, want 2", got)
	}
	if q.Pending() != 0 {
		t.Errorf("Pending after TakeAll = %d, want 0", q.Pending())
	}
}

func TestQueue_RefundAdds(t *testing.T) {
	q := &Queue{}
	q.Record() // a press that lands during the failed attempt
	q.Refund(5)
	if q.Pending() != 6 {
		t.Errorf("Pending = %d, want 6 (refund must add, not overwrite)", q.Pending())
	}
}

func TestFlush_SuccessDrainsQueue(t *testing.T) {
	q := &Queue{}
	for i := 0; i < 4; i++ {
		q.Record()
	}

	var sent int64
	kicked := false
	f := &Flusher{
		Queue: q,
		Name:  "Ada",
		Submit: func(_ context.Context, name string, delta int64) error {
			if name != "Ada" {
				t.Errorf("submit name = %q, want Ada", name)
			}
			sent = delta
			return nil
		},
		OnSuccess: func() { kicked = true },
	}
	f.Flush(context.Background())

	if sent != 4 {
		t.Errorf("submitted delta = %d, want 4", sent)
	}
	if q.Pending() != 0 {
		t.Errorf("Pending = %d, want 0", q.Pending())
	}
	if !kicked {
		t.Error("OnSuccess not called after accepted flush")
	}
}

func TestFlush_FailureRequeues(t *testing.T) {
	q := &Queue{}
	for i := 0; i < 5; i++ {
		q.Record()
	}

	f := &Flusher{
		Queue: q,
		Name:  "Ada",
		Submit: func(context.Context, string, int64) error {
			// Clicks keep landing while the request is in flight.
			q.Record()
			q.Record()
			return errors.New("network down")
		},
	}
	f.Flush(context.Background())

	// Failed delta (5) plus the two mid-flight presses.
	if q.Pending() != 7 {
		t.Errorf("Pending = %d, want 7", q.Pending())
	}
}

func TestFlush_NoNameIsNoop(t *testing.T) {
	q := &Queue{}
	q.Record()

	called := false
	f := &Flusher{
		Queue:  q,
		Name:   "",
		Submit: func(context.Context, string, int64) error { called = true; return nil },
	}
	f.Flush(context.Background())

	if called {
		t.Error("Submit called with no name set")
	}
	if q.Pending() != 1 {
		t.Errorf("Pending = %d, want untouched 1", q.Pending())
	}
}

func TestFlush_EmptyQueueIsNoop(t *testing.T) {
	called := false
	f := &Flusher{
		Queue:  &Queue{},
		Name:   "Ada",
		Submit: func(context.Context, string, int64) error { called = true; return nil },
	}
	f.Flush(context.Background())

	if called {
		t.Error("Submit called with nothing pending")
	}
}
