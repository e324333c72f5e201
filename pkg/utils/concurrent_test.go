package utils

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestExecuteWithResults(t *testing.T) {
	t.Run("returns results in input order", func(t *testing.T) {
		fns := []func() (int, error){
			func() (int, error) { time.Sleep(20 * time.Millisecond); return 1, nil },
			func() (int, error) { return 2, nil },
			func() (int, error) { time.Sleep(5 * time.Millisecond); return 3, nil },
		}

		results, errs := ExecuteWithResults(context.Background(), 2, fns...)
		if err := FirstError(errs); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for i, want := range []int{1, 2, 3} {
			if results[i] != want {
				t.Errorf("result[%d] = %d, want %d", i, results[i], want)
			}
		}
	})

	t.Run("errors stay index aligned", func(t *testing.T) {
		boom := errors.New("boom")
		fns := []func() (string, error){
			func() (string, error) { return "ok", nil },
			func() (string, error) { return "", boom },
		}

		results, errs := ExecuteWithResults(context.Background(), 0, fns...)
		if errs[0] != nil {
			t.Errorf("expected no error at index 0, got %v", errs[0])
		}
		if !errors.Is(errs[1], boom) {
			t.Errorf("expected boom at index 1, got %v", errs[1])
		}
		if results[0] != "ok" {
			t.Errorf("expected ok, got %q", results[0])
		}
	})

	t.Run("recovers panics as errors", func(t *testing.T) {
		fns := []func() (int, error){
			func() (int, error) { panic("worker died") },
			func() (int, error) { return 7, nil },
		}

		results, errs := ExecuteWithResults(context.Background(), 2, fns...)

		var panicErr *PanicError
		if !errors.As(errs[0], &panicErr) {
			t.Fatalf("expected PanicError, got %v", errs[0])
		}
		if panicErr.Value != "worker died" {
			t.Errorf("unexpected panic value: %v", panicErr.Value)
		}
		if results[1] != 7 {
			t.Errorf("sibling result lost: got %d", results[1])
		}
	})

	t.Run("cancelled context short-circuits waiting work", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		block := make(chan struct{})
		defer close(block)

		// Concurrency 1: the first function occupies the semaphore,
		// the rest observe the cancelled context.
		fns := make([]func() (int, error), 8)
		fns[0] = func() (int, error) { <-block; return 0, nil }
		for i := 1; i < len(fns); i++ {
			fns[i] = func() (int, error) { return 0, nil }
		}

		done := make(chan struct{})
		var errs []error
		go func() {
			_, errs = ExecuteWithResults(ctx, 1, fns...)
			close(done)
		}()

		block <- struct{}{}
		<-done

		// Whatever was waiting on the semaphore reports Canceled;
		// everything else ran. Either way the call must not deadlock.
		for i, err := range errs {
			if err != nil && !errors.Is(err, context.Canceled) {
				t.Errorf("unexpected error at index %d: %v", i, err)
			}
		}
	})

	t.Run("no functions", func(t *testing.T) {
		results, errs := ExecuteWithResults[int](context.Background(), 2)
		if results != nil || errs != nil {
			t.Error("expected nil results and errors for empty input")
		}
	})
}

func TestFirstError(t *testing.T) {
	if FirstError(nil) != nil {
		t.Error("expected nil for empty slice")
	}
	if FirstError([]error{nil, nil}) != nil {
		t.Error("expected nil when all entries are nil")
	}

	first := errors.New("first")
	second := errors.New("second")
	if got := FirstError([]error{nil, first, second}); !errors.Is(got, first) {
		t.Errorf("expected first error, got %v", got)
	}
}
