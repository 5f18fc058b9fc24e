package facts

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestFactCaches(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		fmt.Fprint(w, "42 is the answer to everything.")
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Minute)

	fact, err := client.Fact(context.Background(), 42)
	if err != nil {
		t.Fatalf("fact: %v", err)
	}
	if fact != "42 is the answer to everything." {
		t.Fatalf("unexpected fact: %q", fact)
	}

	if _, err := client.Fact(context.Background(), 42); err != nil {
		t.Fatalf("fact 2: %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("expected one upstream call, got %d", got)
	}
}

func TestFactExpiry(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		fmt.Fprint(w, "7 is lucky.")
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Minute)
	now := time.Now()
	client.clock = func() time.Time { return now }

	if _, err := client.Fact(context.Background(), 7); err != nil {
		t.Fatalf("fact: %v", err)
	}

	// jitter adds at most 10%, so two minutes is safely past expiry
	now = now.Add(2 * time.Minute)
	if _, err := client.Fact(context.Background(), 7); err != nil {
		t.Fatalf("fact after expiry: %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Fatalf("expected refetch after expiry, got %d calls", got)
	}
}

func TestFactUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Minute)
	if _, err := client.Fact(context.Background(), 13); err == nil {
		t.Fatal("expected error from failing upstream")
	}
}

func TestFactConcurrentMisses(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "some number fact")
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Minute)

	// Distinct numbers miss the cache at once and fetch on separate
	// singleflight goroutines, all drawing from the shared rand source.
	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for n := 0; n < 16; n++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			if _, err := client.Fact(context.Background(), n); err != nil {
				errs <- err
			}
		}(n)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("concurrent fact: %v", err)
	}
}
