package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Birdy2014/einkaufszettel/internal/model"

	"github.com/goccy/go-json"
)

func testPoller(client *Client, listID int) *Poller {
	p := NewPoller(client, listID)
	p.Budget = 200 * time.Millisecond
	p.Backoff = 50 * time.Millisecond
	p.Yield = time.Millisecond
	return p
}

func runPoller(t *testing.T, p *Poller) (<-chan Event, context.CancelFunc) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	events := make(chan Event, 16)
	go p.Run(ctx, events)
	t.Cleanup(cancel)
	return events, cancel
}

func waitEvent(t *testing.T, events <-chan Event) Event {
	t.Helper()
	select {
	case ev := <-events:
		return ev
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for poll event")
		return Event{}
	}
}

func TestPoller_InstallsSnapshotAndAdvancesGeneration(t *testing.T) {
	var lastSeen atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gen, _ := strconv.Atoi(r.URL.Query().Get("generation"))
		lastSeen.Store(int64(gen))
		_ = json.NewEncoder(w).Encode(model.List{
			Generation: 5,
			Name:       "groceries",
			Items:      map[int]model.Item{1: {Singular: "Milk"}},
		})
	}))
	defer srv.Close()

	p := testPoller(NewClient(srv.URL), 1)
	events, _ := runPoller(t, p)

	ev := waitEvent(t, events)
	if ev.Err != nil {
		t.Fatalf("unexpected error event: %v", ev.Err)
	}
	if ev.Snapshot == nil || ev.Snapshot.Generation != 5 {
		t.Fatalf("expected snapshot with generation 5; got %+v", ev.Snapshot)
	}
	if ev.Snapshot.Items[1].Singular != "Milk" {
		t.Fatalf("snapshot items not decoded: %+v", ev.Snapshot.Items)
	}

	// The next poll must carry the installed snapshot's generation.
	waitEvent(t, events)
	if got := lastSeen.Load(); got != 5 {
		t.Fatalf("expected follow-up poll with generation 5; got %d", got)
	}
}

func TestPoller_FirstPollUsesSentinelGeneration(t *testing.T) {
	var first atomic.Int64
	first.Store(999)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gen, _ := strconv.Atoi(r.URL.Query().Get("generation"))
		first.CompareAndSwap(999, int64(gen))
		_ = json.NewEncoder(w).Encode(model.List{Generation: 0})
	}))
	defer srv.Close()

	p := testPoller(NewClient(srv.URL), 1)
	events, _ := runPoller(t, p)
	waitEvent(t, events)

	if got := first.Load(); got != -1 {
		t.Fatalf("expected first poll generation -1; got %d", got)
	}
}

func TestPoller_NetworkFailureReportsAndBacksOff(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	p := testPoller(NewClient(srv.URL), 1)
	events, _ := runPoller(t, p)

	firstAt := time.Now()
	ev := waitEvent(t, events)
	if ev.Err == nil {
		t.Fatalf("expected an error event")
	}

	// The loop must keep running, but only after the fixed backoff.
	ev = waitEvent(t, events)
	if ev.Err == nil {
		t.Fatalf("expected a second error event")
	}
	if elapsed := time.Since(firstAt); elapsed < p.Backoff {
		t.Fatalf("second failure arrived before the backoff elapsed (%v < %v)", elapsed, p.Backoff)
	}
}

func TestPoller_NonSuccessStatusReports(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadRequest)
	}))
	defer srv.Close()

	p := testPoller(NewClient(srv.URL), 1)
	events, _ := runPoller(t, p)

	if ev := waitEvent(t, events); ev.Err == nil {
		t.Fatalf("expected error event for non-success status")
	}
}

func TestPoller_TimeoutIsBenignKeepAlive(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Outlive the client's long-poll budget.
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()

	p := testPoller(NewClient(srv.URL), 1)
	p.Budget = 30 * time.Millisecond
	events, _ := runPoller(t, p)

	select {
	case ev := <-events:
		t.Fatalf("long-poll timeout must not produce an event; got %+v", ev)
	case <-time.After(150 * time.Millisecond):
	}
}

func TestPoller_StopsOnContextCancel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(model.List{})
	}))
	defer srv.Close()

	p := testPoller(NewClient(srv.URL), 1)
	events, cancel := runPoller(t, p)
	waitEvent(t, events)
	cancel()

	// Drain anything buffered, then the loop must go quiet.
	deadline := time.After(200 * time.Millisecond)
	for {
		select {
		case <-events:
		case <-deadline:
			return
		}
	}
}
