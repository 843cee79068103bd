package api

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"os"
	"time"

	"github.com/Birdy2014/einkaufszettel/internal/model"
)

// Event is one poll-loop outcome delivered to the view layer.
type Event struct {
	// Snapshot is set when the poll succeeded. It replaces any previously
	// held snapshot wholesale.
	Snapshot *model.List
	// Err is set when the poll failed in a way worth showing (anything but
	// a long-poll timeout). The loop keeps running either way.
	Err error
}

// Poller drives the long-poll loop for a single list.
//
// It is the sole writer of the locally held snapshot generation: each poll
// carries the generation of the last installed snapshot, and the server
// holds the request open until a newer one exists or the long-poll window
// elapses. Failures never escape the loop; they are classified and either
// ignored (timeouts, which are the protocol's keep-alive) or reported as an
// Event and retried after a fixed backoff.
type Poller struct {
	Client *Client
	ListID int

	// Budget is the long-poll window. A timeout observed before half of it
	// has elapsed means the server gave up early; that is logged but
	// otherwise treated like any other keep-alive.
	Budget time.Duration
	// Backoff is the fixed wait after a reported failure.
	Backoff time.Duration
	// Yield is the inter-iteration pause that keeps the loop from spinning
	// when the server answers instantly.
	Yield time.Duration

	generation int
}

const (
	DefaultBudget  = 10 * time.Second
	DefaultBackoff = 4 * time.Second
	defaultYield   = 10 * time.Millisecond
)

func NewPoller(client *Client, listID int) *Poller {
	return &Poller{
		Client:  client,
		ListID:  listID,
		Budget:  DefaultBudget,
		Backoff: DefaultBackoff,
		Yield:   defaultYield,
		// Below any real generation, so the first poll returns immediately
		// instead of long-polling against the current state.
		generation: -1,
	}
}

// Run polls until ctx is cancelled, sending an Event per installed snapshot
// or reportable failure. It never returns for any other reason.
func (p *Poller) Run(ctx context.Context, events chan<- Event) {
	for {
		p.pollOnce(ctx, events)
		if !sleep(ctx, p.Yield) {
			return
		}
	}
}

func (p *Poller) pollOnce(ctx context.Context, events chan<- Event) {
	reqCtx, cancel := context.WithTimeout(ctx, p.Budget)
	defer cancel()

	start := time.Now()
	list, err := p.Client.FetchList(reqCtx, p.ListID, p.generation)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		elapsed := time.Since(start)
		if isTimeout(err) {
			if elapsed < p.Budget/2 {
				// The server is supposed to hold the request for the full
				// window; an early timeout is suspicious but still benign.
				slog.Info("long poll timed out early", "list", p.ListID, "elapsed", elapsed)
			}
			return
		}
		slog.Warn("poll failed", "list", p.ListID, "elapsed", elapsed, "err", err)
		select {
		case events <- Event{Err: err}:
		case <-ctx.Done():
			return
		}
		sleep(ctx, p.Backoff)
		return
	}

	// The server is authoritative: install the snapshot even if its
	// generation did not advance, and use it for the next poll.
	p.generation = list.Generation
	select {
	case events <- Event{Snapshot: &list}:
	case <-ctx.Done():
	}
}

// Generation is the generation of the last installed snapshot.
func (p *Poller) Generation() int { return p.generation }

// isTimeout reports whether err is the client-enforced long-poll deadline
// firing (directly or wrapped in a *url.Error by net/http).
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var uerr *url.Error
	return errors.As(err, &uerr) && uerr.Timeout()
}

// sleep waits for d or until ctx is cancelled, reporting whether the full
// wait elapsed.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}
