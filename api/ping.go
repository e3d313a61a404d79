package api

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultHeartbeatInterval matches the original client's reachability poll.
const DefaultHeartbeatInterval = 10 * time.Second

// Ping probes the API base address. Any HTTP response, whatever its status,
// means the backend is reachable; only a transport-level failure counts as
// unreachable. No credentials are attached.
func (c *Client) Ping(ctx context.Context) error {
	req, err := c.newRequest(ctx, http.MethodGet, "/", nil)
	if err != nil {
		return err
	}

	resp, err := c.do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

// Heartbeat probes backend reachability at a fixed interval and reports
// transitions to a callback. It runs independently of user-triggered
// operations and is stopped when its owner is torn down; a probe completing
// after Stop is never delivered.
type Heartbeat struct {
	client   *Client
	interval time.Duration
	notify   func(reachable bool)

	started  atomic.Bool
	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// NewHeartbeat creates a Heartbeat on the given client. notify is called
// once per probe with the reachability result; interval <= 0 selects the
// default.
func NewHeartbeat(client *Client, interval time.Duration, notify func(reachable bool)) *Heartbeat {
	if interval <= 0 {
		interval = DefaultHeartbeatInterval
	}
	return &Heartbeat{
		client:   client,
		interval: interval,
		notify:   notify,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the probe loop. The first probe fires immediately, then
// once per interval until Stop is called or ctx is canceled.
func (h *Heartbeat) Start(ctx context.Context) {
	h.started.Store(true)
	go h.run(ctx)
}

// Stop tears the heartbeat down and waits for the loop to exit. Safe to call
// more than once, and before Start; there is no loop to wait for then.
func (h *Heartbeat) Stop() {
	h.stopOnce.Do(func() { close(h.stop) })
	if !h.started.Load() {
		return
	}
	<-h.done
}

func (h *Heartbeat) run(ctx context.Context) {
	defer close(h.done)

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	h.probe(ctx)
	for {
		select {
		case <-h.stop:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.probe(ctx)
		}
	}
}

// probe runs one reachability check. The stop channel is re-checked before
// delivering the result so a late completion never reaches a torn-down
// owner.
func (h *Heartbeat) probe(ctx context.Context) {
	err := h.client.Ping(ctx)

	select {
	case <-h.stop:
		return
	case <-ctx.Done():
		return
	default:
	}
	h.notify(err == nil)
}
