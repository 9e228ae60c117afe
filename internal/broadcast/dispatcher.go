// Package broadcast fans one message out to every registered session.
package broadcast

import (
	"context"
	"sync"
	"sync/atomic"

	"controlling_led/internal/logger"
	"controlling_led/internal/registry"
)

// Snapshotter is the part of the registry the dispatcher needs.
type Snapshotter interface {
	Snapshot() []registry.Client
}

// Report summarises one fan-out.
type Report struct {
	Attempted int
	Failed    int
}

// Dispatcher delivers messages to a registry snapshot. A failed send is
// logged and counted; it never stops the remaining sends and never removes
// the client, since removal belongs to the session's own read loop.
type Dispatcher struct {
	clients Snapshotter
	log     *logger.Logger
}

func NewDispatcher(clients Snapshotter, log *logger.Logger) *Dispatcher {
	return &Dispatcher{clients: clients, log: logger.OrNop(log)}
}

// Broadcast sends msg to every registered client.
func (d *Dispatcher) Broadcast(ctx context.Context, msg []byte) Report {
	return d.send(ctx, msg, func(int64) bool { return true })
}

// BroadcastExcept sends msg to every registered client other than exclude.
func (d *Dispatcher) BroadcastExcept(ctx context.Context, msg []byte, exclude int64) Report {
	return d.send(ctx, msg, func(id int64) bool { return id != exclude })
}

// send starts one goroutine per recipient and waits for all attempts.
// Each Sender bounds its own write with a deadline.
func (d *Dispatcher) send(ctx context.Context, msg []byte, include func(int64) bool) Report {
	var (
		wg        sync.WaitGroup
		attempted int
		failed    atomic.Int64
	)

	for _, c := range d.clients.Snapshot() {
		if !include(c.ID) {
			continue
		}
		if ctx.Err() != nil {
			d.log.Infow("broadcast_cancelled", "err", ctx.Err(), "attempted", attempted)
			break
		}
		attempted++
		wg.Add(1)
		go func(c registry.Client) {
			defer wg.Done()
			if err := c.Sender.Send(msg); err != nil {
				failed.Add(1)
				d.log.Warnw("broadcast_send_failed", "client_id", c.ID, "err", err)
			}
		}(c)
	}
	wg.Wait()

	rep := Report{Attempted: attempted, Failed: int(failed.Load())}
	d.log.Debugw("broadcast_done", "attempted", rep.Attempted, "failed", rep.Failed)
	return rep
}
