// Package network gates service start-up on a usable network link.
package network

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"controlling_led/internal/logger"

	"github.com/jonboulle/clockwork"
)

// ErrNetworkUnavailable is returned once the retry budget is spent.
var ErrNetworkUnavailable = errors.New("network unavailable")

// Probe reports whether the network is up right now.
type Probe func() (bool, error)

// Manager polls a Probe with a bounded number of retries. The retry counter
// resets whenever the link comes up.
type Manager struct {
	probe         Probe
	clock         clockwork.Clock
	maxRetries    int
	retryInterval time.Duration
	log           *logger.Logger

	mu         sync.Mutex
	retryCount int
}

// NewManager builds a manager; nil probe selects InterfaceProbe and nil clock the real clock.
func NewManager(probe Probe, maxRetries int, retryInterval time.Duration, clock clockwork.Clock, log *logger.Logger) *Manager {
	if probe == nil {
		probe = InterfaceProbe
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Manager{
		probe:         probe,
		clock:         clock,
		maxRetries:    maxRetries,
		retryInterval: retryInterval,
		log:           logger.OrNop(log),
	}
}

// NetworkUp runs the probe once. Probe errors count as down.
func (m *Manager) NetworkUp() bool {
	up, err := m.probe()
	if err != nil {
		m.log.Warnw("network_probe_failed", "err", err)
		return false
	}
	return up
}

// WaitUntilUp probes until the network is up, waiting retryInterval between
// attempts, and gives up after maxRetries failed retries.
func (m *Manager) WaitUntilUp(ctx context.Context) error {
	for {
		if m.NetworkUp() {
			m.mu.Lock()
			m.retryCount = 0
			m.mu.Unlock()
			m.log.Infow("network_up")
			return nil
		}

		m.mu.Lock()
		if m.retryCount >= m.maxRetries {
			n := m.retryCount
			m.mu.Unlock()
			return fmt.Errorf("%w after %d retries", ErrNetworkUnavailable, n)
		}
		m.retryCount++
		attempt := m.retryCount
		m.mu.Unlock()

		m.log.Infow("network_down_retrying", "attempt", attempt, "max_retries", m.maxRetries, "wait", m.retryInterval)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-m.clock.After(m.retryInterval):
		}
	}
}

// Retries returns the retries spent since the link was last seen up.
func (m *Manager) Retries() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.retryCount
}

// InterfaceProbe reports up when any non-loopback interface is up and has an address.
func InterfaceProbe() (bool, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return false, fmt.Errorf("list interfaces: %w", err)
	}
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		if len(addrs) > 0 {
			return true, nil
		}
	}
	return false, nil
}
