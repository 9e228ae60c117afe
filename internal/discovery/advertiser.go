// Package discovery advertises the service on the local network over mDNS.
package discovery

import (
	"fmt"
	"net"
	"strings"
	"sync"

	"controlling_led/internal/logger"

	"github.com/grandcat/zeroconf"
)

const (
	// DefaultService is the mDNS service type of the control page.
	DefaultService = "_http._tcp"

	// Domain is the mDNS domain.
	Domain = "local."
)

type shutdowner interface {
	Shutdown()
}

type registerFunc func(instance, service, domain string, port int, host string, ips []string, text []string, ifaces []net.Interface) (shutdowner, error)

func zeroconfRegister(instance, service, domain string, port int, host string, ips []string, text []string, ifaces []net.Interface) (shutdowner, error) {
	srv, err := zeroconf.RegisterProxy(instance, service, domain, port, host, ips, text, ifaces)
	if err != nil {
		return nil, err
	}
	return srv, nil
}

// Advertiser publishes "<name>.local" pointing at this host's addresses.
type Advertiser struct {
	instance string
	service  string
	port     int

	register registerFunc
	addrs    func() ([]string, error)
	log      *logger.Logger

	mu     sync.Mutex
	server shutdowner
}

// NewAdvertiser builds an advertiser for the HTTP port. Empty instance or
// service fall back to the host name and DefaultService.
func NewAdvertiser(instance, service string, port int, log *logger.Logger) *Advertiser {
	if service == "" {
		service = DefaultService
	}
	return &Advertiser{
		instance: instance,
		service:  service,
		port:     port,
		register: zeroconfRegister,
		addrs:    localAddrs,
		log:      logger.OrNop(log),
	}
}

// AdvertiseName registers name as the mDNS host name. An empty name is a no-op.
// Calling it again replaces the previous registration.
func (a *Advertiser) AdvertiseName(name string) error {
	name = strings.TrimSuffix(strings.TrimSpace(name), ".local")
	if name == "" {
		a.log.Debugw("mdns_skipped", "reason", "empty host name")
		return nil
	}

	ips, err := a.addrs()
	if err != nil {
		return fmt.Errorf("collect local addresses: %w", err)
	}
	if len(ips) == 0 {
		return fmt.Errorf("advertise %s.local: no usable local address", name)
	}

	instance := a.instance
	if instance == "" {
		instance = name
	}

	srv, err := a.register(instance, a.service, Domain, a.port, name, ips, []string{"path=/"}, nil)
	if err != nil {
		return fmt.Errorf("register mdns name %s.local: %w", name, err)
	}

	a.mu.Lock()
	prev := a.server
	a.server = srv
	a.mu.Unlock()
	if prev != nil {
		prev.Shutdown()
	}

	a.log.Infow("mdns_advertised", "host", name+".local", "service", a.service, "port", a.port, "ips", ips)
	return nil
}

// Shutdown withdraws the advertisement. Safe to call when nothing is registered.
func (a *Advertiser) Shutdown() {
	a.mu.Lock()
	srv := a.server
	a.server = nil
	a.mu.Unlock()

	if srv != nil {
		srv.Shutdown()
		a.log.Infow("mdns_withdrawn")
	}
}

// localAddrs lists the addresses of up, non-loopback interfaces.
func localAddrs() ([]string, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}
	var out []string
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		for _, addr := range addrs {
			ipNet, ok := addr.(*net.IPNet)
			if !ok || ipNet.IP.IsLinkLocalUnicast() {
				continue
			}
			out = append(out, ipNet.IP.String())
		}
	}
	return out, nil
}
