// Package discovery finds a media center JSON-RPC endpoint on the local
// network over mDNS.
package discovery

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/grandcat/zeroconf"
)

// ErrNotFound is returned when no service answered before the timeout.
var ErrNotFound = errors.New("no media center found on the local network")

// Endpoint is one advertised JSON-RPC service.
type Endpoint struct {
	Instance string
	Host     string
	Port     int
}

// Address returns host:port.
func (e Endpoint) Address() string {
	return net.JoinHostPort(e.Host, strconv.Itoa(e.Port))
}

// Options selects the service type and how long to wait for answers.
type Options struct {
	Service string
	Domain  string
	Timeout time.Duration
}

type browseFunc func(ctx context.Context, service, domain string, entries chan<- *zeroconf.ServiceEntry) error

// Browse returns the first advertised endpoint.
func Browse(ctx context.Context, opts Options) (Endpoint, error) {
	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return Endpoint{}, fmt.Errorf("create mdns resolver: %w", err)
	}
	return browseWith(ctx, resolver.Browse, opts)
}

func browseWith(ctx context.Context, browse browseFunc, opts Options) (Endpoint, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = 3 * time.Second
	}
	browseCtx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	entries := make(chan *zeroconf.ServiceEntry, 4)
	if err := browse(browseCtx, opts.Service, opts.Domain, entries); err != nil {
		return Endpoint{}, fmt.Errorf("browse %s: %w", opts.Service, err)
	}

	for {
		select {
		case entry, ok := <-entries:
			if !ok {
				return Endpoint{}, ErrNotFound
			}
			if ep, ok := endpointFromEntry(entry); ok {
				return ep, nil
			}
		case <-browseCtx.Done():
			if err := ctx.Err(); err != nil {
				return Endpoint{}, err
			}
			return Endpoint{}, ErrNotFound
		}
	}
}

// endpointFromEntry prefers an IPv4 address over the advertised host name.
func endpointFromEntry(entry *zeroconf.ServiceEntry) (Endpoint, bool) {
	if entry == nil || entry.Port <= 0 {
		return Endpoint{}, false
	}

	host := ""
	switch {
	case len(entry.AddrIPv4) > 0:
		host = entry.AddrIPv4[0].String()
	case len(entry.AddrIPv6) > 0:
		host = entry.AddrIPv6[0].String()
	case entry.HostName != "":
		host = entry.HostName
	default:
		return Endpoint{}, false
	}

	return Endpoint{Instance: entry.Instance, Host: host, Port: entry.Port}, true
}
