// Package netx holds small network helpers shared by the client packages.
package netx

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"time"
)

// ErrUnreachable is returned when no TCP connection to the server could be
// opened.
var ErrUnreachable = errors.New("server unreachable")

// DefaultDialTimeout bounds a reachability probe when ctx has no deadline.
const DefaultDialTimeout = 5 * time.Second

// HostPort extracts host:port from a server URL, filling in the scheme's
// default port.
func HostPort(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid server url: %w", err)
	}
	if u.Hostname() == "" {
		return "", fmt.Errorf("invalid server url %q: missing host", rawURL)
	}
	port := u.Port()
	if port == "" {
		switch u.Scheme {
		case "http":
			port = "80"
		case "https", "":
			port = "443"
		default:
			return "", fmt.Errorf("invalid server url %q: unsupported scheme %q", rawURL, u.Scheme)
		}
	}
	return net.JoinHostPort(u.Hostname(), port), nil
}

// CheckReachable opens and closes a TCP connection to the server behind
// rawURL. Failures wrap ErrUnreachable.
func CheckReachable(ctx context.Context, rawURL string) error {
	addr, err := HostPort(rawURL)
	if err != nil {
		return err
	}
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultDialTimeout)
		defer cancel()
	}

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrUnreachable, addr, err)
	}
	return conn.Close()
}
