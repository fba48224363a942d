// Package netguard builds outbound HTTP plumbing that refuses to talk to
// private or reserved networks. Every request the analyzer makes to a
// user-supplied host goes through it.
//
// References:
//   - https://snyk.io/articles/how-to-avoid-ssrf-vulnerability-in-go-applications/
//   - https://logoi.dny.dev/2022/12/02/implementing-ssrf-protections-in-golang/
package netguard

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"syscall"
	"time"
)

// MaxRedirects bounds the redirect chain followed by guarded clients.
const MaxRedirects = 5

var (
	// ErrBlockedAddress is returned when a dial targets a non-public address.
	ErrBlockedAddress = errors.New("request to private/reserved network address is not allowed")
	// ErrTooManyRedirects is returned once MaxRedirects hops were followed.
	ErrTooManyRedirects = errors.New("too many redirects")
	// ErrBlockedRedirect is returned for redirects to non-http(s) schemes.
	ErrBlockedRedirect = errors.New("redirect to non-http(s) scheme blocked")
)

// reservedPrefixes are ranges netip.Addr has no predicate for.
var reservedPrefixes = []netip.Prefix{
	netip.MustParsePrefix("100.64.0.0/10"),   // Carrier-grade NAT (RFC 6598)
	netip.MustParsePrefix("192.0.0.0/24"),    // IETF protocol assignments (RFC 6890)
	netip.MustParsePrefix("192.0.2.0/24"),    // TEST-NET-1 (RFC 5737)
	netip.MustParsePrefix("198.18.0.0/15"),   // Benchmarking (RFC 2544)
	netip.MustParsePrefix("198.51.100.0/24"), // TEST-NET-2 (RFC 5737)
	netip.MustParsePrefix("203.0.113.0/24"),  // TEST-NET-3 (RFC 5737)
}

// Dialer returns a net.Dialer whose Control hook rejects non-public
// addresses. The check runs after DNS resolution, which also defeats
// DNS rebinding.
func Dialer(timeout time.Duration) *net.Dialer {
	return &net.Dialer{
		Timeout:   timeout,
		KeepAlive: 30 * time.Second,
		Control:   rejectNonPublic,
	}
}

// Transport returns an http.Transport dialing through Dialer.
func Transport(dialTimeout time.Duration, maxConnsPerHost int) *http.Transport {
	return &http.Transport{
		Proxy:               nil,
		DialContext:         Dialer(dialTimeout).DialContext,
		MaxConnsPerHost:     maxConnsPerHost,
		MaxIdleConnsPerHost: maxConnsPerHost,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: dialTimeout,
	}
}

// RedirectPolicy is an http.Client CheckRedirect hook limiting chain length
// and refusing scheme changes away from http(s).
func RedirectPolicy(req *http.Request, via []*http.Request) error {
	if len(via) >= MaxRedirects {
		return fmt.Errorf("%w: stopped after %d", ErrTooManyRedirects, MaxRedirects)
	}
	if req.URL.Scheme != "http" && req.URL.Scheme != "https" {
		return fmt.Errorf("%w: %s", ErrBlockedRedirect, req.URL.Scheme)
	}
	return nil
}

func rejectNonPublic(_ string, address string, _ syscall.RawConn) error {
	addrPort, err := netip.ParseAddrPort(address)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBlockedAddress, err)
	}

	if IsBlocked(addrPort.Addr()) {
		return fmt.Errorf("%w: %s", ErrBlockedAddress, addrPort.Addr())
	}

	return nil
}

// IsBlocked reports whether addr is outside globally routable unicast space.
func IsBlocked(addr netip.Addr) bool {
	// ::ffff:127.0.0.1 must be judged as 127.0.0.1.
	addr = addr.Unmap()

	if !addr.IsGlobalUnicast() || addr.IsPrivate() {
		return true
	}

	for _, p := range reservedPrefixes {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}
