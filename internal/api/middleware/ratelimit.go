package middleware

import (
	"context"
	"net"
	"net/http"

	"projeto_nfc/internal/platform/logging"
)

type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

type peerAddrKey struct{}

// PeerAddr keeps the TCP peer address of the request. It must run before
// chi's RealIP, which rewrites RemoteAddr from client-supplied headers.
func PeerAddr(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), peerAddrKey{}, r.RemoteAddr)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RateLimit counts requests per peer IP and hands over-limit requests to
// deny. Limiter faults let the request through.
func RateLimit(limiter Limiter, log logging.Logger, deny http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := peerIP(r)
			allowed, err := limiter.Allow(r.Context(), "ip:"+ip)
			if err != nil {
				log.Warn(r.Context(), "rate limiter unavailable", "error", err)
				next.ServeHTTP(w, r)
				return
			}
			if !allowed {
				log.Warn(r.Context(), "rate limit exceeded", "ip", ip, "path", r.URL.Path)
				deny(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// peerIP is the host part of the address recorded by PeerAddr, falling back
// to RemoteAddr when PeerAddr did not run.
func peerIP(r *http.Request) string {
	addr, ok := r.Context().Value(peerAddrKey{}).(string)
	if !ok {
		addr = r.RemoteAddr
	}
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}
