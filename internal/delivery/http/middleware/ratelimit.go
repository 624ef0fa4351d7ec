package middleware

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/netip"
	"strings"

	h "clubevents/internal/delivery/http/helpers"
	"clubevents/internal/domain"
)

// RateLimitObserver counts rejected requests per scope.
type RateLimitObserver interface {
	ObserveRateLimited(scope string)
}

// RateLimit rejects with 429 once the client IP exceeds the limiter's budget for scope.
// A limiter failure lets the request through.
func RateLimit(limiter domain.RateLimiter, scope string, proxies TrustedProxies, observer RateLimitObserver, logger *slog.Logger) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		if limiter == nil {
			return next
		}
		return func(w http.ResponseWriter, r *http.Request) {
			allowed, err := limiter.Allow(r.Context(), scope+":"+proxies.ClientIP(r))
			if err != nil {
				logger.WarnContext(r.Context(), "rate limiter unavailable", "scope", scope, "err", err)
				next(w, r)
				return
			}
			if !allowed {
				if observer != nil {
					observer.ObserveRateLimited(scope)
				}
				w.Header().Set("Retry-After", "60")
				h.WriteJSONError(w, http.StatusTooManyRequests, h.ErrCodeRateLimited, "Too many requests. Please try again later.")
				return
			}
			next(w, r)
		}
	}
}

// TrustedProxies are the networks whose forwarding headers are believed.
type TrustedProxies []netip.Prefix

// ParseTrustedProxies accepts bare IPs and CIDR ranges.
func ParseTrustedProxies(entries []string) (TrustedProxies, error) {
	out := make(TrustedProxies, 0, len(entries))
	for _, e := range entries {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		if strings.Contains(e, "/") {
			p, err := netip.ParsePrefix(e)
			if err != nil {
				return nil, fmt.Errorf("trusted proxy %q: %w", e, err)
			}
			out = append(out, p.Masked())
			continue
		}
		a, err := netip.ParseAddr(e)
		if err != nil {
			return nil, fmt.Errorf("trusted proxy %q: %w", e, err)
		}
		a = a.Unmap()
		out = append(out, netip.PrefixFrom(a, a.BitLen()))
	}
	return out, nil
}

func (t TrustedProxies) trusts(s string) bool {
	a, err := netip.ParseAddr(strings.TrimSpace(s))
	if err != nil {
		return false
	}
	a = a.Unmap()
	for _, p := range t {
		if p.Contains(a) {
			return true
		}
	}
	return false
}

// ClientIP returns the address rate limits are keyed on. Forwarding headers
// count only when the peer is a trusted proxy. X-Forwarded-For is then read
// right to left and the first hop that is not a trusted proxy wins, so
// entries the client prepends are never used. X-Real-IP is the fallback.
func (t TrustedProxies) ClientIP(r *http.Request) string {
	peer, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		peer = r.RemoteAddr
	}
	if !t.trusts(peer) {
		return peer
	}
	var hops []string
	for _, v := range r.Header.Values("X-Forwarded-For") {
		hops = append(hops, strings.Split(v, ",")...)
	}
	for i := len(hops) - 1; i >= 0; i-- {
		hop := strings.TrimSpace(hops[i])
		if hop == "" {
			continue
		}
		if !t.trusts(hop) {
			return hop
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	return peer
}
