package middleware

import (
	"net"
	"net/http"
	"net/netip"
	"strings"

	"github.com/onlinehub/workforce-backend-go/internal/domain/access"
	"github.com/onlinehub/workforce-backend-go/internal/handler/http/response"
)

// ClientAddr resolves the caller's address from the first X-Forwarded-For hop,
// falling back to the connection's remote address.
func ClientAddr(r *http.Request) (netip.Addr, bool) {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if addr, err := netip.ParseAddr(strings.TrimSpace(first)); err == nil {
			return addr.Unmap(), true
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	addr, err := netip.ParseAddr(host)
	if err != nil {
		return netip.Addr{}, false
	}
	return addr.Unmap(), true
}

// IPAccess enforces the network access mode, read fresh on every request.
func IPAccess(accessService access.AccessService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			addr, ok := ClientAddr(r)
			if !ok {
				response.HandleError(w, access.ErrInvalidClientAddr)
				return
			}

			if err := accessService.Check(r.Context(), addr); err != nil {
				response.HandleError(w, err)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
