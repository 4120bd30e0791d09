package middleware

import (
	"crypto/sha256"
	"encoding/hex"
	"net"
	"strings"

	"github.com/danielgtaylor/huma/v2"
)

// ClientResolver identifies the client behind a request. Proxy headers are
// only read when the server sits behind a trusted proxy; otherwise any client
// could pick its own identity.
type ClientResolver struct {
	trustProxy bool
}

// NewClientResolver creates a resolver. With trustProxy false the peer
// address is always used.
func NewClientResolver(trustProxy bool) ClientResolver {
	return ClientResolver{trustProxy: trustProxy}
}

// Key identifies a client by IP and User-Agent without storing either.
func (r ClientResolver) Key(ctx huma.Context) string {
	hash := sha256.Sum256([]byte(r.IP(ctx) + "|" + ctx.Header("User-Agent")))

	return hex.EncodeToString(hash[:])
}

// IP returns the client address.
func (r ClientResolver) IP(ctx huma.Context) string {
	if r.trustProxy {
		if xff := ctx.Header("X-Forwarded-For"); xff != "" {
			first, _, _ := strings.Cut(xff, ",")

			return strings.TrimSpace(first)
		}

		if xri := ctx.Header("X-Real-IP"); xri != "" {
			return strings.TrimSpace(xri)
		}
	}

	addr := ctx.RemoteAddr()

	ip, _, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}

	return ip
}
