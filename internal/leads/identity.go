package leads

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net"
	"net/http"
	"strings"
)

// IdentityHash derives the rate-limit partition key from the caller's IP and
// user agent. The keyed hash avoids storing raw IPs.
func IdentityHash(salt, ip, userAgent string) string {
	mac := hmac.New(sha256.New, []byte(salt))
	mac.Write([]byte(ip + "|" + userAgent))
	return hex.EncodeToString(mac.Sum(nil))
}

// clientIP extracts the caller address: first X-Forwarded-For hop, then
// RemoteAddr, then a fixed fallback.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if first := strings.TrimSpace(strings.Split(xff, ",")[0]); first != "" {
			return first
		}
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
		return host
	}
	if r.RemoteAddr != "" {
		return r.RemoteAddr
	}
	return "0.0.0.0"
}
