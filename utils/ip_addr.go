package utils

import (
	"net"
	"net/http"
	"regexp"
	"strings"
)

// netAddrPattern is the pattern for parsing the IP address out of a net.Addr.
// This is needed because the net.Addr includes a port number at the end
var netAddrPattern = regexp.MustCompile(`^(.*):\d+$`)

// GetIpAddress gets the client IP address from a set of headers and a net
// address. Proxy headers win over the raw connection address, since the
// connection usually terminates at the proxy.
func GetIpAddress(
	header http.Header,
	addr net.Addr,
) string {

	if header != nil {

		// Cloudflare forwards the original client address in its own header
		ip := header.Get("CF-Connecting-IP")
		if len(ip) > 0 {
			return ip
		}

		// Behind a plain reverse proxy, the first X-Forwarded-For entry is
		// the original client
		forwarded := header.Get("X-Forwarded-For")
		if len(forwarded) > 0 {
			first := strings.TrimSpace(strings.Split(forwarded, ",")[0])
			if len(first) > 0 {
				return first
			}
		}

	}

	// If the address is nil, return an empty string
	if addr == nil {
		return ""
	}

	// Match against the pattern in order to pull the IP address out of the address
	submatch := netAddrPattern.FindStringSubmatch(addr.String())
	if len(submatch) < 2 {
		return ""
	}

	// Clean up the IP address. These only have an effect in the case of IPv6 addresses
	ip := submatch[1]
	ip = strings.Trim(ip, "[]")
	ip = strings.TrimPrefix(ip, "::ffff:")
	return ip

}
