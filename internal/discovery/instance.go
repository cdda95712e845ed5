package discovery

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

// TXT record keys published by an advertised server
const (
	TXTVersion = "version"
	TXTPath    = "path"
	TXTTLS     = "tls"
)

// Instance is a contactform server found on the local network.
type Instance struct {
	// Name is the mDNS instance name (e.g., "contactform on studio")
	Name string

	// Hostname is the mDNS hostname (e.g., "studio.local.")
	Hostname string

	// IP is the first IPv4 address, or IPv6 when there is none
	IP string

	Port int

	// Version, Path and TLS come from the TXT record
	Version string
	Path    string
	TLS     bool

	// Metadata holds every TXT key, including unknown ones
	Metadata map[string]string

	DiscoveredAt time.Time
}

// String returns a human-readable string representation of the instance
func (i *Instance) String() string {
	return fmt.Sprintf("%s (%s) at %s", i.Name, i.Version, i.BaseURL())
}

// BaseURL returns the form page URL.
func (i *Instance) BaseURL() string {
	scheme := "http"
	if i.TLS {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/", scheme, net.JoinHostPort(i.IP, strconv.Itoa(i.Port)))
}

// WebSocketURL returns the session endpoint URL.
func (i *Instance) WebSocketURL() string {
	scheme := "ws"
	if i.TLS {
		scheme = "wss"
	}
	path := i.Path
	if path == "" {
		path = DefaultPath
	}
	return fmt.Sprintf("%s://%s%s", scheme, net.JoinHostPort(i.IP, strconv.Itoa(i.Port)), path)
}

// GetMetadata retrieves a metadata value by key, or returns empty string if not found
func (i *Instance) GetMetadata(key string) string {
	if i.Metadata == nil {
		return ""
	}
	return i.Metadata[key]
}

// BuildTXT returns the TXT record for an advertised server.
func BuildTXT(version, path string, tls bool) []string {
	return []string{
		TXTVersion + "=" + version,
		TXTPath + "=" + path,
		TXTTLS + "=" + strconv.FormatBool(tls),
	}
}

// ParseTXT splits "key=value" TXT strings. A key without "=" maps to "".
func ParseTXT(txt []string) map[string]string {
	meta := make(map[string]string, len(txt))
	for _, t := range txt {
		key, value, _ := strings.Cut(t, "=")
		if key == "" {
			continue
		}
		meta[key] = value
	}
	return meta
}
