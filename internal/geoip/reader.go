package geoip

import (
	"net"

	"github.com/oschwald/geoip2-golang"
)

// Provider wraps the GeoIP2 database reader to provide country lookup functionality.
type Provider struct {
	db *geoip2.Reader
}

// Open initializes the GeoIP database reader from a specific file path.
func Open(path string) (*Provider, error) {
	db, err := geoip2.Open(path)
	if err != nil {
		return nil, err
	}

	return &Provider{db: db}, nil
}

// Close closes the underlying GeoIP database reader.
func (p *Provider) Close() error {
	if p == nil {
		return nil
	}

	return p.db.Close()
}

// CountryCode returns the ISO country code of a datagram source given as IP or host:port.
// It returns an empty string on a nil Provider, for invalid input and for unknown addresses.
func (p *Provider) CountryCode(addr string) string {
	if p == nil {
		return ""
	}

	ip := ParseHost(addr)
	if ip == nil {
		return ""
	}

	record, err := p.db.Country(ip)
	if err != nil {
		return ""
	}

	return record.Country.IsoCode
}

// ParseHost extracts the IP of an "ip", "ip:port" or "[ipv6]:port" address.
func ParseHost(addr string) net.IP {
	if host, _, err := net.SplitHostPort(addr); err == nil {
		addr = host
	}

	return net.ParseIP(addr)
}
