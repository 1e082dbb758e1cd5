package data

import (
	"context"
	"fmt"
	"net"

	"go-redirector/internal/biz"

	geoip2 "github.com/oschwald/geoip2-golang"
)

// Compile-time interface check
var _ biz.GeoLocator = (*geoIPProvider)(nil)

// geoIPProvider resolves addresses against a local MaxMind City database.
type geoIPProvider struct {
	db *geoip2.Reader
}

// newGeoIPProvider opens the City database at dbPath.
func newGeoIPProvider(dbPath string) (*geoIPProvider, error) {
	db, err := geoip2.Open(dbPath)
	if err != nil {
		return nil, err
	}
	return &geoIPProvider{db: db}, nil
}

func (p *geoIPProvider) Lookup(_ context.Context, ipStr string) (*biz.GeoInfo, error) {
	ip := net.ParseIP(ipStr)
	if ip == nil {
		return nil, fmt.Errorf("invalid ip address %q", ipStr)
	}

	record, err := p.db.City(ip)
	if err != nil {
		return nil, err
	}
	if record.Country.IsoCode == "" {
		return nil, fmt.Errorf("no geoip record for %s", ipStr)
	}

	info := &biz.GeoInfo{
		City:      record.City.Names["en"],
		Country:   record.Country.IsoCode,
		Latitude:  record.Location.Latitude,
		Longitude: record.Location.Longitude,
	}
	if len(record.Subdivisions) > 0 {
		info.Region = record.Subdivisions[0].IsoCode
	}
	return info, nil
}

func (p *geoIPProvider) Close() error {
	return p.db.Close()
}
