package data

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"go-redirector/internal/biz"
	"go-redirector/internal/conf"

	"github.com/go-kratos/kratos/v2/log"
)

const defaultGeoTimeout = 2 * time.Second

var (
	ErrGeoDisabled    = errors.New("geo lookup disabled")
	ErrNonPublicAddr  = errors.New("address is not publicly routable")
	ErrInvalidAddress = errors.New("invalid ip address")
)

// Compile-time interface check
var _ biz.GeoLocator = (*geoLocator)(nil)

// geoLocator fronts a provider with address checks, a cache and a hard timeout.
type geoLocator struct {
	provider biz.GeoLocator
	cache    GeoCache
	timeout  time.Duration
	debugIP  string
	log      *log.Helper
}

// NewGeoLocator builds the configured geo provider.
func NewGeoLocator(c *conf.Geo, data *Data, logger log.Logger) (biz.GeoLocator, func(), error) {
	helper := log.NewHelper(logger)

	timeout := c.Timeout.AsDuration()
	if timeout <= 0 {
		timeout = defaultGeoTimeout
	}

	var provider biz.GeoLocator
	switch c.Provider {
	case "ipstack":
		p, err := newIPStackProvider(c.Endpoint, c.IpstackApiKey, timeout)
		if err != nil {
			return nil, nil, err
		}
		provider = p
	case "geoip":
		p, err := newGeoIPProvider(c.DatabasePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open geoip database %s: %w", c.DatabasePath, err)
		}
		provider = p
	case "", "none":
		provider = disabledGeo{}
	default:
		return nil, nil, fmt.Errorf("unknown geo provider %q", c.Provider)
	}

	if c.DebugIp != "" {
		helper.Warnf("geo lookups use debug ip %s instead of the caller address", c.DebugIp)
	}

	cleanup := func() {
		if closer, ok := provider.(io.Closer); ok {
			if err := closer.Close(); err != nil {
				helper.Error(err)
			}
		}
	}

	return newGeoLocator(provider, NewRedisGeoCache(data.rdb, c.CacheTtl.AsDuration(), logger), timeout, c.DebugIp, logger), cleanup, nil
}

func newGeoLocator(provider biz.GeoLocator, cache GeoCache, timeout time.Duration, debugIP string, logger log.Logger) *geoLocator {
	return &geoLocator{
		provider: provider,
		cache:    cache,
		timeout:  timeout,
		debugIP:  debugIP,
		log:      log.NewHelper(logger),
	}
}

// Lookup never panics and never outlives its timeout.
func (g *geoLocator) Lookup(ctx context.Context, ip string) (info *biz.GeoInfo, err error) {
	defer func() {
		if p := recover(); p != nil {
			info, err = nil, fmt.Errorf("geo provider panic: %v", p)
		}
	}()

	if g.debugIP != "" {
		ip = g.debugIP
	}

	addr := net.ParseIP(ip)
	if addr == nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAddress, ip)
	}
	if !isPublic(addr) {
		return nil, fmt.Errorf("%w: %s", ErrNonPublicAddr, ip)
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	if cached, _ := g.cache.Get(ctx, ip); cached != nil {
		return cached, nil
	}

	info, err = g.provider.Lookup(ctx, ip)
	if err != nil {
		return nil, err
	}
	if info == nil {
		return nil, fmt.Errorf("geo provider returned no data for %s", ip)
	}

	_ = g.cache.Set(ctx, ip, info)
	return info, nil
}

func isPublic(ip net.IP) bool {
	return !(ip.IsPrivate() ||
		ip.IsLoopback() ||
		ip.IsUnspecified() ||
		ip.IsLinkLocalUnicast() ||
		ip.IsLinkLocalMulticast() ||
		ip.IsMulticast())
}

type disabledGeo struct{}

func (disabledGeo) Lookup(context.Context, string) (*biz.GeoInfo, error) {
	return nil, ErrGeoDisabled
}
