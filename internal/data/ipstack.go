package data

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"go-redirector/internal/biz"

	"github.com/go-kratos/kratos/v2/transport/http"
)

const defaultIPStackEndpoint = "http://api.ipstack.com"

// Compile-time interface check
var _ biz.GeoLocator = (*ipstackProvider)(nil)

// ipstackProvider resolves addresses with the ipstack.com standard lookup API.
type ipstackProvider struct {
	client *http.Client
	apiKey string
}

// ipstackReply covers both the success body and the error body, which ipstack
// sends with a 200 status.
type ipstackReply struct {
	Success *bool `json:"success"`
	Error   *struct {
		Code int    `json:"code"`
		Type string `json:"type"`
		Info string `json:"info"`
	} `json:"error"`
	City        string   `json:"city"`
	RegionCode  string   `json:"region_code"`
	CountryCode string   `json:"country_code"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
}

func newIPStackProvider(endpoint, apiKey string, timeout time.Duration) (*ipstackProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("ipstack api key is not configured")
	}
	if endpoint == "" {
		endpoint = defaultIPStackEndpoint
	}

	client, err := http.NewClient(context.Background(),
		http.WithEndpoint(endpoint),
		http.WithTimeout(timeout),
	)
	if err != nil {
		return nil, fmt.Errorf("create ipstack client: %w", err)
	}
	return &ipstackProvider{client: client, apiKey: apiKey}, nil
}

// Lookup queries ipstack for ip.
func (p *ipstackProvider) Lookup(ctx context.Context, ip string) (*biz.GeoInfo, error) {
	path := "/" + url.PathEscape(ip) + "?" + url.Values{"access_key": {p.apiKey}}.Encode()

	var reply ipstackReply
	if err := p.client.Invoke(ctx, "GET", path, nil, &reply); err != nil {
		// *url.Error carries the request URL, access key included.
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		return nil, fmt.Errorf("ipstack request: %w", err)
	}
	if reply.Error != nil {
		return nil, fmt.Errorf("ipstack error %d (%s): %s", reply.Error.Code, reply.Error.Type, reply.Error.Info)
	}
	if reply.Success != nil && !*reply.Success {
		return nil, fmt.Errorf("ipstack lookup unsuccessful")
	}
	if reply.Latitude == nil || reply.Longitude == nil {
		return nil, fmt.Errorf("ipstack has no location for %s", ip)
	}

	return &biz.GeoInfo{
		City:      reply.City,
		Region:    reply.RegionCode,
		Country:   reply.CountryCode,
		Latitude:  *reply.Latitude,
		Longitude: *reply.Longitude,
	}, nil
}

func (p *ipstackProvider) Close() error {
	return p.client.Close()
}
