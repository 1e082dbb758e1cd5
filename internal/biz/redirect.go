package biz

//go:generate mockery --name=MappingRepo --output=../mocks --outpkg=mocks --with-expecter
//go:generate mockery --name=ClickRepo --output=../mocks --outpkg=mocks --with-expecter
//go:generate mockery --name=GeoLocator --output=../mocks --outpkg=mocks --with-expecter
//go:generate mockery --name=StoreScope --output=../mocks --outpkg=mocks --with-expecter

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go-redirector/internal/conf"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/samber/lo"
)

// Mapping is a registered short url. The engine only reads it.
type Mapping struct {
	ID       int64
	Token    string
	Domain   string
	LongURL  string
	ShortURL string
}

// Click is one analytics row, written once per resolved redirect.
type Click struct {
	MappingID int64
	ClickedAt time.Time
	Referrer  *string
	City      *string
	Region    *string
	Country   *string
	Latitude  *float64
	Longitude *float64
}

// GeoInfo is the approximate location of a caller.
type GeoInfo struct {
	City      string  `json:"city"`
	Region    string  `json:"region"`
	Country   string  `json:"country"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// RequestInfo is the slice of an inbound request the engine looks at.
// RemoteIP must be the connection peer address, never a forwarded header.
type RequestInfo struct {
	RemoteIP string
	Query    url.Values
	Header   http.Header
}

// MappingRepo looks up mappings by (token, domain).
type MappingRepo interface {
	// FindMapping returns ErrMappingNotFound when no row matches.
	FindMapping(ctx context.Context, token, domain string) (*Mapping, error)
}

// ClickRepo appends click rows. Rows are never updated or deleted.
type ClickRepo interface {
	RecordClick(ctx context.Context, click *Click) error
}

// GeoLocator resolves an IP address to a location.
type GeoLocator interface {
	Lookup(ctx context.Context, ip string) (*GeoInfo, error)
}

// StoreScope holds one store connection for the duration of fn and releases
// it on every exit path.
type StoreScope interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

type OutcomeKind int

const (
	// OutcomeLanding means no token was given; the caller renders its landing page.
	OutcomeLanding OutcomeKind = iota
	OutcomeRedirect
	OutcomeUnauthorized
	OutcomeNotFound
	OutcomeError
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeLanding:
		return "landing"
	case OutcomeRedirect:
		return "redirect"
	case OutcomeUnauthorized:
		return "unauthorized"
	case OutcomeNotFound:
		return "not_found"
	case OutcomeError:
		return "error"
	default:
		return "unknown"
	}
}

// Outcome is what the transport should answer with.
type Outcome struct {
	Kind     OutcomeKind
	Status   int
	Location string
}

// RedirectUsecase resolves tokens to redirects and captures a click per redirect.
// It holds no per-request state and is safe for concurrent use.
type RedirectUsecase struct {
	mappings MappingRepo
	clicks   ClickRepo
	geo      GeoLocator
	scope    StoreScope
	blocked  BlockList
	domain   string
	fallback *url.URL
	now      func() time.Time
	log      *log.Helper
}

// NewRedirectUsecase creates a RedirectUsecase.
func NewRedirectUsecase(
	c *conf.Redirect,
	blocked BlockList,
	mappings MappingRepo,
	clicks ClickRepo,
	geo GeoLocator,
	scope StoreScope,
	logger log.Logger,
) (*RedirectUsecase, error) {
	fallback, err := url.Parse(c.MarketingUrl)
	if err != nil || !fallback.IsAbs() {
		return nil, fmt.Errorf("invalid marketing url %q", c.MarketingUrl)
	}
	return &RedirectUsecase{
		mappings: mappings,
		clicks:   clicks,
		geo:      geo,
		scope:    scope,
		blocked:  blocked,
		domain:   c.Domain,
		fallback: fallback,
		now:      time.Now,
		log:      log.NewHelper(logger),
	}, nil
}

// Resolve decides the answer for token. It never returns an error: every
// failure is folded into an Outcome.
func (uc *RedirectUsecase) Resolve(ctx context.Context, token string, req RequestInfo) (out Outcome) {
	defer func() {
		if p := recover(); p != nil {
			uc.log.WithContext(ctx).Errorf("Error with token %s: panic: %v", token, p)
			out = uc.errorOutcome(token)
		}
		redirectOutcomes.WithLabelValues(out.Kind.String()).Inc()
	}()

	if token == "" {
		return Outcome{Kind: OutcomeLanding, Status: http.StatusOK}
	}
	if uc.blocked.Contains(token) {
		return Outcome{Kind: OutcomeUnauthorized, Status: http.StatusUnauthorized}
	}

	// Lookup and insert each get their own scope; no connection is held across the geo call.
	var mapping *Mapping
	err := uc.scope.Do(ctx, func(ctx context.Context) error {
		var err error
		mapping, err = uc.mappings.FindMapping(ctx, token, uc.domain)
		return err
	})

	var click *Click
	if err == nil {
		click = newClick(mapping.ID, uc.now(), ResolveReferrer(req), uc.lookupGeo(ctx, req.RemoteIP))
		if err := uc.scope.Do(ctx, func(ctx context.Context) error {
			return uc.clicks.RecordClick(ctx, click)
		}); err != nil {
			uc.degrade(ctx, &DegradedError{Stage: StageClick, Err: err})
		}
	}

	switch {
	case err == nil:
		uc.log.WithContext(ctx).Infof("Redirected %s to %s. Referred by %s",
			mapping.ShortURL, mapping.LongURL, lo.FromPtrOr(click.Referrer, "Unknown"))
		return Outcome{Kind: OutcomeRedirect, Status: http.StatusFound, Location: mapping.LongURL}
	case errors.Is(err, ErrMappingNotFound):
		return Outcome{
			Kind:     OutcomeNotFound,
			Status:   http.StatusFound,
			Location: uc.fallbackURL(fmt.Sprintf("The token %s no longer exists.", token)),
		}
	default:
		uc.log.WithContext(ctx).Errorf("Error with token %s: %v", token, err)
		return uc.errorOutcome(token)
	}
}

func (uc *RedirectUsecase) errorOutcome(token string) Outcome {
	return Outcome{
		Kind:   OutcomeError,
		Status: http.StatusFound,
		Location: uc.fallbackURL(fmt.Sprintf(
			"Error: Sorry, there was an error with %s. Sign up here to create your own short urls and more!", token)),
	}
}

// fallbackURL sets the Message query parameter on the marketing url, keeping any query it already has.
func (uc *RedirectUsecase) fallbackURL(message string) string {
	u := *uc.fallback
	q := u.Query()
	q.Set("Message", message)
	u.RawQuery = q.Encode()
	return u.String()
}

// lookupGeo isolates the geo call: any failure, including a panic, yields nil.
func (uc *RedirectUsecase) lookupGeo(ctx context.Context, ip string) (info *GeoInfo) {
	defer func() {
		if p := recover(); p != nil {
			uc.degrade(ctx, &DegradedError{Stage: StageGeo, Err: fmt.Errorf("panic: %v", p)})
			info = nil
		}
	}()

	start := time.Now()
	info, err := uc.geo.Lookup(ctx, ip)
	geoLookupDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		uc.degrade(ctx, &DegradedError{Stage: StageGeo, Err: err})
		return nil
	}
	return info
}

func (uc *RedirectUsecase) degrade(ctx context.Context, err *DegradedError) {
	degradedStages.WithLabelValues(string(err.Stage)).Inc()
	uc.log.WithContext(ctx).Warnf("%v", err)
}

func newClick(mappingID int64, at time.Time, referrer *string, geo *GeoInfo) *Click {
	click := &Click{
		MappingID: mappingID,
		ClickedAt: at,
		Referrer:  referrer,
	}
	if geo == nil {
		return click
	}
	click.City = lo.EmptyableToPtr(geo.City)
	click.Region = lo.EmptyableToPtr(geo.Region)
	click.Country = lo.EmptyableToPtr(geo.Country)
	click.Latitude = lo.ToPtr(geo.Latitude)
	click.Longitude = lo.ToPtr(geo.Longitude)
	return click
}
