package biz_test

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"go-redirector/internal/biz"
	"go-redirector/internal/conf"
	"go-redirector/internal/mocks"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	testDomain    = "short.test"
	testMarketing = "https://marketing.test/signup"
)

type fixture struct {
	mappings *mocks.MappingRepo
	clicks   *mocks.ClickRepo
	geo      *mocks.GeoLocator
	scope    *mocks.StoreScope
	uc       *biz.RedirectUsecase
}

// setupScopeMock configures StoreScope mock to run fn directly
func setupScopeMock(scope *mocks.StoreScope) {
	scope.EXPECT().
		Do(mock.Anything, mock.Anything).
		RunAndReturn(func(ctx context.Context, fn func(context.Context) error) error {
			return fn(ctx)
		}).
		Maybe()
}

func newFixture(t *testing.T, blockedPaths string) *fixture {
	t.Helper()

	f := &fixture{
		mappings: mocks.NewMappingRepo(t),
		clicks:   mocks.NewClickRepo(t),
		geo:      mocks.NewGeoLocator(t),
		scope:    mocks.NewStoreScope(t),
	}
	setupScopeMock(f.scope)

	c := &conf.Redirect{
		Domain:       testDomain,
		BlockedPaths: blockedPaths,
		MarketingUrl: testMarketing,
	}
	uc, err := biz.NewRedirectUsecase(c, biz.NewBlockList(c), f.mappings, f.clicks, f.geo, f.scope, log.DefaultLogger)
	require.NoError(t, err)
	f.uc = uc
	return f
}

func abc123() *biz.Mapping {
	return &biz.Mapping{
		ID:       42,
		Token:    "abc123",
		Domain:   testDomain,
		LongURL:  "https://example.com/page",
		ShortURL: "https://short.test/abc123",
	}
}

func request(query url.Values, header http.Header) biz.RequestInfo {
	return biz.RequestInfo{RemoteIP: "203.0.113.7", Query: query, Header: header}
}

func messageOf(t *testing.T, location string) string {
	t.Helper()
	u, err := url.Parse(location)
	require.NoError(t, err)
	assert.Equal(t, "marketing.test", u.Host)
	assert.Equal(t, "/signup", u.Path)
	return u.Query().Get("Message")
}

func TestNewRedirectUsecase_InvalidMarketingURL(t *testing.T) {
	c := &conf.Redirect{Domain: testDomain, MarketingUrl: "not a url"}

	uc, err := biz.NewRedirectUsecase(c, biz.NewBlockList(c), nil, nil, nil, nil, log.DefaultLogger)

	require.Error(t, err)
	assert.Nil(t, uc)
}

func TestResolve_EmptyToken_ReturnsLanding(t *testing.T) {
	f := newFixture(t, "")

	out := f.uc.Resolve(context.Background(), "", request(nil, nil))

	assert.Equal(t, biz.OutcomeLanding, out.Kind)
	assert.Equal(t, http.StatusOK, out.Status)
	assert.Empty(t, out.Location)
	f.scope.AssertNotCalled(t, "Do", mock.Anything, mock.Anything)
}

func TestResolve_BlockedToken_ReturnsUnauthorized(t *testing.T) {
	f := newFixture(t, "admin;wp-login.php;.env")

	for _, token := range []string{"admin", "wp-login.php", ".env"} {
		out := f.uc.Resolve(context.Background(), token, request(nil, nil))

		assert.Equal(t, biz.OutcomeUnauthorized, out.Kind, token)
		assert.Equal(t, http.StatusUnauthorized, out.Status, token)
		assert.Empty(t, out.Location, token)
	}

	f.scope.AssertNotCalled(t, "Do", mock.Anything, mock.Anything)
	f.mappings.AssertNotCalled(t, "FindMapping", mock.Anything, mock.Anything, mock.Anything)
	f.clicks.AssertNotCalled(t, "RecordClick", mock.Anything, mock.Anything)
}

func TestResolve_BlockListIsCaseSensitive(t *testing.T) {
	f := newFixture(t, "admin")

	f.mappings.EXPECT().FindMapping(mock.Anything, "Admin", testDomain).Return(nil, biz.ErrMappingNotFound)

	out := f.uc.Resolve(context.Background(), "Admin", request(nil, nil))

	assert.Equal(t, biz.OutcomeNotFound, out.Kind)
}

func TestResolve_UnknownToken_RedirectsToNotFoundMessage(t *testing.T) {
	f := newFixture(t, "")

	f.mappings.EXPECT().FindMapping(mock.Anything, "gone42", testDomain).Return(nil, biz.ErrMappingNotFound)

	out := f.uc.Resolve(context.Background(), "gone42", request(nil, nil))

	assert.Equal(t, biz.OutcomeNotFound, out.Kind)
	assert.Equal(t, http.StatusFound, out.Status)
	assert.Equal(t, "The token gone42 no longer exists.", messageOf(t, out.Location))
	f.clicks.AssertNotCalled(t, "RecordClick", mock.Anything, mock.Anything)
	f.geo.AssertNotCalled(t, "Lookup", mock.Anything, mock.Anything)
}

func TestResolve_KnownToken_RedirectsAndRecordsOneClick(t *testing.T) {
	f := newFixture(t, "")
	mapping := abc123()

	var recorded []*biz.Click
	f.mappings.EXPECT().FindMapping(mock.Anything, "abc123", testDomain).Return(mapping, nil)
	f.geo.EXPECT().Lookup(mock.Anything, "203.0.113.7").Return(&biz.GeoInfo{
		City:      "Ashburn",
		Region:    "VA",
		Country:   "US",
		Latitude:  39.0438,
		Longitude: -77.4874,
	}, nil)
	f.clicks.EXPECT().RecordClick(mock.Anything, mock.Anything).
		Run(func(_ context.Context, click *biz.Click) {
			recorded = append(recorded, click)
		}).
		Return(nil).
		Once()

	before := time.Now()
	out := f.uc.Resolve(context.Background(), "abc123", request(nil, http.Header{"Referer": {"https://news.example/item"}}))

	assert.Equal(t, biz.OutcomeRedirect, out.Kind)
	assert.Equal(t, http.StatusFound, out.Status)
	assert.Equal(t, "https://example.com/page", out.Location)

	require.Len(t, recorded, 1)
	click := recorded[0]
	assert.Equal(t, int64(42), click.MappingID)
	assert.WithinDuration(t, before, click.ClickedAt, time.Second)
	require.NotNil(t, click.Referrer)
	assert.Equal(t, "https://news.example/item", *click.Referrer)
	require.NotNil(t, click.City)
	assert.Equal(t, "Ashburn", *click.City)
	assert.Equal(t, "VA", *click.Region)
	assert.Equal(t, "US", *click.Country)
	assert.InDelta(t, 39.0438, *click.Latitude, 1e-9)
	assert.InDelta(t, -77.4874, *click.Longitude, 1e-9)
}

func TestResolve_GeoUnavailable_StillRedirectsWithNullGeo(t *testing.T) {
	// abc123 on short.test, no blocklist, no referrer, geo service down.
	f := newFixture(t, "")

	var recorded *biz.Click
	f.mappings.EXPECT().FindMapping(mock.Anything, "abc123", testDomain).Return(abc123(), nil)
	f.geo.EXPECT().Lookup(mock.Anything, mock.Anything).Return(nil, errors.New("dial tcp: connection refused"))
	f.clicks.EXPECT().RecordClick(mock.Anything, mock.Anything).
		Run(func(_ context.Context, click *biz.Click) { recorded = click }).
		Return(nil).
		Once()

	out := f.uc.Resolve(context.Background(), "abc123", request(nil, nil))

	assert.Equal(t, biz.OutcomeRedirect, out.Kind)
	assert.Equal(t, "https://example.com/page", out.Location)
	require.NotNil(t, recorded)
	assert.Equal(t, int64(42), recorded.MappingID)
	assert.Nil(t, recorded.Referrer)
	assert.Nil(t, recorded.City)
	assert.Nil(t, recorded.Region)
	assert.Nil(t, recorded.Country)
	assert.Nil(t, recorded.Latitude)
	assert.Nil(t, recorded.Longitude)
}

func TestResolve_GeoPanics_StillRedirects(t *testing.T) {
	f := newFixture(t, "")

	var recorded *biz.Click
	f.mappings.EXPECT().FindMapping(mock.Anything, "abc123", testDomain).Return(abc123(), nil)
	f.geo.EXPECT().Lookup(mock.Anything, mock.Anything).
		RunAndReturn(func(context.Context, string) (*biz.GeoInfo, error) {
			panic("malformed response")
		})
	f.clicks.EXPECT().RecordClick(mock.Anything, mock.Anything).
		Run(func(_ context.Context, click *biz.Click) { recorded = click }).
		Return(nil)

	out := f.uc.Resolve(context.Background(), "abc123", request(nil, nil))

	assert.Equal(t, biz.OutcomeRedirect, out.Kind)
	require.NotNil(t, recorded)
	assert.Nil(t, recorded.Country)
}

func TestResolve_ClickInsertFails_StillRedirects(t *testing.T) {
	f := newFixture(t, "")

	f.mappings.EXPECT().FindMapping(mock.Anything, "abc123", testDomain).Return(abc123(), nil)
	f.geo.EXPECT().Lookup(mock.Anything, mock.Anything).Return(nil, errors.New("rate limited"))
	f.clicks.EXPECT().RecordClick(mock.Anything, mock.Anything).Return(errors.New("insert failed"))

	out := f.uc.Resolve(context.Background(), "abc123", request(nil, nil))

	assert.Equal(t, biz.OutcomeRedirect, out.Kind)
	assert.Equal(t, "https://example.com/page", out.Location)
}

func TestResolve_StoreFailure_RedirectsToErrorMessage(t *testing.T) {
	f := newFixture(t, "")

	f.mappings.EXPECT().FindMapping(mock.Anything, "abc123", testDomain).
		Return(nil, errors.New("pq: connection refused"))

	out := f.uc.Resolve(context.Background(), "abc123", request(nil, nil))

	assert.Equal(t, biz.OutcomeError, out.Kind)
	assert.Equal(t, http.StatusFound, out.Status)
	msg := messageOf(t, out.Location)
	assert.True(t, strings.HasPrefix(msg, "Error: Sorry, there was an error with abc123."))
	assert.NotContains(t, msg, "pq:")
	f.clicks.AssertNotCalled(t, "RecordClick", mock.Anything, mock.Anything)
}

func TestResolve_ScopeAcquireFails_RedirectsToErrorMessage(t *testing.T) {
	mappings := mocks.NewMappingRepo(t)
	clicks := mocks.NewClickRepo(t)
	geo := mocks.NewGeoLocator(t)
	scope := mocks.NewStoreScope(t)
	scope.EXPECT().Do(mock.Anything, mock.Anything).Return(errors.New("pool exhausted"))

	c := &conf.Redirect{Domain: testDomain, MarketingUrl: testMarketing}
	uc, err := biz.NewRedirectUsecase(c, biz.NewBlockList(c), mappings, clicks, geo, scope, log.DefaultLogger)
	require.NoError(t, err)

	out := uc.Resolve(context.Background(), "abc123", request(nil, nil))

	assert.Equal(t, biz.OutcomeError, out.Kind)
}

func TestResolve_StorePanics_RedirectsToErrorMessage(t *testing.T) {
	f := newFixture(t, "")

	f.mappings.EXPECT().FindMapping(mock.Anything, "abc123", testDomain).
		RunAndReturn(func(context.Context, string, string) (*biz.Mapping, error) {
			panic("unexpected column type")
		})

	out := f.uc.Resolve(context.Background(), "abc123", request(nil, nil))

	assert.Equal(t, biz.OutcomeError, out.Kind)
	assert.Contains(t, messageOf(t, out.Location), "abc123")
}

func TestResolve_ReferrerPrecedence(t *testing.T) {
	tests := []struct {
		name   string
		query  url.Values
		header http.Header
		want   *string
	}{
		{
			name:   "src wins over header",
			query:  url.Values{"src": {"https://campaign.example/mail"}},
			header: http.Header{"Referer": {"https://news.example/"}},
			want:   strPtr("https://campaign.example/mail"),
		},
		{
			name:   "header only",
			header: http.Header{"Referer": {"https://news.example/"}},
			want:   strPtr("https://news.example/"),
		},
		{
			name: "neither",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, "")

			var recorded *biz.Click
			f.mappings.EXPECT().FindMapping(mock.Anything, "abc123", testDomain).Return(abc123(), nil)
			f.geo.EXPECT().Lookup(mock.Anything, mock.Anything).Return(nil, errors.New("down"))
			f.clicks.EXPECT().RecordClick(mock.Anything, mock.Anything).
				Run(func(_ context.Context, click *biz.Click) { recorded = click }).
				Return(nil)

			f.uc.Resolve(context.Background(), "abc123", request(tt.query, tt.header))

			require.NotNil(t, recorded)
			assert.Equal(t, tt.want, recorded.Referrer)
		})
	}
}

func TestResolve_LongReferrerIsTruncated(t *testing.T) {
	f := newFixture(t, "")

	var recorded *biz.Click
	f.mappings.EXPECT().FindMapping(mock.Anything, "abc123", testDomain).Return(abc123(), nil)
	f.geo.EXPECT().Lookup(mock.Anything, mock.Anything).Return(nil, errors.New("down"))
	f.clicks.EXPECT().RecordClick(mock.Anything, mock.Anything).
		Run(func(_ context.Context, click *biz.Click) { recorded = click }).
		Return(nil)

	long := "https://news.example/" + strings.Repeat("a", 900)
	out := f.uc.Resolve(context.Background(), "abc123", request(nil, http.Header{"Referer": {long}}))

	assert.Equal(t, biz.OutcomeRedirect, out.Kind)
	require.NotNil(t, recorded.Referrer)
	assert.Len(t, *recorded.Referrer, biz.MaxReferrerLength)
	assert.Equal(t, long[:biz.MaxReferrerLength], *recorded.Referrer)
}

func TestResolve_SameTokenTwice_RecordsTwoClicks(t *testing.T) {
	f := newFixture(t, "")
	mapping := abc123()

	var recorded []*biz.Click
	f.mappings.EXPECT().FindMapping(mock.Anything, "abc123", testDomain).Return(mapping, nil).Times(2)
	f.geo.EXPECT().Lookup(mock.Anything, mock.Anything).Return(nil, errors.New("down")).Times(2)
	f.clicks.EXPECT().RecordClick(mock.Anything, mock.Anything).
		Run(func(_ context.Context, click *biz.Click) { recorded = append(recorded, click) }).
		Return(nil).
		Times(2)

	first := f.uc.Resolve(context.Background(), "abc123", request(nil, nil))
	second := f.uc.Resolve(context.Background(), "abc123", request(nil, nil))

	assert.Equal(t, first, second)
	require.Len(t, recorded, 2)
	assert.NotSame(t, recorded[0], recorded[1])
	assert.Equal(t, "https://example.com/page", mapping.LongURL)
}

func TestResolve_MarketingURLKeepsExistingQuery(t *testing.T) {
	mappings := mocks.NewMappingRepo(t)
	scope := mocks.NewStoreScope(t)
	setupScopeMock(scope)
	mappings.EXPECT().FindMapping(mock.Anything, "x1", testDomain).Return(nil, biz.ErrMappingNotFound)

	c := &conf.Redirect{Domain: testDomain, MarketingUrl: "https://marketing.test/?utm_source=redirector"}
	uc, err := biz.NewRedirectUsecase(c, biz.NewBlockList(c), mappings, mocks.NewClickRepo(t), mocks.NewGeoLocator(t), scope, log.DefaultLogger)
	require.NoError(t, err)

	out := uc.Resolve(context.Background(), "x1", request(nil, nil))

	u, err := url.Parse(out.Location)
	require.NoError(t, err)
	assert.Equal(t, "redirector", u.Query().Get("utm_source"))
	assert.Equal(t, "The token x1 no longer exists.", u.Query().Get("Message"))
}

func TestIsDegraded(t *testing.T) {
	err := &biz.DegradedError{Stage: biz.StageGeo, Err: context.DeadlineExceeded}

	assert.True(t, biz.IsDegraded(err))
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.False(t, biz.IsDegraded(biz.ErrMappingNotFound))
	assert.Equal(t, "geo degraded: context deadline exceeded", err.Error())
}

func strPtr(s string) *string {
	return &s
}

func TestResolve_ClickScopeFails_StillRedirects(t *testing.T) {
	mappings := mocks.NewMappingRepo(t)
	geo := mocks.NewGeoLocator(t)
	scope := mocks.NewStoreScope(t)
	scope.EXPECT().Do(mock.Anything, mock.Anything).
		RunAndReturn(func(ctx context.Context, fn func(context.Context) error) error {
			return fn(ctx)
		}).Once()
	scope.EXPECT().Do(mock.Anything, mock.Anything).Return(errors.New("pool exhausted")).Once()
	mappings.EXPECT().FindMapping(mock.Anything, "abc123", testDomain).Return(abc123(), nil)
	geo.EXPECT().Lookup(mock.Anything, mock.Anything).Return(nil, errors.New("down"))

	c := &conf.Redirect{Domain: testDomain, MarketingUrl: testMarketing}
	uc, err := biz.NewRedirectUsecase(c, biz.NewBlockList(c), mappings, mocks.NewClickRepo(t), geo, scope, log.DefaultLogger)
	require.NoError(t, err)

	out := uc.Resolve(context.Background(), "abc123", request(nil, nil))

	assert.Equal(t, biz.OutcomeRedirect, out.Kind)
	assert.Equal(t, "https://example.com/page", out.Location)
}

func TestResolve_GeoRunsOutsideStoreScope(t *testing.T) {
	f := newFixture(t, "")
	inScope := false
	f.scope.ExpectedCalls = nil
	f.scope.EXPECT().Do(mock.Anything, mock.Anything).
		RunAndReturn(func(ctx context.Context, fn func(context.Context) error) error {
			inScope = true
			defer func() { inScope = false }()
			return fn(ctx)
		}).Times(2)
	f.mappings.EXPECT().FindMapping(mock.Anything, "abc123", testDomain).Return(abc123(), nil)
	f.geo.EXPECT().Lookup(mock.Anything, mock.Anything).
		RunAndReturn(func(context.Context, string) (*biz.GeoInfo, error) {
			assert.False(t, inScope, "geo lookup ran while a store connection was held")
			return nil, errors.New("down")
		})
	f.clicks.EXPECT().RecordClick(mock.Anything, mock.Anything).
		RunAndReturn(func(context.Context, *biz.Click) error {
			assert.True(t, inScope)
			return nil
		})

	out := f.uc.Resolve(context.Background(), "abc123", request(nil, nil))

	assert.Equal(t, biz.OutcomeRedirect, out.Kind)
}
