package biz

import (
	"net/url"
	"strings"
	"unicode/utf8"
)

// MaxReferrerLength bounds the stored referrer. Longer values are clipped.
const MaxReferrerLength = 500

// referrerCandidate yields a referrer from one source, or "" if that source has nothing usable.
type referrerCandidate func(RequestInfo) string

var referrerCandidates = []referrerCandidate{
	srcQueryReferrer,
	rawRefererHeader,
	parsedRefererHeader,
}

// ResolveReferrer returns the first non-blank referrer from the candidate
// sources, clipped to MaxReferrerLength, or nil when no source yields one.
func ResolveReferrer(req RequestInfo) *string {
	for _, candidate := range referrerCandidates {
		v := candidate.try(req)
		if strings.TrimSpace(v) == "" {
			continue
		}
		v = truncateRunes(v, MaxReferrerLength)
		return &v
	}
	return nil
}

// try runs the candidate, treating a panic as "nothing usable".
func (c referrerCandidate) try(req RequestInfo) (v string) {
	defer func() {
		if recover() != nil {
			v = ""
		}
	}()
	return c(req)
}

// srcQueryReferrer accepts the src query parameter only when it is an absolute http(s) URL.
func srcQueryReferrer(req RequestInfo) string {
	src := strings.TrimSpace(req.Query.Get("src"))
	if src == "" {
		return ""
	}
	u, err := url.Parse(src)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return ""
	}
	if scheme := strings.ToLower(u.Scheme); scheme != "http" && scheme != "https" {
		return ""
	}
	return src
}

func rawRefererHeader(req RequestInfo) string {
	return req.Header.Get("Referer")
}

// parsedRefererHeader returns the normalized form of the first Referer value
// that parses as an absolute URI.
func parsedRefererHeader(req RequestInfo) string {
	for _, v := range req.Header.Values("Referer") {
		u, err := url.Parse(strings.TrimSpace(v))
		if err != nil || !u.IsAbs() {
			continue
		}
		return u.String()
	}
	return ""
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
