package service

import (
	"context"
	"fmt"
	"net"
	nethttp "net/http"

	"go-redirector/internal/biz"

	"github.com/go-kratos/kratos/v2/middleware/logging"
	"github.com/go-kratos/kratos/v2/transport/http"
)

const (
	OperationRedirect = "/redirector.v1.Redirector/Redirect"
	OperationLanding  = "/redirector.v1.Redirector/Landing"
)

const landingPage = `<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>Short links</title></head>
<body><h1>Short links</h1><p>Follow a short link to reach its destination.</p></body>
</html>
`

// Resolver is the part of the engine the HTTP surface needs.
type Resolver interface {
	Resolve(ctx context.Context, token string, req biz.RequestInfo) biz.Outcome
}

type RedirectService struct {
	uc Resolver
}

func NewRedirectService(uc *biz.RedirectUsecase) *RedirectService {
	return &RedirectService{uc: uc}
}

// Redirect handles GET /{token}.
func (s *RedirectService) Redirect(ctx http.Context) error {
	return s.resolve(ctx, OperationRedirect, ctx.Vars().Get("token"))
}

// Landing handles GET /.
func (s *RedirectService) Landing(ctx http.Context) error {
	return s.resolve(ctx, OperationLanding, "")
}

// Healthz reports liveness only; it touches neither the store nor the geo provider.
func (s *RedirectService) Healthz(ctx http.Context) error {
	return ctx.String(nethttp.StatusOK, "ok")
}

func (s *RedirectService) resolve(ctx http.Context, operation, token string) error {
	http.SetOperation(ctx, operation)
	req := ctx.Request()
	info := biz.RequestInfo{
		RemoteIP: peerIP(req),
		Query:    req.URL.Query(),
		Header:   req.Header,
	}

	in := &redirectRequest{Token: token, RemoteIP: info.RemoteIP}
	h := ctx.Middleware(func(ctx context.Context, _ interface{}) (interface{}, error) {
		in.Outcome = s.uc.Resolve(ctx, token, info)
		return in.Outcome, nil
	})
	reply, err := h(ctx, in)
	if err != nil {
		return err
	}
	return writeOutcome(ctx, reply.(biz.Outcome))
}

var _ logging.Redacter = (*redirectRequest)(nil)

// redirectRequest is what the logging middleware sees of a resolution.
// Headers and query are left out: they carry cookies and credentials.
type redirectRequest struct {
	Token    string
	RemoteIP string
	Outcome  biz.Outcome
}

// Redact implements logging.Redacter.
func (r *redirectRequest) Redact() string {
	return fmt.Sprintf("token=%q peer=%s outcome=%s status=%d", r.Token, r.RemoteIP, r.Outcome.Kind, r.Outcome.Status)
}

func writeOutcome(ctx http.Context, out biz.Outcome) error {
	w := ctx.Response()
	w.Header().Set("Cache-Control", "no-store")

	switch out.Kind {
	case biz.OutcomeLanding:
		return ctx.Blob(nethttp.StatusOK, "text/html; charset=utf-8", []byte(landingPage))
	case biz.OutcomeUnauthorized:
		return biz.ErrTokenBlocked
	default:
		nethttp.Redirect(w, ctx.Request(), out.Location, nethttp.StatusFound)
		return nil
	}
}

// peerIP is the transport peer. Forwarding headers are ignored.
func peerIP(r *nethttp.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
