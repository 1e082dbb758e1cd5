package biz

import (
	stderrors "errors"
	"fmt"

	"github.com/go-kratos/kratos/v2/errors"
)

const (
	ReasonTokenBlocked    = "TOKEN_BLOCKED"
	ReasonMappingNotFound = "MAPPING_NOT_FOUND"
)

// Outcome-determining errors. Anything else reaching the engine boundary is
// treated as an internal error.
var (
	ErrTokenBlocked    = errors.Unauthorized(ReasonTokenBlocked, "token is blocked")
	ErrMappingNotFound = errors.NotFound(ReasonMappingNotFound, "short url mapping not found")
)

// Stage names a best-effort step of a resolution.
type Stage string

const (
	StageGeo   Stage = "geo"
	StageClick Stage = "click"
)

// DegradedError is a failure of a best-effort step. It is logged and counted
// but never changes the outcome of a resolution.
type DegradedError struct {
	Stage Stage
	Err   error
}

func (e *DegradedError) Error() string {
	return fmt.Sprintf("%s degraded: %v", e.Stage, e.Err)
}

func (e *DegradedError) Unwrap() error {
	return e.Err
}

// IsDegraded reports whether err is a cosmetic failure.
func IsDegraded(err error) bool {
	var d *DegradedError
	return stderrors.As(err, &d)
}
