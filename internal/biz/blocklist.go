package biz

import (
	"strings"

	"go-redirector/internal/conf"

	"github.com/samber/lo"
)

// BlockList is the set of tokens that must never be resolved.
type BlockList map[string]struct{}

// NewBlockList derives the set from the ';' separated BlockedPaths setting.
// Surrounding whitespace and empty entries are dropped; matching itself is exact.
func NewBlockList(c *conf.Redirect) BlockList {
	tokens := lo.Compact(lo.Map(strings.Split(c.BlockedPaths, ";"), func(s string, _ int) string {
		return strings.TrimSpace(s)
	}))
	return lo.SliceToMap(tokens, func(token string) (string, struct{}) {
		return token, struct{}{}
	})
}

// Contains reports whether token is blocked. Case-sensitive.
func (b BlockList) Contains(token string) bool {
	_, ok := b[token]
	return ok
}
