package data

import (
	"context"
	"database/sql"
	"errors"

	"go-redirector/internal/biz"

	"github.com/go-kratos/kratos/v2/log"
)

// Compile-time interface check
var _ biz.MappingRepo = (*mappingRepo)(nil)

// Both token and domain are bound parameters. The unique (token, domain) key
// means at most one row matches; ORDER BY id keeps the choice stable regardless.
const findMappingQuery = `SELECT id, token, domain, long_url, short_url
FROM short_urls
WHERE token = $1 AND domain = $2
ORDER BY id
LIMIT 1`

type mappingRepo struct {
	data *Data
	log  *log.Helper
}

// NewMappingRepo creates a new MappingRepo.
func NewMappingRepo(data *Data, logger log.Logger) biz.MappingRepo {
	return &mappingRepo{
		data: data,
		log:  log.NewHelper(logger),
	}
}

// FindMapping retrieves the mapping for token on domain.
func (r *mappingRepo) FindMapping(ctx context.Context, token, domain string) (*biz.Mapping, error) {
	var m biz.Mapping
	err := r.data.querier(ctx).QueryRowContext(ctx, findMappingQuery, token, domain).
		Scan(&m.ID, &m.Token, &m.Domain, &m.LongURL, &m.ShortURL)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, biz.ErrMappingNotFound
		}
		return nil, err
	}
	return &m, nil
}
