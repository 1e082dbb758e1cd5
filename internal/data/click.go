package data

import (
	"context"

	"go-redirector/internal/biz"

	"github.com/go-kratos/kratos/v2/log"
)

// Compile-time interface check
var _ biz.ClickRepo = (*clickRepo)(nil)

const insertClickQuery = `INSERT INTO short_url_clicks
    (short_url_id, click_date, referrer, city, state, country, latitude, longitude)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

type clickRepo struct {
	data *Data
	log  *log.Helper
}

// NewClickRepo creates a new ClickRepo.
func NewClickRepo(data *Data, logger log.Logger) biz.ClickRepo {
	return &clickRepo{
		data: data,
		log:  log.NewHelper(logger),
	}
}

// RecordClick inserts one click row. Nil fields are stored as NULL.
func (r *clickRepo) RecordClick(ctx context.Context, click *biz.Click) error {
	_, err := r.data.querier(ctx).ExecContext(ctx, insertClickQuery,
		click.MappingID,
		click.ClickedAt.UTC(),
		click.Referrer,
		click.City,
		click.Region,
		click.Country,
		click.Latitude,
		click.Longitude,
	)
	return err
}
