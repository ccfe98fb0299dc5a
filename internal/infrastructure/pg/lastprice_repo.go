package pg

import (
	"context"

	"stockprices-service/internal/application"
	"stockprices-service/internal/domain"
)

var _ application.PriceStore = (*LastPriceRepo)(nil)

// LastPriceRepo is the durable last-known-price record per symbol.
// Rows are upserted after every successful live resolution and never
// deleted here.
type LastPriceRepo struct{ db *DB }

func NewLastPriceRepo(db *DB) *LastPriceRepo { return &LastPriceRepo{db: db} }

func (r *LastPriceRepo) Load(ctx context.Context, symbol domain.Symbol) (domain.Quote, error) {
	const q = `SELECT symbol, price, last_updated FROM last_price WHERE symbol=$1`
	var out domain.Quote
	if err := r.db.Pool.QueryRow(ctx, q, symbol).Scan(&out.Symbol, &out.Price, &out.UpdatedAt); err != nil {
		return domain.Quote{}, application.ErrNotFound
	}
	out.Source = "store"
	return out, nil
}

func (r *LastPriceRepo) Save(ctx context.Context, q domain.Quote) error {
	const up = `
        INSERT INTO last_price(symbol, price, last_updated)
        VALUES ($1, $2, $3)
        ON CONFLICT (symbol) DO UPDATE
          SET price=EXCLUDED.price, last_updated=EXCLUDED.last_updated`
	_, err := r.db.Pool.Exec(ctx, up, q.Symbol, q.Price, q.UpdatedAt)
	return err
}

func (r *LastPriceRepo) ListSymbols(ctx context.Context, limit int) ([]domain.Symbol, error) {
	const q = `SELECT symbol FROM last_price ORDER BY last_updated ASC LIMIT $1`
	rows, err := r.db.Pool.Query(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []domain.Symbol
	for rows.Next() {
		var sym domain.Symbol
		if err := rows.Scan(&sym); err != nil {
			return nil, err
		}
		out = append(out, sym)
	}
	return out, rows.Err()
}
