package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/grondverzet/machinery-cms/internal/platform/logger"
	"github.com/grondverzet/machinery-cms/internal/pricing/domain"
)

var ErrPriceNotFound = errors.New("price record not found")

// PriceRepository exposes recency-ordered reads over price records plus the
// admin write operations. Resolution precedence lives in the service; the
// repository only knows how to fetch candidate rows.
type PriceRepository interface {
	// CustomerPrices returns valid records scoped to exactly this customer,
	// most recent first.
	CustomerPrices(ctx context.Context, productID, customerID string) ([]domain.PriceRecord, error)
	// GeneralPrices returns valid unscoped records, most recent first.
	GeneralPrices(ctx context.Context, productID string) ([]domain.PriceRecord, error)
	// History returns every record for a product regardless of validity.
	History(ctx context.Context, productID string) ([]domain.PriceRecord, error)
	Insert(ctx context.Context, rec *domain.PriceRecord) error
	Update(ctx context.Context, id string, upd domain.PriceUpdate) (*domain.PriceRecord, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type postgresPriceRepository struct {
	db *sql.DB
}

func NewPostgresPriceRepository(db *sql.DB) PriceRepository {
	return &postgresPriceRepository{db: db}
}

const priceColumns = `pp.id, pp.product_id, pp.price::text, pp.visible_for_customer_id, pp.valid_until, pp.created_at`

func (r *postgresPriceRepository) scanRecords(rows *sql.Rows) ([]domain.PriceRecord, error) {
	records := []domain.PriceRecord{}
	for rows.Next() {
		var rec domain.PriceRecord
		if err := rows.Scan(&rec.ID, &rec.ProductID, &rec.Price, &rec.CustomerID, &rec.ValidUntil, &rec.CreatedAt); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (r *postgresPriceRepository) CustomerPrices(ctx context.Context, productID, customerID string) ([]domain.PriceRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+priceColumns+` FROM product_prices pp
		 WHERE pp.product_id = $1
		   AND pp.visible_for_customer_id = $2
		   AND (pp.valid_until IS NULL OR pp.valid_until > NOW())
		 ORDER BY pp.created_at DESC`,
		productID, customerID)
	if err != nil {
		logger.Error("CustomerPrices: query failed", err)
		return nil, err
	}
	defer rows.Close()
	return r.scanRecords(rows)
}

func (r *postgresPriceRepository) GeneralPrices(ctx context.Context, productID string) ([]domain.PriceRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+priceColumns+` FROM product_prices pp
		 WHERE pp.product_id = $1
		   AND pp.visible_for_customer_id IS NULL
		   AND (pp.valid_until IS NULL OR pp.valid_until > NOW())
		 ORDER BY pp.created_at DESC`,
		productID)
	if err != nil {
		logger.Error("GeneralPrices: query failed", err)
		return nil, err
	}
	defer rows.Close()
	return r.scanRecords(rows)
}

func (r *postgresPriceRepository) History(ctx context.Context, productID string) ([]domain.PriceRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+priceColumns+`, u.email FROM product_prices pp
		 LEFT JOIN users u ON pp.visible_for_customer_id = u.id
		 WHERE pp.product_id = $1
		 ORDER BY pp.created_at DESC`,
		productID)
	if err != nil {
		logger.Error("History: query failed", err)
		return nil, err
	}
	defer rows.Close()

	records := []domain.PriceRecord{}
	for rows.Next() {
		var rec domain.PriceRecord
		if err := rows.Scan(&rec.ID, &rec.ProductID, &rec.Price, &rec.CustomerID, &rec.ValidUntil, &rec.CreatedAt, &rec.CustomerEmail); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (r *postgresPriceRepository) Insert(ctx context.Context, rec *domain.PriceRecord) error {
	rec.CreatedAt = time.Now()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO product_prices (id, product_id, price, visible_for_customer_id, valid_until, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		rec.ID, rec.ProductID, rec.Price, rec.CustomerID, rec.ValidUntil, rec.CreatedAt)
	if err != nil {
		logger.Error("Insert: insert failed", err)
	}
	return err
}

func (r *postgresPriceRepository) Update(ctx context.Context, id string, upd domain.PriceUpdate) (*domain.PriceRecord, error) {
	var sets []string
	var args []interface{}
	idx := 1

	if upd.Price.Set {
		sets = append(sets, fmt.Sprintf("price = $%d", idx))
		args = append(args, upd.Price.Value)
		idx++
	}
	if upd.ValidUntil.Set {
		sets = append(sets, fmt.Sprintf("valid_until = $%d", idx))
		args = append(args, upd.ValidUntil.Value)
		idx++
	}
	if len(sets) == 0 {
		return nil, ErrPriceNotFound
	}

	args = append(args, id)
	query := fmt.Sprintf(
		`UPDATE product_prices SET %s WHERE id = $%d
		 RETURNING id, product_id, price::text, visible_for_customer_id, valid_until, created_at`,
		strings.Join(sets, ", "), idx)

	var rec domain.PriceRecord
	err := r.db.QueryRowContext(ctx, query, args...).
		Scan(&rec.ID, &rec.ProductID, &rec.Price, &rec.CustomerID, &rec.ValidUntil, &rec.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPriceNotFound
		}
		logger.Error("Update: exec failed", err)
		return nil, err
	}
	return &rec, nil
}

func (r *postgresPriceRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM product_prices WHERE id = $1`, id)
	if err != nil {
		logger.Error("Delete: exec failed", err)
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}
