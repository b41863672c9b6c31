package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/grondverzet/machinery-cms/internal/platform/logger"
	"github.com/grondverzet/machinery-cms/internal/quote/domain"
)

var ErrQuoteNotFound = errors.New("quote not found")

type QuoteRepository interface {
	Insert(ctx context.Context, q *domain.Quote) error
	// List returns quotes most recent first, optionally filtered by status.
	List(ctx context.Context, status string, limit, offset int) ([]domain.Quote, error)
	Count(ctx context.Context, status string) (int, error)
	UpdateStatus(ctx context.Context, id, status string) (*domain.Quote, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type postgresQuoteRepository struct {
	db *sql.DB
}

func NewPostgresQuoteRepository(db *sql.DB) QuoteRepository {
	return &postgresQuoteRepository{db: db}
}

const quoteColumns = `q.id, q.reference, q.status,
	q.customer_name, q.customer_email, q.customer_phone, q.company_name, q.vat_number,
	q.request_type, q.message,
	q.product_id, q.product_name, q.product_category, q.product_slug,
	q.machine_brand, q.machine_model, q.attachment_type,
	q.cart_items,
	q.source_page, q.industry, q.brand,
	q.created_at, q.updated_at`

func scanQuote(scanner interface{ Scan(...interface{}) error }, withProductTitle bool) (*domain.Quote, error) {
	var q domain.Quote
	var cartJSON []byte

	dest := []interface{}{
		&q.ID, &q.Reference, &q.Status,
		&q.CustomerName, &q.CustomerEmail, &q.CustomerPhone, &q.CompanyName, &q.VATNumber,
		&q.RequestType, &q.Message,
		&q.ProductID, &q.ProductName, &q.ProductCategory, &q.ProductSlug,
		&q.MachineBrand, &q.MachineModel, &q.AttachmentType,
		&cartJSON,
		&q.SourcePage, &q.Industry, &q.Brand,
		&q.CreatedAt, &q.UpdatedAt,
	}
	if withProductTitle {
		dest = append(dest, &q.ProductTitle)
	}
	if err := scanner.Scan(dest...); err != nil {
		return nil, err
	}
	if len(cartJSON) > 0 {
		if err := json.Unmarshal(cartJSON, &q.CartItems); err != nil {
			return nil, err
		}
	}
	return &q, nil
}

func (r *postgresQuoteRepository) Insert(ctx context.Context, q *domain.Quote) error {
	var cartJSON interface{}
	if q.CartItems != nil {
		b, err := json.Marshal(q.CartItems)
		if err != nil {
			return err
		}
		cartJSON = b
	}

	q.CreatedAt = time.Now()
	q.UpdatedAt = q.CreatedAt
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO quotes (
			id, reference, status,
			customer_name, customer_email, customer_phone, company_name, vat_number,
			request_type, message,
			product_id, product_name, product_category, product_slug,
			machine_brand, machine_model, attachment_type,
			cart_items,
			source_page, industry, brand,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23)`,
		q.ID, q.Reference, q.Status,
		q.CustomerName, q.CustomerEmail, q.CustomerPhone, q.CompanyName, q.VATNumber,
		q.RequestType, q.Message,
		q.ProductID, q.ProductName, q.ProductCategory, q.ProductSlug,
		q.MachineBrand, q.MachineModel, q.AttachmentType,
		cartJSON,
		q.SourcePage, q.Industry, q.Brand,
		q.CreatedAt, q.UpdatedAt)
	if err != nil {
		logger.Error("Insert: quote insert failed", err)
	}
	return err
}

func (r *postgresQuoteRepository) List(ctx context.Context, status string, limit, offset int) ([]domain.Quote, error) {
	query := `SELECT ` + quoteColumns + `, p.title AS product_title
		 FROM quotes q
		 LEFT JOIN products p ON q.product_id = p.id`
	args := []interface{}{}
	if status != "" {
		query += ` WHERE q.status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY q.created_at DESC`
	if status != "" {
		query += ` LIMIT $2 OFFSET $3`
	} else {
		query += ` LIMIT $1 OFFSET $2`
	}
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.Error("List: query failed", err)
		return nil, err
	}
	defer rows.Close()

	quotes := []domain.Quote{}
	for rows.Next() {
		q, err := scanQuote(rows, true)
		if err != nil {
			return nil, err
		}
		quotes = append(quotes, *q)
	}
	return quotes, rows.Err()
}

func (r *postgresQuoteRepository) Count(ctx context.Context, status string) (int, error) {
	var total int
	var err error
	if status != "" {
		err = r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM quotes WHERE status = $1`, status).Scan(&total)
	} else {
		err = r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM quotes`).Scan(&total)
	}
	if err != nil {
		logger.Error("Count: query failed", err)
		return 0, err
	}
	return total, nil
}

func (r *postgresQuoteRepository) UpdateStatus(ctx context.Context, id, status string) (*domain.Quote, error) {
	row := r.db.QueryRowContext(ctx,
		`UPDATE quotes q SET status = $1, updated_at = CURRENT_TIMESTAMP
		 WHERE q.id = $2
		 RETURNING `+quoteColumns,
		status, id)

	q, err := scanQuote(row, false)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrQuoteNotFound
		}
		logger.Error("UpdateStatus: exec failed", err)
		return nil, err
	}
	return q, nil
}

func (r *postgresQuoteRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM quotes WHERE id = $1`, id)
	if err != nil {
		logger.Error("Delete: exec failed", err)
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}
