package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"

	"github.com/grondverzet/machinery-cms/internal/catalog/domain"
	"github.com/grondverzet/machinery-cms/internal/platform/logger"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrSlugConflict    = errors.New("a product with this slug already exists")
)

const uniqueViolation = "23505"

type ProductRepository interface {
	List(ctx context.Context, f domain.FilterCriteria) ([]domain.Product, error)
	Count(ctx context.Context, f domain.FilterCriteria) (int, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Product, error)
	ListAdmin(ctx context.Context) ([]domain.Product, error)
	Create(ctx context.Context, p *domain.Product) error
	Update(ctx context.Context, id string, upd domain.ProductUpdate) (*domain.Product, error)
	Delete(ctx context.Context, id string) (bool, error)
	FilterOptions(ctx context.Context) (*domain.FilterOptions, error)
}

type postgresProductRepository struct {
	db *sql.DB
}

func NewPostgresProductRepository(db *sql.DB) ProductRepository {
	return &postgresProductRepository{db: db}
}

const productColumns = `p.id, p.title, p.slug, p.description,
	p.category_id, p.subcategory_id, p.brand_id,
	p.excavator_weight_min, p.excavator_weight_max, p.width, p.volume, p.weight,
	p.attachment_type, COALESCE(p.images, '{}'::text[]), p.specs,
	p.stock_quantity, p.is_featured, p.is_active,
	c.title, c.slug, sc.title, sc.slug, b.title, b.slug,
	p.created_at, p.updated_at`

const productJoins = `
	FROM products p
	LEFT JOIN categories c ON p.category_id = c.id
	LEFT JOIN subcategories sc ON p.subcategory_id = sc.id
	LEFT JOIN brands b ON p.brand_id = b.id`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	var p domain.Product
	var images pq.StringArray
	var specs []byte

	err := row.Scan(
		&p.ID, &p.Title, &p.Slug, &p.Description,
		&p.CategoryID, &p.SubcategoryID, &p.BrandID,
		&p.ExcavatorWeightMin, &p.ExcavatorWeightMax, &p.Width, &p.Volume, &p.Weight,
		&p.AttachmentType, &images, &specs,
		&p.StockQuantity, &p.IsFeatured, &p.IsActive,
		&p.CategoryTitle, &p.CategorySlug, &p.SubcategoryTitle, &p.SubcategorySlug,
		&p.BrandTitle, &p.BrandSlug,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.Images = []string(images)
	if len(specs) > 0 {
		if err := json.Unmarshal(specs, &p.Specs); err != nil {
			return nil, fmt.Errorf("decode product specs: %w", err)
		}
	}
	return &p, nil
}

func (r *postgresProductRepository) List(ctx context.Context, f domain.FilterCriteria) ([]domain.Product, error) {
	where, args := BuildWhere(FilterPredicates(f), f.Search)

	query := "SELECT " + productColumns + productJoins + where +
		" ORDER BY " + orderClause(f.NormalizedSort())

	idx := len(args) + 1
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", idx, idx+1)
	args = append(args, f.EffectiveLimit(), f.EffectiveOffset())

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.Error("List: query failed", err)
		return nil, err
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			logger.Error("List: scan failed", err)
			return nil, err
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

// Count runs the identical predicate set as List without pagination.
func (r *postgresProductRepository) Count(ctx context.Context, f domain.FilterCriteria) (int, error) {
	where, args := BuildWhere(FilterPredicates(f), f.Search)

	query := "SELECT COUNT(*)" + productJoins + where

	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		logger.Error("Count: query failed", err)
		return 0, err
	}
	return count, nil
}

func (r *postgresProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	return r.getOne(ctx, "p.id = $1", id)
}

func (r *postgresProductRepository) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	return r.getOne(ctx, "p.slug = $1", slug)
}

func (r *postgresProductRepository) getOne(ctx context.Context, cond, arg string) (*domain.Product, error) {
	query := "SELECT " + productColumns + productJoins + " WHERE " + cond

	p, err := scanProduct(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		logger.Error("getOne: query failed", err)
		return nil, err
	}
	return p, nil
}

// ListAdmin returns every product, inactive included, with the current
// general price attached for the CMS overview.
func (r *postgresProductRepository) ListAdmin(ctx context.Context) ([]domain.Product, error) {
	query := "SELECT " + productColumns + `,
		(SELECT pp.price::text FROM product_prices pp
		 WHERE pp.product_id = p.id
		   AND pp.visible_for_customer_id IS NULL
		   AND (pp.valid_until IS NULL OR pp.valid_until > NOW())
		 ORDER BY pp.created_at DESC LIMIT 1)` +
		productJoins + " ORDER BY p.created_at DESC"

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		logger.Error("ListAdmin: query failed", err)
		return nil, err
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		var p domain.Product
		var images pq.StringArray
		var specs []byte

		err := rows.Scan(
			&p.ID, &p.Title, &p.Slug, &p.Description,
			&p.CategoryID, &p.SubcategoryID, &p.BrandID,
			&p.ExcavatorWeightMin, &p.ExcavatorWeightMax, &p.Width, &p.Volume, &p.Weight,
			&p.AttachmentType, &images, &specs,
			&p.StockQuantity, &p.IsFeatured, &p.IsActive,
			&p.CategoryTitle, &p.CategorySlug, &p.SubcategoryTitle, &p.SubcategorySlug,
			&p.BrandTitle, &p.BrandSlug,
			&p.CreatedAt, &p.UpdatedAt,
			&p.CurrentPrice,
		)
		if err != nil {
			logger.Error("ListAdmin: scan failed", err)
			return nil, err
		}
		p.Images = []string(images)
		if len(specs) > 0 {
			if err := json.Unmarshal(specs, &p.Specs); err != nil {
				return nil, fmt.Errorf("decode product specs: %w", err)
			}
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *postgresProductRepository) Create(ctx context.Context, p *domain.Product) error {
	specs, err := json.Marshal(p.Specs)
	if err != nil {
		return fmt.Errorf("encode product specs: %w", err)
	}
	if p.Specs == nil {
		specs = []byte("{}")
	}

	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt

	query := `INSERT INTO products (
		id, title, slug, description, category_id, subcategory_id, brand_id,
		excavator_weight_min, excavator_weight_max, width, volume, weight,
		attachment_type, images, specs, stock_quantity, is_featured, is_active,
		created_at, updated_at
	) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20)`

	_, err = r.db.ExecContext(ctx, query,
		p.ID, p.Title, p.Slug, p.Description, p.CategoryID, p.SubcategoryID, p.BrandID,
		p.ExcavatorWeightMin, p.ExcavatorWeightMax, p.Width, p.Volume, p.Weight,
		p.AttachmentType, pq.Array(p.Images), specs, p.StockQuantity, p.IsFeatured, p.IsActive,
		p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrSlugConflict
		}
		logger.Error("Create: insert failed", err)
		return err
	}
	return nil
}

// Update writes only the fields the caller supplied; a supplied nil clears
// the column.
func (r *postgresProductRepository) Update(ctx context.Context, id string, upd domain.ProductUpdate) (*domain.Product, error) {
	sets := []string{"updated_at = NOW()"}
	var args []interface{}
	idx := 1

	set := func(column string, value interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, idx))
		args = append(args, value)
		idx++
	}

	if upd.Title.Set {
		set("title", upd.Title.Value)
	}
	if upd.Slug.Set {
		set("slug", upd.Slug.Value)
	}
	if upd.Description.Set {
		set("description", upd.Description.Value)
	}
	if upd.CategoryID.Set {
		set("category_id", upd.CategoryID.Value)
	}
	if upd.SubcategoryID.Set {
		set("subcategory_id", upd.SubcategoryID.Value)
	}
	if upd.BrandID.Set {
		set("brand_id", upd.BrandID.Value)
	}
	if upd.ExcavatorWeightMin.Set {
		set("excavator_weight_min", upd.ExcavatorWeightMin.Value)
	}
	if upd.ExcavatorWeightMax.Set {
		set("excavator_weight_max", upd.ExcavatorWeightMax.Value)
	}
	if upd.Width.Set {
		set("width", upd.Width.Value)
	}
	if upd.Volume.Set {
		set("volume", upd.Volume.Value)
	}
	if upd.Weight.Set {
		set("weight", upd.Weight.Value)
	}
	if upd.AttachmentType.Set {
		set("attachment_type", upd.AttachmentType.Value)
	}
	if upd.Images.Set {
		set("images", pq.Array(upd.Images.Value))
	}
	if upd.Specs.Set {
		specs, err := json.Marshal(upd.Specs.Value)
		if err != nil {
			return nil, fmt.Errorf("encode product specs: %w", err)
		}
		set("specs", specs)
	}
	if upd.StockQuantity.Set {
		set("stock_quantity", upd.StockQuantity.Value)
	}
	if upd.IsFeatured.Set {
		set("is_featured", upd.IsFeatured.Value)
	}
	if upd.IsActive.Set {
		set("is_active", upd.IsActive.Value)
	}

	query := fmt.Sprintf("UPDATE products SET %s WHERE id = $%d", strings.Join(sets, ", "), idx)
	args = append(args, id)

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrSlugConflict
		}
		logger.Error("Update: exec failed", err)
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrProductNotFound
	}

	return r.GetByID(ctx, id)
}

func (r *postgresProductRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		logger.Error("Delete: exec failed", err)
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// FilterOptions collects the distinct attribute values present in the
// active catalog for the storefront filter UI.
func (r *postgresProductRepository) FilterOptions(ctx context.Context) (*domain.FilterOptions, error) {
	opts := &domain.FilterOptions{
		AttachmentTypes: []string{},
		Widths:          []int{},
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT DISTINCT attachment_type FROM products
		 WHERE attachment_type IS NOT NULL AND is_active = true
		 ORDER BY attachment_type`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		opts.AttachmentTypes = append(opts.AttachmentTypes, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	widthRows, err := r.db.QueryContext(ctx,
		`SELECT DISTINCT width FROM products
		 WHERE width IS NOT NULL AND is_active = true
		 ORDER BY width`)
	if err != nil {
		return nil, err
	}
	defer widthRows.Close()
	for widthRows.Next() {
		var w int
		if err := widthRows.Scan(&w); err != nil {
			return nil, err
		}
		opts.Widths = append(opts.Widths, w)
	}
	if err := widthRows.Err(); err != nil {
		return nil, err
	}

	var volume domain.IntRange
	err = r.db.QueryRowContext(ctx,
		`SELECT MIN(volume), MAX(volume) FROM products
		 WHERE volume IS NOT NULL AND is_active = true`).
		Scan(&volume.Min, &volume.Max)
	if err != nil {
		return nil, err
	}
	opts.Volume = &volume

	var weight domain.IntRange
	err = r.db.QueryRowContext(ctx,
		`SELECT MIN(excavator_weight_min), MAX(excavator_weight_max) FROM products
		 WHERE is_active = true`).
		Scan(&weight.Min, &weight.Max)
	if err != nil {
		return nil, err
	}
	opts.ExcavatorWeight = &weight

	return opts, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
