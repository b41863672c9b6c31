package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/grondverzet/machinery-cms/internal/catalog/domain"
	"github.com/grondverzet/machinery-cms/internal/platform/logger"
)

var (
	ErrCategoryNotFound    = errors.New("category not found")
	ErrSubcategoryNotFound = errors.New("subcategory not found")
	ErrBrandNotFound       = errors.New("brand not found")
)

// TaxonomyRepository covers the three classification entities products hang
// off: categories, their subcategories, and brands.
type TaxonomyRepository interface {
	ListCategories(ctx context.Context) ([]domain.Category, error)
	GetCategoryBySlug(ctx context.Context, slug string) (*domain.Category, error)
	CreateCategory(ctx context.Context, cat *domain.Category) error
	UpdateCategory(ctx context.Context, cat *domain.Category) error
	DeleteCategory(ctx context.Context, id string) (bool, error)

	ListSubcategories(ctx context.Context, categoryID string) ([]domain.Subcategory, error)
	CreateSubcategory(ctx context.Context, sub *domain.Subcategory) error
	UpdateSubcategory(ctx context.Context, sub *domain.Subcategory) error
	DeleteSubcategory(ctx context.Context, id string) (bool, error)

	ListBrands(ctx context.Context) ([]domain.Brand, error)
	GetBrandBySlug(ctx context.Context, slug string) (*domain.Brand, error)
	CreateBrand(ctx context.Context, brand *domain.Brand) error
	UpdateBrand(ctx context.Context, brand *domain.Brand) error
	DeleteBrand(ctx context.Context, id string) (bool, error)
}

type postgresTaxonomyRepository struct {
	db *sql.DB
}

func NewPostgresTaxonomyRepository(db *sql.DB) TaxonomyRepository {
	return &postgresTaxonomyRepository{db: db}
}

func (r *postgresTaxonomyRepository) ListCategories(ctx context.Context) ([]domain.Category, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, title, slug, description, created_at, updated_at
		 FROM categories ORDER BY title ASC`)
	if err != nil {
		logger.Error("ListCategories: query failed", err)
		return nil, err
	}
	defer rows.Close()

	categories := []domain.Category{}
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Title, &c.Slug, &c.Description, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *postgresTaxonomyRepository) GetCategoryBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	var c domain.Category
	err := r.db.QueryRowContext(ctx,
		`SELECT id, title, slug, description, created_at, updated_at
		 FROM categories WHERE slug = $1`, slug).
		Scan(&c.ID, &c.Title, &c.Slug, &c.Description, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		logger.Error("GetCategoryBySlug: query failed", err)
		return nil, err
	}
	return &c, nil
}

func (r *postgresTaxonomyRepository) CreateCategory(ctx context.Context, cat *domain.Category) error {
	cat.CreatedAt = time.Now()
	cat.UpdatedAt = cat.CreatedAt
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO categories (id, title, slug, description, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		cat.ID, cat.Title, cat.Slug, cat.Description, cat.CreatedAt, cat.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrSlugConflict
		}
		logger.Error("CreateCategory: insert failed", err)
	}
	return err
}

func (r *postgresTaxonomyRepository) UpdateCategory(ctx context.Context, cat *domain.Category) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE categories SET title = $2, slug = $3, description = $4, updated_at = NOW()
		 WHERE id = $1`,
		cat.ID, cat.Title, cat.Slug, cat.Description)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrSlugConflict
		}
		logger.Error("UpdateCategory: exec failed", err)
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

func (r *postgresTaxonomyRepository) DeleteCategory(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		logger.Error("DeleteCategory: exec failed", err)
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *postgresTaxonomyRepository) ListSubcategories(ctx context.Context, categoryID string) ([]domain.Subcategory, error) {
	query := `SELECT id, category_id, title, slug, description, created_at, updated_at
		 FROM subcategories`
	var args []interface{}
	if categoryID != "" {
		query += ` WHERE category_id = $1`
		args = append(args, categoryID)
	}
	query += ` ORDER BY title ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.Error("ListSubcategories: query failed", err)
		return nil, err
	}
	defer rows.Close()

	subs := []domain.Subcategory{}
	for rows.Next() {
		var s domain.Subcategory
		if err := rows.Scan(&s.ID, &s.CategoryID, &s.Title, &s.Slug, &s.Description, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		subs = append(subs, s)
	}
	return subs, rows.Err()
}

func (r *postgresTaxonomyRepository) CreateSubcategory(ctx context.Context, sub *domain.Subcategory) error {
	sub.CreatedAt = time.Now()
	sub.UpdatedAt = sub.CreatedAt
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO subcategories (id, category_id, title, slug, description, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		sub.ID, sub.CategoryID, sub.Title, sub.Slug, sub.Description, sub.CreatedAt, sub.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrSlugConflict
		}
		logger.Error("CreateSubcategory: insert failed", err)
	}
	return err
}

func (r *postgresTaxonomyRepository) UpdateSubcategory(ctx context.Context, sub *domain.Subcategory) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE subcategories SET category_id = $2, title = $3, slug = $4, description = $5, updated_at = NOW()
		 WHERE id = $1`,
		sub.ID, sub.CategoryID, sub.Title, sub.Slug, sub.Description)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrSlugConflict
		}
		logger.Error("UpdateSubcategory: exec failed", err)
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrSubcategoryNotFound
	}
	return nil
}

func (r *postgresTaxonomyRepository) DeleteSubcategory(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM subcategories WHERE id = $1`, id)
	if err != nil {
		logger.Error("DeleteSubcategory: exec failed", err)
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *postgresTaxonomyRepository) ListBrands(ctx context.Context) ([]domain.Brand, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, title, slug, logo_url, created_at, updated_at
		 FROM brands ORDER BY title ASC`)
	if err != nil {
		logger.Error("ListBrands: query failed", err)
		return nil, err
	}
	defer rows.Close()

	brands := []domain.Brand{}
	for rows.Next() {
		var b domain.Brand
		if err := rows.Scan(&b.ID, &b.Title, &b.Slug, &b.LogoURL, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		brands = append(brands, b)
	}
	return brands, rows.Err()
}

func (r *postgresTaxonomyRepository) GetBrandBySlug(ctx context.Context, slug string) (*domain.Brand, error) {
	var b domain.Brand
	err := r.db.QueryRowContext(ctx,
		`SELECT id, title, slug, logo_url, created_at, updated_at
		 FROM brands WHERE slug = $1`, slug).
		Scan(&b.ID, &b.Title, &b.Slug, &b.LogoURL, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBrandNotFound
		}
		logger.Error("GetBrandBySlug: query failed", err)
		return nil, err
	}
	return &b, nil
}

func (r *postgresTaxonomyRepository) CreateBrand(ctx context.Context, brand *domain.Brand) error {
	brand.CreatedAt = time.Now()
	brand.UpdatedAt = brand.CreatedAt
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO brands (id, title, slug, logo_url, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		brand.ID, brand.Title, brand.Slug, brand.LogoURL, brand.CreatedAt, brand.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrSlugConflict
		}
		logger.Error("CreateBrand: insert failed", err)
	}
	return err
}

func (r *postgresTaxonomyRepository) UpdateBrand(ctx context.Context, brand *domain.Brand) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE brands SET title = $2, slug = $3, logo_url = $4, updated_at = NOW()
		 WHERE id = $1`,
		brand.ID, brand.Title, brand.Slug, brand.LogoURL)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrSlugConflict
		}
		logger.Error("UpdateBrand: exec failed", err)
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrBrandNotFound
	}
	return nil
}

func (r *postgresTaxonomyRepository) DeleteBrand(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM brands WHERE id = $1`, id)
	if err != nil {
		logger.Error("DeleteBrand: exec failed", err)
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}
