package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/grondverzet/machinery-cms/internal/catalog/domain"
	"github.com/grondverzet/machinery-cms/internal/catalog/repository"
)

type CategoryRequest struct {
	Title       string  `json:"title"`
	Slug        string  `json:"slug"`
	Description *string `json:"description"`
}

type SubcategoryRequest struct {
	CategoryID  string  `json:"category_id"`
	Title       string  `json:"title"`
	Slug        string  `json:"slug"`
	Description *string `json:"description"`
}

type BrandRequest struct {
	Title   string  `json:"title"`
	Slug    string  `json:"slug"`
	LogoURL *string `json:"logo_url"`
}

var ErrCategoryIDRequired = errors.New("category_id is required")

type TaxonomyService interface {
	ListCategories(ctx context.Context) ([]domain.Category, error)
	GetCategory(ctx context.Context, slug string) (*domain.CategoryDetail, error)
	CreateCategory(ctx context.Context, req CategoryRequest) (*domain.Category, error)
	UpdateCategory(ctx context.Context, id string, req CategoryRequest) (*domain.Category, error)
	DeleteCategory(ctx context.Context, id string) error

	ListSubcategories(ctx context.Context, categoryID string) ([]domain.Subcategory, error)
	CreateSubcategory(ctx context.Context, req SubcategoryRequest) (*domain.Subcategory, error)
	UpdateSubcategory(ctx context.Context, id string, req SubcategoryRequest) (*domain.Subcategory, error)
	DeleteSubcategory(ctx context.Context, id string) error

	ListBrands(ctx context.Context) ([]domain.Brand, error)
	GetBrand(ctx context.Context, slug string) (*domain.Brand, error)
	CreateBrand(ctx context.Context, req BrandRequest) (*domain.Brand, error)
	UpdateBrand(ctx context.Context, id string, req BrandRequest) (*domain.Brand, error)
	DeleteBrand(ctx context.Context, id string) error
}

type taxonomyServiceImpl struct {
	repo repository.TaxonomyRepository
}

func NewTaxonomyService(repo repository.TaxonomyRepository) TaxonomyService {
	return &taxonomyServiceImpl{repo: repo}
}

func (s *taxonomyServiceImpl) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.repo.ListCategories(ctx)
}

func (s *taxonomyServiceImpl) GetCategory(ctx context.Context, slug string) (*domain.CategoryDetail, error) {
	cat, err := s.repo.GetCategoryBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	subs, err := s.repo.ListSubcategories(ctx, cat.ID)
	if err != nil {
		return nil, err
	}
	return &domain.CategoryDetail{Category: *cat, Subcategories: subs}, nil
}

func (s *taxonomyServiceImpl) CreateCategory(ctx context.Context, req CategoryRequest) (*domain.Category, error) {
	if req.Title == "" {
		return nil, ErrTitleRequired
	}
	cat := &domain.Category{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Slug:        slugOrDerived(req.Slug, req.Title),
		Description: req.Description,
	}
	if err := s.repo.CreateCategory(ctx, cat); err != nil {
		return nil, err
	}
	return cat, nil
}

func (s *taxonomyServiceImpl) UpdateCategory(ctx context.Context, id string, req CategoryRequest) (*domain.Category, error) {
	if req.Title == "" {
		return nil, ErrTitleRequired
	}
	cat := &domain.Category{
		ID:          id,
		Title:       req.Title,
		Slug:        slugOrDerived(req.Slug, req.Title),
		Description: req.Description,
	}
	if err := s.repo.UpdateCategory(ctx, cat); err != nil {
		return nil, err
	}
	return cat, nil
}

func (s *taxonomyServiceImpl) DeleteCategory(ctx context.Context, id string) error {
	deleted, err := s.repo.DeleteCategory(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return repository.ErrCategoryNotFound
	}
	return nil
}

func (s *taxonomyServiceImpl) ListSubcategories(ctx context.Context, categoryID string) ([]domain.Subcategory, error) {
	return s.repo.ListSubcategories(ctx, categoryID)
}

func (s *taxonomyServiceImpl) CreateSubcategory(ctx context.Context, req SubcategoryRequest) (*domain.Subcategory, error) {
	if req.Title == "" {
		return nil, ErrTitleRequired
	}
	if req.CategoryID == "" {
		return nil, ErrCategoryIDRequired
	}
	sub := &domain.Subcategory{
		ID:          uuid.NewString(),
		CategoryID:  req.CategoryID,
		Title:       req.Title,
		Slug:        slugOrDerived(req.Slug, req.Title),
		Description: req.Description,
	}
	if err := s.repo.CreateSubcategory(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

func (s *taxonomyServiceImpl) UpdateSubcategory(ctx context.Context, id string, req SubcategoryRequest) (*domain.Subcategory, error) {
	if req.Title == "" {
		return nil, ErrTitleRequired
	}
	if req.CategoryID == "" {
		return nil, ErrCategoryIDRequired
	}
	sub := &domain.Subcategory{
		ID:          id,
		CategoryID:  req.CategoryID,
		Title:       req.Title,
		Slug:        slugOrDerived(req.Slug, req.Title),
		Description: req.Description,
	}
	if err := s.repo.UpdateSubcategory(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

func (s *taxonomyServiceImpl) DeleteSubcategory(ctx context.Context, id string) error {
	deleted, err := s.repo.DeleteSubcategory(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return repository.ErrSubcategoryNotFound
	}
	return nil
}

func (s *taxonomyServiceImpl) ListBrands(ctx context.Context) ([]domain.Brand, error) {
	return s.repo.ListBrands(ctx)
}

func (s *taxonomyServiceImpl) GetBrand(ctx context.Context, slug string) (*domain.Brand, error) {
	return s.repo.GetBrandBySlug(ctx, slug)
}

func (s *taxonomyServiceImpl) CreateBrand(ctx context.Context, req BrandRequest) (*domain.Brand, error) {
	if req.Title == "" {
		return nil, ErrTitleRequired
	}
	brand := &domain.Brand{
		ID:      uuid.NewString(),
		Title:   req.Title,
		Slug:    slugOrDerived(req.Slug, req.Title),
		LogoURL: req.LogoURL,
	}
	if err := s.repo.CreateBrand(ctx, brand); err != nil {
		return nil, err
	}
	return brand, nil
}

func (s *taxonomyServiceImpl) UpdateBrand(ctx context.Context, id string, req BrandRequest) (*domain.Brand, error) {
	if req.Title == "" {
		return nil, ErrTitleRequired
	}
	brand := &domain.Brand{
		ID:      id,
		Title:   req.Title,
		Slug:    slugOrDerived(req.Slug, req.Title),
		LogoURL: req.LogoURL,
	}
	if err := s.repo.UpdateBrand(ctx, brand); err != nil {
		return nil, err
	}
	return brand, nil
}

func (s *taxonomyServiceImpl) DeleteBrand(ctx context.Context, id string) error {
	deleted, err := s.repo.DeleteBrand(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return repository.ErrBrandNotFound
	}
	return nil
}

func slugOrDerived(slug, title string) string {
	if slug != "" {
		return slug
	}
	return Slugify(title)
}
