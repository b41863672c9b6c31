package service

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/grondverzet/machinery-cms/internal/catalog/domain"
	"github.com/grondverzet/machinery-cms/internal/catalog/repository"
)

var (
	ErrTitleRequired         = errors.New("title is required")
	ErrInvalidAttachmentType = errors.New("invalid attachment type")
	ErrInvalidWeightRange    = errors.New("excavator_weight_min must not exceed excavator_weight_max")
	ErrNegativeStock         = errors.New("stock_quantity must not be negative")
)

const defaultFeaturedLimit = 6

type CatalogService interface {
	ListProducts(ctx context.Context, f domain.FilterCriteria) (*domain.ProductPage, error)
	GetProduct(ctx context.Context, idOrSlug string) (*domain.Product, error)
	FeaturedProducts(ctx context.Context, limit int) ([]domain.Product, error)
	FilterOptions(ctx context.Context) (*domain.FilterOptions, error)

	ListAdmin(ctx context.Context) ([]domain.Product, error)
	CreateProduct(ctx context.Context, req domain.CreateProductRequest) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id string, upd domain.ProductUpdate) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id string) error
}

type catalogServiceImpl struct {
	repo repository.ProductRepository
}

func NewCatalogService(repo repository.ProductRepository) CatalogService {
	return &catalogServiceImpl{repo: repo}
}

// ListProducts fetches the page and the total concurrently. Both sides run
// the identical predicate set, so the total always matches the page's
// filter.
func (s *catalogServiceImpl) ListProducts(ctx context.Context, f domain.FilterCriteria) (*domain.ProductPage, error) {
	type listResult struct {
		products []domain.Product
		err      error
	}
	type countResult struct {
		total int
		err   error
	}

	listChan := make(chan listResult, 1)
	countChan := make(chan countResult, 1)

	go func() {
		products, err := s.repo.List(ctx, f)
		listChan <- listResult{products: products, err: err}
	}()
	go func() {
		total, err := s.repo.Count(ctx, f)
		countChan <- countResult{total: total, err: err}
	}()

	lr := <-listChan
	cr := <-countChan
	if lr.err != nil {
		return nil, lr.err
	}
	if cr.err != nil {
		return nil, cr.err
	}

	return &domain.ProductPage{
		Products: lr.products,
		Total:    cr.total,
		Limit:    f.Limit,
		Offset:   f.EffectiveOffset(),
	}, nil
}

// GetProduct accepts either a product id or a slug; UUIDs go to the id
// lookup, everything else is treated as a slug.
func (s *catalogServiceImpl) GetProduct(ctx context.Context, idOrSlug string) (*domain.Product, error) {
	if _, err := uuid.Parse(idOrSlug); err == nil {
		return s.repo.GetByID(ctx, idOrSlug)
	}
	return s.repo.GetBySlug(ctx, idOrSlug)
}

func (s *catalogServiceImpl) FeaturedProducts(ctx context.Context, limit int) ([]domain.Product, error) {
	if limit <= 0 {
		limit = defaultFeaturedLimit
	}
	return s.repo.List(ctx, domain.FilterCriteria{FeaturedOnly: true, Limit: limit})
}

func (s *catalogServiceImpl) FilterOptions(ctx context.Context) (*domain.FilterOptions, error) {
	return s.repo.FilterOptions(ctx)
}

func (s *catalogServiceImpl) ListAdmin(ctx context.Context) ([]domain.Product, error) {
	return s.repo.ListAdmin(ctx)
}

func (s *catalogServiceImpl) CreateProduct(ctx context.Context, req domain.CreateProductRequest) (*domain.Product, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, ErrTitleRequired
	}

	slug := req.Slug
	if slug == "" {
		slug = Slugify(req.Title)
	}

	// The write path validates strictly; the read filter deliberately does
	// not (an unknown code there just matches nothing).
	if req.AttachmentType != nil && !domain.IsValidAttachmentType(*req.AttachmentType) {
		return nil, ErrInvalidAttachmentType
	}
	if req.ExcavatorWeightMin != nil && req.ExcavatorWeightMax != nil &&
		*req.ExcavatorWeightMin > *req.ExcavatorWeightMax {
		return nil, ErrInvalidWeightRange
	}

	stock := 0
	if req.StockQuantity != nil {
		stock = *req.StockQuantity
	}
	if stock < 0 {
		return nil, ErrNegativeStock
	}

	featured := req.IsFeatured != nil && *req.IsFeatured
	active := req.IsActive == nil || *req.IsActive // default active

	if existing, err := s.repo.GetBySlug(ctx, slug); err == nil && existing != nil {
		return nil, repository.ErrSlugConflict
	} else if err != nil && !errors.Is(err, repository.ErrProductNotFound) {
		return nil, err
	}

	p := &domain.Product{
		ID:                 uuid.NewString(),
		Title:              req.Title,
		Slug:               slug,
		Description:        req.Description,
		CategoryID:         req.CategoryID,
		SubcategoryID:      req.SubcategoryID,
		BrandID:            req.BrandID,
		ExcavatorWeightMin: req.ExcavatorWeightMin,
		ExcavatorWeightMax: req.ExcavatorWeightMax,
		Width:              req.Width,
		Volume:             req.Volume,
		Weight:             req.Weight,
		AttachmentType:     req.AttachmentType,
		Images:             req.Images,
		Specs:              req.Specs,
		StockQuantity:      stock,
		IsFeatured:         featured,
		IsActive:           active,
	}
	if p.Images == nil {
		p.Images = []string{}
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, p.ID)
}

func (s *catalogServiceImpl) UpdateProduct(ctx context.Context, id string, upd domain.ProductUpdate) (*domain.Product, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.AttachmentType.Set && upd.AttachmentType.Value != nil &&
		!domain.IsValidAttachmentType(*upd.AttachmentType.Value) {
		return nil, ErrInvalidAttachmentType
	}
	if upd.StockQuantity.Set && upd.StockQuantity.Value < 0 {
		return nil, ErrNegativeStock
	}

	// Weight-range invariant holds against the merged record, not just the
	// supplied fields.
	weightMin := existing.ExcavatorWeightMin
	weightMax := existing.ExcavatorWeightMax
	if upd.ExcavatorWeightMin.Set {
		weightMin = upd.ExcavatorWeightMin.Value
	}
	if upd.ExcavatorWeightMax.Set {
		weightMax = upd.ExcavatorWeightMax.Value
	}
	if weightMin != nil && weightMax != nil && *weightMin > *weightMax {
		return nil, ErrInvalidWeightRange
	}

	if upd.Slug.Set && upd.Slug.Value != existing.Slug {
		if other, err := s.repo.GetBySlug(ctx, upd.Slug.Value); err == nil && other != nil {
			return nil, repository.ErrSlugConflict
		} else if err != nil && !errors.Is(err, repository.ErrProductNotFound) {
			return nil, err
		}
	}

	return s.repo.Update(ctx, id, upd)
}

func (s *catalogServiceImpl) DeleteProduct(ctx context.Context, id string) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return repository.ErrProductNotFound
	}
	return nil
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives a URL-safe slug from a product title.
func Slugify(title string) string {
	slug := slugPattern.ReplaceAllString(strings.ToLower(title), "-")
	return strings.Trim(slug, "-")
}
