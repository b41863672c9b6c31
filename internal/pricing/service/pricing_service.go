package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/grondverzet/machinery-cms/internal/pricing/domain"
	"github.com/grondverzet/machinery-cms/internal/pricing/repository"
)

// PricingService resolves the single applicable price for a viewer and
// owns the write-side price operations.
type PricingService interface {
	// Resolve returns the price to show a viewer, or (nil, nil) when no
	// record applies: an absent price is a normal "contact for quote"
	// outcome, not an error.
	Resolve(ctx context.Context, productID string, customerID *string) (*domain.PriceRecord, error)

	History(ctx context.Context, productID string) ([]domain.PriceRecord, error)
	SetPrice(ctx context.Context, req domain.SetPriceRequest) (*domain.PriceRecord, error)
	BulkSetPrices(ctx context.Context, reqs []domain.SetPriceRequest) (int, error)
	UpdatePrice(ctx context.Context, id string, upd domain.PriceUpdate) (*domain.PriceRecord, error)
	DeletePrice(ctx context.Context, id string) error
}

type pricingServiceImpl struct {
	repo repository.PriceRepository
	now  func() time.Time
}

func NewPricingService(repo repository.PriceRepository) PricingService {
	return &pricingServiceImpl{repo: repo, now: time.Now}
}

// Resolve applies the precedence policy: the most recent valid record scoped
// to the requesting customer wins; otherwise the most recent valid general
// record; otherwise the price is unavailable. A customer-scoped override
// never mutates the general price, so it falls away cleanly on expiry.
func (s *pricingServiceImpl) Resolve(ctx context.Context, productID string, customerID *string) (*domain.PriceRecord, error) {
	if customerID != nil && *customerID != "" {
		records, err := s.repo.CustomerPrices(ctx, productID, *customerID)
		if err != nil {
			return nil, err
		}
		if rec := s.firstValid(records); rec != nil {
			return rec, nil
		}
	}

	records, err := s.repo.GeneralPrices(ctx, productID)
	if err != nil {
		return nil, err
	}
	return s.firstValid(records), nil
}

// firstValid re-checks time validity against the service clock; the storage
// query already filters, but the resolver must not depend on that.
func (s *pricingServiceImpl) firstValid(records []domain.PriceRecord) *domain.PriceRecord {
	now := s.now()
	for i := range records {
		if records[i].Valid(now) {
			return &records[i]
		}
	}
	return nil
}

func (s *pricingServiceImpl) History(ctx context.Context, productID string) ([]domain.PriceRecord, error) {
	return s.repo.History(ctx, productID)
}

// SetPrice persists the canonical two-decimal rendering of the submitted
// value, so "007" and "7" land as the same "7.00".
func (s *pricingServiceImpl) SetPrice(ctx context.Context, req domain.SetPriceRequest) (*domain.PriceRecord, error) {
	amount, err := domain.ParsePrice(req.Price)
	if err != nil {
		return nil, err
	}

	rec := &domain.PriceRecord{
		ID:         uuid.NewString(),
		ProductID:  req.ProductID,
		Price:      domain.CanonicalPrice(amount),
		CustomerID: req.CustomerID,
		ValidUntil: req.ValidUntil,
	}
	if err := s.repo.Insert(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// BulkSetPrices validates every entry before inserting any, so a malformed
// price rejects the whole batch instead of applying it partially.
func (s *pricingServiceImpl) BulkSetPrices(ctx context.Context, reqs []domain.SetPriceRequest) (int, error) {
	amounts := make([]decimal.Decimal, len(reqs))
	for i, req := range reqs {
		amount, err := domain.ParsePrice(req.Price)
		if err != nil {
			return 0, err
		}
		amounts[i] = amount
	}

	count := 0
	for i, req := range reqs {
		rec := &domain.PriceRecord{
			ID:         uuid.NewString(),
			ProductID:  req.ProductID,
			Price:      domain.CanonicalPrice(amounts[i]),
			CustomerID: req.CustomerID,
			ValidUntil: req.ValidUntil,
		}
		if err := s.repo.Insert(ctx, rec); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

func (s *pricingServiceImpl) UpdatePrice(ctx context.Context, id string, upd domain.PriceUpdate) (*domain.PriceRecord, error) {
	if upd.Price.Set {
		amount, err := domain.ParsePrice(upd.Price.Value)
		if err != nil {
			return nil, err
		}
		upd.Price.Value = domain.CanonicalPrice(amount)
	}
	return s.repo.Update(ctx, id, upd)
}

func (s *pricingServiceImpl) DeletePrice(ctx context.Context, id string) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return repository.ErrPriceNotFound
	}
	return nil
}
