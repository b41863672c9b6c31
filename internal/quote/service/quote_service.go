package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/grondverzet/machinery-cms/internal/quote/domain"
	"github.com/grondverzet/machinery-cms/internal/quote/repository"
)

const (
	defaultListLimit = 50
	maxListLimit     = 500
)

type QuoteService interface {
	Submit(ctx context.Context, req domain.SubmitQuoteRequest) (*domain.Quote, error)
	List(ctx context.Context, status string, limit, offset int) (*domain.QuotePage, error)
	UpdateStatus(ctx context.Context, id, status string) (*domain.Quote, error)
	Delete(ctx context.Context, id string) error
}

type quoteServiceImpl struct {
	repo     repository.QuoteRepository
	now      func() time.Time
	randRead func([]byte) (int, error)
}

func NewQuoteService(repo repository.QuoteRepository) QuoteService {
	return &quoteServiceImpl{repo: repo, now: time.Now, randRead: rand.Read}
}

func (s *quoteServiceImpl) Submit(ctx context.Context, req domain.SubmitQuoteRequest) (*domain.Quote, error) {
	if req.CustomerName == "" || req.CustomerEmail == "" {
		return nil, domain.ErrNameAndEmailRequired
	}
	if !domain.ValidEmail(req.CustomerEmail) {
		return nil, domain.ErrInvalidEmail
	}

	requestType := req.RequestType
	if requestType == "" {
		requestType = domain.DefaultRequestType
	}

	reference, err := s.newReference()
	if err != nil {
		return nil, err
	}

	q := &domain.Quote{
		ID:              uuid.NewString(),
		Reference:       reference,
		Status:          domain.StatusNew,
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		CustomerPhone:   req.CustomerPhone,
		CompanyName:     req.CompanyName,
		VATNumber:       req.VATNumber,
		RequestType:     requestType,
		Message:         req.Message,
		ProductID:       req.ProductID,
		ProductName:     req.ProductName,
		ProductCategory: req.ProductCategory,
		ProductSlug:     req.ProductSlug,
		MachineBrand:    req.MachineBrand,
		MachineModel:    req.MachineModel,
		AttachmentType:  req.AttachmentType,
		CartItems:       req.CartItems,
		SourcePage:      req.SourcePage,
		Industry:        req.Industry,
		Brand:           req.Brand,
	}
	if err := s.repo.Insert(ctx, q); err != nil {
		return nil, err
	}
	return q, nil
}

// newReference builds a human-quotable reference of the form
// STR-202609-A1B2C3: a year-month bucket plus six random base36 characters.
func (s *quoteServiceImpl) newReference() (string, error) {
	const charset = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	buf := make([]byte, 6)
	if _, err := s.randRead(buf); err != nil {
		return "", fmt.Errorf("generate quote reference: %w", err)
	}
	for i := range buf {
		buf[i] = charset[int(buf[i])%len(charset)]
	}
	return fmt.Sprintf("STR-%s-%s", s.now().Format("200601"), buf), nil
}

func (s *quoteServiceImpl) List(ctx context.Context, status string, limit, offset int) (*domain.QuotePage, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		offset = 0
	}

	quotes, err := s.repo.List(ctx, status, limit, offset)
	if err != nil {
		return nil, err
	}
	total, err := s.repo.Count(ctx, status)
	if err != nil {
		return nil, err
	}
	return &domain.QuotePage{Quotes: quotes, Total: total, Limit: limit, Offset: offset}, nil
}

func (s *quoteServiceImpl) UpdateStatus(ctx context.Context, id, status string) (*domain.Quote, error) {
	if !domain.ValidStatus(status) {
		return nil, domain.ErrInvalidStatus
	}
	return s.repo.UpdateStatus(ctx, id, status)
}

func (s *quoteServiceImpl) Delete(ctx context.Context, id string) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return repository.ErrQuoteNotFound
	}
	return nil
}
