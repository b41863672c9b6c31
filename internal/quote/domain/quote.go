package domain

import (
	"errors"
	"regexp"
	"time"
)

// Quote is a request-for-offer submitted by a storefront visitor. Most fields
// are optional context captured from the page the visitor submitted from; only
// name and email are required.
type Quote struct {
	ID        string `json:"id"`
	Reference string `json:"reference"`
	Status    string `json:"status"`

	CustomerName  string  `json:"customer_name"`
	CustomerEmail string  `json:"customer_email"`
	CustomerPhone *string `json:"customer_phone"`
	CompanyName   *string `json:"company_name"`
	VATNumber     *string `json:"vat_number"`

	RequestType string  `json:"request_type"`
	Message     *string `json:"message"`

	ProductID       *string `json:"product_id"`
	ProductName     *string `json:"product_name"`
	ProductCategory *string `json:"product_category"`
	ProductSlug     *string `json:"product_slug"`
	ProductTitle    *string `json:"product_title,omitempty"`

	MachineBrand   *string `json:"machine_brand"`
	MachineModel   *string `json:"machine_model"`
	AttachmentType *string `json:"attachment_type"`

	CartItems []CartItem `json:"cart_items"`

	SourcePage *string `json:"source_page"`
	Industry   *string `json:"industry"`
	Brand      *string `json:"brand"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CartItem is one product line carried in a multi-product quote request.
type CartItem struct {
	ProductID string `json:"product_id"`
	Title     string `json:"title"`
	Slug      string `json:"slug,omitempty"`
	Quantity  int    `json:"quantity"`
}

// SubmitQuoteRequest is the public submission payload.
type SubmitQuoteRequest struct {
	CustomerName  string  `json:"customer_name"`
	CustomerEmail string  `json:"customer_email"`
	CustomerPhone *string `json:"customer_phone"`
	CompanyName   *string `json:"company_name"`
	VATNumber     *string `json:"vat_number"`

	RequestType string  `json:"request_type"`
	Message     *string `json:"message"`

	ProductID       *string `json:"product_id"`
	ProductName     *string `json:"product_name"`
	ProductCategory *string `json:"product_category"`
	ProductSlug     *string `json:"product_slug"`

	MachineBrand   *string `json:"machine_brand"`
	MachineModel   *string `json:"machine_model"`
	AttachmentType *string `json:"attachment_type"`

	CartItems []CartItem `json:"cart_items"`

	SourcePage *string `json:"source_page"`
	Industry   *string `json:"industry"`
	Brand      *string `json:"brand"`
}

const (
	StatusNew        = "new"
	StatusProcessing = "processing"
	StatusQuoted     = "quoted"
	StatusWon        = "won"
	StatusLost       = "lost"
)

const DefaultRequestType = "offerte"

// QuotePage is a paginated admin listing.
type QuotePage struct {
	Quotes []Quote `json:"quotes"`
	Total  int     `json:"total"`
	Limit  int     `json:"limit"`
	Offset int     `json:"offset"`
}

var (
	ErrNameAndEmailRequired = errors.New("customer name and email are required")
	ErrInvalidEmail         = errors.New("invalid email address")
	ErrInvalidStatus        = errors.New("invalid quote status")
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

func ValidStatus(status string) bool {
	switch status {
	case StatusNew, StatusProcessing, StatusQuoted, StatusWon, StatusLost:
		return true
	}
	return false
}
