package domain

import "time"

// Product is a catalog item: an excavator attachment with its physical
// attributes and taxonomy references. Joined taxonomy titles/slugs are
// populated on reads for storefront rendering.
type Product struct {
	ID            string  `json:"id"`
	Title         string  `json:"title"`
	Slug          string  `json:"slug"`
	Description   *string `json:"description,omitempty"`
	CategoryID    *string `json:"category_id,omitempty"`
	SubcategoryID *string `json:"subcategory_id,omitempty"`
	BrandID       *string `json:"brand_id,omitempty"`

	ExcavatorWeightMin *int    `json:"excavator_weight_min,omitempty"`
	ExcavatorWeightMax *int    `json:"excavator_weight_max,omitempty"`
	Width              *int    `json:"width,omitempty"`
	Volume             *int    `json:"volume,omitempty"`
	Weight             *int    `json:"weight,omitempty"`
	AttachmentType     *string `json:"attachment_type,omitempty"`

	Images        []string          `json:"images"`
	Specs         map[string]string `json:"specs,omitempty"`
	StockQuantity int               `json:"stock_quantity"`
	IsFeatured    bool              `json:"is_featured"`
	IsActive      bool              `json:"is_active"`

	CategoryTitle    *string `json:"category_title,omitempty"`
	CategorySlug     *string `json:"category_slug,omitempty"`
	SubcategoryTitle *string `json:"subcategory_title,omitempty"`
	SubcategorySlug  *string `json:"subcategory_slug,omitempty"`
	BrandTitle       *string `json:"brand_title,omitempty"`
	BrandSlug        *string `json:"brand_slug,omitempty"`

	// CurrentPrice is only populated on the admin overview listing.
	CurrentPrice *string `json:"current_price,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Category struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Subcategory struct {
	ID          string    `json:"id"`
	CategoryID  string    `json:"category_id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CategoryDetail is a category with its subcategories, for the public
// taxonomy endpoints.
type CategoryDetail struct {
	Category
	Subcategories []Subcategory `json:"subcategories"`
}

type Brand struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Slug      string    `json:"slug"`
	LogoURL   *string   `json:"logo_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AttachmentTypes is the whitelist of quick-coupler codes accepted on the
// admin write path. The public read path deliberately does not validate
// against it: an unknown code simply matches no products.
var AttachmentTypes = []string{
	"CW00", "CW05", "CW10", "CW20", "CW30", "CW40", "CW45",
	"S40", "S50", "S60", "S70", "S80",
}

func IsValidAttachmentType(code string) bool {
	for _, t := range AttachmentTypes {
		if t == code {
			return true
		}
	}
	return false
}

// CreateProductRequest is the admin create payload. Slug is generated from
// the title when absent.
type CreateProductRequest struct {
	Title              string            `json:"title"`
	Slug               string            `json:"slug"`
	Description        *string           `json:"description"`
	CategoryID         *string           `json:"category_id"`
	SubcategoryID      *string           `json:"subcategory_id"`
	BrandID            *string           `json:"brand_id"`
	ExcavatorWeightMin *int              `json:"excavator_weight_min"`
	ExcavatorWeightMax *int              `json:"excavator_weight_max"`
	Width              *int              `json:"width"`
	Volume             *int              `json:"volume"`
	Weight             *int              `json:"weight"`
	AttachmentType     *string           `json:"attachment_type"`
	Images             []string          `json:"images"`
	Specs              map[string]string `json:"specs"`
	StockQuantity      *int              `json:"stock_quantity"`
	IsFeatured         *bool             `json:"is_featured"`
	IsActive           *bool             `json:"is_active"`
	Price              *string           `json:"price"`
}

// ProductUpdate carries partial-update semantics: only fields with Set=true
// are written, and a Set pointer field holding nil clears the column.
type ProductUpdate struct {
	Title              Optional[string]            `json:"title"`
	Slug               Optional[string]            `json:"slug"`
	Description        Optional[*string]           `json:"description"`
	CategoryID         Optional[*string]           `json:"category_id"`
	SubcategoryID      Optional[*string]           `json:"subcategory_id"`
	BrandID            Optional[*string]           `json:"brand_id"`
	ExcavatorWeightMin Optional[*int]              `json:"excavator_weight_min"`
	ExcavatorWeightMax Optional[*int]              `json:"excavator_weight_max"`
	Width              Optional[*int]              `json:"width"`
	Volume             Optional[*int]              `json:"volume"`
	Weight             Optional[*int]              `json:"weight"`
	AttachmentType     Optional[*string]           `json:"attachment_type"`
	Images             Optional[[]string]          `json:"images"`
	Specs              Optional[map[string]string] `json:"specs"`
	StockQuantity      Optional[int]               `json:"stock_quantity"`
	IsFeatured         Optional[bool]              `json:"is_featured"`
	IsActive           Optional[bool]              `json:"is_active"`
}

// ProductPage is one page of results plus the total match count computed
// from the identical predicate set.
type ProductPage struct {
	Products []Product `json:"products"`
	Total    int       `json:"total"`
	Limit    int       `json:"limit,omitempty"`
	Offset   int       `json:"offset"`
}

// FilterOptions feeds the storefront filter UI with the values that
// actually occur in the active catalog.
type FilterOptions struct {
	AttachmentTypes []string  `json:"attachment_types"`
	Widths          []int     `json:"widths"`
	Volume          *IntRange `json:"volume"`
	ExcavatorWeight *IntRange `json:"excavator_weight"`
}

type IntRange struct {
	Min *int `json:"min"`
	Max *int `json:"max"`
}
