package domain

// Sort keys accepted by the product listing. Anything else falls back to
// SortNewest rather than erroring.
const (
	SortTitleAsc  = "title_asc"
	SortTitleDesc = "title_desc"
	SortNewest    = "newest"
	SortOldest    = "oldest"
)

// MaxPageSize caps the result set when a caller supplies no limit.
const MaxPageSize = 500

// FilterCriteria is the normalized representation of a catalog read
// request. Every field is optional and additive: a zero field means "no
// constraint". It is built fresh per request and never persisted.
type FilterCriteria struct {
	CategoryID      string
	CategorySlug    string
	SubcategoryID   string
	SubcategorySlug string
	BrandID         string
	BrandSlug       string

	// AttachmentType is matched verbatim; unknown codes yield empty results.
	AttachmentType string

	// ExcavatorWeight is a containment filter: it matches products whose
	// [weight_min, weight_max] range includes the value.
	ExcavatorWeight *int

	VolumeMin *int
	VolumeMax *int
	Width     *int

	// Search is a case-insensitive substring match on title OR description.
	Search string

	FeaturedOnly bool

	// IncludeInactive is only set by the administrative variant.
	IncludeInactive bool

	Sort   string
	Limit  int
	Offset int
}

// NormalizedSort resolves the sort key, defaulting unknown or absent values
// to newest-first.
func (f FilterCriteria) NormalizedSort() string {
	switch f.Sort {
	case SortTitleAsc, SortTitleDesc, SortNewest, SortOldest:
		return f.Sort
	default:
		return SortNewest
	}
}

// EffectiveLimit bounds the page size: absent or out-of-range limits fall
// back to the implementation cap.
func (f FilterCriteria) EffectiveLimit() int {
	if f.Limit <= 0 || f.Limit > MaxPageSize {
		return MaxPageSize
	}
	return f.Limit
}

// EffectiveOffset clamps negative offsets to zero.
func (f FilterCriteria) EffectiveOffset() int {
	if f.Offset < 0 {
		return 0
	}
	return f.Offset
}
