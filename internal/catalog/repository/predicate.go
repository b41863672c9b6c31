package repository

import (
	"fmt"
	"strings"

	"github.com/grondverzet/machinery-cms/internal/catalog/domain"
)

type Op string

const (
	OpEq  Op = "="
	OpLte Op = "<="
	OpGte Op = ">="
)

// Predicate is one typed filter clause. Columns only ever come from
// FilterPredicates, values always travel as query parameters, so no client
// input is ever concatenated into SQL.
type Predicate struct {
	Column string
	Op     Op
	Value  interface{}
}

// FilterPredicates translates criteria into the ordered predicate list
// shared by List and Count. Both must see the identical predicate set or
// "page N of M" displays drift.
func FilterPredicates(f domain.FilterCriteria) []Predicate {
	var preds []Predicate

	if !f.IncludeInactive {
		preds = append(preds, Predicate{"p.is_active", OpEq, true})
	}
	if f.CategoryID != "" {
		preds = append(preds, Predicate{"p.category_id", OpEq, f.CategoryID})
	}
	if f.CategorySlug != "" {
		preds = append(preds, Predicate{"c.slug", OpEq, f.CategorySlug})
	}
	if f.SubcategoryID != "" {
		preds = append(preds, Predicate{"p.subcategory_id", OpEq, f.SubcategoryID})
	}
	if f.SubcategorySlug != "" {
		preds = append(preds, Predicate{"sc.slug", OpEq, f.SubcategorySlug})
	}
	if f.BrandID != "" {
		preds = append(preds, Predicate{"p.brand_id", OpEq, f.BrandID})
	}
	if f.BrandSlug != "" {
		preds = append(preds, Predicate{"b.slug", OpEq, f.BrandSlug})
	}
	if f.AttachmentType != "" {
		preds = append(preds, Predicate{"p.attachment_type", OpEq, f.AttachmentType})
	}
	if f.ExcavatorWeight != nil {
		// Containment: the product's compatibility range must include the
		// supplied machine weight.
		preds = append(preds,
			Predicate{"p.excavator_weight_min", OpLte, *f.ExcavatorWeight},
			Predicate{"p.excavator_weight_max", OpGte, *f.ExcavatorWeight},
		)
	}
	if f.VolumeMin != nil {
		preds = append(preds, Predicate{"p.volume", OpGte, *f.VolumeMin})
	}
	if f.VolumeMax != nil {
		preds = append(preds, Predicate{"p.volume", OpLte, *f.VolumeMax})
	}
	if f.Width != nil {
		preds = append(preds, Predicate{"p.width", OpEq, *f.Width})
	}
	if f.FeaturedOnly {
		preds = append(preds, Predicate{"p.is_featured", OpEq, true})
	}

	return preds
}

// BuildWhere renders predicates into a parameterized WHERE clause with
// placeholders starting at $1. A non-empty search term becomes a single
// (title OR description) ILIKE clause sharing one parameter, ANDed with the
// rest.
func BuildWhere(preds []Predicate, search string) (string, []interface{}) {
	var clauses []string
	var args []interface{}
	idx := 1

	for _, p := range preds {
		clauses = append(clauses, fmt.Sprintf("%s %s $%d", p.Column, p.Op, idx))
		args = append(args, p.Value)
		idx++
	}

	if search != "" {
		clauses = append(clauses,
			fmt.Sprintf("(p.title ILIKE $%d OR p.description ILIKE $%d)", idx, idx))
		args = append(args, "%"+search+"%")
		idx++
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// orderClause maps the normalized sort key onto a fixed ORDER BY expression.
// Keys are whitelisted here, never interpolated from input.
func orderClause(sort string) string {
	switch sort {
	case domain.SortTitleAsc:
		return "p.title ASC"
	case domain.SortTitleDesc:
		return "p.title DESC"
	case domain.SortOldest:
		return "p.created_at ASC"
	default:
		return "p.created_at DESC"
	}
}
