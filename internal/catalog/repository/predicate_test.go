package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/grondverzet/machinery-cms/internal/catalog/domain"
)

func intPtr(v int) *int { return &v }

func TestFilterPredicates_Additive(t *testing.T) {
	t.Run("No criteria yields only the active guard", func(t *testing.T) {
		preds := FilterPredicates(domain.FilterCriteria{})

		assert.Len(t, preds, 1)
		assert.Equal(t, "p.is_active", preds[0].Column)
		assert.Equal(t, OpEq, preds[0].Op)
		assert.Equal(t, true, preds[0].Value)
	})

	t.Run("IncludeInactive drops the active guard", func(t *testing.T) {
		preds := FilterPredicates(domain.FilterCriteria{IncludeInactive: true})
		assert.Empty(t, preds)
	})

	t.Run("Each added filter adds a clause without removing others", func(t *testing.T) {
		base := domain.FilterCriteria{Width: intPtr(600)}
		combined := domain.FilterCriteria{Width: intPtr(600), AttachmentType: "CW20"}

		basePreds := FilterPredicates(base)
		combinedPreds := FilterPredicates(combined)

		assert.Len(t, combinedPreds, len(basePreds)+1)
		// Intersection semantics: every clause of the narrower filter is
		// present in the wider one.
		for _, p := range basePreds {
			assert.Contains(t, combinedPreds, p)
		}
		assert.Contains(t, combinedPreds, Predicate{"p.attachment_type", OpEq, "CW20"})
	})
}

func TestFilterPredicates_WeightContainment(t *testing.T) {
	preds := FilterPredicates(domain.FilterCriteria{IncludeInactive: true, ExcavatorWeight: intPtr(12)})

	// A machine weight expands into a range-containment pair.
	assert.Equal(t, []Predicate{
		{"p.excavator_weight_min", OpLte, 12},
		{"p.excavator_weight_max", OpGte, 12},
	}, preds)
}

func TestFilterPredicates_VolumeBounds(t *testing.T) {
	preds := FilterPredicates(domain.FilterCriteria{
		IncludeInactive: true,
		VolumeMin:       intPtr(100),
		VolumeMax:       intPtr(500),
	})

	assert.Equal(t, []Predicate{
		{"p.volume", OpGte, 100},
		{"p.volume", OpLte, 500},
	}, preds)
}

func TestBuildWhere(t *testing.T) {
	t.Run("Empty input yields no clause", func(t *testing.T) {
		where, args := BuildWhere(nil, "")
		assert.Empty(t, where)
		assert.Empty(t, args)
	})

	t.Run("Predicates join with AND and number placeholders in order", func(t *testing.T) {
		preds := []Predicate{
			{"p.is_active", OpEq, true},
			{"c.slug", OpEq, "graafbakken"},
			{"p.width", OpEq, 600},
		}
		where, args := BuildWhere(preds, "")

		assert.Equal(t, " WHERE p.is_active = $1 AND c.slug = $2 AND p.width = $3", where)
		assert.Equal(t, []interface{}{true, "graafbakken", 600}, args)
	})

	t.Run("Search becomes one OR clause sharing a single parameter", func(t *testing.T) {
		preds := []Predicate{{"p.is_active", OpEq, true}}
		where, args := BuildWhere(preds, "slotenbak")

		assert.Equal(t,
			" WHERE p.is_active = $1 AND (p.title ILIKE $2 OR p.description ILIKE $2)",
			where)
		assert.Equal(t, []interface{}{true, "%slotenbak%"}, args)
	})

	t.Run("Search alone still produces a WHERE clause", func(t *testing.T) {
		where, args := BuildWhere(nil, "cw40")

		assert.Equal(t, " WHERE (p.title ILIKE $1 OR p.description ILIKE $1)", where)
		assert.Equal(t, []interface{}{"%cw40%"}, args)
	})
}

func TestOrderClause(t *testing.T) {
	assert.Equal(t, "p.title ASC", orderClause(domain.SortTitleAsc))
	assert.Equal(t, "p.title DESC", orderClause(domain.SortTitleDesc))
	assert.Equal(t, "p.created_at ASC", orderClause(domain.SortOldest))
	assert.Equal(t, "p.created_at DESC", orderClause(domain.SortNewest))

	t.Run("Unknown keys fall back to newest-first", func(t *testing.T) {
		assert.Equal(t, "p.created_at DESC", orderClause("price; DROP TABLE products"))
		assert.Equal(t, "p.created_at DESC", orderClause(""))
	})
}
