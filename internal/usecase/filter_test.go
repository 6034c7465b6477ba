package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/nguyentranbao-ct/product-service/internal/search"
)

func fixedFilterBuilder(t *testing.T, now time.Time, tz string) *FilterBuilder {
	t.Helper()
	loc, err := time.LoadLocation(tz)
	assert.NoError(t, err)
	b := NewFilterBuilder(loc)
	b.now = func() time.Time { return now }
	return b
}

func TestFilterBuilderPredicates(t *testing.T) {
	now := time.Date(2026, 8, 29, 15, 30, 0, 0, time.UTC)
	startOfDay := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		param ListingParams
		scope ListingScope
		want  search.Query
	}{
		{
			name:  "mine filters by owner equality",
			param: ListingParams{Status: "active", FilterBy: "mine"},
			scope: ListingScope{CallerID: "u1"},
			want: search.Query{
				"status":     search.Eq("active"),
				"created_by": search.Eq("u1"),
			},
		},
		{
			name:  "others filters by owner inequality",
			param: ListingParams{Status: "active", FilterBy: "others"},
			scope: ListingScope{CallerID: "u1"},
			want: search.Query{
				"status":     search.Eq("active"),
				"created_by": search.Not("u1"),
			},
		},
		{
			name:  "delayed filters by due date before start of today",
			param: ListingParams{Status: "active", FilterBy: "delayed"},
			scope: ListingScope{CallerID: "u1"},
			want: search.Query{
				"status":   search.Eq("active"),
				"due_date": search.Lt(startOfDay),
			},
		},
		{
			name:  "unrecognized filter_by adds no predicate",
			param: ListingParams{Status: "active", FilterBy: "everything"},
			scope: ListingScope{CallerID: "u1"},
			want: search.Query{
				"status": search.Eq("active"),
			},
		},
		{
			name:  "client scope adds tenant predicate",
			param: ListingParams{Status: "deleted", FilterBy: "nope"},
			scope: ListingScope{CallerID: "u1", ClientID: "c9"},
			want: search.Query{
				"status":    search.Eq("deleted"),
				"client_id": search.Eq("c9"),
			},
		},
		{
			name:  "global scope constrains to caller site set",
			param: ListingParams{Status: "active", FilterBy: "mine"},
			scope: ListingScope{CallerID: "u1", SiteIDs: []string{"s1", "s2"}, Global: true},
			want: search.Query{
				"status":     search.Eq("active"),
				"created_by": search.Eq("u1"),
				"site_id":    search.In([]string{"s1", "s2"}),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := fixedFilterBuilder(t, now, "UTC")
			query, _, _ := b.Build(tt.param, tt.scope)
			assert.Equal(t, tt.want, query)
		})
	}
}

func TestFilterBuilderSort(t *testing.T) {
	b := fixedFilterBuilder(t, time.Now(), "UTC")

	_, scoped, _ := b.Build(ListingParams{Status: "active"}, ListingScope{CallerID: "u1"})
	assert.Equal(t, search.Sort{Field: "due_date", Ascending: true, NumericType: "long"}, scoped)

	_, global, _ := b.Build(ListingParams{Status: "active"}, ListingScope{CallerID: "u1", Global: true})
	assert.Equal(t, search.Sort{Field: "due_date", Ascending: false, NumericType: "long"}, global)
}

func TestFilterBuilderPhrase(t *testing.T) {
	b := fixedFilterBuilder(t, time.Now(), "UTC")

	tests := []struct {
		query string
		want  string
	}{
		{query: "", want: search.MatchAll},
		{query: "   ", want: search.MatchAll},
		{query: "ladder", want: "ladder"},
		{query: " ladder ", want: "ladder"},
	}
	for _, tt := range tests {
		_, _, phrase := b.Build(ListingParams{Status: "active", Query: tt.query}, ListingScope{CallerID: "u1"})
		assert.Equal(t, tt.want, phrase)
	}
}

func TestFilterBuilderDayTruncationUsesConfiguredTimezone(t *testing.T) {
	// 01:30 UTC on Aug 29 is still Aug 28 in New York
	now := time.Date(2026, 8, 29, 1, 30, 0, 0, time.UTC)
	b := fixedFilterBuilder(t, now, "America/New_York")

	query, _, _ := b.Build(
		ListingParams{Status: "active", FilterBy: "delayed"},
		ListingScope{CallerID: "u1"},
	)

	pred := query["due_date"]
	assert.Equal(t, search.OpLt, pred.Op)

	cutoff, ok := pred.Value.(time.Time)
	assert.True(t, ok)
	assert.Equal(t, 28, cutoff.Day())
	assert.Equal(t, 0, cutoff.Hour())
	assert.Equal(t, "America/New_York", cutoff.Location().String())
}
