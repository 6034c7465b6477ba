package usecase

import (
	"strings"
	"time"

	"github.com/nguyentranbao-ct/product-service/internal/search"
)

const (
	FilterByMine    = "mine"
	FilterByOthers  = "others"
	FilterByDelayed = "delayed"
)

// ListingParams are the declared listing parameters after binding, with
// defaults already applied (page 1, per 20, filter_by mine).
type ListingParams struct {
	Status   string
	FilterBy string
	Query    string
	Page     int
	Per      int
}

// ListingScope is everything the caller's identity contributes to the
// query. SiteIDs is set for the global variant only; Global also flips
// the sort direction.
type ListingScope struct {
	CallerID string
	ClientID string
	SiteIDs  []string
	Global   bool
}

// FilterBuilder turns listing parameters into a structured query, a sort
// spec and a search phrase. Pure data transformation, no error paths.
type FilterBuilder struct {
	loc *time.Location
	now func() time.Time
}

func NewFilterBuilder(loc *time.Location) *FilterBuilder {
	return &FilterBuilder{
		loc: loc,
		now: time.Now,
	}
}

func (b *FilterBuilder) Build(params ListingParams, scope ListingScope) (search.Query, search.Sort, string) {
	query := search.Query{
		"status": search.Eq(params.Status),
	}
	if scope.ClientID != "" {
		query["client_id"] = search.Eq(scope.ClientID)
	}

	// unrecognized filter_by values pass through without a predicate
	switch params.FilterBy {
	case FilterByMine:
		query["created_by"] = search.Eq(scope.CallerID)
	case FilterByOthers:
		query["created_by"] = search.Not(scope.CallerID)
	case FilterByDelayed:
		query["due_date"] = search.Lt(b.startOfToday())
	}

	if scope.Global {
		query["site_id"] = search.In(scope.SiteIDs)
	}

	sort := search.Sort{
		Field:       "due_date",
		Ascending:   !scope.Global,
		NumericType: "long",
	}

	phrase := strings.TrimSpace(params.Query)
	if phrase == "" {
		// an empty phrase would match nothing in the index
		phrase = search.MatchAll
	}

	return query, sort, phrase
}

func (b *FilterBuilder) startOfToday() time.Time {
	now := b.now().In(b.loc)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, b.loc)
}
