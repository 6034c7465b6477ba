// Package search is the full-text product index the listing service
// queries. Implementations may use a Mongo text index, an external search
// cluster, or an in-memory fake for tests.
package search

import (
	"context"

	"github.com/nguyentranbao-ct/product-service/internal/models"
)

// MatchAll is the phrase that matches every document. A blank user query
// must be translated to MatchAll before reaching the index; an empty
// phrase is not a valid search.
const MatchAll = "*"

type Op string

const (
	OpEq  Op = "eq"
	OpNot Op = "not"
	OpLt  Op = "lt"
	OpIn  Op = "in"
)

// Predicate is one structured filter clause.
type Predicate struct {
	Op    Op
	Value any
}

func Eq(v any) Predicate       { return Predicate{Op: OpEq, Value: v} }
func Not(v any) Predicate      { return Predicate{Op: OpNot, Value: v} }
func Lt(v any) Predicate       { return Predicate{Op: OpLt, Value: v} }
func In(vs []string) Predicate { return Predicate{Op: OpIn, Value: vs} }

// Query maps a field name to its predicate. Built fresh per request and
// never mutated after construction.
type Query map[string]Predicate

// Sort is a single-field sort spec. NumericType is a mapping hint for
// backends that sort unmapped fields (the products index stores due_date
// as a long); the Mongo implementation does not need it.
type Sort struct {
	Field       string
	Ascending   bool
	NumericType string
}

// Request is one listing search. Page starts at 1.
type Request struct {
	Phrase  string
	Where   Query
	Sort    Sort
	Page    int
	PerPage int
}

// Result holds one page of matches. Total is the full matching count
// regardless of pagination.
type Result struct {
	Total int64
	Items []models.Product
}

type Index interface {
	Search(ctx context.Context, req Request) (*Result, error)
}
