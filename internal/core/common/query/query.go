// Package query holds the paging and ordering parameters shared by the
// listing endpoints.
package query

import (
	"strings"

	"github.com/dchesque/app-loja/internal/store"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100

	DefaultOrderBy = "created_at"
	OrderAsc       = "asc"
	OrderDesc      = "desc"
)

// Page is embedded by the list queries. Each resource declares its own
// OrderBy field so the column whitelist lives next to the resource.
type Page struct {
	Page           int    `json:"page"`
	PageSize       int    `json:"pageSize"`
	OrderDirection string `json:"orderDirection" validate:"omitempty,oneof=asc desc"`
}

// Normalize applies defaults and clamps pageSize into [1, MaxPageSize].
func (p *Page) Normalize() {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	p.OrderDirection = strings.ToLower(p.OrderDirection)
	if p.OrderDirection == "" {
		p.OrderDirection = OrderDesc
	}
}

// Order sorts by column, or by created_at when column is empty.
func (p Page) Order(column string) *store.Order {
	if column == "" {
		column = DefaultOrderBy
	}
	return &store.Order{Column: column, Descending: p.OrderDirection != OrderAsc}
}

func (p Page) Pagination() *store.Pagination {
	return &store.Pagination{Page: p.Page, PageSize: p.PageSize}
}

// Like returns a substring filter, or nil for an empty value so the gateway
// skips it.
func Like(v string) any {
	if v == "" {
		return nil
	}
	return store.Like(v)
}

// Eq returns an equality filter, or nil for an empty value.
func Eq(v string) any {
	if v == "" {
		return nil
	}
	return v
}
