package pagination

import (
	"fmt"
	"strings"

	"gorm.io/gorm/clause"
)

const (
	// DefaultPage is used when a page number is not provided.
	DefaultPage = 1
	// DefaultPageSize is the standard page size when one is not provided.
	DefaultPageSize = 10
	// MaxPageSize caps how many rows any page query can request.
	MaxPageSize = 100
)

// Params holds offset pagination inputs from controllers or services.
type Params struct {
	Page     int
	PageSize int
	OrderBy  string
}

// Normalize fills in defaults for unset values.
func (p Params) Normalize() Params {
	if p.Page == 0 {
		p.Page = DefaultPage
	}
	if p.PageSize == 0 {
		p.PageSize = DefaultPageSize
	}
	p.OrderBy = strings.TrimSpace(p.OrderBy)
	return p
}

// Validate rejects out of range values. Call after Normalize.
func (p Params) Validate() error {
	if p.Page < 1 {
		return fmt.Errorf("page must be greater than or equal to 1")
	}
	if p.PageSize < 1 || p.PageSize > MaxPageSize {
		return fmt.Errorf("pageSize must be between 1 and %d", MaxPageSize)
	}
	return nil
}

// Offset returns the number of rows to skip for the requested page.
func (p Params) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.PageSize
}

// TotalPages rounds up totalItems / pageSize.
func TotalPages(totalItems int64, pageSize int) int {
	if pageSize <= 0 || totalItems <= 0 {
		return 0
	}
	return int((totalItems + int64(pageSize) - 1) / int64(pageSize))
}

// Page is one slice of a larger ordered result set.
type Page[T any] struct {
	Items       []T
	TotalItems  int64
	CurrentPage int
	TotalPages  int
}

// NewPage assembles a Page from the query params and the total row count.
func NewPage[T any](items []T, totalItems int64, params Params) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Items:       items,
		TotalItems:  totalItems,
		CurrentPage: params.Page,
		TotalPages:  TotalPages(totalItems, params.PageSize),
	}
}

// ParseOrderBy turns "field [asc|desc], field2 [asc|desc]" into order clauses.
// allowed maps lower-cased public field names to column names.
func ParseOrderBy(raw string, allowed map[string]string) ([]clause.OrderByColumn, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	var columns []clause.OrderByColumn
	for _, part := range strings.Split(raw, ",") {
		tokens := strings.Fields(part)
		if len(tokens) == 0 || len(tokens) > 2 {
			return nil, fmt.Errorf("invalid orderBy segment %q", strings.TrimSpace(part))
		}

		column, ok := allowed[strings.ToLower(tokens[0])]
		if !ok {
			return nil, fmt.Errorf("cannot order by %q", tokens[0])
		}

		desc := false
		if len(tokens) == 2 {
			switch strings.ToLower(tokens[1]) {
			case "asc":
			case "desc":
				desc = true
			default:
				return nil, fmt.Errorf("invalid order direction %q", tokens[1])
			}
		}

		columns = append(columns, clause.OrderByColumn{
			Column: clause.Column{Name: column},
			Desc:   desc,
		})
	}
	return columns, nil
}
