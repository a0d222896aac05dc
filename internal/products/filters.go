package product

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type fieldKind int

const (
	fieldText fieldKind = iota
	fieldDecimal
	fieldInteger
)

type filterField struct {
	column string
	kind   fieldKind
}

// filterFields whitelists the product fields usable in filters and orderBy,
// keyed by lower-cased public name.
var filterFields = map[string]filterField{
	"title":       {column: "title", kind: fieldText},
	"description": {column: "description", kind: fieldText},
	"category":    {column: "category", kind: fieldText},
	"image":       {column: "image", kind: fieldText},
	"price":       {column: "price", kind: fieldDecimal},
	"rate":        {column: "rating_rate", kind: fieldDecimal},
	"count":       {column: "rating_count", kind: fieldInteger},
}

// orderColumns maps orderBy field names to columns.
var orderColumns = func() map[string]string {
	out := make(map[string]string, len(filterFields))
	for name, field := range filterFields {
		out[name] = field.column
	}
	return out
}()

// reservedQueryKeys are query parameters that never become filters.
var reservedQueryKeys = map[string]struct{}{
	"page":     {},
	"pagesize": {},
	"orderby":  {},
}

type filterOp string

const (
	opEqual    filterOp = "="
	opMin      filterOp = ">="
	opMax      filterOp = "<="
	opContains filterOp = "LIKE"
)

// Filter is one parsed query-string condition.
type Filter struct {
	Column string
	Op     filterOp
	Value  any
}

// ParseFilters converts query-string pairs into filters:
//
//	_min<field>=v   field >= v
//	_max<field>=v   field <= v
//	field=*v*       field contains v
//	field=v         field equals v
//
// Pagination keys are skipped. Unknown fields fail.
func ParseFilters(raw map[string]string) ([]Filter, error) {
	var filters []Filter
	for _, key := range slices.Sorted(maps.Keys(raw)) {
		value := raw[key]
		lowered := strings.ToLower(strings.TrimSpace(key))
		if _, reserved := reservedQueryKeys[lowered]; reserved {
			continue
		}

		op := opEqual
		name := lowered
		switch {
		case strings.HasPrefix(lowered, "_min"):
			op, name = opMin, strings.TrimPrefix(lowered, "_min")
		case strings.HasPrefix(lowered, "_max"):
			op, name = opMax, strings.TrimPrefix(lowered, "_max")
		case strings.Contains(value, "*"):
			op = opContains
		}

		field, ok := filterFields[name]
		if !ok {
			return nil, fmt.Errorf("cannot filter by %q", key)
		}

		parsed, err := parseFilterValue(field, op, value)
		if err != nil {
			return nil, fmt.Errorf("filter %q: %w", key, err)
		}
		filters = append(filters, Filter{Column: field.column, Op: op, Value: parsed})
	}
	return filters, nil
}

func parseFilterValue(field filterField, op filterOp, value string) (any, error) {
	value = strings.TrimSpace(value)
	switch field.kind {
	case fieldText:
		if op == opMin || op == opMax {
			return nil, fmt.Errorf("range filters apply to numeric fields only")
		}
		if op == opContains {
			return "%" + strings.ReplaceAll(value, "*", "") + "%", nil
		}
		return value, nil
	case fieldDecimal:
		if op == opContains {
			return nil, fmt.Errorf("wildcards apply to text fields only")
		}
		d, err := decimal.NewFromString(value)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", value)
		}
		return d, nil
	default:
		if op == opContains {
			return nil, fmt.Errorf("wildcards apply to text fields only")
		}
		n, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("invalid integer %q", value)
		}
		return n, nil
	}
}

// applyFilters returns a scope adding every filter as a WHERE condition.
func applyFilters(filters []Filter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		for _, f := range filters {
			db = db.Where(fmt.Sprintf("%s %s ?", f.Column, f.Op), f.Value)
		}
		return db
	}
}
