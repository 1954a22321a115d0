package store

import (
	"fmt"
	"reflect"
	"sort"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Filters maps column names to match conditions:
//
//	plain value  -> column = value
//	slice        -> column IN (values)
//	Range        -> any of >, >=, <, <=, LIKE %v%
//
// nil values are ignored.
type Filters map[string]any

// Range holds comparison bounds for one column. Unset fields are ignored.
type Range struct {
	GT   any
	GTE  any
	LT   any
	LTE  any
	Like string
}

// Like is shorthand for a substring match.
func Like(s string) Range {
	return Range{Like: s}
}

// Expressions turns the filter map into gorm clauses, sorted by column so
// the generated SQL is stable.
func (f Filters) Expressions() ([]clause.Expression, error) {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var exprs []clause.Expression
	for _, key := range keys {
		col := clause.Column{Name: key}
		switch v := f[key].(type) {
		case nil:
			continue
		case Range:
			exprs = append(exprs, v.expressions(col)...)
		case *Range:
			if v != nil {
				exprs = append(exprs, v.expressions(col)...)
			}
		case []byte:
			exprs = append(exprs, clause.Eq{Column: col, Value: v})
		default:
			rv := reflect.ValueOf(v)
			switch rv.Kind() {
			case reflect.Slice, reflect.Array:
				values := make([]any, rv.Len())
				for i := range values {
					values[i] = rv.Index(i).Interface()
				}
				exprs = append(exprs, clause.IN{Column: col, Values: values})
			case reflect.Map, reflect.Func, reflect.Chan:
				return nil, fmt.Errorf("unsupported filter value for %q: %T", key, v)
			default:
				exprs = append(exprs, clause.Eq{Column: col, Value: v})
			}
		}
	}
	return exprs, nil
}

func (r Range) expressions(col clause.Column) []clause.Expression {
	var exprs []clause.Expression
	if r.GT != nil {
		exprs = append(exprs, clause.Gt{Column: col, Value: r.GT})
	}
	if r.GTE != nil {
		exprs = append(exprs, clause.Gte{Column: col, Value: r.GTE})
	}
	if r.LT != nil {
		exprs = append(exprs, clause.Lt{Column: col, Value: r.LT})
	}
	if r.LTE != nil {
		exprs = append(exprs, clause.Lte{Column: col, Value: r.LTE})
	}
	if r.Like != "" {
		exprs = append(exprs, clause.Like{Column: col, Value: "%" + r.Like + "%"})
	}
	return exprs
}

func (f Filters) apply(q *gorm.DB) (*gorm.DB, error) {
	exprs, err := f.Expressions()
	if err != nil {
		return nil, err
	}
	for _, e := range exprs {
		q = q.Where(e)
	}
	return q, nil
}
