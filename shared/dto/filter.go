package dto

import (
	"fmt"
	"maps"
	"reflect"
	"strings"
)

const (
	FilterOperatorEq    = "eq"
	FilterOperatorLike  = "like"
	FilterOperatorIn    = "in"
	FilterOperatorNotEq = "not_eq"
	FilterIsNotNull     = "is_not_null"
	FilterIsNull        = "is_null"
)

const (
	FilterGroupOperatorAnd = "AND"
	FilterGroupOperatorOr  = "OR"
)

// Filter is a single predicate rendered with sqlx named parameters.
// Field and Table are interpolated into SQL and must never come from user input.
type Filter struct {
	ArgName  string
	Field    string
	Value    any
	Operator string
	Table    string
}

func (f *Filter) GetWhereClause() (string, map[string]any) {
	args := map[string]any{}

	column := f.Field
	if f.Table != "" {
		column = fmt.Sprintf("%s.%s", f.Table, f.Field)
	}

	argName := f.ArgName
	if argName == "" {
		argName = f.Field
	}

	switch f.Operator {
	case FilterOperatorEq:
		args[argName] = f.Value

		return fmt.Sprintf("%s = :%s", column, argName), args
	case FilterOperatorLike:
		args[argName] = fmt.Sprintf("%%%s%%", f.Value)

		return fmt.Sprintf("LOWER(%s) LIKE LOWER(:%s)", column, argName), args
	case FilterOperatorIn:
		val := reflect.ValueOf(f.Value)
		if val.Kind() != reflect.Slice && val.Kind() != reflect.Array {
			return "", args
		}

		if val.Len() == 0 {
			return "FALSE", args
		}

		named := make([]string, val.Len())

		for idx := range val.Len() {
			args[fmt.Sprintf("%s_%d", argName, idx)] = val.Index(idx).Interface()

			named[idx] = fmt.Sprintf(":%s_%d", argName, idx)
		}

		return fmt.Sprintf("%s IN (%s)", column, strings.Join(named, ", ")), args
	case FilterOperatorNotEq:
		args[argName] = f.Value

		return fmt.Sprintf("%s != :%s", column, argName), args
	case FilterIsNotNull:
		return column + " IS NOT NULL", args
	case FilterIsNull:
		return column + " IS NULL", args
	default:
		return "", args
	}
}

// FilterGroup joins filters (or nested groups) with Operator, AND when unset.
type FilterGroup struct {
	Filters  []any
	Operator string
}

func (f *FilterGroup) GetWhereClause() (string, map[string]any) {
	args := map[string]any{}
	whereClause := []string{}

	for _, filter := range f.Filters {
		var (
			where string
			arg   map[string]any
		)

		switch fill := filter.(type) {
		case Filter:
			where, arg = fill.GetWhereClause()
		case FilterGroup:
			where, arg = fill.GetWhereClause()
		default:
			continue
		}

		if where == "" {
			continue
		}

		whereClause = append(whereClause, where)

		maps.Copy(args, arg)
	}

	if len(whereClause) == 0 {
		return "", args
	}

	operator := f.Operator
	if operator == "" {
		operator = FilterGroupOperatorAnd
	}

	return fmt.Sprintf("(%s)", strings.Join(whereClause, " "+operator+" ")), args
}

// Value returns the value of the first equality filter on field, searching nested groups.
func (f *FilterGroup) Value(field string) (any, bool) {
	for _, filter := range f.Filters {
		switch fill := filter.(type) {
		case Filter:
			if fill.Field == field && fill.Operator == FilterOperatorEq {
				return fill.Value, true
			}
		case FilterGroup:
			if val, ok := fill.Value(field); ok {
				return val, true
			}
		}
	}

	return nil, false
}
