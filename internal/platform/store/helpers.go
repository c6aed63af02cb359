package store

import (
	"context"
	"reflect"
	"strings"
)

// Many maps every row through scan
func Many[T any](ctx context.Context, q RowQuerier, scan func(Row) (T, error), sql string, args ...any) ([]T, error) {
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

// StructsByName maps every row into T, pairing columns with `db` tags or field names.
// Columns without a matching field are scanned and discarded.
func StructsByName[T any](ctx context.Context, q RowQuerier, sql string, args ...any) ([]T, error) {
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rt := reflect.TypeOf((*T)(nil)).Elem()
	var (
		out    []T
		target []int // field index per column, -1 when unmatched
		vals   []any
		ptrs   []any
	)
	for rows.Next() {
		if target == nil {
			target = columnTargets(rt, rows.Columns())
			vals = make([]any, len(target))
			ptrs = make([]any, len(target))
			for i := range vals {
				ptrs[i] = &vals[i]
			}
		}
		clear(vals)
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		var item T
		rv := reflect.ValueOf(&item).Elem()
		for i, idx := range target {
			if idx >= 0 {
				assign(rv.Field(idx), vals[i])
			}
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

// columnTargets resolves each column to a field of t by lowercased db tag, else field name
func columnTargets(t reflect.Type, cols []string) []int {
	byName := make(map[string]int, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		key := f.Tag.Get("db")
		if key == "-" {
			continue
		}
		if key == "" {
			key = f.Name
		}
		byName[strings.ToLower(key)] = i
	}
	out := make([]int, len(cols))
	for i, c := range cols {
		idx, ok := byName[strings.ToLower(c)]
		if !ok {
			idx = -1
		}
		out[i] = idx
	}
	return out
}

// assign sets dst from a driver value; nil zeroes, incompatible values are skipped
func assign(dst reflect.Value, src any) {
	if !dst.CanSet() {
		return
	}
	if src == nil {
		dst.Set(reflect.Zero(dst.Type()))
		return
	}
	sv := reflect.ValueOf(src)
	switch {
	case sv.Type().AssignableTo(dst.Type()):
		dst.Set(sv)
	case dst.Kind() == reflect.String:
		if b, ok := src.([]byte); ok {
			dst.SetString(string(b))
		}
	case sv.Type().ConvertibleTo(dst.Type()):
		dst.Set(sv.Convert(dst.Type()))
	}
}
