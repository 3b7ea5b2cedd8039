package query

import (
	"fmt"
	"reflect"
	"strings"
)

// Filter keeps the items where any of fields contains term, ignoring case.
// Fields are dotted paths resolved through json tag names, struct field names
// and map keys. An empty term returns items unchanged.
func Filter[T any](items []T, term string, fields []string) []T {
	if term == "" {
		return items
	}
	needle := strings.ToLower(term)

	out := make([]T, 0, len(items))
	for _, item := range items {
		for _, field := range fields {
			value, ok := Lookup(item, field)
			if !ok {
				continue
			}
			if strings.Contains(strings.ToLower(value), needle) {
				out = append(out, item)
				break
			}
		}
	}
	return out
}

// Lookup resolves a dotted path on item and renders the value as text. It
// reports false when any segment is missing or nil.
func Lookup(item any, path string) (string, bool) {
	current := reflect.ValueOf(item)
	for _, segment := range strings.Split(path, ".") {
		current = indirect(current)
		if !current.IsValid() {
			return "", false
		}

		switch current.Kind() {
		case reflect.Struct:
			next, ok := structField(current, segment)
			if !ok {
				return "", false
			}
			current = next
		case reflect.Map:
			if current.Type().Key().Kind() != reflect.String {
				return "", false
			}
			next := current.MapIndex(reflect.ValueOf(segment).Convert(current.Type().Key()))
			if !next.IsValid() {
				return "", false
			}
			current = next
		default:
			return "", false
		}
	}

	current = indirect(current)
	if !current.IsValid() {
		return "", false
	}
	if stringer, ok := current.Interface().(fmt.Stringer); ok {
		return stringer.String(), true
	}
	return fmt.Sprint(current.Interface()), true
}

func indirect(v reflect.Value) reflect.Value {
	for v.IsValid() && (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}

func structField(v reflect.Value, name string) (reflect.Value, bool) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		tag := strings.Split(field.Tag.Get("json"), ",")[0]
		if tag == name || (tag == "" && strings.EqualFold(field.Name, name)) {
			return v.Field(i), true
		}
	}
	return reflect.Value{}, false
}
