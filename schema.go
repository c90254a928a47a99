package fieldex

import (
	"encoding"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
)

const tagKey = "fieldex"

// schemaMeta holds parsed struct tag metadata, cached per TypedIndex.
type schemaMeta struct {
	typ    reflect.Type
	idIdx  int
	fields []fieldMapping
}

type fieldMapping struct {
	structIdx int
	name      string
	tag       Tag
}

var (
	timeType          = reflect.TypeFor[time.Time]()
	textMarshalerType = reflect.TypeFor[encoding.TextMarshaler]()
	stringerType      = reflect.TypeFor[fmt.Stringer]()
)

// parseSchema reflects on T and extracts fieldex struct tag metadata.
func parseSchema[T any]() (*schemaMeta, error) {
	t := reflect.TypeFor[T]()
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("fieldex: type %s is not a struct", t)
	}

	meta := &schemaMeta{typ: t, idIdx: -1}
	seen := make(map[string]string)

	for i := range t.NumField() {
		f := t.Field(i)
		tag := f.Tag.Get(tagKey)
		if tag == "" || tag == "-" {
			continue
		}
		if !f.IsExported() {
			return nil, fmt.Errorf("fieldex: tagged field %s is not exported", f.Name)
		}
		if err := applyTag(meta, i, f.Name, tag, seen); err != nil {
			return nil, err
		}
	}

	if meta.idIdx == -1 {
		return nil, fmt.Errorf("fieldex: no field with `fieldex:\",id\"` tag in %s", t)
	}
	return meta, nil
}

// applyTag processes a single struct field's fieldex tag.
func applyTag(meta *schemaMeta, idx int, goName, tag string, seen map[string]string) error {
	name, typ, _ := strings.Cut(tag, ",")
	name = strings.TrimSpace(name)
	typ = strings.TrimSpace(typ)

	switch typ {
	case "id":
		if meta.idIdx != -1 {
			return fmt.Errorf("fieldex: duplicate id tag on field %s", goName)
		}
		meta.idIdx = idx
		return nil
	case "":
		return fmt.Errorf("fieldex: field %s: type is required", goName)
	}

	if name == "" {
		name = strings.ToLower(goName)
	}
	if prev, ok := seen[name]; ok {
		return fmt.Errorf("fieldex: fields %s and %s both map to %q", prev, goName, name)
	}
	seen[name] = goName
	meta.fields = append(meta.fields, fieldMapping{structIdx: idx, name: name, tag: Tag(typ)})
	return nil
}

// toValues converts a typed struct to its document id and raw values.
// Nil pointers and empty slices are left out.
func (m *schemaMeta) toValues(item any) (DocID, map[string]string, error) {
	v := reflect.ValueOf(item)
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return "", nil, fmt.Errorf("fieldex: nil %s", m.typ)
		}
		v = v.Elem()
	}

	id, ok := formatValue(v.Field(m.idIdx))
	if !ok {
		return "", nil, fmt.Errorf("fieldex: %s has no id", m.typ)
	}

	values := make(map[string]string, len(m.fields))
	for _, fm := range m.fields {
		text, ok := formatValue(v.Field(fm.structIdx))
		if !ok {
			continue
		}
		values[fm.name] = text
	}
	return DocID(id), values, nil
}

// formatValue renders a struct field as raw text the built-in types parse.
func formatValue(v reflect.Value) (string, bool) {
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return "", false
		}
		v = v.Elem()
	}

	if v.Type() == timeType {
		t, _ := v.Interface().(time.Time)
		if t.IsZero() {
			return "", false
		}
		return t.Format(time.RFC3339), true
	}
	if v.Type().Implements(textMarshalerType) {
		b, err := v.Interface().(encoding.TextMarshaler).MarshalText()
		if err != nil {
			return "", false
		}
		return string(b), true
	}
	if v.Type().Implements(stringerType) {
		return v.Interface().(fmt.Stringer).String(), true
	}

	switch v.Kind() {
	case reflect.String:
		return v.String(), true
	case reflect.Bool:
		return strconv.FormatBool(v.Bool()), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(v.Uint(), 10), true
	case reflect.Float32:
		return strconv.FormatFloat(v.Float(), 'g', -1, 32), true
	case reflect.Float64:
		return strconv.FormatFloat(v.Float(), 'g', -1, 64), true
	case reflect.Slice, reflect.Array:
		parts := make([]string, 0, v.Len())
		for i := range v.Len() {
			if s, ok := formatValue(v.Index(i)); ok {
				parts = append(parts, s)
			}
		}
		if len(parts) == 0 {
			return "", false
		}
		return strings.Join(parts, " "), true
	default:
		return fmt.Sprint(v.Interface()), true
	}
}
