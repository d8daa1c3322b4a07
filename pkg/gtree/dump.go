package gtree

import (
	"bytes"
	"fmt"
	"reflect"
	"strconv"
	"unicode"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// String returns the lower-case name of the constant kind.
func (k ConstKind) String() string {
	switch k {
	case ConstNumber:
		return "number"
	case ConstBool:
		return "bool"
	case ConstNull:
		return "null"
	}
	return "ConstKind(" + strconv.Itoa(int(k)) + ")"
}

// DumpYAML renders the tree rooted at n as YAML. Every node becomes a
// mapping whose first key is its variant under "kind"; zero-valued fields
// are omitted.
func DumpYAML(n Node) ([]byte, error) {
	doc := toYAML(reflect.ValueOf(n))

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encode tree: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode tree: %w", err)
	}
	return buf.Bytes(), nil
}

func toYAML(v reflect.Value) *yaml.Node {
	switch v.Kind() {
	case reflect.Invalid:
		return scalar("!!null", "null")
	case reflect.Interface:
		if v.IsNil() {
			return scalar("!!null", "null")
		}
		return toYAML(v.Elem())
	case reflect.Pointer:
		if v.IsNil() {
			return scalar("!!null", "null")
		}
		kind := ""
		if node, ok := v.Interface().(Node); ok {
			kind = Kind(node)
		}
		return mapping(v.Elem(), kind)
	case reflect.Struct:
		return mapping(v, "")
	case reflect.Slice:
		seq := &yaml.Node{Kind: yaml.SequenceNode}
		for i := range v.Len() {
			seq.Content = append(seq.Content, toYAML(v.Index(i)))
		}
		return seq
	case reflect.String:
		return scalar("!!str", v.String())
	case reflect.Bool:
		return scalar("!!bool", strconv.FormatBool(v.Bool()))
	}
	if s, ok := v.Interface().(fmt.Stringer); ok {
		return scalar("!!str", s.String())
	}
	return scalar("!!str", fmt.Sprint(v.Interface()))
}

func mapping(v reflect.Value, kind string) *yaml.Node {
	m := &yaml.Node{Kind: yaml.MappingNode}
	if kind != "" {
		m.Content = append(m.Content, scalar("!!str", "kind"), scalar("!!str", kind))
	}
	t := v.Type()
	for i := range t.NumField() {
		field := v.Field(i)
		if !t.Field(i).IsExported() || field.IsZero() {
			continue
		}
		m.Content = append(m.Content, scalar("!!str", lowerFirst(t.Field(i).Name)), toYAML(field))
	}
	return m
}

func scalar(tag, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToLower(r)) + s[size:]
}
