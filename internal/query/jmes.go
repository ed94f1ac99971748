// Package query filters timeline records with JMESPath expressions.
package query

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/jmespath/go-jmespath"

	"github.com/vlogscan/vlogscan-go/pkg/vlog/record"
)

// Filter is a compiled JMESPath expression evaluated against the JSON
// projection of a record. A truthy result keeps the record.
type Filter struct {
	expr *jmespath.JMESPath
	src  string
}

// NewFilter compiles a JMESPath expression, e.g.
//
//	category == 'network'
//	subject == 'alice' && action == 'login'
//	fields[?key=='port'] | [0].value == '4444'
func NewFilter(expression string) (*Filter, error) {
	compiled, err := jmespath.Compile(expression)
	if err != nil {
		return nil, fmt.Errorf("invalid filter expression: %w", err)
	}
	return &Filter{expr: compiled, src: expression}, nil
}

// Match evaluates the filter against one record.
func (f *Filter) Match(rec record.Record) (bool, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return false, fmt.Errorf("encoding record: %w", err)
	}
	var input any
	if err := json.Unmarshal(data, &input); err != nil {
		return false, fmt.Errorf("decoding record: %w", err)
	}

	res, err := f.expr.Search(input)
	if err != nil {
		return false, fmt.Errorf("filter %q: %w", f.src, err)
	}
	return truthy(res), nil
}

// Apply returns the records matching the filter, preserving order.
func (f *Filter) Apply(recs []record.Record) ([]record.Record, error) {
	var out []record.Record
	for _, rec := range recs {
		ok, err := f.Match(rec)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, rec)
		}
	}
	return out, nil
}

// truthy follows JMESPath semantics: false, null, empty strings, and empty
// collections are false; everything else is true.
func truthy(v any) bool {
	if v == nil {
		return false
	}
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return t != ""
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len() > 0
	}
	return true
}
