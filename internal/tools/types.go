// In file: internal/tools/types.go

// Package tools implements the agent's tool registry: named, typed callables
// with a declared parameter schema and the validation that guards them.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
)

// Category groups tools by the kind of work they do.
type Category string

const (
	CategoryDataProcessing Category = "data_processing"
	CategoryExternalAPI    Category = "external_api"
	CategoryFileOperation  Category = "file_operation"
	CategoryCalculation    Category = "calculation"
)

// JSONSchema is a small, type-safe subset of JSON Schema used to describe
// tool parameters.
type JSONSchema struct {
	// Type defines the data type for a schema node (e.g., "object", "string", "number").
	Type string `json:"type"`
	// Description explains what a specific parameter is for.
	Description string `json:"description,omitempty"`
	// Properties describes the fields of an object parameter.
	Properties map[string]*JSONSchema `json:"properties,omitempty"`
}

// Params are the named arguments passed to a tool.
type Params map[string]any

// Func is the callable bound to a tool descriptor.
type Func func(ctx context.Context, params Params) (any, error)

// Descriptor is the registry's record of a tool. Descriptors are treated as
// immutable once registered.
type Descriptor struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Category    Category               `json:"category"`
	Parameters  map[string]*JSONSchema `json:"parameters"`
	// Required lists the mandatory parameter names in declaration order.
	Required []string `json:"required"`
	Func     Func     `json:"-"`
}

// String returns the named parameter as a string. Non-string values are formatted.
func (p Params) String(name string) (string, bool) {
	v, ok := p[name]
	if !ok || v == nil {
		return "", false
	}
	switch s := v.(type) {
	case string:
		return s, true
	case fmt.Stringer:
		return s.String(), true
	default:
		return fmt.Sprint(v), true
	}
}

// Int returns the named parameter as an int, accepting the numeric shapes
// produced by JSON decoding and by callers passing native Go values.
func (p Params) Int(name string) (int, bool) {
	switch v := p[name].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	case json.Number:
		n, err := v.Int64()
		return int(n), err == nil
	case string:
		n, err := strconv.Atoi(v)
		return n, err == nil
	}
	return 0, false
}

// Bool returns the named parameter as a bool.
func (p Params) Bool(name string) (bool, bool) {
	switch v := p[name].(type) {
	case bool:
		return v, true
	case string:
		b, err := strconv.ParseBool(v)
		return b, err == nil
	}
	return false, false
}
