package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/wippyai/tangle/errors"
)

// loadDocument reads a YAML or JSON file into a raw structured value.
func loadDocument(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Load("read document", err)
	}
	return decodeDocument(data)
}

func decodeDocument(data []byte) (map[string]any, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Load("decode document", err)
	}
	if doc == nil {
		return map[string]any{}, nil
	}
	switch doc.(type) {
	case map[string]any, map[any]any:
	default:
		return nil, errors.InvalidData(errors.PhaseLoad, nil,
			fmt.Sprintf("document root must be a mapping, got %T", doc))
	}
	return normalize(doc).(map[string]any), nil
}

// normalize converts decoded YAML into map[string]any trees. Sequences become
// maps keyed by element index so every element gets an endpoint.
func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, e := range t {
			t[k] = normalize(e)
		}
		return t
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[fmt.Sprint(k)] = normalize(e)
		}
		return out
	case []any:
		out := make(map[string]any, len(t))
		for i, e := range t {
			out[strconv.Itoa(i)] = normalize(e)
		}
		return out
	default:
		return v
	}
}

// parseValue decodes a command-line value as a YAML scalar or flow collection.
func parseValue(s string) (any, error) {
	var v any
	if err := yaml.Unmarshal([]byte(s), &v); err != nil {
		return nil, errors.Load(fmt.Sprintf("parse value %q", s), err)
	}
	return normalize(v), nil
}

// assignment is one -set path=value pair.
type assignment struct {
	value any
	path  string
}

func parseAssignment(s string) (assignment, error) {
	path, raw, ok := strings.Cut(s, "=")
	if !ok || path == "" {
		return assignment{}, errors.InvalidArgument(errors.PhaseLoad,
			fmt.Sprintf("expected path=value, got %q", s))
	}
	v, err := parseValue(raw)
	if err != nil {
		return assignment{}, err
	}
	return assignment{path: strings.Trim(path, "/"), value: v}, nil
}

// setFlags collects repeated -set flags.
type setFlags []string

func (s *setFlags) String() string { return strings.Join(*s, ",") }

func (s *setFlags) Set(v string) error {
	*s = append(*s, v)
	return nil
}
