// Package xmljson handles the JSON the e-file proxy emits for court records.
// The proxy serializes Java/JAXB objects built from NIEM XML schemas, so every
// leaf arrives wrapped in {"declaredType": ..., "name": ..., "value": ...}
// envelopes and optionality shows up as absent keys or nulls rather than
// types. Everything in this package treats missing data as normal: accessors
// return zero values, never errors, and never panic.
package xmljson

import (
	"log/slog"
	"strconv"
)

// ChainLogger, when set, receives a Debug record for every traversal step
// that fails to resolve. It exists for troubleshooting malformed upstream
// documents and never affects return values.
var ChainLogger *slog.Logger

// Node wraps a single value in a decoded JSON tree. The zero Node is valid
// and stands for "nothing here": every accessor on it returns another zero
// value, so lookups compose without nil checks.
type Node struct {
	v any
}

// Wrap returns a Node over a decoded JSON value.
func Wrap(v any) Node {
	return Node{v: v}
}

// Value returns the underlying decoded value, which may be nil.
func (n Node) Value() any {
	return n.v
}

// IsZero reports whether the node holds nothing usable: nil, an empty
// string, or an empty mapping or sequence.
func (n Node) IsZero() bool {
	switch v := n.v.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case map[string]any:
		return len(v) == 0
	case []any:
		return len(v) == 0
	}
	return false
}

// Map returns the node as a mapping, or nil if it is not one.
func (n Node) Map() map[string]any {
	m, _ := n.v.(map[string]any)
	return m
}

// Slice returns the node as a sequence, or nil if it is not one.
func (n Node) Slice() []any {
	s, _ := n.v.([]any)
	return s
}

// Get looks up a key in a mapping node. Missing keys and non-mapping nodes
// both yield the zero Node.
func (n Node) Get(key string) Node {
	if m, ok := n.v.(map[string]any); ok {
		return Node{v: m[key]}
	}
	return Node{}
}

// Index returns the i-th element of a sequence node, or the zero Node when
// out of range or not a sequence.
func (n Node) Index(i int) Node {
	if s, ok := n.v.([]any); ok && i >= 0 && i < len(s) {
		return Node{v: s[i]}
	}
	return Node{}
}

// First returns the first element of a sequence node.
func (n Node) First() Node {
	return n.Index(0)
}

// Str returns the node's string value, or "" if it is not a string.
func (n Node) Str() string {
	s, _ := n.v.(string)
	return s
}

// Int64 returns the node as an integer. JSON numbers decode as float64 and
// the proxy sometimes emits numerics as strings; both are accepted. Anything
// else yields 0 and false.
func (n Node) Int64() (int64, bool) {
	switch v := n.v.(type) {
	case float64:
		return int64(v), true
	case string:
		i, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, false
		}
		return i, true
	}
	return 0, false
}

// Float64 returns the node as a float, accepting JSON numbers and numeric
// strings the same way Int64 does.
func (n Node) Float64() (float64, bool) {
	switch v := n.v.(type) {
	case float64:
		return v, true
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// Bool returns the node's boolean value, or false if it is not a boolean.
func (n Node) Bool() bool {
	b, _ := n.v.(bool)
	return b
}

// Chain walks steps (string map keys or int sequence indexes) from this
// node. See the package-level Chain for the contract.
func (n Node) Chain(steps ...any) Node {
	return chain(n, steps)
}

// Chain performs a multi-step lookup into a decoded JSON tree. Each step is
// either a string (mapping key) or an int (sequence index). If the current
// value is empty at any step, or a step does not apply to the current shape,
// the walk stops and the zero Node is returned. Chain never panics for any
// input, so callers can keep dereferencing the result.
func Chain(v any, steps ...any) Node {
	return chain(Wrap(v), steps)
}

func chain(n Node, steps []any) Node {
	for i, step := range steps {
		if n.IsZero() {
			logFailedStep(i, steps)
			return Node{}
		}
		var next Node
		switch s := step.(type) {
		case string:
			next = n.Get(s)
		case int:
			next = n.Index(s)
		default:
			next = Node{}
		}
		if next.v == nil && !isTraversable(n, step) {
			logFailedStep(i, steps)
			return Node{}
		}
		n = next
	}
	return n
}

// isTraversable reports whether applying step to n could ever succeed, for
// diagnostic purposes only. A missing map key is a normal empty result; a
// string key against a sequence is a shape mismatch worth logging.
func isTraversable(n Node, step any) bool {
	switch step.(type) {
	case string:
		return n.Map() != nil
	case int:
		return n.Slice() != nil
	}
	return false
}

func logFailedStep(idx int, steps []any) {
	if ChainLogger == nil {
		return
	}
	ChainLogger.Debug("chain lookup stopped short",
		"step", idx,
		"remaining", steps[idx:],
	)
}
