package xmljson

import (
	"encoding/json"
	"testing"
)

func decode(t *testing.T, raw string) any {
	t.Helper()
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		t.Fatalf("failed to decode fixture: %v", err)
	}
	return v
}

func TestChain(t *testing.T) {
	doc := decode(t, `{
		"value": {
			"caseTrackingID": {"value": "ABC-123"},
			"rest": [
				{"declaredType": "first"},
				{"declaredType": "second"}
			]
		}
	}`)

	t.Run("resolves nested keys", func(t *testing.T) {
		got := Chain(doc, "value", "caseTrackingID", "value").Str()
		if got != "ABC-123" {
			t.Errorf("expected ABC-123, got %q", got)
		}
	})

	t.Run("resolves sequence indexes", func(t *testing.T) {
		got := Chain(doc, "value", "rest", 1, "declaredType").Str()
		if got != "second" {
			t.Errorf("expected second, got %q", got)
		}
	})

	t.Run("missing key yields zero node", func(t *testing.T) {
		n := Chain(doc, "value", "noSuchKey", "value", "deeper")
		if !n.IsZero() {
			t.Errorf("expected zero node, got %v", n.Value())
		}
	})

	t.Run("out of range index yields zero node", func(t *testing.T) {
		n := Chain(doc, "value", "rest", 99, "declaredType")
		if !n.IsZero() {
			t.Errorf("expected zero node, got %v", n.Value())
		}
	})

	t.Run("string step against sequence yields zero node", func(t *testing.T) {
		n := Chain(doc, "value", "rest", "notAnIndex")
		if !n.IsZero() {
			t.Errorf("expected zero node, got %v", n.Value())
		}
	})

	t.Run("int step against mapping yields zero node", func(t *testing.T) {
		n := Chain(doc, "value", 0)
		if !n.IsZero() {
			t.Errorf("expected zero node, got %v", n.Value())
		}
	})
}

// Chain must never panic, whatever the tree or the path.
func TestChainNeverPanics(t *testing.T) {
	inputs := []any{
		nil,
		"scalar",
		42.0,
		true,
		map[string]any{},
		[]any{},
		map[string]any{"a": nil},
		[]any{nil, map[string]any{"b": []any{1.0}}},
	}
	paths := [][]any{
		{},
		{"a"},
		{"a", "b", "c", "d", "e"},
		{0},
		{-1},
		{100},
		{"a", 0, "b", 3},
		{3.14}, // not a valid step type at all
	}
	for _, in := range inputs {
		for _, path := range paths {
			func() {
				defer func() {
					if r := recover(); r != nil {
						t.Fatalf("Chain(%v, %v) panicked: %v", in, path, r)
					}
				}()
				_ = Chain(in, path...)
			}()
		}
	}
}

func TestNodeAccessors(t *testing.T) {
	t.Run("zero node chains safely", func(t *testing.T) {
		var n Node
		got := n.Get("a").Index(0).Chain("b", 1, "c")
		if !got.IsZero() {
			t.Errorf("expected zero node, got %v", got.Value())
		}
	})

	t.Run("int64 accepts numbers and strings", func(t *testing.T) {
		if v, ok := Wrap(1653000000000.0).Int64(); !ok || v != 1653000000000 {
			t.Errorf("float: got %d, %v", v, ok)
		}
		if v, ok := Wrap("1653000000000").Int64(); !ok || v != 1653000000000 {
			t.Errorf("string: got %d, %v", v, ok)
		}
		if _, ok := Wrap("not a number").Int64(); ok {
			t.Error("expected failure for non-numeric string")
		}
		if _, ok := Wrap(nil).Int64(); ok {
			t.Error("expected failure for nil")
		}
	})

	t.Run("is zero", func(t *testing.T) {
		for _, v := range []any{nil, "", map[string]any{}, []any{}} {
			if !Wrap(v).IsZero() {
				t.Errorf("expected %#v to be zero", v)
			}
		}
		for _, v := range []any{"x", 0.0, false, map[string]any{"k": nil}, []any{nil}} {
			if Wrap(v).IsZero() {
				t.Errorf("expected %#v to be non-zero", v)
			}
		}
	})
}
