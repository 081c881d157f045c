package codes

import (
	"reflect"
	"strings"
	"testing"
)

var civilOptions = []Option{
	{Code: "27101", Label: "Divorce"},
	{Code: "27102", Label: "Divorce - Contested"},
	{Code: "27110", Label: "Small Claims"},
	{Code: "27120", Label: "Eviction"},
	{Code: "27121", Label: "Eviction - Commercial"},
}

func TestFilterCodes(t *testing.T) {
	t.Run("single match resolves the code", func(t *testing.T) {
		opts, code := FilterCodes(civilOptions, []Filter{Label("small claims")}, "27101", nil)
		if code != "27110" {
			t.Errorf("resolved code = %q, want 27110", code)
		}
		if len(opts) != 1 || opts[0].Code != "27110" {
			t.Errorf("opts = %+v", opts)
		}
	})

	t.Run("no match returns full list and default", func(t *testing.T) {
		opts, code := FilterCodes(civilOptions, []Filter{Label("probate")}, "27101", nil)
		if code != "27101" {
			t.Errorf("resolved code = %q, want default 27101", code)
		}
		if len(opts) != len(civilOptions) {
			t.Errorf("expected full option list, got %d", len(opts))
		}
	})

	t.Run("multiple matches stay unresolved", func(t *testing.T) {
		opts, code := FilterCodes(civilOptions, []Filter{ContainsAny{"eviction"}}, "27101", nil)
		if code != "" {
			t.Errorf("resolved code = %q, want unresolved", code)
		}
		if len(opts) != 2 {
			t.Errorf("expected both evictions, got %+v", opts)
		}
	})

	t.Run("filters apply most specific first", func(t *testing.T) {
		opts, code := FilterCodes(civilOptions,
			[]Filter{Code("27102"), ContainsAny{"divorce"}}, "", nil)
		if code != "27102" || len(opts) != 1 {
			t.Errorf("got %+v, %q", opts, code)
		}
	})

	t.Run("exclude removes primary matches", func(t *testing.T) {
		opts, code := FilterCodes(civilOptions,
			[]Filter{ContainsAny{"eviction"}}, "", ContainsAny{"commercial"})
		if code != "27120" {
			t.Errorf("resolved code = %q, want 27120", code)
		}
		for _, opt := range opts {
			if strings.Contains(strings.ToLower(opt.Label), "commercial") {
				t.Errorf("excluded option leaked through: %+v", opt)
			}
		}
	})

	t.Run("exact label falls back to contains pass", func(t *testing.T) {
		only := []Option{{Code: "27102", Label: "Divorce - Contested"}}
		opts, code := FilterCodes(only, []Filter{Label("Divorce")}, "", nil)
		if code != "27102" || len(opts) != 1 {
			t.Errorf("got %+v, %q", opts, code)
		}
	})

	t.Run("candidates sorted by label then code", func(t *testing.T) {
		shuffled := []Option{
			{Code: "2", Label: "B"},
			{Code: "1", Label: "B"},
			{Code: "3", Label: "A"},
		}
		opts, _ := FilterCodes(shuffled, []Filter{ContainsAny{"a", "b"}}, "", nil)
		want := []Option{{Code: "3", Label: "A"}, {Code: "1", Label: "B"}, {Code: "2", Label: "B"}}
		if !reflect.DeepEqual(opts, want) {
			t.Errorf("got %+v, want %+v", opts, want)
		}
	})

	t.Run("contains all requires every term", func(t *testing.T) {
		opts, code := FilterCodes(civilOptions,
			[]Filter{ContainsAll{"divorce", "contested"}}, "", nil)
		if code != "27102" || len(opts) != 1 {
			t.Errorf("got %+v, %q", opts, code)
		}
	})

	t.Run("func filter", func(t *testing.T) {
		opts, code := FilterCodes(civilOptions,
			[]Filter{Func(func(o Option) bool { return o.Code == "27110" })}, "", nil)
		if code != "27110" || len(opts) != 1 {
			t.Errorf("got %+v, %q", opts, code)
		}
	})

	t.Run("never mutates the input", func(t *testing.T) {
		original := make([]Option, len(civilOptions))
		copy(original, civilOptions)
		FilterCodes(civilOptions, []Filter{Label("zzz")}, "x", nil)
		if !reflect.DeepEqual(civilOptions, original) {
			t.Error("input list was reordered")
		}
	})
}

func TestCheckDuplicateCodes(t *testing.T) {
	dupes := []Option{{Code: "1", Label: "Fee Waiver"}, {Code: "2", Label: "Fee Waiver"}}
	if !CheckDuplicateCodes(dupes) {
		t.Error("expected duplicate detection")
	}
	if CheckDuplicateCodes(civilOptions) {
		t.Error("expected distinct labels to pass")
	}
	if CheckDuplicateCodes(nil) || CheckDuplicateCodes(civilOptions[:1]) {
		t.Error("expected short lists to pass")
	}
}

func TestChoicesAndMap(t *testing.T) {
	rows := []any{
		map[string]any{"code": "27101", "name": "Divorce", "isactive": true},
		map[string]any{"code": "27110", "name": "Small Claims"},
	}

	opts, codeMap := ChoicesAndMap(rows, "", "")
	if len(opts) != 2 {
		t.Fatalf("expected 2 options, got %d", len(opts))
	}
	if opts[0].Code != "27101" || opts[0].Label != "Divorce" {
		t.Errorf("opts[0] = %+v", opts[0])
	}
	if codeMap["27110"]["name"] != "Small Claims" {
		t.Errorf("map lookup = %+v", codeMap["27110"])
	}

	t.Run("custom display template", func(t *testing.T) {
		opts, _ := ChoicesAndMap(rows, "{name} ({code})", "")
		if opts[0].Label != "Divorce (27101)" {
			t.Errorf("label = %q", opts[0].Label)
		}
	})

	t.Run("missing field renders empty", func(t *testing.T) {
		opts, _ := ChoicesAndMap(rows, "{nonexistent}", "")
		if opts[0].Label != "" {
			t.Errorf("label = %q", opts[0].Label)
		}
	})

	t.Run("nil rows", func(t *testing.T) {
		opts, codeMap := ChoicesAndMap(nil, "", "")
		if len(opts) != 0 || len(codeMap) != 0 {
			t.Errorf("expected empty results, got %v %v", opts, codeMap)
		}
	})

	t.Run("non-map rows skipped", func(t *testing.T) {
		opts, _ := ChoicesAndMap([]any{"garbage", map[string]any{"code": "1", "name": "X"}}, "", "")
		if len(opts) != 1 || opts[0].Code != "1" {
			t.Errorf("got %+v", opts)
		}
	})
}
