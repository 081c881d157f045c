// Package codes selects court-specific codes (case types, filing types,
// party types) out of reference lists served by the proxy's codes service.
// Court code tables are messy: the same label shows up with different codes
// across courts, and interviews need to pre-select a code without asking
// the user when the answer is unambiguous. The filter engine here applies
// match descriptions from most to least specific and gives up gracefully,
// returning the whole list plus a default, when nothing matches.
package codes

import (
	"sort"
	"strings"

	"github.com/samber/lo"
)

// Option is one (code, label) pair from a court's reference list. The
// engine never mutates option lists, only selects and reorders copies.
type Option struct {
	Code  string `json:"code" yaml:"code"`
	Label string `json:"label" yaml:"label"`
}

// Matcher is a compiled predicate over options.
type Matcher func(Option) bool

// Filter describes one way of matching an option. Descriptions stay as
// plain data until FilterCodes runs so they can live in configuration and
// survive serialization; compilation to a Matcher happens at search time.
type Filter interface {
	compile() Matcher
}

// Code matches an option whose code equals the literal exactly.
type Code string

func (c Code) compile() Matcher {
	return func(opt Option) bool { return opt.Code == string(c) }
}

// Label matches an option whose label equals the literal, ignoring case
// and surrounding whitespace.
type Label string

func (l Label) compile() Matcher {
	want := normalizeLabel(string(l))
	return func(opt Option) bool { return normalizeLabel(opt.Label) == want }
}

// labelContains is the weaker pass MakeFilters derives from each Label.
func (l Label) contains() Matcher {
	want := strings.ToLower(string(l))
	return func(opt Option) bool {
		return strings.Contains(strings.ToLower(opt.Label), want)
	}
}

// ContainsAll matches an option whose label contains every search term,
// case-insensitively.
type ContainsAll []string

func (c ContainsAll) compile() Matcher {
	terms := lo.Map(c, func(s string, _ int) string { return strings.ToLower(s) })
	return func(opt Option) bool {
		label := strings.ToLower(opt.Label)
		return lo.EveryBy(terms, func(term string) bool {
			return strings.Contains(label, term)
		})
	}
}

// ContainsAny matches an option whose label contains at least one of the
// search terms, case-insensitively.
type ContainsAny []string

func (c ContainsAny) compile() Matcher {
	terms := lo.Map(c, func(s string, _ int) string { return strings.ToLower(s) })
	return func(opt Option) bool {
		label := strings.ToLower(opt.Label)
		return lo.SomeBy(terms, func(term string) bool {
			return strings.Contains(label, term)
		})
	}
}

// Func wraps an arbitrary predicate as a Filter.
type Func Matcher

func (f Func) compile() Matcher {
	if f == nil {
		return matchNothing
	}
	return Matcher(f)
}

func matchNothing(Option) bool { return false }

func normalizeLabel(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// MakeFilter compiles a single filter description. A nil filter matches
// nothing, which is the useful default for an absent exclude.
func MakeFilter(f Filter) Matcher {
	if f == nil {
		return matchNothing
	}
	return f.compile()
}

// MakeFilters compiles an ordered filter list. After the given filters, a
// weaker "label contains" pass is appended for every exact Label filter,
// so an interview that asks for "Divorce" still finds "Divorce - Contested"
// when no exact label exists.
func MakeFilters(filters []Filter) []Matcher {
	matchers := lo.Map(filters, func(f Filter, _ int) Matcher { return MakeFilter(f) })
	for _, f := range filters {
		if label, ok := f.(Label); ok {
			matchers = append(matchers, label.contains())
		}
	}
	return matchers
}

// FilterCodes applies filters from most to least specific, stopping at the
// first one that leaves any candidates after exclusions. Returns the
// candidate list sorted by label then code, plus the resolved code:
//
//   - exactly one candidate: that list and its code;
//   - several candidates: that list and "" so the caller can ask the user;
//   - no candidates at all: the full option list and defaultCode, so the
//     interview proceeds with a sane pre-selection instead of stalling.
func FilterCodes(options []Option, filters []Filter, defaultCode string, exclude Filter) ([]Option, string) {
	excluded := MakeFilter(exclude)

	var candidates []Option
	for _, match := range MakeFilters(filters) {
		candidates = lo.Filter(options, func(opt Option, _ int) bool {
			return match(opt) && !excluded(opt)
		})
		if len(candidates) > 0 {
			break
		}
	}

	sortOptions(candidates)
	switch len(candidates) {
	case 1:
		return candidates, candidates[0].Code
	case 0:
		all := make([]Option, len(options))
		copy(all, options)
		sortOptions(all)
		return all, defaultCode
	default:
		return candidates, ""
	}
}

// sortOptions orders by label then code for stable display.
func sortOptions(opts []Option) {
	sort.Slice(opts, func(i, j int) bool {
		if opts[i].Label != opts[j].Label {
			return opts[i].Label < opts[j].Label
		}
		return opts[i].Code < opts[j].Code
	})
}

// CheckDuplicateCodes reports whether a list of options differs only in
// code, which means showing labels alone would give the user an impossible
// choice.
func CheckDuplicateCodes(options []Option) bool {
	if len(options) <= 1 {
		return false
	}
	first := options[0].Label
	return lo.EveryBy(options, func(opt Option) bool { return opt.Label == first })
}
