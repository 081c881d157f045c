package cases

import (
	"context"
	"log/slog"

	"github.com/openefiling/efmkit/internal/efm"
	"github.com/openefiling/efmkit/internal/notify"
	"github.com/openefiling/efmkit/internal/xmljson"
)

// DefaultWindowSize is how many cases get the expensive detail fetch up
// front. The rest are hydrated lazily as the user pages through results,
// to cap the up-front waiting on wide searches.
const DefaultWindowSize = 8

// SearchProxy is the slice of the proxy client the searcher needs.
type SearchProxy interface {
	CaseFetcher
	GetCases(ctx context.Context, courtID string, party *efm.PartyQuery, docketNumber string) efm.Response
}

// SearcherConfig configures a Searcher.
type SearcherConfig struct {
	Proxy      SearchProxy
	Notifier   notify.Notifier
	Roles      Roles
	WindowSize int
	Logger     *slog.Logger
}

// Searcher runs case searches and rations detail fetches across a paging
// window. It is synchronous: every fetch completes before the next record
// is touched, so records are never exposed half-built.
type Searcher struct {
	proxy      SearchProxy
	notifier   notify.Notifier
	roles      Roles
	windowSize int
	logger     *slog.Logger
}

// NewSearcher creates a Searcher, applying defaults for anything unset.
func NewSearcher(cfg SearcherConfig) *Searcher {
	if cfg.WindowSize <= 0 {
		cfg.WindowSize = DefaultWindowSize
	}
	if cfg.Notifier == nil {
		cfg.Notifier = notify.Nop{}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Searcher{
		proxy:      cfg.Proxy,
		notifier:   cfg.Notifier,
		roles:      cfg.Roles,
		windowSize: cfg.WindowSize,
		logger:     cfg.Logger,
	}
}

// SearchResult is the outcome of one party-name search.
type SearchResult struct {
	// OK is false when the search call itself failed; Cases is empty then.
	OK bool `json:"ok" yaml:"ok"`

	// CMSConnectionIssue is set when the proxy answered 203: results came
	// back but the court's case-management system link is degraded, so
	// they may be stale or incomplete.
	CMSConnectionIssue bool `json:"cms_connection_issue,omitempty" yaml:"cms_connection_issue,omitempty"`

	Cases []*CaseRecord `json:"cases" yaml:"cases"`
}

// SearchByName searches a court's cases by party name. Results come back
// newest first (the proxy returns oldest first, and nobody is looking for
// cases from last century); only the first window's worth get the full
// detail fetch. The optional keep filter lets callers drop cases from the
// selection list as they are built.
func (s *Searcher) SearchByName(ctx context.Context, courtID string, party *efm.PartyQuery, keep func(*CaseRecord) bool) SearchResult {
	return s.search(ctx, courtID, party, "", keep)
}

// SearchByDocket searches a court's cases by docket number. Same windowing
// and ordering as SearchByName.
func (s *Searcher) SearchByDocket(ctx context.Context, courtID, docketNumber string) SearchResult {
	return s.search(ctx, courtID, nil, docketNumber, nil)
}

func (s *Searcher) search(ctx context.Context, courtID string, party *efm.PartyQuery, docketNumber string, keep func(*CaseRecord) bool) SearchResult {
	resp := s.proxy.GetCases(ctx, courtID, party, docketNumber)
	result := SearchResult{
		CMSConnectionIssue: resp.ResponseCode == 203,
	}
	if !resp.IsOk() {
		s.notifier.Error("get cases failed when searching for case", &resp)
		return result
	}
	result.OK = true

	entries := xmljson.Wrap(resp.Data).Slice()
	for i := len(entries) - 1; i >= 0; i-- {
		idx := len(entries) - 1 - i
		shouldFetch := idx < s.windowSize
		rec := ParseCaseInfo(ctx, s.proxy, entries[i], courtID, shouldFetch, s.roles, s.notifier)
		if keep != nil && !keep(rec) {
			continue
		}
		result.Cases = append(result.Cases, rec)
	}
	return result
}

// ShiftDirection selects which way ShiftWindow moves.
type ShiftDirection string

const (
	ShiftPrev ShiftDirection = "prev"
	ShiftNext ShiftDirection = "next"
)

// ShiftWindow moves the hydrated window across a result list as the user
// pages, returning the new [start, end) bounds clamped to the list. Every
// record inside the new window that has not been hydrated yet gets its
// detail fetch; already-hydrated records are left alone when paged over
// again.
func (s *Searcher) ShiftWindow(ctx context.Context, results []*CaseRecord, direction ShiftDirection, startIdx int) (int, int) {
	if len(results) == 0 {
		return 0, 0
	}
	if direction == ShiftPrev {
		startIdx = max(0, startIdx-s.windowSize)
	} else {
		startIdx = min(len(results)-1, startIdx+s.windowSize)
	}
	endIdx := min(len(results), startIdx+s.windowSize)

	for _, rec := range results[startIdx:endIdx] {
		if !rec.Hydrated {
			FetchCaseInfo(ctx, s.proxy, rec, s.roles, s.notifier)
		}
	}
	return startIdx, endIdx
}
