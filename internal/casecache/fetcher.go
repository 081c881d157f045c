package casecache

import (
	"context"
	"errors"
	"net/http"

	"github.com/openefiling/efmkit/internal/cases"
	"github.com/openefiling/efmkit/internal/efm"
)

// Fetcher wraps a case detail fetcher with the store. Cache problems are
// logged and the fetch falls through to the proxy, so a dead Redis only
// costs speed.
type Fetcher struct {
	next  cases.CaseFetcher
	store *Store
}

// NewFetcher wraps next with store. A nil store yields a pass-through.
func NewFetcher(next cases.CaseFetcher, store *Store) *Fetcher {
	return &Fetcher{next: next, store: store}
}

// GetCase serves a case detail document from the cache when it can,
// fetching and filling the cache otherwise. Only successful responses are
// cached; errors always come fresh from the proxy.
func (f *Fetcher) GetCase(ctx context.Context, courtID, trackingID string) efm.Response {
	detail, err := f.store.Get(ctx, courtID, trackingID)
	if err == nil {
		return efm.Response{ResponseCode: http.StatusOK, Data: detail}
	}
	if !errors.Is(err, ErrCacheMiss) && f.store != nil {
		f.store.logger.Warn("case cache read failed",
			"court_id", courtID,
			"tracking_id", trackingID,
			"error", err,
		)
	}

	resp := f.next.GetCase(ctx, courtID, trackingID)
	if resp.IsOk() && resp.Data != nil {
		if err := f.store.Put(ctx, courtID, trackingID, resp.Data); err != nil {
			f.store.logger.Warn("case cache write failed",
				"court_id", courtID,
				"tracking_id", trackingID,
				"error", err,
			)
		}
	}
	return resp
}
