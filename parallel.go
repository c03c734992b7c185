package codelai

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Request is one snippet in a batch translation.
type Request struct {
	Code     string `json:"code"`
	Language string `json:"language,omitempty"`
}

// TranslateAll translates every request concurrently and returns results in
// request order. The first failure cancels the remaining work and is returned.
func (t *Translator) TranslateAll(ctx context.Context, reqs []Request) ([]*Result, error) {
	results := make([]*Result, len(reqs))
	if len(reqs) == 0 {
		return results, nil
	}

	limit := t.concurrency
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, req := range reqs {
		g.Go(func() error {
			res, err := t.Translate(gctx, req.Code, req.Language)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
