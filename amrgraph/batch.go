package amrgraph

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// DefaultBatchConcurrency bounds the goroutines used by ConvertAll.
const DefaultBatchConcurrency = 8

// ConvertAll converts independent texts concurrently, keyed as in texts.
// It returns ctx.Err() if the context is cancelled before all texts are done.
func ConvertAll(ctx context.Context, texts map[string]string, mode Mode) (map[string]*Graph, error) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(DefaultBatchConcurrency)

	var mu sync.Mutex
	graphs := make(map[string]*Graph, len(texts))

	for key, text := range texts {
		key, text := key, text
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			graph := mode.Convert(text)

			mu.Lock()
			graphs[key] = graph
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return graphs, nil
}
