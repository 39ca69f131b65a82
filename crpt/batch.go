package crpt

import (
	"context"
	"fmt"
	"sync"

	"github.com/panjf2000/ants/v2"
)

// BatchResult outcome of one document in a batch submission
type BatchResult struct {
	Index int
	Body  string
	Err   error
}

// CreateDocuments submits a batch of documents concurrently over a worker
// pool. Each submission goes through the same admission gate as
// CreateDocument, so the batch as a whole still respects the window limit.
// The returned slice is ordered like the input; per-document failures are
// recorded, not short-circuited.
func (c *Client) CreateDocuments(ctx context.Context, docs []Document, signature string) ([]BatchResult, error) {
	if len(docs) == 0 {
		return nil, nil
	}

	// more workers than the window capacity only adds blocked goroutines
	workers := len(docs)
	if capacity := int(c.limiter.Capacity()); workers > capacity {
		workers = capacity
	}

	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, fmt.Errorf("create submission pool: %w", err)
	}
	defer pool.Release()

	results := make([]BatchResult, len(docs))
	var wg sync.WaitGroup

	for i := range docs {
		i := i
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			body, err := c.CreateDocument(ctx, &docs[i], signature)
			results[i] = BatchResult{Index: i, Body: body, Err: err}
		})
		if submitErr != nil {
			wg.Done()
			results[i] = BatchResult{Index: i, Err: submitErr}
		}
	}

	wg.Wait()
	return results, nil
}
