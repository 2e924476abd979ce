package analytics

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/cognicore/pointlabel/pkg/pointlabel/ingest"
)

// CollectParallel splits records into contiguous shards, collects each shard
// on its own goroutine and merges the partial statistics.
func CollectParallel(ctx context.Context, records []ingest.Record, shards int) (Stats, error) {
	if shards < 1 {
		shards = 1
	}
	if shards > len(records) {
		shards = len(records)
	}
	if shards <= 1 {
		c := NewCollector()
		for _, rec := range records {
			c.ProcessRecord(rec)
		}
		return c.Snapshot(), ctx.Err()
	}

	parts := make([]Stats, shards)
	size := (len(records) + shards - 1) / shards

	eg, egCtx := errgroup.WithContext(ctx)
	for i := 0; i < shards; i++ {
		i := i
		lo := min(i*size, len(records))
		hi := min(lo+size, len(records))
		eg.Go(func() error {
			c := NewCollector()
			for j, rec := range records[lo:hi] {
				if j%1024 == 0 {
					if err := egCtx.Err(); err != nil {
						return err
					}
				}
				c.ProcessRecord(rec)
			}
			parts[i] = c.Snapshot()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return Stats{}, err
	}
	return Merge(parts...), nil
}
