package pipeline

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/theirongolddev/advisor/internal/backend"
	"github.com/theirongolddev/advisor/internal/model"
)

// maxImportWorkers caps concurrent inserts against the data service.
const maxImportWorkers = 4

// ImportResult holds the outcome of a bulk insert.
type ImportResult struct {
	Total    int
	Inserted int
	Failed   int
	Errors   []error
}

// ProgressFunc is called during imports to report progress.
// current is the number of rows processed so far, total is the total count.
type ProgressFunc func(current, total int)

// ImportTransactions inserts inputs for id with a bounded worker pool.
// Each row is stamped with id's user. Failed rows are counted, not retried.
func ImportTransactions(ctx context.Context, rows backend.Rows, id Identity, inputs []model.TransactionInput, progressFn ProgressFunc) *ImportResult {
	result := &ImportResult{Total: len(inputs)}
	if len(inputs) == 0 || !id.Valid() {
		return result
	}

	numWorkers := runtime.GOMAXPROCS(0)
	if numWorkers > maxImportWorkers {
		numWorkers = maxImportWorkers
	}
	if numWorkers > len(inputs) {
		numWorkers = len(inputs)
	}

	work := make(chan int, len(inputs))
	errs := make([]error, len(inputs))
	var wg sync.WaitGroup
	var processed atomic.Int64

	for i := range inputs {
		work <- i
	}
	close(work)

	wg.Add(numWorkers)
	for w := 0; w < numWorkers; w++ {
		go func() {
			defer wg.Done()
			for idx := range work {
				if err := ctx.Err(); err != nil {
					errs[idx] = err
				} else {
					in := inputs[idx]
					in.UserID = id.UserID
					errs[idx] = rows.Insert(ctx, id.Token, backend.TableTransactions, in)
				}
				n := processed.Add(1)
				if progressFn != nil {
					progressFn(int(n), len(inputs))
				}
			}
		}()
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, err)
			continue
		}
		result.Inserted++
	}
	return result
}
