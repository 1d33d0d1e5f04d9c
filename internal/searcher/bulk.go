package searcher

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/partkade/partsearch/pkg/types"
)

const (
	// MaxBulkLines caps the lines accepted per bulk request
	MaxBulkLines = 500

	// bulkConcurrency bounds how many lines are searched at once
	bulkConcurrency = 8
)

// ErrBulkTooLarge is returned when a bulk request exceeds MaxBulkLines
var ErrBulkTooLarge = errors.New("bulk request has too many lines")

// BulkRequest is a multi-line search: one query per line, shared filters
type BulkRequest struct {
	Text     string
	Filters  *types.Filters
	Limit    int
	UseCache bool
}

// SearchBulk splits the request text on newlines and searches each line
// independently. Line numbers are 1-based and contiguous; blank lines keep
// their position with an empty result list, so the output always lines up
// with the input a buyer pasted in. Lines run concurrently but the returned
// slice is in input order.
func (e *Engine) SearchBulk(ctx context.Context, req BulkRequest) ([]types.BulkQueryLine, error) {
	// A snapshot problem should fail the whole batch up front, not once
	// per line
	if _, err := e.holder.Current(); err != nil {
		return nil, err
	}

	lines := strings.Split(req.Text, "\n")
	if len(lines) > MaxBulkLines {
		return nil, fmt.Errorf("%w: %d lines, max %d", ErrBulkTooLarge, len(lines), MaxBulkLines)
	}

	out := make([]types.BulkQueryLine, len(lines))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(bulkConcurrency)

	for i, raw := range lines {
		out[i] = types.BulkQueryLine{
			LineNumber: i + 1,
			RawText:    raw,
			Results:    []types.RankedResult{},
		}

		trimmed := strings.TrimSpace(strings.TrimSuffix(raw, "\r"))
		if trimmed == "" {
			continue
		}

		i := i
		g.Go(func() error {
			resp, err := e.Search(gctx, SearchRequest{
				Query:    trimmed,
				Filters:  req.Filters,
				Limit:    req.Limit,
				UseCache: req.UseCache,
			})
			if err != nil {
				// A line that normalizes to nothing is an empty line,
				// not a batch failure
				if errors.Is(err, types.ErrInvalidQuery) {
					return nil
				}
				return fmt.Errorf("line %d: %w", i+1, err)
			}
			out[i].Results = resp.Results
			out[i].Warnings = resp.Warnings
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
