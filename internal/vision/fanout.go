package vision

import (
	"context"
	"log/slog"
	"sync"
)

// Result is the settled outcome of one analyzer in a fan-out.
// Exactly one of Analysis or Err is set.
type Result struct {
	Provider string
	Analysis *Analysis
	Err      error
}

// AnalyzeAll queries every analyzer concurrently and waits for all of
// them to settle. A failing provider never cancels or hides the others;
// its error is carried in its slot so callers can degrade gracefully
// when at least one provider answered.
func AnalyzeAll(ctx context.Context, analyzers []Analyzer, imageURL string, logger *slog.Logger) []Result {
	results := make([]Result, len(analyzers))

	var wg sync.WaitGroup
	for i, a := range analyzers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			analysis, err := a.Analyze(ctx, imageURL)
			results[i] = Result{
				Provider: a.Name(),
				Analysis: analysis,
				Err:      err,
			}
			if err != nil {
				logger.Warn("vision provider failed",
					"provider", a.Name(),
					"error", err,
				)
			}
		}()
	}
	wg.Wait()

	return results
}

// SucceededTerms collects the term lists from successful results, in
// analyzer order.
func SucceededTerms(results []Result) [][]string {
	var lists [][]string
	for _, r := range results {
		if r.Err != nil || r.Analysis == nil {
			continue
		}
		lists = append(lists, r.Analysis.Terms)
	}
	return lists
}
