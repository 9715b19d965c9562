package engine

import (
	"context"
	"path/filepath"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/peekknuf/rarity/internal/output"
)

// Job pairs an input file with its output path. An empty Output means the
// engine's default.
type Job struct {
	Input  string
	Output string
}

// Jobs builds one job per input under root. With an output directory set,
// outputs mirror the inputs' paths relative to root, so files with the
// same name in different subdirectories do not collide.
func (e *Engine) Jobs(root string, inputs []string) []Job {
	jobs := make([]Job, len(inputs))
	for i, input := range inputs {
		jobs[i] = Job{Input: input}
		if e.opts.OutputDir == "" {
			continue
		}
		rel, err := filepath.Rel(root, input)
		if err != nil {
			continue
		}
		dir := filepath.Join(e.opts.OutputDir, filepath.Dir(rel))
		jobs[i].Output = output.DefaultPath(input, dir, e.opts.Format)
	}
	return jobs
}

// RankAll ranks every job with at most workers running at once. Results
// come back in job order. A failing job does not stop the others; its
// error is kept on its result. onDone, when set, is called after each job
// from the worker goroutine.
func (e *Engine) RankAll(ctx context.Context, jobs []Job, workers int, onDone func(*RankResult)) []*RankResult {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make([]*RankResult, len(jobs))
	var g errgroup.Group
	g.SetLimit(workers)

	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			results[i] = e.Rank(ctx, job.Input, job.Output)
			if onDone != nil {
				onDone(results[i])
			}
			return nil
		})
	}
	_ = g.Wait()

	return results
}
