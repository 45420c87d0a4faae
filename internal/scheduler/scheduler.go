// Package scheduler runs periodic background jobs independently of request handling.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"
)

// Job is a unit of periodic work.
type Job struct {
	// Name is used in log lines.
	Name string
	// Interval is the delay between the end of one run and the start of the next.
	Interval time.Duration
	// RunOnStart runs the job once before the first tick.
	RunOnStart bool
	// Timeout bounds a single run. Zero means no limit beyond the runner's context.
	Timeout time.Duration
	// Run does the work. Errors are logged and the job waits for its next tick.
	Run func(ctx context.Context) error
}

// Runner owns one goroutine per job.
type Runner struct {
	jobs []Job
}

// NewRunner validates jobs and returns a Runner for them.
func NewRunner(jobs ...Job) (*Runner, error) {
	for _, j := range jobs {
		if j.Run == nil {
			return nil, fmt.Errorf("job %q has no run function", j.Name)
		}
		if j.Interval <= 0 {
			return nil, fmt.Errorf("job %q: interval must be positive, got %s", j.Name, j.Interval)
		}
	}
	return &Runner{jobs: jobs}, nil
}

// Run blocks until ctx is cancelled and every job loop has returned.
func (r *Runner) Run(ctx context.Context) error {
	log.Printf("Scheduler: starting %d jobs", len(r.jobs))

	var wg sync.WaitGroup
	for _, j := range r.jobs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.loop(ctx, j)
		}()
	}
	wg.Wait()

	log.Println("Scheduler: stopped")
	return nil
}

func (r *Runner) loop(ctx context.Context, j Job) {
	log.Printf("Scheduler: %s every %s", j.Name, j.Interval)

	if j.RunOnStart {
		r.execute(ctx, j)
	}

	// Fixed delay: the next run is scheduled Interval after the previous one ends.
	timer := time.NewTimer(j.Interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			r.execute(ctx, j)
			timer.Reset(j.Interval)
		}
	}
}

func (r *Runner) execute(ctx context.Context, j Job) {
	if ctx.Err() != nil {
		return
	}
	if j.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.Timeout)
		defer cancel()
	}

	if err := j.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("Scheduler: %s failed: %v", j.Name, err)
	}
}
