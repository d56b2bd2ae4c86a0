// Package worker provides background processing for analysis jobs.
package worker

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/voiceshield-labs/voiceshield/backend/internal/core/services"
)

// Job asks for a stored recording to be analyzed on behalf of a user.
type Job struct {
	FileID int64
	UserID int64
}

// Pool runs analyses in the background so uploads return immediately.
// Each analysis is an independent CPU-bound computation; the pool only
// bounds how many run at once.
type Pool struct {
	library *services.Library
	log     zerolog.Logger
	jobs    chan Job
	wg      sync.WaitGroup
}

// NewPool creates a pool with the given queue size.
func NewPool(library *services.Library, queueSize int, log zerolog.Logger) *Pool {
	if queueSize < 1 {
		queueSize = 1
	}
	return &Pool{
		library: library,
		log:     log,
		jobs:    make(chan Job, queueSize),
	}
}

// Start launches the worker goroutines.
func (p *Pool) Start(workers int) {
	if workers < 1 {
		workers = 1
	}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for job := range p.jobs {
				p.processJob(job)
			}
		}()
	}
}

// Stop closes the queue and waits for in-flight jobs to finish.
func (p *Pool) Stop() {
	close(p.jobs)
	p.wg.Wait()
}

// Submit queues a job without blocking. A full queue drops the job; the
// recording stays analyzable on demand.
func (p *Pool) Submit(job Job) bool {
	select {
	case p.jobs <- job:
		return true
	default:
		p.log.Warn().Int64("file_id", job.FileID).Msg("analysis queue full, dropping job")
		return false
	}
}

func (p *Pool) processJob(job Job) {
	resultID, result, err := p.library.Analyze(context.Background(), job.FileID, job.UserID)
	if err != nil {
		p.log.Warn().Err(err).Int64("file_id", job.FileID).Msg("background analysis failed")
		return
	}
	p.log.Info().
		Int64("file_id", job.FileID).
		Int64("result_id", resultID).
		Bool("is_ai_generated", result.IsAIGenerated).
		Float64("confidence", result.Confidence).
		Msg("background analysis complete")
}
