package engine

import (
	"context"
	"fmt"
	"math"
	"sync"

	"go.uber.org/zap"

	"github.com/inkloomco/inkloom/pkg/interaction"
	"github.com/inkloomco/inkloom/pkg/memory"
)

var (
	defaultNumWorkers   uint = 2
	defaultJobQueueSize uint = 64
)

// Job is one pending memory persist: a raw response and its extracted
// interaction.
type Job struct {
	RawText     string
	Interaction interaction.Record
}

// PoolConfig is the configuration options for the persistence worker pool.
type PoolConfig struct {
	// Pipeline runs score/summarize/embed/upsert for each job.
	Pipeline *memory.Pipeline

	// NumWorkers is the number of background workers in the pool.
	NumWorkers uint

	// QueueSize is the capacity of the buffered job channel.
	QueueSize uint

	// Logger is the provided zap logger
	Logger *zap.Logger
}

// Pool persists memories asynchronously so the player-facing turn never waits
// on embedding or storage latency. Flush gives callers an explicit way to
// await consistency before the next turn.
type Pool struct {
	config *PoolConfig
	queue  chan Job
	wg     sync.WaitGroup
	jobs   sync.WaitGroup
	logger *zap.Logger
}

// NewPool creates a persistence pool and starts its worker goroutines.
func NewPool(c *PoolConfig) (*Pool, error) {
	if c.NumWorkers == 0 {
		c.NumWorkers = defaultNumWorkers
	}

	if c.QueueSize == 0 {
		c.QueueSize = defaultJobQueueSize
	}

	if c.NumWorkers > uint(math.MaxInt) {
		return nil, fmt.Errorf("NumWorkers %d exceeds max int", c.NumWorkers)
	}

	p := &Pool{
		config: c,
		queue:  make(chan Job, c.QueueSize),
		logger: c.Logger,
	}

	p.wg.Add(int(c.NumWorkers))
	for i := range c.NumWorkers {
		go p.worker(i)
	}

	return p, nil
}

// Enqueue submits a persist job. Returns true if enqueued, false if the queue
// is full, resulting in the job being dropped.
func (p *Pool) Enqueue(job Job) bool {
	p.jobs.Add(1)
	select {
	case p.queue <- job:
		p.logger.Debug("persist job queued",
			zap.String("player_action", job.Interaction.PlayerAction),
		)
		return true
	default:
		p.jobs.Done()
		p.logger.Error("persist job not queued, queue full, job dropped",
			zap.String("player_action", job.Interaction.PlayerAction),
		)
		return false
	}
}

// Flush blocks until every enqueued job has been processed.
func (p *Pool) Flush() {
	p.jobs.Wait()
}

// Close signals workers to stop and waits for in-flight jobs to drain. Call
// this during graceful shutdown after the play loop has stopped.
func (p *Pool) Close() {
	close(p.queue)
	p.wg.Wait()
}

// worker is the inner worker thread that continuously pulls jobs off the queue
func (p *Pool) worker(id uint) {
	defer p.wg.Done()
	p.logger.Debug("persist worker started", zap.Uint("worker_id", id))

	for job := range p.queue {
		p.processJob(job)
		p.jobs.Done()
	}

	p.logger.Debug("persist worker stopped", zap.Uint("worker_id", id))
}

// processJob runs the memory pipeline for one job. Failures are logged, not
// surfaced; the turn that produced the job has already returned.
func (p *Pool) processJob(job Job) {
	ctx := context.Background()

	record, err := p.config.Pipeline.Persist(ctx, job.RawText, job.Interaction)
	if err != nil {
		p.logger.Error("async memory persist failed",
			zap.String("player_action", job.Interaction.PlayerAction),
			zap.Error(err),
		)
		return
	}

	p.logger.Info("memory persisted",
		zap.Uint64("id", record.ID),
		zap.Float64("importance", record.Importance),
	)
}
