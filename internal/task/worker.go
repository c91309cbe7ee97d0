package task

import (
	"context"
	"errors"
	"sort"
	"sync"
)

// ErrQueueFull reports that the job queue is at capacity. Callers
// should surface this to the client rather than block.
var ErrQueueFull = errors.New("task queue is full")

// Job is one unit of background work bound to a task record.
type Job struct {
	TaskID string
	Run    func(ctx context.Context)
}

// Pool runs jobs on a fixed number of workers over a bounded queue.
// Enqueue never blocks: when the queue is full it fails fast.
type Pool struct {
	jobs chan Job
	wg   sync.WaitGroup

	mu      sync.Mutex
	pending map[string]struct{}
}

// NewPool starts workers goroutines draining a queue of queueSize.
func NewPool(workers, queueSize int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	if queueSize <= 0 {
		queueSize = 1
	}
	p := &Pool{
		jobs:    make(chan Job, queueSize),
		pending: make(map[string]struct{}),
	}
	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for job := range p.jobs {
		job.Run(context.Background())
		p.mu.Lock()
		delete(p.pending, job.TaskID)
		p.mu.Unlock()
	}
}

// Enqueue submits a job, returning ErrQueueFull when the queue has no
// room.
func (p *Pool) Enqueue(job Job) error {
	p.mu.Lock()
	p.pending[job.TaskID] = struct{}{}
	p.mu.Unlock()

	select {
	case p.jobs <- job:
		return nil
	default:
		p.mu.Lock()
		delete(p.pending, job.TaskID)
		p.mu.Unlock()
		return ErrQueueFull
	}
}

// Snapshot returns the task IDs currently queued or running, sorted
// for stable output.
func (p *Pool) Snapshot() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	ids := make([]string, 0, len(p.pending))
	for id := range p.pending {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Close stops accepting jobs and waits for in-flight work to finish.
func (p *Pool) Close() {
	close(p.jobs)
	p.wg.Wait()
}
