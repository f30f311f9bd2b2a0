package background

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"courseforge/pkg/logger"
)

// Job is a unit of background work. Jobs with Every > 0 reschedule
// themselves after each run until the scheduler shuts down.
type Job struct {
	Name    string
	Run     func(ctx context.Context) error
	Timeout time.Duration
	Every   time.Duration
	Retry   RetryPolicy
}

type RetryPolicy struct {
	MaxRetries int
	Backoff    time.Duration
}

type Config struct {
	WorkerCount int
	QueueSize   int
}

var (
	ErrNotStarted       = errors.New("scheduler not started")
	ErrAlreadyScheduled = errors.New("job already scheduled")
	errShuttingDown     = errors.New("scheduler is shutting down")
)

var (
	metricsOnce        sync.Once
	jobRunsTotal       *prometheus.CounterVec
	jobDurationSeconds *prometheus.HistogramVec
	jobLastSuccess     *prometheus.GaugeVec
)

func initMetrics() {
	metricsOnce.Do(func() {
		jobRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "courseforge",
			Subsystem: "background",
			Name:      "job_runs_total",
			Help:      "Total background job executions",
		}, []string{"job", "status"})

		jobDurationSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "courseforge",
			Subsystem: "background",
			Name:      "job_duration_seconds",
			Help:      "Duration of background job executions",
			Buckets:   prometheus.DefBuckets,
		}, []string{"job"})

		jobLastSuccess = promauto.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "courseforge",
			Subsystem: "background",
			Name:      "job_last_success_timestamp",
			Help:      "Unix timestamp of the last successful run per job",
		}, []string{"job"})
	})
}

// Scheduler runs background jobs on a small worker pool. Scheduled names are
// unique: a job cannot be queued twice while a previous run is pending.
type Scheduler struct {
	config Config

	mu      sync.Mutex
	ctx     context.Context
	cancel  context.CancelFunc
	started bool
	names   map[string]struct{}

	queue    chan queuedJob
	workerWG sync.WaitGroup
	jobWG    sync.WaitGroup
}

type queuedJob struct {
	job     Job
	attempt int
	delay   time.Duration
}

func NewScheduler(cfg Config) *Scheduler {
	initMetrics()

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 2
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 16
	}

	return &Scheduler{
		config: cfg,
		queue:  make(chan queuedJob, cfg.QueueSize),
		names:  make(map[string]struct{}),
	}
}

func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return
	}

	s.ctx, s.cancel = context.WithCancel(ctx)
	s.started = true

	for i := 0; i < s.config.WorkerCount; i++ {
		s.workerWG.Add(1)
		go s.worker()
	}
}

// Schedule queues a job. Recurring jobs stay registered until shutdown.
func (s *Scheduler) Schedule(job Job) error {
	if job.Name == "" {
		return errors.New("job name is required")
	}
	if job.Run == nil {
		return errors.New("job runner is required")
	}

	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return ErrNotStarted
	}
	if _, exists := s.names[job.Name]; exists {
		s.mu.Unlock()
		return ErrAlreadyScheduled
	}
	s.names[job.Name] = struct{}{}
	s.mu.Unlock()

	if !s.enqueue(queuedJob{job: job, attempt: 1, delay: job.Every}) {
		s.release(job.Name)
		return errShuttingDown
	}
	return nil
}

func (s *Scheduler) worker() {
	defer s.workerWG.Done()

	for {
		select {
		case <-s.ctx.Done():
			return
		case job := <-s.queue:
			s.execute(job)
		}
	}
}

func (s *Scheduler) execute(job queuedJob) {
	if job.delay > 0 {
		timer := time.NewTimer(job.delay)
		select {
		case <-timer.C:
		case <-s.ctx.Done():
			timer.Stop()
			s.release(job.job.Name)
			return
		}
	}

	s.jobWG.Add(1)
	defer s.jobWG.Done()

	err := s.runOnce(job)

	if err != nil && s.shouldRetry(job, err) {
		retry := job
		retry.attempt++
		retry.delay = job.job.Retry.Backoff
		if s.enqueue(retry) {
			return
		}
	}

	if job.job.Every > 0 && !errors.Is(err, context.Canceled) {
		next := queuedJob{job: job.job, attempt: 1, delay: job.job.Every}
		if s.enqueue(next) {
			return
		}
	}

	s.release(job.job.Name)
}

func (s *Scheduler) runOnce(job queuedJob) (runErr error) {
	start := time.Now()
	status := "success"

	ctx := s.ctx
	if job.job.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, job.job.Timeout)
		defer cancel()
	}

	defer func() {
		jobDurationSeconds.WithLabelValues(job.job.Name).Observe(time.Since(start).Seconds())
		jobRunsTotal.WithLabelValues(job.job.Name, status).Inc()
		if status == "success" {
			jobLastSuccess.WithLabelValues(job.job.Name).Set(float64(time.Now().Unix()))
		}
	}()

	defer func() {
		if r := recover(); r != nil {
			runErr = fmt.Errorf("panic: %v", r)
			status = "failure"
			logger.Error(runErr, "Background job panicked", map[string]interface{}{
				"job": job.job.Name, "attempt": job.attempt,
			})
		}
	}()

	runErr = job.job.Run(ctx)
	if runErr != nil {
		if errors.Is(runErr, context.Canceled) {
			status = "canceled"
		} else {
			status = "failure"
		}
		logger.Error(runErr, "Background job failed", map[string]interface{}{
			"job": job.job.Name, "attempt": job.attempt,
		})
	}
	return runErr
}

func (s *Scheduler) shouldRetry(job queuedJob, err error) bool {
	if job.job.Retry.MaxRetries <= 0 || errors.Is(err, context.Canceled) {
		return false
	}
	return job.attempt <= job.job.Retry.MaxRetries
}

func (s *Scheduler) enqueue(job queuedJob) bool {
	select {
	case <-s.ctx.Done():
		return false
	case s.queue <- job:
		return true
	}
}

func (s *Scheduler) release(name string) {
	s.mu.Lock()
	delete(s.names, name)
	s.mu.Unlock()
}

func (s *Scheduler) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return nil
	}
	cancel := s.cancel
	s.mu.Unlock()

	cancel()

	done := make(chan struct{})
	go func() {
		s.workerWG.Wait()
		s.jobWG.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
