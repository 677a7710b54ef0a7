package cron

import "context"

// Job is one unit of periodic housekeeping.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// SharedJob is implemented by jobs that work on state every gateway instance
// sees. The service runs them only while holding the lock.
type SharedJob interface {
	Job
	Shared() bool
}

// Registry keeps jobs in registration order.
type Registry struct {
	jobs []Job
}

func NewRegistry(jobs ...Job) *Registry {
	registry := &Registry{}
	for _, job := range jobs {
		registry.Register(job)
	}
	return registry
}

func (r *Registry) Register(job Job) {
	if job == nil {
		return
	}
	r.jobs = append(r.jobs, job)
}

// Jobs returns a copy of the registered jobs.
func (r *Registry) Jobs() []Job {
	jobs := make([]Job, len(r.jobs))
	copy(jobs, r.jobs)
	return jobs
}

func isShared(job Job) bool {
	shared, ok := job.(SharedJob)
	return ok && shared.Shared()
}
