package cron

import (
	"context"
	"testing"
)

type stubJob struct {
	name   string
	shared bool
	err    error
	runs   int
}

func (s *stubJob) Name() string { return s.name }

func (s *stubJob) Shared() bool { return s.shared }

func (s *stubJob) Run(context.Context) error {
	s.runs++
	return s.err
}

func TestRegistryKeepsOrderAndCopies(t *testing.T) {
	registry := NewRegistry(nil)
	jobA := &stubJob{name: "a"}
	jobB := &stubJob{name: "b"}
	registry.Register(jobA)
	registry.Register(jobB)
	registry.Register(nil)

	jobs := registry.Jobs()
	if len(jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(jobs))
	}
	if jobs[0] != jobA || jobs[1] != jobB {
		t.Fatalf("jobs returned out of order")
	}
	jobs[0] = nil
	if registry.Jobs()[0] == nil {
		t.Fatalf("internal slice leaked")
	}
}
