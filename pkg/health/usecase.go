package health

import (
	"context"
	"sync"
)

// Checker represents a dependency health check.
type Checker interface {
	Name() string
	Check(ctx context.Context) error
}

// Status is the outcome of one dependency check.
type Status struct {
	Name  string `json:"name"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// Report aggregates all checks. Ready is true only if every check passed.
type Report struct {
	Ready  bool     `json:"ready"`
	Checks []Status `json:"checks"`
}

// ReadinessUseCase describes readiness verification.
type ReadinessUseCase interface {
	Ready(ctx context.Context) Report
}

type service struct {
	checkers []Checker
}

// NewService aggregates dependency checkers.
func NewService(checkers ...Checker) ReadinessUseCase {
	return &service{checkers: checkers}
}

// Ready runs all checks concurrently; statuses keep the checker order.
func (s *service) Ready(ctx context.Context) Report {
	statuses := make([]Status, len(s.checkers))
	var wg sync.WaitGroup
	for i, ch := range s.checkers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			st := Status{Name: ch.Name(), OK: true}
			if err := ch.Check(ctx); err != nil {
				st.OK = false
				st.Error = err.Error()
			}
			statuses[i] = st
		}()
	}
	wg.Wait()

	rep := Report{Ready: true, Checks: statuses}
	for _, st := range statuses {
		if !st.OK {
			rep.Ready = false
		}
	}
	return rep
}
