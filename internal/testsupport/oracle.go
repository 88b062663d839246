package testsupport

import (
	"context"
	"sync"
	"sync/atomic"

	"pairaudit/internal/gemini"
	"pairaudit/internal/ingest"
)

// Outcome scripts the stub oracle's reply for one supplier pair.
type Outcome struct {
	Verdict gemini.Verdict
	Err     error
}

// StubOracle is a scriptable in-memory match oracle. Outcomes are keyed by
// the first supplier name; unscripted pairs resolve to a non-match. A hold
// channel, when set, blocks every call until released so tests can trap
// workers mid-flight.
type StubOracle struct {
	mu       sync.Mutex
	outcomes map[string]Outcome
	calls    atomic.Int64

	// Hold, when non-nil, is received from at the start of every call.
	Hold chan struct{}
}

// NewStubOracle builds an empty stub.
func NewStubOracle() *StubOracle {
	return &StubOracle{outcomes: make(map[string]Outcome)}
}

// Script sets the outcome for calls whose first supplier name matches.
func (s *StubOracle) Script(supplierA string, outcome Outcome) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outcomes[supplierA] = outcome
}

// Calls reports how many times Resolve has been invoked.
func (s *StubOracle) Calls() int64 {
	return s.calls.Load()
}

// Release unblocks n held calls.
func (s *StubOracle) Release(n int) {
	for i := 0; i < n; i++ {
		s.Hold <- struct{}{}
	}
}

// Resolve implements the audit.Oracle contract.
func (s *StubOracle) Resolve(ctx context.Context, supplierA, supplierB string, metadata ingest.Row) (gemini.Verdict, error) {
	s.calls.Add(1)
	if s.Hold != nil {
		select {
		case <-s.Hold:
		case <-ctx.Done():
			return gemini.Verdict{}, ctx.Err()
		}
	}

	s.mu.Lock()
	outcome, ok := s.outcomes[supplierA]
	s.mu.Unlock()
	if !ok {
		return gemini.Verdict{
			SectorA:   gemini.UndeterminedSector,
			SectorB:   gemini.UndeterminedSector,
			Reasoning: "no evidence found",
		}, nil
	}
	return outcome.Verdict, outcome.Err
}
