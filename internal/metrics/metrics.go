// Package metrics counts placement outcomes for diagnostics
package metrics

import (
	"sync/atomic"
	"time"
)

// Metrics tracks placement statistics using atomic operations for thread-safety
type Metrics struct {
	Placements        atomic.Int64
	NoOps             atomic.Int64
	Rebalances        atomic.Int64
	RebalancedIssues  atomic.Int64
	ConflictRetries   atomic.Int64
	ConflictFailures  atomic.Int64
	RebalanceFailures atomic.Int64
	StartTime         time.Time
}

// New creates a new Metrics instance
func New() *Metrics {
	return &Metrics{
		StartTime: time.Now(),
	}
}

// IncPlacements increments the committed placements counter
func (m *Metrics) IncPlacements() {
	m.Placements.Add(1)
}

// IncNoOps increments the counter of placements that left the issue in place
func (m *Metrics) IncNoOps() {
	m.NoOps.Add(1)
}

// AddRebalance records one column rebalance that rewrote n issues
func (m *Metrics) AddRebalance(n int) {
	m.Rebalances.Add(1)
	m.RebalancedIssues.Add(int64(n))
}

// IncConflictRetries increments the counter of transactions retried after a conflict
func (m *Metrics) IncConflictRetries() {
	m.ConflictRetries.Add(1)
}

// IncConflictFailures increments the counter of placements that ran out of retries
func (m *Metrics) IncConflictFailures() {
	m.ConflictFailures.Add(1)
}

// IncRebalanceFailures increments the counter of exhaustion after a rebalance
func (m *Metrics) IncRebalanceFailures() {
	m.RebalanceFailures.Add(1)
}

// Snapshot represents a point-in-time snapshot of metrics
type Snapshot struct {
	Placements        int64     `json:"placements"`
	NoOps             int64     `json:"no_ops"`
	Rebalances        int64     `json:"rebalances"`
	RebalancedIssues  int64     `json:"rebalanced_issues"`
	ConflictRetries   int64     `json:"conflict_retries"`
	ConflictFailures  int64     `json:"conflict_failures"`
	RebalanceFailures int64     `json:"rebalance_failures"`
	StartTime         time.Time `json:"start_time"`
	Uptime            string    `json:"uptime"`
}

// GetSnapshot returns a snapshot of current metrics
func (m *Metrics) GetSnapshot() Snapshot {
	return Snapshot{
		Placements:        m.Placements.Load(),
		NoOps:             m.NoOps.Load(),
		Rebalances:        m.Rebalances.Load(),
		RebalancedIssues:  m.RebalancedIssues.Load(),
		ConflictRetries:   m.ConflictRetries.Load(),
		ConflictFailures:  m.ConflictFailures.Load(),
		RebalanceFailures: m.RebalanceFailures.Load(),
		StartTime:         m.StartTime,
		Uptime:            time.Since(m.StartTime).String(),
	}
}
