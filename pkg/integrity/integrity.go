// Package integrity provides named invariant checks over the spatial
// structures and an aggregated status report. It exposes HTTP endpoints
// for liveness and readiness probes so a demo or embedding service can be
// monitored while a scene is running.
package integrity

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"
)

// IntegrityCheck defines the interface for individual invariant checks.
// Each component can implement this interface to report its status.
type IntegrityCheck interface {
	// Name returns the unique name of this check
	Name() string
	// Check runs the invariant check and returns an error when violated
	Check(ctx context.Context) error
}

// IntegrityStatus represents the aggregated result of running all checks.
type IntegrityStatus struct {
	Status string                        `json:"status"`
	Checks map[string]ComponentIntegrity `json:"checks"`
}

// ComponentIntegrity represents the result of an individual check.
type ComponentIntegrity struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// IntegrityChecker manages and executes invariant checks.
type IntegrityChecker struct {
	checks map[string]IntegrityCheck
	mu     sync.RWMutex
}

// NewIntegrityChecker creates a new integrity checker instance.
func NewIntegrityChecker() *IntegrityChecker {
	return &IntegrityChecker{
		checks: make(map[string]IntegrityCheck),
	}
}

// AddCheck registers a new check with the integrity checker.
// If a check with the same name already exists, it will be replaced.
func (ic *IntegrityChecker) AddCheck(check IntegrityCheck) {
	ic.mu.Lock()
	defer ic.mu.Unlock()
	ic.checks[check.Name()] = check
}

// RemoveCheck removes a check by name.
func (ic *IntegrityChecker) RemoveCheck(name string) {
	ic.mu.Lock()
	defer ic.mu.Unlock()
	delete(ic.checks, name)
}

// CheckIntegrity executes all registered checks and returns the aggregated
// status. The overall status is "healthy" only if every check passes.
func (ic *IntegrityChecker) CheckIntegrity(ctx context.Context) IntegrityStatus {
	ic.mu.RLock()
	defer ic.mu.RUnlock()

	status := IntegrityStatus{
		Status: "healthy",
		Checks: make(map[string]ComponentIntegrity),
	}

	for name, check := range ic.checks {
		if err := check.Check(ctx); err != nil {
			status.Status = "unhealthy"
			status.Checks[name] = ComponentIntegrity{
				Status:  "unhealthy",
				Message: err.Error(),
			}
		} else {
			status.Checks[name] = ComponentIntegrity{
				Status: "healthy",
			}
		}
	}

	return status
}

// LivenessHandler provides a simple liveness probe endpoint.
// It returns 200 OK whenever the process is running and able to respond.
func (ic *IntegrityChecker) LivenessHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	response := map[string]string{"status": "alive"}
	json.NewEncoder(w).Encode(response)
}

// ReadinessHandler provides a readiness probe endpoint that executes all
// checks. It returns 200 OK when every invariant holds, or 503 Service
// Unavailable when any check reports a violation.
func (ic *IntegrityChecker) ReadinessHandler(w http.ResponseWriter, r *http.Request) {
	// Create context with timeout for the checks
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := ic.CheckIntegrity(ctx)

	w.Header().Set("Content-Type", "application/json")

	if status.Status == "healthy" {
		w.WriteHeader(http.StatusOK)
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
	}

	json.NewEncoder(w).Encode(status)
}

// GridConsistencyCheck implements IntegrityCheck for the spatial grid.
type GridConsistencyCheck struct {
	audit func() error
}

// NewGridConsistencyCheck creates a check that audits the grid's internal maps.
func NewGridConsistencyCheck(audit func() error) *GridConsistencyCheck {
	return &GridConsistencyCheck{
		audit: audit,
	}
}

// Name returns the name of this check.
func (g *GridConsistencyCheck) Name() string {
	return "grid_consistency"
}

// Check verifies that the grid's forward and reverse maps agree.
func (g *GridConsistencyCheck) Check(ctx context.Context) error {
	if err := g.audit(); err != nil {
		return fmt.Errorf("grid consistency violated: %w", err)
	}
	return nil
}

// TreeStalenessCheck implements IntegrityCheck for the quadtree snapshot.
type TreeStalenessCheck struct {
	staleWrites func() int64
	usingTree   func() bool
}

// NewTreeStalenessCheck creates a check that detects unreplayed grid writes.
func NewTreeStalenessCheck(staleWrites func() int64, usingTree func() bool) *TreeStalenessCheck {
	return &TreeStalenessCheck{
		staleWrites: staleWrites,
		usingTree:   usingTree,
	}
}

// Name returns the name of this check.
func (t *TreeStalenessCheck) Name() string {
	return "tree_staleness"
}

// Check verifies that an active quadtree has seen every grid write.
// A stale tree only matters while it is the one answering queries.
func (t *TreeStalenessCheck) Check(ctx context.Context) error {
	if !t.usingTree() {
		return nil
	}
	if pending := t.staleWrites(); pending > 0 {
		return fmt.Errorf("quadtree is stale: %d writes since last rebuild", pending)
	}
	return nil
}

// SceneCapacityCheck implements IntegrityCheck for the shape registry.
type SceneCapacityCheck struct {
	maxShapes  int
	shapeCount func() int
}

// NewSceneCapacityCheck creates a check for shape registry capacity.
func NewSceneCapacityCheck(maxShapes int, shapeCount func() int) *SceneCapacityCheck {
	return &SceneCapacityCheck{
		maxShapes:  maxShapes,
		shapeCount: shapeCount,
	}
}

// Name returns the name of this check.
func (s *SceneCapacityCheck) Name() string {
	return "scene_capacity"
}

// Check verifies that the scene has not exceeded its configured shape limit.
func (s *SceneCapacityCheck) Check(ctx context.Context) error {
	count := s.shapeCount()
	if count > s.maxShapes {
		return fmt.Errorf("scene holds %d shapes, limit is %d", count, s.maxShapes)
	}
	return nil
}

// DetectorActiveCheck implements IntegrityCheck for the collision detector.
type DetectorActiveCheck struct {
	enabled func() bool
}

// NewDetectorActiveCheck creates a check for the detector kill switch.
func NewDetectorActiveCheck(enabled func() bool) *DetectorActiveCheck {
	return &DetectorActiveCheck{
		enabled: enabled,
	}
}

// Name returns the name of this check.
func (d *DetectorActiveCheck) Name() string {
	return "detector"
}

// Check verifies that collision detection has not been switched off.
func (d *DetectorActiveCheck) Check(ctx context.Context) error {
	if !d.enabled() {
		return fmt.Errorf("collision detection is disabled")
	}
	return nil
}

// MemoryCheck implements IntegrityCheck for memory usage monitoring.
type MemoryCheck struct {
	maxMemoryMB    int64
	getMemoryUsage func() int64
}

// NewMemoryCheck creates a check for memory usage.
func NewMemoryCheck(maxMemoryMB int64, getMemoryUsage func() int64) *MemoryCheck {
	return &MemoryCheck{
		maxMemoryMB:    maxMemoryMB,
		getMemoryUsage: getMemoryUsage,
	}
}

// Name returns the name of this check.
func (m *MemoryCheck) Name() string {
	return "memory"
}

// Check verifies that memory usage is within acceptable limits.
func (m *MemoryCheck) Check(ctx context.Context) error {
	currentMB := m.getMemoryUsage()
	if currentMB > m.maxMemoryMB {
		return fmt.Errorf("memory usage %dMB exceeds limit %dMB", currentMB, m.maxMemoryMB)
	}
	return nil
}
