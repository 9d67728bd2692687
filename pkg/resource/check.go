// pkg/resource/check.go
package resource

import (
	"context"
	"fmt"
)

// ResourceCheck reports resource manager state as an integrity check.
// It satisfies the integrity package's check interface.
type ResourceCheck struct {
	manager *ResourceManager
}

// NewResourceCheck creates an integrity check backed by the resource manager.
func NewResourceCheck(manager *ResourceManager) *ResourceCheck {
	return &ResourceCheck{
		manager: manager,
	}
}

// Name returns the name of this check.
func (r *ResourceCheck) Name() string {
	return "resource"
}

// Check verifies that resource usage is within acceptable limits.
// Goroutine usage fails early, at 80% of the limit, so the report turns
// unhealthy before StartGoroutine begins refusing work.
func (r *ResourceCheck) Check(ctx context.Context) error {
	stats := r.manager.GetResourceStats()

	if stats.MemoryUsageMB > stats.MaxMemoryMB {
		return fmt.Errorf("memory usage %dMB exceeds limit %dMB",
			stats.MemoryUsageMB, stats.MaxMemoryMB)
	}

	goroutineThreshold := int64(float64(stats.MaxGoroutines) * 0.8)
	if stats.GoroutineCount > goroutineThreshold {
		return fmt.Errorf("goroutine count %d exceeds 80%% threshold (%d/%d)",
			stats.GoroutineCount, goroutineThreshold, stats.MaxGoroutines)
	}

	return nil
}
