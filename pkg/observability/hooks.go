// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends. Consumers can register
// hooks at startup to receive events about clustering runs and scratch
// directory lifecycle.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This approach:
//   - Avoids import cycles (hooks are registered by main, not by libraries)
//   - Keeps the core library dependency-free from observability frameworks
//   - Allows different backends (OpenTelemetry, Prometheus, DataDog, etc.)
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetRunHooks(&myRunHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Run().OnClusterStart(ctx, input, seed, chi)
//	// ... run clustering ...
//	observability.Run().OnClusterComplete(ctx, input, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Run Hooks
// =============================================================================

// RunHooks receives events from the clustering run pipeline.
type RunHooks interface {
	// Format events
	OnFormatStart(ctx context.Context, input string)
	OnFormatComplete(ctx context.Context, input string, nodes, edges int, duration time.Duration, err error)

	// Cluster events (external binary invocation)
	OnClusterStart(ctx context.Context, input string, seed int64, chi float64)
	OnClusterComplete(ctx context.Context, input string, duration time.Duration, err error)

	// Remap events
	OnRemapStart(ctx context.Context, input string)
	OnRemapComplete(ctx context.Context, input string, clusters int, duration time.Duration, err error)
}

// =============================================================================
// Scratch Hooks
// =============================================================================

// ScratchHooks receives events from scratch directory operations.
type ScratchHooks interface {
	// OnCreate records the creation of a scratch directory.
	OnCreate(path string)

	// OnRemove records the removal of a scratch directory.
	OnRemove(path string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopRunHooks is a no-op implementation of RunHooks.
type NoopRunHooks struct{}

func (NoopRunHooks) OnFormatStart(context.Context, string) {}
func (NoopRunHooks) OnFormatComplete(context.Context, string, int, int, time.Duration, error) {
}
func (NoopRunHooks) OnClusterStart(context.Context, string, int64, float64)             {}
func (NoopRunHooks) OnClusterComplete(context.Context, string, time.Duration, error)    {}
func (NoopRunHooks) OnRemapStart(context.Context, string)                               {}
func (NoopRunHooks) OnRemapComplete(context.Context, string, int, time.Duration, error) {}

// NoopScratchHooks is a no-op implementation of ScratchHooks.
type NoopScratchHooks struct{}

func (NoopScratchHooks) OnCreate(string)        {}
func (NoopScratchHooks) OnRemove(string, error) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	runHooks     RunHooks     = NoopRunHooks{}
	scratchHooks ScratchHooks = NoopScratchHooks{}
	hooksMu      sync.RWMutex
)

// SetRunHooks registers custom run hooks.
// This should be called once at application startup before any runs.
func SetRunHooks(h RunHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		runHooks = h
	}
}

// SetScratchHooks registers custom scratch hooks.
// This should be called once at application startup before any runs.
func SetScratchHooks(h ScratchHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		scratchHooks = h
	}
}

// Run returns the registered run hooks.
func Run() RunHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return runHooks
}

// Scratch returns the registered scratch hooks.
func Scratch() ScratchHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return scratchHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	runHooks = NoopRunHooks{}
	scratchHooks = NoopScratchHooks{}
}
