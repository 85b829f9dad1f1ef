// Package concurrency provides named, optionally-instrumented lock primitives
// used by the entity store to guard disjoint collections.
package concurrency

import (
	"sync"
	"time"

	"github.com/chris-alexander-pop/faas-sim-core/pkg/logger"
)

// MutexConfig names a lock for diagnostics and optionally enables contention logging.
type MutexConfig struct {
	Name string

	// DebugMode logs acquisitions that block longer than debugSlowThreshold.
	DebugMode bool
}

const debugSlowThreshold = 5 * time.Millisecond

// SmartMutex wraps sync.Mutex with a name and optional slow-acquire logging.
type SmartMutex struct {
	mu    sync.Mutex
	name  string
	debug bool
}

// NewSmartMutex creates a named mutex.
func NewSmartMutex(cfg MutexConfig) *SmartMutex {
	return &SmartMutex{name: cfg.Name, debug: cfg.DebugMode}
}

func (m *SmartMutex) Lock() {
	if !m.debug {
		m.mu.Lock()
		return
	}
	start := time.Now()
	m.mu.Lock()
	if waited := time.Since(start); waited > debugSlowThreshold {
		logger.L().Warn("slow mutex acquisition", "mutex", m.name, "waited", waited)
	}
}

func (m *SmartMutex) Unlock() {
	m.mu.Unlock()
}

// SmartRWMutex wraps sync.RWMutex with a name and optional slow-acquire logging.
// Entities in the store hold one per collection: concurrent readers of disjoint
// entities are legal, but a writer excludes all readers of that collection.
type SmartRWMutex struct {
	mu    sync.RWMutex
	name  string
	debug bool
}

// NewSmartRWMutex creates a named read/write mutex.
func NewSmartRWMutex(cfg MutexConfig) *SmartRWMutex {
	return &SmartRWMutex{name: cfg.Name, debug: cfg.DebugMode}
}

func (m *SmartRWMutex) Lock() {
	if !m.debug {
		m.mu.Lock()
		return
	}
	start := time.Now()
	m.mu.Lock()
	if waited := time.Since(start); waited > debugSlowThreshold {
		logger.L().Warn("slow rwmutex write acquisition", "mutex", m.name, "waited", waited)
	}
}

func (m *SmartRWMutex) Unlock() {
	m.mu.Unlock()
}

func (m *SmartRWMutex) RLock() {
	if !m.debug {
		m.mu.RLock()
		return
	}
	start := time.Now()
	m.mu.RLock()
	if waited := time.Since(start); waited > debugSlowThreshold {
		logger.L().Warn("slow rwmutex read acquisition", "mutex", m.name, "waited", waited)
	}
}

func (m *SmartRWMutex) RUnlock() {
	m.mu.RUnlock()
}
