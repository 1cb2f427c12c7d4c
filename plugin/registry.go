package plugin

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"sync"
	"time"
)

// Registry manages all registered plugins and provides efficient dispatch.
// It uses type-cached discovery for O(1) dispatch performance.
type Registry struct {
	mu      sync.RWMutex
	plugins []Plugin
	logger  *slog.Logger

	// Type-cached plugin lists for efficient dispatch
	onInit                    []OnInit
	onShutdown                []OnShutdown
	onUserRegistered          []OnUserRegistered
	onUserProfileUpdated      []OnUserProfileUpdated
	onExpenseCreated          []OnExpenseCreated
	onExpenseUpdated          []OnExpenseUpdated
	onExpenseDeleted          []OnExpenseDeleted
	onDuplicateNumberRejected []OnDuplicateNumberRejected
	onSequenceAllocated       []OnSequenceAllocated
	onSummaryComputed         []OnSummaryComputed
	summaryFormatters         map[string]SummaryFormatter
}

// NewRegistry creates a new plugin registry.
func NewRegistry() *Registry {
	return &Registry{
		logger:            slog.Default(),
		summaryFormatters: make(map[string]SummaryFormatter),
	}
}

// WithLogger sets the logger for the registry.
func (r *Registry) WithLogger(logger *slog.Logger) *Registry {
	r.logger = logger
	return r
}

// Register adds a plugin to the registry and caches its interfaces.
func (r *Registry) Register(p Plugin) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Check for duplicate
	for _, existing := range r.plugins {
		if existing.Name() == p.Name() {
			return fmt.Errorf("plugin: duplicate registration: %s", p.Name())
		}
	}

	r.plugins = append(r.plugins, p)

	// Type-switch to cache interfaces
	if v, ok := p.(OnInit); ok {
		r.onInit = append(r.onInit, v)
	}
	if v, ok := p.(OnShutdown); ok {
		r.onShutdown = append(r.onShutdown, v)
	}
	if v, ok := p.(OnUserRegistered); ok {
		r.onUserRegistered = append(r.onUserRegistered, v)
	}
	if v, ok := p.(OnUserProfileUpdated); ok {
		r.onUserProfileUpdated = append(r.onUserProfileUpdated, v)
	}
	if v, ok := p.(OnExpenseCreated); ok {
		r.onExpenseCreated = append(r.onExpenseCreated, v)
	}
	if v, ok := p.(OnExpenseUpdated); ok {
		r.onExpenseUpdated = append(r.onExpenseUpdated, v)
	}
	if v, ok := p.(OnExpenseDeleted); ok {
		r.onExpenseDeleted = append(r.onExpenseDeleted, v)
	}
	if v, ok := p.(OnDuplicateNumberRejected); ok {
		r.onDuplicateNumberRejected = append(r.onDuplicateNumberRejected, v)
	}
	if v, ok := p.(OnSequenceAllocated); ok {
		r.onSequenceAllocated = append(r.onSequenceAllocated, v)
	}
	if v, ok := p.(OnSummaryComputed); ok {
		r.onSummaryComputed = append(r.onSummaryComputed, v)
	}
	if v, ok := p.(SummaryFormatter); ok {
		r.summaryFormatters[v.Format()] = v
	}

	r.logger.Info("plugin registered",
		"name", p.Name(),
		"interfaces", r.getImplementedInterfaces(p),
	)

	return nil
}

// getImplementedInterfaces returns a list of interfaces implemented by the plugin.
func (r *Registry) getImplementedInterfaces(p Plugin) []string {
	var interfaces []string
	v := reflect.TypeOf(p)

	// Check each interface
	checkInterface := func(iface reflect.Type, name string) {
		if v.Implements(iface) {
			interfaces = append(interfaces, name)
		}
	}

	// List all interfaces to check
	checkInterface(reflect.TypeOf((*OnInit)(nil)).Elem(), "OnInit")
	checkInterface(reflect.TypeOf((*OnShutdown)(nil)).Elem(), "OnShutdown")
	checkInterface(reflect.TypeOf((*OnUserRegistered)(nil)).Elem(), "OnUserRegistered")
	checkInterface(reflect.TypeOf((*OnExpenseCreated)(nil)).Elem(), "OnExpenseCreated")
	checkInterface(reflect.TypeOf((*OnExpenseUpdated)(nil)).Elem(), "OnExpenseUpdated")
	checkInterface(reflect.TypeOf((*OnExpenseDeleted)(nil)).Elem(), "OnExpenseDeleted")
	checkInterface(reflect.TypeOf((*OnDuplicateNumberRejected)(nil)).Elem(), "OnDuplicateNumberRejected")
	checkInterface(reflect.TypeOf((*OnSequenceAllocated)(nil)).Elem(), "OnSequenceAllocated")
	checkInterface(reflect.TypeOf((*OnSummaryComputed)(nil)).Elem(), "OnSummaryComputed")
	checkInterface(reflect.TypeOf((*SummaryFormatter)(nil)).Elem(), "SummaryFormatter")

	return interfaces
}

// Get returns a plugin by name.
func (r *Registry) Get(name string) Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.plugins {
		if p.Name() == name {
			return p
		}
	}
	return nil
}

// List returns all registered plugins.
func (r *Registry) List() []Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Plugin, len(r.plugins))
	copy(result, r.plugins)
	return result
}

// Count returns the number of registered plugins.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.plugins)
}

// ──────────────────────────────────────────────────
// Event emission methods
// ──────────────────────────────────────────────────

// EmitInit calls OnInit for all plugins that implement it.
func (r *Registry) EmitInit(ctx context.Context, book interface{}) {
	r.mu.RLock()
	plugins := r.onInit
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnInit(ctx, book)
		}); err != nil {
			r.logger.Warn("plugin OnInit failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitShutdown calls OnShutdown for all plugins that implement it.
func (r *Registry) EmitShutdown(ctx context.Context) {
	r.mu.RLock()
	plugins := r.onShutdown
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnShutdown(ctx)
		}); err != nil {
			r.logger.Warn("plugin OnShutdown failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitUserRegistered emits a user registered event.
func (r *Registry) EmitUserRegistered(ctx context.Context, u interface{}) {
	r.mu.RLock()
	plugins := r.onUserRegistered
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnUserRegistered(ctx, u)
		}); err != nil {
			r.logger.Warn("plugin OnUserRegistered failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitUserProfileUpdated emits a user profile updated event.
func (r *Registry) EmitUserProfileUpdated(ctx context.Context, oldUser, newUser interface{}) {
	r.mu.RLock()
	plugins := r.onUserProfileUpdated
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnUserProfileUpdated(ctx, oldUser, newUser)
		}); err != nil {
			r.logger.Warn("plugin OnUserProfileUpdated failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitExpenseCreated emits an expense created event.
func (r *Registry) EmitExpenseCreated(ctx context.Context, e interface{}) {
	r.mu.RLock()
	plugins := r.onExpenseCreated
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnExpenseCreated(ctx, e)
		}); err != nil {
			r.logger.Warn("plugin OnExpenseCreated failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitExpenseUpdated emits an expense updated event.
func (r *Registry) EmitExpenseUpdated(ctx context.Context, oldExpense, newExpense interface{}) {
	r.mu.RLock()
	plugins := r.onExpenseUpdated
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnExpenseUpdated(ctx, oldExpense, newExpense)
		}); err != nil {
			r.logger.Warn("plugin OnExpenseUpdated failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitExpenseDeleted emits an expense deleted event.
func (r *Registry) EmitExpenseDeleted(ctx context.Context, e interface{}) {
	r.mu.RLock()
	plugins := r.onExpenseDeleted
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnExpenseDeleted(ctx, e)
		}); err != nil {
			r.logger.Warn("plugin OnExpenseDeleted failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitDuplicateNumberRejected emits a duplicate number rejected event.
func (r *Registry) EmitDuplicateNumberRejected(ctx context.Context, ownerID string, number int64) {
	r.mu.RLock()
	plugins := r.onDuplicateNumberRejected
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnDuplicateNumberRejected(ctx, ownerID, number)
		}); err != nil {
			r.logger.Warn("plugin OnDuplicateNumberRejected failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitSequenceAllocated emits a sequence allocated event.
func (r *Registry) EmitSequenceAllocated(ctx context.Context, name string, value int64) {
	r.mu.RLock()
	plugins := r.onSequenceAllocated
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnSequenceAllocated(ctx, name, value)
		}); err != nil {
			r.logger.Warn("plugin OnSequenceAllocated failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitSummaryComputed emits a summary computed event.
func (r *Registry) EmitSummaryComputed(ctx context.Context, ownerID string, summaries interface{}) {
	r.mu.RLock()
	plugins := r.onSummaryComputed
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnSummaryComputed(ctx, ownerID, summaries)
		}); err != nil {
			r.logger.Warn("plugin OnSummaryComputed failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// GetSummaryFormatter returns a summary formatter by format name.
func (r *Registry) GetSummaryFormatter(format string) SummaryFormatter {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.summaryFormatters[format]
}

// callWithTimeout calls a plugin function with a timeout.
// Plugins should never block the ledger pipeline.
func (r *Registry) callWithTimeout(ctx context.Context, pluginName string, fn func() error) error {
	done := make(chan error, 1)

	go func() {
		done <- fn()
	}()

	select {
	case err := <-done:
		return err
	case <-time.After(5 * time.Second):
		return fmt.Errorf("plugin timeout: %s", pluginName)
	case <-ctx.Done():
		return ctx.Err()
	}
}
