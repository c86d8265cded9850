package cradle

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Middleware provides hooks around the public Get and Make calls.
// Middleware can be used for logging, access checks, testing, etc.
type Middleware interface {
	// BeforeResolve is called before resolving key.
	// Return error to abort resolution.
	BeforeResolve(key string) error

	// AfterResolve is called after resolving key.
	// Called even if resolution failed (instance and err may both be set).
	AfterResolve(key string, instance any, err error) error
}

// middlewareChain manages multiple middleware.
type middlewareChain struct {
	middleware []Middleware
	mu         sync.RWMutex
}

// newMiddlewareChain creates a new middleware chain.
func newMiddlewareChain() *middlewareChain {
	return &middlewareChain{
		middleware: make([]Middleware, 0),
	}
}

// add appends middleware to the chain.
func (m *middlewareChain) add(middleware Middleware) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.middleware = append(m.middleware, middleware)
}

func (m *middlewareChain) list() []Middleware {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.middleware
}

// beforeResolve calls BeforeResolve on all middleware.
func (m *middlewareChain) beforeResolve(key string) error {
	for _, mw := range m.list() {
		if err := mw.BeforeResolve(key); err != nil {
			return err
		}
	}
	return nil
}

// afterResolve calls AfterResolve on all middleware.
func (m *middlewareChain) afterResolve(key string, instance any, err error) error {
	for _, mw := range m.list() {
		if mwErr := mw.AfterResolve(key, instance, err); mwErr != nil {
			return mwErr
		}
	}
	return nil
}

// Use appends middleware to the container's chain.
func (c *Container) Use(middleware Middleware) {
	c.middleware.add(middleware)
}

// FuncMiddleware wraps functions as Middleware.
type FuncMiddleware struct {
	BeforeResolveFunc func(key string) error
	AfterResolveFunc  func(key string, instance any, err error) error
}

// BeforeResolve implements Middleware.
func (f *FuncMiddleware) BeforeResolve(key string) error {
	if f.BeforeResolveFunc != nil {
		return f.BeforeResolveFunc(key)
	}
	return nil
}

// AfterResolve implements Middleware.
func (f *FuncMiddleware) AfterResolve(key string, instance any, err error) error {
	if f.AfterResolveFunc != nil {
		return f.AfterResolveFunc(key, instance, err)
	}
	return nil
}

// LoggingMiddleware logs every resolution: failures at warn, the rest at debug.
func LoggingMiddleware(logger *zap.Logger) Middleware {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &FuncMiddleware{
		AfterResolveFunc: func(key string, instance any, err error) error {
			if err != nil {
				logger.Warn("resolution failed", zap.String("key", key), zap.Error(err))
				return nil
			}
			logger.Debug("resolved", zap.String("key", key), zap.String("type", fmt.Sprintf("%T", instance)))
			return nil
		},
	}
}
