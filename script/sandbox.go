// Package script provides a JavaScript execution sandbox backed by a pool
// of goja VMs, so games can author behavior tree conditions, tasks and
// utility scorers in data files instead of Go code.
package script

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dop251/goja"
	"go.uber.org/zap"
)

// ErrTimeout is returned when a script exceeds the execution time limit.
var ErrTimeout = errors.New("script: execution timed out")

// ErrPanic is returned when a script throws an uncaught exception.
var ErrPanic = errors.New("script: uncaught exception")

// Binding provides blackboard accessors available inside scripts as the
// $bb global ($bb.get(key) / $bb.set(key, value)).
type Binding struct {
	Get func(key string) interface{}
	Set func(key string, value interface{})
}

// VMPool is a thread-safe pool of pre-initialised goja runtimes.
type VMPool struct {
	pool    chan *goja.Runtime
	timeout time.Duration
	logger  *zap.Logger
	mu      sync.Mutex
	size    int
}

// NewVMPool creates a VMPool with the given concurrency size and per-script timeout.
func NewVMPool(size int, timeout time.Duration, logger *zap.Logger) *VMPool {
	if size <= 0 {
		size = 4
	}
	if timeout <= 0 {
		timeout = 500 * time.Millisecond
	}
	p := &VMPool{
		pool:    make(chan *goja.Runtime, size),
		timeout: timeout,
		logger:  logger,
		size:    size,
	}
	for i := 0; i < size; i++ {
		p.pool <- newSafeVM()
	}
	return p
}

// Run executes src inside a pooled VM with the given Binding.
// Returns the value of the last expression evaluated, or an error.
func (p *VMPool) Run(ctx context.Context, src string, b *Binding) (interface{}, error) {
	select {
	case vm := <-p.pool:
		// returnToPool is set to false by runVM when the VM is tainted by a
		// timeout and must be discarded rather than returned to the pool.
		returnToPool := true
		defer func() {
			if returnToPool {
				p.pool <- vm
			}
		}()
		return p.runVM(ctx, vm, src, b, &returnToPool)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (p *VMPool) runVM(ctx context.Context, vm *goja.Runtime, src string, b *Binding, returnToPool *bool) (interface{}, error) {
	if b != nil {
		injectBinding(vm, b)
	}

	// Set up timeout interrupt.
	timer := time.AfterFunc(p.timeout, func() {
		vm.Interrupt(ErrTimeout)
	})
	defer func() {
		timer.Stop()
		// Clear interrupt so the VM is clean for the next caller (only reached
		// when returnToPool is still true).
		if *returnToPool {
			vm.ClearInterrupt()
		}
	}()

	// Recover panics from goja.
	var result goja.Value
	var runErr error
	func() {
		defer func() {
			if r := recover(); r != nil {
				runErr = ErrPanic
			}
		}()
		result, runErr = vm.RunString(src)
	}()

	if runErr != nil {
		// An interrupt surfaces as *goja.InterruptedError wrapping our sentinel.
		if errors.Is(runErr, ErrTimeout) {
			// VM is tainted after an interrupt; discard it and add a fresh one.
			*returnToPool = false
			p.pool <- newSafeVM()
			return nil, ErrTimeout
		}
		if ex, ok := runErr.(*goja.Exception); ok {
			return nil, errors.New(ex.Error())
		}
		return nil, runErr
	}

	if result == nil || goja.IsUndefined(result) || goja.IsNull(result) {
		return nil, nil
	}
	return result.Export(), nil
}

// newSafeVM creates a goja Runtime with dangerous globals removed.
func newSafeVM() *goja.Runtime {
	vm := goja.New()
	// Block dangerous globals.
	for _, name := range []string{"require", "process", "fetch", "XMLHttpRequest", "eval", "Function"} {
		vm.Set(name, goja.Undefined())
	}
	// Provide a safe, deterministic Math subset. Scripts feeding the
	// planner must be reproducible, so random always returns 0.
	mathObj := vm.NewObject()
	_ = mathObj.Set("floor", func(v float64) float64 { return float64(int64(v)) })
	_ = mathObj.Set("ceil", func(v float64) float64 {
		n := int64(v)
		if float64(n) < v {
			n++
		}
		return float64(n)
	})
	_ = mathObj.Set("round", func(v float64) int64 { return int64(v + 0.5) })
	_ = mathObj.Set("abs", func(v float64) float64 {
		if v < 0 {
			return -v
		}
		return v
	})
	_ = mathObj.Set("max", func(a, b float64) float64 {
		if a > b {
			return a
		}
		return b
	})
	_ = mathObj.Set("min", func(a, b float64) float64 {
		if a < b {
			return a
		}
		return b
	})
	_ = mathObj.Set("random", func() float64 { return 0 })
	vm.Set("Math", mathObj)
	return vm
}

// injectBinding binds blackboard accessors into the VM as the $bb global.
func injectBinding(vm *goja.Runtime, b *Binding) {
	bb := vm.NewObject()
	if b.Get != nil {
		_ = bb.Set("get", func(key string) interface{} { return b.Get(key) })
	}
	if b.Set != nil {
		_ = bb.Set("set", func(key string, v interface{}) { b.Set(key, v) })
	}
	vm.Set("$bb", bb)
}

// Sandbox wraps a VMPool with logging and typed evaluation helpers.
type Sandbox struct {
	pool   *VMPool
	logger *zap.Logger
}

// NewSandbox creates a Sandbox backed by a VMPool.
func NewSandbox(size int, timeout time.Duration, logger *zap.Logger) *Sandbox {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sandbox{
		pool:   NewVMPool(size, timeout, logger),
		logger: logger,
	}
}

// Eval executes src with the given Binding, returning the result.
func (sb *Sandbox) Eval(ctx context.Context, src string, b *Binding) (interface{}, error) {
	result, err := sb.pool.Run(ctx, src, b)
	if err != nil {
		sb.logger.Warn("script execution error",
			zap.String("src_preview", truncate(src, 80)),
			zap.Error(err))
	}
	return result, err
}

// Check evaluates src as a predicate: booleans are taken as-is, numbers are
// true when non-zero, strings when non-empty, null/undefined are false.
func (sb *Sandbox) Check(ctx context.Context, src string, b *Binding) (bool, error) {
	out, err := sb.Eval(ctx, src, b)
	if err != nil {
		return false, err
	}
	switch v := out.(type) {
	case nil:
		return false, nil
	case bool:
		return v, nil
	case int64:
		return v != 0, nil
	case float64:
		return v != 0, nil
	case string:
		return v != "", nil
	default:
		return true, nil
	}
}

// Score evaluates src as a numeric score for utility actions.
// Non-numeric results score zero.
func (sb *Sandbox) Score(ctx context.Context, src string, b *Binding) (float64, error) {
	out, err := sb.Eval(ctx, src, b)
	if err != nil {
		return 0, err
	}
	switch v := out.(type) {
	case int64:
		return float64(v), nil
	case float64:
		return v, nil
	default:
		return 0, nil
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
