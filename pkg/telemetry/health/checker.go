package health

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"
)

// Status is the outcome of a check or of a whole report.
type Status string

const (
	StatusOK   Status = "ok"
	StatusWarn Status = "warn"
	StatusFail Status = "fail"
)

// severity orders statuses so a report takes the worst one.
func (s Status) severity() int {
	switch s {
	case StatusFail:
		return 2
	case StatusWarn:
		return 1
	default:
		return 0
	}
}

// CheckFunc checks one component. It returns nil when the component is
// usable, a *Warning when it is usable with caveats, and any other error when
// it is broken.
type CheckFunc func(ctx context.Context) error

// Warning marks a check result as a non-fatal problem.
type Warning struct {
	Message string
}

func (w *Warning) Error() string {
	return w.Message
}

// Warnf returns a *Warning with a formatted message.
func Warnf(format string, args ...any) error {
	return &Warning{Message: fmt.Sprintf(format, args...)}
}

// CheckResult is the outcome of a single check.
type CheckResult struct {
	Name       string  `json:"name"`
	Status     Status  `json:"status"`
	Message    string  `json:"message,omitempty"`
	DurationMS float64 `json:"duration_ms"`
}

// Report is the outcome of a Checker run. Checks keep registration order.
type Report struct {
	Status    Status        `json:"status"`
	Checks    []CheckResult `json:"checks"`
	Timestamp time.Time     `json:"timestamp"`
}

// Healthy reports whether no check failed. Warnings are healthy.
func (r *Report) Healthy() bool {
	return r.Status != StatusFail
}

// Checker runs named checks concurrently, each under its own timeout.
type Checker struct {
	mu     sync.RWMutex
	names  []string
	checks map[string]CheckFunc

	checkTimeout time.Duration
}

// ErrCheckTimeout is reported when a check outlives the per-check timeout.
var ErrCheckTimeout = errors.New("check timed out")

// New creates a checker. A zero timeout means 5 seconds per check.
func New(checkTimeout time.Duration) *Checker {
	if checkTimeout <= 0 {
		checkTimeout = 5 * time.Second
	}

	return &Checker{
		checks:       make(map[string]CheckFunc),
		checkTimeout: checkTimeout,
	}
}

// Register adds a named check. Re-registering a name replaces the check
// and keeps its position.
func (c *Checker) Register(name string, check CheckFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.checks[name]; !ok {
		c.names = append(c.names, name)
	}
	c.checks[name] = check
}

// Unregister removes a named check.
func (c *Checker) Unregister(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.checks[name]; !ok {
		return
	}
	delete(c.checks, name)
	c.names = slices.DeleteFunc(c.names, func(n string) bool { return n == name })
}

// Names returns the registered check names in registration order.
func (c *Checker) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return slices.Clone(c.names)
}

// Run executes every registered check concurrently and aggregates the
// worst status. With no checks the report is ok.
func (c *Checker) Run(ctx context.Context) *Report {
	c.mu.RLock()
	names := slices.Clone(c.names)
	checks := make([]CheckFunc, len(names))
	for i, name := range names {
		checks[i] = c.checks[name]
	}
	c.mu.RUnlock()

	results := make([]CheckResult, len(names))
	var wg sync.WaitGroup
	for i := range names {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = c.runCheck(ctx, names[i], checks[i])
		}(i)
	}
	wg.Wait()

	status := StatusOK
	for _, r := range results {
		if r.Status.severity() > status.severity() {
			status = r.Status
		}
	}

	return &Report{
		Status:    status,
		Checks:    results,
		Timestamp: time.Now(),
	}
}

// runCheck executes a single check with the per-check timeout. A check that
// ignores its context is abandoned when the timeout fires.
func (c *Checker) runCheck(ctx context.Context, name string, check CheckFunc) CheckResult {
	checkCtx, cancel := context.WithTimeout(ctx, c.checkTimeout)
	defer cancel()

	start := time.Now()
	errChan := make(chan error, 1)
	go func() {
		errChan <- check(checkCtx)
	}()

	var err error
	select {
	case err = <-errChan:
	case <-checkCtx.Done():
		err = fmt.Errorf("%w after %s", ErrCheckTimeout, c.checkTimeout)
	}

	result := CheckResult{
		Name:       name,
		Status:     StatusOK,
		DurationMS: float64(time.Since(start).Microseconds()) / 1000,
	}

	var warning *Warning
	switch {
	case err == nil:
	case errors.As(err, &warning):
		result.Status = StatusWarn
		result.Message = warning.Message
	default:
		result.Status = StatusFail
		result.Message = err.Error()
	}
	return result
}
