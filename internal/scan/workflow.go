// Package scan implements the checkpoint-visit state machine: acquire a
// decoded code, resolve it against the catalog, collect classification
// and notes, persist exactly one record, return to scanning.
package scan

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/andikura/sipola_backend_v1/internal/models"
)

type State int

const (
	StateIdle State = iota
	StateScanning
	StatePendingCode
	StateResolved
	StateClassifying
	StateSaving
	StateResult
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateScanning:
		return "scanning"
	case StatePendingCode:
		return "pending_code"
	case StateResolved:
		return "resolved"
	case StateClassifying:
		return "classifying"
	case StateSaving:
		return "saving"
	case StateResult:
		return "result"
	}
	return "unknown"
}

var (
	ErrBadState  = errors.New("not allowed in current scan state")
	ErrBadStatus = errors.New("unknown classification")
)

// Result is the transient toast shown after a cycle ends, either way.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Resolver looks a decoded code up in the checkpoint catalog.
type Resolver func(code string) (models.Checkpoint, bool)

// SaveFunc persists one completed visit; the coordinator's write-through
// in practice.
type SaveFunc func(ctx context.Context, rec models.ScanRecord, cp models.Checkpoint) error

const defaultResultDelay = 2 * time.Second

// Workflow runs one checkpoint visit at a time.
type Workflow struct {
	mu      sync.Mutex
	resolve Resolver
	save    SaveFunc
	src     *guarded
	delay   time.Duration

	state   State
	current models.Checkpoint
	status  string
	notes   string
	result  *Result
	timer   *time.Timer
	cycle   int // bumped on teardown so stale timers and saves are dropped
}

type Option func(*Workflow)

// WithResultDelay overrides the fixed display delay before the workflow
// returns to scanning.
func WithResultDelay(d time.Duration) Option {
	return func(w *Workflow) { w.delay = d }
}

func New(resolve Resolver, save SaveFunc, src Source, opts ...Option) *Workflow {
	w := &Workflow{
		resolve: resolve,
		save:    save,
		src:     newGuarded(src),
		delay:   defaultResultDelay,
		state:   StateIdle,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Start activates scanning. A failed capability start is logged and the
// workflow stays idle: a stable, non-functional screen rather than a
// crash.
func (w *Workflow) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.toScanning()
}

// Stop tears the cycle down: timer cancelled, capability released,
// in-flight save results dropped.
func (w *Workflow) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.cycle++
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	if err := w.src.Stop(); err != nil {
		log.Printf("scan: stop capability: %v", err)
	}
	w.state = StateIdle
	w.clearForm()
	w.result = nil
}

// HandleCode is the decode event. Codes arriving outside the Scanning
// state belong to a finished cycle and are dropped.
func (w *Workflow) HandleCode(code string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state != StateScanning {
		return
	}
	w.state = StatePendingCode
	if err := w.src.Stop(); err != nil {
		log.Printf("scan: suspend capability: %v", err)
	}

	cp, ok := w.resolve(code)
	if !ok {
		w.result = &Result{Success: false, Message: "QR tidak dikenali"}
		w.state = StateResult
		w.scheduleResume()
		return
	}
	w.current = cp
	w.status = models.StatusAman
	w.notes = ""
	w.state = StateResolved
}

// SetStatus records the classification and moves into Classifying.
func (w *Workflow) SetStatus(status string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state != StateResolved && w.state != StateClassifying {
		return ErrBadState
	}
	if !models.ValidStatus(status) {
		return fmt.Errorf("%w: %q", ErrBadStatus, status)
	}
	w.status = status
	w.state = StateClassifying
	return nil
}

func (w *Workflow) SetNotes(notes string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state != StateResolved && w.state != StateClassifying {
		return ErrBadState
	}
	w.notes = notes
	w.state = StateClassifying
	return nil
}

// Submit persists the visit. On save failure the form stays intact in
// Classifying so the operator can retry or cancel; on success the
// workflow shows the result and resumes scanning after the display
// delay. A save that outlives a Stop completes and is ignored.
func (w *Workflow) Submit(ctx context.Context) error {
	w.mu.Lock()
	if w.state != StateResolved && w.state != StateClassifying {
		w.mu.Unlock()
		return ErrBadState
	}
	now := time.Now()
	rec := models.ScanRecord{
		ID:       models.NewID(),
		Location: w.current.Location,
		Status:   w.status,
		Notes:    w.notes,
		Time:     models.ClockHM(now),
		Date:     models.DateISO(now),
	}
	cp := w.current
	cycle := w.cycle
	w.state = StateSaving
	w.mu.Unlock()

	err := w.save(ctx, rec, cp)

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.cycle != cycle || w.state != StateSaving {
		return nil
	}
	if err != nil {
		w.state = StateClassifying
		return err
	}
	w.result = &Result{Success: true, Message: rec.Location + " - " + rec.Status}
	w.clearForm()
	w.state = StateResult
	w.scheduleResume()
	return nil
}

// Cancel discards the in-progress form and resumes scanning. Always
// available while classifying; a save already in flight is not
// cancellable and simply completes.
func (w *Workflow) Cancel() {
	w.mu.Lock()
	defer w.mu.Unlock()
	switch w.state {
	case StatePendingCode, StateResolved, StateClassifying:
		w.clearForm()
		w.toScanning()
	}
}

func (w *Workflow) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Checkpoint returns the resolved catalog entry of the current cycle.
func (w *Workflow) Checkpoint() (models.Checkpoint, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	switch w.state {
	case StateResolved, StateClassifying, StateSaving:
		return w.current, true
	}
	return models.Checkpoint{}, false
}

func (w *Workflow) Form() (status, notes string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.status, w.notes
}

// LastResult returns the toast for the current Result state, nil
// otherwise.
func (w *Workflow) LastResult() *Result {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.result == nil {
		return nil
	}
	r := *w.result
	return &r
}

// Scanning reports whether the capability is currently held.
func (w *Workflow) Scanning() bool { return w.src.Running() }

// toScanning clears cycle state and re-acquires the capability. Callers
// hold w.mu.
func (w *Workflow) toScanning() {
	w.clearForm()
	w.result = nil
	if err := w.src.Start(w.HandleCode); err != nil {
		log.Printf("scan: start capability: %v", err)
		w.state = StateIdle
		return
	}
	w.state = StateScanning
}

func (w *Workflow) clearForm() {
	w.current = models.Checkpoint{}
	w.status = models.StatusAman
	w.notes = ""
}

// scheduleResume returns to scanning after the fixed display delay.
// Callers hold w.mu.
func (w *Workflow) scheduleResume() {
	cycle := w.cycle
	w.timer = time.AfterFunc(w.delay, func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		if w.cycle != cycle || w.state != StateResult {
			return
		}
		w.toScanning()
	})
}
