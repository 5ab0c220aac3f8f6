// Package controller runs load, query and export as cancellable,
// time-tracked operations and publishes their progress as events.
package controller

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ukaji3/sheetsql-go/pkg/sheetsql"
	"github.com/ukaji3/sheetsql-go/pkg/sheetsql/models"
)

// DefaultTickInterval is the wall-clock time per elapsed tick.
const DefaultTickInterval = time.Second

const defaultEventBuffer = 64

// SheetLoader reads a workbook into a dataset.
type SheetLoader interface {
	Load(ctx context.Context, path string, progress func(n int)) (*models.Dataset, error)
}

// QueryRunner executes a query over a dataset.
type QueryRunner interface {
	Run(ctx context.Context, ds *models.Dataset, query string, token *sheetsql.CancelToken) (*models.ResultTable, error)
}

// ResultExporter writes a result to a workbook.
type ResultExporter interface {
	Export(ctx context.Context, res *models.ResultTable, path string, token *sheetsql.CancelToken) error
}

// Config wires the stages of a Controller.
type Config struct {
	Loader   SheetLoader
	Runner   QueryRunner
	Exporter ResultExporter

	// TickInterval defaults to DefaultTickInterval.
	TickInterval time.Duration
	// EventBuffer is the capacity of the event channel.
	EventBuffer int
	Logger      *slog.Logger
}

// Controller owns the execution state, the dataset and the cancel token.
//
// Events must be drained by the caller: terminal events are delivered with
// a blocking send, ticks are dropped when the buffer is full.
type Controller struct {
	loader   SheetLoader
	runner   QueryRunner
	exporter ResultExporter
	tick     time.Duration
	logger   *slog.Logger
	events   chan Event

	mu      sync.Mutex
	state   State
	dataset *models.Dataset
	input   string
	token   sheetsql.CancelToken

	wg sync.WaitGroup
}

// New creates an idle Controller.
func New(cfg Config) *Controller {
	tick := cfg.TickInterval
	if tick <= 0 {
		tick = DefaultTickInterval
	}
	buffer := cfg.EventBuffer
	if buffer <= 0 {
		buffer = defaultEventBuffer
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Controller{
		loader:   cfg.Loader,
		runner:   cfg.Runner,
		exporter: cfg.Exporter,
		tick:     tick,
		logger:   logger,
		events:   make(chan Event, buffer),
	}
}

// Events returns the channel all state changes are published on.
func (c *Controller) Events() <-chan Event {
	return c.events
}

// State returns the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Sheets returns the loaded sheet names in workbook order.
func (c *Controller) Sheets() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dataset.SheetNames()
}

// Columns returns the columns of a loaded sheet, or nil.
func (c *Controller) Columns(sheet string) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dataset.Columns(sheet)
}

// Input returns the path of the loaded workbook.
func (c *Controller) Input() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.input
}

// Wait blocks until every started task has returned.
func (c *Controller) Wait() {
	c.wg.Wait()
}

// Load starts reading the workbook at path in the background.
// The outcome is published as SheetsReady or LoadFailed.
func (c *Controller) Load(path string) error {
	if strings.TrimSpace(path) == "" {
		return ErrMissingInput
	}

	c.mu.Lock()
	if c.state.Busy() {
		c.mu.Unlock()
		return ErrBusy
	}
	c.state = Loading
	c.mu.Unlock()

	c.logger.Debug("load started", "path", path)
	c.wg.Add(1)
	go c.load(path)
	return nil
}

func (c *Controller) load(path string) {
	defer c.wg.Done()

	start := time.Now()
	ds, err := c.loader.Load(context.Background(), path, func(n int) {
		c.send(Event{Kind: SheetCount, Path: path, Count: n})
	})

	c.mu.Lock()
	ev := Event{Path: path, Duration: time.Since(start)}
	if err != nil {
		c.dataset = nil
		c.input = ""
		c.state = Idle
		ev.Kind = LoadFailed
		ev.Err = err
	} else {
		c.dataset = ds
		c.input = path
		c.state = Ready
		ev.Kind = SheetsReady
		ev.Sheets = ds.SheetNames()
	}
	c.mu.Unlock()

	if err != nil {
		c.logger.Warn("load failed", "path", path, "error", err)
	} else {
		c.logger.Info("workbook loaded", "path", path, "sheets", len(ev.Sheets), "elapsed", ev.Duration)
	}
	c.send(ev)
}

// Execute starts running query against the loaded dataset and exporting
// the result to outputPath. It returns once the pipeline and the timer are
// started; the outcome is published as ExecutionDone, ExecutionCancelled or
// ExecutionFailed.
func (c *Controller) Execute(query, outputPath string) error {
	c.mu.Lock()
	if c.state == Running || c.state == Cancelling {
		c.mu.Unlock()
		return ErrBusy
	}
	if strings.TrimSpace(query) == "" || strings.TrimSpace(outputPath) == "" || (c.input == "" && c.state != Loading) {
		c.mu.Unlock()
		return ErrMissingInput
	}
	if c.state != Ready {
		c.mu.Unlock()
		return ErrNotReady
	}

	c.token.Reset()
	c.state = Running
	ds := c.dataset
	c.mu.Unlock()

	runID := uuid.NewString()
	c.logger.Info("execution started", "run_id", runID, "output", outputPath)
	c.send(Event{Kind: ExecutionStarted, RunID: runID, Path: outputPath})

	stop := make(chan struct{})
	final := make(chan int, 1)
	c.wg.Add(2)
	go c.runTimer(runID, stop, final)
	go c.runPipeline(runID, ds, query, outputPath, stop, final)
	return nil
}

// Cancel requests cancellation of the running execution. Stages observe
// the request only at their checkpoints; a running statement is never
// interrupted.
func (c *Controller) Cancel() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state {
	case Running:
		c.token.Cancel()
		c.state = Cancelling
		c.logger.Info("cancellation requested")
		return nil
	case Cancelling:
		return nil
	default:
		return ErrNotRunning
	}
}

func (c *Controller) runTimer(runID string, stop <-chan struct{}, final chan<- int) {
	defer c.wg.Done()

	ticker := time.NewTicker(c.tick)
	defer ticker.Stop()

	elapsed := 0
	for {
		select {
		case <-stop:
			final <- elapsed
			return
		case <-ticker.C:
			elapsed++
			c.trySend(Event{Kind: Tick, RunID: runID, Elapsed: elapsed})
		}
	}
}

func (c *Controller) runPipeline(runID string, ds *models.Dataset, query, outputPath string, stop chan<- struct{}, final <-chan int) {
	defer c.wg.Done()

	start := time.Now()
	err := c.pipeline(context.Background(), ds, query, outputPath)
	close(stop)
	elapsed := <-final

	ev := c.finish(err)
	ev.RunID = runID
	ev.Path = outputPath
	ev.Elapsed = elapsed
	ev.Duration = time.Since(start)

	logger := c.logger.With("run_id", runID, "elapsed", elapsed)
	switch ev.Kind {
	case ExecutionDone:
		logger.Info("execution finished", "output", outputPath, "cancel_ignored", ev.CancelIgnored)
	case ExecutionCancelled:
		logger.Info("execution cancelled")
	default:
		logger.Warn("execution failed", "error", err)
	}
	c.send(ev)
}

func (c *Controller) pipeline(ctx context.Context, ds *models.Dataset, query, outputPath string) error {
	res, err := c.runner.Run(ctx, ds, query, &c.token)
	if err != nil {
		return err
	}
	return c.exporter.Export(ctx, res, outputPath, &c.token)
}

// finish maps a pipeline outcome to the next state and its event.
func (c *Controller) finish(err error) Event {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case err == nil:
		ignored := c.state == Cancelling
		c.state = Done
		return Event{Kind: ExecutionDone, CancelIgnored: ignored}
	case errors.Is(err, sheetsql.ErrCancelled):
		c.state = Idle
		return Event{Kind: ExecutionCancelled}
	default:
		c.state = Idle
		return Event{Kind: ExecutionFailed, Err: err}
	}
}

func (c *Controller) send(ev Event) {
	c.events <- ev
}

func (c *Controller) trySend(ev Event) {
	select {
	case c.events <- ev:
	default:
	}
}
