package femtomix

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/randalmurphal/femtomix/pkg/femtomix/config"
	"github.com/randalmurphal/femtomix/pkg/femtomix/event"
	"github.com/randalmurphal/femtomix/pkg/femtomix/observability"
	"github.com/randalmurphal/femtomix/pkg/femtomix/reader"
)

// RunSchema is the CUE schema every Manager configuration must satisfy.
//
//go:embed run.cue
var RunSchema string

// Manager reads one event stream and drives several analyses over it.
type Manager struct {
	runID    string
	reader   reader.Reader
	analyses []*Analysis
	opts     options
	ran      bool
	events   int64
}

// Build constructs the reader and every analysis of a run configuration
// {reader: {...}, analyses: [...], strict_config: bool}. Construction
// problems of all analyses are reported together; nothing is returned on
// error.
func Build(c *Catalog, obj *config.Object, opts ...Option) (*Manager, error) {
	o := applyOptions(opts)
	if v, _ := config.Lookup(obj.Root(), "analyses"); v == nil || isEmptyList(v) {
		return nil, ErrNoAnalyses
	}
	if err := config.ValidateSchema(obj.Root(), RunSchema); err != nil {
		return nil, err
	}

	var strict bool
	if obj.PopAndLoad("strict_config", &strict) && strict {
		o.strict = true
	}

	readerObj, _ := obj.Child("reader")
	rd, err := c.Readers.Construct(readerObj)
	if err != nil {
		return nil, err
	}

	children, _ := obj.Children("analyses")
	var (
		analyses []*Analysis
		errs     []error
		names    = make(map[string]bool)
	)
	for _, child := range children {
		a, err := c.Analyses.Construct(child)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if names[a.Name()] {
			errs = append(errs, &ConfigError{Path: child.Path(), Key: "name", Err: fmt.Errorf("duplicate analysis name %q", a.Name())})
			continue
		}
		names[a.Name()] = true
		analyses = append(analyses, a)
	}
	if err := errors.Join(errs...); err != nil {
		rd.Close()
		return nil, err
	}
	if err := checkConsumed(obj, o); err != nil {
		rd.Close()
		return nil, err
	}

	if o.runID == "" {
		o.runID = uuid.NewString()
	}
	for _, a := range analyses {
		a.attach(o, o.runID)
	}
	return &Manager{runID: o.runID, reader: rd, analyses: analyses, opts: o}, nil
}

func isEmptyList(v config.Value) bool {
	l, ok := v.(config.List)
	return ok && len(l) == 0
}

// BuildText parses text and calls Build.
func BuildText(c *Catalog, text string, opts ...Option) (*Manager, error) {
	obj, err := config.Parse(text)
	if err != nil {
		return nil, err
	}
	return Build(c, obj, opts...)
}

// RunID returns the identifier bundles are stored under.
func (m *Manager) RunID() string { return m.runID }

// Analyses returns the analyses in configuration order.
func (m *Manager) Analyses() []*Analysis { return m.analyses }

// Events returns how many events the last Run read.
func (m *Manager) Events() int64 { return m.events }

// Close releases the reader.
func (m *Manager) Close() error { return m.reader.Close() }

// Run reads every event and hands it to each analysis on its own goroutine,
// in reader order. After the stream ends it finishes the analyses and
// returns their bundles in configuration order, persisting them when a
// store is configured.
//
// On error or cancellation no analysis is finished and the partial output
// is discarded.
func (m *Manager) Run(ctx context.Context) (bundles []*OutputBundle, err error) {
	if m.ran {
		return nil, ErrAlreadyRun
	}
	m.ran = true

	logger := m.opts.logger
	observability.LogRunStart(logger, m.runID, len(m.analyses))
	elapsed := observability.TimedOperation()
	start := time.Now()

	ctx, span := m.opts.spans.StartRunSpan(ctx, m.runID, len(m.analyses))
	defer func() {
		m.opts.spans.EndSpanWithError(span, err)
		m.opts.metrics.RecordRun(ctx, err == nil, time.Since(start))
		if err != nil {
			observability.LogRunError(logger, m.runID, err, elapsed(), m.events)
		} else {
			observability.LogRunComplete(logger, m.runID, elapsed(), m.events)
		}
	}()

	if err := m.stream(ctx); err != nil {
		return nil, err
	}
	m.opts.spans.AddSpanEvent(ctx, "stream.done")

	bundles = make([]*OutputBundle, 0, len(m.analyses))
	for _, a := range m.analyses {
		b, err := m.finish(ctx, a)
		if err != nil {
			return nil, err
		}
		bundles = append(bundles, b)
	}
	return bundles, nil
}

func (m *Manager) stream(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	chans := make([]chan *event.Event, len(m.analyses))
	for i, a := range m.analyses {
		ch := make(chan *event.Event, m.opts.buffer)
		chans[i] = ch
		g.Go(func() error {
			for {
				select {
				case ev, ok := <-ch:
					if !ok {
						return nil
					}
					if err := a.ProcessEvent(ev); err != nil {
						return err
					}
				case <-gctx.Done():
					return gctx.Err()
				}
			}
		})
	}

	g.Go(func() error {
		defer func() {
			for _, ch := range chans {
				close(ch)
			}
		}()
		for {
			ev, err := m.reader.Next(gctx)
			if errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("read event %d: %w", m.events+1, err)
			}
			m.events++
			for _, ch := range chans {
				select {
				case ch <- ev:
				case <-gctx.Done():
					return gctx.Err()
				}
			}
		}
	})

	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

func (m *Manager) finish(ctx context.Context, a *Analysis) (_ *OutputBundle, err error) {
	_, span := m.opts.spans.StartFinishSpan(ctx, a.Name())
	defer func() { m.opts.spans.EndSpanWithError(span, err) }()

	if err := a.Finish(); err != nil {
		return nil, err
	}
	b, err := a.GetOutputList()
	if err != nil {
		return nil, err
	}
	if m.opts.store == nil {
		return b, nil
	}

	data, err := b.JSON()
	if err != nil {
		return nil, err
	}
	if err := m.opts.store.Save(m.runID, a.Name(), data); err != nil {
		return nil, fmt.Errorf("save bundle %s: %w", a.Name(), err)
	}
	observability.LogBundleSaved(a.logger, m.runID, a.Name(), len(data))
	return b, nil
}
