// Package assemble implements the page-overlay and document-assembly
// pipeline: it maps annotation geometry from the client's fixed-width preview
// space into true page space, burns annotations onto per-page copies of
// source documents, and recombines pages from any number of sources into a
// merged document, an extracted subset, or a collection of single-page
// documents.
//
// All three operations are stateless: each call is a pure function of the
// document store contents, the requested page order, and the annotation
// payload. Per-page failures (malformed source, bad annotation payload,
// out-of-range index) are contained to that page and surface only in the
// result's Skipped count.
package assemble

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Ethan1812/pdf-edit-online/docstore"
)

// Events receives a record of each completed assembly operation. Implemented
// by the observability event logger; a nil recorder disables reporting.
type Events interface {
	AssemblyCompleted(ctx context.Context, op string, produced, skipped int, err error)
}

// Engine orchestrates page resolution, annotation rendering, and output
// assembly. It depends only on the store's read contract.
type Engine struct {
	store  docstore.Reader
	cfg    Config
	logger *slog.Logger
	events Events
}

// Option configures an Engine.
type Option func(*Engine)

// WithEvents sets the assembly event recorder.
func WithEvents(ev Events) Option {
	return func(e *Engine) { e.events = ev }
}

// New creates an Engine reading from store.
func New(store docstore.Reader, cfg Config, opts ...Option) *Engine {
	cfg.defaults()
	e := &Engine{
		store:  store,
		cfg:    cfg,
		logger: cfg.Logger,
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Merge assembles every page of order, in order, into one document. Pages
// with annotations go through the overlay renderer; untouched pages are
// copied structurally to preserve fidelity. Stale references and failed
// pages are skipped and counted.
func (e *Engine) Merge(ctx context.Context, order PageOrder, elements map[string][]RawElement) (*Result, error) {
	jobs, stale := e.resolve(order, elements)
	res, err := e.assembleJobs(ctx, jobs, stale)
	e.record(ctx, "merge", res, err)
	return res, err
}

// Extract assembles only the pages of order selected by the 1-based
// positions. Invalid positions are dropped; survivors are deduplicated and
// processed in ascending order. A request that resolves to zero pages is
// ErrNoPages, never an empty document.
func (e *Engine) Extract(ctx context.Context, order PageOrder, positions []int, elements map[string][]RawElement) (*Result, error) {
	jobs, stale := e.resolveSubset(order, positions, elements)
	res, err := e.assembleJobs(ctx, jobs, stale)
	e.record(ctx, "extract", res, err)
	return res, err
}

// Split renders every page of order as an independent single-page document,
// named page_<position>.pdf by its 1-based position in the traversal.
// Skipped pages leave gaps in the numbering rather than renumbering the
// survivors.
func (e *Engine) Split(ctx context.Context, order PageOrder, elements map[string][]RawElement) (*SplitResult, error) {
	jobs, stale := e.resolve(order, elements)
	parts, failed := e.renderAll(ctx, jobs)

	res := &SplitResult{Skipped: stale + failed}
	for i, p := range parts {
		if p == nil {
			continue
		}
		res.Files = append(res.Files, File{
			Name: fmt.Sprintf("page_%d.pdf", jobs[i].pos),
			Data: p,
		})
	}

	if e.events != nil {
		e.events.AssemblyCompleted(ctx, "split", len(res.Files), res.Skipped, nil)
	}
	return res, nil
}

func (e *Engine) assembleJobs(ctx context.Context, jobs []job, stale int) (*Result, error) {
	parts, failed := e.renderAll(ctx, jobs)

	kept := parts[:0]
	for _, p := range parts {
		if p != nil {
			kept = append(kept, p)
		}
	}
	skipped := stale + failed
	if len(kept) == 0 {
		return &Result{Skipped: skipped}, ErrNoPages
	}

	pdf, err := mergeParts(kept)
	if err != nil {
		return &Result{Skipped: skipped}, err
	}
	return &Result{PDF: pdf, Pages: len(kept), Skipped: skipped}, nil
}

// renderAll renders jobs across a bounded worker pool. Results are collected
// into a slice indexed by job position, so output order never depends on
// completion order; a nil slot marks a failed page. Each worker touches only
// the immutable source bytes and its own output slot.
func (e *Engine) renderAll(ctx context.Context, jobs []job) (parts [][]byte, failed int) {
	parts = make([][]byte, len(jobs))
	errs := make([]error, len(jobs))

	sem := make(chan struct{}, e.cfg.Workers)
	var wg sync.WaitGroup
	for i := range jobs {
		// Undispatched jobs on cancellation still count as skipped pages.
		if err := ctx.Err(); err != nil {
			for j := i; j < len(jobs); j++ {
				errs[j] = err
			}
			break
		}
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			parts[i], errs[i] = e.renderPage(jobs[i])
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			failed++
			e.logger.Warn("page skipped",
				"doc", jobs[i].ref.DocID,
				"page", jobs[i].ref.PageNum,
				"error", err)
		}
	}
	return parts, failed
}

// renderPage produces the standalone single-page document for one job.
// Pages without annotations bypass the renderer entirely (structural copy).
func (e *Engine) renderPage(j job) ([]byte, error) {
	if len(j.elems) == 0 {
		return trimPage(j.data, j.ref.PageNum)
	}
	anns, err := DecodeAnnotations(j.elems)
	if err != nil {
		return nil, err
	}
	return renderAnnotatedPage(j.data, j.ref.PageNum, anns, e.cfg.PreviewWidth)
}

func (e *Engine) record(ctx context.Context, op string, res *Result, err error) {
	if e.events == nil {
		return
	}
	produced, skipped := 0, 0
	if res != nil {
		produced, skipped = res.Pages, res.Skipped
	}
	e.events.AssemblyCompleted(ctx, op, produced, skipped, err)
}
