package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cloo-solutions/lexora/internal/domain"
	"github.com/cloo-solutions/lexora/internal/index"
	"github.com/cloo-solutions/lexora/internal/registry"
	"github.com/cloo-solutions/lexora/internal/telemetry"
)

// State is the orchestrator lifecycle state.
type State string

const (
	StateEmpty    State = "empty"
	StateIndexing State = "indexing"
	StateReady    State = "ready"
	StateQuerying State = "querying"
	StateError    State = "error"
)

// Orchestrator sequences ingestion and query requests against the shared
// registry/index pair. Mutations (commit, reset) take the lock exclusively;
// asks hold it shared across search and chunk resolution, so a query sees
// the pre-mutation corpus or the post-mutation one, never a mix. Queries
// still never wait on an in-flight upload's model calls, which run before
// the commit takes the lock.
type Orchestrator struct {
	pipeline  *IngestPipeline
	retrieval *RetrievalEngine
	synth     *Synthesizer
	reg       *registry.Registry
	idx       index.VectorIndex

	askTimeout time.Duration

	mu        sync.RWMutex // exclusive for commits, reset, and the error flag
	errored   bool
	ingesting atomic.Int64
	asking    atomic.Int64
	llmUp     atomic.Bool
}

// NewOrchestrator wires the pipeline stages around a shared registry and
// index. askTimeout <= 0 disables the request-level deadline.
func NewOrchestrator(
	pipeline *IngestPipeline,
	retrieval *RetrievalEngine,
	synth *Synthesizer,
	reg *registry.Registry,
	idx index.VectorIndex,
	askTimeout time.Duration,
) *Orchestrator {
	return &Orchestrator{
		pipeline:   pipeline,
		retrieval:  retrieval,
		synth:      synth,
		reg:        reg,
		idx:        idx,
		askTimeout: askTimeout,
	}
}

// State derives the current lifecycle state. Indexing and Querying are
// transient phases observed while requests are in flight; both accept
// concurrent asks once at least one document has committed.
func (o *Orchestrator) State() State {
	o.mu.RLock()
	errored := o.errored
	o.mu.RUnlock()

	switch {
	case errored:
		return StateError
	case o.ingesting.Load() > 0:
		return StateIndexing
	case o.asking.Load() > 0:
		return StateQuerying
	case o.reg.DocumentCount() > 0:
		return StateReady
	default:
		return StateEmpty
	}
}

// Ingest runs the full ingestion pipeline for one upload. The slow stages
// (extraction, embedding) run without holding the mutation lock; the commit
// is atomic, so a document becomes visible to queries only once all of its
// chunks are registered and indexed. Any failure leaves the registry and
// index exactly as they were.
func (o *Orchestrator) Ingest(ctx context.Context, input IngestInput) (*domain.Document, error) {
	ctx, span := telemetry.StartSpan(ctx, "Orchestrator.Ingest", telemetry.SpanAttributes{
		Operation: "ingest",
	})
	defer span.End()

	if err := o.checkErrored(); err != nil {
		return nil, err
	}

	o.ingesting.Add(1)
	defer o.ingesting.Add(-1)

	doc, chunks, err := o.pipeline.Prepare(ctx, input)
	if err != nil {
		span.SetError(err)
		return nil, err
	}

	if err := o.commit(doc, chunks); err != nil {
		span.SetError(err)
		return nil, err
	}

	return doc, nil
}

// commit inserts a fully prepared document into registry and index under
// mutual exclusion.
func (o *Orchestrator) commit(doc *domain.Document, chunks []*domain.Chunk) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.errored {
		return domain.ErrSystemErrored
	}

	if err := o.reg.Add(doc, chunks); err != nil {
		return err
	}

	for i, c := range chunks {
		if err := o.idx.Add(c.ID, c.Embedding); err != nil {
			// A partial insert would leave orphans on either side. Roll
			// everything back to the pre-upload state and report the
			// original failure.
			o.rollback(doc, chunks[:i])
			return err
		}
	}

	return nil
}

// rollback undoes a failed commit. Neither structure supports removing a
// single document, so it rebuilds both from the surviving documents.
func (o *Orchestrator) rollback(failed *domain.Document, inserted []*domain.Chunk) {
	docs := o.reg.List()
	keep := make([]*domain.Document, 0, len(docs))
	for _, d := range docs {
		if d.ID != failed.ID {
			keep = append(keep, d)
		}
	}

	chunksByDoc := make(map[string][]*domain.Chunk, len(keep))
	for _, d := range keep {
		for _, cid := range d.ChunkIDs {
			c, err := o.reg.GetChunk(cid)
			if err != nil {
				o.errored = true
				return
			}
			chunksByDoc[d.ID] = append(chunksByDoc[d.ID], c)
		}
	}

	o.reg.Clear()
	o.idx.RemoveAll()

	for _, d := range keep {
		if err := o.reg.Add(d, chunksByDoc[d.ID]); err != nil {
			o.errored = true
			return
		}
		for _, c := range chunksByDoc[d.ID] {
			if err := o.idx.Add(c.ID, c.Embedding); err != nil {
				o.errored = true
				return
			}
		}
	}
}

// Ask answers one query. Read-only: multiple asks run concurrently and do
// not block behind uploads of other documents. The request-level timeout
// aborts synthesis with a Timeout error and mutates nothing.
func (o *Orchestrator) Ask(ctx context.Context, q domain.Query) (*domain.Answer, error) {
	ctx, span := telemetry.StartSpan(ctx, "Orchestrator.Ask", telemetry.SpanAttributes{
		Operation: "ask",
	})
	defer span.End()

	if err := domain.ValidateQuery(q); err != nil {
		return nil, err
	}
	if err := o.checkErrored(); err != nil {
		return nil, err
	}

	o.asking.Add(1)
	defer o.asking.Add(-1)

	if o.askTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.askTimeout)
		defer cancel()
	}

	var timings domain.Timings
	passages, err := o.snapshotRetrieve(ctx, q, &timings)
	if err != nil {
		if errIsDiverged(err) {
			o.enterError()
		}
		if ctx.Err() != nil {
			return nil, domain.ErrTimeout.WithCause(err)
		}
		span.SetError(err)
		return nil, err
	}

	return o.synth.Synthesize(ctx, q.Question, passages, timings)
}

// Documents lists loaded document metadata in load order.
func (o *Orchestrator) Documents() []*domain.Document {
	return o.reg.List()
}

// ChunkCount returns the number of indexed chunks.
func (o *Orchestrator) ChunkCount() int {
	return o.reg.ChunkCount()
}

// Reset drops all documents and vectors atomically and returns the system
// to Empty. This is the only way out of the Error state.
func (o *Orchestrator) Reset() {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.reg.Clear()
	o.idx.RemoveAll()
	o.errored = false
}

// SetLLMAvailable records the last generation-capability probe result.
func (o *Orchestrator) SetLLMAvailable(up bool) {
	o.llmUp.Store(up)
}

// LLMAvailable reports the last generation-capability probe result.
func (o *Orchestrator) LLMAvailable() bool {
	return o.llmUp.Load()
}

// snapshotRetrieve runs retrieval under the shared half of the mutation
// lock. A concurrent reset or commit cannot change the registry between the
// index search and its chunk lookups, so a genuine count mismatch here is
// real divergence, not an interleaving artifact.
func (o *Orchestrator) snapshotRetrieve(ctx context.Context, q domain.Query, timings *domain.Timings) ([]Passage, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	if o.errored {
		return nil, domain.ErrSystemErrored
	}
	if o.reg.ChunkCount() != o.idx.Len() {
		return nil, domain.ErrIndexDiverged
	}
	return o.retrieval.Retrieve(ctx, q.Question, q.TopK, timings)
}

func (o *Orchestrator) checkErrored() error {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if o.errored {
		return domain.ErrSystemErrored
	}
	return nil
}

func (o *Orchestrator) enterError() {
	o.mu.Lock()
	o.errored = true
	o.mu.Unlock()
}

func errIsDiverged(err error) bool {
	de, ok := err.(*domain.DomainError)
	return ok && de.Code == domain.ErrCodeInternalInconsistency
}
