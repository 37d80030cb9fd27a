package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/cloo-solutions/lexora/internal/chunker"
	"github.com/cloo-solutions/lexora/internal/domain"
	"github.com/cloo-solutions/lexora/internal/extractor"
	"github.com/cloo-solutions/lexora/internal/index"
	"github.com/cloo-solutions/lexora/internal/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubGenerator returns a fixed reply without a model endpoint.
type stubGenerator struct {
	reply string
	err   error
}

func (g *stubGenerator) Generate(_ context.Context, _, _ string) (string, error) {
	return g.reply, g.err
}

func (g *stubGenerator) Ping(_ context.Context) error { return g.err }

func newTestOrchestrator(t *testing.T, gen *stubGenerator, maxChunks int) *Orchestrator {
	t.Helper()

	provider := &fakeProvider{}
	reg := registry.New()
	idx := index.NewMemory(maxChunks)

	pipeline := NewIngestPipeline(provider, chunker.DefaultConfig())
	retrieval := NewRetrievalEngine(provider, idx, reg)
	synth := NewSynthesizer(gen, MeanRelevance{})

	return NewOrchestrator(pipeline, retrieval, synth, reg, idx, time.Minute)
}

func ingestText(t *testing.T, o *Orchestrator, filename, text string) *domain.Document {
	t.Helper()
	doc, err := o.Ingest(context.Background(), IngestInput{
		Filename: filename,
		Format:   extractor.FormatTXT,
		Data:     []byte(text),
	})
	require.NoError(t, err)
	return doc
}

const terminationClause = "Either party may terminate this agreement upon thirty (30) days written notice to the other party."
const paymentClause = "Rent is payable monthly in advance on the first business day of each month."

func TestOrchestrator_AskAnswersFromIngestedDocuments(t *testing.T) {
	gen := &stubGenerator{reply: "Thirty days written notice is required to terminate."}
	o := newTestOrchestrator(t, gen, 0)

	ingestText(t, o, "lease.txt", terminationClause)
	ingestText(t, o, "payment.txt", paymentClause)

	answer, err := o.Ask(context.Background(), domain.Query{
		Question: "How many days written notice are required to terminate?",
		TopK:     2,
	})

	require.NoError(t, err)
	assert.Equal(t, gen.reply, answer.Text)
	require.Len(t, answer.Sources, 2)
	assert.Contains(t, answer.Sources[0].ContentPreview, "written notice")
	assert.Greater(t, answer.Confidence, 0.0)
	for i := 1; i < len(answer.Sources); i++ {
		assert.GreaterOrEqual(t, answer.Sources[i-1].RelevanceScore, answer.Sources[i].RelevanceScore)
	}
}

func TestOrchestrator_AskWithoutDocuments(t *testing.T) {
	o := newTestOrchestrator(t, &stubGenerator{reply: "x"}, 0)

	_, err := o.Ask(context.Background(), domain.Query{Question: "anything", TopK: 3})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNoDocumentsIndexed))
}

func TestOrchestrator_AskValidation(t *testing.T) {
	o := newTestOrchestrator(t, &stubGenerator{reply: "x"}, 0)
	ingestText(t, o, "lease.txt", terminationClause)

	_, err := o.Ask(context.Background(), domain.Query{Question: "", TopK: 3})
	assert.True(t, errors.Is(err, domain.ErrEmptyQuestion))

	_, err = o.Ask(context.Background(), domain.Query{Question: "q", TopK: 0})
	assert.True(t, errors.Is(err, domain.ErrInvalidTopK))
}

func TestOrchestrator_TopKLargerThanCorpus(t *testing.T) {
	o := newTestOrchestrator(t, &stubGenerator{reply: "x"}, 0)
	ingestText(t, o, "lease.txt", terminationClause)

	answer, err := o.Ask(context.Background(), domain.Query{Question: "notice", TopK: 50})

	require.NoError(t, err)
	assert.Len(t, answer.Sources, 1)
}

func TestOrchestrator_DuplicateUploadsGetDistinctIdentities(t *testing.T) {
	o := newTestOrchestrator(t, &stubGenerator{reply: "x"}, 0)

	first := ingestText(t, o, "lease.txt", terminationClause)
	second := ingestText(t, o, "lease.txt", terminationClause)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Len(t, o.Documents(), 2)
	assert.Equal(t, first.ChunkCount()+second.ChunkCount(), o.ChunkCount())

	// Chunk ids are disjoint between the two uploads.
	seen := make(map[string]bool)
	for _, id := range first.ChunkIDs {
		seen[id] = true
	}
	for _, id := range second.ChunkIDs {
		assert.False(t, seen[id])
	}
}

func TestOrchestrator_StateTransitions(t *testing.T) {
	o := newTestOrchestrator(t, &stubGenerator{reply: "x"}, 0)

	assert.Equal(t, StateEmpty, o.State())

	ingestText(t, o, "lease.txt", terminationClause)
	assert.Equal(t, StateReady, o.State())

	o.Reset()
	assert.Equal(t, StateEmpty, o.State())
}

func TestOrchestrator_ResetClearsEverything(t *testing.T) {
	o := newTestOrchestrator(t, &stubGenerator{reply: "x"}, 0)
	ingestText(t, o, "lease.txt", terminationClause)
	ingestText(t, o, "payment.txt", paymentClause)

	o.Reset()

	assert.Empty(t, o.Documents())
	assert.Equal(t, 0, o.ChunkCount())

	_, err := o.Ask(context.Background(), domain.Query{Question: "notice", TopK: 3})
	assert.True(t, errors.Is(err, domain.ErrNoDocumentsIndexed))

	// The system accepts new uploads after a clear.
	ingestText(t, o, "lease.txt", terminationClause)
	assert.Equal(t, StateReady, o.State())
}

func TestOrchestrator_IngestFailureLeavesStateUntouched(t *testing.T) {
	o := newTestOrchestrator(t, &stubGenerator{reply: "x"}, 0)
	ingestText(t, o, "lease.txt", terminationClause)

	_, err := o.Ingest(context.Background(), IngestInput{
		Filename: "bad.txt",
		Format:   extractor.FormatTXT,
		Data:     []byte("   "),
	})

	require.Error(t, err)
	assert.Len(t, o.Documents(), 1)
	assert.Equal(t, StateReady, o.State())

	// The surviving document still answers.
	answer, err := o.Ask(context.Background(), domain.Query{Question: "notice", TopK: 1})
	require.NoError(t, err)
	assert.Len(t, answer.Sources, 1)
}

func TestOrchestrator_CommitRollsBackOnIndexFailure(t *testing.T) {
	// Room for exactly one chunk: a multi-chunk document fails mid-commit.
	o := newTestOrchestrator(t, &stubGenerator{reply: "x"}, 1)

	long := ""
	for len(long) < 3000 {
		long += terminationClause + " "
	}

	_, err := o.Ingest(context.Background(), IngestInput{
		Filename: "big.txt",
		Format:   extractor.FormatTXT,
		Data:     []byte(long),
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrResourceExhausted))

	// Nothing half-committed, and the system is not errored.
	assert.Empty(t, o.Documents())
	assert.Equal(t, 0, o.ChunkCount())
	assert.Equal(t, StateEmpty, o.State())
}

func TestOrchestrator_DegradedGeneration(t *testing.T) {
	gen := &stubGenerator{err: errors.New("connection refused")}
	o := newTestOrchestrator(t, gen, 0)
	ingestText(t, o, "lease.txt", terminationClause)

	answer, err := o.Ask(context.Background(), domain.Query{Question: "notice", TopK: 1})

	require.NoError(t, err)
	assert.NotEmpty(t, answer.Text)
	assert.Equal(t, 0.0, answer.Confidence)
	assert.Len(t, answer.Sources, 1)
}

func TestOrchestrator_ConcurrentUploadsCommitIndependently(t *testing.T) {
	o := newTestOrchestrator(t, &stubGenerator{reply: "x"}, 0)

	var wg sync.WaitGroup
	docs := make([]*domain.Document, 2)
	errs := make([]error, 2)
	texts := []string{terminationClause, paymentClause}
	names := []string{"lease.txt", "payment.txt"}

	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			docs[i], errs[i] = o.Ingest(context.Background(), IngestInput{
				Filename: names[i],
				Format:   extractor.FormatTXT,
				Data:     []byte(texts[i]),
			})
		}(i)
	}
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	assert.Len(t, o.Documents(), 2)
	assert.Equal(t, docs[0].ChunkCount()+docs[1].ChunkCount(), o.ChunkCount())

	// Each document's chunks resolve to their own text.
	answer, err := o.Ask(context.Background(), domain.Query{Question: "When is rent payable?", TopK: 1})
	require.NoError(t, err)
	require.Len(t, answer.Sources, 1)
	assert.Contains(t, answer.Sources[0].ContentPreview, "Rent is payable")
}

func TestOrchestrator_ConcurrentAsks(t *testing.T) {
	o := newTestOrchestrator(t, &stubGenerator{reply: "x"}, 0)
	ingestText(t, o, "lease.txt", terminationClause)

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = o.Ask(context.Background(), domain.Query{Question: "notice", TopK: 1})
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}
}

// gatedProvider parks query embeds until released so a test can land a
// mutation while an ask is mid-retrieval.
type gatedProvider struct {
	fakeProvider
	started chan struct{}
	release chan struct{}
}

func (p *gatedProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	p.started <- struct{}{}
	<-p.release
	return p.fakeProvider.Embed(ctx, text)
}

func TestOrchestrator_ClearDuringAskSeesConsistentSnapshot(t *testing.T) {
	gen := &stubGenerator{reply: "Thirty days written notice is required."}
	queryProvider := &gatedProvider{
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	reg := registry.New()
	idx := index.NewMemory(0)

	pipeline := NewIngestPipeline(&fakeProvider{}, chunker.DefaultConfig())
	retrieval := NewRetrievalEngine(queryProvider, idx, reg)
	synth := NewSynthesizer(gen, MeanRelevance{})
	o := NewOrchestrator(pipeline, retrieval, synth, reg, idx, time.Minute)

	ingestText(t, o, "lease.txt", terminationClause)

	type askResult struct {
		answer *domain.Answer
		err    error
	}
	done := make(chan askResult, 1)
	go func() {
		a, err := o.Ask(context.Background(), domain.Query{Question: "notice", TopK: 1})
		done <- askResult{a, err}
	}()

	// The ask is mid-retrieval once its embed call starts. Queue a clear
	// behind it, then let the ask finish.
	<-queryProvider.started
	resetDone := make(chan struct{})
	go func() {
		o.Reset()
		close(resetDone)
	}()
	time.Sleep(10 * time.Millisecond)
	close(queryProvider.release)

	res := <-done
	<-resetDone

	// The ask resolved against the pre-clear corpus, not a half-cleared
	// one, and the clear did not wedge the system.
	require.NoError(t, res.err)
	require.Len(t, res.answer.Sources, 1)
	assert.Contains(t, res.answer.Sources[0].ContentPreview, "written notice")

	assert.Equal(t, StateEmpty, o.State())
	ingestText(t, o, "lease.txt", terminationClause)
	assert.Equal(t, StateReady, o.State())
}

func TestOrchestrator_LLMAvailabilityFlag(t *testing.T) {
	o := newTestOrchestrator(t, &stubGenerator{reply: "x"}, 0)

	assert.False(t, o.LLMAvailable())
	o.SetLLMAvailable(true)
	assert.True(t, o.LLMAvailable())
	o.SetLLMAvailable(false)
	assert.False(t, o.LLMAvailable())
}

func TestOrchestrator_UnsupportedFormatRejected(t *testing.T) {
	o := newTestOrchestrator(t, &stubGenerator{reply: "x"}, 0)

	_, err := o.Ingest(context.Background(), IngestInput{
		Filename: "data.bin",
		Format:   extractor.Format("bin"),
		Data:     []byte("payload"),
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnsupportedFormat))
	assert.Equal(t, StateEmpty, o.State())
}
