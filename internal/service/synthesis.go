package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cloo-solutions/lexora/internal/domain"
	"github.com/cloo-solutions/lexora/internal/llm"
	"github.com/cloo-solutions/lexora/internal/telemetry"
)

const systemPrompt = "You are a precise legal assistant. Answer based ONLY on the provided legal documents. Be factual and cite specific sections when possible."

// degradedAnswer replaces generated text when the model is unreachable. The
// retrieved sources still go back to the caller.
const degradedAnswer = "The language model is currently unavailable. The most relevant passages from your documents are listed below; please review them directly."

// Synthesizer turns retrieved passages and a question into a grounded
// answer with confidence and timings.
type Synthesizer struct {
	gen    llm.Generator
	policy ConfidencePolicy
}

// NewSynthesizer creates a Synthesizer. gen may be nil when no generation
// backend is configured; answers then degrade to retrieval-only.
func NewSynthesizer(gen llm.Generator, policy ConfidencePolicy) *Synthesizer {
	if policy == nil {
		policy = MeanRelevance{}
	}
	return &Synthesizer{gen: gen, policy: policy}
}

// Synthesize builds the generation context from the passages in their
// returned order, invokes the generator, and assembles the Answer. A
// generation failure degrades the answer instead of propagating, unless the
// context deadline was hit, which surfaces as Timeout.
func (s *Synthesizer) Synthesize(ctx context.Context, question string, passages []Passage, timings domain.Timings) (*domain.Answer, error) {
	ctx, span := telemetry.StartSpan(ctx, "Synthesizer.Synthesize", telemetry.SpanAttributes{
		Operation: "synthesize",
	})
	defer span.End()

	sources := Results(passages)
	answer := &domain.Answer{
		Sources:    sources,
		Confidence: s.policy.Score(sources),
	}

	start := time.Now()
	text, err := s.generate(ctx, question, passages)
	timings.GenerationSeconds = time.Since(start).Seconds()
	timings.TotalSeconds = timings.EmbeddingSeconds + timings.SearchSeconds + timings.GenerationSeconds
	answer.Performance = timings

	if err != nil {
		if ctx.Err() != nil {
			return nil, domain.ErrTimeout.WithCause(err)
		}
		telemetry.CaptureError(ctx, err)
		answer.Text = degradedAnswer
		answer.Confidence = 0
		return answer, nil
	}

	answer.Text = text
	return answer, nil
}

func (s *Synthesizer) generate(ctx context.Context, question string, passages []Passage) (string, error) {
	if s.gen == nil {
		return "", domain.ErrModelUnavailable
	}
	return s.gen.Generate(ctx, systemPrompt, buildPrompt(question, passages))
}

// buildPrompt lays out the retrieved provisions in rank order, each tagged
// with a star rating so the model sees relative relevance.
func buildPrompt(question string, passages []Passage) string {
	var b strings.Builder
	b.WriteString("RELEVANT LEGAL PROVISIONS:\n")
	for i, p := range passages {
		stars := int(p.Score * 5)
		if stars > 5 {
			stars = 5
		}
		fmt.Fprintf(&b, "\n--- PROVISION %d %s ---\n%s\n", i+1, strings.Repeat("*", stars), p.Chunk.Text)
	}
	fmt.Fprintf(&b, "\nQUESTION: %s\n\nANSWER:", question)
	return b.String()
}
