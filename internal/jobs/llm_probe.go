package jobs

import (
	"context"
	"log"
	"time"

	"github.com/cloo-solutions/lexora/internal/llm"
)

const probeTimeout = 5 * time.Second

// AvailabilitySink receives the result of each generation-capability probe.
type AvailabilitySink interface {
	SetLLMAvailable(up bool)
}

// LLMProbe periodically checks whether the generation endpoint is reachable
// and feeds the result into the orchestrator's status. Generation being
// down must never block uploads or listings, so the probe only flips a
// flag.
type LLMProbe struct {
	gen  llm.Generator
	sink AvailabilitySink
	last bool
}

// NewLLMProbe creates a probe for the given generator.
func NewLLMProbe(gen llm.Generator, sink AvailabilitySink) *LLMProbe {
	return &LLMProbe{gen: gen, sink: sink}
}

// ProcessJobs implements the JobProcessor interface.
func (p *LLMProbe) ProcessJobs(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	up := p.gen != nil && p.gen.Ping(ctx) == nil
	if up != p.last {
		log.Printf("llm availability changed: %v", up)
		p.last = up
	}
	p.sink.SetLLMAvailable(up)
	return nil
}
