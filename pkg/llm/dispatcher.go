package llm

import (
	"context"
	"log/slog"
	"time"
)

// Dispatcher tries providers strictly in order and returns the first deck
// that parses. There is no fan-out and no retry on the same provider.
type Dispatcher struct {
	providers      []Provider
	attemptTimeout time.Duration
}

func NewDispatcher(providers ...Provider) *Dispatcher {
	return &Dispatcher{providers: providers}
}

// WithAttemptTimeout bounds each provider attempt separately, so a hung
// primary still leaves time for the fallback. Zero means no bound.
func (d *Dispatcher) WithAttemptTimeout(timeout time.Duration) *Dispatcher {
	d.attemptTimeout = timeout
	return d
}

// Providers returns the configured provider names in dispatch order.
func (d *Dispatcher) Providers() []string {
	names := make([]string, len(d.providers))
	for i, p := range d.providers {
		names[i] = p.Name()
	}
	return names
}

func (d *Dispatcher) GenerateDeck(ctx context.Context, transcript string) (*Result, error) {
	if err := ValidateTranscript(transcript); err != nil {
		return nil, err
	}

	if len(d.providers) == 0 {
		return nil, ErrNoProvider
	}

	prompt := BuildDeckPrompt(transcript)
	dispatchErr := &DispatchError{}

	for _, p := range d.providers {
		start := time.Now()

		deck, err := d.attempt(ctx, p, prompt)
		if err == nil {
			slog.Info("deck generated",
				"provider", p.Name(),
				"model", p.Model(),
				"prompt_version", promptVersion,
				"slides", len(deck.Slides),
				"duration", time.Since(start),
			)
			return &Result{Deck: deck, Provider: p.Name(), Model: p.Model()}, nil
		}

		slog.Warn("provider attempt failed",
			"provider", p.Name(),
			"model", p.Model(),
			"duration", time.Since(start),
			"error", err,
		)
		dispatchErr.Attempts = append(dispatchErr.Attempts, &AttemptError{
			Provider: p.Name(),
			Model:    p.Model(),
			Err:      err,
		})

		// Only the caller's context stops the chain; an attempt timeout
		// falls through to the next provider.
		if ctx.Err() != nil {
			break
		}
	}

	return nil, dispatchErr
}

func (d *Dispatcher) attempt(ctx context.Context, p Provider, prompt string) (*SlideDeck, error) {
	if d.attemptTimeout <= 0 {
		return generateDeck(ctx, p, prompt)
	}

	attemptCtx, cancel := context.WithTimeout(ctx, d.attemptTimeout)
	defer cancel()
	return generateDeck(attemptCtx, p, prompt)
}

func generateDeck(ctx context.Context, p Provider, prompt string) (*SlideDeck, error) {
	raw, err := p.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}
	return ParseDeck(raw)
}
