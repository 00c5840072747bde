package usecase

import (
	"errors"
	"fmt"
	"log/slog"

	"ternsnip/config"
	"ternsnip/internal/adapter/cache"
	"ternsnip/internal/adapter/snippet"
	"ternsnip/internal/port"
)

// ExpandUseCase turns raw signatures into snippets. Signatures that are not
// functions, or that break the parser's invariants, simply have no snippet.
type ExpandUseCase struct {
	synth  *snippet.Synthesizer
	logger *slog.Logger
}

func NewExpandUseCase(synth *snippet.Synthesizer, logger *slog.Logger) *ExpandUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExpandUseCase{
		synth:  synth,
		logger: logger,
	}
}

func (u *ExpandUseCase) Expand(sig string) (string, bool) {
	snip, err := u.synth.Expand(sig)
	if err != nil {
		if !errors.Is(err, snippet.ErrNoSnippet) {
			u.logger.Debug("malformed signature", "signature", sig, "error", err)
		}
		return "", false
	}
	return snip, true
}

// NewSynthesizer builds a Synthesizer from the snippet section of cfg.
func NewSynthesizer(cfg *config.Config) (*snippet.Synthesizer, error) {
	notation, err := snippet.LookupNotation(cfg.Snippet.Notation)
	if err != nil {
		return nil, err
	}
	return snippet.NewSynthesizer(
		snippet.WithNotation(notation),
		snippet.WithCallbacks(cfg.Snippet.ExpandCallbacks),
		snippet.WithDropContext(cfg.Snippet.DropContext),
	), nil
}

// NewExpander wires the configured synthesizer, wrapped in a snippet cache
// when caching is enabled.
func NewExpander(cfg *config.Config, logger *slog.Logger) (port.Expander, error) {
	synth, err := NewSynthesizer(cfg)
	if err != nil {
		return nil, fmt.Errorf("invalid snippet config: %w", err)
	}

	var expander port.Expander = NewExpandUseCase(synth, logger)
	if cfg.Cache.Enabled {
		expander = cache.NewCachedExpander(expander, cache.NewSnippetCache(cfg.Cache.MaxSize, cfg.Cache.TTL))
	}
	return expander, nil
}
