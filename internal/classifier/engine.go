package classifier

import (
	"context"
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-agent/internal/config"
	"github.com/spec-kit/ticket-agent/internal/domain"
)

// classifyPrompt constrains model output to the label set. Both tiers use it.
const classifyPrompt = "Classify the following support request into exactly one category: " +
	"Task, Bug, Incident, FeatureRequest, Question. " +
	"Reply with only the category name.\n\nRequest: %s"

// Strategy is one tier in the fallback chain. A returned error means the
// tier is unavailable for this attempt; it is swallowed by the engine and
// never surfaced past the engine boundary.
type Strategy interface {
	Name() string
	Classify(ctx context.Context, text string) (domain.Label, error)
}

type tier struct {
	strategy Strategy
	// acceptDefault controls whether a LabelTask result ends the chain.
	// The local tier treats Task as "no confident signal" and falls
	// through; the remote tier's Task is taken at face value.
	acceptDefault bool
}

// Engine runs the configured tiers in order and never fails: any text, any
// configuration, it returns a member of the label set. With no tier
// configured it returns LabelTask unconditionally; the keyword heuristic is
// consulted only inside Normalize when a tier actually produced a reply.
type Engine struct {
	tiers  []tier
	logger *zap.Logger
}

// NewEngine assembles the fallback chain from configuration. Tiers whose
// prerequisite resource is absent are simply not built.
func NewEngine(cfg config.ClassifierConfig, logger *zap.Logger) *Engine {
	engine := &Engine{logger: logger}
	if cfg.OllamaBaseURL != "" {
		local := &localStrategy{
			generator: NewOllamaClient(cfg.OllamaBaseURL, cfg.OllamaModel, logger),
		}
		engine.tiers = append(engine.tiers, tier{strategy: local})
		logger.Info("local classification tier enabled", zap.String("model", cfg.OllamaModel))
	}
	if cfg.OpenAIAPIKey != "" {
		remote := newRemoteStrategy(cfg.OpenAIAPIKey, cfg.OpenAIModel)
		engine.tiers = append(engine.tiers, tier{strategy: remote, acceptDefault: true})
		logger.Info("remote classification tier enabled", zap.String("model", remote.model))
	}
	return engine
}

// NewEngineWithTiers builds an engine over explicit strategies. The last
// strategy is authoritative: its default result is accepted as-is.
func NewEngineWithTiers(logger *zap.Logger, strategies ...Strategy) *Engine {
	engine := &Engine{logger: logger}
	for i, strategy := range strategies {
		engine.tiers = append(engine.tiers, tier{
			strategy:      strategy,
			acceptDefault: i == len(strategies)-1,
		})
	}
	return engine
}

// Classify is total. Tier failures downgrade to the next tier; exhausting
// the chain yields LabelTask.
func (e *Engine) Classify(ctx context.Context, text string) domain.Label {
	for _, t := range e.tiers {
		label, err := t.strategy.Classify(ctx, text)
		if err != nil {
			e.logger.Warn("classification tier failed",
				zap.String("tier", t.strategy.Name()),
				zap.Error(err))
			continue
		}
		if label == domain.LabelTask && !t.acceptDefault {
			continue
		}
		return label
	}
	return domain.LabelTask
}

// generator abstracts the local inference backend so the latch logic is
// testable without a running model server.
type generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// localStrategy drives a local inference server. Any load or inference
// error latches the tier as absent; it is not attempted again for the
// lifetime of the process.
type localStrategy struct {
	generator   generator
	unavailable atomic.Bool
}

func (s *localStrategy) Name() string { return "local" }

func (s *localStrategy) Classify(ctx context.Context, text string) (domain.Label, error) {
	if s.unavailable.Load() {
		return domain.LabelTask, errTierUnavailable
	}
	reply, err := s.generator.Generate(ctx, fmt.Sprintf(classifyPrompt, text))
	if err != nil {
		s.unavailable.Store(true)
		return domain.LabelTask, fmt.Errorf("local inference: %w", err)
	}
	return Normalize(reply, text), nil
}

var errTierUnavailable = fmt.Errorf("tier unavailable")
