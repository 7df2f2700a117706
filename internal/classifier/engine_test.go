package classifier

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-agent/internal/config"
	"github.com/spec-kit/ticket-agent/internal/domain"
)

type stubStrategy struct {
	name  string
	label domain.Label
	err   error
	calls int
}

func (s *stubStrategy) Name() string { return s.name }

func (s *stubStrategy) Classify(ctx context.Context, text string) (domain.Label, error) {
	s.calls++
	if s.err != nil {
		return domain.LabelTask, s.err
	}
	return s.label, nil
}

func TestEngineNoTiersAlwaysReturnsTask(t *testing.T) {
	engine := NewEngine(config.ClassifierConfig{}, zap.NewNop())

	// Even obviously bug-like text: with no inference resource the
	// heuristic is not consulted on its own.
	assert.Equal(t, domain.LabelTask, engine.Classify(context.Background(), "the app crashes on startup"))
	assert.Equal(t, domain.LabelTask, engine.Classify(context.Background(), ""))
}

func TestEngineLocalTierWinsWhenConfident(t *testing.T) {
	local := &stubStrategy{name: "local", label: domain.LabelBug}
	remote := &stubStrategy{name: "remote", label: domain.LabelQuestion}
	engine := NewEngineWithTiers(zap.NewNop(), local, remote)

	assert.Equal(t, domain.LabelBug, engine.Classify(context.Background(), "x"))
	assert.Equal(t, 0, remote.calls)
}

func TestEngineLocalDefaultFallsThroughToRemote(t *testing.T) {
	local := &stubStrategy{name: "local", label: domain.LabelTask}
	remote := &stubStrategy{name: "remote", label: domain.LabelIncident}
	engine := NewEngineWithTiers(zap.NewNop(), local, remote)

	assert.Equal(t, domain.LabelIncident, engine.Classify(context.Background(), "x"))
	assert.Equal(t, 1, local.calls)
}

func TestEngineRemoteDefaultIsAccepted(t *testing.T) {
	local := &stubStrategy{name: "local", label: domain.LabelTask}
	remote := &stubStrategy{name: "remote", label: domain.LabelTask}
	engine := NewEngineWithTiers(zap.NewNop(), local, remote)

	assert.Equal(t, domain.LabelTask, engine.Classify(context.Background(), "x"))
}

func TestEngineSwallowsTierFailures(t *testing.T) {
	local := &stubStrategy{name: "local", err: errors.New("model load failed")}
	remote := &stubStrategy{name: "remote", label: domain.LabelFeatureRequest}
	engine := NewEngineWithTiers(zap.NewNop(), local, remote)

	assert.Equal(t, domain.LabelFeatureRequest, engine.Classify(context.Background(), "x"))
}

func TestEngineAllTiersFailingYieldsTask(t *testing.T) {
	local := &stubStrategy{name: "local", err: errors.New("down")}
	remote := &stubStrategy{name: "remote", err: errors.New("401")}
	engine := NewEngineWithTiers(zap.NewNop(), local, remote)

	assert.Equal(t, domain.LabelTask, engine.Classify(context.Background(), "anything"))
}

type stubGenerator struct {
	reply string
	err   error
	calls int
}

func (g *stubGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.calls++
	return g.reply, g.err
}

func TestLocalStrategyNormalizesReply(t *testing.T) {
	gen := &stubGenerator{reply: "Bug: login broken"}
	local := &localStrategy{generator: gen}

	label, err := local.Classify(context.Background(), "cannot sign in")
	require.NoError(t, err)
	assert.Equal(t, domain.LabelBug, label)
}

func TestLocalStrategyLatchesUnavailableAfterFirstError(t *testing.T) {
	gen := &stubGenerator{err: errors.New("connection refused")}
	local := &localStrategy{generator: gen}

	_, err := local.Classify(context.Background(), "x")
	require.Error(t, err)
	_, err = local.Classify(context.Background(), "x")
	require.Error(t, err)

	assert.Equal(t, 1, gen.calls, "a failed local tier must not be attempted again")
}
