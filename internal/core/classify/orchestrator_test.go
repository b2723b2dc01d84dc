package classify

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mailsense/mailsense/internal/core/domain"
	"github.com/mailsense/mailsense/internal/core/remote"
	"github.com/mailsense/mailsense/internal/core/rules"
	"github.com/mailsense/mailsense/internal/core/templates"
	"github.com/mailsense/mailsense/internal/platform/config"
)

type stubRemote struct {
	outcome remote.Outcome
	calls   int
}

func (s *stubRemote) Classify(_ context.Context, _ string) remote.Outcome {
	s.calls++
	return s.outcome
}

func unavailable() *stubRemote {
	return &stubRemote{outcome: remote.Outcome{Status: remote.StatusUnavailable}}
}

func malformed() *stubRemote {
	return &stubRemote{outcome: remote.Outcome{Status: remote.StatusMalformed}}
}

func answering(c remote.Classification) *stubRemote {
	return &stubRemote{outcome: remote.Outcome{Status: remote.StatusOK, Classification: c}}
}

func testConfig() *config.Config {
	return &config.Config{
		RemoteHighConfidence: 0.60,
		RemoteLowConfidence:  0.60,
		RemoteLowConfPolicy:  config.PolicyCrossCheck,
	}
}

func newTestOrchestrator(t *testing.T, cfg *config.Config, stub remote.Classifier) *Orchestrator {
	t.Helper()

	engine, err := rules.NewEngine(rules.DefaultRules())
	require.NoError(t, err)

	catalog := templates.Default()
	require.NoError(t, catalog.Validate())

	logger := zerolog.Nop()

	return New(cfg, engine, catalog, stub, &logger)
}

func TestEmptyInput(t *testing.T) {
	stub := unavailable()
	o := newTestOrchestrator(t, testConfig(), stub)

	for _, text := range []string{"", "   ", "\n\t"} {
		res := o.Classify(context.Background(), text)

		assert.Equal(t, domain.CategoryUnproductive, res.Category)
		assert.Zero(t, res.Confidence)
		assert.Equal(t, domain.StrategyNone, res.Strategy)
	}

	assert.Zero(t, stub.calls, "remote must not be called for blank input")
}

func TestSpamShortCircuit(t *testing.T) {
	stub := unavailable()
	o := newTestOrchestrator(t, testConfig(), stub)

	res := o.Classify(context.Background(), "unsubscribe now for promoção")

	assert.Equal(t, domain.CategoryUnproductive, res.Category)
	assert.GreaterOrEqual(t, res.Confidence, 0.90)
	assert.Equal(t, domain.StrategyHeuristic, res.Strategy)
	assert.Zero(t, stub.calls, "heuristic short-circuit must skip the remote call")
}

func TestVeryShortTextShortCircuit(t *testing.T) {
	o := newTestOrchestrator(t, testConfig(), unavailable())

	res := o.Classify(context.Background(), "ok")

	assert.Equal(t, domain.CategoryUnproductive, res.Category)
	assert.InDelta(t, 0.95, res.Confidence, 0.001)
	assert.Equal(t, domain.StrategyHeuristic, res.Strategy)
}

func TestProtocolRuleWinsOverSupportWording(t *testing.T) {
	o := newTestOrchestrator(t, testConfig(), unavailable())

	res := o.Classify(context.Background(), "Preciso de ajuda, erro no login, protocolo 4521")

	assert.Equal(t, domain.CategoryProductive, res.Category)
	assert.GreaterOrEqual(t, res.Confidence, 0.90)
	assert.Equal(t, domain.StrategyRules, res.Strategy)
	require.NotEmpty(t, res.MatchedIntents)
	assert.Equal(t, "protocol", res.MatchedIntents[0])
	assert.Contains(t, res.UserMessage, "4521")
}

func TestBareSupportWord(t *testing.T) {
	o := newTestOrchestrator(t, testConfig(), unavailable())

	res := o.Classify(context.Background(), "suporte")

	assert.Equal(t, domain.CategoryProductive, res.Category)
	assert.InDelta(t, 0.70, res.Confidence, 0.001)
	assert.Contains(t, res.UserMessage, "protocolo")
	assert.Contains(t, res.UserMessage, "erro")
}

func TestHighConfidenceRemoteTrustedOutright(t *testing.T) {
	stub := answering(remote.Classification{
		Category:       domain.CategoryUnproductive,
		Confidence:     0.90,
		ShortReason:    "agradecimento sem demanda",
		SuggestedReply: "Obrigado pela mensagem!",
	})
	o := newTestOrchestrator(t, testConfig(), stub)

	// Rules would classify this Productive; the confident remote answer wins.
	res := o.Classify(context.Background(), "preciso de suporte urgente")

	assert.Equal(t, domain.CategoryUnproductive, res.Category)
	assert.InDelta(t, 0.90, res.Confidence, 0.001)
	assert.Equal(t, domain.StrategyRemote, res.Strategy)
	assert.Equal(t, "Obrigado pela mensagem!", res.UserMessage)
}

func TestRemoteAtThresholdIsTrusted(t *testing.T) {
	stub := answering(remote.Classification{
		Category:   domain.CategoryProductive,
		Confidence: 0.60,
	})
	o := newTestOrchestrator(t, testConfig(), stub)

	res := o.Classify(context.Background(), "texto qualquer sem sinais")

	assert.Equal(t, domain.StrategyRemote, res.Strategy)
	assert.NotEmpty(t, res.UserMessage, "empty suggested reply must be replaced by a rendered message")
}

func TestLowConfidenceRemoteNeverOverridesRules(t *testing.T) {
	stub := answering(remote.Classification{
		Category:    domain.CategoryUnproductive,
		Confidence:  0.30,
		ShortReason: "incerto",
	})
	o := newTestOrchestrator(t, testConfig(), stub)

	res := o.Classify(context.Background(), "erro no login desde ontem")

	assert.Equal(t, domain.CategoryProductive, res.Category)
	assert.Equal(t, domain.StrategyRules, res.Strategy)
	assert.Contains(t, res.MatchedIntents, "support")
}

func TestLowConfidenceRemoteKeptAsFallback(t *testing.T) {
	stub := answering(remote.Classification{
		Category:    domain.CategoryProductive,
		Confidence:  0.30,
		ShortReason: "possível pedido",
	})
	o := newTestOrchestrator(t, testConfig(), stub)

	res := o.Classify(context.Background(), "xyzzy abcdef qwerty")

	assert.Equal(t, domain.CategoryProductive, res.Category)
	assert.InDelta(t, 0.30, res.Confidence, 0.001)
	assert.Equal(t, domain.StrategyRemoteFallback, res.Strategy)
	assert.NotEmpty(t, res.UserMessage)
}

func TestTrustPolicyCoercesLowConfidenceRemote(t *testing.T) {
	cfg := testConfig()
	cfg.RemoteLowConfPolicy = config.PolicyTrust

	stub := answering(remote.Classification{
		Category:   domain.CategoryUnproductive,
		Confidence: 0.30,
	})
	o := newTestOrchestrator(t, cfg, stub)

	// Under the trust policy the weak remote answer is returned without a
	// rule cross-check, even though rules would fire here.
	res := o.Classify(context.Background(), "erro no login desde ontem")

	assert.Equal(t, domain.CategoryUnproductive, res.Category)
	assert.Equal(t, domain.StrategyRemoteFallback, res.Strategy)
}

func TestRemoteUnavailableFallsBackToLadder(t *testing.T) {
	o := newTestOrchestrator(t, testConfig(), unavailable())

	res := o.Classify(context.Background(), "o sistema apresentou um comportamento estranho ontem")

	assert.Equal(t, domain.CategoryUnproductive, res.Category)
	assert.InDelta(t, 0.65, res.Confidence, 0.001)
	assert.Equal(t, domain.StrategyHeuristic, res.Strategy)
	assert.NotEmpty(t, res.UserMessage)
}

func TestRequestLanguageHeuristic(t *testing.T) {
	o := newTestOrchestrator(t, testConfig(), unavailable())

	res := o.Classify(context.Background(), "gostaria de discutir a proposta com a equipe")

	assert.Equal(t, domain.CategoryProductive, res.Category)
	assert.Equal(t, domain.StrategyHeuristic, res.Strategy)
	assert.NotEmpty(t, res.UserMessage)
}

func TestConservativeFallback(t *testing.T) {
	for name, stub := range map[string]*stubRemote{
		"unavailable": unavailable(),
		"malformed":   malformed(),
	} {
		t.Run(name, func(t *testing.T) {
			o := newTestOrchestrator(t, testConfig(), stub)

			res := o.Classify(context.Background(), "xyzzy abcdef qwerty")

			assert.Equal(t, domain.CategoryUnproductive, res.Category)
			assert.InDelta(t, 0.55, res.Confidence, 0.001)
			assert.Equal(t, domain.StrategyFallback, res.Strategy)
			assert.NotEmpty(t, res.UserMessage)
		})
	}
}

func TestRulePriorityDeterminesResult(t *testing.T) {
	productive := domain.CategoryProductive
	unproductive := domain.CategoryUnproductive

	engine, err := rules.NewEngine([]rules.Rule{
		{Name: "low", Patterns: []string{`assunto`}, Priority: 10, Intent: "support", CategoryOverride: &productive},
		{Name: "high", Patterns: []string{`assunto`}, Priority: 90, Intent: "courtesy", CategoryOverride: &unproductive},
	})
	require.NoError(t, err)

	catalog := templates.Default()
	logger := zerolog.Nop()
	o := New(testConfig(), engine, catalog, unavailable(), &logger)

	res := o.Classify(context.Background(), "sobre aquele assunto")

	assert.Equal(t, domain.CategoryUnproductive, res.Category)
	assert.Equal(t, []string{"courtesy", "support"}, res.MatchedIntents)
}

func TestRuleTieBreakByRegistration(t *testing.T) {
	productive := domain.CategoryProductive
	unproductive := domain.CategoryUnproductive

	engine, err := rules.NewEngine([]rules.Rule{
		{Name: "registered-first", Patterns: []string{`assunto`}, Priority: 50, Intent: "billing", CategoryOverride: &productive},
		{Name: "registered-second", Patterns: []string{`assunto`}, Priority: 50, Intent: "courtesy", CategoryOverride: &unproductive},
	})
	require.NoError(t, err)

	catalog := templates.Default()
	logger := zerolog.Nop()
	o := New(testConfig(), engine, catalog, unavailable(), &logger)

	res := o.Classify(context.Background(), "sobre aquele assunto")

	assert.Equal(t, domain.CategoryProductive, res.Category)
	assert.Equal(t, "billing", res.MatchedIntents[0])
}

func TestIdempotence(t *testing.T) {
	o := newTestOrchestrator(t, testConfig(), unavailable())

	text := "Preciso de ajuda, erro no login, protocolo 4521"

	first := o.Classify(context.Background(), text)
	second := o.Classify(context.Background(), text)

	assert.Equal(t, first, second)
}

func TestEveryPathReturnsValidResult(t *testing.T) {
	stubs := []*stubRemote{
		unavailable(),
		malformed(),
		answering(remote.Classification{Category: domain.CategoryProductive, Confidence: 0.95}),
		answering(remote.Classification{Category: domain.CategoryUnproductive, Confidence: 0.10}),
	}

	inputs := []string{
		"",
		"ok",
		"unsubscribe agora",
		"protocolo 4521",
		"suporte",
		"preciso do relatório até sexta",
		"o sistema apresentou um comportamento estranho",
		"registro minha queixa formal",
		"texto neutro sem nenhum sinal reconhecível",
	}

	for _, stub := range stubs {
		o := newTestOrchestrator(t, testConfig(), stub)

		for _, text := range inputs {
			res := o.Classify(context.Background(), text)

			assert.True(t, res.Category.Valid(), "input %q", text)
			assert.GreaterOrEqual(t, res.Confidence, 0.0)
			assert.LessOrEqual(t, res.Confidence, 1.0)
			assert.NotEmpty(t, res.Strategy)
		}
	}
}
