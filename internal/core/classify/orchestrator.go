// Package classify sequences heuristic short-circuits, the remote
// classification attempt, the rule-engine cross-check and the
// confidence-based arbitration into one final result.
package classify

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/mailsense/mailsense/internal/core/domain"
	"github.com/mailsense/mailsense/internal/core/local"
	"github.com/mailsense/mailsense/internal/core/remote"
	"github.com/mailsense/mailsense/internal/core/rules"
	"github.com/mailsense/mailsense/internal/core/templates"
	"github.com/mailsense/mailsense/internal/platform/config"
	"github.com/mailsense/mailsense/internal/platform/observability"
)

const (
	ruleConfidenceBase    = 0.6
	ruleConfidenceStep    = 0.1
	ruleConfidenceMaxHits = 3

	fallbackConfidence = 0.55

	reasonShortText = "short_text"
	reasonSpam      = "spam"
)

// Orchestrator owns the shared rule set and template catalog and arbitrates
// between the remote opinion and the local deterministic rules.
type Orchestrator struct {
	engine  *rules.Engine
	catalog *templates.Catalog
	remote  remote.Classifier
	logger  *zerolog.Logger

	highConfidence float64
	lowConfidence  float64
	trustLowConf   bool
}

func New(cfg *config.Config, engine *rules.Engine, catalog *templates.Catalog, remoteClassifier remote.Classifier, logger *zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		engine:         engine,
		catalog:        catalog,
		remote:         remoteClassifier,
		logger:         logger,
		highConfidence: cfg.RemoteHighConfidence,
		lowConfidence:  cfg.RemoteLowConfidence,
		trustLowConf:   cfg.RemoteLowConfPolicy == config.PolicyTrust,
	}
}

// Classify runs the arbitration state machine. Every path terminates in a
// valid result; no error is ever propagated to the caller.
//
// The ordering encodes a policy: trust a confident remote answer outright,
// never let a weak remote answer override a strong local rule match, and
// never leave the user without a message on the fallback paths.
func (o *Orchestrator) Classify(ctx context.Context, text string) domain.Result {
	if strings.TrimSpace(text) == "" {
		return o.finish(domain.Result{
			Category:    domain.CategoryUnproductive,
			Confidence:  0,
			ShortReason: "texto vazio",
			Strategy:    domain.StrategyNone,
		})
	}

	if res, ok := local.QuickScan(text); ok {
		observability.HeuristicShortCircuits.WithLabelValues(quickScanReason(res)).Inc()

		return o.finish(res)
	}

	outcome := o.remote.Classify(ctx, text)

	var candidate *remote.Classification

	if outcome.Status == remote.StatusOK {
		if outcome.Classification.Confidence >= o.highConfidence {
			return o.finish(o.fromRemote(text, outcome.Classification, domain.StrategyRemote))
		}

		o.logger.Debug().
			Float64("confidence", outcome.Classification.Confidence).
			Float64("threshold", o.lowConfidence).
			Msg("remote classification below trust threshold")

		if o.trustLowConf {
			return o.finish(o.fromRemote(text, outcome.Classification, domain.StrategyRemoteFallback))
		}

		c := outcome.Classification
		candidate = &c
	}

	if res, ok := o.classifyByRules(text); ok {
		return o.finish(res)
	}

	if res := local.Classify(text); res.ShortReason != local.ReasonNoSignal {
		if res.UserMessage == "" {
			res.UserMessage = o.genericMessage(text)
		}

		return o.finish(res)
	}

	if candidate != nil {
		return o.finish(o.fromRemote(text, *candidate, domain.StrategyRemoteFallback))
	}

	return o.finish(domain.Result{
		Category:    domain.CategoryUnproductive,
		Confidence:  fallbackConfidence,
		ShortReason: "nenhum sinal identificado; classificação conservadora",
		UserMessage: o.genericMessage(text),
		Strategy:    domain.StrategyFallback,
	})
}

// classifyByRules runs the rule engine on the raw text. The first entry of
// the priority-sorted hit list is authoritative; its intent selects the
// template and its override (when present) forces the category. Confidence
// grows with the total hit count across all activated rules and saturates.
func (o *Orchestrator) classifyByRules(text string) (domain.Result, bool) {
	hits := o.engine.Analyze(text)
	if len(hits) == 0 {
		return domain.Result{}, false
	}

	totalHits := 0
	intents := make([]string, 0, len(hits))
	seen := make(map[string]bool, len(hits))

	for _, h := range hits {
		observability.RuleHitsTotal.WithLabelValues(h.Rule.Name).Inc()

		totalHits += h.Count

		if !seen[h.Rule.Intent] {
			seen[h.Rule.Intent] = true
			intents = append(intents, h.Rule.Intent)
		}
	}

	top := hits[0]

	category := domain.CategoryProductive
	if top.Rule.CategoryOverride != nil {
		category = *top.Rule.CategoryOverride
	}

	extras := map[string]string{}
	if protocol := local.ExtractProtocol(text); protocol != "" {
		extras["protocolo"] = protocol
	}

	return domain.Result{
		Category:       category,
		Confidence:     hitsToConfidence(totalHits),
		ShortReason:    "regra " + top.Rule.Name + " ativada",
		UserMessage:    o.catalog.Render(top.Rule.Intent, templates.DetectTone(text), extras),
		Strategy:       domain.StrategyRules,
		MatchedIntents: intents,
	}, true
}

func hitsToConfidence(hits int) float64 {
	if hits > ruleConfidenceMaxHits {
		hits = ruleConfidenceMaxHits
	}

	return domain.ClampConfidence(ruleConfidenceBase + ruleConfidenceStep*float64(hits))
}

func (o *Orchestrator) fromRemote(text string, c remote.Classification, strategy domain.Strategy) domain.Result {
	message := strings.TrimSpace(c.SuggestedReply)
	if message == "" {
		message = o.genericMessage(text)
	}

	return domain.Result{
		Category:    c.Category,
		Confidence:  domain.ClampConfidence(c.Confidence),
		ShortReason: c.ShortReason,
		UserMessage: message,
		Strategy:    strategy,
	}
}

func (o *Orchestrator) genericMessage(text string) string {
	return o.catalog.Render(templates.GeneralIntent, templates.DetectTone(text), nil)
}

func (o *Orchestrator) finish(res domain.Result) domain.Result {
	res.Confidence = domain.ClampConfidence(res.Confidence)

	observability.ClassificationsTotal.WithLabelValues(string(res.Category), string(res.Strategy)).Inc()

	return res
}

func quickScanReason(res domain.Result) string {
	for _, intent := range res.MatchedIntents {
		if intent == reasonSpam {
			return reasonSpam
		}
	}

	return reasonShortText
}
