// Package rules implements the weighted pattern rule engine used as the
// deterministic cross-check against remote classifications.
package rules

import (
	"fmt"
	"regexp"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/mailsense/mailsense/internal/core/domain"
)

// Rule is a named group of patterns contributing to one intent. Patterns are
// compiled case-insensitive and Unicode-aware, and are matched against the
// raw (not normalized) text so that punctuation-dependent patterns such as
// "#123" keep working.
type Rule struct {
	Name             string
	Patterns         []string
	Priority         int
	Intent           string
	CategoryOverride *domain.Category
	MinHits          int
}

// Hit is one activated rule with its total match count. The slice returned
// by Analyze preserves priority-descending order.
type Hit struct {
	Rule  Rule
	Count int
}

type compiledRule struct {
	rule    Rule
	seq     int
	regexps []*regexp.Regexp
}

type ruleSet struct {
	rules   []compiledRule
	nextSeq int
}

// Engine holds the active rule set behind an atomic pointer so that
// concurrent readers never observe a partially rebuilt set.
type Engine struct {
	active atomic.Pointer[ruleSet]
	mu     sync.Mutex // serializes mutations
}

// NewEngine compiles and registers the given rules. Ties in priority are
// broken by registration order: earlier rules win.
func NewEngine(rs []Rule) (*Engine, error) {
	set, err := buildSet(nil, rs, 0)
	if err != nil {
		return nil, err
	}

	e := &Engine{}
	e.active.Store(set)

	return e, nil
}

func buildSet(existing []compiledRule, add []Rule, nextSeq int) (*ruleSet, error) {
	compiled := make([]compiledRule, 0, len(existing)+len(add))
	compiled = append(compiled, existing...)

	for _, r := range add {
		cr, err := compileRule(r, nextSeq)
		if err != nil {
			return nil, err
		}

		nextSeq++

		compiled = append(compiled, cr)
	}

	// Stable sort: equal priorities keep registration order.
	sort.SliceStable(compiled, func(i, j int) bool {
		if compiled[i].rule.Priority != compiled[j].rule.Priority {
			return compiled[i].rule.Priority > compiled[j].rule.Priority
		}

		return compiled[i].seq < compiled[j].seq
	})

	return &ruleSet{rules: compiled, nextSeq: nextSeq}, nil
}

func compileRule(r Rule, seq int) (compiledRule, error) {
	if r.Name == "" {
		return compiledRule{}, fmt.Errorf("rule without name")
	}

	if len(r.Patterns) == 0 {
		return compiledRule{}, fmt.Errorf("rule %q has no patterns", r.Name)
	}

	regexps := make([]*regexp.Regexp, 0, len(r.Patterns))

	for _, p := range r.Patterns {
		re, err := regexp.Compile("(?i)" + p)
		if err != nil {
			return compiledRule{}, fmt.Errorf("rule %q pattern %q: %w", r.Name, p, err)
		}

		regexps = append(regexps, re)
	}

	if r.MinHits <= 0 {
		r.MinHits = 1
	}

	return compiledRule{rule: r, seq: seq, regexps: regexps}, nil
}

// Analyze matches the raw text against every rule and returns the rules
// whose summed match count meets their MinHits, in priority order. The
// first entry is the authoritative winner.
func (e *Engine) Analyze(raw string) []Hit {
	set := e.active.Load()

	var hits []Hit

	for _, cr := range set.rules {
		count := 0
		for _, re := range cr.regexps {
			count += len(re.FindAllStringIndex(raw, -1))
		}

		if count >= cr.rule.MinHits {
			hits = append(hits, Hit{Rule: cr.rule, Count: count})
		}
	}

	return hits
}

// Add registers one more rule and re-sorts the set. The swap is atomic:
// either the new list is fully adopted or the old list stays active.
func (e *Engine) Add(r Rule) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	old := e.active.Load()

	set, err := buildSet(old.rules, []Rule{r}, old.nextSeq)
	if err != nil {
		return err
	}

	e.active.Store(set)

	return nil
}

// Replace swaps the entire rule set.
func (e *Engine) Replace(rs []Rule) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	set, err := buildSet(nil, rs, 0)
	if err != nil {
		return err
	}

	e.active.Store(set)

	return nil
}

// Rules returns a snapshot of the active rules in evaluation order.
func (e *Engine) Rules() []Rule {
	set := e.active.Load()

	out := make([]Rule, 0, len(set.rules))
	for _, cr := range set.rules {
		out = append(out, cr.rule)
	}

	return out
}
