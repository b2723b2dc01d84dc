// Package templates maps a detected intent and tone to a suggested reply.
package templates

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
	"sync/atomic"
	"unicode/utf8"

	"github.com/mailsense/mailsense/internal/core/textnorm"
)

// Tone is the register of the rendered reply.
type Tone string

const (
	ToneFriendly Tone = "friendly"
	ToneFormal   Tone = "formal"
	ToneConcise  Tone = "concise"
)

// Valid reports whether t is one of the three known tones.
func (t Tone) Valid() bool {
	return t == ToneFriendly || t == ToneFormal || t == ToneConcise
}

// GeneralIntent is the fallback intent every lookup resolves to when the
// requested intent is unknown. It must exist with a friendly tone.
const GeneralIntent = "general"

const conciseMaxChars = 80

var placeholderRe = regexp.MustCompile(`\{([a-zA-Z_][a-zA-Z0-9_]*)\}`)

type catalogData map[string]map[Tone]string

// Catalog holds the intent → tone → template mapping behind an atomic
// pointer; mutations swap the whole map so readers never see a partial one.
type Catalog struct {
	active atomic.Pointer[catalogData]
	mu     sync.Mutex
}

// NewCatalog builds a catalog from the given mapping.
func NewCatalog(m map[string]map[Tone]string) *Catalog {
	data := make(catalogData, len(m))
	for intent, tones := range m {
		cp := make(map[Tone]string, len(tones))
		for tone, tpl := range tones {
			cp[tone] = tpl
		}

		data[intent] = cp
	}

	c := &Catalog{}
	c.active.Store(&data)

	return c
}

// Validate enforces the startup invariant: without a general/friendly
// template the renderer would have no terminal fallback.
func (c *Catalog) Validate() error {
	data := *c.active.Load()

	tones, ok := data[GeneralIntent]
	if !ok {
		return fmt.Errorf("template catalog is missing the %q intent", GeneralIntent)
	}

	if _, ok := tones[ToneFriendly]; !ok {
		return fmt.Errorf("intent %q is missing the %q tone", GeneralIntent, ToneFriendly)
	}

	return nil
}

// Render resolves intent (falling back to "general") and tone (falling back
// to "friendly"), then substitutes {name} placeholders from extras. When a
// placeholder has no value the template is returned verbatim instead of
// failing. An intent registered without the requested tone or a friendly one
// resolves through "general", so a validated catalog never renders empty.
func (c *Catalog) Render(intent string, tone Tone, extras map[string]string) string {
	data := *c.active.Load()

	tpl, ok := resolve(data, intent, tone)
	if !ok {
		tpl, _ = resolve(data, GeneralIntent, tone)
	}

	return substitute(tpl, extras)
}

func resolve(data catalogData, intent string, tone Tone) (string, bool) {
	tones, ok := data[intent]
	if !ok {
		return "", false
	}

	if tpl, ok := tones[tone]; ok {
		return tpl, true
	}

	tpl, ok := tones[ToneFriendly]

	return tpl, ok
}

func substitute(tpl string, extras map[string]string) string {
	names := placeholderRe.FindAllStringSubmatch(tpl, -1)
	if len(names) == 0 {
		return tpl
	}

	for _, m := range names {
		if _, ok := extras[m[1]]; !ok {
			return tpl
		}
	}

	return placeholderRe.ReplaceAllStringFunc(tpl, func(match string) string {
		name := match[1 : len(match)-1]
		return extras[name]
	})
}

// Set adds or overrides the template for an intent+tone pair.
func (c *Catalog) Set(intent string, tone Tone, tpl string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	old := *c.active.Load()

	data := make(catalogData, len(old)+1)
	for i, tones := range old {
		cp := make(map[Tone]string, len(tones))
		for t, s := range tones {
			cp[t] = s
		}

		data[i] = cp
	}

	if _, ok := data[intent]; !ok {
		data[intent] = make(map[Tone]string, 1)
	}

	data[intent][tone] = tpl

	c.active.Store(&data)
}

var formalMarkers = []string{
	"prezado", "prezada", "prezados",
	"atenciosamente", "cordialmente",
	"vossa senhoria", "a quem possa interessar",
}

var greetingOpeners = []string{
	"bom dia", "boa tarde", "boa noite",
}

// DetectTone inspects salutations and length to pick the reply register.
func DetectTone(text string) Tone {
	normalized := textnorm.Normalize(text)

	for _, m := range formalMarkers {
		if strings.Contains(normalized, m) {
			return ToneFormal
		}
	}

	for _, g := range greetingOpeners {
		if strings.Contains(normalized, g) {
			return ToneFriendly
		}
	}

	if utf8.RuneCountInString(strings.TrimSpace(text)) < conciseMaxChars {
		return ToneConcise
	}

	return ToneFriendly
}
