// Package local is the deterministic fallback classifier. Its decision
// ladder is ordered and every check short-circuits; reordering the checks
// changes outcomes at the boundary cases, so keep them as they are.
package local

import (
	"regexp"
	"strings"

	"github.com/mailsense/mailsense/internal/core/domain"
	"github.com/mailsense/mailsense/internal/core/textnorm"
)

const (
	minMeaningfulChars    = 5
	shortRequestMaxWords  = 6
	confidenceVeryShort   = 0.95
	confidenceSpam        = 0.90
	confidenceProtocol    = 0.95
	confidenceShortAsk    = 0.70
	confidenceRequest     = 0.90
	confidenceSupportOnly = 0.65
	confidenceComplaint   = 0.80
	confidenceNoSignal    = 0.50
)

// Keyword lists are stored accent-free because matching runs on normalized
// text.
var (
	requestKeywords = []string{
		"preciso", "necessito", "solicito", "solicitacao", "por favor",
		"favor", "poderia", "poderiam", "gostaria", "urgente", "prazo",
		"precisamos", "podem", "need", "please", "request", "would like",
	}

	supportKeywords = []string{
		"suporte", "erro", "falha", "login", "senha", "acesso",
		"problema", "bug", "sistema", "support", "error", "password",
	}

	complaintKeywords = []string{
		"reclamacao", "insatisfeito", "insatisfeita", "pessimo", "pessima",
		"absurdo", "demora", "cancelar", "cancelamento", "complaint",
	}

	spamKeywords = []string{
		"unsubscribe", "promocao", "oferta", "newsletter", "spam",
		"desconto", "clique aqui", "premio", "sorteio", "marketing",
		"divulgacao",
	}
)

var protocolRe = regexp.MustCompile(`(?i)(?:#|protocol(?:os?)?\D{0,5})(\d{2,})`)

// ReasonNoSignal marks the ladder's terminal default, produced when no
// check matched. Callers use it to tell a decisive local result apart from
// the conservative no-signal one.
const ReasonNoSignal = "nenhum indício de solicitação ou demanda objetiva"

const (
	msgProtocol = "Olá! Identificamos o número de protocolo na sua mensagem e já estamos acompanhando a solicitação. Qual o melhor horário para entrarmos em contato?"
	msgShortAsk = "Olá! Para agilizar o atendimento, informe o número de protocolo (se houver), o horário em que o problema ocorreu e o texto do erro exibido."
	msgRequest  = "Olá! Recebemos sua solicitação e estamos analisando. Se tiver um número de protocolo ou mais detalhes, envie para agilizarmos o atendimento."
	msgSupport  = "Olá! Recebemos sua mensagem. Poderia nos enviar mais detalhes sobre o que aconteceu para podermos ajudar?"
	msgComplain = "Olá! Lamentamos o ocorrido. Envie mais detalhes e o número de protocolo, se houver, para tratarmos com prioridade."
)

// Classify runs the full decision ladder and always returns a valid result.
func Classify(text string) domain.Result {
	if res, ok := QuickScan(text); ok {
		return res
	}

	normalized := textnorm.Normalize(text)

	if protocolRe.MatchString(text) {
		return result(domain.CategoryProductive, confidenceProtocol,
			"número de protocolo identificado", msgProtocol, "protocol")
	}

	hasRequest := containsAny(normalized, requestKeywords)
	hasSupport := containsAny(normalized, supportKeywords)

	if hasRequest {
		if hasSupport && textnorm.WordCount(normalized) <= shortRequestMaxWords && !textnorm.ContainsDigit(normalized) {
			return result(domain.CategoryProductive, confidenceShortAsk,
				"pedido curto de suporte sem detalhes", msgShortAsk, "support")
		}

		return result(domain.CategoryProductive, confidenceRequest,
			"linguagem de solicitação identificada", msgRequest, "request")
	}

	if hasSupport {
		return result(domain.CategoryUnproductive, confidenceSupportOnly,
			"menção a suporte sem solicitação explícita", msgSupport, "support")
	}

	if containsAny(normalized, complaintKeywords) {
		return result(domain.CategoryUnproductive, confidenceComplaint,
			"tom de reclamação sem solicitação", msgComplain, "complaint")
	}

	return result(domain.CategoryUnproductive, confidenceNoSignal,
		ReasonNoSignal, "", "")
}

// QuickScan covers the cheap short-circuits: near-empty text and
// spam/marketing wording. The boolean reports whether a terminal result was
// produced.
func QuickScan(text string) (domain.Result, bool) {
	trimmed := strings.TrimSpace(text)

	if len([]rune(trimmed)) < minMeaningfulChars {
		return result(domain.CategoryUnproductive, confidenceVeryShort,
			"texto muito curto para conter uma solicitação", "", ""), true
	}

	if containsAny(textnorm.Normalize(trimmed), spamKeywords) {
		return result(domain.CategoryUnproductive, confidenceSpam,
			"conteúdo promocional ou spam", "", "spam"), true
	}

	return domain.Result{}, false
}

// HasRequestSignal reports whether the text carries solicitation language.
func HasRequestSignal(text string) bool {
	return containsAny(textnorm.Normalize(text), requestKeywords)
}

// ExtractProtocol returns the first protocol number found in the raw text,
// or the empty string.
func ExtractProtocol(raw string) string {
	m := protocolRe.FindStringSubmatch(raw)
	if len(m) < 2 {
		return ""
	}

	return m[1]
}

func containsAny(normalized string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(normalized, k) {
			return true
		}
	}

	return false
}

func result(cat domain.Category, conf float64, reason, message, intent string) domain.Result {
	res := domain.Result{
		Category:    cat,
		Confidence:  domain.ClampConfidence(conf),
		ShortReason: reason,
		UserMessage: message,
		Strategy:    domain.StrategyHeuristic,
	}

	if intent != "" {
		res.MatchedIntents = []string{intent}
	}

	return res
}
