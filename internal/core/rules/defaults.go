package rules

import "github.com/mailsense/mailsense/internal/core/domain"

func categoryPtr(c domain.Category) *domain.Category {
	return &c
}

// DefaultRules is the rule set registered at startup. Patterns carry both
// accented and unaccented spellings because matching runs against the raw
// text.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name:             "protocol-number",
			Priority:         100,
			Intent:           "protocol",
			CategoryOverride: categoryPtr(domain.CategoryProductive),
			Patterns: []string{
				`#\d{2,}`,
				`protocolos?\s*(?:n[oº°.]*\s*)?[:#-]?\s*\d{2,}`,
				`chamados?\s*[:#-]?\s*\d{2,}`,
			},
		},
		{
			Name:             "spam-marketing",
			Priority:         90,
			Intent:           "spam",
			CategoryOverride: categoryPtr(domain.CategoryUnproductive),
			Patterns: []string{
				`unsubscribe`,
				`promo[cç][aã]o`,
				`oferta\s+(?:imperd[ií]vel|especial|exclusiva)`,
				`newsletter`,
				`desconto\s+exclusivo`,
				`clique\s+aqui`,
				`cupom`,
				`sorteio`,
			},
		},
		{
			Name:     "support-issue",
			Priority: 80,
			Intent:   "support",
			Patterns: []string{
				`suporte`,
				`\berros?\b`,
				`\bfalhas?\b`,
				`\blogin\b`,
				`\bsenhas?\b`,
				`n[aã]o\s+consigo\s+acessar`,
				`sistema\s+(?:fora|inacess[ií]vel|indispon[ií]vel)`,
				`\bbug\b`,
			},
		},
		{
			Name:     "billing",
			Priority: 70,
			Intent:   "billing",
			Patterns: []string{
				`pagamentos?`,
				`faturas?`,
				`boletos?`,
				`reembolsos?`,
				`cobran[cç]as?`,
				`vencid[oa]s?`,
				`nota\s+fiscal`,
			},
		},
		{
			Name:     "meeting",
			Priority: 60,
			Intent:   "meeting",
			Patterns: []string{
				`reuni[aã]o`,
				`reuni[oõ]es`,
				`agendar`,
				`agendamento`,
				`dispon[ií]vel\s+(?:para|em)`,
				`convite\s+de\s+calend[aá]rio`,
			},
		},
		{
			Name:             "complaint",
			Priority:         50,
			Intent:           "complaint",
			CategoryOverride: categoryPtr(domain.CategoryUnproductive),
			Patterns: []string{
				`reclama[cç][aã]o`,
				`insatisfeit[oa]`,
				`p[eé]ssim[oa]`,
				`absurdo`,
				`cancelamento`,
				`cancelar\s+(?:o\s+)?(?:contrato|servi[cç]o|plano|assinatura)`,
			},
		},
		{
			Name:             "courtesy",
			Priority:         20,
			Intent:           "courtesy",
			CategoryOverride: categoryPtr(domain.CategoryUnproductive),
			Patterns: []string{
				`parab[eé]ns`,
				`feliz\s+(?:natal|ano\s+novo|anivers[aá]rio)`,
				`boas\s+festas`,
				`obrigad[oa]\s+(?:pela|pelo|por)`,
				`agrade[cç]o\s+(?:pela|pelo|a)`,
			},
		},
	}
}
