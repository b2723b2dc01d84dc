package templates

// Default returns the startup catalog. Reply texts follow the wording the
// support team already uses; the protocol templates carry a {protocolo}
// placeholder filled when a protocol number was found in the email.
func Default() *Catalog {
	return NewCatalog(map[string]map[Tone]string{
		GeneralIntent: {
			ToneFriendly: "Olá! Recebemos sua mensagem e estamos analisando a solicitação. Em breve retornaremos.",
			ToneFormal:   "Prezado(a), confirmamos o recebimento de sua mensagem. Sua solicitação está em análise e retornaremos em breve. Atenciosamente.",
			ToneConcise:  "Mensagem recebida. Retornaremos em breve.",
		},
		"protocol": {
			ToneFriendly: "Olá! Localizamos o protocolo {protocolo} e sua solicitação já está em andamento. Qual o melhor horário para entrarmos em contato?",
			ToneFormal:   "Prezado(a), o protocolo {protocolo} foi localizado e sua solicitação está em andamento. Por gentileza, informe o melhor horário para contato. Atenciosamente.",
			ToneConcise:  "Protocolo {protocolo} em andamento. Qual o melhor horário para contato?",
		},
		"support": {
			ToneFriendly: "Olá! Para agilizar o atendimento, poderia nos informar o número de protocolo (se houver), o horário em que o problema ocorreu e o texto do erro exibido?",
			ToneFormal:   "Prezado(a), a fim de darmos andamento ao atendimento, solicitamos o número de protocolo (se houver), o horário da ocorrência e o texto do erro apresentado. Atenciosamente.",
			ToneConcise:  "Pode informar protocolo (se houver), horário do problema e texto do erro?",
		},
		"billing": {
			ToneFriendly: "Olá! Recebemos sua mensagem sobre pagamento. Para prosseguir, poderia nos enviar o número da fatura ou do pedido?",
			ToneFormal:   "Prezado(a), confirmamos o recebimento de sua mensagem referente a pagamento. Solicitamos o número da fatura ou do pedido para prosseguirmos. Atenciosamente.",
			ToneConcise:  "Sobre o pagamento: qual o número da fatura ou do pedido?",
		},
		"meeting": {
			ToneFriendly: "Olá! Sobre a reunião, poderia sugerir duas ou três opções de horário? Confirmamos em seguida.",
			ToneFormal:   "Prezado(a), em relação à reunião solicitada, pedimos a gentileza de sugerir opções de horário para confirmação. Atenciosamente.",
			ToneConcise:  "Pode sugerir horários para a reunião?",
		},
		"complaint": {
			ToneFriendly: "Olá! Lamentamos o ocorrido. Para darmos andamento, poderia nos enviar mais detalhes e o número de protocolo, se tiver?",
			ToneFormal:   "Prezado(a), lamentamos o transtorno relatado. Solicitamos mais detalhes sobre a ocorrência e o número de protocolo, caso exista, para tratarmos com prioridade. Atenciosamente.",
			ToneConcise:  "Lamentamos o ocorrido. Pode enviar mais detalhes e o protocolo, se houver?",
		},
		"courtesy": {
			ToneFriendly: "Olá! Agradecemos a mensagem. Ficamos à disposição caso precise de algo.",
			ToneConcise:  "Obrigado pela mensagem! Estamos à disposição.",
		},
		"spam": {
			ToneFriendly: "Mensagem registrada para acompanhamento. Nenhuma ação imediata identificada.",
		},
	})
}
