package flow

import (
	"fmt"
	"strings"

	"github.com/lumiflux/orderbot/pkg/domain"
	"github.com/lumiflux/orderbot/pkg/pricing"
)

// Customer-facing texts. Kept together so the whole voice of the bot can be
// reviewed (and translated) in one place.
const (
	msgGreeting = "👋 Olá! Eu sou o *%s*.\n" +
		"Vamos começar seu pedido?\n\n" +
		"📍 *Qual a região/bairro?*\n%s\n\nResponda com o número."
	msgZoneInvalid = "Escolha um número da lista:\n%s"

	msgMenu          = "🍽️ *Cardápio %s*\n%s\n\nEnvie o *número* do item ou digite *finalizar*."
	msgMenuAgain     = "Quer mais algo?\n%s\n\nOu digite *finalizar*."
	msgMenuInvalid   = "Envie o *número* do item da lista, ou *finalizar*."
	msgNothingChosen = "Você ainda não escolheu nada. Selecione um item 😉"

	msgOptions = "Alguma opção?\n%s\n\nResponda com os números separados por vírgula ou *0* para nenhuma."

	msgAskQuantity     = "Quantidade? (ex.: 1, 2, 3)"
	msgQuantityInvalid = "Me diga um número inteiro 🙂"
	msgAdded           = "Adicionado: %dx %s."

	msgAskName    = "Qual é o *seu nome*?"
	msgAskAddress = "Prazer, *%s* 😊\nMe envie o *endereço completo* (rua, número, complemento, bairro)."

	msgAskPayment     = "💳 *Forma de pagamento*\n1) PIX\n2) Cartão na entrega\n3) Dinheiro\n\nResponda 1, 2 ou 3."
	msgPaymentInvalid = "Responda 1 (PIX), 2 (Cartão) ou 3 (Dinheiro)."
	msgPix            = "🔑 *Chave PIX:* `%s`\nEnvie o *comprovante* aqui (foto ou PDF)."
	msgCard           = "Cartão na entrega ✅"

	msgAskChange     = "Precisa de troco? Se sim, para quanto? (ex.: 50,00). Se não, responda *não*."
	msgChangeInvalid = "Manda o valor do troco (ex.: 50,00) ou *não*."
	msgChangeNoted   = "Troco anotado: %s."

	msgReceiptOK     = "✅ Comprovante recebido. Obrigado!"
	msgReceiptFailed = "⚠️ Não consegui salvar o comprovante. Pode enviar novamente?"

	msgConfirmed = "✅ *Pedido confirmado, %s!* Vamos preparar com todo carinho 💖\n" +
		"Endereço: %s\n" +
		"Se precisar, responda aqui. Para *novo pedido*, digite *novo pedido*.\n" +
		"Suporte: wa.me/%s"

	msgThanks   = "💖 De nada! Qualquer coisa estou aqui, *%s*!"
	msgNewOrder = "🆕 Novo pedido.\n%s\n\nResponda com o número."
	msgFarewell = "Até logo! Quando quiser, envie: *%s*"
	msgExpired  = "⏱️ Atendimento reiniciado por inatividade.\nEnvie *%s* para começar novamente."
)

// zoneList renders the 1-based zone menu with fees.
func zoneList(zones []domain.Zone) string {
	lines := make([]string, len(zones))
	for i, z := range zones {
		lines[i] = fmt.Sprintf("%d) %s — taxa %s", i+1, z.Name, pricing.FormatMoney(z.Fee))
	}
	return strings.Join(lines, "\n")
}

// menuList renders the items keyed by their catalog id.
func menuList(cat *domain.Catalog) string {
	lines := make([]string, len(cat.Items))
	for i, it := range cat.Items {
		lines[i] = fmt.Sprintf("%d) %s — %s", it.ID, it.Name, pricing.FormatMoney(it.UnitPrice))
	}
	return strings.Join(lines, "\n")
}

// optionList renders the 1-based option menu for a draft item.
func optionList(groups []domain.OptionGroup) string {
	lines := make([]string, len(groups))
	for i, g := range groups {
		line := fmt.Sprintf("%d) %s", i+1, g.Label)
		if g.ExtraPrice > 0 {
			line += " +" + pricing.FormatMoney(g.ExtraPrice)
		}
		lines[i] = line
	}
	return strings.Join(lines, "\n")
}
