package extraction

import (
	"fmt"
	"strings"
	"time"

	"github.com/mauricioolv87/ai-telegram/internal/organizze"
)

// buildPrompt constructs the grounded extraction prompt. The available
// categories, accounts and credit cards are embedded with their IDs so
// the model selects from valid entities rather than hallucinating names.
func buildPrompt(transcript string, today time.Time, categories []organizze.Category, accounts []organizze.Account, cards []organizze.CreditCard) string {
	var b strings.Builder

	b.WriteString("Você é um assistente que extrai informações de gastos de textos em português.\n\n")
	fmt.Fprintf(&b, "Data de hoje: %s\n\n", today.Format("2006-01-02"))
	fmt.Fprintf(&b, "Texto: %q\n\n", transcript)

	b.WriteString("Categorias disponíveis:\n")
	if len(categories) == 0 {
		b.WriteString("(nenhuma)\n")
	}
	for _, cat := range categories {
		fmt.Fprintf(&b, "- [%d] %s\n", cat.ID, cat.Name)
	}

	b.WriteString("\nContas disponíveis:\n")
	if len(accounts) == 0 {
		b.WriteString("(nenhuma)\n")
	}
	for _, acc := range accounts {
		fmt.Fprintf(&b, "- [%d] %s\n", acc.ID, acc.Name)
	}

	b.WriteString("\nCartões de crédito disponíveis:\n")
	if len(cards) == 0 {
		b.WriteString("(nenhum)\n")
	}
	for _, card := range cards {
		fmt.Fprintf(&b, "- [%d] %s\n", card.ID, card.Name)
	}

	b.WriteString("\nExtraia as seguintes informações e retorne APENAS um JSON válido (sem markdown):\n\n")
	b.WriteString("{\n")
	b.WriteString("    \"description\": \"descrição curta do gasto (máximo 30 caracteres)\",\n")
	b.WriteString("    \"date\": \"data no formato YYYY-MM-DD\",\n")
	b.WriteString("    \"amount_cents\": valor em centavos negativo,\n")
	b.WriteString("    \"category_name\": \"nome de uma das categorias acima, ou vazio\",\n")
	b.WriteString("    \"payment_method\": \"como foi pago (ex: cartão de crédito, débito, pix, dinheiro)\",\n")
	b.WriteString("    \"card_name\": \"nome de um dos cartões acima, se pagamento no cartão\",\n")
	b.WriteString("    \"account_name\": \"nome de uma das contas acima, caso contrário\"\n")
	b.WriteString("}\n\n")

	b.WriteString("Regras:\n")
	b.WriteString("- Se valor não mencionado, use -1000\n")
	b.WriteString("- amount_cents NEGATIVO para despesa\n")
	b.WriteString("- date no formato YYYY-MM-DD; resolva datas relativas usando a data de hoje\n")
	b.WriteString("- category_name, card_name e account_name devem ser EXATAMENTE um dos nomes listados acima\n")
	b.WriteString("- Não invente nomes; se não tiver certeza, deixe o campo vazio\n")
	b.WriteString("- Retorne SOMENTE o objeto JSON, sem código, sem comentários\n")

	return b.String()
}
