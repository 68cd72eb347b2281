/*
Package pricing computes item subtotals, order totals and renders the
human-readable order summary.
*/
package pricing

import (
	"fmt"
	"strings"

	"github.com/lumiflux/orderbot/pkg/domain"
)

// FormatMoney renders a monetary value with the currency prefix, two fixed
// decimals and a comma as decimal separator (e.g. "R$ 12,50").
func FormatMoney(v float64) string {
	return "R$ " + strings.Replace(fmt.Sprintf("%.2f", v), ".", ",", 1)
}

// Subtotal computes the price of a line: qty x (unit price + selected extras).
func Subtotal(unitPrice float64, selected []domain.SelectedOption, qty int) float64 {
	extra := 0.0
	for _, o := range selected {
		extra += o.ExtraPrice
	}
	return float64(qty) * (unitPrice + extra)
}

// Total computes the order total: every committed subtotal plus the delivery fee.
func Total(s *domain.Session) float64 {
	sum := 0.0
	for _, it := range s.Items {
		sum += it.Subtotal
	}
	return sum + s.DeliveryFee
}

// Summary renders the deterministic order summary block: header, one line per
// item (quantity, name, option labels, subtotal), delivery fee and total.
func Summary(s *domain.Session) string {
	var b strings.Builder
	b.WriteString("*Resumo do pedido*")
	for _, it := range s.Items {
		b.WriteString(fmt.Sprintf("\n• %dx %s", it.Quantity, it.Name))
		if len(it.Options) > 0 {
			labels := make([]string, len(it.Options))
			for i, o := range it.Options {
				labels[i] = o.Label
			}
			b.WriteString(" (" + strings.Join(labels, ", ") + ")")
		}
		b.WriteString(" — " + FormatMoney(it.Subtotal))
	}
	b.WriteString("\nTaxa: " + FormatMoney(s.DeliveryFee))
	b.WriteString("\n*Total:* " + FormatMoney(Total(s)))
	return b.String()
}
