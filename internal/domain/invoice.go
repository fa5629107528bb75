package domain

import (
	"fmt"
	"math"
	"strings"
	"time"
)

const InvoiceStatusPaid = "paid"

type Invoice struct {
	ID         string
	StripeID   string
	ProductIDs []string
	// Total is expressed in minor currency units (cents).
	Total     int64
	Currency  string
	Status    string
	CreatedAt time.Time
}

func (i Invoice) Tone() Tone {
	if i.Status == InvoiceStatusPaid {
		return ToneSuccess
	}
	return ToneWarning
}

// FormatAmount renders the invoice total as a major-unit amount with the
// currency symbol when one is known, e.g. "$12.50" or "CHF 3.00".
func (i Invoice) FormatAmount() string {
	return FormatMoney(i.Total, i.Currency)
}

var currencySymbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
	"INR": "₹",
	"AUD": "A$",
	"CAD": "CA$",
}

func FormatMoney(minor int64, currency string) string {
	code := strings.ToUpper(strings.TrimSpace(currency))
	if code == "" {
		code = "USD"
	}

	sign := ""
	if minor < 0 {
		sign = "-"
	}
	major := math.Abs(float64(minor)) / 100
	amount := groupThousands(fmt.Sprintf("%.2f", major))

	if symbol, ok := currencySymbols[code]; ok {
		return sign + symbol + amount
	}
	return sign + code + " " + amount
}

func groupThousands(amount string) string {
	whole, frac, _ := strings.Cut(amount, ".")
	if len(whole) <= 3 {
		return amount
	}

	var b strings.Builder
	lead := len(whole) % 3
	if lead > 0 {
		b.WriteString(whole[:lead])
	}
	for i := lead; i < len(whole); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(whole[i : i+3])
	}

	return b.String() + "." + frac
}
