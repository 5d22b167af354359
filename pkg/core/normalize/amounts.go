package normalize

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"disclosure_audit/pkg/models"
)

// Monetary figures arrive either as structured {amount, currency, context}
// objects or as free text ("a provision of €4.5 million was recognized").
// Both paths converge on models.FinancialAmount with the magnitude already
// applied. Entries that yield no parsable number are dropped, never zeroed:
// a zero amount would poison averages while a dropped entry only lowers the
// quantification count.

var currencySymbols = map[string]string{
	"€": "EUR",
	"$": "USD",
	"£": "GBP",
	"¥": "JPY",
}

var currencyCodes = map[string]string{
	"EUR": "EUR", "USD": "USD", "GBP": "GBP", "CHF": "CHF", "JPY": "JPY",
	"CAD": "CAD", "AUD": "AUD", "SEK": "SEK", "NOK": "NOK", "DKK": "DKK",
}

var magnitudes = map[string]int64{
	"thousand": 1_000,
	"k":        1_000,
	"million":  1_000_000,
	"mn":       1_000_000,
	"m":        1_000_000,
	"billion":  1_000_000_000,
	"bn":       1_000_000_000,
	"b":        1_000_000_000,
}

// amountPattern matches an optional currency token, a number, and an
// optional magnitude word: "€4.5 million", "USD 1,200", "3.2bn".
var amountPattern = regexp.MustCompile(
	`(?i)(€|\$|£|¥|EUR|USD|GBP|CHF|JPY|CAD|AUD|SEK|NOK|DKK)?\s*([0-9][0-9.,]*)\s*(thousand|million|billion|mn|bn|k|m|b)?\b`)

// ParseAmountText extracts every monetary figure found in free prose.
// A bare number with neither a currency token nor a magnitude word is
// not money: years and counts in quote text would otherwise read as
// amounts. The context is the full source text.
func ParseAmountText(text string) []models.FinancialAmount {
	return parseAmounts(text, true)
}

// parseAmounts is the shared extractor. Declared amount fields keep
// accepting bare numbers (requireToken false); prose does not.
func parseAmounts(text string, requireToken bool) []models.FinancialAmount {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	var amounts []models.FinancialAmount
	for _, match := range amountPattern.FindAllStringSubmatch(text, -1) {
		if requireToken && match[1] == "" && match[3] == "" {
			continue
		}
		value, ok := parseDecimal(match[2])
		if !ok {
			continue
		}
		if scale, ok := magnitudes[strings.ToLower(match[3])]; ok {
			value = value.Mul(decimal.NewFromInt(scale))
		}
		amounts = append(amounts, models.FinancialAmount{
			Amount:   value,
			Currency: canonicalCurrency(match[1]),
			Context:  text,
		})
	}
	return amounts
}

// parseAmountEntry converts one raw financial_amounts element, which may be
// a structured object or a bare string. Returns ok=false for malformed
// entries so the caller drops them.
func parseAmountEntry(v interface{}) ([]models.FinancialAmount, bool) {
	switch entry := v.(type) {
	case string:
		parsed := parseAmounts(entry, false)
		return parsed, len(parsed) > 0
	case map[string]interface{}:
		context := getString(entry, "context", "description")
		currency := canonicalCurrency(getString(entry, "currency"))
		if f, ok := getFloat(entry, "amount", "value"); ok {
			value := decimal.NewFromFloat(f)
			if scale, ok := magnitudes[strings.ToLower(getString(entry, "unit", "magnitude"))]; ok {
				value = value.Mul(decimal.NewFromInt(scale))
			}
			return []models.FinancialAmount{{Amount: value, Currency: currency, Context: context}}, true
		}
		// Amount given as text, possibly with its own currency token.
		if text := getString(entry, "amount", "value", "text"); text != "" {
			parsed := parseAmounts(text, false)
			for i := range parsed {
				if parsed[i].Currency == "" {
					parsed[i].Currency = currency
				}
				if context != "" {
					parsed[i].Context = context
				}
			}
			return parsed, len(parsed) > 0
		}
		return nil, false
	default:
		return nil, false
	}
}

// normalizeAmounts applies parseAmountEntry across a raw list, dropping
// malformed entries.
func normalizeAmounts(list []interface{}) []models.FinancialAmount {
	amounts := []models.FinancialAmount{}
	for _, v := range list {
		if parsed, ok := parseAmountEntry(v); ok {
			amounts = append(amounts, parsed...)
		}
	}
	return amounts
}

func canonicalCurrency(token string) string {
	token = strings.TrimSpace(token)
	if token == "" {
		return ""
	}
	if code, ok := currencySymbols[token]; ok {
		return code
	}
	if code, ok := currencyCodes[strings.ToUpper(token)]; ok {
		return code
	}
	return strings.ToUpper(token)
}

func parseDecimal(s string) (decimal.Decimal, bool) {
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimRight(s, ".")
	if s == "" {
		return decimal.Decimal{}, false
	}
	value, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return value, true
}
