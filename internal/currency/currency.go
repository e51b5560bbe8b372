package currency

import (
	"math"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

type Code string

const (
	USD Code = "USD"
	INR Code = "INR"
)

// Default — валюта пользователя по умолчанию.
const Default = USD

// Parse приводит код к поддерживаемой валюте.
func Parse(value string) (Code, bool) {
	switch Code(strings.ToUpper(strings.TrimSpace(value))) {
	case USD:
		return USD, true
	case INR:
		return INR, true
	default:
		return "", false
	}
}

// Symbol возвращает символ валюты, для неизвестных кодов символ USD.
func Symbol(code Code) string {
	if code == INR {
		return "₹"
	}
	return "$"
}

var printers = map[Code]*message.Printer{
	USD: message.NewPrinter(language.AmericanEnglish),
	INR: message.NewPrinter(language.MustParse("en-IN")),
}

// Format форматирует сумму с двумя знаками и группировкой разрядов:
// en-US для USD (1,234,567.89) и en-IN для INR (12,34,567.89).
func Format(amount float64, code Code) string {
	printer, ok := printers[code]
	if !ok {
		printer = printers[Default]
	}

	// округление до центов до форматирования, знак ставится перед символом
	cents := math.Round(math.Abs(amount) * 100)
	digits := printer.Sprint(number.Decimal(cents/100, number.MinFractionDigits(2), number.MaxFractionDigits(2)))

	sign := ""
	if amount < 0 && cents > 0 {
		sign = "-"
	}
	return sign + Symbol(code) + digits
}
