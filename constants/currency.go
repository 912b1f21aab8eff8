package constants

// CurrencyUnknown is reported when no currency marker is found.
const CurrencyUnknown = "unknown"

// CurrencySymbol maps a marker found in text to an ISO currency code.
type CurrencySymbol struct {
	Symbol string
	Code   string
}

// CurrencySymbols is checked in order; the first marker contained in the text wins.
var CurrencySymbols = []CurrencySymbol{
	{Symbol: "CHF", Code: "CHF"},
	{Symbol: "EUR", Code: "EUR"},
	{Symbol: "€", Code: "EUR"},
	{Symbol: "USD", Code: "USD"},
	{Symbol: "$", Code: "USD"},
}
