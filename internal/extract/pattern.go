package extract

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/joseph-ayodele/invoice-extractor/constants"
	"github.com/joseph-ayodele/invoice-extractor/internal/entity"
)

// Pattern lists are ordered: labeled patterns first, bare ones last. The first match wins.
var (
	datePatterns = []*regexp.Regexp{
		regexp.MustCompile(`Rechnungsdatum\s*(\d{2}\.\d{2}\.\d{4})`),
		regexp.MustCompile(`Invoice Date[:\s]*(\d{2}/\d{2}/\d{4})`),
		regexp.MustCompile(`Date[:\s]*(\d{4}-\d{2}-\d{2})`),
		regexp.MustCompile(`(\d{2}\.\d{2}\.\d{4})`),
		regexp.MustCompile(`(\d{2}/\d{2}/\d{4})`),
		regexp.MustCompile(`(\d{4}-\d{2}-\d{2})`),
	}

	amountPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)Total zu bezahlen (?:CHF|EUR|USD)?\s*(\d+\.?\d*)`),
		regexp.MustCompile(`(?i)Total[:\s]+(?:CHF|EUR|USD)?\s*(\d+\.?\d*)`),
		regexp.MustCompile(`(?i)Amount Due[:\s]*(?:CHF|EUR|USD)?\s*(\d+\.?\d*)`),
		regexp.MustCompile(`(?i)(?:CHF|EUR|USD)\s*(\d+\.\d+)`),
	}

	clientPatterns = []*regexp.Regexp{
		regexp.MustCompile(`^([A-Z][A-Za-z\s&.-]+(?:GmbH|AG|Ltd|Inc|Corp|SA))`),
		regexp.MustCompile(`([A-Z][A-Za-z\s&.-]+(?:GmbH|AG|Ltd|Inc|Corp|SA))`),
	}

	invoiceNumberPatterns = []*regexp.Regexp{
		regexp.MustCompile(`Rechnungsnummer[:\s]*(\d+)`),
		regexp.MustCompile(`Invoice Number[:\s]*(\d+)`),
		regexp.MustCompile(`Invoice #(\d+)`),
	}
)

const (
	clientScanLines = 10
	// clientExclude filters the telecom sender that heads many of the source invoices.
	clientExclude = "UPC"
)

// PatternExtractor is the deterministic fallback used when the completion service is
// unavailable or unusable. It is safe for concurrent use.
type PatternExtractor struct{}

func NewPatternExtractor() *PatternExtractor {
	return &PatternExtractor{}
}

// ExtractFields returns whatever fields the patterns find. Missing fields are omitted;
// status and currency are always present and fall back to "unknown".
func (p *PatternExtractor) ExtractFields(content string) entity.Metadata {
	md := entity.Metadata{}

	if date, ok := ExtractDate(content); ok {
		md.Set("date", date)
		if year, ok := YearFromDate(date); ok {
			md.Set("year", year)
		}
	}
	if amount, ok := ExtractAmount(content); ok {
		md.Set("amount", amount)
	}
	if client, ok := ExtractClient(content); ok {
		md.Set("client", client)
	}
	if number, ok := ExtractInvoiceNumber(content); ok {
		md.Set("invoice_number", number)
	}
	md.Set("status", string(ExtractStatus(content)))
	md.Set("currency", ExtractCurrency(content))
	return md
}

// ExtractDate returns the first date found, rendered as YYYY-MM-DD. A match that does not
// parse as a calendar date is skipped in favour of the next pattern.
func ExtractDate(content string) (string, bool) {
	for _, re := range datePatterns {
		m := re.FindStringSubmatch(content)
		if m == nil {
			continue
		}
		if date, ok := NormalizeDate(m[1]); ok {
			return date, true
		}
	}
	return "", false
}

// NormalizeDate parses DD.MM.YYYY, MM/DD/YYYY or YYYY-MM-DD and re-emits YYYY-MM-DD.
func NormalizeDate(s string) (string, bool) {
	layout := "2006-01-02"
	switch {
	case strings.Contains(s, "."):
		layout = "02.01.2006"
	case strings.Contains(s, "/"):
		layout = "01/02/2006"
	}
	t, err := time.Parse(layout, s)
	if err != nil {
		return "", false
	}
	return t.Format("2006-01-02"), true
}

// YearFromDate reads the year from the first four characters of a canonical date.
func YearFromDate(date string) (int, bool) {
	if len(date) < 4 {
		return 0, false
	}
	year, err := strconv.Atoi(date[:4])
	if err != nil {
		return 0, false
	}
	return year, true
}

// ExtractAmount returns the first total-like amount found.
func ExtractAmount(content string) (float64, bool) {
	for _, re := range amountPatterns {
		m := re.FindStringSubmatch(content)
		if m == nil {
			continue
		}
		amount, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		return amount, true
	}
	return 0, false
}

// ExtractClient looks for a company name with a legal-entity suffix in the letterhead.
func ExtractClient(content string) (string, bool) {
	lines := strings.Split(content, "\n")
	if len(lines) > clientScanLines {
		lines = lines[:clientScanLines]
	}
	for _, line := range lines {
		line = strings.TrimSpace(line)
		for _, re := range clientPatterns {
			m := re.FindStringSubmatch(line)
			if m != nil && !strings.Contains(m[1], clientExclude) {
				return strings.TrimSpace(m[1]), true
			}
		}
	}
	return "", false
}

// ExtractInvoiceNumber returns the digits following an invoice-number label.
func ExtractInvoiceNumber(content string) (string, bool) {
	for _, re := range invoiceNumberPatterns {
		if m := re.FindStringSubmatch(content); m != nil {
			return m[1], true
		}
	}
	return "", false
}

// ExtractStatus checks for payment-due wording before paid wording.
func ExtractStatus(content string) constants.PaymentStatus {
	lower := strings.ToLower(content)
	switch {
	case strings.Contains(lower, "bezahlen") || strings.Contains(lower, "due"):
		return constants.PaymentStatusPending
	case strings.Contains(lower, "paid"):
		return constants.PaymentStatusPaid
	}
	return constants.PaymentStatusUnknown
}

// ExtractCurrency returns the first currency marker found, or "unknown".
func ExtractCurrency(content string) string {
	for _, c := range constants.CurrencySymbols {
		if strings.Contains(content, c.Symbol) {
			return c.Code
		}
	}
	return constants.CurrencyUnknown
}
