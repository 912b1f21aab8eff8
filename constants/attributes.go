package constants

// GermanAttributes are the invoice attribute names the model is told to look for in
// German documents.
var GermanAttributes = []string{
	"Rechnungskonto", "Rechnungsnummer", "Rechnungsdatum", "Rechnungsperiode",
	"Ware", "Dienstleistung", "Mehrwertsteuer", "Steuer", "Umsatz", "Total",
	"Referenz", "Kundennummer", "Datum", "Fällig am", "Leistung", "Lieferung",
	"Periode der Leistung", "Debitorennummer", "Zahlungsbetrag", "Kundenrabatt",
}

// EnglishAttributes mirrors GermanAttributes for English documents.
var EnglishAttributes = []string{
	"Invoice number", "Invoice date", "Invoice period", "Goods", "Services",
	"Value added tax", "Tax", "Turnover", "Total", "Reference", "Customer number",
	"Date", "Due on", "Service", "Delivery", "Period of service",
	"Customer number", "Payment amount", "Customer discount",
}

// DocumentTypes lists the document kinds per language.
var DocumentTypes = map[string][]string{
	LanguageGerman:  {"Rechnung", "Rechnungen", "Quittung", "Quittungen", "Zahlungsaufforderung", "Zahlungsaufforderungen"},
	LanguageEnglish: {"Invoice", "Bill", "Receipt", "Payment request"},
}

// Languages reported in metadata.
const (
	LanguageGerman  = "german"
	LanguageEnglish = "english"
	LanguageMixed   = "mixed"
)

// Language indicators; a document counts one hit per indicator it contains.
var (
	GermanIndicators  = []string{"Rechnung", "Datum", "Betrag", "Mehrwertsteuer", "Kundennummer"}
	EnglishIndicators = []string{"Invoice", "Date", "Amount", "Total", "Customer"}
)

// CandidateFields is the vocabulary the completion service answers in.
var CandidateFields = []string{
	"document_type", "language", "invoice_number", "invoice_date", "due_date",
	"total_amount", "currency", "tax_amount", "customer_number", "reference",
	"company_name", "client_name", "payment_status", "line_items", "additional_fields",
}

// KeyFields drive extraction_confidence.
var KeyFields = []string{"date", "amount", "invoice_number", "client"}
