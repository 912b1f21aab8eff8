package llm

import (
	"strings"
	"unicode/utf8"

	"github.com/joseph-ayodele/invoice-extractor/constants"
)

// SystemInstruction is sent as the system message on every extraction request.
const SystemInstruction = "You are an expert invoice data extraction assistant. " +
	"Extract structured data from invoices in JSON format only. Be precise and accurate."

// StopSequence ends generation once the model closes a <json> block.
const StopSequence = "</json>"

const outputShape = `{
    "document_type": "invoice|bill|receipt|payment_request",
    "language": "german|english|mixed",
    "invoice_number": "extracted_number",
    "invoice_date": "YYYY-MM-DD",
    "due_date": "YYYY-MM-DD",
    "total_amount": numeric_value,
    "currency": "CHF|EUR|USD",
    "tax_amount": numeric_value,
    "customer_number": "extracted_number",
    "reference": "extracted_reference",
    "company_name": "sender_company",
    "client_name": "recipient_company",
    "payment_status": "paid|pending|overdue|unknown",
    "line_items": [
        {"description": "item", "amount": numeric_value}
    ],
    "additional_fields": {
        "custom_field_name": "value"
    }
}`

// BuildExtractionPrompt embeds the bilingual vocabulary, the expected output shape and
// the document text, cut to maxChars characters (maxChars <= 0 disables the cut).
func BuildExtractionPrompt(content string, maxChars int) string {
	var b strings.Builder
	b.WriteString("Extract ALL available information from this invoice/receipt/bill text and return it as valid JSON.\n\n")
	b.WriteString("Look for these attributes (German/English):\n")
	b.WriteString("German: ")
	b.WriteString(strings.Join(constants.GermanAttributes, ", "))
	b.WriteString("\nEnglish: ")
	b.WriteString(strings.Join(constants.EnglishAttributes, ", "))
	b.WriteString("\n\nDocument types:\n")
	b.WriteString("German: ")
	b.WriteString(strings.Join(constants.DocumentTypes[constants.LanguageGerman], ", "))
	b.WriteString("\nEnglish: ")
	b.WriteString(strings.Join(constants.DocumentTypes[constants.LanguageEnglish], ", "))
	b.WriteString("\n\nAdditional fields to extract:\n")
	for _, line := range []string{
		"Document type (invoice, bill, receipt, payment request)",
		"Company/sender name",
		"Client/recipient name",
		"Currency (CHF, EUR, USD, etc.)",
		"Language detected",
		"Payment status indicators",
		"Line items if available",
	} {
		b.WriteString("- ")
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\nText to analyze:\n")
	b.WriteString(TruncateRunes(content, maxChars))
	b.WriteString("\n\nReturn ONLY valid JSON in this format:\n")
	b.WriteString(outputShape)
	b.WriteString("\n")
	return b.String()
}

// TruncateRunes cuts s to at most n characters without splitting a UTF-8 sequence.
func TruncateRunes(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
