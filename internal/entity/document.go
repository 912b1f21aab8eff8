package entity

// Document is one invoice record as handed over by the upstream text extraction.
type Document struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Content string `json:"pageContent"`
}
