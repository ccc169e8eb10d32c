// Package export renders placed orders into downloadable documents.
package export

// Document is the structured view of an order handed to the DOCX and PDF
// renderers. Number is the order's 1-based position within the owner's
// order history, derived at read time.
type Document struct {
	Number    int
	OrderID   uint
	Recipient string
	Address   string
	Selection string
	Message   string
}

// MIME types for the two supported formats.
const (
	MIMEDocx = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MIMEPDF  = "application/pdf"
)
