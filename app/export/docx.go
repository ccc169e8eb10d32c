package export

import (
	"fmt"
	"io"

	"github.com/fumiama/go-docx"
)

// WriteDOCX renders the order document in the flow-layout (word
// processing) format and streams it to w.
func WriteDOCX(doc Document, w io.Writer) error {
	file := docx.New().WithDefaultTheme()

	title := file.AddParagraph()
	title.AddText(fmt.Sprintf("Order #%d", doc.Number)).Size("32").Bold()

	for _, line := range doc.lines() {
		file.AddParagraph().AddText(line)
	}

	if _, err := file.WriteTo(w); err != nil {
		return fmt.Errorf("export: write docx: %w", err)
	}
	return nil
}

// lines returns the body of the document, one label per line, in the
// order it appears in both export formats.
func (d Document) lines() []string {
	return []string{
		fmt.Sprintf("Recipient: %s", d.Recipient),
		fmt.Sprintf("Address: %s", d.Address),
		fmt.Sprintf("Flowers: %s", d.Selection),
		fmt.Sprintf("Message: %s", d.Message),
	}
}

// Filename builds the attachment name for the given format extension.
func (d Document) Filename(ext string) string {
	return fmt.Sprintf("order_%d.%s", d.OrderID, ext)
}
