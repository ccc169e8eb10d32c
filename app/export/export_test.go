package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sample = Document{
	Number:    1,
	OrderID:   42,
	Recipient: "Alice",
	Address:   "1 Garden Lane",
	Selection: "Rose (2 pcs), Lily (1 pcs)",
	Message:   "Happy birthday!",
}

func TestFilenameUsesOrderID(t *testing.T) {
	assert.Equal(t, "order_42.docx", sample.Filename("docx"))
	assert.Equal(t, "order_42.pdf", sample.Filename("pdf"))
}

func TestLinesCoverEveryField(t *testing.T) {
	lines := sample.lines()
	require.Len(t, lines, 4)
	assert.Equal(t, "Recipient: Alice", lines[0])
	assert.Equal(t, "Address: 1 Garden Lane", lines[1])
	assert.Equal(t, "Flowers: Rose (2 pcs), Lily (1 pcs)", lines[2])
	assert.Equal(t, "Message: Happy birthday!", lines[3])
}

func TestWriteDOCX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteDOCX(sample, &buf))

	// DOCX is a zip container; check the magic bytes.
	require.Greater(t, buf.Len(), 4)
	assert.Equal(t, []byte("PK"), buf.Bytes()[:2])
}

func TestWritePDF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePDF(sample, &buf))

	require.Greater(t, buf.Len(), 5)
	assert.Equal(t, []byte("%PDF-"), buf.Bytes()[:5])
}
