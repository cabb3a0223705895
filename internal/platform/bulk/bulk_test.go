package bulk

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var staffMapping = Mapping{
	{Header: "Name", Field: "name"},
	{Header: "Email", Field: "email"},
	{Header: "Active", Field: "active"},
}

func TestCSVRoundTrip(t *testing.T) {
	rows := []Row{
		{"name": "Asha Verma", "email": "asha@example.com", "active": "Yes"},
		{"name": "Ravi Kumar", "email": "ravi@example.com", "active": "No"},
	}

	var buf bytes.Buffer
	require.NoError(t, ExportCSV(&buf, staffMapping, rows))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3) // header + 2 data rows
	assert.Equal(t, "Name,Email,Active", lines[0])

	parsed, err := ImportCSV(&buf)
	require.NoError(t, err)
	require.Len(t, parsed, 2)
	assert.Equal(t, "Asha Verma", parsed[0]["Name"])
	assert.Equal(t, "ravi@example.com", parsed[1]["Email"])
}

func TestXLSXRoundTrip(t *testing.T) {
	rows := []Row{
		{"name": "Asha Verma", "email": "asha@example.com", "active": "Yes"},
	}

	var buf bytes.Buffer
	require.NoError(t, ExportXLSX(&buf, staffMapping, rows))

	parsed, err := ImportXLSX(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Len(t, parsed, 1)
	assert.Equal(t, "Asha Verma", parsed[0]["Name"])
	assert.Equal(t, "Yes", parsed[0]["Active"])
}

func TestImportDispatchByExtension(t *testing.T) {
	csvData := "Name,Email\nAsha,a@b.com\n"

	rows, err := Import("staff.CSV", strings.NewReader(csvData))
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	_, err = Import("staff.pdf", strings.NewReader(csvData))
	assert.ErrorIs(t, err, ErrUnsupportedFileType)
}

func TestImportShortAndMalformedRowsForwarded(t *testing.T) {
	// Second data row is short; it still imports with the missing
	// field absent rather than being rejected.
	csvData := "Name,Email\nAsha,a@b.com\nRavi\n"

	rows, err := ImportCSV(strings.NewReader(csvData))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Ravi", rows[1]["Name"])
	_, ok := rows[1]["Email"]
	assert.False(t, ok)
}

func TestImportEmptyFile(t *testing.T) {
	_, err := ImportCSV(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrEmptyFile)
}

func TestFormatters(t *testing.T) {
	assert.Equal(t, "Yes", FormatYesNo(true))
	assert.Equal(t, "No", FormatYesNo(false))
	assert.True(t, ParseYesNo(" yes "))
	assert.False(t, ParseYesNo("nope"))

	assert.Equal(t, "₹1500", FormatRupees(1500))
	assert.Equal(t, "₹1500.50", FormatRupees(1500.5))

	amount, err := ParseRupees("₹1,500.50")
	require.NoError(t, err)
	assert.Equal(t, 1500.5, amount)

	amount, err = ParseRupees("")
	require.NoError(t, err)
	assert.Equal(t, 0.0, amount)

	_, err = ParseRupees("₹abc")
	assert.Error(t, err)
}
