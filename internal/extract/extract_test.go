package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bhcwatch/y9c/internal/parser"
)

func TestRecords(t *testing.T) {
	rows := []parser.Row{
		{"IDRSSD": "1447376", "BHCK2170": "1000", "BHCK3210": "200"},
	}

	records, err := Records(rows, 2023, 2, []string{"BHCK2170", "BHCK3210"})
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "1447376", records[0].RSSDID)
	assert.Equal(t, "BHCK2170", records[0].Code)
	assert.InDelta(t, 1000.0, records[0].Value, 0.001)
	assert.Equal(t, 2023, records[0].Year)
	assert.Equal(t, 2, records[0].Quarter)
	assert.Equal(t, "2023-06-30", records[0].ReportDate.Format("2006-01-02"))
}

func TestRecords_SingleRowSingleMatch(t *testing.T) {
	// One row carrying two codes, only one requested, yields exactly one record.
	rows := []parser.Row{
		{"IDRSSD": "123", "CODE_A": "1000", "CODE_B": "2000"},
	}

	records, err := Records(rows, 2023, 1, []string{"CODE_A"})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "CODE_A", records[0].Code)
	assert.InDelta(t, 1000.0, records[0].Value, 0.001)
}

func TestRecords_FromParsedFile(t *testing.T) {
	input := "IDRSSD^CODE_A^CODE_B\n123^1000^\n"

	rows, err := parser.Parse(strings.NewReader(input), parser.Options{TargetRSSD: "123"})
	require.NoError(t, err)
	require.Len(t, rows, 1)

	// CODE_B's value is empty, so only CODE_A survives extraction.
	records, err := Records(rows, 2023, 1, []string{"CODE_A", "CODE_B"})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "123", records[0].RSSDID)
	assert.Equal(t, "CODE_A", records[0].Code)
	assert.InDelta(t, 1000.0, records[0].Value, 0.001)
	assert.Equal(t, "2023-03-31", records[0].ReportDate.Format("2006-01-02"))
}

func TestRecords_ThousandsSeparators(t *testing.T) {
	rows := []parser.Row{
		{"IDRSSD": "1447376", "BHCK2170": "1,234,567"},
	}

	records, err := Records(rows, 2023, 1, []string{"BHCK2170"})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.InDelta(t, 1234567.0, records[0].Value, 0.001)
}

func TestRecords_AbsentMarkers(t *testing.T) {
	rows := []parser.Row{
		{"IDRSSD": "1447376", "A": "", "B": "NA", "C": "N/A", "D": ".", "E": "junk", "F": "-42.5"},
	}

	records, err := Records(rows, 2023, 3, []string{"A", "B", "C", "D", "E", "F"})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "F", records[0].Code)
	assert.InDelta(t, -42.5, records[0].Value, 0.001)
}

func TestRecords_RSSDAliases(t *testing.T) {
	tests := []struct {
		name string
		row  parser.Row
		want string
	}{
		{"IDRSSD preferred", parser.Row{"IDRSSD": "1", "RSSD9001": "2", "X": "5"}, "1"},
		{"RSSD9001 fallback", parser.Row{"RSSD9001": "2", "X": "5"}, "2"},
		{"bare RSSD fallback", parser.Row{"RSSD": "3", "X": "5"}, "3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := Records([]parser.Row{tt.row}, 2023, 1, []string{"X"})
			require.NoError(t, err)
			require.Len(t, records, 1)
			assert.Equal(t, tt.want, records[0].RSSDID)
		})
	}
}

func TestRecords_NoResolvableRSSD(t *testing.T) {
	rows := []parser.Row{
		{"SOMETHING": "1", "X": "5"},
	}

	records, err := Records(rows, 2023, 1, []string{"X"})
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestRecords_InvalidQuarter(t *testing.T) {
	_, err := Records(nil, 2023, 7, []string{"X"})
	assert.Error(t, err)
}
