package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		opts     Options
		wantRows int
	}{
		{
			name:     "single matching row",
			input:    "IDRSSD^BHCK2170^BHCK3210\n1447376^1000^200\n",
			opts:     Options{TargetRSSD: "1447376"},
			wantRows: 1,
		},
		{
			name:     "filter drops other institutions",
			input:    "IDRSSD^BHCK2170\n1447376^1000\n9999999^2000\n",
			opts:     Options{TargetRSSD: "1447376"},
			wantRows: 1,
		},
		{
			name:     "no filter keeps all rows",
			input:    "IDRSSD^BHCK2170\n1447376^1000\n9999999^2000\n",
			opts:     Options{},
			wantRows: 2,
		},
		{
			name:     "malformed rows dropped",
			input:    "IDRSSD^BHCK2170^BHCK3210\n1447376^1000\n1447376^1000^200^extra\n1447376^1000^200\n",
			opts:     Options{TargetRSSD: "1447376"},
			wantRows: 1,
		},
		{
			name:     "RSSD9001 header variant recognized",
			input:    "RSSD9001^BHCK2170\n1447376^1000\n",
			opts:     Options{TargetRSSD: "1447376"},
			wantRows: 1,
		},
		{
			name:     "missing RSSD column skips file",
			input:    "FIELD_A^FIELD_B\n1^2\n",
			opts:     Options{TargetRSSD: "1447376"},
			wantRows: 0,
		},
		{
			name:     "empty input",
			input:    "",
			opts:     Options{},
			wantRows: 0,
		},
		{
			name:     "header only",
			input:    "IDRSSD^BHCK2170\n",
			opts:     Options{},
			wantRows: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := Parse(strings.NewReader(tt.input), tt.opts)
			require.NoError(t, err)
			assert.Len(t, rows, tt.wantRows)
		})
	}
}

func TestParse_RowValues(t *testing.T) {
	input := "idrssd^bhck2170^BHCK3210\n 1447376 ^ 1000 ^200\n"

	rows, err := Parse(strings.NewReader(input), Options{TargetRSSD: "1447376"})
	require.NoError(t, err)
	require.Len(t, rows, 1)

	// Headers upper-cased, values trimmed.
	assert.Equal(t, "1447376", rows[0]["IDRSSD"])
	assert.Equal(t, "1000", rows[0]["BHCK2170"])
	assert.Equal(t, "200", rows[0]["BHCK3210"])
}

func TestParse_CRLFLineEndings(t *testing.T) {
	input := "IDRSSD^BHCK2170\r\n1447376^1000\r\n"

	rows, err := Parse(strings.NewReader(input), Options{TargetRSSD: "1447376"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "1000", rows[0]["BHCK2170"])
}

func TestParse_CaretInsideValueNotQuoted(t *testing.T) {
	// The format has no quoting, so an embedded caret changes the field
	// count and the row is dropped rather than misparsed.
	input := "IDRSSD^TEXT^BHCK2170\n1447376^a^b^1000\n1447376^ok^1000\n"

	rows, err := Parse(strings.NewReader(input), Options{TargetRSSD: "1447376"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "ok", rows[0]["TEXT"])
}
