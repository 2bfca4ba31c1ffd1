package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNumeric(t *testing.T) {
	prev := 8.0

	tests := []struct {
		name    string
		raw     string
		prevRPE *float64
		allowBW bool
		isRPE   bool
		want    *float64
		wantOK  bool
	}{
		{name: "empty is null", raw: "", want: nil, wantOK: true},
		{name: "plain integer", raw: "5", want: ptr(5.0), wantOK: true},
		{name: "plain decimal", raw: "8.5", want: ptr(8.5), wantOK: true},
		{name: "whitespace trimmed", raw: " 180 ", want: ptr(180.0), wantOK: true},
		{name: "range uses lower bound", raw: "8-12", want: ptr(8.0), wantOK: true},
		{name: "spaced range", raw: "3 - 5", want: ptr(3.0), wantOK: true},
		{name: "decimal range", raw: "7.5-9", want: ptr(7.5), wantOK: true},
		{name: "BW in weight cell", raw: "BW", allowBW: true, want: ptr(102.5), wantOK: true},
		{name: "bw lowercase", raw: "bw", allowBW: true, want: ptr(102.5), wantOK: true},
		{name: "BW outside weight cell rejected", raw: "BW", wantOK: false},
		{name: "high percent drops RPE by two", raw: "7%", prevRPE: &prev, isRPE: true, want: ptr(6.0), wantOK: true},
		{name: "moderate percent drops RPE by one", raw: "5%", prevRPE: &prev, isRPE: true, want: ptr(7.0), wantOK: true},
		{name: "low percent keeps RPE", raw: "3%", prevRPE: &prev, isRPE: true, want: ptr(8.0), wantOK: true},
		{name: "negative percent uses magnitude", raw: "-7%", prevRPE: &prev, isRPE: true, want: ptr(6.0), wantOK: true},
		{name: "percent with no previous RPE is null", raw: "7%", isRPE: true, want: nil, wantOK: true},
		{name: "percent outside RPE cell rejected", raw: "7%", prevRPE: &prev, wantOK: false},
		{name: "garbage rejected", raw: "heavy", wantOK: false},
		{name: "trailing unit rejected", raw: "100kg", wantOK: false},
	}

	p := New(102.5)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := p.parseNumeric(tt.raw, tt.prevRPE, tt.allowBW, tt.isRPE)
			require.Equal(t, tt.wantOK, ok)
			if !tt.wantOK {
				return
			}
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.want, *got)
		})
	}
}

func ptr(v float64) *float64 { return &v }
