package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyDefault(t *testing.T) {
	ptr := func(s string) *string { return &s }

	tests := []struct {
		name string
		in   *string
		want DefaultKind
	}{
		{name: "nil", in: nil, want: DefaultNone},
		{name: "blank", in: ptr("  "), want: DefaultNone},
		{name: "autoincrement", in: ptr("autoincrement"), want: DefaultAutoIncrement},
		{name: "autoincrement call", in: ptr("autoincrement()"), want: DefaultAutoIncrement},
		{name: "serial", in: ptr("SERIAL"), want: DefaultAutoIncrement},
		{name: "uuid", in: ptr("uuid()"), want: DefaultUUID},
		{name: "gen_random_uuid", in: ptr("gen_random_uuid()"), want: DefaultUUID},
		{name: "now", in: ptr("now()"), want: DefaultNow},
		{name: "current_timestamp", in: ptr("CURRENT_TIMESTAMP"), want: DefaultNow},
		{name: "number", in: ptr("0"), want: DefaultLiteral},
		{name: "string", in: ptr("'pending'"), want: DefaultLiteral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyDefault(tt.in))
		})
	}
}

func TestUnquoteDefault(t *testing.T) {
	tests := []struct {
		in         string
		want       string
		wantQuoted bool
	}{
		{in: "'pending'", want: "pending", wantQuoted: true},
		{in: "'it''s'", want: "it's", wantQuoted: true},
		{in: `"a\"b"`, want: `a"b`, wantQuoted: true},
		{in: "42", want: "42"},
		{in: "'", want: "'"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, quoted := UnquoteDefault(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantQuoted, quoted)
		})
	}
}

func TestLiteralPredicates(t *testing.T) {
	assert.True(t, IsNumericLiteral("3.14"))
	assert.True(t, IsNumericLiteral(" -1 "))
	assert.False(t, IsNumericLiteral("abc"))
	assert.True(t, IsBoolLiteral("TRUE"))
	assert.False(t, IsBoolLiteral("yes"))
}
