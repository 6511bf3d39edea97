package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeType(t *testing.T) {
	tests := []struct {
		native string
		enum   []string
		want   string
	}{
		{native: "character varying(100)", want: "varchar(100)"},
		{native: "VARCHAR(50)", want: "varchar(50)"},
		{native: "char(36)", want: "varchar(36)"},
		{native: "varchar", want: "varchar"},
		{native: "longtext", want: "text"},
		{native: "tinyint(1)", want: "boolean"},
		{native: "tinyint(4)", want: "int"},
		{native: "int unsigned", want: "int"},
		{native: "int(10) unsigned zerofill", want: "int"},
		{native: "INTEGER", want: "int"},
		{native: "bigserial", want: "bigint"},
		{native: "bigint(20) unsigned", want: "bigint"},
		{native: "numeric(10, 2)", want: "decimal(10,2)"},
		{native: "double precision", want: "decimal"},
		{native: "bool", want: "boolean"},
		{native: "timestamp with time zone", want: "timestamp"},
		{native: "datetime", want: "timestamp"},
		{native: "date", want: "date"},
		{native: "json", want: "jsonb"},
		{native: "uuid", want: "uuid"},
		{native: "Geometry", want: "geometry"},
		{native: "text[]", want: "text[]"},
		{native: "user_status", enum: []string{"active", "banned"}, want: "enum('active','banned')"},
	}

	for _, tt := range tests {
		t.Run(tt.native, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeType(tt.native, tt.enum))
		})
	}
}

func TestNormalizeDefault(t *testing.T) {
	ptr := func(s string) *string { return &s }

	tests := []struct {
		name string
		in   *string
		want *string
	}{
		{name: "nil", in: nil, want: nil},
		{name: "empty", in: ptr(""), want: nil},
		{name: "null", in: ptr("NULL"), want: nil},
		{name: "null cast", in: ptr("NULL::character varying"), want: nil},
		{name: "sequence", in: ptr("nextval('users_id_seq'::regclass)"), want: ptr("autoincrement")},
		{name: "gen_random_uuid", in: ptr("gen_random_uuid()"), want: ptr("uuid")},
		{name: "mysql uuid", in: ptr("(uuid())"), want: ptr("uuid")},
		{name: "now", in: ptr("now()"), want: ptr("now")},
		{name: "current_timestamp", in: ptr("CURRENT_TIMESTAMP"), want: ptr("now")},
		{name: "current_timestamp precision", in: ptr("current_timestamp(6)"), want: ptr("now")},
		{name: "sqlite datetime", in: ptr("datetime('now')"), want: ptr("now")},
		{name: "cast", in: ptr("'active'::character varying"), want: ptr("'active'")},
		{name: "cast with colons in value", in: ptr("'a::b'::text"), want: ptr("'a::b'")},
		{name: "sqlite parentheses", in: ptr("((0))"), want: ptr("0")},
		{name: "number", in: ptr("42"), want: ptr("42")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeDefault(tt.in))
		})
	}
}
