package relations

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tordrt/schemaforge/internal/schema"
)

func entities() []schema.Entity {
	return []schema.Entity{
		{Name: "users", Fields: []schema.Field{{Name: "id", Type: "bigint", PrimaryKey: true}, {Name: "manager_id", Type: "bigint"}}},
		{Name: "profiles", Fields: []schema.Field{{Name: "id", Type: "bigint", PrimaryKey: true}, {Name: "user_id", Type: "bigint"}}},
		{Name: "orders", Fields: []schema.Field{
			{Name: "id", Type: "bigint", PrimaryKey: true},
			{Name: "user_id", Type: "bigint"},
			{Name: "reviewer_id", Type: "bigint"},
			{Name: "user", Type: "text"},
		}},
	}
}

func TestResolveDropsDanglingConnections(t *testing.T) {
	conns := []schema.Connection{
		{SourceEntity: "orders", SourceField: "user_id", TargetEntity: "users", TargetField: "id"},
		{SourceEntity: "orders", SourceField: "user_id", TargetEntity: "ghosts", TargetField: "id"},
		{SourceEntity: "ghosts", SourceField: "user_id", TargetEntity: "users", TargetField: "id"},
		{SourceEntity: "ghosts", SourceField: "x", TargetEntity: "phantoms", TargetField: "id"},
		{SourceEntity: "orders", SourceField: "missing", TargetEntity: "users", TargetField: "id"},
		{SourceEntity: "orders", SourceField: "user_id", TargetEntity: "users", TargetField: "missing"},
	}

	resolved, warnings := Resolve(entities(), conns)

	require.Len(t, resolved, 1)
	assert.Equal(t, "users", resolved[0].Target.Name)
	assert.Equal(t, "user_id", resolved[0].SourceField.Name)

	reasons := make([]string, len(warnings))
	for i, w := range warnings {
		reasons[i] = w.Reason
	}
	assert.Equal(t, []string{
		`target entity "ghosts" does not exist`,
		`source entity "ghosts" does not exist`,
		"source and target entities do not exist",
		`source field "missing" does not exist`,
		`target field "missing" does not exist`,
	}, reasons)
	assert.Equal(t, "connection orders.user_id -> ghosts.id dropped: target entity \"ghosts\" does not exist", warnings[0].String())
}

func TestResolveDoesNotModifyInput(t *testing.T) {
	ents := entities()
	conns := []schema.Connection{
		{SourceEntity: "profiles", SourceField: "user_id", TargetEntity: "users", TargetField: "id"},
		{SourceEntity: "orders", SourceField: "user_id", TargetEntity: "users", TargetField: "id"},
	}
	before := append([]schema.Connection(nil), conns...)

	Resolve(ents, conns)

	assert.Equal(t, before, conns)
	assert.Equal(t, entities(), ents)
}

func TestResolveOrdering(t *testing.T) {
	conns := []schema.Connection{
		{SourceEntity: "profiles", SourceField: "user_id", TargetEntity: "users", TargetField: "id"},
		{SourceEntity: "orders", SourceField: "user_id", TargetEntity: "users", TargetField: "id"},
		{SourceEntity: "orders", SourceField: "reviewer_id", TargetEntity: "users", TargetField: "id"},
	}

	resolved, _ := Resolve(entities(), conns)

	var got []string
	for _, r := range resolved {
		got = append(got, r.Connection.SourceEntity+"."+r.Connection.SourceField)
	}
	assert.Equal(t, []string{"orders.reviewer_id", "orders.user_id", "profiles.user_id"}, got)
}

func TestResolveRulesAndCardinality(t *testing.T) {
	conns := []schema.Connection{
		{SourceEntity: "orders", SourceField: "user_id", TargetEntity: "users", TargetField: "id", OnDelete: "cascade", OnUpdate: "bogus"},
		{SourceEntity: "profiles", SourceField: "user_id", TargetEntity: "users", TargetField: "id", Cardinality: "1:1", OnDelete: "set_null"},
	}

	resolved, warnings := Resolve(entities(), conns)

	require.Len(t, resolved, 2)
	orders, profiles := resolved[0], resolved[1]

	assert.Equal(t, ManyToOne, orders.Cardinality)
	assert.Equal(t, Cascade, orders.OnDelete)
	assert.Equal(t, Restrict, orders.OnUpdate)
	assert.True(t, orders.IsList())
	assert.Equal(t, "fk_orders_user_id", orders.ConstraintName())

	assert.Equal(t, OneToOne, profiles.Cardinality)
	assert.Equal(t, SetNull, profiles.OnDelete)
	assert.Equal(t, Restrict, profiles.OnUpdate)
	assert.False(t, profiles.IsList())

	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0].Reason, `unknown onUpdate rule "bogus"`)
}

func TestResolveNames(t *testing.T) {
	conns := []schema.Connection{
		{SourceEntity: "orders", SourceField: "user_id", TargetEntity: "users", TargetField: "id"},
		{SourceEntity: "orders", SourceField: "reviewer_id", TargetEntity: "users", TargetField: "id"},
		{SourceEntity: "profiles", SourceField: "user_id", TargetEntity: "users", TargetField: "id", Cardinality: "one-to-one"},
		{SourceEntity: "users", SourceField: "manager_id", TargetEntity: "users", TargetField: "id", Label: "management"},
	}

	resolved, warnings := Resolve(entities(), conns)
	require.Empty(t, warnings)
	require.Len(t, resolved, 4)

	byField := make(map[string]Resolved)
	for _, r := range resolved {
		byField[r.Connection.SourceEntity+"."+r.Connection.SourceField] = r
	}

	// orders already has a "user" column
	assert.Equal(t, "user2", byField["orders.user_id"].ForwardName)
	assert.Equal(t, "orders_by_user2", byField["orders.user_id"].BackrefName)
	assert.Equal(t, "orders_user_id", byField["orders.user_id"].RelationName)

	assert.Equal(t, "reviewer", byField["orders.reviewer_id"].ForwardName)
	assert.Equal(t, "orders_by_reviewer", byField["orders.reviewer_id"].BackrefName)

	assert.Equal(t, "user", byField["profiles.user_id"].ForwardName)
	assert.Equal(t, "profile", byField["profiles.user_id"].BackrefName)
	assert.Empty(t, byField["profiles.user_id"].RelationName)

	assert.Equal(t, "manager", byField["users.manager_id"].ForwardName)
	assert.Equal(t, "users", byField["users.manager_id"].BackrefName)
	assert.Equal(t, "management", byField["users.manager_id"].RelationName)
}

func TestResolveConstraintNamesAreUnique(t *testing.T) {
	conns := []schema.Connection{
		{SourceEntity: "orders", SourceField: "user_id", TargetEntity: "users", TargetField: "id"},
		{SourceEntity: "orders", SourceField: "user_id", TargetEntity: "profiles", TargetField: "id"},
		{SourceEntity: "orders", SourceField: "reviewer_id", TargetEntity: "users", TargetField: "id"},
	}

	resolved, warnings := Resolve(entities(), conns)
	require.Empty(t, warnings)
	require.Len(t, resolved, 3)

	var names []string
	for _, r := range resolved {
		names = append(names, r.ConstraintName())
	}
	assert.Equal(t, []string{"fk_orders_reviewer_id", "fk_orders_user_id", "fk_orders_user_id2"}, names)
}

func TestParseRule(t *testing.T) {
	tests := []struct {
		in   string
		want Rule
		ok   bool
	}{
		{in: "", want: Restrict, ok: true},
		{in: "cascade", want: Cascade, ok: true},
		{in: "set-null", want: SetNull, ok: true},
		{in: "SET  NULL", want: SetNull, ok: true},
		{in: "no_action", want: NoAction, ok: true},
		{in: "restrict", want: Restrict, ok: true},
		{in: "explode", want: Restrict, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseRule(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestParseCardinality(t *testing.T) {
	assert.Equal(t, OneToOne, ParseCardinality("one_to_one"))
	assert.Equal(t, OneToMany, ParseCardinality("1:N"))
	assert.Equal(t, ManyToOne, ParseCardinality("many-to-one"))
	assert.Equal(t, ManyToOne, ParseCardinality(""))
	assert.Equal(t, ManyToOne, ParseCardinality("lots"))
}

func TestIncomingOutgoing(t *testing.T) {
	conns := []schema.Connection{
		{SourceEntity: "orders", SourceField: "user_id", TargetEntity: "users", TargetField: "id"},
		{SourceEntity: "profiles", SourceField: "user_id", TargetEntity: "users", TargetField: "id"},
	}
	resolved, _ := Resolve(entities(), conns)

	assert.Len(t, Incoming(resolved, "users"), 2)
	assert.Len(t, Outgoing(resolved, "orders"), 1)
	assert.Empty(t, Outgoing(resolved, "users"))
}
