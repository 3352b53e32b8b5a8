package ast

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentString(t *testing.T) {
	assert.Equal(t, "host", NewIdent("host").String())
	assert.Equal(t, `"a""b"`, Ident{Value: `a"b`, Quote: '"'}.String())
	assert.Equal(t, "`ts`", Ident{Value: "ts", Quote: '`'}.String())
	assert.Equal(t, "[x]", Ident{Value: "x", Quote: '['}.String())
	assert.Equal(t, "db.t", ObjectName{NewIdent("db"), NewIdent("t")}.String())
}

func TestTimeIndexWireForm(t *testing.T) {
	ti := &TimeIndex{Column: Ident{Value: "ts", Quote: '"'}}

	u := ti.AsUnique()
	require.NotNil(t, u.Name)
	assert.Equal(t, TimeIndexName, u.Name.Value)
	assert.False(t, u.IsPrimary)
	assert.Equal(t, []Ident{NewIdent("ts")}, u.Columns)

	data, err := json.Marshal(ti)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"unique","name":"__time_index","columns":[{"value":"ts"}],"is_primary":false}`, string(data))

	back, err := UnmarshalConstraint(data)
	require.NoError(t, err)
	assert.Equal(t, &TimeIndex{Column: NewIdent("ts")}, back)
}

func TestUniqueWireForm(t *testing.T) {
	name := NewIdent("pk")
	u := &Unique{Name: &name, Columns: []Ident{NewIdent("host")}, IsPrimary: true}
	assert.Equal(t, "CONSTRAINT pk PRIMARY KEY (host)", u.String())

	data, err := json.Marshal(u)
	require.NoError(t, err)
	back, err := UnmarshalConstraint(data)
	require.NoError(t, err)
	assert.Equal(t, u, back)

	_, err = UnmarshalConstraint([]byte(`{"type":"check"}`))
	assert.Error(t, err)
}

func TestConstraintFromUnique(t *testing.T) {
	name := NewIdent(TimeIndexName)
	primary := &Unique{Name: &name, Columns: []Ident{NewIdent("ts")}, IsPrimary: true}
	assert.Same(t, primary, ConstraintFromUnique(primary), "a primary key never becomes a time index")

	two := &Unique{Name: &name, Columns: []Ident{NewIdent("a"), NewIdent("b")}}
	assert.Same(t, two, ConstraintFromUnique(two))
}

func TestTag(t *testing.T) {
	db := &CreateDatabase{Name: ObjectName{NewIdent("test")}}
	data, err := json.Marshal(Tag(db))
	require.NoError(t, err)
	assert.JSONEq(t, `{"create_database":{"name":[{"value":"test"}]}}`, string(data))
}
