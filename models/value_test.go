package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRowMarshalKeepsColumnOrder(t *testing.T) {
	row := NewRow(7)
	row.Set("zeta", Integer(1))
	row.Set("alpha", Float(2.5))
	row.Set("ok", Bool(true))
	row.Set("when", Date("2023-01-02"))
	row.Set("none", Null())
	row.Set("meta", Nested(json.RawMessage(`{"a":[1,2]}`)))
	row.Set("name", Text(`say "hi"`))

	out, err := json.Marshal(row)
	require.NoError(t, err)
	assert.Equal(t, `{"zeta":1,"alpha":2.5,"ok":true,"when":"2023-01-02","none":null,"meta":{"a":[1,2]},"name":"say \"hi\""}`, string(out))
}

func TestRowSetReplaces(t *testing.T) {
	row := NewRow(2)
	row.Set("a", Integer(1))
	row.Set("b", Integer(2))
	row.Set("a", Text("x"))

	assert.Equal(t, []string{"a", "b"}, row.Columns)
	v, ok := row.Get("a")
	require.True(t, ok)
	assert.Equal(t, Text("x"), v)

	_, ok = row.Get("missing")
	assert.False(t, ok)
}

func TestSchemaMarshal(t *testing.T) {
	s := Schema{{Name: "name", Type: TypeText}, {Name: "age", Type: TypeInteger}}
	out, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Equal(t, `{"name":"text","age":"integer"}`, string(out))

	typ, ok := s.TypeOf("age")
	assert.True(t, ok)
	assert.Equal(t, TypeInteger, typ)
}

func TestValueString(t *testing.T) {
	tests := []struct {
		v    Value
		want string
	}{
		{Null(), ""},
		{Integer(-4), "-4"},
		{Float(0.25), "0.25"},
		{Bool(false), "false"},
		{Text("hello"), "hello"},
		{Date("01/02/2023"), "01/02/2023"},
		{Nested(json.RawMessage(`[1]`)), "[1]"},
	}
	for _, tt := range tests {
		t.Run(tt.v.Kind.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.v.String())
		})
	}
}

func TestChatMessageWireNames(t *testing.T) {
	q := "SELECT 1"
	msg := ChatMessage{
		ID:             3,
		DatasetID:      1,
		Role:           RoleSystem,
		Content:        "done",
		GeneratedQuery: &q,
		ResultRows:     []Row{},
		ChartSpec:      &ChartSpec{Kind: DefaultChartKind, Rows: []Row{}},
	}
	out, err := json.Marshal(msg)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, "SELECT 1", decoded["sql"])
	assert.Equal(t, []any{}, decoded["resultData"])
	assert.Equal(t, map[string]any{"type": "bar", "data": []any{}}, decoded["chartData"])
}
