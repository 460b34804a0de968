package factory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBuildArgs_SplitsTraitsAndOverrides(t *testing.T) {
	t.Parallel()

	req, err := ParseBuildArgs("user", "admin", nil, "", []string{"funny", "tall"}, map[string]any{"age": 3})
	require.NoError(t, err)

	assert.Equal(t, "user", req.Name)
	assert.Equal(t, []string{"admin", "funny", "tall"}, req.Traits)
	assert.Equal(t, Attrs{"age": 3}, req.Overrides)
}

func TestParseBuildArgs_NoArgs(t *testing.T) {
	t.Parallel()

	req, err := ParseBuildArgs("user")
	require.NoError(t, err)

	assert.Nil(t, req.Traits)
	assert.Nil(t, req.Overrides)
}

func TestParseListArgs_CountForm(t *testing.T) {
	t.Parallel()

	req, err := ParseListArgs("user", 3, "admin", Attrs{"age": 3})
	require.NoError(t, err)

	assert.Equal(t, 3, req.Count)
	assert.Nil(t, req.Items)
	items := req.items()
	require.Len(t, items, 3)
	for _, item := range items {
		assert.Equal(t, []string{"admin"}, item.Traits)
		assert.Equal(t, Attrs{"age": 3}, item.Overrides)
	}
}

func TestParseListArgs_ItemForm(t *testing.T) {
	t.Parallel()

	req, err := ParseListArgs("user", "admin", Attrs{"name": "Bo"}, []any{"tall", "funny", Attrs{"age": 9}}, nil)
	require.NoError(t, err)

	assert.Equal(t, []Item{
		{Traits: []string{"admin"}},
		{Overrides: Attrs{"name": "Bo"}},
		{Traits: []string{"tall", "funny"}, Overrides: Attrs{"age": 9}},
		{},
	}, req.Items)
	assert.Equal(t, 4, req.Count)
}

func TestParseListArgs_InvalidItem(t *testing.T) {
	t.Parallel()

	_, err := ParseListArgs("user", "admin", 3.5)

	assert.ErrorIs(t, err, ErrInvalidArguments)
	assert.Contains(t, err.Error(), "item 1")
}

func TestToMany_NegativeCount_FailsAtResolution(t *testing.T) {
	t.Parallel()
	reg := NewRegistry()
	require.NoError(t, reg.Define("user", Config{
		Default: Attrs{"projects": ToMany("project", -2)},
	}))
	require.NoError(t, reg.Define("project", Config{}))

	def, ok := reg.Lookup("user")
	require.True(t, ok)
	_, err := def.Build("user", nil)

	assert.ErrorIs(t, err, ErrInvalidArguments)
}

func TestToOne_InvalidArgs_FailsAtResolution(t *testing.T) {
	t.Parallel()
	reg := NewRegistry()
	require.NoError(t, reg.Define("project", Config{
		Default: Attrs{"user": ToOne("user", Attrs{"a": 1}, "late")},
	}))
	require.NoError(t, reg.Define("user", Config{}))

	def, _ := reg.Lookup("project")
	_, err := def.Build("project", nil)

	assert.ErrorIs(t, err, ErrInvalidArguments)
}

func TestCloneValue_DeepCopiesNestedShapes(t *testing.T) {
	t.Parallel()
	src := Fixture{
		"list":  []Fixture{{"a": 1}},
		"maps":  []map[string]any{{"b": 2}},
		"attrs": Attrs{"c": []string{"x"}},
		"ints":  []int{1, 2},
	}

	out := cloneValue(src).(Fixture)
	out["list"].([]Fixture)[0]["a"] = 9
	out["maps"].([]map[string]any)[0]["b"] = 9
	out["attrs"].(Attrs)["c"].([]string)[0] = "y"
	out["ints"].([]int)[0] = 9

	assert.Equal(t, Fixture{
		"list":  []Fixture{{"a": 1}},
		"maps":  []map[string]any{{"b": 2}},
		"attrs": Attrs{"c": []string{"x"}},
		"ints":  []int{1, 2},
	}, src)
}
