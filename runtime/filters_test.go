package runtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deicod/goliquid/values"
)

func TestBuiltinFilters(t *testing.T) {
	products := []any{
		values.Map{"title": "b", "price": 2},
		values.Map{"title": "c", "price": 3},
		values.Map{"title": "a", "price": 1},
	}

	tests := []struct {
		name     string
		template string
		ctx      map[string]any
		expected string
	}{
		// String filters
		{"append", "{{ 'a' | append: 'b' }}", nil, "ab"},
		{"append many", "{{ 'a' | append: 'b', 1 }}", nil, "ab1"},
		{"prepend", "{{ 'b' | prepend: 'a' }}", nil, "ab"},
		{"upcase", "{{ 'abc' | upcase }}", nil, "ABC"},
		{"downcase", "{{ 'ABC' | downcase }}", nil, "abc"},
		{"capitalize", "{{ 'my GREAT title' | capitalize }}", nil, "My great title"},
		{"strip", "[{{ '  a  ' | strip }}]", nil, "[a]"},
		{"lstrip", "[{{ '  a  ' | lstrip }}]", nil, "[a  ]"},
		{"rstrip", "[{{ '  a  ' | rstrip }}]", nil, "[  a]"},
		{"replace", "{{ 'aXbX' | replace: 'X', '-' }}", nil, "a-b-"},
		{"replace_first", "{{ 'aXbX' | replace_first: 'X', '-' }}", nil, "a-bX"},
		{"remove", "{{ 'aXbX' | remove: 'X' }}", nil, "ab"},
		{"split join", "{{ 'a,b,c' | split: ',' | join: '-' }}", nil, "a-b-c"},
		{"split drops trailing empties", "{{ 'a,b,,' | split: ',' | size }}", nil, "2"},
		{"split characters", "{{ 'abc' | split: '' | join: '.' }}", nil, "a.b.c"},
		{"truncate", "{{ 'Ground control to Major Tom.' | truncate: 20 }}", nil, "Ground control to..."},
		{"truncate short", "{{ 'abc' | truncate: 5 }}", nil, "abc"},
		{"truncate custom ellipsis", "{{ 'abcdef' | truncate: 4, '' }}", nil, "abcd"},
		{"escape", `{{ '<a href="x">&</a>' | escape }}`, nil, "&lt;a href=&#34;x&#34;&gt;&amp;&lt;/a&gt;"},
		{"slice string", "{{ 'Liquid' | slice: 0 }} {{ 'Liquid' | slice: 2, 5 }} {{ 'Liquid' | slice: -3, 2 }}", nil, "L quid ui"},

		// Number filters
		{"plus", "{{ 1 | plus: 2 }} {{ '1.5' | plus: 1 }}", nil, "3 2.5"},
		{"minus", "{{ 5 | minus: 2 }}", nil, "3"},
		{"times", "{{ 3 | times: 1.5 }}", nil, "4.5"},
		{"divided_by integers", "{{ 7 | divided_by: 2 }}", nil, "3"},
		{"divided_by decimals", "{{ 7.5 | divided_by: 2 }}", nil, "3.75"},
		{"modulo", "{{ 7 | modulo: 3 }} {{ -7 | modulo: 3 }}", nil, "1 2"},
		{"abs", "{{ -3 | abs }}", nil, "3"},
		{"ceil", "{{ 1.2 | ceil }}", nil, "2"},
		{"floor", "{{ 1.8 | floor }}", nil, "1"},
		{"round", "{{ 1.5 | round }} {{ 3.14159 | round: 2 }}", nil, "2 3.14"},

		// List filters
		{"size", "{{ 'hello' | size }} {{ (1..4) | size }} {{ 5 | size }}", nil, "5 4 0"},
		{"first last", "{{ (1..3) | first }}{{ (1..3) | last }}{{ 'abc' | first }}", nil, "13a"},
		{"reverse", "{{ (1..3) | reverse | join: ',' }}", nil, "3,2,1"},
		{"join default separator", "{{ (1..3) | join }}", nil, "1 2 3"},
		{"sort strings", "{{ 'c,a,b' | split: ',' | sort | join }}", nil, "a b c"},
		{"sort numbers", "{{ nums | sort | join: ',' }}", map[string]any{"nums": []int{3, 1, 2}}, "1,2,3"},
		{"sort by member", "{{ products | sort: 'price' | map: 'title' | join }}", map[string]any{"products": products}, "a b c"},
		{"uniq", "{{ 'a,b,a' | split: ',' | uniq | join: ',' }}", nil, "a,b"},
		{"map", "{{ products | map: 'price' | join: ',' }}", map[string]any{"products": products}, "2,3,1"},
		{"compact", "{{ items | compact | join: ',' }}", map[string]any{"items": []any{1, nil, 2}}, "1,2"},
		{"concat", "{{ (1..2) | concat: (3..4) | join: ',' }}", nil, "1,2,3,4"},
		{"slice array", "{{ (1..5) | slice: 1, 2 | join: ',' }}", nil, "2,3"},

		// Utility filters
		{"default missing", "{{ missing | default: 'x' }}", nil, "x"},
		{"default empty", "{{ '' | default: 'x' }}", nil, "x"},
		{"default false", "{{ false | default: 'x' }}", nil, "x"},
		{"default keeps zero", "{{ 0 | default: 'x' }}", nil, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := NewContext()
			ctx.SetErrorMode(ErrorModeFailFast)
			ctx.SetValues(tt.ctx)

			result, err := renderString(t, tt.template, ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestBuiltinFilters_Errors(t *testing.T) {
	tests := []struct {
		name     string
		template string
		message  string
	}{
		{"missing argument", "{{ 'a' | append }}", "expected 1 argument(s), got 0"},
		{"division by zero", "{{ 1 | divided_by: 0 }}", "divided by 0"},
		{"modulo by zero", "{{ 1 | modulo: 0 }}", "divided by 0"},
		{"concat non-array", "{{ (1..2) | concat: 3 }}", "expected an array argument"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := renderString(t, tt.template, nil)
			require.Error(t, err)
			assert.True(t, IsFilterError(err))
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestDefaultFilters_Fresh(t *testing.T) {
	a := DefaultFilters()
	delete(a, "upcase")

	b := DefaultFilters()
	_, ok := b["upcase"]
	assert.True(t, ok)
}
