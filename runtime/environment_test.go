package runtime

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deicod/goliquid/lexer"
	"github.com/deicod/goliquid/parser"
	"github.com/deicod/goliquid/values"
)

func TestEnvironment_Filters(t *testing.T) {
	env := NewEnvironment()
	env.AddFilter("shout", func(input values.Value, _ []values.Value) (values.Value, error) {
		return values.String(strings.ToUpper(values.ToString(input)) + "!"), nil
	})

	result, err := env.ExecuteToString("{{ name | shout }}", map[string]any{"name": "hey"})
	require.NoError(t, err)
	assert.Equal(t, "HEY!", result)

	// contexts get their own copy of the registry
	ctx := env.NewContext()
	ctx.ClearFilters()
	_, ok := env.GetFilter("shout")
	assert.True(t, ok)
}

func TestEnvironment_Delimiters(t *testing.T) {
	env := NewEnvironment()
	env.SetDelimiters(lexer.Delimiters{
		BlockStart:    "<%",
		BlockEnd:      "%>",
		VariableStart: "<<",
		VariableEnd:   ">>",
	})
	assert.Equal(t, "<%", env.LexerConfig().Delimiters.BlockStart)

	tmpl, err := env.ParseString("<% for i in (1..2) %><< i >>{{ i }}<% endfor %>", "custom")
	require.NoError(t, err)
	assert.Equal(t, "custom", tmpl.Name())

	result, err := tmpl.Render(env.NewContext())
	require.NoError(t, err)
	assert.Equal(t, "1{{ i }}2{{ i }}", result)
}

func TestEnvironment_TrimBlocks(t *testing.T) {
	env := NewEnvironment()
	env.SetTrimBlocks(true)

	result, err := env.ExecuteToString("{% for i in (1..2) %}\n{{ i }}\n{% endfor %}\n", nil)
	require.NoError(t, err)
	assert.Equal(t, "1\n2\n", result)
}

func TestEnvironment_ErrorMode(t *testing.T) {
	env := NewEnvironment()
	env.SetErrorMode(ErrorModeFailFast)
	env.SetLogger(nil)

	ctx := env.NewContext()
	assert.Equal(t, ErrorModeFailFast, ctx.ErrorMode())
	assert.NotNil(t, ctx.Logger())

	tmpl, err := env.ParseString("a{{ 1 | nope }}b", "")
	require.NoError(t, err)
	result, err := tmpl.Render(ctx)
	assert.Equal(t, "a", result)
	assert.True(t, IsUnknownFilter(err))
}

func TestEnvironment_TryParseString(t *testing.T) {
	env := NewEnvironment()

	tmpl, diagnostics, ok := env.TryParseString("a{{ }}b", "warn")
	require.True(t, ok)
	require.NotNil(t, tmpl)
	require.Len(t, diagnostics, 1)
	assert.Equal(t, parser.SeverityWarning, diagnostics[0].Severity)

	tmpl, diagnostics, ok = env.TryParseString("{% for %}", "broken")
	assert.False(t, ok)
	assert.Nil(t, tmpl)
	assert.NotEmpty(t, diagnostics)

	_, err := env.ParseString("{% for %}", "broken")
	var parseErr *parser.ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, "broken", parseErr.Name)
}

func TestTemplateStream(t *testing.T) {
	tmpl, err := ParseString("{% for i in (1..3) %}<{{ i }}>{% endfor %}")
	require.NoError(t, err)

	stream := tmpl.Stream(NewContext())
	var chunks []string
	for {
		chunk, err := stream.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		chunks = append(chunks, chunk)
	}
	assert.Equal(t, "<1><2><3>", strings.Join(chunks, ""))
	assert.Greater(t, len(chunks), 1)
}

func TestTemplateStream_Collect(t *testing.T) {
	tmpl, err := ParseString("a{{ 1 | nope }}b")
	require.NoError(t, err)

	ctx := NewContext()
	ctx.SetErrorMode(ErrorModeFailFast)
	result, err := tmpl.Stream(ctx).Collect()
	assert.Equal(t, "a", result)
	assert.True(t, IsUnknownFilter(err))

	result, err = tmpl.Stream(NewContext()).Collect()
	assert.Equal(t, "ab", result)
	assert.True(t, IsUnknownFilter(err))
}
