package runtime

import (
	"log/slog"
	"maps"

	"github.com/deicod/goliquid/lexer"
	"github.com/deicod/goliquid/parser"
)

// Environment holds configuration shared by many templates and renders:
// lexer settings, filters registered on every new context, the error mode
// and the logger. Configure it before use; it is safe for concurrent use
// once configuration is done.
type Environment struct {
	lexerConfig lexer.LexerConfig
	filters     map[string]FilterFunc
	errorMode   ErrorMode
	logger      *slog.Logger
}

// NewEnvironment creates an environment with default delimiters and the
// built-in filters.
func NewEnvironment() *Environment {
	return &Environment{
		lexerConfig: lexer.DefaultLexerConfig(),
		filters:     DefaultFilters(),
		logger:      slog.New(slog.DiscardHandler),
	}
}

// SetDelimiters replaces the tag delimiters used when parsing.
func (env *Environment) SetDelimiters(delims lexer.Delimiters) {
	env.lexerConfig.Delimiters = delims
}

// SetTrimBlocks removes the first newline after a block tag when enabled.
func (env *Environment) SetTrimBlocks(trim bool) {
	env.lexerConfig.TrimBlocks = trim
}

// LexerConfig returns the lexer settings used when parsing.
func (env *Environment) LexerConfig() lexer.LexerConfig {
	return env.lexerConfig
}

// AddFilter registers a filter on every context created afterwards.
func (env *Environment) AddFilter(name string, filter FilterFunc) {
	env.filters[name] = filter
}

// GetFilter looks up a filter registered on the environment.
func (env *Environment) GetFilter(name string) (FilterFunc, bool) {
	filter, ok := env.filters[name]
	return filter, ok
}

// SetErrorMode sets the error mode of new contexts.
func (env *Environment) SetErrorMode(mode ErrorMode) {
	env.errorMode = mode
}

// SetLogger sets the logger of new contexts. A nil logger discards.
func (env *Environment) SetLogger(logger *slog.Logger) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	env.logger = logger
}

// NewContext creates a context carrying the environment's filters, error
// mode and logger.
func (env *Environment) NewContext() *Context {
	ctx := NewContext()
	ctx.filters = maps.Clone(env.filters)
	ctx.errorMode = env.errorMode
	ctx.logger = env.logger
	return ctx
}

// ParseString parses a template string using this environment
func (env *Environment) ParseString(templateString, name string) (*Template, error) {
	return ParseStringWithOptions(templateString, env.parserOptions(name))
}

// TryParseString parses a template string using this environment and
// reports every diagnostic.
func (env *Environment) TryParseString(templateString, name string) (*Template, []parser.Diagnostic, bool) {
	return TryParseString(templateString, env.parserOptions(name))
}

// ExecuteToString parses and renders a template string with vars bound in
// the root scope.
func (env *Environment) ExecuteToString(templateString string, vars map[string]any) (string, error) {
	template, err := env.ParseString(templateString, "")
	if err != nil {
		return "", err
	}
	ctx := env.NewContext()
	ctx.SetValues(vars)
	return template.Render(ctx)
}

func (env *Environment) parserOptions(name string) parser.Options {
	return parser.Options{Lexer: env.lexerConfig, Name: name}
}
