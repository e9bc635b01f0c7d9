package filter

import (
	"maps"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/s0up4200/nowplaying/nowplaying"
)

// exprFilter implements CompiledFilter using the expr language
type exprFilter struct {
	expression string
	program    *vm.Program
	helpers    map[string]any
}

// ExprCompilerOption configures an expr compiler
type ExprCompilerOption func(*exprCompiler)

// WithCache enables filter caching with the specified size
func WithCache(size int) ExprCompilerOption {
	return func(c *exprCompiler) {
		if size > 0 {
			c.cache = newLRUCache[string, CompiledFilter](size)
		}
	}
}

// WithCustomFunctions adds custom helper functions
func WithCustomFunctions(funcs map[string]any) ExprCompilerOption {
	return func(c *exprCompiler) {
		maps.Copy(c.helpers, funcs)
	}
}

// exprCompiler implements CachingCompiler for expr-based filters
type exprCompiler struct {
	helpers map[string]any
	cache   *lruCache[string, CompiledFilter]
}

// NewExprCompiler creates a new expr-based filter compiler
func NewExprCompiler(opts ...ExprCompilerOption) CachingCompiler {
	c := &exprCompiler{helpers: helperFunctions()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compile type-checks expression against the card environment
func (c *exprCompiler) Compile(expression string) (CompiledFilter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "empty expression",
		}
	}

	if c.cache != nil {
		if cached, ok := c.cache.Get(expression); ok {
			return cached, nil
		}
	}

	program, err := expr.Compile(expression,
		expr.Env(cardEnvironment(nowplaying.Card{}, c.helpers)),
		expr.AsBool(),
	)
	if err != nil {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "failed to compile expression",
			Err:        err,
		}
	}

	filter := &exprFilter{
		expression: expression,
		program:    program,
		helpers:    c.helpers,
	}
	if c.cache != nil {
		c.cache.Put(expression, filter)
	}
	return filter, nil
}

func (c *exprCompiler) Clear() {
	if c.cache != nil {
		c.cache.Clear()
	}
}

func (c *exprCompiler) Size() int {
	if c.cache != nil {
		return c.cache.Len()
	}
	return 0
}

// Evaluate runs the program against card
func (f *exprFilter) Evaluate(card nowplaying.Card) (bool, error) {
	result, err := expr.Run(f.program, cardEnvironment(card, f.helpers))
	if err != nil {
		return false, &EvaluationError{
			Expression: f.expression,
			CardID:     card.ID,
			CardTitle:  card.Title,
			Err:        err,
		}
	}
	// AsBool at compile time guarantees the type.
	return result.(bool), nil
}

func (f *exprFilter) Expression() string {
	return f.expression
}

// helperFunctions returns the case-insensitive string helpers. contains,
// startsWith and endsWith are expr operators, so the helpers use other names.
func helperFunctions() map[string]any {
	return map[string]any{
		"hasText": func(str, substr string) bool {
			return strings.Contains(strings.ToLower(str), strings.ToLower(substr))
		},
		"beginsWith": func(str, prefix string) bool {
			return strings.HasPrefix(strings.ToLower(str), strings.ToLower(prefix))
		},
		"finishesWith": func(str, suffix string) bool {
			return strings.HasSuffix(strings.ToLower(str), strings.ToLower(suffix))
		},
		"lower": strings.ToLower,
		"upper": strings.ToUpper,
	}
}

// cardEnvironment exposes a card and the helpers to an expression
func cardEnvironment(card nowplaying.Card, helpers map[string]any) map[string]any {
	env := make(map[string]any, len(helpers)+5)
	maps.Copy(env, helpers)

	env["Card"] = card
	env["ID"] = card.ID
	env["Title"] = card.Title
	env["ImagePath"] = card.ImagePath
	env["hasPoster"] = card.HasPoster
	return env
}
