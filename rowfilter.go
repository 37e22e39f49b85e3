package xlmacro

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// RowEnv is the environment a row filter expression is evaluated against.
type RowEnv struct {
	Row   int    `expr:"row"`   // 1-based sheet row number
	Col   string `expr:"col"`   // column letter of the first selected column
	Value string `expr:"value"` // cell text in the first selected column
}

// RowFilter decides which rows of a selection a macro touches. It wraps a
// boolean expr-lang expression such as `row > 1` or `value != "n/a"`.
type RowFilter struct {
	source  string
	program *vm.Program
}

// CompileRowFilter compiles a row filter. An empty expression yields a nil
// filter, which accepts every row.
func CompileRowFilter(expression string) (*RowFilter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, nil
	}
	program, err := expr.Compile(expression, expr.Env(RowEnv{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compile row filter %q: %w", expression, err)
	}
	return &RowFilter{source: expression, program: program}, nil
}

// Accept evaluates the filter for one row. A nil filter accepts everything.
func (f *RowFilter) Accept(env RowEnv) (bool, error) {
	if f == nil {
		return true, nil
	}
	out, err := expr.Run(f.program, env)
	if err != nil {
		return false, fmt.Errorf("evaluate row filter %q at row %d: %w", f.source, env.Row, err)
	}
	ok, isBool := out.(bool)
	if !isBool {
		return false, fmt.Errorf("row filter %q evaluated to %T, expected bool", f.source, out)
	}
	return ok, nil
}

// String returns the filter source.
func (f *RowFilter) String() string {
	if f == nil {
		return ""
	}
	return f.source
}
