package pdfreport

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/expr-lang/expr"

	"github.com/lvillar/pdfreport/dataprovider"
)

// exprEnv builds the environment of `if` conditions and computed
// variables: the user variables by name, the fields of the active section
// row, and every section and datalist row as a map under its id. Strings
// holding numbers are exposed as numbers.
func (r *Report) exprEnv() map[string]any {
	env := make(map[string]any)
	for _, s := range r.sectionOrder {
		if s.row != nil && isIdent(s.id) {
			env[s.id] = rowEnv(s.row)
		}
	}
	for _, l := range r.listOrder {
		if l.row != nil && isIdent(l.id) {
			env[l.id] = rowEnv(l.row)
		}
	}
	if s := r.current(); s != nil {
		for k, v := range rowEnv(s.row) {
			env[k] = v
		}
	}
	for _, k := range r.vars.Keys() {
		v, _ := r.vars.Get(k)
		env[k] = envValue(v)
		env[strings.ToLower(k)] = envValue(v)
	}
	return env
}

func rowEnv(row dataprovider.Row) map[string]any {
	m := make(map[string]any, len(row))
	for _, f := range row {
		m[f.Name] = envValue(f.Value)
	}
	return m
}

func envValue(v any) any {
	if s, ok := v.(string); ok {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return f
		}
	}
	return v
}

// evalExpr compiles and runs code against the report environment.
func (r *Report) evalExpr(code string) (any, error) {
	env := r.exprEnv()
	program, err := expr.Compile(code, expr.Env(env), expr.AllowUndefinedVariables())
	if err != nil {
		return nil, fmt.Errorf("%w: expression %q: %v", ErrInvalidTemplate, code, err)
	}
	out, err := expr.Run(program, env)
	if err != nil {
		return nil, fmt.Errorf("%w: expression %q: %v", ErrInvalidTemplate, code, err)
	}
	return out, nil
}

// condition reports whether an element's `if` attribute, after tag
// substitution, holds. A missing or empty condition holds.
func (r *Report) condition(code string) (bool, error) {
	code = strings.TrimSpace(r.Resolve(code))
	if code == "" {
		return true, nil
	}
	out, err := r.evalExpr(code)
	if err != nil {
		return false, err
	}
	return truthy(out), nil
}

func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case int:
		return x != 0
	case int64:
		return x != 0
	case float64:
		return x != 0
	case string:
		return x != "" && x != "0" && !strings.EqualFold(x, "false")
	}
	return true
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, c := range s {
		if c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (i > 0 && c >= '0' && c <= '9') {
			continue
		}
		return false
	}
	return true
}
