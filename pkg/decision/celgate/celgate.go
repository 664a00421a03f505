// Package celgate implements an optional operator-authored CEL expression
// that can force a scored pair to REVIEW, on top of the built-in safety
// gates in pkg/decision. It is the rebuilt, domain-scoped home for the
// teacher's deleted pkg/governance, which used google/cel-go for
// policy-expression evaluation in a different (multi-tenant authorization)
// context; the library and the "compile once, evaluate many" shape carry
// over unchanged.
package celgate

import (
	"fmt"

	"github.com/google/cel-go/cel"

	"github.com/srdedupe/srdedupe/pkg/model"
)

// Gate wraps a compiled boolean CEL program over a pair's score and
// comparison levels, e.g.:
//
//	p_match > 0.5 && doi_level == "both_present_mismatch"
type Gate struct {
	program cel.Program
}

func declarations() []cel.EnvOption {
	return []cel.EnvOption{
		cel.Variable("p_match", cel.DoubleType),
		cel.Variable("llr", cel.DoubleType),
		cel.Variable("doi_level", cel.StringType),
		cel.Variable("pmid_level", cel.StringType),
		cel.Variable("title_level", cel.StringType),
		cel.Variable("authors_level", cel.StringType),
		cel.Variable("year_level", cel.StringType),
		cel.Variable("journal_level", cel.StringType),
		cel.Variable("pages_level", cel.StringType),
	}
}

// Compile parses and type-checks expr as a boolean CEL expression.
func Compile(expr string) (*Gate, error) {
	env, err := cel.NewEnv(declarations()...)
	if err != nil {
		return nil, fmt.Errorf("celgate: new env: %w", err)
	}
	ast, iss := env.Compile(expr)
	if iss != nil && iss.Err() != nil {
		return nil, fmt.Errorf("celgate: compile %q: %w", expr, iss.Err())
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("celgate: program %q: %w", expr, err)
	}
	return &Gate{program: prg}, nil
}

func levelOf(score model.PairScore, field string) string {
	for _, c := range score.Comparison {
		if c.Field == field {
			return c.Level
		}
	}
	return "missing"
}

// Evaluate runs the compiled expression against score's fields. Returns
// true if the gate fires and the pair should be forced to REVIEW.
func (g *Gate) Evaluate(score model.PairScore) (bool, error) {
	out, _, err := g.program.Eval(map[string]interface{}{
		"p_match":       score.PMatch,
		"llr":           score.LLR,
		"doi_level":     levelOf(score, "doi"),
		"pmid_level":    levelOf(score, "pmid"),
		"title_level":   levelOf(score, "title"),
		"authors_level": levelOf(score, "authors"),
		"year_level":    levelOf(score, "year"),
		"journal_level": levelOf(score, "journal"),
		"pages_level":   levelOf(score, "pages"),
	})
	if err != nil {
		return false, fmt.Errorf("celgate: eval: %w", err)
	}
	b, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("celgate: expression must evaluate to bool, got %T", out.Value())
	}
	return b, nil
}
