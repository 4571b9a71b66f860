package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func evalString(t *testing.T, expr string) (Term, error) {
	t.Helper()
	m := NewMachine()
	p := NewParser(expr+".", m.Operators())
	term, err := p.Next()
	require.NoError(t, err)
	return m.eval(term, NewEnv())
}

func TestEval_Numbers(t *testing.T) {
	tests := []struct {
		expr string
		want Term
	}{
		{`1 + 2`, Integer(3)},
		{`2 + 3 * 4`, Integer(14)},
		{`(2 + 3) * 4`, Integer(20)},
		{`7 - 10`, Integer(-3)},
		{`- (3 + 4)`, Integer(-7)},
		{`+ 5`, Integer(5)},
		{`1.5 + 1`, Float(2.5)},
		{`2 * 1.5`, Float(3)},
		{`abs(-3)`, Integer(3)},
		{`abs(-3.5)`, Float(3.5)},
		{`max(2, 7)`, Integer(7)},
		{`min(2, 7.5)`, Integer(2)},
		{`2 ** 10`, Integer(1024)},
		{`2 ** 0.5`, Float(1.4142135623730951)},

		// Integer division stays integer; / is integer only when exact.
		{`15 / 3`, Integer(5)},
		{`7 / 2`, Float(3.5)},
		{`7 / 2.0`, Float(3.5)},
		{`7 // 2`, Integer(3)},
		{`-7 // 2`, Integer(-4)},

		// mod takes the sign of the divisor.
		{`7 mod 2`, Integer(1)},
		{`-7 mod 2`, Integer(1)},
		{`7 mod -2`, Integer(-1)},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			v, err := evalString(t, tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.want, v)
		})
	}
}

func TestEval_Errors(t *testing.T) {
	t.Run("zero divisor", func(t *testing.T) {
		for _, expr := range []string{`1 / 0`, `1 // 0`, `1 mod 0`, `1.5 / 0.0`} {
			_, err := evalString(t, expr)
			var e *EvaluationError
			require.ErrorAs(t, err, &e, expr)
			assert.Equal(t, "zero_divisor", e.What)
		}
	})

	t.Run("unbound variable", func(t *testing.T) {
		_, err := evalString(t, `X + 1`)
		assert.Equal(t, ErrInstantiation, err)
	})

	t.Run("non-evaluable term", func(t *testing.T) {
		_, err := evalString(t, `foo + 1`)
		var e *TypeError
		require.ErrorAs(t, err, &e)
		assert.Equal(t, "evaluable", e.ValidType)
	})

	t.Run("unknown function", func(t *testing.T) {
		_, err := evalString(t, `foo(1, 2)`)
		var e *TypeError
		require.ErrorAs(t, err, &e)
	})

	t.Run("float argument to integer division", func(t *testing.T) {
		_, err := evalString(t, `7.5 // 2`)
		var e *TypeError
		require.ErrorAs(t, err, &e)
	})
}
