package engine

import "math"

// Is evaluates expr as an arithmetic expression and unifies result with
// the value.
func Is(m *Machine, result, expr Term, env *Env, k Cont) *Promise {
	v, err := m.eval(expr, env)
	if err != nil {
		return Error(err)
	}
	return Unify(m, result, v, env, k)
}

func arithPredicate(ok func(int) bool) func(*Machine, Term, Term, *Env, Cont) *Promise {
	return func(m *Machine, lhs, rhs Term, env *Env, k Cont) *Promise {
		l, err := m.eval(lhs, env)
		if err != nil {
			return Error(err)
		}
		r, err := m.eval(rhs, env)
		if err != nil {
			return Error(err)
		}
		if !ok(compareValues(l, r)) {
			return Bool(false)
		}
		return k()
	}
}

// compareValues compares two evaluated numbers by value only, so that
// 1 =:= 1.0 holds.
func compareValues(a, b Term) int {
	av, _ := numberValue(a)
	bv, _ := numberValue(b)
	switch {
	case av < bv:
		return -1
	case av > bv:
		return 1
	default:
		return 0
	}
}

// eval recursively reduces an arithmetic expression term to an Integer
// or a Float.
func (m *Machine) eval(expr Term, env *Env) (Term, error) {
	switch t := env.Resolve(expr).(type) {
	case Variable:
		return nil, ErrInstantiation
	case Integer, Float:
		return t, nil
	case Atom:
		return nil, &TypeError{ValidType: "evaluable", Culprit: t.Apply(Integer(0))}
	case *Compound:
		switch len(t.Args) {
		case 1:
			f, ok := unaryFunctions[t.Functor]
			if !ok {
				break
			}
			x, err := m.eval(t.Args[0], env)
			if err != nil {
				return nil, err
			}
			return f(x)
		case 2:
			f, ok := binaryFunctions[t.Functor]
			if !ok {
				break
			}
			x, err := m.eval(t.Args[0], env)
			if err != nil {
				return nil, err
			}
			y, err := m.eval(t.Args[1], env)
			if err != nil {
				return nil, err
			}
			return f(x, y)
		}
		return nil, &TypeError{ValidType: "evaluable", Culprit: &Compound{
			Functor: "/",
			Args:    []Term{t.Functor, Integer(len(t.Args))},
		}}
	default:
		return nil, &TypeError{ValidType: "evaluable", Culprit: t}
	}
}

var unaryFunctions = map[Atom]func(Term) (Term, error){
	"+":   pos,
	"-":   neg,
	"abs": absFn,
}

var binaryFunctions = map[Atom]func(Term, Term) (Term, error){
	"+":   add,
	"-":   sub,
	"*":   mul,
	"/":   quo,
	"//":  intDiv,
	"mod": modFn,
	"**":  pow,
	"max": maxFn,
	"min": minFn,
}

func pos(x Term) (Term, error) {
	switch x := x.(type) {
	case Integer, Float:
		return x, nil
	default:
		return nil, &TypeError{ValidType: "number", Culprit: x}
	}
}

func neg(x Term) (Term, error) {
	switch x := x.(type) {
	case Integer:
		return -x, nil
	case Float:
		return -x, nil
	default:
		return nil, &TypeError{ValidType: "number", Culprit: x}
	}
}

func absFn(x Term) (Term, error) {
	switch x := x.(type) {
	case Integer:
		if x < 0 {
			return -x, nil
		}
		return x, nil
	case Float:
		return Float(math.Abs(float64(x))), nil
	default:
		return nil, &TypeError{ValidType: "number", Culprit: x}
	}
}

// binaryNumber applies the integer op when both operands are integers
// and the float op otherwise.
func binaryNumber(i func(int64, int64) int64, f func(float64, float64) float64) func(Term, Term) (Term, error) {
	return func(x, y Term) (Term, error) {
		switch x := x.(type) {
		case Integer:
			switch y := y.(type) {
			case Integer:
				return Integer(i(int64(x), int64(y))), nil
			case Float:
				return Float(f(float64(x), float64(y))), nil
			}
		case Float:
			switch y := y.(type) {
			case Integer:
				return Float(f(float64(x), float64(y))), nil
			case Float:
				return Float(f(float64(x), float64(y))), nil
			}
		}
		return nil, &TypeError{ValidType: "number", Culprit: nonNumber(x, y)}
	}
}

var (
	add = binaryNumber(func(a, b int64) int64 { return a + b }, func(a, b float64) float64 { return a + b })
	sub = binaryNumber(func(a, b int64) int64 { return a - b }, func(a, b float64) float64 { return a - b })
	mul = binaryNumber(func(a, b int64) int64 { return a * b }, func(a, b float64) float64 { return a * b })
)

// quo yields an Integer when both operands are integers and the
// division is exact, a Float otherwise.
func quo(x, y Term) (Term, error) {
	a, aInt := numberOperand(x)
	b, bInt := numberOperand(y)
	if a == nil || b == nil {
		return nil, &TypeError{ValidType: "number", Culprit: nonNumber(x, y)}
	}
	if aInt && bInt {
		n, d := int64(a.(Integer)), int64(b.(Integer))
		if d == 0 {
			return nil, &EvaluationError{What: "zero_divisor"}
		}
		if n%d == 0 {
			return Integer(n / d), nil
		}
		return Float(float64(n) / float64(d)), nil
	}
	fa, _ := numberValue(a)
	fb, _ := numberValue(b)
	if fb == 0 {
		return nil, &EvaluationError{What: "zero_divisor"}
	}
	return Float(fa / fb), nil
}

// intDiv is floor division over integers.
func intDiv(x, y Term) (Term, error) {
	a, ok1 := x.(Integer)
	b, ok2 := y.(Integer)
	if !ok1 || !ok2 {
		return nil, &TypeError{ValidType: "integer", Culprit: nonNumber(x, y)}
	}
	if b == 0 {
		return nil, &EvaluationError{What: "zero_divisor"}
	}
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q, nil
}

// modFn takes the sign of the divisor.
func modFn(x, y Term) (Term, error) {
	a, ok1 := x.(Integer)
	b, ok2 := y.(Integer)
	if !ok1 || !ok2 {
		return nil, &TypeError{ValidType: "integer", Culprit: nonNumber(x, y)}
	}
	if b == 0 {
		return nil, &EvaluationError{What: "zero_divisor"}
	}
	r := a % b
	if r != 0 && (r < 0) != (b < 0) {
		r += b
	}
	return r, nil
}

// pow stays integer for an integer base and non-negative integer
// exponent; otherwise the result is a float.
func pow(x, y Term) (Term, error) {
	if a, ok := x.(Integer); ok {
		if b, ok := y.(Integer); ok && b >= 0 {
			r := Integer(1)
			for i := Integer(0); i < b; i++ {
				r *= a
			}
			return r, nil
		}
	}
	fa, aok := floatOperand(x)
	fb, bok := floatOperand(y)
	if !aok || !bok {
		return nil, &TypeError{ValidType: "number", Culprit: nonNumber(x, y)}
	}
	return Float(math.Pow(fa, fb)), nil
}

func maxFn(x, y Term) (Term, error) {
	if err := checkNumbers(x, y); err != nil {
		return nil, err
	}
	if compareNumbers(x, y) >= 0 {
		return x, nil
	}
	return y, nil
}

func minFn(x, y Term) (Term, error) {
	if err := checkNumbers(x, y); err != nil {
		return nil, err
	}
	if compareNumbers(x, y) <= 0 {
		return x, nil
	}
	return y, nil
}

func numberOperand(t Term) (Term, bool) {
	switch t.(type) {
	case Integer:
		return t, true
	case Float:
		return t, false
	default:
		return nil, false
	}
}

func floatOperand(t Term) (float64, bool) {
	switch t := t.(type) {
	case Integer:
		return float64(t), true
	case Float:
		return float64(t), true
	default:
		return 0, false
	}
}

func checkNumbers(ts ...Term) error {
	for _, t := range ts {
		if _, ok := floatOperand(t); !ok {
			return &TypeError{ValidType: "number", Culprit: t}
		}
	}
	return nil
}

func nonNumber(ts ...Term) Term {
	for _, t := range ts {
		if _, ok := floatOperand(t); !ok {
			return t
		}
	}
	return ts[0]
}
