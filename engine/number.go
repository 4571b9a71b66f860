package engine

import (
	"strconv"
	"strings"

	"github.com/cockroachdb/apd"
)

// Integer is a prolog integer.
type Integer int64

func (i Integer) String() string {
	return strconv.FormatInt(int64(i), 10)
}

// Unify unifies the integer with t.
func (i Integer) Unify(t Term, occursCheck bool, env *Env) bool {
	switch t := env.Resolve(t).(type) {
	case Integer:
		return i == t
	case Variable:
		return t.Unify(i, occursCheck, env)
	default:
		return false
	}
}

// Float is a prolog floating-point number.
type Float float64

func (f Float) String() string {
	s := strconv.FormatFloat(float64(f), 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// Unify unifies the float with t.
func (f Float) Unify(t Term, occursCheck bool, env *Env) bool {
	switch t := env.Resolve(t).(type) {
	case Float:
		return f == t
	case Variable:
		return t.Unify(f, occursCheck, env)
	default:
		return false
	}
}

// ParseNumber converts the text of a numeric literal. An integer
// literal yields an Integer when it fits in 64 bits and falls back to a
// Float when it does not; a literal with a fractional or exponent part
// is always a Float.
func ParseNumber(s string) (Term, error) {
	if !strings.ContainsAny(s, ".eE") {
		d, _, err := apd.NewFromString(s)
		if err != nil {
			return nil, err
		}
		if i, err := d.Int64(); err == nil {
			return Integer(i), nil
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return Float(f), nil
}
