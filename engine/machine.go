package engine

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// ProcedureIndicator identifies a predicate by name and arity.
type ProcedureIndicator struct {
	Name  Atom
	Arity int
}

func (pi ProcedureIndicator) String() string {
	return fmt.Sprintf("%s/%d", string(pi.Name), pi.Arity)
}

// Apply returns a goal term calling pi with args.
func (pi ProcedureIndicator) Apply(args ...Term) Term {
	return pi.Name.Apply(args...)
}

// Cont is a continuation invoked on success of a goal. Returning
// Bool(false) from it asks the engine to backtrack into the goal.
type Cont func() *Promise

type procedure interface {
	call(m *Machine, goal Term, env *Env, k Cont) *Promise
}

// UnknownAction is what the machine does with a call to an undefined
// predicate.
type UnknownAction byte

const (
	// UnknownFail fails the goal silently.
	UnknownFail UnknownAction = iota
	// UnknownWarn logs a warning, then fails.
	UnknownWarn
	// UnknownError aborts the goal with an ExistenceError.
	UnknownError
)

// Machine is the resolution engine: the clause database plus the
// built-in predicates, the operator table and the I/O streams. The
// machine is single-threaded; one query runs at a time and owns the
// trail for its duration.
type Machine struct {
	operators  Operators
	procedures map[ProcedureIndicator]procedure
	userOrder  []ProcedureIndicator

	occursCheck bool
	unknown     UnknownAction

	input  *bufio.Reader
	output io.Writer
}

// Option configures a Machine.
type Option func(*Machine)

// WithOccursCheck makes unification fail when a variable would be bound
// to a term containing itself.
func WithOccursCheck(enabled bool) Option {
	return func(m *Machine) { m.occursCheck = enabled }
}

// WithUnknown sets the action taken on calls to undefined predicates.
func WithUnknown(a UnknownAction) Option {
	return func(m *Machine) { m.unknown = a }
}

// WithIO sets the streams used by the I/O built-ins.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(m *Machine) {
		m.input = bufio.NewReader(in)
		m.output = out
	}
}

// NewMachine returns a machine with the default operator table and the
// built-in predicates registered.
func NewMachine(opts ...Option) *Machine {
	m := Machine{
		operators:  append(Operators(nil), DefaultOperators...),
		procedures: map[ProcedureIndicator]procedure{},
		input:      bufio.NewReader(os.Stdin),
		output:     os.Stdout,
	}
	for _, o := range opts {
		o(&m)
	}
	m.registerBuiltins()
	return &m
}

// Operators returns the machine's operator table.
func (m *Machine) Operators() Operators {
	return m.operators
}

// SetInput redirects the input stream used by get_char/1.
func (m *Machine) SetInput(r io.Reader) {
	m.input = bufio.NewReader(r)
}

// SetOutput redirects the output stream used by write/1, nl/0, tab/1
// and put_char/1.
func (m *Machine) SetOutput(w io.Writer) {
	m.output = w
}

// Solve enumerates proofs of goal. k is invoked in the environment of
// each solution; forcing the returned promise drives the search.
func (m *Machine) Solve(goal Term, env *Env, k Cont) *Promise {
	return m.solve(goal, env, k, nil)
}

// solve dispatches one goal. cutParent is the promise of the enclosing
// clause activation; a cut prunes the alternatives above it.
func (m *Machine) solve(goal Term, env *Env, k Cont, cutParent *Promise) *Promise {
	switch g := env.Resolve(goal).(type) {
	case Variable:
		return Error(ErrInstantiation)
	case Atom:
		switch g {
		case "true":
			return k()
		case "fail", "false":
			return Bool(false)
		case "!":
			return cutPromise(cutParent, k)
		}
		return m.arrive(ProcedureIndicator{Name: g, Arity: 0}, g, env, k)
	case *Compound:
		switch {
		case g.Functor == "," && len(g.Args) == 2:
			a, b := g.Args[0], g.Args[1]
			return Delay(func() *Promise {
				return m.solve(a, env, func() *Promise {
					return m.solve(b, env, k, cutParent)
				}, cutParent)
			})
		case g.Functor == ";" && len(g.Args) == 2:
			if c, ok := env.Resolve(g.Args[0]).(*Compound); ok && c.Functor == "->" && len(c.Args) == 2 {
				return m.ifThenElse(c.Args[0], c.Args[1], g.Args[1], env, k, cutParent)
			}
			a, b := g.Args[0], g.Args[1]
			mark := env.Mark()
			return Delay(func() *Promise {
				return m.solve(a, env, k, cutParent)
			}, func() *Promise {
				env.Rewind(mark)
				return m.solve(b, env, k, cutParent)
			})
		case g.Functor == "->" && len(g.Args) == 2:
			return m.ifThenElse(g.Args[0], g.Args[1], Atom("fail"), env, k, cutParent)
		}
		return m.arrive(ProcedureIndicator{Name: g.Functor, Arity: len(g.Args)}, g, env, k)
	default:
		return Error(&TypeError{ValidType: "callable", Culprit: g})
	}
}

// ifThenElse takes the first solution of cond only; then commits to
// then, or else if cond has none. A cut in cond stays local to it.
func (m *Machine) ifThenElse(cond, then, els Term, env *Env, k Cont, cutParent *Promise) *Promise {
	mark := env.Mark()
	return Delay(func() *Promise {
		ok, err := m.Solve(cond, env, done).Force()
		if err != nil {
			return Error(err)
		}
		if ok {
			return m.solve(then, env, k, cutParent)
		}
		env.Rewind(mark)
		return m.solve(els, env, k, cutParent)
	})
}

func (m *Machine) arrive(pi ProcedureIndicator, goal Term, env *Env, k Cont) *Promise {
	logrus.WithField("goal", pi.String()).Trace("solve")
	p, ok := m.procedures[pi]
	if !ok {
		switch m.unknown {
		case UnknownError:
			return Error(&ExistenceError{Procedure: pi})
		case UnknownWarn:
			logrus.WithField("procedure", pi.String()).Warn("unknown procedure")
			fallthrough
		default:
			return Bool(false)
		}
	}
	return Delay(func() *Promise {
		return p.call(m, goal, env, k)
	})
}

// Exec parses source text and loads its clauses into the database in
// order. A clause of the form `:- Goal` runs Goal once at load time.
// On a parse error the clauses already loaded are retained.
func (m *Machine) Exec(src string) error {
	p := NewParser(src, m.operators)
	for {
		t, err := p.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if c, ok := t.(*Compound); ok && c.Functor == ":-" && len(c.Args) == 1 {
			env := NewEnv()
			ok, err := m.Solve(c.Args[0], env, done).Force()
			if err != nil {
				return err
			}
			if !ok {
				var sb strings.Builder
				_ = WriteTerm(&sb, c.Args[0], env, m.operators)
				return fmt.Errorf("directive failed: %s", sb.String())
			}
			continue
		}
		if err := m.Assertz(t, nil); err != nil {
			return err
		}
	}
}
