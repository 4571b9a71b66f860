package hornlog

import (
	"errors"
	"io"
	"strings"
	"sync/atomic"

	"github.com/hornlog/hornlog/engine"
)

// bootstrap is loaded into every new interpreter. The list predicates
// are ordinary clauses so that they backtrack like user code.
const bootstrap = `
member(X, [X|_]).
member(X, [_|T]) :- member(X, T).

append([], L, L).
append([H|T], L, [H|R]) :- append(T, L, R).

length([], 0).
length([_|T], N) :- length(T, M), N is M + 1.

reverse(L, R) :- reverse_acc(L, [], R).
reverse_acc([], A, A).
reverse_acc([H|T], A, R) :- reverse_acc(T, [H|A], R).

between(L, H, L) :- L =< H.
between(L, H, X) :- L < H, L1 is L + 1, between(L1, H, X).
`

// Interpreter is a Prolog interpreter: a resolution engine plus the
// bootstrap library. Create one with New.
type Interpreter struct {
	machine *engine.Machine

	in   io.Reader
	out  io.Writer
	opts []engine.Option

	// A query owns the machine until its Solutions are exhausted or
	// closed; busy rejects overlapping queries.
	busy atomic.Bool
}

// New returns an interpreter reading from in and writing to out, with
// the built-in predicates and the bootstrap library loaded.
func New(in io.Reader, out io.Writer, opts ...engine.Option) *Interpreter {
	i := Interpreter{in: in, out: out, opts: opts}
	i.machine = i.newMachine()
	return &i
}

func (i *Interpreter) newMachine() *engine.Machine {
	opts := append([]engine.Option{engine.WithIO(i.in, i.out)}, i.opts...)
	m := engine.NewMachine(opts...)
	if err := m.Exec(bootstrap); err != nil {
		panic("hornlog: broken bootstrap: " + err.Error())
	}
	return m
}

// Exec parses source text and loads its clauses in order. On a parse
// error the load stops; clauses before the error are retained.
func (i *Interpreter) Exec(src string) error {
	if i.busy.Load() {
		return ErrBusy
	}
	return i.machine.Exec(src)
}

// Assert adds the single clause in text to the end of the database.
func (i *Interpreter) Assert(text string) error {
	if i.busy.Load() {
		return ErrBusy
	}
	p := engine.NewParser(text, i.machine.Operators())
	t, err := p.Next()
	if err == io.EOF {
		return errors.New("no clause in input")
	}
	if err != nil {
		return err
	}
	return i.machine.Assertz(t, nil)
}

// Reset discards all loaded clauses and restores the interpreter to its
// initial state.
func (i *Interpreter) Reset() {
	if i.busy.Load() {
		return
	}
	i.machine = i.newMachine()
}

// Rules returns the user-defined clauses in database order, printed in
// operator syntax.
func (i *Interpreter) Rules() []string {
	ts := i.machine.Rules()
	ret := make([]string, len(ts))
	for j, t := range ts {
		var sb strings.Builder
		_ = engine.WriteTerm(&sb, t, nil, i.machine.Operators())
		ret[j] = sb.String()
	}
	return ret
}

// ErrBusy is returned when a query is started or the database modified
// while a previous query's solutions are still being consumed.
var ErrBusy = errors.New("another query is in progress")

// errStopped aborts the search when the consumer closes the stream.
var errStopped = errors.New("solutions closed")

// Query runs a goal and returns its lazy solution stream. The stream is
// single-consumer; a second query before the first stream is exhausted
// or closed returns ErrBusy.
func (i *Interpreter) Query(q string) (*Solutions, error) {
	p := engine.NewParser(q, i.machine.Operators())
	goal, err := p.Next()
	if err == io.EOF {
		return nil, errors.New("no goal in query")
	}
	if err != nil {
		return nil, err
	}
	vars := p.Vars()

	if !i.busy.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}

	env := engine.NewEnv()
	mark := env.Mark()
	more := make(chan bool, 1)
	next := make(chan bool)

	sols := Solutions{
		vars: vars,
		env:  env,
		ops:  i.machine.Operators(),
		more: more,
		next: next,
	}

	go func() {
		defer close(next)
		defer i.busy.Store(false)
		defer env.Rewind(mark)

		if !<-more {
			return
		}
		_, err := i.machine.Solve(goal, env, func() *engine.Promise {
			next <- true
			if cont, ok := <-more; !ok || !cont {
				return engine.Error(errStopped)
			}
			return engine.Bool(false)
		}).Force()
		if err != nil && err != errStopped {
			sols.err = err
		}
	}()

	return &sols, nil
}
