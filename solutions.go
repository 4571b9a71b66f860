package hornlog

import (
	"errors"
	"strings"

	"github.com/hornlog/hornlog/engine"
)

// Solutions is the result of a query. Every time Next is called, the
// engine resumes the search for the next solution; the values of the
// query variables are then available through Scan.
type Solutions struct {
	vars []engine.ParsedVariable
	env  *engine.Env
	ops  engine.Operators

	more chan<- bool
	next <-chan bool

	err    error
	closed bool
}

// Next advances to the next solution. It returns false when there are
// no more solutions or the search was aborted by an error.
func (s *Solutions) Next() bool {
	if s.closed {
		return false
	}
	s.more <- true
	if ok := <-s.next; ok {
		return true
	}
	s.closed = true
	return false
}

// Close abandons the stream and releases the engine. Once the stream
// has ended, because Next returned false or Close was already called,
// Close does nothing and returns an error.
func (s *Solutions) Close() error {
	if s.closed {
		return errors.New("already closed")
	}
	s.closed = true
	close(s.more)
	for range s.next {
		// Drain a solution the engine was about to yield.
	}
	return nil
}

// Scan copies the current solution's variable values into out, keyed by
// variable name.
func (s *Solutions) Scan(out map[string]engine.Term) error {
	if s.closed {
		return errors.New("no current solution")
	}
	for _, v := range s.vars {
		out[v.Name] = s.env.Simplify(v.Variable)
	}
	return nil
}

// Bindings returns the current solution as printed terms, keyed by
// variable name. Variables bound to themselves are omitted.
func (s *Solutions) Bindings() map[string]string {
	ret := map[string]string{}
	if s.closed {
		return ret
	}
	for _, v := range s.vars {
		t := s.env.Simplify(v.Variable)
		if t == v.Variable {
			continue
		}
		var sb strings.Builder
		_ = engine.WriteTerm(&sb, t, s.env, s.ops)
		ret[v.Name] = sb.String()
	}
	return ret
}

// Vars returns the names of the query variables in appearance order.
func (s *Solutions) Vars() []string {
	ns := make([]string, len(s.vars))
	for i, v := range s.vars {
		ns[i] = v.Name
	}
	return ns
}

// Err returns the error that aborted the search, if any. It is valid
// after Next has returned false.
func (s *Solutions) Err() error {
	return s.err
}
