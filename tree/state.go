package tree

import (
	"fmt"

	"github.com/robot-dreams/riff"
	"github.com/robot-dreams/riff/column_filter"
	"github.com/robot-dreams/riff/stats"
)

type trivial uint8

const (
	trivialNone trivial = iota
	trivialTrue
	trivialFalse
)

// State is a predicate tree bound to a type description and simplified.
// Construction resolves all column ordinals and precomputes whether the
// tree reduced to a constant.  A State is immutable and safe to share
// across planners.
type State struct {
	tree    Tree
	trivial trivial
}

// NewState binds t against td and simplifies the result.  The input tree is
// not modified.
func NewState(t Tree, td *riff.TypeDescription) (*State, error) {
	bound, err := Bind(t.Copy(), td)
	if err != nil {
		return nil, err
	}
	simplified := Simplify(bound)
	s := &State{tree: simplified}
	switch {
	case isTrue(simplified):
		s.trivial = trivialTrue
	case isFalse(simplified):
		s.trivial = trivialFalse
	}
	return s, nil
}

// Tree returns the bound, simplified tree.
func (s *State) Tree() Tree {
	return s.tree
}

// TrivialTrue reports whether the predicate reduced to a constant true; all
// evaluations return true.
func (s *State) TrivialTrue() bool {
	return s.trivial == trivialTrue
}

// TrivialFalse reports whether the predicate reduced to a constant false;
// all evaluations return false and the planner may skip the data file
// entirely.
func (s *State) TrivialFalse() bool {
	return s.trivial == trivialFalse
}

// EvaluateStats decides whether a stripe with the given statistics might
// contain a matching record.
func (s *State) EvaluateStats(stripeStats []*stats.Statistics) bool {
	switch s.trivial {
	case trivialTrue:
		return true
	case trivialFalse:
		return false
	}
	return s.tree.EvaluateStats(stripeStats)
}

// EvaluateFilters decides whether a stripe with the given column filters
// might contain a matching record.
func (s *State) EvaluateFilters(filters []column_filter.Filter) bool {
	switch s.trivial {
	case trivialTrue:
		return true
	case trivialFalse:
		return false
	}
	return s.tree.EvaluateFilters(filters)
}

// EvaluateRow decides the predicate for a single record.
func (s *State) EvaluateRow(row riff.Row) bool {
	switch s.trivial {
	case trivialTrue:
		return true
	case trivialFalse:
		return false
	}
	return s.tree.EvaluateRow(row)
}

func (s *State) String() string {
	return fmt.Sprintf("State(%v)", s.tree)
}
