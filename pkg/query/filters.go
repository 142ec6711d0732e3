package query

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// Selector takes a MatchNodes and optionally returns some value.
type Selector[T any] func(MatchNodes) (T, bool)

// Predicate takes some value and returns a bool.
type Predicate[T any] interface {
	Test(input T) bool
}

// Select maps every match of query through selector, skipping the matches it declines.
func Select[T any](query NextFunc[MatchNodes], selector Selector[T]) NextFunc[T] {
	return SelectIf(query, selector, AllOf[MatchNodes]{})
}

// SelectIf is [Select], keeping only the matches that pass predicate.
func SelectIf[T any](query NextFunc[MatchNodes], selector Selector[T], predicate Predicate[MatchNodes]) NextFunc[T] {
	return func() (T, bool) {
		for {
			match, found := query()
			if !found {
				var zero T
				return zero, false
			}
			if !predicate.Test(match) {
				continue
			}
			if selected, ok := selector(match); ok {
				return selected, true
			}
		}
	}
}

// Matches is the identity Selector.
func Matches(match MatchNodes) (MatchNodes, bool) {
	return match, true
}

// ParamNamed is a Selector that returns a param from the MatchNodes by name, if such a param exists.
func ParamNamed(paramName string) Selector[*sitter.Node] {
	return func(match MatchNodes) (*sitter.Node, bool) {
		paramNode, found := match[paramName]
		return paramNode, found && paramNode != nil
	}
}

// Param tests the node captured under Named. A match without that capture fails.
type Param struct {
	Named   string
	Matches Predicate[*sitter.Node]
}

func (wp Param) Test(nodes MatchNodes) bool {
	if paramNode, found := nodes[wp.Named]; found && paramNode != nil {
		return wp.Matches.Test(paramNode)
	}
	return false
}

// Absent passes matches in which the named optional capture did not match.
type Absent string

func (a Absent) Test(nodes MatchNodes) bool {
	n, found := nodes[string(a)]
	return !found || n == nil
}

type AllOf[T any] []Predicate[T]

func (a AllOf[T]) Test(input T) bool {
	for _, p := range a {
		if !p.Test(input) {
			return false
		}
	}
	return true
}

// NoNamedChildren passes nodes such as an empty parameter list `()`.
type NoNamedChildren struct{}

func (NoNamedChildren) Test(node *sitter.Node) bool {
	return node.NamedChildCount() == 0
}
