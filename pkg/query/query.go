package query

import (
	"fmt"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
)

type NextFunc[T any] func() (T, bool)

type MatchNodes = map[string]*sitter.Node

type NextMatchFunc = NextFunc[MatchNodes]

type queryKey struct {
	lang *sitter.Language
	text string
}

// compiled holds every query compiled so far. A [sitter.Query] is read-only once built, so cursors on different
// goroutines can share it.
var compiled sync.Map

func compile(lang *sitter.Language, q string) *sitter.Query {
	key := queryKey{lang: lang, text: q}
	if cached, ok := compiled.Load(key); ok {
		return cached.(*sitter.Query)
	}
	query, err := sitter.NewQuery([]byte(q), lang)
	if err != nil {
		// Panic because this is a programmer error with the query string.
		panic(fmt.Errorf("error constructing query for %s: %w", q, err))
	}
	actual, _ := compiled.LoadOrStore(key, query)
	return actual.(*sitter.Query)
}

// Exec returns a function that acts as an iterator, each call will
// loop over the next match lazily and populate the results map with a mapping
// of capture name as defined in the query to the captured node.
//
// Matches are returned in document order. Optional captures that did not match are absent from the map.
func Exec(lang *sitter.Language, c *sitter.Node, q string) NextMatchFunc {
	if c == nil {
		return func() (MatchNodes, bool) {
			return nil, false
		}
	}

	query := compile(lang, q)
	cursor := sitter.NewQueryCursor()
	cursor.Exec(query, c)

	return func() (MatchNodes, bool) {
		match, found := cursor.NextMatch()
		if !found || match == nil {
			return nil, false
		}
		results := make(MatchNodes, len(match.Captures))
		for _, capture := range match.Captures {
			results[query.CaptureNameForId(capture.Index)] = capture.Node
		}
		return results, true
	}
}

func Collect[T any](f NextFunc[T]) []T {
	var results []T
	for {
		elem, found := f()
		if !found {
			return results
		}
		results = append(results, elem)
	}
}
