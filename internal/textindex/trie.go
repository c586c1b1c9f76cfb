// Reelmatch - Film Search and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

// Package textindex provides the prefix tree used for film, user and tag lookup.
//
// An Index supports two lookups:
//   - SearchPrefix: every stored word starting with a prefix
//   - SearchByEditDistance: every stored word within a Levenshtein distance of a query
//
// Entity indexes attach integer ids to terminal nodes so that several films can share
// one title or director name.
package textindex

import (
	"sort"
	"strings"
	"sync"
)

// PruneMode selects how SearchByEditDistance discards subtrees.
type PruneMode int

const (
	// PruneBound discards a subtree when the smallest value of the current DP row exceeds
	// the threshold. No word below that node can come back under it, so results are exact.
	PruneBound PruneMode = iota

	// PruneQueryPrefix discards a subtree when the distance between the current path and the
	// query prefix of the same length exceeds the threshold. This is the historical behaviour
	// of the title search and may miss matches whose lengths differ from the query.
	PruneQueryPrefix
)

// String returns the config name of the mode.
func (m PruneMode) String() string {
	switch m {
	case PruneQueryPrefix:
		return "query_prefix"
	default:
		return "bound"
	}
}

// ParsePruneMode maps a config value to a PruneMode. Unknown values fall back to PruneBound.
func ParsePruneMode(s string) PruneMode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "query_prefix", "prefix", "legacy":
		return PruneQueryPrefix
	default:
		return PruneBound
	}
}

type node struct {
	children map[rune]*node
	terminal bool
	word     string // canonical spelling, first insertion wins
	ids      []int  // entity ids in insertion order, no duplicates
}

func newNode() *node {
	return &node{children: make(map[rune]*node)}
}

// sortedKeys returns the child runes in ascending order so traversals are deterministic.
func (n *node) sortedKeys() []rune {
	keys := make([]rune, 0, len(n.children))
	for r := range n.children {
		keys = append(keys, r)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func (n *node) hasID(id int) bool {
	for _, existing := range n.ids {
		if existing == id {
			return true
		}
	}
	return false
}

// Match is a single hit returned by a lookup.
type Match struct {
	Word     string // canonical stored word
	IDs      []int  // entity ids, empty for plain word indexes
	Distance int    // edit distance to the query, 0 for prefix lookups
}

// Index is a thread-safe rune-keyed prefix tree.
type Index struct {
	mu            sync.RWMutex
	root          *node
	size          int
	caseSensitive bool
	pruneMode     PruneMode
}

// Option configures an Index.
type Option func(*Index)

// WithCaseSensitive disables case folding of inserted words and queries.
func WithCaseSensitive(caseSensitive bool) Option {
	return func(ix *Index) { ix.caseSensitive = caseSensitive }
}

// WithPruneMode selects the edit-distance pruning rule.
func WithPruneMode(mode PruneMode) Option {
	return func(ix *Index) { ix.pruneMode = mode }
}

// New creates an empty case-insensitive Index using PruneBound.
func New(opts ...Option) *Index {
	ix := &Index{root: newNode()}
	for _, opt := range opts {
		opt(ix)
	}
	return ix
}

func (ix *Index) normalizeKey(key string) string {
	if ix.caseSensitive {
		return key
	}
	return strings.ToLower(key)
}

// insert walks or creates the path for word and returns its terminal node.
// Caller must hold the write lock.
func (ix *Index) insert(word string) (*node, bool) {
	n := ix.root
	for _, r := range ix.normalizeKey(word) {
		child, ok := n.children[r]
		if !ok {
			child = newNode()
			n.children[r] = child
		}
		n = child
	}

	isNew := !n.terminal
	if isNew {
		n.terminal = true
		n.word = word
		ix.size++
	}
	return n, isNew
}

// Insert adds word to the index. Returns true if the word was not present before.
func (ix *Index) Insert(word string) bool {
	if word == "" {
		return false
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()

	_, isNew := ix.insert(word)
	return isNew
}

// InsertEntity adds word and attaches id to it. Attaching the same id twice is a no-op.
// Returns true if id was newly attached.
func (ix *Index) InsertEntity(word string, id int) bool {
	if word == "" {
		return false
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()

	n, _ := ix.insert(word)
	if n.hasID(id) {
		return false
	}
	n.ids = append(n.ids, id)
	return true
}

// Contains reports whether word was inserted.
func (ix *Index) Contains(word string) bool {
	if word == "" {
		return false
	}

	ix.mu.RLock()
	defer ix.mu.RUnlock()

	n := ix.find(ix.normalizeKey(word))
	return n != nil && n.terminal
}

// Lookup returns the entity ids attached to word.
func (ix *Index) Lookup(word string) ([]int, bool) {
	if word == "" {
		return nil, false
	}

	ix.mu.RLock()
	defer ix.mu.RUnlock()

	n := ix.find(ix.normalizeKey(word))
	if n == nil || !n.terminal {
		return nil, false
	}
	return append([]int(nil), n.ids...), true
}

// Size returns the number of distinct stored words.
func (ix *Index) Size() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.size
}

func (ix *Index) find(key string) *node {
	n := ix.root
	for _, r := range key {
		child, ok := n.children[r]
		if !ok {
			return nil
		}
		n = child
	}
	return n
}

// SearchPrefix returns up to maxResults stored words beginning with prefix, in
// lexicographic rune order.
func (ix *Index) SearchPrefix(prefix string, maxResults int) []Match {
	if prefix == "" || maxResults <= 0 {
		return []Match{}
	}

	ix.mu.RLock()
	defer ix.mu.RUnlock()

	start := ix.find(ix.normalizeKey(prefix))
	if start == nil {
		return []Match{}
	}

	results := make([]Match, 0, min(maxResults, 16))
	collect(start, maxResults, &results)
	return results
}

func collect(n *node, limit int, results *[]Match) {
	if len(*results) >= limit {
		return
	}
	if n.terminal {
		*results = append(*results, Match{Word: n.word, IDs: append([]int(nil), n.ids...)})
	}
	for _, r := range n.sortedKeys() {
		if len(*results) >= limit {
			return
		}
		collect(n.children[r], limit, results)
	}
}

// PrefixIDs returns up to maxResults distinct entity ids reachable from prefix, in
// traversal order.
func (ix *Index) PrefixIDs(prefix string, maxResults int) []int {
	if prefix == "" || maxResults <= 0 {
		return []int{}
	}

	ix.mu.RLock()
	defer ix.mu.RUnlock()

	start := ix.find(ix.normalizeKey(prefix))
	if start == nil {
		return []int{}
	}

	seen := make(map[int]struct{})
	ids := make([]int, 0, min(maxResults, 16))
	var walk func(n *node) bool
	walk = func(n *node) bool {
		for _, id := range n.ids {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
			if len(ids) >= maxResults {
				return false
			}
		}
		for _, r := range n.sortedKeys() {
			if !walk(n.children[r]) {
				return false
			}
		}
		return true
	}
	walk(start)
	return ids
}

// SearchByEditDistance returns stored words whose Levenshtein distance to query is at most
// maxDistance, ordered by distance and then word, truncated to maxResults.
func (ix *Index) SearchByEditDistance(query string, maxDistance, maxResults int) []Match {
	if query == "" || maxDistance < 0 || maxResults <= 0 {
		return []Match{}
	}

	ix.mu.RLock()
	defer ix.mu.RUnlock()

	q := []rune(ix.normalizeKey(query))
	row := make([]int, len(q)+1)
	for i := range row {
		row[i] = i
	}

	s := &distanceSearch{query: q, maxDistance: maxDistance, mode: ix.pruneMode}
	for _, r := range ix.root.sortedKeys() {
		s.visit(ix.root.children[r], r, row, 1)
	}

	sort.Slice(s.matches, func(i, j int) bool {
		if s.matches[i].Distance != s.matches[j].Distance {
			return s.matches[i].Distance < s.matches[j].Distance
		}
		return s.matches[i].Word < s.matches[j].Word
	})
	if len(s.matches) > maxResults {
		s.matches = s.matches[:maxResults]
	}
	if s.matches == nil {
		return []Match{}
	}
	return s.matches
}

type distanceSearch struct {
	query       []rune
	maxDistance int
	mode        PruneMode
	matches     []Match
}

// visit extends the DP row by one rune and recurses while the subtree can still match.
func (s *distanceSearch) visit(n *node, r rune, prev []int, depth int) {
	row := nextRow(prev, s.query, r)

	if n.terminal && row[len(s.query)] <= s.maxDistance {
		s.matches = append(s.matches, Match{
			Word:     n.word,
			IDs:      append([]int(nil), n.ids...),
			Distance: row[len(s.query)],
		})
	}

	if s.prune(row, depth) {
		return
	}
	for _, k := range n.sortedKeys() {
		s.visit(n.children[k], k, row, depth+1)
	}
}

func (s *distanceSearch) prune(row []int, depth int) bool {
	if s.mode == PruneQueryPrefix {
		return row[min(depth, len(s.query))] > s.maxDistance
	}
	lowest := row[0]
	for _, v := range row[1:] {
		if v < lowest {
			lowest = v
		}
	}
	return lowest > s.maxDistance
}
