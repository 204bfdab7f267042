package langdef

import (
	"golang.org/x/exp/ebnf"

	"github.com/ava12/llxdoc/grammar"
	"github.com/ava12/llxdoc/internal/ints"
)

type nonTermItem struct {
	Index       int
	Name        string
	Chunk       chunk
	FirstTokens *ints.Set
	IsOptional  bool
}

// chunk is a part of syntactic production converted to states.
type chunk interface {
	FirstTokens() *ints.Set
	FirstNonTerms() *ints.Set
	IsOptional() bool
	BuildStates(c *compiler, stateIndex, nextIndex int) error
}

type variantChunk struct {
	chunks []chunk
}

func (c *variantChunk) FirstTokens() *ints.Set {
	result := ints.NewSet()
	for _, ch := range c.chunks {
		result.Union(ch.FirstTokens())
	}
	return result
}

func (c *variantChunk) FirstNonTerms() *ints.Set {
	result := ints.NewSet()
	for _, ch := range c.chunks {
		result.Union(ch.FirstNonTerms())
	}
	return result
}

func (c *variantChunk) IsOptional() bool {
	for _, ch := range c.chunks {
		if ch.IsOptional() {
			return true
		}
	}
	return false
}

func (c *variantChunk) BuildStates(comp *compiler, stateIndex, nextIndex int) error {
	for _, ch := range c.chunks {
		e := ch.BuildStates(comp, stateIndex, nextIndex)
		if e != nil {
			return e
		}
	}
	return nil
}

// groupChunk is a sequence of chunks, optionally repeated or skipped as a whole.
type groupChunk struct {
	chunks     []chunk
	isOptional bool
	isRepeated bool
}

func newGroupChunk(isOptional, isRepeated bool, chunks ...chunk) *groupChunk {
	return &groupChunk{chunks, isOptional, isRepeated}
}

func (c *groupChunk) FirstTokens() *ints.Set {
	result := ints.NewSet()
	for _, ch := range c.chunks {
		result.Union(ch.FirstTokens())
		if !ch.IsOptional() {
			break
		}
	}
	return result
}

func (c *groupChunk) FirstNonTerms() *ints.Set {
	result := ints.NewSet()
	for _, ch := range c.chunks {
		result.Union(ch.FirstNonTerms())
		if !ch.IsOptional() {
			break
		}
	}
	return result
}

func (c *groupChunk) isEmpty() bool {
	for _, ch := range c.chunks {
		if !ch.IsOptional() {
			return false
		}
	}
	return true
}

func (c *groupChunk) IsOptional() bool {
	return c.isOptional || c.isRepeated || c.isEmpty()
}

func (c *groupChunk) BuildStates(comp *compiler, stateIndex, nextIndex int) error {
	if len(c.chunks) == 0 {
		return comp.bypassRule(stateIndex, nextIndex)
	}

	if c.isRepeated {
		if c.isEmpty() {
			return emptyRepeatableError(comp.current.Name)
		}

		loopIndex := comp.addState()
		e := comp.bypassRule(stateIndex, loopIndex)
		if e == nil {
			e = c.buildSequence(comp, loopIndex, loopIndex)
		}
		if e == nil {
			e = comp.bypassRule(loopIndex, nextIndex)
		}
		return e
	}

	if c.isOptional && !c.isEmpty() {
		e := comp.bypassRule(stateIndex, nextIndex)
		if e != nil {
			return e
		}
	}
	return c.buildSequence(comp, stateIndex, nextIndex)
}

func (c *groupChunk) buildSequence(comp *compiler, stateIndex, nextIndex int) error {
	currentIndex := stateIndex
	for i, ch := range c.chunks {
		targetIndex := nextIndex
		if i < len(c.chunks)-1 {
			targetIndex = comp.addState()
		}

		e := ch.BuildStates(comp, currentIndex, targetIndex)
		if e != nil {
			return e
		}
		currentIndex = targetIndex
	}
	return nil
}

type tokenChunk int

func (c tokenChunk) FirstTokens() *ints.Set {
	return ints.NewSet(int(c))
}

func (c tokenChunk) FirstNonTerms() *ints.Set {
	return ints.NewSet()
}

func (c tokenChunk) IsOptional() bool {
	return false
}

func (c tokenChunk) BuildStates(comp *compiler, stateIndex, nextIndex int) error {
	return comp.addRule(stateIndex, int(c), grammar.Rule{State: nextIndex, NonTerm: grammar.SameNonTerm})
}

type nonTermChunk struct {
	item *nonTermItem
}

func (c nonTermChunk) FirstTokens() *ints.Set {
	return c.item.FirstTokens
}

func (c nonTermChunk) FirstNonTerms() *ints.Set {
	return ints.NewSet(c.item.Index)
}

func (c nonTermChunk) IsOptional() bool {
	return c.item.IsOptional
}

func (c nonTermChunk) BuildStates(comp *compiler, stateIndex, nextIndex int) error {
	rule := grammar.Rule{State: nextIndex, NonTerm: c.item.Index}
	for _, t := range c.item.FirstTokens.ToSlice() {
		e := comp.addRule(stateIndex, t, rule)
		if e != nil {
			return e
		}
	}

	if c.item.IsOptional {
		return comp.addRule(stateIndex, grammar.AnyToken, rule)
	}
	return nil
}

// collectNonTerms creates non-terminals, the start production goes first.
func (c *compiler) collectNonTerms() error {
	names := []string{c.start}
	for _, p := range c.order {
		name := p.Name.String
		if name != c.start && !isLexical(name) {
			names = append(names, name)
		}
	}

	for i, name := range names {
		item := &nonTermItem{Index: i, Name: name, FirstTokens: ints.NewSet()}
		c.items = append(c.items, item)
		c.itemMap[name] = item
		c.result.NonTerms = append(c.result.NonTerms, grammar.NonTerm{Name: name, FirstState: c.addState()})
	}
	for _, item := range c.items {
		item.Chunk = c.makeChunk(c.prods[item.Name].Expr)
	}

	c.resolveFirstTokens()
	return c.checkRecursion()
}

func (c *compiler) makeChunk(x ebnf.Expression) chunk {
	switch x := x.(type) {
	case *ebnf.Token:
		return tokenChunk(c.literals[x.String])

	case *ebnf.Name:
		if isLexical(x.String) {
			return tokenChunk(c.tokens[x.String])
		}
		return nonTermChunk{c.itemMap[x.String]}

	case ebnf.Sequence:
		chunks := make([]chunk, len(x))
		for i, item := range x {
			chunks[i] = c.makeChunk(item)
		}
		return newGroupChunk(false, false, chunks...)

	case ebnf.Alternative:
		chunks := make([]chunk, len(x))
		for i, item := range x {
			chunks[i] = c.makeChunk(item)
		}
		return &variantChunk{chunks}

	case *ebnf.Group:
		return c.makeChunk(x.Body)

	case *ebnf.Option:
		return newGroupChunk(true, false, c.makeChunk(x.Body))

	case *ebnf.Repetition:
		return newGroupChunk(false, true, c.makeChunk(x.Body))
	}

	return newGroupChunk(false, false)
}

// resolveFirstTokens computes first token sets and optionality of non-terminals.
// Sets only grow, so iteration stops once nothing changes.
func (c *compiler) resolveFirstTokens() {
	changed := true
	for changed {
		changed = false
		for _, item := range c.items {
			first := item.Chunk.FirstTokens()
			isOptional := item.Chunk.IsOptional()
			if first.Len() != item.FirstTokens.Len() || isOptional != item.IsOptional {
				item.FirstTokens = first
				item.IsOptional = isOptional
				changed = true
			}
		}
	}
}

// checkRecursion reports non-terminals that may push themselves without consuming a token.
func (c *compiler) checkRecursion() error {
	var names []string
	for _, item := range c.items {
		queue := ints.NewQueue(item.Chunk.FirstNonTerms().ToSlice()...)
		for !queue.IsEmpty() {
			index := queue.Head()
			if index == item.Index {
				names = append(names, item.Name)
				break
			}
			for _, next := range c.items[index].Chunk.FirstNonTerms().ToSlice() {
				queue.Append(next)
			}
		}
	}

	if len(names) > 0 {
		return recursionError(names)
	}
	return nil
}

func (c *compiler) buildStates() error {
	for _, item := range c.items {
		c.current = item
		e := item.Chunk.BuildStates(c, c.result.NonTerms[item.Index].FirstState, grammar.FinalState)
		if e != nil {
			return e
		}
	}
	return nil
}

func (c *compiler) addState() int {
	c.result.States = append(c.result.States, grammar.State{Rules: map[int]grammar.Rule{}})
	return len(c.result.States) - 1
}

// addRule adds a rule keyed by token index or AnyToken, reporting a conflicting rule under the same key.
func (c *compiler) addRule(stateIndex, key int, rule grammar.Rule) error {
	rules := c.result.States[stateIndex].Rules
	old, has := rules[key]
	if has && old != rule {
		return conflictError(c.current.Name, c.tokenName(key))
	}

	rules[key] = rule
	return nil
}

// bypassRule moves to nextIndex without consuming a token.
func (c *compiler) bypassRule(stateIndex, nextIndex int) error {
	return c.addRule(stateIndex, grammar.AnyToken, grammar.Rule{State: nextIndex, NonTerm: grammar.SameNonTerm})
}

func (c *compiler) tokenName(key int) string {
	if key == grammar.AnyToken {
		return "any token"
	}

	t := c.result.Tokens[key]
	if (t.Flags & grammar.LiteralToken) != 0 {
		return "\"" + t.Name + "\""
	}
	return "$" + t.Name
}
