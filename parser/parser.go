// Package parser defines the parsing engine: a pushdown automaton driven by grammar tables.
// The engine reads its input on demand and builds syntax trees;
// given the previous tree and the list of edits it reuses undamaged subtrees.
package parser

import (
	"regexp"
	"sort"
	"strings"

	"github.com/tliron/commonlog"

	"github.com/ava12/llxdoc/grammar"
	"github.com/ava12/llxdoc/lexer"
	"github.com/ava12/llxdoc/source"
	"github.com/ava12/llxdoc/tree"
)

// Parser is immutable and may be used by several goroutines simultaneously.
type Parser struct {
	grammar  *grammar.Grammar
	literals map[string]int
	lexer    *lexer.Lexer
}

// never matches anything
const emptyRe = `^\b\B`

// New validates the grammar and creates a parser for it.
func New(g *grammar.Grammar) (*Parser, error) {
	e := g.Validate()
	if e != nil {
		return nil, e
	}

	literals := make(map[string]int)
	types := make([]lexer.TokenType, 0, len(g.Tokens))
	masks := make([]string, 0, len(g.Tokens))
	for i, t := range g.Tokens {
		if (t.Flags & grammar.LiteralToken) != 0 {
			literals[t.Name] = i
		}
		if t.Re == "" {
			continue
		}

		types = append(types, lexer.TokenType{Type: i, TypeName: t.Name})
		masks = append(masks, "("+t.Re+")")
	}

	re := emptyRe
	if len(masks) > 0 {
		re = "^(?s:" + strings.Join(masks, "|") + ")"
	}

	return &Parser{g, literals, lexer.New(regexp.MustCompile(re), types)}, nil
}

// Grammar returns the grammar used by parser.
func (p *Parser) Grammar() *grammar.Grammar {
	return p.grammar
}

// Options contains optional parameters of a single Parse call.
type Options struct {
	// Previous is the tree built for the text before Edits were applied.
	Previous *tree.Tree

	// Edits describe text changes made since Previous was built, in order.
	// Previous subtrees are reused only if Edits is not empty.
	Edits []tree.Edit

	// Logger receives debug events, may be nil.
	Logger Logger

	// OnLoggerFault receives values recovered from Logger panics, may be nil.
	OnLoggerFault func(fault any)
}

// Parse reads the whole input and builds the syntax tree.
// Input is repositioned to offset 0 first.
// Returns nil tree and llxdoc.Error in case of lexical or syntax error.
func (p *Parser) Parse(in source.Input, opts *Options) (*tree.Tree, error) {
	if opts == nil {
		opts = &Options{}
	}

	pc := newParseContext(p, in, opts)
	result, e := pc.parse()
	if e == nil {
		commonlog.GetLogger("llxdoc.parser").Debugf("%s: built %d nodes, reused %d, %d reads, %d seeks",
			p.grammar.Name, result.Len(), pc.stats.Reused, pc.stats.Reads, pc.stats.Seeks)
	}
	return result, e
}

// ParseString is a shortcut for parsing the whole text with no previous tree.
func (p *Parser) ParseString(text string, opts *Options) (*tree.Tree, error) {
	return p.Parse(source.NewStringInput(text), opts)
}

// ParseContext contains the state of a single Parse call.
type ParseContext struct {
	parser    *Parser
	stream    *source.Stream
	builder   *tree.Builder
	reuse     *tree.ReuseIndex
	nodeStack *nodeStack
	token     *lexer.Token
	root      int
	logger    Logger
	onFault   func(any)
	stats     tree.Stats
}

func newParseContext(p *Parser, in source.Input, opts *Options) *ParseContext {
	result := &ParseContext{
		parser:    p,
		stream:    source.NewStream(in),
		builder:   tree.NewBuilder(),
		nodeStack: newNodeStack(),
		root:      -1,
		logger:    opts.Logger,
		onFault:   opts.OnLoggerFault,
	}

	if opts.Previous.IsValid() && len(opts.Edits) > 0 {
		result.reuse = tree.NewReuseIndex(opts.Previous, opts.Edits)
	}

	return result
}

func (pc *ParseContext) parse() (*tree.Tree, error) {
	gr := pc.parser.grammar

	e := pc.fetchToken()
	if e != nil {
		return nil, e
	}

	pc.pushNonTerm(grammar.RootNonTerm)
	pc.popNonTerms()

	for !pc.nodeStack.IsEmpty() {
		e = pc.fetchToken()
		if e != nil {
			return nil, e
		}

		nt := pc.nodeStack.Top()
		key, rule, found := pc.findRule(pc.token, gr.States[nt.state])
		if !found {
			return nil, pc.unexpectedError(gr.States[nt.state])
		}

		nt.state = rule.State
		if rule.NonTerm != grammar.SameNonTerm {
			pc.pushNonTerm(rule.NonTerm)
		} else if key != grammar.AnyToken {
			pc.shiftToken(nt)
		}

		pc.popNonTerms()
	}

	e = pc.fetchToken()
	if e != nil {
		return nil, e
	}
	if pc.token.Type() != lexer.EofTokenType {
		return nil, unexpectedTokenError(pc.token, lexer.EofTokenName)
	}

	pc.emit(AcceptEvent, Params{
		"symbol": gr.NonTerms[grammar.RootNonTerm].Name,
		"end":    pc.token.Start(),
	})

	pc.stats.Reads = pc.stream.Reads()
	pc.stats.Seeks = pc.stream.Seeks()
	return pc.builder.Tree(pc.root, pc.stats), nil
}

// fetchToken sets lookahead token unless it is already set, skipping aside tokens.
func (pc *ParseContext) fetchToken() error {
	for pc.token == nil {
		tok, e := pc.parser.lexer.Next(pc.stream)
		if e != nil {
			return e
		}

		if !pc.isAsideToken(tok) {
			pc.token = tok
		}
	}

	return nil
}

func (pc *ParseContext) isAsideToken(t *lexer.Token) bool {
	tokens := pc.parser.grammar.Tokens
	i := t.Type()
	return i >= 0 && i < len(tokens) && (tokens[i].Flags&grammar.AsideToken) != 0
}

// findRule looks for the rule keyed by literal token, then by token type, then by AnyToken.
func (pc *ParseContext) findRule(t *lexer.Token, s grammar.State) (key int, r grammar.Rule, found bool) {
	if t.Type() >= 0 {
		index, isLiteral := pc.parser.literals[t.Text()]
		if isLiteral {
			r, found = s.Rules[index]
			if found {
				return index, r, true
			}
		}

		r, found = s.Rules[t.Type()]
		if found {
			return t.Type(), r, true
		}
	}

	r, found = s.Rules[grammar.AnyToken]
	return grammar.AnyToken, r, found
}

func (pc *ParseContext) shiftToken(nt *nodeRec) {
	tok := pc.token
	pc.builder.Append(nt.node, pc.builder.Token(tok))
	pc.token = nil
	pc.emit(ShiftEvent, Params{
		"symbol": tok.TypeName(),
		"text":   tok.Text(),
		"start":  tok.Start(),
		"end":    tok.End(),
	})
}

// pushNonTerm either starts a new non-terminal at the lookahead token
// or copies a matching undamaged subtree of the previous tree.
func (pc *ParseContext) pushNonTerm(index int) {
	gr := pc.parser.grammar
	nt := gr.NonTerms[index]
	tok := pc.token

	if pc.reuse != nil && tok.Type() != lexer.EofTokenType {
		old, delta, found := pc.reuse.Find(nt.Name, tok.Start())
		if found {
			node, count := pc.builder.Copy(old, delta, tok.StartPoint())
			pc.attachNode(node)
			pc.stats.Reused += count

			end, endPoint := pc.builder.End(node)
			pc.stream.Jump(end, endPoint)
			pc.stream.Touch(pc.builder.LookEnd(node))
			pc.token = nil
			pc.emit(ReuseEvent, Params{
				"symbol": nt.Name,
				"start":  tok.Start(),
				"end":    end,
			})
			return
		}
	}

	node := pc.builder.NonTerm(nt.Name)
	if pc.nodeStack.IsEmpty() {
		pc.root = node
	}
	pc.nodeStack.Push(nodeRec{index: index, state: nt.FirstState, node: node})
}

func (pc *ParseContext) attachNode(node int) {
	parent := pc.nodeStack.Top()
	if parent == nil {
		pc.root = node
	} else {
		pc.builder.Append(parent.node, node)
	}
}

// popNonTerms completes all non-terminals having reached final state.
func (pc *ParseContext) popNonTerms() {
	gr := pc.parser.grammar
	for !pc.nodeStack.IsEmpty() && pc.nodeStack.Top().state == grammar.FinalState {
		nt := *pc.nodeStack.Top()
		pc.nodeStack.Drop()

		at, atPoint := pc.stream.Pos(), pc.stream.Point()
		if pc.token != nil {
			at, atPoint = pc.token.Start(), pc.token.StartPoint()
		}
		pc.builder.Close(nt.node, pc.stream.Furthest(), at, atPoint)
		if !pc.nodeStack.IsEmpty() {
			pc.builder.Append(pc.nodeStack.Top().node, nt.node)
		}

		end, _ := pc.builder.End(nt.node)
		pc.emit(ReduceEvent, Params{
			"symbol":   gr.NonTerms[nt.index].Name,
			"children": pc.builder.ChildCount(nt.node),
			"start":    pc.builder.Start(nt.node),
			"end":      end,
		})
	}
}

func (pc *ParseContext) unexpectedError(s grammar.State) error {
	expected := pc.expectedTokens(s)
	if pc.token.Type() == lexer.EofTokenType {
		return unexpectedEofError(pc.token, expected)
	}
	return unexpectedTokenError(pc.token, expected)
}

func (pc *ParseContext) expectedTokens(s grammar.State) string {
	g := pc.parser.grammar
	keys := make([]int, 0, len(s.Rules))
	for k := range s.Rules {
		if k >= 0 {
			keys = append(keys, k)
		}
	}
	sort.Ints(keys)

	names := make([]string, len(keys))
	for i, k := range keys {
		t := g.Tokens[k]
		if (t.Flags & grammar.LiteralToken) != 0 {
			names[i] = "\"" + t.Name + "\""
		} else {
			names[i] = "$" + t.Name
		}
	}
	if len(names) == 0 {
		return lexer.EofTokenName
	}
	return strings.Join(names, " or ")
}
