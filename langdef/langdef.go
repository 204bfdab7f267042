package langdef

import (
	"io"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/exp/ebnf"

	"github.com/ava12/llxdoc/grammar"
	"github.com/ava12/llxdoc/internal/ints"
)

// Config contains grammar compilation options.
type Config struct {
	// Start is the name of the root non-terminal, the first syntactic production by default.
	Start string

	// Asides lists lexical productions defining token types skipped by the parser.
	Asides []string
}

// Parse reads EBNF description and compiles it to a grammar named name.
// Returns llxdoc.Error in case of any problem.
func Parse(name string, r io.Reader, cfg Config) (*grammar.Grammar, error) {
	prods, e := ebnf.Parse(name, r)
	if e != nil {
		return nil, syntaxError(e)
	}

	return newCompiler(name, prods, cfg).compile()
}

// ParseString is a shortcut for Parse reading from a string.
func ParseString(name, src string, cfg Config) (*grammar.Grammar, error) {
	return Parse(name, strings.NewReader(src), cfg)
}

type compiler struct {
	prods    ebnf.Grammar
	cfg      Config
	order    []*ebnf.Production
	index    map[string]int
	start    string
	asides   map[string]bool
	result   *grammar.Grammar
	tokens   map[string]int
	literals map[string]int
	items    []*nonTermItem
	itemMap  map[string]*nonTermItem
	current  *nonTermItem
}

func newCompiler(name string, prods ebnf.Grammar, cfg Config) *compiler {
	order := make([]*ebnf.Production, 0, len(prods))
	for _, p := range prods {
		order = append(order, p)
	}
	sort.Slice(order, func(i, j int) bool {
		return order[i].Pos().Offset < order[j].Pos().Offset
	})

	index := make(map[string]int, len(order))
	for i, p := range order {
		index[p.Name.String] = i
	}

	return &compiler{
		prods:    prods,
		cfg:      cfg,
		order:    order,
		index:    index,
		asides:   make(map[string]bool),
		result:   &grammar.Grammar{Name: name},
		tokens:   make(map[string]int),
		literals: make(map[string]int),
		itemMap:  make(map[string]*nonTermItem),
	}
}

func (c *compiler) compile() (*grammar.Grammar, error) {
	steps := []func() error{
		c.checkProductions,
		c.findStart,
		c.checkAsides,
		c.checkUsage,
		c.collectTokens,
		c.collectNonTerms,
		c.buildStates,
	}
	for _, step := range steps {
		e := step()
		if e != nil {
			return nil, e
		}
	}

	return c.result, nil
}

func isLexical(name string) bool {
	r, _ := utf8.DecodeRuneInString(name)
	return unicode.IsUpper(r)
}

// walkExpr visits x and all nested expressions in preorder, stopping at the first error.
func walkExpr(x ebnf.Expression, visit func(ebnf.Expression) error) error {
	if x == nil {
		return nil
	}

	e := visit(x)
	if e != nil {
		return e
	}

	switch x := x.(type) {
	case ebnf.Alternative:
		for _, item := range x {
			e = walkExpr(item, visit)
			if e != nil {
				return e
			}
		}
	case ebnf.Sequence:
		for _, item := range x {
			e = walkExpr(item, visit)
			if e != nil {
				return e
			}
		}
	case *ebnf.Group:
		return walkExpr(x.Body, visit)
	case *ebnf.Option:
		return walkExpr(x.Body, visit)
	case *ebnf.Repetition:
		return walkExpr(x.Body, visit)
	}
	return nil
}

// eachExpr visits x and all nested expressions in preorder.
func eachExpr(x ebnf.Expression, visit func(ebnf.Expression)) {
	if x == nil {
		return
	}

	visit(x)
	switch x := x.(type) {
	case ebnf.Alternative:
		for _, item := range x {
			eachExpr(item, visit)
		}
	case ebnf.Sequence:
		for _, item := range x {
			eachExpr(item, visit)
		}
	case *ebnf.Group:
		eachExpr(x.Body, visit)
	case *ebnf.Option:
		eachExpr(x.Body, visit)
	case *ebnf.Repetition:
		eachExpr(x.Body, visit)
	}
}

func (c *compiler) checkProductions() error {
	for _, p := range c.order {
		name := p.Name.String
		lexical := isLexical(name)
		e := walkExpr(p.Expr, func(x ebnf.Expression) error {
			switch x := x.(type) {
			case *ebnf.Name:
				_, defined := c.prods[x.String]
				if !defined {
					return undefinedProductionError(x.Pos(), x.String)
				}
				if lexical && !isLexical(x.String) {
					return mixedProductionError(x.Pos(), "non-terminal "+x.String, name)
				}
			case *ebnf.Range:
				if !lexical {
					return mixedProductionError(x.Pos(), "character range", name)
				}
			}
			return nil
		})
		if e != nil {
			return e
		}
	}
	return nil
}

func (c *compiler) findStart() error {
	start := c.cfg.Start
	if start == "" {
		for _, p := range c.order {
			if !isLexical(p.Name.String) {
				start = p.Name.String
				break
			}
		}
	}

	if c.prods[start] == nil || isLexical(start) {
		return unknownStartError(start)
	}

	c.start = start
	return nil
}

func (c *compiler) checkAsides() error {
	for _, name := range c.cfg.Asides {
		if c.prods[name] == nil || !isLexical(name) {
			return wrongAsideError(name)
		}
		c.asides[name] = true
	}
	return nil
}

// checkUsage reports productions unreachable from the start production and aside tokens.
func (c *compiler) checkUsage() error {
	queue := ints.NewQueue(c.index[c.start])
	for _, name := range c.cfg.Asides {
		queue.Append(c.index[name])
	}

	for !queue.IsEmpty() {
		p := c.order[queue.Head()]
		eachExpr(p.Expr, func(x ebnf.Expression) {
			n, isName := x.(*ebnf.Name)
			if isName {
				queue.Append(c.index[n.String])
			}
		})
	}

	used := queue.Seen()
	var unused []string
	for i, p := range c.order {
		if !used.Contains(i) {
			unused = append(unused, p.Name.String)
		}
	}
	if len(unused) > 0 {
		return unusedProductionError(unused)
	}
	return nil
}
