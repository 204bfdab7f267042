package lsp

import (
	"testing"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/ava12/llxdoc/internal/test"
	"github.com/ava12/llxdoc/langdef"
	"github.com/ava12/llxdoc/parser"
)

const (
	listGrammar = `
list = { item } .
item = Name | "(" list ")" .
Name = Letter { Letter } .
Letter = "a" … "z" | "𝔸" … "𝔻" .
Space = " " | "\n" | "\t" .
`
	uri = protocol.DocumentUri("file:///test.list")
)

type notification struct {
	method string
	params any
}

type client struct {
	t             *testing.T
	server        *Server
	context       *glsp.Context
	notifications []notification
}

func newClient(t *testing.T) *client {
	t.Helper()
	g, e := langdef.ParseString("list", listGrammar, langdef.Config{Asides: []string{"Space"}})
	test.ExpectNoError(t, e)

	c := &client{t: t, server: NewServer(Config{Version: "test", Language: g})}
	c.context = &glsp.Context{
		Notify: func(method string, params any) {
			c.notifications = append(c.notifications, notification{method, params})
		},
	}
	return c
}

func (c *client) open(text string) {
	c.t.Helper()
	test.ExpectNoError(c.t, c.server.Handler().TextDocumentDidOpen(c.context, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: uri, LanguageID: "list", Version: 1, Text: text},
	}))
}

func (c *client) change(changes ...any) error {
	return c.server.Handler().TextDocumentDidChange(c.context, &protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: uri},
			Version:                2,
		},
		ContentChanges: changes,
	})
}

func (c *client) symbols() ([]protocol.DocumentSymbol, error) {
	result, e := c.server.Handler().TextDocumentDocumentSymbol(c.context, &protocol.DocumentSymbolParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	})
	if e != nil {
		return nil, e
	}
	return result.([]protocol.DocumentSymbol), nil
}

// diagnostics returns the last published diagnostics.
func (c *client) diagnostics() []protocol.Diagnostic {
	c.t.Helper()
	test.Assert(c.t, len(c.notifications) > 0, "no notifications")
	n := c.notifications[len(c.notifications)-1]
	test.ExpectString(c.t, protocol.ServerTextDocumentPublishDiagnostics, n.method)
	params := n.params.(protocol.PublishDiagnosticsParams)
	test.ExpectString(c.t, string(uri), string(params.URI))
	test.Assert(c.t, params.Diagnostics != nil, "diagnostics must not be nil")
	return params.Diagnostics
}

func (c *client) text() string {
	return c.server.files[uri].text.String()
}

func (c *client) tree() string {
	return c.server.files[uri].document.RootNode().String()
}

func change(startLine, startChar, endLine, endChar int, text string) protocol.TextDocumentContentChangeEvent {
	return protocol.TextDocumentContentChangeEvent{
		Range: &protocol.Range{
			Start: protocol.Position{Line: protocol.UInteger(startLine), Character: protocol.UInteger(startChar)},
			End:   protocol.Position{Line: protocol.UInteger(endLine), Character: protocol.UInteger(endChar)},
		},
		Text: text,
	}
}

func expectPosition(t *testing.T, line, char int, p protocol.Position) {
	t.Helper()
	test.ExpectInt(t, line, int(p.Line))
	test.ExpectInt(t, char, int(p.Character))
}

func TestInitialize(t *testing.T) {
	c := newClient(t)
	result, e := c.server.Handler().Initialize(c.context, &protocol.InitializeParams{})
	test.ExpectNoError(t, e)

	ir := result.(protocol.InitializeResult)
	test.ExpectString(t, DefaultName, ir.ServerInfo.Name)
	test.ExpectString(t, "test", *ir.ServerInfo.Version)

	sync, ok := ir.Capabilities.TextDocumentSync.(*protocol.TextDocumentSyncOptions)
	test.Assert(t, ok, "unexpected sync options %T", ir.Capabilities.TextDocumentSync)
	test.ExpectBool(t, true, *sync.OpenClose)
	test.Expect(t, *sync.Change == protocol.TextDocumentSyncKindIncremental, protocol.TextDocumentSyncKindIncremental, *sync.Change)
}

func TestIncrementalChanges(t *testing.T) {
	c := newClient(t)
	c.open("a (b cd)\ne")
	test.ExpectInt(t, 0, len(c.diagnostics()))
	test.ExpectString(t, "(list (item) (item (list (item) (item))) (item))", c.tree())

	test.ExpectNoError(t, c.change(
		change(0, 0, 0, 0, "x "),
		change(1, 0, 1, 1, "(f g)"),
	))
	test.ExpectString(t, "x a (b cd)\n(f g)", c.text())
	test.ExpectInt(t, 0, len(c.diagnostics()))
	test.ExpectString(t, "(list (item) (item) (item (list (item) (item))) (item (list (item) (item))))", c.tree())

	test.ExpectNoError(t, c.change(change(0, 4, 0, 10, "")))
	test.ExpectString(t, "x a \n(f g)", c.text())
	test.ExpectString(t, "(list (item) (item) (item (list (item) (item))))", c.tree())
}

func TestSurrogatePairs(t *testing.T) {
	c := newClient(t)
	c.open("(𝔸 b)")
	test.ExpectInt(t, 0, len(c.diagnostics()))

	// "𝔸" takes 2 UTF-16 units.
	test.ExpectNoError(t, c.change(change(0, 4, 0, 5, "cd𝔹")))
	test.ExpectString(t, "(𝔸 cd𝔹)", c.text())
	test.ExpectInt(t, 0, len(c.diagnostics()))

	symbols, e := c.symbols()
	test.ExpectNoError(t, e)
	test.ExpectInt(t, 1, len(symbols))
	expectPosition(t, 0, 0, symbols[0].Range.Start)
	expectPosition(t, 0, 9, symbols[0].Range.End)
}

func TestDiagnostics(t *testing.T) {
	c := newClient(t)
	c.open("(a\n 𝔸 b")
	ds := c.diagnostics()
	test.ExpectInt(t, 1, len(ds))

	d := ds[0]
	test.ExpectString(t, `unexpected end of file, expecting ")" at line 2 col 5`, d.Message)
	test.ExpectString(t, DefaultName, *d.Source)
	test.Expect(t, *d.Severity == protocol.DiagnosticSeverityError, protocol.DiagnosticSeverityError, *d.Severity)
	test.Expect(t, d.Code.Value == protocol.Integer(parser.UnexpectedEofError), parser.UnexpectedEofError, d.Code.Value)
	expectPosition(t, 1, 5, d.Range.Start)
	expectPosition(t, 1, 5, d.Range.End)

	test.ExpectNoError(t, c.change(change(1, 5, 1, 5, ")")))
	test.ExpectInt(t, 0, len(c.diagnostics()))
	test.ExpectString(t, "(list (item (list (item) (item) (item))))", c.tree())
}

func TestWholeChange(t *testing.T) {
	c := newClient(t)
	c.open("a b")
	test.ExpectNoError(t, c.change(protocol.TextDocumentContentChangeEventWhole{Text: "(x)"}))
	test.ExpectString(t, "(x)", c.text())
	test.ExpectString(t, "(list (item (list (item))))", c.tree())

	test.ExpectNoError(t, c.change(protocol.TextDocumentContentChangeEvent{Text: "y"}))
	test.ExpectString(t, "(list (item))", c.tree())

	test.Assert(t, c.change("y") != nil, "expecting error for unknown change type")
}

func TestSymbols(t *testing.T) {
	c := newClient(t)
	c.open("a\n(b c)")
	symbols, e := c.symbols()
	test.ExpectNoError(t, e)
	test.ExpectInt(t, 1, len(symbols))

	root := symbols[0]
	test.ExpectString(t, "list", root.Name)
	test.Expect(t, root.Kind == protocol.SymbolKindStruct, protocol.SymbolKindStruct, root.Kind)
	test.ExpectInt(t, 2, len(root.Children))

	item := root.Children[1]
	test.ExpectString(t, "item", item.Name)
	expectPosition(t, 1, 0, item.Range.Start)
	expectPosition(t, 1, 5, item.Range.End)
	test.ExpectInt(t, 1, len(item.Children))
	test.ExpectString(t, "list", item.Children[0].Name)
	test.ExpectInt(t, 2, len(item.Children[0].Children))
}

func TestSymbolsAfterError(t *testing.T) {
	c := newClient(t)
	c.open("a")
	test.ExpectNoError(t, c.change(change(0, 1, 0, 1, " (")))
	test.ExpectInt(t, 1, len(c.diagnostics()))

	symbols, e := c.symbols()
	test.ExpectNoError(t, e)
	test.ExpectInt(t, 1, len(symbols))
	expectPosition(t, 0, 1, symbols[0].Range.End)
}

func TestClose(t *testing.T) {
	c := newClient(t)
	c.open("a")
	test.ExpectNoError(t, c.server.Handler().TextDocumentDidClose(c.context, &protocol.DidCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	}))
	test.ExpectInt(t, 0, len(c.server.files))

	test.Assert(t, c.change(change(0, 0, 0, 0, "b ")) != nil, "expecting error for closed document")
	_, e := c.symbols()
	test.Assert(t, e != nil, "expecting error for closed document")
}

func TestNoLanguage(t *testing.T) {
	c := newClient(t)
	c.server = NewServer(Config{Name: "none"})
	e := c.server.Handler().TextDocumentDidOpen(c.context, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: uri, Text: "a"},
	})
	test.Assert(t, e != nil, "expecting error")
	test.ExpectInt(t, 0, len(c.notifications))
}
