// Package lsp exposes documents of a single language to editors via the Language Server Protocol.
//
// Every opened text is kept in a document; incremental changes sent by the editor are
// converted to edits, so that reparsing reuses undamaged parts of the previous tree.
// Syntax errors are published as diagnostics, the tree is available as document symbols.
package lsp

import (
	"sync"

	"github.com/tliron/commonlog"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"github.com/ava12/llxdoc/document"
	"github.com/ava12/llxdoc/grammar"
	"github.com/ava12/llxdoc/source"
	"github.com/ava12/llxdoc/tree"
)

const DefaultName = "llxdoc"

type Config struct {
	// Name is used as server name and diagnostics source, DefaultName if empty.
	Name    string
	Version string

	Language grammar.Language
}

type Server struct {
	config  Config
	handler *protocol.Handler
	mutex   sync.Mutex
	files   map[protocol.DocumentUri]*file
}

// file holds the state of an opened text.
type file struct {
	uri      protocol.DocumentUri
	document *document.Document
	text     *source.Text
	parsed   *source.Text
}

func NewServer(config Config) *Server {
	if config.Name == "" {
		config.Name = DefaultName
	}

	s := &Server{
		config: config,
		files:  make(map[protocol.DocumentUri]*file),
	}
	s.handler = &protocol.Handler{
		Initialize:                 s.initialize,
		Initialized:                s.initialized,
		Shutdown:                   s.shutdown,
		SetTrace:                   s.setTrace,
		TextDocumentDidOpen:        s.textDocumentDidOpen,
		TextDocumentDidChange:      s.textDocumentDidChange,
		TextDocumentDidClose:       s.textDocumentDidClose,
		TextDocumentDocumentSymbol: s.textDocumentDocumentSymbol,
	}
	return s
}

func (s *Server) Handler() *protocol.Handler {
	return s.handler
}

// RunStdio serves a single client via standard input and output.
func (s *Server) RunStdio() error {
	logger().Infof("starting %s server", s.config.Name)
	return server.NewServer(s.handler, s.config.Name, false).RunStdio()
}

func logger() commonlog.Logger {
	return commonlog.GetLogger("llxdoc.lsp")
}

func newFile(uri protocol.DocumentUri, doc *document.Document) *file {
	return &file{uri: uri, document: doc}
}

// setText replaces the whole text, the next parse starts from scratch.
func (f *file) setText(text string) {
	f.text = source.NewText(string(f.uri), text)
	f.document.Invalidate()
}

// applyChange replaces the text between two LSP positions and queues the edit.
func (f *file) applyChange(r protocol.Range, text string) error {
	start := f.text.OffsetUTF16(int(r.Start.Line), int(r.Start.Character))
	end := f.text.OffsetUTF16(int(r.End.Line), int(r.End.Character))
	if end < start {
		start, end = end, start
	}

	e := f.document.Edit(tree.Edit{Position: start, CharsInserted: source.Len(text), CharsRemoved: end - start})
	if e != nil {
		return e
	}

	f.text = source.NewText(string(f.uri), f.text.Slice(0, start)+text+f.text.Slice(end, f.text.Len()))
	return nil
}

// parse reparses current text; on success the tree corresponds to f.parsed.
func (f *file) parse() error {
	e := f.document.SetInputString(f.text.String()).Parse()
	if e == nil {
		f.parsed = f.text
	}
	return e
}

func (f *file) position(t *source.Text, offset int) protocol.Position {
	line, units := t.PositionUTF16(offset)
	return protocol.Position{Line: protocol.UInteger(line), Character: protocol.UInteger(units)}
}

func (f *file) rangeOf(t *source.Text, start, end int) protocol.Range {
	return protocol.Range{Start: f.position(t, start), End: f.position(t, end)}
}
