package lsp

import (
	"errors"
	"fmt"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/ava12/llxdoc"
	"github.com/ava12/llxdoc/document"
	"github.com/ava12/llxdoc/source"
	"github.com/ava12/llxdoc/tree"
)

func (s *Server) initialize(context *glsp.Context, params *protocol.InitializeParams) (any, error) {
	capabilities := s.handler.CreateServerCapabilities()

	syncKind := protocol.TextDocumentSyncKindIncremental
	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: &protocol.True,
		Change:    &syncKind,
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    s.config.Name,
			Version: &s.config.Version,
		},
	}, nil
}

func (s *Server) initialized(context *glsp.Context, params *protocol.InitializedParams) error {
	logger().Info("client initialized")
	return nil
}

func (s *Server) shutdown(context *glsp.Context) error {
	protocol.SetTraceValue(protocol.TraceValueOff)
	return nil
}

func (s *Server) setTrace(context *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (s *Server) textDocumentDidOpen(context *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	uri := params.TextDocument.URI
	doc := document.New()
	e := doc.SetLanguage(s.config.Language)
	if e != nil {
		return fmt.Errorf("open %s: %w", uri, e)
	}

	f := newFile(uri, doc)
	f.setText(params.TextDocument.Text)
	s.files[uri] = f
	logger().Debugf("opened %s", uri)
	s.publish(context, f, f.parse())
	return nil
}

func (s *Server) textDocumentDidChange(context *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	uri := params.TextDocument.URI
	f, found := s.files[uri]
	if !found {
		return fmt.Errorf("change %s: document is not open", uri)
	}

	for _, change := range params.ContentChanges {
		switch c := change.(type) {
		case protocol.TextDocumentContentChangeEvent:
			if c.Range == nil {
				f.setText(c.Text)
				continue
			}
			e := f.applyChange(*c.Range, c.Text)
			if e != nil {
				return fmt.Errorf("change %s: %w", uri, e)
			}
		case protocol.TextDocumentContentChangeEventWhole:
			f.setText(c.Text)
		default:
			return fmt.Errorf("change %s: unsupported change type %T", uri, change)
		}
	}

	e := f.parse()
	if e == nil {
		logger().Debugf("reparsed %s, reused %d nodes", uri, f.document.Tree().Stats().Reused)
	}
	s.publish(context, f, e)
	return nil
}

func (s *Server) textDocumentDidClose(context *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	delete(s.files, params.TextDocument.URI)
	logger().Debugf("closed %s", params.TextDocument.URI)
	return nil
}

func (s *Server) textDocumentDocumentSymbol(context *glsp.Context, params *protocol.DocumentSymbolParams) (any, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	uri := params.TextDocument.URI
	f, found := s.files[uri]
	if !found {
		return nil, fmt.Errorf("symbols %s: document is not open", uri)
	}

	root := f.document.RootNode()
	if !root.IsValid() {
		return []protocol.DocumentSymbol{}, nil
	}
	return []protocol.DocumentSymbol{f.symbol(root)}, nil
}

// symbol converts non-terminal node and its non-terminal descendants.
func (f *file) symbol(n tree.Node) protocol.DocumentSymbol {
	r := f.rangeOf(f.parsed, n.Start(), n.End())
	result := protocol.DocumentSymbol{
		Name:           n.Type(),
		Kind:           protocol.SymbolKindStruct,
		Range:          r,
		SelectionRange: r,
	}

	for _, c := range n.NonTermChildren() {
		result.Children = append(result.Children, f.symbol(c))
	}
	return result
}

// publish sends diagnostics for the parse result, an empty list clears previous ones.
func (s *Server) publish(context *glsp.Context, f *file, parseError error) {
	diagnostics := []protocol.Diagnostic{}
	if parseError != nil {
		diagnostics = append(diagnostics, s.diagnostic(f, parseError))
	}

	context.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         f.uri,
		Diagnostics: diagnostics,
	})
}

func (s *Server) diagnostic(f *file, e error) protocol.Diagnostic {
	severity := protocol.DiagnosticSeverityError
	result := protocol.Diagnostic{
		Severity: &severity,
		Source:   &s.config.Name,
		Message:  e.Error(),
	}

	var le *llxdoc.Error
	if errors.As(e, &le) {
		result.Code = &protocol.IntegerOrString{Value: protocol.Integer(le.Code)}
		if le.Line > 0 {
			offset := f.text.Offset(source.NewPoint(le.Line, le.Col))
			end := offset
			if end < f.text.Len() {
				end++
			}
			result.Range = f.rangeOf(f.text, offset, end)
		}
	}
	return result
}
