// Package document keeps a syntax tree current while the text it was built from is edited.
//
// A Document is parseable once both language and input are set. Each successful Parse
// installs a new tree and invalidates the previous one; edits queued since the previous
// parse let the parser reuse undamaged subtrees.
package document

import (
	"reflect"

	"github.com/tliron/commonlog"

	"github.com/ava12/llxdoc"
	"github.com/ava12/llxdoc/grammar"
	"github.com/ava12/llxdoc/parser"
	"github.com/ava12/llxdoc/source"
	"github.com/ava12/llxdoc/tree"
)

// Error codes used by document:
const (
	InvalidLanguageError = llxdoc.DocumentErrors + iota
	InvalidInputError
	InvalidLoggerError
	InvalidEditError
)

// LoggerFaultMessage tags logger faults passed to the diagnostic sink.
const LoggerFaultMessage = "Error in debug callback:"

// DiagnosticSink receives faults that must not interrupt parsing.
type DiagnosticSink func(message string, fault any)

// DefaultSink writes faults to the "llxdoc.document" logger.
func DefaultSink(message string, fault any) {
	commonlog.GetLogger("llxdoc.document").Errorf("%s %v", message, fault)
}

// Document is not safe for concurrent use.
type Document struct {
	language    grammar.Language
	parser      *parser.Parser
	input       any
	source      source.Input
	tree        *tree.Tree
	edits       []tree.Edit
	invalidated bool
	logger      parser.Logger
	sink        DiagnosticSink
}

// New creates an empty document.
func New() *Document {
	return &Document{sink: DefaultSink}
}

// SetLanguage sets the language used by subsequent parses.
// The next parse will not reuse the current tree.
// Returns InvalidLanguageError and leaves the document unchanged if v is not a usable grammar.Language.
func (d *Document) SetLanguage(v any) error {
	l, ok := v.(grammar.Language)
	if !ok || isNil(v) {
		return llxdoc.FormatError(InvalidLanguageError, "language must implement Grammar()")
	}

	g := l.Grammar()
	if g == nil {
		return llxdoc.FormatError(InvalidLanguageError, "language has no grammar")
	}

	p, e := parser.New(g)
	if e != nil {
		return llxdoc.FormatError(InvalidLanguageError, "invalid language: %s", e.Error())
	}

	d.language = l
	d.parser = p
	d.invalidated = true
	return nil
}

// Language returns current language or nil.
func (d *Document) Language() grammar.Language {
	return d.language
}

// SetInput sets input object or clears input if v is nil.
// v must implement source.Input; scalar values are rejected.
func (d *Document) SetInput(v any) error {
	if v == nil {
		d.input = nil
		d.source = nil
		return nil
	}

	if !isObject(v) {
		return llxdoc.FormatError(InvalidInputError, "input must be an object")
	}
	if _, ok := v.(source.Reader); !ok {
		return llxdoc.FormatError(InvalidInputError, "input must implement Read()")
	}
	if _, ok := v.(source.Seeker); !ok {
		return llxdoc.FormatError(InvalidInputError, "input must implement Seek()")
	}

	d.input = v
	d.source = v.(source.Input)
	return nil
}

// SetInputString sets the whole text as input.
func (d *Document) SetInputString(text string) *Document {
	d.input = text
	d.source = source.NewStringInput(text)
	return d
}

// Input returns exactly the value last passed to SetInput or SetInputString, or nil.
func (d *Document) Input() any {
	return d.input
}

// Parse builds a new tree if both language and input are set, does nothing otherwise.
// The tree is built incrementally if there is a current tree, pending edits,
// and the document was not invalidated since the previous parse.
// On error the document state is not changed.
func (d *Document) Parse() error {
	if d.parser == nil || d.source == nil {
		return nil
	}

	opts := &parser.Options{
		Logger:        d.logger,
		OnLoggerFault: d.reportLoggerFault,
	}
	if !d.invalidated && d.tree.IsValid() && len(d.edits) > 0 {
		opts.Previous = d.tree
		opts.Edits = d.edits
	}

	t, e := d.parser.Parse(d.source, opts)
	if e != nil {
		return e
	}

	if d.tree != nil {
		d.tree.Invalidate()
	}
	d.tree = t
	d.edits = nil
	d.invalidated = false
	return nil
}

// Edit queues a text change made since the previous parse.
// Positions are counted in the text with all previously queued edits applied.
func (d *Document) Edit(e tree.Edit) error {
	if !e.IsValid() {
		return llxdoc.FormatError(InvalidEditError, "invalid edit: position %d, inserted %d, removed %d",
			e.Position, e.CharsInserted, e.CharsRemoved)
	}

	d.edits = append(d.edits, e)
	return nil
}

// Edits returns pending edits.
func (d *Document) Edits() []tree.Edit {
	return d.edits
}

// Invalidate makes the next parse start from scratch.
func (d *Document) Invalidate() *Document {
	d.invalidated = true
	return d
}

// SetLogger sets debug event logger.
// nil, nil functions, and zero scalars (false, 0, "") clear the logger;
// parser.Logger and func(string, map[string]any) set it.
// Returns InvalidLoggerError for any other value.
func (d *Document) SetLogger(v any) error {
	switch l := v.(type) {
	case nil:
		d.logger = nil
	case parser.Logger:
		d.logger = l
	case func(string, parser.Params):
		d.logger = l
	default:
		if !isZeroScalar(v) {
			return llxdoc.FormatError(InvalidLoggerError, "logger must be a function, got %T", v)
		}
		d.logger = nil
	}

	return nil
}

// Logger returns current logger or nil.
func (d *Document) Logger() parser.Logger {
	return d.logger
}

// SetDiagnosticSink sets the receiver of logger faults, nil restores DefaultSink.
func (d *Document) SetDiagnosticSink(s DiagnosticSink) *Document {
	if s == nil {
		s = DefaultSink
	}
	d.sink = s
	return d
}

func (d *Document) reportLoggerFault(fault any) {
	d.sink(LoggerFaultMessage, fault)
}

// Tree returns current tree or nil.
func (d *Document) Tree() *tree.Tree {
	return d.tree
}

// RootNode returns the root of current tree, invalid node if there is no tree.
func (d *Document) RootNode() tree.Node {
	return d.tree.RootNode()
}

// Children returns child nodes of the root, nil if there is no tree.
func (d *Document) Children() []tree.Node {
	return d.RootNode().Children()
}

func isNil(v any) bool {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

func isZeroScalar(v any) bool {
	rv := reflect.ValueOf(v)
	return !isObject(v) && !isNil(v) && rv.IsZero()
}

// isObject returns false for scalars and nil references.
func isObject(v any) bool {
	switch reflect.ValueOf(v).Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return false
	}
	return !isNil(v)
}
