package parser

// Event categories passed to Logger, one event per automaton action.
const (
	// ShiftEvent is emitted when a token is consumed.
	// Params: "symbol" (token type name), "text", "start", "end".
	ShiftEvent = "shift"

	// ReduceEvent is emitted when a non-terminal is complete.
	// Params: "symbol", "children" (number of child nodes), "start", "end".
	ReduceEvent = "reduce"

	// ReuseEvent is emitted when a non-terminal is copied from the previous tree.
	// Params: "symbol", "start", "end".
	ReuseEvent = "reuse"

	// AcceptEvent is emitted once the whole input is parsed.
	// Params: "symbol" (root non-terminal name), "end".
	AcceptEvent = "accept"
)

// Params holds event parameters.
// Any func(string, map[string]any) is a Logger.
type Params = map[string]any

// Logger receives parser events synchronously.
type Logger func(category string, params Params)

// emit passes the event to the logger. A panicking logger does not affect parsing:
// the recovered value is passed to the fault handler.
func (pc *ParseContext) emit(category string, params Params) {
	if pc.logger == nil {
		return
	}

	defer func() {
		if fault := recover(); fault != nil && pc.onFault != nil {
			pc.onFault(fault)
		}
	}()

	pc.logger(category, params)
}
