package runtime

import (
	"fmt"

	"gritql/engine-go/pkg/ast"
)

// EffectKind classifies a pending rewrite.
type EffectKind int

const (
	// EffectRewrite replaces the bound range with the replacement value.
	EffectRewrite EffectKind = iota
	// EffectInsert appends the replacement value after the bound range.
	EffectInsert
)

func (k EffectKind) String() string {
	switch k {
	case EffectRewrite:
		return "rewrite"
	case EffectInsert:
		return "insert"
	default:
		return fmt.Sprintf("unknown_effect_%d", int(k))
	}
}

// Effect is one entry of the pending-rewrite log: a source binding and the
// value that will replace or extend it. A linearizer outside this package
// merges effects into output text in one pass.
type Effect struct {
	Binding     Binding
	Replacement Value
	Kind        EffectKind
}

// VariableContent is one scope slot: a cached resolved value, a deferred
// pattern awaiting evaluation, or neither (unbound).
type VariableContent struct {
	Name    string
	Value   Value
	Pattern ast.Pattern
}

// ScopeFrame is one pushed frame of a scope: slots indexed by the
// compile-time-assigned slot id.
type ScopeFrame []*VariableContent

// State is the variable-binding state threaded through one evaluation. The
// matcher owns scope creation, frame push/pop and slot caching policy; the
// evaluator only reads slots and appends effects. Access is exclusive for
// the duration of one evaluation; callers serialize.
type State struct {
	scopes  [][]ScopeFrame
	Effects []Effect
	Files   *FileRegistry
}

// NewState returns a state backed by the given file registry.
func NewState(files *FileRegistry) *State {
	return &State{Files: files}
}

// RegisterScope allocates the next scope id with one initial frame holding
// the named slots, returning the id.
func (s *State) RegisterScope(names ...string) int {
	id := len(s.scopes)
	s.scopes = append(s.scopes, nil)
	s.PushScope(id, names...)
	return id
}

// PushScope pushes a fresh frame for a scope, as on entering a nested
// invocation.
func (s *State) PushScope(scope int, names ...string) {
	for len(s.scopes) <= scope {
		s.scopes = append(s.scopes, nil)
	}
	frame := make(ScopeFrame, len(names))
	for i, name := range names {
		frame[i] = &VariableContent{Name: name}
	}
	s.scopes[scope] = append(s.scopes[scope], frame)
}

// PopScope discards the innermost frame of a scope.
func (s *State) PopScope(scope int) {
	frames := s.scopes[scope]
	if len(frames) == 0 {
		panic(fmt.Sprintf("runtime: pop on scope %d with no frames", scope))
	}
	s.scopes[scope] = frames[:len(frames)-1]
}

// Lookup returns the slot content at (scope, slot) in the innermost active
// frame of that scope. Slot assignment is a compiler invariant, so an
// out-of-range index is an internal inconsistency, not a user error.
func (s *State) Lookup(scope, slot int) *VariableContent {
	if scope < 0 || scope >= len(s.scopes) || len(s.scopes[scope]) == 0 {
		panic(fmt.Sprintf("runtime: lookup in unregistered scope %d", scope))
	}
	frames := s.scopes[scope]
	frame := frames[len(frames)-1]
	if slot < 0 || slot >= len(frame) {
		panic(fmt.Sprintf("runtime: slot %d out of range for scope %d", slot, scope))
	}
	return frame[slot]
}

// AddEffect appends one entry to the pending-rewrite log.
func (s *State) AddEffect(binding Binding, replacement Value, kind EffectKind) {
	s.Effects = append(s.Effects, Effect{Binding: binding, Replacement: replacement, Kind: kind})
}

// Extend grows a value in place: lists gain an element; a binding chain
// gains a binding and records a pending insert effect against its previous
// head. Other kinds cannot be extended.
func Extend(v Value, with Value, state *State) error {
	switch val := v.(type) {
	case *ListValue:
		val.Elements = append(val.Elements, with)
		return nil
	case *BindingValue:
		last, ok := val.Last()
		if !ok {
			return &MissingBindingError{}
		}
		state.AddEffect(last, with, EffectInsert)
		return nil
	default:
		return &UnsupportedConversionError{From: v.Kind().String(), To: "extended value"}
	}
}
