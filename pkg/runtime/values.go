package runtime

import (
	"fmt"
	"sort"

	"gritql/engine-go/pkg/tree"
)

// Kind identifies the resolved-value category.
type Kind int

const (
	KindBinding Kind = iota
	KindFragments
	KindList
	KindMap
	KindFile
	KindFiles
	KindConstant
)

func (k Kind) String() string {
	switch k {
	case KindBinding:
		return "binding"
	case KindFragments:
		return "fragments"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	case KindFile:
		return "file"
	case KindFiles:
		return "files"
	case KindConstant:
		return "constant"
	default:
		return fmt.Sprintf("unknown_kind_%d", int(k))
	}
}

// Value is the resolved result of a pattern expression. Values never own
// the source tree; bindings and fragments borrow it read-only. A value is
// immutable after construction except for the explicit mutation operations
// (PushBinding, Extend, map/list item setters).
type Value interface {
	Kind() Kind
}

//-----------------------------------------------------------------------------
// Binding chains
//-----------------------------------------------------------------------------

// BindingValue is a non-empty ordered stack of bindings, oldest first.
// Rebinding appends rather than replaces, preserving history for
// range-tracking.
type BindingValue struct {
	Chain []Binding
}

func (v *BindingValue) Kind() Kind { return KindBinding }

// Last returns the most recent binding.
func (v *BindingValue) Last() (Binding, bool) {
	if v == nil || len(v.Chain) == 0 {
		return nil, false
	}
	return v.Chain[len(v.Chain)-1], true
}

// Push appends a binding, keeping earlier bindings for provenance.
func (v *BindingValue) Push(b Binding) {
	v.Chain = append(v.Chain, b)
}

// FromBinding wraps a single binding in a chain.
func FromBinding(b Binding) *BindingValue {
	return &BindingValue{Chain: []Binding{b}}
}

// FromNode binds a concrete tree node.
func FromNode(n tree.Node) *BindingValue {
	return FromBinding(NodeBinding{Node: n})
}

// FromTree binds the root of a parsed tree.
func FromTree(t *tree.Tree) *BindingValue {
	return FromNode(t.RootNode())
}

// FromEmptyBinding anchors an empty placeholder at a tree slot.
func FromEmptyBinding(anchor tree.Node, slot int) *BindingValue {
	return FromBinding(EmptyBinding{Anchor: anchor, Slot: slot})
}

// FromConstantBinding wraps a constant in binding position, as produced by
// optional accesses that find nothing.
func FromConstantBinding(c Constant) *BindingValue {
	return FromBinding(ConstantBinding{Constant: c})
}

//-----------------------------------------------------------------------------
// Fragments
//-----------------------------------------------------------------------------

// FragmentsValue is an ordered sequence of text/binding fragments used to
// build replacement text without premature stringification.
type FragmentsValue struct {
	Parts []Fragment
}

func (v *FragmentsValue) Kind() Kind { return KindFragments }

// FromString wraps owned text in a single literal fragment.
func FromString(text string) *FragmentsValue {
	return &FragmentsValue{Parts: []Fragment{TextFragment{Val: text}}}
}

// FromFragment wraps a single fragment.
func FromFragment(f Fragment) *FragmentsValue {
	return &FragmentsValue{Parts: []Fragment{f}}
}

//-----------------------------------------------------------------------------
// Composites
//-----------------------------------------------------------------------------

// ListValue is an ordered, heterogeneous sequence of values.
type ListValue struct {
	Elements []Value
}

func (v *ListValue) Kind() Kind { return KindList }

// ItemAt returns the element at index; negative indexes count from the end.
func (v *ListValue) ItemAt(index int) (Value, bool) {
	if v == nil {
		return nil, false
	}
	if index < 0 {
		index += len(v.Elements)
	}
	if index < 0 || index >= len(v.Elements) {
		return nil, false
	}
	return v.Elements[index], true
}

// SetItemAt replaces the element at index, reporting whether it existed.
func (v *ListValue) SetItemAt(index int, value Value) bool {
	if v == nil {
		return false
	}
	if index < 0 {
		index += len(v.Elements)
	}
	if index < 0 || index >= len(v.Elements) {
		return false
	}
	v.Elements[index] = value
	return true
}

// MapValue maps string keys to values. Iteration and rendering follow
// lexicographic key order regardless of construction order.
type MapValue struct {
	Entries map[string]Value
}

func (v *MapValue) Kind() Kind { return KindMap }

// NewMapValue returns an empty map value.
func NewMapValue() *MapValue {
	return &MapValue{Entries: make(map[string]Value)}
}

// Keys returns the keys in lexicographic order.
func (v *MapValue) Keys() []string {
	keys := make([]string, 0, len(v.Entries))
	for k := range v.Entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get looks up a key.
func (v *MapValue) Get(key string) (Value, bool) {
	val, ok := v.Entries[key]
	return val, ok
}

// Set stores a key, creating the entry map on first use.
func (v *MapValue) Set(key string, value Value) {
	if v.Entries == nil {
		v.Entries = make(map[string]Value)
	}
	v.Entries[key] = value
}

//-----------------------------------------------------------------------------
// Files
//-----------------------------------------------------------------------------

// ResolvedFile is a fully constructed (name, body) pair.
type ResolvedFile struct {
	Name Value
	Body Value
}

// FileValue is either an opaque pointer into the file registry or a fully
// resolved (name, body) pair. Exactly one of Ptr/Resolved is set.
type FileValue struct {
	Ptr      *FilePtr
	Resolved *ResolvedFile
}

func (v *FileValue) Kind() Kind { return KindFile }

// FromFilePtr wraps a registry pointer.
func FromFilePtr(ptr FilePtr) *FileValue {
	p := ptr
	return &FileValue{Ptr: &p}
}

// FromResolvedFile wraps a constructed (name, body) pair.
func FromResolvedFile(name, body Value) *FileValue {
	return &FileValue{Resolved: &ResolvedFile{Name: name, Body: body}}
}

// FilesValue wraps a value known to represent a collection of files.
type FilesValue struct {
	Inner Value
}

func (v *FilesValue) Kind() Kind { return KindFiles }

// FromFiles wraps a file collection.
func FromFiles(inner Value) *FilesValue {
	return &FilesValue{Inner: inner}
}

//-----------------------------------------------------------------------------
// Constants
//-----------------------------------------------------------------------------

// ConstantValue carries a scalar constant.
type ConstantValue struct {
	Constant Constant
}

func (v ConstantValue) Kind() Kind { return KindConstant }

// FromConstant wraps a constant.
func FromConstant(c Constant) ConstantValue {
	return ConstantValue{Constant: c}
}

// Undefined is the resolved form of an absent optional value.
func Undefined() ConstantValue {
	return ConstantValue{Constant: UndefinedConstant{}}
}

//-----------------------------------------------------------------------------
// Shared helpers
//-----------------------------------------------------------------------------

// LastBinding returns the most recent binding of a binding-chain value.
func LastBinding(v Value) (Binding, bool) {
	bv, ok := v.(*BindingValue)
	if !ok {
		return nil, false
	}
	return bv.Last()
}

// IsBinding reports whether v is a binding chain.
func IsBinding(v Value) bool {
	_, ok := v.(*BindingValue)
	return ok
}

// IsList reports whether v is a list.
func IsList(v Value) bool {
	_, ok := v.(*ListValue)
	return ok
}

// MatchesUndefined reports whether v resolves to the undefined constant,
// directly or through a constant binding.
func MatchesUndefined(v Value) bool {
	switch val := v.(type) {
	case ConstantValue:
		_, ok := val.Constant.(UndefinedConstant)
		return ok
	case *BindingValue:
		last, ok := val.Last()
		if !ok {
			return false
		}
		cb, ok := last.(ConstantBinding)
		if !ok {
			return false
		}
		_, ok = cb.Constant.(UndefinedConstant)
		return ok
	default:
		return false
	}
}

// Clone deep-copies container values so callers can hand the result to code
// that mutates lists or maps in place. Bindings are shared; they borrow the
// immutable tree and never change.
func Clone(v Value) Value {
	switch val := v.(type) {
	case *BindingValue:
		chain := make([]Binding, len(val.Chain))
		copy(chain, val.Chain)
		return &BindingValue{Chain: chain}
	case *FragmentsValue:
		parts := make([]Fragment, len(val.Parts))
		copy(parts, val.Parts)
		return &FragmentsValue{Parts: parts}
	case *ListValue:
		elements := make([]Value, len(val.Elements))
		for i, el := range val.Elements {
			elements[i] = Clone(el)
		}
		return &ListValue{Elements: elements}
	case *MapValue:
		entries := make(map[string]Value, len(val.Entries))
		for k, entry := range val.Entries {
			entries[k] = Clone(entry)
		}
		return &MapValue{Entries: entries}
	case *FileValue:
		if val.Resolved != nil {
			return FromResolvedFile(Clone(val.Resolved.Name), Clone(val.Resolved.Body))
		}
		if val.Ptr != nil {
			return FromFilePtr(*val.Ptr)
		}
		return &FileValue{}
	case *FilesValue:
		return &FilesValue{Inner: Clone(val.Inner)}
	case ConstantValue:
		return val
	default:
		return v
	}
}

// PushBinding appends a binding to a binding-chain value. Any other value
// kind cannot be rebound.
func PushBinding(v Value, b Binding) error {
	bv, ok := v.(*BindingValue)
	if !ok {
		return &UnsupportedConversionError{From: v.Kind().String(), To: "binding"}
	}
	bv.Push(b)
	return nil
}

// Position returns the source range of the most recent concrete binding.
func Position(v Value) (tree.Range, bool) {
	last, ok := LastBinding(v)
	if !ok {
		return tree.Range{}, false
	}
	return last.Range()
}
