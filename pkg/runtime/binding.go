package runtime

import (
	"strconv"
	"strings"

	"gritql/engine-go/pkg/tree"
)

//-----------------------------------------------------------------------------
// Constants
//-----------------------------------------------------------------------------

// Constant is a scalar literal carried by a resolved value.
type Constant interface {
	// String returns the canonical textual form.
	String() string
	Truthy() bool
	isConstant()
}

type IntegerConstant struct {
	Val int64
}

func (c IntegerConstant) String() string { return strconv.FormatInt(c.Val, 10) }
func (c IntegerConstant) Truthy() bool   { return c.Val != 0 }
func (IntegerConstant) isConstant()      {}

type FloatConstant struct {
	Val float64
}

// String renders the shortest round-trip form, always with a decimal point
// so float constants stay distinguishable from integers in rendered text.
func (c FloatConstant) String() string {
	s := strconv.FormatFloat(c.Val, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}
func (c FloatConstant) Truthy() bool { return c.Val != 0 }
func (FloatConstant) isConstant()    {}

type BooleanConstant struct {
	Val bool
}

func (c BooleanConstant) String() string { return strconv.FormatBool(c.Val) }
func (c BooleanConstant) Truthy() bool   { return c.Val }
func (BooleanConstant) isConstant()      {}

type StringConstant struct {
	Val string
}

func (c StringConstant) String() string { return c.Val }
func (c StringConstant) Truthy() bool   { return c.Val != "" }
func (StringConstant) isConstant()      {}

// UndefinedConstant is the result of an optional access that found nothing.
// It renders as empty text and is never truthy.
type UndefinedConstant struct{}

func (UndefinedConstant) String() string { return "" }
func (UndefinedConstant) Truthy() bool   { return false }
func (UndefinedConstant) isConstant()    {}

//-----------------------------------------------------------------------------
// Bindings
//-----------------------------------------------------------------------------

// Binding denotes a concrete location in the matched source tree, an empty
// placeholder anchored to a tree slot awaiting content, or a constant
// standing in for source text. Bindings borrow the tree read-only.
type Binding interface {
	// Text returns the bound source text, verbatim and lossless.
	Text() string
	Truthy() bool
	// Range returns the bound source span; ok is false when the binding has
	// no concrete location.
	Range() (tree.Range, bool)
	isBinding()
}

// NodeBinding points at a node in the matched source tree.
type NodeBinding struct {
	Node tree.Node
}

func (b NodeBinding) Text() string { return b.Node.Text() }
func (b NodeBinding) Truthy() bool { return true }
func (b NodeBinding) Range() (tree.Range, bool) {
	if b.Node.IsZero() {
		return tree.Range{}, false
	}
	return b.Node.Range(), true
}
func (NodeBinding) isBinding() {}

// EmptyBinding anchors a yet-unfilled slot of a tree node, identified by its
// compile-time slot index.
type EmptyBinding struct {
	Anchor tree.Node
	Slot   int
}

func (b EmptyBinding) Text() string { return "" }
func (b EmptyBinding) Truthy() bool { return false }
func (b EmptyBinding) Range() (tree.Range, bool) {
	return tree.Range{}, false
}
func (EmptyBinding) isBinding() {}

// ConstantBinding wraps a constant where a binding is expected, e.g. the
// undefined result of an optional access.
type ConstantBinding struct {
	Constant Constant
}

func (b ConstantBinding) Text() string {
	if b.Constant == nil {
		return ""
	}
	return b.Constant.String()
}
func (b ConstantBinding) Truthy() bool {
	if b.Constant == nil {
		return false
	}
	return b.Constant.Truthy()
}
func (b ConstantBinding) Range() (tree.Range, bool) {
	return tree.Range{}, false
}
func (ConstantBinding) isBinding() {}

//-----------------------------------------------------------------------------
// Fragments
//-----------------------------------------------------------------------------

// Fragment is the atomic unit of lazy text construction: literal text or a
// binding back into the source.
type Fragment interface {
	Text() string
	isFragment()
}

// TextFragment is a literal piece of synthesized text.
type TextFragment struct {
	Val string
}

func (f TextFragment) Text() string { return f.Val }
func (TextFragment) isFragment()    {}

// BindingFragment keeps provenance of a piece of replacement text traceable
// back to its source range until the final rendering step.
type BindingFragment struct {
	Binding Binding
}

func (f BindingFragment) Text() string {
	if f.Binding == nil {
		return ""
	}
	return f.Binding.Text()
}
func (BindingFragment) isFragment() {}
