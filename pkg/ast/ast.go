package ast

// NodeType names a compiled pattern node kind.
type NodeType string

const (
	// Value-producing pattern kinds.
	NodeStringConstant      NodeType = "StringConstant"
	NodeIntConstant         NodeType = "IntConstant"
	NodeFloatConstant       NodeType = "FloatConstant"
	NodeBooleanConstant     NodeType = "BooleanConstant"
	NodeVariable            NodeType = "Variable"
	NodeList                NodeType = "List"
	NodeMap                 NodeType = "Map"
	NodeAccessor            NodeType = "Accessor"
	NodeListIndex           NodeType = "ListIndex"
	NodeFile                NodeType = "File"
	NodeCodeSnippet         NodeType = "CodeSnippet"
	NodeDynamicList         NodeType = "DynamicList"
	NodeDynamicSnippet      NodeType = "DynamicSnippet"
	NodeCallBuiltIn         NodeType = "CallBuiltIn"
	NodeCallFunction        NodeType = "CallFunction"
	NodeCallForeignFunction NodeType = "CallForeignFunction"
	NodeAdd                 NodeType = "Add"
	NodeSubtract            NodeType = "Subtract"
	NodeMultiply            NodeType = "Multiply"
	NodeDivide              NodeType = "Divide"
	NodeModulo              NodeType = "Modulo"
	NodeBefore              NodeType = "Before"
	NodeAfter               NodeType = "After"

	// Predicate-only pattern kinds. These are meaningful to the matcher but
	// can never produce a runtime value.
	NodeAstNode     NodeType = "AstNode"
	NodeAstLeafNode NodeType = "AstLeafNode"
	NodeCall        NodeType = "Call"
	NodeRegex       NodeType = "Regex"
	NodeFiles       NodeType = "Files"
	NodeBubble      NodeType = "Bubble"
	NodeLimit       NodeType = "Limit"
	NodeAssignment  NodeType = "Assignment"
	NodeAccumulate  NodeType = "Accumulate"
	NodeAnd         NodeType = "And"
	NodeOr          NodeType = "Or"
	NodeMaybe       NodeType = "Maybe"
	NodeAny         NodeType = "Any"
	NodeNot         NodeType = "Not"
	NodeIf          NodeType = "If"
	NodeUndefined   NodeType = "Undefined"
	NodeTop         NodeType = "Top"
	NodeBottom      NodeType = "Bottom"
	NodeUnderscore  NodeType = "Underscore"
	NodeRewrite     NodeType = "Rewrite"
	NodeLog         NodeType = "Log"
	NodeRange       NodeType = "Range"
	NodeContains    NodeType = "Contains"
	NodeIncludes    NodeType = "Includes"
	NodeWithin      NodeType = "Within"
	NodeWhere       NodeType = "Where"
	NodeSome        NodeType = "Some"
	NodeEvery       NodeType = "Every"
	NodeDots        NodeType = "Dots"
	NodeLike        NodeType = "Like"
	NodeSequential  NodeType = "Sequential"
)

// Pattern is the closed set of compiled pattern nodes. Patterns are produced
// by the query compiler and are read-only during evaluation.
type Pattern interface {
	NodeType() NodeType
	isPattern()
}

// DynamicPattern marks the subset of patterns allowed inside replacement
// templates: variables, accessors, list indexes, lists, snippets and calls.
type DynamicPattern interface {
	Pattern
	isDynamic()
}

type nodeImpl struct {
	Type NodeType `json:"type"`
}

func newNodeImpl(kind NodeType) nodeImpl {
	return nodeImpl{Type: kind}
}

func (n nodeImpl) NodeType() NodeType { return n.Type }
func (nodeImpl) isPattern()           {}

type dynamicMarker struct{}

func (dynamicMarker) isDynamic() {}

//-----------------------------------------------------------------------------
// Constants
//-----------------------------------------------------------------------------

type StringConstant struct {
	nodeImpl

	Text string `json:"text"`
}

func NewStringConstant(text string) *StringConstant {
	return &StringConstant{nodeImpl: newNodeImpl(NodeStringConstant), Text: text}
}

type IntConstant struct {
	nodeImpl

	Value int64 `json:"value"`
}

func NewIntConstant(value int64) *IntConstant {
	return &IntConstant{nodeImpl: newNodeImpl(NodeIntConstant), Value: value}
}

type FloatConstant struct {
	nodeImpl

	Value float64 `json:"value"`
}

func NewFloatConstant(value float64) *FloatConstant {
	return &FloatConstant{nodeImpl: newNodeImpl(NodeFloatConstant), Value: value}
}

type BooleanConstant struct {
	nodeImpl

	Value bool `json:"value"`
}

func NewBooleanConstant(value bool) *BooleanConstant {
	return &BooleanConstant{nodeImpl: newNodeImpl(NodeBooleanConstant), Value: value}
}

//-----------------------------------------------------------------------------
// Variables
//-----------------------------------------------------------------------------

// Variable references a compile-time-assigned (scope, slot) cell. Slot
// assignment is a compiler invariant; the evaluator does not range-check it.
type Variable struct {
	nodeImpl
	dynamicMarker

	Scope int    `json:"scope"`
	Slot  int    `json:"slot"`
	Name  string `json:"name"`
}

func NewVariable(scope, slot int, name string) *Variable {
	return &Variable{nodeImpl: newNodeImpl(NodeVariable), Scope: scope, Slot: slot, Name: name}
}

//-----------------------------------------------------------------------------
// Composites
//-----------------------------------------------------------------------------

type List struct {
	nodeImpl

	Patterns []Pattern `json:"patterns"`
}

func NewList(patterns []Pattern) *List {
	return &List{nodeImpl: newNodeImpl(NodeList), Patterns: patterns}
}

// MapElement is one key/value pair of a map literal, in declared order.
type MapElement struct {
	Key   string  `json:"key"`
	Value Pattern `json:"value"`
}

type Map struct {
	nodeImpl

	Elements []MapElement `json:"elements"`
}

func NewMap(elements []MapElement) *Map {
	return &Map{nodeImpl: newNodeImpl(NodeMap), Elements: elements}
}

// Accessor is a key lookup on a map literal or a map-valued variable. The
// key is either a string constant or a variable that renders to the key.
type Accessor struct {
	nodeImpl
	dynamicMarker

	Map Pattern `json:"map"`
	Key Pattern `json:"key"`
}

func NewAccessor(m, key Pattern) *Accessor {
	return &Accessor{nodeImpl: newNodeImpl(NodeAccessor), Map: m, Key: key}
}

// ListIndex is an element lookup on a list literal or a list-valued
// variable. Negative indexes count from the end.
type ListIndex struct {
	nodeImpl
	dynamicMarker

	List  Pattern `json:"list"`
	Index Pattern `json:"index"`
}

func NewListIndex(list, index Pattern) *ListIndex {
	return &ListIndex{nodeImpl: newNodeImpl(NodeListIndex), List: list, Index: index}
}

// FilePattern constructs a file value from a name pattern and a body pattern.
type FilePattern struct {
	nodeImpl

	Name Pattern `json:"name"`
	Body Pattern `json:"body"`
}

func NewFilePattern(name, body Pattern) *FilePattern {
	return &FilePattern{nodeImpl: newNodeImpl(NodeFile), Name: name, Body: body}
}

// CodeSnippet is a source-language snippet. When the snippet contains
// variable splices the compiler attaches its dynamic form; only that form
// can be evaluated as a value.
type CodeSnippet struct {
	nodeImpl

	Source  string         `json:"source"`
	Dynamic DynamicPattern `json:"dynamic,omitempty"`
}

func NewCodeSnippet(source string, dynamic DynamicPattern) *CodeSnippet {
	return &CodeSnippet{nodeImpl: newNodeImpl(NodeCodeSnippet), Source: source, Dynamic: dynamic}
}

//-----------------------------------------------------------------------------
// Dynamic sub-language
//-----------------------------------------------------------------------------

type DynamicList struct {
	nodeImpl
	dynamicMarker

	Elements []DynamicPattern `json:"elements"`
}

func NewDynamicList(elements []DynamicPattern) *DynamicList {
	return &DynamicList{nodeImpl: newNodeImpl(NodeDynamicList), Elements: elements}
}

// SnippetPart is one segment of an interpolation template.
type SnippetPart interface {
	isSnippetPart()
}

// SnippetText is a literal text segment.
type SnippetText struct {
	Text string `json:"text"`
}

func (SnippetText) isSnippetPart() {}

// SnippetVariable splices a variable's resolved value into the template.
type SnippetVariable struct {
	Variable *Variable `json:"variable"`
}

func (SnippetVariable) isSnippetPart() {}

// DynamicSnippet is an ordered interpolation template of literal text and
// variable splices.
type DynamicSnippet struct {
	nodeImpl
	dynamicMarker

	Parts []SnippetPart `json:"parts"`
}

func NewDynamicSnippet(parts []SnippetPart) *DynamicSnippet {
	return &DynamicSnippet{nodeImpl: newNodeImpl(NodeDynamicSnippet), Parts: parts}
}

//-----------------------------------------------------------------------------
// Calls
//-----------------------------------------------------------------------------

type CallBuiltIn struct {
	nodeImpl
	dynamicMarker

	Name string    `json:"name"`
	Args []Pattern `json:"args"`
}

func NewCallBuiltIn(name string, args []Pattern) *CallBuiltIn {
	return &CallBuiltIn{nodeImpl: newNodeImpl(NodeCallBuiltIn), Name: name, Args: args}
}

type CallFunction struct {
	nodeImpl
	dynamicMarker

	Name string    `json:"name"`
	Args []Pattern `json:"args"`
}

func NewCallFunction(name string, args []Pattern) *CallFunction {
	return &CallFunction{nodeImpl: newNodeImpl(NodeCallFunction), Name: name, Args: args}
}

// CallForeignFunction invokes a function hosted outside the query language.
// Evaluating one is a documented unsupported case.
type CallForeignFunction struct {
	nodeImpl
	dynamicMarker

	Name string    `json:"name"`
	Args []Pattern `json:"args"`
}

func NewCallForeignFunction(name string, args []Pattern) *CallForeignFunction {
	return &CallForeignFunction{nodeImpl: newNodeImpl(NodeCallForeignFunction), Name: name, Args: args}
}

//-----------------------------------------------------------------------------
// Arithmetic and navigation
//-----------------------------------------------------------------------------

type Add struct {
	nodeImpl

	Left  Pattern `json:"left"`
	Right Pattern `json:"right"`
}

func NewAdd(left, right Pattern) *Add {
	return &Add{nodeImpl: newNodeImpl(NodeAdd), Left: left, Right: right}
}

type Subtract struct {
	nodeImpl

	Left  Pattern `json:"left"`
	Right Pattern `json:"right"`
}

func NewSubtract(left, right Pattern) *Subtract {
	return &Subtract{nodeImpl: newNodeImpl(NodeSubtract), Left: left, Right: right}
}

type Multiply struct {
	nodeImpl

	Left  Pattern `json:"left"`
	Right Pattern `json:"right"`
}

func NewMultiply(left, right Pattern) *Multiply {
	return &Multiply{nodeImpl: newNodeImpl(NodeMultiply), Left: left, Right: right}
}

type Divide struct {
	nodeImpl

	Left  Pattern `json:"left"`
	Right Pattern `json:"right"`
}

func NewDivide(left, right Pattern) *Divide {
	return &Divide{nodeImpl: newNodeImpl(NodeDivide), Left: left, Right: right}
}

type Modulo struct {
	nodeImpl

	Left  Pattern `json:"left"`
	Right Pattern `json:"right"`
}

func NewModulo(left, right Pattern) *Modulo {
	return &Modulo{nodeImpl: newNodeImpl(NodeModulo), Left: left, Right: right}
}

// Before resolves to the named sibling preceding the node its inner pattern
// binds to.
type Before struct {
	nodeImpl

	Pattern Pattern `json:"pattern"`
}

func NewBefore(pattern Pattern) *Before {
	return &Before{nodeImpl: newNodeImpl(NodeBefore), Pattern: pattern}
}

// After resolves to the named sibling following the node its inner pattern
// binds to.
type After struct {
	nodeImpl

	Pattern Pattern `json:"pattern"`
}

func NewAfter(pattern Pattern) *After {
	return &After{nodeImpl: newNodeImpl(NodeAfter), Pattern: pattern}
}
