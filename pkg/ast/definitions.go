package ast

// Predicate-only pattern kinds. The matcher consumes these during search;
// the evaluator rejects them with an unsupported-pattern-kind failure. Their
// fields carry just enough structure for a compiler to populate and for the
// matcher contract to be expressed.

type And struct {
	nodeImpl

	Patterns []Pattern `json:"patterns"`
}

func NewAnd(patterns []Pattern) *And {
	return &And{nodeImpl: newNodeImpl(NodeAnd), Patterns: patterns}
}

type Or struct {
	nodeImpl

	Patterns []Pattern `json:"patterns"`
}

func NewOr(patterns []Pattern) *Or {
	return &Or{nodeImpl: newNodeImpl(NodeOr), Patterns: patterns}
}

type Any struct {
	nodeImpl

	Patterns []Pattern `json:"patterns"`
}

func NewAny(patterns []Pattern) *Any {
	return &Any{nodeImpl: newNodeImpl(NodeAny), Patterns: patterns}
}

type Maybe struct {
	nodeImpl

	Pattern Pattern `json:"pattern"`
}

func NewMaybe(pattern Pattern) *Maybe {
	return &Maybe{nodeImpl: newNodeImpl(NodeMaybe), Pattern: pattern}
}

type Not struct {
	nodeImpl

	Pattern Pattern `json:"pattern"`
}

func NewNot(pattern Pattern) *Not {
	return &Not{nodeImpl: newNodeImpl(NodeNot), Pattern: pattern}
}

type If struct {
	nodeImpl

	Condition Pattern `json:"condition"`
	Then      Pattern `json:"then"`
	Else      Pattern `json:"else,omitempty"`
}

func NewIf(condition, then, els Pattern) *If {
	return &If{nodeImpl: newNodeImpl(NodeIf), Condition: condition, Then: then, Else: els}
}

type Contains struct {
	nodeImpl

	Contains Pattern `json:"contains"`
	Until    Pattern `json:"until,omitempty"`
}

func NewContains(contains, until Pattern) *Contains {
	return &Contains{nodeImpl: newNodeImpl(NodeContains), Contains: contains, Until: until}
}

type Includes struct {
	nodeImpl

	Includes Pattern `json:"includes"`
}

func NewIncludes(includes Pattern) *Includes {
	return &Includes{nodeImpl: newNodeImpl(NodeIncludes), Includes: includes}
}

type Within struct {
	nodeImpl

	Pattern Pattern `json:"pattern"`
}

func NewWithin(pattern Pattern) *Within {
	return &Within{nodeImpl: newNodeImpl(NodeWithin), Pattern: pattern}
}

type Where struct {
	nodeImpl

	Pattern       Pattern `json:"pattern"`
	SideCondition Pattern `json:"sideCondition,omitempty"`
}

func NewWhere(pattern, sideCondition Pattern) *Where {
	return &Where{nodeImpl: newNodeImpl(NodeWhere), Pattern: pattern, SideCondition: sideCondition}
}

type Some struct {
	nodeImpl

	Pattern Pattern `json:"pattern"`
}

func NewSome(pattern Pattern) *Some {
	return &Some{nodeImpl: newNodeImpl(NodeSome), Pattern: pattern}
}

type Every struct {
	nodeImpl

	Pattern Pattern `json:"pattern"`
}

func NewEvery(pattern Pattern) *Every {
	return &Every{nodeImpl: newNodeImpl(NodeEvery), Pattern: pattern}
}

type Rewrite struct {
	nodeImpl

	Left  Pattern `json:"left"`
	Right Pattern `json:"right"`
}

func NewRewrite(left, right Pattern) *Rewrite {
	return &Rewrite{nodeImpl: newNodeImpl(NodeRewrite), Left: left, Right: right}
}

type Log struct {
	nodeImpl

	Variable *Variable `json:"variable,omitempty"`
	Message  Pattern   `json:"message,omitempty"`
}

func NewLog(variable *Variable, message Pattern) *Log {
	return &Log{nodeImpl: newNodeImpl(NodeLog), Variable: variable, Message: message}
}

// RangePattern restricts matches to a line/column window of the source.
type RangePattern struct {
	nodeImpl

	StartLine   int `json:"startLine"`
	StartColumn int `json:"startColumn"`
	EndLine     int `json:"endLine"`
	EndColumn   int `json:"endColumn"`
}

func NewRangePattern(startLine, startColumn, endLine, endColumn int) *RangePattern {
	return &RangePattern{
		nodeImpl:    newNodeImpl(NodeRange),
		StartLine:   startLine,
		StartColumn: startColumn,
		EndLine:     endLine,
		EndColumn:   endColumn,
	}
}

type Bubble struct {
	nodeImpl

	Pattern Pattern `json:"pattern"`
}

func NewBubble(pattern Pattern) *Bubble {
	return &Bubble{nodeImpl: newNodeImpl(NodeBubble), Pattern: pattern}
}

type Limit struct {
	nodeImpl

	Pattern Pattern `json:"pattern"`
	Limit   int     `json:"limit"`
}

func NewLimit(pattern Pattern, limit int) *Limit {
	return &Limit{nodeImpl: newNodeImpl(NodeLimit), Pattern: pattern, Limit: limit}
}

type Assignment struct {
	nodeImpl

	Container Pattern `json:"container"`
	Pattern   Pattern `json:"pattern"`
}

func NewAssignment(container, pattern Pattern) *Assignment {
	return &Assignment{nodeImpl: newNodeImpl(NodeAssignment), Container: container, Pattern: pattern}
}

type Accumulate struct {
	nodeImpl

	Left  Pattern `json:"left"`
	Right Pattern `json:"right"`
}

func NewAccumulate(left, right Pattern) *Accumulate {
	return &Accumulate{nodeImpl: newNodeImpl(NodeAccumulate), Left: left, Right: right}
}

// AstNode matches a concrete tree node kind with per-slot patterns.
type AstNode struct {
	nodeImpl

	Kind     string    `json:"kind"`
	Children []Pattern `json:"children,omitempty"`
}

func NewAstNode(kind string, children []Pattern) *AstNode {
	return &AstNode{nodeImpl: newNodeImpl(NodeAstNode), Kind: kind, Children: children}
}

// AstLeafNode matches a leaf tree node by kind and text.
type AstLeafNode struct {
	nodeImpl

	Kind string `json:"kind"`
	Text string `json:"text"`
}

func NewAstLeafNode(kind, text string) *AstLeafNode {
	return &AstLeafNode{nodeImpl: newNodeImpl(NodeAstLeafNode), Kind: kind, Text: text}
}

// Call invokes a named pattern defined elsewhere in the query.
type Call struct {
	nodeImpl

	Name string    `json:"name"`
	Args []Pattern `json:"args,omitempty"`
}

func NewCall(name string, args []Pattern) *Call {
	return &Call{nodeImpl: newNodeImpl(NodeCall), Name: name, Args: args}
}

type Regex struct {
	nodeImpl

	Source    string      `json:"source"`
	Variables []*Variable `json:"variables,omitempty"`
}

func NewRegex(source string, variables []*Variable) *Regex {
	return &Regex{nodeImpl: newNodeImpl(NodeRegex), Source: source, Variables: variables}
}

// FilesPattern matches over the whole file set of a query run.
type FilesPattern struct {
	nodeImpl

	Pattern Pattern `json:"pattern"`
}

func NewFilesPattern(pattern Pattern) *FilesPattern {
	return &FilesPattern{nodeImpl: newNodeImpl(NodeFiles), Pattern: pattern}
}

type Sequential struct {
	nodeImpl

	Patterns []Pattern `json:"patterns"`
}

func NewSequential(patterns []Pattern) *Sequential {
	return &Sequential{nodeImpl: newNodeImpl(NodeSequential), Patterns: patterns}
}

type Like struct {
	nodeImpl

	Like      Pattern `json:"like"`
	Threshold Pattern `json:"threshold,omitempty"`
}

func NewLike(like, threshold Pattern) *Like {
	return &Like{nodeImpl: newNodeImpl(NodeLike), Like: like, Threshold: threshold}
}

// Fieldless predicate kinds.

type UndefinedPattern struct{ nodeImpl }

func NewUndefinedPattern() *UndefinedPattern {
	return &UndefinedPattern{nodeImpl: newNodeImpl(NodeUndefined)}
}

type Top struct{ nodeImpl }

func NewTop() *Top { return &Top{nodeImpl: newNodeImpl(NodeTop)} }

type Bottom struct{ nodeImpl }

func NewBottom() *Bottom { return &Bottom{nodeImpl: newNodeImpl(NodeBottom)} }

type Underscore struct{ nodeImpl }

func NewUnderscore() *Underscore { return &Underscore{nodeImpl: newNodeImpl(NodeUnderscore)} }

type Dots struct{ nodeImpl }

func NewDots() *Dots { return &Dots{nodeImpl: newNodeImpl(NodeDots)} }
