package ast

// Short builders, primarily for tests and hand-assembled queries.

func Str(text string) *StringConstant { return NewStringConstant(text) }

func Int(value int64) *IntConstant { return NewIntConstant(value) }

func Float(value float64) *FloatConstant { return NewFloatConstant(value) }

func Bool(value bool) *BooleanConstant { return NewBooleanConstant(value) }

func Var(scope, slot int, name string) *Variable { return NewVariable(scope, slot, name) }

func ListOf(patterns ...Pattern) *List { return NewList(patterns) }

func MapOf(elements ...MapElement) *Map { return NewMap(elements) }

func Entry(key string, value Pattern) MapElement { return MapElement{Key: key, Value: value} }

func FileOf(name, body Pattern) *FilePattern { return NewFilePattern(name, body) }

func Snippet(parts ...SnippetPart) *DynamicSnippet { return NewDynamicSnippet(parts) }

func Text(text string) SnippetPart { return SnippetText{Text: text} }

func Splice(v *Variable) SnippetPart { return SnippetVariable{Variable: v} }
