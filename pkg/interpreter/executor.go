package interpreter

import (
	"fmt"
	"strings"
	"unicode"

	"gritql/engine-go/pkg/ast"
	"gritql/engine-go/pkg/runtime"
	"gritql/engine-go/pkg/tree"
)

// BuiltIn is a built-in function body. Arguments arrive already evaluated,
// in declared order.
type BuiltIn func(args []runtime.Value, state *runtime.State, ctx ExecContext, logs *runtime.AnalysisLogs) (runtime.Value, error)

// Function is a user-defined query function: a body pattern evaluated in a
// fresh frame of the function's compile-time-assigned scope, with argument
// values cached into the parameter slots.
type Function struct {
	Name   string
	Scope  int
	Params []string
	Body   ast.Pattern
}

// Context is the default ExecContext: a target language plus the built-in
// and user-defined function tables.
type Context struct {
	lang      *tree.Language
	builtIns  map[string]BuiltIn
	functions map[string]*Function
}

// NewContext returns a context for the given target language with the
// standard built-ins registered.
func NewContext(lang *tree.Language) *Context {
	c := &Context{
		lang:      lang,
		builtIns:  make(map[string]BuiltIn),
		functions: make(map[string]*Function),
	}
	registerStandardBuiltIns(c)
	return c
}

// Language returns the target language of this run.
func (c *Context) Language() *tree.Language { return c.lang }

// RegisterBuiltIn installs or replaces a built-in function.
func (c *Context) RegisterBuiltIn(name string, fn BuiltIn) {
	c.builtIns[name] = fn
}

// DefineFunction installs a user-defined function.
func (c *Context) DefineFunction(fn *Function) {
	c.functions[fn.Name] = fn
}

// CallBuiltIn evaluates the call's arguments and invokes the named
// built-in.
func (c *Context) CallBuiltIn(call *ast.CallBuiltIn, state *runtime.State, logs *runtime.AnalysisLogs) (runtime.Value, error) {
	fn, ok := c.builtIns[call.Name]
	if !ok {
		return nil, fmt.Errorf("unknown built-in function %s", call.Name)
	}
	args, err := c.evalArgs(call.Args, state, logs)
	if err != nil {
		return nil, err
	}
	return fn(args, state, c, logs)
}

// CallFunction evaluates the call's arguments, binds them into a fresh
// frame of the function's scope and evaluates the body pattern there.
func (c *Context) CallFunction(call *ast.CallFunction, state *runtime.State, logs *runtime.AnalysisLogs) (runtime.Value, error) {
	fn, ok := c.functions[call.Name]
	if !ok {
		return nil, fmt.Errorf("unknown function %s", call.Name)
	}
	if len(call.Args) > len(fn.Params) {
		return nil, fmt.Errorf("function %s takes %d arguments, got %d", fn.Name, len(fn.Params), len(call.Args))
	}
	args, err := c.evalArgs(call.Args, state, logs)
	if err != nil {
		return nil, err
	}

	state.PushScope(fn.Scope, fn.Params...)
	defer state.PopScope(fn.Scope)
	for i, arg := range args {
		state.Lookup(fn.Scope, i).Value = arg
	}
	return FromPattern(fn.Body, state, c, logs)
}

func (c *Context) evalArgs(patterns []ast.Pattern, state *runtime.State, logs *runtime.AnalysisLogs) ([]runtime.Value, error) {
	args := make([]runtime.Value, 0, len(patterns))
	for _, p := range patterns {
		arg, err := FromPattern(p, state, c, logs)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	return args, nil
}

//-----------------------------------------------------------------------------
// Standard built-ins
//-----------------------------------------------------------------------------

func registerStandardBuiltIns(c *Context) {
	c.RegisterBuiltIn("text", builtInText)
	c.RegisterBuiltIn("capitalize", stringBuiltIn(capitalize))
	c.RegisterBuiltIn("lowercase", stringBuiltIn(strings.ToLower))
	c.RegisterBuiltIn("uppercase", stringBuiltIn(strings.ToUpper))
	c.RegisterBuiltIn("trim", stringBuiltIn(strings.TrimSpace))
	c.RegisterBuiltIn("length", builtInLength)
	c.RegisterBuiltIn("join", builtInJoin)
	c.RegisterBuiltIn("split", builtInSplit)
	c.RegisterBuiltIn("distinct", builtInDistinct)
}

func oneArg(name string, args []runtime.Value) (runtime.Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("%s takes one argument, got %d", name, len(args))
	}
	return args[0], nil
}

// builtInText re-renders any value into a string constant.
func builtInText(args []runtime.Value, state *runtime.State, ctx ExecContext, logs *runtime.AnalysisLogs) (runtime.Value, error) {
	arg, err := oneArg("text", args)
	if err != nil {
		return nil, err
	}
	text, err := runtime.Text(arg, state.Files, ctx.Language())
	if err != nil {
		return nil, err
	}
	return runtime.FromConstant(runtime.StringConstant{Val: text}), nil
}

func stringBuiltIn(transform func(string) string) BuiltIn {
	return func(args []runtime.Value, state *runtime.State, ctx ExecContext, logs *runtime.AnalysisLogs) (runtime.Value, error) {
		arg, err := oneArg("string transform", args)
		if err != nil {
			return nil, err
		}
		text, err := runtime.Text(arg, state.Files, ctx.Language())
		if err != nil {
			return nil, err
		}
		return runtime.FromString(transform(text)), nil
	}
}

func capitalize(s string) string {
	runes := []rune(s)
	if len(runes) == 0 {
		return s
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// builtInLength counts list elements, or runes of the rendered text.
func builtInLength(args []runtime.Value, state *runtime.State, ctx ExecContext, logs *runtime.AnalysisLogs) (runtime.Value, error) {
	arg, err := oneArg("length", args)
	if err != nil {
		return nil, err
	}
	if list, ok := arg.(*runtime.ListValue); ok {
		return runtime.FromConstant(runtime.IntegerConstant{Val: int64(len(list.Elements))}), nil
	}
	text, err := runtime.Text(arg, state.Files, ctx.Language())
	if err != nil {
		return nil, err
	}
	return runtime.FromConstant(runtime.IntegerConstant{Val: int64(len([]rune(text)))}), nil
}

func builtInJoin(args []runtime.Value, state *runtime.State, ctx ExecContext, logs *runtime.AnalysisLogs) (runtime.Value, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("join takes a list and a separator, got %d arguments", len(args))
	}
	list, ok := args[0].(*runtime.ListValue)
	if !ok {
		return nil, &runtime.UnsupportedConversionError{From: args[0].Kind().String(), To: "list"}
	}
	separator, err := runtime.Text(args[1], state.Files, ctx.Language())
	if err != nil {
		return nil, err
	}
	texts := make([]string, 0, len(list.Elements))
	for _, element := range list.Elements {
		text, err := runtime.Text(element, state.Files, ctx.Language())
		if err != nil {
			return nil, err
		}
		texts = append(texts, text)
	}
	return runtime.FromString(strings.Join(texts, separator)), nil
}

func builtInSplit(args []runtime.Value, state *runtime.State, ctx ExecContext, logs *runtime.AnalysisLogs) (runtime.Value, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("split takes a string and a separator, got %d arguments", len(args))
	}
	text, err := runtime.Text(args[0], state.Files, ctx.Language())
	if err != nil {
		return nil, err
	}
	separator, err := runtime.Text(args[1], state.Files, ctx.Language())
	if err != nil {
		return nil, err
	}
	pieces := strings.Split(text, separator)
	elements := make([]runtime.Value, 0, len(pieces))
	for _, piece := range pieces {
		elements = append(elements, runtime.FromString(piece))
	}
	return &runtime.ListValue{Elements: elements}, nil
}

// builtInDistinct drops duplicate list elements by rendered text, keeping
// first occurrences in order.
func builtInDistinct(args []runtime.Value, state *runtime.State, ctx ExecContext, logs *runtime.AnalysisLogs) (runtime.Value, error) {
	arg, err := oneArg("distinct", args)
	if err != nil {
		return nil, err
	}
	list, ok := arg.(*runtime.ListValue)
	if !ok {
		return nil, &runtime.UnsupportedConversionError{From: arg.Kind().String(), To: "list"}
	}
	seen := make(map[string]struct{}, len(list.Elements))
	var elements []runtime.Value
	for _, element := range list.Elements {
		text, err := runtime.Text(element, state.Files, ctx.Language())
		if err != nil {
			return nil, err
		}
		if _, dup := seen[text]; dup {
			continue
		}
		seen[text] = struct{}{}
		elements = append(elements, element)
	}
	return &runtime.ListValue{Elements: elements}, nil
}
