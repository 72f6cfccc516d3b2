package interpreter

import (
	"fmt"

	"gritql/engine-go/pkg/ast"
	"gritql/engine-go/pkg/runtime"
	"gritql/engine-go/pkg/tree"
)

// ExecContext supplies what one query run needs beyond the pattern itself:
// the target language and the built-in/user-defined function call surface.
type ExecContext interface {
	Language() *tree.Language
	CallBuiltIn(call *ast.CallBuiltIn, state *runtime.State, logs *runtime.AnalysisLogs) (runtime.Value, error)
	CallFunction(call *ast.CallFunction, state *runtime.State, logs *runtime.AnalysisLogs) (runtime.Value, error)
}

// FromPattern resolves a compiled pattern node to a runtime value.
// Evaluation is synchronous recursive descent; the state is held exclusively
// for the whole call and the only side effect a successful evaluation may
// have is appending to the state's pending-rewrite log.
func FromPattern(p ast.Pattern, state *runtime.State, ctx ExecContext, logs *runtime.AnalysisLogs) (runtime.Value, error) {
	switch n := p.(type) {
	case *ast.StringConstant:
		return runtime.FromString(n.Text), nil
	case *ast.IntConstant:
		return runtime.FromConstant(runtime.IntegerConstant{Val: n.Value}), nil
	case *ast.FloatConstant:
		return runtime.FromConstant(runtime.FloatConstant{Val: n.Value}), nil
	case *ast.BooleanConstant:
		return runtime.FromConstant(runtime.BooleanConstant{Val: n.Value}), nil
	case *ast.Variable:
		return resolveVariable(n, state, ctx, logs)
	case *ast.List:
		elements := make([]runtime.Value, 0, len(n.Patterns))
		for _, pattern := range n.Patterns {
			element, err := FromPattern(pattern, state, ctx, logs)
			if err != nil {
				return nil, err
			}
			elements = append(elements, element)
		}
		return &runtime.ListValue{Elements: elements}, nil
	case *ast.Map:
		result := runtime.NewMapValue()
		for _, element := range n.Elements {
			value, err := FromPattern(element.Value, state, ctx, logs)
			if err != nil {
				return nil, err
			}
			result.Set(element.Key, value)
		}
		return result, nil
	case *ast.Accessor:
		return FromAccessor(n, state, ctx, logs)
	case *ast.ListIndex:
		return FromListIndex(n, state, ctx, logs)
	case *ast.FilePattern:
		return evalFilePattern(n, state, ctx, logs)
	case *ast.CodeSnippet:
		if n.Dynamic != nil {
			return FromDynamicPattern(n.Dynamic, state, ctx, logs)
		}
		return nil, &runtime.UnsupportedPatternKindError{Kind: string(n.NodeType())}
	case *ast.DynamicList:
		return evalDynamicList(n, state, ctx, logs)
	case *ast.DynamicSnippet:
		return FromDynamicSnippet(n, state, ctx, logs)
	case *ast.CallBuiltIn:
		return ctx.CallBuiltIn(n, state, logs)
	case *ast.CallFunction:
		return ctx.CallFunction(n, state, logs)
	case *ast.CallForeignFunction:
		return nil, fmt.Errorf("cannot call foreign function %s: foreign functions are not supported", n.Name)
	case *ast.Add, *ast.Subtract, *ast.Multiply, *ast.Divide, *ast.Modulo:
		return evalArithmetic(p, state, ctx, logs)
	case *ast.Before:
		return evalBefore(n, state, ctx, logs)
	case *ast.After:
		return evalAfter(n, state, ctx, logs)
	default:
		return nil, &runtime.UnsupportedPatternKindError{Kind: string(p.NodeType())}
	}
}

// FromDynamicPattern resolves a template-position pattern. The dynamic
// sub-language is the subset the compiler allows inside replacements.
func FromDynamicPattern(p ast.DynamicPattern, state *runtime.State, ctx ExecContext, logs *runtime.AnalysisLogs) (runtime.Value, error) {
	switch n := p.(type) {
	case *ast.Variable:
		return resolveVariable(n, state, ctx, logs)
	case *ast.Accessor:
		return FromAccessor(n, state, ctx, logs)
	case *ast.ListIndex:
		return FromListIndex(n, state, ctx, logs)
	case *ast.DynamicList:
		return evalDynamicList(n, state, ctx, logs)
	case *ast.DynamicSnippet:
		return FromDynamicSnippet(n, state, ctx, logs)
	case *ast.CallBuiltIn:
		return ctx.CallBuiltIn(n, state, logs)
	case *ast.CallFunction:
		return ctx.CallFunction(n, state, logs)
	case *ast.CallForeignFunction:
		return nil, fmt.Errorf("cannot call foreign function %s: foreign functions are not supported", n.Name)
	default:
		return nil, &runtime.UnsupportedPatternKindError{Kind: string(p.NodeType())}
	}
}

// FromDynamicSnippet expands an interpolation template into fragments.
// Spliced variables are flattened recursively so nested structured values
// stay traceable until the final rendering step.
func FromDynamicSnippet(snippet *ast.DynamicSnippet, state *runtime.State, ctx ExecContext, logs *runtime.AnalysisLogs) (runtime.Value, error) {
	var parts []runtime.Fragment
	for _, part := range snippet.Parts {
		switch p := part.(type) {
		case ast.SnippetText:
			parts = append(parts, runtime.TextFragment{Val: p.Text})
		case ast.SnippetVariable:
			value, err := resolveVariable(p.Variable, state, ctx, logs)
			if err != nil {
				return nil, err
			}
			flattened, err := runtime.Snippets(value)
			if err != nil {
				return nil, err
			}
			parts = append(parts, flattened.Parts...)
		default:
			return nil, fmt.Errorf("unsupported snippet part %T", part)
		}
	}
	return &runtime.FragmentsValue{Parts: parts}, nil
}

// resolveVariable reads a (scope, slot) cell: a cached value is reused
// as-is — deferred work never runs twice for a cached slot — and a deferred
// pattern is evaluated on every lookup; caching policy belongs to the
// matcher that owns the state.
func resolveVariable(v *ast.Variable, state *runtime.State, ctx ExecContext, logs *runtime.AnalysisLogs) (runtime.Value, error) {
	content := state.Lookup(v.Scope, v.Slot)
	if content.Value != nil {
		return runtime.Clone(content.Value), nil
	}
	if content.Pattern != nil {
		return FromPattern(content.Pattern, state, ctx, logs)
	}
	name := content.Name
	if name == "" {
		name = v.Name
	}
	return nil, &runtime.UnresolvedVariableError{Name: name}
}

func evalDynamicList(list *ast.DynamicList, state *runtime.State, ctx ExecContext, logs *runtime.AnalysisLogs) (runtime.Value, error) {
	elements := make([]runtime.Value, 0, len(list.Elements))
	for _, element := range list.Elements {
		value, err := FromDynamicPattern(element, state, ctx, logs)
		if err != nil {
			return nil, err
		}
		elements = append(elements, value)
	}
	return &runtime.ListValue{Elements: elements}, nil
}

// evalFilePattern constructs a resolved file value. The name is forced
// through text rendering into a string constant even when the name pattern
// yields a non-text value; no real file handle is touched.
func evalFilePattern(file *ast.FilePattern, state *runtime.State, ctx ExecContext, logs *runtime.AnalysisLogs) (runtime.Value, error) {
	name, err := FromPattern(file.Name, state, ctx, logs)
	if err != nil {
		return nil, err
	}
	nameText, err := runtime.Text(name, state.Files, ctx.Language())
	if err != nil {
		return nil, err
	}
	body, err := FromPattern(file.Body, state, ctx, logs)
	if err != nil {
		return nil, err
	}
	nameValue := runtime.FromConstant(runtime.StringConstant{Val: nameText})
	return runtime.FromResolvedFile(nameValue, body), nil
}
