package interpreter

import (
	"fmt"
	"math"

	"gritql/engine-go/pkg/ast"
	"gritql/engine-go/pkg/runtime"
)

// patternOrResolved is the result of accessor/list-index resolution: an
// unevaluated sub-pattern, an already-resolved binding returned as-is, or
// an already-resolved value that callers clone. A nil result means nothing
// was found, which is not an error under optional-access semantics.
type patternOrResolved struct {
	pattern ast.Pattern
	binding runtime.Value
	value   runtime.Value
}

// FromAccessor resolves a property access. A missing key yields the
// undefined constant in binding position rather than failing.
func FromAccessor(accessor *ast.Accessor, state *runtime.State, ctx ExecContext, logs *runtime.AnalysisLogs) (runtime.Value, error) {
	resolved, err := resolveAccessor(accessor, state, ctx, logs)
	if err != nil {
		return nil, err
	}
	return materialize(resolved, state, ctx, logs)
}

// FromListIndex resolves an index access. A missing element yields the
// undefined constant in binding position rather than failing.
func FromListIndex(index *ast.ListIndex, state *runtime.State, ctx ExecContext, logs *runtime.AnalysisLogs) (runtime.Value, error) {
	resolved, err := resolveListIndex(index, state, ctx, logs)
	if err != nil {
		return nil, err
	}
	return materialize(resolved, state, ctx, logs)
}

func materialize(resolved *patternOrResolved, state *runtime.State, ctx ExecContext, logs *runtime.AnalysisLogs) (runtime.Value, error) {
	switch {
	case resolved == nil:
		return runtime.FromConstantBinding(runtime.UndefinedConstant{}), nil
	case resolved.pattern != nil:
		return FromPattern(resolved.pattern, state, ctx, logs)
	case resolved.binding != nil:
		return resolved.binding, nil
	default:
		return runtime.Clone(resolved.value), nil
	}
}

func resolveAccessor(accessor *ast.Accessor, state *runtime.State, ctx ExecContext, logs *runtime.AnalysisLogs) (*patternOrResolved, error) {
	key, err := accessorKey(accessor.Key, state, ctx, logs)
	if err != nil {
		return nil, err
	}

	switch m := accessor.Map.(type) {
	case *ast.Map:
		for _, element := range m.Elements {
			if element.Key == key {
				return &patternOrResolved{pattern: element.Value}, nil
			}
		}
		return nil, nil
	case *ast.Variable:
		content := state.Lookup(m.Scope, m.Slot)
		if content.Value != nil {
			mapValue, ok := content.Value.(*runtime.MapValue)
			if !ok {
				return nil, &runtime.UnsupportedConversionError{From: content.Value.Kind().String(), To: "map"}
			}
			if entry, ok := mapValue.Get(key); ok {
				return &patternOrResolved{value: entry}, nil
			}
			return nil, nil
		}
		if content.Pattern != nil {
			mapPattern, ok := content.Pattern.(*ast.Map)
			if !ok {
				return nil, fmt.Errorf("accessor target %s is not a map pattern", content.Name)
			}
			for _, element := range mapPattern.Elements {
				if element.Key == key {
					return &patternOrResolved{pattern: element.Value}, nil
				}
			}
			return nil, nil
		}
		return nil, &runtime.UnresolvedVariableError{Name: content.Name}
	default:
		return nil, fmt.Errorf("accessor target must be a map literal or variable, got %s", accessor.Map.NodeType())
	}
}

func resolveListIndex(index *ast.ListIndex, state *runtime.State, ctx ExecContext, logs *runtime.AnalysisLogs) (*patternOrResolved, error) {
	at, err := listIndexValue(index.Index, state, ctx, logs)
	if err != nil {
		return nil, err
	}

	switch l := index.List.(type) {
	case *ast.List:
		if pattern, ok := patternAt(l.Patterns, at); ok {
			return &patternOrResolved{pattern: pattern}, nil
		}
		return nil, nil
	case *ast.Variable:
		content := state.Lookup(l.Scope, l.Slot)
		if content.Value != nil {
			listValue, ok := content.Value.(*runtime.ListValue)
			if !ok {
				return nil, &runtime.UnsupportedConversionError{From: content.Value.Kind().String(), To: "list"}
			}
			if element, ok := listValue.ItemAt(at); ok {
				return &patternOrResolved{value: element}, nil
			}
			return nil, nil
		}
		if content.Pattern != nil {
			listPattern, ok := content.Pattern.(*ast.List)
			if !ok {
				return nil, fmt.Errorf("list-index target %s is not a list pattern", content.Name)
			}
			if pattern, ok := patternAt(listPattern.Patterns, at); ok {
				return &patternOrResolved{pattern: pattern}, nil
			}
			return nil, nil
		}
		return nil, &runtime.UnresolvedVariableError{Name: content.Name}
	default:
		return nil, fmt.Errorf("list-index target must be a list literal or variable, got %s", index.List.NodeType())
	}
}

// accessorKey renders the key pattern to the looked-up map key.
func accessorKey(key ast.Pattern, state *runtime.State, ctx ExecContext, logs *runtime.AnalysisLogs) (string, error) {
	switch k := key.(type) {
	case *ast.StringConstant:
		return k.Text, nil
	case *ast.Variable:
		value, err := resolveVariable(k, state, ctx, logs)
		if err != nil {
			return "", err
		}
		return runtime.Text(value, state.Files, ctx.Language())
	default:
		return "", fmt.Errorf("accessor key must be a string constant or variable, got %s", key.NodeType())
	}
}

// listIndexValue evaluates the index pattern to an integer position.
func listIndexValue(index ast.Pattern, state *runtime.State, ctx ExecContext, logs *runtime.AnalysisLogs) (int, error) {
	switch i := index.(type) {
	case *ast.IntConstant:
		return int(i.Value), nil
	case *ast.Variable:
		value, err := resolveVariable(i, state, ctx, logs)
		if err != nil {
			return 0, err
		}
		f, err := runtime.Float(value, state.Files, ctx.Language())
		if err != nil {
			return 0, err
		}
		if f != math.Trunc(f) {
			return 0, fmt.Errorf("list index %v is not an integer", f)
		}
		return int(f), nil
	default:
		return 0, fmt.Errorf("list index must be an integer constant or variable, got %s", index.NodeType())
	}
}

func patternAt(patterns []ast.Pattern, index int) (ast.Pattern, bool) {
	if index < 0 {
		index += len(patterns)
	}
	if index < 0 || index >= len(patterns) {
		return nil, false
	}
	return patterns[index], true
}
