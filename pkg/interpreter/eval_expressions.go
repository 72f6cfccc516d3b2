package interpreter

import (
	"math"

	"gritql/engine-go/pkg/ast"
	"gritql/engine-go/pkg/runtime"
	"gritql/engine-go/pkg/tree"
)

// Arithmetic nodes expose a uniform invoke contract to the dispatcher:
// evaluate both operands, coerce each to a float, and produce a float
// constant. Coercion failures carry the runtime error taxonomy
// (NotNumeric, MissingBinding) unchanged.
func evalArithmetic(p ast.Pattern, state *runtime.State, ctx ExecContext, logs *runtime.AnalysisLogs) (runtime.Value, error) {
	var left, right ast.Pattern
	switch n := p.(type) {
	case *ast.Add:
		left, right = n.Left, n.Right
	case *ast.Subtract:
		left, right = n.Left, n.Right
	case *ast.Multiply:
		left, right = n.Left, n.Right
	case *ast.Divide:
		left, right = n.Left, n.Right
	case *ast.Modulo:
		left, right = n.Left, n.Right
	default:
		return nil, &runtime.UnsupportedPatternKindError{Kind: string(p.NodeType())}
	}

	lhs, err := operand(left, state, ctx, logs)
	if err != nil {
		return nil, err
	}
	rhs, err := operand(right, state, ctx, logs)
	if err != nil {
		return nil, err
	}

	var result float64
	switch p.(type) {
	case *ast.Add:
		result = lhs + rhs
	case *ast.Subtract:
		result = lhs - rhs
	case *ast.Multiply:
		result = lhs * rhs
	case *ast.Divide:
		result = lhs / rhs
	case *ast.Modulo:
		result = math.Mod(lhs, rhs)
	}
	return runtime.FromConstant(runtime.FloatConstant{Val: result}), nil
}

func operand(p ast.Pattern, state *runtime.State, ctx ExecContext, logs *runtime.AnalysisLogs) (float64, error) {
	value, err := FromPattern(p, state, ctx, logs)
	if err != nil {
		return 0, err
	}
	return runtime.Float(value, state.Files, ctx.Language())
}

// evalBefore resolves the named sibling preceding the node the inner
// pattern binds to. No preceding sibling yields the undefined constant.
func evalBefore(before *ast.Before, state *runtime.State, ctx ExecContext, logs *runtime.AnalysisLogs) (runtime.Value, error) {
	node, err := navigationNode(before.Pattern, state, ctx, logs)
	if err != nil {
		return nil, err
	}
	prev := node.PrevNamedSibling()
	if prev.IsZero() {
		return runtime.Undefined(), nil
	}
	return runtime.FromNode(prev), nil
}

// evalAfter resolves the named sibling following the node the inner pattern
// binds to. No following sibling yields the undefined constant.
func evalAfter(after *ast.After, state *runtime.State, ctx ExecContext, logs *runtime.AnalysisLogs) (runtime.Value, error) {
	node, err := navigationNode(after.Pattern, state, ctx, logs)
	if err != nil {
		return nil, err
	}
	next := node.NextNamedSibling()
	if next.IsZero() {
		return runtime.Undefined(), nil
	}
	return runtime.FromNode(next), nil
}

func navigationNode(p ast.Pattern, state *runtime.State, ctx ExecContext, logs *runtime.AnalysisLogs) (tree.Node, error) {
	value, err := FromPattern(p, state, ctx, logs)
	if err != nil {
		return tree.Node{}, err
	}
	last, ok := runtime.LastBinding(value)
	if !ok {
		return tree.Node{}, &runtime.UnsupportedConversionError{From: value.Kind().String(), To: "node binding"}
	}
	nb, ok := last.(runtime.NodeBinding)
	if !ok {
		return tree.Node{}, &runtime.UnsupportedConversionError{From: value.Kind().String(), To: "node binding"}
	}
	return nb.Node, nil
}
