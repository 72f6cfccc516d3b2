package interpreter

import (
	"errors"
	"testing"

	"gritql/engine-go/pkg/ast"
	"gritql/engine-go/pkg/runtime"
	"gritql/engine-go/pkg/tree"
)

func newRun(t *testing.T) (*runtime.State, *Context, *runtime.AnalysisLogs) {
	t.Helper()
	return runtime.NewState(runtime.NewFileRegistry()), NewContext(tree.JavaScript()), &runtime.AnalysisLogs{}
}

func evalText(t *testing.T, p ast.Pattern, state *runtime.State, ctx *Context, logs *runtime.AnalysisLogs) string {
	t.Helper()
	value, err := FromPattern(p, state, ctx, logs)
	if err != nil {
		t.Fatalf("FromPattern(%s) returned error: %v", p.NodeType(), err)
	}
	text, err := runtime.Text(value, state.Files, ctx.Language())
	if err != nil {
		t.Fatalf("Text returned error: %v", err)
	}
	return text
}

func TestLiterals(t *testing.T) {
	state, ctx, logs := newRun(t)
	cases := []struct {
		name string
		p    ast.Pattern
		want string
	}{
		{"string", ast.Str("hi"), "hi"},
		{"int", ast.Int(3), "3"},
		{"float", ast.Float(2), "2.0"},
		{"bool", ast.Bool(true), "true"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := evalText(t, tc.p, state, ctx, logs); got != tc.want {
				t.Fatalf("renders %q, want %q", got, tc.want)
			}
		})
	}
}

func TestStringLiteralResolvesToFragments(t *testing.T) {
	state, ctx, logs := newRun(t)
	value, err := FromPattern(ast.Str("hi"), state, ctx, logs)
	if err != nil {
		t.Fatalf("FromPattern returned error: %v", err)
	}
	if value.Kind() != runtime.KindFragments {
		t.Fatalf("string literal kind = %v, want fragments", value.Kind())
	}
}

func TestPredicateKindsCannotResolve(t *testing.T) {
	state, ctx, logs := newRun(t)
	for _, p := range []ast.Pattern{
		ast.NewAnd([]ast.Pattern{ast.Str("a")}),
		ast.NewContains(ast.Str("a"), nil),
		ast.NewRewrite(ast.Str("a"), ast.Str("b")),
		ast.NewUnderscore(),
	} {
		_, err := FromPattern(p, state, ctx, logs)
		var unsupported *runtime.UnsupportedPatternKindError
		if !errors.As(err, &unsupported) {
			t.Fatalf("FromPattern(%s) error = %v, want UnsupportedPatternKindError", p.NodeType(), err)
		}
		if unsupported.Kind != string(p.NodeType()) {
			t.Fatalf("error names kind %q, want %q", unsupported.Kind, p.NodeType())
		}
	}
}

func TestCachedVariableIsClonedPerRead(t *testing.T) {
	state, ctx, logs := newRun(t)
	scope := state.RegisterScope("xs")
	state.Lookup(scope, 0).Value = &runtime.ListValue{Elements: []runtime.Value{
		runtime.FromConstant(runtime.IntegerConstant{Val: 1}),
	}}

	v := ast.Var(scope, 0, "xs")
	first, err := FromPattern(v, state, ctx, logs)
	if err != nil {
		t.Fatalf("FromPattern returned error: %v", err)
	}
	first.(*runtime.ListValue).Elements = append(first.(*runtime.ListValue).Elements, runtime.Undefined())

	second, err := FromPattern(v, state, ctx, logs)
	if err != nil {
		t.Fatalf("FromPattern returned error: %v", err)
	}
	if got := len(second.(*runtime.ListValue).Elements); got != 1 {
		t.Fatalf("second read sees %d elements, want 1 (cached value mutated)", got)
	}
}

func TestDeferredPatternEvaluatedPerRead(t *testing.T) {
	state, ctx, logs := newRun(t)
	calls := 0
	ctx.RegisterBuiltIn("probe", func(args []runtime.Value, state *runtime.State, ctx ExecContext, logs *runtime.AnalysisLogs) (runtime.Value, error) {
		calls++
		return runtime.FromString("probed"), nil
	})

	scope := state.RegisterScope("x")
	state.Lookup(scope, 0).Pattern = ast.NewCallBuiltIn("probe", nil)

	v := ast.Var(scope, 0, "x")
	for i := 0; i < 2; i++ {
		if got := evalText(t, v, state, ctx, logs); got != "probed" {
			t.Fatalf("deferred read renders %q, want %q", got, "probed")
		}
	}
	if calls != 2 {
		t.Fatalf("deferred pattern ran %d times, want 2", calls)
	}
}

func TestCachedValueWinsOverDeferredPattern(t *testing.T) {
	state, ctx, logs := newRun(t)
	calls := 0
	ctx.RegisterBuiltIn("probe", func(args []runtime.Value, state *runtime.State, ctx ExecContext, logs *runtime.AnalysisLogs) (runtime.Value, error) {
		calls++
		return runtime.FromString("probed"), nil
	})

	scope := state.RegisterScope("x")
	content := state.Lookup(scope, 0)
	content.Value = runtime.FromConstant(runtime.StringConstant{Val: "cached"})
	content.Pattern = ast.NewCallBuiltIn("probe", nil)

	v := ast.Var(scope, 0, "x")
	for i := 0; i < 2; i++ {
		if got := evalText(t, v, state, ctx, logs); got != "cached" {
			t.Fatalf("cached read renders %q, want %q", got, "cached")
		}
	}
	if calls != 0 {
		t.Fatalf("deferred pattern ran %d times behind a cached value, want 0", calls)
	}
}

func TestUnboundVariableFails(t *testing.T) {
	state, ctx, logs := newRun(t)
	scope := state.RegisterScope("ghost")

	_, err := FromPattern(ast.Var(scope, 0, "ghost"), state, ctx, logs)
	var unresolved *runtime.UnresolvedVariableError
	if !errors.As(err, &unresolved) {
		t.Fatalf("expected UnresolvedVariableError, got %v", err)
	}
	if unresolved.Name != "ghost" {
		t.Fatalf("error names %q, want %q", unresolved.Name, "ghost")
	}
}

func TestListEvaluatesElementsInOrderAndFailsFast(t *testing.T) {
	state, ctx, logs := newRun(t)
	if got := evalText(t, ast.ListOf(ast.Int(1), ast.Int(2)), state, ctx, logs); got != "1 2" {
		t.Fatalf("list renders %q, want %q", got, "1 2")
	}

	_, err := FromPattern(ast.ListOf(ast.Str("ok"), ast.NewAnd(nil)), state, ctx, logs)
	var unsupported *runtime.UnsupportedPatternKindError
	if !errors.As(err, &unsupported) {
		t.Fatalf("expected fail-fast UnsupportedPatternKindError, got %v", err)
	}
}

func TestMapRendersSortedKeys(t *testing.T) {
	state, ctx, logs := newRun(t)
	m := ast.MapOf(ast.Entry("b", ast.Int(1)), ast.Entry("a", ast.Int(2)))
	if got := evalText(t, m, state, ctx, logs); got != `{"a": 2, "b": 1}` {
		t.Fatalf("map renders %q", got)
	}
}

func TestAccessorOnMapLiteral(t *testing.T) {
	state, ctx, logs := newRun(t)
	m := ast.MapOf(ast.Entry("name", ast.Str("grit")))

	hit := ast.NewAccessor(m, ast.Str("name"))
	if got := evalText(t, hit, state, ctx, logs); got != "grit" {
		t.Fatalf("accessor hit renders %q, want %q", got, "grit")
	}

	miss, err := FromPattern(ast.NewAccessor(m, ast.Str("missing")), state, ctx, logs)
	if err != nil {
		t.Fatalf("accessor miss returned error: %v", err)
	}
	if !runtime.MatchesUndefined(miss) {
		t.Fatalf("accessor miss = %v, want undefined binding", miss)
	}
}

func TestAccessorOnBoundVariable(t *testing.T) {
	state, ctx, logs := newRun(t)
	scope := state.RegisterScope("obj", "key")

	m := runtime.NewMapValue()
	m.Set("city", runtime.FromString("berlin"))
	state.Lookup(scope, 0).Value = m
	state.Lookup(scope, 1).Value = runtime.FromConstant(runtime.StringConstant{Val: "city"})

	access := ast.NewAccessor(ast.Var(scope, 0, "obj"), ast.Var(scope, 1, "key"))
	if got := evalText(t, access, state, ctx, logs); got != "berlin" {
		t.Fatalf("accessor renders %q, want %q", got, "berlin")
	}
}

func TestAccessorOnDeferredMapPattern(t *testing.T) {
	state, ctx, logs := newRun(t)
	scope := state.RegisterScope("obj")
	state.Lookup(scope, 0).Pattern = ast.MapOf(ast.Entry("k", ast.Int(9)))

	access := ast.NewAccessor(ast.Var(scope, 0, "obj"), ast.Str("k"))
	if got := evalText(t, access, state, ctx, logs); got != "9" {
		t.Fatalf("accessor renders %q, want %q", got, "9")
	}
}

func TestAccessorRejectsNonMapValue(t *testing.T) {
	state, ctx, logs := newRun(t)
	scope := state.RegisterScope("notmap")
	state.Lookup(scope, 0).Value = &runtime.ListValue{}

	_, err := FromPattern(ast.NewAccessor(ast.Var(scope, 0, "notmap"), ast.Str("k")), state, ctx, logs)
	var conv *runtime.UnsupportedConversionError
	if !errors.As(err, &conv) {
		t.Fatalf("expected UnsupportedConversionError, got %v", err)
	}
}

func TestListIndex(t *testing.T) {
	state, ctx, logs := newRun(t)
	list := ast.ListOf(ast.Str("a"), ast.Str("b"), ast.Str("c"))

	if got := evalText(t, ast.NewListIndex(list, ast.Int(1)), state, ctx, logs); got != "b" {
		t.Fatalf("index 1 renders %q, want %q", got, "b")
	}
	if got := evalText(t, ast.NewListIndex(list, ast.Int(-1)), state, ctx, logs); got != "c" {
		t.Fatalf("index -1 renders %q, want %q", got, "c")
	}

	out, err := FromPattern(ast.NewListIndex(list, ast.Int(7)), state, ctx, logs)
	if err != nil {
		t.Fatalf("out-of-range index returned error: %v", err)
	}
	if !runtime.MatchesUndefined(out) {
		t.Fatalf("out-of-range index = %v, want undefined binding", out)
	}
}

func TestListIndexOnBoundVariable(t *testing.T) {
	state, ctx, logs := newRun(t)
	scope := state.RegisterScope("xs", "i")
	state.Lookup(scope, 0).Value = &runtime.ListValue{Elements: []runtime.Value{
		runtime.FromString("zero"),
		runtime.FromString("one"),
	}}
	state.Lookup(scope, 1).Value = runtime.FromConstant(runtime.IntegerConstant{Val: 1})

	index := ast.NewListIndex(ast.Var(scope, 0, "xs"), ast.Var(scope, 1, "i"))
	if got := evalText(t, index, state, ctx, logs); got != "one" {
		t.Fatalf("index renders %q, want %q", got, "one")
	}
}

func TestListIndexRejectsFractionalIndex(t *testing.T) {
	state, ctx, logs := newRun(t)
	scope := state.RegisterScope("i")
	state.Lookup(scope, 0).Value = runtime.FromConstant(runtime.FloatConstant{Val: 1.5})

	_, err := FromPattern(ast.NewListIndex(ast.ListOf(ast.Str("a")), ast.Var(scope, 0, "i")), state, ctx, logs)
	if err == nil {
		t.Fatalf("expected error for fractional index")
	}
}

func TestDynamicSnippetSplicesVariables(t *testing.T) {
	state, ctx, logs := newRun(t)
	scope := state.RegisterScope("xs")
	state.Lookup(scope, 0).Value = &runtime.ListValue{Elements: []runtime.Value{
		runtime.FromString("a"),
		runtime.FromString("b"),
	}}

	snippet := ast.Snippet(ast.Text("use "), ast.Splice(ast.Var(scope, 0, "xs")), ast.Text(";"))
	if got := evalText(t, snippet, state, ctx, logs); got != "use a b;" {
		t.Fatalf("snippet renders %q, want %q", got, "use a b;")
	}
}

func TestDynamicSnippetFailsOnUnboundSplice(t *testing.T) {
	state, ctx, logs := newRun(t)
	scope := state.RegisterScope("x")

	snippet := ast.Snippet(ast.Text("pre"), ast.Splice(ast.Var(scope, 0, "x")))
	_, err := FromPattern(snippet, state, ctx, logs)
	var unresolved *runtime.UnresolvedVariableError
	if !errors.As(err, &unresolved) {
		t.Fatalf("expected UnresolvedVariableError, got %v", err)
	}
}

func TestCodeSnippetWithoutDynamicBodyCannotResolve(t *testing.T) {
	state, ctx, logs := newRun(t)
	_, err := FromPattern(ast.NewCodeSnippet("let x = 1", nil), state, ctx, logs)
	var unsupported *runtime.UnsupportedPatternKindError
	if !errors.As(err, &unsupported) {
		t.Fatalf("expected UnsupportedPatternKindError, got %v", err)
	}
}

func TestCodeSnippetWithDynamicBody(t *testing.T) {
	state, ctx, logs := newRun(t)
	snippet := ast.NewCodeSnippet("x", ast.Snippet(ast.Text("x")))
	if got := evalText(t, snippet, state, ctx, logs); got != "x" {
		t.Fatalf("snippet renders %q, want %q", got, "x")
	}
}

func TestFilePatternResolvesNameAndBody(t *testing.T) {
	state, ctx, logs := newRun(t)
	file := ast.FileOf(ast.Str("foo.txt"), ast.Str("contents"))

	value, err := FromPattern(file, state, ctx, logs)
	if err != nil {
		t.Fatalf("FromPattern returned error: %v", err)
	}
	if value.Kind() != runtime.KindFile {
		t.Fatalf("file pattern kind = %v, want file", value.Kind())
	}
	text, err := runtime.Text(value, state.Files, ctx.Language())
	if err != nil {
		t.Fatalf("Text returned error: %v", err)
	}
	if text != "foo.txt:\ncontents" {
		t.Fatalf("file renders %q, want %q", text, "foo.txt:\ncontents")
	}

	if _, err := runtime.Snippets(value); err == nil {
		t.Fatalf("files can never flatten to fragments")
	}
}

func TestForeignFunctionCallsAreRejected(t *testing.T) {
	state, ctx, logs := newRun(t)
	_, err := FromPattern(ast.NewCallForeignFunction("plot", nil), state, ctx, logs)
	if err == nil {
		t.Fatalf("expected error for foreign function call")
	}
}
