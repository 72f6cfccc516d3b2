package runtime

import "fmt"

// The evaluator's failure taxonomy. Every failure is terminal for the
// current evaluation subtree: evaluation is deterministic, so callers
// propagate rather than retry.

// UnresolvedVariableError reports a variable slot holding neither a cached
// value nor a deferred pattern.
type UnresolvedVariableError struct {
	Name string
}

func (e *UnresolvedVariableError) Error() string {
	return fmt.Sprintf("cannot resolve unbound variable %s", e.Name)
}

// UnsupportedConversionError reports a value kind that cannot be converted
// to the requested form, e.g. a file to fragments.
type UnsupportedConversionError struct {
	From string
	To   string
}

func (e *UnsupportedConversionError) Error() string {
	return fmt.Sprintf("cannot convert %s to %s", e.From, e.To)
}

// NotNumericError reports a value that cannot be coerced to a float.
type NotNumericError struct {
	Kind string
}

func (e *NotNumericError) Error() string {
	return fmt.Sprintf("cannot convert %s to float; arithmetic requires numeric-parsable operands", e.Kind)
}

// MissingBindingError reports a binding chain with no bindings, which
// violates the chain's non-empty construction invariant.
type MissingBindingError struct{}

func (e *MissingBindingError) Error() string {
	return "resolved value has no binding"
}

// UnsupportedPatternKindError reports an attempt to evaluate a
// predicate-only pattern kind as a value. Reaching this signals a mis-wired
// compiled query, not user data.
type UnsupportedPatternKindError struct {
	Kind string
}

func (e *UnsupportedPatternKindError) Error() string {
	return fmt.Sprintf("cannot make a resolved value from pattern kind %s", e.Kind)
}
