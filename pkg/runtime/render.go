package runtime

import (
	"fmt"
	"strconv"
	"strings"

	"gritql/engine-go/pkg/tree"
)

// Snippets flattens any value into an ordered fragment sequence, keeping
// each piece traceable back to its source range. Lists join elements with a
// single space; maps render `{"key": value, ...}` in lexicographic key
// order; files can never be inlined as text.
func Snippets(v Value) (*FragmentsValue, error) {
	switch val := v.(type) {
	case *FragmentsValue:
		parts := make([]Fragment, len(val.Parts))
		copy(parts, val.Parts)
		return &FragmentsValue{Parts: parts}, nil
	case *BindingValue:
		last, ok := val.Last()
		if !ok {
			return nil, &MissingBindingError{}
		}
		return FromFragment(BindingFragment{Binding: last}), nil
	case *ListValue:
		var parts []Fragment
		for i, element := range val.Elements {
			if i > 0 {
				parts = append(parts, TextFragment{Val: " "})
			}
			flattened, err := Snippets(element)
			if err != nil {
				return nil, err
			}
			parts = append(parts, flattened.Parts...)
		}
		return &FragmentsValue{Parts: parts}, nil
	case *MapValue:
		parts := []Fragment{TextFragment{Val: "{"}}
		keys := val.Keys()
		for i, key := range keys {
			parts = append(parts, TextFragment{Val: fmt.Sprintf("%q: ", key)})
			flattened, err := Snippets(val.Entries[key])
			if err != nil {
				return nil, err
			}
			parts = append(parts, flattened.Parts...)
			if i < len(keys)-1 {
				parts = append(parts, TextFragment{Val: ", "})
			}
		}
		parts = append(parts, TextFragment{Val: "}"})
		return &FragmentsValue{Parts: parts}, nil
	case ConstantValue:
		return FromString(val.Constant.String()), nil
	case *FileValue, *FilesValue:
		return nil, &UnsupportedConversionError{From: v.Kind().String(), To: "fragments"}
	default:
		return nil, &UnsupportedConversionError{From: v.Kind().String(), To: "fragments"}
	}
}

// Text fully materializes a value to one owned string. Binding and fragment
// text comes back verbatim from the source; composite values render through
// Snippets so Text stays consistent with fragment decomposition; a file
// renders as "name:\nbody".
func Text(v Value, files *FileRegistry, lang *tree.Language) (string, error) {
	switch val := v.(type) {
	case *BindingValue:
		last, ok := val.Last()
		if !ok {
			return "", &MissingBindingError{}
		}
		return last.Text(), nil
	case *FragmentsValue:
		var b strings.Builder
		for _, part := range val.Parts {
			b.WriteString(part.Text())
		}
		return b.String(), nil
	case *FileValue:
		name, body, err := fileParts(val, files)
		if err != nil {
			return "", err
		}
		nameText, err := Text(name, files, lang)
		if err != nil {
			return "", err
		}
		bodyText, err := Text(body, files, lang)
		if err != nil {
			return "", err
		}
		return nameText + ":\n" + bodyText, nil
	case *ListValue, *MapValue, ConstantValue:
		flattened, err := Snippets(v)
		if err != nil {
			return "", err
		}
		return Text(flattened, files, lang)
	case *FilesValue:
		return "", &UnsupportedConversionError{From: val.Kind().String(), To: "text"}
	default:
		return "", &UnsupportedConversionError{From: v.Kind().String(), To: "text"}
	}
}

func fileParts(v *FileValue, files *FileRegistry) (name, body Value, err error) {
	switch {
	case v.Resolved != nil:
		return v.Resolved.Name, v.Resolved.Body, nil
	case v.Ptr != nil:
		if files == nil {
			return nil, nil, fmt.Errorf("file pointer %v without a registry", *v.Ptr)
		}
		name, err = files.NameValue(*v.Ptr)
		if err != nil {
			return nil, nil, err
		}
		body, err = files.BodyValue(*v.Ptr)
		if err != nil {
			return nil, nil, err
		}
		return name, body, nil
	default:
		return nil, nil, fmt.Errorf("file value with neither pointer nor resolved pair")
	}
}

// Float coerces a value to a 64-bit float so arithmetic can treat literal
// numbers, matched source substrings and computed template text uniformly.
func Float(v Value, files *FileRegistry, lang *tree.Language) (float64, error) {
	switch val := v.(type) {
	case ConstantValue:
		switch c := val.Constant.(type) {
		case FloatConstant:
			return c.Val, nil
		case IntegerConstant:
			return float64(c.Val), nil
		case StringConstant:
			f, err := strconv.ParseFloat(c.Val, 64)
			if err != nil {
				return 0, &NotNumericError{Kind: "string constant"}
			}
			return f, nil
		case BooleanConstant:
			return 0, &NotNumericError{Kind: "boolean constant"}
		default:
			return 0, &NotNumericError{Kind: "undefined constant"}
		}
	case *FragmentsValue:
		text, err := Text(val, files, lang)
		if err != nil {
			return 0, err
		}
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return 0, &NotNumericError{Kind: v.Kind().String()}
		}
		return f, nil
	case *BindingValue:
		last, ok := val.Last()
		if !ok {
			return 0, &MissingBindingError{}
		}
		f, err := strconv.ParseFloat(last.Text(), 64)
		if err != nil {
			return 0, &NotNumericError{Kind: v.Kind().String()}
		}
		return f, nil
	default:
		return 0, &NotNumericError{Kind: v.Kind().String()}
	}
}

// Truthy implements the query language's truthiness rules: empty composites,
// empty placeholders and falsy constants are false; everything concrete is
// true.
func Truthy(v Value) bool {
	switch val := v.(type) {
	case ConstantValue:
		return val.Constant.Truthy()
	case *BindingValue:
		last, ok := val.Last()
		if !ok {
			return false
		}
		return last.Truthy()
	case *ListValue:
		return len(val.Elements) > 0
	case *MapValue:
		return len(val.Entries) > 0
	default:
		return true
	}
}
