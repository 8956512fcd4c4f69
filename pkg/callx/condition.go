package callx

import "reflect"

// Condition turns a successful but unusable body into a failure.
type Condition int

const (
	// NullResponse fails a call whose value is nil with ErrNullData.
	NullResponse Condition = iota + 1
	// EmptyList fails a call whose value is an empty slice, array or map
	// with ErrEmptyList. A nil collection counts as null, not empty.
	EmptyList
)

func (c Condition) String() string {
	switch c {
	case NullResponse:
		return "null_response"
	case EmptyList:
		return "empty_list"
	default:
		return "unknown"
	}
}

func checkConditions[R any](v R, conds []Condition) error {
	if len(conds) == 0 {
		return nil
	}

	rv := reflect.ValueOf(any(v))
	for _, cond := range conds {
		switch cond {
		case NullResponse:
			if isNil(rv) {
				return callxErrors.New(ErrNullData)
			}
		case EmptyList:
			if isEmpty(rv) {
				return callxErrors.New(ErrEmptyList)
			}
		}
	}
	return nil
}

func isNil(rv reflect.Value) bool {
	if !rv.IsValid() {
		return true
	}
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Chan, reflect.Func:
		return rv.IsNil()
	}
	return false
}

func isEmpty(rv reflect.Value) bool {
	for rv.IsValid() && (rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface) {
		if rv.IsNil() {
			return false
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() {
		return false
	}

	switch rv.Kind() {
	case reflect.Slice, reflect.Map:
		return !rv.IsNil() && rv.Len() == 0
	case reflect.Array:
		return rv.Len() == 0
	}
	return false
}
