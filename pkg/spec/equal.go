package spec

import "reflect"

// Equal reports whether a and b describe the same schema tree. Field and
// variant order matters; names and sizes must match exactly.
func Equal(a, b Spec) bool {
	return reflect.DeepEqual(a, b)
}
