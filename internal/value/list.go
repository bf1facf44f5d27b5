package value

import "fmt"

// ImproperListError reports that a list-consuming operation required a
// proper list (Unit-terminated) but found a different tail.
type ImproperListError struct {
	Tail Value
}

func (e *ImproperListError) Error() string {
	return fmt.Sprintf("improper list: tail is %s, not ()", describe(e.Tail))
}

// List builds a proper list from vs, terminating in Unit.
func List(vs ...Value) Value {
	var out Value = TheUnit
	for i := len(vs) - 1; i >= 0; i-- {
		out = &Pair{Car: vs[i], Cdr: out}
	}
	return out
}

// ToSlice walks a list, yielding its elements until a non-Pair tail is
// reached. Pair iteration is a finite sequence terminating when a non-pair
// tail is reached; if that tail is not Unit, properTail is false and tail
// holds the offending dotted-list value.
func ToSlice(v Value) (elems []Value, properTail bool, tail Value) {
	cur := v
	for {
		p, ok := cur.(*Pair)
		if !ok {
			break
		}
		elems = append(elems, p.Car)
		cur = p.Cdr
	}
	if _, isUnit := cur.(Unit); isUnit {
		return elems, true, nil
	}
	return elems, false, cur
}

// ToProperSlice is ToSlice but requires a proper list, returning
// ImproperListError otherwise — used by contexts that require proper lists
// (map', filter', apply's spread argument).
func ToProperSlice(v Value) ([]Value, error) {
	elems, proper, tail := ToSlice(v)
	if !proper {
		return nil, &ImproperListError{Tail: tail}
	}
	return elems, nil
}

// Append concatenates a proper list with an arbitrary tail value (used by
// the `append` primitive).
func Append(list Value, tail Value) (Value, error) {
	elems, err := ToProperSlice(list)
	if err != nil {
		return nil, err
	}
	out := tail
	for i := len(elems) - 1; i >= 0; i-- {
		out = &Pair{Car: elems[i], Cdr: out}
	}
	return out, nil
}

// Length returns the number of elements of a proper list.
func Length(v Value) (int, error) {
	elems, err := ToProperSlice(v)
	if err != nil {
		return 0, err
	}
	return len(elems), nil
}
