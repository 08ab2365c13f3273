package interp

import (
	"math"
	"strconv"
)

// ToInt converts a value to a native signed integer. Integers pass
// through; floats must be integral and in range; other values must
// implement to_int. Lossy conversions raise rather than truncate.
func (in *Interp) ToInt(v Value) int64 {
	switch in.KindOf(v) {
	case KindInt:
		n, _ := in.AsInt(v)
		return n
	case KindFloat:
		f, _ := in.AsFloat(v)
		if math.Trunc(f) != f || math.IsInf(f, 0) || math.IsNaN(f) {
			in.RaiseError(in.classRange, "can't convert %v into Integer without loss", f)
		}
		if f < math.MinInt64 || f >= math.MaxInt64 {
			in.RaiseError(in.classRange, "float %v out of range of Integer", f)
		}
		return int64(f)
	}
	r := in.coerceValue(v, "to_int", KindInt, "Integer")
	n, _ := in.AsInt(r)
	return n
}

// ToUint converts a value to a native unsigned integer, additionally
// rejecting negative inputs.
func (in *Interp) ToUint(v Value) uint64 {
	n := in.ToInt(v)
	if n < 0 {
		in.RaiseError(in.classRange, "can't convert negative value %d to unsigned", n)
	}
	return uint64(n)
}

// ToFloat converts a value to a native float. Integers widen; other
// values must implement to_f.
func (in *Interp) ToFloat(v Value) float64 {
	switch in.KindOf(v) {
	case KindFloat:
		f, _ := in.AsFloat(v)
		return f
	case KindInt:
		n, _ := in.AsInt(v)
		return float64(n)
	}
	r := in.coerceValue(v, "to_f", KindFloat, "Float")
	f, _ := in.AsFloat(r)
	return f
}

// ToArray coerces a value toward Array: arrays pass through, then the
// to_ary and to_a protocols are tried, and anything else is wrapped in a
// one-element array.
func (in *Interp) ToArray(v Value) Value {
	if in.KindOf(v) == KindArray {
		return v
	}
	if r, ok := in.tryCoerce(v, "to_ary", KindArray, "Array"); ok {
		return r
	}
	if r, ok := in.tryCoerce(v, "to_a", KindArray, "Array"); ok {
		return r
	}
	if v == Nil {
		return in.NewArray()
	}
	return in.NewArray(v)
}

// ToHash coerces a value toward Hash: hashes pass through, nil becomes an
// empty hash, anything else must implement to_hash.
func (in *Interp) ToHash(v Value) Value {
	if in.KindOf(v) == KindHash {
		return v
	}
	if v == Nil {
		return in.NewHash()
	}
	if r, ok := in.tryCoerce(v, "to_hash", KindHash, "Hash"); ok {
		return r
	}
	in.RaiseError(in.classType, "can't convert %s into Hash", in.typeName(v))
	return Undef
}

// ToString coerces a value to a String by dispatching the to_s protocol,
// so a user-defined to_s is honored. The result must be a String.
func (in *Interp) ToString(v Value) Value {
	if in.KindOf(v) == KindString {
		return v
	}
	return in.coerceValue(v, "to_s", KindString, "String")
}

// Inspect returns the value's inspect string by dispatching the inspect
// protocol. The result must be a String.
func (in *Interp) Inspect(v Value) Value {
	return in.coerceValue(v, "inspect", KindString, "String")
}

// CheckArity raises ArgumentError unless argc lies in [min, max]. A
// negative max means unbounded.
func (in *Interp) CheckArity(argc, min, max int) {
	if argc >= min && (max < 0 || argc <= max) {
		return
	}
	expected := ""
	switch {
	case max < 0:
		expected = strconv.Itoa(min) + "+"
	case min == max:
		expected = strconv.Itoa(min)
	default:
		expected = strconv.Itoa(min) + ".." + strconv.Itoa(max)
	}
	in.RaiseError(in.classArg, "wrong number of arguments (given %d, expected %s)", argc, expected)
}

// ScanArgHash classifies a trailing argument the way keyword-argument
// extraction does. isHash reports whether the value is a Hash or coerces
// to one via to_hash; isOpts additionally requires every key to be a
// String, the shape of a keyword-style options hash.
func (in *Interp) ScanArgHash(last Value) (isHash, isOpts bool) {
	if last == Nil {
		return false, false
	}
	h := last
	if in.KindOf(h) != KindHash {
		r, ok := in.tryCoerce(last, "to_hash", KindHash, "Hash")
		if !ok {
			return false, false
		}
		h = r
	}
	isHash = true
	isOpts = true
	for _, e := range in.slotOf(h).data.(*hashVal).entries {
		if in.KindOf(e.key) != KindString {
			isOpts = false
			break
		}
	}
	return isHash, isOpts
}

// tryCoerce dispatches a conversion protocol when the receiver responds
// to it. The ok result is false when the method is not defined.
func (in *Interp) tryCoerce(v Value, protocol string, want Kind, wantName string) (Value, bool) {
	id := in.Intern(protocol)
	if in.lookupMethod(in.ClassOf(v), id) == nil {
		return Undef, false
	}
	r := in.Call(v, id, nil, false, nil)
	if in.KindOf(r) != want {
		in.RaiseError(in.classType, "can't convert %s to %s (%s#%s gives %s)",
			in.typeName(v), wantName, in.typeName(v), protocol, in.typeName(r))
	}
	return r, true
}

// coerceValue dispatches a conversion protocol, raising TypeError when
// the receiver does not implement it or returns the wrong type.
func (in *Interp) coerceValue(v Value, protocol string, want Kind, wantName string) Value {
	r, ok := in.tryCoerce(v, protocol, want, wantName)
	if !ok {
		in.RaiseError(in.classType, "can't convert %s into %s", in.typeName(v), wantName)
	}
	return r
}
