package base

import (
	"flag"
	"fmt"
	"math/bits"
	"strings"
)

/***************************************
 * Enum Flags
 ***************************************/

type EnumFlag interface {
	Ord() int32
	fmt.Stringer
}

type EnumUnderlyingType interface {
	~int8 | ~int16 | ~int32 |
		~uint8 | ~uint16 | ~uint32
}

type EnumValue interface {
	comparable
	EnumUnderlyingType
	EnumFlag
}

func EnumBitMask[T EnumValue](values ...T) (mask int32) {
	for _, it := range values {
		mask |= int32(1) << int32(it)
	}
	return
}

// case-insensitive lookup of a value by its String() in an ordered list
func ParseEnum[T fmt.Stringer](dst *T, in string, values ...T) error {
	for _, it := range values {
		if strings.EqualFold(it.String(), in) {
			*dst = it
			return nil
		}
	}
	return MakeUnexpectedValueError(*dst, in)
}

/***************************************
 * Enum Sets
 ***************************************/

type EnumSet[T EnumValue, E interface {
	*T
	flag.Value
}] int32

func NewEnumSet[T EnumValue, E interface {
	*T
	flag.Value
}](list ...T) EnumSet[T, E] {
	return EnumSet[T, E](EnumBitMask(list...))
}

func (x EnumSet[T, E]) Ord() int32          { return int32(x) }
func (x *EnumSet[T, E]) FromOrd(v int32)    { *x = EnumSet[T, E](v) }
func (x EnumSet[T, E]) IsInheritable() bool { return x.Empty() }
func (x EnumSet[T, E]) Empty() bool         { return int32(x) == 0 }
func (x EnumSet[T, E]) Len() int            { return bits.OnesCount32(uint32(x)) }
func (x *EnumSet[T, E]) Clear()             { *x = EnumSet[T, E](0) }

func (x EnumSet[T, E]) Has(it T) bool {
	mask := (int32(1) << int32(it))
	return (int32(x) & mask) == mask
}
func (x EnumSet[T, E]) Intersect(other EnumSet[T, E]) EnumSet[T, E] {
	return EnumSet[T, E](int32(x) & int32(other))
}
func (x EnumSet[T, E]) Any(list ...T) bool {
	return !x.Intersect(NewEnumSet[T, E](list...)).Empty()
}
func (x EnumSet[T, E]) All(list ...T) bool {
	other := NewEnumSet[T, E](list...)
	return x.Intersect(other) == other
}

// ascending order of ordinals
func (x EnumSet[T, E]) Slice() (result []T) {
	result = make([]T, 0, x.Len())
	x.Range(func(_ int, it T) error {
		result = append(result, it)
		return nil
	})
	return
}
func (x EnumSet[T, E]) Range(each func(int, T) error) error {
	for i := 0; x != 0; i++ {
		bit := bits.TrailingZeros32(uint32(x))
		x = EnumSet[T, E](int32(x) & ^(int32(1) << int32(bit)))
		if err := each(i, T(bit)); err != nil {
			return err
		}
	}
	return nil
}
func (x *EnumSet[T, E]) Append(other EnumSet[T, E]) *EnumSet[T, E] {
	*x = EnumSet[T, E](int32(*x) | int32(other))
	return x
}
func (x *EnumSet[T, E]) Add(list ...T) *EnumSet[T, E] {
	x.Append(NewEnumSet[T, E](list...))
	return x
}
func (x *EnumSet[T, E]) RemoveAll(other EnumSet[T, E]) *EnumSet[T, E] {
	*x = EnumSet[T, E](int32(*x) & ^int32(other))
	return x
}
func (x *EnumSet[T, E]) Remove(list ...T) *EnumSet[T, E] {
	x.RemoveAll(NewEnumSet[T, E](list...))
	return x
}
func (x EnumSet[T, E]) Concat(list ...T) EnumSet[T, E] {
	x.Add(list...)
	return x
}
func (x EnumSet[T, E]) Equals(other EnumSet[T, E]) bool {
	return int32(x) == int32(other)
}

func (x *EnumSet[T, E]) Set(in string) error {
	*x = 0
	for _, s := range strings.Split(in, `|`) {
		if s = strings.TrimSpace(s); len(s) == 0 {
			continue
		}
		var it T
		if err := E(&it).Set(s); err == nil {
			x.Add(it)
		} else {
			return err
		}
	}
	return nil
}
func (x EnumSet[T, E]) Test(value string) bool {
	var parsed T
	if err := E(&parsed).Set(value); err != nil {
		return false
	}
	return x.Has(parsed)
}
func (x *EnumSet[T, E]) Select(value string, enabled bool) error {
	var parsed T
	if err := E(&parsed).Set(value); err != nil {
		return err
	}
	if enabled {
		x.Add(parsed)
	} else {
		x.Remove(parsed)
	}
	return nil
}

func (x EnumSet[T, E]) Join(sep string) string {
	sb := strings.Builder{}
	x.Range(func(i int, it T) error {
		if i > 0 {
			sb.WriteString(sep)
		}
		sb.WriteString(it.String())
		return nil
	})
	return sb.String()
}
func (x EnumSet[T, E]) String() string {
	return x.Join("|")
}
func (x EnumSet[T, E]) StringSet() StringSet {
	return MakeStringerSet(x.Slice()...)
}
func (x EnumSet[T, E]) MarshalText() ([]byte, error) {
	return UnsafeBytesFromString(x.String()), nil
}
func (x *EnumSet[T, E]) UnmarshalText(data []byte) error {
	return x.Set(UnsafeStringFromBytes(data))
}
