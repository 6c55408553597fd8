package base

import (
	"fmt"
	"sort"
	"strings"
	"unsafe"
)

func UnsafeBytesFromString(in string) []byte {
	return unsafe.Slice(unsafe.StringData(in), len(in))
}
func UnsafeStringFromBytes(raw []byte) string {
	// from func (strings.Builder) String() string
	return unsafe.String(unsafe.SliceData(raw), len(raw))
}

/***************************************
 * Join fmt.Stringer lazily
 ***************************************/

type jointStringer[T fmt.Stringer] struct {
	it    []T
	delim string
}

func (join jointStringer[T]) String() string {
	sb := strings.Builder{}
	for i, x := range join.it {
		if i > 0 {
			sb.WriteString(join.delim)
		}
		sb.WriteString(x.String())
	}
	return sb.String()
}

func Join[T fmt.Stringer](delim string, it ...T) fmt.Stringer {
	return jointStringer[T]{delim: delim, it: it}
}
func JoinString[T fmt.Stringer](delim string, it ...T) string {
	return Join(delim, it...).String()
}

func MakeString(x any) string {
	switch it := x.(type) {
	case string:
		return it
	case fmt.Stringer:
		return it.String()
	case []byte:
		return UnsafeStringFromBytes(it)
	default:
		return fmt.Sprint(x)
	}
}

/***************************************
 * String set
 ***************************************/

// ordered and unique, order matters when sets are joined into CMake lists
type StringSet []string

func NewStringSet(x ...string) (result StringSet) {
	result = make(StringSet, 0, len(x))
	result.AppendUniq(x...)
	return
}

func MakeStringerSet[T fmt.Stringer](it ...T) (result StringSet) {
	result = make(StringSet, 0, len(it))
	for _, x := range it {
		result.AppendUniq(x.String())
	}
	return
}

func (set StringSet) Len() int         { return len(set) }
func (set StringSet) At(i int) string  { return set[i] }
func (set StringSet) Slice() []string  { return set }
func (set StringSet) Empty() bool      { return len(set) == 0 }
func (set StringSet) Sort()            { sort.Strings(set) }
func (set StringSet) Join(sep string) string {
	return strings.Join(set, sep)
}

func (set StringSet) IndexOf(it string) (int, bool) {
	for i, x := range set {
		if x == it {
			return i, true
		}
	}
	return len(set), false
}
func (set StringSet) Any(it ...string) bool {
	for _, x := range it {
		if _, ok := set.IndexOf(x); ok {
			return true
		}
	}
	return false
}
func (set StringSet) Contains(it ...string) bool {
	for _, x := range it {
		if _, ok := set.IndexOf(x); !ok {
			return false
		}
	}
	return true
}
func (set *StringSet) Append(it ...string) *StringSet {
	Assert(func() bool {
		for _, x := range it {
			if len(x) == 0 || set.Contains(x) {
				return false
			}
		}
		return true
	})
	*set = append(*set, it...)
	return set
}
func (set *StringSet) AppendUniq(it ...string) *StringSet {
	for _, x := range it {
		if !set.Contains(x) {
			*set = append(*set, x)
		}
	}
	return set
}
func (set *StringSet) Remove(it ...string) (numRemoved int) {
	for _, x := range it {
		if i, ok := set.IndexOf(x); ok {
			*set = append((*set)[:i], (*set)[i+1:]...)
			numRemoved++
		}
	}
	return
}
func (set *StringSet) Clear() *StringSet {
	*set = []string{}
	return set
}
func (set StringSet) Equals(other StringSet) bool {
	if len(set) != len(other) {
		return false
	}
	for i, x := range set {
		if other[i] != x {
			return false
		}
	}
	return true
}

func (set StringSet) String() string {
	return set.Join(",")
}
func (set *StringSet) Set(in string) error {
	set.Clear()
	for _, x := range strings.Split(in, ",") {
		if x = strings.TrimSpace(x); len(x) > 0 {
			set.AppendUniq(x)
		}
	}
	return nil
}
