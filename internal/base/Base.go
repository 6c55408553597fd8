package base

import (
	"io"
	"reflect"
	"sort"
	"time"
)

var LogBase = NewLogCategory("Base")

var StartedAt = Memoize[time.Time](func() time.Time {
	return time.Now()
})

func IsNil(v interface{}) bool {
	if v == nil {
		return true
	}
	val := reflect.ValueOf(v)
	switch val.Kind() {
	case reflect.Chan, reflect.Func, reflect.Map, reflect.Pointer, reflect.UnsafePointer, reflect.Interface, reflect.Slice:
		return val.IsNil()
	}
	return false
}

/***************************************
 * Interfaces
 ***************************************/

type Closable interface {
	Close() error
}

type Flushable interface {
	Flush() error
}

func FlushWriterIFP(w io.Writer) (err error) {
	if flush, ok := w.(Flushable); ok {
		err = flush.Flush()
	}
	return
}

type Equatable[T any] interface {
	Equals(other T) bool
}

/***************************************
 * Slices & maps
 ***************************************/

func CopySlice[T any](src ...T) []T {
	dst := make([]T, len(src))
	copy(dst, src)
	return dst
}

func Keys[K comparable, V any](it map[K]V) []K {
	keys := make([]K, 0, len(it))
	for k := range it {
		keys = append(keys, k)
	}
	return keys
}

func SortedKeys[V any](it map[string]V) []string {
	keys := Keys(it)
	sort.Strings(keys)
	return keys
}

func Contains[T comparable](arr []T, values ...T) bool {
	for _, x := range values {
		found := false
		for _, y := range arr {
			if x == y {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func RemoveUnless[T any](pred func(T) bool, src ...T) (result []T) {
	result = make([]T, 0, len(src))
	for _, it := range src {
		if pred(it) {
			result = append(result, it)
		}
	}
	return
}
