package base

import "sync"

/***************************************
 * Memoize
 ***************************************/

func Memoize[T any](fn func() T) func() T {
	var memoized T
	once := sync.Once{}
	return func() T {
		once.Do(func() { memoized = fn() })
		return memoized
	}
}

func MemoizeComparable[T any, ARG comparable](fn func(ARG) T) func(ARG) T {
	memoized := make(map[ARG]T)
	mutex := sync.Mutex{}
	return func(a ARG) T {
		mutex.Lock()
		defer mutex.Unlock()

		result, ok := memoized[a]
		if !ok {
			result = fn(a)
			memoized[a] = result
		}
		return result
	}
}
