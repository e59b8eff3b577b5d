package safe

import (
	"fmt"
	"reflect"

	"relaykit/logger"
)

// MustNotNil panics if the given value is nil.
// Useful for enforcing required collaborators during construction.
func MustNotNil(v any, name string) {
	if v == nil {
		panic(fmt.Sprintf("%s must not be nil", name))
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Func, reflect.Map, reflect.Chan, reflect.Slice, reflect.Interface:
		if rv.IsNil() {
			panic(fmt.Sprintf("%s must not be nil", name))
		}
	}
}

// Go starts a goroutine that recovers from panics so a misbehaving
// callback cannot crash the process.
func Go(f func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Errorf("[safe.Go] panic recovered: %v", r)
			}
		}()
		f()
	}()
}

// Invoke runs f on the calling goroutine, recovering and logging any panic.
// This is the isolation boundary for event listeners and protocol handlers:
// one failing callback never prevents its siblings from running.
func Invoke(name string, f func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("[%s] listener panic recovered: %v", name, r)
		}
	}()
	f()
}
