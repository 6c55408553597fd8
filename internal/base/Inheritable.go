package base

import (
	"flag"
	"strconv"
	"strings"
)

/***************************************
 * Inheritable interface
 ***************************************/

type InheritableBase interface {
	IsInheritable() bool
}

func Inherit[T InheritableBase](result *T, values ...T) {
	for _, it := range values {
		if (*result).IsInheritable() {
			*result = it
		}
	}
}
func Overwrite[T InheritableBase](result *T, values ...T) {
	for _, it := range values {
		if !it.IsInheritable() {
			*result = it
		}
	}
}

func InheritableCommandLine(name, input string, variable flag.Value) (bool, error) {
	if len(input) > len(name)+1 && input[0] == '-' {
		if input[1:1+len(name)] == name {
			if input[1+len(name)] == '=' {
				return true, variable.Set(input[len(name)+2:])
			}
		}
	}
	return false, nil
}

/***************************************
 * InheritableString
 ***************************************/

type InheritableString string

const (
	INHERIT_STRING = "INHERIT"
)

func (x InheritableString) Empty() bool    { return x == "" }
func (x InheritableString) Get() string    { return (string)(x) }
func (x InheritableString) String() string { return (string)(x) }
func (x InheritableString) IsInheritable() bool {
	return x == INHERIT_STRING || x == ""
}
func (x InheritableString) Equals(y InheritableString) bool {
	return x == y
}
func (x *InheritableString) Set(in string) error {
	*x = InheritableString(in)
	return nil
}

func (x *InheritableString) Inherit(y InheritableString) {
	if x.IsInheritable() {
		*x = y
	}
}
func (x *InheritableString) Overwrite(y InheritableString) {
	if !y.IsInheritable() {
		*x = y
	}
}

func (x InheritableString) MarshalText() ([]byte, error) {
	return UnsafeBytesFromString(x.String()), nil
}
func (x *InheritableString) UnmarshalText(data []byte) error {
	return x.Set(UnsafeStringFromBytes(data))
}

func (x *InheritableString) CommandLine(name, input string) (bool, error) {
	return InheritableCommandLine(name, input, x)
}

/***************************************
 * InheritableInt
 ***************************************/

type InheritableInt int32

const (
	INHERIT_VALUE InheritableInt = 0
)

func (x InheritableInt) Get() int { return int(x) }
func (x *InheritableInt) Assign(in int) {
	*(*int32)(x) = int32(in)
}
func (x InheritableInt) Equals(o InheritableInt) bool {
	return x == o
}
func (x InheritableInt) IsInheritable() bool {
	return x == INHERIT_VALUE
}

func (x InheritableInt) String() string {
	if x.IsInheritable() {
		return INHERIT_STRING
	}
	return strconv.Itoa(x.Get())
}
func (x *InheritableInt) Set(in string) error {
	switch strings.ToUpper(in) {
	case INHERIT_STRING:
		*x = INHERIT_VALUE
		return nil
	default:
		if v, err := strconv.Atoi(in); err == nil {
			*x = InheritableInt(v)
			return nil
		} else {
			return err
		}
	}
}

func (x InheritableInt) MarshalText() ([]byte, error) {
	return UnsafeBytesFromString(x.String()), nil
}
func (x *InheritableInt) UnmarshalText(data []byte) error {
	return x.Set(UnsafeStringFromBytes(data))
}

func (x *InheritableInt) CommandLine(name, input string) (bool, error) {
	if ok, err := InheritableCommandLine(name, input, x); ok || err != nil {
		return ok, err
	}
	if len(name) == 1 && len(input) > 2 && input[0] == '-' && input[1] == name[0] {
		return true, x.Set(input[2:])
	}
	return false, nil
}

/***************************************
 * InheritableBool
 ***************************************/

type InheritableBool InheritableInt

const INHERITABLE_INHERIT InheritableBool = 0
const INHERITABLE_FALSE InheritableBool = 1
const INHERITABLE_TRUE InheritableBool = 2

func MakeBoolVar(enabled bool) (result InheritableBool) {
	result.Assign(enabled)
	return
}

func (x InheritableBool) Get() bool { return x == INHERITABLE_TRUE }
func (x *InheritableBool) Assign(in bool) {
	if in {
		x.Enable()
	} else {
		x.Disable()
	}
}
func (x InheritableBool) Equals(o InheritableBool) bool {
	return x == o
}
func (x InheritableBool) IsInheritable() bool {
	return x == INHERITABLE_INHERIT
}

func (x *InheritableBool) Enable() {
	*x = INHERITABLE_TRUE
}
func (x *InheritableBool) Disable() {
	*x = INHERITABLE_FALSE
}

func (x InheritableBool) String() string {
	if x.Get() {
		return "TRUE"
	} else if !x.IsInheritable() {
		return "FALSE"
	} else {
		return INHERIT_STRING
	}
}
func (x *InheritableBool) Set(in string) error {
	switch strings.ToUpper(in) {
	case "TRUE", "ON", "1":
		x.Enable()
		return nil
	case "FALSE", "OFF", "0":
		x.Disable()
		return nil
	case INHERIT_STRING:
		*x = INHERITABLE_INHERIT
		return nil
	default:
		return MakeUnexpectedValueError(x, in)
	}
}

func (x *InheritableBool) AutoComplete(in AutoComplete) {
	in.Add(INHERITABLE_TRUE.String(), "enabled")
	in.Add(INHERITABLE_FALSE.String(), "disabled")
}
func (x *InheritableBool) CommandLine(name, input string) (bool, error) {
	if ok, err := InheritableCommandLine(name, input, x); ok || err != nil {
		return ok, err
	}
	if len(input) >= len(name)+1 && input[0] == '-' {
		if input[1:] == name {
			*x = INHERITABLE_TRUE
			return true, nil
		}
		if len(input) == 4+len(name) && input[:4] == "-no-" && input[4:] == name {
			*x = INHERITABLE_FALSE
			return true, nil
		}
	}
	return false, nil
}

func (x InheritableBool) MarshalText() ([]byte, error) {
	return UnsafeBytesFromString(x.String()), nil
}
func (x *InheritableBool) UnmarshalText(data []byte) error {
	return x.Set(UnsafeStringFromBytes(data))
}
