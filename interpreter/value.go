package interpreter

import (
	"fmt"
	"strconv"
)

type ValueKind int

const (
	ValInt ValueKind = iota
	ValString
)

func (k ValueKind) String() string {
	if k == ValString {
		return "string"
	}
	return "integer"
}

// Value is either an integer or a string.
type Value struct {
	Kind ValueKind
	Int  int64
	Str  string
}

func IntValue(n int64) Value     { return Value{Kind: ValInt, Int: n} }
func StringValue(s string) Value { return Value{Kind: ValString, Str: s} }

func (v Value) IsInt() bool { return v.Kind == ValInt }

func (v Value) ToString() string {
	if v.Kind == ValString {
		return v.Str
	}
	return strconv.FormatInt(v.Int, 10)
}

// String quotes strings so trace output distinguishes "5" from 5.
func (v Value) String() string {
	if v.Kind == ValString {
		return fmt.Sprintf("%q", v.Str)
	}
	return v.ToString()
}

// Native returns an int64 or a string.
func (v Value) Native() any {
	if v.Kind == ValString {
		return v.Str
	}
	return v.Int
}

// MarshalYAML renders values as plain scalars.
func (v Value) MarshalYAML() (any, error) {
	return v.Native(), nil
}

// Env maps variable names to their current values.
type Env map[string]Value

func (e Env) Clone() Env {
	out := make(Env, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}
