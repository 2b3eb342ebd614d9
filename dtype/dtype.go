// Package dtype defines the element types storable in arraygo containers
// and their metadata.
//
// The set of types is closed: dispatch code elsewhere in the library
// switches exhaustively over it, and persisted files record the type by its
// stable name so it can be validated on load.
package dtype

import "fmt"

// Type identifies the element type of a container.
type Type uint8

const (
	// Invalid is the zero value. It is never a valid element type.
	Invalid Type = iota
	// Int32 is a signed 32-bit integer.
	Int32
	// Int64 is a signed 64-bit integer.
	Int64
	// Float32 is an IEEE-754 single-precision float.
	Float32
	// Float64 is an IEEE-754 double-precision float.
	Float64
	// Complex64 is a complex number with float32 parts.
	Complex64
	// Complex128 is a complex number with float64 parts.
	Complex128
)

// Class groups element types by their numeric behavior.
type Class uint8

const (
	// ClassInteger covers Int32 and Int64.
	ClassInteger Class = iota + 1
	// ClassFloat covers Float32 and Float64.
	ClassFloat
	// ClassComplex covers Complex64 and Complex128.
	ClassComplex
)

// info holds the static metadata of a Type.
type info struct {
	name  string
	size  int
	class Class
}

var infos = map[Type]info{
	Int32:      {name: "int32", size: 4, class: ClassInteger},
	Int64:      {name: "int64", size: 8, class: ClassInteger},
	Float32:    {name: "float32", size: 4, class: ClassFloat},
	Float64:    {name: "float64", size: 8, class: ClassFloat},
	Complex64:  {name: "complex64", size: 8, class: ClassComplex},
	Complex128: {name: "complex128", size: 16, class: ClassComplex},
}

// Valid reports whether t is one of the defined element types.
func (t Type) Valid() bool {
	_, ok := infos[t]
	return ok
}

// String returns the stable name of the type ("float64", "int32", ...).
// Persisted files store this name; it must never change for an existing type.
func (t Type) String() string {
	if in, ok := infos[t]; ok {
		return in.name
	}
	return fmt.Sprintf("dtype.Type(%d)", uint8(t))
}

// Size returns the element size in bytes, or 0 for an invalid type.
func (t Type) Size() int {
	return infos[t].size
}

// Class returns the numeric class of the type, or 0 for an invalid type.
func (t Type) Class() Class {
	return infos[t].class
}

// IsInteger reports whether t is a signed integer type.
func (t Type) IsInteger() bool { return t.Class() == ClassInteger }

// IsFloat reports whether t is a floating-point type.
func (t Type) IsFloat() bool { return t.Class() == ClassFloat }

// IsComplex reports whether t is a complex type.
func (t Type) IsComplex() bool { return t.Class() == ClassComplex }

// ByName returns a type by its stable name.
//
// This is used by self-describing persistence formats that store the type
// name in their metadata section.
func ByName(name string) (Type, bool) {
	for t, in := range infos {
		if in.name == name {
			return t, true
		}
	}
	return Invalid, false
}

// All returns the defined element types in declaration order.
func All() []Type {
	return []Type{Int32, Int64, Float32, Float64, Complex64, Complex128}
}
