package model

import "fmt"

// ConfigurationType is the numeric target type code of a configuration.
type ConfigurationType int

// Configuration type codes as stored by Visual Studio.
const (
	TypeUtility        ConfigurationType = 0
	TypeApplication    ConfigurationType = 1
	TypeDynamicLibrary ConfigurationType = 2
	TypeStaticLibrary  ConfigurationType = 4
	TypeGeneric        ConfigurationType = 10

	// TypeInvalid marks a type value that could not be read
	TypeInvalid ConfigurationType = -1
)

// String returns the Visual Studio name of the type code.
func (t ConfigurationType) String() string {
	switch t {
	case TypeUtility:
		return "Utility"
	case TypeApplication:
		return "Application"
	case TypeDynamicLibrary:
		return "DynamicLibrary"
	case TypeStaticLibrary:
		return "StaticLibrary"
	case TypeGeneric:
		return "Makefile"
	default:
		return fmt.Sprintf("ConfigurationType(%d)", int(t))
	}
}

// TargetKind is the kind of CMake target a configuration type maps to.
type TargetKind int

const (
	// KindNone marks types for which no target is created
	KindNone TargetKind = iota
	KindExecutable
	KindSharedLibrary
	KindStaticLibrary
)

// Kind maps the type code onto a CMake target kind. The second result is
// false for codes that cannot be mapped at all.
func (t ConfigurationType) Kind() (TargetKind, bool) {
	switch t {
	case TypeApplication:
		return KindExecutable, true
	case TypeDynamicLibrary:
		return KindSharedLibrary, true
	case TypeStaticLibrary:
		return KindStaticLibrary, true
	case TypeUtility:
		return KindNone, true
	default:
		return KindNone, false
	}
}

// ParseConfigurationType converts the split-schema type names.
func ParseConfigurationType(s string) (ConfigurationType, bool) {
	switch s {
	case "Application":
		return TypeApplication, true
	case "DynamicLibrary":
		return TypeDynamicLibrary, true
	case "StaticLibrary":
		return TypeStaticLibrary, true
	case "Utility":
		return TypeUtility, true
	case "Makefile":
		return TypeGeneric, true
	default:
		return TypeInvalid, false
	}
}
