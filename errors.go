package cradle

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xraph/go-utils/errs"
)

// =============================================================================
// ERROR CODES
// =============================================================================

const (
	// CodeKeyNotFound indicates a key has no binding and no constructible class
	CodeKeyNotFound = "KEY_NOT_FOUND"

	// CodeClassNotFound indicates a type hint names a type that cannot be built
	CodeClassNotFound = "CLASS_NOT_FOUND"

	// CodeBindingResolution indicates a parameter could not be satisfied
	CodeBindingResolution = "BINDING_RESOLUTION"

	// CodeUnsupportedSignature indicates an ambiguous parameter type hint
	CodeUnsupportedSignature = "UNSUPPORTED_SIGNATURE"

	// CodeCyclicAlias indicates an alias chain that revisits a key
	CodeCyclicAlias = "CYCLIC_ALIAS"

	// CodeCircularDependency indicates a class that requires itself
	CodeCircularDependency = "CIRCULAR_DEPENDENCY"

	// CodeInvalidConstructor indicates a constructor that cannot be declared
	CodeInvalidConstructor = "INVALID_CONSTRUCTOR"

	// CodeConstructionFailed indicates a constructor or factory returned an error
	CodeConstructionFailed = "CONSTRUCTION_FAILED"

	// CodeTypeMismatch indicates a resolved value of an unexpected type
	CodeTypeMismatch = "TYPE_MISMATCH"

	// CodeMethodNotFound indicates Call was given a method the target lacks
	CodeMethodNotFound = "METHOD_NOT_FOUND"

	// CodeInvalidCallable indicates Call was given something it cannot invoke
	CodeInvalidCallable = "INVALID_CALLABLE"
)

// =============================================================================
// SENTINEL ERRORS
// =============================================================================

// Sentinels match any error of the same code with errors.Is.
var (
	ErrKeyNotFoundSentinel          = errs.NewError(CodeKeyNotFound, "key not found", nil)
	ErrClassNotFoundSentinel        = errs.NewError(CodeClassNotFound, "class not found", nil)
	ErrBindingResolutionSentinel    = errs.NewError(CodeBindingResolution, "binding resolution failed", nil)
	ErrUnsupportedSignatureSentinel = errs.NewError(CodeUnsupportedSignature, "unsupported signature", nil)
	ErrCyclicAliasSentinel          = errs.NewError(CodeCyclicAlias, "cyclic alias", nil)
	ErrCircularDependencySentinel   = errs.NewError(CodeCircularDependency, "circular dependency", nil)
	ErrInvalidConstructorSentinel   = errs.NewError(CodeInvalidConstructor, "invalid constructor", nil)
	ErrConstructionFailedSentinel   = errs.NewError(CodeConstructionFailed, "construction failed", nil)
	ErrTypeMismatchSentinel         = errs.NewError(CodeTypeMismatch, "type mismatch", nil)
	ErrMethodNotFoundSentinel       = errs.NewError(CodeMethodNotFound, "method not found", nil)
	ErrInvalidCallableSentinel      = errs.NewError(CodeInvalidCallable, "invalid callable", nil)
)

// =============================================================================
// ERROR CONSTRUCTORS
// =============================================================================

// ErrKeyNotFound creates an error for a key with no binding and no class.
func ErrKeyNotFound(key string) *errs.Error {
	return errs.NewError(CodeKeyNotFound, fmt.Sprintf("key '%s' is not bound", key), nil)
}

// ErrClassNotFound creates an error for a type hint that cannot be built.
func ErrClassNotFound(key string) *errs.Error {
	return errs.NewError(CodeClassNotFound, fmt.Sprintf("class '%s' cannot be located", key), nil)
}

// ErrBindingResolution creates an error for an unsatisfiable parameter of owner.
func ErrBindingResolution(owner, param string, cause error) *errs.Error {
	return errs.NewError(
		CodeBindingResolution,
		fmt.Sprintf("unresolvable parameter %s of '%s'", param, owner),
		cause,
	)
}

// ErrUnsupportedSignature creates an error for a parameter hinted with several types.
func ErrUnsupportedSignature(owner, param string, keys []string) *errs.Error {
	return errs.NewError(
		CodeUnsupportedSignature,
		fmt.Sprintf("parameter %s of '%s' is ambiguous: %s", param, owner, strings.Join(keys, " | ")),
		nil,
	)
}

// ErrCyclicAlias creates an error for an alias chain that loops.
func ErrCyclicAlias(chain []string) *errs.Error {
	return errs.NewError(
		CodeCyclicAlias,
		"cyclic alias detected: "+strings.Join(chain, " -> "),
		nil,
	)
}

// ErrCircularDependency creates an error for a class graph that loops.
func ErrCircularDependency(chain []string) *errs.Error {
	return errs.NewError(
		CodeCircularDependency,
		"circular dependency detected: "+strings.Join(chain, " -> "),
		nil,
	)
}

// ErrInvalidConstructor creates an error for a constructor that cannot be declared.
func ErrInvalidConstructor(reason string) *errs.Error {
	return errs.NewError(CodeInvalidConstructor, "invalid constructor: "+reason, nil)
}

// NewConstructionError wraps an error returned by the constructor or factory of key.
func NewConstructionError(key string, cause error) *errs.Error {
	return errs.NewError(
		CodeConstructionFailed,
		fmt.Sprintf("constructing '%s' failed", key),
		cause,
	)
}

// ErrTypeMismatch creates an error for a resolved value of the wrong type.
func ErrTypeMismatch(key string, actual any) *errs.Error {
	return errs.NewError(
		CodeTypeMismatch,
		fmt.Sprintf("'%s' type mismatch: got %T", key, actual),
		nil,
	)
}

// ErrMethodNotFound creates an error for a method missing on the call target.
func ErrMethodNotFound(target, method string) *errs.Error {
	return errs.NewError(
		CodeMethodNotFound,
		fmt.Sprintf("'%s' has no exported method %s", target, method),
		nil,
	)
}

// ErrInvalidCallable creates an error for a value Call cannot invoke.
func ErrInvalidCallable(callable, reason string) *errs.Error {
	return errs.NewError(
		CodeInvalidCallable,
		fmt.Sprintf("cannot call %s: %s", callable, reason),
		nil,
	)
}

// IsNotFound reports whether err is a KEY_NOT_FOUND or CLASS_NOT_FOUND error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrKeyNotFoundSentinel) || errors.Is(err, ErrClassNotFoundSentinel)
}

// IsCycle reports whether err is a CYCLIC_ALIAS or CIRCULAR_DEPENDENCY error.
func IsCycle(err error) bool {
	return errors.Is(err, ErrCyclicAliasSentinel) || errors.Is(err, ErrCircularDependencySentinel)
}
