package depgraph

import (
	"errors"
	"fmt"
)

// Error kinds reported while resolving a module tree. Match them with errors.Is.
var (
	ErrFileNotFound               = errors.New("file not found")
	ErrMissingModuleDeclaration   = errors.New("missing module declaration")
	ErrDuplicateModuleDeclaration = errors.New("duplicate module declaration")
	ErrModuleIdentityMismatch     = errors.New("module identity mismatch")
	ErrInvalidIdentifier          = errors.New("invalid identifier")
	ErrCircularDependency         = errors.New("circular dependency")
)

// Error is a classified resolution failure tied to the file that caused it.
type Error struct {
	Kind    error
	File    string
	Message string
	// Module and Other name the modules involved in identity mismatches and cycles.
	Module string
	Other  string
	Err    error
}

func (e *Error) Error() string {
	if e.File == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.File, e.Message)
}

// Is reports whether target is the error's kind.
func (e *Error) Is(target error) bool {
	return e.Kind == target
}

func (e *Error) Unwrap() error {
	return e.Err
}

func fileNotFound(path string, cause error) *Error {
	return &Error{
		Kind:    ErrFileNotFound,
		File:    path,
		Message: fmt.Sprintf("file %s does not exist", path),
		Err:     cause,
	}
}

func missingModule(fileName string) *Error {
	return &Error{
		Kind:    ErrMissingModuleDeclaration,
		File:    fileName,
		Message: "no `module` statement found",
	}
}

func duplicateModule(fileName string) *Error {
	return &Error{
		Kind:    ErrDuplicateModuleDeclaration,
		File:    fileName,
		Message: "file can contain only one `module` statement",
	}
}

func invalidIdentifier(fileName, what, identifier string) *Error {
	return &Error{
		Kind:    ErrInvalidIdentifier,
		File:    fileName,
		Message: fmt.Sprintf("%s %q can contain only letters, digits and dots", what, identifier),
	}
}

func identityMismatch(fileName, module, other string) *Error {
	return &Error{
		Kind:    ErrModuleIdentityMismatch,
		File:    fileName,
		Module:  module,
		Other:   other,
		Message: fmt.Sprintf("file is included in module %s but belongs in module %s", module, other),
	}
}

func circularDependency(fileName, module, other string, cause error) *Error {
	return &Error{
		Kind:    ErrCircularDependency,
		File:    fileName,
		Module:  module,
		Other:   other,
		Message: fmt.Sprintf("importing module %s from %s creates a dependency cycle", other, module),
		Err:     cause,
	}
}
