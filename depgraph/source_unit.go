package depgraph

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/LegacyCodeHQ/maat/vcs"
)

// SourceExtension is appended to source paths that do not already carry it.
const SourceExtension = ".f"

// maxDeclarationLines bounds how far into a file declarations are looked for.
const maxDeclarationLines = 60

const (
	modulePrefix  = "module "
	importPrefix  = "import "
	includePrefix = `include "`
)

// SourceUnit holds the declarations found at the top of a single source file.
type SourceUnit struct {
	FilePath   string
	FileName   string
	ModuleName string
	Imports    []string
	Includes   []string
}

// NormalizeSourcePath appends the source extension if missing and makes the path absolute.
func NormalizeSourcePath(filePath string) (string, error) {
	if !strings.HasSuffix(filePath, SourceExtension) {
		filePath += SourceExtension
	}
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path %s: %w", filePath, err)
	}
	return absPath, nil
}

// ParseSourceUnit reads the declarations of the file at filePath.
// Only the first 60 lines are inspected.
func ParseSourceUnit(filePath string, contentReader vcs.ContentReader) (*SourceUnit, error) {
	absPath, err := NormalizeSourcePath(filePath)
	if err != nil {
		return nil, err
	}

	content, err := contentReader(absPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fileNotFound(absPath, err)
		}
		return nil, fmt.Errorf("failed to read %s: %w", absPath, err)
	}

	unit := &SourceUnit{
		FilePath: absPath,
		FileName: filepath.Base(absPath),
	}
	if err := unit.parse(content); err != nil {
		return nil, err
	}
	return unit, nil
}

func (u *SourceUnit) parse(content []byte) error {
	reader := bufio.NewReader(bytes.NewReader(content))

	seenModule := false
	for lineNo := 0; lineNo < maxDeclarationLines; lineNo++ {
		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("failed to read %s: %w", u.FilePath, err)
		}
		if line == "" && err != nil {
			break
		}
		line = strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r")

		switch {
		case strings.HasPrefix(line, modulePrefix):
			if seenModule {
				return duplicateModule(u.FileName)
			}
			seenModule = true

			name := wordAfter(line, len(modulePrefix))
			if !isValidIdentifier(name) {
				return invalidIdentifier(u.FileName, "module name", name)
			}
			u.ModuleName = name

		case strings.HasPrefix(line, importPrefix):
			name := wordAfter(line, len(importPrefix))
			if !isValidIdentifier(name) {
				return invalidIdentifier(u.FileName, "import", name)
			}
			u.Imports = append(u.Imports, name)

		case strings.HasPrefix(line, includePrefix):
			rest := line[len(includePrefix):]
			if end := strings.IndexByte(rest, '"'); end >= 0 {
				rest = rest[:end]
			}
			u.Includes = append(u.Includes, rest)
		}

		if err != nil {
			break
		}
	}

	if !seenModule {
		return missingModule(u.FileName)
	}
	return nil
}

// wordAfter returns the text from start up to the next space or end of line.
func wordAfter(line string, start int) string {
	rest := line[start:]
	if end := strings.IndexByte(rest, ' '); end >= 0 {
		return rest[:end]
	}
	return rest
}

func isValidIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '.':
		default:
			return false
		}
	}
	return true
}
