// Package export writes saved session notes to disk as markdown files with a
// YAML frontmatter header.
package export

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sessionscribe/scribe/internal/model/note"
)

// ErrInvalidFrontmatter is returned when a file lacks the "---" delimited header.
var ErrInvalidFrontmatter = errors.New("invalid frontmatter format")

type frontmatter struct {
	Name string `yaml:"name"`
	Date string `yaml:"date"`
}

const delimiter = "---\n"

// FileName returns the markdown file name for a note. Names are not unique:
// distinct notes may sanitize to the same file name.
func FileName(n note.Note) string {
	return sanitize(n.Name+"_"+n.Date) + ".md"
}

// WriteNote writes n into dir under FileName(n) and returns the file path.
func WriteNote(dir string, n note.Note) (string, error) {
	path := filepath.Join(dir, FileName(n))
	if err := writeFile(path, n); err != nil {
		return "", err
	}
	return path, nil
}

// WriteAll writes every note into dir, creating it if needed. Notes whose file
// names collide within the batch get a numeric suffix.
func WriteAll(dir string, notes []note.Note) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create export dir: %w", err)
	}

	used := make(map[string]struct{}, len(notes))
	paths := make([]string, 0, len(notes))
	for _, n := range notes {
		name := uniqueName(FileName(n), used)
		path := filepath.Join(dir, name)
		if err := writeFile(path, n); err != nil {
			return paths, fmt.Errorf("export %s: %w", name, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func uniqueName(name string, used map[string]struct{}) string {
	base := strings.TrimSuffix(name, ".md")
	candidate := name
	for i := 2; ; i++ {
		if _, taken := used[candidate]; !taken {
			used[candidate] = struct{}{}
			return candidate
		}
		candidate = fmt.Sprintf("%s-%d.md", base, i)
	}
}

func writeFile(path string, n note.Note) error {
	var buf bytes.Buffer
	buf.WriteString(delimiter)

	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(frontmatter{Name: n.Name, Date: n.Date}); err != nil {
		return fmt.Errorf("failed to encode frontmatter: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("failed to encode frontmatter: %w", err)
	}

	buf.WriteString(delimiter)
	buf.WriteString("\n")
	buf.WriteString(n.Notes)
	buf.WriteString("\n")

	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// ReadNote parses a file written by WriteNote. The header ends at the first
// line that is exactly "---".
func ReadNote(path string) (note.Note, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return note.Note{}, err
	}

	if !bytes.HasPrefix(data, []byte(delimiter)) {
		return note.Note{}, ErrInvalidFrontmatter
	}
	rest := data[len(delimiter):]
	end := bytes.Index(rest, []byte("\n"+delimiter))
	if end < 0 {
		return note.Note{}, ErrInvalidFrontmatter
	}

	var meta frontmatter
	if err := yaml.Unmarshal(rest[:end], &meta); err != nil {
		return note.Note{}, fmt.Errorf("failed to parse frontmatter: %w", err)
	}

	return note.Note{
		Name:  meta.Name,
		Date:  meta.Date,
		Notes: string(bytes.TrimSpace(rest[end+1+len(delimiter):])),
	}, nil
}

func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '-'
		}
		if r < 0x20 {
			return -1
		}
		return r
	}, s)
}
