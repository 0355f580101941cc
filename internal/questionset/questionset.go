// Package questionset reads question set files. A set is a JSON or YAML
// array of question records, or an envelope object carrying a
// format_version, an optional title and the questions array.
package questionset

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	"github.com/Emily9121/WifeyMOOC/internal/question"
)

// SupportedMajor is the envelope format major version this build reads.
const SupportedMajor = "v1"

// ErrEmpty is wrapped by FormatError when a set has no questions.
var ErrEmpty = errors.New("question set has no questions")

// FormatError reports a question set that is not structurally valid.
type FormatError struct {
	Path string
	Err  error
}

func (e *FormatError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("invalid question set: %v", e.Err)
	}
	return fmt.Sprintf("invalid question set %s: %v", e.Path, e.Err)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// Format is a question set encoding.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

// FormatFor picks the encoding from a file extension. Anything other than
// .yaml or .yml is read as JSON.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatJSON
}

// Set is a loaded question set.
type Set struct {
	// Path is the file the set was read from, as given to Load.
	Path string

	// BaseDir is the directory media paths are resolved against.
	BaseDir string

	Title     string
	Version   string
	Questions []question.Spec
}

// Load reads and parses the question set at path.
func Load(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read question set: %w", err)
	}
	set, err := Parse(data, FormatFor(path))
	if err != nil {
		var fe *FormatError
		if errors.As(err, &fe) {
			fe.Path = path
		}
		return nil, err
	}
	set.Path = path
	set.BaseDir = baseDir(path)
	if set.Title == "" {
		set.Title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return set, nil
}

// LoadSpecs loads path and returns its media base directory and questions.
// It matches the signature of a quiz session source.
func LoadSpecs(path string) (string, []question.Spec, error) {
	set, err := Load(path)
	if err != nil {
		return "", nil, err
	}
	return set.BaseDir, set.Questions, nil
}

func baseDir(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Dir(path)
	}
	return filepath.Dir(abs)
}

// Parse decodes a question set. Structural problems are returned as
// *FormatError; individual records are never rejected.
func Parse(data []byte, format Format) (*Set, error) {
	doc, err := decode(data, format)
	if err != nil {
		return nil, &FormatError{Err: err}
	}
	if err := validate(doc); err != nil {
		return nil, &FormatError{Err: err}
	}

	set := &Set{}
	var records []any
	switch v := doc.(type) {
	case []any:
		records = v
	case map[string]any:
		set.Version, _ = v["format_version"].(string)
		set.Title, _ = v["title"].(string)
		if err := checkVersion(set.Version); err != nil {
			return nil, &FormatError{Err: err}
		}
		records, _ = v["questions"].([]any)
	}
	if len(records) == 0 {
		return nil, &FormatError{Err: ErrEmpty}
	}

	set.Questions = make([]question.Spec, len(records))
	for i, r := range records {
		rec, _ := r.(map[string]any)
		set.Questions[i] = question.FromRecord(i, rec)
	}
	return set, nil
}

func checkVersion(v string) error {
	if v == "" {
		return nil
	}
	if !semver.IsValid(v) {
		return fmt.Errorf("format_version %q is not a semantic version", v)
	}
	if major := semver.Major(v); major != SupportedMajor {
		return fmt.Errorf("format_version %s is not supported (want %s.x)", v, SupportedMajor)
	}
	return nil
}

func decode(data []byte, format Format) (any, error) {
	if format == FormatYAML {
		return decodeYAML(data)
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse JSON: %w", err)
	}
	return doc, nil
}

func decodeYAML(data []byte) (any, error) {
	var doc any
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	if err := decoder.Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("parse YAML: empty document")
		}
		return nil, fmt.Errorf("parse YAML: %w", err)
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return nil, fmt.Errorf("parse YAML: multiple YAML documents are not supported")
		}
		return nil, fmt.Errorf("parse YAML: %w", err)
	}
	return normalizeYAML(doc), nil
}

// normalizeYAML converts YAML mappings with non-string keys into
// map[string]any so the set has the same shape as decoded JSON.
func normalizeYAML(v any) any {
	switch v := v.(type) {
	case map[string]any:
		for k, val := range v {
			v[k] = normalizeYAML(val)
		}
		return v
	case map[any]any:
		m := make(map[string]any, len(v))
		for k, val := range v {
			m[fmt.Sprint(k)] = normalizeYAML(val)
		}
		return m
	case []any:
		for i, val := range v {
			v[i] = normalizeYAML(val)
		}
		return v
	}
	return v
}
