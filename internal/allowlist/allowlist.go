// Package allowlist loads and validates the static command allow-list.
// The allow-list maps a command identifier to an ordered argument-vector
// template of literal tokens and typed placeholders. It is the only set of
// commands the gateway will ever execute; it is loaded once at startup and
// is read-only afterward.
package allowlist

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

// Kind is the validation type of a placeholder value.
type Kind string

// Placeholder kinds. Path values are sanitized against the project root,
// identifier values must match identifierPattern, and string values are
// bounded free text.
const (
	KindString     Kind = "string"
	KindPath       Kind = "path"
	KindIdentifier Kind = "identifier"
)

// identifierPattern constrains command identifiers and identifier-kind values.
var identifierPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ValidIdentifier reports whether s is a legal command or opaque identifier:
// nonempty, alphanumeric plus hyphen and underscore.
func ValidIdentifier(s string) bool {
	return identifierPattern.MatchString(s)
}

// Placeholder is a named, typed slot in a template, filled from caller
// arguments at build time.
type Placeholder struct {
	Name     string
	Kind     Kind
	Required bool

	// Glob optionally constrains path-kind values: the caller-supplied
	// relative path must match this doublestar pattern.
	Glob string
}

// Token is one element of an argument-vector template: either a literal
// string appended verbatim, or a placeholder resolved from caller arguments.
type Token struct {
	Literal     string
	Placeholder *Placeholder
}

// IsLiteral reports whether the token is a literal rather than a placeholder.
func (t Token) IsLiteral() bool {
	return t.Placeholder == nil
}

// Entry is the ordered argument-vector template for one command identifier.
// Template order is the emitted argv order.
type Entry struct {
	Tokens []Token
}

// Store holds the parsed allow-list. It has no mutation API; a changed
// allow-list file requires a process restart.
type Store struct {
	entries map[string]Entry
}

// Load reads and parses the allow-list file at path. A missing or malformed
// file is an error; callers treat it as startup-fatal.
func Load(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("allow-list file not found: %s", path)
		}
		return nil, fmt.Errorf("read allow-list: %w", err)
	}
	store, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse allow-list %s: %w", path, err)
	}
	return store, nil
}

// Parse parses allow-list YAML. Two top-level shapes are accepted: a map of
// command id to template, or the same map nested under a "commands" key.
func Parse(data []byte) (*Store, error) {
	var wrapper struct {
		Commands map[string][]yaml.Node `yaml:"commands"`
	}
	raw := map[string][]yaml.Node{}

	if err := yaml.Unmarshal(data, &wrapper); err == nil && len(wrapper.Commands) > 0 {
		raw = wrapper.Commands
	} else if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}
	delete(raw, "commands")

	if len(raw) == 0 {
		return nil, errors.New("allow-list defines no commands")
	}

	entries := make(map[string]Entry, len(raw))
	for cmdID, items := range raw {
		if !ValidIdentifier(cmdID) {
			return nil, fmt.Errorf("invalid command id %q", cmdID)
		}
		entry, err := parseEntry(cmdID, items)
		if err != nil {
			return nil, err
		}
		entries[cmdID] = entry
	}

	return &Store{entries: entries}, nil
}

// parseEntry converts one command's template items into tokens.
func parseEntry(cmdID string, items []yaml.Node) (Entry, error) {
	if len(items) == 0 {
		return Entry{}, fmt.Errorf("command %q: empty template", cmdID)
	}

	tokens := make([]Token, 0, len(items))
	seen := map[string]struct{}{}

	for i, node := range items {
		switch node.Kind {
		case yaml.ScalarNode:
			var lit string
			if err := node.Decode(&lit); err != nil {
				return Entry{}, fmt.Errorf("command %q: token %d: %w", cmdID, i, err)
			}
			tokens = append(tokens, Token{Literal: lit})

		case yaml.MappingNode:
			ph, err := parsePlaceholder(cmdID, i, node)
			if err != nil {
				return Entry{}, err
			}
			if _, dup := seen[ph.Name]; dup {
				return Entry{}, fmt.Errorf("command %q: duplicate placeholder %q", cmdID, ph.Name)
			}
			seen[ph.Name] = struct{}{}
			tokens = append(tokens, Token{Placeholder: ph})

		default:
			return Entry{}, fmt.Errorf("command %q: token %d: must be a string or a placeholder map", cmdID, i)
		}
	}

	return Entry{Tokens: tokens}, nil
}

// placeholderSpec is the YAML shape of a placeholder definition.
type placeholderSpec struct {
	Type     string `yaml:"type"`
	Required *bool  `yaml:"required"`
	Glob     string `yaml:"glob"`
}

// parsePlaceholder decodes a single-key map token, e.g.
//
//	- file: {type: path, required: true, glob: "envelopes/*.json"}
func parsePlaceholder(cmdID string, idx int, node yaml.Node) (*Placeholder, error) {
	var spec map[string]placeholderSpec
	if err := node.Decode(&spec); err != nil {
		return nil, fmt.Errorf("command %q: token %d: %w", cmdID, idx, err)
	}
	if len(spec) != 1 {
		return nil, fmt.Errorf("command %q: token %d: placeholder must have exactly one name", cmdID, idx)
	}

	for name, s := range spec {
		if !ValidIdentifier(name) {
			return nil, fmt.Errorf("command %q: invalid placeholder name %q", cmdID, name)
		}
		kind, err := parseKind(s.Type)
		if err != nil {
			return nil, fmt.Errorf("command %q: placeholder %q: %w", cmdID, name, err)
		}
		required := true
		if s.Required != nil {
			required = *s.Required
		}
		if s.Glob != "" {
			if kind != KindPath {
				return nil, fmt.Errorf("command %q: placeholder %q: glob only applies to path placeholders", cmdID, name)
			}
			if !doublestar.ValidatePattern(s.Glob) {
				return nil, fmt.Errorf("command %q: placeholder %q: invalid glob %q", cmdID, name, s.Glob)
			}
		}
		return &Placeholder{Name: name, Kind: kind, Required: required, Glob: s.Glob}, nil
	}
	return nil, fmt.Errorf("command %q: token %d: empty placeholder", cmdID, idx)
}

// parseKind maps a type string to a Kind. The legacy names "file" and
// "run_id" from earlier allow-list files are accepted as aliases.
func parseKind(s string) (Kind, error) {
	switch s {
	case "", "string":
		return KindString, nil
	case "path", "file":
		return KindPath, nil
	case "identifier", "run_id":
		return KindIdentifier, nil
	default:
		return "", fmt.Errorf("unknown placeholder type %q", s)
	}
}

// Lookup returns the template for a command identifier.
func (s *Store) Lookup(cmdID string) (Entry, bool) {
	e, ok := s.entries[cmdID]
	return e, ok
}

// Commands returns the sorted list of allow-listed command identifiers.
func (s *Store) Commands() []string {
	ids := make([]string, 0, len(s.entries))
	for id := range s.entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of allow-listed commands.
func (s *Store) Len() int {
	return len(s.entries)
}
