package gateway

import (
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/movaengine/runner/internal/allowlist"
	"github.com/movaengine/runner/internal/pathutil"
)

// maxStringArg is the maximum length of a string-kind argument value.
const maxStringArg = 1000

// ArgvBuilder turns a command identifier plus caller arguments into a
// concrete argument vector using the allow-list templates. Substitution is
// positional: values become argv elements directly and are never passed
// through a shell.
type ArgvBuilder struct {
	store *allowlist.Store
	root  string
}

// NewArgvBuilder creates a builder over the given allow-list and canonical
// project root.
func NewArgvBuilder(store *allowlist.Store, root string) *ArgvBuilder {
	return &ArgvBuilder{store: store, root: root}
}

// Build resolves cmdID against the allow-list and substitutes args into the
// template. Output order equals template order; optional placeholders with
// no value are omitted entirely rather than emitted empty. Errors wrap the
// taxonomy sentinels in errors.go.
func (b *ArgvBuilder) Build(cmdID string, args map[string]any) ([]string, error) {
	entry, ok := b.store.Lookup(cmdID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotAllowed, cmdID)
	}

	argv := make([]string, 0, len(entry.Tokens))
	for _, tok := range entry.Tokens {
		if tok.IsLiteral() {
			argv = append(argv, tok.Literal)
			continue
		}

		ph := tok.Placeholder
		value, ok := args[ph.Name]
		if !ok || value == nil {
			if ph.Required {
				return nil, fmt.Errorf("%w: %s", ErrMissingArgument, ph.Name)
			}
			continue
		}

		resolved, err := b.resolveValue(ph, value)
		if err != nil {
			return nil, err
		}
		argv = append(argv, resolved)
	}

	return argv, nil
}

// resolveValue validates one caller value against its placeholder's rules
// and returns the argv form.
func (b *ArgvBuilder) resolveValue(ph *allowlist.Placeholder, value any) (string, error) {
	switch ph.Kind {
	case allowlist.KindPath:
		s, ok := value.(string)
		if !ok {
			return "", fmt.Errorf("%w: %s must be a string path", ErrInvalidArgument, ph.Name)
		}
		abs, err := pathutil.Resolve(b.root, s)
		if err != nil {
			return "", fmt.Errorf("%s: %w", ph.Name, err)
		}
		if ph.Glob != "" {
			rel := filepath.ToSlash(filepath.Clean(s))
			if matched, err := doublestar.Match(ph.Glob, rel); err != nil || !matched {
				return "", fmt.Errorf("%w: %s does not match the allowed file pattern", ErrInvalidArgument, ph.Name)
			}
		}
		return abs, nil

	case allowlist.KindIdentifier:
		s, ok := value.(string)
		if !ok {
			return "", fmt.Errorf("%w: %s must be a string", ErrInvalidIdentifier, ph.Name)
		}
		if !allowlist.ValidIdentifier(s) {
			return "", fmt.Errorf("%w: %s", ErrInvalidIdentifier, ph.Name)
		}
		return s, nil

	default: // allowlist.KindString
		s, err := scalarString(ph.Name, value)
		if err != nil {
			return "", err
		}
		if len(s) > maxStringArg {
			return "", fmt.Errorf("%w: %s exceeds %d characters", ErrInvalidArgument, ph.Name, maxStringArg)
		}
		if strings.ContainsAny(s, "\n\r") {
			return "", fmt.Errorf("%w: %s contains a line break", ErrInvalidArgument, ph.Name)
		}
		return s, nil
	}
}

// scalarString renders a scalar JSON value as an argv string. Nested
// structures are rejected rather than coerced.
func scalarString(name string, value any) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case bool:
		return strconv.FormatBool(v), nil
	case float64:
		// JSON numbers decode as float64; print whole numbers without a
		// fractional part so "count: 3" becomes "3", not "3.000000".
		if v == math.Trunc(v) && !math.IsInf(v, 0) {
			return strconv.FormatInt(int64(v), 10), nil
		}
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	default:
		return "", fmt.Errorf("%w: %s must be a string, number, or boolean", ErrInvalidArgument, name)
	}
}
