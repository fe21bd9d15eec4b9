package gitconfig

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gopasspw/gopass/pkg/debug"
)

var (
	keyValueTpl = "\t%s = %s%s"
	keyTpl      = "\t%s%s"

	// "The variable names are case-insensitive, allow only alphanumeric
	// characters and -, and must start with an alphabetic character."
	reValidKey = regexp.MustCompile(`^[a-z]+[a-z0-9-]*$`)
)

// Config represents a single git configuration file, e.g. ~/.gitconfig.
//
// It keeps the raw file text alongside the parsed variables so that rewrites
// only touch the lines holding the rewritten key. Comments, blank lines and
// unrelated sections survive a Set or Unset untouched.
//
// Config is not safe for concurrent use.
type Config struct {
	path     string
	noWrites bool // do not persist changes to disk (e.g. for tests)
	raw      strings.Builder
	vars     map[string]string
}

// New returns an empty config bound to the given path. The file is created
// on the first successful Set.
func New(path string) *Config {
	return &Config{
		path: path,
		vars: map[string]string{},
	}
}

// Path returns the file this config is bound to.
func (c *Config) Path() string {
	return c.path
}

// Get returns the value of the key. If a key is set multiple times the last
// occurrence wins, like git resolves it within a single file.
func (c *Config) Get(key string) (string, bool) {
	v, found := c.vars[canonicalizeKey(key)]

	return v, found
}

// IsSet returns true if the key is set, even to an empty value.
func (c *Config) IsSet(key string) bool {
	_, found := c.vars[canonicalizeKey(key)]

	return found
}

// Set updates or adds a key and writes the file back. Existing occurrences
// are rewritten in place, keeping their trailing comments. A new key is
// inserted into its section if one exists, otherwise a new section is
// appended at the end of the file.
func (c *Config) Set(key, value string) error {
	canonical := canonicalizeKey(key)
	if canonical == "" {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	key = canonical

	if c.vars == nil {
		c.vars = map[string]string{}
	}

	if v, present := c.vars[key]; present && v == value {
		debug.V(1).Log("%s already set to %q, not rewriting", key, value)

		return nil
	}

	_, present := c.vars[key]
	c.vars[key] = value

	if !present {
		debug.V(3).Log("inserting %s = %q", key, value)

		return c.insertValue(key, value)
	}

	debug.V(3).Log("updating %s = %q", key, value)

	return c.rewriteRaw(key, func(name, _, comment string) (string, bool) {
		return formatKeyValue(name, value, comment), false
	})
}

// Unset removes all occurrences of the key and writes the file back.
// Unsetting a missing key is a no-op. The (then possibly empty) section
// header is left in place.
func (c *Config) Unset(key string) error {
	key = canonicalizeKey(key)

	if _, present := c.vars[key]; !present {
		return nil
	}
	delete(c.vars, key)

	return c.rewriteRaw(key, func(_, _, _ string) (string, bool) {
		return "", true
	})
}

// insertValue adds a new key at the end of the matching section, or appends
// a new section when the file has none.
func (c *Config) insertValue(key, value string) error {
	wSection, wSubsection, wKey := splitKey(key)

	s := bufio.NewScanner(strings.NewReader(c.raw.String()))

	lines := make([]string, 0, 128)
	var inTarget, written bool
	for s.Scan() {
		line := s.Text()

		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "[") {
			if section, subsection, skip := parseSectionHeader(trimmed); !skip {
				if inTarget && !written {
					// leaving the target section, put the new key before
					// the next header
					lines = append(lines, formatKeyValue(wKey, value, ""))
					written = true
				}
				inTarget = section == wSection && subsection == wSubsection
			}
		}

		lines = append(lines, line)
	}

	if inTarget && !written {
		lines = append(lines, formatKeyValue(wKey, value, ""))
		written = true
	}

	if !written {
		header := fmt.Sprintf("[%s]", wSection)
		if wSubsection != "" {
			header = fmt.Sprintf("[%s %q]", wSection, wSubsection)
		}
		lines = append(lines, header, formatKeyValue(wKey, value, ""))
	}

	c.raw = strings.Builder{}
	c.raw.WriteString(strings.Join(lines, "\n"))
	c.raw.WriteString("\n")

	return c.flushRaw()
}

// rewriteRaw rewrites the raw file copy, handing every line that holds the
// given key to the callback. It backs both Set (replace the line) and Unset
// (drop the line).
func (c *Config) rewriteRaw(key string, cb func(name, value, comment string) (newLine string, skip bool)) error {
	lines := walkLines(strings.NewReader(c.raw.String()), func(fqkn, name, value, comment, line string) (string, bool) {
		if fqkn != key {
			return line, false
		}

		return cb(name, value, comment)
	})

	c.raw = strings.Builder{}
	c.raw.WriteString(strings.Join(lines, "\n"))
	c.raw.WriteString("\n")

	return c.flushRaw()
}

func (c *Config) flushRaw() error {
	if c.noWrites || c.path == "" {
		debug.V(3).Log("not writing changes to disk (noWrites %t, path %q)", c.noWrites, c.path)

		return nil
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0o700); err != nil {
		return fmt.Errorf("failed to create directory for %q: %w", c.path, err)
	}

	if err := os.WriteFile(c.path, []byte(c.raw.String()), 0o600); err != nil {
		return fmt.Errorf("failed to write config to %s: %w", c.path, err)
	}

	debug.V(1).Log("wrote config to %s", c.path)

	return nil
}

// visitFunc is called for every key-value line. fqkn is the canonical
// section.key name, comment the trailing comment including its delimiter.
// The returned line replaces the original one, returning skip drops it.
type visitFunc func(fqkn, name, value, comment, line string) (newLine string, skip bool)

// walkLines scans gitconfig text line by line, tracking the current section
// and handing every key-value line to the callback. All lines, rewritten or
// not, are returned in their original order.
func walkLines(in io.Reader, cb visitFunc) []string {
	s := bufio.NewScanner(in)

	lines := make([]string, 0, 128)
	var section, subsection string
	for s.Scan() {
		fullLine := s.Text()
		lines = append(lines, fullLine)

		line := strings.TrimSpace(fullLine)
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, ";") {
			continue
		}

		if strings.HasPrefix(line, "[") {
			sec, subs, skip := parseSectionHeader(line)
			if !skip {
				section, subsection = sec, subs
			}

			continue
		}

		// keys before the first section header are not valid gitconfig
		if section == "" {
			continue
		}

		k, v, found := strings.Cut(line, "=")
		if !found {
			// bare boolean, only the key is present
			v = ""
		}

		// "Whitespace characters surrounding name, = and value are discarded."
		k = strings.ToLower(strings.TrimSpace(k))
		if !reValidKey.MatchString(k) {
			debug.V(3).Log("invalid key %q in line %q", k, line)

			continue
		}

		value, comment := splitValueComment(strings.TrimSpace(v))

		fqkn := section + "."
		if subsection != "" {
			fqkn += subsection + "."
		}
		fqkn += k

		newLine, skip := cb(fqkn, k, value, comment, fullLine)
		if skip {
			lines = lines[:len(lines)-1]

			continue
		}
		lines[len(lines)-1] = newLine
	}

	return lines
}

func formatKeyValue(key, value, comment string) string {
	if strings.TrimSpace(value) == "" {
		return fmt.Sprintf(keyTpl, key, comment)
	}

	return fmt.Sprintf(keyValueTpl, key, value, comment)
}

func parseSectionHeader(line string) (section, subsection string, skip bool) { //nolint:nonamedreturns
	line = strings.Trim(line, "[]")
	if line == "" {
		return "", "", true
	}

	wsp := strings.Index(line, " ")
	if wsp < 0 {
		return strings.ToLower(line), "", false
	}

	section = strings.ToLower(line[:wsp])
	subsection = line[wsp+1:]
	subsection = strings.ReplaceAll(subsection, "\\", "")
	subsection = strings.TrimPrefix(subsection, "\"")
	subsection = strings.TrimSuffix(subsection, "\"")

	return section, subsection, false
}

// splitValueComment splits a raw value into the value itself and a trailing
// comment. Comment characters inside double quotes do not start a comment.
// The returned comment includes its delimiter and a leading space so it can
// be re-attached verbatim on rewrite.
func splitValueComment(raw string) (string, string) {
	if !strings.ContainsAny(raw, "#;") {
		// "If value needs to contain leading or trailing whitespace
		// characters, it must be enclosed in double quotation marks."
		return unescapeValue(strings.Trim(raw, `"`)), ""
	}

	inQuotes := false
	for i, r := range raw {
		switch r {
		case '"':
			inQuotes = !inQuotes
		case '#', ';':
			if !inQuotes {
				value := strings.TrimSpace(raw[:i])

				return unescapeValue(strings.Trim(value, `"`)), " " + raw[i:]
			}
		}
	}

	return unescapeValue(strings.Trim(raw, `"`)), ""
}

// unescapeValue resolves the escape sequences git recognizes in values.
// Anything else is kept as-is.
func unescapeValue(value string) string {
	value = strings.ReplaceAll(value, `\\`, `\`)
	value = strings.ReplaceAll(value, `\"`, `"`)
	value = strings.ReplaceAll(value, `\n`, "\n")
	value = strings.ReplaceAll(value, `\t`, "\t")
	value = strings.ReplaceAll(value, `\b`, "\b")

	return value
}

// ParseConfig reads a gitconfig from the given reader. It never fails, lines
// it does not understand are kept verbatim but not exposed via Get.
func ParseConfig(r io.Reader) *Config {
	c := &Config{
		vars: make(map[string]string, 16),
	}

	lines := walkLines(r, func(fqkn, _, value, _, line string) (string, bool) {
		c.vars[fqkn] = value

		return line, false
	})

	c.raw.WriteString(strings.Join(lines, "\n"))
	if len(lines) > 0 {
		c.raw.WriteString("\n")
	}

	debug.V(3).Log("parsed config, vars: %+v", c.vars)

	return c
}

// LoadConfig tries to load a gitconfig from the given path.
func LoadConfig(fn string) (*Config, error) {
	fh, err := os.Open(fn)
	if err != nil {
		return nil, err
	}
	defer fh.Close() //nolint:errcheck

	c := ParseConfig(fh)
	c.path = fn

	return c, nil
}

// splitKey splits a fully qualified gitconfig key into section, optional
// subsection and key name. The subsection may itself contain dots, section
// and key name must not.
func splitKey(key string) (section, subsection, skey string) { //nolint:nonamedreturns
	n := strings.Index(key, ".")
	if n > 0 {
		section = key[:n]
	}

	if m := strings.LastIndex(key, "."); n != m && m > 0 && len(key) > m+1 {
		subsection = key[n+1 : m]
		skey = key[m+1:]

		return
	}

	skey = key[n+1:]

	return
}

// canonicalizeKey lowercases the case-insensitive parts of a key (section
// and key name) while keeping the subsection as-is. Invalid keys map to the
// empty string.
func canonicalizeKey(key string) string {
	if key == "" {
		return ""
	}

	section, subsection, skey := splitKey(key)
	section = strings.ToLower(section)
	skey = strings.ToLower(skey)

	if section == "" || skey == "" {
		return ""
	}

	if subsection == "" {
		return section + "." + skey
	}

	return section + "." + subsection + "." + skey
}
