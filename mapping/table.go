// Package mapping resolves Visual Studio tokens (library names, include
// directories, preprocessor definitions) to per-platform CMake replacements.
package mapping

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"regexp"
	"strings"
)

// Table is an insertion-ordered set of mapping rules. Each rule maps a key,
// which is matched literally or as an anchored regular expression, to a
// value line of the form "platform1=repl1|platform2=repl2".
type Table struct {
	rules []rule
	index map[string]int
}

type rule struct {
	key   string
	value string

	// re is nil when the key is not a valid regular expression
	re *regexp.Regexp
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{index: make(map[string]int)}
}

// Set stores value for key. A key that is already present keeps its
// position and takes the new value.
func (t *Table) Set(key, value string) {
	if t.index == nil {
		t.index = make(map[string]int)
	}
	if i, ok := t.index[key]; ok {
		t.rules[i].value = value
		return
	}
	re, err := regexp.Compile("^(?:" + key + ")$")
	if err != nil {
		re = nil
	}
	t.index[key] = len(t.rules)
	t.rules = append(t.rules, rule{key: key, value: value, re: re})
}

// Lookup returns the value line stored for key.
func (t *Table) Lookup(key string) (string, bool) {
	i, ok := t.index[key]
	if !ok {
		return "", false
	}
	return t.rules[i].value, true
}

// Keys returns the keys in load order.
func (t *Table) Keys() []string {
	keys := make([]string, len(t.rules))
	for i, r := range t.rules {
		keys[i] = r.key
	}
	return keys
}

// Len returns the number of rules.
func (t *Table) Len() int {
	return len(t.rules)
}

// Merge returns a new table holding the rules of t followed by the rules of
// fallback whose keys t does not define. Neither input is modified.
func (t *Table) Merge(fallback *Table) *Table {
	merged := NewTable()
	if t != nil {
		for _, r := range t.rules {
			merged.Set(r.key, r.value)
		}
	}
	if fallback == nil {
		return merged
	}
	for _, r := range fallback.rules {
		if _, ok := merged.index[r.key]; ok {
			continue
		}
		merged.Set(r.key, r.value)
	}
	return merged
}

// Parse reads mapping rules, one "key:value" per line. Blank lines, lines
// starting with '#' and lines without ':' are ignored.
func Parse(r io.Reader) (*Table, error) {
	t := NewTable()
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok || key == "" {
			continue
		}
		t.Set(key, value)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return t, nil
}

// Load reads the mapping file at path. A missing file yields an empty table.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return NewTable(), nil
		}
		return nil, fmt.Errorf("open mapping file: %w", err)
	}
	defer f.Close()

	t, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("read mapping file %s: %w", path, err)
	}
	return t, nil
}

// LoadCombined loads the project-local and the master mapping file. Rules
// of the local file take precedence over master rules for the same key.
func LoadCombined(local, master string) (*Table, error) {
	localTable, err := Load(local)
	if err != nil {
		return nil, err
	}
	masterTable, err := Load(master)
	if err != nil {
		return nil, err
	}
	return localTable.Merge(masterTable), nil
}
