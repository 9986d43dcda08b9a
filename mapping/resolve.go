package mapping

import "strings"

// AllPlatforms is the platform of replacements that apply unconditionally.
const AllPlatforms = "ALL"

// Result maps platforms to their replacement lists. Platforms keep the order
// in which they were first seen.
type Result struct {
	platforms []string
	values    map[string][]string
}

func (r *Result) add(platform, value string) {
	if r.values == nil {
		r.values = make(map[string][]string)
	}
	if _, ok := r.values[platform]; !ok {
		r.platforms = append(r.platforms, platform)
	}
	r.values[platform] = append(r.values[platform], value)
}

// Platforms returns the platforms in first-seen order.
func (r Result) Platforms() []string {
	out := make([]string, len(r.platforms))
	copy(out, r.platforms)
	return out
}

// Values returns the replacements collected for platform.
func (r Result) Values(platform string) []string {
	return r.values[platform]
}

// Len returns the number of platforms.
func (r Result) Len() int {
	return len(r.platforms)
}

// Resolve maps token through the table. An exact key match wins; otherwise
// keys are tried as anchored regular expressions in load order. Unmatched
// tokens resolve to themselves under AllPlatforms.
func (t *Table) Resolve(token string) Result {
	var res Result
	t.resolveInto(&res, token)
	return res
}

func (t *Table) resolveInto(res *Result, token string) {
	value, ok := t.match(token)
	if !ok {
		res.add(AllPlatforms, token)
		return
	}
	for _, segment := range strings.Split(value, "|") {
		if segment == "" {
			continue
		}
		// "PLATFORM" and "PLATFORM=" both keep the token itself
		platform, repl, _ := strings.Cut(segment, "=")
		if repl == "" {
			repl = token
		}
		if platform == "" {
			platform = AllPlatforms
		}
		res.add(platform, repl)
	}
}

func (t *Table) match(token string) (string, bool) {
	if t == nil {
		return "", false
	}
	if value, ok := t.Lookup(token); ok {
		return value, true
	}
	for _, r := range t.rules {
		if r.re != nil && r.re.MatchString(token) {
			return r.value, true
		}
	}
	return "", false
}

// ResolveAll resolves every token and merges the results. Replacements are
// deduplicated per platform, keeping the first occurrence.
func ResolveAll(tokens []string, table *Table) Result {
	var res Result
	for _, token := range tokens {
		table.resolveInto(&res, token)
	}
	return res.dedup()
}

func (r Result) dedup() Result {
	var out Result
	for _, platform := range r.platforms {
		seen := make(map[string]bool)
		for _, v := range r.values[platform] {
			if seen[v] {
				continue
			}
			seen[v] = true
			out.add(platform, v)
		}
	}
	return out
}
