package model

// Define is one preprocessor definition. An empty Value means the name is
// defined without a value.
type Define struct {
	Name  string
	Value string
}

// Defines is an insertion-ordered set of preprocessor definitions.
// Redefining a name replaces its value but keeps its original position.
type Defines struct {
	entries []Define
	index   map[string]int
}

// Set defines name with the given value.
func (d *Defines) Set(name, value string) {
	if d.index == nil {
		d.index = make(map[string]int)
	}
	if i, ok := d.index[name]; ok {
		d.entries[i].Value = value
		return
	}
	d.index[name] = len(d.entries)
	d.entries = append(d.entries, Define{Name: name, Value: value})
}

// Get returns the value of name and whether it is defined at all.
func (d *Defines) Get(name string) (string, bool) {
	i, ok := d.index[name]
	if !ok {
		return "", false
	}
	return d.entries[i].Value, true
}

// Len returns the number of definitions.
func (d *Defines) Len() int {
	return len(d.entries)
}

// Entries returns the definitions in insertion order.
func (d *Defines) Entries() []Define {
	out := make([]Define, len(d.entries))
	copy(out, d.entries)
	return out
}

// Clone returns an independent copy.
func (d *Defines) Clone() Defines {
	var c Defines
	for _, e := range d.entries {
		c.Set(e.Name, e.Value)
	}
	return c
}
