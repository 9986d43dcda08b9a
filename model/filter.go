package model

// Filter is one node of the file grouping tree. The root node of a target
// stands for all files of the project.
type Filter struct {
	Name string

	// Regex is the source_group hint derived from the filter's extension list
	Regex string

	// SourceControlled is false for filters whose members are not kept in
	// version control; such subtrees are never parsed into the model.
	SourceControlled bool

	GUID     string
	Files    []*File
	Children []*Filter
}

// NewFilter returns an empty, source controlled filter.
func NewFilter(name string) *Filter {
	return &Filter{Name: name, SourceControlled: true}
}

// Child returns the direct child named name, creating it when absent.
func (f *Filter) Child(name string) *Filter {
	for _, c := range f.Children {
		if c.Name == name {
			return c
		}
	}
	c := NewFilter(name)
	f.Children = append(f.Children, c)
	return c
}

// Empty reports whether the subtree holds no files.
func (f *Filter) Empty() bool {
	if len(f.Files) > 0 {
		return false
	}
	for _, c := range f.Children {
		if !c.Empty() {
			return false
		}
	}
	return true
}

// Walk visits f and its descendants depth-first, children before parents.
func (f *Filter) Walk(fn func(*Filter)) {
	for _, c := range f.Children {
		c.Walk(fn)
	}
	fn(f)
}

// FileCount returns the number of files in the subtree.
func (f *Filter) FileCount() int {
	n := 0
	f.Walk(func(node *Filter) {
		n += len(node.Files)
	})
	return n
}

// File is one entry of the file list.
type File struct {
	// Path is relative to the project directory, using forward slashes
	Path    string
	Configs []*FileConfigInfo
}

// ExcludedFromBuild reports whether any file configuration excludes the file.
func (f *File) ExcludedFromBuild() bool {
	for _, c := range f.Configs {
		if c.ExcludedFromBuild {
			return true
		}
	}
	return false
}

// CustomBuild reports whether any file configuration runs a custom build tool.
func (f *File) CustomBuild() bool {
	for _, c := range f.Configs {
		if c.CustomBuild {
			return true
		}
	}
	return false
}
