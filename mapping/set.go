package mapping

import "path/filepath"

// File names of the four mapping domains below the local configuration dir.
const (
	DefinesFile      = "define_mappings.txt"
	DependenciesFile = "dependency_mappings.txt"
	LibDirsFile      = "lib_dirs_mappings.txt"
	IncludeDirsFile  = "include_mappings.txt"
)

// Set bundles the mapping tables consulted while generating one project.
type Set struct {
	Defines      *Table
	Dependencies *Table
	LibDirs      *Table
	IncludeDirs  *Table
}

// LoadDir loads the four mapping files found in dir/configDirLocal.
func LoadDir(dir, configDirLocal string) (*Set, error) {
	base := filepath.Join(dir, filepath.FromSlash(configDirLocal))
	var s Set
	for _, d := range s.domains() {
		t, err := Load(filepath.Join(base, d.file))
		if err != nil {
			return nil, err
		}
		*d.table = t
	}
	return &s, nil
}

// Overlay returns a set whose tables hold the rules of local followed by
// those rules of s that local does not override. s is left untouched, so a
// master set can be shared between concurrent conversions.
func (s *Set) Overlay(local *Set) *Set {
	var out Set
	outDomains := out.domains()
	masterDomains := s.domains()
	localDomains := local.domains()
	for i := range outDomains {
		*outDomains[i].table = (*localDomains[i].table).Merge(*masterDomains[i].table)
	}
	return &out
}

// LoadSet loads the project-local mappings of projectDir over the master
// mappings of masterDir.
func LoadSet(projectDir, masterDir, configDirLocal string) (*Set, error) {
	master, err := LoadDir(masterDir, configDirLocal)
	if err != nil {
		return nil, err
	}
	if filepath.Clean(projectDir) == filepath.Clean(masterDir) {
		return master, nil
	}
	local, err := LoadDir(projectDir, configDirLocal)
	if err != nil {
		return nil, err
	}
	return master.Overlay(local), nil
}

type domain struct {
	file  string
	table **Table
}

func (s *Set) domains() []domain {
	return []domain{
		{DefinesFile, &s.Defines},
		{DependenciesFile, &s.Dependencies},
		{LibDirsFile, &s.LibDirs},
		{IncludeDirsFile, &s.IncludeDirs},
	}
}
