package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefines_SetKeepsPosition(t *testing.T) {
	var d Defines
	d.Set("WIN32", "")
	d.Set("_DEBUG", "1")
	d.Set("WIN32", "2")

	require.Equal(t, 2, d.Len())
	assert.Equal(t, []Define{{Name: "WIN32", Value: "2"}, {Name: "_DEBUG", Value: "1"}}, d.Entries())
}

func TestDefines_EmptyValueIsDefined(t *testing.T) {
	var d Defines
	d.Set("NDEBUG", "")

	v, ok := d.Get("NDEBUG")
	assert.True(t, ok)
	assert.Empty(t, v)

	_, ok = d.Get("MISSING")
	assert.False(t, ok)
}

func TestDefines_CloneIsIndependent(t *testing.T) {
	var d Defines
	d.Set("A", "1")

	c := d.Clone()
	c.Set("B", "2")
	c.Set("A", "3")

	assert.Equal(t, 1, d.Len())
	v, _ := d.Get("A")
	assert.Equal(t, "1", v)
	assert.Equal(t, 2, c.Len())
}

func TestConfigurationType_Kind(t *testing.T) {
	tests := []struct {
		typ    ConfigurationType
		kind   TargetKind
		mapped bool
	}{
		{TypeApplication, KindExecutable, true},
		{TypeDynamicLibrary, KindSharedLibrary, true},
		{TypeStaticLibrary, KindStaticLibrary, true},
		{TypeUtility, KindNone, true},
		{TypeGeneric, KindNone, false},
		{ConfigurationType(3), KindNone, false},
	}

	for _, tt := range tests {
		t.Run(tt.typ.String(), func(t *testing.T) {
			kind, ok := tt.typ.Kind()
			assert.Equal(t, tt.kind, kind)
			assert.Equal(t, tt.mapped, ok)
		})
	}
}

func TestParseConfigurationType(t *testing.T) {
	typ, ok := ParseConfigurationType("StaticLibrary")
	assert.True(t, ok)
	assert.Equal(t, TypeStaticLibrary, typ)

	typ, ok = ParseConfigurationType("Database")
	assert.False(t, ok)
	assert.Equal(t, TypeInvalid, typ)
	_, known := typ.Kind()
	assert.False(t, known)
}

func TestFilter_WalkVisitsChildrenFirst(t *testing.T) {
	root := NewFilter("")
	src := root.Child("Source Files")
	src.Child("Detail")
	root.Child("Header Files")

	var order []string
	root.Walk(func(f *Filter) {
		order = append(order, f.Name)
	})

	assert.Equal(t, []string{"Detail", "Source Files", "Header Files", ""}, order)
	assert.Same(t, src, root.Child("Source Files"))
}

func TestFilter_Empty(t *testing.T) {
	root := NewFilter("")
	child := root.Child("Source Files")
	assert.True(t, root.Empty())

	child.Files = append(child.Files, &File{Path: "main.cpp"})
	assert.False(t, root.Empty())
	assert.Equal(t, 1, root.FileCount())
}

func TestFile_Exclusion(t *testing.T) {
	f := &File{Path: "a.cpp", Configs: []*FileConfigInfo{
		{ConfigInfo: ConfigInfo{BuildType: "Debug"}},
		{ConfigInfo: ConfigInfo{BuildType: "Release"}, ExcludedFromBuild: true},
	}}
	assert.True(t, f.ExcludedFromBuild())
	assert.False(t, f.CustomBuild())
}

func TestProject_FindConfig(t *testing.T) {
	debug := &ProjectConfigInfo{ConfigInfo: ConfigInfo{BuildType: "Debug", Platform: "Win32"}}
	p := &Project{
		Path:                   "/src/app/app.vcproj",
		Configs:                []*ProjectConfigInfo{debug},
		AuthoritativeBuildType: "Debug",
	}

	cfg, ok := p.FindConfig("Debug", "Win32")
	require.True(t, ok)
	assert.Same(t, debug, cfg)
	assert.Equal(t, "Debug|Win32", cfg.Name())
	assert.True(t, p.IsAuthoritative(cfg))
	assert.Equal(t, "/src/app", p.Dir())

	_, ok = p.FindConfig("Release", "Win32")
	assert.False(t, ok)
}

func TestTarget_Languages(t *testing.T) {
	assert.Equal(t, []string{"Fortran"}, (&Target{Creator: "Intel Fortran"}).Languages())
	assert.Nil(t, (&Target{Creator: "Visual C++"}).Languages())
}

func TestNormalizePath(t *testing.T) {
	tests := map[string]string{
		`.\src\main.cpp`: "src/main.cpp",
		`..\inc`:         "../inc",
		`.`:              ".",
		`a/b`:            "a/b",
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizePath(in), in)
	}
}
