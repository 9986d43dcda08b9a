package parser

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/willibrandon/vcproj2cmake/model"
	"github.com/willibrandon/vcproj2cmake/observability"
)

func TestVS10Parser_Sample(t *testing.T) {
	before, err := observability.GetCounterValue(observability.FilesSkippedTotal, "generated_filter")
	require.NoError(t, err)

	rec := observability.NewRecordingLogger()
	project, err := NewVS10Parser().Parse(context.Background(), filepath.Join("testdata", "sample.vcxproj"), Options{Log: rec})
	require.NoError(t, err)

	require.Len(t, project.Targets, 1)
	target := project.Targets[0]
	assert.Equal(t, "widget", target.Name)
	assert.Equal(t, "widget", target.RootNamespace)
	assert.Equal(t, "Win32Proj", target.Keyword)
	assert.Equal(t, "{8E4A0F4B-1B7C-4C1E-9D2A-6F3B2C1D0E9F}", target.GUID)
	assert.True(t, target.HasBuildUnits)

	require.Len(t, project.Configs, 2)
	debug, release := project.Configs[0], project.Configs[1]
	assert.Equal(t, "Debug", project.AuthoritativeBuildType)

	assert.Equal(t, model.TypeDynamicLibrary, debug.Type)
	assert.True(t, debug.UseDebugLibs)
	assert.Equal(t, 1, debug.CharSet)
	assert.Equal(t, 2, debug.UseOfMFC)
	assert.Equal(t, "../bin/$(Configuration)/", debug.OutputDir)
	assert.Equal(t, 1, release.WholeProgramOptimization)
	assert.Equal(t, 2, release.CharSet)

	require.Len(t, debug.Compilers, 1)
	compiler := debug.Compilers[0]
	assert.Equal(t, []string{"../inc", "$(SolutionDir)shared"}, compiler.IncludeDirPaths())
	assert.Equal(t, []string{"/MP", "/bigobj"}, compiler.Flags)
	var names []string
	for _, d := range compiler.Defines.Entries() {
		names = append(names, d.Name)
	}
	assert.Equal(t, []string{"WIN32", "_DEBUG", "WIDGET_EXPORTS"}, names)

	require.Len(t, debug.Linkers, 1)
	assert.Equal(t, []string{"kernel32", "zlib"}, debug.Linkers[0].Dependencies)
	assert.Equal(t, []string{"../lib"}, debug.Linkers[0].LibDirs)
	assert.Empty(t, release.Linkers)

	root := target.Files
	assert.Empty(t, root.Files)
	assert.Equal(t, []string{"Source Files", "Header Files"}, childNames(root))

	sources := root.Children[0]
	assert.Equal(t, []string{"src/widget.cpp", "stdafx.cpp"}, filePaths(sources))
	assert.Equal(t, `.*\.(cpp|c|cc|cxx)$`, sources.Regex)
	assert.Equal(t, "{4FC737F1-C7A5-4376-A066-2A32D752A2FF}", sources.GUID)
	require.Len(t, sources.Children, 1)
	assert.True(t, sources.Children[0].Empty(), "legacy.cpp is excluded from a build")
	assert.Equal(t, []string{"inc/widget.h"}, filePaths(root.Children[1]))

	after, err := observability.GetCounterValue(observability.FilesSkippedTotal, "generated_filter")
	require.NoError(t, err)
	assert.Equal(t, before+3, after, "one for the filter, two for its files")

	assert.True(t, rec.Contains(observability.InfoLevel, "build steps are not supported"))
	assert.Zero(t, rec.Count(observability.WarnLevel))
}

func TestVS10Parser_WithoutFilters(t *testing.T) {
	dir := t.TempDir()
	path := writeProject(t, dir, "plain.vcxproj", `<?xml version="1.0" encoding="utf-8"?>
<Project xmlns="http://schemas.microsoft.com/developer/msbuild/2003">
  <ItemGroup Label="ProjectConfigurations">
    <ProjectConfiguration Include="Release|x64">
      <Configuration>Release</Configuration>
      <Platform>x64</Platform>
    </ProjectConfiguration>
  </ItemGroup>
  <PropertyGroup Condition="'$(Configuration)|$(Platform)' == 'Release|x64'" Label="Configuration">
    <ConfigurationType>StaticLibrary</ConfigurationType>
  </PropertyGroup>
  <ItemDefinitionGroup>
    <ClCompile>
      <PreprocessorDefinitions>A=1;B</PreprocessorDefinitions>
    </ClCompile>
  </ItemDefinitionGroup>
  <ItemGroup>
    <ClCompile Include="a.cpp" />
    <ClInclude Include="a.h" />
    <Library Include="third\party.lib" />
  </ItemGroup>
</Project>`)

	rec := observability.NewRecordingLogger()
	project, err := NewVS10Parser().Parse(context.Background(), path, Options{Log: rec})
	require.NoError(t, err)

	target := project.Targets[0]
	assert.Equal(t, "plain", target.Name, "defaults to the file name")
	assert.Equal(t, []string{"a.cpp", "a.h"}, filePaths(target.Files))
	assert.Empty(t, target.Files.Children)

	cfg := project.Configs[0]
	assert.Equal(t, "Release|x64", cfg.Name())
	assert.Equal(t, model.TypeStaticLibrary, cfg.Type)
	require.Len(t, cfg.Compilers, 1)
	v, ok := cfg.Compilers[0].Defines.Get("A")
	require.True(t, ok)
	assert.Equal(t, "1", v)

	assert.True(t, rec.Contains(observability.InfoLevel, "listing all files in the root group"))
}

func TestVS10Parser_UndeclaredConfiguration(t *testing.T) {
	dir := t.TempDir()
	path := writeProject(t, dir, "late.vcxproj", `<Project>
  <PropertyGroup Condition="'$(Configuration)|$(Platform)'=='Profile|Win32'" Label="Configuration">
    <ConfigurationType>Application</ConfigurationType>
  </PropertyGroup>
  <ItemGroup>
    <ClCompile Include="main.cpp" />
  </ItemGroup>
</Project>`)

	rec := observability.NewRecordingLogger()
	project, err := NewVS10Parser().Parse(context.Background(), path, Options{Log: rec})
	require.NoError(t, err)

	require.Len(t, project.Configs, 1)
	assert.Equal(t, "Profile", project.Configs[0].BuildType)
	assert.Equal(t, model.TypeApplication, project.Configs[0].Type)
	assert.True(t, rec.Contains(observability.WarnLevel, "not declared in ProjectConfigurations"))
}

func TestVS10Parser_UnknownConfigurationType(t *testing.T) {
	dir := t.TempDir()
	path := writeProject(t, dir, "bogus.vcxproj", `<Project>
  <PropertyGroup Condition="'$(Configuration)|$(Platform)'=='Debug|Win32'" Label="Configuration">
    <ConfigurationType>Bogus</ConfigurationType>
  </PropertyGroup>
  <ItemGroup>
    <ClCompile Include="main.cpp" />
  </ItemGroup>
</Project>`)

	_, err := NewVS10Parser().Parse(context.Background(), path, Options{})
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "Debug|Win32", parseErr.Context)
	assert.Contains(t, parseErr.Message, `"Bogus"`)
}

func TestVS10Parser_CustomBuildItemIsDropped(t *testing.T) {
	dir := t.TempDir()
	path := writeProject(t, dir, "custom.vcxproj", `<Project>
  <ItemGroup>
    <CustomBuild Include="shaders.hlsl">
      <Command>fxc %(FullPath)</Command>
    </CustomBuild>
  </ItemGroup>
</Project>`)

	rec := observability.NewRecordingLogger()
	project, err := NewVS10Parser().Parse(context.Background(), path, Options{Log: rec})
	require.NoError(t, err)

	assert.True(t, project.Targets[0].Files.Empty())
	assert.False(t, project.Targets[0].HasBuildUnits)
	assert.True(t, rec.Contains(observability.InfoLevel, "custom build step"))
}

func TestExtensionsToRegex(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"cpp;c;cxx", `.*\.(cpp|c|cxx)$`},
		{"*.h;*.hpp", `.*\.(h|hpp)$`},
		{".c++", `.*\.(c\+\+)$`},
		{"", ""},
		{";;", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, extensionsToRegex(tt.in))
		})
	}
}
