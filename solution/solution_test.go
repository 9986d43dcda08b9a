package solution

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleSln = "\ufeff" + `
Microsoft Visual Studio Solution File, Format Version 10.00
# Visual Studio 2008
Project("{8BC9CEB8-8B4A-11D0-8D11-00A0C91BC942}") = "hello", "hello\hello.vcproj", "{11111111-1111-1111-1111-111111111111}"
EndProject
Project("{8bc9ceb8-8b4a-11d0-8d11-00a0c91bc942}") = "widget", "libs\widget\widget.vcxproj", "{22222222-2222-2222-2222-222222222222}"
	ProjectSection(ProjectDependencies) = postProject
		{11111111-1111-1111-1111-111111111111} = {11111111-1111-1111-1111-111111111111}
	EndProjectSection
EndProject
Project("{2150E333-8FDC-42A3-9474-1A3956D46DE8}") = "Libraries", "Libraries", "{33333333-3333-3333-3333-333333333333}"
EndProject
Project("{6989167D-11E4-40FE-8C1A-2192A86A7E90}") = "solver", "solver\solver.vfproj", "{44444444-4444-4444-4444-444444444444}"
EndProject
Project("{FAE04EC0-301F-11D3-BF4B-00C04F79EFBC}") = "Tools", "tools\Tools.csproj", "{55555555-5555-5555-5555-555555555555}"
EndProject
Global
	GlobalSection(SolutionConfigurationPlatforms) = preSolution
		Debug|Win32 = Debug|Win32
	EndGlobalSection
	GlobalSection(NestedProjects) = preSolution
		{22222222-2222-2222-2222-222222222222} = {33333333-3333-3333-3333-333333333333}
	EndGlobalSection
EndGlobal
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestSlnParser_Parse(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "all.sln", sampleSln)

	sol, err := ParseSolution(path)

	require.NoError(t, err)
	assert.Equal(t, "10.00", sol.FormatVersion)
	require.Len(t, sol.Projects, 4)
	require.Len(t, sol.SolutionFolders, 1)

	widget := sol.Projects[1]
	assert.Equal(t, "widget", widget.Name)
	assert.Equal(t, "libs/widget/widget.vcxproj", widget.Path)
	assert.Equal(t, ProjectTypeVCProject, widget.TypeGUID)
	assert.Equal(t, "{33333333-3333-3333-3333-333333333333}", widget.ParentFolderGUID)
	assert.Equal(t, "Libraries", sol.SolutionFolders[0].Name)
}

func TestSolution_GetCppProjects(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "all.sln", sampleSln)
	sol, err := ParseSolution(path)
	require.NoError(t, err)

	projects := sol.GetCppProjects()

	solDir := sol.SolutionDir
	assert.Equal(t, []string{
		filepath.Join(solDir, "hello", "hello.vcproj"),
		filepath.Join(solDir, "libs", "widget", "widget.vcxproj"),
		filepath.Join(solDir, "solver", "solver.vfproj"),
	}, projects)
}

func TestSlnParser_MissingEndProject(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "broken.sln", `Microsoft Visual Studio Solution File, Format Version 12.00
Project("{8BC9CEB8-8B4A-11D0-8D11-00A0C91BC942}") = "hello", "hello.vcxproj", "{11111111-1111-1111-1111-111111111111}"
`)

	_, err := ParseSolution(path)

	require.Error(t, err)
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, 2, parseErr.Line)
	assert.Contains(t, err.Error(), "missing EndProject")
}

func TestSlnxParser_Parse(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "all.slnx", `<Solution>
  <Project Path="app\app.vcxproj" />
  <Folder Name="/libs/">
    <Project Path="libs/core/core.vcxproj" Id="0f6a3c62-27c6-4a67-b3e5-6d8b9c0d1e2f" />
    <Project Path="tools/gen.csproj" />
    <Folder Name="/libs/fortran/">
      <Project Path="libs/solver/solver.vfproj" />
    </Folder>
  </Folder>
</Solution>`)

	sol, err := ParseSolution(path)

	require.NoError(t, err)
	require.Len(t, sol.Projects, 4)
	assert.Equal(t, "app", sol.Projects[0].Name)
	assert.Equal(t, "app/app.vcxproj", sol.Projects[0].Path)
	assert.Equal(t, "{0F6A3C62-27C6-4A67-B3E5-6D8B9C0D1E2F}", sol.Projects[1].GUID)
	assert.Empty(t, sol.Projects[2].TypeGUID)
	assert.Equal(t, ProjectTypeFortranProject, sol.Projects[3].TypeGUID)
	require.Len(t, sol.SolutionFolders, 2)
	assert.Equal(t, sol.SolutionFolders[0].GUID, sol.SolutionFolders[1].ParentFolderGUID)

	assert.Equal(t, []string{
		filepath.Join(sol.SolutionDir, "app", "app.vcxproj"),
		filepath.Join(sol.SolutionDir, "libs", "core", "core.vcxproj"),
		filepath.Join(sol.SolutionDir, "libs", "solver", "solver.vfproj"),
	}, sol.GetCppProjects())

	again, err := ParseSolution(path)
	require.NoError(t, err)
	assert.Equal(t, sol.Projects, again.Projects)
}

func TestSlnxParser_SyntaxError(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "bad.slnx", "<Solution>\n<Project Path=\"a.vcxproj\">\n</Solution>")

	_, err := ParseSolution(path)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, 3, parseErr.Line)
}

func TestGetParser(t *testing.T) {
	p, err := GetParser("a.SLN")
	require.NoError(t, err)
	assert.IsType(t, &SlnParser{}, p)

	p, err = GetParser("a.slnx")
	require.NoError(t, err)
	assert.IsType(t, &SlnxParser{}, p)

	_, err = GetParser("a.slnf")
	assert.Error(t, err)
	_, err = GetParser("")
	assert.Error(t, err)

	assert.True(t, IsSolutionFile("x/y.sln"))
	assert.False(t, IsSolutionFile("x/y.vcxproj"))
}

func TestResolveProjectPath(t *testing.T) {
	dir := t.TempDir()
	assert.Equal(t, filepath.Join(dir, "a", "b.vcproj"), ResolveProjectPath(dir, `a\\b.vcproj`))
	assert.Equal(t, filepath.Join(dir, "b.vcproj"), ResolveProjectPath(dir, `a\..\b.vcproj`))
	assert.Empty(t, ResolveProjectPath(dir, ""))
}
