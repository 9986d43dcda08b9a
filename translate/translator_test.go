package translate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/willibrandon/vcproj2cmake/observability"
)

func TestTranslate_NoMacros(t *testing.T) {
	tr := New(nil, "app.vcproj")

	out, snippets := tr.Translate("../inc")
	assert.Equal(t, "../inc", out)
	assert.Empty(t, snippets)
}

func TestTranslate_KnownMacros(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		snippet bool
	}{
		{"$(ConfigurationName)/lib", "${CMAKE_CFG_INTDIR}/lib", false},
		{"$(SolutionDir)inc", "${CMAKE_SOURCE_DIR}inc", false},
		{"$(ProjectDir)", "${PROJECT_SOURCE_DIR}", false},
		{"$(ProjectName).pdb", "${PROJECT_NAME}.pdb", false},
		{"$(InputName)", "${PROJECT_NAME}", false},
		{"$(TargetPath)", "${v2c_VS_TargetPath}", false},
		{"$(PlatformName)", "${v2c_VS_PlatformName}", true},
		{"$(OutDir)", "${v2c_VS_OutDir}", true},
		{"$(ProjectPath)", "${v2c_VS_ProjectPath}", true},
		{"$(ProjectFileName)", "${v2c_VS_ProjectFileName}", true},
		{"$(InputFileName)", "${v2c_VS_InputFileName}", true},
	}

	tr := New(observability.NewNullLogger(), "app.vcproj")
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			out, snippets := tr.Translate(tt.in)
			assert.Equal(t, tt.want, out)
			assert.Equal(t, tt.snippet, len(snippets) > 0)
		})
	}
}

func TestTranslate_CaseInsensitive(t *testing.T) {
	tr := New(nil, "app.vcproj")

	out, _ := tr.Translate("$(CONFIGURATIONNAME) $(configurationname)")
	assert.Equal(t, "${CMAKE_CFG_INTDIR} ${CMAKE_CFG_INTDIR}", out)
}

func TestTranslate_MultipleAndRepeated(t *testing.T) {
	tr := New(nil, "app.vcproj")

	out, snippets := tr.Translate("$(SolutionDir)$(PlatformName)/$(ConfigurationName)/$(PlatformName)")
	assert.Equal(t, "${CMAKE_SOURCE_DIR}${v2c_VS_PlatformName}/${CMAKE_CFG_INTDIR}/${v2c_VS_PlatformName}", out)
	assert.Len(t, snippets, 2)
	assert.Equal(t, snippets[0], snippets[1])
	assert.Contains(t, snippets[0], "CMAKE_CL_64")
}

func TestTranslate_ProjectFileSnippets(t *testing.T) {
	tr := New(nil, "engine.vcxproj")

	_, snippets := tr.Translate("$(ProjectPath)")
	assert.Equal(t, []string{`set(v2c_VS_ProjectPath "${CMAKE_CURRENT_SOURCE_DIR}/engine.vcxproj")`}, snippets)

	_, snippets = tr.Translate("$(ProjectFileName)")
	assert.Equal(t, []string{`set(v2c_VS_ProjectFileName "engine.vcxproj")`}, snippets)
}

func TestTranslate_UnknownMacroFallsBackToEnvironment(t *testing.T) {
	rec := observability.NewRecordingLogger()
	tr := New(rec, "app.vcproj")

	before, _ := observability.GetCounterValue(observability.DiagnosticsTotal, "unknown_variable")
	out, snippets := tr.Translate("$(QTDIR)/include")
	after, _ := observability.GetCounterValue(observability.DiagnosticsTotal, "unknown_variable")

	assert.Equal(t, "$ENV{QTDIR}/include", out)
	assert.Empty(t, snippets)
	assert.True(t, rec.Contains(observability.WarnLevel, "Unknown/user-custom config variable"))
	assert.Equal(t, float64(1), after-before)
}

func TestTranslate_LeavesOtherSyntaxAlone(t *testing.T) {
	tr := New(nil, "app.vcproj")

	out, _ := tr.Translate("${CMAKE_SOURCE_DIR}/$(bad-name)/%(AdditionalIncludeDirectories)")
	assert.Equal(t, "${CMAKE_SOURCE_DIR}/$(bad-name)/%(AdditionalIncludeDirectories)", out)
}
