package generator

import (
	"strings"

	"github.com/willibrandon/vcproj2cmake/model"
)

// rootGroupTag names the list variables of the root filter.
const rootGroupTag = "COMMON"

// putFileList writes the list variables of node and its subtree and returns
// the name of the variable aggregating all of them, or "" when the subtree
// holds no files. root marks the top level node, which has no source group.
func (g *genContext) putFileList(node *model.Filter, parentGroup string, root bool) string {
	var group string
	switch {
	case root:
		group = ""
	case parentGroup == "":
		group = node.Name
	default:
		// a literal double backslash, read back by CMake as one
		group = parentGroup + `\\` + node.Name
	}

	// children first, their aggregates are part of ours
	var subVars []string
	g.w.indentMore()
	for _, child := range node.Children {
		if v := g.putFileList(child, group, false); v != "" {
			subVars = append(subVars, v)
		}
	}
	g.w.indentLess()

	tag := groupTag(group, root)

	var filesVar string
	if len(node.Files) > 0 {
		filesVar = "SOURCES_files_" + tag
		paths := make([]string, len(node.Files))
		for i, f := range node.Files {
			paths[i] = f.Path
		}
		g.w.CommandListQuoted("set", filesVar, paths)
		if !root {
			args := `"` + group + `" `
			if node.Regex != "" {
				args += `REGULAR_EXPRESSION "` + escapeBackslashes(node.Regex) + `" `
			}
			g.w.Command("source_group", args+"FILES ${"+filesVar+"}")
		}
	}

	if filesVar == "" && len(subVars) == 0 {
		return ""
	}

	elems := make([]string, 0, len(subVars)+1)
	for _, v := range subVars {
		elems = append(elems, "${"+v+"}")
	}
	if filesVar != "" {
		elems = append(elems, "${"+filesVar+"}")
	}
	sourcesVar := "SOURCES_" + tag
	g.w.BlankLine()
	g.w.CommandListQuoted("set", sourcesVar, elems)
	return sourcesVar
}

func groupTag(group string, root bool) string {
	if root {
		return rootGroupTag
	}
	return strings.NewReplacer(" ", "_", `\`, "_").Replace(group)
}
