package rules

import (
	"slices"

	"github.com/leapstack-labs/g2kts/pkg/gtree"
	"github.com/leapstack-labs/g2kts/pkg/transform"
)

func init() {
	transform.Register(BuildScriptBlock)
}

// buildScriptBlocks are the well-known configuration blocks of a build
// script.
var buildScriptBlocks = []string{
	"buildscript",
	"plugins",
	"repositories",
	"dependencies",
	"allprojects",
	"subprojects",
	"configurations",
	"sourceSets",
	"pluginManagement",
}

// BuildScriptBlock marks the well-known top-level configuration blocks.
var BuildScriptBlock = transform.Def{
	ID:          "build-script-block",
	Name:        "blocks.build_script",
	Group:       "blocks",
	Description: "Recognises plugins, repositories, dependencies and the other build script blocks.",
	Order:       30,
	Can:         canBuildScriptBlock,
	Transform:   buildScriptBlock,
	Before:      "repositories { mavenCentral() }",
	After:       "repositories { mavenCentral() }",
}

// IsBuildScriptBlock reports whether name is a well-known block name.
func IsBuildScriptBlock(name string) bool {
	return slices.Contains(buildScriptBlocks, name)
}

// canBuildScriptBlock holds for name { } at top level or nested in another
// build script block, e.g. repositories inside buildscript.
func canBuildScriptBlock(node, scope gtree.Node) bool {
	call, ok := node.(*gtree.MethodCall)
	if !ok || call.Object != nil || len(call.Args()) != 0 || call.Closure == nil {
		return false
	}
	if len(call.Closure.Params) != 0 || !IsBuildScriptBlock(call.Method) {
		return false
	}
	if scope == nil {
		return true
	}
	_, nested := scope.(*gtree.BuildScriptBlock)
	return nested
}

func buildScriptBlock(node gtree.Node) gtree.Node {
	call, ok := node.(*gtree.MethodCall)
	if !ok || call.Closure == nil {
		return node
	}
	body := gtree.Detach(call.Closure.Body)
	if body == nil {
		body = &gtree.Block{}
	}
	return &gtree.BuildScriptBlock{Type: call.Method, Body: body}
}
