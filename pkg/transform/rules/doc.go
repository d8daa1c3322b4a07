// Package rules provides the built-in transformation passes. Importing the
// package registers them with the transform registry.
//
// Passes in this package:
//   - task-creation: task name(...) { } becomes a task declaration
//   - task-configure: tasks.named("x") { } becomes a task configuration
//   - build-script-block: plugins { }, dependencies { }, ... become build script blocks
//
// The three predicates are mutually exclusive, so their order only
// matters for documentation.
package rules
