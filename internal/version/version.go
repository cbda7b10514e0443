// In file: internal/version/version.go

// Package version centralizes the versioning for the agent's logical components.
//
// The stamp is stored with every logged interaction so that answers produced
// by an older set of prompts or tool bindings can be told apart when reading
// the history back.
package version

import "fmt"

// ComponentVersions holds the version strings for different logical parts of the application.
// Manually increment a version number here before you deploy a change to that component.
var ComponentVersions = struct {
	// Tools should be updated whenever a tool's parameters or result shape change.
	Tools string

	// PromptLogic should be updated whenever the verify_city, search-term or
	// activity prompts change, or the rules that read their answers.
	PromptLogic string
}{
	Tools:       "v1.0",
	PromptLogic: "v1.2",
}

// Stamp returns the compact version string recorded with each interaction.
//
// Example output: "tv1.0_pv1.2"
func Stamp() string {
	return fmt.Sprintf("tv%s_pv%s", ComponentVersions.Tools, ComponentVersions.PromptLogic)
}
