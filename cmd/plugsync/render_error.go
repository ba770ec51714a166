// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"

	"plugsync-cli/internal/issue"
)

// operationIssues maps actionable-error operations to their long-form
// catalog entries. Operations without an entry render the error alone.
var operationIssues = map[string]issue.Id{
	"parse project manifest":     issue.ManifestParseFailedId,
	"write settings":             issue.SettingsWriteDeniedId,
	"write scan cache":           issue.SettingsWriteDeniedId,
	"back up corrupted settings": issue.SettingsWriteDeniedId,
}

// renderFailure writes a user-facing rendering of err to stderr: the
// formatted actionable error (with suggestions when verbose), followed by
// the matching issue catalog entry when one exists.
func renderFailure(stderr io.Writer, err error, verbose bool) {
	var actionable *issue.ActionableError
	if !errors.As(err, &actionable) {
		fmt.Fprintln(stderr, ErrorStyle.Render("Error: ")+err.Error())
		return
	}

	fmt.Fprintln(stderr, ErrorStyle.Render("Error: ")+actionable.Format(verbose))

	id, ok := operationIssues[actionable.Operation]
	if !ok {
		return
	}
	entry := issue.Lookup(id)
	if entry == nil {
		return
	}
	rendered, renderErr := entry.Render("dark")
	if renderErr != nil {
		return
	}
	fmt.Fprint(stderr, rendered)
}
