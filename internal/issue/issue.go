// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"
)

// Id identifies a catalogued issue.
type Id int

const (
	// ManifestParseFailedId covers an unparsable project manifest.
	ManifestParseFailedId Id = iota + 1
	// SettingsWriteDeniedId covers a settings/cache/backup write failure.
	SettingsWriteDeniedId
)

type (
	// MarkdownMsg is markdown text rendered for the terminal.
	MarkdownMsg string

	// HttpLink points at documentation for an issue.
	HttpLink string

	// Issue pairs a stable identifier with a rendered explanation for the
	// unrecoverable error classes. Per-package data-quality problems are
	// never Issues; they are logged and skipped.
	Issue struct {
		id       Id
		mdMsg    MarkdownMsg
		docLinks []HttpLink
	}
)

// Id returns the issue identifier.
func (i *Issue) Id() Id { return i.id }

// MarkdownMsg returns the raw markdown message.
func (i *Issue) MarkdownMsg() MarkdownMsg { return i.mdMsg }

// DocLinks returns a copy of the documentation links.
func (i *Issue) DocLinks() []HttpLink { return slices.Clone(i.docLinks) }

// Render renders the issue's markdown for the terminal.
func (i *Issue) Render(stylePath string) (string, error) {
	md := string(i.mdMsg)
	if len(i.docLinks) > 0 {
		md += "\n\n## See also\n"
		for _, link := range i.docLinks {
			md += "- " + string(link) + "\n"
		}
	}
	return render(md, stylePath)
}

var (
	render = glamour.Render

	manifestParseFailedIssue = &Issue{
		id: ManifestParseFailedId,
		mdMsg: `
# Could not parse package.json

The project manifest exists but is not valid JSON, so dependencies cannot
be scanned.

## Things you can try
- Check the file for trailing commas or unquoted keys
- Validate it with your package manager:
~~~
$ npm pkg get dependencies
~~~`,
	}

	settingsWriteDeniedIssue = &Issue{
		id: SettingsWriteDeniedId,
		mdMsg: `
# Could not write settings

The settings file (or its backup, or the scan cache) could not be written.

## Things you can try
- Check ownership and permissions of ~/.claude
- Re-run with an explicit writable path:
~~~
$ plugsync sync --settings /path/you/own/settings.json
~~~`,
	}

	catalog = map[Id]*Issue{
		ManifestParseFailedId: manifestParseFailedIssue,
		SettingsWriteDeniedId: settingsWriteDeniedIssue,
	}
)

// Lookup returns the catalogued Issue for id, or nil when the id has no
// long-form explanation.
func Lookup(id Id) *Issue {
	return catalog[id]
}
