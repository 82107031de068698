// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"
)

// Catalog IDs are the release error codes, so an error's Code maps straight
// to its guidance.
const (
	InvalidNpmPublishId Id = "EINVALIDNPMPUBLISH"
	InvalidTarballDirId Id = "EINVALIDTARBALLDIR"
	InvalidPkgRootId    Id = "EINVALIDPKGROOT"
	NoPackageId         Id = "ENOPKG"
	InvalidPackageId    Id = "EINVALIDPKG"
	NoPackageNameId     Id = "ENOPKGNAME"
	NoNpmTokenId        Id = "ENONPMTOKEN"
	InvalidNpmTokenId   Id = "EINVALIDNPMTOKEN"
	ConfigLoadFailedId  Id = "ECONFIG"
)

type (
	// Id is used to look up an issue.
	Id string

	// MarkdownMsg is Markdown text rendered for the terminal.
	MarkdownMsg string

	// HttpLink is a documentation URL.
	HttpLink string

	// Issue is a catalog entry with remediation guidance.
	Issue struct {
		id       Id
		mdMsg    MarkdownMsg
		docLinks []HttpLink // must never be empty, every code is documented
	}
)

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

// Render renders the Markdown message followed by its documentation links
// using the given glamour style ("dark", "light", "notty", or a JSON path).
func (i *Issue) Render(stylePath string) (string, error) {
	var md strings.Builder
	md.WriteString(string(i.mdMsg))
	if len(i.docLinks) > 0 {
		md.WriteString("\n\n## See also\n")
		for _, link := range i.docLinks {
			md.WriteString("\n- <")
			md.WriteString(string(link))
			md.WriteString(">")
		}
	}
	return render(md.String(), stylePath)
}

const docsBase = "https://github.com/semantic-release/npm/blob/master/README.md"

var (
	render = glamour.Render

	issues = map[Id]*Issue{
		InvalidNpmPublishId: {
			id: InvalidNpmPublishId,
			mdMsg: `
# Invalid ` + "`npmPublish`" + ` option

The ` + "`npmPublish`" + ` option, if defined, must be a boolean.

## Things you can try
- Set ` + "`npmPublish: true`" + ` or ` + "`npmPublish: false`" + ` in ` + "`.releaserc.cue`" + `
- Remove the option to publish by default`,
			docLinks: []HttpLink{docsBase + "#options"},
		},
		InvalidTarballDirId: {
			id: InvalidTarballDirId,
			mdMsg: `
# Invalid ` + "`tarballDir`" + ` option

The ` + "`tarballDir`" + ` option, if defined, must be a non-empty string.

## Things you can try
- Point it at a directory relative to the repository root, e.g. ` + "`tarballDir: \"dist\"`" + `
- Remove the option if no tarball should be kept`,
			docLinks: []HttpLink{docsBase + "#options"},
		},
		InvalidPkgRootId: {
			id: InvalidPkgRootId,
			mdMsg: `
# Invalid ` + "`pkgRoot`" + ` option

The ` + "`pkgRoot`" + ` option, if defined, must be a non-empty string or a list of non-empty strings.

## Example
~~~cue
plugin: {
	pkgRoot: ["packages/core", "packages/cli"]
}
~~~`,
			docLinks: []HttpLink{docsBase + "#options"},
		},
		NoPackageId: {
			id: NoPackageId,
			mdMsg: `
# Missing ` + "`package.json`" + `

A ` + "`package.json`" + ` file must exist at the root of every package to publish.

## Things you can try
- Check the ` + "`pkgRoot`" + ` paths, they are relative to the repository root
- Create the file with:
~~~
$ npm init
~~~`,
			docLinks: []HttpLink{"https://docs.npmjs.com/files/package.json"},
		},
		InvalidPackageId: {
			id: InvalidPackageId,
			mdMsg: `
# Invalid ` + "`package.json`" + `

The ` + "`package.json`" + ` file could not be parsed as JSON.

## Things you can try
- Validate the file with:
~~~
$ npm pkg get name
~~~`,
			docLinks: []HttpLink{"https://docs.npmjs.com/files/package.json"},
		},
		NoPackageNameId: {
			id: NoPackageNameId,
			mdMsg: `
# Missing package name

The ` + "`package.json`" + ` must have a ` + "`name`" + ` property to be published.`,
			docLinks: []HttpLink{"https://docs.npmjs.com/files/package.json#name"},
		},
		NoNpmTokenId: {
			id: NoNpmTokenId,
			mdMsg: `
# No npm token specified

An npm token must be created and set in the ` + "`NPM_TOKEN`" + ` environment variable of your CI environment.

## Things you can try
- Create an automation token with:
~~~
$ npm token create
~~~
- Or set ` + "`NPM_USERNAME`" + `, ` + "`NPM_PASSWORD`" + ` and ` + "`NPM_EMAIL`" + ` for legacy authentication`,
			docLinks: []HttpLink{docsBase + "#npm-registry-authentication"},
		},
		InvalidNpmTokenId: {
			id: InvalidNpmTokenId,
			mdMsg: `
# Invalid npm token

The token in ` + "`NPM_TOKEN`" + ` was rejected by the registry.

## Things you can try
- Check the token has not been revoked
- Make sure it allows publishing (automation or publish token)
- Check ` + "`publishConfig.registry`" + ` points at the registry the token was issued for`,
			docLinks: []HttpLink{docsBase + "#npm-registry-authentication"},
		},
		ConfigLoadFailedId: {
			id: ConfigLoadFailedId,
			mdMsg: `
# Failed to load configuration

The release configuration file could not be loaded.

## Things you can try
- Check the CUE syntax of ` + "`.releaserc.cue`" + `
- Show the effective configuration:
~~~
$ npmrelease config show
~~~`,
			docLinks: []HttpLink{docsBase + "#configuration"},
		},
	}
)

// Values returns every catalog entry ordered by Id.
func Values() []*Issue {
	out := make([]*Issue, 0, len(issues))
	for _, i := range issues {
		out = append(out, i)
	}
	slices.SortFunc(out, func(a, b *Issue) int {
		return strings.Compare(string(a.id), string(b.id))
	})
	return out
}

// Get returns the catalog entry for id, or nil when there is none.
func Get(id Id) *Issue {
	return issues[id]
}
