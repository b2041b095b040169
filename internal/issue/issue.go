// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"
)

type Id int

const (
	ConfigLoadFailedId Id = iota + 1
	RegistryConfigId
	MalformedPackageId
	ManifestParseErrorId
	PathOutsideRootsId
	AssetNotFoundId
	PackageNotFoundId
	IncompatiblePackageId
	PermissionDeniedId
)

type MarkdownMsg string

type HttpLink string

type Issue struct {
	id       Id          // ID used to lookup the issue
	name     string      // stable slug accepted by `modman issue <name>`
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink
	extLinks []HttpLink // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) Name() string {
	return i.name
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

// Markdown returns the message with a "See also" section listing the links.
func (i *Issue) Markdown() string {
	var md strings.Builder
	md.WriteString(string(i.mdMsg))
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		md.WriteString("\n\n## See also\n")
		for _, link := range append(i.DocLinks(), i.extLinks...) {
			md.WriteString("- <" + string(link) + ">\n")
		}
	}
	return md.String()
}

// Render renders the issue for a terminal. stylePath is a glamour style name
// ("dark", "light", "notty") or a path to a style file.
func (i *Issue) Render(stylePath string) (string, error) {
	return render(i.Markdown(), stylePath)
}

var (
	render = glamour.Render

	configLoadFailedIssue = &Issue{
		id:   ConfigLoadFailedId,
		name: "config-load-failed",
		mdMsg: `
# Failed to load configuration!

The modman configuration file could not be read or did not validate.

## Things you can try:
- Check where modman looks for its configuration:
~~~
$ modman config path
~~~

- Show the effective configuration (defaults, file and environment merged):
~~~
$ modman config show
~~~

- Regenerate a default configuration file:
~~~
$ modman config init --force
~~~

## Example configuration:
~~~cue
mods_root:     "mods"
fallback_root: "assets"
host_version:  "1.4.0"
ui: {
	verbose:      false
	color_scheme: "auto"
}
~~~`,
		extLinks: []HttpLink{"https://cuelang.org/docs/"},
	}

	registryConfigIssue = &Issue{
		id:   RegistryConfigId,
		name: "registry-config",
		mdMsg: `
# Cannot open the mod registry!

The fallback root must be an existing directory. The mods root is created on
first use, but its parent must be writable.

## Things you can try:
- Point modman at your game's asset directory:
~~~
$ modman --fallback /path/to/game/assets list
~~~

- Or set it once in the environment:
~~~
$ export MODMAN_FALLBACK_ROOT=/path/to/game/assets
~~~`,
	}

	malformedPackageIssue = &Issue{
		id:   MalformedPackageId,
		name: "malformed-package",
		mdMsg: `
# Malformed package!

Each package directory must contain exactly one ` + "`.json`" + ` manifest.
A directory with several manifests stops the whole registry from loading,
because modman cannot tell which one describes the package.

## Things you can try:
- Remove or rename the extra manifest files listed above
- Move unrelated JSON data into a subdirectory of the package`,
	}

	manifestParseErrorIssue = &Issue{
		id:   ManifestParseErrorId,
		name: "manifest-parse-error",
		mdMsg: `
# Failed to parse a package manifest!

Manifests are JSON objects. Every known field is a string or null.

## Example manifest:
~~~json
{
  "Name": "HD Textures",
  "Description": "Sharper rocks and trees",
  "Author": "kim",
  "Version": "1.2.0",
  "Supported": "^1.4"
}
~~~

## Things you can try:
- Check the error message above for the offending field
- Validate the file with any JSON linter`,
		extLinks: []HttpLink{"https://www.json.org/"},
	}

	pathOutsideRootsIssue = &Issue{
		id:   PathOutsideRootsId,
		name: "path-outside-roots",
		mdMsg: `
# Path outside the managed roots!

Only files under the mods root or the fallback root can be resolved.
Relative paths may not climb out of their root with ` + "`..`" + `.

## Things you can try:
- Use a path relative to the asset root, such as ` + "`textures/rock.png`" + `
- Check the configured roots:
~~~
$ modman config show
~~~`,
	}

	assetNotFoundIssue = &Issue{
		id:   AssetNotFoundId,
		name: "asset-not-found",
		mdMsg: `
# Asset not found!

The file exists neither in the active package nor in the fallback root.

## Things you can try:
- Check the spelling and case of the path
- Resolve against a specific package:
~~~
$ modman resolve textures/rock.png --mod hd-textures
~~~`,
	}

	packageNotFoundIssue = &Issue{
		id:   PackageNotFoundId,
		name: "package-not-found",
		mdMsg: `
# Package not found!

No package matches the given index or directory name.

## Things you can try:
- List all packages with their indices:
~~~
$ modman list
~~~

- Search by directory, name or author:
~~~
$ modman search textures
~~~`,
	}

	incompatiblePackageIssue = &Issue{
		id:   IncompatiblePackageId,
		name: "incompatible-package",
		mdMsg: `
# Package is incompatible!

The package's ` + "`Supported`" + ` range does not include the host version,
so it cannot be activated.

## Things you can try:
- List compatible packages only:
~~~
$ modman list --compatible
~~~

- Check the host version modman compares against:
~~~
$ modman config show
~~~`,
	}

	permissionDeniedIssue = &Issue{
		id:   PermissionDeniedId,
		name: "permission-denied",
		mdMsg: `
# Permission denied!

You don't have permission to read the mods root, the fallback root or the
configuration directory.

## Things you can try:
- Check file/directory permissions
- Run modman as the user that owns the game installation`,
	}

	issues = map[Id]*Issue{
		configLoadFailedIssue.Id():    configLoadFailedIssue,
		registryConfigIssue.Id():      registryConfigIssue,
		malformedPackageIssue.Id():    malformedPackageIssue,
		manifestParseErrorIssue.Id():  manifestParseErrorIssue,
		pathOutsideRootsIssue.Id():    pathOutsideRootsIssue,
		assetNotFoundIssue.Id():       assetNotFoundIssue,
		packageNotFoundIssue.Id():     packageNotFoundIssue,
		incompatiblePackageIssue.Id(): incompatiblePackageIssue,
		permissionDeniedIssue.Id():    permissionDeniedIssue,
	}
)

// Values returns every issue ordered by Id.
func Values() []*Issue {
	out := make([]*Issue, 0, len(issues))
	for _, i := range issues {
		out = append(out, i)
	}
	slices.SortFunc(out, func(a, b *Issue) int { return int(a.id) - int(b.id) })
	return out
}

func Get(id Id) *Issue {
	return issues[id]
}

// Lookup finds an issue by its name.
func Lookup(name string) *Issue {
	values := Values()
	idx := slices.IndexFunc(values, func(i *Issue) bool { return i.name == name })
	if idx < 0 {
		return nil
	}
	return values[idx]
}

// Names returns the issue names ordered by Id.
func Names() []string {
	values := Values()
	names := make([]string, len(values))
	for i, v := range values {
		names[i] = v.name
	}
	return names
}
