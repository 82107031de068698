// SPDX-License-Identifier: MPL-2.0

package npm

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"npmrelease-cli/internal/release"

	"github.com/tidwall/gjson"
)

// PackageLoader reads package.json from a package root.
type PackageLoader struct{}

// NewPackageLoader creates a PackageLoader.
func NewPackageLoader() *PackageLoader {
	return &PackageLoader{}
}

// Load reads <cwd>/<root>/package.json. Failures are returned as release.Errors
// carrying ENOPKG, EINVALIDPKG or ENOPKGNAME.
func (l *PackageLoader) Load(_ context.Context, rctx *release.Context, root string) (release.Manifest, error) {
	path := filepath.Join(rctx.Cwd, root, "package.json")

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return release.Manifest{}, release.Errors{release.NewError(release.CodeNoPackage, fmt.Sprintf(
			"A [package.json file](https://docs.npmjs.com/files/package.json) is required to release on npm, "+
				"but none was found at `%s`.", path))}
	}
	if err != nil {
		return release.Manifest{}, release.Errors{release.NewError(release.CodeInvalidPackage, fmt.Sprintf(
			"The package file `%s` could not be read: %v", path, err))}
	}

	if !gjson.ValidBytes(data) {
		return release.Manifest{}, release.Errors{release.NewError(release.CodeInvalidPackage, fmt.Sprintf(
			"The package file `%s` is not valid JSON.", path))}
	}

	fields := gjson.GetManyBytes(data, "name", "version", "private", "publishConfig.registry")
	name := fields[0]
	if name.Type != gjson.String || name.String() == "" {
		return release.Manifest{}, release.Errors{release.NewError(release.CodeNoPackageName, fmt.Sprintf(
			"The package file `%s` must contain a [`name`](https://docs.npmjs.com/files/package.json#name) property.", path))}
	}

	return release.Manifest{
		Root:            root,
		Name:            name.String(),
		Version:         fields[1].String(),
		Private:         fields[2].Type == gjson.True,
		PublishRegistry: fields[3].String(),
	}, nil
}
