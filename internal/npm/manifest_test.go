// SPDX-License-Identifier: MPL-2.0

package npm

import (
	"context"
	"testing"

	"npmrelease-cli/internal/release"
	"npmrelease-cli/internal/testutil"
)

func TestPackageLoaderLoad(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		manifest string // empty means no package.json
		want     release.Manifest
		wantCode release.Code
	}{
		{
			name: "full manifest",
			manifest: `{
				"name": "@acme/core",
				"version": "0.0.0-development",
				"private": false,
				"publishConfig": {"registry": "https://npm.acme.example/"}
			}`,
			want: release.Manifest{
				Root:            "pkg",
				Name:            "@acme/core",
				Version:         "0.0.0-development",
				PublishRegistry: "https://npm.acme.example/",
			},
		},
		{
			name:     "private",
			manifest: `{"name": "internal", "private": true}`,
			want:     release.Manifest{Root: "pkg", Name: "internal", Private: true},
		},
		{
			name:     "private as string is not private",
			manifest: `{"name": "odd", "private": "true"}`,
			want:     release.Manifest{Root: "pkg", Name: "odd"},
		},
		{name: "missing", wantCode: release.CodeNoPackage},
		{name: "invalid json", manifest: `{"name": `, wantCode: release.CodeInvalidPackage},
		{name: "no name", manifest: `{"version": "1.0.0"}`, wantCode: release.CodeNoPackageName},
		{name: "empty name", manifest: `{"name": ""}`, wantCode: release.CodeNoPackageName},
		{name: "numeric name", manifest: `{"name": 42}`, wantCode: release.CodeNoPackageName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cwd := t.TempDir()
			if tt.manifest != "" {
				testutil.WritePackage(t, cwd, "pkg", tt.manifest)
			}

			got, err := NewPackageLoader().Load(context.Background(), newTestContext(cwd), "pkg")
			if tt.wantCode != "" {
				if !release.HasCode(err, tt.wantCode) {
					t.Fatalf("Load() error = %v, want %s", err, tt.wantCode)
				}
				if _, ok := err.(release.Errors); !ok {
					t.Errorf("Load() error type = %T, want release.Errors", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Load() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
