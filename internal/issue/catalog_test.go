// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"
	"testing"
)

func TestCatalogEntriesHaveDocs(t *testing.T) {
	t.Parallel()

	for _, i := range Values() {
		if len(i.DocLinks()) == 0 {
			t.Errorf("issue %s has no doc links", i.Id())
		}
		if strings.TrimSpace(string(i.MarkdownMsg())) == "" {
			t.Errorf("issue %s has an empty message", i.Id())
		}
	}
}

func TestValuesSorted(t *testing.T) {
	t.Parallel()

	values := Values()
	if len(values) != len(issues) {
		t.Fatalf("Values() returned %d entries, want %d", len(values), len(issues))
	}
	for i := 1; i < len(values); i++ {
		if values[i-1].Id() >= values[i].Id() {
			t.Errorf("entries not sorted: %s before %s", values[i-1].Id(), values[i].Id())
		}
	}
}

func TestGet(t *testing.T) {
	t.Parallel()

	if got := Get(InvalidNpmTokenId); got == nil || got.Id() != InvalidNpmTokenId {
		t.Fatalf("Get(%s) = %v", InvalidNpmTokenId, got)
	}
	if got := Get("ENOPE"); got != nil {
		t.Errorf("Get(ENOPE) = %v, want nil", got)
	}
}

func TestDocLinksIsACopy(t *testing.T) {
	t.Parallel()

	i := Get(NoNpmTokenId)
	links := i.DocLinks()
	links[0] = "mutated"
	if i.DocLinks()[0] == "mutated" {
		t.Error("DocLinks must return a copy")
	}
}

func TestRender(t *testing.T) {
	t.Parallel()

	out, err := Get(NoPackageId).Render("notty")
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !strings.Contains(out, "package.json") {
		t.Errorf("rendered output missing message:\n%s", out)
	}
	if !strings.Contains(out, "docs.npmjs.com") {
		t.Errorf("rendered output missing doc link:\n%s", out)
	}
}
