/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package changes_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"chainguard.dev/registryguard/changes"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

const dir = "vaults/0x1BfBd3D9B1E4F1dAe24A3A07De9D57C3E7d4C9c3"

var sorted = cmpopts.SortSlices(func(a, b string) bool { return a < b })

func TestSplit(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "empty", input: "", want: nil},
		{name: "single", input: dir + "/info.json", want: []string{dir + "/info.json"}},
		{
			name:  "mixed whitespace and duplicates",
			input: "  " + dir + "/info.json\n" + dir + "/logo.png\t" + dir + "/info.json ",
			want:  []string{dir + "/info.json", dir + "/logo.png"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, changes.Split(tt.input)); diff != "" {
				t.Errorf("Split() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFromDiff(t *testing.T) {
	diff := strings.Join([]string{
		"diff --git a/" + dir + "/info.json b/" + dir + "/info.json",
		"index 1111111..2222222 100644",
		"--- a/" + dir + "/info.json",
		"+++ b/" + dir + "/info.json",
		"@@ -1,3 +1,3 @@",
		" {",
		`-  "name": "Old"`,
		`+  "name": "New"`,
		" }",
		"diff --git a/" + dir + "/logo.png b/" + dir + "/logo.png",
		"new file mode 100644",
		"index 0000000..3333333",
		"Binary files /dev/null and b/" + dir + "/logo.png differ",
		"diff --git a/README.md b/README.md",
		"deleted file mode 100644",
		"index 4444444..0000000",
		"--- a/README.md",
		"+++ /dev/null",
		"@@ -1,1 +0,0 @@",
		"-hello",
		"",
	}, "\n")

	got, err := changes.FromDiff(strings.NewReader(diff))
	if err != nil {
		t.Fatalf("FromDiff() = %v", err)
	}
	want := []string{dir + "/info.json", "README.md", dir + "/logo.png"}
	if diff := cmp.Diff(want, got, sorted); diff != "" {
		t.Errorf("FromDiff() mismatch (-want +got):\n%s", diff)
	}
}

func TestFromDiffEmpty(t *testing.T) {
	got, err := changes.FromDiff(strings.NewReader(""))
	if err != nil {
		t.Fatalf("FromDiff() = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("FromDiff() = %v, want none", got)
	}
}

func commitFiles(t *testing.T, repo *git.Repository, root string, files map[string]string, remove []string) string {
	t.Helper()
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Worktree: %v", err)
	}
	for name, content := range files {
		abs := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
			t.Fatalf("MkdirAll: %v", err)
		}
		if err := os.WriteFile(abs, []byte(content), 0o644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
		if _, err := wt.Add(name); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}
	for _, name := range remove {
		if _, err := wt.Remove(name); err != nil {
			t.Fatalf("Remove: %v", err)
		}
	}
	hash, err := wt.Commit("change", &git.CommitOptions{
		Author: &object.Signature{
			Name:  "Test",
			Email: "test@example.com",
			When:  time.Now(),
		},
	})
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	return hash.String()
}

func TestFromGit(t *testing.T) {
	root := t.TempDir()
	repo, err := git.PlainInit(root, false)
	if err != nil {
		t.Fatalf("PlainInit: %v", err)
	}

	base := commitFiles(t, repo, root, map[string]string{
		dir + "/info.json":  `{"name": "Vault"}`,
		"tokens/README.txt": "tokens",
	}, nil)
	commitFiles(t, repo, root, map[string]string{
		dir + "/info.json": `{"name": "Vault v2"}`,
		dir + "/logo.png":  "png",
	}, nil)
	commitFiles(t, repo, root, nil, []string{"tokens/README.txt"})

	// Open from a subdirectory to exercise repository discovery.
	got, err := changes.FromGit(context.Background(), filepath.Join(root, "vaults"), base)
	if err != nil {
		t.Fatalf("FromGit() = %v", err)
	}

	want := []string{"tokens/README.txt", dir + "/info.json", dir + "/logo.png"}
	if diff := cmp.Diff(want, got, sorted); diff != "" {
		t.Errorf("FromGit() mismatch (-want +got):\n%s", diff)
	}
}

func TestFromGitUnknownBase(t *testing.T) {
	root := t.TempDir()
	repo, err := git.PlainInit(root, false)
	if err != nil {
		t.Fatalf("PlainInit: %v", err)
	}
	commitFiles(t, repo, root, map[string]string{"a.txt": "a"}, nil)

	if _, err := changes.FromGit(context.Background(), root, "does-not-exist"); err == nil {
		t.Error("expected error for unknown base ref")
	}
}
