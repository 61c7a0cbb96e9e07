package exchange

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/aidanlsb/rolo/internal/model"
)

func TestEncodeDecode(t *testing.T) {
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	card := &model.Card{
		ID:        7,
		Site:      "github.com",
		Username:  "octo",
		Password:  `p@ss: "quoted" #1`,
		Notes:     "# Recovery\n\n- code one\n- code two",
		CreatedAt: created,
		UpdatedAt: created.Add(time.Hour),
	}

	data, err := Encode(card)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !strings.HasPrefix(string(data), "---\n") {
		t.Fatalf("expected frontmatter, got:\n%s", data)
	}

	got, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v\n%s", err, data)
	}
	if diff := cmp.Diff(card, got); diff != "" {
		t.Fatalf("round trip (-want +got):\n%s", diff)
	}
}

func TestEncodeOmitsEmptyFields(t *testing.T) {
	data, err := Encode(&model.Card{Site: "bare"})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want := "---\nsite: bare\n---\n"
	if string(data) != want {
		t.Fatalf("expected %q, got %q", want, data)
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    *model.Card
		wantErr error
	}{
		{
			name:    "title from heading",
			content: "---\nusername: sam\n---\n\n# My Bank\n\nBranch on Main St.\n",
			want:    &model.Card{Site: "My Bank", Username: "sam", Notes: "Branch on Main St."},
		},
		{
			name:    "no frontmatter",
			content: "# Library\n\ncard number 1234\n",
			want:    &model.Card{Site: "Library", Notes: "card number 1234"},
		},
		{
			name:    "frontmatter site wins over heading",
			content: "---\nsite: mail\n---\n# Inbox rules\n",
			want:    &model.Card{Site: "mail", Notes: "# Inbox rules"},
		},
		{
			name:    "windows line endings",
			content: "---\r\nsite: win\r\n---\r\nnote\r\n",
			want:    &model.Card{Site: "win", Notes: "note"},
		},
		{
			name:    "null username",
			content: "---\nsite: shop\nusername: ~\npassword: null\n---\n",
			want:    &model.Card{Site: "shop"},
		},
		{
			name:    "empty file",
			content: "---\n---\n\n",
			wantErr: ErrEmptyCard,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode([]byte(tt.content))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("Decode (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDecodeRejectsUnknownKeys(t *testing.T) {
	_, err := Decode([]byte("---\nsite: x\nemail: a@b.c\n---\n"))
	if err == nil {
		t.Fatalf("expected error for unknown frontmatter key")
	}
}

func TestExportImport(t *testing.T) {
	dir := t.TempDir()
	cards := []*model.Card{
		{ID: 1, Site: "GitHub", Username: "work"},
		{ID: 2, Site: "github", Username: "home", Notes: "personal"},
		{ID: 3, Site: "", Password: "only a password"},
	}

	var calls []int
	res, err := Export(dir, cards, func(done int) { calls = append(calls, done) })
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	var names []string
	for _, f := range res.Files {
		names = append(names, filepath.Base(f))
	}
	if diff := cmp.Diff([]string{"github.md", "github-2.md", "card.md"}, names); diff != "" {
		t.Fatalf("exported names (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{1, 2, 3}, calls); diff != "" {
		t.Fatalf("progress calls (-want +got):\n%s", diff)
	}

	// A stray file is reported, not fatal.
	if err := os.WriteFile(filepath.Join(dir, "zz-broken.md"), []byte("---\nsite: [\n---\n"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("ignored"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	imported, err := Import(dir)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if len(imported.Cards) != 3 {
		t.Fatalf("expected 3 cards, got %d", len(imported.Cards))
	}
	if len(imported.Skipped) != 1 || filepath.Base(imported.Skipped[0].Path) != "zz-broken.md" {
		t.Fatalf("expected zz-broken.md to be skipped, got %+v", imported.Skipped)
	}

	// Directory order is by file name: card.md, github-2.md, github.md.
	got := imported.Cards
	if got[0].Password != "only a password" || got[1].Notes != "personal" || got[2].Username != "work" {
		t.Fatalf("unexpected import order: %+v %+v %+v", got[0], got[1], got[2])
	}
	for _, c := range got {
		if c.ID != 0 {
			t.Fatalf("expected imported cards to be new, got id %d", c.ID)
		}
	}
}

func TestImportMissingPath(t *testing.T) {
	if _, err := Import(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatalf("expected error for missing path")
	}
	if _, err := Import(t.TempDir()); err == nil {
		t.Fatalf("expected error for empty directory")
	}
}
