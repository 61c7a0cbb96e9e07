package atomicfile

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export", "bank.md")

	steps := []struct {
		data     string
		perm     os.FileMode
		wantPerm os.FileMode
	}{
		{"v1", 0o600, 0o600},
		{"v2", 0, 0o600},
		{"v3", 0o640, 0o640},
	}
	for _, s := range steps {
		if err := WriteFile(path, []byte(s.data), s.perm); err != nil {
			t.Fatalf("WriteFile(%q): %v", s.data, err)
		}
		got, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if string(got) != s.data {
			t.Fatalf("content = %q, want %q", got, s.data)
		}
		if runtime.GOOS == "windows" {
			continue
		}
		st, err := os.Stat(path)
		if err != nil {
			t.Fatal(err)
		}
		if st.Mode().Perm() != s.wantPerm {
			t.Fatalf("after %q mode = %o, want %o", s.data, st.Mode().Perm(), s.wantPerm)
		}
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("temp files left behind: %d entries", len(entries))
	}
}

func TestWriteFileNewDefaultsPerm(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix modes")
	}
	path := filepath.Join(t.TempDir(), "new.txt")
	if err := WriteFile(path, nil, 0); err != nil {
		t.Fatal(err)
	}
	st, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if st.Mode().Perm() != DefaultPerm {
		t.Fatalf("mode = %o, want %o", st.Mode().Perm(), DefaultPerm)
	}
}
