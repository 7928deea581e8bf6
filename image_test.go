package gofat16

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"
)

// buildSampleImage assembles a root directory with a long-named file
// (README.md, via a single LFN record), a subdirectory (SUBDIR, with its
// own "." and ".." entries plus one file inside), matching the directory
// layout spec sections 4.5-4.7 describe.
func buildSampleImage(t *testing.T) (*testImage, string, string) {
	t.Helper()
	ti := newTestImage()

	const readmeContent = "root file content\n"
	const subfileContent = "hi from the subdirectory\n"

	lfn := LongFilenameEntry{Sequence: 0x41, Attribute: AttrLongName}
	copy(lfn.First[:], lfnUnits("READM", 5))
	copy(lfn.Second[:], lfnUnits("E.md", 6))
	copy(lfn.Third[:], lfnUnits("", 2))
	ti.setRootEntry(0, encodeLFN(t, lfn))

	readme := EntryHeader{
		Name:           shortName8_3("README~1", "MD"),
		Attribute:      AttrArchive,
		FirstClusterLO: 4,
		FileSize:       uint32(len(readmeContent)),
	}
	ti.setRootEntry(1, encodeEntry(t, readme))

	subdir := EntryHeader{
		Name:           shortName8_3("SUBDIR", ""),
		Attribute:      AttrDirectory,
		FirstClusterLO: 2,
	}
	ti.setRootEntry(2, encodeEntry(t, subdir))

	ti.setCluster(4, []byte(readmeContent))

	var subdirCluster [testBytesPerSector]byte
	dot := encodeEntry(t, EntryHeader{Name: shortName8_3(".", ""), Attribute: AttrDirectory, FirstClusterLO: 2})
	dotdot := encodeEntry(t, EntryHeader{Name: shortName8_3("..", ""), Attribute: AttrDirectory, FirstClusterLO: 0})
	file := encodeEntry(t, EntryHeader{
		Name:           shortName8_3("FILE", "TXT"),
		Attribute:      AttrArchive,
		FirstClusterLO: 3,
		FileSize:       uint32(len(subfileContent)),
	})
	copy(subdirCluster[0:32], dot[:])
	copy(subdirCluster[32:64], dotdot[:])
	copy(subdirCluster[64:96], file[:])
	ti.setCluster(2, subdirCluster[:])

	ti.setCluster(3, []byte(subfileContent))

	return ti, readmeContent, subfileContent
}

func TestFs_lookup(t *testing.T) {
	ti, readmeContent, subfileContent := buildSampleImage(t)
	fs := newTestFs(t, ti)

	t.Run("root file by its reconstructed long name", func(t *testing.T) {
		_, header, err := fs.lookup("README.md")
		if err != nil {
			t.Fatalf("lookup() error = %v", err)
		}
		if header.FileSize != uint32(len(readmeContent)) {
			t.Errorf("FileSize = %v, want %v", header.FileSize, len(readmeContent))
		}
	})

	t.Run("case-insensitive match", func(t *testing.T) {
		if _, _, err := fs.lookup("readme.MD"); err != nil {
			t.Errorf("lookup() error = %v, want nil", err)
		}
	})

	t.Run("nested file through a subdirectory", func(t *testing.T) {
		_, header, err := fs.lookup("SUBDIR/FILE.TXT")
		if err != nil {
			t.Fatalf("lookup() error = %v", err)
		}
		if header.FileSize != uint32(len(subfileContent)) {
			t.Errorf("FileSize = %v, want %v", header.FileSize, len(subfileContent))
		}
	})

	t.Run("missing path", func(t *testing.T) {
		if _, _, err := fs.lookup("NOPE.TXT"); err == nil {
			t.Error("lookup() error = nil, want non-nil for a missing path")
		}
	})
}

func TestFs_Open_Read(t *testing.T) {
	ti, readmeContent, subfileContent := buildSampleImage(t)
	fs := newTestFs(t, ti)

	t.Run("root file", func(t *testing.T) {
		f, err := fs.Open("README.md")
		if err != nil {
			t.Fatalf("Open() error = %v", err)
		}
		defer f.Close()

		buf := make([]byte, len(readmeContent))
		n, err := f.Read(buf)
		if err != nil {
			t.Fatalf("Read() error = %v", err)
		}
		if n != len(readmeContent) || string(buf) != readmeContent {
			t.Errorf("Read() = %q (n=%v), want %q", buf, n, readmeContent)
		}
	})

	t.Run("nested file", func(t *testing.T) {
		f, err := fs.Open("SUBDIR/FILE.TXT")
		if err != nil {
			t.Fatalf("Open() error = %v", err)
		}
		defer f.Close()

		buf := make([]byte, len(subfileContent))
		if _, err := io.ReadFull(f, buf); err != nil {
			t.Fatalf("Read() error = %v", err)
		}
		if string(buf) != subfileContent {
			t.Errorf("content = %q, want %q", buf, subfileContent)
		}
	})
}

func TestFs_Stat(t *testing.T) {
	ti, _, _ := buildSampleImage(t)
	fs := newTestFs(t, ti)

	stat, err := fs.Stat("SUBDIR")
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if !stat.IsDir() {
		t.Error("IsDir() = false, want true for SUBDIR")
	}
}

func TestFs_readRoot_filtersDotAndUnused(t *testing.T) {
	ti, _, _ := buildSampleImage(t)
	fs := newTestFs(t, ti)

	entries, err := fs.readRoot()
	if err != nil {
		t.Fatalf("readRoot() error = %v", err)
	}

	var names []string
	for _, e := range entries {
		names = append(names, e.DisplayName())
	}
	want := []string{"README.md", "SUBDIR"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("readRoot() names mismatch (-want +got):\n%s", diff)
	}
}

func TestFs_readDir_filtersDotEntries(t *testing.T) {
	ti, _, _ := buildSampleImage(t)
	fs := newTestFs(t, ti)

	entries, err := fs.readDir(2)
	if err != nil {
		t.Fatalf("readDir() error = %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("readDir() returned %d entries, want 1 (FILE.TXT, dot entries filtered)", len(entries))
	}
	if entries[0].DisplayName() != "FILE.TXT" {
		t.Errorf("entry name = %q, want %q", entries[0].DisplayName(), "FILE.TXT")
	}
}

func TestFs_Walk(t *testing.T) {
	ti, _, _ := buildSampleImage(t)
	fs := newTestFs(t, ti)

	var visited []string
	err := afero.Walk(fs, "", func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if path != "" {
			visited = append(visited, path)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Walk() error = %v", err)
	}

	joined := strings.Join(visited, ",")
	if !strings.Contains(joined, "README.md") {
		t.Errorf("Walk() visited = %v, want it to include README.md", visited)
	}
}

func TestNew_rejectsTooShortReader(t *testing.T) {
	if _, err := New(bytes.NewReader(make([]byte, 10))); err == nil {
		t.Error("New() error = nil, want ErrMalformedBootBlock for a too-short reader")
	}
}
