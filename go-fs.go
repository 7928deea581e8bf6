package gofat16

import (
	"errors"
	"io"
	"io/fs"

	"github.com/spf13/afero"
)

// GoDirEntry adapts an os.FileInfo (as returned by Readdir) to fs.DirEntry.
type GoDirEntry struct {
	fs.FileInfo
}

func (g GoDirEntry) Type() fs.FileMode {
	return g.FileInfo.Mode().Type()
}

func (g GoDirEntry) Info() (fs.FileInfo, error) {
	return g.FileInfo, nil
}

// GoFile adapts *File to fs.File and fs.ReadDirFile.
type GoFile struct {
	*File
}

func (g GoFile) Stat() (fs.FileInfo, error) {
	return g.File.Stat()
}

func (g GoFile) Read(bytes []byte) (int, error) {
	return g.File.Read(bytes)
}

func (g GoFile) Close() error {
	return g.File.Close()
}

func (g GoFile) ReadDir(n int) ([]fs.DirEntry, error) {
	entries, err := g.File.Readdir(n)

	goEntries := make([]fs.DirEntry, len(entries))
	for i, e := range entries {
		goEntries[i] = GoDirEntry{e}
	}

	return goEntries, err
}

// GoFs wraps Fs to be directly compatible with fs.FS, kept for callers that
// predate afero.IOFS. New code should prefer NewIOFS, which reuses afero's
// own io/fs bridge instead of reimplementing one.
type GoFs struct {
	Fs
}

// NewGoFS opens a FAT16 image from reader as an fs.FS-compatible filesystem.
func NewGoFS(reader io.ReadSeeker) (*GoFs, error) {
	underlying, err := New(reader)
	if err != nil {
		return nil, err
	}

	return &GoFs{*underlying}, nil
}

// NewGoFSSkipChecks is NewGoFS but skips BPB.validate, just like
// NewSkipChecks. Use with caution.
func NewGoFSSkipChecks(reader io.ReadSeeker) (*GoFs, error) {
	underlying, err := NewSkipChecks(reader)
	if err != nil {
		return nil, err
	}

	return &GoFs{*underlying}, nil
}

func (g GoFs) Open(name string) (fs.File, error) {
	file, err := g.Fs.Open(name)
	if err != nil {
		return nil, err
	}

	f, ok := file.(*File)
	if !ok {
		return nil, errors.New("invalid File implementation")
	}

	return GoFile{f}, nil
}

// NewIOFS opens a FAT16 image from reader and wraps it in afero.IOFS, the
// same io/fs bridge afero.NewMemMapFs users get for free - preferred over
// GoFs for anything new.
func NewIOFS(reader io.ReadSeeker) (afero.IOFS, error) {
	underlying, err := New(reader)
	if err != nil {
		return afero.IOFS{}, err
	}

	return afero.NewIOFS(underlying), nil
}

// NewIOFSSkipChecks is NewIOFS but skips BPB.validate, just like
// NewSkipChecks. Use with caution.
func NewIOFSSkipChecks(reader io.ReadSeeker) (afero.IOFS, error) {
	underlying, err := NewSkipChecks(reader)
	if err != nil {
		return afero.IOFS{}, err
	}

	return afero.NewIOFS(underlying), nil
}
