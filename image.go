package gofat16

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/aligator/gofat16/checkpoint"
	"github.com/spf13/afero"
)

// FATType names the on-disk FAT variant. Only FAT16 is ever decoded by this
// module; FAT12 and FAT32 are non-goals kept here only so FSType has
// something meaningful to return.
type FATType int

const (
	FAT12 FATType = iota
	FAT16
	FAT32
)

func (t FATType) String() string {
	switch t {
	case FAT12:
		return "FAT12"
	case FAT32:
		return "FAT32"
	default:
		return "FAT16"
	}
}

// Fs is the Image facade of spec section 4.8: it owns the parsed boot block
// and the backing ImageSource, and composes the boot-block decoder, FAT
// chain walker, cluster reader, directory iterator and name decoder into a
// read-only afero.Fs. A single Fs must not be driven from multiple
// goroutines concurrently; the lock only protects the shared read/seek
// cursor of the reader from being torn by racing calls to the afero-facing
// methods (Open, Stat and the File reads). ReadFromCluster, NextEntry and
// FirstEntryOf do not take it.
type Fs struct {
	lock   sync.Mutex
	reader imageReader
	info   BPB
}

// New opens reader as a FAT16 image, reading and validating its boot block.
// Construction failure is fatal: a non-nil error means the returned Fs must
// not be used, per spec section 7's propagation policy.
func New(reader imageReader) (*Fs, error) {
	bpb, err := readBootBlock(reader)
	if err != nil {
		return nil, err
	}

	if err := bpb.validate(); err != nil {
		return nil, err
	}

	return &Fs{reader: reader, info: bpb}, nil
}

// NewSkipChecks opens reader the same way New does, but tolerates a boot
// block that fails BPB.validate - useful for non-standard images in the
// wild. The 512-byte short-read check still applies unconditionally: there
// is no geometry to work with at all otherwise.
func NewSkipChecks(reader imageReader) (*Fs, error) {
	bpb, err := readBootBlock(reader)
	if err != nil {
		return nil, err
	}

	return &Fs{reader: reader, info: bpb}, nil
}

// BytesPerCluster is bytes-per-sector * sectors-per-cluster.
func (fs *Fs) BytesPerCluster() uint32 {
	return fs.info.BytesPerCluster()
}

// Label returns the volume label surfaced raw from the boot block, per spec
// section 1's "never interprets... volume labels beyond surfacing them as
// raw fields".
func (fs *Fs) Label() string {
	return fs.info.VolumeLabel()
}

// FSType always reports FAT16: this decoder never activates the FAT12 or
// FAT32 paths.
func (fs *Fs) FSType() FATType {
	return FAT16
}

// BootBlock exposes the decoded boot sector, for callers that want the raw
// geometry fields directly.
func (fs *Fs) BootBlock() BPB {
	return fs.info
}

func splitPath(name string) []string {
	name = strings.Trim(filepathToSlash(name), "/")
	if name == "" {
		return nil
	}
	return strings.Split(name, "/")
}

func filepathToSlash(name string) string {
	return strings.ReplaceAll(name, "\\", "/")
}

// lookup resolves a slash-separated path against the directory tree,
// starting at the root. It returns the final Entry, positioned as it was
// left by the last NextEntry call that matched, plus its extended header.
func (fs *Fs) lookup(name string) (Entry, ExtendedEntryHeader, error) {
	parts := splitPath(name)
	if len(parts) == 0 {
		root := ExtendedEntryHeader{EntryHeader: EntryHeader{Attribute: AttrDirectory}}
		return Entry{}, root, nil
	}

	cur := Entry{}

	for i, part := range parts {
		found := false
		var match Entry

	searchLoop:
		for fs.NextEntry(&cur) {
			switch cur.Type() {
			case EntryTypeUnused:
				break searchLoop
			case EntryTypeDeleted, EntryTypeDirectory:
				continue
			}
			if cur.IsVolumeLabel() {
				continue
			}

			candidateName := cur.Extended().DisplayName()
			if strings.EqualFold(candidateName, part) {
				match = cur
				found = true
				break searchLoop
			}
		}

		if !found {
			return Entry{}, ExtendedEntryHeader{}, checkpoint.Wrap(os.ErrNotExist, ErrReadDir)
		}

		if i < len(parts)-1 {
			var child Entry
			if err := fs.FirstEntryOf(&match, &child); err != nil {
				return Entry{}, ExtendedEntryHeader{}, err
			}
			cur = child
		} else {
			cur = match
		}
	}

	return cur, cur.Extended(), nil
}

// readEntries drains an iterator into a slice, filtering out deleted
// entries, dot entries and the volume-label pseudo-entry - the filtering
// spec section 4.5 leaves to the caller. NextEntry itself still reports
// everything as-is.
func (fs *Fs) readEntries(cur *Entry) ([]ExtendedEntryHeader, error) {
	var result []ExtendedEntryHeader

	for fs.NextEntry(cur) {
		switch cur.Type() {
		case EntryTypeUnused:
			return result, nil
		case EntryTypeDeleted, EntryTypeDirectory:
			continue
		}
		if cur.IsVolumeLabel() {
			continue
		}

		result = append(result, cur.Extended())
	}

	return result, nil
}

func (fs *Fs) readRoot() ([]ExtendedEntryHeader, error) {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	cur := Entry{}
	return fs.readEntries(&cur)
}

func (fs *Fs) readDir(cluster fatEntry) ([]ExtendedEntryHeader, error) {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	cur := Entry{root: cluster}
	return fs.readEntries(&cur)
}

// readFileAt reads readSize bytes at offset from the cluster chain rooted
// at cluster, clamped to fileSize, mirroring afero.File.ReadAt semantics.
func (fs *Fs) readFileAt(cluster fatEntry, fileSize int64, offset int64, readSize int64) ([]byte, error) {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	if offset >= fileSize {
		return nil, io.EOF
	}

	if offset+readSize > fileSize {
		readSize = fileSize - offset
	}

	dest := make([]byte, readSize)
	n, err := fs.ReadFromCluster(dest, uint32(offset), cluster, uint32(readSize))
	if err != nil {
		return dest[:n], checkpoint.Wrap(err, ErrShortRead)
	}
	if int64(n) < readSize {
		return dest[:n], checkpoint.Wrap(ErrShortRead, ErrReadFile)
	}
	return dest[:n], nil
}

// --- afero.Fs conformance -------------------------------------------------

func (fs *Fs) Open(name string) (afero.File, error) {
	fs.lock.Lock()
	entry, header, err := fs.lookup(name)
	fs.lock.Unlock()
	if err != nil {
		return nil, checkpoint.Wrap(err, ErrReadDir)
	}

	return &File{
		fs:           fs,
		path:         strings.Trim(filepathToSlash(name), "/"),
		isDirectory:  header.IsDirectory(),
		isReadOnly:   header.IsReadOnly(),
		isHidden:     header.IsHidden(),
		isSystem:     header.IsSystem(),
		firstCluster: entry.header.StartingCluster(),
		stat:         header.FileInfo(),
	}, nil
}

func (fs *Fs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	if flag&(os.O_WRONLY|os.O_RDWR|os.O_CREATE|os.O_TRUNC|os.O_APPEND) != 0 {
		return nil, checkpoint.From(ErrNotImplemented)
	}
	return fs.Open(name)
}

func (fs *Fs) Stat(name string) (os.FileInfo, error) {
	fs.lock.Lock()
	_, header, err := fs.lookup(name)
	fs.lock.Unlock()
	if err != nil {
		return nil, checkpoint.Wrap(err, ErrReadDir)
	}
	return header.FileInfo(), nil
}

func (fs *Fs) Name() string {
	return "gofat16"
}

func (fs *Fs) Create(name string) (afero.File, error) {
	return nil, checkpoint.From(ErrNotImplemented)
}

func (fs *Fs) Mkdir(name string, perm os.FileMode) error {
	return checkpoint.From(ErrNotImplemented)
}

func (fs *Fs) MkdirAll(path string, perm os.FileMode) error {
	return checkpoint.From(ErrNotImplemented)
}

func (fs *Fs) Remove(name string) error {
	return checkpoint.From(ErrNotImplemented)
}

func (fs *Fs) RemoveAll(path string) error {
	return checkpoint.From(ErrNotImplemented)
}

func (fs *Fs) Rename(oldname, newname string) error {
	return checkpoint.From(ErrNotImplemented)
}

func (fs *Fs) Chmod(name string, mode os.FileMode) error {
	return checkpoint.From(ErrNotImplemented)
}

func (fs *Fs) Chown(name string, uid, gid int) error {
	return checkpoint.From(ErrNotImplemented)
}

func (fs *Fs) Chtimes(name string, atime time.Time, mtime time.Time) error {
	return checkpoint.From(ErrNotImplemented)
}
