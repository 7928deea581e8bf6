package gofat16

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/aligator/gofat16/checkpoint"
	"golang.org/x/text/encoding/unicode"
)

// Entry is the directory iteration cursor, advanced by Fs.NextEntry and
// Fs.FirstEntryOf. It is opaque to callers: create it zero-valued (which
// positions it at the start of the root directory), pass it by pointer,
// never poke at its internals directly.
type Entry struct {
	cursorRecord uint32
	root         fatEntry
	header       EntryHeader
	lfn          []LongFilenameEntry
	ended        bool
}

// Header returns the most recently decoded fundamental (8.3) record.
func (e Entry) Header() EntryHeader { return e.header }

// Type forwards to the fundamental record's classification (spec section 3,
// testable property 6).
func (e Entry) Type() EntryType { return e.header.Type() }

func (e Entry) IsDirectory() bool   { return e.header.IsDirectory() }
func (e Entry) IsReadOnly() bool    { return e.header.IsReadOnly() }
func (e Entry) IsHidden() bool      { return e.header.IsHidden() }
func (e Entry) IsSystem() bool      { return e.header.IsSystem() }
func (e Entry) IsVolumeLabel() bool { return e.header.IsVolumeLabel() }
func (e Entry) IsArchive() bool     { return e.header.IsArchive() }

// Filename reconstructs the entry's name as a UTF-16 code-unit sequence:
// the long filename if an LFN chain was accumulated ahead of it, or the
// trimmed (undotted) 8.3 name+extension otherwise. See spec section 4.6.
func (e Entry) Filename() []uint16 {
	if len(e.lfn) == 0 {
		return shortFilename(e.header)
	}

	var units []uint16
outer:
	for i := len(e.lfn) - 1; i >= 0; i-- {
		rec := e.lfn[i]
		for _, run := range [][]uint16{rec.First[:], rec.Second[:], rec.Third[:]} {
			for _, u := range run {
				if u == 0 {
					break outer
				}
				units = append(units, u)
			}
		}
	}
	return units
}

// Name is the Go-idiomatic counterpart of Filename: a decoded UTF-8 string.
// Still no dot is inserted between stem and extension for the 8.3 fallback
// path - that remains the caller's policy, per spec sections 4.6 and 9.
func (e Entry) Name() (string, error) {
	return utf16ToString(e.Filename())
}

// hasLongName reports whether this entry accumulated any LFN records.
func (e Entry) hasLongName() bool {
	return len(e.lfn) > 0
}

// Extended pairs the fundamental record with its reconstructed long
// filename, set only when an LFN chain was actually accumulated - mirroring
// the teacher's ExtendedEntryHeader, whose ExtendedName is empty for
// short-name-only entries so that entryHeaderFileInfo.Name falls back to
// deriving "NAME.EXT" from the raw 8.3 fields instead.
func (e Entry) Extended() ExtendedEntryHeader {
	ext := ExtendedEntryHeader{EntryHeader: e.header}
	if e.hasLongName() {
		if name, err := e.Name(); err == nil {
			ext.ExtendedName = name
		}
	}
	return ext
}

// shortFilename implements the 8.3 fallback of spec section 4.6.
func shortFilename(h EntryHeader) []uint16 {
	name := append([]byte{}, h.Name[:8]...)
	if h.Type() == EntryTypeDirectory {
		name = name[1:]
	}
	if len(name) > 0 && name[0] == 0x05 {
		name[0] = 0xE5
	}
	name = bytes.TrimRight(name, " ")

	ext := bytes.TrimRight(h.Name[8:11], " ")

	all := append(append([]byte{}, name...), ext...)
	all = bytes.TrimRight(all, " ")

	units := make([]uint16, len(all))
	for i, b := range all {
		units[i] = uint16(b)
	}
	return units
}

// utf16ToString decodes a little-endian UTF-16 code-unit sequence into a Go
// string using golang.org/x/text's UTF16 codec, rather than a hand-rolled
// surrogate-pair loop.
func utf16ToString(units []uint16) (string, error) {
	buf := make([]byte, len(units)*2)
	for i, u := range units {
		binary.LittleEndian.PutUint16(buf[i*2:], u)
	}
	decoded, err := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder().Bytes(buf)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}

// readDirSlot reads one 32-byte directory record, either straight from the
// reader's current cursor (root directory: a flat region, sequential reads
// advance the shared stream position) or through the cluster reader at an
// explicit offset (subdirectory: a cluster chain, fully random access).
func (fs *Fs) readDirSlot(isRoot bool, cursorRecord uint32, root fatEntry) ([32]byte, bool) {
	var raw [32]byte
	if isRoot {
		n, err := io.ReadFull(fs.reader, raw[:])
		return raw, err == nil && n == 32
	}
	n, err := fs.ReadFromCluster(raw[:], cursorRecord, root, 32)
	return raw, err == nil && n == 32
}

// NextEntry decodes the next visible fundamental record together with any
// LFN prefix run immediately before it, advancing entry.cursorRecord by a
// multiple of 32 on every call. It returns false at the directory's natural
// end: the root region's entry-count bound, the call after a subdirectory
// has yielded a record whose first filename byte is 0x00 (that record is
// itself still returned, with true; spec section 9's hardening note), or
// any underlying short read. See spec section 4.5.
func (fs *Fs) NextEntry(entry *Entry) bool {
	if entry.ended {
		return false
	}

	isRoot := entry.root == 0
	rootStart := fs.info.RootDirectoryRegionStart()

	if isRoot {
		if entry.cursorRecord/32 >= uint32(fs.info.RootEntryCount) {
			return false
		}
		if _, err := fs.reader.Seek(int64(rootStart)+int64(entry.cursorRecord), io.SeekStart); err != nil {
			return false
		}
	}

	entry.lfn = nil

	for {
		raw, ok := fs.readDirSlot(isRoot, entry.cursorRecord, entry.root)
		if !ok {
			return false
		}

		var candidate LongFilenameEntry
		if err := binary.Read(bytes.NewReader(raw[:]), binary.LittleEndian, &candidate); err != nil {
			return false
		}

		if candidate.Attribute == AttrLongName && candidate.Zero == ([2]byte{}) {
			entry.lfn = append(entry.lfn, candidate)
			entry.cursorRecord += 32
			if isRoot && entry.cursorRecord/32 >= uint32(fs.info.RootEntryCount) {
				return false
			}
			continue
		}

		if isRoot {
			if _, err := fs.reader.Seek(-32, io.SeekCurrent); err != nil {
				return false
			}
		}
		break
	}

	raw, ok := fs.readDirSlot(isRoot, entry.cursorRecord, entry.root)
	if !ok {
		return false
	}
	if err := binary.Read(bytes.NewReader(raw[:]), binary.LittleEndian, &entry.header); err != nil {
		return false
	}
	entry.cursorRecord += 32

	if !isRoot && entry.header.Type() == EntryTypeUnused {
		entry.ended = true
	}

	return true
}

// FirstEntryOf hands the caller a fresh iterator positioned at the start of
// the subdirectory named by parent. Returns ErrNotADirectory if parent is
// not itself a directory entry. See spec section 4.7.
func (fs *Fs) FirstEntryOf(parent *Entry, child *Entry) error {
	if !parent.header.IsDirectory() {
		return checkpoint.From(ErrNotADirectory)
	}

	*child = Entry{
		root: parent.header.StartingCluster(),
	}
	return nil
}
