// File model contains the structs which match the direct structures of the FAT filesystem.

package gofat16

// BPB is the 512-byte boot sector, decoded field by field with
// encoding/binary so no pack pragma is needed the way the original C++
// needed one.
type BPB struct {
	BSJumpBoot          [3]byte
	BSOEMName           [8]byte
	BytesPerSector      uint16
	SectorsPerCluster   byte
	ReservedSectorCount uint16
	NumFATs             byte
	RootEntryCount      uint16
	TotalSectors16      uint16
	Media               byte
	FATSize16           uint16
	SectorsPerTrack     uint16
	NumberOfHeads       uint16
	HiddenSectors       uint32
	TotalSectors32      uint32
	FATSpecificData     [54]byte
}

// FAT16SpecificData is the FAT16 extended boot record, overlaid onto
// BPB.FATSpecificData.
type FAT16SpecificData struct {
	BSDriveNumber    byte
	BSReserved1      byte
	BSBootSignature  byte
	BSVolumeId       uint32
	BSVolumeLabel    [11]byte
	BSFileSystemType [8]byte
}

// FAT32SpecificData documents the FAT32 extended boot record layout for
// completeness. FAT32 itself is a non-goal: this module never decodes it.
type FAT32SpecificData struct {
	FatSize      uint32
	ExtFlags     uint16
	FSVersion    uint16
	RootCluster  uint32
	FSInfo       uint16
	BkBootSector uint16
	Reserved     [12]byte

	BSDriveNumber    byte
	BSReserved1      byte
	BSBootSignature  byte
	BSVolumeID       uint32
	BSVolumeLabel    [11]byte
	BSFileSystemType [8]byte
}

// EntryHeader is the 32-byte fundamental (8.3) directory record.
type EntryHeader struct {
	Name            [11]byte
	Attribute       byte
	NTReserved      byte
	CreateTimeTenth byte
	CreateTime      uint16
	CreateDate      uint16
	LastAccessDate  uint16
	FirstClusterHI  uint16
	WriteTime       uint16
	WriteDate       uint16
	FirstClusterLO  uint16
	FileSize        uint32
}

// LongFilenameEntry is the 32-byte LFN directory record, occupying the same
// slot size as EntryHeader. Attribute fixed at 0x0F and Zero == {0,0}
// distinguish it from a fundamental entry when scanning sequentially.
type LongFilenameEntry struct {
	Sequence  byte
	First     [5]uint16
	Attribute byte
	EntryType byte
	Checksum  byte
	Second    [6]uint16
	Zero      [2]byte
	Third     [2]uint16
}

// ExtendedEntryHeader pairs a decoded fundamental entry with the long
// filename reconstructed from its preceding LFN chain, if any.
type ExtendedEntryHeader struct {
	EntryHeader
	ExtendedName string
}

// Attribute bits, mirroring the original Fat16::EntryAttribute enum.
const (
	AttrReadOnly    byte = 0x01
	AttrHidden      byte = 0x02
	AttrSystem      byte = 0x04
	AttrVolumeLabel byte = 0x08
	AttrDirectory   byte = 0x10
	AttrArchive     byte = 0x20

	// AttrLongName marks a slot as an LFN record rather than a fundamental
	// entry (READONLY|HIDDEN|SYSTEM|VOLUME == 0x0F).
	AttrLongName byte = AttrReadOnly | AttrHidden | AttrSystem | AttrVolumeLabel
)

func (h EntryHeader) IsReadOnly() bool    { return h.Attribute&AttrReadOnly != 0 }
func (h EntryHeader) IsHidden() bool      { return h.Attribute&AttrHidden != 0 }
func (h EntryHeader) IsSystem() bool      { return h.Attribute&AttrSystem != 0 }
func (h EntryHeader) IsVolumeLabel() bool { return h.Attribute&AttrVolumeLabel != 0 }
func (h EntryHeader) IsDirectory() bool   { return h.Attribute&AttrDirectory != 0 }
func (h EntryHeader) IsArchive() bool     { return h.Attribute&AttrArchive != 0 }

// StartingCluster returns the entry's starting cluster. FirstClusterHI is
// always 0 on FAT16 (it only matters for FAT32), so the low word alone
// addresses the chain.
func (h EntryHeader) StartingCluster() fatEntry {
	return fatEntry(h.FirstClusterLO)
}

// EntryType classifies a fundamental entry by the overloaded meaning of its
// first filename byte, mirroring Fat16::FundamentalEntry::get_entry_type_from_filename.
type EntryType int

const (
	EntryTypeFile EntryType = iota
	EntryTypeDirectory
	EntryTypeDeleted
	EntryTypeUnused
)

func (t EntryType) String() string {
	switch t {
	case EntryTypeDirectory:
		return "directory"
	case EntryTypeDeleted:
		return "deleted"
	case EntryTypeUnused:
		return "unused"
	default:
		return "file"
	}
}

// Type classifies the entry by the first byte of its raw filename: 0x00
// unused (end of directory), 0xE5 deleted, 0x2E dot entry, anything else a
// regular record.
func (h EntryHeader) Type() EntryType {
	switch h.Name[0] {
	case 0x00:
		return EntryTypeUnused
	case 0xE5:
		return EntryTypeDeleted
	case 0x2E:
		return EntryTypeDirectory
	default:
		return EntryTypeFile
	}
}
