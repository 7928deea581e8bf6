package gofat16

import (
	"bytes"
	"encoding/binary"
	"strings"
	"testing"
)

// testutil_test.go assembles minimal, well-formed in-memory FAT16 images for
// the rest of the test suite, byte-for-byte from the boot sector / FAT /
// root directory / data region layout (spec section 3). There is no real
// disk image fixture in this module - every test builds its own tiny image
// out of typed structs instead of a recorded binary blob.

const (
	testBytesPerSector    = 512
	testSectorsPerCluster = 1
	testReservedSectors   = 1
	testNumFATs           = 1
	testFATSectors        = 1
	testRootEntryCount    = 16
)

func testFATRegionStart() uint32  { return testReservedSectors * testBytesPerSector }
func testRootRegionStart() uint32 { return testFATRegionStart() + testNumFATs*testFATSectors*testBytesPerSector }
func testDataRegionStart() uint32 { return testRootRegionStart() + testRootEntryCount*32 }

// testImage accumulates the FAT, root directory and data regions of a
// synthetic image before being serialized by reader.
type testImage struct {
	fat  [testFATSectors * testBytesPerSector]byte
	root [testRootEntryCount * 32]byte
	data map[uint32][]byte
}

func newTestImage() *testImage {
	return &testImage{data: map[uint32][]byte{}}
}

func (ti *testImage) setFAT(cluster uint16, next uint16) {
	binary.LittleEndian.PutUint16(ti.fat[cluster*2:], next)
}

func (ti *testImage) setRootEntry(slot int, raw [32]byte) {
	copy(ti.root[slot*32:], raw[:])
}

func (ti *testImage) setCluster(cluster uint32, content []byte) {
	buf := make([]byte, testBytesPerSector*testSectorsPerCluster)
	copy(buf, content)
	ti.data[cluster] = buf
}

// reader serializes the accumulated regions, preceded by a boot sector
// built from a BPB literal (rather than hand-placed byte offsets), into a
// single *bytes.Reader ready to hand to New/NewSkipChecks.
func (ti *testImage) reader(t *testing.T) *bytes.Reader {
	t.Helper()

	bpb := BPB{
		BytesPerSector:      testBytesPerSector,
		SectorsPerCluster:   testSectorsPerCluster,
		ReservedSectorCount: testReservedSectors,
		NumFATs:             testNumFATs,
		RootEntryCount:      testRootEntryCount,
		TotalSectors16:      1000,
		Media:               0xF8,
		FATSize16:           testFATSectors,
	}
	copy(bpb.BSOEMName[:], "GOFAT16 ")

	var bootBuf bytes.Buffer
	if err := binary.Write(&bootBuf, binary.LittleEndian, bpb); err != nil {
		t.Fatalf("building boot sector: %v", err)
	}
	boot := bootBuf.Bytes()
	boot = append(boot, make([]byte, testBytesPerSector-len(boot))...)

	maxCluster := uint32(1)
	for c := range ti.data {
		if c > maxCluster {
			maxCluster = c
		}
	}

	image := append([]byte{}, boot...)
	image = append(image, ti.fat[:]...)
	image = append(image, ti.root[:]...)

	dataRegion := make([]byte, (maxCluster-1)*testBytesPerSector)
	for cluster, content := range ti.data {
		offset := (cluster - 2) * testBytesPerSector
		copy(dataRegion[offset:], content)
	}
	image = append(image, dataRegion...)

	return bytes.NewReader(image)
}

func encodeEntry(t *testing.T, h EntryHeader) [32]byte {
	t.Helper()
	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.LittleEndian, h); err != nil {
		t.Fatalf("encoding entry: %v", err)
	}
	var raw [32]byte
	copy(raw[:], buf.Bytes())
	return raw
}

func encodeLFN(t *testing.T, e LongFilenameEntry) [32]byte {
	t.Helper()
	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.LittleEndian, e); err != nil {
		t.Fatalf("encoding LFN: %v", err)
	}
	var raw [32]byte
	copy(raw[:], buf.Bytes())
	return raw
}

// shortName8_3 packs a "NAME"/"EXT" pair into the fixed 11-byte name field,
// space-padded like a real formatter would leave it.
func shortName8_3(name, ext string) [11]byte {
	var raw [11]byte
	for i := range raw {
		raw[i] = ' '
	}
	copy(raw[:8], strings.ToUpper(name))
	copy(raw[8:11], strings.ToUpper(ext))
	return raw
}

// lfnUnits packs s as UTF-16 code units into a fixed-width run, terminated
// by 0x0000 and padded with 0xFFFF - the on-disk convention for a long
// filename fragment shorter than its slot. The caller copies the result
// into whichever fixed-size array (First[5], Second[6], Third[2]) it needs.
func lfnUnits(s string, width int) []uint16 {
	out := make([]uint16, width)
	units := []uint16{}
	for _, r := range s {
		units = append(units, uint16(r))
	}
	for i := range out {
		switch {
		case i < len(units):
			out[i] = units[i]
		case i == len(units):
			out[i] = 0
		default:
			out[i] = 0xFFFF
		}
	}
	return out
}
