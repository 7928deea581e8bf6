package gofat16

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"strings"

	"github.com/aligator/gofat16/checkpoint"
)

// ErrMalformedBootBlock is returned when the image is too short to contain
// a boot sector or the decoded geometry is not well-formed (any of
// bytes-per-sector, sectors-per-cluster, num-FATs or FAT-size is zero).
var ErrMalformedBootBlock = errors.New("malformed boot block")

const bootBlockSize = 512

// readBootBlock reads exactly 512 bytes from offset 0 of r and decodes them
// into a BPB. The boot signature at offset 510 is read but, per spec, not
// required to equal 0xAA55 - some images in the wild disagree.
func readBootBlock(r io.ReadSeeker) (BPB, error) {
	var bpb BPB

	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return bpb, checkpoint.Wrap(err, ErrMalformedBootBlock)
	}

	buf := make([]byte, bootBlockSize)
	n, err := io.ReadFull(r, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return bpb, checkpoint.Wrap(err, ErrMalformedBootBlock)
	}
	if n < bootBlockSize {
		return bpb, checkpoint.From(ErrMalformedBootBlock)
	}

	if err := binary.Read(bytes.NewReader(buf), binary.LittleEndian, &bpb); err != nil {
		return bpb, checkpoint.Wrap(err, ErrMalformedBootBlock)
	}

	return bpb, nil
}

// validate applies the non-zero geometry invariant from spec section 3.
func (b BPB) validate() error {
	if b.BytesPerSector == 0 {
		return checkpoint.From(ErrMalformedBootBlock)
	}
	if b.SectorsPerCluster == 0 {
		return checkpoint.From(ErrMalformedBootBlock)
	}
	if b.NumFATs == 0 {
		return checkpoint.From(ErrMalformedBootBlock)
	}
	if b.fatSize() == 0 {
		return checkpoint.From(ErrMalformedBootBlock)
	}
	return nil
}

// fatSize returns the number of sectors per FAT. Only the FAT16 field is
// consulted; FAT32's 32-bit FATSize32 is a non-goal.
func (b BPB) fatSize() uint16 {
	return b.FATSize16
}

// FATRegionStart is the byte offset of the first FAT.
func (b BPB) FATRegionStart() uint32 {
	return uint32(b.ReservedSectorCount) * uint32(b.BytesPerSector)
}

// RootDirectoryRegionStart is the byte offset of the flat root directory
// region, immediately following all copies of the FAT.
func (b BPB) RootDirectoryRegionStart() uint32 {
	return b.FATRegionStart() + uint32(b.NumFATs)*uint32(b.fatSize())*uint32(b.BytesPerSector)
}

// DataRegionStart is the byte offset of cluster 2, the first addressable
// data cluster.
func (b BPB) DataRegionStart() uint32 {
	return b.RootDirectoryRegionStart() + uint32(b.RootEntryCount)*32
}

// BytesPerCluster is bytes-per-sector times sectors-per-cluster.
func (b BPB) BytesPerCluster() uint32 {
	return uint32(b.BytesPerSector) * uint32(b.SectorsPerCluster)
}

// fat16Ext overlays BPB.FATSpecificData as the FAT16 extended boot record.
func (b BPB) fat16Ext() FAT16SpecificData {
	var ext FAT16SpecificData
	_ = binary.Read(bytes.NewReader(b.FATSpecificData[:]), binary.LittleEndian, &ext)
	return ext
}

// VolumeLabel returns the raw, space-trimmed 11-byte volume label. It is
// surfaced as-is; the core never validates or interprets it further.
func (b BPB) VolumeLabel() string {
	ext := b.fat16Ext()
	return strings.TrimRight(string(ext.BSVolumeLabel[:]), " ")
}

// OEMName returns the raw, space-trimmed 8-byte OEM identifier string.
func (b BPB) OEMName() string {
	return strings.TrimRight(string(b.BSOEMName[:]), " ")
}
