package gofat16

import (
	"io"
)

// ReadFromCluster translates the logical byte range [byteOffset, byteOffset+size)
// of the cluster chain rooted at startCluster into a sequence of physical
// reads, following chain links across cluster boundaries as needed. It
// returns the number of bytes actually placed into dest - less than size
// when the chain terminates early. This is not an error: see spec section
// 4.4 and scenarios S2/S3/S6.
func (fs *Fs) ReadFromCluster(dest []byte, byteOffset uint32, startCluster fatEntry, size uint32) (uint32, error) {
	if size == 0 {
		return 0, nil
	}

	bpc := fs.info.BytesPerCluster()
	if bpc == 0 {
		return 0, nil
	}

	co := byteOffset % bpc
	cs := byteOffset / bpc

	cluster := startCluster
	for cs > 0 {
		if !cluster.IsNextCluster() {
			return 0, nil
		}
		cluster = successor(fs.reader, fs.info.FATRegionStart(), cluster)
		cs--
	}

	var written uint32
	remaining := size
	first := true

	for remaining > 0 && cluster.IsNextCluster() {
		coThisIter := uint32(0)
		if first {
			coThisIter = co
		}

		physOffset := fs.info.DataRegionStart() + uint32(cluster-2)*bpc + coThisIter

		if _, err := fs.reader.Seek(int64(physOffset), io.SeekStart); err != nil {
			return written, nil
		}

		take := bpc - coThisIter
		if take > remaining {
			take = remaining
		}

		n, err := io.ReadFull(fs.reader, dest[written:written+take])
		written += uint32(n)
		remaining -= uint32(n)

		if err != nil {
			return written, nil
		}
		if uint32(n) < take {
			return written, nil
		}

		first = false
		cluster = successor(fs.reader, fs.info.FATRegionStart(), cluster)
	}

	return written, nil
}
