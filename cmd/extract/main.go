// Command extract walks a FAT16 image top to bottom and writes every
// archive-attributed file it finds to disk, mirroring the directory
// structure of the image. It is the Go counterpart of the original
// extract_file/traverse_directory pair: unlike cmd/example, which goes
// through the afero.Fs path-lookup API, this walks the image using the
// lower-level Entry/NextEntry/FirstEntryOf/ReadFromCluster primitives
// directly, the way the original tool did.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/aligator/gofat16"
)

const chunkSize = 0x10000

func main() {
	args := os.Args[1:]
	if len(args) < 2 {
		fmt.Println("usage: extract <image> <destination>")
		os.Exit(1)
	}

	imgFile, err := os.Open(args[0])
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer imgFile.Close()

	fat, err := gofat16.New(imgFile)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	if err := traverseDirectory(fat, gofat16.Entry{}, args[1]); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// traverseDirectory walks every entry of dir, recursing into real
// subdirectories (skipping the dot/dot-dot pseudo-entries, which
// decode with EntryTypeDirectory rather than EntryTypeFile, as well as
// deleted and unused records) and extracting anything carrying the
// archive attribute.
func traverseDirectory(fat *gofat16.Fs, dir gofat16.Entry, destPath string) error {
	if err := os.MkdirAll(destPath, 0o755); err != nil {
		return err
	}

	for fat.NextEntry(&dir) {
		name, err := dir.Name()
		if err != nil {
			continue
		}

		if dir.IsDirectory() {
			// Only records whose first filename byte classifies them as
			// EntryTypeFile are real subdirectories. The dot entries (".",
			// "..") decode as EntryTypeDirectory and are skipped so recursion
			// terminates instead of looping on itself or its parent; deleted
			// (0xE5) and unused (0x00) records are skipped as well.
			if dir.Type() == gofat16.EntryTypeFile {
				var child gofat16.Entry
				if err := fat.FirstEntryOf(&dir, &child); err != nil {
					return err
				}

				if err := traverseDirectory(fat, child, filepath.Join(destPath, name)); err != nil {
					return err
				}
			}
			continue
		}

		if dir.IsArchive() {
			if err := extractFile(fat, dir, filepath.Join(destPath, name)); err != nil {
				return err
			}
		}
	}

	return nil
}

// extractFile copies a single file's cluster chain to path in chunkSize
// pieces, matching the original tool's fixed-size scratch buffer.
func extractFile(fat *gofat16.Fs, entry gofat16.Entry, path string) error {
	out, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer out.Close()

	header := entry.Header()
	buf := make([]byte, chunkSize)

	var offset uint32
	sizeLeft := header.FileSize

	for sizeLeft != 0 {
		want := uint32(chunkSize)
		if sizeLeft < want {
			want = sizeLeft
		}

		n, err := fat.ReadFromCluster(buf, offset, header.StartingCluster(), want)
		if err != nil {
			return err
		}
		if n != want {
			break
		}

		if _, err := out.Write(buf[:n]); err != nil {
			return err
		}

		sizeLeft -= want
		offset += want
	}

	return nil
}
