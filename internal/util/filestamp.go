package util

import (
	"fmt"
	"hash/crc32"
	"io"
	"os"

	"golang.org/x/sys/unix"
)

// fingerprintSize is how many trailing bytes are hashed
const fingerprintSize = 2048

// FileStamp identifies one version of a file on disk.
type FileStamp struct {
	ModTime     int64
	Size        int64
	Inode       uint64
	Fingerprint string
}

// GetFileStamp stats path and hashes its tail. Two stamps are equal only when
// the file was not replaced, resized, touched or rewritten at its end.
func GetFileStamp(path string) (FileStamp, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FileStamp{}, err
	}

	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return FileStamp{}, fmt.Errorf("stat %s: %w", path, err)
	}

	fingerprint, err := CalculateFileFingerprint(path)
	if err != nil {
		return FileStamp{}, err
	}

	return FileStamp{
		ModTime:     info.ModTime().UnixNano(),
		Size:        info.Size(),
		Inode:       uint64(st.Ino),
		Fingerprint: fingerprint,
	}, nil
}

// CalculateFileFingerprint calculates CRC32 fingerprint of the last 2KB of a file
func CalculateFileFingerprint(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return "", err
	}

	readSize := int64(fingerprintSize)
	if stat.Size() < readSize {
		readSize = stat.Size()
	}

	if _, err := file.Seek(-readSize, io.SeekEnd); err != nil {
		return "", err
	}

	data := make([]byte, readSize)
	if _, err := io.ReadFull(file, data); err != nil {
		return "", err
	}

	return fmt.Sprintf("%08x", crc32.ChecksumIEEE(data)), nil
}
