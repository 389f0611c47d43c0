package main

import (
	"archive/zip"
	"bytes"
	"compress/gzip"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/pierrec/lz4"
)

// maxUnpackedSize caps how much a compressed upload may expand to.
const maxUnpackedSize = 256 << 20

// unpackArchive returns the name and bytes of the file inside a compressed upload.
// Anything that is not an archive is returned untouched.
func unpackArchive(name string, raw []byte) (string, []byte, error) {
	switch fileExtension(name) {
	case ".zip":
		return unpackZipArchive(raw)
	case ".gz":
		gr, err := gzip.NewReader(bytes.NewReader(raw))
		if err != nil {
			return "", nil, parseFailure("gzip: %v", err)
		}
		defer gr.Close()
		return unpackStream(strings.TrimSuffix(name, filepath.Ext(name)), gr)
	case ".lz4":
		return unpackStream(strings.TrimSuffix(name, filepath.Ext(name)), lz4.NewReader(bytes.NewReader(raw)))
	}
	return name, raw, nil
}

func unpackStream(innerName string, r io.Reader) (string, []byte, error) {
	data, err := readLimited(r)
	if err != nil {
		return "", nil, err
	}
	return innerName, data, nil
}

func unpackZipArchive(raw []byte) (string, []byte, error) {
	r, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return "", nil, parseFailure("zip: %v", err)
	}

	// Largest member wins
	var largestFile *zip.File
	var largestSize uint64
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		if largestFile == nil || f.UncompressedSize64 > largestSize {
			largestFile = f
			largestSize = f.UncompressedSize64
		}
	}
	if largestFile == nil {
		return "", nil, parseFailure("zip archive is empty")
	}

	rc, err := largestFile.Open()
	if err != nil {
		return "", nil, parseFailure("zip: %v", err)
	}
	defer rc.Close()
	return unpackStream(path.Base(largestFile.Name), rc)
}

func readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxUnpackedSize+1))
	if err != nil {
		return nil, parseFailure("unpack: %v", err)
	}
	if len(data) > maxUnpackedSize {
		return nil, parseFailure("unpacked file exceeds %d bytes", maxUnpackedSize)
	}
	return data, nil
}
