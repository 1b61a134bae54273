// Package archivetest builds small archives in memory for tests.
package archivetest

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"io"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

// Entry is one archive member. A Name ending in "/" is a directory.
type Entry struct {
	Name string
	Body []byte
}

func TarFile(entries []Entry) (*bytes.Buffer, error) {
	buf := new(bytes.Buffer)
	tw := tar.NewWriter(buf)
	for _, entry := range entries {
		hdr := &tar.Header{Name: entry.Name, Mode: 0644, Typeflag: tar.TypeReg, Size: int64(len(entry.Body))}
		if strings.HasSuffix(entry.Name, "/") {
			hdr.Mode, hdr.Typeflag, hdr.Size = 0755, tar.TypeDir, 0
		}
		if err := tw.WriteHeader(hdr); err != nil {
			return nil, err
		}
		if hdr.Typeflag == tar.TypeReg {
			if _, err := tw.Write(entry.Body); err != nil {
				return nil, err
			}
		}
	}
	if err := tw.Close(); err != nil {
		return nil, err
	}
	return buf, nil
}

func TgzFile(entries []Entry) (*bytes.Buffer, error) {
	return compressed(entries, func(w io.Writer) (io.WriteCloser, error) {
		return gzip.NewWriter(w), nil
	})
}

func TxzFile(entries []Entry) (*bytes.Buffer, error) {
	return compressed(entries, func(w io.Writer) (io.WriteCloser, error) {
		return xz.NewWriter(w)
	})
}

func TzstFile(entries []Entry) (*bytes.Buffer, error) {
	return compressed(entries, func(w io.Writer) (io.WriteCloser, error) {
		return zstd.NewWriter(w)
	})
}

func compressed(entries []Entry, newWriter func(io.Writer) (io.WriteCloser, error)) (*bytes.Buffer, error) {
	buf, err := TarFile(entries)
	if err != nil {
		return nil, err
	}
	zbuf := new(bytes.Buffer)
	w, err := newWriter(zbuf)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return zbuf, nil
}
