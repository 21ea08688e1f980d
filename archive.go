package main

import (
	"archive/tar"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	log "github.com/sirupsen/logrus"
)

var errUnsafePath = errors.New("path leaves the extraction directory")

// extractArchive unpacks a gzip'd tar stream into destDir, keeping the
// archive's directory layout. Only directories and regular files are
// materialized; links and device nodes are skipped.
func extractArchive(r io.Reader, destDir string) error {
	gzReader, gzErr := gzip.NewReader(r)
	if gzErr != nil {
		return &ExtractionError{Err: gzErr}
	}
	defer gzReader.Close()

	tarReader := tar.NewReader(gzReader)
	for {
		hdr, err := tarReader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return &ExtractionError{Err: err}
		}

		name := path.Clean(hdr.Name)
		if name == "." {
			continue
		}
		if path.IsAbs(name) || name == ".." || strings.HasPrefix(name, "../") {
			return &ExtractionError{Entry: hdr.Name, Err: errUnsafePath}
		}
		target := filepath.Join(destDir, filepath.FromSlash(name))

		switch hdr.Typeflag {
		case tar.TypeDir:
			if mkErr := os.MkdirAll(target, 0o755); mkErr != nil {
				return &ExtractionError{Entry: hdr.Name, Err: mkErr}
			}
		case tar.TypeReg:
			if writeErr := writeArchiveFile(tarReader, hdr, target); writeErr != nil {
				return &ExtractionError{Entry: hdr.Name, Err: writeErr}
			}
		default:
			log.Warn(fmt.Sprintf("Skipping archive entry %s with type %q", hdr.Name, hdr.Typeflag))
		}
	}

	return nil
}

func writeArchiveFile(r io.Reader, hdr *tar.Header, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}

	mode := hdr.FileInfo().Mode().Perm() | 0o600
	file, err := os.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, mode)
	if err != nil {
		return err
	}
	if _, err := io.Copy(file, r); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return err
	}

	// sync tools compare modification times, keep the archived ones
	if !hdr.ModTime.IsZero() {
		return os.Chtimes(target, hdr.ModTime, hdr.ModTime)
	}

	return nil
}

// createArchive writes files into a gzip'd tar with names relative to
// baseDir. Owner fields are dropped so the archive only changes when
// contents or times do.
func createArchive(baseDir string, files []string, buf io.Writer) error {
	gw := gzip.NewWriter(buf)
	tw := tar.NewWriter(gw)

	for _, file := range files {
		if err := addToArchive(tw, baseDir, file); err != nil {
			tw.Close()
			gw.Close()
			return err
		}
	}

	if err := tw.Close(); err != nil {
		gw.Close()
		return err
	}

	return gw.Close()
}

func addToArchive(tw *tar.Writer, baseDir, filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return err
	}

	header, err := tar.FileInfoHeader(info, info.Name())
	if err != nil {
		return err
	}

	relPath, err := filepath.Rel(baseDir, filename)
	if err != nil {
		return err
	}
	header.Name = filepath.ToSlash(relPath)
	header.Uid, header.Gid = 0, 0
	header.Uname, header.Gname = "", ""

	if err := tw.WriteHeader(header); err != nil {
		return err
	}

	_, err = io.Copy(tw, file)

	return err
}
