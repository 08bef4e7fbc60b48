// Package bundle unpacks uploaded ZIP bundles of account data.
//
// A bundle holds an accounts.txt manifest (one login:password:mail:mail_password[:link]
// line per account, at any depth) and .maFile credential files either under
// a mafile/ directory or at the archive root. Extraction is best-effort: one
// bad member adds an advisory error and the rest of the bundle is still read.
package bundle

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/steamkeeper/internal/textx"
)

const (
	// ManifestName is the manifest member suffix, matched case-insensitively.
	ManifestName = "accounts.txt"
	// MaFileDir is the directory credential files are written to on export.
	MaFileDir = "mafile/"
	// MaFileExt is the credential file extension, matched case-insensitively.
	MaFileExt = ".mafile"

	DefaultMaxMemberSize = 10 << 20
)

// ErrCorrupt means the input is not a readable ZIP archive.
var ErrCorrupt = errors.New("corrupt bundle")

// Options tune extraction.
type Options struct {
	// MaxMemberSize caps the uncompressed size of a single member.
	// Zero means DefaultMaxMemberSize.
	MaxMemberSize int64
}

// Result is what a bundle yielded. The three lists are independent: a missing
// manifest does not stop credential files from being read and vice versa.
type Result struct {
	Lines   []string
	MaFiles []string
	Errors  []string
}

func (r *Result) advise(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// Extract reads a ZIP bundle held in memory.
func Extract(data []byte, opts Options) (*Result, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	limit := opts.MaxMemberSize
	if limit <= 0 {
		limit = DefaultMaxMemberSize
	}

	res := &Result{}
	readManifest(zr.File, limit, res)
	readMaFiles(zr.File, limit, res)
	return res, nil
}

func readManifest(files []*zip.File, limit int64, res *Result) {
	var manifest *zip.File
	for _, f := range files {
		if !f.FileInfo().IsDir() && strings.HasSuffix(strings.ToLower(f.Name), ManifestName) {
			manifest = f
			break
		}
	}
	if manifest == nil {
		res.advise("file %s not found in archive", ManifestName)
		return
	}

	content, err := readText(manifest, limit)
	if err != nil {
		res.advise("error processing %s: %v", manifest.Name, err)
		return
	}

	for _, line := range strings.Split(content, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			res.Lines = append(res.Lines, line)
		}
	}
}

func readMaFiles(files []*zip.File, limit int64, res *Result) {
	found := selectMaFiles(files)
	if len(found) == 0 {
		res.advise("%s files not found in archive", MaFileExt)
		return
	}

	for _, f := range found {
		content, err := readText(f, limit)
		if err != nil {
			res.advise("error processing %s: %v", f.Name, err)
			continue
		}
		if !json.Valid([]byte(content)) {
			res.advise("file %s is not valid JSON", f.Name)
			continue
		}
		res.MaFiles = append(res.MaFiles, content)
	}
}

// selectMaFiles prefers members under mafile/ and falls back to the archive
// root. Credential files nested anywhere else are ignored.
func selectMaFiles(files []*zip.File) []*zip.File {
	var inDir, atRoot []*zip.File
	for _, f := range files {
		name := strings.ToLower(f.Name)
		if f.FileInfo().IsDir() || !strings.HasSuffix(name, MaFileExt) {
			continue
		}
		switch {
		case strings.HasPrefix(name, MaFileDir):
			inDir = append(inDir, f)
		case !strings.Contains(name, "/"):
			atRoot = append(atRoot, f)
		}
	}
	if len(inDir) > 0 {
		return inDir
	}
	return atRoot
}

func readText(f *zip.File, limit int64) (string, error) {
	if f.UncompressedSize64 > uint64(limit) {
		return "", fmt.Errorf("member is larger than %d bytes", limit)
	}

	rc, err := f.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	raw, err := io.ReadAll(io.LimitReader(rc, limit+1))
	if err != nil {
		return "", err
	}
	if int64(len(raw)) > limit {
		return "", fmt.Errorf("member is larger than %d bytes", limit)
	}

	return textx.Decode(raw)
}
