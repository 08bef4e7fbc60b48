package export

import (
	"archive/zip"
	"bytes"
	"fmt"
	"path"
	"strings"
)

// Archive is a finished ZIP held in memory.
type Archive struct {
	// Name is the suggested download file name.
	Name string
	Data []byte
	// Members lists the member names in write order.
	Members []string
}

type archiveWriter struct {
	buf   bytes.Buffer
	zw    *zip.Writer
	names map[string]struct{}
	list  []string
}

func newArchiveWriter() *archiveWriter {
	w := &archiveWriter{names: map[string]struct{}{}}
	w.zw = zip.NewWriter(&w.buf)
	return w
}

// add writes a deflated member. Taken names get a _<n> suffix before the
// extension.
func (w *archiveWriter) add(name string, data []byte) error {
	name = w.unique(name)

	f, err := w.zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate})
	if err != nil {
		return fmt.Errorf("create member %s: %w", name, err)
	}
	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("write member %s: %w", name, err)
	}
	w.list = append(w.list, name)
	return nil
}

func (w *archiveWriter) unique(name string) string {
	candidate := name
	ext := path.Ext(name)
	base := strings.TrimSuffix(name, ext)
	for n := 2; ; n++ {
		if _, taken := w.names[candidate]; !taken {
			w.names[candidate] = struct{}{}
			return candidate
		}
		candidate = fmt.Sprintf("%s_%d%s", base, n, ext)
	}
}

func (w *archiveWriter) finish(name string) (*Archive, error) {
	if err := w.zw.Close(); err != nil {
		return nil, fmt.Errorf("close archive: %w", err)
	}
	return &Archive{Name: name, Data: w.buf.Bytes(), Members: w.list}, nil
}

// fileBase turns a login into a safe member base name.
func fileBase(s string) string {
	s = strings.NewReplacer("/", "_", "\\", "_").Replace(s)
	if s == "" || s == "." || s == ".." {
		return "account"
	}
	return s
}
