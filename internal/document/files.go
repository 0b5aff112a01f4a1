package document

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/gabriel-vasile/mimetype"
)

// FileStore copies attachment files into one directory, prefixing each name
// with the copy time so repeated uploads of the same file do not collide.
type FileStore struct {
	dir string
	now func() time.Time
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir, now: time.Now}
}

// StoredFile describes a file after it was copied in.
type StoredFile struct {
	Filename    string
	Path        string
	ContentType string
}

// Save copies r into the directory under name and sniffs its content type.
func (fs *FileStore) Save(name string, r io.Reader) (*StoredFile, error) {
	if err := os.MkdirAll(fs.dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating attachments dir: %w", err)
	}

	base := filepath.Base(name)

	f, dst, err := fs.create(base)
	if err != nil {
		return nil, fmt.Errorf("creating attachment file: %w", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(dst)

		return nil, fmt.Errorf("copying attachment: %w", err)
	}

	if err := f.Close(); err != nil {
		os.Remove(dst)
		return nil, fmt.Errorf("closing attachment file: %w", err)
	}

	mt, err := mimetype.DetectFile(dst)
	if err != nil {
		os.Remove(dst)
		return nil, fmt.Errorf("detecting attachment type: %w", err)
	}

	return &StoredFile{Filename: base, Path: dst, ContentType: mt.String()}, nil
}

// create opens a new file named after base. Within the same second a counter
// is added to keep names unique.
func (fs *FileStore) create(base string) (*os.File, string, error) {
	stamp := fs.now().Format("20060102150405")

	for i := 0; ; i++ {
		name := stamp + "_" + base
		if i > 0 {
			name = fmt.Sprintf("%s_%d_%s", stamp, i, base)
		}

		dst := filepath.Join(fs.dir, name)

		f, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			return f, dst, nil
		}

		if !os.IsExist(err) || i >= 100 {
			return nil, "", err
		}
	}
}

func saveFile(files Files, src string) (*StoredFile, error) {
	f, err := os.Open(src)
	if err != nil {
		return nil, fmt.Errorf("opening attachment source: %w", err)
	}
	defer f.Close()

	return files.Save(src, f)
}

func (fs *FileStore) Remove(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}

	return nil
}
