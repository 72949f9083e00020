package credentials

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
)

// File persists the bearer token in a single file, readable by the owner only.
type File struct {
	path string
}

var _ core.CredentialStore = (*File)(nil)

func NewFile(conf *core.Config) *File {
	return &File{path: conf.TokenFile}
}

func (f *File) Get() (string, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", errors.Wrap(err, "reading token file")
	}
	return strings.TrimSpace(string(data)), nil
}

func (f *File) Set(token string) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return errors.Wrap(err, "creating token dir")
	}
	return errors.Wrap(os.WriteFile(f.path, []byte(token), 0o600), "writing token file")
}

func (f *File) Delete() error {
	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "deleting token file")
	}
	return nil
}
