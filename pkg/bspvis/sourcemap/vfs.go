package sourcemap

import (
	"archive/zip"
	"io"
	"strings"

	vpk "github.com/galaco/vpk2"
	"github.com/pkg/errors"
)

// virtualFileSystem resolves prop model files from wherever the game keeps
// them: the map's embedded pakfile or the installation's VPK archives.
type virtualFileSystem interface {
	open(string) (io.ReadCloser, error)
}

var errFileNotFound = errors.New("file not found")

type vfs struct {
	pakfile *zip.Reader
	vpks    []*vpk.VPK

	pakfileIndex map[string]*zip.File
}

func (v vfs) open(path string) (io.ReadCloser, error) {
	f, err := v.pakfile.Open(path)
	if err == nil {
		stat, err := f.Stat()
		if err == nil && stat.Size() > 0 {
			return f, nil
		}
	}

	// Pakfile paths are case-inconsistent in the wild; retry lowercased.
	if v.pakfileIndex == nil {
		v.pakfileIndex = make(map[string]*zip.File)

		for _, f := range v.pakfile.File {
			v.pakfileIndex[strings.ToLower(f.Name)] = f
		}
	}

	if pakF, ok := v.pakfileIndex[strings.ToLower(path)]; ok {
		f, err := pakF.Open()
		if err == nil {
			return f, nil
		}
	}

	for _, vpkF := range v.vpks {
		f, err = vpkF.Open(path)
		if err == nil {
			stat, err := f.Stat()
			if err == nil && stat.Size() > 0 {
				return f, nil
			}
		}
	}

	return nil, errors.Wrapf(errFileNotFound, "%s not found", path)
}
