package backup

import (
	"os"
	"path/filepath"

	"github.com/arthur-debert/agentlink/pkg/errors"
	"github.com/arthur-debert/agentlink/pkg/types"
)

// CopyTree copies src to dst. Directories are copied recursively and
// symlinks anywhere in the tree, src included, are recreated as symlinks with
// the same target string. Parent directories of dst are created.
func CopyTree(fs types.FS, src, dst string) error {
	info, err := fs.Lstat(src)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot stat %s", src)
	}

	if err := fs.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "cannot create %s", filepath.Dir(dst))
	}

	switch {
	case info.Mode()&os.ModeSymlink != 0:
		dest, err := fs.Readlink(src)
		if err != nil {
			return errors.Wrapf(err, errors.ErrFileAccess, "cannot read link %s", src)
		}
		if err := fs.Symlink(dest, dst); err != nil {
			return errors.Wrapf(err, errors.ErrSymlinkCreate, "cannot create link %s", dst)
		}
		return nil

	case info.IsDir():
		if err := fs.MkdirAll(dst, permOr(info.Mode(), 0755)); err != nil {
			return errors.Wrapf(err, errors.ErrDirCreate, "cannot create %s", dst)
		}
		entries, err := fs.ReadDir(src)
		if err != nil {
			return errors.Wrapf(err, errors.ErrFileAccess, "cannot list %s", src)
		}
		for _, e := range entries {
			if err := CopyTree(fs, filepath.Join(src, e.Name()), filepath.Join(dst, e.Name())); err != nil {
				return err
			}
		}
		return nil

	default:
		data, err := fs.ReadFile(src)
		if err != nil {
			return errors.Wrapf(err, errors.ErrFileAccess, "cannot read %s", src)
		}
		if err := fs.WriteFile(dst, data, permOr(info.Mode(), 0644)); err != nil {
			return errors.Wrapf(err, errors.ErrFileWrite, "cannot write %s", dst)
		}
		return nil
	}
}

func permOr(mode os.FileMode, fallback os.FileMode) os.FileMode {
	if perm := mode.Perm(); perm != 0 {
		return perm
	}
	return fallback
}
