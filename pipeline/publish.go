package pipeline

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/sarchlab/meshgen/logging"
)

// published is an artifact moved into the output directory, with the file
// it replaced parked in the backup directory.
type published struct {
	name   string
	backup string
}

// publish moves every staged artifact into the output directory. When a move
// fails, the artifacts already moved are taken back out and the files they
// replaced are restored, so the output directory either holds the whole new
// set or what it held before.
func (r *runner) publish() error {
	backups := filepath.Join(r.staging, ".backup")
	if err := os.Mkdir(backups, 0o755); err != nil {
		return err
	}

	done := make([]published, 0, len(r.staged))

	for _, name := range r.staged {
		p, err := r.publishOne(name, backups)
		if err != nil {
			err = fmt.Errorf("publishing %s: %w", name, err)

			if rbErr := r.rollback(done); rbErr != nil {
				return errors.Join(err, fmt.Errorf("rolling back: %w", rbErr))
			}

			return err
		}

		done = append(done, p)

		logging.Trace(r.logger, "published", "file", r.final(name))
	}

	return nil
}

func (r *runner) publishOne(name, backups string) (published, error) {
	p := published{name: name}
	dst := r.final(name)

	info, err := os.Lstat(dst)

	switch {
	case err == nil && !info.Mode().IsRegular():
		return p, fmt.Errorf("%s exists and is not a regular file", dst)
	case err == nil:
		p.backup = filepath.Join(backups, name)
		if err := os.Rename(dst, p.backup); err != nil {
			return p, err
		}
	case !errors.Is(err, fs.ErrNotExist):
		return p, err
	}

	if err := os.Rename(filepath.Join(r.staging, name), dst); err != nil {
		if p.backup != "" {
			if rbErr := os.Rename(p.backup, dst); rbErr != nil {
				return p, errors.Join(err, rbErr)
			}
		}

		return p, err
	}

	return p, nil
}

// rollback undoes published artifacts in reverse order.
func (r *runner) rollback(done []published) error {
	var errs []error

	for i := len(done) - 1; i >= 0; i-- {
		p := done[i]
		dst := r.final(p.name)

		var err error
		if p.backup == "" {
			err = os.Remove(dst)
		} else {
			err = os.Rename(p.backup, dst)
		}

		if err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) == 0 {
		r.logger.Warn("publishing rolled back", "files", len(done))
	}

	return errors.Join(errs...)
}
