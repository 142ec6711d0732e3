package io

import (
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/klothoplatform/displaygen/pkg/closenicely"
)

type (

	// FileRef is a lightweight representation of a file, deferring reading its contents until `WriteTo` or `ReadAll`
	// is called.
	FileRef struct {
		FPath          string
		RootConfigPath string
	}
)

func (r *FileRef) Path() string {
	return r.FPath
}

func (r *FileRef) WriteTo(w io.Writer) (int64, error) {
	f, err := os.Open(filepath.Join(r.RootConfigPath, r.FPath))
	if err != nil {
		return 0, err
	}
	defer closenicely.OrDebug(f)
	return io.Copy(w, f)
}

func (r *FileRef) ReadAll() ([]byte, error) {
	content, err := os.ReadFile(filepath.Join(r.RootConfigPath, r.FPath))
	if err != nil {
		return nil, errors.Wrapf(err, "could not read %s", r.FPath)
	}
	return content, nil
}

// OutputTo writes every file under dest, concurrently. Files implementing [NonOverwritable] may keep an existing file
// as is. Returns the paths that were actually written, in no particular order.
func OutputTo(files []File, dest string) ([]string, error) {
	type result struct {
		path    string
		written bool
		err     error
	}

	results := make(chan result)
	for idx := range files {
		go func(f File) {
			path := filepath.Join(dest, f.Path())
			dir := filepath.Dir(path)
			err := os.MkdirAll(dir, 0777)
			if err != nil {
				results <- result{path: path, err: err}
				return
			}
			file, err := os.OpenFile(path, os.O_RDWR, 0666)
			if os.IsNotExist(err) {
				file, err = os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0666)
			} else if err == nil {
				ovr, ok := f.(NonOverwritable)
				if ok && !ovr.Overwrite(file) {
					closenicely.OrDebug(file)
					results <- result{path: path}
					return
				}
				if err = file.Truncate(0); err == nil {
					_, err = file.Seek(0, io.SeekStart)
				}
			}
			if err != nil {
				results <- result{path: path, err: err}
				return
			}
			_, err = f.WriteTo(file)
			if closeErr := file.Close(); err == nil {
				err = closeErr
			}
			results <- result{path: path, written: err == nil, err: err}
		}(files[idx])
	}

	var written []string
	var firstErr error
	for i := 0; i < len(files); i++ {
		r := <-results
		switch {
		case r.err != nil && firstErr == nil:
			firstErr = errors.Wrapf(r.err, "could not write %s", r.path)
		case r.written:
			written = append(written, r.path)
		}
	}
	return written, firstErr
}
