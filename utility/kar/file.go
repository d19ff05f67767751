// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package kar

import (
	"github.com/pkg/errors"
	"golang.org/x/exp/mmap"
)

// File is an Archive memory mapped from disk.
type File struct {
	*Archive

	mapped *mmap.ReaderAt
}

// OpenFile memory maps the archive at path and opens it.
func OpenFile(path string) (*File, error) {
	mapped, err := mmap.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "mmap.Open()")
	}
	archive, err := Open(mapped)
	if err != nil {
		mapped.Close()
		return nil, errors.Wrap(err, path)
	}
	return &File{
		Archive: archive,
		mapped:  mapped,
	}, nil
}

// Close unmaps the file, readers opened from it cannot be used after
func (f *File) Close() error {
	return f.mapped.Close()
}
