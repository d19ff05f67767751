// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package kar

import (
	"bytes"
	"io"

	"github.com/pierrec/lz4"
	"github.com/pkg/errors"
)

// MaxHeaderSize bounds the header of archives whose size Open can't tell.
const MaxHeaderSize = 64 << 20

// readerSize tells the size of r when it knows it, bytes.Reader and
// io.SectionReader have Size, mmap.ReaderAt has Len.
func readerSize(r io.ReaderAt) (int64, bool) {
	switch sized := r.(type) {
	case interface{ Size() int64 }:
		return sized.Size(), true
	case interface{ Len() int }:
		return int64(sized.Len()), true
	default:
		return 0, false
	}
}

// Open opens the kar archived from r. It will also check
// if the file is actually a kar archive, will return an error
// when file incorrect.
func Open(r io.ReaderAt) (*Archive, error) {
	prefix := make([]byte, MagicLength+HeaderSizeNumberLength)
	if _, err := r.ReadAt(prefix, 0); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, ErrFileFormat
		}
		return nil, err
	}
	if !bytes.Equal(prefix[:MagicLength], []byte(Magic)) {
		return nil, ErrFileFormat
	}

	size, sized := readerSize(r)
	headerSize := binaryToInt64(prefix[MagicLength:])
	switch {
	case headerSize <= 0, headerSize > MaxHeaderSize:
		return nil, errors.Wrapf(ErrFileFormat, "header size %d", headerSize)
	case sized && headerSize > size-int64(len(prefix)):
		return nil, errors.Wrapf(ErrFileFormat, "header size %d past the end of %d bytes", headerSize, size)
	}
	headerBytes := make([]byte, headerSize)
	if _, err := r.ReadAt(headerBytes, int64(len(prefix))); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, ErrFileFormat
		}
		return nil, err
	}

	var header Header
	if err := gobDecode(&header, headerBytes); err != nil {
		return nil, errors.Wrap(ErrFileFormat, err.Error())
	}

	dataOffset := int64(len(prefix)) + headerSize
	index := make(map[string]IndexEntry, len(header.Index))
	for _, entry := range header.Index {
		if entry.Offset < 0 || entry.Size < 0 || entry.CompressedSize < 0 {
			return nil, errors.Wrapf(ErrFileFormat, "%s: negative index entry", entry.Name)
		}
		if sized && entry.CompressedSize > size-dataOffset-entry.Offset {
			return nil, errors.Wrapf(ErrFileFormat, "%s: past the end of the archive", entry.Name)
		}
		index[entry.Name] = entry
	}
	return &Archive{
		reader:     r,
		header:     header,
		index:      index,
		dataOffset: dataOffset,
	}, nil
}

// Archive provides concurrent io for a kar file, and can provide
// an io.Reader for each file separately to perform actions on.
type Archive struct {
	reader     io.ReaderAt
	header     Header
	index      map[string]IndexEntry
	dataOffset int64
}

// Header returns the header the archive was written with
func (a *Archive) Header() Header {
	return a.header
}

// Names lists the files in the archive in the order they are stored
func (a *Archive) Names() []string {
	names := make([]string, 0, len(a.header.Index))
	for _, entry := range a.header.Index {
		names = append(names, entry.Name)
	}
	return names
}

// Open returns a Reader for a file in the Archive
func (a *Archive) Open(name string) (*Reader, error) {
	entry, ok := a.index[name]
	if !ok {
		return nil, errors.Wrap(ErrNotFound, name)
	}
	section := io.NewSectionReader(a.reader, a.dataOffset+entry.Offset, entry.CompressedSize)
	return &Reader{
		entry:  entry,
		reader: lz4.NewReader(section),
	}, nil
}

// ReadAll returns the entire contents of a file with a given name
func (a *Archive) ReadAll(name string) ([]byte, error) {
	r, err := a.Open(name)
	if err != nil {
		return nil, err
	}
	// The index is not trusted to size the buffer up front. One byte
	// past the size is asked for to catch files longer than indexed.
	data, err := io.ReadAll(io.LimitReader(r, r.Size()+1))
	if err != nil {
		return nil, errors.Wrapf(ErrFileFormat, "read %s: %v", name, err)
	}
	if int64(len(data)) != r.Size() {
		return nil, errors.Wrapf(ErrFileFormat, "%s: %d bytes, index says %d", name, len(data), r.Size())
	}
	return data, nil
}

// Find is ReadAll, it lets an Archive serve compiled shaders
func (a *Archive) Find(name string) ([]byte, error) {
	return a.ReadAll(name)
}

// Reader is a reader for a single file in an Archive.
// Abstracts away the location that needs to be known.
type Reader struct {
	entry  IndexEntry
	reader io.Reader
}

// Size is the size of the file decompressed
func (r *Reader) Size() int64 {
	return r.entry.Size
}

// Read reads already decompressed data
func (r *Reader) Read(p []byte) (int, error) {
	return r.reader.Read(p)
}
