package historical

import (
	"fmt"
	"io"
	"os"
	"sync"
	"unsafe"

	"golang.org/x/exp/mmap"
)

const entrySize = int64(unsafe.Sizeof(BinaryBar{}))

// Source memory-maps a binary candle file and serves random-access record
// reads. Safe for concurrent readers.
type Source struct {
	dataSourceName string
	reader         *mmap.ReaderAt
	bufferPool     sync.Pool
}

func NewSource(dataSourceName string) *Source {
	return &Source{
		dataSourceName: dataSourceName,
		bufferPool: sync.Pool{
			New: func() interface{} {
				buffer := make([]byte, entrySize)
				return &buffer
			},
		},
	}
}

func (s *Source) Open() error {
	var err error
	s.reader, err = mmap.Open(s.dataSourceName)
	if err != nil {
		return fmt.Errorf("unable to open data source %q: %w", s.dataSourceName, err)
	}
	return nil
}

func (s *Source) Close() {
	_ = s.reader.Close()
}

func (s *Source) Read(index int64, bar *BinaryBar) error {
	buffer := s.bufferPool.Get().(*[]byte)
	defer s.bufferPool.Put(buffer)

	n, err := s.reader.ReadAt(*buffer, index*entrySize)
	if err != nil && err != io.EOF {
		return fmt.Errorf("unable to read: %w", err)
	}
	if int64(n) < entrySize {
		return ErrEof
	}

	*bar = *(*BinaryBar)(unsafe.Pointer(&(*buffer)[0])) // #nosec G103
	return nil
}

func (s *Source) EntryCount() (int64, error) {
	fileInfo, err := os.Stat(s.dataSourceName)
	if err != nil {
		return 0, fmt.Errorf("unable to get data source %q stats: %w", s.dataSourceName, err)
	}

	totalSize := fileInfo.Size()
	if totalSize%entrySize != 0 {
		return 0, fmt.Errorf("file size is not a multiple of entry size")
	}

	return totalSize / entrySize, nil
}
