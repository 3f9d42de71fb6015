package dedupe

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/gfreedman/file-folder-cleanup-util/pkg/models"
)

// ReaderWrapper wraps the file reader used while hashing, e.g. to apply
// a bandwidth limit.
type ReaderWrapper func(io.ReadCloser) io.ReadCloser

// Detector finds content duplicates and cross-root naming conflicts in a
// scanned inventory. Hashing is streamed, never buffered in full; this
// stage dominates runtime on large trees.
type Detector struct {
	bufferSize     int
	bufferPool     *sync.Pool
	progressReport func(path string, bytesHashed int64) // Optional progress callback
	readerWrapper  ReaderWrapper
}

// NewDetector creates a detector with the given read buffer size
func NewDetector(bufferSize int) *Detector {
	if bufferSize < 4096 {
		bufferSize = 4096
	}
	return &Detector{
		bufferSize: bufferSize,
		bufferPool: &sync.Pool{
			New: func() interface{} {
				buf := make([]byte, bufferSize)
				return &buf
			},
		},
	}
}

// SetProgressCallback sets a callback invoked after each file is hashed
func (d *Detector) SetProgressCallback(callback func(path string, bytesHashed int64)) {
	d.progressReport = callback
}

// SetReaderWrapper sets a function to wrap readers (e.g., for rate limiting)
func (d *Detector) SetReaderWrapper(wrapper ReaderWrapper) {
	d.readerWrapper = wrapper
}

// FindDuplicates hashes every record and groups records by content hash.
// Only hashes with two or more members are reported; within a group, paths
// keep discovery order. Files whose hash cannot be computed are excluded
// from grouping entirely and listed on the index instead. Hashes are
// written back onto the records as they are computed.
func (d *Detector) FindDuplicates(ctx context.Context, records []models.FileRecord) (*models.DuplicateIndex, error) {
	index := &models.DuplicateIndex{
		ByHash: make(map[string][]string),
	}

	var hashOrder []string

	for i := range records {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		hash, read, err := d.hashFile(ctx, records[i].AbsolutePath)
		index.BytesHashed += read
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			index.Failures = append(index.Failures, models.HashFailure{
				Path:  records[i].AbsolutePath,
				Error: err.Error(),
			})
			continue
		}

		records[i].Hash = hash

		if _, seen := index.ByHash[hash]; !seen {
			hashOrder = append(hashOrder, hash)
		}
		index.ByHash[hash] = append(index.ByHash[hash], records[i].AbsolutePath)

		if d.progressReport != nil {
			d.progressReport(records[i].AbsolutePath, read)
		}
	}

	// Keep only real duplicates, in order of first discovery
	for _, hash := range hashOrder {
		paths := index.ByHash[hash]
		if len(paths) < 2 {
			delete(index.ByHash, hash)
			continue
		}
		index.Groups = append(index.Groups, models.DuplicateGroup{
			Hash:  hash,
			Paths: paths,
		})
	}

	return index, nil
}

// FindNameConflicts groups records sharing a base filename across more
// than one source root. Informational only.
func FindNameConflicts(records []models.FileRecord) []models.ConflictSet {
	byName := make(map[string][]models.FileRecord)
	var nameOrder []string

	for _, rec := range records {
		name := baseName(rec.AbsolutePath)
		if _, seen := byName[name]; !seen {
			nameOrder = append(nameOrder, name)
		}
		byName[name] = append(byName[name], rec)
	}

	var sets []models.ConflictSet
	for _, name := range nameOrder {
		group := byName[name]
		if len(group) < 2 {
			continue
		}
		roots := make(map[string]bool)
		for _, rec := range group {
			roots[rec.SourceRoot] = true
		}
		if len(roots) < 2 {
			continue
		}
		sets = append(sets, models.ConflictSet{
			BaseName: name,
			Records:  group,
		})
	}

	return sets
}

// hashFile computes the streamed SHA-256 hash of one file
func (d *Detector) hashFile(ctx context.Context, path string) (string, int64, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", 0, fmt.Errorf("failed to open file: %w", err)
	}

	var reader io.ReadCloser = file
	if d.readerWrapper != nil {
		reader = d.readerWrapper(reader)
	}
	defer reader.Close()

	hasher := sha256.New()

	bufPtr := d.bufferPool.Get().(*[]byte)
	buffer := *bufPtr
	defer d.bufferPool.Put(bufPtr)

	var totalRead int64
	for {
		select {
		case <-ctx.Done():
			return "", totalRead, ctx.Err()
		default:
		}

		n, err := reader.Read(buffer)
		if n > 0 {
			hasher.Write(buffer[:n])
			totalRead += int64(n)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", totalRead, fmt.Errorf("failed to read file: %w", err)
		}
	}

	return fmt.Sprintf("%x", hasher.Sum(nil)), totalRead, nil
}

func baseName(path string) string {
	return filepath.Base(path)
}
