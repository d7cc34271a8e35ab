package state

import (
	"bufio"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"restockwatch/pkg/logger"
	"restockwatch/pkg/stock"

	"go.uber.org/zap"
)

const (
	fieldSep     = "\t"
	notifiedFlag = "n"

	// maxLineLength is far above the longest valid line; longer lines are
	// malformed.
	maxLineLength = 256
)

// FileStore persists a Snapshot as a tab-separated text file:
//
//	<sha1-hex>\t<1|0|?>[\tn]
//
// The optional third field marks an Unknown record that still carries the
// notified memory of an earlier InStock.
type FileStore struct {
	path   string
	strict bool
}

// NewFileStore returns a store backed by path. In strict mode a malformed
// line fails Load; otherwise it is skipped.
func NewFileStore(path string, strict bool) *FileStore {
	return &FileStore{path: path, strict: strict}
}

// Path returns the backing file path.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the state file. A missing file yields an empty snapshot.
func (s *FileStore) Load() (*Snapshot, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		logger.Debug("No previous state file", zap.String("path", s.path))
		return NewSnapshot(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open state file: %w", err)
	}
	defer f.Close()

	return s.read(f)
}

func (s *FileStore) read(r io.Reader) (*Snapshot, error) {
	snap := NewSnapshot()
	br := bufio.NewReader(r)
	lineNo := 0
	skipped := 0

	for {
		raw, readErr := br.ReadString('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return nil, fmt.Errorf("failed to read state file: %w", readErr)
		}
		if raw != "" {
			lineNo++
			if line := strings.TrimSpace(raw); line != "" {
				key, rec, err := parseLine(line)
				if err != nil {
					if s.strict {
						return nil, fmt.Errorf("%s:%d: %w", s.path, lineNo, err)
					}
					skipped++
					logger.Warn("Skipping malformed state line",
						zap.String("path", s.path),
						zap.Int("line", lineNo),
						zap.Error(err))
				} else {
					snap.Set(key, rec)
				}
			}
		}
		if readErr != nil {
			break
		}
	}

	logger.Debug("Loaded state",
		zap.String("path", s.path),
		zap.Int("records", snap.Len()),
		zap.Int("skipped", skipped))
	return snap, nil
}

func parseLine(line string) (string, Record, error) {
	if len(line) > maxLineLength {
		return "", Record{}, fmt.Errorf("%w: line of %d bytes", ErrMalformedLine, len(line))
	}
	fields := strings.Split(line, fieldSep)
	if len(fields) != 2 && len(fields) != 3 {
		return "", Record{}, fmt.Errorf("%w: expected 2 or 3 fields, got %d", ErrMalformedLine, len(fields))
	}

	key := strings.ToLower(fields[0])
	if len(key) != KeyLength {
		return "", Record{}, fmt.Errorf("%w: key length %d", ErrMalformedLine, len(key))
	}
	if _, err := hex.DecodeString(key); err != nil {
		return "", Record{}, fmt.Errorf("%w: key is not hex", ErrMalformedLine)
	}

	sig, err := stock.ParseCode(fields[1])
	if err != nil {
		return "", Record{}, fmt.Errorf("%w: %v", ErrMalformedLine, err)
	}

	rec := Record{Signal: sig, Notified: sig == stock.InStock}
	if len(fields) == 3 {
		if fields[2] != notifiedFlag || sig != stock.Unknown {
			return "", Record{}, fmt.Errorf("%w: unexpected flag %q", ErrMalformedLine, fields[2])
		}
		rec.Notified = true
	}
	return key, rec, nil
}

// Save replaces the state file with snap. The write goes to a temp file in
// the same directory which is then renamed over the old file.
func (s *FileStore) Save(snap *Snapshot) (err error) {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".state-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp state file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	w := bufio.NewWriter(tmp)
	if err = writeSnapshot(w, snap); err != nil {
		return fmt.Errorf("failed to write state: %w", err)
	}
	if err = w.Flush(); err != nil {
		return fmt.Errorf("failed to write state: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("failed to sync state: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close state: %w", err)
	}
	if err = os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("failed to chmod state: %w", err)
	}
	if err = os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to replace state file: %w", err)
	}

	logger.Debug("Saved state", zap.String("path", s.path), zap.Int("records", snap.Len()))
	return nil
}

func writeSnapshot(w io.Writer, snap *Snapshot) error {
	var werr error
	snap.Each(func(key string, r Record) {
		if werr != nil {
			return
		}
		line := key + fieldSep + r.Signal.Code()
		if r.Signal == stock.Unknown && r.Notified {
			line += fieldSep + notifiedFlag
		}
		_, werr = io.WriteString(w, line+"\n")
	})
	return werr
}
