package report

import (
	"bufio"
	"dispatch-sim/internal/domain"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/klauspost/compress/zstd"
)

const AssignmentLogFile = "assignments.jsonl.zst"

// AssignmentLog writes one zstd-compressed JSON line per processed package.
// It is safe for concurrent use by several scenario runs.
type AssignmentLog struct {
	mu  sync.Mutex
	f   *os.File
	enc *zstd.Encoder
	w   *bufio.Writer
}

func NewAssignmentLog(path string) (*AssignmentLog, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("assignment log: create dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("assignment log: open %q: %w", path, err)
	}

	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("assignment log: zstd writer: %w", err)
	}

	return &AssignmentLog{f: f, enc: enc, w: bufio.NewWriterSize(enc, 64*1024)}, nil
}

func (l *AssignmentLog) Record(evt domain.AssignmentEvent) error {
	b, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("assignment log: encode: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.w == nil {
		return fmt.Errorf("assignment log: closed")
	}
	if _, err := l.w.Write(b); err != nil {
		return fmt.Errorf("assignment log: write: %w", err)
	}
	return l.w.WriteByte('\n')
}

// Close flushes buffered lines and finishes the zstd frame.
func (l *AssignmentLog) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.w == nil {
		return nil
	}

	var firstErr error
	if err := l.w.Flush(); err != nil {
		firstErr = err
	}
	if err := l.enc.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := l.f.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	l.w, l.enc, l.f = nil, nil, nil
	return firstErr
}

// ReadAssignmentLog decodes a log written by AssignmentLog.
func ReadAssignmentLog(path string) ([]domain.AssignmentEvent, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read assignment log: open %q: %w", path, err)
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("read assignment log: zstd reader: %w", err)
	}
	defer dec.Close()

	var out []domain.AssignmentEvent
	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		var evt domain.AssignmentEvent
		if err := json.Unmarshal(sc.Bytes(), &evt); err != nil {
			return nil, fmt.Errorf("read assignment log: decode line %d: %w", len(out)+1, err)
		}
		out = append(out, evt)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read assignment log: scan: %w", err)
	}
	return out, nil
}
