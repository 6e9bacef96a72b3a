package gtfsrt

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"
)

const (
	archivePrefix = "vp_"
	rawExt        = ".pb"
	zstdExt       = ".pb.zst"
)

// Snapshot is one archived feed file.
type Snapshot struct {
	Path string
	Time time.Time
}

// ArchivePath returns where a snapshot taken at t is stored: one folder per
// UTC day, one file per snapshot.
func ArchivePath(dir string, t time.Time, compressed bool) string {
	t = t.UTC()
	ext := rawExt
	if compressed {
		ext = zstdExt
	}
	return filepath.Join(dir, t.Format("2006-01-02"), archivePrefix+strconv.FormatInt(t.Unix(), 10)+ext)
}

// parseArchiveName extracts the snapshot time from a file name.
func parseArchiveName(name string) (time.Time, bool) {
	if !strings.HasPrefix(name, archivePrefix) {
		return time.Time{}, false
	}
	stem := strings.TrimPrefix(name, archivePrefix)
	switch {
	case strings.HasSuffix(stem, zstdExt):
		stem = strings.TrimSuffix(stem, zstdExt)
	case strings.HasSuffix(stem, rawExt):
		stem = strings.TrimSuffix(stem, rawExt)
	default:
		return time.Time{}, false
	}
	sec, err := strconv.ParseInt(stem, 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	return time.Unix(sec, 0).UTC(), true
}

// ListSnapshots returns the snapshots in [start, end), oldest first.
func ListSnapshots(dir string, start, end time.Time) ([]Snapshot, error) {
	var out []Snapshot
	for day := start.UTC().Truncate(24 * time.Hour); day.Before(end); day = day.Add(24 * time.Hour) {
		entries, err := os.ReadDir(filepath.Join(dir, day.Format("2006-01-02")))
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			ts, ok := parseArchiveName(e.Name())
			if !ok || ts.Before(start) || !ts.Before(end) {
				continue
			}
			out = append(out, Snapshot{Path: filepath.Join(dir, day.Format("2006-01-02"), e.Name()), Time: ts})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Time.Before(out[j].Time) })
	return out, nil
}

// ReadSnapshot returns the raw protobuf bytes of an archived snapshot.
func ReadSnapshot(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	if !strings.HasSuffix(path, zstdExt) {
		return io.ReadAll(f)
	}
	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	return io.ReadAll(dec)
}

// WriteSnapshot stores data at path, compressing .zst paths.
func WriteSnapshot(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if strings.HasSuffix(path, zstdExt) {
		enc, err := zstd.NewWriter(nil)
		if err != nil {
			return err
		}
		data = enc.EncodeAll(data, nil)
		_ = enc.Close()
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return os.Rename(tmp, path)
}
