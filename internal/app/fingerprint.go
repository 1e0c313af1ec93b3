package service

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/tradeinsight/engine/internal/adapters/sources"
)

// fingerprintSources hashes the content of every expected source file. The
// cache key changes whenever a file appears, disappears or is edited, so a
// stale result is never served for new data.
func (s *Service) fingerprintSources() string {
	files := s.sourceFiles
	if len(files) == 0 {
		files = sources.DefaultFiles()
	}

	ids := make([]string, 0, len(files))
	for id := range files {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	h := sha256.New()
	for _, id := range ids {
		path := filepath.Join(s.dataDir, files[id])
		fmt.Fprintf(h, "%s\x00", id)
		f, err := os.Open(path)
		if err != nil {
			fmt.Fprintf(h, "absent\x00")
			continue
		}
		_, _ = io.Copy(h, f)
		f.Close()
		fmt.Fprintf(h, "\x00")
	}
	return hex.EncodeToString(h.Sum(nil))
}
