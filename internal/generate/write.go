package generate

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// WriteFiles writes outputs to disk, leaving files that already hold the same
// content untouched. It returns the number of files written.
func WriteFiles(outputs []OutputFile, log zerolog.Logger) (int, error) {
	written := 0
	for _, file := range outputs {
		if existing, err := os.ReadFile(file.Path); err == nil && bytes.Equal(existing, file.Content) {
			log.Debug().Str("path", file.Path).Msg("unchanged")
			continue
		}
		if err := os.MkdirAll(filepath.Dir(file.Path), 0o755); err != nil {
			return written, fmt.Errorf("create dir %s: %w", filepath.Dir(file.Path), err)
		}
		if err := os.WriteFile(file.Path, file.Content, 0o644); err != nil {
			return written, fmt.Errorf("write file %s: %w", file.Path, err)
		}
		log.Info().Str("path", file.Path).Int("bytes", len(file.Content)).Msg("wrote file")
		written++
	}
	return written, nil
}
