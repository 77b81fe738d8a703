package sqlite

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/okian/specialscout/pkg/logger"
	"github.com/okian/specialscout/pkg/metrics"
)

// recoverFile moves an unusable database aside so a fresh one can be created.
// The file is copied to <unix-millis>_<name>bak next to it; if that copy
// fails the operator must confirm before the file is deleted.
func (s *Store) recoverFile(ctx context.Context) error {
	dir, name := filepath.Split(s.path)
	backup := filepath.Join(dir, fmt.Sprintf("%d_%sbak", s.now().UnixMilli(), name))

	if err := s.copyFile(s.path, backup); err != nil {
		s.logger.Error(ctx, "database backup failed", logger.String("backup", backup), logger.Error(err))
		if !s.confirmClear(name) {
			metrics.RecordStoreRecovery("declined")
			return fmt.Errorf("%w: %s: %w", ErrRecoveryDeclined, s.path, err)
		}
		metrics.RecordStoreRecovery("cleared")
	} else {
		s.logger.Warn(ctx, "database backed up", logger.String("backup", backup))
		metrics.RecordStoreRecovery("backup")
	}

	for _, p := range []string{s.path, s.path + "-wal", s.path + "-shm"} {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("%w: remove %s: %w", ErrOpen, p, err)
		}
	}
	return nil
}

func (s *Store) confirmClear(name string) bool {
	fmt.Fprintf(s.promptOut, "Clear %s? > ", name)
	line, err := bufio.NewReader(s.promptIn).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	return strings.Contains(strings.ToLower(line), "y")
}

func copyFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
	}()

	_, err = io.Copy(out, in)
	return err
}
