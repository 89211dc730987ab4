package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/brimblehq/licenses/internal/helpers"
	"github.com/brimblehq/licenses/internal/license"
	"github.com/brimblehq/licenses/internal/logging"
	"github.com/brimblehq/licenses/internal/types"
)

const DefaultHeader = "List of license keys"

type Validator interface {
	Validate(record types.LicenseRecord, today time.Time) error
}

// KeyStore keeps license keys in a plain text file. The file is read on
// every call and rewritten whole on every add. The mutex only covers this
// process; two processes adding keys at the same time can lose one of them.
type KeyStore struct {
	mu        sync.RWMutex
	path      string
	header    string
	validator Validator
	decode    func(types.LicenseKey) (types.LicenseRecord, error)
	logger    *zap.Logger
}

func NewKeyStore(path string, validator Validator, logger *zap.Logger) *KeyStore {
	if logger == nil {
		logger = logging.Nop()
	}

	return &KeyStore{
		path:      path,
		header:    DefaultHeader,
		validator: validator,
		decode:    license.Decode,
		logger:    logger.With(zap.String("path", path)),
	}
}

func (s *KeyStore) SetHeader(header string) {
	if header = helpers.SingleLine(header); header != "" {
		s.header = header
	}
}

func (s *KeyStore) Path() string {
	return s.path
}

func (s *KeyStore) ListKeys() ([]types.LicenseKey, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.readKeys()
}

// AddKey validates key against today and appends it to the file. The
// returned record is the decoded form of the stored key.
func (s *KeyStore) AddKey(key types.LicenseKey, today time.Time) (types.LicenseRecord, error) {
	key = helpers.NormalizeKey(string(key))

	record, err := s.decode(key)
	if err != nil {
		s.logger.Debug("rejected undecodable license key", logging.Key(key), zap.Error(err))
		return types.LicenseRecord{}, &ValidationError{Reason: err.Error(), Err: err}
	}

	if err := s.validator.Validate(record, today); err != nil {
		s.logger.Debug("rejected license key", logging.Key(key), zap.Error(err))
		return types.LicenseRecord{}, &ValidationError{Reason: err.Error(), Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	keys, err := s.readKeys()
	if err != nil {
		return types.LicenseRecord{}, err
	}

	keys = helpers.UniqueKeys(append(keys, key))

	if err := writeFileAtomic(s.path, s.render(keys), 0600); err != nil {
		return types.LicenseRecord{}, &IOError{Op: "write", Path: s.path, Err: err}
	}

	s.logger.Info("license key stored", logging.Key(key), zap.Int("keys", len(keys)))
	return record, nil
}

func (s *KeyStore) readKeys() ([]types.LicenseKey, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []types.LicenseKey{}, nil
		}
		return nil, &IOError{Op: "read", Path: s.path, Err: err}
	}

	return ParseKeys(string(data)), nil
}

func (s *KeyStore) render(keys []types.LicenseKey) []byte {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n", s.header)
	for _, key := range keys {
		b.WriteString("\n")

		record, err := s.decode(key)
		if err != nil {
			b.WriteString("# Unreadable license key\n")
		} else {
			fmt.Fprintf(&b, "# Licensed to %s expires %s\n", helpers.SingleLine(record.Name), record.Expires)
		}

		b.WriteString(string(key))
		b.WriteString("\n")
	}

	return []byte(b.String())
}

// ParseKeys splits the text of a license file into key blocks. Comment
// lines are blanked first, so a comment also ends the block above it. A key
// wrapped over several lines is joined back into one.
func ParseKeys(text string) []types.LicenseKey {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	for i, line := range lines {
		if strings.HasPrefix(line, "#") {
			line = ""
		}
		lines[i] = strings.TrimRight(line, " \t\r")
	}

	var keys []types.LicenseKey
	for _, block := range strings.Split(strings.Join(lines, "\n"), "\n\n") {
		key := helpers.NormalizeKey(block)
		if key == "" {
			continue
		}
		keys = append(keys, key)
	}

	return helpers.UniqueKeys(keys)
}

func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Chmod(tmpPath, perm); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to replace file: %w", err)
	}

	committed = true
	return nil
}
