package manager

import (
	"time"

	"go.uber.org/zap"

	"github.com/brimblehq/licenses/internal/license"
	"github.com/brimblehq/licenses/internal/logging"
	"github.com/brimblehq/licenses/internal/types"
)

type KeyLister interface {
	ListKeys() ([]types.LicenseKey, error)
}

type Validator interface {
	Validate(record types.LicenseRecord, today time.Time) error
}

// Entry is one stored key as seen on a given day.
type Entry struct {
	Key       types.LicenseKey
	Record    types.LicenseRecord
	DecodeErr error
	Invalid   error
	Active    bool
}

func (e Entry) Valid() bool {
	return e.DecodeErr == nil && e.Invalid == nil
}

// Resolver answers which stored license is in effect. Nothing is cached:
// validity depends on the date, so every call goes back to the store.
type Resolver struct {
	keys      KeyLister
	validator Validator
	decode    func(types.LicenseKey) (types.LicenseRecord, error)
	logger    *zap.Logger
}

func NewResolver(keys KeyLister, validator Validator, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = logging.Nop()
	}

	return &Resolver{
		keys:      keys,
		validator: validator,
		decode:    license.Decode,
		logger:    logger,
	}
}

// Entries decodes and validates every stored key. The last valid entry is
// flagged Active. A key that fails to decode only marks that entry invalid.
func (r *Resolver) Entries(today time.Time) ([]Entry, error) {
	keys, err := r.keys.ListKeys()
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(keys))
	active := -1

	for i, key := range keys {
		entry := Entry{Key: key}

		record, err := r.decode(key)
		if err != nil {
			r.logger.Debug("skipping unreadable license key", logging.Key(key), zap.Error(err))
			entry.DecodeErr = err
			entries = append(entries, entry)
			continue
		}

		entry.Record = record
		if err := r.validator.Validate(record, today); err != nil {
			r.logger.Debug("skipping invalid license", logging.Key(key), zap.String("reason", err.Error()))
			entry.Invalid = err
		} else {
			active = i
		}

		entries = append(entries, entry)
	}

	if active >= 0 {
		entries[active].Active = true
	}

	return entries, nil
}

// ActiveLicense returns the most recently added valid license, or nil when
// no stored key is valid today.
func (r *Resolver) ActiveLicense(today time.Time) (*types.LicenseRecord, error) {
	entries, err := r.Entries(today)
	if err != nil {
		return nil, err
	}

	for _, entry := range entries {
		if entry.Active {
			record := entry.Record
			return &record, nil
		}
	}

	return nil, nil
}
