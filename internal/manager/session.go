package manager

import (
	"time"

	"go.uber.org/zap"

	"github.com/brimblehq/licenses/internal/logging"
	"github.com/brimblehq/licenses/internal/types"
)

type KeyAdder interface {
	AddKey(key types.LicenseKey, today time.Time) (types.LicenseRecord, error)
}

// Session is the host application's view of the license. It remembers the
// active license after each change so callers can check it cheaply, while
// Refresh always goes back to the resolver.
type Session struct {
	store    KeyAdder
	resolver *Resolver
	now      func() time.Time
	current  *types.LicenseRecord
	logger   *zap.Logger
}

func NewSession(store KeyAdder, resolver *Resolver, now func() time.Time, logger *zap.Logger) *Session {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = logging.Nop()
	}

	return &Session{
		store:    store,
		resolver: resolver,
		now:      now,
		logger:   logger,
	}
}

func (s *Session) Now() time.Time {
	return s.now()
}

func (s *Session) Current() *types.LicenseRecord {
	return s.current
}

func (s *Session) Refresh() (*types.LicenseRecord, error) {
	active, err := s.resolver.ActiveLicense(s.now())
	if err != nil {
		return nil, err
	}

	s.current = active
	if active == nil {
		s.logger.Debug("no valid license found")
	} else {
		s.logger.Debug("active license", zap.String("product", active.Product), zap.String("expires", active.Expires))
	}

	return active, nil
}

func (s *Session) Entries() ([]Entry, error) {
	return s.resolver.Entries(s.now())
}

// Add stores key and refreshes the remembered active license. A rejected
// key leaves the session unchanged. Once the key is written Add succeeds; a
// failed refresh only leaves Current stale until the next Refresh.
func (s *Session) Add(key types.LicenseKey) (types.LicenseRecord, error) {
	record, err := s.store.AddKey(key, s.now())
	if err != nil {
		return types.LicenseRecord{}, err
	}

	if _, err := s.Refresh(); err != nil {
		s.logger.Warn("license key added but active license could not be refreshed", zap.Error(err))
	}

	return record, nil
}
