package files

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/fitchpad/fitchpad-cli/pkg/session"
)

// SessionKey is the store key holding the open tabs
const SessionKey = "tabs"

// PersistedTab is one entry of the stored session record
type PersistedTab struct {
	Name           string `json:"name" yaml:"name"`
	URI            string `json:"uri" yaml:"uri"`
	ProofTarget    string `json:"proofTarget" yaml:"proof_target"`
	ConfettiPlayed bool   `json:"confettiPlayed" yaml:"confetti_played"`
	Content        string `json:"content" yaml:"content"`
}

// PersistedSession is the stored session record
type PersistedSession struct {
	Files []PersistedTab `json:"files" yaml:"files"`
}

// Encode serialises the session's tabs and texts in tab order
func Encode(s *session.Session) ([]byte, error) {
	record := PersistedSession{Files: make([]PersistedTab, 0, len(s.Tabs))}
	for _, snap := range s.Snapshots() {
		record.Files = append(record.Files, PersistedTab{
			Name:           snap.Name,
			URI:            snap.URI,
			ProofTarget:    snap.ProofTarget,
			ConfettiPlayed: snap.ConfettiPlayed,
			Content:        snap.Content,
		})
	}
	data, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("failed to encode session: %w", err)
	}
	return data, nil
}

// Decode parses a stored session record. A record without tabs is an error.
func Decode(data []byte) (*PersistedSession, error) {
	var record PersistedSession
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to parse session: %w", err)
	}
	if len(record.Files) == 0 {
		return nil, errors.New("session record has no files")
	}
	return &record, nil
}

// Snapshots converts the record for session.Restore
func (p *PersistedSession) Snapshots() []session.Snapshot {
	snaps := make([]session.Snapshot, 0, len(p.Files))
	for _, f := range p.Files {
		snaps = append(snaps, session.Snapshot{
			Tab: session.Tab{
				Name:           f.Name,
				URI:            f.URI,
				ProofTarget:    f.ProofTarget,
				ConfettiPlayed: f.ConfettiPlayed,
			},
			Content: f.Content,
		})
	}
	return snaps
}

// Codec saves and restores a session through a Store
type Codec struct {
	store  Store
	key    string
	logger *slog.Logger

	// saving is held back until the first Load so a default session
	// created at startup never overwrites the stored one
	loaded bool
}

// NewCodec creates a codec writing under SessionKey
func NewCodec(store Store, logger *slog.Logger) *Codec {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Codec{store: store, key: SessionKey, logger: logger}
}

// Key returns the store key the codec uses
func (c *Codec) Key() string {
	return c.key
}

// Save writes the session. It does nothing before the first Load.
func (c *Codec) Save(s *session.Session) error {
	if !c.loaded {
		c.logger.Debug("skipping save before first load")
		return nil
	}
	data, err := Encode(s)
	if err != nil {
		return err
	}
	if err := c.store.Set(c.key, data); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	c.logger.Debug("saved session", "tabs", len(s.Tabs), "bytes", len(data))
	return nil
}

// Load restores the session from the store. Missing or unreadable data
// leaves the session as it is and reports false.
func (c *Codec) Load(s *session.Session) bool {
	defer func() { c.loaded = true }()

	data, err := c.store.Get(c.key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			c.logger.Warn("could not read stored session", "error", err)
		}
		return false
	}

	record, err := Decode(data)
	if err != nil {
		c.logger.Warn("ignoring stored session", "error", err)
		return false
	}

	s.Restore(record.Snapshots())
	c.logger.Info("loaded session", "tabs", len(s.Tabs))
	return true
}

// Attach saves the session after every mutation except restores, which
// only mirror what is already stored
func (c *Codec) Attach(s *session.Session) {
	s.Subscribe(func(ev session.Event) {
		if ev.Kind == session.EventRestored {
			return
		}
		if err := c.Save(s); err != nil {
			c.logger.Error("failed to persist session", "event", ev.Kind.String(), "error", err)
		}
	})
}

// ReadSession loads the stored record without touching any session; the
// CLI uses it to inspect tabs
func ReadSession(store Store) (*PersistedSession, error) {
	data, err := store.Get(SessionKey)
	if err != nil {
		return nil, err
	}
	return Decode(data)
}
