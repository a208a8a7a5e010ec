// Package localstore is the device-local persistence realm: one small JSON
// document holding the durable visitor id and the guest cart snapshot.
// It plays the role localStorage plays in a browser client.
package localstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"kneexEngine/domain"

	"github.com/pobyzaarif/goshortcute"
)

const stateFileName = "engine_state.json"

// document is the on-disk shape. The cart snapshot is AES-CBC encrypted and
// base64 encoded so a shared device doesn't leak cart contents in plain text.
type document struct {
	VisitorID    string `json:"visitor_id"`
	CartSnapshot string `json:"cart_snapshot,omitempty"`
}

type Store struct {
	mu   sync.Mutex
	path string
	key  string
}

func New(stateDir, snapshotKey string) (*Store, error) {
	if err := os.MkdirAll(stateDir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create state dir: %w", err)
	}

	return &Store{
		path: filepath.Join(stateDir, stateFileName),
		key:  snapshotKey,
	}, nil
}

// VisitorID returns the persisted visitor id, empty when none exists yet.
func (s *Store) VisitorID() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return "", err
	}

	return doc.VisitorID, nil
}

func (s *Store) SaveVisitorID(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}

	doc.VisitorID = id

	return s.save(doc)
}

// GuestCart returns the persisted guest cart lines. An absent, corrupt or
// undecryptable snapshot reads as an empty cart.
func (s *Store) GuestCart() ([]domain.CartLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return nil, err
	}

	if doc.CartSnapshot == "" {
		return nil, nil
	}

	raw := goshortcute.StringtoBase64Decode(doc.CartSnapshot)
	plain, err := goshortcute.AESCBCDecrypt([]byte(raw), []byte(s.key))
	if err != nil {
		return nil, nil
	}

	var lines []domain.CartLine
	if err := json.Unmarshal([]byte(plain), &lines); err != nil {
		return nil, nil
	}

	return lines, nil
}

func (s *Store) SaveGuestCart(lines []domain.CartLine) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}

	payload, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("failed to marshal cart snapshot: %w", err)
	}

	encrypted, err := goshortcute.AESCBCEncrypt(payload, []byte(s.key))
	if err != nil {
		return fmt.Errorf("failed to encrypt cart snapshot: %w", err)
	}

	doc.CartSnapshot = goshortcute.StringtoBase64Encode(encrypted)

	return s.save(doc)
}

func (s *Store) ClearGuestCart() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}

	doc.CartSnapshot = ""

	return s.save(doc)
}

// load reads the document; a missing or corrupt file is an empty document,
// never an error (the store must degrade, not block the caller).
func (s *Store) load() (document, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return document{}, nil
		}
		return document{}, fmt.Errorf("failed to read state file: %w", err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return document{}, nil
	}

	return doc, nil
}

// save writes via temp file + rename so a crash never leaves a torn file.
func (s *Store) save(doc document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal state file: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}

	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace state file: %w", err)
	}

	return nil
}
