package files

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const (
	// AppDir is the directory name under the user config directory
	AppDir = "fitchpad"
	// StoreExt is appended to every key stored on disk
	StoreExt = ".json"
	// SettingsFile is the settings file inside the app directory
	SettingsFile = "settings.yaml"
	// LogFile receives the application log
	LogFile = "fitchpad.log"
)

// ErrNotFound is returned for keys that were never written
var ErrNotFound = errors.New("key not found")

// Store is a durable key-value store
type Store interface {
	Get(key string) ([]byte, error)
	Set(key string, data []byte) error
}

// DefaultDir returns <user config dir>/fitchpad
func DefaultDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to determine config directory: %w", err)
	}
	return filepath.Join(base, AppDir), nil
}

// FileStore keeps one file per key in a directory
type FileStore struct {
	dir string

	// hashes of the content this process last wrote, per key; read by the
	// watcher goroutine to ignore our own writes
	hashMu sync.Mutex
	hashes map[string][sha256.Size]byte
}

// NewFileStore creates the directory if needed
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create state directory %s: %w", dir, err)
	}
	return &FileStore{dir: dir, hashes: make(map[string][sha256.Size]byte)}, nil
}

// Dir returns the directory backing the store
func (fs *FileStore) Dir() string {
	return fs.dir
}

// Path returns the file holding key
func (fs *FileStore) Path(key string) string {
	return filepath.Join(fs.dir, key+StoreExt)
}

// KeyForPath maps a file in the store directory back to its key
func (fs *FileStore) KeyForPath(path string) (string, bool) {
	if filepath.Dir(path) != filepath.Clean(fs.dir) {
		return "", false
	}
	base := filepath.Base(path)
	if !strings.HasSuffix(base, StoreExt) {
		return "", false
	}
	return strings.TrimSuffix(base, StoreExt), true
}

func validKey(key string) error {
	if key == "" || strings.ContainsAny(key, `/\`) || strings.Contains(key, "..") {
		return fmt.Errorf("invalid store key %q", key)
	}
	return nil
}

// Get reads the value of key
func (fs *FileStore) Get(key string) ([]byte, error) {
	if err := validKey(key); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(fs.Path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return data, nil
}

// Set writes the value of key atomically so concurrent readers never see
// a partial file
func (fs *FileStore) Set(key string, data []byte) error {
	if err := validKey(key); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(fs.dir, "."+key+"-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", key, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", key, err)
	}

	// record before the rename so the watcher never sees the new file
	// without knowing it is ours
	fs.hashMu.Lock()
	fs.hashes[key] = sha256.Sum256(data)
	fs.hashMu.Unlock()

	if err := os.Rename(tmpName, fs.Path(key)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace %s: %w", key, err)
	}
	return nil
}

// observe records data as the known content of key and reports whether it
// differs from what was known before
func (fs *FileStore) observe(key string, data []byte) bool {
	sum := sha256.Sum256(data)
	fs.hashMu.Lock()
	defer fs.hashMu.Unlock()
	if prev, ok := fs.hashes[key]; ok && prev == sum {
		return false
	}
	fs.hashes[key] = sum
	return true
}

// MemoryStore is an in-process Store
type MemoryStore struct {
	data map[string][]byte
}

// NewMemoryStore creates an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (ms *MemoryStore) Get(key string) ([]byte, error) {
	data, ok := ms.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), data...), nil
}

func (ms *MemoryStore) Set(key string, data []byte) error {
	ms.data[key] = append([]byte(nil), data...)
	return nil
}
