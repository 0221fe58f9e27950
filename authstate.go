package md2note

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/alnah/go-md2note/internal/fileutil"
)

// Cookie is one stored browser cookie.
type Cookie struct {
	Name     string  `json:"name"`
	Value    string  `json:"value"`
	Domain   string  `json:"domain"`
	Path     string  `json:"path"`
	Expires  float64 `json:"expires"` // seconds since epoch, -1 for session cookies
	HTTPOnly bool    `json:"httpOnly"`
	Secure   bool    `json:"secure"`
	SameSite string  `json:"sameSite,omitempty"`
}

// StorageItem is one localStorage entry.
type StorageItem struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// OriginStorage is the localStorage of one origin.
type OriginStorage struct {
	Origin       string        `json:"origin"`
	LocalStorage []StorageItem `json:"localStorage"`
}

// AuthState is the persisted authentication of a browser context. The
// file layout is compatible with Playwright's storage state.
type AuthState struct {
	Cookies []Cookie        `json:"cookies"`
	Origins []OriginStorage `json:"origins"`
}

// Empty reports whether the state carries nothing to seed.
func (a *AuthState) Empty() bool {
	return a == nil || (len(a.Cookies) == 0 && len(a.Origins) == 0)
}

// LoadAuthState reads the state at path. A missing file returns
// (nil, nil): the caller starts a bare context.
func LoadAuthState(path string) (*AuthState, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: %v", ErrAuthState, fileutil.ErrEmptyPath)
	}
	data, err := os.ReadFile(path) // #nosec G304 -- credential path is user-provided
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrAuthState, err)
	}
	var st AuthState
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrAuthState, path, err)
	}
	return &st, nil
}

// Save fully replaces the file at path, creating parent directories.
func (a *AuthState) Save(path string) error {
	if a.Cookies == nil {
		a.Cookies = []Cookie{}
	}
	if a.Origins == nil {
		a.Origins = []OriginStorage{}
	}
	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrAuthState, err)
	}
	if err := fileutil.WriteFileAtomic(path, data, fileutil.FilePermissions); err != nil {
		return fmt.Errorf("%w: %v", ErrAuthState, err)
	}
	return nil
}

// seedScript returns an init script restoring localStorage, or "" when
// there is nothing to restore.
func (a *AuthState) seedScript() (string, error) {
	if a == nil || len(a.Origins) == 0 {
		return "", nil
	}
	data, err := json.Marshal(a.Origins)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(seedStorageScript, data), nil
}
