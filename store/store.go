package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cine-booking-cli/model"
)

const (
	appDir         = "cine-booking-cli"
	pendingFile    = "pending_selection.json"
	cookiesFile    = "cookies.json"
	recentFile     = "recent_films.json"
	maxRecentFilms = 6
)

type cacheEnvelope[T any] struct {
	UpdatedAt time.Time `json:"updated_at"`
	Data      T         `json:"data"`
}

type RecentFilm struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type filmHistory struct {
	Films []RecentFilm `json:"films"`
}

type storedCookie struct {
	Name     string    `json:"name"`
	Value    string    `json:"value"`
	Path     string    `json:"path,omitempty"`
	Domain   string    `json:"domain,omitempty"`
	Expires  time.Time `json:"expires,omitzero"`
	Secure   bool      `json:"secure,omitempty"`
	HttpOnly bool      `json:"http_only,omitempty"`
}

type cookieJarFile struct {
	ByBaseURL map[string][]storedCookie `json:"by_base_url"`
}

// FileSlot keeps one serialized booking session on disk across a login.
type FileSlot struct {
	path string
}

// PendingSlot returns the slot under the user config dir.
func PendingSlot() (*FileSlot, error) {
	path, err := ConfigPath(pendingFile)
	if err != nil {
		return nil, err
	}
	return &FileSlot{path: path}, nil
}

func NewFileSlot(path string) *FileSlot {
	return &FileSlot{path: path}
}

func (s *FileSlot) Save(blob string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(s.path, []byte(blob), 0o600)
}

// Take reads the slot and removes the file, so a blob is handed out once.
func (s *FileSlot) Take() (string, bool, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, err
	}
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return "", false, err
	}
	if strings.TrimSpace(string(data)) == "" {
		return "", false, nil
	}
	return string(data), true, nil
}

// Pending reports whether a selection is waiting, without consuming it.
func (s *FileSlot) Pending() bool {
	info, err := os.Stat(s.path)
	return err == nil && info.Size() > 0
}

func LoadCookies(baseURL string) ([]*http.Cookie, error) {
	jar, err := loadCookieJar()
	if err != nil {
		return nil, err
	}
	now := time.Now()
	var cookies []*http.Cookie
	for _, c := range jar.ByBaseURL[baseURL] {
		if !c.Expires.IsZero() && c.Expires.Before(now) {
			continue
		}
		cookies = append(cookies, &http.Cookie{
			Name:     c.Name,
			Value:    c.Value,
			Path:     c.Path,
			Domain:   c.Domain,
			Expires:  c.Expires,
			Secure:   c.Secure,
			HttpOnly: c.HttpOnly,
		})
	}
	return cookies, nil
}

// SaveCookies replaces the cookies kept for baseURL. An empty list forgets them.
func SaveCookies(baseURL string, cookies []*http.Cookie) error {
	jar, err := loadCookieJar()
	if err != nil {
		return err
	}
	if len(cookies) == 0 {
		delete(jar.ByBaseURL, baseURL)
	} else {
		stored := make([]storedCookie, 0, len(cookies))
		for _, c := range cookies {
			stored = append(stored, storedCookie{
				Name:     c.Name,
				Value:    c.Value,
				Path:     c.Path,
				Domain:   c.Domain,
				Expires:  c.Expires,
				Secure:   c.Secure,
				HttpOnly: c.HttpOnly,
			})
		}
		jar.ByBaseURL[baseURL] = stored
	}

	path, err := ConfigPath(cookiesFile)
	if err != nil {
		return err
	}
	return writeJSON(path, jar, 0o600)
}

// LoadPurchaseCache returns the last purchase history fetched for username
// and whether it is younger than ttl.
func LoadPurchaseCache(username string, ttl time.Duration) ([]model.Purchase, bool, error) {
	path, err := purchaseCachePath(username)
	if err != nil {
		return nil, false, err
	}
	cache, err := loadCache[[]model.Purchase](path)
	if err != nil {
		return nil, false, err
	}
	return cache.Data, time.Since(cache.UpdatedAt) <= ttl, nil
}

func SavePurchaseCache(username string, purchases []model.Purchase) error {
	path, err := purchaseCachePath(username)
	if err != nil {
		return err
	}
	return saveCache(path, purchases)
}

func ClearPurchaseCache(username string) error {
	path, err := purchaseCachePath(username)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func LoadRecentFilms() ([]RecentFilm, error) {
	path, err := ConfigPath(recentFile)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var history filmHistory
	if err := json.Unmarshal(data, &history); err != nil {
		return nil, errors.New("invalid film history format")
	}
	return history.Films, nil
}

// RememberFilm moves film to the front of the recent list.
func RememberFilm(film model.Film) error {
	history, _ := LoadRecentFilms()
	next := []RecentFilm{{ID: film.ID, Name: film.Name}}

	for _, existing := range history {
		if existing.ID == film.ID {
			continue
		}
		next = append(next, existing)
		if len(next) >= maxRecentFilms {
			break
		}
	}

	path, err := ConfigPath(recentFile)
	if err != nil {
		return err
	}
	return writeJSON(path, filmHistory{Films: next}, 0o644)
}

func loadCache[T any](path string) (cacheEnvelope[T], error) {
	var cache cacheEnvelope[T]
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cache, nil
		}
		return cache, err
	}
	if err := json.Unmarshal(data, &cache); err != nil {
		return cache, err
	}
	return cache, nil
}

func saveCache[T any](path string, data T) error {
	cache := cacheEnvelope[T]{
		UpdatedAt: time.Now(),
		Data:      data,
	}
	return writeJSON(path, cache, 0o644)
}

func loadCookieJar() (cookieJarFile, error) {
	path, err := ConfigPath(cookiesFile)
	if err != nil {
		return cookieJarFile{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cookieJarFile{ByBaseURL: map[string][]storedCookie{}}, nil
		}
		return cookieJarFile{}, err
	}

	var jar cookieJarFile
	if err := json.Unmarshal(data, &jar); err != nil {
		return cookieJarFile{}, errors.New("invalid cookie file format")
	}
	if jar.ByBaseURL == nil {
		jar.ByBaseURL = map[string][]storedCookie{}
	}
	return jar, nil
}

func writeJSON(path string, value any, perm os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, payload, perm)
}

func purchaseCachePath(username string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return "", errors.New("username is required")
	}
	return CachePath(fmt.Sprintf("purchases_%s.json", sanitize(username)))
}

func sanitize(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			return r
		default:
			return '_'
		}
	}, name)
}

func ConfigPath(name string) (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appDir, name), nil
}

func CachePath(name string) (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appDir, name), nil
}
