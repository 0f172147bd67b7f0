package tokenstore

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
)

// Фиксированный ключ хранения — как в браузерном localStorage.
const TokenKey = "auth_token"

var ErrNoToken = errors.New("токен не найден в хранилище")

// Store — файловое key-value хранилище токена. Единственный общий ресурс
// слоя; доступ на чтение из нескольких горутин, поэтому мьютекс.
type Store struct {
	path string

	mu     sync.RWMutex
	values map[string]string
}

func New(path string) (*Store, error) {
	s := &Store{
		path:   path,
		values: make(map[string]string),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, err
	}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &s.values); err != nil {
			// Битый файл считаем пустым хранилищем: токена нет — пользователь разлогинен
			s.values = make(map[string]string)
		}
	}
	return s, nil
}

func (s *Store) Token() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	token, ok := s.values[TokenKey]
	if !ok || token == "" {
		return "", ErrNoToken
	}
	return token, nil
}

func (s *Store) SetToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[TokenKey] = token
	return s.flush()
}

func (s *Store) ClearToken() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, TokenKey)
	return s.flush()
}

func (s *Store) flush() error {
	if s.path == "" {
		return nil // in-memory режим (тесты)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	data, err := json.Marshal(s.values)
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o600)
}
