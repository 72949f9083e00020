package credentials

import (
	"sync"

	"github.com/trezcool/darasa/core"
)

// Memory is an in-memory credential store for tests.
type Memory struct {
	mu    sync.Mutex
	token string
}

var _ core.CredentialStore = (*Memory)(nil)

func NewMemory(token ...string) *Memory {
	m := new(Memory)
	if len(token) > 0 {
		m.token = token[0]
	}
	return m
}

func (m *Memory) Get() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, nil
}

func (m *Memory) Set(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	return nil
}

func (m *Memory) Delete() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	return nil
}
