// Package tokenstore хранит токен сессии администратора между запусками процесса.
//
// Хранилище держит ровно одно значение под фиксированным ключом. Наличие токена
// не означает его валидность: проверка выполняется менеджером сессии.
package tokenstore

import (
	"context"
	"sync"
)

// Key — фиксированный ключ, под которым хранится токен.
const Key = "admin_token"

// Store — долговременное хранилище токена сессии.
type Store interface {
	// Load возвращает токен и признак его наличия.
	Load(ctx context.Context) (string, bool, error)
	// Save записывает токен, заменяя прежний.
	Save(ctx context.Context, token string) error
	// Delete удаляет токен. Отсутствие токена не является ошибкой.
	Delete(ctx context.Context) error
}

// Memory — хранилище в памяти процесса. Используется в тестах и при kind: memory.
type Memory struct {
	mu    sync.Mutex
	token string
	set   bool
}

// NewMemory создаёт хранилище, опционально с начальным токеном.
func NewMemory(initial string) *Memory {
	return &Memory{token: initial, set: initial != ""}
}

func (m *Memory) Load(_ context.Context) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, m.set, nil
}

func (m *Memory) Save(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token, m.set = token, true
	return nil
}

func (m *Memory) Delete(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token, m.set = "", false
	return nil
}
