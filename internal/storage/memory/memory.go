// Package memory — хранилище в памяти процесса для локального запуска и тестов.
// Все мутации сериализуются одной блокировкой записи: проверка и изменение выполняются атомарно.
package memory

import (
	"sync"

	"github.com/google/uuid"

	"github.com/pribylovaa/fritter-signals/internal/storage"
)

type reactionKey struct {
	post   uuid.UUID
	author uuid.UUID
}

// Memory реализует storage.Storage и storage.Directory.
type Memory struct {
	mu        sync.RWMutex
	reactions map[reactionKey]reactionRecord
	warnings  map[uuid.UUID]warningRecord
	users     map[string]uuid.UUID
	posts     map[uuid.UUID]uuid.UUID
	seq       uint64
}

// New создаёт пустое хранилище.
func New() *Memory {
	return &Memory{
		reactions: make(map[reactionKey]reactionRecord),
		warnings:  make(map[uuid.UUID]warningRecord),
		users:     make(map[string]uuid.UUID),
		posts:     make(map[uuid.UUID]uuid.UUID),
	}
}

// Close ничего не освобождает: ресурсов вне памяти нет.
func (m *Memory) Close() {}

// nextSeq — монотонный счётчик вставок для стабильного тай-брейка сортировки.
func (m *Memory) nextSeq() uint64 {
	m.seq++
	return m.seq
}

var (
	_ storage.Storage   = (*Memory)(nil)
	_ storage.Directory = (*Memory)(nil)
)
