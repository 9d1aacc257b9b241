package orderbook

import (
	"sync"
)

// Manager is a registry of per-symbol books, created lazily on first
// reference. The OMS engine keeps one Manager for its books map.
type Manager struct {
	books map[string]*Book
	mu    sync.RWMutex
}

// NewManager creates an empty book registry.
func NewManager() *Manager {
	return &Manager{
		books: make(map[string]*Book),
	}
}

// GetOrderBook returns the book for symbol, creating it if absent.
func (m *Manager) GetOrderBook(symbol string) *Book {
	m.mu.RLock()
	book, ok := m.books[symbol]
	m.mu.RUnlock()

	if ok {
		return book
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if book, ok := m.books[symbol]; ok {
		return book
	}

	book = New(symbol)
	m.books[symbol] = book
	return book
}

// GetSymbols returns every symbol with a registered book.
func (m *Manager) GetSymbols() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	symbols := make([]string, 0, len(m.books))
	for symbol := range m.books {
		symbols = append(symbols, symbol)
	}
	return symbols
}

// GetAllOrderBooks returns a shallow copy of the symbol -> book map.
func (m *Manager) GetAllOrderBooks() map[string]*Book {
	m.mu.RLock()
	defer m.mu.RUnlock()

	books := make(map[string]*Book, len(m.books))
	for symbol, book := range m.books {
		books[symbol] = book
	}
	return books
}
