package repomanager

import (
	"github.com/dmitrijs2005/expensetracker/internal/server/repositories/documents"
	"github.com/dmitrijs2005/expensetracker/internal/server/repositories/users"
)

type MemoryRepositoryManager struct {
	users     *users.MemoryRepository
	documents *documents.MemoryRepository
}

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	return &MemoryRepositoryManager{
		users:     users.NewMemoryRepository(),
		documents: documents.NewMemoryRepository(),
	}
}

func (m *MemoryRepositoryManager) Users() users.Repository         { return m.users }
func (m *MemoryRepositoryManager) Documents() documents.Repository { return m.documents }
func (m *MemoryRepositoryManager) Close() error                    { return nil }
