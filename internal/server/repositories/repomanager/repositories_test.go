package repomanager

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/dmitrijs2005/expensetracker/internal/common"
	"github.com/dmitrijs2005/expensetracker/internal/dbx"
	"github.com/dmitrijs2005/expensetracker/internal/server/models"
	"github.com/stretchr/testify/suite"
)

// RepositorySuite runs the same contract against every backend.
type RepositorySuite struct {
	suite.Suite
	open func(t *testing.T) RepositoryManager
	m    RepositoryManager
	ctx  context.Context
	base time.Time
}

func (s *RepositorySuite) SetupTest() {
	s.ctx = context.Background()
	s.m = s.open(s.T())
	s.base = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
}

func (s *RepositorySuite) TearDownTest() {
	s.NoError(s.m.Close())
}

func (s *RepositorySuite) user(id, name string) *models.User {
	return &models.User{ID: id, UserName: name, PasswordHash: "hash-" + id, CreatedAt: s.base}
}

func (s *RepositorySuite) doc(id, owner string, offset int) *models.Document {
	return &models.Document{
		ID:         id,
		Collection: common.ExpensesCollection,
		UserID:     owner,
		Body:       map[string]any{"userId": owner, "description": "d-" + id, "amount": 1.5},
		CreatedAt:  s.base.Add(time.Duration(offset) * time.Second),
	}
}

func (s *RepositorySuite) TestUsers_CreateAndGet() {
	repo := s.m.Users()
	s.Require().NoError(repo.Create(s.ctx, s.user("u1", "alice")))

	byName, err := repo.GetByUserName(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal("u1", byName.ID)
	s.Equal("hash-u1", byName.PasswordHash)
	s.False(byName.IsPremium)
	s.True(s.base.Equal(byName.CreatedAt))

	byID, err := repo.GetByID(s.ctx, "u1")
	s.Require().NoError(err)
	s.Equal("alice", byID.UserName)
}

func (s *RepositorySuite) TestUsers_DuplicateName() {
	repo := s.m.Users()
	s.Require().NoError(repo.Create(s.ctx, s.user("u1", "alice")))
	s.ErrorIs(repo.Create(s.ctx, s.user("u2", "alice")), common.ErrAlreadyExists)
}

func (s *RepositorySuite) TestUsers_NotFound() {
	repo := s.m.Users()
	_, err := repo.GetByUserName(s.ctx, "nobody")
	s.ErrorIs(err, common.ErrNotFound)
	_, err = repo.GetByID(s.ctx, "nobody")
	s.ErrorIs(err, common.ErrNotFound)
	s.ErrorIs(repo.SetPremium(s.ctx, "nobody", true), common.ErrNotFound)
}

func (s *RepositorySuite) TestUsers_SetPremium() {
	repo := s.m.Users()
	s.Require().NoError(repo.Create(s.ctx, s.user("u1", "alice")))
	s.Require().NoError(repo.SetPremium(s.ctx, "u1", true))

	u, err := repo.GetByID(s.ctx, "u1")
	s.Require().NoError(err)
	s.True(u.IsPremium)

	s.Require().NoError(repo.SetPremium(s.ctx, "u1", false))
	u, err = repo.GetByID(s.ctx, "u1")
	s.Require().NoError(err)
	s.False(u.IsPremium)
}

func (s *RepositorySuite) TestDocuments_InsertGet() {
	repo := s.m.Documents()
	s.Require().NoError(repo.Insert(s.ctx, s.doc("d1", "u1", 0)))

	got, err := repo.Get(s.ctx, common.ExpensesCollection, "d1")
	s.Require().NoError(err)
	s.Equal("u1", got.UserID)
	s.Equal("d-d1", got.Body["description"])
	s.Equal(1.5, got.Body["amount"])
	s.True(s.base.Equal(got.CreatedAt))

	_, err = repo.Get(s.ctx, "other", "d1")
	s.ErrorIs(err, common.ErrNotFound)
}

func (s *RepositorySuite) TestDocuments_DuplicateID() {
	repo := s.m.Documents()
	s.Require().NoError(repo.Insert(s.ctx, s.doc("d1", "u1", 0)))
	s.ErrorIs(repo.Insert(s.ctx, s.doc("d1", "u1", 1)), common.ErrAlreadyExists)
}

func (s *RepositorySuite) TestDocuments_ListByOwner() {
	repo := s.m.Documents()
	s.Require().NoError(repo.Insert(s.ctx, s.doc("a", "u1", 0)))
	s.Require().NoError(repo.Insert(s.ctx, s.doc("b", "u2", 1)))
	s.Require().NoError(repo.Insert(s.ctx, s.doc("c", "u1", 2)))

	docs, err := repo.ListByOwner(s.ctx, common.ExpensesCollection, "u1")
	s.Require().NoError(err)
	s.Require().Len(docs, 2)
	s.Equal("a", docs[0].ID)
	s.Equal("c", docs[1].ID)

	none, err := repo.ListByOwner(s.ctx, common.ExpensesCollection, "u3")
	s.Require().NoError(err)
	s.Empty(none)
}

func (s *RepositorySuite) TestDocuments_Update() {
	repo := s.m.Documents()
	s.Require().NoError(repo.Insert(s.ctx, s.doc("d1", "u1", 0)))

	upd := s.doc("d1", "u1", 0)
	upd.Body = map[string]any{"userId": "u1", "description": "changed"}
	s.Require().NoError(repo.Update(s.ctx, upd))

	got, err := repo.Get(s.ctx, common.ExpensesCollection, "d1")
	s.Require().NoError(err)
	s.Equal("changed", got.Body["description"])
	s.NotContains(got.Body, "amount")

	missing := s.doc("nope", "u1", 0)
	s.ErrorIs(repo.Update(s.ctx, missing), common.ErrNotFound)
}

func (s *RepositorySuite) TestDocuments_Delete() {
	repo := s.m.Documents()
	s.Require().NoError(repo.Insert(s.ctx, s.doc("d1", "u1", 0)))
	s.Require().NoError(repo.Delete(s.ctx, common.ExpensesCollection, "d1"))

	_, err := repo.Get(s.ctx, common.ExpensesCollection, "d1")
	s.ErrorIs(err, common.ErrNotFound)
	s.ErrorIs(repo.Delete(s.ctx, common.ExpensesCollection, "d1"), common.ErrNotFound)
}

func (s *RepositorySuite) TestDocuments_ReturnedCopiesAreIndependent() {
	repo := s.m.Documents()
	d := s.doc("d1", "u1", 0)
	s.Require().NoError(repo.Insert(s.ctx, d))
	d.Body["description"] = "mutated after insert"

	got, err := repo.Get(s.ctx, common.ExpensesCollection, "d1")
	s.Require().NoError(err)
	got.Body["description"] = "mutated after get"

	again, err := repo.Get(s.ctx, common.ExpensesCollection, "d1")
	s.Require().NoError(err)
	s.Equal("d-d1", again.Body["description"])
}

func TestRepositories_Memory(t *testing.T) {
	suite.Run(t, &RepositorySuite{open: func(*testing.T) RepositoryManager {
		return NewMemoryRepositoryManager()
	}})
}

var sqliteSeq int

func TestRepositories_SQLite(t *testing.T) {
	suite.Run(t, &RepositorySuite{open: func(t *testing.T) RepositoryManager {
		sqliteSeq++
		dsn := fmt.Sprintf("file:repotest%d?mode=memory&cache=shared", sqliteSeq)
		m, err := NewSQLRepositoryManager(context.Background(), dbx.SQLite, dsn)
		if err != nil {
			t.Fatalf("open sqlite: %v", err)
		}
		return m
	}})
}
