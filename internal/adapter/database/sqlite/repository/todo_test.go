package repository

import (
	"context"
	"testing"
	"time"

	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/suite"

	"todosvc/internal/adapter/database/sqlite"
	"todosvc/internal/core/domain"
	"todosvc/internal/core/port"
	. "todosvc/pkg/test"
	factory "todosvc/pkg/test/factory"
)

type TodoRepositorySuite struct {
	suite.Suite
	DB   *sqlite.DB
	Repo port.TodoRepository
}

var ctx = context.Background()

func (s *TodoRepositorySuite) SetupTest() {
	s.DB = InitTestDB()
	s.Repo = NewTodoRepository(s.DB)
}

func (s *TodoRepositorySuite) TearDownTest() {
	if s.DB != nil {
		s.DB.Close()
	}
}

func TestTodoRepositorySuite(t *testing.T) {
	RegisterTestingT(t)
	suite.Run(t, new(TodoRepositorySuite))
}

func newTodo(title string) domain.Todo {
	now := time.Now().UTC()

	return domain.Todo{
		Title:       title,
		Description: "desc for " + title,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func (s *TodoRepositorySuite) TestCreateReturnsPersistedRecord() {
	saved, err := s.Repo.Create(ctx, newTodo("buy milk"))

	Expect(err).NotTo(HaveOccurred())
	Expect(saved.ID).To(BeNumerically(">", 0))
	Expect(saved.Title).To(Equal("buy milk"))
	Expect(saved.Completed).To(BeFalse())
}

func (s *TodoRepositorySuite) TestCreateThenGetRoundTrip() {
	saved, err := s.Repo.Create(ctx, newTodo("buy milk"))
	Expect(err).NotTo(HaveOccurred())

	found, err := s.Repo.GetByID(ctx, saved.ID)

	Expect(err).NotTo(HaveOccurred())
	Expect(found.ID).To(Equal(saved.ID))
	Expect(found.Title).To(Equal(saved.Title))
	Expect(found.Description).To(Equal(saved.Description))
	Expect(found.Completed).To(Equal(saved.Completed))
}

func (s *TodoRepositorySuite) TestCreateAssignsUniqueIncreasingIDs() {
	first, err := s.Repo.Create(ctx, newTodo("first"))
	Expect(err).NotTo(HaveOccurred())

	second, err := s.Repo.Create(ctx, newTodo("second"))
	Expect(err).NotTo(HaveOccurred())

	Expect(second.ID).To(BeNumerically(">", first.ID))
}

func (s *TodoRepositorySuite) TestGetAllEmpty() {
	todos, err := s.Repo.GetAll(ctx)

	Expect(err).NotTo(HaveOccurred())
	Expect(todos).NotTo(BeNil())
	Expect(todos).To(BeEmpty())
}

func (s *TodoRepositorySuite) TestGetAllReturnsEveryRecord() {
	for _, title := range []string{"one", "two", "three"} {
		_, err := s.Repo.Create(ctx, factory.NewTodo[domain.Todo](map[string]any{
			"Title": title,
		}))
		Expect(err).NotTo(HaveOccurred())
	}

	todos, err := s.Repo.GetAll(ctx)

	Expect(err).NotTo(HaveOccurred())
	Expect(todos).To(HaveLen(3))
}

func (s *TodoRepositorySuite) TestGetByIDMissingReturnsNotFound() {
	_, err := s.Repo.GetByID(ctx, 999)

	Expect(err).To(MatchError(domain.ErrTodoNotFound))
}

func (s *TodoRepositorySuite) TestGetByIDNegativeReturnsNotFound() {
	_, err := s.Repo.GetByID(ctx, -1)

	Expect(err).To(MatchError(domain.ErrTodoNotFound))
}
