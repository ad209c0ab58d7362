package handler_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/suite"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"

	"todosvc/internal/adapter/cache/memory"
	"todosvc/internal/adapter/database/sqlite"
	"todosvc/internal/adapter/database/sqlite/repository"
	"todosvc/internal/adapter/http/handler"
	"todosvc/internal/adapter/http/routes"
	"todosvc/internal/core/port"
	"todosvc/internal/core/service"
	"todosvc/pkg/config"
	. "todosvc/pkg/test"
)

// passVerifier stands in for the external verification service: any
// non-empty credential passes. The missing-header case never reaches it.
type passVerifier struct{}

func (passVerifier) Verify(ctx context.Context, authorization string) error {
	return nil
}

type TodoHandlerSuite struct {
	suite.Suite
	DB     *sqlite.DB
	Store  port.SharedStore
	Router *gin.Engine
	Config *config.AppConfig
}

var ctx = context.Background()

func (s *TodoHandlerSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	s.DB = InitTestDB()
	s.Store = memory.New()

	s.Config = config.GetDefaultConfig()
	s.Config.CacheTTL = 100 * time.Millisecond

	todoRepo := repository.NewTodoRepository(s.DB)
	todoService := service.NewTodoService(todoRepo)

	logger := otelzap.New(zap.NewNop())

	s.Router = routes.SetupRouter(routes.RouterDeps{
		TodoHandler: handler.NewTodoHandler(todoService, logger),
		Verifier:    passVerifier{},
		Store:       s.Store,
		Logger:      logger,
		Config:      s.Config,
	})
}

func (s *TodoHandlerSuite) TearDownTest() {
	if s.DB != nil {
		s.DB.Close()
	}
	if s.Store != nil {
		s.Store.Close()
	}
}

func TestTodoHandlerSuite(t *testing.T) {
	RegisterTestingT(t)
	suite.Run(t, new(TodoHandlerSuite))
}

func (s *TodoHandlerSuite) do(method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	req.Header.Set("Authorization", "Bearer valid-token")
	s.Router.ServeHTTP(w, req)

	return w
}

func (s *TodoHandlerSuite) TestRootReturnsHelloWorld() {
	w := s.do(http.MethodGet, "/", "")

	Expect(w.Code).To(Equal(http.StatusOK))
	Expect(w.Body.String()).To(MatchJSON(`{"message":"Hello World"}`))
}

func (s *TodoHandlerSuite) TestRootRequiresToken() {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	s.Router.ServeHTTP(w, req)

	Expect(w.Code).To(Equal(http.StatusUnauthorized))
	Expect(w.Body.String()).To(MatchJSON(`{"detail":"no token provided"}`))
}

func (s *TodoHandlerSuite) TestPreflightNeedsNoToken() {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/todos/", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	s.Router.ServeHTTP(w, req)

	Expect(w.Code).To(Equal(http.StatusNoContent))
	Expect(w.Header().Get("Access-Control-Allow-Origin")).To(Equal("http://localhost:3000"))
	Expect(w.Header().Get("Access-Control-Allow-Credentials")).To(Equal("true"))
}

func (s *TodoHandlerSuite) TestCreateTodo() {
	w := s.do(http.MethodPost, "/todos/", `{"title":"buy milk"}`)

	Expect(w.Code).To(Equal(http.StatusOK))

	var created map[string]any
	Expect(json.Unmarshal(w.Body.Bytes(), &created)).To(Succeed())
	Expect(created["id"]).To(BeNumerically("==", 1))
	Expect(created["title"]).To(Equal("buy milk"))
	Expect(created["completed"]).To(BeFalse())
}

func (s *TodoHandlerSuite) TestCreateThenGetRoundTrip() {
	created := s.do(http.MethodPost, "/todos/", `{"title":"buy milk","description":"2 liters"}`)
	Expect(created.Code).To(Equal(http.StatusOK))

	var todo map[string]any
	Expect(json.Unmarshal(created.Body.Bytes(), &todo)).To(Succeed())

	got := s.do(http.MethodGet, fmt.Sprintf("/todos/%v", todo["id"]), "")

	Expect(got.Code).To(Equal(http.StatusOK))
	Expect(got.Body.String()).To(MatchJSON(created.Body.String()))
}

func (s *TodoHandlerSuite) TestCreateAssignsDistinctIDs() {
	seen := map[float64]bool{}

	for i := 0; i < 3; i++ {
		w := s.do(http.MethodPost, "/todos/", fmt.Sprintf(`{"title":"task %d"}`, i))
		Expect(w.Code).To(Equal(http.StatusOK))

		var todo map[string]any
		Expect(json.Unmarshal(w.Body.Bytes(), &todo)).To(Succeed())

		id := todo["id"].(float64)
		Expect(seen[id]).To(BeFalse())
		seen[id] = true
	}
}

func (s *TodoHandlerSuite) TestCreateRejectsMissingTitle() {
	w := s.do(http.MethodPost, "/todos/", `{"description":"no title"}`)

	Expect(w.Code).To(Equal(http.StatusUnprocessableEntity))
	Expect(w.Body.String()).To(ContainSubstring("validation failed"))
}

func (s *TodoHandlerSuite) TestCreateRejectsMalformedBody() {
	w := s.do(http.MethodPost, "/todos/", `{"title":`)

	Expect(w.Code).To(Equal(http.StatusUnprocessableEntity))
}

func (s *TodoHandlerSuite) TestListTodosEmpty() {
	w := s.do(http.MethodGet, "/todos/", "")

	Expect(w.Code).To(Equal(http.StatusOK))
	Expect(w.Body.String()).To(MatchJSON(`[]`))
}

func (s *TodoHandlerSuite) TestGetMissingTodoReturns404() {
	w := s.do(http.MethodGet, "/todos/999", "")

	Expect(w.Code).To(Equal(http.StatusNotFound))
	Expect(w.Body.String()).To(MatchJSON(`{"detail":"todo not found"}`))
}

func (s *TodoHandlerSuite) TestGetNonIntegerIDRejected() {
	w := s.do(http.MethodGet, "/todos/abc", "")

	Expect(w.Code).To(Equal(http.StatusUnprocessableEntity))
}

func (s *TodoHandlerSuite) TestListCacheServesStaleAfterCreate() {
	before := s.do(http.MethodGet, "/todos/", "")
	Expect(before.Code).To(Equal(http.StatusOK))
	Expect(before.Header().Get("X-Cache")).To(Equal("MISS"))

	created := s.do(http.MethodPost, "/todos/", `{"title":"buy milk"}`)
	Expect(created.Code).To(Equal(http.StatusOK))

	// The create does not purge the list entry: the next read is stale.
	stale := s.do(http.MethodGet, "/todos/", "")
	Expect(stale.Header().Get("X-Cache")).To(Equal("HIT"))
	Expect(stale.Body.String()).To(MatchJSON(`[]`))

	time.Sleep(s.Config.CacheTTL + 20*time.Millisecond)

	fresh := s.do(http.MethodGet, "/todos/", "")
	Expect(fresh.Header().Get("X-Cache")).To(Equal("MISS"))
	Expect(fresh.Body.String()).To(ContainSubstring("buy milk"))
}

func (s *TodoHandlerSuite) TestBuyMilkEndToEnd() {
	created := s.do(http.MethodPost, "/todos/", `{"title":"buy milk"}`)
	Expect(created.Code).To(Equal(http.StatusOK))

	var todo map[string]any
	Expect(json.Unmarshal(created.Body.Bytes(), &todo)).To(Succeed())
	Expect(todo["id"]).To(BeNumerically("==", 1))
	Expect(todo["title"]).To(Equal("buy milk"))

	got := s.do(http.MethodGet, "/todos/1", "")
	Expect(got.Code).To(Equal(http.StatusOK))
	Expect(got.Body.String()).To(MatchJSON(created.Body.String()))

	missing := s.do(http.MethodGet, "/todos/999", "")
	Expect(missing.Code).To(Equal(http.StatusNotFound))
}
