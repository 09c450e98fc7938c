package handlers_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/UnknownOlympus/staffbook/internal/models"
	"github.com/UnknownOlympus/staffbook/internal/server/handlers"
	"github.com/UnknownOlympus/staffbook/internal/server/mw"
	"github.com/UnknownOlympus/staffbook/internal/services/employees"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubService returns err from every call and records what it received.
type stubService struct {
	err       error
	userID    string
	input     models.EmployeeInput
	patch     models.EmployeePatch
	lastIdent string
}

func (s *stubService) Create(_ context.Context, userID string, input models.EmployeeInput) (models.Employee, error) {
	s.userID, s.input = userID, input
	return models.Employee{}, s.err
}

func (s *stubService) List(_ context.Context, userID string) ([]models.Employee, error) {
	s.userID = userID
	return nil, s.err
}

func (s *stubService) Get(_ context.Context, userID, identifier string) (models.Employee, error) {
	s.userID, s.lastIdent = userID, identifier
	return models.Employee{}, s.err
}

func (s *stubService) Update(
	_ context.Context,
	userID, identifier string,
	patch models.EmployeePatch,
) (models.Employee, error) {
	s.userID, s.lastIdent, s.patch = userID, identifier, patch
	return models.Employee{}, s.err
}

func (s *stubService) Delete(_ context.Context, userID, identifier string) (models.Employee, error) {
	s.userID, s.lastIdent = userID, identifier
	return models.Employee{}, s.err
}

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func newEngine(service handlers.EmployeeService) *gin.Engine {
	h := handlers.NewEmployeeHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), service)
	engine := gin.New()
	engine.Use(func(c *gin.Context) { c.Set(mw.CtxUserID, "caller") })
	engine.POST("/create", h.Create)
	engine.GET("/get", h.List)
	engine.GET("/get/:id", h.Get)
	engine.PATCH("/update/:id", h.Update)
	engine.DELETE("/delete/:id", h.Delete)

	return engine
}

func serve(engine *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	engine.ServeHTTP(rr, httptest.NewRequest(method, path, strings.NewReader(body)))
	return rr
}

func TestHandlers_GenericFailure(t *testing.T) {
	t.Parallel()

	service := &stubService{err: errors.New("connection refused")}
	engine := newEngine(service)

	for _, tc := range []struct{ method, path, body string }{
		{http.MethodPost, "/create", `{"email":"a@x.com"}`},
		{http.MethodGet, "/get", ""},
		{http.MethodGet, "/get/abc", ""},
		{http.MethodPatch, "/update/abc", `{"name":"New"}`},
		{http.MethodDelete, "/delete/abc", ""},
	} {
		rr := serve(engine, tc.method, tc.path, tc.body)

		require.Equal(t, http.StatusBadRequest, rr.Code, tc.path)
		require.JSONEq(t, `{"error":"connection refused"}`, rr.Body.String(), tc.path)
		assert.Equal(t, "caller", service.userID)
	}
}

func TestHandlers_ErrorMapping(t *testing.T) {
	t.Parallel()

	conflict := newEngine(&stubService{err: employees.ErrEmailExists})
	rr := serve(conflict, http.MethodPost, "/create", `{}`)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.JSONEq(t, `{"message":"Email already exists"}`, rr.Body.String())

	missing := newEngine(&stubService{err: employees.ErrNotFound})
	for path, verb := range map[string]string{"/get/x": "view", "/update/x": "update", "/delete/x": "delete"} {
		method := map[string]string{"view": http.MethodGet, "update": http.MethodPatch, "delete": http.MethodDelete}[verb]
		rr = serve(missing, method, path, "")

		require.Equal(t, http.StatusNotFound, rr.Code)
		require.JSONEq(t,
			`{"message":"Employee not found or you do not have permission to `+verb+` this employee"}`,
			rr.Body.String())
	}
}

func TestHandlers_Binding(t *testing.T) {
	t.Parallel()

	service := &stubService{}
	engine := newEngine(service)

	rr := serve(engine, http.MethodPost, "/create", "")
	require.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, models.EmployeeInput{}, service.input)

	rr = serve(engine, http.MethodPatch, "/update/emp-1", `{"courses":["MCA"],"userId":"someone-else"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "emp-1", service.lastIdent)
	assert.Equal(t, "caller", service.userID)
	require.NotNil(t, service.patch.Courses)
	assert.Equal(t, []string{"MCA"}, *service.patch.Courses)
	assert.Nil(t, service.patch.Name)

	rr = serve(engine, http.MethodPatch, "/update/emp-1", `{"name":`)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), `"error"`)
}
