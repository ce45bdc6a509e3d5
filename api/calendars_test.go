package api_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Aidin1998/calendars/api"
	"github.com/Aidin1998/calendars/internal/calendars"
	"github.com/Aidin1998/calendars/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type problem struct {
	Type    string `json:"type"`
	Title   string `json:"title"`
	Status  int    `json:"status"`
	Detail  string `json:"detail"`
	Code    string `json:"code"`
	TraceID string `json:"trace_id"`
	Errors  []struct {
		Field string `json:"field"`
		Code  string `json:"code"`
	} `json:"errors"`
}

func TestCalendarLifecycle(t *testing.T) {
	router := setupRouter(t)

	w := do(router, http.MethodPost, "/calendars", `{"name":"Team Sync","description":"Weekly"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Empty(t, w.Body.String())

	w = do(router, http.MethodGet, "/calendars", "")
	require.Equal(t, http.StatusOK, w.Code)
	var list []calendars.PartialCalendar
	decode(t, w, &list)
	require.Len(t, list, 1)
	assert.Equal(t, "Team Sync", list[0].Name)
	id := list[0].ID
	path := fmt.Sprintf("/calendars/%d", id)

	w = do(router, http.MethodGet, path, "")
	require.Equal(t, http.StatusOK, w.Code)
	var created calendars.Calendar
	decode(t, w, &created)
	assert.Equal(t, "Weekly", created.Description)
	assert.True(t, created.CreatedAt.Equal(created.UpdatedAt))

	w = do(router, http.MethodGet, "/calendars/name/Team%20Sync", "")
	require.Equal(t, http.StatusOK, w.Code)
	var byName calendars.Calendar
	decode(t, w, &byName)
	assert.Equal(t, id, byName.ID)

	w = do(router, http.MethodPut, path, `{"name":"Team Sync","description":"Biweekly"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())

	w = do(router, http.MethodGet, path, "")
	require.Equal(t, http.StatusOK, w.Code)
	var updated calendars.Calendar
	decode(t, w, &updated)
	assert.Equal(t, "Biweekly", updated.Description)
	assert.True(t, updated.UpdatedAt.After(updated.CreatedAt))
	assert.True(t, updated.CreatedAt.Equal(created.CreatedAt))

	w = do(router, http.MethodDelete, path, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())

	w = do(router, http.MethodGet, path, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestListCalendars_EmptyIsArray(t *testing.T) {
	router := setupRouter(t)

	w := do(router, http.MethodGet, "/calendars", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestCreateCalendar_EmptyStringsAccepted(t *testing.T) {
	router := setupRouter(t)

	w := do(router, http.MethodPost, "/calendars", `{"name":"","description":""}`)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestCreateCalendar_BadBody(t *testing.T) {
	router := setupRouter(t)

	cases := map[string]string{
		"missing description": `{"name":"x"}`,
		"wrong type":          `{"name":5,"description":"x"}`,
		"malformed":           `{"name":`,
		"null":                `null`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			w := do(router, http.MethodPost, "/calendars", body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))

			var p problem
			decode(t, w, &p)
			assert.Equal(t, errors.CodeInvalidRequest, p.Code)
			assert.Equal(t, http.StatusBadRequest, p.Status)
			assert.NotEmpty(t, p.TraceID)
		})
	}

	w := do(router, http.MethodGet, "/calendars", "")
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestCreateCalendar_MissingFieldNamed(t *testing.T) {
	router := setupRouter(t)

	w := do(router, http.MethodPost, "/calendars", `{"description":"x"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var p problem
	decode(t, w, &p)
	require.Len(t, p.Errors, 1)
	assert.Equal(t, "name", p.Errors[0].Field)
	assert.Equal(t, "required", p.Errors[0].Code)
}

func TestBadIDIsNotFound(t *testing.T) {
	router := setupRouter(t)

	for _, path := range []string{"/calendars/abc", "/calendars/99999999999", "/calendars/1.5"} {
		for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
			w := do(router, method, path, `{"name":"a","description":"b"}`)
			assert.Equal(t, http.StatusNotFound, w.Code, "%s %s", method, path)
			assert.Empty(t, w.Body.String(), "%s %s", method, path)
		}
	}
}

func TestMissingCalendarIsEmptyNotFound(t *testing.T) {
	router := setupRouter(t)

	for _, req := range []struct{ method, path, body string }{
		{http.MethodGet, "/calendars/7", ""},
		{http.MethodGet, "/calendars/name/ghost", ""},
		{http.MethodPut, "/calendars/7", `{"name":"a","description":"b"}`},
		{http.MethodDelete, "/calendars/7", ""},
	} {
		w := do(router, req.method, req.path, req.body)
		assert.Equal(t, http.StatusNotFound, w.Code, "%s %s", req.method, req.path)
		assert.Empty(t, w.Body.String(), "%s %s", req.method, req.path)
	}
}

func TestUpdateCalendar_Missing(t *testing.T) {
	router := setupRouter(t)

	w := do(router, http.MethodPut, "/calendars/42", `{"name":"a","description":"b"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(router, http.MethodGet, "/calendars", "")
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestUpdateCalendar_BadBodyBeforeLookup(t *testing.T) {
	router := setupRouter(t)

	w := do(router, http.MethodPut, "/calendars/42", `{"name":"a"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteCalendar_Missing(t *testing.T) {
	router := setupRouter(t)

	w := do(router, http.MethodDelete, "/calendars/7", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetCalendarByName_Missing(t *testing.T) {
	router := setupRouter(t)

	w := do(router, http.MethodGet, "/calendars/name/ghost", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// failingService returns the same error from every operation.
type failingService struct{ err error }

func (f failingService) List(context.Context) ([]calendars.PartialCalendar, error) {
	return nil, f.err
}
func (f failingService) GetByID(context.Context, int32) (*calendars.Calendar, error) {
	return nil, f.err
}
func (f failingService) GetByName(context.Context, string) (*calendars.Calendar, error) {
	return nil, f.err
}
func (f failingService) Create(context.Context, calendars.Input) (*calendars.Calendar, error) {
	return nil, f.err
}
func (f failingService) Update(context.Context, int32, calendars.Input) error { return f.err }
func (f failingService) Delete(context.Context, int32) (*calendars.DeletedCalendar, error) {
	return nil, f.err
}

func TestStorageErrorsMapToStatus(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"internal", fmt.Errorf("pq: relation does not exist"), http.StatusInternalServerError, errors.CodeInternal},
		{"unavailable", errors.Unavailable.Explain("storage unavailable").Wrap(context.DeadlineExceeded), http.StatusInternalServerError, errors.CodeInternal},
		{"conflict", errors.Conflict.Explain("duplication of key"), http.StatusInternalServerError, errors.CodeInternal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router := api.NewServer(zap.NewNop(), failingService{err: tc.err}).Router()

			for _, req := range []struct{ method, path, body string }{
				{http.MethodGet, "/calendars", ""},
				{http.MethodGet, "/calendars/1", ""},
				{http.MethodGet, "/calendars/name/x", ""},
				{http.MethodPost, "/calendars", `{"name":"a","description":"b"}`},
				{http.MethodPut, "/calendars/1", `{"name":"a","description":"b"}`},
				{http.MethodDelete, "/calendars/1", ""},
			} {
				w := do(router, req.method, req.path, req.body)
				assert.Equal(t, tc.status, w.Code, "%s %s", req.method, req.path)

				var p problem
				decode(t, w, &p)
				assert.Equal(t, tc.code, p.Code)
				assert.NotContains(t, w.Body.String(), "relation does not exist")
				assert.NotContains(t, w.Body.String(), "deadline")
				assert.NotContains(t, w.Body.String(), "unavailable")
				assert.NotContains(t, w.Body.String(), "duplication")
			}
		})
	}
}

func TestExpiredRequestContextIsInternalError(t *testing.T) {
	router := setupRouter(t)

	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()
	req := httptest.NewRequest(http.MethodGet, "/calendars", nil).WithContext(ctx)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var p problem
	decode(t, w, &p)
	assert.Equal(t, errors.CodeInternal, p.Code)
}

func TestTimestampsAreRFC3339(t *testing.T) {
	router := setupRouter(t)
	require.Equal(t, http.StatusCreated, do(router, http.MethodPost, "/calendars", `{"name":"n","description":"d"}`).Code)

	w := do(router, http.MethodGet, "/calendars/name/n", "")
	require.Equal(t, http.StatusOK, w.Code)

	var raw map[string]interface{}
	decode(t, w, &raw)
	for _, key := range []string{"created_at", "updated_at"} {
		s, ok := raw[key].(string)
		require.True(t, ok, key)
		_, err := time.Parse(time.RFC3339Nano, s)
		assert.NoError(t, err, key)
	}
	assert.ElementsMatch(t, []string{"id", "name", "description", "created_at", "updated_at"}, keys(raw))
}

func keys(m map[string]interface{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
