package chat

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nuitbot/internal/models"
)

type stubAsker struct {
	result *models.EvaluationResponse
	err    error
	calls  int
	last   string
}

func (s *stubAsker) Ask(ctx context.Context, question string) (*models.EvaluationResponse, error) {
	s.calls++
	s.last = question
	return s.result, s.err
}

func newTestHandler(asker *stubAsker) (*Handler, *Store) {
	store := NewStore(time.Hour)
	return NewHandler(store, asker, false), store
}

func sessionCookieFrom(t *testing.T, rr *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rr.Result().Cookies() {
		if c.Name == sessionCookie {
			return c
		}
	}
	t.Fatalf("no %s cookie set", sessionCookie)
	return nil
}

func postForm(h http.Handler, path string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func getPage(h http.Handler, path string, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestIndex_NewVisitorGetsSession(t *testing.T) {
	h, store := newTestHandler(&stubAsker{})
	rr := getPage(h.Routes(), "/", nil)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "text/html")
	c := sessionCookieFrom(t, rr)
	assert.True(t, c.HttpOnly)
	assert.Equal(t, 1, store.Len())
	assert.Contains(t, rr.Body.String(), "La Nuit de l&#39;Info Assistant")
}

func TestAsk_SuccessAppendsTurn(t *testing.T) {
	asker := &stubAsker{result: &models.EvaluationResponse{
		Response:   "A simple and scalable dashboard with real time data.",
		Evaluation: models.Evaluation{Simplicity: true, TechnicalRelevance: true, TechnicalBonus: true},
	}}
	h, store := newTestHandler(asker)
	routes := h.Routes()

	cookie := sessionCookieFrom(t, getPage(routes, "/", nil))
	rr := postForm(routes, "/ask", url.Values{"question": {"  How should I design the dashboard?  "}}, cookie)

	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/", rr.Header().Get("Location"))
	assert.Equal(t, "How should I design the dashboard?", asker.last)

	snap := store.Get(cookie.Value).Snapshot()
	require.Len(t, snap.Messages, 2)
	assert.Equal(t, 1, snap.Tally.TechnicalRelevance)

	page := getPage(routes, "/", cookie).Body.String()
	assert.Contains(t, page, "How should I design the dashboard?")
	assert.Contains(t, page, "A simple and scalable dashboard with real time data.")
	assert.Contains(t, page, "✅ Simplicity")
	assert.Contains(t, page, "❌ Creative Bonus")
}

func TestAsk_FailureShowsErrorOnce(t *testing.T) {
	asker := &stubAsker{err: &TransportError{Status: 503, Code: "GENERATION_FAILED", Message: "generation failed: quota exceeded"}}
	h, store := newTestHandler(asker)
	routes := h.Routes()

	cookie := sessionCookieFrom(t, getPage(routes, "/", nil))
	postForm(routes, "/ask", url.Values{"question": {"hello"}}, cookie)

	assert.Empty(t, store.Get(cookie.Value).Snapshot().Messages)

	page := getPage(routes, "/", cookie).Body.String()
	assert.Contains(t, page, "generation failed: quota exceeded")

	page = getPage(routes, "/", cookie).Body.String()
	assert.NotContains(t, page, "generation failed: quota exceeded")
}

func TestAsk_UnexpectedErrorIsGeneric(t *testing.T) {
	h, store := newTestHandler(&stubAsker{err: errors.New("internal detail")})
	routes := h.Routes()

	cookie := sessionCookieFrom(t, getPage(routes, "/", nil))
	postForm(routes, "/ask", url.Values{"question": {"hello"}}, cookie)

	assert.Equal(t, "an unexpected error occurred", store.Get(cookie.Value).TakeError())
}

func TestAsk_EmptyQuestionIgnored(t *testing.T) {
	asker := &stubAsker{}
	h, _ := newTestHandler(asker)

	rr := postForm(h.Routes(), "/ask", url.Values{"question": {"   "}}, nil)

	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Zero(t, asker.calls)
}

func TestReset_DiscardsSession(t *testing.T) {
	asker := &stubAsker{result: &models.EvaluationResponse{Response: "ok"}}
	h, store := newTestHandler(asker)
	routes := h.Routes()

	cookie := sessionCookieFrom(t, getPage(routes, "/", nil))
	postForm(routes, "/ask", url.Values{"question": {"hello"}}, cookie)

	rr := postForm(routes, "/reset", nil, cookie)

	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, 0, store.Len())
	expired := sessionCookieFrom(t, rr)
	assert.Equal(t, -1, expired.MaxAge)
}

func TestTally_ReturnsCounts(t *testing.T) {
	asker := &stubAsker{result: &models.EvaluationResponse{
		Response:   "ok",
		Evaluation: models.Evaluation{TechnicalRelevance: true, CreativeBonus: true},
	}}
	h, _ := newTestHandler(asker)
	routes := h.Routes()

	cookie := sessionCookieFrom(t, getPage(routes, "/", nil))
	postForm(routes, "/ask", url.Values{"question": {"one"}}, cookie)
	postForm(routes, "/ask", url.Values{"question": {"two"}}, cookie)

	rr := getPage(routes, "/tally", cookie)
	require.Equal(t, http.StatusOK, rr.Code)

	var got models.Tally
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
	assert.Equal(t, 2, got.Evaluations)
	assert.Equal(t, 2, got.TechnicalRelevance)
	assert.Equal(t, 2, got.CreativeBonus)
	assert.Zero(t, got.Simplicity)
}

func TestNewPageData_ScalesBars(t *testing.T) {
	snap := Snapshot{
		Evaluations: []models.Evaluation{{TechnicalRelevance: true}, {TechnicalRelevance: true, Simplicity: true}},
	}
	snap.Tally = tally(snap.Evaluations)

	data := newPageData(snap)

	require.Len(t, data.Bars, 4)
	assert.Equal(t, 50, data.Bars[0].Percent)
	assert.Equal(t, 100, data.Bars[1].Percent)
	assert.Equal(t, 0, data.Bars[3].Percent)
	assert.Equal(t, 2, data.TechnicalScore)
	assert.Len(t, data.Latest, 4)
}
