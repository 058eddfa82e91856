package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sony/gobreaker"
	"github.com/soundprediction/musicgraph/pkg/chat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAsker records the question in the session the way chat.Service does.
type fakeAsker struct {
	answer *chat.Answer
	err    error
}

func (f *fakeAsker) Ask(ctx context.Context, session *chat.Session, question string) (*chat.Answer, error) {
	session.Append(chat.Message{Role: chat.RoleUser, Content: question})
	if f.err != nil {
		return f.answer, f.err
	}
	session.Append(chat.Message{Role: chat.RoleAssistant, Content: f.answer.Text, Cypher: f.answer.Cypher})
	return f.answer, nil
}

func newChatRouter(h *ChatHandler) *gin.Engine {
	r := gin.New()
	r.GET("/examples", h.Examples)
	r.POST("/sessions", h.CreateSession)
	r.GET("/sessions/:id", h.GetSession)
	r.DELETE("/sessions/:id", h.ClearSession)
	r.POST("/sessions/:id/messages", h.Ask)
	return r
}

func do(t *testing.T, r http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return w, out
}

func TestSessionStore(t *testing.T) {
	store := NewSessionStore()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s := store.Create()
			got, ok := store.Get(s.ID())
			assert.True(t, ok)
			assert.Same(t, s, got)
		}()
	}
	wg.Wait()

	assert.Equal(t, 20, store.Len())
	_, ok := store.Get("missing")
	assert.False(t, ok)
}

func TestChatSessionLifecycle(t *testing.T) {
	asker := &fakeAsker{answer: &chat.Answer{
		Question: "How many artists?",
		Cypher:   "MATCH (a:Artist) RETURN count(a)",
		Rows:     []map[string]any{{"count(a)": 2}},
		Text:     "There are 2 artists.",
	}}
	r := newChatRouter(NewChatHandler(asker, nil, nil))

	w, created := do(t, r, http.MethodPost, "/sessions", "")
	require.Equal(t, http.StatusCreated, w.Code)
	id := created["id"].(string)
	require.NotEmpty(t, id)

	w, answer := do(t, r, http.MethodPost, "/sessions/"+id+"/messages", `{"question":"How many artists?"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, id, answer["session_id"])
	assert.Equal(t, "There are 2 artists.", answer["answer"])
	assert.Equal(t, "MATCH (a:Artist) RETURN count(a)", answer["cypher"])

	w, view := do(t, r, http.MethodGet, "/sessions/"+id, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, view["messages"], 2)

	w, view = do(t, r, http.MethodDelete, "/sessions/"+id, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, view["messages"])

	w, _ = do(t, r, http.MethodGet, "/sessions/"+id, "")
	assert.Equal(t, http.StatusOK, w.Code, "clearing keeps the session")
}

func TestChatAskValidation(t *testing.T) {
	r := newChatRouter(NewChatHandler(&fakeAsker{answer: &chat.Answer{}}, nil, nil))
	_, created := do(t, r, http.MethodPost, "/sessions", "")
	id := created["id"].(string)

	tests := []struct {
		name string
		path string
		body string
		want int
	}{
		{"unknown session", "/sessions/nope/messages", `{"question":"hi"}`, http.StatusNotFound},
		{"malformed body", "/sessions/" + id + "/messages", `{`, http.StatusBadRequest},
		{"missing question", "/sessions/" + id + "/messages", `{}`, http.StatusBadRequest},
		{"blank question", "/sessions/" + id + "/messages", `{"question":"   "}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, body := do(t, r, http.MethodPost, tt.path, tt.body)
			assert.Equal(t, tt.want, w.Code)
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestChatAskWithoutAsker(t *testing.T) {
	r := newChatRouter(NewChatHandler(nil, nil, nil))
	_, created := do(t, r, http.MethodPost, "/sessions", "")

	w, _ := do(t, r, http.MethodPost, fmt.Sprintf("/sessions/%s/messages", created["id"]), `{"question":"hi"}`)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestChatAskErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"write query", fmt.Errorf("%w: DELETE", chat.ErrWriteQuery), http.StatusUnprocessableEntity},
		{"empty translation", chat.ErrEmptyTranslation, http.StatusUnprocessableEntity},
		{"breaker open", gobreaker.ErrOpenState, http.StatusServiceUnavailable},
		{"timeout", context.DeadlineExceeded, http.StatusGatewayTimeout},
		{"upstream", errors.New("model unavailable"), http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			asker := &fakeAsker{answer: &chat.Answer{Cypher: "MATCH (n) DETACH DELETE n"}, err: tt.err}
			r := newChatRouter(NewChatHandler(asker, nil, nil))
			_, created := do(t, r, http.MethodPost, "/sessions", "")

			w, body := do(t, r, http.MethodPost, fmt.Sprintf("/sessions/%s/messages", created["id"]), `{"question":"wipe"}`)
			assert.Equal(t, tt.want, w.Code)
			assert.Equal(t, "ask_failed", body["error"])
			assert.Equal(t, "MATCH (n) DETACH DELETE n", body["cypher"])
		})
	}
}

func TestChatExamples(t *testing.T) {
	r := newChatRouter(NewChatHandler(nil, nil, nil))
	w, body := do(t, r, http.MethodGet, "/examples", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["questions"], len(chat.ExampleQuestions))
}
