// Copyright 2024-2026 Aiku AI

package mattermostconn

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/mattermost/mattermost/server/public/model"
	"github.com/rs/zerolog"

	"github.com/aiku/botroute/pkg/routing"
)

// endpointCall records which API endpoints were hit during a test.
type endpointCall struct {
	Method string
	Path   string
	Body   string
}

// fakeMM wraps an httptest.Server simulating the subset of the Mattermost
// API this binding talks to. It records calls and serves canned responses.
type fakeMM struct {
	Server *httptest.Server

	mu    sync.Mutex
	calls []endpointCall

	// Me is returned from GET /api/v4/users/me.
	Me *model.User
	// FailEndpoints causes matching path substrings to return 500.
	FailEndpoints map[string]bool
}

func newFakeMM() *fakeMM {
	f := &fakeMM{
		Me:            &model.User{Id: "bot-user-id", Username: "routebot"},
		FailEndpoints: make(map[string]bool),
	}
	f.Server = httptest.NewServer(http.HandlerFunc(f.handler))
	return f
}

func (f *fakeMM) Close() {
	f.Server.Close()
}

func (f *fakeMM) record(method, path, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, endpointCall{Method: method, Path: path, Body: body})
}

func (f *fakeMM) Calls() []endpointCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := make([]endpointCall, len(f.calls))
	copy(cp, f.calls)
	return cp
}

// CreatedPosts decodes every post sent to POST /api/v4/posts.
func (f *fakeMM) CreatedPosts() []*model.Post {
	var posts []*model.Post
	for _, c := range f.Calls() {
		if c.Method == "POST" && c.Path == "/api/v4/posts" {
			var post model.Post
			if err := json.Unmarshal([]byte(c.Body), &post); err == nil {
				posts = append(posts, &post)
			}
		}
	}
	return posts
}

func (f *fakeMM) handler(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	f.record(r.Method, r.URL.Path, string(body))

	for prefix := range f.FailEndpoints {
		if strings.Contains(r.URL.Path, prefix) {
			w.WriteHeader(http.StatusInternalServerError)
			_ = json.NewEncoder(w).Encode(map[string]string{"message": "fake error"})
			return
		}
	}

	switch {
	case r.Method == "GET" && r.URL.Path == "/api/v4/users/me":
		_ = json.NewEncoder(w).Encode(f.Me)

	case r.Method == "POST" && r.URL.Path == "/api/v4/posts":
		var post model.Post
		_ = json.Unmarshal(body, &post)
		post.Id = "created-post-id"
		_ = json.NewEncoder(w).Encode(&post)

	default:
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "not found: " + r.URL.Path})
	}
}

// newWebSocketEvent creates a model.WebSocketEvent for testing the listener.
func newWebSocketEvent(eventType model.WebsocketEventType, channelID string, data map[string]any) *model.WebSocketEvent {
	evt := model.NewWebSocketEvent(eventType, "", channelID, "", nil, "")
	return evt.SetData(data)
}

// newTestListener creates a listener wired to a fake server, with a handler
// that collects delivered activities.
func newTestListener(serverURL string, mentionOnly bool) (*Listener, *activitySink) {
	sink := &activitySink{}
	cfg := &Config{
		ServerURL:   serverURL,
		BotToken:    "test-token",
		BotUserID:   "bot-user-id",
		BotUsername: "routebot",
		MentionOnly: mentionOnly,
	}
	return NewListener(cfg, sink.Handle, zerolog.Nop()), sink
}

type activitySink struct {
	mu         sync.Mutex
	activities []*routing.Activity
}

func (s *activitySink) Handle(activity *routing.Activity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activities = append(s.activities, activity)
}

func (s *activitySink) Activities() []*routing.Activity {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]*routing.Activity, len(s.activities))
	copy(cp, s.activities)
	return cp
}
