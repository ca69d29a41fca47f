package auth

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fivetwenty-io/clarifai-go/pkg/clarifai"
)

var testNow = time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)

type logEntry struct {
	level  string
	msg    string
	fields map[string]interface{}
}

type recordingLogger struct {
	mutex   sync.Mutex
	entries []logEntry
}

func (l *recordingLogger) record(level, msg string, fields map[string]interface{}) {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	l.entries = append(l.entries, logEntry{level: level, msg: msg, fields: fields})
}

func (l *recordingLogger) Debug(msg string, fields map[string]interface{}) {
	l.record("debug", msg, fields)
}

func (l *recordingLogger) Info(msg string, fields map[string]interface{}) {
	l.record("info", msg, fields)
}

func (l *recordingLogger) Warn(msg string, fields map[string]interface{}) {
	l.record("warn", msg, fields)
}

func (l *recordingLogger) Error(msg string, fields map[string]interface{}) {
	l.record("error", msg, fields)
}

func (l *recordingLogger) warnings() []logEntry {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	var out []logEntry

	for _, entry := range l.entries {
		if entry.level == "warn" {
			out = append(out, entry)
		}
	}

	return out
}

// tokenServer serves the token endpoint and counts the requests it receives.
type tokenServer struct {
	*httptest.Server

	requests atomic.Int32
}

func newTokenServer(t *testing.T, handler http.HandlerFunc) *tokenServer {
	t.Helper()

	ts := &tokenServer{}
	ts.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ts.requests.Add(1)
		handler(w, r)
	}))
	t.Cleanup(ts.Close)

	return ts
}

func newTestManager(ts *tokenServer, logger clarifai.Logger) *ClientCredentialsTokenManager {
	manager := NewClientCredentialsTokenManager(&ClientCredentialsConfig{
		TokenURL:     ts.URL + "/v2/token",
		ClientID:     "client-id",
		ClientSecret: clarifai.NewSecret("client-secret"),
		HTTPClient:   ts.Client(),
		Logger:       logger,
	})
	manager.now = func() time.Time { return testNow }

	return manager
}
