package judge

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/banishment/internal/models"
)

func TestLanguageID(t *testing.T) {
	tests := map[string]int{"JavaScript": 63, "python3": 71, "C++": 54, "csharp": 51, "golang": 60, " Go ": 60, "TypeScript": 74}
	for name, want := range tests {
		got, ok := LanguageID(name)
		assert.True(t, ok, name)
		assert.Equal(t, want, got, name)
	}
	_, ok := LanguageID("brainfuck")
	assert.False(t, ok)
}

func TestClient_Run_AllAccepted(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "/submissions", r.URL.Path)
		assert.Equal(t, "false", r.URL.Query().Get("base64_encoded"))
		assert.Equal(t, "true", r.URL.Query().Get("wait"))
		assert.Equal(t, "secret", r.Header.Get("X-RapidAPI-Key"))
		assert.Equal(t, "judge.example", r.Header.Get("X-RapidAPI-Host"))

		var sub submission
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&sub))
		assert.Equal(t, 71, sub.LanguageID)
		assert.Equal(t, sub.Stdin, sub.ExpectedOutput)

		_, _ = w.Write([]byte(`{"stdout":"ok","status":{"id":3,"description":"Accepted"}}`))
	}))
	defer srv.Close()

	c := New(Options{BaseURL: srv.URL + "/", APIKey: "secret", APIHost: "judge.example"})
	res, err := c.Run(context.Background(), "print(input())", "python", []models.TestCase{
		{Input: "1", ExpectedOutput: "1"},
		{Input: "2", ExpectedOutput: "2"},
	})

	require.NoError(t, err)
	assert.True(t, res.PassedAll)
	assert.Equal(t, -1, res.FailedCase)
	assert.Equal(t, int32(2), calls.Load())
}

func TestClient_Run_StopsAtFirstFailure(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{"stderr":"boom","compile_output":"warning","status":{"id":11,"description":"Runtime Error (NZEC)"}}`))
	}))
	defer srv.Close()

	c := New(Options{BaseURL: srv.URL})
	res, err := c.Run(context.Background(), "x", "javascript", []models.TestCase{{Input: "1"}, {Input: "2"}, {Input: "3"}})

	require.NoError(t, err)
	assert.False(t, res.PassedAll)
	assert.Equal(t, 0, res.FailedCase)
	assert.Equal(t, "Runtime Error (NZEC)\nError: boom\nCompile Output: warning", res.Feedback)
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_Run_ServerErrorIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := New(Options{BaseURL: srv.URL})
	res, err := c.Run(context.Background(), "x", "go", []models.TestCase{{Input: "1"}})

	assert.Error(t, err)
	assert.Nil(t, res)
}

func TestClient_Run_UnsupportedLanguage(t *testing.T) {
	c := New(Options{BaseURL: "http://127.0.0.1:1"})
	res, err := c.Run(context.Background(), "x", "cobol", []models.TestCase{{Input: "1"}})

	require.NoError(t, err)
	assert.False(t, res.PassedAll)
	assert.Contains(t, res.Feedback, "Unsupported language: cobol")
}
