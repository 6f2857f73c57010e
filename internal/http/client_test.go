package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tphttp "github.com/timofei-ponomarev/tp-client/internal/http"
	"github.com/timofei-ponomarev/tp-client/pkg/tp"
)

// MockLogger for testing.
type MockLogger struct {
	logs []map[string]interface{}
}

func (l *MockLogger) Debug(msg string, fields map[string]interface{}) {
	l.logs = append(l.logs, map[string]interface{}{"level": "debug", "msg": msg, "fields": fields})
}

func (l *MockLogger) Info(msg string, fields map[string]interface{}) {
	l.logs = append(l.logs, map[string]interface{}{"level": "info", "msg": msg, "fields": fields})
}

func (l *MockLogger) Warn(msg string, fields map[string]interface{}) {
	l.logs = append(l.logs, map[string]interface{}{"level": "warn", "msg": msg, "fields": fields})
}

func (l *MockLogger) Error(msg string, fields map[string]interface{}) {
	l.logs = append(l.logs, map[string]interface{}{"level": "error", "msg": msg, "fields": fields})
}

func fastRetry(attempts int) tphttp.Option {
	return tphttp.WithRetryPolicy(tp.RetryPolicy{
		MaxAttempts:   attempts,
		InitialDelay:  time.Millisecond,
		BackoffFactor: 2,
	})
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestClient_Do(t *testing.T) {
	t.Parallel()
	t.Run("successful request", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "/api/v1/UserStorys", request.URL.Path)
			assert.Equal(t, "GET", request.Method)
			assert.Equal(t, "test-token", request.URL.Query().Get("access_token"))
			assert.Equal(t, "application/json", request.Header.Get("Accept"))

			response := map[string]string{"Name": "test-story"}
			_ = json.NewEncoder(writer).Encode(response)
		}))
		defer server.Close()

		client := tphttp.NewClient(server.URL, tphttp.WithAccessToken("test-token"))

		resp, err := client.Do(context.Background(), &tphttp.Request{
			Method: "GET",
			Path:   "/api/v1/UserStorys",
		})
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)

		var result map[string]string

		err = json.Unmarshal(resp.Body, &result)
		require.NoError(t, err)
		assert.Equal(t, "test-story", result["Name"])
	})

	t.Run("request with query parameters", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "name eq 'Foo'", request.URL.Query().Get("where"))
			assert.Equal(t, "25", request.URL.Query().Get("take"))
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := tphttp.NewClient(server.URL)

		resp, err := client.Do(context.Background(), &tphttp.Request{
			Method: "GET",
			Path:   "/api/v1/Bugs",
			Query: url.Values{
				"where": []string{"name eq 'Foo'"},
				"take":  []string{"25"},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
	})

	t.Run("request with body", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "POST", request.Method)
			assert.Equal(t, "application/json", request.Header.Get("Content-Type"))

			var body map[string]string

			_ = json.NewDecoder(request.Body).Decode(&body)
			assert.Equal(t, "new story", body["Name"])

			writer.WriteHeader(http.StatusCreated)
		}))
		defer server.Close()

		client := tphttp.NewClient(server.URL)

		resp, err := client.Post(context.Background(), "/api/v1/UserStorys", map[string]string{"Name": "new story"})
		require.NoError(t, err)
		assert.Equal(t, 201, resp.StatusCode)
	})

	t.Run("basic auth", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			username, password, ok := request.BasicAuth()
			assert.True(t, ok)
			assert.Equal(t, "admin", username)
			assert.Equal(t, "secret", password)
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := tphttp.NewClient(server.URL, tphttp.WithBasicAuth("admin", "secret"))

		_, err := client.Get(context.Background(), "/api/v1/Projects", nil)
		require.NoError(t, err)
	})

	t.Run("custom headers", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "custom-value", request.Header.Get("X-Custom-Header"))
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := tphttp.NewClient(server.URL)

		resp, err := client.Do(context.Background(), &tphttp.Request{
			Method: "GET",
			Path:   "/api/v1/Projects",
			Headers: map[string]string{
				"X-Custom-Header": "custom-value",
			},
		})
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
	})

	t.Run("with debug logging", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusOK)
			_ = json.NewEncoder(writer).Encode(map[string]string{"result": "ok"})
		}))
		defer server.Close()

		logger := &MockLogger{}
		client := tphttp.NewClient(server.URL, tphttp.WithLogger(logger), tphttp.WithDebug(true))

		_, err := client.Get(context.Background(), "/api/v1/Projects", nil)
		require.NoError(t, err)

		assert.Len(t, logger.logs, 2)
		assert.Equal(t, "HTTP Request", logger.logs[0]["msg"])
		assert.Equal(t, "HTTP Response", logger.logs[1]["msg"])
	})

	t.Run("error message extracted from body", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(writer).Encode(map[string]string{"Message": "bad where clause"})
		}))
		defer server.Close()

		client := tphttp.NewClient(server.URL)

		resp, err := client.Get(context.Background(), "/api/v1/Bugs", nil)
		require.Error(t, err)
		assert.Equal(t, 400, resp.StatusCode)

		apiErr := &tp.APIError{}
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, "bad where clause", apiErr.Message)
	})

	t.Run("error message falls back to status text", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		client := tphttp.NewClient(server.URL)

		_, err := client.Get(context.Background(), "/api/v1/Bugs", nil)
		require.Error(t, err)

		apiErr := &tp.APIError{}
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, "Unauthorized", apiErr.Message)
	})
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestClient_RetryLogic(t *testing.T) {
	t.Parallel()
	t.Run("retries on 5xx then succeeds", func(t *testing.T) {
		t.Parallel()

		attempts := 0

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			attempts++
			if attempts < 3 {
				writer.WriteHeader(http.StatusInternalServerError)
			} else {
				writer.WriteHeader(http.StatusOK)
			}
		}))
		defer server.Close()

		client := tphttp.NewClient(server.URL, fastRetry(3))

		resp, err := client.Get(context.Background(), "/api/v1/Bugs", nil)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
		assert.Equal(t, 3, attempts)
	})

	t.Run("persistent 5xx exhausts the budget", func(t *testing.T) {
		t.Parallel()

		attempts := 0

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			attempts++

			writer.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		client := tphttp.NewClient(server.URL, fastRetry(3))

		_, err := client.Get(context.Background(), "/api/v1/Bugs", nil)
		require.Error(t, err)
		assert.Equal(t, 3, attempts)

		exhaustedErr := &tp.RetriesExhaustedError{}
		require.ErrorAs(t, err, &exhaustedErr)
		assert.Equal(t, 3, exhaustedErr.Attempts)

		apiErr := &tp.APIError{}
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, 500, apiErr.StatusCode)
	})

	t.Run("does not retry on 400", func(t *testing.T) {
		t.Parallel()

		attempts := 0

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			attempts++

			writer.WriteHeader(http.StatusBadRequest)
		}))
		defer server.Close()

		client := tphttp.NewClient(server.URL, fastRetry(3))

		_, err := client.Get(context.Background(), "/api/v1/Bugs", nil)
		require.Error(t, err)
		assert.Equal(t, 1, attempts)
		assert.False(t, tp.IsRetriesExhausted(err))
	})

	t.Run("does not retry on 401", func(t *testing.T) {
		t.Parallel()

		attempts := 0

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			attempts++

			writer.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		client := tphttp.NewClient(server.URL, fastRetry(3))

		_, err := client.Get(context.Background(), "/api/v1/Bugs", nil)
		require.Error(t, err)
		assert.Equal(t, 1, attempts)
		assert.True(t, tp.IsUnauthorized(err))
	})

	t.Run("retries on rate limiting", func(t *testing.T) {
		t.Parallel()

		attempts := 0

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			attempts++
			if attempts < 2 {
				writer.WriteHeader(http.StatusTooManyRequests)
			} else {
				writer.WriteHeader(http.StatusOK)
			}
		}))
		defer server.Close()

		client := tphttp.NewClient(server.URL, fastRetry(3))

		resp, err := client.Get(context.Background(), "/api/v1/Bugs", nil)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
		assert.Equal(t, 2, attempts)
	})

	t.Run("single attempt policy never retries", func(t *testing.T) {
		t.Parallel()

		attempts := 0

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			attempts++

			writer.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		client := tphttp.NewClient(server.URL, fastRetry(1))

		_, err := client.Get(context.Background(), "/api/v1/Bugs", nil)
		require.Error(t, err)
		assert.Equal(t, 1, attempts)
	})
}
