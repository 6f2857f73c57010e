package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timofei-ponomarev/tp-client/pkg/tp"
)

func TestFetchMetadata(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/api/v1/Index/meta", request.URL.Path)
		assert.Equal(t, "json", request.URL.Query().Get("format"))

		_, _ = writer.Write([]byte(`{"Items":[{"Name":"UserStory","Description":"A user story"},{"Name":"Bug"}]}`))
	}))
	defer server.Close()

	client := NewTestClient(server.URL)

	doc, err := client.FetchMetadata(context.Background())
	require.NoError(t, err)
	require.Len(t, doc.Items, 2)
	assert.Equal(t, "UserStory", doc.Items[0].Name)
	assert.Equal(t, "A user story", doc.Items[0].Description)
	assert.Equal(t, []string{"UserStory", "Bug"}, doc.TypeNames())
}

func TestFetchMetadata_RepairsConcatenatedObjects(t *testing.T) {
	t.Parallel()

	// The metadata endpoint has been observed to emit adjacent objects
	// with the separating comma missing.
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		_, _ = writer.Write([]byte(`{"Items":[{"Name":"UserStory"}{"Name":"Bug"}]}`))
	}))
	defer server.Close()

	client := NewTestClient(server.URL)

	doc, err := client.FetchMetadata(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"UserStory", "Bug"}, doc.TypeNames())
}

func TestFetchMetadata_ParseErrorAfterRepair(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		_, _ = writer.Write([]byte(`{"Items": not json at all`))
	}))
	defer server.Close()

	client := NewTestClient(server.URL)

	_, err := client.FetchMetadata(context.Background())
	require.Error(t, err)

	parseErr := &tp.ParseError{}
	require.ErrorAs(t, err, &parseErr)
}

func TestFetchMetadata_ServesFromResponseCache(t *testing.T) {
	t.Parallel()

	var hits int32

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		atomic.AddInt32(&hits, 1)
		_, _ = writer.Write([]byte(`{"Items":[{"Name":"UserStory"}]}`))
	}))
	defer server.Close()

	client := NewTestClient(server.URL)
	client.responseCache = tp.NewMemoryCache(4)
	client.typesTTL = time.Hour

	_, err := client.FetchMetadata(context.Background())
	require.NoError(t, err)

	_, err = client.FetchMetadata(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}
