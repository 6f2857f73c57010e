package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timofei-ponomarev/tp-client/pkg/tp"
)

func metadataHandler(hits *int32, names ...string) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		if request.URL.Path != "/api/v1/Index/meta" {
			writer.WriteHeader(http.StatusNotFound)

			return
		}

		atomic.AddInt32(hits, 1)

		items := make([]map[string]string, 0, len(names))
		for _, name := range names {
			items = append(items, map[string]string{"Name": name})
		}

		_ = json.NewEncoder(writer).Encode(map[string]interface{}{"Items": items})
	}
}

func TestValidateEntityType_KnownType(t *testing.T) {
	t.Parallel()

	var hits int32

	server := httptest.NewServer(metadataHandler(&hits, "UserStory", "Bug", "CustomRisk"))
	defer server.Close()

	client := NewTestClient(server.URL)

	canonical, err := client.ValidateEntityType(context.Background(), "UserStory")
	require.NoError(t, err)
	assert.Equal(t, "UserStory", canonical)

	// Custom instance-specific types come from discovery.
	canonical, err = client.ValidateEntityType(context.Background(), "customrisk")
	require.NoError(t, err)
	assert.Equal(t, "CustomRisk", canonical)
}

func TestValidateEntityType_UnknownType(t *testing.T) {
	t.Parallel()

	var hits int32

	server := httptest.NewServer(metadataHandler(&hits, "UserStory", "Bug"))
	defer server.Close()

	client := NewTestClient(server.URL)

	_, err := client.ValidateEntityType(context.Background(), "Widget")
	require.Error(t, err)
	assert.True(t, tp.IsInvalidEntityType(err))
	assert.Contains(t, err.Error(), "Widget")
	assert.Contains(t, err.Error(), "UserStory")
}

func TestValidateEntityType_SingleFlight(t *testing.T) {
	t.Parallel()

	var hits int32

	slow := func(next http.HandlerFunc) http.HandlerFunc {
		return func(writer http.ResponseWriter, request *http.Request) {
			time.Sleep(50 * time.Millisecond)
			next(writer, request)
		}
	}

	server := httptest.NewServer(slow(metadataHandler(&hits, "UserStory", "Bug")))
	defer server.Close()

	client := NewTestClient(server.URL)

	var wg sync.WaitGroup

	const concurrency = 8

	errs := make([]error, concurrency)

	for i := 0; i < concurrency; i++ {
		wg.Add(1)

		go func(i int) {
			defer wg.Done()

			_, errs[i] = client.ValidateEntityType(context.Background(), "Bug")
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}

	assert.Equal(t, int32(1), atomic.LoadInt32(&hits), "concurrent validators must share one discovery call")
}

func TestValidateEntityType_RefreshAfterTTLExpiry(t *testing.T) {
	t.Parallel()

	var hits int32

	server := httptest.NewServer(metadataHandler(&hits, "UserStory"))
	defer server.Close()

	client := NewTestClient(server.URL)
	client.typesTTL = 20 * time.Millisecond

	_, err := client.ValidateEntityType(context.Background(), "UserStory")
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))

	// Within the TTL the cached list is served.
	_, err = client.ValidateEntityType(context.Background(), "UserStory")
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))

	time.Sleep(30 * time.Millisecond)

	_, err = client.ValidateEntityType(context.Background(), "UserStory")
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits), "expired cache must trigger exactly one new refresh")
}

func TestValidateEntityType_FallsBackToStaticList(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewTestClient(server.URL)

	canonical, err := client.ValidateEntityType(context.Background(), "UserStory")
	require.NoError(t, err)
	assert.Equal(t, "UserStory", canonical)

	types, err := client.GetValidEntityTypes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StaticEntityTypes, types)
}

func TestValidateEntityType_FallbackOnEmptyDiscovery(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		_ = json.NewEncoder(writer).Encode(map[string]interface{}{"Items": []interface{}{}})
	}))
	defer server.Close()

	client := NewTestClient(server.URL)

	canonical, err := client.ValidateEntityType(context.Background(), "Bug")
	require.NoError(t, err)
	assert.Equal(t, "Bug", canonical)
}

func TestValidateEntityType_FallbackCountsAsRefresh(t *testing.T) {
	t.Parallel()

	var hits int32

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		atomic.AddInt32(&hits, 1)
		writer.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewTestClient(server.URL)

	_, err := client.ValidateEntityType(context.Background(), "UserStory")
	require.NoError(t, err)

	first := atomic.LoadInt32(&hits)

	// A second validation inside the TTL must not hit the remote again:
	// the fallback updated the timestamp.
	_, err = client.ValidateEntityType(context.Background(), "UserStory")
	require.NoError(t, err)
	assert.Equal(t, first, atomic.LoadInt32(&hits))
}

func TestGetValidEntityTypes_UsesCache(t *testing.T) {
	t.Parallel()

	var hits int32

	server := httptest.NewServer(metadataHandler(&hits, "UserStory", "Bug"))
	defer server.Close()

	client := NewTestClient(server.URL)

	types, err := client.GetValidEntityTypes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"UserStory", "Bug"}, types)

	_, err = client.GetValidEntityTypes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}
