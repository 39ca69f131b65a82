package crpt

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KOMKZ/go-crpt-client/limiter"
	"github.com/KOMKZ/go-crpt-client/testutil"
)

func TestCreateDocuments(t *testing.T) {
	stub := testutil.NewStubAPI("accepted")
	defer stub.Close()

	client := newTestClient(t, stub, limiter.Config{
		Unit: limiter.UnitSecond, Capacity: 4, Backoff: 20 * time.Millisecond,
	})

	docs := make([]Document, 4)
	for i := range docs {
		docs[i] = *testDocument()
	}

	results, err := client.CreateDocuments(context.Background(), docs, "sig")
	require.NoError(t, err)
	require.Len(t, results, 4)

	for i, res := range results {
		assert.Equal(t, i, res.Index)
		assert.NoError(t, res.Err)
		assert.Equal(t, "accepted", res.Body)
	}
	assert.Equal(t, 4, stub.RequestCount())
}

func TestCreateDocuments_PartialFailure(t *testing.T) {
	stub := testutil.NewStubAPI("")
	defer stub.Close()
	stub.SetResponse(http.StatusConflict, "duplicate")

	client := newTestClient(t, stub, limiter.Config{
		Unit: limiter.UnitSecond, Capacity: 3, Backoff: 20 * time.Millisecond,
	})

	docs := []Document{*testDocument(), *testDocument()}
	results, err := client.CreateDocuments(context.Background(), docs, "sig")
	require.NoError(t, err)
	require.Len(t, results, 2)

	for _, res := range results {
		require.Error(t, res.Err)
		assert.Equal(t, http.StatusConflict, UpstreamStatus(res.Err))
	}

	// failures never strand permits
	assert.Equal(t, int64(0), client.Limiter().Snapshot().InFlight)
}

func TestCreateDocuments_Empty(t *testing.T) {
	stub := testutil.NewStubAPI("ok")
	defer stub.Close()

	client := newTestClient(t, stub, limiter.Config{
		Unit: limiter.UnitSecond, Capacity: 1, Backoff: 20 * time.Millisecond,
	})

	results, err := client.CreateDocuments(context.Background(), nil, "sig")
	require.NoError(t, err)
	assert.Nil(t, results)
	assert.Equal(t, 0, stub.RequestCount())
}
