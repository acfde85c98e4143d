package rpc

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	kind, ok := Lookup(ThreadsGetMany)
	require.True(t, ok)
	assert.Equal(t, Query, kind)
	assert.Equal(t, http.MethodGet, kind.Method())

	kind, ok = Lookup(ThreadsDelete)
	require.True(t, ok)
	assert.Equal(t, Mutation, kind)
	assert.Equal(t, http.MethodPost, kind.Method())
	assert.Equal(t, "mutation", kind.String())

	_, ok = Lookup("threads.archive")
	assert.False(t, ok)
}

func TestCodeForStatus(t *testing.T) {
	assert.Equal(t, CodeBadRequest, CodeForStatus(http.StatusBadRequest))
	assert.Equal(t, CodeNotFound, CodeForStatus(http.StatusNotFound))
	assert.Equal(t, CodeBadGateway, CodeForStatus(http.StatusBadGateway))
	assert.Equal(t, CodeInternal, CodeForStatus(http.StatusTeapot))
}

func TestResponseShape(t *testing.T) {
	data, err := json.Marshal(Response{Result: Result{Data: map[string]bool{"success": true}}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"result":{"data":{"success":true}}}`, string(data))

	var raw RawResponse
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.JSONEq(t, `{"success":true}`, string(raw.Result.Data))
}

func TestPath(t *testing.T) {
	assert.Equal(t, "/rpc/threads.create", Path("/rpc/", ThreadsCreate))
}

func TestIsProcedurePath(t *testing.T) {
	assert.True(t, IsProcedurePath("/rpc/"+ThreadsGetMany))
	assert.False(t, IsProcedurePath("/rpc"))
	assert.False(t, IsProcedurePath("/rpcx/threads.getMany"))
	assert.False(t, IsProcedurePath("/api/v1/threads"))
}
