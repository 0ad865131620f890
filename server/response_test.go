package server

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPaginationRoundsUp(t *testing.T) {
	p := newPagination(1, 20, 41)
	assert.Equal(t, 3, p.Pages)

	p = newPagination(1, 20, 40)
	assert.Equal(t, 2, p.Pages)

	p = newPagination(1, 20, 0)
	assert.Equal(t, 0, p.Pages)

	p = newPagination(2, 7, 8)
	assert.Equal(t, 2, p.Pages)
	assert.Equal(t, 2, p.Page)
	assert.Equal(t, 7, p.Limit)
	assert.Equal(t, int64(8), p.Total)
}

func TestRespondDataEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	respondData(rec, 201, map[string]interface{}{"id": 1})

	assert.Equal(t, 201, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
	assert.NotNil(t, body["data"])
	assert.Nil(t, body["error"])
}

func TestRespondErrorEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	respondError(rec, 404, "Track not found")

	assert.Equal(t, 404, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Track not found", body["error"])
	assert.Nil(t, body["data"])
}
