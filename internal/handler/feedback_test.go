package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeedbackAccepted(t *testing.T) {
	c, rec := request(t, http.MethodPost, "/api/feedback", map[string]string{
		"feedback": "검색이 너무 느려요",
	})
	require.NoError(t, Feedback(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	decodeBody(t, rec, &body)
	assert.Equal(t, "feedback received", body["message"])
}

func TestFeedbackRejectsEmpty(t *testing.T) {
	for _, body := range []map[string]string{
		{},
		{"feedback": "   "},
	} {
		c, rec := request(t, http.MethodPost, "/api/feedback", body)
		require.NoError(t, Feedback(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	}
}

func TestHealth(t *testing.T) {
	c, rec := request(t, http.MethodGet, "/healthz", nil)
	require.NoError(t, Health(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}
