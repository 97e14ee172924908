package util

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestSuccessAndError(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	Success(c, Response{"n": 1})

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, float64(CodeOK), body["code"])
	assert.Equal(t, float64(1), body["data"].(map[string]interface{})["n"])

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	Error(c, http.StatusNotFound, CodeNotFound, "missing")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "missing")
}

func TestPage(t *testing.T) {
	cases := []struct {
		query      string
		wantPage   int
		wantOffset int
	}{
		{"", 1, 0},
		{"?page=3", 3, 40},
		{"?page=-2", 1, 0},
		{"?page=x", 1, 0},
	}
	for _, tc := range cases {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/"+tc.query, nil)
		page, offset := Page(c, 20)
		assert.Equal(t, tc.wantPage, page, tc.query)
		assert.Equal(t, tc.wantOffset, offset, tc.query)
	}
}
