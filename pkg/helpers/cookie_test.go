package helpers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCookieManager_SetAndClear(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := NewCookie("localhost", true)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	m.SetAccess(c, "tok", time.Now().Add(time.Hour))

	cookies := (&http.Response{Header: w.Header()}).Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, AccessCookieName, cookies[0].Name)
	assert.Equal(t, "tok", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.True(t, cookies[0].Secure)
	assert.InDelta(t, 3600, cookies[0].MaxAge, 5)

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	m.Clear(c)
	cookies = (&http.Response{Header: w.Header()}).Cookies()
	require.Len(t, cookies, 1)
	assert.Negative(t, cookies[0].MaxAge)
}

func TestPublicURL(t *testing.T) {
	assert.Equal(t, "https://storage.googleapis.com/bucket/resumes/u1/x.pdf", PublicURL("bucket", "resumes/u1/x.pdf"))
}
