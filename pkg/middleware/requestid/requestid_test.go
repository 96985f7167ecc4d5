package requestid

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var fromGin, fromCtx string
	router := gin.New()
	router.Use(Middleware())
	router.GET("/", func(c *gin.Context) {
		fromGin = Value(c)
		fromCtx = FromContext(c.Request.Context())
		c.Status(http.StatusOK)
	})

	cases := map[string]bool{
		"":                     false,
		"abc-123":              true,
		"has space":            false,
		"line\nbreak-injected": false,
	}
	for inbound, reused := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if inbound != "" {
			req.Header[headerKey] = []string{inbound}
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, fromGin, fromCtx)
		assert.Equal(t, fromGin, w.Header().Get(headerKey))
		if reused {
			assert.Equal(t, inbound, fromGin)
			continue
		}
		_, err := uuid.Parse(fromGin)
		assert.NoError(t, err, "inbound %q should be replaced", inbound)
	}
}
