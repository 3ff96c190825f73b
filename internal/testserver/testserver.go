// Package testserver runs a gin engine behind httptest with the routes the
// orchid package tests exercise.
package testserver

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"compress/zlib"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// Echo is the JSON document returned by /echo.
type Echo struct {
	Method  string              `json:"method"`
	Path    string              `json:"path"`
	Query   map[string][]string `json:"query"`
	Headers map[string][]string `json:"headers"`
	Body    string              `json:"body"`
}

// Upload is the JSON document returned by /upload.
type Upload struct {
	Fields map[string]string `json:"fields"`
	Files  map[string]string `json:"files"`
}

// Server is a running test server.
type Server struct {
	*httptest.Server
	Engine *gin.Engine

	mu   sync.Mutex
	hits map[string]int
}

// New starts a server closed when t ends.
func New(t testing.TB) *Server {
	t.Helper()
	s := &Server{Engine: gin.New(), hits: make(map[string]int)}
	s.Engine.Use(s.count)
	s.routes()
	s.Server = httptest.NewServer(s.Engine)
	t.Cleanup(s.Close)
	return s
}

// Hits returns how many requests reached path.
func (s *Server) Hits(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[path]
}

func (s *Server) count(c *gin.Context) {
	s.mu.Lock()
	s.hits[c.Request.URL.Path]++
	s.mu.Unlock()
	c.Next()
}

func (s *Server) routes() {
	r := s.Engine
	r.Any("/echo", echo)
	r.NoRoute(echo)

	r.GET("/json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json", []byte(`{"a":1}`))
	})
	r.GET("/text", func(c *gin.Context) {
		c.String(http.StatusOK, "hello")
	})
	r.GET("/xml", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/xml", []byte(`<a>1</a>`))
	})
	r.GET("/yaml", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/yaml", []byte("name: orchid\ntags: [a, b]\n"))
	})
	r.GET("/latin1", func(c *gin.Context) {
		// "café" in ISO-8859-1
		c.Data(http.StatusOK, "text/plain; charset=iso-8859-1", []byte{'c', 'a', 'f', 0xe9})
	})
	r.GET("/empty", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	r.GET("/status/:code", func(c *gin.Context) {
		code, err := strconv.Atoi(c.Param("code"))
		if err != nil {
			c.String(http.StatusBadRequest, "bad code")
			return
		}
		c.String(code, "status "+c.Param("code"))
	})

	// /redirect/:code?to=/target
	r.Any("/redirect/:code", func(c *gin.Context) {
		code, _ := strconv.Atoi(c.Param("code"))
		to := c.DefaultQuery("to", "/echo")
		c.Header("Location", to)
		c.Status(code)
	})
	// /chain/:n redirects n times before landing on /json
	r.GET("/chain/:n", func(c *gin.Context) {
		n, _ := strconv.Atoi(c.Param("n"))
		if n <= 0 {
			c.Redirect(http.StatusFound, "/json")
			return
		}
		c.Redirect(http.StatusFound, "/chain/"+strconv.Itoa(n-1))
	})

	// /slow?delay=500ms
	r.GET("/slow", func(c *gin.Context) {
		d, err := time.ParseDuration(c.DefaultQuery("delay", "500ms"))
		if err != nil {
			d = 500 * time.Millisecond
		}
		select {
		case <-time.After(d):
			c.String(http.StatusOK, "done")
		case <-c.Request.Context().Done():
		}
	})

	r.GET("/gzip", compressed("gzip", func(w io.Writer) io.WriteCloser { return gzip.NewWriter(w) }))
	r.GET("/deflate", compressed("deflate", func(w io.Writer) io.WriteCloser { return zlib.NewWriter(w) }))
	r.GET("/deflate-raw", compressed("deflate", func(w io.Writer) io.WriteCloser {
		fw, _ := flate.NewWriter(w, flate.DefaultCompression)
		return fw
	}))

	r.GET("/events", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/event-stream",
			[]byte("id: 1\nevent: greeting\ndata: hello\n\nid: 2\ndata: world\n\n"))
	})

	r.GET("/cookie/set", func(c *gin.Context) {
		c.SetCookie("session", "s3cr3t", 3600, "/", "", false, true)
		c.Status(http.StatusNoContent)
	})
	r.GET("/cookie/get", func(c *gin.Context) {
		v, err := c.Cookie("session")
		if err != nil {
			c.String(http.StatusUnauthorized, "no session")
			return
		}
		c.String(http.StatusOK, v)
	})

	r.POST("/upload", func(c *gin.Context) {
		form, err := c.MultipartForm()
		if err != nil {
			c.String(http.StatusBadRequest, err.Error())
			return
		}
		out := Upload{Fields: map[string]string{}, Files: map[string]string{}}
		for k, v := range form.Value {
			out.Fields[k] = v[0]
		}
		for k, fhs := range form.File {
			f, err := fhs[0].Open()
			if err != nil {
				c.String(http.StatusInternalServerError, err.Error())
				return
			}
			data, _ := io.ReadAll(f)
			_ = f.Close()
			out.Files[k] = fhs[0].Filename + ":" + string(data)
		}
		c.JSON(http.StatusOK, out)
	})
}

func echo(c *gin.Context) {
	body, _ := io.ReadAll(c.Request.Body)
	headers := make(map[string][]string, len(c.Request.Header))
	for k, v := range c.Request.Header {
		headers[k] = v
	}
	if c.Request.Host != "" {
		headers["Host"] = []string{c.Request.Host}
	}
	c.JSON(http.StatusOK, Echo{
		Method:  c.Request.Method,
		Path:    c.Request.URL.Path,
		Query:   c.Request.URL.Query(),
		Headers: headers,
		Body:    string(body),
	})
}

func compressed(encoding string, wrap func(io.Writer) io.WriteCloser) gin.HandlerFunc {
	return func(c *gin.Context) {
		var buf bytes.Buffer
		w := wrap(&buf)
		_, _ = w.Write([]byte(`{"compressed":true}`))
		_ = w.Close()
		c.Header("Content-Encoding", encoding)
		c.Data(http.StatusOK, "application/json", buf.Bytes())
	}
}
