// Package registrytest runs an in-memory schema repository speaking the same
// HTTP surface as the real service, for tests that need a live endpoint.
// Point a client at Server.URL(); state lives only in memory.
package registrytest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/gin-gonic/gin"
)

const contentTypeRegistry = "application/vnd.schemaregistry.v1+json"

// Server is the fake registry. The zero value is not usable; create one with
// New and Close it when done.
type Server struct {
	http  *httptest.Server
	store *store

	// RejectSchema, when set, makes register-style calls answer 403 for any
	// schema text it returns true for. This is how tests exercise the
	// validator-rejection path without a real validator class.
	RejectSchema func(schema string) bool
}

// New starts a fake registry on a random local port.
func New() *Server {
	gin.SetMode(gin.TestMode)

	s := &Server{store: newStore()}

	r := gin.New()
	r.GET("/", s.handleListSubjects)
	r.POST("/:subject", s.handleRegisterSubject)
	r.GET("/:subject", s.handleSubjectExists)
	r.POST("/:subject/register", s.handleRegisterSchema)
	r.POST("/:subject/register_if_latest/*latest", s.handleRegisterIfLatest)
	r.POST("/:subject/schema", s.handleLookupBySchema)
	r.GET("/:subject/id/:id", s.handleLookupByID)
	r.GET("/:subject/latest", s.handleLatest)
	r.GET("/:subject/all", s.handleAll)

	s.http = httptest.NewServer(r)
	return s
}

// URL returns the registry base URL.
func (s *Server) URL() string {
	return s.http.URL
}

// Close shuts the server down. Calls against a closed server fail at the
// transport level, which is how tests simulate an unreachable registry.
func (s *Server) Close() {
	s.http.Close()
}

func (s *Server) handleListSubjects(c *gin.Context) {
	names := s.store.subjectNames()
	c.String(http.StatusOK, strings.Join(names, "\n"))
}

func (s *Server) handleRegisterSubject(c *gin.Context) {
	name := c.Param("subject")
	canonical := s.store.ensureSubject(name, c.PostForm("validator_class"))
	c.String(http.StatusOK, canonical)
}

func (s *Server) handleSubjectExists(c *gin.Context) {
	name := c.Param("subject")
	if !s.store.subjectExists(name) {
		c.String(http.StatusNotFound, "subject %s not found", name)
		return
	}
	c.String(http.StatusOK, name)
}

func (s *Server) handleRegisterSchema(c *gin.Context) {
	schema, ok := s.readSchema(c)
	if !ok {
		return
	}
	id, exists := s.store.register(c.Param("subject"), schema)
	if !exists {
		c.String(http.StatusNotFound, "subject %s not found", c.Param("subject"))
		return
	}
	c.String(http.StatusOK, id)
}

func (s *Server) handleRegisterIfLatest(c *gin.Context) {
	schema, ok := s.readSchema(c)
	if !ok {
		return
	}
	latestID := strings.Trim(c.Param("latest"), "/")
	id, exists, conflict := s.store.registerIfLatest(c.Param("subject"), schema, latestID)
	switch {
	case conflict:
		c.String(http.StatusNotFound, "latest entry is not %q", latestID)
	case !exists:
		c.String(http.StatusNotFound, "subject %s not found", c.Param("subject"))
	default:
		c.String(http.StatusOK, id)
	}
}

func (s *Server) handleLookupBySchema(c *gin.Context) {
	schema, ok := s.readSchema(c)
	if !ok {
		return
	}
	id, found := s.store.findBySchema(c.Param("subject"), schema)
	if !found {
		c.String(http.StatusNotFound, "schema not found")
		return
	}
	c.String(http.StatusOK, id)
}

func (s *Server) handleLookupByID(c *gin.Context) {
	schema, found := s.store.findByID(c.Param("subject"), c.Param("id"))
	if !found {
		c.String(http.StatusNotFound, "id %s not found", c.Param("id"))
		return
	}
	c.String(http.StatusOK, schema)
}

func (s *Server) handleLatest(c *gin.Context) {
	e, found := s.store.latest(c.Param("subject"))
	if !found {
		c.String(http.StatusNotFound, "subject has no entries")
		return
	}
	c.Header("Content-Type", contentTypeRegistry)
	c.JSON(http.StatusOK, e)
}

func (s *Server) handleAll(c *gin.Context) {
	entries, exists := s.store.all(c.Param("subject"))
	if !exists {
		c.String(http.StatusNotFound, "subject %s not found", c.Param("subject"))
		return
	}
	var lines []string
	for _, e := range entries {
		line, _ := json.Marshal(e)
		lines = append(lines, string(line))
	}
	c.Header("Content-Type", contentTypeRegistry)
	c.String(http.StatusOK, strings.Join(lines, "\n"))
}

// readSchema pulls the raw schema text from the request body and applies the
// RejectSchema hook. Returns false when a response has already been written.
func (s *Server) readSchema(c *gin.Context) (string, bool) {
	body, err := c.GetRawData()
	if err != nil || len(body) == 0 {
		c.String(http.StatusBadRequest, "schema body is required")
		return "", false
	}
	schema := string(body)
	if s.RejectSchema != nil && s.RejectSchema(schema) {
		c.String(http.StatusForbidden, "schema failed validation")
		return "", false
	}
	return schema, true
}
