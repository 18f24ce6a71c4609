package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/calderahq/caldera/internal/engine"
)

func (s *Server) list(c *gin.Context) {
	sc, ok := s.scope(c)
	if !ok {
		return
	}
	req, err := queryRequest(c)
	if err != nil {
		s.fail(c, err)
		return
	}

	res, err := s.engine.Query(sc, *req)
	if err != nil {
		s.fail(c, err)
		return
	}
	if req.CountOnly {
		c.JSON(http.StatusOK, gin.H{"count": res.Total})
		return
	}
	if req.First {
		c.JSON(http.StatusOK, res.Records[0])
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) get(c *gin.Context) {
	sc, ok := s.scope(c)
	if !ok {
		return
	}
	id, err := recordID(c)
	if err != nil {
		s.fail(c, err)
		return
	}

	record, err := s.engine.FindByID(sc, id, c.Query("timestamps") != "")
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

func (s *Server) create(c *gin.Context) {
	sc, ok := s.scope(c)
	if !ok {
		return
	}
	values, opts, err := writeBody(c)
	if err != nil {
		s.fail(c, err)
		return
	}

	record, err := s.engine.Create(sc, values, opts)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, record)
}

func (s *Server) update(c *gin.Context) {
	sc, ok := s.scope(c)
	if !ok {
		return
	}
	id, err := recordID(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	values, opts, err := writeBody(c)
	if err != nil {
		s.fail(c, err)
		return
	}

	record, err := s.engine.Update(sc, id, values, opts)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

func (s *Server) remove(c *gin.Context) {
	s.recordAction(c, func(sc *engine.Scope, id int64) error {
		return s.engine.Delete(sc, id, c.Query("force") != "")
	})
}

func (s *Server) publish(c *gin.Context) {
	s.recordAction(c, func(sc *engine.Scope, id int64) error {
		return s.engine.Publish(sc, id, nil)
	})
}

func (s *Server) unpublish(c *gin.Context) {
	s.recordAction(c, func(sc *engine.Scope, id int64) error {
		return s.engine.Unpublish(sc, id)
	})
}

func (s *Server) restore(c *gin.Context) {
	s.recordAction(c, func(sc *engine.Scope, id int64) error {
		return s.engine.Restore(sc, id)
	})
}

func (s *Server) recordAction(c *gin.Context, action func(*engine.Scope, int64) error) {
	sc, ok := s.scope(c)
	if !ok {
		return
	}
	id, err := recordID(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	if err := action(sc, id); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) scope(c *gin.Context) (*engine.Scope, bool) {
	sc, err := s.engine.ResolveScope(c.Param("project"), c.Param("collection"))
	if err != nil {
		s.fail(c, err)
		return nil, false
	}
	return sc, true
}

func recordID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, errBadID
	}
	return id, nil
}

// queryRequest builds an engine request from the query string. The where
// and where_relation parameters carry JSON.
func queryRequest(c *gin.Context) (*engine.Request, error) {
	req := &engine.Request{
		Sort:           c.Query("sort"),
		Search:         c.Query("q"),
		State:          engine.ParseState(c.Query("state")),
		CountOnly:      c.Query("count") != "",
		First:          c.Query("first") != "",
		WithTimestamps: c.Query("timestamps") != "",
	}

	if raw := c.Query("where"); raw != "" {
		var filter any
		if err := json.Unmarshal([]byte(raw), &filter); err != nil {
			return nil, errBadWhere
		}
		req.Filter = filter
	}
	if raw := c.Query("where_relation"); raw != "" {
		var rel map[string]map[string]string
		if err := json.Unmarshal([]byte(raw), &rel); err != nil {
			return nil, errBadWhere
		}
		req.Relation = rel
	}

	var err error
	if req.Offset, err = intQuery(c, "offset"); err != nil {
		return nil, err
	}
	if req.Limit, err = intQuery(c, "limit"); err != nil {
		return nil, err
	}
	return req, nil
}

func intQuery(c *gin.Context, name string) (*int, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, errBadPagination
	}
	return &n, nil
}

// writeBody splits a create/update body into field values and write
// options. The locale and draft keys are control inputs, not fields.
func writeBody(c *gin.Context) (map[string]any, engine.WriteOptions, error) {
	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		return nil, engine.WriteOptions{}, errBadBody
	}

	var opts engine.WriteOptions
	if raw, ok := body["locale"]; ok {
		locale, ok := raw.(string)
		if !ok {
			return nil, engine.WriteOptions{}, errBadLocale
		}
		opts.Locale = locale
	}
	switch draft := body["draft"].(type) {
	case bool:
		opts.Draft = draft
	case float64:
		opts.Draft = draft == 1
	case string:
		opts.Draft = draft == "1" || draft == "true"
	}
	delete(body, "locale")
	delete(body, "draft")
	return body, opts, nil
}
