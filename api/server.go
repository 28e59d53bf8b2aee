// Package api exposes the clustering engine over HTTP, generalizing the
// teacher's single-global-cluster gin surface to the manager's multiple
// named indices.
package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tcabral/clustopher/cluster"
	"github.com/tcabral/clustopher/runner"
)

// Server wires a runner.Manager into a gin.Engine.
type Server struct {
	manager *runner.Manager
	engine  *gin.Engine
}

// NewServer builds the routed engine described in SPEC_FULL.md: index
// creation plus the tile/bbox/children/leaves/expansion-zoom query surface.
func NewServer(manager *runner.Manager) *Server {
	s := &Server{manager: manager, engine: gin.Default()}

	s.engine.Use(corsMiddleware)
	s.engine.Use(zstdCompression)

	s.engine.POST("/indexes", s.createIndex)
	s.engine.GET("/indexes", s.listIndexes)
	s.engine.GET("/indexes/:id/tile/:z/:x/:y", s.getTile)
	s.engine.GET("/indexes/:id/clusters", s.getClusters)
	s.engine.GET("/indexes/:id/clusters/:clusterId/children", s.getChildren)
	s.engine.GET("/indexes/:id/clusters/:clusterId/leaves", s.getLeaves)
	s.engine.GET("/indexes/:id/clusters/:clusterId/expansion-zoom", s.getExpansionZoom)
	s.engine.GET("/indexes/:id/metadata", s.getMetadata)

	return s
}

// Handler returns the underlying http.Handler, for use with http.Server.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func corsMiddleware(c *gin.Context) {
	c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
	c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type")

	if c.Request.Method == http.MethodOptions {
		c.AbortWithStatus(http.StatusNoContent)
		return
	}
	c.Next()
}

// createIndexRequest is the JSON body of POST /indexes: a GeoJSON
// FeatureCollection plus the construction options from spec §6.
type createIndexRequest struct {
	FeatureCollection cluster.FeatureCollection `json:"featureCollection"`
	MinZoom           int                       `json:"minZoom"`
	MaxZoom           int                       `json:"maxZoom"`
	Radius            float64                   `json:"radius"`
	Extent            int                       `json:"extent"`
	MinPoints         int                       `json:"minPoints"`
	NodeSize          int                       `json:"nodeSize"`
	GenerateID        bool                      `json:"generateId"`
	Log               bool                      `json:"log"`
}

func (s *Server) createIndex(c *gin.Context) {
	var req createIndexRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	opts := cluster.Options{
		MinZoom:    req.MinZoom,
		MaxZoom:    req.MaxZoom,
		Radius:     req.Radius,
		Extent:     req.Extent,
		MinPoints:  req.MinPoints,
		NodeSize:   req.NodeSize,
		GenerateID: req.GenerateID,
		Log:        req.Log,
	}

	id, _, err := s.manager.Create(req.FeatureCollection, opts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":          id,
		"numFeatures": len(req.FeatureCollection.Features),
	})
}

func (s *Server) listIndexes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"indexes": s.manager.List()})
}

func (s *Server) index(c *gin.Context) (*cluster.Index, bool) {
	idx, ok := s.manager.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "index not found"})
		return nil, false
	}
	return idx, true
}

func (s *Server) getTile(c *gin.Context) {
	idx, ok := s.index(c)
	if !ok {
		return
	}

	z, err1 := strconv.ParseUint(c.Param("z"), 10, 8)
	x, err2 := strconv.ParseUint(c.Param("x"), 10, 32)
	y, err3 := strconv.ParseUint(c.Param("y"), 10, 32)
	if err1 != nil || err2 != nil || err3 != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tile coordinates"})
		return
	}

	c.JSON(http.StatusOK, idx.GetTile(uint8(z), uint32(x), uint32(y)))
}

func (s *Server) getClusters(c *gin.Context) {
	idx, ok := s.index(c)
	if !ok {
		return
	}

	zoom, err := strconv.Atoi(c.Query("zoom"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid zoom parameter"})
		return
	}

	bbox, err := parseBBox(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	fc, err := idx.GetClusters(bbox, uint8(zoom))
	if err != nil {
		writeQueryError(c, err)
		return
	}
	c.JSON(http.StatusOK, fc)
}

func parseBBox(c *gin.Context) ([4]float64, error) {
	var bbox [4]float64
	fields := []struct {
		query string
		dst   *float64
	}{
		{"west", &bbox[0]},
		{"south", &bbox[1]},
		{"east", &bbox[2]},
		{"north", &bbox[3]},
	}
	for _, f := range fields {
		v, err := strconv.ParseFloat(c.Query(f.query), 64)
		if err != nil {
			return bbox, errors.New("invalid " + f.query + " parameter")
		}
		*f.dst = v
	}
	return bbox, nil
}

func (s *Server) getChildren(c *gin.Context) {
	idx, ok := s.index(c)
	if !ok {
		return
	}
	clusterID, err := parseClusterID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	fc, err := idx.GetChildren(clusterID)
	if err != nil {
		writeQueryError(c, err)
		return
	}
	c.JSON(http.StatusOK, fc)
}

func (s *Server) getLeaves(c *gin.Context) {
	idx, ok := s.index(c)
	if !ok {
		return
	}
	clusterID, err := parseClusterID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	limit := uint32(10)
	if v := c.Query("limit"); v != "" {
		n, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit parameter"})
			return
		}
		limit = uint32(n)
	}

	offset := uint32(0)
	if v := c.Query("offset"); v != "" {
		n, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid offset parameter"})
			return
		}
		offset = uint32(n)
	}

	fc, err := idx.GetLeaves(clusterID, limit, offset)
	if err != nil {
		writeQueryError(c, err)
		return
	}
	c.JSON(http.StatusOK, fc)
}

func (s *Server) getExpansionZoom(c *gin.Context) {
	idx, ok := s.index(c)
	if !ok {
		return
	}
	clusterID, err := parseClusterID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	zoom, err := idx.GetClusterExpansionZoom(clusterID)
	if err != nil {
		writeQueryError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"expansionZoom": zoom})
}

func (s *Server) getMetadata(c *gin.Context) {
	idx, ok := s.index(c)
	if !ok {
		return
	}

	zoom, err := strconv.Atoi(c.Query("zoom"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid zoom parameter"})
		return
	}
	bbox, err := parseBBox(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	fc, err := idx.GetClusters(bbox, uint8(zoom))
	if err != nil {
		writeQueryError(c, err)
		return
	}
	c.JSON(http.StatusOK, cluster.CalculateMetadataSummary(fc))
}

func parseClusterID(c *gin.Context) (uint32, error) {
	n, err := strconv.ParseUint(c.Param("clusterId"), 10, 32)
	if err != nil {
		return 0, errors.New("invalid clusterId parameter")
	}
	return uint32(n), nil
}

func writeQueryError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, cluster.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, cluster.ErrInvalidArgument):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
