package api

import (
	"errors"
	"io/fs"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pevans/ussdcodes/dataset"
	"github.com/pevans/ussdcodes/profile"
)

const (
	defaultLimit = 50
	maxLimit     = 1000
)

// Server serves exported datasets over a read-only HTTP API.
type Server struct {
	store    *dataset.Store
	registry *profile.Registry
}

// NewServer creates a server reading datasets from store. The registry maps
// country names and prefixes to dataset files.
func NewServer(store *dataset.Store, registry *profile.Registry) *Server {
	return &Server{
		store:    store,
		registry: registry,
	}
}

// SetupRouter configures the Gin router with the dataset routes.
func (s *Server) SetupRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusOK)
			return
		}

		c.Next()
	})

	api := router.Group("/api/v1")
	api.GET("/countries", s.HandleListCountries)
	api.GET("/countries/:country/codes", s.HandleListCodes)
	api.GET("/countries/:country/codes/:id", s.HandleGetCode)
	api.GET("/countries/:country/summary", s.HandleSummary)

	return router
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error code and message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func abort(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{
		Error: ErrorDetail{Code: code, Message: message},
	})
}

// Country describes one profile and whether its dataset has been exported.
type Country struct {
	Prefix   string `json:"prefix"`
	Country  string `json:"country"`
	Grammar  string `json:"grammar"`
	Dataset  string `json:"dataset"`
	Exported bool   `json:"exported"`
}

// HandleListCountries handles GET /api/v1/countries.
func (s *Server) HandleListCountries(c *gin.Context) {
	profiles := s.registry.All()

	countries := make([]Country, 0, len(profiles))
	for _, p := range profiles {
		countries = append(countries, Country{
			Prefix:   p.Prefix,
			Country:  p.Country,
			Grammar:  string(p.Grammar),
			Dataset:  p.Output,
			Exported: s.store.Exists(p.Output),
		})
	}

	c.JSON(http.StatusOK, gin.H{"countries": countries})
}

// ListCodesResponse is the response for GET /api/v1/countries/:country/codes.
type ListCodesResponse struct {
	Country string           `json:"country"`
	Codes   []dataset.Record `json:"codes"`
	Total   int              `json:"total"`
	Limit   int              `json:"limit"`
	Offset  int              `json:"offset"`
}

// HandleListCodes handles GET /api/v1/countries/:country/codes. Records can
// be filtered by category, provider and network (case-insensitive exact
// match) and by q, a substring of the code, name or description.
func (s *Server) HandleListCodes(c *gin.Context) {
	p, records, ok := s.load(c)
	if !ok {
		return
	}

	records = filter(records, func(r dataset.Record) bool {
		return matchField(c.Query("category"), r.Category) &&
			matchField(c.Query("provider"), r.Provider) &&
			matchField(c.Query("network"), r.Network) &&
			matchText(c.Query("q"), r)
	})

	switch sortParam := c.DefaultQuery("sort", "id"); sortParam {
	case "id":
	case "code", "name", "provider":
		sortRecords(records, sortParam)
	default:
		abort(c, http.StatusBadRequest, "invalid_parameter", "Invalid sort parameter: must be id, code, name or provider")
		return
	}

	limit, ok := intParam(c, "limit", defaultLimit, 1)
	if !ok {
		return
	}
	limit = min(limit, maxLimit)

	offset, ok := intParam(c, "offset", 0, 0)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, ListCodesResponse{
		Country: p.Country,
		Codes:   paginate(records, offset, limit),
		Total:   len(records),
		Limit:   limit,
		Offset:  offset,
	})
}

// HandleGetCode handles GET /api/v1/countries/:country/codes/:id. The id is
// either a record id such as gh_0001 or a dial string such as *170#, which
// must be URL-escaped.
func (s *Server) HandleGetCode(c *gin.Context) {
	_, records, ok := s.load(c)
	if !ok {
		return
	}

	id := c.Param("id")
	var matches []dataset.Record
	for _, r := range records {
		if r.ID == id {
			c.JSON(http.StatusOK, r)
			return
		}
		if r.Code == id {
			matches = append(matches, r)
		}
	}

	if len(matches) == 0 {
		abort(c, http.StatusNotFound, "not_found", "Code not found: "+id)
		return
	}

	// A dial string can be offered by several providers
	c.JSON(http.StatusOK, gin.H{"codes": matches})
}

// SummaryResponse is the response for GET
// /api/v1/countries/:country/summary.
type SummaryResponse struct {
	Country string `json:"country"`
	dataset.Summary
}

// HandleSummary handles GET /api/v1/countries/:country/summary.
func (s *Server) HandleSummary(c *gin.Context) {
	p, records, ok := s.load(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, SummaryResponse{
		Country: p.Country,
		Summary: dataset.Summarize(records),
	})
}

// load resolves the :country parameter and reads its dataset, writing an
// error response when either fails.
func (s *Server) load(c *gin.Context) (*profile.Profile, []dataset.Record, bool) {
	p, err := s.registry.Get(c.Param("country"))
	if err != nil {
		abort(c, http.StatusNotFound, "unknown_country", "Unknown country: "+c.Param("country"))
		return nil, nil, false
	}

	records, err := s.store.Read(p.Output)
	if errors.Is(err, fs.ErrNotExist) {
		abort(c, http.StatusNotFound, "not_exported", "No dataset has been exported for "+p.Country)
		return nil, nil, false
	}
	if err != nil {
		abort(c, http.StatusInternalServerError, "internal_error", "Failed to read dataset: "+err.Error())
		return nil, nil, false
	}

	return p, records, true
}

func intParam(c *gin.Context, name string, def, minimum int) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return def, true
	}

	n, err := strconv.Atoi(raw)
	if err != nil || n < minimum {
		abort(c, http.StatusBadRequest, "invalid_parameter", "Invalid "+name+" parameter")
		return 0, false
	}

	return n, true
}

func filter(records []dataset.Record, keep func(dataset.Record) bool) []dataset.Record {
	filtered := []dataset.Record{}
	for _, r := range records {
		if keep(r) {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

func matchField(want, got string) bool {
	return want == "" || strings.EqualFold(want, got)
}

func matchText(q string, r dataset.Record) bool {
	if q == "" {
		return true
	}
	q = strings.ToLower(q)
	return strings.Contains(strings.ToLower(r.Code), q) ||
		strings.Contains(strings.ToLower(r.Name), q) ||
		strings.Contains(strings.ToLower(r.Description), q)
}

func sortRecords(records []dataset.Record, by string) {
	key := func(r dataset.Record) string {
		switch by {
		case "code":
			return r.Code
		case "provider":
			return strings.ToLower(r.Provider)
		}
		return strings.ToLower(r.Name)
	}

	sort.SliceStable(records, func(i, j int) bool {
		return key(records[i]) < key(records[j])
	})
}

// paginate returns a slice of records for the given offset and limit.
func paginate(records []dataset.Record, offset, limit int) []dataset.Record {
	if offset >= len(records) {
		return []dataset.Record{}
	}

	end := min(offset+limit, len(records))

	return records[offset:end]
}
