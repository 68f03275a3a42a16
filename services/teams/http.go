package teams

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/mroc/live-display/repos/store"
)

// Router is the interface for a router.
type Router interface {
	GET(relativePath string, handlers ...gin.HandlerFunc) gin.IRoutes
	PUT(relativePath string, handlers ...gin.HandlerFunc) gin.IRoutes
	PATCH(relativePath string, handlers ...gin.HandlerFunc) gin.IRoutes
	DELETE(relativePath string, handlers ...gin.HandlerFunc) gin.IRoutes
}

// Teams is the interface for the teams service.
type Teams interface {
	GetTeams(ctx context.Context) ([]store.Team, error)
	GetTeam(ctx context.Context, number string) (*store.Team, error)
	UpsertTeam(ctx context.Context, team store.Team) error
	PatchTeam(ctx context.Context, number string, patch store.TeamPatch) error
	DeleteTeam(ctx context.Context, number string) error
	GetStandings(ctx context.Context, eventKey string, page int) (*StandingsPage, error)
}

// HTTPOptions contains all the options needed for the HTTP handler.
type HTTPOptions struct {

	// The service we provides the HTTP transport for.
	Service Teams

	// The router instance to configure the HTTP routes.
	Router Router
}

// NewHTTPHandler creates a new HTTP handler.
func NewHTTPHandler(opts HTTPOptions) {
	r := opts.Router
	h := &httpHandler{opts}
	r.GET("/all", h.getTeamsHandler)
	r.GET("/standings", h.getStandingsHandler)
	r.GET("/team/:number", h.getTeamHandler)
	r.PUT("/team/:number", h.upsertTeamHandler)
	r.PATCH("/team/:number", h.patchTeamHandler)
	r.DELETE("/team/:number", h.deleteTeamHandler)
}

type httpHandler struct {
	HTTPOptions
}

func (s *httpHandler) getTeamsHandler(c *gin.Context) {
	teams, err := s.Service.GetTeams(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"teams": teams})
}

func (s *httpHandler) getStandingsHandler(c *gin.Context) {
	page := 0
	if raw := c.Query("page"); raw != "" {
		p, err := strconv.Atoi(raw)
		if err != nil || p < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "page must be a non-negative number"})
			c.Abort()
			return
		}
		page = p
	}

	standings, err := s.Service.GetStandings(c.Request.Context(), c.Query("event"), page)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, standings)
}

func (s *httpHandler) getTeamHandler(c *gin.Context) {
	team, err := s.Service.GetTeam(c.Request.Context(), c.Param("number"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	if team == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "team not found"})
		c.Abort()
		return
	}
	c.JSON(http.StatusOK, team)
}

func (s *httpHandler) upsertTeamHandler(c *gin.Context) {
	var team store.Team
	if err := c.ShouldBindJSON(&team); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		c.Abort()
		return
	}
	team.Number = c.Param("number")

	if err := s.Service.UpsertTeam(c.Request.Context(), team); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"number": team.Number})
}

func (s *httpHandler) patchTeamHandler(c *gin.Context) {
	var patch store.TeamPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		c.Abort()
		return
	}

	number := c.Param("number")
	if err := s.Service.PatchTeam(c.Request.Context(), number, patch); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"number": number})
}

func (s *httpHandler) deleteTeamHandler(c *gin.Context) {
	number := c.Param("number")
	if err := s.Service.DeleteTeam(c.Request.Context(), number); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func abortWithError(c *gin.Context, err error) {
	var validationErr *store.ValidationError
	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error()})
	case status.Code(err) == codes.NotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": "team not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "something went wrong"})
	}
	c.Abort()
}
