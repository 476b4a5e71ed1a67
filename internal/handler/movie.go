// Package handler exposes the HTTP handlers of the movie catalog.  Handlers
// translate requests into MovieService calls and map absent records and
// failures onto status codes at this boundary.
package handler

import (
    "bytes"
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "io"
    "log/slog"
    "net/http"
    "strconv"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/movielist/internal/model"
)

// MovieService is what the handlers need from the service layer.  Lookups
// return a nil movie, not an error, when nothing matches.
type MovieService interface {
    List(ctx context.Context) ([]model.Movie, error)
    GetByID(ctx context.Context, id uint64) (*model.Movie, error)
    GetByTitle(ctx context.Context, title string) (*model.Movie, error)
    Insert(ctx context.Context, m model.Movie) (*model.Movie, error)
    Delete(ctx context.Context, id uint64) error
}

// MovieHandler serves the /movies routes.
type MovieHandler struct {
    Movies MovieService
    log    *slog.Logger
}

// NewMovieHandler constructs a MovieHandler and panics if the service is nil.
func NewMovieHandler(movies MovieService, log *slog.Logger) *MovieHandler {
    if movies == nil {
        panic("nil service passed to NewMovieHandler")
    }
    if log == nil {
        log = slog.Default()
    }
    return &MovieHandler{Movies: movies, log: log}
}

// movieRequest is the accepted POST payload.  Any client supplied id is
// ignored; the database assigns it.  Rating is 32-bit like the rating
// column, so an out of range value is a bad request, not a storage error.
type movieRequest struct {
    Title       string `json:"title"`
    Description string `json:"description"`
    Year        string `json:"year"`
    Director    string `json:"director"`
    Rating      int32  `json:"rating"`
}

func (r movieRequest) toModel() model.Movie {
    return model.Movie{
        Title:       r.Title,
        Description: r.Description,
        Year:        r.Year,
        Director:    r.Director,
        Rating:      int(r.Rating),
    }
}

// FindMovies handles GET /movies.  With a title query parameter (even an
// empty one) it returns a zero or one element array; otherwise every movie.
func (h *MovieHandler) FindMovies(c echo.Context) error {
    ctx := c.Request().Context()

    if titles, ok := c.QueryParams()["title"]; ok {
        m, err := h.Movies.GetByTitle(ctx, titles[0])
        if err != nil {
            return h.storageError(c, "find movie by title", err)
        }
        if m == nil {
            return c.JSON(http.StatusOK, []model.Movie{})
        }
        return c.JSON(http.StatusOK, []model.Movie{*m})
    }

    movies, err := h.Movies.List(ctx)
    if err != nil {
        return h.storageError(c, "list movies", err)
    }
    return c.JSON(http.StatusOK, movies)
}

// FindByID handles GET /movies/:id.  An absent movie is a 404 with an empty
// body.
func (h *MovieHandler) FindByID(c echo.Context) error {
    id, err := parseID(c)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    m, err := h.Movies.GetByID(c.Request().Context(), id)
    if err != nil {
        return h.storageError(c, "find movie by id", err)
    }
    if m == nil {
        return c.NoContent(http.StatusNotFound)
    }
    return c.JSON(http.StatusOK, m)
}

// AddMovie handles POST /movies.  The body must be a JSON object; an empty
// body, a JSON scalar or malformed JSON is rejected with 400 before the
// service is called.  The created movie is returned with a Location header.
func (h *MovieHandler) AddMovie(c echo.Context) error {
    req := c.Request()
    raw, err := io.ReadAll(req.Body)
    if err != nil {
        var he *echo.HTTPError
        if errors.As(err, &he) {
            return he // body limit exceeded
        }
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if !isJSONObject(raw) {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "request body must be a JSON object"})
    }

    // decode as JSON whatever the Content-Type says; trailing data after
    // the object is an error
    var body movieRequest
    if err := json.Unmarshal(raw, &body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }

    created, err := h.Movies.Insert(req.Context(), body.toModel())
    if err != nil {
        return h.storageError(c, "insert movie", err)
    }
    c.Response().Header().Set(echo.HeaderLocation, fmt.Sprintf("/movies/%d", created.ID))
    return c.JSON(http.StatusCreated, created)
}

// DeleteMovie handles DELETE /movies/:id.  It answers 204 whether or not the
// movie existed.
func (h *MovieHandler) DeleteMovie(c echo.Context) error {
    id, err := parseID(c)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    if err := h.Movies.Delete(c.Request().Context(), id); err != nil {
        return h.storageError(c, "delete movie", err)
    }
    return c.NoContent(http.StatusNoContent)
}

func (h *MovieHandler) storageError(c echo.Context, op string, err error) error {
    h.log.Error(op+" failed", "error", err, "request_id", c.Response().Header().Get(echo.HeaderXRequestID))
    return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
}

func parseID(c echo.Context) (uint64, error) {
    return strconv.ParseUint(c.Param("id"), 10, 64)
}

// isJSONObject reports whether the first non-space byte opens an object.
func isJSONObject(raw []byte) bool {
    trimmed := bytes.TrimSpace(raw)
    return len(trimmed) > 0 && trimmed[0] == '{'
}
