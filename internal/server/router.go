package server

import (
	"errors"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/HiXaM94/cat-gallery/internal/adoptions"
	"github.com/HiXaM94/cat-gallery/internal/auth"
	"github.com/HiXaM94/cat-gallery/internal/cats"
	"github.com/HiXaM94/cat-gallery/internal/contact"
	"github.com/HiXaM94/cat-gallery/internal/users"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	userIDContextKey    = "catgallery_user_id"
	usernameContextKey  = "catgallery_username"
	requestIDContextKey = "catgallery_request_id"
	requestIDHeader     = "X-Request-ID"
)

var (
	errMissingTokenManager     = errors.New("token manager dependency required")
	errMissingUsersService     = errors.New("users service dependency required")
	errMissingCatsService      = errors.New("cats service dependency required")
	errMissingAdoptionsService = errors.New("adoptions service dependency required")
	errMissingContactService   = errors.New("contact service dependency required")
	errInvalidAuthorization    = errors.New("authorization header missing or invalid")
)

// TokenManager issues and validates bearer tokens for registered identities.
type TokenManager interface {
	IssueToken(userID uint, username string) (string, int64, error)
	ValidateToken(token string) (auth.TokenClaims, error)
}

// Dependencies wires the services the router needs. All are required except
// the logger and the static directory.
type Dependencies struct {
	TokenManager     TokenManager
	UsersService     *users.Service
	CatsService      *cats.Service
	AdoptionsService *adoptions.Service
	ContactService   *contact.Service
	StaticDir        string
	Logger           *zap.Logger
}

// NewHTTPHandler builds the gin router for the gallery API.
func NewHTTPHandler(deps Dependencies) (http.Handler, error) {
	if deps.TokenManager == nil {
		return nil, errMissingTokenManager
	}
	if deps.UsersService == nil {
		return nil, errMissingUsersService
	}
	if deps.CatsService == nil {
		return nil, errMissingCatsService
	}
	if deps.AdoptionsService == nil {
		return nil, errMissingAdoptionsService
	}
	if deps.ContactService == nil {
		return nil, errMissingContactService
	}

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestIDMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:       12 * time.Hour,
	}))

	handler := &httpHandler{
		tokens:    deps.TokenManager,
		users:     deps.UsersService,
		cats:      deps.CatsService,
		adoptions: deps.AdoptionsService,
		contact:   deps.ContactService,
		logger:    logger,
	}

	api := router.Group("/api")
	api.POST("/auth/register", handler.handleRegister)
	api.POST("/auth/login", handler.handleLogin)
	api.GET("/tags", handler.handleDistinctTags)
	api.POST("/contact", handler.handleContact)
	api.GET("/adoptions/cat/:catId", handler.optionalAuthorize, handler.handleAdoptionStatus)

	protected := api.Group("/")
	protected.Use(handler.authorizeRequest)
	protected.POST("/auth/logout", handler.handleLogout)
	protected.GET("/auth/status", handler.handleAuthStatus)
	protected.GET("/cats", handler.handleListCats)
	protected.GET("/cats/:id", handler.handleGetCat)
	protected.POST("/cats", handler.handleCreateCat)
	protected.PUT("/cats/:id", handler.handleUpdateCat)
	protected.DELETE("/cats/:id", handler.handleDeleteCat)
	protected.POST("/adoptions", handler.handleAdopt)
	protected.GET("/adoptions", handler.handleListAdoptions)
	protected.DELETE("/adoptions/:catId", handler.handleUnadopt)

	if deps.StaticDir != "" {
		router.Static("/static", deps.StaticDir)
		router.Static("/img", filepath.Join(deps.StaticDir, "img"))
		router.StaticFile("/", filepath.Join(deps.StaticDir, "index.html"))
	}

	return router, nil
}

type httpHandler struct {
	tokens    TokenManager
	users     *users.Service
	cats      *cats.Service
	adoptions *adoptions.Service
	contact   *contact.Service
	logger    *zap.Logger
}

func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(requestIDContextKey, requestID)
		c.Writer.Header().Set(requestIDHeader, requestID)
		c.Next()
	}
}

// authorizeRequest enforces a valid bearer token and threads the acting
// identity through the request context.
func (h *httpHandler) authorizeRequest(c *gin.Context) {
	claims, err := h.bearerClaims(c)
	if err != nil {
		if !errors.Is(err, errInvalidAuthorization) {
			h.logger.Warn("token validation failed", zap.Error(err))
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}
	c.Set(userIDContextKey, claims.UserID)
	c.Set(usernameContextKey, claims.Username)
	c.Next()
}

// optionalAuthorize threads the acting identity when a valid bearer token is
// present but never rejects the request.
func (h *httpHandler) optionalAuthorize(c *gin.Context) {
	if claims, err := h.bearerClaims(c); err == nil {
		c.Set(userIDContextKey, claims.UserID)
		c.Set(usernameContextKey, claims.Username)
	}
	c.Next()
}

func (h *httpHandler) bearerClaims(c *gin.Context) (auth.TokenClaims, error) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return auth.TokenClaims{}, errInvalidAuthorization
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	if token == "" {
		return auth.TokenClaims{}, errInvalidAuthorization
	}
	return h.tokens.ValidateToken(token)
}

// actingUserID returns the authenticated identity set by the middleware.
func actingUserID(c *gin.Context) (uint, bool) {
	value, exists := c.Get(userIDContextKey)
	if !exists {
		return 0, false
	}
	userID, ok := value.(uint)
	return userID, ok && userID != 0
}

// respondServiceError maps service sentinels onto the HTTP error taxonomy.
// Anything unrecognized is a store or integration fault: logged in full,
// reported to the client as a generic 500.
func (h *httpHandler) respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, cats.ErrMissingRequiredField):
		c.JSON(http.StatusBadRequest, gin.H{"error": "name_and_tag_required"})
	case errors.Is(err, contact.ErrMissingField):
		c.JSON(http.StatusBadRequest, gin.H{"error": "contact_fields_required"})
	case errors.Is(err, users.ErrMissingCredentials):
		c.JSON(http.StatusBadRequest, gin.H{"error": "username_and_password_required"})
	case errors.Is(err, users.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_credentials"})
	case errors.Is(err, cats.ErrNotOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	case errors.Is(err, cats.ErrCatNotFound), errors.Is(err, adoptions.ErrCatNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "cat_not_found"})
	case errors.Is(err, adoptions.ErrAdoptionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "adoption_not_found"})
	case errors.Is(err, users.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "user_not_found"})
	case errors.Is(err, users.ErrUsernameTaken):
		c.JSON(http.StatusConflict, gin.H{"error": "username_taken"})
	case errors.Is(err, adoptions.ErrAlreadyAdopted):
		c.JSON(http.StatusConflict, gin.H{"error": "already_adopted"})
	default:
		h.logger.Error("request failed",
			zap.String("request_id", c.GetString(requestIDContextKey)),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
	}
}

func parseRecordID(raw string) (uint, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid record id")
	}
	return uint(id), nil
}

// parsePositiveInt applies the documented default when the value is absent or
// non-numeric; it does not otherwise validate the result.
func parsePositiveInt(raw string, fallback int) int {
	if strings.TrimSpace(raw) == "" {
		return fallback
	}
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return fallback
	}
	return value
}
