package service

import (
	"errors"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"gitlab.com/dirk.krummacker/addressbook-service/internal/auth"
	"gitlab.com/dirk.krummacker/addressbook-service/internal/config"
	"gitlab.com/dirk.krummacker/addressbook-service/internal/store"
)

// sessionCookie is the name of the HTTP-only cookie carrying the session
// token.
const sessionCookie = "session"

// Keys under which the middleware stores the resolved user and token in the
// gin context for the duration of one request.
const (
	ctxUser  = "user"
	ctxToken = "token"
)

// Server holds the wired components of the address book service. It replaces
// the package-level state of earlier revisions with explicit dependencies
// constructed once at startup.
type Server struct {
	cfg      config.Config
	store    *store.Store
	auth     *auth.Authenticator
	sessions *auth.SessionManager
}

// NewServer wires a server from its components.
func NewServer(cfg config.Config, st *store.Store, authenticator *auth.Authenticator, sessions *auth.SessionManager) *Server {
	return &Server{
		cfg:      cfg,
		store:    st,
		auth:     authenticator,
		sessions: sessions,
	}
}

// SetupHttpRouter initializes the REST API router and registers all
// endpoints. Registration, login and the health check are public; everything
// else requires a session, and the user management endpoints additionally
// require the admin flag.
func (s *Server) SetupHttpRouter() *gin.Engine {
	var router *gin.Engine
	if s.cfg.RequestLogging {
		router = gin.Default()
	} else {
		router = gin.New()
		router.Use(gin.Recovery())
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     s.cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Content-Type"},
		AllowCredentials: true,
	}))

	api := router.Group("/api")
	api.POST("/register", s.register)
	api.POST("/login", s.login)
	api.GET("/health", s.health)

	authenticated := api.Group("", s.requireSession)
	authenticated.GET("/logout", s.logout)
	authenticated.GET("/contacts", s.findContacts)
	authenticated.POST("/contacts", s.createContact)
	authenticated.PUT("/contacts/:id", s.updateContactByID)
	authenticated.DELETE("/contacts/:id", s.deleteContactByID)

	admin := authenticated.Group("", s.requireAdmin)
	admin.GET("/users", s.findUsers)
	admin.POST("/users", s.createUser)

	if s.cfg.StaticDir != "" {
		s.serveFrontend(router)
	}
	return router
}

// requireSession resolves the session cookie to a user and aborts with 401
// when there is none. On success the user and token are stored in the gin
// context and the sliding expiry cookie is refreshed.
func (s *Server) requireSession(c *gin.Context) {
	token, err := c.Cookie(sessionCookie)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "authentication required"})
		return
	}
	user, expiresAt, err := s.sessions.Resolve(c.Request.Context(), token)
	if err != nil {
		if errors.Is(err, store.ErrNoSession) {
			s.clearSessionCookie(c)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "authentication required"})
			return
		}
		s.internalError(c, err)
		return
	}
	s.setSessionCookie(c, token, expiresAt)
	c.Set(ctxUser, user)
	c.Set(ctxToken, token)
	c.Next()
}

// requireAdmin aborts with 403 unless the session user carries the admin
// flag. It must run after requireSession.
func (s *Server) requireAdmin(c *gin.Context) {
	if !currentUser(c).IsAdmin {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "admin privileges required"})
		return
	}
	c.Next()
}

func (s *Server) setSessionCookie(c *gin.Context, token string, expiresAt time.Time) {
	c.SetSameSite(http.SameSiteLaxMode)
	maxAge := int(time.Until(expiresAt).Seconds())
	c.SetCookie(sessionCookie, token, maxAge, "/", "", gin.Mode() == gin.ReleaseMode, true)
}

func (s *Server) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, "", -1, "/", "", gin.Mode() == gin.ReleaseMode, true)
}

// internalError logs a storage failure and hides the details from the client.
func (s *Server) internalError(c *gin.Context, err error) {
	slog.Error("request failed", "method", c.Request.Method, "path", c.Request.URL.Path, "error", err)
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
}

// serveFrontend serves the static frontend for all non-API routes, falling
// back to index.html for unknown paths.
func (s *Server) serveFrontend(router *gin.Engine) {
	staticDir := s.cfg.StaticDir
	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			c.IndentedJSON(http.StatusNotFound, gin.H{"message": "not found"})
			return
		}
		urlPath := c.Request.URL.Path
		if urlPath == "/" {
			urlPath = "/index.html"
		}
		filePath := filepath.Join(staticDir, filepath.Clean(urlPath))
		if _, err := os.Stat(filePath); os.IsNotExist(err) {
			http.ServeFile(c.Writer, c.Request, filepath.Join(staticDir, "index.html"))
			return
		}
		http.ServeFile(c.Writer, c.Request, filePath)
	})
}

// health reports whether the service and its database are reachable.
//
// Example REST API call:
//
//	> curl "http://localhost:8080/api/health"
func (s *Server) health(c *gin.Context) {
	if err := s.store.Ping(c.Request.Context()); err != nil {
		slog.Error("health check failed", "error", err)
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"status": "error", "database": "unavailable"})
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{"status": "ok", "database": "ok"})
}
