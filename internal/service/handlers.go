package service

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"gitlab.com/dirk.krummacker/addressbook-service/internal/auth"
	"gitlab.com/dirk.krummacker/addressbook-service/internal/model"
	"gitlab.com/dirk.krummacker/addressbook-service/internal/store"
)

// credentials is the request body of the register and login endpoints.
type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// newUserRequest is the request body of the admin user creation endpoint.
type newUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	IsAdmin  bool   `json:"is_admin"`
}

// currentUser returns the user that requireSession stored in the gin context.
func currentUser(c *gin.Context) *model.User {
	return c.MustGet(ctxUser).(*model.User)
}

// register creates a new non-admin account from the username and password in
// the request's JSON.
//
// Example REST API call:
//
//	> curl http://localhost:8080/api/register --request "POST" --header "Content-Type: application/json" --data '{"username": "alice", "password": "pw1"}'
func (s *Server) register(c *gin.Context) {
	var creds credentials
	if err := c.BindJSON(&creds); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "invalid JSON"})
		return
	}
	if creds.Username == "" || creds.Password == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "username and password are required"})
		return
	}
	if err := s.auth.Register(c.Request.Context(), creds.Username, creds.Password); err != nil {
		if errors.Is(err, store.ErrDuplicateUsername) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "username already exists"})
			return
		}
		s.internalError(c, err)
		return
	}
	c.IndentedJSON(http.StatusCreated, gin.H{"message": "user created"})
}

// login verifies the credentials in the request's JSON, establishes a session
// and sets the session cookie. It responds with the username and admin flag.
//
// Example REST API call:
//
//	> curl http://localhost:8080/api/login --request "POST" --cookie-jar cookies.txt --header "Content-Type: application/json" --data '{"username": "alice", "password": "pw1"}'
func (s *Server) login(c *gin.Context) {
	var creds credentials
	if err := c.BindJSON(&creds); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "invalid JSON"})
		return
	}
	if creds.Username == "" || creds.Password == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "username and password are required"})
		return
	}
	user, err := s.auth.Login(c.Request.Context(), creds.Username, creds.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "invalid credentials"})
			return
		}
		s.internalError(c, err)
		return
	}
	sess, err := s.sessions.Issue(c.Request.Context(), user.Id)
	if err != nil {
		s.internalError(c, err)
		return
	}
	s.setSessionCookie(c, sess.Token, sess.ExpiresAt)
	c.IndentedJSON(http.StatusOK, gin.H{"username": user.Username, "is_admin": user.IsAdmin})
}

// logout invalidates the session that authenticated the request and clears
// the cookie.
//
// Example REST API call:
//
//	> curl http://localhost:8080/api/logout --cookie cookies.txt
func (s *Server) logout(c *gin.Context) {
	token := c.MustGet(ctxToken).(string)
	if err := s.sessions.Delete(c.Request.Context(), token); err != nil && !errors.Is(err, store.ErrNoSession) {
		s.internalError(c, err)
		return
	}
	s.clearSessionCookie(c)
	c.IndentedJSON(http.StatusOK, gin.H{"message": "logged out"})
}

// findContacts responds with all contacts of the session user as JSON.
//
// Example REST API call:
//
//	> curl http://localhost:8080/api/contacts --cookie cookies.txt
func (s *Server) findContacts(c *gin.Context) {
	contacts, err := s.store.ContactsByOwner(c.Request.Context(), currentUser(c).Id)
	if err != nil {
		s.internalError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, contacts)
}

// createContact inserts the contact specified in the request's JSON, owned by
// the session user. It responds with the full contact data including the
// newly assigned id.
//
// Example REST API call:
//
//	> curl http://localhost:8080/api/contacts --request "POST" --cookie cookies.txt --header "Content-Type: application/json" --data '{"firstname": "Erika", "lastname": "Mustermann", "email": "erika@example.com", "street_address": "1 Main St", "city": "Berlin", "zip_code": "10115", "phone": "+49 0815 4711"}'
func (s *Server) createContact(c *gin.Context) {
	var contact model.Contact
	if err := c.BindJSON(&contact); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "invalid JSON"})
		return
	}
	if err := s.store.CreateContact(c.Request.Context(), currentUser(c).Id, &contact); err != nil {
		if errors.Is(err, store.ErrValidation) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}
		s.internalError(c, err)
		return
	}
	c.IndentedJSON(http.StatusCreated, contact)
}

// updateContactByID overwrites the contact whose ID matches the id parameter
// of the request URL with the values from the request's JSON, provided the
// contact belongs to the session user. It responds with the new version of
// the contact.
//
// Example REST API call:
//
//	> curl http://localhost:8080/api/contacts/56 --request "PUT" --cookie cookies.txt --header "Content-Type: application/json" --data '{"firstname": "Erika", "lastname": "Mustermann", "email": "erika@example.com", "street_address": "1 Main St", "city": "Hamburg", "zip_code": "20095", "phone": "+49 0815 4711"}'
func (s *Server) updateContactByID(c *gin.Context) {
	id, errConv := strconv.ParseInt(c.Param("id"), 10, 64)
	if errConv != nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "invalid id parameter"})
		return
	}
	var contact model.Contact
	if err := c.BindJSON(&contact); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "invalid JSON"})
		return
	}
	if err := s.store.UpdateContact(c.Request.Context(), id, currentUser(c).Id, &contact); err != nil {
		s.abortWithContactError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, contact)
}

// deleteContactByID deletes the contact whose ID matches the id parameter of
// the request URL, provided the contact belongs to the session user.
//
// Example REST API call:
//
//	> curl http://localhost:8080/api/contacts/56 --request "DELETE" --cookie cookies.txt
func (s *Server) deleteContactByID(c *gin.Context) {
	id, errConv := strconv.ParseInt(c.Param("id"), 10, 64)
	if errConv != nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "invalid id parameter"})
		return
	}
	if err := s.store.DeleteContact(c.Request.Context(), id, currentUser(c).Id); err != nil {
		s.abortWithContactError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{"message": "contact deleted"})
}

// abortWithContactError maps the typed store errors of the contact mutation
// operations to HTTP statuses.
func (s *Server) abortWithContactError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrValidation):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	case errors.Is(err, store.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "contact not found"})
	case errors.Is(err, store.ErrNotOwner):
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "not the owner of this contact"})
	default:
		s.internalError(c, err)
	}
}

// findUsers responds with id, username and admin flag of all users. Admin
// only.
//
// Example REST API call:
//
//	> curl http://localhost:8080/api/users --cookie cookies.txt
func (s *Server) findUsers(c *gin.Context) {
	users, err := s.store.Users(c.Request.Context())
	if err != nil {
		s.internalError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, users)
}

// createUser creates an account with a caller-supplied admin flag. Admin
// only.
//
// Example REST API call:
//
//	> curl http://localhost:8080/api/users --request "POST" --cookie cookies.txt --header "Content-Type: application/json" --data '{"username": "bob", "password": "pw2", "is_admin": true}'
func (s *Server) createUser(c *gin.Context) {
	var req newUserRequest
	if err := c.BindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "invalid JSON"})
		return
	}
	if req.Username == "" || req.Password == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "username and password are required"})
		return
	}
	if err := s.auth.CreateUser(c.Request.Context(), req.Username, req.Password, req.IsAdmin); err != nil {
		if errors.Is(err, store.ErrDuplicateUsername) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "username already exists"})
			return
		}
		s.internalError(c, err)
		return
	}
	c.IndentedJSON(http.StatusCreated, gin.H{"message": "user created"})
}
