// Package fakelis is an in-memory stand-in for the hosted LIS backend. It
// implements the documented HTTP interface so the client can be exercised in
// tests and local development without the real deployment. It is not the
// product backend.
package fakelis

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"lis_client/internal/model"
	"lis_client/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	authUserKey = "authUser"
	authRoleKey = "authRole"

	patientBatchSize = 10
)

// Config configures the stand-in backend.
type Config struct {
	JWTSecret string
	TokenTTL  time.Duration
}

// Server is one stand-in backend instance with its own in-memory state.
type Server struct {
	jwt   *utils.JWTUtil
	store *store
}

// New creates a Server seeded with the three default accounts the real
// deployment ships with: admin/admin123, tech/tech123 and super/super123.
func New(cfg Config) (*Server, error) {
	if cfg.JWTSecret == "" {
		return nil, errors.New("fakelis: JWT secret is required")
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = time.Hour
	}

	s := &Server{
		jwt:   utils.NewJWTUtil(cfg.JWTSecret, cfg.TokenTTL),
		store: newStore(),
	}

	seed := []struct {
		id, name, password string
		role               model.Role
	}{
		{"A01", "admin", "admin123", model.RoleAdmin},
		{"T01", "tech", "tech123", model.RoleTechnician},
		{"S01", "super", "super123", model.RoleSupervisor},
	}
	for _, u := range seed {
		hash, err := utils.HashPassword(u.password)
		if err != nil {
			return nil, err
		}
		s.store.putUser(u.id, u.name, hash, u.role)
	}
	return s, nil
}

// Router builds the gin router with every documented route registered.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.POST("/login/", s.login)

	router.POST("/Users/", s.tokenAuth(), s.createUser)
	router.GET("/Users/", s.tokenAuth(), s.listUsers)
	router.DELETE("/Users/:id", s.deleteUser)
	router.POST("/Users/:id/promote", s.promoteUser)

	router.POST("/Patients/", s.generatePatients)
	router.GET("/Patients/", s.listPatients)

	router.GET("/Entry/", s.listEntries)
	router.POST("/Entry/", s.createEntry)
	router.POST("/Entry/:id/process", s.processEntry)
	router.POST("/Entry/:id/verify", s.verifyEntry)

	return router
}

// tokenAuth validates the opaque "token" header and stashes the caller's
// identity in the request context.
func (s *Server) tokenAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := c.GetHeader("token")
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Invalid or expired token"})
			return
		}

		claims, err := s.jwt.ValidateToken(tokenString)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Session expired"})
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Invalid or expired token"})
			return
		}

		// The account may have been deleted since the token was issued.
		user, ok := s.store.userByID(claims.UserID)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Invalid or expired token"})
			return
		}

		c.Set(authUserKey, user.ID)
		c.Set(authRoleKey, user.Role)
		c.Next()
	}
}

func authRole(c *gin.Context) model.Role {
	roleVal, exists := c.Get(authRoleKey)
	if !exists {
		return ""
	}
	role, ok := roleVal.(model.Role)
	if !ok {
		return ""
	}
	return role
}

func (s *Server) login(c *gin.Context) {
	name := c.Query("name")
	password := c.Query("password")

	user, ok := s.store.userByName(name)
	if !ok || !utils.CheckPasswordHash(password, user.PasswordHash) {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Invalid credentials"})
		return
	}

	token, err := s.jwt.GenerateToken(user.ID, user.Role.String())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to create session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   token,
		"role":    user.Role,
		"user_id": user.ID,
		"name":    user.Name,
	})
}

func (s *Server) createUser(c *gin.Context) {
	if authRole(c) != model.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"detail": "Only admins can create users"})
		return
	}

	role := model.ParseRole(c.Query("role"))
	if !role.Valid() {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "Invalid role"})
		return
	}
	name := c.Query("name")
	password := c.Query("password")
	if name == "" || password == "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "Name and password are required"})
		return
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to create user"})
		return
	}

	user := s.store.createUser(name, hash, role)
	c.JSON(http.StatusOK, user)
}

func (s *Server) listUsers(c *gin.Context) {
	if authRole(c) != model.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"detail": "Only admins can view users"})
		return
	}
	c.JSON(http.StatusOK, s.store.listUsers())
}

func (s *Server) deleteUser(c *gin.Context) {
	admin, ok := s.store.userByID(c.Query("admin_id"))
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"detail": "Admin not found"})
		return
	}
	if admin.Role != model.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"detail": "Only admins can delete users"})
		return
	}

	if !s.store.deleteUser(c.Param("id")) {
		c.JSON(http.StatusNotFound, gin.H{"detail": "User not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"detail": "User deleted successfully"})
}

func (s *Server) promoteUser(c *gin.Context) {
	admin, ok := s.store.userByID(c.Query("admin_id"))
	if !ok || admin.Role != model.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"detail": "Only admins can promote users"})
		return
	}

	newRole := model.ParseRole(c.Query("new_role"))
	if !newRole.Valid() {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "Invalid role"})
		return
	}

	user, ok := s.store.promoteUser(c.Param("id"), newRole)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"detail": "User not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"detail": "User " + user.Name + " promoted to " + newRole.String(),
		"user":   user,
	})
}

func (s *Server) generatePatients(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.regeneratePatients(patientBatchSize))
}

func (s *Server) listPatients(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.listPatients())
}

func (s *Server) createEntry(c *gin.Context) {
	userID := c.Query("user_id")
	userName := c.Query("user_name")
	user, ok := s.store.userByID(userID)
	if !ok || user.Name != userName {
		c.JSON(http.StatusForbidden, gin.H{"detail": "Not authorized to create entries"})
		return
	}

	patientID := c.Query("patient_id")
	testName := c.Query("test_name")
	patient, ok := s.store.patientByID(patientID)
	if !ok || patient.TestName != testName || !model.ValidTestName(testName) {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Invalid patient or test name"})
		return
	}

	if s.store.entryForPatient(patientID) {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "This test has already been ordered for this patient"})
		return
	}

	c.JSON(http.StatusOK, s.store.createEntry(patientID, testName, userID))
}

func (s *Server) listEntries(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.listEntries())
}

func (s *Server) processEntry(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "Invalid entry id"})
		return
	}

	if _, ok := s.store.userByID(c.Query("user_id")); !ok {
		c.JSON(http.StatusForbidden, gin.H{"detail": "Not authorized to process entries"})
		return
	}

	entry, found, wasPending := s.store.processEntry(id)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Entry not found"})
		return
	}
	if !wasPending {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Entry must be pending before processing"})
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (s *Server) verifyEntry(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "Invalid entry id"})
		return
	}

	user, ok := s.store.userByID(c.Query("user_id"))
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"detail": "User not found"})
		return
	}
	if user.Role != model.RoleSupervisor && user.Role != model.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"detail": "User not authorized to verify entries"})
		return
	}

	result, ok := model.ParseResult(c.Query("result"))
	if !ok {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "Invalid result"})
		return
	}

	entry, found, wasProcessed := s.store.verifyEntry(id, result, user.ID)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Entry not found"})
		return
	}
	if !wasProcessed {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Entry must be processed before verification"})
		return
	}
	c.JSON(http.StatusOK, entry)
}
