package users

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Client-facing messages. Failure causes are only logged, never returned.
const (
	msgInvalidRequest   = "invalid request"
	msgCannotReadUsers  = "cannot read users"
	msgCannotCreateUser = "cannot create user"
	msgCannotUpdateUser = "cannot update user"
	msgCannotDeleteUser = "cannot delete user"
	msgFailedToAuth     = "failed to authenticate"
	msgEmailRegistered  = "email already registered"
	msgUserNotFound     = "user not found"
	msgUserCreated      = "user created"
	msgUserUpdated      = "user updated"
	msgNothingToUpdate  = "nothing to update"
	msgUserDeleted      = "user deleted"
)

// UserHandlers provides HTTP handlers for user operations
type UserHandlers struct {
	service UserService
	logger  *zap.Logger
	// strict switches conflicts to 409 and missing users to 404; otherwise
	// both are reported with 200 and a descriptive payload
	strict bool
}

// NewUserHandlers creates new user handlers
func NewUserHandlers(service UserService, logger *zap.Logger, strictStatusCodes bool) *UserHandlers {
	return &UserHandlers{
		service: service,
		logger:  logger,
		strict:  strictStatusCodes,
	}
}

// RegisterRoutes registers all user-related routes
func (h *UserHandlers) RegisterRoutes(router gin.IRouter) {
	router.GET("/users", h.ListUsers)
	router.POST("/users", h.CreateUser)
	router.PUT("/users/:id", h.UpdateUser)
	router.DELETE("/users/:id", h.DeleteUser)
	router.POST("/login", h.Login)
}

// ListUsers handles GET /users
func (h *UserHandlers) ListUsers(c *gin.Context) {
	users, err := h.service.ListUsers(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list users", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgCannotReadUsers})
		return
	}

	responses := make([]UserResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, UserToResponse(user))
	}
	c.JSON(http.StatusOK, responses)
}

// CreateUser handles POST /users
func (h *UserHandlers) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "create user", err)
		return
	}

	user, err := h.service.CreateUser(c.Request.Context(), &req)
	switch {
	case err == nil:
		h.logger.Info("User created", zap.String("user_id", user.ID.String()))
		c.JSON(http.StatusOK, gin.H{"message": msgUserCreated, "id": user.ID.String()})
	case IsValidation(err):
		h.badRequest(c, "create user", err)
	case IsAlreadyExists(err):
		h.logger.Info("Email already registered", zap.String("email", req.Email))
		c.JSON(h.conflictStatus(), gin.H{"error": msgEmailRegistered})
	default:
		h.logger.Error("Failed to create user", zap.String("email", req.Email), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgCannotCreateUser})
	}
}

// UpdateUser handles PUT /users/:id. A missing id is reported as nothing to
// update unless strict status codes are enabled.
func (h *UserHandlers) UpdateUser(c *gin.Context) {
	id := c.Param("id")

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "update user", err)
		return
	}

	updated, err := h.service.UpdateUser(c.Request.Context(), id, &req)
	switch {
	case err == nil && updated:
		h.logger.Info("User updated", zap.String("user_id", id))
		c.JSON(http.StatusOK, gin.H{"message": msgUserUpdated})
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"message": msgNothingToUpdate})
	case IsValidation(err):
		h.badRequest(c, "update user", err)
	case IsAlreadyExists(err):
		h.logger.Info("Email already registered", zap.String("user_id", id), zap.String("email", req.Email))
		c.JSON(h.conflictStatus(), gin.H{"error": msgEmailRegistered})
	case IsNotFound(err):
		if h.strict {
			c.JSON(http.StatusNotFound, gin.H{"error": msgUserNotFound})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": msgNothingToUpdate})
	default:
		h.logger.Error("Failed to update user", zap.String("user_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgCannotUpdateUser})
	}
}

// DeleteUser handles DELETE /users/:id
func (h *UserHandlers) DeleteUser(c *gin.Context) {
	id := c.Param("id")

	err := h.service.DeleteUser(c.Request.Context(), id)
	switch {
	case err == nil:
		h.logger.Info("User deleted", zap.String("user_id", id))
		c.JSON(http.StatusOK, gin.H{"message": msgUserDeleted})
	case IsValidation(err):
		h.badRequest(c, "delete user", err)
	case IsNotFound(err):
		c.JSON(h.notFoundStatus(), gin.H{"message": msgUserNotFound})
	default:
		h.logger.Error("Failed to delete user", zap.String("user_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgCannotDeleteUser})
	}
}

// Login handles POST /login and reports whether the password matches
func (h *UserHandlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "login", err)
		return
	}

	verified, err := h.service.Authenticate(c.Request.Context(), &req)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"verification": verified})
	case IsValidation(err):
		h.badRequest(c, "login", err)
	case IsNotFound(err):
		c.JSON(h.notFoundStatus(), gin.H{"error": msgUserNotFound})
	default:
		h.logger.Error("Failed to authenticate", zap.String("email", req.Email), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgFailedToAuth})
	}
}

func (h *UserHandlers) badRequest(c *gin.Context, operation string, err error) {
	h.logger.Warn("Rejected request", zap.String("operation", operation), zap.Error(err))
	c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidRequest})
}

func (h *UserHandlers) conflictStatus() int {
	if h.strict {
		return http.StatusConflict
	}
	return http.StatusOK
}

func (h *UserHandlers) notFoundStatus() int {
	if h.strict {
		return http.StatusNotFound
	}
	return http.StatusOK
}
