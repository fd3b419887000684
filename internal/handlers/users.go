package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Olliveer/happy-2.0-backend-deploy/internal/service"
	"github.com/Olliveer/happy-2.0-backend-deploy/internal/views"
)

type loginRequest struct {
	Password string `json:"password" validate:"required"`
	Email    string `json:"email" validate:"required"`
}

type forgotRequest struct {
	Email string `json:"email" validate:"required"`
}

type resetRequest struct {
	Password string `json:"password" validate:"required"`
	Token    string `json:"token"`
}

type createUserRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type updateUserRequest struct {
	ID       string `json:"id" validate:"required,number"`
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required"`
	Password string `json:"password"`
}

func (h HandlerSet) Authenticate(c *gin.Context) {
	b, err := readBody(c)
	if err != nil {
		fail(c, err)
		return
	}
	req := loginRequest{Password: b.text("password"), Email: b.text("email")}
	if err := h.check(req); err != nil {
		fail(c, err)
		return
	}

	token, err := h.auth.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

func (h HandlerSet) Forgot(c *gin.Context) {
	b, err := readBody(c)
	if err != nil {
		fail(c, err)
		return
	}
	req := forgotRequest{Email: b.text("email")}
	if err := h.check(req); err != nil {
		fail(c, err)
		return
	}

	if err := h.auth.Forgot(c.Request.Context(), req.Email); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Verify your e-mail :D"})
}

func (h HandlerSet) Reset(c *gin.Context) {
	b, err := readBody(c)
	if err != nil {
		fail(c, err)
		return
	}
	req := resetRequest{Password: b.text("password"), Token: b.text("token")}
	if err := h.check(req); err != nil {
		fail(c, err)
		return
	}

	if err := h.auth.Reset(c.Request.Context(), req.Token, req.Password); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "password reseted successfully :)"})
}

func (h HandlerSet) ShowUser(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		fail(c, err)
		return
	}

	user, err := h.users.Show(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, views.RenderUser(user))
}

func (h HandlerSet) ListUsers(c *gin.Context) {
	users, err := h.users.Index(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, views.RenderUsers(users))
}

func (h HandlerSet) CreateUser(c *gin.Context) {
	b, err := readBody(c)
	if err != nil {
		fail(c, err)
		return
	}
	req := createUserRequest{
		Name:     b.text("name"),
		Email:    b.text("email"),
		Password: b.text("password"),
	}
	if err := h.check(req); err != nil {
		fail(c, err)
		return
	}

	_, err = h.users.Create(c.Request.Context(), service.CreateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "User registred"})
}

func (h HandlerSet) UpdateUser(c *gin.Context) {
	b, err := readBody(c)
	if err != nil {
		fail(c, err)
		return
	}
	req := updateUserRequest{
		ID:       b.text("id"),
		Name:     b.text("name"),
		Email:    b.text("email"),
		Password: b.text("password"),
	}
	if err := h.check(req); err != nil {
		fail(c, err)
		return
	}
	id, err := parseID(req.ID)
	if err != nil {
		fail(c, err)
		return
	}

	err = h.users.Update(c.Request.Context(), service.UpdateUserInput{
		ID:       id,
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("User %s updated", req.Name)})
}

func (h HandlerSet) DeleteUser(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		fail(c, err)
		return
	}

	if err := h.users.Delete(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}
