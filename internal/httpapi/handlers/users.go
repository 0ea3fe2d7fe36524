package handlers

import (
	"crypto/rand"
	"errors"
	"math/big"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Kishor978/RAG-System/internal/auth"
	"github.com/Kishor978/RAG-System/internal/common"
	"github.com/Kishor978/RAG-System/internal/httpapi/middleware"
	"github.com/Kishor978/RAG-System/internal/models"
)

type createUserReq struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// generate an 11 digit random username
func randomUsername11() (string, error) {
	const letters = "abcdefghijklmnopqrstuvwxyz0123456789"
	out := make([]byte, 11)
	for i := 0; i < 11; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(letters))))
		if err != nil {
			return "", err
		}
		out[i] = letters[n.Int64()]
	}
	return string(out), nil
}

func (h *Handler) CreateUser(c *gin.Context) {
	var req createUserReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}
	if req.Email == "" || req.Password == "" {
		common.Fail(c, http.StatusBadRequest, 10002, "email and password required")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 20002, "failed to hash password")
		return
	}

	username := req.Username
	if username == "" {
		for i := 0; i < 5; i++ {
			u, err := randomUsername11()
			if err != nil {
				common.Fail(c, http.StatusInternalServerError, 20004, "failed to generate username")
				return
			}
			var cnt int64
			if err := h.DB.Model(&models.User{}).Where("username = ?", u).Count(&cnt).Error; err != nil {
				common.Fail(c, http.StatusInternalServerError, 20005, "failed to check username")
				return
			}
			if cnt == 0 {
				username = u
				break
			}
		}
		if username == "" {
			common.Fail(c, http.StatusInternalServerError, 20006, "failed to allocate username")
			return
		}
	}

	user := models.User{
		Email:        req.Email,
		Username:     username,
		PasswordHash: hash,
	}
	if err := h.DB.Create(&user).Error; err != nil {
		common.Fail(c, http.StatusBadRequest, 10003, "failed to create user (maybe email already exists)")
		return
	}

	token, err := auth.SignJWT(user.ID, h.Cfg.JWTSecret, 24*time.Hour)
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 20003, "failed to sign token")
		return
	}

	common.OK(c, gin.H{
		"id":       user.ID,
		"email":    user.Email,
		"username": user.Username,
		"token":    token,
	})
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}
	if req.Email == "" || req.Password == "" {
		common.Fail(c, http.StatusBadRequest, 10002, "email and password required")
		return
	}

	var user models.User
	if err := h.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		// same response as a bad password; do not leak which was wrong
		common.Fail(c, http.StatusUnauthorized, 40102, "invalid email or password")
		return
	}
	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		common.Fail(c, http.StatusUnauthorized, 40102, "invalid email or password")
		return
	}

	token, err := auth.SignJWT(user.ID, h.Cfg.JWTSecret, 24*time.Hour)
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 20003, "failed to sign token")
		return
	}

	common.OK(c, gin.H{
		"id":    user.ID,
		"email": user.Email,
		"token": token,
	})
}

func (h *Handler) Me(c *gin.Context) {
	v, ok := c.Get(middleware.UserIDKey)
	if !ok {
		common.Fail(c, http.StatusUnauthorized, 40101, "unauthorized")
		return
	}
	uid, ok := v.(uint64)
	if !ok {
		common.Fail(c, http.StatusUnauthorized, 40101, "unauthorized")
		return
	}

	var user models.User
	if err := h.DB.First(&user, uid).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			common.Fail(c, http.StatusNotFound, 40401, "user not found")
			return
		}
		common.Fail(c, http.StatusInternalServerError, 20001, "db error")
		return
	}

	common.OK(c, gin.H{
		"id":         user.ID,
		"email":      user.Email,
		"username":   user.Username,
		"created_at": user.CreatedAt,
	})
}

func (h *Handler) GetUserByID(c *gin.Context) {
	idStr := c.Param("id")
	id, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil {
		common.Fail(c, http.StatusBadRequest, 10004, "invalid user id")
		return
	}

	var user models.User
	if err := h.DB.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			common.Fail(c, http.StatusNotFound, 40401, "user not found")
			return
		}
		common.Fail(c, http.StatusInternalServerError, 20001, "db error")
		return
	}

	common.OK(c, gin.H{
		"id":         user.ID,
		"email":      user.Email,
		"created_at": user.CreatedAt,
	})
}
