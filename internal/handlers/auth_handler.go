package handlers

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const authCookieName = "admin_token"

// AuthHandler отвечает за вход в админ-панель.
// При пустом пароле авторизация отключена и панель открыта.
type AuthHandler struct {
	password  string
	jwtSecret []byte
	tokenTTL  time.Duration
}

// NewAuthHandler создает новый обработчик авторизации
func NewAuthHandler(password, jwtSecret string) *AuthHandler {
	return &AuthHandler{
		password:  password,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  24 * time.Hour,
	}
}

// Enabled сообщает, включена ли авторизация
func (h *AuthHandler) Enabled() bool {
	return h.password != ""
}

// LoginPage показывает форму входа
func (h *AuthHandler) LoginPage(c *gin.Context) {
	if !h.Enabled() {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	c.HTML(http.StatusOK, "login.html", gin.H{})
}

// Login проверяет пароль и выставляет cookie с токеном
func (h *AuthHandler) Login(c *gin.Context) {
	if !h.Enabled() {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	password := c.PostForm("password")
	if subtle.ConstantTimeCompare([]byte(password), []byte(h.password)) != 1 {
		c.HTML(http.StatusUnauthorized, "login.html", gin.H{
			"error": "Неверный пароль",
		})
		return
	}

	token, err := h.issueToken()
	if err != nil {
		c.HTML(http.StatusInternalServerError, "login.html", gin.H{
			"error": "Не удалось создать сессию",
		})
		return
	}

	c.SetCookie(authCookieName, token, int(h.tokenTTL.Seconds()), "/", "", false, true)
	c.Redirect(http.StatusSeeOther, "/")
}

// Logout сбрасывает cookie и возвращает на форму входа
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie(authCookieName, "", -1, "/", "", false, true)
	c.Redirect(http.StatusSeeOther, "/login")
}

// RequireAuth создает middleware, пускающий только авторизованных.
// Неавторизованные запросы редиректятся на форму входа.
func (h *AuthHandler) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !h.Enabled() {
			c.Next()
			return
		}

		cookie, err := c.Cookie(authCookieName)
		if err != nil || !h.validateToken(cookie) {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

func (h *AuthHandler) issueToken() (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   "admin",
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(h.tokenTTL)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(h.jwtSecret)
}

func (h *AuthHandler) validateToken(tokenString string) bool {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{},
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return h.jwtSecret, nil
		})
	return err == nil && token.Valid
}
