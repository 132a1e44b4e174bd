package middleware

import (
	"errors"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const sessionEmailKey = "Email"

// AuthRequired is a simple middleware to check the session.
func AuthRequired(c *gin.Context) {
	session := sessions.Default(c)
	user := session.Get(sessionEmailKey)
	if user == nil {
		// Abort the request with the appropriate error code
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	// Continue down the chain to handler etc
	c.Next()
}

// SessionEmail returns the email stored in the caller's session. Handlers
// behind AuthRequired can rely on it being present.
func SessionEmail(c *gin.Context) (string, error) {
	session := sessions.Default(c)
	email, ok := session.Get(sessionEmailKey).(string)
	if !ok || email == "" {
		return "", errors.New("no authenticated session")
	}
	return email, nil
}

func jwtSecret() []byte {
	return []byte(os.Getenv("JWT_SECRET"))
}

// GenerateJWT issues the token that socket.io clients present in their
// handshake auth data (they cannot send the session cookie).
func GenerateJWT(email string) (string, error) {
	claims := jwt.MapClaims{
		"email": email,
		"exp":   time.Now().Add(24 * time.Hour).Unix(),
		"iat":   time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret())
}

// DecodeJWT validates a token string (with or without the "Bearer " prefix)
// and returns the email claim.
func DecodeJWT(tokenString string) (string, error) {
	tokenString = strings.TrimPrefix(tokenString, "Bearer ")

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return jwtSecret(), nil
	})
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", errors.New("invalid token")
	}
	email, ok := claims["email"].(string)
	if !ok || email == "" {
		return "", errors.New("token has no email claim")
	}
	return email, nil
}

// JWT_decoder reads the Authorization header of an HTTP request and returns
// the email claim of its JWT. Responds 401 itself so handlers only need to
// bail out on error.
func JWT_decoder(c *gin.Context) (string, error) {
	header := c.GetHeader("Authorization")
	if header == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing Authorization header"})
		return "", errors.New("missing authorization header")
	}
	email, err := DecodeJWT(header)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid JWT"})
		return "", err
	}
	return email, nil
}

// Socketio_JWT_decoder extracts and validates the JWT from socket.io
// handshake auth data.
func Socketio_JWT_decoder(authData map[string]interface{}) (string, error) {
	token, exists := authData["authorization"].(string)
	if !exists {
		return "", errors.New("missing authorization token")
	}
	return DecodeJWT(token)
}
