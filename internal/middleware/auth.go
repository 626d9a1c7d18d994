package middleware

import (
	"net/http"
	"strings"
	"sync"

	"taxreturn/internal/model"
	"taxreturn/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Context keys set by RequireRole.
const (
	ContextUserID   = "userID"
	ContextUserRole = "userRole"
)

// AnyRole admits every authenticated user.
var AnyRole = []string{model.RoleTaxpayer, model.RoleAccountant, model.RoleAdmin}

var (
	secretMu  sync.RWMutex
	jwtSecret = []byte("supersecretkey")
)

// InitJWT sets the HMAC secret used to verify tokens. Called once at startup.
func InitJWT(secret []byte) {
	secretMu.Lock()
	defer secretMu.Unlock()
	jwtSecret = secret
}

func GetJWTSecret() []byte {
	secretMu.RLock()
	defer secretMu.RUnlock()
	return jwtSecret
}

// SetTokenCookies stores the access token as an HttpOnly cookie
func SetTokenCookies(c *gin.Context, accessToken string, maxAge int) {
	sameSite, secure := cookieMode()
	c.SetSameSite(sameSite)
	c.SetCookie("access_token", accessToken, maxAge, "/", "", secure, true)
}

// ClearTokenCookies removes the access_token cookie
func ClearTokenCookies(c *gin.Context) {
	sameSite, secure := cookieMode()
	c.SetSameSite(sameSite)
	c.SetCookie("access_token", "", -1, "/", "", secure, true)
}

// Release builds serve the API cross-origin: SameSite=None requires Secure.
func cookieMode() (http.SameSite, bool) {
	if gin.Mode() == gin.ReleaseMode {
		return http.SameSiteNoneMode, true
	}
	return http.SameSiteLaxMode, false
}

// ParseToken verifies an HS256 token and returns its subject and role.
func ParseToken(tokenString string, secret []byte) (string, string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return secret, nil
	})
	if err != nil {
		return "", "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", "", jwt.ErrTokenInvalidClaims
	}
	sub, _ := claims["sub"].(string)
	role, _ := claims["role"].(string)
	if sub == "" || role == "" {
		return "", "", jwt.ErrTokenInvalidClaims
	}
	return sub, role, nil
}

// RequireRole Middleware validates the JWT token and checks if the user's role exists in the allowedRoles list
func RequireRole(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Try cookie first, fallback to Authorization header
		tokenString, cookieErr := c.Cookie("access_token")
		if cookieErr != nil || tokenString == "" {
			authHeader := c.GetHeader("Authorization")
			if authHeader == "" {
				c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Authorization is missing"))
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Invalid authorization format. Expected 'Bearer <token>'"))
				return
			}
			tokenString = parts[1]
		}

		userID, userRole, err := ParseToken(tokenString, GetJWTSecret())
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Invalid token: "+err.Error()))
			return
		}

		roleAllowed := false
		for _, role := range allowedRoles {
			if userRole == role {
				roleAllowed = true
				break
			}
		}
		if !roleAllowed {
			c.AbortWithStatusJSON(http.StatusForbidden, response.Error(http.StatusForbidden, "Access denied: insufficient permissions"))
			return
		}

		c.Set(ContextUserID, userID)
		c.Set(ContextUserRole, userRole)
		c.Next()
	}
}

// CurrentUser returns the identity RequireRole stored on the request.
func CurrentUser(c *gin.Context) (userID string, role string) {
	return c.GetString(ContextUserID), c.GetString(ContextUserRole)
}
