package handler

import (
	"net/http"
	"strings"

	"github.com/ronsway/MakeMyDay/internal/auth"
	"github.com/ronsway/MakeMyDay/internal/version"

	"github.com/gin-gonic/gin"
)

const (
	headerClientVersion = "X-Client-Version"
	headerAPIVersion    = "X-API-Version"

	ctxUserIDKey = "user_id"

	// SystemUserID owns records created without an authenticated caller
	SystemUserID = "system"
)

// VersionCheck validates client/API version headers on every API route.
// Health and version endpoints stay reachable for any client.
func VersionCheck() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if path == "/health" || path == "/version" || strings.HasPrefix(path, "/api/version") {
			c.Next()
			return
		}

		apiVersion := c.GetHeader(headerAPIVersion)
		if apiVersion == "" {
			apiVersion = version.CurrentAPIVersion
		}
		if !version.IsAPIVersionSupported(apiVersion) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error":             "Unsupported API version",
				"supportedVersions": version.SupportedAPIVersions,
				"requestedVersion":  apiVersion,
			})
			return
		}

		clientVersion := c.GetHeader(headerClientVersion)
		if clientVersion != "" && !version.IsClientSupported(clientVersion) {
			c.AbortWithStatusJSON(http.StatusUpgradeRequired, gin.H{
				"error":          "Client version not supported",
				"minimumVersion": version.MinimumClientVersion,
				"currentVersion": clientVersion,
				"updateRequired": true,
			})
			return
		}

		c.Next()
	}
}

// RequireAuth rejects requests without a valid bearer token
func RequireAuth(authService *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		payload, ok := bearerPayload(c, authService)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Set(ctxUserIDKey, payload.UserID)
		c.Next()
	}
}

// OptionalAuth resolves the caller when a token is present and falls back
// to the system user otherwise
func OptionalAuth(authService *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if payload, ok := bearerPayload(c, authService); ok {
			c.Set(ctxUserIDKey, payload.UserID)
		} else {
			c.Set(ctxUserIDKey, SystemUserID)
		}
		c.Next()
	}
}

// UserID returns the authenticated user id for the request
func UserID(c *gin.Context) string {
	if id, ok := c.Get(ctxUserIDKey); ok {
		if s, ok := id.(string); ok && s != "" {
			return s
		}
	}
	return SystemUserID
}

func bearerPayload(c *gin.Context, authService *auth.Service) (*auth.TokenPayload, bool) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return nil, false
	}
	payload, err := authService.Verify(strings.TrimPrefix(header, "Bearer "))
	if err != nil {
		return nil, false
	}
	return payload, true
}
