package middleware

import (
	"time"

	"vivare/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	deviceContextKey  = "deviceID"
	deviceCookieName  = "vivare_device"
	deviceHeaderName  = "X-Device-Token"
	deviceTokenExpiry = 30 * 24 * time.Hour
)

// DeviceSession attaches an opaque device identifier to each request,
// minting a signed token for first-time devices. The identifier scopes
// session records and flows per device; it carries no user identity.
func DeviceSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader(deviceHeaderName)
		if token == "" {
			if cookie, err := c.Cookie(deviceCookieName); err == nil {
				token = cookie
			}
		}

		if token != "" {
			if deviceID, err := utils.DeviceIDFromToken(token); err == nil {
				c.Set(deviceContextKey, deviceID)
				c.Next()
				return
			}
		}

		// Unknown or invalid token: mint a fresh device identity.
		deviceID := uuid.New().String()
		signed, err := utils.GenerateDeviceToken(deviceID, deviceTokenExpiry)
		if err != nil {
			utils.JSONError(c, 500, "Could not establish a device session", "")
			c.Abort()
			return
		}
		c.SetCookie(deviceCookieName, signed, int(deviceTokenExpiry.Seconds()), "/", "", false, true)
		c.Header(deviceHeaderName, signed)
		c.Set(deviceContextKey, deviceID)
		c.Next()
	}
}

// DeviceID extracts the device identifier set by DeviceSession.
func DeviceID(c *gin.Context) string {
	return c.GetString(deviceContextKey)
}
