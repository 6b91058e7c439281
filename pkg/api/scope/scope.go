// Package scope carries the caller identity resolved upstream.
// Authentication happens in the gateway in front of this service;
// only the resolved tenant and device ids arrive here, as headers.
package scope

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bharatlytics/visitorManagementSystem-sub002/pkg/api/types"
)

const (
	companyIDKey = "company_id"
	deviceIDKey  = "device_id"

	// CompanyIDHeader and DeviceIDHeader are set by the auth gateway.
	CompanyIDHeader = "X-Company-ID"
	DeviceIDHeader  = "X-Device-ID"
)

// Company requires the tenant id on admin-scoped routes.
func Company() gin.HandlerFunc {
	return func(c *gin.Context) {
		companyID := c.GetHeader(CompanyIDHeader)
		if companyID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, types.ErrorResponse{
				Error:   "unauthorized",
				Message: "missing company scope",
			})
			return
		}
		c.Set(companyIDKey, companyID)
		c.Next()
	}
}

// Device requires the caller's device id on device-scoped routes.
// The activation endpoint is exempt: it is the bootstrap step that
// establishes the identity in the first place.
func Device() gin.HandlerFunc {
	return func(c *gin.Context) {
		deviceID := c.GetHeader(DeviceIDHeader)
		if deviceID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, types.ErrorResponse{
				Error:   "unauthorized",
				Message: "missing device identity",
			})
			return
		}
		c.Set(deviceIDKey, deviceID)
		c.Next()
	}
}

// CompanyID returns the tenant scope set by Company.
func CompanyID(c *gin.Context) string {
	return c.GetString(companyIDKey)
}

// DeviceID returns the caller identity set by Device.
func DeviceID(c *gin.Context) string {
	return c.GetString(deviceIDKey)
}
