package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"kyrix/api/internal/repository"
)

// DeviceSync answers a hardware poll. There is no session check here:
// possession of the device code is the entire authorization, and an
// unknown code gets the same 404 whatever the reason.
func (h HandlerSet) DeviceSync(c *gin.Context) {
	deviceCode := c.Query("device_id")
	if deviceCode == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Device ID required"})
		return
	}

	result, err := h.devices.Sync(c.Request.Context(), deviceCode)
	if err != nil {
		if errors.Is(err, repository.ErrDeviceNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Device not found"})
			return
		}
		h.log.Error().Err(err).Msg("device sync failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, result)
}
