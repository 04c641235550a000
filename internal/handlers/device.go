package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"kyrix/api/internal/repository"
)

func (h HandlerSet) GetDevice(c *gin.Context) {
	claims, ok := h.currentClaims(c)
	if !ok {
		return
	}

	device, err := h.devices.CurrentDevice(c.Request.Context(), claims.UserID)
	if err != nil {
		// An unpaired user gets a JSON null, not an error.
		if errors.Is(err, repository.ErrDeviceNotFound) {
			c.JSON(http.StatusOK, nil)
			return
		}
		h.log.Error().Err(err).Msg("get device failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, device)
}

type pairDeviceRequest struct {
	DeviceCode string `json:"deviceCode"`
}

func (h HandlerSet) PairDevice(c *gin.Context) {
	claims, ok := h.currentClaims(c)
	if !ok {
		return
	}

	var req pairDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.DeviceCode == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Device code is required"})
		return
	}

	device, err := h.devices.Pair(c.Request.Context(), claims.UserID, req.DeviceCode)
	if err != nil {
		if errors.Is(err, repository.ErrDeviceCodeConflict) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Device code already in use"})
			return
		}
		h.log.Error().Err(err).Msg("pair device failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, device)
}
