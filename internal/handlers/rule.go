package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Common response/status constants to avoid magic strings and typos.
const (
	statusOK      = "ok"
	statusIgnored = "ignored"

	errGetState        = "failed to load rule state"
	errInvalidBodyPref = "invalid body: "
)

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// Request DTO for the manual ignore override.
type ignoreRequest struct {
	Notify string `json:"notify" binding:"required"`
}

// IgnoreRequest is an exported model for Swagger docs of the ignore payload.
type IgnoreRequest struct {
	// Notify target to suppress until the next local midnight
	Notify string `json:"notify" example:"mobile_app_iphone_28"`
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}

// @Summary      Get rule state
// @Description  Last tick readings, last alert, and current cooldown markers
// @Tags         rule
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/rule/state [get]
// @Security     BearerAuth
func (h *Handler) getState(c *gin.Context) {
	ctx := c.Request.Context()
	st, err := h.services.Monitoring.GetState(ctx)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errGetState, "rule_get_state_failed", err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// @Summary      Ignore today
// @Description  Suppresses notifications to a target until the next local midnight
// @Tags         rule
// @Accept       json
// @Produce      json
// @Param        body  body   IgnoreRequest  true  "Ignore payload"
// @Success      200   {object}  map[string]interface{}  "status, until"
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /api/v1/rule/ignore [post]
// @Security     BearerAuth
func (h *Handler) ignoreToday(c *gin.Context) {
	var req ignoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}
	until := h.services.Feedback.IgnoreToday(c.Request.Context(), req.Notify)
	c.JSON(http.StatusOK, gin.H{
		"status": statusIgnored,
		"notify": req.Notify,
		"until":  until,
	})
}
