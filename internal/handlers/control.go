package handlers

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "places-autocomplete/internal/errors"
	"places-autocomplete/internal/models"
	"places-autocomplete/internal/services"
)

type ControlHandler struct {
	controlService *services.ControlService
}

func NewControlHandler(controlService *services.ControlService) *ControlHandler {
	return &ControlHandler{controlService: controlService}
}

func bindError(err error) error {
	return fmt.Errorf("invalid request body: %v: %w", err, apperrors.ErrInvalidParameters)
}

// CreateControl godoc
// @Summary Create an address autocomplete control
// @Description Binds the five address values and an API key, then starts loading the widget
// @Tags Controls
// @Accept json
// @Produce json
// @Param params body models.ControlParameters true "Bound values"
// @Security BearerAuth
// @Success 201 {object} models.ControlResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]string
// @Router /controls [post]
func (h *ControlHandler) CreateControl(c *gin.Context) {
	var params models.ControlParameters
	if err := c.ShouldBindJSON(&params); err != nil {
		c.Error(bindError(err))
		return
	}

	resp, err := h.controlService.CreateControl(c.Request.Context(), &params)
	if err != nil {
		c.Error(err)
		return
	}
	c.Set("control_id", resp.ID)
	c.JSON(http.StatusCreated, resp)
}

// UpdateView godoc
// @Summary Push a fresh property bag to a control
// @Tags Controls
// @Accept json
// @Param id path string true "Control ID"
// @Param params body models.ControlParameters true "Bound values"
// @Security BearerAuth
// @Success 204
// @Failure 404 {object} map[string]interface{}
// @Router /controls/{id}/view [put]
func (h *ControlHandler) UpdateView(c *gin.Context) {
	id := c.Param("id")
	c.Set("control_id", id)

	var params models.ControlParameters
	if err := c.ShouldBindJSON(&params); err != nil {
		c.Error(bindError(err))
		return
	}
	if err := h.controlService.UpdateView(c.Request.Context(), id, &params); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Blur godoc
// @Summary Report the input losing focus
// @Tags Controls
// @Accept json
// @Produce json
// @Param id path string true "Control ID"
// @Param body body models.BlurRequest true "Text left in the input"
// @Security BearerAuth
// @Success 200 {object} models.StructuredAddress
// @Failure 404 {object} map[string]interface{}
// @Router /controls/{id}/blur [post]
func (h *ControlHandler) Blur(c *gin.Context) {
	id := c.Param("id")
	c.Set("control_id", id)

	var req models.BlurRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(bindError(err))
		return
	}
	outputs, err := h.controlService.Blur(c.Request.Context(), id, &req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, outputs)
}

// GetPredictions godoc
// @Summary Autocomplete suggestions for the typed input
// @Tags Controls
// @Produce json
// @Param id path string true "Control ID"
// @Param input query string true "Typed text"
// @Security BearerAuth
// @Success 200 {array} models.Prediction
// @Failure 400 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /controls/{id}/predictions [get]
func (h *ControlHandler) GetPredictions(c *gin.Context) {
	id := c.Param("id")
	c.Set("control_id", id)

	predictions, err := h.controlService.Predict(c.Request.Context(), id, c.Query("input"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, predictions)
}

// SelectPlace godoc
// @Summary Select one of the predictions
// @Tags Controls
// @Accept json
// @Produce json
// @Param id path string true "Control ID"
// @Param body body models.SelectRequest true "Prediction place ID"
// @Security BearerAuth
// @Success 200 {object} models.StructuredAddress
// @Failure 400 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /controls/{id}/select [post]
func (h *ControlHandler) SelectPlace(c *gin.Context) {
	id := c.Param("id")
	c.Set("control_id", id)

	var req models.SelectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(bindError(err))
		return
	}
	outputs, err := h.controlService.SelectPlace(c.Request.Context(), id, &req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, outputs)
}

// SubmitPlace godoc
// @Summary Deliver a place result chosen by a client-side widget
// @Tags Controls
// @Accept json
// @Produce json
// @Param id path string true "Control ID"
// @Param place body models.PlaceResult true "Place result"
// @Security BearerAuth
// @Success 200 {object} models.StructuredAddress
// @Router /controls/{id}/place [post]
func (h *ControlHandler) SubmitPlace(c *gin.Context) {
	id := c.Param("id")
	c.Set("control_id", id)

	var place models.PlaceResult
	if err := c.ShouldBindJSON(&place); err != nil {
		c.Error(bindError(err))
		return
	}
	outputs, err := h.controlService.SubmitPlace(c.Request.Context(), id, &place)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, outputs)
}

// GetOutputs godoc
// @Summary Current structured address of a control
// @Tags Controls
// @Produce json
// @Param id path string true "Control ID"
// @Security BearerAuth
// @Success 200 {object} models.StructuredAddress
// @Failure 404 {object} map[string]interface{}
// @Router /controls/{id}/outputs [get]
func (h *ControlHandler) GetOutputs(c *gin.Context) {
	id := c.Param("id")
	c.Set("control_id", id)

	outputs, err := h.controlService.Outputs(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, outputs)
}

// StreamEvents godoc
// @Summary Server-sent output change notifications
// @Description Sends the current outputs first, then one "outputs" event per change. The stream ends when the control is destroyed
// @Tags Controls
// @Produce text/event-stream
// @Param id path string true "Control ID"
// @Security BearerAuth
// @Router /controls/{id}/events [get]
func (h *ControlHandler) StreamEvents(c *gin.Context) {
	id := c.Param("id")
	c.Set("control_id", id)
	ctx := c.Request.Context()

	sub, err := h.controlService.Subscribe(ctx, id)
	if err != nil {
		c.Error(err)
		return
	}
	defer h.controlService.Unsubscribe(id, sub)

	outputs, err := h.controlService.Outputs(ctx, id)
	if err != nil {
		c.Error(err)
		return
	}

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.SSEvent("outputs", outputs)
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		select {
		case notification, ok := <-sub.C:
			if !ok {
				return false
			}
			c.SSEvent("outputs", notification.Outputs)
			return true
		case <-ctx.Done():
			return false
		}
	})
}

// DeleteControl godoc
// @Summary Destroy a control
// @Tags Controls
// @Param id path string true "Control ID"
// @Security BearerAuth
// @Success 204
// @Failure 404 {object} map[string]interface{}
// @Router /controls/{id} [delete]
func (h *ControlHandler) DeleteControl(c *gin.Context) {
	id := c.Param("id")
	c.Set("control_id", id)

	if err := h.controlService.Destroy(c.Request.Context(), id); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}
