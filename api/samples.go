package api

import (
	"net/http"
	"strconv"

	cloudevents "github.com/cloudevents/sdk-go/v2"
	"github.com/gin-gonic/gin"
	"github.com/qvantel/synapse/api/types"
	"github.com/qvantel/synapse/internal/logger"
	"github.com/qvantel/synapse/internal/samples"
)

// AddSamples godoc
// @Summary Sample ingestion endpoint
// @Description Will persist the samples carried by the posted cloud event and queue up training when enough are in
// @Accept json
// @Produce json
// @Success 202
// @Failure 400 {object} types.SimpleRes "When the request body is formatted incorrectly"
// @Failure 500 {object} types.SimpleRes "When there is an error processing the update"
// @Router /sets/process [post]
func (h *Handler) AddSamples(c *gin.Context) {
	event := cloudevents.NewEvent()

	err := c.ShouldBind(&event)
	if err != nil {
		logger.Debug("Failed to unmarshal message (" + err.Error() + ")")
		c.JSON(http.StatusBadRequest, types.NewErrorRes("Wrong format"))
		return
	}

	err = samples.ProcessUpdate(event, h.SS, h.TServ, h.Conf)
	if err != nil {
		logger.Error("Failed to process message", err)
		c.JSON(http.StatusInternalServerError, types.NewErrorRes("Error processing samples, see logs for more info"))
		return
	}

	c.String(http.StatusAccepted, "")
}

// DeleteSet godoc
// @Summary Set deletion endpoint
// @Description Will delete the sample set with the specified ID
// @Produce json
// @Param id path string true "Set ID"
// @Success 200
// @Failure 404 {object} types.SimpleRes "When the set doesn't exist"
// @Failure 500 {object} types.SimpleRes "When there is an error deleting the set"
// @Router /sets/{id} [delete]
func (h *Handler) DeleteSet(c *gin.Context) {
	id := c.Param("id")
	delErr := types.NewErrorRes("Error deleting set, see logs for more info")
	found, err := h.SS.Exists(id)
	if err != nil {
		logger.Error("Failed to check if the set "+id+" exists in the store", err)
		c.JSON(http.StatusInternalServerError, delErr)
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, types.NewErrorRes("Set with id "+id+" could not be found"))
		return
	}
	err = h.SS.DeleteSet(id)
	if err != nil {
		logger.Error("Failed to delete set "+id, err)
		c.JSON(http.StatusInternalServerError, delErr)
		return
	}
	c.JSON(http.StatusOK, "")
}

// ListSamples godoc
// @Summary Retrieve samples from a set
// @Description Will return the last N samples for the given set
// @Produce json
// @Param id path string true "Set ID"
// @Param limit query int false "How many samples to fetch" default(10) maximum(500)
// @Success 200 {array} samplestores.Sample
// @Failure 404 {object} types.SimpleRes "When the set doesn't exist"
// @Failure 500 {object} types.SimpleRes "When there is an error fetching the samples"
// @Router /sets/{id}/samples [get]
func (h *Handler) ListSamples(c *gin.Context) {
	raw := c.DefaultQuery("limit", "10")
	limit, err := strconv.Atoi(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorRes("limit must be a valid integer"))
	}
	if limit > 500 {
		limit = 500 // So things won't get too much out of control
	}
	id := c.Param("id")
	exists, err := h.SS.Exists(id)
	if err != nil {
		logger.Error("Failed to check if set with id "+id+" exists", err)
		c.JSON(http.StatusInternalServerError, types.NewErrorRes("Error fetching samples, see logs for more info"))
		return
	}
	if !exists {
		c.JSON(http.StatusNotFound, types.NewErrorRes("Set with id "+id+" could not be found"))
		return
	}

	list, err := h.SS.GetLastN(id, nil, limit)
	if err != nil {
		logger.Error("Failed to get samples from set with id " + id + " (" + err.Error() + ")")
		c.JSON(http.StatusInternalServerError, types.NewErrorRes("Error fetching samples, see logs for more info"))
		return
	}
	c.JSON(http.StatusOK, list)
}

// ListSets godoc
// @Summary Retrieve list of sample sets
// @Description Will return the list of sample sets in the system
// @Produce json
// @Success 200 {array} types.BriefSet
// @Failure 500 {object} types.SimpleRes "When there is an error fetching the list of sets"
// @Router /sets [get]
func (h *Handler) ListSets(c *gin.Context) {
	sets, err := h.SS.ListSets()
	if err != nil {
		logger.Error("Failed to get list of sets", err)
		c.JSON(http.StatusInternalServerError, types.NewErrorRes("Error getting list of sets, see logs for more info"))
		return
	}
	c.JSON(http.StatusOK, sets)
}
