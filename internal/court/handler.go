package court

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/srihari2761/pickleball-platform/internal/auth"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// CreateCourt godoc
// @Summary      Create court
// @Description  Registers a new court. Court owners only.
// @Tags         courts
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      CreateCourtRequest  true  "Court details"
// @Success      201      {object}  Court
// @Failure      400      {object}  gin.H
// @Failure      500      {object}  gin.H
// @Router       /courts [post]
func (h *Handler) CreateCourt(c *gin.Context) {
	ownerID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req CreateCourtRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	court, err := h.service.CreateCourt(c.Request.Context(), ownerID, req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create court"})
		return
	}

	c.JSON(http.StatusCreated, court)
}

// ListCourts godoc
// @Summary      List courts
// @Description  Returns all courts, optionally filtered by location substring.
// @Tags         courts
// @Security     BearerAuth
// @Produce      json
// @Param        location  query     string  false  "Location filter"
// @Success      200       {array}   Court
// @Failure      500       {object}  gin.H
// @Router       /courts [get]
func (h *Handler) ListCourts(c *gin.Context) {
	courts, err := h.service.GetAllCourts(c.Request.Context(), c.Query("location"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch courts"})
		return
	}

	c.JSON(http.StatusOK, courts)
}

// GetCourt godoc
// @Summary      Get court
// @Tags         courts
// @Security     BearerAuth
// @Produce      json
// @Param        courtID  path      int  true  "Court ID"
// @Success      200      {object}  Court
// @Failure      400      {object}  gin.H
// @Failure      404      {object}  gin.H
// @Router       /courts/{courtID} [get]
func (h *Handler) GetCourt(c *gin.Context) {
	courtID, err := strconv.Atoi(c.Param("courtID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid court ID"})
		return
	}

	court, err := h.service.GetCourtByID(c.Request.Context(), courtID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Court not found"})
		return
	}

	c.JSON(http.StatusOK, court)
}

// UpdateCourt godoc
// @Summary      Update court
// @Description  Updates a court. Owner only.
// @Tags         courts
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        courtID  path      int                 true  "Court ID"
// @Param        request  body      CreateCourtRequest  true  "Court details"
// @Success      200      {object}  Court
// @Failure      400      {object}  gin.H
// @Failure      403      {object}  gin.H
// @Failure      404      {object}  gin.H
// @Router       /courts/{courtID} [put]
func (h *Handler) UpdateCourt(c *gin.Context) {
	requesterID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	courtID, err := strconv.Atoi(c.Param("courtID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid court ID"})
		return
	}

	var req CreateCourtRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	court, err := h.service.UpdateCourt(c.Request.Context(), courtID, requesterID, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrCourtNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Court not found"})
		case errors.Is(err, ErrNotCourtOwner):
			c.JSON(http.StatusForbidden, gin.H{"error": "You can only edit your own courts"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update court"})
		}
		return
	}

	c.JSON(http.StatusOK, court)
}

// DeleteCourt godoc
// @Summary      Delete court
// @Description  Deletes a court. Owner only.
// @Tags         courts
// @Security     BearerAuth
// @Produce      json
// @Param        courtID  path      int  true  "Court ID"
// @Success      200      {object}  gin.H
// @Failure      400      {object}  gin.H
// @Failure      403      {object}  gin.H
// @Failure      404      {object}  gin.H
// @Router       /courts/{courtID} [delete]
func (h *Handler) DeleteCourt(c *gin.Context) {
	requesterID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	courtID, err := strconv.Atoi(c.Param("courtID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid court ID"})
		return
	}

	if err := h.service.DeleteCourt(c.Request.Context(), courtID, requesterID); err != nil {
		switch {
		case errors.Is(err, ErrCourtNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Court not found"})
		case errors.Is(err, ErrNotCourtOwner):
			c.JSON(http.StatusForbidden, gin.H{"error": "You can only delete your own courts"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete court"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Court deleted successfully"})
}
