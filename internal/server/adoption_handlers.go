package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type adoptRequestPayload struct {
	CatID uint `json:"cat_id"`
}

type adoptedCatPayload struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Tag         string    `json:"tag"`
	Description string    `json:"description"`
	Image       string    `json:"img"`
	Age         *int      `json:"age,omitempty"`
	Origin      string    `json:"origin,omitempty"`
	Gender      string    `json:"gender,omitempty"`
	AdoptedAt   time.Time `json:"adopted_at"`
}

func (h *httpHandler) handleAdopt(c *gin.Context) {
	userID, ok := actingUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}

	var request adoptRequestPayload
	if err := c.ShouldBindJSON(&request); err != nil || request.CatID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cat_id_required"})
		return
	}

	adoption, err := h.adoptions.Adopt(c.Request.Context(), userID, request.CatID)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"cat_id":     adoption.CatID,
		"adopted_at": adoption.CreatedAt.UTC().Format(time.RFC3339),
	})
}

func (h *httpHandler) handleListAdoptions(c *gin.Context) {
	userID, ok := actingUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}

	adopted, err := h.adoptions.ListForUser(c.Request.Context(), userID)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	payload := make([]adoptedCatPayload, 0, len(adopted))
	for _, cat := range adopted {
		payload = append(payload, adoptedCatPayload{
			ID:          cat.ID,
			Name:        cat.Name,
			Tag:         cat.Tag,
			Description: cat.Description,
			Image:       cat.Image,
			Age:         cat.Age,
			Origin:      cat.Origin,
			Gender:      cat.Gender,
			AdoptedAt:   cat.AdoptedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"adoptions": payload})
}

// handleAdoptionStatus is auth-optional: the count is public, the
// userAdopted flag only lights up for an authenticated caller.
func (h *httpHandler) handleAdoptionStatus(c *gin.Context) {
	catID, err := parseRecordID(c.Param("catId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_cat_id"})
		return
	}

	var actorID *uint
	if userID, ok := actingUserID(c); ok {
		actorID = &userID
	}

	status, err := h.adoptions.StatusForCat(c.Request.Context(), catID, actorID)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":       status.Count,
		"userAdopted": status.UserAdopted,
	})
}

func (h *httpHandler) handleUnadopt(c *gin.Context) {
	userID, ok := actingUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}
	catID, err := parseRecordID(c.Param("catId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_cat_id"})
		return
	}

	if err := h.adoptions.Unadopt(c.Request.Context(), userID, catID); err != nil {
		h.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": true})
}
