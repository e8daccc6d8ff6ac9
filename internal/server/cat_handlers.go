package server

import (
	"net/http"
	"time"

	"github.com/HiXaM94/cat-gallery/internal/cats"
	"github.com/gin-gonic/gin"
)

type catPayload struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Tag         string    `json:"tag"`
	Description string    `json:"description"`
	Image       string    `json:"img"`
	Age         *int      `json:"age,omitempty"`
	Origin      string    `json:"origin,omitempty"`
	Gender      string    `json:"gender,omitempty"`
	OwnerID     *uint     `json:"owner_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func toCatPayload(cat cats.Cat) catPayload {
	return catPayload{
		ID:          cat.ID,
		Name:        cat.Name,
		Tag:         cat.Tag,
		Description: cat.Description,
		Image:       cat.Image,
		Age:         cat.Age,
		Origin:      cat.Origin,
		Gender:      cat.Gender,
		OwnerID:     cat.OwnerID,
		CreatedAt:   cat.CreatedAt,
	}
}

type listCatsResponse struct {
	Cats        []catPayload `json:"cats"`
	TotalCount  int64        `json:"totalCount"`
	TotalPages  int          `json:"totalPages"`
	CurrentPage int          `json:"currentPage"`
	Limit       int          `json:"limit"`
}

type catRequestPayload struct {
	Name        string `json:"name"`
	Tag         string `json:"tag"`
	Description string `json:"description"`
	Image       string `json:"img"`
	Age         *int   `json:"age"`
	Origin      string `json:"origin"`
	Gender      string `json:"gender"`
}

func (h *httpHandler) handleListCats(c *gin.Context) {
	result, err := h.cats.List(c.Request.Context(), cats.ListQuery{
		SearchText: c.Query("search"),
		TagFilter:  c.Query("tagFilter"),
		Page:       parsePositiveInt(c.Query("page"), cats.DefaultPage),
		PageSize:   parsePositiveInt(c.Query("limit"), cats.DefaultPageSize),
	})
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	response := listCatsResponse{
		Cats:        make([]catPayload, 0, len(result.Items)),
		TotalCount:  result.TotalCount,
		TotalPages:  result.TotalPages,
		CurrentPage: result.Page,
		Limit:       result.PageSize,
	}
	for _, cat := range result.Items {
		response.Cats = append(response.Cats, toCatPayload(cat))
	}
	c.JSON(http.StatusOK, response)
}

func (h *httpHandler) handleGetCat(c *gin.Context) {
	catID, err := parseRecordID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_cat_id"})
		return
	}
	cat, err := h.cats.Get(c.Request.Context(), catID)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCatPayload(cat))
}

func (h *httpHandler) handleCreateCat(c *gin.Context) {
	userID, ok := actingUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}

	var request catRequestPayload
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	cat, err := h.cats.Create(c.Request.Context(), cats.CreateRequest{
		ActorID:     userID,
		Name:        request.Name,
		Tag:         request.Tag,
		Description: request.Description,
		Image:       request.Image,
		Age:         request.Age,
		Origin:      request.Origin,
		Gender:      request.Gender,
	})
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toCatPayload(cat))
}

func (h *httpHandler) handleUpdateCat(c *gin.Context) {
	userID, ok := actingUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}
	catID, err := parseRecordID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_cat_id"})
		return
	}

	var request catRequestPayload
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	cat, err := h.cats.Update(c.Request.Context(), catID, cats.UpdateRequest{
		ActorID:     userID,
		Name:        request.Name,
		Tag:         request.Tag,
		Description: request.Description,
		Image:       request.Image,
		Age:         request.Age,
		Origin:      request.Origin,
		Gender:      request.Gender,
	})
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCatPayload(cat))
}

func (h *httpHandler) handleDeleteCat(c *gin.Context) {
	userID, ok := actingUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}
	catID, err := parseRecordID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_cat_id"})
		return
	}

	if err := h.cats.Delete(c.Request.Context(), catID, userID); err != nil {
		h.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

func (h *httpHandler) handleDistinctTags(c *gin.Context) {
	tags, err := h.cats.DistinctTags(c.Request.Context())
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tags": tags})
}
