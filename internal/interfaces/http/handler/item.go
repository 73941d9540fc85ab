package handler

import (
	"github.com/gin-gonic/gin"
	appcatalog "github.com/sickfits/backend/internal/application/catalog"
	"github.com/sickfits/backend/internal/interfaces/http/dto"
	"github.com/sickfits/backend/internal/interfaces/http/middleware"
)

// CreateItemRequest is the body of POST /items
type CreateItemRequest struct {
	Title       string `json:"title" binding:"required,max=200"`
	Description string `json:"description" binding:"max=5000"`
	Price       int64  `json:"price" binding:"gte=0"`
	Image       string `json:"image" binding:"omitempty,url"`
	LargeImage  string `json:"large_image" binding:"omitempty,url"`
}

// UpdateItemRequest is the body of PATCH /items/:id; omitted fields are kept
type UpdateItemRequest struct {
	Title       *string `json:"title" binding:"omitempty,max=200"`
	Description *string `json:"description" binding:"omitempty,max=5000"`
	Price       *int64  `json:"price" binding:"omitempty,gte=0"`
	Image       *string `json:"image" binding:"omitempty,url"`
	LargeImage  *string `json:"large_image" binding:"omitempty,url"`
}

// ImageUploadRequest asks for a presigned image upload
type ImageUploadRequest struct {
	FileName    string `json:"file_name" binding:"required,max=255"`
	ContentType string `json:"content_type" binding:"required"`
}

// ItemHandler handles the shop catalog
type ItemHandler struct {
	BaseHandler
	itemService *appcatalog.ItemService
}

// NewItemHandler creates a new item handler
func NewItemHandler(itemService *appcatalog.ItemService) *ItemHandler {
	return &ItemHandler{itemService: itemService}
}

// ListItems lists items newest first
func (h *ItemHandler) ListItems(c *gin.Context) {
	var req dto.ListRequest
	if !h.bindQuery(c, &req) {
		return
	}

	page, err := h.itemService.ListItems(c.Request.Context(), req.Filter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Page(c, page)
}

// GetItem returns one item
func (h *ItemHandler) GetItem(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	item, err := h.itemService.GetItem(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// CreateItem lists a new item owned by the caller
func (h *ItemHandler) CreateItem(c *gin.Context) {
	var req CreateItemRequest
	if !h.bindJSON(c, &req) {
		return
	}

	item, err := h.itemService.CreateItem(c.Request.Context(), middleware.GetActor(c), appcatalog.CreateItemInput{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Image:       req.Image,
		LargeImage:  req.LargeImage,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, item)
}

// UpdateItem applies a partial update
func (h *ItemHandler) UpdateItem(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req UpdateItemRequest
	if !h.bindJSON(c, &req) {
		return
	}

	item, err := h.itemService.UpdateItem(c.Request.Context(), middleware.GetActor(c), id, appcatalog.UpdateItemInput{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Image:       req.Image,
		LargeImage:  req.LargeImage,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// DeleteItem removes an item and returns what was deleted
func (h *ItemHandler) DeleteItem(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	item, err := h.itemService.DeleteItem(c.Request.Context(), middleware.GetActor(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// RequestImageUpload presigns an image upload for a future item
func (h *ItemHandler) RequestImageUpload(c *gin.Context) {
	var req ImageUploadRequest
	if !h.bindJSON(c, &req) {
		return
	}

	upload, err := h.itemService.RequestImageUpload(c.Request.Context(), middleware.GetActor(c), req.FileName, req.ContentType)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, upload)
}
