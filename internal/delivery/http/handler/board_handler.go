package handler

import (
	"fmt"
	"math/rand"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"smart-farm-monitor/internal/config"
	"smart-farm-monitor/internal/usecase/board"
	"smart-farm-monitor/pkg/utils"
)

// Image uploads accept these extensions with a matching image/* MIME
// type. Everything else is rejected before touching disk.
var allowedImageExts = map[string]string{
	".jpeg": "image/jpeg",
	".jpg":  "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
}

type BoardHandler struct {
	service *board.Service
	upload  config.UploadConfig
}

func NewBoardHandler(service *board.Service, uploadCfg config.UploadConfig) *BoardHandler {
	return &BoardHandler{service: service, upload: uploadCfg}
}

// RegisterPublicRoutes mounts the read-only board preview.
func (h *BoardHandler) RegisterPublicRoutes(router *gin.RouterGroup) {
	router.GET("/board/posts", h.ListPosts)
	router.GET("/board/posts/:id", h.GetPost)
}

func (h *BoardHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/board/posts", h.CreatePost)
	router.PUT("/board/posts/:id", h.UpdatePost)
	router.DELETE("/board/posts/:id", h.DeletePost)
	router.POST("/board/posts/:id/comments", h.AddComment)
	router.GET("/board/me", h.Identity)
	router.POST("/posts/upload-images", h.UploadImages)
}

func (h *BoardHandler) ListPosts(c *gin.Context) {
	posts, err := h.service.ListPosts(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

func (h *BoardHandler) GetPost(c *gin.Context) {
	postID, ok := paramUint(c, "id")
	if !ok {
		return
	}

	post, err := h.service.GetPost(c.Request.Context(), postID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

func (h *BoardHandler) CreatePost(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	var req board.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	post, err := h.service.CreatePost(c.Request.Context(), userID, &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"newPost": post})
}

func (h *BoardHandler) UpdatePost(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	postID, ok := paramUint(c, "id")
	if !ok {
		return
	}

	var req board.UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.service.UpdatePost(c.Request.Context(), userID, postID, &req); err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Post updated", nil)
}

func (h *BoardHandler) DeletePost(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	postID, ok := paramUint(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeletePost(c.Request.Context(), userID, postID); err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Post deleted", nil)
}

func (h *BoardHandler) AddComment(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	postID, ok := paramUint(c, "id")
	if !ok {
		return
	}

	var req board.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	comment, err := h.service.AddComment(c.Request.Context(), userID, postID, &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"newComment": comment})
}

func (h *BoardHandler) Identity(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	identity, err := h.service.Identity(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": identity})
}

// UploadImages stores multipart image files under the upload directory
// and returns their public URLs. Files are renamed to
// <field>-<timestamp>-<random><ext>; nothing links them to a post.
func (h *BoardHandler) UploadImages(c *gin.Context) {
	if _, ok := callerID(c); !ok {
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	files := form.File["images"]
	if len(files) == 0 {
		utils.ErrorResponse(c, http.StatusBadRequest, "Please attach image files")
		return
	}

	maxSize := int64(h.upload.MaxSizeMB) << 20
	urls := make([]string, 0, len(files))
	for _, file := range files {
		if file.Size > maxSize {
			utils.ErrorResponse(c, http.StatusBadRequest, "image exceeds size limit")
			return
		}

		ext := strings.ToLower(filepath.Ext(file.Filename))
		wantMIME, ok := allowedImageExts[ext]
		if !ok {
			utils.ErrorResponse(c, http.StatusBadRequest, "only image files can be uploaded")
			return
		}
		mime := file.Header.Get("Content-Type")
		if mime != wantMIME && !(ext == ".jpg" && mime == "image/jpg") {
			utils.ErrorResponse(c, http.StatusBadRequest, "only image files can be uploaded")
			return
		}

		name := fmt.Sprintf("images-%d-%d%s", time.Now().UnixMilli(), rand.Int63n(1_000_000_000), ext)
		dst := filepath.Join(h.upload.Dir, name)
		if err := c.SaveUploadedFile(file, dst); err != nil {
			respondWithError(c, err)
			return
		}
		urls = append(urls, h.upload.PublicPath+"/"+name)
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "imageUrls": urls})
}
