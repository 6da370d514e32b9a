package handler

import (
	"time"

	"github.com/labstack/echo/v4"

	"gamemarket/internal/domain/entity"
	"gamemarket/internal/domain/repository"
	"gamemarket/internal/infrastructure/storage"
	"gamemarket/pkg/errors"
	"gamemarket/pkg/logger"
	"gamemarket/pkg/response"
)

const maxUploadSize = 5 * 1024 * 1024

// purposes maps the upload purpose to its bucket folder and visibility.
var purposes = map[string]struct {
	folder string
	public bool
}{
	"listing_image": {storage.FolderListings, true},
	"avatar":        {storage.FolderAvatars, true},
	"chat_image":    {storage.FolderChat, true},
	"receipt":       {storage.FolderReceipts, false},
}

type FileHandler struct {
	storageClient *storage.CloudStorageClient
	metadataRepo  repository.FileMetadataRepository
}

var fileHandler *FileHandler

func SetupFileHandler(storageClient *storage.CloudStorageClient, metadataRepo repository.FileMetadataRepository) {
	fileHandler = &FileHandler{
		storageClient: storageClient,
		metadataRepo:  metadataRepo,
	}
}

func GetFileHandler() *FileHandler { return fileHandler }

func isAllowedFileType(contentType string) bool {
	switch contentType {
	case "image/jpeg", "image/jpg", "image/png", "image/gif", "image/webp", "application/pdf":
		return true
	}
	return false
}

func (h *FileHandler) Upload(c echo.Context) error {
	file, err := c.FormFile("file")
	if err != nil {
		return response.Error(c, errors.BadRequest("Missing or invalid file", err))
	}

	if file.Size > maxUploadSize {
		return response.Error(c, errors.BadRequest("File size exceeds 5MB", nil))
	}

	contentType := file.Header.Get("Content-Type")
	if !isAllowedFileType(contentType) {
		return response.Error(c, errors.BadRequest("File type not supported", nil))
	}

	purpose := c.FormValue("purpose")
	dest, ok := purposes[purpose]
	if !ok {
		return response.Error(c, errors.BadRequest("Unknown upload purpose", nil))
	}

	src, err := file.Open()
	if err != nil {
		return response.Error(c, errors.Internal("Unable to read file", err))
	}
	defer src.Close()

	url, objectName, err := h.storageClient.UploadFile(c.Request().Context(), src, contentType, dest.folder, dest.public)
	if err != nil {
		return response.Error(c, errors.Internal("Failed to upload file", err))
	}

	metadata := &entity.FileMetadata{
		OwnerID:    getUserID(c),
		URL:        url,
		ObjectName: objectName,
		FileType:   contentType,
		Purpose:    purpose,
		Public:     dest.public,
	}
	if err := h.metadataRepo.Create(c.Request().Context(), metadata); err != nil {
		logger.Error("Failed to save file metadata: %v", err)
	}

	payload := map[string]interface{}{
		"id":      metadata.ID,
		"purpose": purpose,
		"public":  dest.public,
	}
	if dest.public {
		payload["url"] = url
	}
	return response.Created(c, payload)
}

// View redirects to the object, issuing a short-lived signed URL for private
// files the caller owns.
func (h *FileHandler) View(c echo.Context) error {
	metadata, err := h.metadataRepo.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	if metadata.Public {
		return c.Redirect(302, metadata.URL)
	}

	userID := getUserID(c)
	if metadata.OwnerID != userID && !isAdmin(c) {
		return response.Error(c, errors.Forbidden("You do not have access to this file", nil))
	}

	signed, err := h.storageClient.SignedDownloadURL(metadata.ObjectName, 15*time.Minute)
	if err != nil {
		return response.Error(c, errors.Internal("Failed to generate download link", err))
	}
	return c.Redirect(302, signed)
}

func (h *FileHandler) Delete(c echo.Context) error {
	metadata, err := h.metadataRepo.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	if metadata.OwnerID != getUserID(c) && !isAdmin(c) {
		return response.Error(c, errors.Forbidden("You do not own this file", nil))
	}

	if err := h.storageClient.DeleteFile(c.Request().Context(), metadata.URL); err != nil {
		logger.Error("Failed to delete object %s: %v", metadata.ObjectName, err)
	}
	if err := h.metadataRepo.Delete(c.Request().Context(), metadata.ID); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{
		"message": "File deleted",
	})
}

func (h *FileHandler) ListMine(c echo.Context) error {
	files, total, err := h.metadataRepo.ListByOwnerID(c.Request().Context(), getUserID(c), 50, 0)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Paginated(c, files, total, 1, 50)
}
