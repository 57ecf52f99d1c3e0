package controllers

import (
	"log"
	"os"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// UploadMedia stores an image or video on Cloudinary and returns its URL.
// Clients upload first, then reference the returned URL in posts, messages
// and profile fields
func UploadMedia(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "No file provided",
		})
	}

	cld, err := cloudinary.NewFromURL(os.Getenv("CLOUDINARY_URL"))
	if err != nil {
		log.Printf("Error initializing cloudinary: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Media storage is not configured",
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		log.Printf("Error opening upload: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to read file",
		})
	}
	defer file.Close()

	resourceType := "image"
	if strings.HasPrefix(fileHeader.Header.Get("Content-Type"), "video/") {
		resourceType = "video"
	}

	result, err := cld.Upload.Upload(c.Context(), file, uploader.UploadParams{
		PublicID:     uuid.NewString(),
		Folder:       "skillhands",
		ResourceType: resourceType,
	})
	if err != nil {
		log.Printf("Error uploading to cloudinary: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to upload file",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"url":     result.SecureURL,
		"type":    resourceType,
	})
}
