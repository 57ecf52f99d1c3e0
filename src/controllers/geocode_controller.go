package controllers

import (
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"googlemaps.github.io/maps"
)

// GeocodeAddress resolves a free-form address to coordinates so clients can
// store a GeoJSON point on the user's profile
func GeocodeAddress(c *fiber.Ctx) error {
	address := c.Query("address")
	if address == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Address is required",
		})
	}

	apiKey := os.Getenv("GOOGLE_MAPS_API_KEY")
	if apiKey == "" {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Geocoding is not configured",
		})
	}

	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		log.Printf("Error creating maps client: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Server error",
		})
	}

	results, err := client.Geocode(c.Context(), &maps.GeocodingRequest{Address: address})
	if err != nil {
		log.Printf("Error geocoding address: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to geocode address",
		})
	}
	if len(results) == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "No results found for address",
		})
	}

	location := results[0].Geometry.Location
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success":          true,
		"latitude":         location.Lat,
		"longitude":        location.Lng,
		"formattedAddress": results[0].FormattedAddress,
	})
}
