package controllers

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/skillhands/skillhands-backend/src/lib"
	"github.com/skillhands/skillhands-backend/src/models"
)

var displayProjection = bson.M{"name": 1, "profilePic": 1, "title": 1}

// GetUserProfile returns a user's public profile: the stored overall rating
// aggregate plus post and follow counts
func GetUserProfile(c *fiber.Ctx) error {
	userID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid user ID format",
		})
	}

	var user models.User
	err = lib.DB.Collection("users").FindOne(
		c.Context(),
		bson.M{"_id": userID},
		options.FindOne().SetProjection(bson.M{"password": 0}),
	).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"message": "User not found",
			})
		}
		log.Printf("Error finding user: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Server error",
		})
	}

	postsCount, err := lib.DB.Collection("posts").CountDocuments(c.Context(), bson.M{"userId": userID})
	if err != nil {
		log.Printf("Error counting posts: %v", err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success":        true,
		"user":           user,
		"postsCount":     postsCount,
		"followerCount":  len(user.Followers),
		"followingCount": len(user.Following),
	})
}

// UpdateProfile applies a partial update to the authenticated user's own
// profile. Credentials and graph fields are managed elsewhere and stripped
// from the body before the update
func UpdateProfile(c *fiber.Ctx) error {
	var body map[string]interface{}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
		})
	}

	for _, field := range []string{
		"_id", "id", "email", "password", "followers", "following",
		"connectionRequestsSent", "connectionRequestsReceived",
		"overallRating", "createdAt", "updatedAt",
	} {
		delete(body, field)
	}

	if len(body) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "No updatable fields provided",
		})
	}

	user := c.Locals("user").(models.User)

	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(bson.M{"password": 0})

	var updated models.User
	err := lib.DB.Collection("users").FindOneAndUpdate(
		c.Context(),
		bson.M{"_id": user.Id},
		bson.M{"$set": body, "$currentDate": bson.M{"updatedAt": true}},
		opts,
	).Decode(&updated)
	if err != nil {
		log.Printf("Error updating profile: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to update profile",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Profile updated successfully",
		"user":    updated,
	})
}

// GetUserPosts returns all posts owned by the given user, newest first
func GetUserPosts(c *fiber.Ctx) error {
	userID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid user ID format",
		})
	}

	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := lib.DB.Collection("posts").Find(c.Context(), bson.M{"userId": userID}, opts)
	if err != nil {
		log.Printf("Error finding user posts: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Server error",
		})
	}
	defer cursor.Close(c.Context())

	var posts []models.Post
	if err := cursor.All(c.Context(), &posts); err != nil {
		log.Printf("Error decoding user posts: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Server error",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"posts":   resolvePosts(c, posts),
	})
}

// GetFollowers returns the display fields of a user's followers
func GetFollowers(c *fiber.Ctx) error {
	return listGraphField(c, "followers")
}

// GetFollowing returns the display fields of the users someone follows
func GetFollowing(c *fiber.Ctx) error {
	return listGraphField(c, "following")
}

func listGraphField(c *fiber.Ctx, field string) error {
	userID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid user ID format",
		})
	}

	var user models.User
	err = lib.DB.Collection("users").FindOne(
		c.Context(),
		bson.M{"_id": userID},
		options.FindOne().SetProjection(bson.M{field: 1}),
	).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"message": "User not found",
			})
		}
		log.Printf("Error finding user: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Server error",
		})
	}

	ids := user.Followers
	if field == "following" {
		ids = user.Following
	}

	users, err := findUserDtos(c, ids)
	if err != nil {
		log.Printf("Error resolving %s: %v", field, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Server error",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"users":   users,
	})
}

// GetConnections returns the union of the authenticated user's followers and
// following, for the chat contact list
func GetConnections(c *fiber.Ctx) error {
	user := c.Locals("user").(models.User)

	seen := make(map[primitive.ObjectID]bool)
	ids := make([]primitive.ObjectID, 0, len(user.Followers)+len(user.Following))
	for _, id := range append(append([]primitive.ObjectID{}, user.Followers...), user.Following...) {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	users, err := findUserDtos(c, ids)
	if err != nil {
		log.Printf("Error resolving connections: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Server error",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"users":   users,
	})
}

// GetWishlist returns the posts the authenticated user has saved
func GetWishlist(c *fiber.Ctx) error {
	user := c.Locals("user").(models.User)

	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := lib.DB.Collection("posts").Find(c.Context(), bson.M{"savedBy": user.Id}, opts)
	if err != nil {
		log.Printf("Error finding wishlist: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Server error",
		})
	}
	defer cursor.Close(c.Context())

	var posts []models.Post
	if err := cursor.All(c.Context(), &posts); err != nil {
		log.Printf("Error decoding wishlist: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Server error",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"posts":   resolvePosts(c, posts),
	})
}

func findUserDtos(c *fiber.Ctx, ids []primitive.ObjectID) ([]models.UserDto, error) {
	if len(ids) == 0 {
		return []models.UserDto{}, nil
	}

	cursor, err := lib.DB.Collection("users").Find(
		c.Context(),
		bson.M{"_id": bson.M{"$in": ids}},
		options.Find().SetProjection(displayProjection),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(c.Context())

	users := []models.UserDto{}
	if err := cursor.All(c.Context(), &users); err != nil {
		return nil, err
	}
	return users, nil
}
