package controllers

import (
	"log"
	"regexp"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/skillhands/skillhands-backend/src/lib"
	"github.com/skillhands/skillhands-backend/src/models"
)

// GetFeedPosts returns posts from the users the authenticated user follows,
// plus their own, newest first
func GetFeedPosts(c *fiber.Ctx) error {
	user := c.Locals("user").(models.User)

	authorIDs := append([]primitive.ObjectID{user.Id}, user.Following...)

	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := lib.DB.Collection("posts").Find(c.Context(), bson.M{"userId": bson.M{"$in": authorIDs}}, opts)
	if err != nil {
		log.Printf("Error finding feed posts: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Server error",
		})
	}
	defer cursor.Close(c.Context())

	var posts []models.Post
	if err := cursor.All(c.Context(), &posts); err != nil {
		log.Printf("Error decoding feed posts: %v", err)
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

// CreatePost creates a new post for the authenticated user. Media must
// already be uploaded; the post only stores the returned URLs
func CreatePost(c *fiber.Ctx) error {
	var req struct {
		Title       string   `json:"title"`
		Description string   `json:"description"`
		Images      []string `json:"images"`
		Video       string   `json:"video"`
	}

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
		})
	}

	if req.Title == "" || req.Description == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Title and description are required",
		})
	}

	user := c.Locals("user").(models.User)

	now := time.Now()
	newPost := models.Post{
		Id:          primitive.NewObjectID(),
		Title:       req.Title,
		Description: req.Description,
		Images:      req.Images,
		Video:       req.Video,
		UserId:      user.Id,
		Likes:       []primitive.ObjectID{},
		SavedBy:     []primitive.ObjectID{},
		Comments:    []models.Comment{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if newPost.Images == nil {
		newPost.Images = []string{}
	}

	if _, err := lib.DB.Collection("posts").InsertOne(c.Context(), newPost); err != nil {
		log.Printf("Error creating post: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to create post",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"post":    toPostDto(newPost, user.Dto()),
	})
}

// GetPostByID returns a post by its ID
func GetPostByID(c *fiber.Ctx) error {
	postID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid post ID format",
		})
	}

	var post models.Post
	err = lib.DB.Collection("posts").FindOne(c.Context(), bson.M{"_id": postID}).Decode(&post)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"message": "Post not found",
			})
		}
		log.Printf("Error finding post: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Server error",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"post":    resolvePost(c, post),
	})
}

// DeletePost deletes a post if the authenticated user is the owner, along
// with the post's ratings and notifications. The owner's overall rating is
// recomputed afterwards
func DeletePost(c *fiber.Ctx) error {
	postID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid post ID format",
		})
	}

	user := c.Locals("user").(models.User)

	var post models.Post
	err = lib.DB.Collection("posts").FindOne(c.Context(), bson.M{"_id": postID}).Decode(&post)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"message": "Post not found",
			})
		}
		log.Printf("Error finding post: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Server error",
		})
	}

	if post.UserId != user.Id {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"success": false,
			"message": "You are not authorized to delete this post",
		})
	}

	if _, err := lib.DB.Collection("posts").DeleteOne(c.Context(), bson.M{"_id": postID}); err != nil {
		log.Printf("Error deleting post: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to delete post",
		})
	}

	// Cleanup after the post is gone. Failures leave stale documents behind
	// but never undo the delete.
	if err := svc.Ratings.HandlePostDeleted(c.Context(), postID, user.Id); err != nil {
		log.Printf("Error cleaning up ratings for post %s: %v", postID.Hex(), err)
	}
	if err := svc.Notifications.Store.DeleteNotificationsByPost(c.Context(), postID); err != nil {
		log.Printf("Error cleaning up notifications for post %s: %v", postID.Hex(), err)
	}

	return c.Status(fiber.StatusOK).JSON(lib.MessageResponse("Post deleted successfully"))
}

// LikePost toggles a like/unlike on a post by the authenticated user. Liking
// someone else's post notifies the owner; unliking does not retract the
// earlier notification
func LikePost(c *fiber.Ctx) error {
	postID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid post ID format",
		})
	}

	user := c.Locals("user").(models.User)

	posts := lib.DB.Collection("posts")

	var post models.Post
	err = posts.FindOne(c.Context(), bson.M{"_id": postID}).Decode(&post)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"message": "Post not found",
			})
		}
		log.Printf("Error finding post: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Server error",
		})
	}

	alreadyLiked := false
	for _, id := range post.Likes {
		if id == user.Id {
			alreadyLiked = true
			break
		}
	}

	var update bson.M
	if alreadyLiked {
		update = bson.M{"$pull": bson.M{"likes": user.Id}}
	} else {
		update = bson.M{"$addToSet": bson.M{"likes": user.Id}}
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Post
	if err := posts.FindOneAndUpdate(c.Context(), bson.M{"_id": postID}, update, opts).Decode(&updated); err != nil {
		log.Printf("Error toggling like: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to toggle like",
		})
	}

	if !alreadyLiked {
		if _, err := svc.Notifications.Notify(c.Context(), post.UserId, user.Id, models.NotificationTypeLike, postID); err != nil {
			log.Printf("Error creating like notification: %v", err)
		}
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success":    true,
		"liked":      !alreadyLiked,
		"likesCount": len(updated.Likes),
	})
}

// CreateComment appends a comment to a post, denormalizing the commenter's
// display fields, and notifies the post owner
func CreateComment(c *fiber.Ctx) error {
	postID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid post ID format",
		})
	}

	var req struct {
		Comment string `json:"comment"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
		})
	}
	if req.Comment == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Comment cannot be empty",
		})
	}

	user := c.Locals("user").(models.User)

	var post models.Post
	err = lib.DB.Collection("posts").FindOne(c.Context(), bson.M{"_id": postID}).Decode(&post)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"message": "Post not found",
			})
		}
		log.Printf("Error finding post: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Server error",
		})
	}

	comment := models.Comment{
		Id:        primitive.NewObjectID(),
		UserId:    user.Id,
		Text:      req.Comment,
		Name:      user.Name,
		Avatar:    user.ProfilePic,
		CreatedAt: time.Now(),
	}

	_, err = lib.DB.Collection("posts").UpdateOne(
		c.Context(),
		bson.M{"_id": postID},
		bson.M{"$push": bson.M{"comments": comment}},
	)
	if err != nil {
		log.Printf("Error adding comment: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to add comment",
		})
	}

	if _, err := svc.Notifications.Notify(c.Context(), post.UserId, user.Id, models.NotificationTypeComment, postID); err != nil {
		log.Printf("Error creating comment notification: %v", err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Comment added",
		"comment": comment,
	})
}

// SavePost toggles the post on or off the authenticated user's wishlist
func SavePost(c *fiber.Ctx) error {
	postID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid post ID format",
		})
	}

	user := c.Locals("user").(models.User)

	posts := lib.DB.Collection("posts")

	var post models.Post
	err = posts.FindOne(c.Context(), bson.M{"_id": postID}).Decode(&post)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"message": "Post not found",
			})
		}
		log.Printf("Error finding post: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Server error",
		})
	}

	alreadySaved := false
	for _, id := range post.SavedBy {
		if id == user.Id {
			alreadySaved = true
			break
		}
	}

	var update bson.M
	if alreadySaved {
		update = bson.M{"$pull": bson.M{"savedBy": user.Id}}
	} else {
		update = bson.M{"$addToSet": bson.M{"savedBy": user.Id}}
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Post
	if err := posts.FindOneAndUpdate(c.Context(), bson.M{"_id": postID}, update, opts).Decode(&updated); err != nil {
		log.Printf("Error toggling save: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to toggle save",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success":    true,
		"saved":      !alreadySaved,
		"savedCount": len(updated.SavedBy),
	})
}

// SearchPosts filters posts by their owners: free-text over name and skills,
// plus exact state/district and category/skill filters
func SearchPosts(c *fiber.Ctx) error {
	query := c.Query("query")
	state := c.Query("state")
	district := c.Query("district")
	category := c.Query("category")
	skill := c.Query("skill")

	userFilter := bson.M{}
	if state != "" {
		userFilter["location.state"] = bson.M{"$regex": "^" + regexp.QuoteMeta(state) + "$", "$options": "i"}
	}
	if district != "" {
		userFilter["location.district"] = bson.M{"$regex": "^" + regexp.QuoteMeta(district) + "$", "$options": "i"}
	}
	if category != "" {
		userFilter["skillCategories"] = bson.M{"$regex": regexp.QuoteMeta(category), "$options": "i"}
	}
	if skill != "" {
		userFilter["skills"] = bson.M{"$regex": regexp.QuoteMeta(skill), "$options": "i"}
	}
	if query != "" {
		pattern := bson.M{"$regex": regexp.QuoteMeta(query), "$options": "i"}
		userFilter["$or"] = []bson.M{
			{"name": pattern},
			{"skills": pattern},
		}
	}

	userCursor, err := lib.DB.Collection("users").Find(
		c.Context(),
		userFilter,
		options.Find().SetProjection(bson.M{"_id": 1}),
	)
	if err != nil {
		log.Printf("Error searching users: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Server error",
		})
	}
	defer userCursor.Close(c.Context())

	var matched []struct {
		Id primitive.ObjectID `bson:"_id"`
	}
	if err := userCursor.All(c.Context(), &matched); err != nil {
		log.Printf("Error decoding matched users: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Server error",
		})
	}

	if len(matched) == 0 {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"success": true,
			"posts":   []models.PostDto{},
		})
	}

	userIDs := make([]primitive.ObjectID, 0, len(matched))
	for _, m := range matched {
		userIDs = append(userIDs, m.Id)
	}

	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := lib.DB.Collection("posts").Find(c.Context(), bson.M{"userId": bson.M{"$in": userIDs}}, opts)
	if err != nil {
		log.Printf("Error searching posts: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Server error",
		})
	}
	defer cursor.Close(c.Context())

	var posts []models.Post
	if err := cursor.All(c.Context(), &posts); err != nil {
		log.Printf("Error decoding posts: %v", err)
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

func toPostDto(post models.Post, author models.UserDto) models.PostDto {
	return models.PostDto{
		Post:          post,
		Author:        author,
		LikesCount:    len(post.Likes),
		SavedCount:    len(post.SavedBy),
		CommentsCount: len(post.Comments),
	}
}

// resolvePosts attaches owner display fields to each post, fetching every
// distinct owner once.
func resolvePosts(c *fiber.Ctx, posts []models.Post) []models.PostDto {
	ownerIDs := make([]primitive.ObjectID, 0, len(posts))
	seen := make(map[primitive.ObjectID]bool, len(posts))
	for _, post := range posts {
		if !seen[post.UserId] {
			seen[post.UserId] = true
			ownerIDs = append(ownerIDs, post.UserId)
		}
	}

	authors := make(map[primitive.ObjectID]models.UserDto, len(ownerIDs))
	if len(ownerIDs) > 0 {
		cursor, err := lib.DB.Collection("users").Find(
			c.Context(),
			bson.M{"_id": bson.M{"$in": ownerIDs}},
			options.Find().SetProjection(bson.M{"name": 1, "profilePic": 1, "title": 1}),
		)
		if err != nil {
			log.Printf("Error resolving post authors: %v", err)
		} else {
			defer cursor.Close(c.Context())
			var dtos []models.UserDto
			if err := cursor.All(c.Context(), &dtos); err != nil {
				log.Printf("Error decoding post authors: %v", err)
			}
			for _, dto := range dtos {
				authors[dto.ID] = dto
			}
		}
	}

	dtos := make([]models.PostDto, 0, len(posts))
	for _, post := range posts {
		dtos = append(dtos, toPostDto(post, authors[post.UserId]))
	}
	return dtos
}

func resolvePost(c *fiber.Ctx, post models.Post) models.PostDto {
	var author models.UserDto
	err := lib.DB.Collection("users").FindOne(
		c.Context(),
		bson.M{"_id": post.UserId},
		options.FindOne().SetProjection(bson.M{"name": 1, "profilePic": 1, "title": 1}),
	).Decode(&author)
	if err != nil && err != mongo.ErrNoDocuments {
		log.Printf("Error resolving post author: %v", err)
	}
	return toPostDto(post, author)
}
