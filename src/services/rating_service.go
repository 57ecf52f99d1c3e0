package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/skillhands/skillhands-backend/src/models"
)

// RatingService owns the per-post rating store and the per-user overall
// rating aggregate. Submission, the cached post average and the owner
// aggregate are a sequence of independent writes, not a transaction: a crash
// in between leaves the cached values stale until the next write.
type RatingService struct {
	Ratings  RatingStore
	Posts    PostStore
	Users    UserStore
	Notifier *NotificationService
}

// RatingResult is what a rating submission returns: the stored rating, the
// refreshed post average and the owner's refreshed overall aggregate.
type RatingResult struct {
	Rating        models.Rating        `json:"rating"`
	AverageRating float64              `json:"averageRating"`
	OverallRating models.OverallRating `json:"newOverallRating"`
}

// Submit records reviewer's rating on a post, overwriting any previous
// rating by the same reviewer. The value must be an integer in [1,5] and a
// user may not rate their own post. Both checks run before any mutation.
func (s *RatingService) Submit(ctx context.Context, postID, reviewer primitive.ObjectID, value int, feedback string) (*RatingResult, error) {
	if value < 1 || value > 5 {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Rating value must be between 1 and 5")
	}

	post, err := s.Posts.FindPost(ctx, postID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Post not found")
		}
		return nil, err
	}

	if post.UserId == reviewer {
		return nil, fiber.NewError(fiber.StatusForbidden, "You cannot rate your own post")
	}

	rating := &models.Rating{
		PostId:     postID,
		ReviewerId: reviewer,
		OwnerId:    post.UserId,
		Value:      value,
		Feedback:   feedback,
	}
	if _, err := s.Ratings.UpsertRating(ctx, rating); err != nil {
		return nil, fmt.Errorf("upsert rating: %w", err)
	}

	average, err := s.refreshPostAverage(ctx, postID)
	if err != nil {
		return nil, err
	}

	// The caller displays the refreshed aggregate immediately, so the
	// recompute has to finish (or fail the request) before we respond.
	overall, err := s.RecalculateOverallRating(ctx, post.UserId)
	if err != nil {
		return nil, fmt.Errorf("recalculate overall rating: %w", err)
	}

	if _, err := s.Notifier.Notify(ctx, post.UserId, reviewer, models.NotificationTypeRating, postID); err != nil {
		log.Printf("Failed to create rating notification: %v", err)
	}

	return &RatingResult{
		Rating:        *rating,
		AverageRating: average,
		OverallRating: overall,
	}, nil
}

// refreshPostAverage recomputes the post's cached average from the ratings
// collection and persists it, rounded to one decimal place.
func (s *RatingService) refreshPostAverage(ctx context.Context, postID primitive.ObjectID) (float64, error) {
	stats, err := s.Ratings.PostStats(ctx, postID)
	if err != nil {
		return 0, fmt.Errorf("post rating stats: %w", err)
	}

	average := 0.0
	if stats.Count > 0 {
		average = RoundHalf(stats.Average)
	}

	if err := s.Posts.SetAverageRating(ctx, postID, average); err != nil {
		return 0, fmt.Errorf("cache post average: %w", err)
	}
	return average, nil
}

// RecalculateOverallRating rebuilds a user's overall rating aggregate from
// every rating across all of that user's posts and persists it. Idempotent:
// with no intervening rating changes two calls yield identical output. A user
// with zero ratings gets the all-zero aggregate.
func (s *RatingService) RecalculateOverallRating(ctx context.Context, ownerID primitive.ObjectID) (models.OverallRating, error) {
	stats, err := s.Ratings.OwnerStats(ctx, ownerID)
	if err != nil {
		return models.OverallRating{}, err
	}

	overall := BuildOverallRating(stats)
	if err := s.Users.SetOverallRating(ctx, ownerID, overall); err != nil {
		return models.OverallRating{}, err
	}
	return overall, nil
}

// HandlePostDeleted removes the deleted post's ratings and brings the owner
// aggregate back in line.
func (s *RatingService) HandlePostDeleted(ctx context.Context, postID, ownerID primitive.ObjectID) error {
	if err := s.Ratings.DeleteRatingsByPost(ctx, postID); err != nil {
		return err
	}
	_, err := s.RecalculateOverallRating(ctx, ownerID)
	return err
}

// BuildOverallRating normalizes raw owner stats into the stored aggregate:
// average rounded to one decimal place and clamped to [0,5], zero values for
// a user with no ratings.
func BuildOverallRating(stats models.OwnerRatingStats) models.OverallRating {
	overall := models.ZeroOverallRating()
	if stats.TotalRatings == 0 {
		return overall
	}

	overall.TotalRatings = stats.TotalRatings
	overall.TotalReviews = stats.TotalReviews
	overall.AverageScore = Clamp(RoundHalf(float64(stats.Sum)/float64(stats.TotalRatings)), 0, 5)
	overall.Distribution["1"] = stats.Count1
	overall.Distribution["2"] = stats.Count2
	overall.Distribution["3"] = stats.Count3
	overall.Distribution["4"] = stats.Count4
	overall.Distribution["5"] = stats.Count5
	return overall
}

// RoundHalf rounds to one decimal place.
func RoundHalf(v float64) float64 {
	return math.Round(v*10) / 10
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
