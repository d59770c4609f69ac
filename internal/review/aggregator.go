// Package review maintains the embedded review set and aggregate rating on
// a product.
package review

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"tstore_backend/internal/models"
)

// Upsert writes a user's review onto the product: an existing review is
// overwritten in place (position and count preserved), otherwise the review
// is appended. The aggregate rating is maintained from the running sum
// rather than a full rescan.
func Upsert(p *models.Product, user primitive.ObjectID, name string, rating int, comment string) {
	sum := p.Ratings * float64(p.NumberOfReviews)

	for i := range p.Reviews {
		if p.Reviews[i].User == user {
			sum += float64(rating - p.Reviews[i].Rating)
			p.Reviews[i].Rating = rating
			p.Reviews[i].Comment = comment
			p.Ratings = sum / float64(p.NumberOfReviews)
			return
		}
	}

	p.Reviews = append(p.Reviews, models.Review{
		User:    user,
		Name:    name,
		Rating:  rating,
		Comment: comment,
	})
	p.NumberOfReviews = len(p.Reviews)
	sum += float64(rating)
	p.Ratings = sum / float64(p.NumberOfReviews)
}

// Remove deletes the user's review if present, keeping the remaining
// reviews in order, and recomputes count and aggregate rating (0 when the
// set empties). It reports whether a review was removed.
func Remove(p *models.Product, user primitive.ObjectID) bool {
	for i := range p.Reviews {
		if p.Reviews[i].User != user {
			continue
		}
		sum := p.Ratings*float64(p.NumberOfReviews) - float64(p.Reviews[i].Rating)
		p.Reviews = append(p.Reviews[:i], p.Reviews[i+1:]...)
		p.NumberOfReviews = len(p.Reviews)
		if p.NumberOfReviews == 0 {
			p.Ratings = 0
		} else {
			p.Ratings = sum / float64(p.NumberOfReviews)
		}
		return true
	}
	return false
}
