package repository

import (
	"context"
	"errors"

	"coursetrack-backend/internal/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ========== PROGRESS REPOSITORY ==========

type progressRepo struct {
	db *mongo.Database
}

func NewProgressRepository(db *mongo.Database) domain.ProgressRepository {
	return &progressRepo{db}
}

func (r *progressRepo) collection() *mongo.Collection {
	return r.db.Collection("course_progress")
}

func (r *progressRepo) Create(ctx context.Context, progress *domain.CourseProgress) error {
	_, err := r.collection().InsertOne(ctx, progress)
	return err
}

func (r *progressRepo) GetByUserAndCourse(ctx context.Context, userID, courseID uint) (*domain.CourseProgress, error) {
	filter := bson.M{"user_id": userID, "course_id": courseID}

	var progress domain.CourseProgress
	err := r.collection().FindOne(ctx, filter).Decode(&progress)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrProgressNotFound
	}
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

func (r *progressRepo) GetByUserID(ctx context.Context, userID uint) ([]domain.CourseProgress, error) {
	opts := options.Find().SetSort(bson.D{{Key: "last_accessed_at", Value: -1}})
	cursor, err := r.collection().Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []domain.CourseProgress
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// Update replaces the whole document keyed by (user_id, course_id).
// Last write wins; concurrent updates for the same pair may clobber
// each other, matching the store's document semantics.
func (r *progressRepo) Update(ctx context.Context, progress *domain.CourseProgress) error {
	filter := bson.M{"user_id": progress.UserID, "course_id": progress.CourseID}
	res, err := r.collection().ReplaceOne(ctx, filter, progress)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrProgressNotFound
	}
	return nil
}

func (r *progressRepo) CountCompleted(ctx context.Context) (int64, error) {
	return r.collection().CountDocuments(ctx, bson.M{"status": domain.StatusCompleted})
}

// ========== ACTIVITY REPOSITORY ==========

type activityRepo struct {
	db *mongo.Database
}

func NewActivityRepository(db *mongo.Database) domain.ActivityRepository {
	return &activityRepo{db}
}

func (r *activityRepo) collection() *mongo.Collection {
	return r.db.Collection("user_activities")
}

func (r *activityRepo) Create(ctx context.Context, activity *domain.UserActivity) error {
	_, err := r.collection().InsertOne(ctx, activity)
	return err
}

func (r *activityRepo) GetRecentByUserID(ctx context.Context, userID uint, limit int) ([]domain.UserActivity, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.collection().Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var activities []domain.UserActivity
	if err := cursor.All(ctx, &activities); err != nil {
		return nil, err
	}
	return activities, nil
}
