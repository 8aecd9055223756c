package mongo

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Dinesh259/Free-Solutions/internal/app/models"
	"github.com/Dinesh259/Free-Solutions/internal/app/repositories"
	"github.com/Dinesh259/Free-Solutions/internal/pkg/apperrors"
	"github.com/Dinesh259/Free-Solutions/internal/pkg/helpers"
)

// ContentRepository stores content in the "contents" collection
type ContentRepository struct {
	c *mongo.Collection
}

// NewContentRepository creates a new ContentRepository
func NewContentRepository(db *mongo.Database) *ContentRepository {
	return &ContentRepository{c: db.Collection("contents")}
}

// EnsureIndexes creates the curriculum scope and listing indexes
func (r *ContentRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.c.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "classLevel", Value: 1}, {Key: "medium", Value: 1}, {Key: "subject", Value: 1}}},
		{Keys: bson.D{{Key: "updatedAt", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create contents indexes: %w", err)
	}
	return nil
}

func scopeFilter(f repositories.CurriculumFilter) bson.M {
	filter := bson.M{
		"classLevel": f.ClassLevel,
		"medium":     string(f.Medium),
		"subject":    f.Subject,
	}
	if f.ChapterName != "" {
		filter["chapterName"] = f.ChapterName
	}
	if f.Exercise != nil {
		filter["exercise"] = *f.Exercise
	}
	return filter
}

func (r *ContentRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Content, error) {
	cursor, err := r.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error finding contents: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []contentDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("error decoding contents: %w", err)
	}

	contents := make([]models.Content, 0, len(docs))
	for i := range docs {
		contents = append(contents, docs[i].toModel())
	}
	return contents, nil
}

// Create inserts a new content record
func (r *ContentRepository) Create(ctx context.Context, content *models.Content) error {
	now := time.Now().UTC()
	content.Exercise = helpers.NullableString(content.Exercise)
	content.CreatedAt = now
	content.UpdatedAt = now

	doc := newContentDocument(content)
	doc.ID = primitive.NewObjectID()

	if _, err := r.c.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("error creating content: %w", err)
	}
	content.ID = doc.ID.Hex()
	return nil
}

// GetByID retrieves a content record by ID
func (r *ContentRepository) GetByID(ctx context.Context, id string) (*models.Content, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.ErrContentNotFound
	}

	var doc contentDocument
	if err := r.c.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrContentNotFound
		}
		return nil, fmt.Errorf("error retrieving content: %w", err)
	}
	content := doc.toModel()
	return &content, nil
}

// Update replaces all editable fields of a content record
func (r *ContentRepository) Update(ctx context.Context, content *models.Content) error {
	oid, err := primitive.ObjectIDFromHex(content.ID)
	if err != nil {
		return apperrors.ErrContentNotFound
	}
	now := time.Now().UTC()
	exercise := helpers.NullableString(content.Exercise)

	set := bson.M{
		"classLevel":          content.ClassLevel,
		"medium":              string(content.Medium),
		"subject":             content.Subject,
		"chapterName":         content.ChapterName,
		"questionNumber":      content.QuestionNumber,
		"questionDescription": content.QuestionDescription,
		"videoID":             content.VideoID,
		"textSolution":        content.TextSolution,
		"questionImage":       content.ImageRef,
		"updatedAt":           now,
	}
	update := bson.M{"$set": set}
	if exercise != nil {
		set["exercise"] = *exercise
	} else {
		update["$unset"] = bson.M{"exercise": ""}
	}

	res, err := r.c.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("error updating content: %w", err)
	}
	if res.MatchedCount == 0 {
		return apperrors.ErrContentNotFound
	}
	content.Exercise = exercise
	content.UpdatedAt = now
	return nil
}

// Delete removes a content record
func (r *ContentRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil
	}
	if _, err := r.c.DeleteOne(ctx, bson.M{"_id": oid}); err != nil {
		return fmt.Errorf("error deleting content: %w", err)
	}
	return nil
}

// ListRecent returns content ordered by update time, newest first
func (r *ContentRepository) ListRecent(ctx context.Context, offset uint64, limit int) ([]models.Content, int64, error) {
	total, err := r.c.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("error counting contents: %w", err)
	}

	opts := options.Find().SetSort(bson.D{{Key: "updatedAt", Value: -1}, {Key: "_id", Value: 1}})
	if limit > 0 {
		opts.SetSkip(int64(offset)).SetLimit(int64(limit))
	}

	contents, err := r.find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, err
	}
	return contents, total, nil
}

func (r *ContentRepository) distinct(ctx context.Context, field string, filter bson.M) ([]string, error) {
	raw, err := r.c.Distinct(ctx, field, filter)
	if err != nil {
		return nil, fmt.Errorf("error selecting distinct %s: %w", field, err)
	}

	values := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok && s != "" {
			values = append(values, s)
		}
	}
	sort.Strings(values)
	return values, nil
}

// DistinctChapters lists the chapters available for a class, medium and subject
func (r *ContentRepository) DistinctChapters(ctx context.Context, filter repositories.CurriculumFilter) ([]string, error) {
	filter.ChapterName = ""
	filter.Exercise = nil
	return r.distinct(ctx, "chapterName", scopeFilter(filter))
}

// DistinctExercises lists the non-empty exercise labels of a chapter
func (r *ContentRepository) DistinctExercises(ctx context.Context, filter repositories.CurriculumFilter) ([]string, error) {
	filter.Exercise = nil
	return r.distinct(ctx, "exercise", scopeFilter(filter))
}

// FindQuestions lists the questions matching a curriculum filter
func (r *ContentRepository) FindQuestions(ctx context.Context, filter repositories.CurriculumFilter) ([]models.Content, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	return r.find(ctx, scopeFilter(filter), opts)
}

// ListOutlines returns the medium, chapter and exercise of every record of a subject
func (r *ContentRepository) ListOutlines(ctx context.Context, subject string) ([]models.ContentOutline, error) {
	opts := options.Find().SetProjection(bson.M{"medium": 1, "chapterName": 1, "exercise": 1})
	contents, err := r.find(ctx, bson.M{"subject": subject}, opts)
	if err != nil {
		return nil, err
	}

	outlines := make([]models.ContentOutline, 0, len(contents))
	for _, c := range contents {
		outlines = append(outlines, models.ContentOutline{
			Medium:      c.Medium,
			ChapterName: c.ChapterName,
			Exercise:    c.Exercise,
		})
	}
	return outlines, nil
}

// FindByCoordinates returns records located at exactly the given coordinates
func (r *ContentRepository) FindByCoordinates(ctx context.Context, coords models.Coordinates) ([]models.Content, error) {
	filter := bson.M{
		"classLevel":     coords.ClassLevel,
		"medium":         string(coords.Medium),
		"subject":        coords.Subject,
		"chapterName":    coords.ChapterName,
		"questionNumber": coords.QuestionNumber,
	}
	if coords.Exercise != nil {
		filter["exercise"] = *coords.Exercise
	} else {
		filter["exercise"] = bson.M{"$in": bson.A{nil, ""}}
	}
	return r.find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
}
