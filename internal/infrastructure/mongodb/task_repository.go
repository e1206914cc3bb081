package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/oksasatya/go-ddd-task-manager/internal/domain/entity"
	"github.com/oksasatya/go-ddd-task-manager/internal/domain/repository"
)

type taskDoc struct {
	ID          bson.ObjectID `bson:"_id,omitempty"`
	Title       string        `bson:"title"`
	Description string        `bson:"description"`
	Status      string        `bson:"status"`
	UserID      string        `bson:"userId"`
	CreatedAt   time.Time     `bson:"createdAt"`
	UpdatedAt   time.Time     `bson:"updatedAt"`
}

func (d taskDoc) entity() entity.Task {
	return entity.Task{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Description: d.Description,
		Status:      entity.TaskStatus(d.Status),
		UserID:      d.UserID,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

type TaskRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewTaskRepository(db *mongo.Database) *TaskRepository {
	return &TaskRepository{coll: db.Collection(tasksCollection), now: time.Now}
}

func (r *TaskRepository) ValidID(id string) bool {
	_, err := bson.ObjectIDFromHex(id)
	return err == nil
}

func (r *TaskRepository) stamp() time.Time { return r.now().UTC().Truncate(time.Millisecond) }

func (r *TaskRepository) Create(ctx context.Context, t *entity.Task) error {
	now := r.stamp()
	doc := taskDoc{
		ID:          bson.NewObjectID(),
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		UserID:      t.UserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return err
	}
	t.ID = doc.ID.Hex()
	t.CreatedAt, t.UpdatedAt = now, now
	return nil
}

func ownerFilter(f entity.TaskFilter) bson.D {
	filter := bson.D{{Key: "userId", Value: f.UserID}}
	if f.Status != "" {
		filter = append(filter, bson.E{Key: "status", Value: string(f.Status)})
	}
	return filter
}

// byID scopes a lookup to both the id and its owner. Callers check ValidID first.
func byID(id, userID string) bson.D {
	oid, _ := bson.ObjectIDFromHex(id)
	return bson.D{{Key: "_id", Value: oid}, {Key: "userId", Value: userID}}
}

func (r *TaskRepository) Find(ctx context.Context, f entity.TaskFilter) ([]entity.Task, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64(f.Offset())).
		SetLimit(int64(f.PageSize))
	cur, err := r.coll.Find(ctx, ownerFilter(f), opts)
	if err != nil {
		return nil, err
	}
	defer func() { _ = cur.Close(ctx) }()

	var docs []taskDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]entity.Task, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.entity())
	}
	return out, nil
}

func (r *TaskRepository) Count(ctx context.Context, f entity.TaskFilter) (int64, error) {
	return r.coll.CountDocuments(ctx, ownerFilter(f))
}

func (r *TaskRepository) GetByID(ctx context.Context, id, userID string) (*entity.Task, error) {
	var doc taskDoc
	if err := r.coll.FindOne(ctx, byID(id, userID)).Decode(&doc); err != nil {
		return nil, notFound(err)
	}
	t := doc.entity()
	return &t, nil
}

func (r *TaskRepository) Update(ctx context.Context, id, userID string, p entity.TaskPatch) (*entity.Task, error) {
	set := bson.D{{Key: "updatedAt", Value: r.stamp()}}
	if p.Title != nil {
		set = append(set, bson.E{Key: "title", Value: *p.Title})
	}
	if p.Description != nil {
		set = append(set, bson.E{Key: "description", Value: *p.Description})
	}
	if p.Status != nil {
		set = append(set, bson.E{Key: "status", Value: string(*p.Status)})
	}
	var doc taskDoc
	err := r.coll.FindOneAndUpdate(ctx, byID(id, userID), bson.D{{Key: "$set", Value: set}},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&doc)
	if err != nil {
		return nil, notFound(err)
	}
	t := doc.entity()
	return &t, nil
}

func (r *TaskRepository) Delete(ctx context.Context, id, userID string) error {
	res, err := r.coll.DeleteOne(ctx, byID(id, userID))
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func notFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return repository.ErrNotFound
	}
	return err
}

var _ repository.TaskRepository = (*TaskRepository)(nil)
