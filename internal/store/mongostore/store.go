package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"tasklist/internal/model"
)

const CollectionName = "tasks"

type taskDoc struct {
	ID        primitive.ObjectID `bson:"_id"`
	Content   string             `bson:"content"`
	Completed bool               `bson:"completed"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

func (d taskDoc) toModel() model.Task {
	return model.Task{
		ID:        d.ID.Hex(),
		Content:   d.Content,
		Completed: d.Completed,
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}
}

type TaskStore struct {
	client *mongo.Client
	coll   *mongo.Collection
	now    func() time.Time
}

// Connect dials uri and verifies the connection before returning.
func Connect(ctx context.Context, uri, database string) (*TaskStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return NewTaskStore(client, database), nil
}

func NewTaskStore(client *mongo.Client, database string) *TaskStore {
	return &TaskStore{
		client: client,
		coll:   client.Database(database).Collection(CollectionName),
		// BSON dates carry millisecond precision.
		now: func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	}
}

func (s *TaskStore) Create(ctx context.Context, content string, completed bool) (model.Task, error) {
	now := s.now()
	doc := taskDoc{
		ID:        primitive.NewObjectID(),
		Content:   content,
		Completed: completed,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		return model.Task{}, fmt.Errorf("insert task: %w", err)
	}
	return doc.toModel(), nil
}

func (s *TaskStore) List(ctx context.Context) ([]model.Task, error) {
	cur, err := s.coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("find tasks: %w", err)
	}

	var docs []taskDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode tasks: %w", err)
	}

	out := make([]model.Task, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toModel())
	}
	return out, nil
}

func (s *TaskStore) Get(ctx context.Context, id string) (model.Task, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return model.Task{}, model.ErrNotFound
	}

	var doc taskDoc
	err = s.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	return decodeResult(doc, err)
}

func (s *TaskStore) Update(ctx context.Context, id string, patch model.TaskPatch) (model.Task, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return model.Task{}, model.ErrNotFound
	}

	set := bson.D{{Key: "updatedAt", Value: s.now()}}
	if patch.Content != nil {
		set = append(set, bson.E{Key: "content", Value: *patch.Content})
	}
	if patch.Completed != nil {
		set = append(set, bson.E{Key: "completed", Value: *patch.Completed})
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc taskDoc
	err = s.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.D{{Key: "$set", Value: set}}, opts).Decode(&doc)
	return decodeResult(doc, err)
}

func (s *TaskStore) Delete(ctx context.Context, id string) (model.Task, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return model.Task{}, model.ErrNotFound
	}

	var doc taskDoc
	err = s.coll.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&doc)
	return decodeResult(doc, err)
}

func (s *TaskStore) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 1*time.Second)
	defer cancel()
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *TaskStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func decodeResult(doc taskDoc, err error) (model.Task, error) {
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return model.Task{}, model.ErrNotFound
		}
		return model.Task{}, err
	}
	return doc.toModel(), nil
}
