package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"alcyxob/fitcrm/internal/repository"
)

const slotCollectionName = "collection_slots"

// slotDocument is how a slot is stored: one document per slot name, the
// serialized collection kept as an opaque binary payload.
type slotDocument struct {
	Name string `bson:"_id"`
	Data []byte `bson:"data"`
}

// mongoSlot implements repository.CollectionSlot with a single document
// in a slots collection. ReplaceOne with upsert gives the atomic
// full-replacement write the slot contract requires.
type mongoSlot struct {
	collection *mongo.Collection
	name       string
}

// NewMongoSlot creates a CollectionSlot backed by the given database.
func NewMongoSlot(db *mongo.Database, name string) repository.CollectionSlot {
	return &mongoSlot{
		collection: db.Collection(slotCollectionName),
		name:       name,
	}
}

// Load fetches the slot document. A missing document means the slot was
// never written and returns (nil, nil).
func (r *mongoSlot) Load(ctx context.Context) ([]byte, error) {
	var doc slotDocument
	filter := bson.M{"_id": r.name}

	err := r.collection.FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("mongo slot: load %q: %w", r.name, err)
	}
	return doc.Data, nil
}

// Save replaces the slot document, creating it on first write.
func (r *mongoSlot) Save(ctx context.Context, data []byte) error {
	doc := slotDocument{Name: r.name, Data: data}
	opts := options.Replace().SetUpsert(true)

	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": r.name}, doc, opts)
	if err != nil {
		return fmt.Errorf("mongo slot: save %q: %w", r.name, err)
	}
	return nil
}
