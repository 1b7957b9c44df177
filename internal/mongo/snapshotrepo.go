package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/appetiteclub/concierge/internal/catalog"
	"github.com/aquamarinepk/aqm"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SnapshotRepo implements catalog.SnapshotRepo using MongoDB. It stores
// one document per catalog family holding the last good payload, so a
// restart can serve a stale menu while the backend is unreachable.
type SnapshotRepo struct {
	client     *mongo.Client
	db         *mongo.Database
	collection *mongo.Collection
	logger     aqm.Logger
	config     *aqm.Config
}

type snapshotDoc struct {
	Family  string    `bson:"_id"`
	Payload []byte    `bson:"payload"`
	SavedAt time.Time `bson:"saved_at"`
}

// NewSnapshotRepo creates a new MongoDB snapshot repository.
func NewSnapshotRepo(config *aqm.Config, logger aqm.Logger) *SnapshotRepo {
	return &SnapshotRepo{
		logger: logger,
		config: config,
	}
}

// Start initializes the MongoDB connection
func (r *SnapshotRepo) Start(ctx context.Context) error {
	mongoURL, _ := r.config.GetString("db.mongo.url")
	if mongoURL == "" {
		mongoURL = "mongodb://localhost:27017"
	}

	dbName, _ := r.config.GetString("db.mongo.name")
	if dbName == "" {
		dbName = "concierge_catalog"
	}

	clientOptions := options.Client().ApplyURI(mongoURL).
		SetConnectTimeout(10 * time.Second).
		SetServerSelectionTimeout(10 * time.Second)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return fmt.Errorf("cannot connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("cannot ping MongoDB: %w", err)
	}

	r.client = client
	r.db = client.Database(dbName)
	r.collection = r.db.Collection("catalog_snapshots")

	// Snapshots are keyed by family via _id, so no extra indexes; an index
	// on saved_at keeps staleness dashboards cheap.
	savedAtIndexModel := mongo.IndexModel{
		Keys: bson.D{{Key: "saved_at", Value: 1}},
	}
	if _, err := r.collection.Indexes().CreateOne(ctx, savedAtIndexModel); err != nil {
		return fmt.Errorf("cannot create saved_at index: %w", err)
	}

	r.logger.Infof("Connected to MongoDB: %s, database: %s, collection: catalog_snapshots", mongoURL, dbName)
	return nil
}

// Stop closes the MongoDB connection
func (r *SnapshotRepo) Stop(ctx context.Context) error {
	if r.client != nil {
		if err := r.client.Disconnect(ctx); err != nil {
			return fmt.Errorf("cannot disconnect from MongoDB: %w", err)
		}
		r.logger.Info("Disconnected from MongoDB")
	}
	return nil
}

// SaveSnapshot upserts the latest payload for a family.
func (r *SnapshotRepo) SaveSnapshot(ctx context.Context, family catalog.Family, payload []byte) error {
	if r.collection == nil {
		return fmt.Errorf("snapshot repository not started")
	}

	doc := snapshotDoc{
		Family:  string(family),
		Payload: payload,
		SavedAt: time.Now().UTC(),
	}

	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": doc.Family}, doc, opts)
	if err != nil {
		return fmt.Errorf("cannot save snapshot for %s: %w", family, err)
	}
	return nil
}

// LoadSnapshot returns the last saved payload for a family, or an error
// when none exists.
func (r *SnapshotRepo) LoadSnapshot(ctx context.Context, family catalog.Family) ([]byte, error) {
	if r.collection == nil {
		return nil, fmt.Errorf("snapshot repository not started")
	}

	var doc snapshotDoc
	err := r.collection.FindOne(ctx, bson.M{"_id": string(family)}).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("no snapshot for %s", family)
		}
		return nil, fmt.Errorf("cannot load snapshot for %s: %w", family, err)
	}

	return doc.Payload, nil
}
