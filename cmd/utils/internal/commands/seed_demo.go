package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/appetiteclub/concierge/cmd/utils/internal/seeding"
	"github.com/appetiteclub/concierge/internal/catalog"
	"github.com/aquamarinepk/aqm"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SeedDemo writes demo catalog snapshots so the service can warm-start
// and serve a full demo menu without a reachable admin backend.
func SeedDemo(ctx context.Context, config *aqm.Config, logger aqm.Logger) error {
	logger.Info("Starting demo snapshot seeding...")

	client, dbName, err := connect(ctx, config)
	if err != nil {
		return err
	}
	defer client.Disconnect(ctx)

	logger.Info("Connected to MongoDB")

	collection := client.Database(dbName).Collection("catalog_snapshots")

	families := map[catalog.Family]interface{}{
		catalog.FamilyServices:      seeding.DemoServices(),
		catalog.FamilyCategories:    seeding.DemoCategories(),
		catalog.FamilySubCategories: seeding.DemoSubCategories(),
		catalog.FamilyItems:         seeding.DemoItems(),
		catalog.FamilyTags:          seeding.DemoTags(),
		catalog.FamilyAddons:        seeding.DemoAddons(),
	}

	for family, list := range families {
		payload, err := json.Marshal(list)
		if err != nil {
			return fmt.Errorf("marshal %s: %w", family, err)
		}

		doc := bson.M{
			"_id":      string(family),
			"payload":  payload,
			"saved_at": time.Now().UTC(),
		}
		opts := options.Replace().SetUpsert(true)
		if _, err := collection.ReplaceOne(ctx, bson.M{"_id": string(family)}, doc, opts); err != nil {
			return fmt.Errorf("write snapshot %s: %w", family, err)
		}

		logger.Infof("Seeded snapshot: %s", family)
	}

	return nil
}

// ClearSnapshots removes every stored catalog snapshot.
func ClearSnapshots(ctx context.Context, config *aqm.Config, logger aqm.Logger) error {
	client, dbName, err := connect(ctx, config)
	if err != nil {
		return err
	}
	defer client.Disconnect(ctx)

	collection := client.Database(dbName).Collection("catalog_snapshots")
	result, err := collection.DeleteMany(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("clear snapshots: %w", err)
	}

	logger.Infof("Removed %d snapshots", result.DeletedCount)
	return nil
}

func connect(ctx context.Context, config *aqm.Config) (*mongo.Client, string, error) {
	mongoURL, _ := config.GetString("mongo.url")
	if mongoURL == "" {
		mongoURL = "mongodb://localhost:27017"
	}

	dbName, _ := config.GetString("mongo.name")
	if dbName == "" {
		dbName = "concierge_catalog"
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURL))
	if err != nil {
		return nil, "", fmt.Errorf("connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(ctx)
		return nil, "", fmt.Errorf("ping mongodb: %w", err)
	}

	return client, dbName, nil
}
