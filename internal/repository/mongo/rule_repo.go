package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tahir-04/hybrid-intrusion-detection-system/internal/core"
)

// RuleRepository stores API-managed rule definitions. Definitions keep their
// insertion order, which is the rule set's declaration order.
type RuleRepository struct {
	db *mongo.Database
}

type ruleDoc struct {
	ID          string    `bson:"_id"`
	Description string    `bson:"description"`
	Condition   string    `bson:"condition"`
	Severity    string    `bson:"severity"`
	CreatedAt   time.Time `bson:"created_at"`
}

func NewRuleRepository(client *mongo.Client) *RuleRepository {
	return &RuleRepository{
		db: client.Database("hids"),
	}
}

func (r *RuleRepository) GetAll(ctx context.Context) ([]core.RuleDefinition, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := r.db.Collection("rules").Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []ruleDoc
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	defs := make([]core.RuleDefinition, 0, len(docs))
	for _, d := range docs {
		defs = append(defs, core.RuleDefinition{
			ID:          d.ID,
			Description: d.Description,
			Condition:   d.Condition,
			Severity:    d.Severity,
		})
	}
	return defs, nil
}

func (r *RuleRepository) Add(ctx context.Context, def core.RuleDefinition) error {
	doc := ruleDoc{
		ID:          def.ID,
		Description: def.Description,
		Condition:   def.Condition,
		Severity:    def.Severity,
		CreatedAt:   time.Now(),
	}
	_, err := r.db.Collection("rules").InsertOne(ctx, doc)
	if mongo.IsDuplicateKeyError(err) {
		return errors.New("duplicate rule id")
	}
	return err
}

func (r *RuleRepository) Delete(ctx context.Context, ruleID string) error {
	res, err := r.db.Collection("rules").DeleteOne(ctx, bson.M{"_id": ruleID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return errors.New("rule not found")
	}
	return nil
}
