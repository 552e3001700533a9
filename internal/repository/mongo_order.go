package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/iliyamo/shop-backend/internal/model"
)

type orderDoc struct {
	ID     primitive.ObjectID `bson:"_id"`
	UserID primitive.ObjectID `bson:"userId"`
	Date   time.Time          `bson:"date"`
	Status string             `bson:"status"`
	Items  []string           `bson:"items"`
	Total  float64            `bson:"total"`
}

type MongoOrderStore struct{ coll *mongo.Collection }

func NewMongoOrderStore(db *mongo.Database) *MongoOrderStore {
	return &MongoOrderStore{coll: db.Collection(OrdersCollection)}
}

func (s *MongoOrderStore) Create(ctx context.Context, o model.Order) (model.Order, error) {
	uid, err := primitive.ObjectIDFromHex(o.UserID)
	if err != nil {
		return model.Order{}, err
	}
	doc := orderDoc{
		ID:     primitive.NewObjectID(),
		UserID: uid,
		Date:   o.Date.Truncate(time.Millisecond),
		Status: o.Status,
		Items:  o.Items,
		Total:  o.Total,
	}
	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		return model.Order{}, err
	}
	o.ID = doc.ID.Hex()
	o.Date = doc.Date
	return o, nil
}

// ListByUser filters on the owner's ObjectID and sorts by date, then _id,
// descending so orders placed within the same millisecond stay ordered.
func (s *MongoOrderStore) ListByUser(ctx context.Context, userID string) ([]model.Order, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return []model.Order{}, nil
	}
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := s.coll.Find(ctx, bson.M{"userId": uid}, opts)
	if err != nil {
		return nil, err
	}
	var docs []orderDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]model.Order, 0, len(docs))
	for _, d := range docs {
		out = append(out, model.Order{
			ID:     d.ID.Hex(),
			UserID: d.UserID.Hex(),
			Date:   d.Date,
			Status: d.Status,
			Items:  d.Items,
			Total:  d.Total,
		})
	}
	return out, nil
}
