package account

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	mongox "github.com/dmitrymomot/userkit/pkg/mongo"
)

// Directory is the account store used by the auth pipeline and the user
// endpoints. Lookups of absent accounts return ErrNotFound; every other
// failure wraps ErrStorage.
type Directory interface {
	FindByEmail(ctx context.Context, email string) (*Account, error)
	FindByID(ctx context.Context, id string) (*Account, error)
	// Save inserts accounts with a zero ID and replaces the rest.
	Save(ctx context.Context, acc *Account) error
	CountActive(ctx context.Context) (int64, error)
	FindActivePage(ctx context.Context, offset, limit int64) ([]Account, error)
}

const usersCollection = "users"

// MongoDirectory stores accounts in the "users" collection.
type MongoDirectory struct {
	coll *mongo.Collection
	now  func() time.Time
}

// NewMongoDirectory returns a directory over db.users.
func NewMongoDirectory(db *mongo.Database) *MongoDirectory {
	return &MongoDirectory{coll: db.Collection(usersCollection), now: time.Now}
}

// EnsureIndexes creates the unique email index. Safe to call on every boot.
func (d *MongoDirectory) EnsureIndexes(ctx context.Context) error {
	_, err := d.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true).SetName("email_unique")},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "_id", Value: 1}}, Options: options.Index().SetName("status_id")},
	})
	if err != nil {
		return errors.Join(ErrStorage, fmt.Errorf("create indexes: %w", err))
	}
	return nil
}

func (d *MongoDirectory) FindByEmail(ctx context.Context, email string) (*Account, error) {
	return d.findOne(ctx, bson.D{{Key: "email", Value: email}})
}

func (d *MongoDirectory) FindByID(ctx context.Context, id string) (*Account, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		// No stored account can have a malformed id.
		return nil, ErrNotFound
	}
	return d.findOne(ctx, bson.D{{Key: "_id", Value: oid}})
}

func (d *MongoDirectory) findOne(ctx context.Context, filter bson.D) (*Account, error) {
	var acc Account
	if err := d.coll.FindOne(ctx, filter).Decode(&acc); err != nil {
		if mongox.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, errors.Join(ErrStorage, err)
	}
	return &acc, nil
}

func (d *MongoDirectory) Save(ctx context.Context, acc *Account) error {
	if acc.ID.IsZero() {
		acc.ID = bson.NewObjectID()
		if acc.CreatedAt.IsZero() {
			acc.CreatedAt = d.now().UTC()
		}
		if _, err := d.coll.InsertOne(ctx, acc); err != nil {
			acc.ID = bson.ObjectID{}
			return translateWriteErr(err)
		}
		return nil
	}

	res, err := d.coll.ReplaceOne(ctx, bson.D{{Key: "_id", Value: acc.ID}}, acc)
	if err != nil {
		return translateWriteErr(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func translateWriteErr(err error) error {
	if mongox.IsDuplicateKey(err) {
		return ErrEmailTaken
	}
	return errors.Join(ErrStorage, err)
}

func (d *MongoDirectory) CountActive(ctx context.Context) (int64, error) {
	n, err := d.coll.CountDocuments(ctx, bson.D{{Key: "status", Value: true}})
	if err != nil {
		return 0, errors.Join(ErrStorage, err)
	}
	return n, nil
}

func (d *MongoDirectory) FindActivePage(ctx context.Context, offset, limit int64) ([]Account, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetSkip(offset).
		SetLimit(limit)

	cur, err := d.coll.Find(ctx, bson.D{{Key: "status", Value: true}}, opts)
	if err != nil {
		return nil, errors.Join(ErrStorage, err)
	}
	out := make([]Account, 0, limit)
	if err := cur.All(ctx, &out); err != nil {
		return nil, errors.Join(ErrStorage, err)
	}
	return out, nil
}

var _ Directory = (*MongoDirectory)(nil)
