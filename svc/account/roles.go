package account

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/dmitrymomot/userkit/pkg/rbac"
)

const rolesCollection = "roles"

// DefaultRoles are seeded into an empty roles collection.
var DefaultRoles = []Role{RoleAdmin, RoleUser}

type roleDoc struct {
	Role string `bson:"role"`
}

// MongoRoleSource reads role names from the "roles" collection.
type MongoRoleSource struct {
	coll *mongo.Collection
}

func NewMongoRoleSource(db *mongo.Database) *MongoRoleSource {
	return &MongoRoleSource{coll: db.Collection(rolesCollection)}
}

// EnsureDefaults creates the unique index and upserts DefaultRoles.
func (s *MongoRoleSource) EnsureDefaults(ctx context.Context) error {
	if _, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "role", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("role_unique"),
	}); err != nil {
		return errors.Join(ErrStorage, err)
	}

	for _, r := range DefaultRoles {
		_, err := s.coll.UpdateOne(ctx,
			bson.D{{Key: "role", Value: r.String()}},
			bson.D{{Key: "$setOnInsert", Value: roleDoc{Role: r.String()}}},
			options.UpdateOne().SetUpsert(true),
		)
		if err != nil {
			return errors.Join(ErrStorage, err)
		}
	}
	return nil
}

func (s *MongoRoleSource) Load(ctx context.Context) ([]string, error) {
	cur, err := s.coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, errors.Join(ErrStorage, err)
	}
	var docs []roleDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, errors.Join(ErrStorage, err)
	}
	names := make([]string, 0, len(docs))
	for _, d := range docs {
		names = append(names, d.Role)
	}
	return names, nil
}

var _ rbac.RoleSource = (*MongoRoleSource)(nil)
