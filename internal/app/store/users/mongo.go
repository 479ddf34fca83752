// internal/app/store/users/mongo.go
package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/dalemusser/idbridge/internal/app/identity"
	"github.com/dalemusser/idbridge/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Collection is the Mongo collection that holds AppUser records.
const Collection = "app_users"

// MongoDirectory is a Mongo-backed directory over the app_users collection.
// Documents carry folded copies of the correlation keys (email_ci,
// github_username_ci) so lookups are case-insensitive without collation.
type MongoDirectory struct {
	c *mongo.Collection
}

var _ identity.Directory = (*MongoDirectory)(nil)

// NewMongoDirectory returns a directory over db's app_users collection.
func NewMongoDirectory(db *mongo.Database) *MongoDirectory {
	return &MongoDirectory{c: db.Collection(Collection)}
}

// userDoc is the stored shape of an AppUser plus the folded lookup keys.
type userDoc struct {
	models.AppUser   `bson:",inline"`
	EmailCI          string `bson:"email_ci"`
	GitHubUsernameCI string `bson:"github_username_ci"`
}

// FindByEmail looks up a user by email, case-insensitively.
func (d *MongoDirectory) FindByEmail(ctx context.Context, email string) (models.AppUser, bool, error) {
	return d.findOne(ctx, bson.M{"email_ci": fold(email)})
}

// FindByProviderUsername looks up a user by provider username, case-insensitively.
func (d *MongoDirectory) FindByProviderUsername(ctx context.Context, username string) (models.AppUser, bool, error) {
	return d.findOne(ctx, bson.M{"github_username_ci": fold(username)})
}

func (d *MongoDirectory) findOne(ctx context.Context, filter bson.M) (models.AppUser, bool, error) {
	var doc userDoc
	err := d.c.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.AppUser{}, false, nil
	}
	if err != nil {
		return models.AppUser{}, false, fmt.Errorf("app_users lookup: %w", err)
	}
	return doc.AppUser, true, nil
}

// Seed inserts the given users if the collection is empty. It exists so a
// fresh deployment starts with the same directory the memory store provides.
func Seed(ctx context.Context, db *mongo.Database, seed []models.AppUser) error {
	c := db.Collection(Collection)

	n, err := c.CountDocuments(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("count app_users: %w", err)
	}
	if n > 0 {
		return nil
	}

	docs := make([]any, 0, len(seed))
	for _, u := range seed {
		docs = append(docs, userDoc{
			AppUser:          u,
			EmailCI:          fold(u.Email),
			GitHubUsernameCI: fold(u.GitHubUsername),
		})
	}
	if len(docs) == 0 {
		return nil
	}
	if _, err := c.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("seed app_users: %w", err)
	}
	return nil
}
