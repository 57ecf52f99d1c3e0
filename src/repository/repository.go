// Package repository implements the service store interfaces on MongoDB.
// Every method is a single collection round trip; the core assumes
// per-document atomicity only, never cross-document transactions.
package repository

import (
	"errors"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/skillhands/skillhands-backend/src/services"
)

type Mongo struct {
	db *mongo.Database
}

func New(db *mongo.Database) *Mongo {
	return &Mongo{db: db}
}

var _ services.Store = (*Mongo)(nil)

func (m *Mongo) users() *mongo.Collection         { return m.db.Collection("users") }
func (m *Mongo) posts() *mongo.Collection         { return m.db.Collection("posts") }
func (m *Mongo) ratings() *mongo.Collection       { return m.db.Collection("ratings") }
func (m *Mongo) notifications() *mongo.Collection { return m.db.Collection("notifications") }
func (m *Mongo) messages() *mongo.Collection      { return m.db.Collection("messages") }

// translate maps driver sentinels onto the service-level ones.
func translate(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return services.ErrNotFound
	}
	return err
}
