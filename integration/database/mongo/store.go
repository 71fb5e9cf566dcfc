package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/LeonMueller-OneAndOnly/blitz/core/session"
)

const collectionName = "sessions"

// Store persists session records in a MongoDB collection keyed on the
// session handle.
type Store struct {
	col *mongo.Collection
}

// NewStore creates a MongoDB-backed session store. Call EnsureIndexes once at
// startup so expired sessions are reaped by a TTL index.
func NewStore(db *mongo.Database) *Store {
	return &Store{col: db.Collection(collectionName)}
}

var _ session.Store = (*Store)(nil)

// sessionDoc mirrors session.Record with MongoDB field names. The handle is
// the document id, which makes Create a natural upsert.
type sessionDoc struct {
	Handle             string     `bson:"_id"`
	UserID             string     `bson:"user_id"`
	ExpiresAt          *time.Time `bson:"expires_at,omitempty"`
	HashedSessionToken string     `bson:"hashed_session_token"`
	AntiCSRFToken      string     `bson:"anti_csrf_token"`
	PublicData         string     `bson:"public_data"`
	PrivateData        string     `bson:"private_data"`
	CreatedAt          time.Time  `bson:"created_at"`
	UpdatedAt          time.Time  `bson:"updated_at"`
}

func toDoc(rec *session.Record) sessionDoc {
	doc := sessionDoc{
		Handle:             rec.Handle,
		UserID:             rec.UserID,
		HashedSessionToken: rec.HashedSessionToken,
		AntiCSRFToken:      rec.AntiCSRFToken,
		PublicData:         rec.PublicData,
		PrivateData:        rec.PrivateData,
		CreatedAt:          rec.CreatedAt,
		UpdatedAt:          rec.UpdatedAt,
	}
	if rec.ExpiresAt != nil {
		t := rec.ExpiresAt.UTC()
		doc.ExpiresAt = &t
	}
	now := time.Now()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}
	if doc.UpdatedAt.IsZero() {
		doc.UpdatedAt = now
	}
	return doc
}

func (d sessionDoc) record() *session.Record {
	rec := &session.Record{
		Handle:             d.Handle,
		UserID:             d.UserID,
		HashedSessionToken: d.HashedSessionToken,
		AntiCSRFToken:      d.AntiCSRFToken,
		PublicData:         d.PublicData,
		PrivateData:        d.PrivateData,
		CreatedAt:          d.CreatedAt,
		UpdatedAt:          d.UpdatedAt,
	}
	if d.ExpiresAt != nil {
		t := *d.ExpiresAt
		rec.ExpiresAt = &t
	}
	return rec
}

// EnsureIndexes creates the user index and the TTL index that reaps expired
// sessions server-side.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}}},
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0),
		},
	})
	if err != nil {
		return fmt.Errorf("mongo: create session indexes: %w", err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, handle string) (*session.Record, error) {
	var doc sessionDoc
	err := s.col.FindOne(ctx, bson.D{{Key: "_id", Value: handle}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, session.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("mongo: get session: %w", err)
	}
	return doc.record(), nil
}

func (s *Store) GetByUserID(ctx context.Context, userID string) ([]*session.Record, error) {
	cursor, err := s.col.Find(ctx, bson.D{{Key: "user_id", Value: userID}})
	if err != nil {
		return nil, fmt.Errorf("mongo: list user sessions: %w", err)
	}
	defer cursor.Close(ctx)

	var out []*session.Record
	for cursor.Next(ctx) {
		var doc sessionDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("mongo: decode session: %w", err)
		}
		out = append(out, doc.record())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("mongo: list user sessions: %w", err)
	}
	return out, nil
}

func (s *Store) Create(ctx context.Context, rec *session.Record) error {
	doc := toDoc(rec)
	_, err := s.col.ReplaceOne(ctx,
		bson.D{{Key: "_id", Value: doc.Handle}},
		doc,
		options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("mongo: create session: %w", err)
	}
	return nil
}

func (s *Store) Update(ctx context.Context, handle string, patch session.RecordPatch) error {
	set := bson.D{{Key: "updated_at", Value: time.Now()}}
	if patch.ExpiresAt != nil {
		set = append(set, bson.E{Key: "expires_at", Value: patch.ExpiresAt.UTC()})
	}
	if patch.PublicData != nil {
		set = append(set, bson.E{Key: "public_data", Value: *patch.PublicData})
	}
	if patch.PrivateData != nil {
		set = append(set, bson.E{Key: "private_data", Value: *patch.PrivateData})
	}

	res, err := s.col.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: handle}},
		bson.D{{Key: "$set", Value: set}})
	if err != nil {
		return fmt.Errorf("mongo: update session: %w", err)
	}
	if res.MatchedCount == 0 {
		return session.ErrNotFound
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, handle string) error {
	res, err := s.col.DeleteOne(ctx, bson.D{{Key: "_id", Value: handle}})
	if err != nil {
		return fmt.Errorf("mongo: delete session: %w", err)
	}
	if res.DeletedCount == 0 {
		return session.ErrNotFound
	}
	return nil
}
