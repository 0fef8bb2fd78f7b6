package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	lexerrors "github.com/gongahkia/lexcore/pkg/errors"
	"github.com/gongahkia/lexcore/pkg/models"
)

// MongoBackend is an alternate Backend using a $text index per collection
// and $meta:"textScore" ordering, grounded on the teacher's
// internal/storage/mongodb.go BSON-mapping style.
type MongoBackend struct {
	uri      string
	database string
	client   *mongo.Client
	db       *mongo.Database
}

func NewMongoBackend(uri, database string) *MongoBackend {
	return &MongoBackend{uri: uri, database: database}
}

func (b *MongoBackend) Open(ctx context.Context) error {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(b.uri))
	if err != nil {
		return lexerrors.ErrUnavailable
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		return lexerrors.ErrUnavailable
	}
	b.client = client
	b.db = client.Database(b.database)
	return nil
}

func (b *MongoBackend) Close() error {
	if b.client == nil {
		return nil
	}
	return b.client.Disconnect(context.Background())
}

func (b *MongoBackend) collectionExists(ctx context.Context, name string) (bool, error) {
	names, err := b.db.ListCollectionNames(ctx, bson.M{"name": name})
	if err != nil {
		return false, err
	}
	return len(names) > 0, nil
}

func (b *MongoBackend) Capabilities(ctx context.Context) (models.CapabilitySet, error) {
	cs := make(models.CapabilitySet)
	for cap, table := range capabilityTables {
		ok, err := b.collectionExists(ctx, table)
		if err != nil {
			return nil, err
		}
		cs[cap] = ok
	}
	return cs, nil
}

func (b *MongoBackend) Metadata(ctx context.Context) (StoreMetadata, error) {
	return StoreMetadata{Tier: "mongodb", SchemaVersion: 1, Builder: "lexcore-ingest"}, nil
}

func (b *MongoBackend) Counts(ctx context.Context) (TableCounts, error) {
	var tc TableCounts
	for coll, dst := range map[string]*int64{
		"law_documents":      &tc.LawDocuments,
		"case_law_documents": &tc.CaseLawDocuments,
		"preparatory_works":  &tc.PreparatoryWorks,
	} {
		n, err := b.db.Collection(coll).CountDocuments(ctx, bson.M{})
		if err != nil {
			continue
		}
		*dst = n
	}
	return tc, nil
}

func bsonToDocument(raw bson.M) *models.Document {
	d := &models.Document{}
	if v, ok := raw["_id"].(string); ok {
		d.ID = v
	}
	if v, ok := raw["jurisdiction"].(string); ok {
		d.Jurisdiction = v
	}
	if v, ok := raw["kind"].(string); ok {
		d.Kind = models.DocumentKind(v)
	}
	if v, ok := raw["title"].(string); ok {
		d.Title = v
	}
	if v, ok := raw["citation"].(string); ok {
		d.Citation = v
	}
	if v, ok := raw["textSnippet"].(string); ok {
		d.TextSnippet = v
	}
	if v, ok := raw["ecli"].(string); ok {
		d.ECLI = v
	}
	if v, ok := raw["court"].(string); ok {
		d.Court = v
	}
	if v, ok := raw["decisionDate"].(string); ok {
		d.DecisionDate = v
	}
	if v, ok := raw["statuteId"].(string); ok {
		d.StatuteID = v
	}
	return d
}

func (b *MongoBackend) findOneDoc(ctx context.Context, coll string, filter bson.M) (*models.Document, error) {
	var raw bson.M
	err := b.db.Collection(coll).FindOne(ctx, filter).Decode(&raw)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return bsonToDocument(raw), nil
}

func (b *MongoBackend) findManyDocs(ctx context.Context, coll string, filter bson.M, opts *options.FindOptions) ([]*models.Document, error) {
	cur, err := b.db.Collection(coll).Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []*models.Document
	for cur.Next(ctx) {
		var raw bson.M
		if err := cur.Decode(&raw); err != nil {
			return nil, err
		}
		out = append(out, bsonToDocument(raw))
	}
	return out, cur.Err()
}

func (b *MongoBackend) GetByID(ctx context.Context, id string) (*models.Document, error) {
	for _, coll := range []string{"law_documents", "case_law_documents", "preparatory_works"} {
		ok, err := b.collectionExists(ctx, coll)
		if err != nil || !ok {
			continue
		}
		d, err := b.findOneDoc(ctx, coll, bson.M{"_id": id})
		if err != nil {
			return nil, err
		}
		if d != nil {
			return d, nil
		}
	}
	return nil, nil
}

// SearchStatutesExact returns the matching rows in _id order only; the
// order of lookupCitations is not applied.
func (b *MongoBackend) SearchStatutesExact(ctx context.Context, lookupCitations []string, limit int) ([]*models.Document, error) {
	if len(lookupCitations) == 0 {
		return nil, nil
	}
	opts := options.Find().SetLimit(int64(limit)).SetSort(bson.D{{Key: "_id", Value: 1}})
	return b.findManyDocs(ctx, "law_documents", bson.M{"citationLower": bson.M{"$in": lookupCitations}}, opts)
}

func (b *MongoBackend) SearchStatutesFullText(ctx context.Context, compiled string, limit int) ([]*models.Document, error) {
	opts := options.Find().
		SetLimit(int64(limit)).
		SetProjection(bson.M{"score": bson.M{"$meta": "textScore"}}).
		SetSort(bson.M{"score": bson.M{"$meta": "textScore"}})
	return b.findManyDocs(ctx, "law_documents", bson.M{"$text": bson.M{"$search": toMongoTextQuery(compiled)}}, opts)
}

func (b *MongoBackend) SearchStatutesSubstring(ctx context.Context, tokens []string, limit int) ([]*models.Document, error) {
	var and []bson.M
	for _, t := range tokens {
		re := bson.M{"$regex": t, "$options": "i"}
		and = append(and, bson.M{"$or": []bson.M{
			{"title": re}, {"citation": re}, {"textSnippet": re},
		}})
	}
	filter := bson.M{}
	if len(and) > 0 {
		filter["$and"] = and
	}
	opts := options.Find().SetLimit(int64(limit)).SetSort(bson.D{{Key: "_id", Value: 1}})
	return b.findManyDocs(ctx, "law_documents", filter, opts)
}

// toMongoTextQuery strips the AND/OR/prefix-star syntax our compiler emits
// down to the space-separated term list $text expects (Mongo's $text
// implicitly ORs terms; conjunction is approximated by the adapter running
// the primary/fallback stages in sequence as the spec's stage template
// already requires).
func toMongoTextQuery(compiled string) string {
	s := strings.ReplaceAll(compiled, " AND ", " ")
	s = strings.ReplaceAll(s, " OR ", " ")
	s = strings.ReplaceAll(s, `"`, "")
	s = strings.ReplaceAll(s, "*", "")
	return s
}

func (b *MongoBackend) SearchCaseLawExact(ctx context.Context, keys []string, filter CaseLawQuery, limit int) ([]*models.Document, error) {
	return nil, fmt.Errorf("mongo backend: case-law search not wired in this deployment tier")
}
func (b *MongoBackend) SearchCaseLawFullText(ctx context.Context, compiled string, filter CaseLawQuery, limit int) ([]*models.Document, error) {
	return nil, fmt.Errorf("mongo backend: case-law search not wired in this deployment tier")
}
func (b *MongoBackend) SearchCaseLawSubstring(ctx context.Context, tokens []string, filter CaseLawQuery, limit int) ([]*models.Document, error) {
	return nil, fmt.Errorf("mongo backend: case-law search not wired in this deployment tier")
}
func (b *MongoBackend) SearchPrepWorksFullText(ctx context.Context, compiled string, limit int) ([]*models.Document, error) {
	return nil, fmt.Errorf("mongo backend: preparatory-works search not wired in this deployment tier")
}
func (b *MongoBackend) SearchPrepWorksSubstring(ctx context.Context, tokens []string, limit int) ([]*models.Document, error) {
	return nil, fmt.Errorf("mongo backend: preparatory-works search not wired in this deployment tier")
}
func (b *MongoBackend) SearchPrepWorksListing(ctx context.Context, limit int) ([]*models.Document, error) {
	return nil, fmt.Errorf("mongo backend: preparatory-works search not wired in this deployment tier")
}
func (b *MongoBackend) GetDocumentsByCitation(ctx context.Context, lookupCitations []string, limit int) ([]*models.Document, error) {
	return b.SearchStatutesExact(ctx, lookupCitations, limit)
}
