package mongostore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"songfinder/lyricsearch/internal/domain"
)

const (
	DefaultDatabase = "songfinder"
	collectionName  = "history"
)

type resultDoc struct {
	Title      string `bson:"title"`
	Artist     string `bson:"artist"`
	URL        string `bson:"url"`
	AlbumArt   string `bson:"albumArt,omitempty"`
	Lyrics     string `bson:"lyrics,omitempty"`
	PreviewURL string `bson:"previewUrl,omitempty"`
}

type entryDoc struct {
	ID        string     `bson:"_id"`
	Query     string     `bson:"query"`
	Language  string     `bson:"language"`
	CreatedAt int64      `bson:"createdAt"`
	Result    *resultDoc `bson:"result,omitempty"`
}

// Store owns its client and disconnects it on Close.
type Store struct {
	client     *mongo.Client
	collection *mongo.Collection
	maxItems   int
}

func New(client *mongo.Client, dbName string, maxItems int) *Store {
	if dbName == "" {
		dbName = DefaultDatabase
	}
	if maxItems <= 0 {
		maxItems = domain.DefaultHistoryMaxItems
	}
	return &Store{
		client:     client,
		collection: client.Database(dbName).Collection(collectionName),
		maxItems:   maxItems,
	}
}

func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "createdAt", Value: -1}},
	})
	return err
}

func (s *Store) Append(ctx context.Context, entry domain.HistoryEntry) error {
	if _, err := s.collection.InsertOne(ctx, toDoc(entry)); err != nil {
		return err
	}
	return s.trim(ctx)
}

// trim removes everything past the newest maxItems documents.
func (s *Store) trim(ctx context.Context) error {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64(s.maxItems)).
		SetProjection(bson.M{"_id": 1})
	cursor, err := s.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	var stale []struct {
		ID string `bson:"_id"`
	}
	if err := cursor.All(ctx, &stale); err != nil {
		return err
	}
	if len(stale) == 0 {
		return nil
	}
	ids := make([]string, 0, len(stale))
	for _, doc := range stale {
		ids = append(ids, doc.ID)
	}
	_, err = s.collection.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	return err
}

func (s *Store) List(ctx context.Context, limit int) ([]domain.HistoryEntry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cursor, err := s.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []entryDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	entries := make([]domain.HistoryEntry, 0, len(docs))
	for _, doc := range docs {
		entries = append(entries, fromDoc(doc))
	}
	return entries, nil
}

func (s *Store) Clear(ctx context.Context) error {
	_, err := s.collection.DeleteMany(ctx, bson.M{})
	return err
}

func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func toDoc(entry domain.HistoryEntry) entryDoc {
	doc := entryDoc{
		ID:        entry.ID,
		Query:     entry.Query,
		Language:  string(entry.Language),
		CreatedAt: entry.Timestamp.UnixNano(),
	}
	if r := entry.Result; r != nil {
		doc.Result = &resultDoc{
			Title:      r.Title,
			Artist:     r.Artist,
			URL:        r.URL,
			AlbumArt:   r.AlbumArt,
			Lyrics:     r.Lyrics,
			PreviewURL: r.PreviewURL,
		}
	}
	return doc
}

func fromDoc(doc entryDoc) domain.HistoryEntry {
	entry := domain.HistoryEntry{
		ID:        doc.ID,
		Query:     doc.Query,
		Language:  domain.Language(doc.Language),
		Timestamp: time.Unix(0, doc.CreatedAt).UTC(),
	}
	if r := doc.Result; r != nil {
		entry.Result = &domain.SongResult{
			Title:      r.Title,
			Artist:     r.Artist,
			URL:        r.URL,
			AlbumArt:   r.AlbumArt,
			Lyrics:     r.Lyrics,
			PreviewURL: r.PreviewURL,
		}
	}
	return entry
}
