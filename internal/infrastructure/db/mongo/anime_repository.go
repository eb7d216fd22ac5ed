package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/animeshelf/animes-api/internal/core/domain"
)

// AnimeRepository stores records with integer ids drawn from a counters
// collection so ids match the relational stores.
type AnimeRepository struct {
	col      *mongo.Collection
	counters *mongo.Collection
}

func NewAnimeRepository(db *mongo.Database) *AnimeRepository {
	return &AnimeRepository{
		col:      db.Collection(collectionAnimes),
		counters: db.Collection(collectionCounters),
	}
}

func (r *AnimeRepository) FindAll(ctx context.Context) ([]domain.Anime, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find animes: %w", err)
	}
	defer cur.Close(ctx)

	animes := []domain.Anime{}
	if err := cur.All(ctx, &animes); err != nil {
		return nil, fmt.Errorf("decode animes: %w", err)
	}
	return animes, nil
}

func (r *AnimeRepository) FindByID(ctx context.Context, id int64) (*domain.Anime, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var a domain.Anime
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&a); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAnimeNotFound
		}
		return nil, fmt.Errorf("find anime %d: %w", id, err)
	}
	return &a, nil
}

func (r *AnimeRepository) Save(ctx context.Context, anime domain.Anime) (*domain.Anime, error) {
	saved, err := r.SaveAll(ctx, []domain.Anime{anime})
	if err != nil {
		return nil, err
	}
	return &saved[0], nil
}

// SaveAll reserves ids for new records in one counter increment and writes
// the batch with a single ordered bulk write.
func (r *AnimeRepository) SaveAll(ctx context.Context, animes []domain.Anime) ([]domain.Anime, error) {
	if len(animes) == 0 {
		return []domain.Anime{}, nil
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	fresh := 0
	for _, a := range animes {
		if a.IsNew() {
			fresh++
		}
	}
	next := int64(0)
	if fresh > 0 {
		last, err := r.reserveIDs(ctx, int64(fresh))
		if err != nil {
			return nil, err
		}
		next = last - int64(fresh) + 1
	}

	out := make([]domain.Anime, 0, len(animes))
	models := make([]mongo.WriteModel, 0, len(animes))
	for _, a := range animes {
		if a.IsNew() {
			a.ID = next
			next++
		}
		out = append(out, a)
		models = append(models, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"_id": a.ID}).
			SetReplacement(a).
			SetUpsert(true))
	}

	if _, err := r.col.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(true)); err != nil {
		return nil, fmt.Errorf("write animes: %w", err)
	}
	return out, nil
}

func (r *AnimeRepository) DeleteByID(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("delete anime %d: %w", id, err)
	}
	return nil
}

type counter struct {
	ID  string `bson:"_id"`
	Seq int64  `bson:"seq"`
}

// reserveIDs advances the animes counter by n and returns its new value.
func (r *AnimeRepository) reserveIDs(ctx context.Context, n int64) (int64, error) {
	var c counter
	err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": collectionAnimes},
		bson.M{"$inc": bson.M{"seq": n}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&c)
	if err != nil {
		return 0, fmt.Errorf("reserve anime ids: %w", err)
	}
	return c.Seq, nil
}
