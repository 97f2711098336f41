package logger

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shashiranjanraj/bazaar/config"
)

const (
	mongoFlushInterval = 2 * time.Second
	mongoBatchSize     = 64
	mongoBufferSize    = 1024
)

// mongoHandler ships log records to MongoDB from a background goroutine so
// that logging never blocks request handling. Records are dropped when the
// buffer is full.
type mongoHandler struct {
	level slog.Level
	coll  *mongo.Collection
	ch    chan bson.M
	attrs []slog.Attr
	group string

	closeOnce sync.Once
	done      chan struct{}
}

func newMongoHandler(uri string, level slog.Level) (*mongoHandler, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}

	h := &mongoHandler{
		level: level,
		coll:  client.Database(config.LogMongoDatabase()).Collection(config.LogMongoCollection()),
		ch:    make(chan bson.M, mongoBufferSize),
		done:  make(chan struct{}),
	}
	go h.pump()
	return h, nil
}

func (h *mongoHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *mongoHandler) Handle(_ context.Context, rec slog.Record) error {
	doc := bson.M{
		"time":    rec.Time,
		"level":   rec.Level.String(),
		"message": rec.Message,
	}
	for _, a := range h.attrs {
		doc[h.prefixed(a.Key)] = a.Value.Any()
	}
	rec.Attrs(func(a slog.Attr) bool {
		doc[h.prefixed(a.Key)] = a.Value.Any()
		return true
	})

	select {
	case h.ch <- doc:
	default:
		// buffer full, drop rather than block
	}
	return nil
}

func (h *mongoHandler) prefixed(key string) string {
	if h.group == "" {
		return key
	}
	return h.group + "." + key
}

func (h *mongoHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &clone
}

func (h *mongoHandler) WithGroup(name string) slog.Handler {
	clone := *h
	if clone.group != "" {
		clone.group += "." + name
	} else {
		clone.group = name
	}
	return &clone
}

// pump batches buffered records and inserts them on an interval.
func (h *mongoHandler) pump() {
	ticker := time.NewTicker(mongoFlushInterval)
	defer ticker.Stop()

	batch := make([]interface{}, 0, mongoBatchSize)
	flush := func() {
		if len(batch) == 0 {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_, _ = h.coll.InsertMany(ctx, batch)
		cancel()
		batch = batch[:0]
	}

	for {
		select {
		case doc := <-h.ch:
			batch = append(batch, doc)
			if len(batch) >= mongoBatchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-h.done:
			flush()
			return
		}
	}
}

// Close flushes remaining records and stops the pump.
func (h *mongoHandler) Close() {
	h.closeOnce.Do(func() { close(h.done) })
}
