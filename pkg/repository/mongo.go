package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/example/marketplace/pkg/config"
	"github.com/example/marketplace/pkg/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoRepository struct {
	client   *mongo.Client
	database *mongo.Database
	config   *config.MongoDBConfig
}

func NewMongoRepository(cfg *config.MongoDBConfig) (*MongoRepository, error) {
	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, err
	}

	return &MongoRepository{
		client:   client,
		database: client.Database(cfg.Database),
		config:   cfg,
	}, nil
}

func (m *MongoRepository) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, nil)
}

func (m *MongoRepository) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

func (m *MongoRepository) Orders() *OrderStore {
	return NewOrderStore(m.database.Collection(m.config.OrderCollection))
}

func (m *MongoRepository) Directory() *Directory {
	return NewDirectory(
		m.database.Collection(m.config.UserCollection),
		m.database.Collection(m.config.ProductCollection),
	)
}

func (m *MongoRepository) AuditSink() *MongoAuditSink {
	return NewMongoAuditSink(m.database.Collection(m.config.AuditCollection))
}

// OrderStore keeps orders as documents keyed by _id.
type OrderStore struct {
	collection *mongo.Collection
}

func NewOrderStore(collection *mongo.Collection) *OrderStore {
	return &OrderStore{collection: collection}
}

// Insert stores o. An empty id is replaced by a new ObjectID hex string.
func (s *OrderStore) Insert(ctx context.Context, o *models.Order) error {
	if o.ID == "" {
		o.ID = primitive.NewObjectID().Hex()
	}
	if _, err := s.collection.InsertOne(ctx, o); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("insert order %s: %w", o.ID, models.ErrConflict)
		}
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (s *OrderStore) FindOne(ctx context.Context, f models.OrderFilter, opts models.FindOptions) (*models.Order, error) {
	fo := options.FindOne()
	if opts.SortByCodeDesc {
		fo.SetSort(bson.D{{Key: "orderCode", Value: -1}})
	}

	var o models.Order
	if err := s.collection.FindOne(ctx, filterDoc(f), fo).Decode(&o); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("find order: %w", err)
	}
	return &o, nil
}

func (s *OrderStore) FindMany(ctx context.Context, f models.OrderFilter, opts models.FindOptions) ([]*models.Order, error) {
	fo := options.Find()
	if opts.SortByCodeDesc {
		fo.SetSort(bson.D{{Key: "orderCode", Value: -1}})
	}
	if opts.Limit > 0 {
		fo.SetLimit(opts.Limit)
	}

	cursor, err := s.collection.Find(ctx, filterDoc(f), fo)
	if err != nil {
		return nil, fmt.Errorf("find orders: %w", err)
	}
	defer cursor.Close(ctx)

	var orders []*models.Order
	if err = cursor.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("decode orders: %w", err)
	}
	if orders == nil {
		orders = []*models.Order{}
	}
	return orders, nil
}

// FindOneAndUpdate applies u to the single order matching f and returns
// the document after the update.
func (s *OrderStore) FindOneAndUpdate(ctx context.Context, f models.OrderFilter, u models.OrderUpdate) (*models.Order, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var o models.Order
	err := s.collection.FindOneAndUpdate(ctx, filterDoc(f), updateDoc(u), opts).Decode(&o)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("update order: %w", err)
	}
	return &o, nil
}

// ReplaceOne replaces the order matching f and reports how many documents matched.
func (s *OrderStore) ReplaceOne(ctx context.Context, f models.OrderFilter, o *models.Order) (int64, error) {
	res, err := s.collection.ReplaceOne(ctx, filterDoc(f), o)
	if err != nil {
		return 0, fmt.Errorf("replace order: %w", err)
	}
	return res.MatchedCount, nil
}

func filterDoc(f models.OrderFilter) bson.D {
	doc := bson.D{}
	if f.ID != "" {
		doc = append(doc, bson.E{Key: "_id", Value: f.ID})
	}
	if f.CustomerID != "" {
		doc = append(doc, bson.E{Key: "customerId", Value: f.CustomerID})
	}
	if f.VendorID != "" {
		doc = append(doc, bson.E{Key: "orderItems", Value: bson.M{
			"$elemMatch": bson.M{"vendorId": f.VendorID},
		}})
	}
	if f.CancellationRequested != nil {
		doc = append(doc, bson.E{Key: "isCancellationRequested", Value: *f.CancellationRequested})
	}
	if f.Decision != nil {
		if *f.Decision == models.DecisionNone {
			// omitempty leaves the field absent; null matches absent too
			doc = append(doc, bson.E{Key: "cancellationDecision", Value: bson.M{"$in": bson.A{"", nil}}})
		} else {
			doc = append(doc, bson.E{Key: "cancellationDecision", Value: *f.Decision})
		}
	}
	if len(f.Statuses) > 0 {
		in := make(bson.A, 0, len(f.Statuses))
		for _, st := range f.Statuses {
			in = append(in, st)
		}
		doc = append(doc, bson.E{Key: "status", Value: bson.M{"$in": in}})
	}
	switch {
	case f.Version == nil:
	case *f.Version == 0:
		// orders written before versioning have no field at all
		doc = append(doc, bson.E{Key: "version", Value: bson.M{"$in": bson.A{int64(0), nil}}})
	default:
		doc = append(doc, bson.E{Key: "version", Value: *f.Version})
	}
	return doc
}

func updateDoc(u models.OrderUpdate) bson.D {
	set := bson.D{}
	if u.Status != nil {
		set = append(set, bson.E{Key: "status", Value: *u.Status})
	}
	if u.CancellationRequested != nil {
		set = append(set, bson.E{Key: "isCancellationRequested", Value: *u.CancellationRequested})
	}
	if u.Decision != nil {
		set = append(set, bson.E{Key: "cancellationDecision", Value: *u.Decision})
	}
	if u.Note != nil {
		set = append(set, bson.E{Key: "cancellationNote", Value: *u.Note})
	}

	doc := bson.D{{Key: "$inc", Value: bson.D{{Key: "version", Value: 1}}}}
	if len(set) > 0 {
		doc = append(doc, bson.E{Key: "$set", Value: set})
	}
	return doc
}

// Directory resolves display names from the user and product collections.
type Directory struct {
	users    *mongo.Collection
	products *mongo.Collection
}

func NewDirectory(users, products *mongo.Collection) *Directory {
	return &Directory{users: users, products: products}
}

func (d *Directory) CustomerNames(ctx context.Context, ids []string) (map[string]models.CustomerName, error) {
	names := make(map[string]models.CustomerName, len(ids))
	if len(ids) == 0 {
		return names, nil
	}

	opts := options.Find().SetProjection(bson.D{{Key: "first_name", Value: 1}, {Key: "last_name", Value: 1}})
	cursor, err := d.users.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, opts)
	if err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err = cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	for _, u := range users {
		names[u.ID] = models.CustomerName{FirstName: u.FirstName, LastName: u.LastName}
	}
	return names, nil
}

func (d *Directory) ProductNames(ctx context.Context, ids []string) (map[string]string, error) {
	names := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}

	opts := options.Find().SetProjection(bson.D{{Key: "name", Value: 1}})
	cursor, err := d.products.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, opts)
	if err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err = cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	for _, p := range products {
		names[p.ID] = p.Name
	}
	return names, nil
}

// AuditLog represents an audit log entry
type AuditLog struct {
	ID        string    `bson:"_id,omitempty"`
	Service   string    `bson:"service"`
	Action    string    `bson:"action"`
	EntityID  string    `bson:"entity_id"`
	Data      bson.M    `bson:"data"`
	CreatedAt time.Time `bson:"created_at"`
}

// MongoAuditSink records order lifecycle events in the audit collection.
type MongoAuditSink struct {
	collection *mongo.Collection
}

func NewMongoAuditSink(collection *mongo.Collection) *MongoAuditSink {
	return &MongoAuditSink{collection: collection}
}

func (a *MongoAuditSink) Publish(ctx context.Context, ev models.OrderEvent) error {
	entry := &AuditLog{
		Service:  "order-service",
		Action:   string(ev.Type),
		EntityID: ev.OrderID,
		Data: bson.M{
			"customer_id": ev.CustomerID,
			"vendor_ids":  ev.VendorIDs,
			"status":      int(ev.Status),
			"decision":    string(ev.Decision),
			"note":        ev.Note,
		},
		CreatedAt: ev.At,
	}
	_, err := a.collection.InsertOne(ctx, entry)
	return err
}
