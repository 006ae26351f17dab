package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gopalbasak1/wind-house-management-server/internal/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names shared by the mongo backend and the migrate command.
const (
	CollectionUsers              = "users"
	CollectionApartments         = "apartment"
	CollectionAgreements         = "agreements"
	CollectionAcceptedAgreements = "acceptedAgreements"
	CollectionPayments           = "payments"
	CollectionCoupons            = "coupons"
	CollectionAnnouncements      = "announcements"
)

// NewMongoStore builds a Store over one mongo database.
func NewMongoStore(db *mongo.Database) *Store {
	return &Store{
		Users:              &MongoUsersRepository{c: db.Collection(CollectionUsers)},
		Apartments:         &MongoApartmentsRepository{c: db.Collection(CollectionApartments)},
		Agreements:         &MongoAgreementsRepository{c: db.Collection(CollectionAgreements)},
		AcceptedAgreements: &MongoAcceptedAgreementsRepository{c: db.Collection(CollectionAcceptedAgreements)},
		Payments:           &MongoPaymentsRepository{c: db.Collection(CollectionPayments)},
		Coupons:            &MongoCouponsRepository{c: db.Collection(CollectionCoupons)},
		Announcements:      &MongoAnnouncementsRepository{c: db.Collection(CollectionAnnouncements)},
		ping: func(ctx context.Context) error {
			return db.Client().Ping(ctx, nil)
		},
		close: func(ctx context.Context) error {
			return db.Client().Disconnect(ctx)
		},
	}
}

// MigrateMongo creates the lookup indexes. Only users.email is unique;
// agreements and coupons rely on application pre-checks.
func MigrateMongo(ctx context.Context, db *mongo.Database) error {
	indexes := map[string][]mongo.IndexModel{
		CollectionUsers: {{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		}},
		CollectionAgreements: {
			{Keys: bson.D{{Key: "userEmail", Value: 1}, {Key: "apartmentNo", Value: 1}}},
			{Keys: bson.D{{Key: "status", Value: 1}}},
		},
		CollectionAcceptedAgreements: {{Keys: bson.D{{Key: "userEmail", Value: 1}}}},
		CollectionPayments:           {{Keys: bson.D{{Key: "email", Value: 1}}}},
		CollectionCoupons:            {{Keys: bson.D{{Key: "code", Value: 1}}}},
	}
	for name, models := range indexes {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", name, err)
		}
	}
	return nil
}

func objectID(id string) (primitive.ObjectID, bool) {
	oid, err := primitive.ObjectIDFromHex(id)
	return oid, err == nil
}

func insertedID(res *mongo.InsertOneResult) string {
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		return oid.Hex()
	}
	return fmt.Sprint(res.InsertedID)
}

func mongoNotFoundOr(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}

// --- Users ---

type userDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	domain.User `bson:",inline"`
}

func (d userDoc) toDomain() *domain.User {
	u := d.User
	u.ID = d.ID.Hex()
	return &u
}

type MongoUsersRepository struct {
	c *mongo.Collection
}

var _ UsersRepository = (*MongoUsersRepository)(nil)

func (r *MongoUsersRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var d userDoc
	if err := r.c.FindOne(ctx, filter).Decode(&d); err != nil {
		return nil, mongoNotFoundOr(err)
	}
	return d.toDomain(), nil
}

func (r *MongoUsersRepository) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	oid, ok := objectID(userID)
	if !ok {
		return nil, ErrNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *MongoUsersRepository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *MongoUsersRepository) ListUsers(ctx context.Context) ([]*domain.User, error) {
	cur, err := r.c.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	var docs []userDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]*domain.User, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (r *MongoUsersRepository) CountUsers(ctx context.Context, role string) (int, error) {
	filter := bson.M{}
	if role != "" {
		filter["role"] = role
	}
	n, err := r.c.CountDocuments(ctx, filter)
	return int(n), err
}

// CreateUser upserts with $setOnInsert so a concurrent registration of the
// same email never overwrites the first one.
func (r *MongoUsersRepository) CreateUser(ctx context.Context, u *domain.User) (string, bool, error) {
	res, err := r.c.UpdateOne(ctx,
		bson.M{"email": u.Email},
		bson.M{"$setOnInsert": u},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return "", false, err
	}
	if oid, ok := res.UpsertedID.(primitive.ObjectID); ok {
		return oid.Hex(), true, nil
	}
	existing, err := r.GetUserByEmail(ctx, u.Email)
	if err != nil {
		return "", false, err
	}
	return existing.ID, false, nil
}

func userPatchBSON(patch domain.UserPatch) bson.M {
	set := bson.M{}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.ImageURL != nil {
		set["image"] = *patch.ImageURL
	}
	if patch.Role != nil {
		set["role"] = *patch.Role
	}
	if patch.Status != nil {
		set["status"] = *patch.Status
	}
	if patch.Agreement != nil {
		set["agreement"] = patch.Agreement
	}
	return set
}

func (r *MongoUsersRepository) update(ctx context.Context, filter bson.M, patch domain.UserPatch) error {
	set := userPatchBSON(patch)
	if len(set) == 0 {
		n, err := r.c.CountDocuments(ctx, filter)
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrNotFound
		}
		return nil
	}
	res, err := r.c.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoUsersRepository) UpdateUser(ctx context.Context, userID string, patch domain.UserPatch) error {
	oid, ok := objectID(userID)
	if !ok {
		return ErrNotFound
	}
	return r.update(ctx, bson.M{"_id": oid}, patch)
}

func (r *MongoUsersRepository) UpdateUserByEmail(ctx context.Context, email string, patch domain.UserPatch) error {
	return r.update(ctx, bson.M{"email": email}, patch)
}

// --- Apartments ---

type apartmentDoc struct {
	ID               primitive.ObjectID `bson:"_id,omitempty"`
	domain.Apartment `bson:",inline"`
}

type MongoApartmentsRepository struct {
	c *mongo.Collection
}

var _ ApartmentsRepository = (*MongoApartmentsRepository)(nil)

func (r *MongoApartmentsRepository) find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]*domain.Apartment, error) {
	cur, err := r.c.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	var docs []apartmentDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]*domain.Apartment, 0, len(docs))
	for _, d := range docs {
		a := d.Apartment
		a.ID = d.ID.Hex()
		out = append(out, &a)
	}
	return out, nil
}

func (r *MongoApartmentsRepository) ListApartments(ctx context.Context) ([]*domain.Apartment, error) {
	return r.find(ctx, bson.M{})
}

func (r *MongoApartmentsRepository) PageApartments(ctx context.Context, filter domain.ApartmentFilter, offset, limit int) ([]*domain.Apartment, int, error) {
	q := bson.M{}
	rent := bson.M{}
	if filter.MinRent > 0 {
		rent["$gte"] = filter.MinRent
	}
	if filter.MaxRent > 0 {
		rent["$lte"] = filter.MaxRent
	}
	if len(rent) > 0 {
		q["rent"] = rent
	}

	total, err := r.c.CountDocuments(ctx, q)
	if err != nil {
		return nil, 0, err
	}
	items, err := r.find(ctx, q, options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit)))
	if err != nil {
		return nil, 0, err
	}
	return items, int(total), nil
}

func (r *MongoApartmentsRepository) CountApartments(ctx context.Context) (int, error) {
	n, err := r.c.CountDocuments(ctx, bson.M{})
	return int(n), err
}

func (r *MongoApartmentsRepository) CreateApartment(ctx context.Context, a *domain.Apartment) (string, error) {
	res, err := r.c.InsertOne(ctx, apartmentDoc{Apartment: *a})
	if err != nil {
		return "", err
	}
	return insertedID(res), nil
}

// --- Agreements ---

type agreementDoc struct {
	ID               primitive.ObjectID `bson:"_id,omitempty"`
	domain.Agreement `bson:",inline"`
}

func (d agreementDoc) toDomain() *domain.Agreement {
	a := d.Agreement
	a.ID = d.ID.Hex()
	return &a
}

type MongoAgreementsRepository struct {
	c *mongo.Collection
}

var _ AgreementsRepository = (*MongoAgreementsRepository)(nil)

func (r *MongoAgreementsRepository) findOne(ctx context.Context, filter bson.M) (*domain.Agreement, error) {
	var d agreementDoc
	if err := r.c.FindOne(ctx, filter).Decode(&d); err != nil {
		return nil, mongoNotFoundOr(err)
	}
	return d.toDomain(), nil
}

func (r *MongoAgreementsRepository) GetAgreement(ctx context.Context, agreementID string) (*domain.Agreement, error) {
	oid, ok := objectID(agreementID)
	if !ok {
		return nil, ErrNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *MongoAgreementsRepository) FindAgreement(ctx context.Context, userEmail, apartmentNo string) (*domain.Agreement, error) {
	return r.findOne(ctx, bson.M{"userEmail": userEmail, "apartmentNo": apartmentNo})
}

func (r *MongoAgreementsRepository) ListAgreementsByStatus(ctx context.Context, status string) ([]*domain.Agreement, error) {
	cur, err := r.c.Find(ctx, bson.M{"status": status})
	if err != nil {
		return nil, err
	}
	var docs []agreementDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]*domain.Agreement, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (r *MongoAgreementsRepository) CreateAgreement(ctx context.Context, a *domain.Agreement) (string, error) {
	res, err := r.c.InsertOne(ctx, agreementDoc{Agreement: *a})
	if err != nil {
		return "", err
	}
	return insertedID(res), nil
}

func (r *MongoAgreementsRepository) UpdateAgreementStatus(ctx context.Context, agreementID, status string, acceptDate *time.Time) error {
	oid, ok := objectID(agreementID)
	if !ok {
		return ErrNotFound
	}
	set := bson.M{"status": status}
	if acceptDate != nil {
		set["acceptDate"] = *acceptDate
	}
	res, err := r.c.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Accepted agreements ---

type acceptedAgreementDoc struct {
	ID                       primitive.ObjectID `bson:"_id,omitempty"`
	domain.AcceptedAgreement `bson:",inline"`
}

type MongoAcceptedAgreementsRepository struct {
	c *mongo.Collection
}

var _ AcceptedAgreementsRepository = (*MongoAcceptedAgreementsRepository)(nil)

func (r *MongoAcceptedAgreementsRepository) CreateAcceptedAgreement(ctx context.Context, a *domain.AcceptedAgreement) (string, error) {
	res, err := r.c.InsertOne(ctx, acceptedAgreementDoc{AcceptedAgreement: *a})
	if err != nil {
		return "", err
	}
	return insertedID(res), nil
}

func (r *MongoAcceptedAgreementsRepository) ListAcceptedAgreements(ctx context.Context, userEmail string) ([]*domain.AcceptedAgreement, error) {
	cur, err := r.c.Find(ctx, bson.M{"userEmail": userEmail})
	if err != nil {
		return nil, err
	}
	var docs []acceptedAgreementDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]*domain.AcceptedAgreement, 0, len(docs))
	for _, d := range docs {
		a := d.AcceptedAgreement
		a.ID = d.ID.Hex()
		out = append(out, &a)
	}
	return out, nil
}

func (r *MongoAcceptedAgreementsRepository) CountAcceptedAgreements(ctx context.Context) (int, error) {
	n, err := r.c.CountDocuments(ctx, bson.M{})
	return int(n), err
}

// --- Payments ---

type paymentDoc struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	domain.Payment `bson:",inline"`
}

type MongoPaymentsRepository struct {
	c *mongo.Collection
}

var _ PaymentsRepository = (*MongoPaymentsRepository)(nil)

func (r *MongoPaymentsRepository) find(ctx context.Context, filter bson.M) ([]*domain.Payment, error) {
	cur, err := r.c.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	var docs []paymentDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]*domain.Payment, 0, len(docs))
	for _, d := range docs {
		p := d.Payment
		p.ID = d.ID.Hex()
		out = append(out, &p)
	}
	return out, nil
}

func (r *MongoPaymentsRepository) CreatePayment(ctx context.Context, p *domain.Payment) (string, error) {
	res, err := r.c.InsertOne(ctx, paymentDoc{Payment: *p})
	if err != nil {
		return "", err
	}
	return insertedID(res), nil
}

func (r *MongoPaymentsRepository) GetPayment(ctx context.Context, paymentID string) (*domain.Payment, error) {
	oid, ok := objectID(paymentID)
	if !ok {
		return nil, ErrNotFound
	}
	var d paymentDoc
	if err := r.c.FindOne(ctx, bson.M{"_id": oid}).Decode(&d); err != nil {
		return nil, mongoNotFoundOr(err)
	}
	p := d.Payment
	p.ID = d.ID.Hex()
	return &p, nil
}

func (r *MongoPaymentsRepository) ListPaymentsByEmail(ctx context.Context, email string) ([]*domain.Payment, error) {
	return r.find(ctx, bson.M{"email": email})
}

func (r *MongoPaymentsRepository) ListPayments(ctx context.Context) ([]*domain.Payment, error) {
	return r.find(ctx, bson.M{})
}

// --- Coupons ---

type couponDoc struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	domain.Coupon `bson:",inline"`
}

type MongoCouponsRepository struct {
	c *mongo.Collection
}

var _ CouponsRepository = (*MongoCouponsRepository)(nil)

func (r *MongoCouponsRepository) UpsertCoupon(ctx context.Context, c *domain.Coupon) (string, bool, error) {
	res, err := r.c.UpdateOne(ctx,
		bson.M{"code": c.Code},
		bson.M{"$set": bson.M{
			"code":        c.Code,
			"discount":    c.Discount,
			"description": c.Description,
			"expired":     c.Expired,
		}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return "", false, err
	}
	if oid, ok := res.UpsertedID.(primitive.ObjectID); ok {
		return oid.Hex(), true, nil
	}
	existing, err := r.GetCouponByCode(ctx, c.Code)
	if err != nil {
		return "", false, err
	}
	return existing.ID, false, nil
}

func (r *MongoCouponsRepository) GetCouponByCode(ctx context.Context, code string) (*domain.Coupon, error) {
	var d couponDoc
	if err := r.c.FindOne(ctx, bson.M{"code": code}).Decode(&d); err != nil {
		return nil, mongoNotFoundOr(err)
	}
	c := d.Coupon
	c.ID = d.ID.Hex()
	return &c, nil
}

func (r *MongoCouponsRepository) ListCoupons(ctx context.Context) ([]*domain.Coupon, error) {
	cur, err := r.c.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	var docs []couponDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]*domain.Coupon, 0, len(docs))
	for _, d := range docs {
		c := d.Coupon
		c.ID = d.ID.Hex()
		out = append(out, &c)
	}
	return out, nil
}

func (r *MongoCouponsRepository) DeleteCoupon(ctx context.Context, couponID string) error {
	oid, ok := objectID(couponID)
	if !ok {
		return ErrNotFound
	}
	res, err := r.c.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Announcements ---

type announcementDoc struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty"`
	domain.Announcement `bson:",inline"`
}

type MongoAnnouncementsRepository struct {
	c *mongo.Collection
}

var _ AnnouncementsRepository = (*MongoAnnouncementsRepository)(nil)

func (r *MongoAnnouncementsRepository) CreateAnnouncement(ctx context.Context, a *domain.Announcement) (string, error) {
	res, err := r.c.InsertOne(ctx, announcementDoc{Announcement: *a})
	if err != nil {
		return "", err
	}
	return insertedID(res), nil
}

func (r *MongoAnnouncementsRepository) ListAnnouncements(ctx context.Context) ([]*domain.Announcement, error) {
	cur, err := r.c.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	var docs []announcementDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]*domain.Announcement, 0, len(docs))
	for _, d := range docs {
		a := d.Announcement
		a.ID = d.ID.Hex()
		out = append(out, &a)
	}
	return out, nil
}
