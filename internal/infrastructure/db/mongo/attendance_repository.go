package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dawam/attendance-system/internal/core/domain"
)

const collectionAttendance = "attendance"

// AttendanceRepository is the MongoDB-backed shift ledger.
type AttendanceRepository struct {
	col *mongo.Collection
}

func NewAttendanceRepository(db *mongo.Database) *AttendanceRepository {
	return &AttendanceRepository{col: db.Collection(collectionAttendance)}
}

type attendanceDoc struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	EmployeeID string             `bson:"employee_id"`
	CheckInAt  time.Time          `bson:"check_in_at"`
	CheckOutAt *time.Time         `bson:"check_out_at"`
	CreatedAt  time.Time          `bson:"created_at"`
}

func (d *attendanceDoc) toDomain() *domain.AttendanceRecord {
	return &domain.AttendanceRecord{
		ID:         d.ID.Hex(),
		EmployeeID: d.EmployeeID,
		CheckInAt:  d.CheckInAt.UTC(),
		CheckOutAt: utcOrNil(d.CheckOutAt),
		CreatedAt:  d.CreatedAt.UTC(),
	}
}

func utcOrNil(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

// FindOpen returns the employee's most recent record with no check-out.
func (r *AttendanceRepository) FindOpen(ctx context.Context, employeeID string) (*domain.AttendanceRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"employee_id": employeeID, "check_out_at": nil}
	opts := options.FindOne().SetSort(bson.D{{Key: "check_in_at", Value: -1}})

	var doc attendanceDoc
	if err := r.col.FindOne(ctx, filter, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNoOpenShift
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

// CreateOpen appends a new open record. The partial unique index on open
// records turns a concurrent duplicate insert into ErrShiftAlreadyOpen.
func (r *AttendanceRepository) CreateOpen(ctx context.Context, employeeID string, checkInAt time.Time) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := attendanceDoc{
		EmployeeID: employeeID,
		CheckInAt:  checkInAt.UTC(),
		CheckOutAt: nil,
		CreatedAt:  time.Now().UTC(),
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", domain.ErrShiftAlreadyOpen
		}
		return "", err
	}

	oid, _ := res.InsertedID.(primitive.ObjectID)
	return oid.Hex(), nil
}

// Close sets check_out_at only while the record is still open. It reports
// whether this call actually closed the record; a concurrent close that wins
// leaves nothing to match and the result is false.
func (r *AttendanceRepository) Close(ctx context.Context, recordID string, checkOutAt time.Time) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(recordID)
	if err != nil {
		return false, domain.ErrNoOpenShift
	}

	filter := bson.M{"_id": oid, "check_out_at": nil}
	update := bson.M{"$set": bson.M{"check_out_at": checkOutAt.UTC()}}

	res, err := r.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount == 1, nil
}

// ListClosedSince returns closed records with check_in_at >= since, most
// recent check-in first.
func (r *AttendanceRepository) ListClosedSince(ctx context.Context, employeeID string, since time.Time) ([]*domain.AttendanceRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{
		"employee_id":  employeeID,
		"check_out_at": bson.M{"$ne": nil},
		"check_in_at":  bson.M{"$gte": since.UTC()},
	}
	opts := options.Find().SetSort(bson.D{{Key: "check_in_at", Value: -1}})

	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []*domain.AttendanceRecord
	for cursor.Next(ctx) {
		var doc attendanceDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		records = append(records, doc.toDomain())
	}
	return records, cursor.Err()
}

// EnsureIndexes creates the ledger indexes. The partial unique index on
// employee_id where check_out_at is null enforces at-most-one-open-shift at
// the store, closing the concurrent check-in race.
func (r *AttendanceRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "employee_id", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"check_out_at": bson.M{"$type": "null"}}),
		},
		{Keys: bson.D{{Key: "employee_id", Value: 1}, {Key: "check_in_at", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
