// Package mongorepo stores employees in a MongoDB collection.
package mongorepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/UnknownOlympus/staffbook/internal/metrics"
	"github.com/UnknownOlympus/staffbook/internal/models"
	"github.com/UnknownOlympus/staffbook/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type employeeDocument struct {
	ID          primitive.ObjectID `bson:"_id"`
	UserID      string             `bson:"userId"`
	Name        string             `bson:"name"`
	Email       string             `bson:"email"`
	Mobile      string             `bson:"mobile"`
	Designation string             `bson:"designation"`
	Gender      string             `bson:"gender"`
	Courses     []string           `bson:"courses"`
	Image       string             `bson:"image"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

// EmployeeIndexes keeps emails globally unique and owner scans cheap.
var EmployeeIndexes = []mongo.IndexModel{
	{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetName("uniq_email").SetUnique(true),
	},
	{
		Keys:    bson.D{{Key: "userId", Value: 1}},
		Options: options.Index().SetName("idx_userId"),
	},
}

type EmployeeRepository struct {
	coll    *mongo.Collection
	metrics *metrics.Metrics
}

var _ repository.EmployeeRepoIface = (*EmployeeRepository)(nil)

func NewEmployeeRepository(coll *mongo.Collection, metrics *metrics.Metrics) *EmployeeRepository {
	return &EmployeeRepository{coll: coll, metrics: metrics}
}

// Connect opens a client for uri and verifies the primary is reachable.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	ctxTimeout := 5 * time.Second
	ctx, cancel := context.WithTimeout(ctx, ctxTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("unable to create connection to MongoDB: %w", err)
	}

	if err = client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return client, nil
}

// EnsureIndexes creates the employee indexes if they are missing.
func EnsureIndexes(ctx context.Context, coll *mongo.Collection) error {
	if _, err := coll.Indexes().CreateMany(ctx, EmployeeIndexes); err != nil {
		return fmt.Errorf("failed to create employee indexes: %w", err)
	}

	return nil
}

// Pinger adapts a client to the health checker.
type Pinger struct {
	Client *mongo.Client
}

func (p Pinger) Ping(ctx context.Context) error {
	return p.Client.Ping(ctx, readpref.Primary())
}

func (r *EmployeeRepository) observe(queryType string, startTime time.Time) {
	r.metrics.DBQueryDuration.WithLabelValues(queryType).Observe(time.Since(startTime).Seconds())
}

func (r *EmployeeRepository) CreateEmployee(ctx context.Context, employee models.Employee) (models.Employee, error) {
	defer r.observe("create_employee", time.Now())

	now := time.Now().UTC().Truncate(time.Millisecond)
	doc := toDocument(employee)
	doc.ID = primitive.NewObjectID()
	doc.CreatedAt = now
	doc.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return models.Employee{}, fmt.Errorf("failed to save employee: %w", translateError(err))
	}

	return doc.toModel(), nil
}

func (r *EmployeeRepository) ListEmployees(ctx context.Context, userID string) ([]models.Employee, error) {
	defer r.observe("list_employees", time.Now())

	cursor, err := r.coll.Find(ctx, bson.M{"userId": userID}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}

	var docs []employeeDocument
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode employees: %w", err)
	}

	employees := make([]models.Employee, 0, len(docs))
	for _, doc := range docs {
		employees = append(employees, doc.toModel())
	}

	return employees, nil
}

func (r *EmployeeRepository) GetEmployee(ctx context.Context, identifier, userID string) (models.Employee, error) {
	defer r.observe("get_employee", time.Now())

	filter, err := ownedBy(identifier, userID)
	if err != nil {
		return models.Employee{}, err
	}

	var doc employeeDocument
	if err = r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		return models.Employee{}, fmt.Errorf("failed to get employee by id: %w", translateError(err))
	}

	return doc.toModel(), nil
}

func (r *EmployeeRepository) FindEmployeeByEmail(ctx context.Context, email string) (models.Employee, error) {
	defer r.observe("find_employee_by_email", time.Now())

	var doc employeeDocument
	if err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&doc); err != nil {
		return models.Employee{}, fmt.Errorf("failed to find employee by email: %w", translateError(err))
	}

	return doc.toModel(), nil
}

func (r *EmployeeRepository) UpdateEmployee(
	ctx context.Context,
	identifier, userID string,
	patch models.EmployeePatch,
) (models.Employee, error) {
	defer r.observe("update_employee", time.Now())

	filter, err := ownedBy(identifier, userID)
	if err != nil {
		return models.Employee{}, err
	}

	set := bson.M{"updatedAt": time.Now().UTC().Truncate(time.Millisecond)}
	setIfPresent(set, "name", patch.Name)
	setIfPresent(set, "email", patch.Email)
	setIfPresent(set, "mobile", patch.Mobile)
	setIfPresent(set, "designation", patch.Designation)
	setIfPresent(set, "gender", patch.Gender)
	setIfPresent(set, "image", patch.Image)
	if patch.Courses != nil {
		set["courses"] = *patch.Courses
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc employeeDocument
	if err = r.coll.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&doc); err != nil {
		return models.Employee{}, fmt.Errorf("failed to update employee data: %w", translateError(err))
	}

	return doc.toModel(), nil
}

func (r *EmployeeRepository) DeleteEmployee(ctx context.Context, identifier, userID string) (models.Employee, error) {
	defer r.observe("delete_employee", time.Now())

	filter, err := ownedBy(identifier, userID)
	if err != nil {
		return models.Employee{}, err
	}

	var doc employeeDocument
	if err = r.coll.FindOneAndDelete(ctx, filter).Decode(&doc); err != nil {
		return models.Employee{}, fmt.Errorf("failed to delete employee: %w", translateError(err))
	}

	return doc.toModel(), nil
}

// ownedBy builds the combined identifier and owner filter.
func ownedBy(identifier, userID string) (bson.M, error) {
	objectID, err := primitive.ObjectIDFromHex(identifier)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", repository.ErrInvalidID, identifier)
	}

	return bson.M{"_id": objectID, "userId": userID}, nil
}

func setIfPresent(set bson.M, key string, value *string) {
	if value != nil {
		set[key] = *value
	}
}

func translateError(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("%w: %w", repository.ErrEmployeeNotFound, err)
	}

	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: %w", repository.ErrEmailTaken, err)
	}

	return err
}

func toDocument(employee models.Employee) employeeDocument {
	courses := employee.Courses
	if courses == nil {
		courses = []string{}
	}

	return employeeDocument{
		UserID:      employee.UserID,
		Name:        employee.Name,
		Email:       employee.Email,
		Mobile:      employee.Mobile,
		Designation: employee.Designation,
		Gender:      employee.Gender,
		Courses:     courses,
		Image:       employee.Image,
	}
}

func (d employeeDocument) toModel() models.Employee {
	courses := d.Courses
	if courses == nil {
		courses = []string{}
	}

	return models.Employee{
		ID:          d.ID.Hex(),
		UserID:      d.UserID,
		Name:        d.Name,
		Email:       d.Email,
		Mobile:      d.Mobile,
		Designation: d.Designation,
		Gender:      d.Gender,
		Courses:     courses,
		Image:       d.Image,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}
