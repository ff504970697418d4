// Package mongo backs jobs.Store with MongoDB, structured the way the
// teacher's session store client wraps a single collection: an Options
// struct naming the database/collection/timeout, index setup at
// construction, and per-call context timeouts.
package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	mongodriver "go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"toolhub/jobs"
	"toolhub/spec"
)

const (
	defaultCollection = "toolhub_jobs"
	defaultOpTimeout  = 5 * time.Second
)

// Options configures the Mongo-backed job store.
type Options struct {
	Client     *mongodriver.Client
	Database   string
	Collection string
	Timeout    time.Duration
}

// Store persists jobs in a MongoDB collection, one document per job ID.
type Store struct {
	coll    *mongodriver.Collection
	timeout time.Duration
}

type doc struct {
	JobID     string          `bson:"job_id"`
	ToolName  string          `bson:"tool_name"`
	RequestID string          `bson:"request_id"`
	TaskID    string          `bson:"task_id"`
	Status    string          `bson:"status"`
	CreatedAt time.Time       `bson:"created_at"`
	UpdatedAt time.Time       `bson:"updated_at"`
	Result    string          `bson:"result,omitempty"`
	Error     *spec.ToolError `bson:"error,omitempty"`
	Metadata  map[string]any  `bson:"metadata,omitempty"`
}

// New opens a Store against opts.Database/opts.Collection, ensuring the
// job_id unique index exists.
func New(ctx context.Context, opts Options) (*Store, error) {
	if opts.Client == nil {
		return nil, errors.New("jobs/store/mongo: client is required")
	}
	if opts.Database == "" {
		return nil, errors.New("jobs/store/mongo: database name is required")
	}
	collection := opts.Collection
	if collection == "" {
		collection = defaultCollection
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultOpTimeout
	}
	coll := opts.Client.Database(opts.Database).Collection(collection)
	ictx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := ensureIndexes(ictx, coll); err != nil {
		return nil, err
	}
	return &Store{coll: coll, timeout: timeout}, nil
}

func ensureIndexes(ctx context.Context, coll *mongodriver.Collection) error {
	_, err := coll.Indexes().CreateOne(ctx, mongodriver.IndexModel{
		Keys:    bson.D{{Key: "job_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (s *Store) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}

func (s *Store) Save(ctx context.Context, job *spec.Job) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	d := toDoc(job)
	filter := bson.M{"job_id": job.JobID}
	update := bson.M{"$set": d}
	_, err := s.coll.UpdateOne(ctx, filter, update, options.UpdateOne().SetUpsert(true))
	return err
}

func (s *Store) Get(ctx context.Context, jobID string) (*spec.Job, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	var d doc
	err := s.coll.FindOne(ctx, bson.M{"job_id": jobID}).Decode(&d)
	if errors.Is(err, mongodriver.ErrNoDocuments) {
		return nil, jobs.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return fromDoc(d), nil
}

func (s *Store) List(ctx context.Context, filter jobs.Filter) ([]*spec.Job, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	query := bson.M{}
	if filter.Status != "" {
		query["status"] = string(filter.Status)
	}
	if filter.ToolName != "" {
		query["tool_name"] = filter.ToolName
	}
	cur, err := s.coll.Find(ctx, query)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []*spec.Job
	for cur.Next(ctx) {
		var d doc
		if err := cur.Decode(&d); err != nil {
			return nil, err
		}
		out = append(out, fromDoc(d))
	}
	return out, cur.Err()
}

func (s *Store) DeleteTerminalBefore(ctx context.Context, cutoff time.Time) (int, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	res, err := s.coll.DeleteMany(ctx, bson.M{
		"status":     bson.M{"$in": bson.A{"completed", "failed"}},
		"updated_at": bson.M{"$lt": cutoff},
	})
	if err != nil {
		return 0, err
	}
	return int(res.DeletedCount), nil
}

func toDoc(job *spec.Job) doc {
	var result string
	if len(job.Result) > 0 {
		result = string(job.Result)
	}
	return doc{
		JobID:     job.JobID,
		ToolName:  job.ToolName,
		RequestID: job.RequestID,
		TaskID:    job.TaskID,
		Status:    string(job.Status),
		CreatedAt: job.CreatedAt,
		UpdatedAt: job.UpdatedAt,
		Result:    result,
		Error:     job.Error,
		Metadata:  job.Metadata,
	}
}

func fromDoc(d doc) *spec.Job {
	var raw []byte
	if d.Result != "" {
		raw = []byte(d.Result)
	}
	return &spec.Job{
		JobID:     d.JobID,
		ToolName:  d.ToolName,
		RequestID: d.RequestID,
		TaskID:    d.TaskID,
		Status:    spec.JobStatus(d.Status),
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
		Result:    raw,
		Error:     d.Error,
		Metadata:  d.Metadata,
	}
}

var _ jobs.Store = (*Store)(nil)
