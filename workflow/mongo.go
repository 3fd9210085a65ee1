package workflow

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	models "github.com/MJG-MindSpire/demodonation/models"
)

// MongoStore implements ProjectStore, DonationStore and UpdateStore
// against the application's collections.
type MongoStore struct {
	projects  *mongo.Collection
	donations *mongo.Collection
	updates   *mongo.Collection
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{
		projects:  db.Collection("projects"),
		donations: db.Collection("donations"),
		updates:   db.Collection("progress_updates"),
	}
}

func (s *MongoStore) FindProject(ctx context.Context, id primitive.ObjectID) (*models.Project, error) {
	var p models.Project
	err := s.projects.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *MongoStore) MarkProjectApproved(ctx context.Context, id primitive.ObjectID, remark string, at time.Time) error {
	res, err := s.projects.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{
			"status":       models.ProjectStatusApproved,
			"admin_remark": remark,
			"approved_at":  at,
			"published_at": at,
			"updated_at":   at,
		},
		"$unset": bson.M{"rejected_at": ""},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) MarkProjectRejected(ctx context.Context, id primitive.ObjectID, remark string, at time.Time) error {
	res, err := s.projects.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{
			"status":       models.ProjectStatusRejected,
			"admin_remark": remark,
			"rejected_at":  at,
			"updated_at":   at,
		},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) ReplaceFieldWorkers(ctx context.Context, id primitive.ObjectID, workerIDs []primitive.ObjectID) error {
	res, err := s.projects.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{
			"assigned_field_worker_ids": workerIDs,
			"updated_at":                time.Now(),
		},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) AddCollectedAmount(ctx context.Context, id primitive.ObjectID, amount float64) error {
	_, err := s.projects.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$inc": bson.M{"collected_amount": amount},
		"$set": bson.M{"updated_at": time.Now()},
	})
	return err
}

// ApplyProgress performs the combined rollup in one document update:
// spent amount incremented, progress percent raised via $max.
func (s *MongoStore) ApplyProgress(ctx context.Context, id primitive.ObjectID, amountUsed, percentComplete float64) error {
	_, err := s.projects.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$inc": bson.M{"spent_amount": amountUsed},
		"$max": bson.M{"progress_percent": percentComplete},
		"$set": bson.M{"updated_at": time.Now()},
	})
	return err
}

func (s *MongoStore) FindDonation(ctx context.Context, id primitive.ObjectID) (*models.Donation, error) {
	var d models.Donation
	err := s.donations.FindOne(ctx, bson.M{"_id": id}).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// ApproveDonationIfPending flips the receiver status with the
// not-already-approved condition in the filter itself, so two racing
// approvals cannot both observe a modification.
func (s *MongoStore) ApproveDonationIfPending(ctx context.Context, id primitive.ObjectID, remark string, at time.Time) (bool, error) {
	res, err := s.donations.UpdateOne(ctx,
		bson.M{
			"_id":             id,
			"receiver_status": bson.M{"$ne": models.ReceiverApproved},
		},
		bson.M{
			"$set": bson.M{
				"receiver_status":     models.ReceiverApproved,
				"verification_status": models.VerificationApproved,
				"receiver_remark":     remark,
				"receiver_action_at":  at,
				"updated_at":          at,
			},
		})
	if err != nil {
		return false, err
	}
	return res.ModifiedCount > 0, nil
}

func (s *MongoStore) RejectDonation(ctx context.Context, id primitive.ObjectID, remark string, at time.Time) error {
	res, err := s.donations.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{
			"receiver_status":     models.ReceiverRejected,
			"verification_status": models.VerificationFlagged,
			"receiver_remark":     remark,
			"receiver_action_at":  at,
			"updated_at":          at,
		},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) FindUpdate(ctx context.Context, id primitive.ObjectID) (*models.ProgressUpdate, error) {
	var u models.ProgressUpdate
	err := s.updates.FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *MongoStore) ApproveUpdateIfPending(ctx context.Context, id primitive.ObjectID, remark string) (bool, error) {
	res, err := s.updates.UpdateOne(ctx,
		bson.M{
			"_id":             id,
			"approval_status": bson.M{"$ne": models.ApprovalApproved},
		},
		bson.M{
			"$set": bson.M{
				"approval_status": models.ApprovalApproved,
				"admin_remark":    remark,
				"updated_at":      time.Now(),
			},
		})
	if err != nil {
		return false, err
	}
	return res.ModifiedCount > 0, nil
}

func (s *MongoStore) RejectUpdate(ctx context.Context, id primitive.ObjectID, remark string) error {
	res, err := s.updates.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{
			"approval_status": models.ApprovalRejected,
			"admin_remark":    remark,
			"updated_at":      time.Now(),
		},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
