// Package workflow implements the approval state machines for
// projects, donations and progress updates, including the aggregate
// rollups on the parent project. All status flips that carry a side
// effect go through a conditional update on the status field itself,
// so a duplicate or concurrent approval can never credit a project
// twice.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	models "github.com/MJG-MindSpire/demodonation/models"
	notify "github.com/MJG-MindSpire/demodonation/notify"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrForbidden     = errors.New("forbidden")
	ErrProofRequired = errors.New("payment proof is required before approval")
)

// ProjectStore persists project decisions and aggregate rollups.
type ProjectStore interface {
	FindProject(ctx context.Context, id primitive.ObjectID) (*models.Project, error)
	MarkProjectApproved(ctx context.Context, id primitive.ObjectID, remark string, at time.Time) error
	MarkProjectRejected(ctx context.Context, id primitive.ObjectID, remark string, at time.Time) error
	ReplaceFieldWorkers(ctx context.Context, id primitive.ObjectID, workerIDs []primitive.ObjectID) error
	AddCollectedAmount(ctx context.Context, id primitive.ObjectID, amount float64) error
	ApplyProgress(ctx context.Context, id primitive.ObjectID, amountUsed, percentComplete float64) error
}

// DonationStore persists receiver decisions on donations. The approve
// path is a compare-and-swap: it only succeeds when the donation is
// not already approved, and reports whether it did.
type DonationStore interface {
	FindDonation(ctx context.Context, id primitive.ObjectID) (*models.Donation, error)
	ApproveDonationIfPending(ctx context.Context, id primitive.ObjectID, remark string, at time.Time) (bool, error)
	RejectDonation(ctx context.Context, id primitive.ObjectID, remark string, at time.Time) error
}

// UpdateStore persists admin decisions on progress updates, with the
// same compare-and-swap contract on approval.
type UpdateStore interface {
	FindUpdate(ctx context.Context, id primitive.ObjectID) (*models.ProgressUpdate, error)
	ApproveUpdateIfPending(ctx context.Context, id primitive.ObjectID, remark string) (bool, error)
	RejectUpdate(ctx context.Context, id primitive.ObjectID, remark string) error
}

type Engine struct {
	Projects  ProjectStore
	Donations DonationStore
	Updates   UpdateStore
	Notifier  notify.Notifier
}

func NewEngine(projects ProjectStore, donations DonationStore, updates UpdateStore, notifier notify.Notifier) *Engine {
	return &Engine{Projects: projects, Donations: donations, Updates: updates, Notifier: notifier}
}

// ApproveProject publishes a funding request. There is no guard
// against re-approving: approving again re-stamps the publish
// timestamps and re-notifies (re-publish semantics).
func (e *Engine) ApproveProject(ctx context.Context, id primitive.ObjectID, remark, actorID string) (*models.Project, error) {
	project, err := e.Projects.FindProject(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := e.Projects.MarkProjectApproved(ctx, id, remark, time.Now()); err != nil {
		return nil, err
	}

	e.Notifier.Notify(ctx, models.Notification{
		RecipientID:   project.ReceiverID,
		RecipientRole: models.RoleReceiver,
		Type:          models.NotifyProjectApproved,
		Title:         "Request Approved",
		Message:       fmt.Sprintf("Your request %q has been approved.", project.Title),
		EntityType:    "project",
		EntityID:      id.Hex(),
		ActorID:       actorID,
	})

	return e.Projects.FindProject(ctx, id)
}

func (e *Engine) RejectProject(ctx context.Context, id primitive.ObjectID, remark, actorID string) (*models.Project, error) {
	project, err := e.Projects.FindProject(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := e.Projects.MarkProjectRejected(ctx, id, remark, time.Now()); err != nil {
		return nil, err
	}

	e.Notifier.Notify(ctx, models.Notification{
		RecipientID:   project.ReceiverID,
		RecipientRole: models.RoleReceiver,
		Type:          models.NotifyProjectRejected,
		Title:         "Request Rejected",
		Message:       fmt.Sprintf("Your request %q has been rejected.", project.Title),
		EntityType:    "project",
		EntityID:      id.Hex(),
		ActorID:       actorID,
		Data:          remarkData(remark),
	})

	return e.Projects.FindProject(ctx, id)
}

// AssignFieldWorkers replaces the assigned-worker list wholesale. A
// caller wanting additive behavior computes the union itself.
func (e *Engine) AssignFieldWorkers(ctx context.Context, id primitive.ObjectID, workerIDs []primitive.ObjectID) (*models.Project, error) {
	if _, err := e.Projects.FindProject(ctx, id); err != nil {
		return nil, err
	}
	if err := e.Projects.ReplaceFieldWorkers(ctx, id, workerIDs); err != nil {
		return nil, err
	}
	return e.Projects.FindProject(ctx, id)
}

// ApproveDonation confirms receipt of a donor's funds. Only the
// receiver owning the parent project may call it; the donation must
// carry proof. The collected-amount credit fires exactly once, on the
// transition into approved.
func (e *Engine) ApproveDonation(ctx context.Context, id, receiverID primitive.ObjectID, remark string) (*models.Donation, error) {
	donation, err := e.Donations.FindDonation(ctx, id)
	if err != nil {
		return nil, err
	}

	project, err := e.Projects.FindProject(ctx, donation.ProjectID)
	if err != nil {
		return nil, err
	}

	if project.ReceiverID != receiverID {
		return nil, ErrForbidden
	}

	if !donation.HasProof() {
		return nil, ErrProofRequired
	}

	approved, err := e.Donations.ApproveDonationIfPending(ctx, id, remark, time.Now())
	if err != nil {
		return nil, err
	}

	if approved {
		if err := e.Projects.AddCollectedAmount(ctx, donation.ProjectID, donation.Amount); err != nil {
			return nil, err
		}

		e.Notifier.Notify(ctx, models.Notification{
			RecipientID:   donation.DonorID,
			RecipientRole: models.RoleDonor,
			Type:          models.NotifyDonationApproved,
			Title:         "Donation Approved",
			Message:       fmt.Sprintf("Your donation for %q was approved (PKR %s).", project.Title, formatAmount(donation.Amount)),
			EntityType:    "donation",
			EntityID:      id.Hex(),
			ActorID:       receiverID.Hex(),
			Data:          remarkData(remark),
		})
	}

	return e.Donations.FindDonation(ctx, id)
}

// RejectDonation flags a donation without touching the project.
func (e *Engine) RejectDonation(ctx context.Context, id, receiverID primitive.ObjectID, remark string) (*models.Donation, error) {
	donation, err := e.Donations.FindDonation(ctx, id)
	if err != nil {
		return nil, err
	}

	project, err := e.Projects.FindProject(ctx, donation.ProjectID)
	if err != nil {
		return nil, err
	}

	if project.ReceiverID != receiverID {
		return nil, ErrForbidden
	}

	if err := e.Donations.RejectDonation(ctx, id, remark, time.Now()); err != nil {
		return nil, err
	}

	e.Notifier.Notify(ctx, models.Notification{
		RecipientID:   donation.DonorID,
		RecipientRole: models.RoleDonor,
		Type:          models.NotifyDonationRejected,
		Title:         "Donation Rejected",
		Message:       fmt.Sprintf("Your donation for %q was rejected.", project.Title),
		EntityType:    "donation",
		EntityID:      id.Hex(),
		ActorID:       receiverID.Hex(),
		Data:          remarkData(remark),
	})

	return e.Donations.FindDonation(ctx, id)
}

// ApproveUpdate accepts a field report. On the first transition into
// approved the parent project gets one combined update: spent amount
// incremented, progress percent raised via max. Re-invocations return
// the current record with no side effects.
func (e *Engine) ApproveUpdate(ctx context.Context, id primitive.ObjectID, remark, actorID string) (*models.ProgressUpdate, error) {
	update, err := e.Updates.FindUpdate(ctx, id)
	if err != nil {
		return nil, err
	}

	approved, err := e.Updates.ApproveUpdateIfPending(ctx, id, remark)
	if err != nil {
		return nil, err
	}

	if approved {
		if err := e.Projects.ApplyProgress(ctx, update.ProjectID, update.AmountUsed, update.PercentComplete); err != nil {
			return nil, err
		}

		title := "project"
		if project, err := e.Projects.FindProject(ctx, update.ProjectID); err == nil {
			title = project.Title
		}

		e.Notifier.Notify(ctx, models.Notification{
			RecipientID:   update.FieldWorkerID,
			RecipientRole: models.RoleField,
			Type:          models.NotifyProgressApproved,
			Title:         "Progress Update Approved",
			Message:       fmt.Sprintf("Your progress update for %q was approved.", title),
			EntityType:    "progressUpdate",
			EntityID:      id.Hex(),
			ActorID:       actorID,
			Data:          remarkData(remark),
		})
	}

	return e.Updates.FindUpdate(ctx, id)
}

func (e *Engine) RejectUpdate(ctx context.Context, id primitive.ObjectID, remark, actorID string) (*models.ProgressUpdate, error) {
	update, err := e.Updates.FindUpdate(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := e.Updates.RejectUpdate(ctx, id, remark); err != nil {
		return nil, err
	}

	title := "project"
	if project, err := e.Projects.FindProject(ctx, update.ProjectID); err == nil {
		title = project.Title
	}

	e.Notifier.Notify(ctx, models.Notification{
		RecipientID:   update.FieldWorkerID,
		RecipientRole: models.RoleField,
		Type:          models.NotifyProgressRejected,
		Title:         "Progress Update Rejected",
		Message:       fmt.Sprintf("Your progress update for %q was rejected.", title),
		EntityType:    "progressUpdate",
		EntityID:      id.Hex(),
		ActorID:       actorID,
		Data:          remarkData(remark),
	})

	return e.Updates.FindUpdate(ctx, id)
}

func remarkData(remark string) map[string]any {
	if remark == "" {
		return nil
	}
	return map[string]any{"remark": remark}
}

// formatAmount renders an amount with thousand separators, dropping
// the fraction when it is whole (5000 -> "5,000", 150.5 -> "150.50").
func formatAmount(v float64) string {
	var s string
	if v == math.Trunc(v) {
		s = strconv.FormatFloat(v, 'f', 0, 64)
	} else {
		s = strconv.FormatFloat(v, 'f', 2, 64)
	}

	intPart := s
	frac := ""
	if i := len(s) - 3; i > 0 && s[i] == '.' {
		intPart, frac = s[:i], s[i:]
	}

	neg := false
	if len(intPart) > 0 && intPart[0] == '-' {
		neg = true
		intPart = intPart[1:]
	}

	var out []byte
	for i, ch := range []byte(intPart) {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, ch)
	}

	res := string(out) + frac
	if neg {
		res = "-" + res
	}
	return res
}
