package workflow

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	models "github.com/MJG-MindSpire/demodonation/models"
)

type memStore struct {
	projects  map[primitive.ObjectID]*models.Project
	donations map[primitive.ObjectID]*models.Donation
	updates   map[primitive.ObjectID]*models.ProgressUpdate
}

func newMemStore() *memStore {
	return &memStore{
		projects:  map[primitive.ObjectID]*models.Project{},
		donations: map[primitive.ObjectID]*models.Donation{},
		updates:   map[primitive.ObjectID]*models.ProgressUpdate{},
	}
}

func (s *memStore) FindProject(_ context.Context, id primitive.ObjectID) (*models.Project, error) {
	p, ok := s.projects[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *memStore) MarkProjectApproved(_ context.Context, id primitive.ObjectID, remark string, at time.Time) error {
	p, ok := s.projects[id]
	if !ok {
		return ErrNotFound
	}
	p.Status = models.ProjectStatusApproved
	p.AdminRemark = remark
	p.ApprovedAt = &at
	p.PublishedAt = &at
	return nil
}

func (s *memStore) MarkProjectRejected(_ context.Context, id primitive.ObjectID, remark string, at time.Time) error {
	p, ok := s.projects[id]
	if !ok {
		return ErrNotFound
	}
	p.Status = models.ProjectStatusRejected
	p.AdminRemark = remark
	p.RejectedAt = &at
	return nil
}

func (s *memStore) ReplaceFieldWorkers(_ context.Context, id primitive.ObjectID, workerIDs []primitive.ObjectID) error {
	p, ok := s.projects[id]
	if !ok {
		return ErrNotFound
	}
	p.AssignedFieldWorkerIDs = workerIDs
	return nil
}

func (s *memStore) AddCollectedAmount(_ context.Context, id primitive.ObjectID, amount float64) error {
	p, ok := s.projects[id]
	if !ok {
		return ErrNotFound
	}
	p.CollectedAmount += amount
	return nil
}

func (s *memStore) ApplyProgress(_ context.Context, id primitive.ObjectID, amountUsed, percentComplete float64) error {
	p, ok := s.projects[id]
	if !ok {
		return ErrNotFound
	}
	p.SpentAmount += amountUsed
	if percentComplete > p.ProgressPercent {
		p.ProgressPercent = percentComplete
	}
	return nil
}

func (s *memStore) FindDonation(_ context.Context, id primitive.ObjectID) (*models.Donation, error) {
	d, ok := s.donations[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (s *memStore) ApproveDonationIfPending(_ context.Context, id primitive.ObjectID, remark string, at time.Time) (bool, error) {
	d, ok := s.donations[id]
	if !ok {
		return false, ErrNotFound
	}
	if d.ReceiverStatus == models.ReceiverApproved {
		return false, nil
	}
	d.ReceiverStatus = models.ReceiverApproved
	d.ReceiverRemark = remark
	d.ReceiverActionAt = &at
	return true, nil
}

func (s *memStore) RejectDonation(_ context.Context, id primitive.ObjectID, remark string, at time.Time) error {
	d, ok := s.donations[id]
	if !ok {
		return ErrNotFound
	}
	d.ReceiverStatus = models.ReceiverRejected
	d.ReceiverRemark = remark
	d.ReceiverActionAt = &at
	return nil
}

func (s *memStore) FindUpdate(_ context.Context, id primitive.ObjectID) (*models.ProgressUpdate, error) {
	u, ok := s.updates[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *memStore) ApproveUpdateIfPending(_ context.Context, id primitive.ObjectID, remark string) (bool, error) {
	u, ok := s.updates[id]
	if !ok {
		return false, ErrNotFound
	}
	if u.ApprovalStatus == models.ApprovalApproved {
		return false, nil
	}
	u.ApprovalStatus = models.ApprovalApproved
	u.AdminRemark = remark
	return true, nil
}

func (s *memStore) RejectUpdate(_ context.Context, id primitive.ObjectID, remark string) error {
	u, ok := s.updates[id]
	if !ok {
		return ErrNotFound
	}
	u.ApprovalStatus = models.ApprovalRejected
	u.AdminRemark = remark
	return nil
}

type recordingNotifier struct {
	sent []models.Notification
}

func (n *recordingNotifier) Notify(_ context.Context, notification models.Notification) {
	n.sent = append(n.sent, notification)
}

func newTestEngine() (*Engine, *memStore, *recordingNotifier) {
	store := newMemStore()
	notifier := &recordingNotifier{}
	return NewEngine(store, store, store, notifier), store, notifier
}

func seedProject(store *memStore, status string) *models.Project {
	p := &models.Project{
		ID:         primitive.NewObjectID(),
		ReceiverID: primitive.NewObjectID(),
		Title:      "Flood Relief",
		Status:     status,
	}
	store.projects[p.ID] = p
	return p
}

func seedDonation(store *memStore, projectID primitive.ObjectID, amount float64, proofs []string) *models.Donation {
	d := &models.Donation{
		ID:             primitive.NewObjectID(),
		ProjectID:      projectID,
		DonorID:        primitive.NewObjectID(),
		Amount:         amount,
		Method:         models.MethodBank,
		ReceiverStatus: models.ReceiverPending,
		ProofPaths:     proofs,
	}
	store.donations[d.ID] = d
	return d
}

func seedUpdate(store *memStore, projectID primitive.ObjectID, amountUsed, percent float64) *models.ProgressUpdate {
	u := &models.ProgressUpdate{
		ID:              primitive.NewObjectID(),
		ProjectID:       projectID,
		FieldWorkerID:   primitive.NewObjectID(),
		AmountUsed:      amountUsed,
		PercentComplete: percent,
		ApprovalStatus:  models.ApprovalPending,
	}
	store.updates[u.ID] = u
	return u
}

func TestApproveProjectPublishesAndNotifies(t *testing.T) {
	engine, store, notifier := newTestEngine()
	project := seedProject(store, models.ProjectStatusPending)

	got, err := engine.ApproveProject(context.Background(), project.ID, "looks good", "admin-1")
	require.NoError(t, err)

	assert.Equal(t, models.ProjectStatusApproved, got.Status)
	assert.NotNil(t, got.ApprovedAt)
	assert.NotNil(t, got.PublishedAt)

	require.Len(t, notifier.sent, 1)
	assert.Equal(t, models.NotifyProjectApproved, notifier.sent[0].Type)
	assert.Equal(t, project.ReceiverID, notifier.sent[0].RecipientID)
}

func TestApproveProjectMissing(t *testing.T) {
	engine, _, _ := newTestEngine()

	_, err := engine.ApproveProject(context.Background(), primitive.NewObjectID(), "", "admin-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRejectProjectCarriesRemark(t *testing.T) {
	engine, store, notifier := newTestEngine()
	project := seedProject(store, models.ProjectStatusPending)

	got, err := engine.RejectProject(context.Background(), project.ID, "insufficient documents", "admin-1")
	require.NoError(t, err)

	assert.Equal(t, models.ProjectStatusRejected, got.Status)
	assert.Equal(t, "insufficient documents", got.AdminRemark)

	require.Len(t, notifier.sent, 1)
	assert.Equal(t, models.NotifyProjectRejected, notifier.sent[0].Type)
	assert.Equal(t, "insufficient documents", notifier.sent[0].Data["remark"])
}

func TestAssignFieldWorkersReplacesList(t *testing.T) {
	engine, store, _ := newTestEngine()
	project := seedProject(store, models.ProjectStatusApproved)

	first := []primitive.ObjectID{primitive.NewObjectID(), primitive.NewObjectID()}
	got, err := engine.AssignFieldWorkers(context.Background(), project.ID, first)
	require.NoError(t, err)
	assert.Equal(t, first, got.AssignedFieldWorkerIDs)

	second := []primitive.ObjectID{primitive.NewObjectID()}
	got, err = engine.AssignFieldWorkers(context.Background(), project.ID, second)
	require.NoError(t, err)
	assert.Equal(t, second, got.AssignedFieldWorkerIDs)
}

func TestApproveDonationCreditsOnce(t *testing.T) {
	engine, store, notifier := newTestEngine()
	project := seedProject(store, models.ProjectStatusApproved)
	donation := seedDonation(store, project.ID, 5000, []string{"/uploads/donation-proofs/slip.jpg"})

	got, err := engine.ApproveDonation(context.Background(), donation.ID, project.ReceiverID, "received")
	require.NoError(t, err)
	assert.Equal(t, models.ReceiverApproved, got.ReceiverStatus)
	assert.Equal(t, float64(5000), store.projects[project.ID].CollectedAmount)

	// second approval is a no-op on the aggregate
	got, err = engine.ApproveDonation(context.Background(), donation.ID, project.ReceiverID, "again")
	require.NoError(t, err)
	assert.Equal(t, models.ReceiverApproved, got.ReceiverStatus)
	assert.Equal(t, float64(5000), store.projects[project.ID].CollectedAmount)

	require.Len(t, notifier.sent, 1)
	assert.Equal(t, models.NotifyDonationApproved, notifier.sent[0].Type)
	assert.Contains(t, notifier.sent[0].Message, "5,000")
}

func TestApproveDonationRequiresOwnership(t *testing.T) {
	engine, store, _ := newTestEngine()
	project := seedProject(store, models.ProjectStatusApproved)
	donation := seedDonation(store, project.ID, 1000, []string{"/uploads/donation-proofs/slip.jpg"})

	_, err := engine.ApproveDonation(context.Background(), donation.ID, primitive.NewObjectID(), "")
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Zero(t, store.projects[project.ID].CollectedAmount)
}

func TestApproveDonationRequiresProof(t *testing.T) {
	engine, store, _ := newTestEngine()
	project := seedProject(store, models.ProjectStatusApproved)
	donation := seedDonation(store, project.ID, 1000, nil)

	_, err := engine.ApproveDonation(context.Background(), donation.ID, project.ReceiverID, "")
	assert.ErrorIs(t, err, ErrProofRequired)
	assert.Zero(t, store.projects[project.ID].CollectedAmount)
}

func TestRejectDonationLeavesAggregates(t *testing.T) {
	engine, store, notifier := newTestEngine()
	project := seedProject(store, models.ProjectStatusApproved)
	donation := seedDonation(store, project.ID, 750, []string{"/uploads/donation-proofs/slip.jpg"})

	got, err := engine.RejectDonation(context.Background(), donation.ID, project.ReceiverID, "wrong amount")
	require.NoError(t, err)

	assert.Equal(t, models.ReceiverRejected, got.ReceiverStatus)
	assert.Zero(t, store.projects[project.ID].CollectedAmount)

	require.Len(t, notifier.sent, 1)
	assert.Equal(t, models.NotifyDonationRejected, notifier.sent[0].Type)
}

func TestRejectDonationRequiresOwnership(t *testing.T) {
	engine, store, _ := newTestEngine()
	project := seedProject(store, models.ProjectStatusApproved)
	donation := seedDonation(store, project.ID, 750, nil)

	_, err := engine.RejectDonation(context.Background(), donation.ID, primitive.NewObjectID(), "")
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestApproveUpdateAppliesRollupOnce(t *testing.T) {
	engine, store, notifier := newTestEngine()
	project := seedProject(store, models.ProjectStatusApproved)
	update := seedUpdate(store, project.ID, 2000, 40)

	got, err := engine.ApproveUpdate(context.Background(), update.ID, "verified on site", "admin-1")
	require.NoError(t, err)
	assert.Equal(t, models.ApprovalApproved, got.ApprovalStatus)
	assert.Equal(t, float64(2000), store.projects[project.ID].SpentAmount)
	assert.Equal(t, float64(40), store.projects[project.ID].ProgressPercent)

	// re-approving must not double the spend
	_, err = engine.ApproveUpdate(context.Background(), update.ID, "", "admin-1")
	require.NoError(t, err)
	assert.Equal(t, float64(2000), store.projects[project.ID].SpentAmount)

	require.Len(t, notifier.sent, 1)
	assert.Equal(t, models.NotifyProgressApproved, notifier.sent[0].Type)
}

func TestProgressPercentNeverDecreases(t *testing.T) {
	engine, store, _ := newTestEngine()
	project := seedProject(store, models.ProjectStatusApproved)

	high := seedUpdate(store, project.ID, 100, 60)
	low := seedUpdate(store, project.ID, 50, 30)

	_, err := engine.ApproveUpdate(context.Background(), high.ID, "", "admin-1")
	require.NoError(t, err)
	_, err = engine.ApproveUpdate(context.Background(), low.ID, "", "admin-1")
	require.NoError(t, err)

	assert.Equal(t, float64(60), store.projects[project.ID].ProgressPercent)
	assert.Equal(t, float64(150), store.projects[project.ID].SpentAmount)
}

func TestRejectUpdateNoRollup(t *testing.T) {
	engine, store, notifier := newTestEngine()
	project := seedProject(store, models.ProjectStatusApproved)
	update := seedUpdate(store, project.ID, 2000, 40)

	got, err := engine.RejectUpdate(context.Background(), update.ID, "photos unclear", "admin-1")
	require.NoError(t, err)

	assert.Equal(t, models.ApprovalRejected, got.ApprovalStatus)
	assert.Zero(t, store.projects[project.ID].SpentAmount)
	assert.Zero(t, store.projects[project.ID].ProgressPercent)

	require.Len(t, notifier.sent, 1)
	assert.Equal(t, models.NotifyProgressRejected, notifier.sent[0].Type)
}

func TestFormatAmount(t *testing.T) {
	cases := map[float64]string{
		0:        "0",
		500:      "500",
		5000:     "5,000",
		1234567:  "1,234,567",
		150.5:    "150.50",
		-9999.99: "-9,999.99",
	}
	for in, want := range cases {
		assert.Equal(t, want, formatAmount(in))
	}
}
