package directory

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devcol-labs/devcol-backend/address"
	"github.com/devcol-labs/devcol-backend/errs"
	"github.com/devcol-labs/devcol-backend/models"
)

const (
	owner  = models.Identity("owner-wallet")
	sender = models.Identity("sender-wallet")
)

// setupProject creates the project owner's profile and a project with the
// given role slots, and returns the project's address.
func setupProject(t *testing.T, d *Directory, roles []models.RoleRequirement) uuid.UUID {
	t.Helper()
	mustCreateUser(t, d, owner, "owner")
	mustCreateProject(t, d, owner, "devcol", roles)
	return address.ForProject(owner, "devcol")
}

func mustSendRequest(t *testing.T, d *Directory, from models.Identity, project uuid.UUID, role *models.RoleTag) uuid.UUID {
	t.Helper()
	fund(t, d, from, requestDeposit())
	_, err := d.SendCollabRequest(context.Background(), from, project, "let me help", role)
	require.NoError(t, err)
	return address.ForRequest(from, project)
}

func TestSendCollabRequest(t *testing.T) {
	d, _, clock := newTestDirectory(t)
	ctx := context.Background()
	projAddr := setupProject(t, d, nil)

	fund(t, d, sender, requestDeposit())
	req, err := d.SendCollabRequest(ctx, sender, projAddr, "let me help", nil)
	require.NoError(t, err)

	assert.Equal(t, sender, req.Sender)
	assert.Equal(t, owner, req.Recipient)
	assert.Equal(t, projAddr, req.Project)
	assert.Equal(t, models.RequestPending, req.Status)
	assert.Equal(t, clock.t.Unix(), req.Timestamp)
	assert.Equal(t, int64(0), balance(t, d, sender))

	// The record sits at its derived address.
	stored, err := d.GetCollabRequest(ctx, sender, address.ForRequest(sender, projAddr))
	require.NoError(t, err)
	assert.Equal(t, "let me help", stored.Message)

	// One request per (sender, project).
	fund(t, d, sender, requestDeposit())
	_, err = d.SendCollabRequest(ctx, sender, projAddr, "again", nil)
	assert.True(t, errs.IsAlreadyExists(err))
}

func TestSendCollabRequestClosedProject(t *testing.T) {
	d, _, _ := newTestDirectory(t)
	ctx := context.Background()
	projAddr := setupProject(t, d, nil)
	require.NoError(t, d.CloseProject(ctx, owner, "devcol"))

	fund(t, d, sender, requestDeposit())
	_, err := d.SendCollabRequest(ctx, sender, projAddr, "hi", nil)
	assert.True(t, errs.IsState(err))
	assert.Equal(t, requestDeposit(), balance(t, d, sender))
}

func TestSendCollabRequestRoleChecks(t *testing.T) {
	d, _, _ := newTestDirectory(t)
	ctx := context.Background()
	projAddr := setupProject(t, d, []models.RoleRequirement{
		{Role: models.RoleBackend, Needed: 1},
	})
	fund(t, d, sender, requestDeposit())

	undeclared := models.RoleDesigner
	_, err := d.SendCollabRequest(ctx, sender, projAddr, "hi", &undeclared)
	assert.True(t, errs.IsCapacity(err))

	declared := models.RoleBackend
	_, err = d.SendCollabRequest(ctx, sender, projAddr, "hi", &declared)
	require.NoError(t, err)
}

func TestSendCollabRequestFullSlot(t *testing.T) {
	d, _, _ := newTestDirectory(t)
	ctx := context.Background()
	projAddr := setupProject(t, d, []models.RoleRequirement{
		{Role: models.RoleFrontend, Needed: 1, Accepted: 1},
	})
	fund(t, d, sender, requestDeposit())

	role := models.RoleFrontend
	_, err := d.SendCollabRequest(ctx, sender, projAddr, "hi", &role)
	assert.True(t, errs.IsCapacity(err))
	assert.Equal(t, requestDeposit(), balance(t, d, sender))
}

func TestSendCollabRequestNoDeclaredRoles(t *testing.T) {
	d, _, _ := newTestDirectory(t)
	ctx := context.Background()
	projAddr := setupProject(t, d, nil)
	fund(t, d, sender, requestDeposit())

	// With no declared roles the desired role is recorded but unchecked.
	role := models.RoleFrontend
	req, err := d.SendCollabRequest(ctx, sender, projAddr, "hi", &role)
	require.NoError(t, err)
	require.NotNil(t, req.DesiredRole)
	assert.Equal(t, models.RoleFrontend, *req.DesiredRole)
}

func TestGetCollabRequestParticipantsOnly(t *testing.T) {
	d, _, _ := newTestDirectory(t)
	ctx := context.Background()
	projAddr := setupProject(t, d, nil)
	reqAddr := mustSendRequest(t, d, sender, projAddr, nil)

	_, err := d.GetCollabRequest(ctx, sender, reqAddr)
	require.NoError(t, err)
	_, err = d.GetCollabRequest(ctx, owner, reqAddr)
	require.NoError(t, err)

	_, err = d.GetCollabRequest(ctx, "stranger", reqAddr)
	assert.True(t, errs.IsAuthorization(err))
}

func TestMarkUnderReview(t *testing.T) {
	d, _, _ := newTestDirectory(t)
	ctx := context.Background()
	projAddr := setupProject(t, d, nil)
	reqAddr := mustSendRequest(t, d, sender, projAddr, nil)

	// Only the recipient may move the request into review.
	assert.True(t, errs.IsAuthorization(d.MarkUnderReview(ctx, sender, reqAddr)))

	require.NoError(t, d.MarkUnderReview(ctx, owner, reqAddr))
	req, err := d.GetCollabRequest(ctx, owner, reqAddr)
	require.NoError(t, err)
	assert.Equal(t, models.RequestUnderReview, req.Status)

	// Review is a one-way step out of pending.
	assert.True(t, errs.IsState(d.MarkUnderReview(ctx, owner, reqAddr)))
}

func TestAcceptCollabRequest(t *testing.T) {
	d, _, clock := newTestDirectory(t)
	ctx := context.Background()
	projAddr := setupProject(t, d, []models.RoleRequirement{
		{Role: models.RoleBackend, Needed: 2},
	})
	role := models.RoleBackend
	reqAddr := mustSendRequest(t, d, sender, projAddr, &role)

	assert.True(t, errs.IsAuthorization(d.AcceptCollabRequest(ctx, sender, reqAddr, "")))

	clock.advance(time.Hour)
	require.NoError(t, d.AcceptCollabRequest(ctx, owner, reqAddr, "welcome aboard"))

	req, err := d.GetCollabRequest(ctx, owner, reqAddr)
	require.NoError(t, err)
	assert.Equal(t, models.RequestAccepted, req.Status)
	assert.Equal(t, "welcome aboard", req.OwnerMessage)
	assert.Greater(t, req.ReplyTimestamp, req.Timestamp)

	proj, err := d.GetProject(ctx, owner, "devcol")
	require.NoError(t, err)
	assert.Equal(t, uint16(2), proj.ContributorsCount)
	assert.Equal(t, uint8(1), proj.FindRole(models.RoleBackend).Accepted)

	// Terminal states are final.
	assert.True(t, errs.IsState(d.AcceptCollabRequest(ctx, owner, reqAddr, "")))
	assert.True(t, errs.IsState(d.RejectCollabRequest(ctx, owner, reqAddr, "")))
}

func TestAcceptAfterReview(t *testing.T) {
	d, _, _ := newTestDirectory(t)
	ctx := context.Background()
	projAddr := setupProject(t, d, nil)
	reqAddr := mustSendRequest(t, d, sender, projAddr, nil)

	require.NoError(t, d.MarkUnderReview(ctx, owner, reqAddr))
	require.NoError(t, d.AcceptCollabRequest(ctx, owner, reqAddr, ""))

	req, err := d.GetCollabRequest(ctx, owner, reqAddr)
	require.NoError(t, err)
	assert.Equal(t, models.RequestAccepted, req.Status)
}

func TestAcceptFullSlotFailsWhole(t *testing.T) {
	d, _, _ := newTestDirectory(t)
	ctx := context.Background()
	projAddr := setupProject(t, d, []models.RoleRequirement{
		{Role: models.RoleBackend, Needed: 1},
	})
	role := models.RoleBackend
	firstAddr := mustSendRequest(t, d, sender, projAddr, &role)
	secondAddr := mustSendRequest(t, d, "other-wallet", projAddr, &role)

	require.NoError(t, d.AcceptCollabRequest(ctx, owner, firstAddr, ""))

	// The slot is full now; accepting the second request fails atomically.
	err := d.AcceptCollabRequest(ctx, owner, secondAddr, "")
	assert.True(t, errs.IsCapacity(err))

	second, err := d.GetCollabRequest(ctx, owner, secondAddr)
	require.NoError(t, err)
	assert.Equal(t, models.RequestPending, second.Status)

	proj, err := d.GetProject(ctx, owner, "devcol")
	require.NoError(t, err)
	assert.Equal(t, uint16(2), proj.ContributorsCount)
}

func TestAcceptSaturatesContributorsCount(t *testing.T) {
	d, store, _ := newTestDirectory(t)
	ctx := context.Background()
	projAddr := setupProject(t, d, nil)
	reqAddr := mustSendRequest(t, d, sender, projAddr, nil)

	// Push the counter to its ceiling directly in storage.
	rec, err := store.Get(ctx, projAddr)
	require.NoError(t, err)
	proj, err := models.DecodeProject(rec.Data)
	require.NoError(t, err)
	proj.ContributorsCount = math.MaxUint16
	rec.Data = models.EncodeProject(proj)
	require.NoError(t, store.Update(ctx, rec))

	require.NoError(t, d.AcceptCollabRequest(ctx, owner, reqAddr, ""))

	got, err := d.GetProject(ctx, owner, "devcol")
	require.NoError(t, err)
	assert.Equal(t, uint16(math.MaxUint16), got.ContributorsCount)
}

func TestRejectCollabRequest(t *testing.T) {
	d, _, _ := newTestDirectory(t)
	ctx := context.Background()
	projAddr := setupProject(t, d, nil)
	reqAddr := mustSendRequest(t, d, sender, projAddr, nil)

	require.NoError(t, d.RejectCollabRequest(ctx, owner, reqAddr, "not right now"))

	req, err := d.GetCollabRequest(ctx, sender, reqAddr)
	require.NoError(t, err)
	assert.Equal(t, models.RequestRejected, req.Status)
	assert.Equal(t, "not right now", req.OwnerMessage)

	// Rejection does not touch the project.
	proj, err := d.GetProject(ctx, owner, "devcol")
	require.NoError(t, err)
	assert.Equal(t, uint16(1), proj.ContributorsCount)
}

func TestUpdateCollabRequest(t *testing.T) {
	d, _, _ := newTestDirectory(t)
	ctx := context.Background()
	projAddr := setupProject(t, d, nil)
	reqAddr := mustSendRequest(t, d, sender, projAddr, nil)

	assert.True(t, errs.IsAuthorization(d.UpdateCollabRequest(ctx, owner, reqAddr, "edit")))

	require.NoError(t, d.UpdateCollabRequest(ctx, sender, reqAddr, "better pitch"))
	req, err := d.GetCollabRequest(ctx, sender, reqAddr)
	require.NoError(t, err)
	assert.Equal(t, "better pitch", req.Message)

	// Once out of pending the message is frozen.
	require.NoError(t, d.MarkUnderReview(ctx, owner, reqAddr))
	assert.True(t, errs.IsState(d.UpdateCollabRequest(ctx, sender, reqAddr, "too late")))
}

func TestWithdrawCollabRequest(t *testing.T) {
	d, _, _ := newTestDirectory(t)
	ctx := context.Background()
	projAddr := setupProject(t, d, nil)
	reqAddr := mustSendRequest(t, d, sender, projAddr, nil)

	assert.True(t, errs.IsAuthorization(d.WithdrawCollabRequest(ctx, owner, reqAddr)))

	require.NoError(t, d.WithdrawCollabRequest(ctx, sender, reqAddr))
	_, err := d.GetCollabRequest(ctx, sender, reqAddr)
	assert.True(t, errs.IsNotFound(err))
	assert.Equal(t, requestDeposit(), balance(t, d, sender))

	// A withdrawn request can be re-sent from scratch.
	_, err = d.SendCollabRequest(ctx, sender, projAddr, "second try", nil)
	require.NoError(t, err)
}

func TestWithdrawResolvedRequest(t *testing.T) {
	d, _, _ := newTestDirectory(t)
	ctx := context.Background()
	projAddr := setupProject(t, d, nil)
	reqAddr := mustSendRequest(t, d, sender, projAddr, nil)

	require.NoError(t, d.AcceptCollabRequest(ctx, owner, reqAddr, ""))
	assert.True(t, errs.IsState(d.WithdrawCollabRequest(ctx, sender, reqAddr)))
}

func TestDeleteCollabRequest(t *testing.T) {
	d, _, _ := newTestDirectory(t)
	ctx := context.Background()
	projAddr := setupProject(t, d, nil)
	reqAddr := mustSendRequest(t, d, sender, projAddr, nil)

	// The recipient cannot clear a request the sender may still withdraw.
	assert.True(t, errs.IsState(d.DeleteCollabRequest(ctx, owner, reqAddr)))

	require.NoError(t, d.AcceptCollabRequest(ctx, owner, reqAddr, ""))
	require.NoError(t, d.DeleteCollabRequest(ctx, owner, reqAddr))

	_, err := d.GetCollabRequest(ctx, owner, reqAddr)
	assert.True(t, errs.IsNotFound(err))

	// The deposit goes back to the sender who funded the record.
	assert.Equal(t, requestDeposit(), balance(t, d, sender))
}

func TestDeleteSenderRejectedRequest(t *testing.T) {
	d, _, _ := newTestDirectory(t)
	ctx := context.Background()
	projAddr := setupProject(t, d, nil)
	reqAddr := mustSendRequest(t, d, sender, projAddr, nil)

	// Only rejected requests qualify.
	assert.True(t, errs.IsState(d.DeleteSenderRejectedRequest(ctx, sender, reqAddr)))

	require.NoError(t, d.RejectCollabRequest(ctx, owner, reqAddr, ""))
	assert.True(t, errs.IsAuthorization(d.DeleteSenderRejectedRequest(ctx, owner, reqAddr)))

	require.NoError(t, d.DeleteSenderRejectedRequest(ctx, sender, reqAddr))
	_, err := d.GetCollabRequest(ctx, sender, reqAddr)
	assert.True(t, errs.IsNotFound(err))
	assert.Equal(t, requestDeposit(), balance(t, d, sender))
}
