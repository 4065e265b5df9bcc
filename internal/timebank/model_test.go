package timebank

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSend(t *testing.T) {
	assert.NoError(t, ValidateSend("alice", "bob", 3, "tutoring"))

	assert.ErrorIs(t, ValidateSend("alice", "alice", 3, "tutoring"), ErrSelfTransfer)
	assert.ErrorIs(t, ValidateSend("alice", "", 3, "tutoring"), ErrSelfTransfer)
	assert.ErrorIs(t, ValidateSend("alice", "bob", 0, "tutoring"), ErrNonPositive)
	assert.ErrorIs(t, ValidateSend("alice", "bob", -2, "tutoring"), ErrNonPositive)
	assert.ErrorIs(t, ValidateSend("alice", "bob", 3, ""), ErrNoDescription)
}

func TestApplyApprove(t *testing.T) {
	sender := &Balance{UserID: "alice", HoursEarned: 10, HoursSpent: 2}
	recipient := &Balance{UserID: "bob", HoursEarned: 1, HoursPending: 5}
	tx := &Transaction{SenderID: "alice", RecipientID: "bob", Hours: 5, Status: StatusPending}

	require.NoError(t, Apply(sender, recipient, tx, StatusApproved))

	assert.Equal(t, StatusApproved, tx.Status)
	assert.Equal(t, 6, recipient.HoursEarned)
	assert.Equal(t, 0, recipient.HoursPending)
	assert.Equal(t, 7, sender.HoursSpent)
	assert.Equal(t, 10, sender.HoursEarned, "sender earned hours must not move")
}

func TestApplyReject(t *testing.T) {
	sender := &Balance{UserID: "alice", HoursSpent: 2}
	recipient := &Balance{UserID: "bob", HoursEarned: 1, HoursPending: 5}
	tx := &Transaction{SenderID: "alice", RecipientID: "bob", Hours: 5, Status: StatusPending}

	require.NoError(t, Apply(sender, recipient, tx, StatusRejected))

	assert.Equal(t, StatusRejected, tx.Status)
	assert.Equal(t, 0, recipient.HoursPending)
	assert.Equal(t, 1, recipient.HoursEarned, "rejected hours are never earned")
	assert.Equal(t, 2, sender.HoursSpent, "rejected hours are never spent")
}

func TestApplyIsSingleShot(t *testing.T) {
	sender := &Balance{UserID: "alice"}
	recipient := &Balance{UserID: "bob", HoursPending: 5}
	tx := &Transaction{SenderID: "alice", RecipientID: "bob", Hours: 5, Status: StatusPending}

	require.NoError(t, Apply(sender, recipient, tx, StatusApproved))

	// A second resolution must not double-count the hours.
	assert.ErrorIs(t, Apply(sender, recipient, tx, StatusApproved), ErrNotPending)
	assert.ErrorIs(t, Apply(sender, recipient, tx, StatusRejected), ErrNotPending)
	assert.Equal(t, 5, recipient.HoursEarned)
	assert.Equal(t, 5, sender.HoursSpent)
}

func TestApplyRejectsUnknownDecision(t *testing.T) {
	sender := &Balance{UserID: "alice"}
	recipient := &Balance{UserID: "bob", HoursPending: 5}
	tx := &Transaction{SenderID: "alice", RecipientID: "bob", Hours: 5, Status: StatusPending}

	assert.ErrorIs(t, Apply(sender, recipient, tx, "maybe"), ErrBadDecision)
	assert.Equal(t, StatusPending, tx.Status)
	assert.Equal(t, 5, recipient.HoursPending)
}
