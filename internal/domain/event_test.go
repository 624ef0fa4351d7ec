package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvent_SpotsLeft(t *testing.T) {
	uncapped := &Event{}
	assert.Nil(t, uncapped.SpotsLeft(10))

	capped := &Event{MaxParticipants: intPtr(3)}
	require.NotNil(t, capped.SpotsLeft(1))
	assert.Equal(t, 2, *capped.SpotsLeft(1))
	assert.Equal(t, 0, *capped.SpotsLeft(3))
	assert.Equal(t, 0, *capped.SpotsLeft(5), "overshoot from concurrent inserts never goes negative")
}

func TestNewEventWithCount(t *testing.T) {
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	ev := &Event{ID: "e1", MaxParticipants: intPtr(10), RegistrationDeadline: timePtr(now.Add(-time.Minute))}

	public := NewEventWithCount(ev, nil, now)
	assert.Nil(t, public.RegistrationCount)
	assert.Nil(t, public.SpotsLeft)
	assert.False(t, public.RegistrationOpen)

	count := 4
	admin := NewEventWithCount(ev, &count, now)
	require.NotNil(t, admin.RegistrationCount)
	assert.Equal(t, 4, *admin.RegistrationCount)
	assert.Equal(t, 6, *admin.SpotsLeft)
	assert.Equal(t, "e1", admin.ID)
}

func TestEventInput_Validate(t *testing.T) {
	valid := EventInput{
		Title:       "Hack Night",
		Description: "Bring a laptop",
		Location:    "Room 101",
		Date:        time.Date(2025, 9, 1, 18, 0, 0, 0, time.UTC),
	}
	assert.Empty(t, valid.Validate())

	empty := EventInput{}
	assert.Len(t, empty.Validate(), 4)

	zeroCap := valid
	zeroCap.MaxParticipants = intPtr(0)
	assert.Equal(t, []string{"max_participants must be a positive integer"}, zeroCap.Validate())
}

func TestRegistrationInput_NormalizeAndValidate(t *testing.T) {
	blank := "   "
	phone := " 555-0100 "
	in := RegistrationInput{
		EventID:          " e1 ",
		FullName:         " Alice ",
		Email:            " Alice@X.com ",
		Phone:            &phone,
		SchoolName:       &blank,
		AgreedToPolicies: true,
	}
	in.Normalize()
	assert.Equal(t, "e1", in.EventID)
	assert.Equal(t, "alice@x.com", in.Email)
	require.NotNil(t, in.Phone)
	assert.Equal(t, "555-0100", *in.Phone)
	assert.Nil(t, in.SchoolName)
	assert.Empty(t, in.Validate())

	noConsent := RegistrationInput{EventID: "e1", FullName: "A", Email: "a@x.com"}
	assert.Equal(t, []string{"you must agree to the policies"}, noConsent.Validate())
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("title is required", "date is required")
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "title is required; date is required", err.Error())
	assert.Equal(t, ErrValidation.Error(), NewValidationError().Error())
}

func TestIdentity_IsAdmin(t *testing.T) {
	var anon *Identity
	assert.False(t, anon.IsAdmin())
	assert.False(t, (&Identity{Roles: []string{RoleUser}}).IsAdmin())
	assert.True(t, (&Identity{Roles: []string{RoleUser, RoleAdmin}}).IsAdmin())
}
