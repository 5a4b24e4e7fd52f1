package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aashish23092/aadhaar-autofill/dto"
)

func TestPersonServiceSubmitNormalizesAadhaar(t *testing.T) {
	svc := NewPersonService(newPersonRepo(t), zerolog.Nop())
	ctx := context.Background()

	saved, err := svc.SubmitPerson(ctx, &dto.PersonSubmitRequest{
		AadhaarNumber: "1234 5678 9012",
		FullName:      ptr("Ramesh Kumar"),
		DOB:           ptr("1990-08-15"),
	})
	require.NoError(t, err)
	assert.Equal(t, "123456789012", saved.AadhaarNumber)

	got, err := svc.GetPerson(ctx, "1234-5678-9012")
	require.NoError(t, err)
	assert.Equal(t, saved.ID, got.ID)
}

func TestPersonServiceSubmitRejectsInvalid(t *testing.T) {
	svc := NewPersonService(newPersonRepo(t), zerolog.Nop())

	_, err := svc.SubmitPerson(context.Background(), &dto.PersonSubmitRequest{AadhaarNumber: "1234"})
	assert.ErrorIs(t, err, dto.ErrInvalidAadhaar)

	_, err = svc.GetPerson(context.Background(), "999999999999")
	assert.ErrorIs(t, err, dto.ErrPersonNotFound)
}
