package marketplace

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func validRegistration() RegisterUserInput {
	return RegisterUserInput{
		Username:  "amaka",
		Email:     "Amaka@Example.com",
		Password:  "correct-horse",
		FirstName: "Amaka",
		LastName:  "Obi",
		City:      "Enugu",
	}
}

func TestRegisterUser(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	user, err := svc.RegisterUser(ctx, validRegistration())
	require.NoError(t, err)

	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "amaka@example.com", user.Email)
	assert.NotEqual(t, "correct-horse", user.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("correct-horse")))

	got, err := svc.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "amaka", got.Username)
}

func TestRegisterUser_Duplicates(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.RegisterUser(ctx, validRegistration())
	require.NoError(t, err)

	dupName := validRegistration()
	dupName.Email = "other@example.com"
	_, err = svc.RegisterUser(ctx, dupName)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "unique", ve.Fields["username"])

	dupEmail := validRegistration()
	dupEmail.Username = "amaka2"
	_, err = svc.RegisterUser(ctx, dupEmail)
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "unique", ve.Fields["email"])
}

func TestRegisterUser_Validation(t *testing.T) {
	svc, _ := newTestService(t)

	in := validRegistration()
	in.Email = "not-an-email"
	in.Password = "short"

	_, err := svc.RegisterUser(context.Background(), in)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "email", ve.Fields["email"])
	assert.Equal(t, "min=8", ve.Fields["password"])
}

func TestGetUser_NotFound(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.GetUser(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}
