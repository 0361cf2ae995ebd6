package authController

import (
	"context"
	"testing"

	"hauswart/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() config.Config {
	return config.Config{
		AuthSecret:     "test-secret-for-signing",
		SharedPassword: "gemeinsames-passwort",
	}
}

func TestLogin_Success(t *testing.T) {
	controller := New(testConfig())

	response, err := controller.Login(context.Background(), &LoginRequest{
		StaffName: "Maria",
		Password:  "gemeinsames-passwort",
	})
	require.NoError(t, err)

	assert.Equal(t, "Maria", response.StaffName)
	assert.NotEmpty(t, response.Token)
}

func TestLogin_TrimsStaffName(t *testing.T) {
	controller := New(testConfig())

	response, err := controller.Login(context.Background(), &LoginRequest{
		StaffName: "  Maria  ",
		Password:  "gemeinsames-passwort",
	})
	require.NoError(t, err)

	assert.Equal(t, "Maria", response.StaffName)
}

func TestLogin_WrongPassword(t *testing.T) {
	controller := New(testConfig())

	_, err := controller.Login(context.Background(), &LoginRequest{
		StaffName: "Maria",
		Password:  "falsch",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Contains(t, err.Error(), "Falsches Passwort")
}

func TestLogin_MissingStaffName(t *testing.T) {
	controller := New(testConfig())

	_, err := controller.Login(context.Background(), &LoginRequest{
		StaffName: "   ",
		Password:  "gemeinsames-passwort",
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestValidateToken_RoundTrip(t *testing.T) {
	controller := New(testConfig())

	response, err := controller.Login(context.Background(), &LoginRequest{
		StaffName: "Josef",
		Password:  "gemeinsames-passwort",
	})
	require.NoError(t, err)

	staffName, err := controller.ValidateToken(response.Token)
	require.NoError(t, err)
	assert.Equal(t, "Josef", staffName)
}

func TestValidateToken_Invalid(t *testing.T) {
	controller := New(testConfig())

	testCases := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not-a-token"},
		{"tampered", "eyJhbGciOiJIUzI1NiJ9.eyJzdGFmZk5hbWUiOiJFdmUifQ.invalid"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := controller.ValidateToken(tc.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestValidateToken_WrongSecret(t *testing.T) {
	issuer := New(testConfig())

	otherConfig := testConfig()
	otherConfig.AuthSecret = "a-different-secret"
	verifier := New(otherConfig)

	response, err := issuer.Login(context.Background(), &LoginRequest{
		StaffName: "Maria",
		Password:  "gemeinsames-passwort",
	})
	require.NoError(t, err)

	_, err = verifier.ValidateToken(response.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
