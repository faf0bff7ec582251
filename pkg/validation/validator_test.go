package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type registerPayload struct {
	Username string `json:"username" binding:"required,notblank"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd,pwdbytes"`
}

func validate(t *testing.T, v any) error {
	t.Helper()
	Init(6)
	return binding.Validator.ValidateStruct(v)
}

func TestToDetails_FieldMessages(t *testing.T) {
	err := validate(t, &registerPayload{Username: "   ", Email: "nope", Password: "123"})
	require.Error(t, err)

	details := ToDetails(err)
	assert.Equal(t, "is required", details["username"])
	assert.Equal(t, "must be a valid email", details["email"])
	assert.Equal(t, "must be at least 6 characters long", details["password"])
}

func TestPasswordPolicy_AcceptsMinimum(t *testing.T) {
	err := validate(t, &registerPayload{Username: "alice", Email: "a@x.com", Password: "secret"})
	assert.NoError(t, err)
	assert.Equal(t, 6, MinPasswordLength())
}

func TestToDetails_Fallbacks(t *testing.T) {
	assert.Nil(t, ToDetails(nil))
	assert.Equal(t, map[string]string{"payload": "invalid payload"}, ToDetails(errors.New("boom")))
}

func TestPasswordPolicy_CountsBytes(t *testing.T) {
	// 40 characters but 80 bytes
	err := validate(t, &registerPayload{Username: "alice", Email: "a@x.com", Password: strings.Repeat("é", 40)})
	require.Error(t, err)
	assert.Equal(t, "must be at most 72 bytes long", ToDetails(err)["password"])

	err = validate(t, &registerPayload{Username: "alice", Email: "a@x.com", Password: strings.Repeat("a", MaxPasswordBytes)})
	assert.NoError(t, err)
}
