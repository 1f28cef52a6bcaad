package user

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fmsedu/curriculum/core"
)

func Test_checkPassword(t *testing.T) {
	tests := []struct {
		name  string
		pwd   string
		uname string
		email string
		want  string
	}{
		{name: "too short", pwd: "Ab1!", want: pwdMinLenTag},
		{name: "whitespace", pwd: "Abcd 1234!", want: pwdNoSpaceTag},
		{name: "all numeric", pwd: "1234567890", want: pwdNotAllNumTag},
		{name: "no special", pwd: "Abcdefg123", want: pwdComplexityTag},
		{name: "no upper", pwd: "abcdefg12!", want: pwdComplexityTag},
		{name: "similar to email", pwd: "Somchai.k1", email: "somchai.k@cmu.ac.th", want: pwdAttrSimTag},
		{name: "similar to name", pwd: "Somchai#12", uname: "Somchai", want: pwdAttrSimTag},
		{name: "valid", pwd: "Gr@dUate2567", uname: "Somchai", email: "somchai.k@cmu.ac.th", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, checkPassword(tt.pwd, tt.uname, tt.email))
		})
	}
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("Gr@dUate2567", "Somchai", "somchai.k@cmu.ac.th"))

	err := ValidatePassword("12345678", "", "staff@cmu.ac.th")
	require.Error(t, err)
	assert.True(t, core.IsValidation(err))
	assert.Equal(t, pwdNotAllNumText, err.Error())
	assert.Equal(t, []core.FieldError{{Field: "password", Error: pwdNotAllNumText}}, err.(*core.ValidationError).Fields)
}

func TestNewUser_Validate(t *testing.T) {
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	InitValidators(validate, translator)

	t.Run("cleans & defaults role", func(t *testing.T) {
		nu := NewUser{Email: "  Staff@CMU.ac.th ", Password: "Gr@dUate2567", PasswordConfirm: "Gr@dUate2567"}
		require.NoError(t, nu.Validate(validate))
		assert.Equal(t, "staff@cmu.ac.th", nu.Email)
		assert.Equal(t, RoleStaff, nu.Role)
	})

	t.Run("unknown role", func(t *testing.T) {
		nu := NewUser{Email: "a@cmu.ac.th", Role: "root", Password: "Gr@dUate2567", PasswordConfirm: "Gr@dUate2567"}
		err := nu.Validate(validate)
		require.Error(t, err)
		vErrs, ok := err.(validator.ValidationErrors)
		require.True(t, ok)
		assert.Equal(t, "role", vErrs[0].Field())
	})

	t.Run("weak password", func(t *testing.T) {
		nu := NewUser{Email: "a@cmu.ac.th", Password: "password", PasswordConfirm: "password"}
		err := nu.Validate(validate)
		require.Error(t, err)
		vErrs, ok := err.(validator.ValidationErrors)
		require.True(t, ok)
		assert.Equal(t, pwdComplexityTag, vErrs[0].Tag())
	})
}

func TestUser_CheckPassword(t *testing.T) {
	var usr User
	require.NoError(t, usr.SetPassword("Gr@dUate2567"))
	assert.NotContains(t, string(usr.PasswordHash), "Gr@dUate2567")
	assert.NoError(t, usr.CheckPassword("Gr@dUate2567"))
	assert.Error(t, usr.CheckPassword("gr@duate2567"))
}
