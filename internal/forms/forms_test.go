package forms

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fieldErrors(t *testing.T, err error) Errors {
	t.Helper()
	if err == nil {
		return nil
	}
	var fe Errors
	require.ErrorAs(t, err, &fe)
	return fe
}

func TestLogin(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		form       Login
		wantFields []string
	}{
		{name: "ok", form: Login{Email: "ann@shop.test", Password: "secret"}},
		{name: "missing email", form: Login{Password: "secret"}, wantFields: []string{"email"}},
		{name: "bad email", form: Login{Email: "ann@shop", Password: "secret"}, wantFields: []string{"email"}},
		{name: "short password", form: Login{Email: "ann@shop.test", Password: "12345"}, wantFields: []string{"password"}},
		{name: "both", form: Login{Email: " ", Password: ""}, wantFields: []string{"email", "password"}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			errs := fieldErrors(t, Validate(tt.form))
			assert.Len(t, errs, len(tt.wantFields))
			for _, f := range tt.wantFields {
				assert.Contains(t, errs, f)
			}
		})
	}
}

func TestRegister(t *testing.T) {
	t.Parallel()

	valid := Register{Name: "Ann", Email: "ann@shop.test", Password: "Str0ng!pw", ConfirmPassword: "Str0ng!pw"}
	require.NoError(t, Validate(valid))

	weak := valid
	weak.Password, weak.ConfirmPassword = "weakpass1", "weakpass1"
	errs := fieldErrors(t, Validate(weak))
	assert.Contains(t, errs, "password")

	mismatch := valid
	mismatch.ConfirmPassword = "Str0ng!pX"
	errs = fieldErrors(t, Validate(mismatch))
	assert.Equal(t, "does not match", errs["confirmPassword"])

	blank := valid
	blank.Name = "   "
	errs = fieldErrors(t, Validate(blank))
	assert.Equal(t, "is required", errs["name"])

	in := valid.Input()
	assert.Equal(t, "ann@shop.test", in.Email)
}

func TestProfile_PasswordOptional(t *testing.T) {
	t.Parallel()

	p := Profile{Name: "Ann", Email: "ann@shop.test"}
	require.NoError(t, Validate(p))

	p.Password = "short"
	p.ConfirmPassword = "short"
	assert.Contains(t, fieldErrors(t, Validate(p)), "password")

	p.Password = "Str0ng!pw"
	assert.Contains(t, fieldErrors(t, Validate(p)), "confirmPassword")

	p.ConfirmPassword = "Str0ng!pw"
	require.NoError(t, Validate(p))

	p.Role = "root"
	assert.Contains(t, fieldErrors(t, Validate(p)), "role")
}

func TestCatalogForms(t *testing.T) {
	t.Parallel()

	require.NoError(t, Validate(Category{Name: "Lighting"}))
	assert.Contains(t, fieldErrors(t, Validate(Category{})), "name")

	require.NoError(t, Validate(Product{Name: "Lamp", Price: 0, Stock: 0}))
	errs := fieldErrors(t, Validate(Product{Name: "Lamp", Price: -1, Stock: -2}))
	assert.Equal(t, "must not be negative", errs["price"])
	assert.Equal(t, "must not be negative", errs["stock"])

	m := Product{Name: " Lamp ", Price: 10, Stock: 3}.Model(7)
	assert.Equal(t, int64(7), m.ID)
	assert.Equal(t, "Lamp", m.Name)
}

func TestStrongPassword(t *testing.T) {
	t.Parallel()

	assert.True(t, StrongPassword("Aa1!aaaa"))
	assert.True(t, StrongPassword("Aa1_aaaa"))
	assert.False(t, StrongPassword("Aa1!aaa"))
	assert.False(t, StrongPassword("aa1!aaaa"))
	assert.False(t, StrongPassword("AA1!AAAA"))
	assert.False(t, StrongPassword("Aaa!aaaa"))
	assert.False(t, StrongPassword("Aa1aaaaa"))
}

func TestErrors_Error(t *testing.T) {
	t.Parallel()

	e := Errors{"password": "is required", "email": "is required"}
	assert.Equal(t, "invalid form: email: is required; password: is required", e.Error())
}
