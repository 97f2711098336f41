package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type registerForm struct {
	Username string `json:"username" validate:"required,alpha_dash,min=3,max=100"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

func TestStructValid(t *testing.T) {
	errs := Struct(registerForm{
		Username: "ada_l-1",
		Email:    "ada@example.com",
		Password: "secret123",
	})
	assert.False(t, HasErrors(errs), "unexpected errors: %v", errs)
}

func TestStructRequired(t *testing.T) {
	errs := Struct(registerForm{})
	assert.Len(t, errs, 3)
	assert.Contains(t, errs["username"], "required")
}

func TestStructEmail(t *testing.T) {
	errs := Struct(registerForm{Username: "ada", Email: "not-an-email", Password: "secret123"})
	assert.Contains(t, errs, "email")
}

func TestStructMinLength(t *testing.T) {
	errs := Struct(registerForm{Username: "ab", Email: "a@b.co", Password: "secret123"})
	assert.Contains(t, errs["username"], "at least 3")
}

func TestAlphaDash(t *testing.T) {
	errs := Struct(registerForm{Username: "ada lovelace", Email: "a@b.co", Password: "secret123"})
	assert.Contains(t, errs, "username")
}

func TestInRuleKeepsCommaParams(t *testing.T) {
	type form struct {
		Status string `json:"status" validate:"required,in=pending,shipped,delivered,cancelled"`
	}
	assert.Empty(t, Struct(form{Status: "shipped"}))

	errs := Struct(form{Status: "lost"})
	assert.Contains(t, errs["status"], "invalid")
}

func TestNumericBounds(t *testing.T) {
	type form struct {
		Price float64 `json:"price" validate:"gte=0"`
		Qty   int     `json:"qty"   validate:"required,gte=1,lte=99"`
	}
	assert.Empty(t, Struct(form{Price: 0, Qty: 5}))

	errs := Struct(form{Price: -1, Qty: 100})
	assert.Contains(t, errs, "price")
	assert.Contains(t, errs, "qty")
}

func TestDigits(t *testing.T) {
	type form struct {
		OTP string `json:"otp" validate:"required,digits=6"`
	}
	assert.Empty(t, Struct(form{OTP: "012345"}))
	assert.Contains(t, Struct(form{OTP: "12345"}), "otp")
	assert.Contains(t, Struct(form{OTP: "12345x"}), "otp")
}

func TestNullableSkipsEmpty(t *testing.T) {
	type form struct {
		Site string `json:"site" validate:"nullable,url"`
	}
	assert.Empty(t, Struct(form{}))
	assert.Empty(t, Struct(form{Site: "https://example.com"}))
	assert.Contains(t, Struct(form{Site: "nope"}), "site")
}

func TestPointerFields(t *testing.T) {
	type patch struct {
		Name  *string  `json:"name"  validate:"nullable,min=2"`
		Price *float64 `json:"price" validate:"nullable,gte=0"`
	}
	assert.Empty(t, Struct(patch{}), "nil pointers are absent, not invalid")

	bad := "x"
	neg := -1.0
	errs := Struct(patch{Name: &bad, Price: &neg})
	assert.Contains(t, errs, "name")
	assert.Contains(t, errs, "price")
}
