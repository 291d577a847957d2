package validation

import (
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type slotForm struct {
	Day    string `json:"day" binding:"required,day"`
	Period int    `json:"period" binding:"required,min=1,max=8"`
}

type markForm struct {
	USN     string `json:"usn" binding:"required,entity_id"`
	Status  string `json:"status" binding:"required,attendance_status"`
	Section string `form:"section" binding:"omitempty,section"`
}

func TestSetupRegistersTags(t *testing.T) {
	require.NoError(t, Setup())
	require.NoError(t, Setup())

	assert.NoError(t, binding.Validator.ValidateStruct(&slotForm{Day: "monday", Period: 3}))
	assert.NoError(t, binding.Validator.ValidateStruct(&markForm{USN: "1CS001", Status: "Present", Section: "A"}))

	err := binding.Validator.ValidateStruct(&slotForm{Day: "Sunday", Period: 9})
	require.Error(t, err)
	fields, ok := Translate(err)
	require.True(t, ok)
	assert.Equal(t, "day must be a weekday from Monday to Saturday", fields["day"])
	assert.Contains(t, fields, "period")

	err = binding.Validator.ValidateStruct(&markForm{USN: "bad usn", Status: "Late", Section: "ab"})
	fields, ok = Translate(err)
	require.True(t, ok)
	assert.Equal(t, "status must be Present or Absent", fields["status"])
	assert.Contains(t, fields, "usn")
	assert.Equal(t, "section must be a single capital letter", fields["section"])
}

func TestTranslateRequired(t *testing.T) {
	require.NoError(t, Setup())

	err := binding.Validator.ValidateStruct(&markForm{})
	fields, ok := Translate(err)
	require.True(t, ok)
	assert.Equal(t, "usn is a required field", fields["usn"])
}

func TestTranslateUnknownError(t *testing.T) {
	_, ok := Translate(assert.AnError)
	assert.False(t, ok)
}
