package model

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestBelongsTo(t *testing.T) {
	org, other := uuid.New(), uuid.New()
	nilID := uuid.Nil

	cases := []struct {
		name string
		row  Tenanted
		want bool
	}{
		{"organization column matches", Student{OrganizationID: &org}, true},
		{"legacy preschool column matches", Student{PreschoolID: &org}, true},
		{"organization column wins over preschool", Student{OrganizationID: &other, PreschoolID: &org}, false},
		{"nil organization falls through to preschool", Student{OrganizationID: &nilID, PreschoolID: &org}, true},
		{"no tenant values", Student{}, false},
		{"other school", Payment{PreschoolID: &other}, false},
		{"activity log", ActivityLog{OrganizationID: &org}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, BelongsTo(tc.row, org))
		})
	}

	assert.False(t, BelongsTo(Student{}, uuid.Nil), "a nil organization never matches")
}
