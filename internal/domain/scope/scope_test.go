package scope

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFor_SinCompania(t *testing.T) {
	o := For(Principal{UserID: "u1"})

	assert.Equal(t, Owner{UserID: "u1"}, o)
	assert.True(t, o.Matches("u1", ""))
	assert.True(t, o.Matches("u1", "c9"))
	assert.False(t, o.Matches("u2", ""))
	assert.False(t, o.Matches("u2", "c9"))
	assert.Equal(t, "user:u1", o.CounterKey())
}

func TestFor_ConCompania(t *testing.T) {
	o := For(Principal{UserID: "u1", Company: &CompanyRef{ID: "c1", Name: "Acme"}})

	assert.True(t, o.Matches("u1", ""))
	assert.True(t, o.Matches("u2", "c1"))
	assert.False(t, o.Matches("u2", "c2"))
	assert.False(t, o.Matches("u2", ""))
	assert.Equal(t, "company:c1", o.CounterKey())
}

func TestPrincipal_CompanyID(t *testing.T) {
	assert.Equal(t, "", Principal{UserID: "u1"}.CompanyID())
	assert.False(t, Principal{UserID: "u1", Company: &CompanyRef{}}.HasCompany())
	assert.True(t, Principal{UserID: "u1", Company: &CompanyRef{ID: "c1"}}.HasCompany())
}

func TestArchiveMode_Matches(t *testing.T) {
	tests := []struct {
		mode    ArchiveMode
		deleted bool
		want    bool
	}{
		{Active, false, true},
		{Active, true, false},
		{Archived, false, false},
		{Archived, true, true},
		{All, false, true},
		{All, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.mode.Matches(tt.deleted))
		})
	}
}
