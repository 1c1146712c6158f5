package users

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoles(t *testing.T) {
	assert.True(t, IsValidRole("CLIENT"))
	assert.True(t, IsValidRole("ORGANIZER"))
	assert.True(t, IsValidRole("ADMIN"))
	assert.False(t, IsValidRole("USER"))
	assert.False(t, IsValidRole("client"))

	assert.True(t, IsSelfService(RoleClient))
	assert.True(t, IsSelfService(RoleOrganizer))
	assert.False(t, IsSelfService(RoleAdmin))
}
