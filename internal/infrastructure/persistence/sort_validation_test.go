package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSortOrder(t *testing.T) {
	assert.Equal(t, "ASC", ValidateSortOrder("asc"))
	assert.Equal(t, "ASC", ValidateSortOrder(" ASC "))
	assert.Equal(t, "DESC", ValidateSortOrder("desc"))
	assert.Equal(t, "DESC", ValidateSortOrder("name; DROP TABLE users"))
	assert.Equal(t, "DESC", ValidateSortOrder(""))
}

func TestValidateSortField(t *testing.T) {
	allowed := sortFields("name", "priority")
	assert.Equal(t, "name", ValidateSortField("name", allowed, "created_at"))
	assert.Equal(t, "created_at", ValidateSortField("", allowed, "created_at"))
	assert.Equal(t, "created_at", ValidateSortField("password_hash", allowed, "created_at"))
	assert.Equal(t, "updated_at", ValidateSortField("updated_at", allowed, "created_at"))
}
