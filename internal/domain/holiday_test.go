package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oncallsvc/orchestrator/internal/domain"
)

func TestHoliday_AppliesTo(t *testing.T) {
	h := domain.Holiday{Scope: "NL"}
	assert.True(t, h.AppliesTo("NL"))
	assert.False(t, h.AppliesTo("BE"))
}

func TestHoliday_OnDate(t *testing.T) {
	h := domain.Holiday{Date: mustDate(2026, 4, 27, 0, 0)}
	assert.True(t, h.OnDate(mustDate(2026, 4, 27, 10, 30)))
	assert.False(t, h.OnDate(mustDate(2026, 4, 28, 0, 0)))
}
