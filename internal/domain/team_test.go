package domain_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/oncallsvc/orchestrator/internal/domain"
)

func TestTeam_ProductEnabled(t *testing.T) {
	team := domain.Team{EnabledProducts: map[domain.Product]bool{domain.ProductWaakdienst: true}}

	assert.True(t, team.ProductEnabled(domain.ProductIncidents), "Incidents is always enabled")
	assert.False(t, team.ProductEnabled(domain.ProductIncidentsStandby))
	assert.True(t, team.ProductEnabled(domain.ProductWaakdienst))
}

func TestTeam_HasEmployee(t *testing.T) {
	member := uuid.New()
	stranger := uuid.New()
	team := domain.Team{EmployeeIDs: []domain.EmployeeID{member}}

	assert.True(t, team.HasEmployee(member))
	assert.False(t, team.HasEmployee(stranger))
}
