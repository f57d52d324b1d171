package domain_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oncallsvc/orchestrator/internal/domain"
)

func TestParseProduct_Aliases(t *testing.T) {
	tests := []struct {
		input string
		want  domain.Product
	}{
		{"incidents", domain.ProductIncidents},
		{"Incidents", domain.ProductIncidents},
		{"incidents_standby", domain.ProductIncidentsStandby},
		{"incidents-standby", domain.ProductIncidentsStandby},
		{"INCIDENTS-STANDBY", domain.ProductIncidentsStandby},
		{"waakdienst", domain.ProductWaakdienst},
		{"on-call", domain.ProductWaakdienst},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := domain.ParseProduct(tt.input)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseProduct_Unknown(t *testing.T) {
	_, err := domain.ParseProduct("bogus")
	assert.True(t, errors.Is(err, domain.ErrUnknownProduct))
}

func TestProduct_IsBusinessHours(t *testing.T) {
	assert.True(t, domain.ProductIncidents.IsBusinessHours())
	assert.True(t, domain.ProductIncidentsStandby.IsBusinessHours())
	assert.False(t, domain.ProductWaakdienst.IsBusinessHours())
}
