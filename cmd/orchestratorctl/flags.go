package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/oncallsvc/orchestrator/internal/domain"
)

const dateLayout = "2006-01-02"

func parseTeamID(s string) (domain.TeamID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid --team %q: %w", s, err)
	}
	return id, nil
}

func parseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(dateLayout, s, domain.Location)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD: %w", s, err)
	}
	return t, nil
}

func parseProducts(csv string) ([]domain.Product, error) {
	if strings.TrimSpace(csv) == "" {
		return nil, nil
	}
	var products []domain.Product
	for _, part := range strings.Split(csv, ",") {
		p, err := domain.ParseProduct(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("invalid --products entry %q: %w", part, err)
		}
		products = append(products, p)
	}
	return products, nil
}
