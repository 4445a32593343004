package tenant_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/poskit/poskit/pkg/tenant"
)

// mockProvider is an in-memory company lookup used across the package tests.
type mockProvider struct {
	mu        sync.Mutex
	companies map[uuid.UUID]*tenant.Tenant
	calls     int
	err       error
}

func newMockProvider() *mockProvider {
	return &mockProvider{companies: make(map[uuid.UUID]*tenant.Tenant)}
}

func (p *mockProvider) add(t *tenant.Tenant) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.companies[t.ID] = t
}

func (p *mockProvider) GetByID(ctx context.Context, id uuid.UUID) (*tenant.Tenant, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	t, ok := p.companies[id]
	if !ok {
		return nil, tenant.ErrTenantNotFound
	}
	return t, nil
}

func (p *mockProvider) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

// mockMemberships is an in-memory membership lookup.
type mockMemberships struct {
	mu          sync.Mutex
	memberships map[uuid.UUID][]tenant.Membership
	err         error
}

func newMockMemberships() *mockMemberships {
	return &mockMemberships{memberships: make(map[uuid.UUID][]tenant.Membership)}
}

func (p *mockMemberships) add(m tenant.Membership) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.memberships[m.UserID] = append(p.memberships[m.UserID], m)
}

func (p *mockMemberships) ActiveMemberships(ctx context.Context, userID uuid.UUID) ([]tenant.Membership, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return nil, p.err
	}

	var active []tenant.Membership
	for _, m := range p.memberships[userID] {
		if m.Active {
			active = append(active, m)
		}
	}
	return active, nil
}

func activeCompany() *tenant.Tenant {
	return &tenant.Tenant{
		ID:        uuid.New(),
		Name:      "Acme",
		Active:    true,
		CreatedAt: time.Now(),
	}
}

func TestMembershipAuthorizes(t *testing.T) {
	t.Parallel()

	companyID := uuid.New()
	userID := uuid.New()
	now := time.Now()
	future := now.Add(time.Hour)
	past := now.Add(-time.Hour)

	tests := []struct {
		name       string
		membership tenant.Membership
		want       bool
	}{
		{
			name:       "active membership in company",
			membership: tenant.Membership{UserID: userID, CompanyID: companyID, Active: true},
			want:       true,
		},
		{
			name:       "active with future expiry",
			membership: tenant.Membership{UserID: userID, CompanyID: companyID, Active: true, ExpiresAt: &future},
			want:       true,
		},
		{
			name:       "expired membership",
			membership: tenant.Membership{UserID: userID, CompanyID: companyID, Active: true, ExpiresAt: &past},
			want:       false,
		},
		{
			name:       "inactive membership",
			membership: tenant.Membership{UserID: userID, CompanyID: companyID, Active: false},
			want:       false,
		},
		{
			name:       "membership in another company",
			membership: tenant.Membership{UserID: userID, CompanyID: uuid.New(), Active: true},
			want:       false,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.membership.Authorizes(companyID, now))
		})
	}
}
