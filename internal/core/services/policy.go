package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/custodia-labs/pagemedia/internal/core/domain"
	"github.com/custodia-labs/pagemedia/internal/core/ports/driven"
	"github.com/custodia-labs/pagemedia/internal/logger"
)

// PolicyResolver turns siteroot property bags into typed site policies.
type PolicyResolver struct {
	sites driven.SiterootStore
}

// NewPolicyResolver creates a policy resolver.
func NewPolicyResolver(sites driven.SiterootStore) *PolicyResolver {
	return &PolicyResolver{sites: sites}
}

// Resolve returns the policy of a siteroot. A missing siteroot degrades
// to the default policy instead of failing.
func (r *PolicyResolver) Resolve(ctx context.Context, siterootID string) (domain.SitePolicy, error) {
	props, err := r.sites.Properties(ctx, siterootID)
	if errors.Is(err, domain.ErrNotFound) {
		logger.Warn("siteroot not found, using default policy", "siteroot", siterootID)
		return domain.DefaultSitePolicy(siterootID), nil
	}
	if err != nil {
		return domain.SitePolicy{}, fmt.Errorf("siteroot %s properties: %w", siterootID, err)
	}
	return domain.SitePolicyFromProperties(siterootID, props), nil
}

// policyCache resolves each siteroot at most once per run.
type policyCache struct {
	resolver *PolicyResolver

	mu       sync.Mutex
	policies map[string]domain.SitePolicy
}

func newPolicyCache(resolver *PolicyResolver) *policyCache {
	return &policyCache{
		resolver: resolver,
		policies: make(map[string]domain.SitePolicy),
	}
}

func (c *policyCache) get(ctx context.Context, siterootID string) (domain.SitePolicy, error) {
	c.mu.Lock()
	policy, ok := c.policies[siterootID]
	c.mu.Unlock()
	if ok {
		return policy, nil
	}

	policy, err := c.resolver.Resolve(ctx, siterootID)
	if err != nil {
		return domain.SitePolicy{}, err
	}

	c.mu.Lock()
	c.policies[siterootID] = policy
	c.mu.Unlock()
	return policy, nil
}
