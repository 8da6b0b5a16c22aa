package services_test

import (
	"context"
	"testing"

	"github.com/fincast/fincast/internal/core/domain"
	portssvc "github.com/fincast/fincast/internal/core/ports/services"
	"github.com/fincast/fincast/internal/core/services"
	"github.com/fincast/fincast/internal/dto"
	"github.com/fincast/fincast/internal/platform/config"
	"github.com/fincast/fincast/internal/repositories/memory"
	"github.com/stretchr/testify/require"
)

// newMemContainer wires the full service stack over a fresh in-memory store.
// The store is returned so a test can build a second container with a
// different configuration over the same state.
func newMemContainer(cfg *config.Config) (*portssvc.ServiceContainer, *memory.Store) {
	store := memory.NewStore()
	return services.NewServiceContainer(cfg, memory.NewRepositoryProvider(store), nil), store
}

func createTestOwner(t *testing.T, c *portssvc.ServiceContainer, username string, start domain.Date) domain.Owner {
	t.Helper()
	owner, err := c.Owner.CreateOwner(context.Background(), dto.CreateOwnerRequest{
		Username:  username,
		Password:  "correct-horse-battery",
		StartDate: start,
	})
	require.NoError(t, err)
	return *owner
}

func createTestAccount(t *testing.T, c *portssvc.ServiceContainer, ownerID string, req dto.CreateAccountRequest) domain.Account {
	t.Helper()
	account, err := c.Account.CreateAccount(context.Background(), ownerID, req)
	require.NoError(t, err)
	return *account
}
