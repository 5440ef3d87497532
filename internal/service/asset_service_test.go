package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexdesk/portal-service/internal/domain"
)

func newAssetServiceForTest() (*AssetService, *fakeAssetRepo, *fakeUserRepo) {
	assets := newFakeAssetRepo()
	users := newFakeUserRepo()
	return NewAssetService(assets, users), assets, users
}

func TestAssetCreate(t *testing.T) {
	svc, _, _ := newAssetServiceForTest()

	asset, err := svc.Create(context.Background(), AssetInput{
		AssetTag: "LT-0042",
		Name:     "Dev laptop",
		Kind:     "laptop",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.AssetStatusInStock, asset.Status)

	// Duplicate tags are rejected.
	_, err = svc.Create(context.Background(), AssetInput{AssetTag: "LT-0042", Name: "Another"})
	require.Error(t, err)

	_, err = svc.Create(context.Background(), AssetInput{Name: "no tag"})
	require.Error(t, err)
}

func TestAssetAssignAndUnassign(t *testing.T) {
	svc, _, users := newAssetServiceForTest()

	user := &domain.User{Name: "Pat", Email: "pat@example.com", Status: domain.UserStatusActive}
	require.NoError(t, users.Create(context.Background(), user))

	asset, err := svc.Create(context.Background(), AssetInput{AssetTag: "MN-0001", Name: "Monitor"})
	require.NoError(t, err)

	_, err = svc.Assign(context.Background(), asset.ID, "ghost")
	require.Error(t, err)

	assigned, err := svc.Assign(context.Background(), asset.ID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.AssetStatusAssigned, assigned.Status)
	require.NotNil(t, assigned.AssignedUserID)
	assert.Equal(t, user.ID, *assigned.AssignedUserID)

	mine, err := svc.ListForUser(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	returned, err := svc.Unassign(context.Background(), asset.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.AssetStatusInStock, returned.Status)
	assert.Nil(t, returned.AssignedUserID)
}

func TestAssetStatusTransitions(t *testing.T) {
	tests := []struct {
		from    domain.AssetStatus
		to      domain.AssetStatus
		allowed bool
	}{
		{domain.AssetStatusInStock, domain.AssetStatusInRepair, true},
		{domain.AssetStatusInStock, domain.AssetStatusRetired, true},
		{domain.AssetStatusAssigned, domain.AssetStatusInRepair, true},
		{domain.AssetStatusInRepair, domain.AssetStatusInStock, true},
		{domain.AssetStatusInRepair, domain.AssetStatusRetired, true},
		{domain.AssetStatusRetired, domain.AssetStatusInStock, false},
		{domain.AssetStatusInRepair, domain.AssetStatusAssigned, false},
	}

	for _, tc := range tests {
		t.Run(string(tc.from)+"_to_"+string(tc.to), func(t *testing.T) {
			svc, assets, _ := newAssetServiceForTest()
			asset := &domain.Asset{AssetTag: "X", Name: "x", Status: tc.from}
			require.NoError(t, assets.Create(context.Background(), asset))

			updated, err := svc.SetStatus(context.Background(), asset.ID, tc.to)
			if tc.allowed {
				require.NoError(t, err)
				assert.Equal(t, tc.to, updated.Status)
			} else {
				require.Error(t, err)
			}
		})
	}
}

func TestAssetSetStatusClearsAssignment(t *testing.T) {
	svc, assets, _ := newAssetServiceForTest()

	userID := "user-1"
	asset := &domain.Asset{
		AssetTag:       "KB-0001",
		Name:           "Keyboard",
		Status:         domain.AssetStatusAssigned,
		AssignedUserID: &userID,
	}
	require.NoError(t, assets.Create(context.Background(), asset))

	updated, err := svc.SetStatus(context.Background(), asset.ID, domain.AssetStatusInRepair)
	require.NoError(t, err)
	assert.Nil(t, updated.AssignedUserID)
}
