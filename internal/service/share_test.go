package service

import (
	"Go_Assets/model"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShareAndUnshareFolder(t *testing.T) {
	env := setupTest(t)
	ctx := context.Background()
	createUser(t, "alice", "alice@example.com")
	createUser(t, "bob", "bob@example.com")
	f := createFolder(t, "alice", "Trip", nil)
	in := ShareInput{ItemID: f.ID, ItemType: model.ItemTypeFolder, Email: " Bob@Example.com "}

	grant, err := ShareItem(ctx, "alice", in)
	require.NoError(t, err)
	assert.Equal(t, "bob", grant.SharedWith)
	assert.Equal(t, []string{grant.ID}, env.jobs.shares)

	_, err = ShareItem(ctx, "alice", in)
	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, int64(1), countRows(t, &model.SharedAccess{}, "item_id = ?", f.ID))

	recipients, err := ListGrants("alice", f.ID, model.ItemTypeFolder)
	require.NoError(t, err)
	require.Len(t, recipients, 1)
	assert.Equal(t, "bob@example.com", recipients[0].Email)

	shared, err := ListSharedWithMe("bob")
	require.NoError(t, err)
	require.Len(t, shared.Folders, 1)
	assert.Equal(t, "Trip", shared.Folders[0].Folder.Name)
	assert.Equal(t, "alice@example.com", shared.Folders[0].SharedByEmail)
	assert.Empty(t, shared.Assets)

	removed, err := UnshareItem(ctx, "alice", in)
	require.NoError(t, err)
	assert.Equal(t, grant.ID, removed.ID)
	assert.Zero(t, countRows(t, &model.SharedAccess{}, "item_id = ?", f.ID))

	_, err = UnshareItem(ctx, "alice", in)
	assert.ErrorIs(t, err, ErrNotFound)

	recipients, err = ListGrants("alice", f.ID, model.ItemTypeFolder)
	require.NoError(t, err)
	assert.Empty(t, recipients)
}

func TestShareRequiresOwnership(t *testing.T) {
	setupTest(t)
	ctx := context.Background()
	createUser(t, "alice", "alice@example.com")
	createUser(t, "bob", "bob@example.com")
	createUser(t, "carol", "carol@example.com")
	asset := uploadText(t, "alice", nil, "a.txt", 2)

	_, err := ShareItem(ctx, "bob", ShareInput{ItemID: asset.ID, ItemType: model.ItemTypeAsset, Email: "carol@example.com"})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = ListGrants("bob", asset.ID, model.ItemTypeAsset)
	assert.ErrorIs(t, err, ErrNotFound)

	// the type must match the item
	_, err = ShareItem(ctx, "alice", ShareInput{ItemID: asset.ID, ItemType: model.ItemTypeFolder, Email: "carol@example.com"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestShareRecipientChecks(t *testing.T) {
	setupTest(t)
	ctx := context.Background()
	createUser(t, "alice", "alice@example.com")
	asset := uploadText(t, "alice", nil, "a.txt", 2)

	_, err := ShareItem(ctx, "alice", ShareInput{ItemID: asset.ID, ItemType: model.ItemTypeAsset, Email: "nobody@example.com"})
	assert.ErrorIs(t, err, ErrRecipientNotFound)

	_, err = ShareItem(ctx, "alice", ShareInput{ItemID: asset.ID, ItemType: model.ItemTypeAsset, Email: "alice@example.com"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = ShareItem(ctx, "alice", ShareInput{ItemID: asset.ID, ItemType: "album", Email: "alice@example.com"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = ShareItem(ctx, "alice", ShareInput{ItemID: asset.ID, ItemType: model.ItemTypeAsset})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestSharedWithMeHidesTrashedItems(t *testing.T) {
	setupTest(t)
	ctx := context.Background()
	createUser(t, "alice", "alice@example.com")
	createUser(t, "bob", "bob@example.com")
	asset := uploadText(t, "alice", nil, "a.txt", 2)
	_, err := ShareItem(ctx, "alice", ShareInput{ItemID: asset.ID, ItemType: model.ItemTypeAsset, Email: "bob@example.com"})
	require.NoError(t, err)

	shared, err := ListSharedWithMe("bob")
	require.NoError(t, err)
	require.Len(t, shared.Assets, 1)

	_, err = SetAssetTrashed("alice", asset.ID, true)
	require.NoError(t, err)
	shared, err = ListSharedWithMe("bob")
	require.NoError(t, err)
	assert.Empty(t, shared.Assets)
}

// A uploads into F, shares F with B, then deletes F.
func TestShareThenDeleteScenario(t *testing.T) {
	env := setupTest(t)
	ctx := context.Background()
	createUser(t, "A", "a@example.com")
	createUser(t, "B", "b@example.com")

	f := createFolder(t, "A", "F", nil)
	uploadText(t, "A", &f.ID, "big.txt", 1<<20)
	assert.Equal(t, int64(1<<20), usage(t, "A"))

	_, err := ShareItem(ctx, "A", ShareInput{ItemID: f.ID, ItemType: model.ItemTypeFolder, Email: "b@example.com"})
	require.NoError(t, err)
	shared, err := ListSharedWithMe("B")
	require.NoError(t, err)
	require.Len(t, shared.Folders, 1)
	assert.Equal(t, f.ID, shared.Folders[0].Folder.ID)

	result, err := DeleteFolderRecursive(ctx, "A", f.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1<<20), result.BytesFreed)
	assert.Equal(t, int64(0), usage(t, "A"))
	assert.Equal(t, 0, env.store.Len())

	shared, err = ListSharedWithMe("B")
	require.NoError(t, err)
	assert.Empty(t, shared.Folders)
	assert.Empty(t, shared.Assets)
}
