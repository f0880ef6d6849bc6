package task

import (
	"Go_Assets/internal/repo"
	"Go_Assets/model"
	"Go_Assets/pkg/logger"
	"Go_Assets/utils"
	"context"
)

var sendShareMail = utils.SendShareMail

// ProcessShareNotify emails the recipient of a grant. A revoked grant is not retried.
func ProcessShareNotify(ctx context.Context, grantID string) error {
	var grant model.SharedAccess
	if err := repo.Db.WithContext(ctx).Where("id = ?", grantID).First(&grant).Error; err != nil {
		return err
	}
	var sharer, recipient model.User
	if err := repo.Db.WithContext(ctx).Where("id = ?", grant.SharedBy).First(&sharer).Error; err != nil {
		return err
	}
	if err := repo.Db.WithContext(ctx).Where("id = ?", grant.SharedWith).First(&recipient).Error; err != nil {
		return err
	}

	itemName, err := sharedItemName(ctx, grant)
	if err != nil {
		return err
	}
	sharerName := sharer.Name
	if sharerName == "" {
		sharerName = sharer.Email
	}
	if err := sendShareMail(utils.ShareMail{
		To:         recipient.Email,
		SharerName: sharerName,
		ItemName:   itemName,
		ItemType:   grant.Type,
	}); err != nil {
		return err
	}
	logger.Log.Info().Str("share_id", grant.ID).Str("to", recipient.Email).Msg("share notification sent")
	return nil
}

func sharedItemName(ctx context.Context, grant model.SharedAccess) (string, error) {
	if grant.Type == model.ItemTypeFolder {
		var f model.Folder
		if err := repo.Db.WithContext(ctx).Select("id", "name").Where("id = ?", grant.ItemID).First(&f).Error; err != nil {
			return "", err
		}
		return f.Name, nil
	}
	var a model.Asset
	if err := repo.Db.WithContext(ctx).Select("id", "name").Where("id = ?", grant.ItemID).First(&a).Error; err != nil {
		return "", err
	}
	return a.Name, nil
}
