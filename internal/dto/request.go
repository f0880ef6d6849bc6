package dto

type CreateFolderRequest struct {
	Name     string  `json:"name" binding:"required,itemname"`
	ParentID *string `json:"parent_id" binding:"omitempty,uuid"`
}

type RenameRequest struct {
	Name string `json:"name" binding:"required,itemname"`
}

// FlagRequest sets a flag explicitly. An empty body toggles it.
type FlagRequest struct {
	Value *bool `json:"value"`
}

type MoveRequest struct {
	TargetID *string `json:"target_id" binding:"omitempty,uuid"`
}

type ShareRequest struct {
	ItemID   string `json:"item_id" binding:"required,uuid"`
	ItemType string `json:"item_type" binding:"required,oneof=asset folder"`
	Email    string `json:"email" binding:"required,email"`
}

type ItemRef struct {
	Type string `uri:"type" binding:"required,oneof=asset folder"`
	ID   string `uri:"id" binding:"required,uuid"`
}

type SearchQuery struct {
	Q        string `form:"q" binding:"required"`
	Type     string `form:"type" binding:"omitempty,oneof=asset folder"`
	OrderBy  string `form:"order_by" binding:"omitempty,oneof=name created_at updated_at size"`
	Desc     bool   `form:"desc"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}
