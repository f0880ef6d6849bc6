package handler

import (
	"Go_Assets/internal/dto"
	"Go_Assets/internal/service"
	"Go_Assets/utils"

	"github.com/gin-gonic/gin"
)

// Search finds the caller's live folders and assets by name.
func Search(c *gin.Context) {
	var q dto.SearchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}
	result, err := service.SearchItems(currentUser(c), service.SearchInput{
		Query:     q.Q,
		Type:      q.Type,
		OrderBy:   q.OrderBy,
		OrderDesc: q.Desc,
		Page:      q.Page,
		PageSize:  q.PageSize,
	})
	if err != nil {
		writeError(c, "search", err)
		return
	}
	utils.Success(c, result)
}
