package handler

import (
	"Go_Assets/internal/service"
	"Go_Assets/utils"

	"github.com/gin-gonic/gin"
)

func ListTrash(c *gin.Context) {
	trash, err := service.ListTrash(currentUser(c))
	if err != nil {
		writeError(c, "list trash", err)
		return
	}
	utils.Success(c, trash)
}

// EmptyTrash permanently deletes everything in the caller's trash.
func EmptyTrash(c *gin.Context) {
	result, err := service.EmptyTrash(c.Request.Context(), currentUser(c))
	if err != nil {
		writeError(c, "empty trash", err)
		return
	}
	utils.Success(c, result)
}

func ListFavorites(c *gin.Context) {
	favorites, err := service.ListFavorites(currentUser(c))
	if err != nil {
		writeError(c, "list favorites", err)
		return
	}
	utils.Success(c, favorites)
}
