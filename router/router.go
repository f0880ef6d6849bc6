package router

import (
	"Go_Assets/config"
	"Go_Assets/internal/handler"
	"Go_Assets/pkg/logger"
	"Go_Assets/utils"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	ginprometheus "github.com/zsais/go-gin-prometheus"
)

var (
	metricsOnce sync.Once
	metrics     *ginprometheus.Prometheus
	validOnce   sync.Once
)

// registerValidators adds the custom binding rules used by request DTOs.
func registerValidators() {
	validOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		if err := v.RegisterValidation("itemname", func(fl validator.FieldLevel) bool {
			return utils.ValidateItemName(strings.TrimSpace(fl.Field().String())) == nil
		}); err != nil {
			logger.Log.Fatal().Err(err).Msg("register itemname validator")
		}
	})
}

// prometheus collectors are process-global, so one instance serves every engine.
func setupMetrics(r *gin.Engine) {
	metricsOnce.Do(func() {
		metrics = ginprometheus.NewWithConfig(ginprometheus.Config{
			Subsystem: "gin",
		})
		metrics.ReqCntURLLabelMappingFn = func(c *gin.Context) string {
			if p := c.FullPath(); p != "" {
				return p
			}
			return "unmatched"
		}
	})
	metrics.Use(r)
}

// InitRouter builds API routes.
func InitRouter() *gin.Engine {
	registerValidators()

	r := gin.New()
	r.MaxMultipartMemory = 8 << 20
	r.Use(gin.Recovery())
	r.Use(utils.RequestLogger())
	r.Use(utils.CORSMiddleware(config.AppConfig.CORSOrigins))
	setupMetrics(r)

	api := r.Group("/api")
	{
		api.GET("/health", handler.Health)

		auth := api.Group("")
		auth.Use(utils.AuthMiddleware(handler.ProvisionUser))

		auth.GET("/me", handler.GetProfile)
		auth.GET("/quota", handler.GetQuota)
		auth.GET("/search", handler.Search)

		assets := auth.Group("/assets")
		{
			assets.POST("", handler.UploadAsset)
			assets.GET("/:id", handler.GetAsset)
			assets.GET("/:id/download", handler.GetAssetDownloadURL)
			assets.GET("/:id/preview", handler.GetAssetPreviewURL)
			assets.PATCH("/:id/name", handler.RenameAsset)
			assets.PATCH("/:id/favorite", handler.FavoriteAsset)
			assets.PATCH("/:id/trash", handler.TrashAsset)
			assets.PATCH("/:id/move", handler.MoveAsset)
			assets.DELETE("/:id", handler.DeleteAsset)
		}

		folders := auth.Group("/folders")
		{
			folders.POST("", handler.CreateFolder)
			folders.GET("/root", handler.GetRootContents)
			folders.GET("/:id", handler.GetFolder)
			folders.GET("/:id/contents", handler.GetFolderContents)
			folders.PATCH("/:id/name", handler.RenameFolder)
			folders.PATCH("/:id/favorite", handler.FavoriteFolder)
			folders.PATCH("/:id/trash", handler.TrashFolder)
			folders.PATCH("/:id/move", handler.MoveFolder)
			folders.DELETE("/:id", handler.DeleteFolder)
		}

		auth.GET("/trash", handler.ListTrash)
		auth.DELETE("/trash", handler.EmptyTrash)
		auth.GET("/favorites", handler.ListFavorites)

		shares := auth.Group("/shares")
		{
			shares.POST("", handler.ShareItem)
			shares.DELETE("", handler.UnshareItem)
			shares.GET("/:type/:id", handler.ListGrants)
		}
		auth.GET("/shared", handler.ListSharedWithMe)
	}
	return r
}
