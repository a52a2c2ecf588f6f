package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jenfonro/sharesync/server/handles"
	"github.com/jenfonro/sharesync/server/middlewares"
)

func Init(e *gin.Engine) {
	e.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Authorization"},
	}))

	api := e.Group("/api")
	api.POST("/login", handles.Login)

	auth := api.Group("", middlewares.Auth)
	auth.GET("/config", handles.GetConfig)
	auth.POST("/config", handles.SaveConfig)
	auth.GET("/folders", handles.ListFolders)
	auth.GET("/tasks", handles.ListTasks)
	auth.POST("/task", handles.CreateTask)
	auth.PUT("/task/:id", handles.UpdateTask)
	auth.DELETE("/task/:id", handles.DeleteTask)
	auth.POST("/task/:id/run", handles.RunTask)
}
