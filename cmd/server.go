package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jenfonro/sharesync/internal/bootstrap"
	"github.com/jenfonro/sharesync/internal/conf"
	"github.com/jenfonro/sharesync/internal/db"
	"github.com/jenfonro/sharesync/pkg/utils"
	"github.com/jenfonro/sharesync/server"
	"github.com/jenfonro/sharesync/server/handles"
	"github.com/spf13/cobra"
)

var ServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the sync server",
	Run: func(cmd *cobra.Command, args []string) {
		bootstrap.InitApp()
		if !conf.Debug {
			gin.SetMode(gin.ReleaseMode)
		}
		r := gin.New()
		r.Use(gin.LoggerWithWriter(utils.Log.Out), gin.RecoveryWithWriter(utils.Log.Out))
		server.Init(r)

		addr := fmt.Sprintf("%s:%d", conf.Conf.Scheme.Address, conf.Conf.Scheme.HTTPPort)
		srv := &http.Server{Addr: addr, Handler: r}
		go func() {
			utils.Log.Infof("start HTTP server @ %s", addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				utils.Log.Fatalf("failed to start http server: %s", err.Error())
			}
		}()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		utils.Log.Println("shutdown server...")
		handles.Scheduler.Shutdown()
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			utils.Log.Errorf("http server shutdown: %s", err.Error())
		}
		db.Close()
		utils.Log.Println("server exit")
	},
}

func init() {
	RootCmd.AddCommand(ServerCmd)
}
