package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/Laisky/filedrop/internal/web"
	"github.com/Laisky/filedrop/internal/web/files/model"
	"github.com/Laisky/filedrop/library/log"

	gconfig "github.com/Laisky/go-config/v2"
	gcmd "github.com/Laisky/go-utils/v6/cmd"
	"github.com/Laisky/zap"
	"github.com/spf13/cobra"
)

var apiCMD = &cobra.Command{
	Use:   "api",
	Short: "api",
	Long:  `serve the upload authorization API and browser UI`,
	Args:  gcmd.NoExtraArgs,
	PreRun: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		if err := initialize(ctx, cmd); err != nil {
			log.Logger.Panic("init", zap.Error(err))
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(),
			syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		defer func() {
			if model.FilesDB != nil {
				if err := model.FilesDB.Close(context.Background()); err != nil {
					log.Logger.Error("close files db", zap.Error(err))
				}
			}
		}()

		if err := web.RunServer(ctx, gconfig.Shared.GetString("listen")); err != nil {
			log.Logger.Panic("run server", zap.Error(err))
		}
	},
}

func init() {
	rootCMD.AddCommand(apiCMD)
}
