// 门户命令行客户端：维护本地数据镜像与离线写队列。
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"campus-portal/backend/config"
	clientapi "campus-portal/backend/internal/client/api"
	"campus-portal/backend/internal/client/store"
	clientsync "campus-portal/backend/internal/client/sync"
	applogger "campus-portal/backend/pkg/logger"
)

var (
	flagServer string
	flagDB     string
	flagToken  string
	flagTerm   string
	flagTerms  string
)

var rootCmd = &cobra.Command{
	Use:   "portal-client",
	Short: "校园门户离线客户端",
	Long: `校园门户离线客户端。

维护课表 / 公告 / 行事历 / 考勤 / 成绩单的本地镜像（增量同步、LWW 合并），
以及断网也能用的请假队列（入队即分配幂等键，联网后按序冲刷）。`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagServer, "server", "http://localhost:8080", "后端地址")
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "portal.db", "本地镜像数据库路径")
	rootCmd.PersistentFlags().StringVar(&flagToken, "token", os.Getenv("PORTAL_TOKEN"), "登录 token（默认取 PORTAL_TOKEN 环境变量）")
	rootCmd.PersistentFlags().StringVar(&flagTerm, "term", "2025-1", "学期（课表 / 考勤）")
	rootCmd.PersistentFlags().StringVar(&flagTerms, "terms", "", "成绩单学期列表（逗号分隔）")

	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(leaveCmd)
}

// newEngine 组装本地存储、HTTP 客户端与同步引擎
func newEngine() (*clientsync.Engine, func(), error) {
	logger, err := applogger.NewLogger(&config.LogConfig{Level: "info", Format: "console"})
	if err != nil {
		return nil, nil, err
	}

	st, err := store.Open(flagDB)
	if err != nil {
		return nil, nil, err
	}

	engine := clientsync.NewEngine(st, clientapi.New(flagServer, flagToken), logger)
	cleanup := func() {
		st.Close()
		logger.Sync()
	}
	return engine, cleanup, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
