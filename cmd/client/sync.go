package main

import (
	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "增量同步全部实体到本地镜像",
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, cleanup, err := newEngine()
		if err != nil {
			return err
		}
		defer cleanup()

		if err := engine.SyncAll(cmd.Context(), flagTerm, flagTerms); err != nil {
			return err
		}

		// 镜像有未提交的请假时顺手冲刷
		flushed, err := engine.FlushLeaveQueue(cmd.Context())
		if err != nil {
			cmd.Printf("同步完成；队列冲刷中断（已提交 %d 项，其余保留）: %v\n", flushed, err)
			return nil
		}

		cmd.Printf("同步完成；队列冲刷 %d 项\n", flushed)
		return nil
	},
}
