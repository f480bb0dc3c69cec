package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"campus-portal/backend/internal/dto"
)

var (
	flagLeaveStart  string
	flagLeaveEnd    string
	flagLeaveReason string
)

var leaveCmd = &cobra.Command{
	Use:   "leave",
	Short: "离线请假队列",
}

var leaveSubmitCmd = &cobra.Command{
	Use:   "submit",
	Short: "提交请假（先入队，联网则立即冲刷）",
	RunE: func(cmd *cobra.Command, args []string) error {
		start, err := time.Parse("2006-01-02", flagLeaveStart)
		if err != nil {
			return fmt.Errorf("start 日期格式应为 YYYY-MM-DD: %w", err)
		}
		end, err := time.Parse("2006-01-02", flagLeaveEnd)
		if err != nil {
			return fmt.Errorf("end 日期格式应为 YYYY-MM-DD: %w", err)
		}

		engine, cleanup, err := newEngine()
		if err != nil {
			return err
		}
		defer cleanup()

		item, err := engine.EnqueueLeave(cmd.Context(), &dto.CreateLeaveRequest{
			DateRange: &dto.DateRange{Start: start, End: end},
			Reason:    flagLeaveReason,
		})
		if err != nil {
			return err
		}
		cmd.Printf("已入队 (seq=%d, 幂等键=%s)\n", item.Seq, item.IdempotencyKey)

		flushed, err := engine.FlushLeaveQueue(cmd.Context())
		if err != nil {
			cmd.Printf("暂未提交到服务端（已提交 %d 项）: %v\n", flushed, err)
			return nil
		}
		cmd.Printf("已提交到服务端（冲刷 %d 项）\n", flushed)
		return nil
	},
}

var leaveFlushCmd = &cobra.Command{
	Use:   "flush",
	Short: "按入队顺序冲刷请假队列",
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, cleanup, err := newEngine()
		if err != nil {
			return err
		}
		defer cleanup()

		flushed, err := engine.FlushLeaveQueue(cmd.Context())
		if err != nil {
			return fmt.Errorf("冲刷中断（已提交 %d 项）: %w", flushed, err)
		}
		cmd.Printf("冲刷完成，共 %d 项\n", flushed)
		return nil
	},
}

var leaveListCmd = &cobra.Command{
	Use:   "list",
	Short: "查看待提交的请假队列",
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, cleanup, err := newEngine()
		if err != nil {
			return err
		}
		defer cleanup()

		items, err := engine.PendingLeaves(cmd.Context())
		if err != nil {
			return err
		}
		if len(items) == 0 {
			cmd.Println("队列为空")
			return nil
		}

		for _, item := range items {
			var req dto.CreateLeaveRequest
			_ = json.Unmarshal(item.Payload, &req)
			rangeStr := "?"
			if req.DateRange != nil {
				rangeStr = fmt.Sprintf("%s ~ %s",
					req.DateRange.Start.Format("2006-01-02"),
					req.DateRange.End.Format("2006-01-02"))
			}
			cmd.Printf("seq=%d  %s  %s  (幂等键 %s)\n",
				item.Seq, rangeStr, req.Reason, item.IdempotencyKey)
		}
		return nil
	},
}

func init() {
	leaveSubmitCmd.Flags().StringVar(&flagLeaveStart, "start", "", "起始日期 YYYY-MM-DD")
	leaveSubmitCmd.Flags().StringVar(&flagLeaveEnd, "end", "", "结束日期 YYYY-MM-DD")
	leaveSubmitCmd.Flags().StringVar(&flagLeaveReason, "reason", "", "请假事由")
	leaveSubmitCmd.MarkFlagRequired("start")
	leaveSubmitCmd.MarkFlagRequired("end")
	leaveSubmitCmd.MarkFlagRequired("reason")

	leaveCmd.AddCommand(leaveSubmitCmd)
	leaveCmd.AddCommand(leaveFlushCmd)
	leaveCmd.AddCommand(leaveListCmd)
}
