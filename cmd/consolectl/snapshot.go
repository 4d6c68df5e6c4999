package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/benbjohnson/clock"
	"github.com/spf13/cobra"

	"github.com/TBosstradamus/pasha-vorschau-sub000/internal/persistence"
)

type opener func(ctx context.Context) (*app, error)

func newSnapshotCmd(open opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "共享快照管理",
	}
	cmd.AddCommand(
		newSnapshotShowCmd(open),
		newSnapshotMigrateCmd(open),
		newSnapshotResetCmd(open),
	)
	return cmd
}

func newSnapshotShowCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "探测快照形态（只读）",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := open(ctx)
			if err != nil {
				return err
			}
			defer a.close()

			for _, key := range []string{persistence.KeyState, persistence.KeyLegacyState} {
				raw, ok, err := a.repo.Storage.GetItem(ctx, key)
				if err != nil {
					return fmt.Errorf("读取 %s 失败: %w", key, err)
				}
				if !ok {
					fmt.Fprintf(cmd.OutOrStdout(), "%s: <空>\n", key)
					continue
				}
				report, err := persistence.Inspect([]byte(raw))
				if err != nil {
					fmt.Fprintf(cmd.OutOrStdout(), "%s: %v\n", key, err)
					continue
				}
				out, _ := json.MarshalIndent(report, "", "  ")
				fmt.Fprintf(cmd.OutOrStdout(), "%s (需要迁移: %t):\n%s\n", key, report.NeedsMigration(), out)
			}
			return nil
		},
	}
}

func newSnapshotMigrateCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "加载快照、执行迁移链并写回当前格式",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := open(ctx)
			if err != nil {
				return err
			}
			defer a.close()

			state := persistence.NewLoader(a.repo, clock.New(), a.logger).LoadShared(ctx)
			raw, err := persistence.EncodeContainer(state)
			if err != nil {
				return err
			}
			if err := a.repo.Storage.SetItem(ctx, persistence.KeyState, string(raw)); err != nil {
				return fmt.Errorf("写回快照失败: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "快照已迁移：%d 名警员，%d 辆车，%d 条日志\n",
				len(state.Officers), len(state.MasterFleet), len(state.ITLogs))
			return nil
		},
	}
}

func newSnapshotResetCmd(open opener) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "以种子数据覆盖共享快照",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return fmt.Errorf("重置会覆盖全部数据，请加 --yes 确认")
			}
			ctx := cmd.Context()
			a, err := open(ctx)
			if err != nil {
				return err
			}
			defer a.close()

			raw, err := persistence.EncodeContainer(persistence.DefaultState(clock.New().Now()))
			if err != nil {
				return err
			}
			if err := a.repo.Storage.SetItem(ctx, persistence.KeyState, string(raw)); err != nil {
				return fmt.Errorf("写入快照失败: %w", err)
			}
			for _, key := range []string{persistence.KeyLegacyState, persistence.KeyTimeClock} {
				if err := a.repo.Storage.RemoveItem(ctx, key); err != nil {
					fmt.Fprintf(os.Stderr, "删除 %s 失败: %v\n", key, err)
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), "快照已重置为种子数据")
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "确认覆盖")
	return cmd
}
