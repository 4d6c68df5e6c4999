package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/benbjohnson/clock"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/TBosstradamus/pasha-vorschau-sub000/internal/model"
	"github.com/TBosstradamus/pasha-vorschau-sub000/internal/persistence"
	"github.com/TBosstradamus/pasha-vorschau-sub000/internal/service"
)

type exportFunc func(service.ExportService, *model.AppState) (*bytes.Buffer, string, error)

var exporters = map[string]exportFunc{
	"logs":     service.ExportService.ExportLogs,
	"roster":   service.ExportService.ExportRoster,
	"calendar": service.ExportService.ExportCalendar,
}

func newExportCmd(open opener) *cobra.Command {
	var outDir string
	cmd := &cobra.Command{
		Use:       "export [logs|roster|calendar]",
		Short:     "从共享快照离线导出文件",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"logs", "roster", "calendar"},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := open(ctx)
			if err != nil {
				return err
			}
			defer a.close()

			clk := clock.New()
			state := persistence.NewLoader(a.repo, clk, a.logger).LoadShared(ctx)
			svc := service.NewExportService(clk, a.logger)

			buf, filename, err := exporters[args[0]](svc, state)
			if err != nil {
				return err
			}
			path := filepath.Join(outDir, filename)
			if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
				return fmt.Errorf("写入 %s 失败: %w", path, err)
			}
			a.logger.Debug("导出完成", zap.String("path", path), zap.Int("bytes", buf.Len()))
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "输出目录")
	return cmd
}
