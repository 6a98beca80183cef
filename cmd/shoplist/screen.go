package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jask/shoplist/internal/service"
	"github.com/jask/shoplist/internal/tui"
)

func runScreen(ctx context.Context, a *app) error {
	if a.cfg.Database.Watch {
		if err := a.store.WatchFile(ctx, a.cfg.Database.Path); err != nil {
			a.log.Warn("external change detection disabled", zap.Error(err))
		}
	}

	ctrl := service.NewListController(a.store, a.log)
	defer ctrl.Close()

	screen := tui.NewScreen(ctx, ctrl, a.cfg.UI.Title)
	opts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}
	if a.cfg.UI.Mouse {
		opts = append(opts, tea.WithMouseCellMotion())
	}
	a.log.Info("screen started")
	if _, err := tea.NewProgram(screen, opts...).Run(); err != nil {
		return fmt.Errorf("run screen: %w", err)
	}
	if err := screen.Err(); err != nil {
		return fmt.Errorf("storage failure: %w", err)
	}
	a.log.Info("screen closed")
	return nil
}
