package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Faultbox/prepview/internal/viewer"
	"github.com/Faultbox/prepview/internal/workflow"
)

var reviewCmd = &cobra.Command{
	Use:   "review [case.json]",
	Short: "Run the upload, compare and review steps and print the handoff",
	Long: `Load the case, start from the defective teeth as the selection, apply each
--toggle side:tooth and print the review summary.`,
	Args: cobra.ExactArgs(1),
	RunE: runReview,
}

var reviewToggles []string

func init() {
	reviewCmd.Flags().StringArrayVar(&reviewToggles, "toggle", nil, "Toggle side:tooth (repeatable)")
	rootCmd.AddCommand(reviewCmd)
}

func runReview(cmd *cobra.Command, args []string) error {
	var (
		data []byte
		err  error
	)
	if args[0] == stdinPath {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(args[0])
	}
	if err != nil {
		return err
	}

	session := viewer.NewSession(sessionOptions())
	var m *workflow.Manager
	m = workflow.NewManager(func() workflow.Screen { return workflow.NewUploadScreen(m, session) })
	m.Change(workflow.NewUploadScreen(m, session))
	if err := m.Update(); err != nil {
		return err
	}

	events := []any{
		workflow.UploadEvent{Name: args[0], Data: data},
		workflow.ProceedEvent{},
	}
	for _, t := range reviewToggles {
		side, id, err := parseSideTooth(t)
		if err != nil {
			return err
		}
		events = append(events, workflow.ToggleEvent{Side: side, ID: id})
	}
	events = append(events, workflow.ProceedEvent{})

	for _, e := range events {
		if err := m.HandleInput(e); err != nil {
			return err
		}
	}
	return m.Render(cmd.OutOrStdout())
}
