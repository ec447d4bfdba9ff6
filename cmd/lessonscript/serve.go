package main

import (
	"lessonscript/internal/serve"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Preview normalized scripts over HTTP with live reload",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("addr", ":8080", "Listen address")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, root, n, err := setup()
	if err != nil {
		return err
	}
	s, err := serve.New(cfg, root, n)
	if err != nil {
		return err
	}
	addr, _ := cmd.Flags().GetString("addr")
	return s.ListenAndServe(cmd.Context(), addr)
}
