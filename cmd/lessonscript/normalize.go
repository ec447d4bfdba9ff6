package main

import (
	"fmt"
	"log"

	"lessonscript/internal/domain/content"
	"lessonscript/internal/mdx"

	"github.com/spf13/cobra"
)

var normalizeCmd = &cobra.Command{
	Use:   "normalize <file>",
	Short: "Print the normalized script of one document",
	Args:  cobra.ExactArgs(1),
	RunE:  runNormalize,
}

func init() {
	normalizeCmd.Flags().StringP("mode", "m", "", "Render mode: doc or presentation (default: first configured mode)")
}

func runNormalize(cmd *cobra.Command, args []string) error {
	cfg, _, n, err := setup()
	if err != nil {
		return err
	}

	mode := cfg.Build.Modes[0]
	if m, _ := cmd.Flags().GetString("mode"); m != "" {
		if mode, err = content.ParseRenderMode(m); err != nil {
			return err
		}
	}

	res, err := n.NormalizeDocument(args[0], mdx.Options{Mode: mode, PreserveCode: cfg.Build.PreserveCode})
	if err != nil {
		return err
	}
	for _, ip := range res.MissingFragments() {
		log.Printf("[warn] %s: shared fragment not found: %s", args[0], ip)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), res.Text)
	return err
}
