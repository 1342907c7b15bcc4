package main

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/devraulu/serchr/pkg/engine"
)

var extractCmd = &cobra.Command{
	Use:   "extract <url>",
	Short: "Fetch a page in the browser and print its readable text",
	Args:  cobra.ExactArgs(1),
	RunE:  runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	target, err := url.Parse(args[0])
	if err != nil || target.Scheme != "http" && target.Scheme != "https" {
		return fmt.Errorf("not an http(s) url: %q", args[0])
	}

	eng, err := engine.New("google", browserConfig())
	if err != nil {
		return err
	}
	defer eng.Close()

	content, err := eng.ExtractTextContent(cmd.Context(), target.String())
	if err != nil {
		return fmt.Errorf("extract %s: %w", target, err)
	}
	fmt.Println(content)
	return nil
}
