package main

import (
	"github.com/spf13/cobra"

	"github.com/FACorreiaa/roofing-site/internal/llm"
)

var (
	draftState  string
	draftCounty string
)

var draftCmd = &cobra.Command{
	Use:   "draft [city]",
	Short: "Draft a location entry with Gemini",
	Long: `Asks Gemini for a first draft of a location entry and prints it as YAML.
Review the copy before adding it to locations.yaml.

Example:
  roofsite draft "Castle Rock" --state CO --county Douglas`,
	Args: cobra.ExactArgs(1),
	RunE: runDraft,
}

func init() {
	draftCmd.Flags().StringVar(&draftState, "state", "CO", "Two-letter state code")
	draftCmd.Flags().StringVar(&draftCounty, "county", "", "County name")
}

func runDraft(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	client, err := llm.NewGeminiChatClient(ctx, cfg.LLM.APIKey, cfg.LLM.Model)
	if err != nil {
		return err
	}

	loc, err := llm.NewDrafter(client, logger).DraftLocation(ctx, args[0], draftState, draftCounty)
	if err != nil {
		return err
	}

	out, err := llm.MarshalDraft(loc)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(out)
	return err
}
