package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/bhavanapatidar/goalsaver/internal/advisor"
	"github.com/bhavanapatidar/goalsaver/internal/models"
	"github.com/bhavanapatidar/goalsaver/internal/render"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const (
	outputText = "text"
	outputJSON = "json"
	outputXML  = "xml"
)

var (
	flagInput  string
	flagOutput string
)

var rootCmd = &cobra.Command{
	Use:           "advisor",
	Short:         "Savings plan and risk profile calculator",
	Long:          "Compute a savings plan or risk profile from a JSON or YAML snapshot of a user's finances.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Generate a four-week savings plan",
	RunE:  runPlan,
}

var riskCmd = &cobra.Command{
	Use:   "risk",
	Short: "Compute the risk profile",
	RunE:  runRisk,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	for _, cmd := range []*cobra.Command{planCmd, riskCmd} {
		cmd.Flags().StringVarP(&flagInput, "file", "f", "-", "Input file (JSON or YAML), - for stdin")
		cmd.Flags().StringVarP(&flagOutput, "output", "o", outputText, "Output format: text, json or xml")
		rootCmd.AddCommand(cmd)
	}
}

func runPlan(cmd *cobra.Command, _ []string) error {
	in, err := loadInput(cmd.InOrStdin(), flagInput)
	if err != nil {
		return err
	}

	plan, err := advisor.New().GenerateSavingsPlan(in)
	if err != nil {
		return err
	}

	return write(cmd.OutOrStdout(), flagOutput, plan,
		func() ([]byte, error) { return render.SavingsPlanXML(plan) },
		func() string { return render.SavingsPlanText(plan) })
}

func runRisk(cmd *cobra.Command, _ []string) error {
	in, err := loadInput(cmd.InOrStdin(), flagInput)
	if err != nil {
		return err
	}

	profile, err := advisor.New().ComputeRiskProfile(in)
	if err != nil {
		return err
	}

	return write(cmd.OutOrStdout(), flagOutput, profile,
		func() ([]byte, error) { return render.RiskProfileXML(profile) },
		func() string { return render.RiskProfileText(profile) })
}

// loadInput reads a request document. JSON is accepted as a subset of YAML.
func loadInput(stdin io.Reader, path string) (models.UserFinancials, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return models.UserFinancials{}, fmt.Errorf("reading input: %w", err)
	}

	var req models.FinancialsRequest
	if err := yaml.Unmarshal(data, &req); err != nil {
		return models.UserFinancials{}, fmt.Errorf("parsing input: %w", err)
	}
	return req.UserFinancials()
}

func write(w io.Writer, format string, v any, xmlFn func() ([]byte, error), textFn func() string) error {
	switch format {
	case outputText:
		_, err := fmt.Fprint(w, textFn())
		return err
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case outputXML:
		out, err := xmlFn()
		if err != nil {
			return err
		}
		_, err = w.Write(out)
		return err
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
