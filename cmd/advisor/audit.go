package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/bhavanapatidar/goalsaver/internal/repository"
	"github.com/spf13/cobra"
)

var (
	flagAuditDriver string
	flagAuditDSN    string
	flagOlderThan   time.Duration
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Inspect or prune the audit trail",
}

var auditShowCmd = &cobra.Command{
	Use:   "show REQUEST_ID",
	Short: "Print the audit records written for a request",
	Args:  cobra.ExactArgs(1),
	RunE:  runAuditShow,
}

var auditPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete audit records older than --older-than",
	RunE:  runAuditPrune,
}

func init() {
	auditCmd.PersistentFlags().StringVar(&flagAuditDriver, "driver", repository.DriverSQLite, "Audit database driver: postgres or sqlite")
	auditCmd.PersistentFlags().StringVar(&flagAuditDSN, "dsn", "", "Audit database DSN")
	_ = auditCmd.MarkPersistentFlagRequired("dsn")
	auditPruneCmd.Flags().DurationVar(&flagOlderThan, "older-than", 720*time.Hour, "Retention period")

	auditCmd.AddCommand(auditShowCmd, auditPruneCmd)
	rootCmd.AddCommand(auditCmd)
}

func openRepository(cmd *cobra.Command) (*repository.Repository, func(), error) {
	db, err := repository.Open(cmd.Context(), flagAuditDriver, flagAuditDSN)
	if err != nil {
		return nil, nil, err
	}
	return repository.NewRepository(db, flagAuditDriver), func() { _ = db.Close() }, nil
}

func runAuditShow(cmd *cobra.Command, args []string) error {
	repo, closeDB, err := openRepository(cmd)
	if err != nil {
		return err
	}
	defer closeDB()

	records, err := repo.FindByRequestID(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("no audit records for request %s", args[0])
	}

	type entry struct {
		ID            string          `json:"id"`
		Kind          string          `json:"kind"`
		RiskCategory  string          `json:"risk_category"`
		MonthlyTarget float64         `json:"monthly_target"`
		CreatedAt     time.Time       `json:"created_at"`
		Response      json.RawMessage `json:"response"`
	}
	out := make([]entry, 0, len(records))
	for _, rec := range records {
		out = append(out, entry{
			ID:            rec.ID,
			Kind:          string(rec.Kind),
			RiskCategory:  string(rec.RiskCategory),
			MonthlyTarget: rec.MonthlyTarget,
			CreatedAt:     rec.CreatedAt,
			Response:      json.RawMessage(rec.Payload),
		})
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func runAuditPrune(cmd *cobra.Command, _ []string) error {
	repo, closeDB, err := openRepository(cmd)
	if err != nil {
		return err
	}
	defer closeDB()

	n, err := repo.PruneBefore(cmd.Context(), time.Now().UTC().Add(-flagOlderThan))
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Pruned %d audit records\n", n)
	return nil
}
