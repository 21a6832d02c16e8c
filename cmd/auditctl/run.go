package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"dealaudit/internal/audit"
	audithandler "dealaudit/internal/audit/handler"
	auditstore "dealaudit/internal/audit/store"
	"dealaudit/internal/listing"
	"dealaudit/internal/platform/config"
	"dealaudit/internal/records"
)

// fileSource serves corroborating records from a local JSON file keyed by
// address. Keys are matched the same loose way the cache keys addresses.
type fileSource struct {
	records map[string]*listing.CorroboratingRecord
}

func loadFileSource(path string) (*fileSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read records file: %w", err)
	}
	var raw map[string]*listing.CorroboratingRecord
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse records file: %w", err)
	}
	byAddr := make(map[string]*listing.CorroboratingRecord, len(raw))
	for addr, rec := range raw {
		byAddr[looseAddress(addr)] = rec
	}
	return &fileSource{records: byAddr}, nil
}

func looseAddress(address string) string {
	return strings.Join(strings.Fields(strings.ToLower(address)), " ")
}

func (s *fileSource) Lookup(_ context.Context, address string) (*listing.CorroboratingRecord, error) {
	rec, ok := s.records[looseAddress(address)]
	if !ok {
		return nil, records.ErrNoRecord
	}
	return rec, nil
}

func newRunCmd() *cobra.Command {
	var (
		sessionPath string
		recordsPath string
		policyPath  string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Audit a scrape session from local files",
		RunE: func(cmd *cobra.Command, _ []string) error {
			policy, err := config.LoadPolicy(policyPath)
			if err != nil {
				return err
			}

			data, err := os.ReadFile(sessionPath)
			if err != nil {
				return fmt.Errorf("read session file: %w", err)
			}
			var req audithandler.RunSessionRequest
			if err := json.Unmarshal(data, &req); err != nil {
				return fmt.Errorf("parse session file: %w", err)
			}
			session, err := req.ToDomain()
			if err != nil {
				return err
			}

			var source records.Source
			if recordsPath != "" {
				source, err = loadFileSource(recordsPath)
				if err != nil {
					return err
				}
			} else {
				source = &fileSource{}
			}

			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), nil))
			service, err := audit.NewService(source, auditstore.NewInMemoryStore(), nil, nil, logger, policy.Scoring, policy.Audit)
			if err != nil {
				return err
			}

			result, err := service.Run(cmd.Context(), session)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		},
	}

	cmd.Flags().StringVar(&sessionPath, "session", "", "path to the session JSON file")
	cmd.Flags().StringVar(&recordsPath, "records", "", "path to a JSON file of corroborating records keyed by address")
	cmd.Flags().StringVar(&policyPath, "policy", "", "path to a policy YAML file (defaults apply when unset)")
	_ = cmd.MarkFlagRequired("session")

	return cmd
}

func newPolicyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "policy",
		Short: "Policy file tooling",
	}

	var policyPath string
	validate := &cobra.Command{
		Use:   "validate",
		Short: "Validate a policy YAML file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			policy, err := config.LoadPolicy(policyPath)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "policy ok: pass threshold %d, critical threshold %d\n",
				policy.Audit.Thresholds.Pass, policy.Audit.Thresholds.Critical)
			return nil
		},
	}
	validate.Flags().StringVar(&policyPath, "policy", "", "path to the policy YAML file")
	_ = validate.MarkFlagRequired("policy")

	cmd.AddCommand(validate)
	return cmd
}
