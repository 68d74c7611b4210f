package cli

import (
	"encoding/json"
	"fmt"
	"net"

	"github.com/spf13/cobra"

	"github.com/imRyuukii/LoginPage/pkg/constants"
)

type target struct {
	ip     string
	action string
}

func (t *target) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&t.ip, "ip", "", "client IP address")
	cmd.Flags().StringVar(&t.action, "action", "", "action name (login, register, password_reset, email_verification)")
	_ = cmd.MarkFlagRequired("ip")
	_ = cmd.MarkFlagRequired("action")
}

// resolve validates the flags against the limiter's action table. The IP is
// returned in the canonical form the HTTP path stores.
func (t *target) resolve(rt *runtime) (string, constants.Action, error) {
	ip := net.ParseIP(t.ip)
	if ip == nil {
		return "", "", fmt.Errorf("invalid --ip %q", t.ip)
	}
	action := constants.Action(t.action)
	if _, ok := rt.limiter.Limit(action); !ok {
		return "", "", fmt.Errorf("unknown --action %q", t.action)
	}
	return ip.String(), action, nil
}

func writeJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newCleanupCmd(configPath *string) *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Delete rate limit rows older than --days that are not actively blocked",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer rt.Close()

			removed := rt.limiter.Cleanup(cmd.Context(), days)
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d rate limit rows\n", removed)
			return nil
		},
	}
	cmd.Flags().IntVar(&days, "days", constants.DefaultCleanupMaxAgeDays, "maximum age in days")
	return cmd
}

func newStatusCmd(configPath *string) *cobra.Command {
	var t target
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show remaining attempts and block state for an IP",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer rt.Close()

			ip, action, err := t.resolve(rt)
			if err != nil {
				return err
			}
			return writeJSON(cmd, rt.status.Status(cmd.Context(), ip, action))
		},
	}
	t.bind(cmd)
	return cmd
}

func newClearCmd(configPath *string) *cobra.Command {
	var t target
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Forget all attempts and any block for an IP",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer rt.Close()

			ip, action, err := t.resolve(rt)
			if err != nil {
				return err
			}
			rt.status.Clear(cmd.Context(), ip, action)
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared %s attempts for %s\n", action, ip)
			return nil
		},
	}
	t.bind(cmd)
	return cmd
}

func newBlockCmd(configPath *string) *cobra.Command {
	var t target
	cmd := &cobra.Command{
		Use:   "block",
		Short: "Block an IP for the action's block duration",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer rt.Close()

			ip, action, err := t.resolve(rt)
			if err != nil {
				return err
			}
			return writeJSON(cmd, rt.status.Block(cmd.Context(), ip, action))
		},
	}
	t.bind(cmd)
	return cmd
}
