package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	authdomain "taskflow-backend/internal/auth/domain"
	"taskflow-backend/internal/state"
	"taskflow-backend/internal/view"
	workspacedomain "taskflow-backend/internal/workspace/domain"
	"taskflow-backend/pkg/kvstore"
)

var statsEmail string

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	ownedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	guestStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	doneStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show completion per workspace visible to an email",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		email, err := authdomain.NormalizeEmail(statsEmail)
		if err != nil {
			return fmt.Errorf("--email: %w", err)
		}

		store, err := kvstore.Open(cfg)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer store.Close()

		container, err := state.Open(cmd.Context(), store)
		if err != nil {
			return fmt.Errorf("load state: %w", err)
		}

		snap := container.Current()
		user := &authdomain.User{Email: email}
		visible := view.VisibleWorkspaces(user, snap.Workspaces)
		renderStats(cmd.OutOrStdout(), email, view.WorkspaceStats(visible, snap.Tasks, snap.Notes, user))
		return nil
	},
}

func init() {
	statsCmd.Flags().StringVar(&statsEmail, "email", "", "email whose workspaces to show")
	_ = statsCmd.MarkFlagRequired("email")
	rootCmd.AddCommand(statsCmd)
}

func renderStats(w io.Writer, email string, stats []workspacedomain.Stats) {
	fmt.Fprintln(w, headerStyle.Render("Workspaces for "+email))
	if len(stats) == 0 {
		fmt.Fprintln(w, "No workspaces found.")
		return
	}

	fmt.Fprintf(w, "  %-24s %-8s %-7s %s\n", "NAME", "COLOR", "DONE", "ACCESS")
	fmt.Fprintf(w, "  %-24s %-8s %-7s %s\n", "----", "-----", "----", "------")
	for _, s := range stats {
		done := fmt.Sprintf("%d/%d", s.Done, s.Total)
		progress := fmt.Sprintf("%3d%%", s.Percent)
		if s.Total > 0 && s.Done == s.Total {
			progress = doneStyle.Render(progress)
		}
		access := guestStyle.Render(s.Access)
		if s.IsOwner {
			access = ownedStyle.Render(s.Access)
		}
		fmt.Fprintf(w, "  %-24s %-8s %-7s %s %s\n", truncate(s.Workspace.Name, 24), s.Workspace.Color, done, progress, access)
	}
}

func truncate(s string, n int) string {
	r := []rune(strings.TrimSpace(s))
	if len(r) <= n {
		return string(r)
	}
	return string(r[:n-1]) + "…"
}
