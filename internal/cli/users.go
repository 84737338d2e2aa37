package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/andy/freelancedesk/internal/domain"
)

var (
	userName  string
	userEmail string
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage API users",
}

var usersAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a user and print its API token",
	RunE: func(cmd *cobra.Command, args []string) error {
		user := &domain.User{Name: userName, Email: userEmail}
		if err := appInstance.UserRepo.Create(cmd.Context(), user); err != nil {
			return err
		}

		fmt.Printf("created user %s\n", user.ID)
		fmt.Printf("API token: %s\n", user.APIToken)
		return nil
	},
}

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List users",
	RunE: func(cmd *cobra.Command, args []string) error {
		users, err := appInstance.UserRepo.List(cmd.Context())
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tEMAIL\tCREATED")
		for _, u := range users {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", u.ID, u.Name, u.Email, u.CreatedAt.Format("2006-01-02"))
		}
		return w.Flush()
	},
}

func init() {
	usersAddCmd.Flags().StringVar(&userName, "name", "", "user name")
	usersAddCmd.Flags().StringVar(&userEmail, "email", "", "user email")
	usersAddCmd.MarkFlagRequired("name")
	usersAddCmd.MarkFlagRequired("email")

	usersCmd.AddCommand(usersAddCmd)
	usersCmd.AddCommand(usersListCmd)
}
