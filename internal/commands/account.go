package commands

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newAccountCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Account operations",
	}
	cmd.AddCommand(newAccountRegisterCommand())
	cmd.AddCommand(newAccountListCommand())
	return cmd
}

func newAccountRegisterCommand() *cobra.Command {
	var configPath string
	var id int64

	cmd := &cobra.Command{
		Use:   "register <name>",
		Short: "Register a new account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAccountRegister(configPath, args[0], id, os.Stdout)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "wallet.yaml", "config file")
	cmd.Flags().Int64Var(&id, "id", 0, "explicit account id (assigned by the database when omitted)")

	return cmd
}

func runAccountRegister(configPath, name string, id int64, out io.Writer) error {
	svc, db, _, err := openService(configPath)
	if err != nil {
		return err
	}
	defer db.Close()

	acc, err := svc.RegisterAccount(name, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Registered account %d (%s)\n", acc.ID, acc.Name)
	return nil
}

func newAccountListCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List registered accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAccountList(configPath, os.Stdout)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "wallet.yaml", "config file")

	return cmd
}

func runAccountList(configPath string, out io.Writer) error {
	svc, db, _, err := openService(configPath)
	if err != nil {
		return err
	}
	defer db.Close()

	accounts, err := svc.Accounts()
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "id\tname")
	for _, a := range accounts {
		fmt.Fprintf(tw, "%d\t%s\n", a.ID, a.Name)
	}
	return tw.Flush()
}
