package commands

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/wallet-dev/wallet/internal/model"
	"github.com/wallet-dev/wallet/internal/parser"
	"github.com/wallet-dev/wallet/internal/wallet"
)

func newImportCommand() *cobra.Command {
	var opts importOptions

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import transactions from a statement file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.In = os.Stdin
			opts.Out = os.Stdout
			return runImport(opts)
		},
	}

	cmd.Flags().StringVar(&opts.ConfigPath, "config", "wallet.yaml", "config file")
	cmd.Flags().StringVar(&opts.Format, "format", "", "statement format (prompted when omitted)")
	cmd.Flags().StringVar(&opts.File, "file", "", "statement file path (prompted when omitted)")
	cmd.Flags().StringVar(&opts.AccountRef, "account", "", "account name or id (prompted when omitted)")
	cmd.Flags().StringVar(&opts.Dir, "dir", "", "import every statement file in a directory")
	cmd.Flags().BoolVar(&opts.Yes, "yes", false, "skip the confirmation prompt")

	return cmd
}

// importOptions carries flag values plus the streams prompts run over.
type importOptions struct {
	ConfigPath string
	Format     string
	File       string
	AccountRef string
	Dir        string
	Yes        bool
	In         io.Reader
	Out        io.Writer
}

func runImport(opts importOptions) error {
	svc, db, cfg, err := openService(opts.ConfigPath)
	if err != nil {
		return err
	}
	defer db.Close()

	in := bufio.NewReader(opts.In)

	format := opts.Format
	if format == "" {
		format = choose(in, opts.Out, "Which format do you want to use?", svc.SupportedFormats(), cfg.Import.DefaultFormat)
	}
	p, err := svc.ParserFor(format)
	if err != nil {
		return err
	}

	if opts.Dir != "" {
		account, err := resolveAccount(svc, in, opts)
		if err != nil {
			return err
		}
		return importDir(svc, p, account, opts.Dir, opts.Out)
	}

	file := opts.File
	if file == "" {
		file = ask(in, opts.Out, "Statement file path")
	}
	st, err := p.ParseFile(file)
	if err != nil {
		return err
	}

	account, err := resolveAccount(svc, in, opts)
	if err != nil {
		return err
	}

	fmt.Fprintf(opts.Out, "number of transactions: %d\n", len(st.Transactions))
	fmt.Fprintf(opts.Out, "ledger balance: %s as of %s\n",
		st.Balance.Balance.StringFixed(2), st.Balance.AsOf.Format("2006-01-02 15:04:05"))
	printPreview(opts.Out, st.Transactions)

	if !opts.Yes && !confirm(in, opts.Out, "Import transactions?") {
		return nil
	}

	res, importErr := svc.ImportStatement(account, st.Transactions)
	reportResult(opts.Out, res)
	return importErr
}

func resolveAccount(svc *wallet.Service, in *bufio.Reader, opts importOptions) (model.Account, error) {
	ref := opts.AccountRef
	if ref == "" {
		ref = ask(in, opts.Out, "Account name or ID")
	}
	return svc.FetchAccountByIDOrName(ref)
}

// importDir imports every statement file in dir, moving each into
// processed/ once its records are registered.
func importDir(svc *wallet.Service, p parser.Parser, account model.Account, dir string, out io.Writer) error {
	files, err := parser.Scan(dir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Fprintf(out, "no statement files in %s\n", dir)
		return nil
	}

	for _, f := range files {
		st, err := p.ParseFile(f.Path)
		if err != nil {
			return fmt.Errorf("%s: %w", f.Name, err)
		}
		res, importErr := svc.ImportStatement(account, st.Transactions)
		fmt.Fprintf(out, "%s:\n", f.Name)
		reportResult(out, res)
		if importErr != nil {
			return fmt.Errorf("%s: %w", f.Name, importErr)
		}
		if err := parser.MarkProcessed(dir, f.Name); err != nil {
			return err
		}
	}
	return nil
}

func printPreview(w io.Writer, txns []model.Transaction) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "type\tamount")
	for _, t := range txns {
		fmt.Fprintf(tw, "%s\t%s\n", t.Type, t.Amount.StringFixed(2))
	}
	tw.Flush()
}

func reportResult(w io.Writer, res wallet.Result) {
	for _, d := range res.Duplicates {
		color.New(color.FgYellow).Fprintf(w, "DUPLICATE: %s %s %s\n",
			d.TransactionID, d.Name, d.Amount.StringFixed(2))
	}
	color.New(color.FgGreen).Fprintf(w, "%d transactions imported.\n", res.Imported)
}
