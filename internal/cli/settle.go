package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/BurntSushi/toml"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/mmynk/budgetlink/internal/calculator"
)

// settleFile is the TOML input accepted by `settle -f`.
//
//	policy = "first_n"
//	participants = ["Alice", "Bob"]
//
//	[[expenses]]
//	description = "Groceries"
//	paid_by = "Alice"
//	amount = "120.50"
//	split_between = 2
type settleFile struct {
	Policy       string          `toml:"policy"`
	Participants []string        `toml:"participants"`
	Expenses     []settleExpense `toml:"expenses"`
}

type settleExpense struct {
	ID           string          `toml:"id"`
	Description  string          `toml:"description"`
	PaidBy       string          `toml:"paid_by"`
	Amount       decimal.Decimal `toml:"amount"`
	SplitBetween int             `toml:"split_between"`
}

func newSettleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settle",
		Short: "Compute balances and settlement transfers offline",
		Long: `Compute who owes whom from a list of participants and expenses, without a server.

Input comes from a TOML file (-f) or from flags:

  budgetlink settle -p Alice -p Bob -p Charlie \
    -e Alice:120.50:3:Groceries -e Bob:85:3:Utilities -e Alice:55:2:Dinner

Each -e is payer:amount:split_between[:description].`,
		Args: cobra.NoArgs,
		RunE: runSettle,
	}
	cmd.Flags().StringP("file", "f", "", "TOML file with participants and expenses")
	cmd.Flags().StringSliceP("participant", "p", nil, "Participant name, in order (repeatable)")
	cmd.Flags().StringArrayP("expense", "e", nil, "Expense as payer:amount:split[:description] (repeatable)")
	cmd.Flags().String("policy", "", "Split policy: all or first_n (overrides the file)")
	cmd.Flags().String("epsilon", "", "Settled-balance threshold (default 0.01)")
	return cmd
}

func runSettle(cmd *cobra.Command, _ []string) error {
	in, err := settleInput(cmd)
	if err != nil {
		return err
	}

	opts := []calculator.Option{}
	policyName := in.Policy
	if p, _ := cmd.Flags().GetString("policy"); p != "" {
		policyName = p
	}
	policy, err := calculator.ParseSplitPolicy(policyName)
	if err != nil {
		return err
	}
	opts = append(opts, calculator.WithPolicy(policy))

	epsilon := calculator.DefaultEpsilon
	if s, _ := cmd.Flags().GetString("epsilon"); s != "" {
		epsilon, err = decimal.NewFromString(s)
		if err != nil || !epsilon.IsPositive() {
			return fmt.Errorf("invalid epsilon %q: must be a positive number", s)
		}
		opts = append(opts, calculator.WithEpsilon(epsilon))
	}

	expenses := make([]calculator.Expense, len(in.Expenses))
	for i, e := range in.Expenses {
		id := e.ID
		if id == "" {
			id = strconv.Itoa(i + 1)
		}
		expenses[i] = calculator.Expense{
			ID:           id,
			Description:  e.Description,
			PaidBy:       e.PaidBy,
			Amount:       e.Amount,
			SplitBetween: e.SplitBetween,
		}
	}

	settlement, err := calculator.ComputeSettlement(in.Participants, expenses, opts...)
	if err != nil {
		return err
	}
	for _, w := range settlement.Warnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", w)
	}

	return printSettlement(cmd.OutOrStdout(), in.Participants, settlement, epsilon)
}

func settleInput(cmd *cobra.Command) (*settleFile, error) {
	in := &settleFile{}
	if path, _ := cmd.Flags().GetString("file"); path != "" {
		if _, err := toml.DecodeFile(path, in); err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
	}

	if participants, _ := cmd.Flags().GetStringSlice("participant"); len(participants) > 0 {
		in.Participants = participants
	}
	flagExpenses, _ := cmd.Flags().GetStringArray("expense")
	for _, raw := range flagExpenses {
		e, err := parseExpenseFlag(raw)
		if err != nil {
			return nil, err
		}
		in.Expenses = append(in.Expenses, e)
	}

	if len(in.Participants) == 0 {
		return nil, fmt.Errorf("no participants: use -f FILE or -p NAME")
	}
	return in, nil
}

// parseExpenseFlag parses payer:amount:split[:description].
func parseExpenseFlag(raw string) (settleExpense, error) {
	parts := strings.SplitN(raw, ":", 4)
	if len(parts) < 3 {
		return settleExpense{}, fmt.Errorf("invalid expense %q: want payer:amount:split[:description]", raw)
	}
	amount, err := decimal.NewFromString(strings.TrimSpace(parts[1]))
	if err != nil {
		return settleExpense{}, fmt.Errorf("invalid expense %q: bad amount: %w", raw, err)
	}
	split, err := strconv.Atoi(strings.TrimSpace(parts[2]))
	if err != nil {
		return settleExpense{}, fmt.Errorf("invalid expense %q: bad split: %w", raw, err)
	}
	e := settleExpense{
		PaidBy:       strings.TrimSpace(parts[0]),
		Amount:       amount,
		SplitBetween: split,
	}
	if len(parts) == 4 {
		e.Description = parts[3]
	}
	return e, nil
}

func printSettlement(out io.Writer, participants []string, s *calculator.Settlement, epsilon decimal.Decimal) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "NAME\tPAID\tOWED\tNET\t")
	for _, m := range s.MemberBalances {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t\n", m.Name, m.Paid.StringFixed(2), m.Owed.StringFixed(2), m.Net.StringFixed(2))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(out, "\nTotal expenses: %s\n", s.TotalExpenses.StringFixed(2))

	if len(s.Transfers) == 0 {
		fmt.Fprintln(out, "\nNo transfers needed.")
	} else {
		fmt.Fprintln(out, "\nTransfers:")
		for _, t := range s.Transfers {
			fmt.Fprintf(out, "  %s pays %s %s\n", t.From, t.To, t.Amount.StringFixed(2))
		}
	}

	after := calculator.ApplyTransfers(s.Balances, s.Transfers)
	var residual []string
	for _, name := range participants {
		if b := after[name]; b.Abs().GreaterThanOrEqual(epsilon) {
			residual = append(residual, fmt.Sprintf("%s %s", name, b.StringFixed(2)))
		}
	}
	if len(residual) == 0 {
		fmt.Fprintln(out, "\nAll balances settled.")
		return nil
	}
	fmt.Fprintf(out, "\nUnsettled after transfers: %s\n", strings.Join(residual, ", "))
	return nil
}
