package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// draftView is the part of the draft response the CLI renders.
type draftView struct {
	ID        string `json:"id"`
	ValueDate string `json:"value_date"`
	Narration string `json:"narration"`
	Lines     []struct {
		Index        int    `json:"index"`
		AccountNo    string `json:"account_no"`
		DrCr         string `json:"dr_cr"`
		Currency     string `json:"currency"`
		FcyAmt       string `json:"fcy_amt"`
		ExchangeRate string `json:"exchange_rate"`
		LcyAmt       string `json:"lcy_amt"`
		RateType     string `json:"rate_type"`
		Memo         string `json:"memo"`
	} `json:"lines"`
	Totals struct {
		DebitLcy        string `json:"debit_lcy"`
		CreditLcy       string `json:"credit_lcy"`
		Difference      string `json:"difference"`
		Balanced        bool   `json:"balanced"`
		DisplayCurrency string `json:"display_currency"`
	} `json:"totals"`
	Validation struct {
		OK         bool `json:"ok"`
		Violations []struct {
			Kind    string `json:"kind"`
			Line    int    `json:"line"`
			Message string `json:"message"`
		} `json:"violations"`
		Warnings []struct {
			Kind string `json:"kind"`
			Line int    `json:"line"`
		} `json:"warnings"`
	} `json:"validation"`
}

func draftsCmd(opts *options) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "drafts",
		Short: "Build and submit transaction drafts",
	}
	cmd.PersistentFlags().BoolVar(&asJSON, "json", false, "Print the raw draft JSON")

	render := func(raw json.RawMessage) error {
		if asJSON {
			return opts.printJSON(raw)
		}
		var v draftView
		if err := json.Unmarshal(raw, &v); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
		return opts.printDraft(v)
	}

	send := func(method, path string, body any, headers ...string) error {
		var raw json.RawMessage
		if err := opts.call(method, path, body, &raw, headers...); err != nil {
			return err
		}
		return render(raw)
	}

	var valueDate, narration string
	create := &cobra.Command{
		Use:   "create",
		Short: "Start a new draft with one debit and one credit line",
		RunE: func(cmd *cobra.Command, args []string) error {
			return send(http.MethodPost, "/api/v1/drafts/", map[string]string{
				"value_date": valueDate,
				"narration":  narration,
			})
		},
	}
	create.Flags().StringVar(&valueDate, "value-date", "", "Value date (YYYY-MM-DD), defaults to today")
	create.Flags().StringVar(&narration, "narration", "", "Transaction narration")

	get := &cobra.Command{
		Use:   "get <draft-id>",
		Short: "Show a draft with totals and validation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return send(http.MethodGet, draftPath(args[0]), nil)
		},
	}

	discard := &cobra.Command{
		Use:   "discard <draft-id>",
		Short: "Throw a draft away",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.call(http.MethodDelete, draftPath(args[0]), nil, nil); err != nil {
				return err
			}
			fmt.Fprintf(opts.out, "Draft %s discarded\n", args[0])
			return nil
		},
	}

	validate := &cobra.Command{
		Use:   "validate <draft-id>",
		Short: "Run validation and show every violation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return send(http.MethodPost, draftPath(args[0])+"/validate", nil)
		},
	}

	var idemKey string
	submit := &cobra.Command{
		Use:   "submit <draft-id>",
		Short: "Post a valid draft to core banking",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var out json.RawMessage
			err := opts.call(http.MethodPost, draftPath(args[0])+"/submit", nil, &out, "Idempotency-Key", idemKey)

			var apiErr *apiError
			if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnprocessableEntity && !asJSON {
				var rejected struct {
					Draft *draftView `json:"draft"`
				}
				if json.Unmarshal([]byte(apiErr.Body), &rejected) == nil && rejected.Draft != nil {
					_ = opts.printDraft(*rejected.Draft)
					return errors.New("draft is not valid, nothing was posted")
				}
			}
			if err != nil {
				return err
			}

			return opts.printJSON(out)
		},
	}
	submit.Flags().StringVar(&idemKey, "idempotency-key", "", "Idempotency key for safe retries")

	cmd.AddCommand(create, get, discard, validate, submit, linesCmd(opts, send))

	return cmd
}

type sendFunc func(method, path string, body any, headers ...string) error

func linesCmd(opts *options, send sendFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "line",
		Short: "Edit draft lines",
	}

	var drCr string
	add := &cobra.Command{
		Use:   "add <draft-id>",
		Short: "Append a line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return send(http.MethodPost, draftPath(args[0])+"/lines", map[string]string{"dr_cr": drCr})
		},
	}
	add.Flags().StringVar(&drCr, "dr-cr", "C", "Direction of the new line (D or C)")

	remove := &cobra.Command{
		Use:   "remove <draft-id> <index>",
		Short: "Remove a line",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := linePath(args[0], args[1])
			if err != nil {
				return err
			}
			return send(http.MethodDelete, path, nil)
		},
	}

	var account, direction, currency, rateType, amount, memo string
	var refresh bool
	set := &cobra.Command{
		Use:   "set <draft-id> <index>",
		Short: "Change fields of a line",
		Long: `Change fields of a line. Fields are applied in order: account, direction,
currency, rate type, amount, memo. The draft is printed after the last change.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := linePath(args[0], args[1])
			if err != nil {
				return err
			}

			type edit struct {
				flag  string
				field string
				key   string
				value *string
			}
			edits := []edit{
				{"account", "/account", "account_no", &account},
				{"direction", "/direction", "dr_cr", &direction},
				{"currency", "/currency", "currency", &currency},
				{"rate-type", "/rate-type", "rate_type", &rateType},
				{"amount", "/amount", "amount", &amount},
				{"memo", "/memo", "memo", &memo},
			}

			type request struct {
				method, path, name string
				body               any
			}
			var reqs []request
			for _, e := range edits {
				if cmd.Flags().Changed(e.flag) {
					reqs = append(reqs, request{http.MethodPut, path + e.field, e.flag, map[string]string{e.key: *e.value}})
				}
			}
			if refresh {
				reqs = append(reqs, request{http.MethodPost, path + "/rate/refresh", "refresh-rate", nil})
			}

			if len(reqs) == 0 {
				return errors.New("nothing to change, pass at least one field flag")
			}

			// only the final state is printed
			for i, r := range reqs {
				var err error
				if i == len(reqs)-1 {
					err = send(r.method, r.path, r.body)
				} else {
					err = opts.call(r.method, r.path, r.body, nil)
				}
				if err != nil {
					return fmt.Errorf("%s: %w", r.name, err)
				}
			}

			return nil
		},
	}
	set.Flags().StringVar(&account, "account", "", "Account number")
	set.Flags().StringVar(&direction, "direction", "", "D or C")
	set.Flags().StringVar(&currency, "currency", "", "Transaction currency (local currency accounts only)")
	set.Flags().StringVar(&rateType, "rate-type", "", "MID, BUYING or SELLING")
	set.Flags().StringVar(&amount, "amount", "", "Amount in transaction currency")
	set.Flags().StringVar(&memo, "memo", "", "Line memo")
	set.Flags().BoolVar(&refresh, "refresh-rate", false, "Fetch the latest rate for the line")

	cmd.AddCommand(add, remove, set)

	return cmd
}

func draftPath(id string) string {
	return "/api/v1/drafts/" + id
}

func linePath(id, idx string) (string, error) {
	n, err := strconv.Atoi(idx)
	if err != nil || n < 0 {
		return "", fmt.Errorf("invalid line index %q", idx)
	}
	return fmt.Sprintf("%s/lines/%d", draftPath(id), n), nil
}

func (o *options) printDraft(v draftView) error {
	fmt.Fprintf(o.out, "Draft %s  value date %s  %s\n\n", v.ID, v.ValueDate, truncate(v.Narration, 40))

	tw := tabwriter.NewWriter(o.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tACCOUNT\tD/C\tCCY\tAMOUNT\tRATE\tTYPE\tLCY\tMEMO")
	for _, l := range v.Lines {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			l.Index, l.AccountNo, l.DrCr, l.Currency, l.FcyAmt, l.ExchangeRate, l.RateType, l.LcyAmt, truncate(l.Memo, 24))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	state := "BALANCED"
	if !v.Totals.Balanced {
		state = "NOT BALANCED, difference " + v.Totals.Difference
	}
	fmt.Fprintf(o.out, "\nDebit %s  Credit %s  (%s)  %s\n", v.Totals.DebitLcy, v.Totals.CreditLcy, v.Totals.DisplayCurrency, state)

	for _, vio := range v.Validation.Violations {
		fmt.Fprintf(o.out, "  error   %s: %s\n", lineLabel(vio.Line), vio.Message)
	}
	for _, w := range v.Validation.Warnings {
		fmt.Fprintf(o.out, "  warning %s: %s\n", lineLabel(w.Line), w.Kind)
	}

	return nil
}

func lineLabel(idx int) string {
	if idx < 0 {
		return "transaction"
	}
	return "line " + strconv.Itoa(idx)
}
