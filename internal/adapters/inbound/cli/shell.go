package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/abdidvp/flooring/internal/adapters/outbound/tui"
	"github.com/abdidvp/flooring/internal/application"
	"github.com/abdidvp/flooring/internal/domain"
	"github.com/abdidvp/flooring/internal/logger"
	"github.com/spf13/cobra"
)

var errQuit = errors.New("quit")

func newShellCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Run the interactive order menu",
		Long:  "Open the ledger once and work through a numbered menu: display, add, edit and remove orders, or export everything.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := openLedger(cmd, opts)
			if err != nil {
				return err
			}
			s := &shell{
				ledger: l,
				in:     bufio.NewScanner(cmd.InOrStdin()),
				out:    cmd.OutOrStdout(),
			}
			return s.run()
		},
	}
}

// shell drives the menu over one long-lived ledger, so orders added during
// the session stay in memory between choices.
type shell struct {
	ledger *ledger
	in     *bufio.Scanner
	out    io.Writer
}

func (s *shell) run() error {
	actions := []func() error{s.display, s.add, s.edit, s.remove, s.export, s.quit}
	for {
		fmt.Fprint(s.out, tui.RenderMenu())
		line, err := s.prompt(fmt.Sprintf("Choose an option (1-%d)", len(actions)))
		if err != nil {
			return ignoreQuit(err)
		}

		choice, convErr := strconv.Atoi(line)
		if convErr != nil || choice < 1 || choice > len(actions) {
			fmt.Fprint(s.out, tui.RenderFailure(fmt.Sprintf("Please enter a number from 1 to %d", len(actions))))
			continue
		}

		if err := actions[choice-1](); err != nil {
			if errors.Is(err, errQuit) || errors.Is(err, io.EOF) {
				return ignoreQuit(err)
			}
			s.report(err)
		}
	}
}

func (s *shell) display() error {
	date, err := s.promptDate()
	if err != nil {
		return err
	}
	fmt.Fprint(s.out, tui.RenderOrders(date, s.ledger.service.ListOrders(date)))
	return nil
}

func (s *shell) add() error {
	dateS, err := s.prompt("Order date (MM/DD/YYYY, after today)")
	if err != nil {
		return err
	}
	name, err := s.prompt("Customer name")
	if err != nil {
		return err
	}
	state, err := s.prompt("State (" + s.stateList() + ")")
	if err != nil {
		return err
	}
	product, err := s.prompt("Product (" + s.productList() + ")")
	if err != nil {
		return err
	}
	areaS, err := s.prompt("Area (min 100)")
	if err != nil {
		return err
	}

	req, err := newAddRequest(dateS, name, state, product, areaS)
	if err != nil {
		return err
	}
	order, err := s.ledger.service.AddOrder(req)
	if err != nil {
		return reportFailure(s.ledger.log, "add", req.Date, order.OrderNumber, err)
	}
	s.ledger.log.Info("order added", logger.OrderAttrs(req.Date, order.OrderNumber)...)
	fmt.Fprint(s.out, tui.RenderOrder(req.Date, order))
	return nil
}

func (s *shell) edit() error {
	key, current, err := s.promptOrder()
	if err != nil {
		return err
	}
	fmt.Fprint(s.out, tui.RenderOrder(key.Date, current))

	fields := []struct {
		label, value string
	}{
		{"Customer name", current.CustomerName},
		{"State", current.State},
		{"Product", current.ProductType},
		{"Area", current.Area.StringFixed(domain.Scale)},
	}
	answers := make([]*string, len(fields))
	for i, f := range fields {
		v, err := s.prompt(fmt.Sprintf("%s [%s] (blank keeps it)", f.label, f.value))
		if err != nil {
			return err
		}
		if v != "" {
			answers[i] = &v
		}
	}

	edits, err := newOrderEdits(answers[0], answers[1], answers[2], answers[3])
	if err != nil {
		return err
	}
	order, err := s.ledger.service.EditAnOrder(application.EditOrderRequest{OrderKey: key, Edits: edits})
	if err != nil {
		return reportFailure(s.ledger.log, "edit", key.Date, key.OrderNumber, err)
	}
	s.ledger.log.Info("order edited", logger.OrderAttrs(key.Date, key.OrderNumber)...)
	fmt.Fprint(s.out, tui.RenderOrder(key.Date, order))
	return nil
}

func (s *shell) remove() error {
	key, current, err := s.promptOrder()
	if err != nil {
		return err
	}
	fmt.Fprint(s.out, tui.RenderOrder(key.Date, current))

	ok, err := s.confirm("Remove this order?")
	if err != nil || !ok {
		return err
	}
	if _, err := s.ledger.service.RemoveOrder(key); err != nil {
		return reportFailure(s.ledger.log, "remove", key.Date, key.OrderNumber, err)
	}
	s.ledger.log.Info("order removed", logger.OrderAttrs(key.Date, key.OrderNumber)...)
	fmt.Fprint(s.out, tui.RenderSuccess(fmt.Sprintf("Order %d removed", key.OrderNumber)))
	return nil
}

func (s *shell) export() error {
	if err := s.ledger.service.ExportAll(); err != nil {
		return err
	}
	fmt.Fprint(s.out, tui.RenderSuccess("Exported to "+s.ledger.cfg.ExportFile))
	return nil
}

func (s *shell) quit() error {
	fmt.Fprintln(s.out, "\n  Thank you for your business!")
	return errQuit
}

func (s *shell) promptDate() (domain.OrderDate, error) {
	v, err := s.prompt("Order date (MM/DD/YYYY)")
	if err != nil {
		return domain.OrderDate{}, err
	}
	return domain.ParseOrderDate(v)
}

func (s *shell) promptOrder() (application.OrderKey, domain.Order, error) {
	date, err := s.promptDate()
	if err != nil {
		return application.OrderKey{}, domain.Order{}, err
	}
	v, err := s.prompt("Order number")
	if err != nil {
		return application.OrderKey{}, domain.Order{}, err
	}
	n, convErr := strconv.Atoi(v)
	if convErr != nil {
		return application.OrderKey{}, domain.Order{}, &domain.ValidationError{Field: "order number", Reason: fmt.Sprintf("%q is not a number", v)}
	}
	key := application.OrderKey{Date: date, OrderNumber: n}
	order, err := s.ledger.service.GetOrder(key)
	return key, order, err
}

func (s *shell) confirm(question string) (bool, error) {
	v, err := s.prompt(question + " (y/n)")
	if err != nil {
		return false, err
	}
	return strings.EqualFold(v, "y") || strings.EqualFold(v, "yes"), nil
}

// prompt writes label and returns the next trimmed input line, or io.EOF
// once input is exhausted.
func (s *shell) prompt(label string) (string, error) {
	fmt.Fprintf(s.out, "  %s: ", label)
	if !s.in.Scan() {
		if err := s.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(s.in.Text()), nil
}

func (s *shell) report(err error) {
	if errors.Is(err, domain.ErrIOFailure) {
		fmt.Fprint(s.out, tui.RenderWarning("Saved in memory but the audit file was not updated: "+err.Error()))
		return
	}
	fmt.Fprint(s.out, tui.RenderFailure(err.Error()))
}

func (s *shell) stateList() string {
	states := s.ledger.taxes.States()
	codes := make([]string, 0, len(states))
	for _, st := range states {
		codes = append(codes, st.Abbreviation)
	}
	return strings.Join(codes, ", ")
}

func (s *shell) productList() string {
	products := s.ledger.products.Products()
	names := make([]string, 0, len(products))
	for _, p := range products {
		names = append(names, p.ProductType)
	}
	return strings.Join(names, ", ")
}

func ignoreQuit(err error) error {
	if errors.Is(err, errQuit) || errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
