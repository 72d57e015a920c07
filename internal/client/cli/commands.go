package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/bankadmin/internal/client/api"
	"github.com/dmitrijs2005/bankadmin/internal/client/models"
	"github.com/dmitrijs2005/bankadmin/internal/client/services"
)

// errUsage marks a malformed command line; its text is the usage hint.
var errUsage = errors.New("usage")

func usage(format string) error {
	return fmt.Errorf("%w: %s", errUsage, format)
}

// report prints a command failure. Expired sessions are announced by the
// auth guard, so they are not repeated here.
func report(err error) {
	switch {
	case err == nil, errors.Is(err, api.ErrUnauthorized):
	case errors.Is(err, errUsage):
		printlnFn(strings.TrimPrefix(err.Error(), "usage: "))
	default:
		printlnFn("error:", err)
	}
}

func (a *App) Login(ctx context.Context) error {
	email, err := GetSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := GetPassword(a.reader, a.out)
	if err != nil {
		return err
	}

	raw, err := a.authService.Login(ctx, email, password)
	if err != nil {
		return err
	}

	var u models.User
	if err := json.Unmarshal(raw, &u); err != nil {
		a.logger.Debug(ctx, "decode logged-in user", "error", err)
	}
	if u.Email == "" {
		u.Email = email
	}
	fmt.Fprintf(a.out, "Logged in as %s <%s>\n", u.FullName, u.Email)
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if a.authService.Logout(ctx) {
		fmt.Fprintln(a.out, "Logged out")
	} else {
		fmt.Fprintln(a.out, "Not logged in")
	}
	return nil
}

func (a *App) WhoAmI(ctx context.Context) error {
	var u models.User
	if err := json.Unmarshal(a.session.User(), &u); err != nil {
		return fmt.Errorf("decode session user: %w", err)
	}
	fmt.Fprintf(a.out, "%s <%s> role=%s\n", u.FullName, u.Email, u.Role)
	if exp := a.session.ExpiresAt(); !exp.IsZero() {
		fmt.Fprintf(a.out, "token expires %s\n", exp.Local().Format("2006-01-02 15:04:05"))
	}
	return nil
}

func (a *App) Users(ctx context.Context, args []string) error {
	f := services.UserFilter{}
	if len(args) > 0 {
		p, err := strconv.Atoi(args[0])
		if err != nil {
			return usage("users [page] [search]")
		}
		f.Page = p
		f.Search = strings.Join(args[1:], " ")
	}

	page, err := a.userService.List(ctx, f)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tSTATUS\tBALANCE")
	for _, u := range page.Items {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%.2f\n", u.ID, u.FullName, u.Email, u.Status, u.Balance)
	}
	_ = tw.Flush()
	a.printPage(f.Page, page.LastPage)
	return nil
}

func (a *App) User(ctx context.Context, args []string) error {
	id, err := idArg(args, "user <id>")
	if err != nil {
		return err
	}
	u, err := a.userService.Get(ctx, id)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "ID\t%d\n", u.ID)
	fmt.Fprintf(tw, "Name\t%s\n", u.FullName)
	fmt.Fprintf(tw, "Email\t%s\n", u.Email)
	fmt.Fprintf(tw, "Phone\t%s\n", u.Phone)
	fmt.Fprintf(tw, "Country\t%s\n", u.Country)
	fmt.Fprintf(tw, "Balance\t%.2f\n", u.Balance)
	fmt.Fprintf(tw, "Status\t%s\n", u.Status)
	fmt.Fprintf(tw, "Role\t%s\n", u.Role)
	return tw.Flush()
}

func (a *App) UserStatus(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return usage("userstatus <id> <status>")
	}
	id, err := idArg(args[:1], "userstatus <id> <status>")
	if err != nil {
		return err
	}
	status, err := models.ParseUserStatus(strings.ToUpper(args[1]))
	if err != nil {
		return err
	}

	u, err := a.userService.SetStatus(ctx, id, status)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "User %d is now %s\n", u.ID, u.Status)
	return nil
}

func (a *App) Banks(ctx context.Context, args []string) error {
	f := services.BankFilter{}
	if len(args) > 0 {
		p, err := strconv.Atoi(args[0])
		if err != nil {
			return usage("banks [page]")
		}
		f.Page = p
	}

	page, err := a.bankService.List(ctx, f)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tTYPE\tSTATUS")
	for _, b := range page.Items {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", b.ID, b.Name, b.AccountType, b.Status)
	}
	_ = tw.Flush()
	a.printPage(f.Page, page.LastPage)
	return nil
}

func (a *App) Bank(ctx context.Context, args []string) error {
	id, err := idArg(args, "bank <id>")
	if err != nil {
		return err
	}
	b, err := a.bankService.Get(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%d %s (%s) %s\n%s\n", b.ID, b.Name, b.AccountType, b.Status, b.Address)
	return nil
}

func (a *App) Accounts(ctx context.Context, args []string) error {
	f := services.BankAccountFilter{}
	if len(args) > 0 {
		p, err := strconv.Atoi(args[0])
		if err != nil {
			return usage("accounts [page] [bank_id]")
		}
		f.Page = p
	}
	if len(args) > 1 {
		id, err := idArg(args[1:], "accounts [page] [bank_id]")
		if err != nil {
			return err
		}
		f.BankID = id
	}

	page, err := a.accountService.List(ctx, f)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNUMBER\tBANK\tOWNER\tOPEN")
	for _, acct := range page.Items {
		bank, owner := "", ""
		if acct.Bank != nil {
			bank = acct.Bank.Name
		}
		if acct.User != nil {
			owner = acct.User.FullName
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%t\n", acct.ID, acct.AccountNumber, bank, owner, acct.IsOpen)
	}
	_ = tw.Flush()
	a.printPage(f.Page, page.LastPage)
	return nil
}

func (a *App) Withdraws(ctx context.Context, args []string) error {
	f := services.WithdrawFilter{}
	if len(args) > 0 {
		p, err := strconv.Atoi(args[0])
		if err != nil {
			return usage("withdraws [page] [status]")
		}
		f.Page = p
	}
	if len(args) > 1 {
		st, err := models.ParseWithdrawStatus(strings.ToUpper(args[1]))
		if err != nil {
			return err
		}
		f.Status = st
	}

	page, err := a.withdrawService.List(ctx, f)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tUSER\tAMOUNT\tFEE\tSTATUS\tCREATED")
	for _, w := range page.Items {
		user := strconv.FormatInt(w.UserID, 10)
		if w.User != nil {
			user = w.User.FullName
		}
		fmt.Fprintf(tw, "%d\t%s\t%.2f\t%.2f %s\t%s\t%s\n",
			w.ID, user, w.Amount, w.Fee, w.FeeType, w.Status, w.CreatedAt.Format("2006-01-02"))
	}
	_ = tw.Flush()
	a.printPage(f.Page, page.LastPage)
	return nil
}

func (a *App) Approve(ctx context.Context, args []string) error {
	return a.settleWithdraw(ctx, args, models.WithdrawApproved, "approve <id>")
}

func (a *App) Reject(ctx context.Context, args []string) error {
	return a.settleWithdraw(ctx, args, models.WithdrawRejected, "reject <id>")
}

func (a *App) settleWithdraw(ctx context.Context, args []string, status models.WithdrawStatus, help string) error {
	id, err := idArg(args, help)
	if err != nil {
		return err
	}
	w, err := a.withdrawService.SetStatus(ctx, id, status)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Withdrawal %d is now %s\n", w.ID, w.Status)
	return nil
}

func (a *App) printPage(page, last int) {
	if page <= 0 {
		page = 1
	}
	fmt.Fprintf(a.out, "page %d of %d\n", page, last)
}

func idArg(args []string, help string) (int64, error) {
	if len(args) == 0 {
		return 0, usage(help)
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, usage(help)
	}
	return id, nil
}
