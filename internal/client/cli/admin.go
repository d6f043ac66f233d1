package cli

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/CyberKyoujin/rosenblum-website-sub000/internal/client/models"
)

func (a *App) adminOrders(ctx context.Context, args []string) error {
	page, err := a.admin.Orders(ctx, listParams(args))
	if err != nil {
		return err
	}
	a.printOrders(page.Results)
	pageFooter(a, page)
	return nil
}

// adminOrder shows one order and marks it as seen.
func (a *App) adminOrder(ctx context.Context, args []string) error {
	id, err := parseID(args, 0, "order id")
	if err != nil {
		return err
	}
	o, err := a.admin.Order(ctx, id)
	if err != nil {
		return err
	}

	a.table("FIELD\tVALUE", func(w io.Writer) {
		fmt.Fprintf(w, "id\t%d\n", o.ID)
		fmt.Fprintf(w, "status\t%s\n", o.Status)
		fmt.Fprintf(w, "type\t%s\n", o.OrderType)
		fmt.Fprintf(w, "created\t%s\n", o.FormattedTimestamp)
		fmt.Fprintf(w, "name\t%s\n", o.Name)
		fmt.Fprintf(w, "e-mail\t%s\n", o.Email)
		fmt.Fprintf(w, "phone\t%s\n", o.PhoneNumber)
		fmt.Fprintf(w, "address\t%s %s %s\n", o.Street, o.Zip, o.City)
		for _, f := range o.Files {
			fmt.Fprintf(w, "file\t%s %s\n", f.FileName, f.FileURL)
		}
	})
	if o.Message != "" {
		a.println(o.Message)
	}

	if o.IsNew {
		if err := a.admin.ToggleOrder(ctx, id); err != nil {
			a.log.Warn(ctx, "could not mark order as seen", "id", id, "error", err)
		}
	}
	return nil
}

func (a *App) setStatus(ctx context.Context, args []string) error {
	id, err := parseID(args, 0, "order id")
	if err != nil {
		return err
	}
	status, err := a.argOrAsk(args, 1, "New status (review, in_progress, completed)")
	if err != nil {
		return err
	}
	o, err := a.admin.UpdateOrder(ctx, id, models.OrderUpdate{Status: &status})
	if err != nil {
		return err
	}
	a.printf("Order #%d is now %s.\n", o.ID, o.Status)
	return nil
}

func (a *App) deleteOrder(ctx context.Context, args []string) error {
	id, err := parseID(args, 0, "order id")
	if err != nil {
		return err
	}
	if err := a.admin.DeleteOrder(ctx, id); err != nil {
		return err
	}
	a.printf("Order #%d deleted.\n", id)
	return nil
}

func (a *App) customerOrders(ctx context.Context, args []string) error {
	id, err := parseID(args, 0, "user id")
	if err != nil {
		return err
	}
	orders, err := a.admin.UserOrders(ctx, id)
	if err != nil {
		return err
	}
	a.printOrders(orders)
	return nil
}

func (a *App) customers(ctx context.Context, args []string) error {
	page, err := a.admin.Customers(ctx, listParams(args))
	if err != nil {
		return err
	}
	if len(page.Results) == 0 {
		a.println("No customers.")
		return nil
	}
	a.table("ID\tE-MAIL\tNAME", func(w io.Writer) {
		for _, c := range page.Results {
			fmt.Fprintf(w, "%d\t%s\t%s\n", c.ID, c.Email, strings.TrimSpace(c.FirstName+" "+c.LastName))
		}
	})
	pageFooter(a, page)
	return nil
}

func (a *App) requests(ctx context.Context, args []string) error {
	page, err := a.admin.Requests(ctx, listParams(args))
	if err != nil {
		return err
	}
	if len(page.Results) == 0 {
		a.println("No requests.")
		return nil
	}
	a.table("ID\tNEW\tWHEN\tNAME\tE-MAIL\tMESSAGE", func(w io.Writer) {
		for _, r := range page.Results {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n", r.ID, newMark(r.IsNew), r.FormattedTimestamp,
				r.Name, r.Email, strings.ReplaceAll(r.Message, "\n", " "))
		}
	})
	pageFooter(a, page)
	return nil
}

// answers lists the replies to a request and marks the request as seen.
func (a *App) answers(ctx context.Context, args []string) error {
	id, err := parseID(args, 0, "request id")
	if err != nil {
		return err
	}
	list, err := a.admin.RequestAnswers(ctx, id)
	if err != nil {
		return err
	}
	if err := a.admin.ToggleRequest(ctx, id); err != nil {
		a.log.Warn(ctx, "could not mark request as seen", "id", id, "error", err)
	}

	if len(list) == 0 {
		a.println("No answers yet.")
		return nil
	}
	for _, ans := range list {
		a.printf("[%s] %s\n", ans.FormattedTimestamp, ans.AnswerText)
	}
	return nil
}

func (a *App) answer(ctx context.Context, args []string) error {
	id, err := parseID(args, 0, "request id")
	if err != nil {
		return err
	}
	text, err := GetMultiline(a.reader, "Answer", a.out)
	if err != nil {
		return err
	}
	ans, err := a.admin.AnswerRequest(ctx, id, text)
	if err != nil {
		return err
	}
	a.printf("Answer #%d sent.\n", ans.ID)
	return nil
}

func (a *App) translations(ctx context.Context, args []string) error {
	page, err := a.admin.Translations(ctx, listParams(args))
	if err != nil {
		return err
	}
	if len(page.Results) == 0 {
		a.println("No translations.")
		return nil
	}
	a.table("ID\tWHEN\tNAME", func(w io.Writer) {
		for _, t := range page.Results {
			fmt.Fprintf(w, "%d\t%s\t%s\n", t.ID, t.FormattedTimestamp, t.Name)
		}
	})
	pageFooter(a, page)
	return nil
}

func (a *App) addTranslation(ctx context.Context, _ []string) error {
	var t models.Translation
	var err error
	if t.Name, err = a.ask("Name"); err != nil {
		return err
	}
	if t.InitialText, err = GetMultiline(a.reader, "Original text", a.out); err != nil {
		return err
	}
	if t.TranslatedText, err = GetMultiline(a.reader, "Translated text", a.out); err != nil {
		return err
	}
	saved, err := a.admin.SaveTranslation(ctx, t)
	if err != nil {
		return err
	}
	a.printf("Translation #%d saved.\n", saved.ID)
	return nil
}

func (a *App) deleteTranslation(ctx context.Context, args []string) error {
	id, err := parseID(args, 0, "translation id")
	if err != nil {
		return err
	}
	if err := a.admin.DeleteTranslation(ctx, id); err != nil {
		return err
	}
	a.printf("Translation #%d deleted.\n", id)
	return nil
}

// reply sends a message to a customer and marks the customer's messages as
// read.
func (a *App) reply(ctx context.Context, args []string) error {
	id, err := parseID(args, 0, "user id")
	if err != nil {
		return err
	}
	text, err := GetMultiline(a.reader, "Message", a.out)
	if err != nil {
		return err
	}
	uploads, closeAll, err := openUploads(args[1:])
	if err != nil {
		return err
	}
	defer closeAll()

	msg, err := a.admin.SendMessage(ctx, id, text, uploads...)
	if err != nil {
		return err
	}
	if _, err := a.admin.ToggleMessages(ctx, id); err != nil {
		a.log.Warn(ctx, "could not mark messages as read", "sender", id, "error", err)
	}
	a.printf("Message #%d sent.\n", msg.ID)
	return nil
}

func (a *App) stats(ctx context.Context, _ []string) error {
	st, err := a.admin.Statistics(ctx)
	if err != nil {
		return err
	}

	if st.Base != nil {
		a.printf("Orders: %d total, %d new\n", st.Base.TotalOrders, st.Base.NewOrders)
	}
	if len(st.Status) > 0 {
		a.println("\nBy status:")
		a.table("STATUS\tCOUNT", func(w io.Writer) {
			for _, s := range st.Status {
				fmt.Fprintf(w, "%s\t%d\n", s.Label, s.Value)
			}
		})
	}
	if len(st.Types) > 0 {
		a.println("\nBy type:")
		a.table("TYPE\tCOUNT", func(w io.Writer) {
			for _, t := range st.Types {
				fmt.Fprintf(w, "%s\t%d\n", t.OrderType, t.Value)
			}
		})
	}
	a.printPeriods("Orders per month", st.Dynamics)
	a.printPeriods("New customers per month", st.Growth)
	if len(st.Geography) > 0 {
		a.println("\nCustomers by city:")
		a.table("CITY\tCOUNT", func(w io.Writer) {
			for _, g := range st.Geography {
				fmt.Fprintf(w, "%s\t%d\n", g.City, g.Count)
			}
		})
	}
	if st.Comparison != nil {
		a.printPeriods("Orders (comparison)", st.Comparison.Orders)
		a.printPeriods("Requests (comparison)", st.Comparison.Requests)
	}

	failed := st.Errors()
	if len(failed) > 0 {
		names := make([]string, 0, len(failed))
		for name := range failed {
			names = append(names, name)
		}
		sort.Strings(names)
		a.println()
		for _, name := range names {
			a.printf("%s: unavailable (%s)\n", name, failed[name].Message)
		}
	}
	return nil
}

func (a *App) printPeriods(title string, periods []models.PeriodCount) {
	if len(periods) == 0 {
		return
	}
	a.printf("\n%s:\n", title)
	a.table("PERIOD\tCOUNT", func(w io.Writer) {
		for _, p := range periods {
			fmt.Fprintf(w, "%s\t%d\n", p.Period, p.Count)
		}
	})
}
